// Package rng provides the deterministic random source shared by every
// generation step. Two generators built from the same seed always produce
// the same sequence, which is what makes a dungeon reproducible from its seed.
package rng

import (
	"encoding/binary"
	"strings"

	"golang.org/x/crypto/blake2b"
)

const (
	multiplier = 1664525
	increment  = 1013904223
	modulus    = 4294967296.0 // 2^32
)

// RNG is a 32-bit linear congruential generator.
// It is not safe for concurrent use; each generation call owns its own RNG.
type RNG struct {
	seed  uint32
	state uint32
	calls int64
}

// New creates a generator from an integer seed. Only the low 32 bits are used.
func New(seed int64) *RNG {
	s := uint32(seed)
	return &RNG{seed: s, state: s}
}

// Seed returns the seed the generator was created with.
func (r *RNG) Seed() uint32 {
	return r.seed
}

// Calls returns the number of draws made so far.
func (r *RNG) Calls() int64 {
	return r.calls
}

// Next returns a float in [0,1).
// s = (s*1664525 + 1013904223) mod 2^32, output s/2^32
func (r *RNG) Next() float64 {
	r.state = r.state*multiplier + increment
	r.calls++
	return float64(r.state) / modulus
}

// Range returns a float in [min,max).
func (r *RNG) Range(min, max float64) float64 {
	return min + r.Next()*(max-min)
}

// Intn returns an int in [0,n). Returns 0 when n <= 0 without drawing.
func (r *RNG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	v := int(r.Next() * float64(n))
	if v >= n {
		v = n - 1
	}
	return v
}

// IntRange returns an int in [lo,hi], inclusive. Always draws exactly once.
func (r *RNG) IntRange(lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + int(r.Next()*float64(hi-lo+1))
}

// Chance returns true with probability p.
func (r *RNG) Chance(p float64) bool {
	return r.Next() < p
}

// WeightedIndex picks an index proportionally to weights.
// Non-positive weights are never chosen. Returns -1 if nothing is selectable.
func (r *RNG) WeightedIndex(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return -1
	}

	roll := r.Next() * total
	cumulative := 0.0
	last := -1
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		cumulative += w
		last = i
		if roll < cumulative {
			return i
		}
	}
	return last
}

// Shuffle permutes n elements with Fisher-Yates using swap.
func (r *RNG) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		swap(i, j)
	}
}

// Perturb derives the seed used for retry attempt k of a generation run.
func Perturb(seed int64, attempt int) int64 {
	return int64(uint32(seed + int64(attempt)*7919))
}

// SeedFromPhrase turns a human-readable seed phrase ("crimson-owl-cellar")
// into a numeric seed. Case and surrounding whitespace are ignored.
func SeedFromPhrase(phrase string) int64 {
	normalized := strings.ToLower(strings.TrimSpace(phrase))
	sum := blake2b.Sum256([]byte(normalized))
	return int64(binary.BigEndian.Uint32(sum[:4]))
}
