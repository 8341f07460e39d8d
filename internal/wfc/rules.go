package wfc

import "math/bits"

// MaxCatalogSize is the largest catalog a Bitset can index.
const MaxCatalogSize = 64

// Bitset is a set of tile IDs.
type Bitset uint64

// FullSet returns the set {0..n-1}.
func FullSet(n int) Bitset {
	if n >= MaxCatalogSize {
		return ^Bitset(0)
	}
	return Bitset(1)<<uint(n) - 1
}

// Has reports whether id is in the set
func (b Bitset) Has(id int) bool {
	return b&(1<<uint(id)) != 0
}

// With returns the set plus id
func (b Bitset) With(id int) Bitset {
	return b | 1<<uint(id)
}

// Count returns the number of members
func (b Bitset) Count() int {
	return bits.OnesCount64(uint64(b))
}

// Single returns the only member of a singleton set.
func (b Bitset) Single() (int, bool) {
	if b.Count() != 1 {
		return -1, false
	}
	return bits.TrailingZeros64(uint64(b)), true
}

// Members lists the set in ascending order.
func (b Bitset) Members() []int {
	out := make([]int, 0, b.Count())
	for v := uint64(b); v != 0; v &= v - 1 {
		out = append(out, bits.TrailingZeros64(v))
	}
	return out
}

// Rules holds the adjacency compatibility matrix for a catalog.
// compat[a][dir] is the set of tiles that may sit next to tile a in direction dir.
type Rules struct {
	Catalog Catalog
	compat  [][4]Bitset
}

// NewRules builds the compatibility matrix once from the tile connectors.
func NewRules(catalog Catalog) (*Rules, error) {
	if err := catalog.Validate(); err != nil {
		return nil, err
	}

	r := &Rules{
		Catalog: catalog,
		compat:  make([][4]Bitset, len(catalog)),
	}
	for _, a := range catalog {
		for _, dir := range AllDirections() {
			var set Bitset
			for _, b := range catalog {
				if a.Connector(dir) == b.Connector(dir.Opposite()) {
					set = set.With(b.ID)
				}
			}
			r.compat[a.ID][dir] = set
		}
	}
	return r, nil
}

// DefaultRules returns rules for the built-in catalog
func DefaultRules() *Rules {
	r, err := NewRules(DefaultCatalog())
	if err != nil {
		panic(err) // built-in catalog is always valid
	}
	return r
}

// Compatible reports whether tile b may be placed in direction dir of tile a.
func (r *Rules) Compatible(a, b int, dir Direction) bool {
	return r.compat[a][dir].Has(b)
}

// Allowed returns every tile that may sit in direction dir of any tile in set.
func (r *Rules) Allowed(set Bitset, dir Direction) Bitset {
	var out Bitset
	for v := uint64(set); v != 0; v &= v - 1 {
		out |= r.compat[bits.TrailingZeros64(v)][dir]
	}
	return out
}

// closedOn returns the tiles whose connector on dir is closed.
func (r *Rules) closedOn(dir Direction) Bitset {
	var out Bitset
	for _, t := range r.Catalog {
		if !t.Open(dir) {
			out = out.With(t.ID)
		}
	}
	return out
}
