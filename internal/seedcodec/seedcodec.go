// Package seedcodec turns the inputs of a generation run into a short,
// shareable string and back.
package seedcodec

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/lawnchairsociety/delvegen/internal/dungeon"
)

// Prefix marks version 1 seed strings.
const Prefix = "d1-"

var ErrInvalidSeedString = errors.New("seedcodec: invalid seed string")

// Code holds everything needed to regenerate a level.
type Code struct {
	Seed       uint32
	Theme      string
	Difficulty float64 // stored to two decimals
	MinRooms   int
	MaxRooms   int
	Rooms      int  // main rooms the level was built with
	WFC        bool // whole-level WFC layout instead of rooms
}

// Encode packs the code as Prefix + base64url(uvarints + theme bytes).
func Encode(c Code) string {
	buf := make([]byte, 0, 16+len(c.Theme))
	buf = binary.AppendUvarint(buf, uint64(c.Seed))
	buf = binary.AppendUvarint(buf, uint64(math.Round(max(0, c.Difficulty)*100)))
	buf = binary.AppendUvarint(buf, uint64(max(0, c.MinRooms)))
	buf = binary.AppendUvarint(buf, uint64(max(0, c.MaxRooms)))
	buf = binary.AppendUvarint(buf, uint64(max(0, c.Rooms)))
	var flags uint64
	if c.WFC {
		flags |= 1
	}
	buf = binary.AppendUvarint(buf, flags)
	buf = append(buf, c.Theme...)
	return Prefix + base64.RawURLEncoding.EncodeToString(buf)
}

// Decode is the inverse of Encode.
func Decode(s string) (Code, error) {
	var c Code
	body, ok := strings.CutPrefix(strings.TrimSpace(s), Prefix)
	if !ok {
		return c, fmt.Errorf("%w: missing %q prefix", ErrInvalidSeedString, Prefix)
	}
	raw, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return c, fmt.Errorf("%w: %v", ErrInvalidSeedString, err)
	}

	var fields [6]uint64
	for i := range fields {
		v, n := binary.Uvarint(raw)
		if n <= 0 {
			return c, fmt.Errorf("%w: truncated field %d", ErrInvalidSeedString, i)
		}
		fields[i] = v
		raw = raw[n:]
	}

	if fields[0] > math.MaxUint32 {
		return c, fmt.Errorf("%w: seed out of range", ErrInvalidSeedString)
	}
	if fields[2] > fields[3] || fields[3] > dungeon.MaxRoomLimit {
		return c, fmt.Errorf("%w: room range %d-%d", ErrInvalidSeedString, fields[2], fields[3])
	}
	if fields[4] > fields[3] {
		return c, fmt.Errorf("%w: %d rooms above max %d", ErrInvalidSeedString, fields[4], fields[3])
	}
	if fields[1] > 100000 || fields[5] > 1 {
		return c, fmt.Errorf("%w: bad difficulty or flags", ErrInvalidSeedString)
	}
	if !utf8.Valid(raw) {
		return c, fmt.Errorf("%w: theme is not utf-8", ErrInvalidSeedString)
	}

	c.Seed = uint32(fields[0])
	c.Difficulty = float64(fields[1]) / 100
	c.MinRooms = int(fields[2])
	c.MaxRooms = int(fields[3])
	c.Rooms = int(fields[4])
	c.WFC = fields[5]&1 != 0
	c.Theme = string(raw)
	return c, nil
}
