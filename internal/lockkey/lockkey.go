// Package lockkey places locked doors and the keys that open them, and
// tracks which keys a player holds.
package lockkey

import (
	"errors"
	"fmt"
	"sort"

	"github.com/lawnchairsociety/delvegen/internal/dungeon"
	"github.com/lawnchairsociety/delvegen/internal/wfc"
)

// Wildcard in a key's opens list matches every door.
const Wildcard = "*"

var ErrNoMatchingKey = errors.New("lockkey: no matching key")

// Key opens the doors listed in Opens.
type Key struct {
	ID       string        `yaml:"id"`
	Opens    []string      `yaml:"opens"`
	RoomID   int           `yaml:"room_id"`
	Position dungeon.Point `yaml:"position"`
}

// OpensDoor reports whether the key opens the door with the given id.
func (k Key) OpensDoor(doorID string) bool {
	for _, id := range k.Opens {
		if id == doorID || id == Wildcard {
			return true
		}
	}
	return false
}

// IsMaster reports whether the key carries the wildcard
func (k Key) IsMaster() bool {
	for _, id := range k.Opens {
		if id == Wildcard {
			return true
		}
	}
	return false
}

// Door is a locked passage at a room exit. Open and HP change during play.
type Door struct {
	ID        string        `yaml:"id"`
	RoomID    int           `yaml:"room_id"` // the room the door leads into
	Position  dungeon.Point `yaml:"position"`
	Direction wfc.Direction `yaml:"-"`
	HP        int           `yaml:"hp"`
	Open      bool          `yaml:"open"`
}

// Inventory holds owned keys with counts.
type Inventory struct {
	keys   map[string]Key
	counts map[string]int
}

// NewInventory creates an empty inventory
func NewInventory() *Inventory {
	return &Inventory{
		keys:   make(map[string]Key),
		counts: make(map[string]int),
	}
}

// Add puts one copy of the key into the inventory.
func (inv *Inventory) Add(k Key) {
	inv.keys[k.ID] = k
	inv.counts[k.ID]++
}

// Count returns how many copies of a key are held
func (inv *Inventory) Count(id string) int {
	return inv.counts[id]
}

// Len returns the number of distinct keys held
func (inv *Inventory) Len() int {
	return len(inv.counts)
}

// Keys returns the held keys sorted by ID.
func (inv *Inventory) Keys() []Key {
	ids := make([]string, 0, len(inv.keys))
	for id := range inv.keys {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]Key, len(ids))
	for i, id := range ids {
		out[i] = inv.keys[id]
	}
	return out
}

// remove decrements a key and drops it at zero.
func (inv *Inventory) remove(id string) {
	inv.counts[id]--
	if inv.counts[id] <= 0 {
		delete(inv.counts, id)
		delete(inv.keys, id)
	}
}

// CanOpenDoor reports whether any held key opens the door.
func CanOpenDoor(inv *Inventory, door *Door) bool {
	for _, k := range inv.keys {
		if k.OpensDoor(door.ID) {
			return true
		}
	}
	return false
}

// UseKey opens the door with a held key, preferring a door-specific key over
// a master key. The used key is consumed.
func UseKey(inv *Inventory, door *Door) (Key, error) {
	if door.Open {
		return Key{}, nil
	}

	var master *Key
	for _, k := range inv.Keys() {
		if !k.OpensDoor(door.ID) {
			continue
		}
		if k.IsMaster() {
			if master == nil {
				kk := k
				master = &kk
			}
			continue
		}
		inv.remove(k.ID)
		door.Open = true
		return k, nil
	}

	if master != nil {
		inv.remove(master.ID)
		door.Open = true
		return *master, nil
	}
	return Key{}, fmt.Errorf("%w for %s", ErrNoMatchingKey, door.ID)
}
