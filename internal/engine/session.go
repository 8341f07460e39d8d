package engine

import (
	"errors"
	"fmt"
	"sync"

	"github.com/lawnchairsociety/delvegen/internal/events"
	"github.com/lawnchairsociety/delvegen/internal/hazard"
	"github.com/lawnchairsociety/delvegen/internal/lockkey"
	"github.com/lawnchairsociety/delvegen/internal/puzzle"
)

var (
	ErrUnknownEntity = errors.New("engine: unknown entity")
	ErrAlreadyTaken  = errors.New("engine: already taken")
)

// Session owns the live state of one player on one generated level: the
// key inventory and the mutable fields of puzzles, doors, secrets and
// hazards. Every change is published on the session's bus.
type Session struct {
	mu        sync.Mutex
	level     *Result
	inventory *lockkey.Inventory
	bus       *events.Bus
	taken     map[string]bool
}

// NewSession starts play on a generated level.
func NewSession(level *Result) *Session {
	return &Session{
		level:     level,
		inventory: lockkey.NewInventory(),
		bus:       events.NewBus(),
		taken:     make(map[string]bool),
	}
}

// Level returns the level being played
func (s *Session) Level() *Result { return s.level }

// Events returns the bus state changes are published on
func (s *Session) Events() *events.Bus { return s.bus }

// Inventory returns the player's key inventory
func (s *Session) Inventory() *lockkey.Inventory { return s.inventory }

func (s *Session) puzzle(id string) (*puzzle.Puzzle, error) {
	for _, p := range s.level.Entities.Puzzles {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: puzzle %s", ErrUnknownEntity, id)
}

// puzzleStep applies one interaction and publishes its outcome. The lock is
// released before publishing so handlers can call back into the session.
func (s *Session) puzzleStep(id string, step func(*puzzle.Puzzle) (bool, error)) (bool, error) {
	s.mu.Lock()
	p, err := s.puzzle(id)
	if err != nil {
		s.mu.Unlock()
		return false, err
	}
	solved, err := step(p)
	s.mu.Unlock()
	if err != nil {
		return false, err
	}

	if solved {
		s.bus.Publish(events.PuzzleEvent{
			Kind:     events.PuzzleSolved,
			PuzzleID: p.ID,
			RoomID:   p.RoomID,
			Resource: p.Reward.Resource,
			Amount:   p.Reward.Amount,
		})
	} else {
		s.bus.Publish(events.PuzzleEvent{Kind: events.PuzzleProgress, PuzzleID: p.ID, RoomID: p.RoomID})
	}
	return solved, nil
}

// ToggleLever flips a lever of a lever puzzle.
func (s *Session) ToggleLever(puzzleID string, lever int) (bool, error) {
	return s.puzzleStep(puzzleID, func(p *puzzle.Puzzle) (bool, error) { return p.ToggleLever(lever) })
}

// PressTile presses a plate of a floor tile puzzle.
func (s *Session) PressTile(puzzleID string, x, y int) (bool, error) {
	return s.puzzleStep(puzzleID, func(p *puzzle.Puzzle) (bool, error) { return p.PressTile(x, y) })
}

// RotateStatue turns a statue of a statue puzzle.
func (s *Session) RotateStatue(puzzleID string, statue int) (bool, error) {
	return s.puzzleStep(puzzleID, func(p *puzzle.Puzzle) (bool, error) { return p.RotateStatue(statue) })
}

// SubmitMemory submits an attempt at a memory puzzle.
func (s *Session) SubmitMemory(puzzleID string, attempt []int) (bool, error) {
	return s.puzzleStep(puzzleID, func(p *puzzle.Puzzle) (bool, error) { return p.SubmitMemory(attempt) })
}

// CompleteBeam reports that the beam of a light puzzle reached its target.
func (s *Session) CompleteBeam(puzzleID string) error {
	_, err := s.puzzleStep(puzzleID, func(p *puzzle.Puzzle) (bool, error) { return true, p.CompleteBeam() })
	return err
}

// PickUpKey moves a placed key into the inventory.
func (s *Session) PickUpKey(keyID string) error {
	s.mu.Lock()
	var found *lockkey.Key
	for i := range s.level.Entities.Keys {
		if s.level.Entities.Keys[i].ID == keyID {
			found = &s.level.Entities.Keys[i]
			break
		}
	}
	if found == nil {
		s.mu.Unlock()
		return fmt.Errorf("%w: key %s", ErrUnknownEntity, keyID)
	}
	if s.taken[keyID] {
		s.mu.Unlock()
		return fmt.Errorf("%w: key %s", ErrAlreadyTaken, keyID)
	}
	s.taken[keyID] = true
	s.inventory.Add(*found)
	key := *found
	s.mu.Unlock()

	s.bus.Publish(events.KeyEvent{KeyID: key.ID, Position: key.Position})
	return nil
}

// UnlockDoor opens a door with a held key, consuming it.
func (s *Session) UnlockDoor(doorID string) (lockkey.Key, error) {
	s.mu.Lock()
	var door *lockkey.Door
	for _, d := range s.level.Entities.Doors {
		if d.ID == doorID {
			door = d
			break
		}
	}
	if door == nil {
		s.mu.Unlock()
		return lockkey.Key{}, fmt.Errorf("%w: door %s", ErrUnknownEntity, doorID)
	}
	if door.Open {
		s.mu.Unlock()
		return lockkey.Key{}, nil
	}
	used, err := lockkey.UseKey(s.inventory, door)
	s.mu.Unlock()
	if err != nil {
		return lockkey.Key{}, err
	}

	s.bus.Publish(events.DoorEvent{DoorID: door.ID, KeyID: used.ID, RoomID: door.RoomID})
	return used, nil
}

// RevealSecret flips a secret passage to revealed. Revealing twice is a no-op.
func (s *Session) RevealSecret(secretID string) error {
	s.mu.Lock()
	for _, sec := range s.level.Entities.Secrets {
		if sec.ID != secretID {
			continue
		}
		if sec.Revealed {
			s.mu.Unlock()
			return nil
		}
		sec.Revealed = true
		ev := events.SecretEvent{SecretID: sec.ID, RoomID: sec.RoomID, Position: sec.Position}
		s.mu.Unlock()
		s.bus.Publish(ev)
		return nil
	}
	s.mu.Unlock()
	return fmt.Errorf("%w: secret %s", ErrUnknownEntity, secretID)
}

// Tick advances every hazard by dt seconds with the player at (x, y) in tile
// units and returns the total damage dealt.
func (s *Session) Tick(x, y, dt float64) int {
	var fired []events.HazardEvent

	s.mu.Lock()
	total := 0
	for _, h := range s.level.Entities.Hazards {
		was := h.Disabled
		dmg := h.Update(x, y, dt)
		if dmg > 0 {
			total += dmg
			fired = append(fired, events.HazardEvent{Kind: events.HazardTriggered, HazardID: h.ID, Damage: dmg})
		}
		if h.Disabled && !was {
			fired = append(fired, events.HazardEvent{Kind: events.HazardDisabled, HazardID: h.ID})
		}
	}
	s.mu.Unlock()

	for _, ev := range fired {
		s.bus.Publish(ev)
	}
	return total
}

// ActiveHazards returns the hazards that can still deal damage.
func (s *Session) ActiveHazards() []*hazard.Hazard {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*hazard.Hazard
	for _, h := range s.level.Entities.Hazards {
		if !h.Disabled {
			out = append(out, h)
		}
	}
	return out
}
