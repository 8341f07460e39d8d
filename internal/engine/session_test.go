package engine

import (
	"errors"
	"testing"

	"github.com/lawnchairsociety/delvegen/internal/difficulty"
	"github.com/lawnchairsociety/delvegen/internal/dungeon"
	"github.com/lawnchairsociety/delvegen/internal/events"
	"github.com/lawnchairsociety/delvegen/internal/hazard"
	"github.com/lawnchairsociety/delvegen/internal/lockkey"
	"github.com/lawnchairsociety/delvegen/internal/puzzle"
	"github.com/lawnchairsociety/delvegen/internal/wfc"
)

func testLevel() *Result {
	return &Result{
		TileSize: 32,
		Entities: Entities{
			Keys: []lockkey.Key{
				{ID: "key_1", Opens: []string{"door_1"}},
				{ID: "master_key", Opens: []string{lockkey.Wildcard}},
			},
			Doors: []*lockkey.Door{
				{ID: "door_1", RoomID: 2, HP: 30},
				{ID: "door_2", RoomID: 3, HP: 30},
			},
			Secrets: []*dungeon.Secret{{ID: "secret_1", RoomID: 4}},
			Puzzles: []*puzzle.Puzzle{
				{ID: "puzzle_1", Kind: puzzle.KindLever, Reward: puzzle.Reward{Resource: "gold", Amount: 60},
					Levers: &puzzle.LeverState{Target: []bool{true}, Current: []bool{false}}},
				{ID: "puzzle_2", Kind: puzzle.KindStatue,
					Statues: &puzzle.StatueState{Facing: []wfc.Direction{wfc.West}, Target: wfc.North}},
				{ID: "puzzle_3", Kind: puzzle.KindBeam, Beam: &puzzle.BeamState{}},
			},
			Hazards: []*hazard.Hazard{
				{ID: "hazard_1", Kind: hazard.KindCollapse, Trigger: hazard.TriggerDelayed,
					Position: dungeon.Point{X: 2, Y: 2}, Damage: 20, Threshold: 1.5},
				{ID: "hazard_2", Kind: hazard.KindSpikes, Trigger: hazard.TriggerStep,
					Position: dungeon.Point{X: 2, Y: 2}, Damage: 8},
			},
		},
	}
}

func record(bus *events.Bus) *[]events.Event {
	var got []events.Event
	bus.SubscribeAll(func(e events.Event) { got = append(got, e) })
	return &got
}

func TestSessionKeysAndDoors(t *testing.T) {
	s := NewSession(testLevel())
	got := record(s.Events())

	if _, err := s.UnlockDoor("door_1"); !errors.Is(err, lockkey.ErrNoMatchingKey) {
		t.Fatalf("UnlockDoor without key error = %v", err)
	}

	if err := s.PickUpKey("key_1"); err != nil {
		t.Fatalf("PickUpKey(key_1) failed: %v", err)
	}
	if err := s.PickUpKey("key_1"); !errors.Is(err, ErrAlreadyTaken) {
		t.Errorf("second PickUpKey error = %v, want ErrAlreadyTaken", err)
	}
	if err := s.PickUpKey("key_9"); !errors.Is(err, ErrUnknownEntity) {
		t.Errorf("PickUpKey(unknown) error = %v, want ErrUnknownEntity", err)
	}
	s.PickUpKey("master_key")

	used, err := s.UnlockDoor("door_1")
	if err != nil || used.ID != "key_1" {
		t.Fatalf("UnlockDoor(door_1) = %s, %v, want key_1", used.ID, err)
	}
	used, err = s.UnlockDoor("door_2")
	if err != nil || used.ID != "master_key" {
		t.Fatalf("UnlockDoor(door_2) = %s, %v, want master_key", used.ID, err)
	}
	if s.Inventory().Len() != 0 {
		t.Errorf("inventory has %d keys left, want 0", s.Inventory().Len())
	}
	if !s.Level().Entities.Doors[0].Open || !s.Level().Entities.Doors[1].Open {
		t.Error("doors should be open")
	}

	doorEvents := 0
	for _, e := range *got {
		if e.Type() == events.DoorUnlocked {
			doorEvents++
		}
	}
	if doorEvents != 2 {
		t.Errorf("door events = %d, want 2", doorEvents)
	}
}

func TestSessionPuzzles(t *testing.T) {
	s := NewSession(testLevel())

	var solved []events.PuzzleEvent
	s.Events().Subscribe(events.PuzzleSolved, func(e events.Event) {
		solved = append(solved, e.(events.PuzzleEvent))
	})

	if ok, err := s.ToggleLever("puzzle_1", 0); err != nil || !ok {
		t.Fatalf("ToggleLever() = %v, %v", ok, err)
	}
	if len(solved) != 1 || solved[0].Resource != "gold" || solved[0].Amount != 60 {
		t.Errorf("solved events = %+v", solved)
	}

	if _, err := s.PressTile("puzzle_1", 0, 0); !errors.Is(err, puzzle.ErrWrongKind) {
		t.Errorf("PressTile on lever error = %v, want ErrWrongKind", err)
	}
	if _, err := s.RotateStatue("puzzle_9", 0); !errors.Is(err, ErrUnknownEntity) {
		t.Errorf("RotateStatue(unknown) error = %v, want ErrUnknownEntity", err)
	}

	if ok, _ := s.RotateStatue("puzzle_2", 0); !ok {
		t.Error("west rotated once should face north")
	}
	if err := s.CompleteBeam("puzzle_3"); err != nil {
		t.Errorf("CompleteBeam() failed: %v", err)
	}
	if len(solved) != 3 {
		t.Errorf("solved events = %d, want 3", len(solved))
	}
}

func TestSessionRevealSecret(t *testing.T) {
	s := NewSession(testLevel())
	got := record(s.Events())

	if err := s.RevealSecret("secret_1"); err != nil {
		t.Fatalf("RevealSecret() failed: %v", err)
	}
	if err := s.RevealSecret("secret_1"); err != nil {
		t.Fatalf("second RevealSecret() failed: %v", err)
	}
	if !s.Level().Entities.Secrets[0].Revealed {
		t.Error("secret should be revealed")
	}
	if len(*got) != 1 {
		t.Errorf("events = %d, want 1", len(*got))
	}
	if err := s.RevealSecret("secret_2"); !errors.Is(err, ErrUnknownEntity) {
		t.Errorf("RevealSecret(unknown) error = %v", err)
	}
}

func TestSessionTick(t *testing.T) {
	s := NewSession(testLevel())

	var triggered, disabled int
	s.Events().Subscribe(events.HazardTriggered, func(events.Event) { triggered++ })
	s.Events().Subscribe(events.HazardDisabled, func(events.Event) { disabled++ })

	if dmg := s.Tick(2.5, 2.5, 1); dmg != 8 {
		t.Errorf("first tick damage = %d, want 8", dmg)
	}
	if dmg := s.Tick(2.5, 2.5, 1); dmg != 20 {
		t.Errorf("second tick damage = %d, want 20", dmg)
	}
	if dmg := s.Tick(2.5, 2.5, 1); dmg != 0 {
		t.Errorf("third tick damage = %d, want 0", dmg)
	}
	if triggered != 2 || disabled != 1 {
		t.Errorf("triggered = %d, disabled = %d, want 2, 1", triggered, disabled)
	}
	if n := len(s.ActiveHazards()); n != 1 {
		t.Errorf("active hazards = %d, want 1", n)
	}
}

func TestSessionPlaysGeneratedLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Locks.DoorChance = 1
	res, err := New(cfg).GenerateLevel(8, difficulty.DefaultStats(), Options{Seed: 42, MinRooms: 7, MaxRooms: 10})
	if err != nil {
		t.Fatalf("GenerateLevel() failed: %v", err)
	}

	s := NewSession(res)
	for _, k := range res.Entities.Keys {
		if err := s.PickUpKey(k.ID); err != nil {
			t.Fatalf("PickUpKey(%s) failed: %v", k.ID, err)
		}
	}
	for _, d := range res.Entities.Doors {
		if _, err := s.UnlockDoor(d.ID); err != nil {
			t.Errorf("UnlockDoor(%s) failed: %v", d.ID, err)
		}
	}
}
