package lockkey

import (
	"errors"
	"testing"
)

func TestCanOpenDoor(t *testing.T) {
	inv := NewInventory()
	door := &Door{ID: "door_1"}

	if CanOpenDoor(inv, door) {
		t.Error("empty inventory should not open a door")
	}

	inv.Add(Key{ID: "key_2", Opens: []string{"door_2"}})
	if CanOpenDoor(inv, door) {
		t.Error("key_2 should not open door_1")
	}

	inv.Add(Key{ID: "key_1", Opens: []string{"door_1"}})
	if !CanOpenDoor(inv, door) {
		t.Error("key_1 should open door_1")
	}

	master := NewInventory()
	master.Add(Key{ID: "master_key", Opens: []string{Wildcard}})
	if !CanOpenDoor(master, &Door{ID: "door_99"}) {
		t.Error("wildcard key should open any door")
	}
}

func TestUseKeyConsumes(t *testing.T) {
	inv := NewInventory()
	k := Key{ID: "key_1", Opens: []string{"door_1"}}
	inv.Add(k)
	inv.Add(k)

	if inv.Count("key_1") != 2 {
		t.Fatalf("Count(key_1) = %d, want 2", inv.Count("key_1"))
	}

	door := &Door{ID: "door_1"}
	used, err := UseKey(inv, door)
	if err != nil {
		t.Fatalf("UseKey() failed: %v", err)
	}
	if used.ID != "key_1" || !door.Open {
		t.Errorf("UseKey() = %s, door open = %v", used.ID, door.Open)
	}
	if inv.Count("key_1") != 1 {
		t.Errorf("Count(key_1) = %d, want 1", inv.Count("key_1"))
	}

	second := &Door{ID: "door_1"}
	if _, err := UseKey(inv, second); err != nil {
		t.Fatalf("second UseKey() failed: %v", err)
	}
	if inv.Count("key_1") != 0 || inv.Len() != 0 {
		t.Errorf("key should be removed at zero, Len() = %d", inv.Len())
	}

	third := &Door{ID: "door_1"}
	if _, err := UseKey(inv, third); !errors.Is(err, ErrNoMatchingKey) {
		t.Errorf("UseKey(no keys) error = %v, want ErrNoMatchingKey", err)
	}
	if third.Open {
		t.Error("door opened without a key")
	}
}

func TestUseKeyPrefersSpecific(t *testing.T) {
	inv := NewInventory()
	inv.Add(Key{ID: "master_key", Opens: []string{Wildcard}})
	inv.Add(Key{ID: "key_3", Opens: []string{"door_3"}})

	used, err := UseKey(inv, &Door{ID: "door_3"})
	if err != nil {
		t.Fatalf("UseKey() failed: %v", err)
	}
	if used.ID != "key_3" {
		t.Errorf("UseKey() used %s, want key_3", used.ID)
	}
	if inv.Count("master_key") != 1 {
		t.Error("master key should be kept when a specific key fits")
	}

	used, err = UseKey(inv, &Door{ID: "door_4"})
	if err != nil || used.ID != "master_key" {
		t.Errorf("UseKey(door_4) = %s, %v, want master_key", used.ID, err)
	}
}

func TestUseKeyOpenDoorNoop(t *testing.T) {
	inv := NewInventory()
	inv.Add(Key{ID: "key_1", Opens: []string{"door_1"}})

	if _, err := UseKey(inv, &Door{ID: "door_1", Open: true}); err != nil {
		t.Errorf("UseKey(open door) error = %v", err)
	}
	if inv.Count("key_1") != 1 {
		t.Error("opening an already open door should not consume a key")
	}
}

func TestInventoryKeysSorted(t *testing.T) {
	inv := NewInventory()
	inv.Add(Key{ID: "key_3"})
	inv.Add(Key{ID: "key_1"})
	inv.Add(Key{ID: "key_2"})

	keys := inv.Keys()
	for i, want := range []string{"key_1", "key_2", "key_3"} {
		if keys[i].ID != want {
			t.Errorf("Keys()[%d] = %s, want %s", i, keys[i].ID, want)
		}
	}
}
