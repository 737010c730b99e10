package kvstore

import "testing"

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()

	if _, ok, err := store.Get("p1", "state"); err != nil || ok {
		t.Errorf("Expected miss on empty store, got ok=%v err=%v", ok, err)
	}

	if err := store.Set("p1", "state", "v1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	value, ok, err := store.Get("p1", "state")
	if err != nil || !ok {
		t.Fatalf("Get failed: ok=%v err=%v", ok, err)
	}
	if value != "v1" {
		t.Errorf("Expected v1, got %q", value)
	}

	// scopes are independent
	if _, ok, _ := store.Get("p2", "state"); ok {
		t.Error("Expected miss in another scope")
	}

	if err := store.Set("p1", "state", "v2"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if value, _, _ := store.Get("p1", "state"); value != "v2" {
		t.Errorf("Expected overwrite to v2, got %q", value)
	}

	if err := store.Remove("p1", "state"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, ok, _ := store.Get("p1", "state"); ok {
		t.Error("Expected miss after remove")
	}

	// removing an absent key is not an error
	if err := store.Remove("p1", "state"); err != nil {
		t.Errorf("Remove of absent key failed: %v", err)
	}
}
