package game

import "testing"

func TestRegisteredCatalogsValidate(t *testing.T) {
	for _, name := range GameNames() {
		catalog, ok := Lookup(name)
		if !ok {
			t.Fatalf("Lookup(%s) failed for a registered game", name)
		}
		if err := catalog.Validate(); err != nil {
			t.Errorf("Catalog %s failed validation: %v", name, err)
		}
	}
}

func TestLookup(t *testing.T) {
	catalog, ok := Lookup("fire")
	if !ok {
		t.Fatal("Expected fire catalog to be registered")
	}
	if catalog.Len() != 5 {
		t.Errorf("Expected 5 levels, got %d", catalog.Len())
	}
	if !KnownGame("fire") {
		t.Error("Expected fire to be a known game")
	}
	if KnownGame("flood") {
		t.Error("Did not expect flood to be registered")
	}
	if _, ok := Lookup("flood"); ok {
		t.Error("Expected Lookup to fail for an unregistered game")
	}
}

func TestLevelAccess(t *testing.T) {
	tests := []struct {
		id       int
		ok       bool
		wantType LevelType
	}{
		{1, true, LevelInteractive},
		{2, true, LevelCategorySelect},
		{3, true, LevelQuiz},
		{4, true, LevelVideo},
		{5, true, LevelFirefighterKit},
		{0, false, ""},
		{6, false, ""},
	}

	for _, tt := range tests {
		level, ok := fireCatalog.Level(tt.id)
		if ok != tt.ok {
			t.Errorf("Level(%d): expected ok=%v, got %v", tt.id, tt.ok, ok)
			continue
		}
		if ok && level.Type != tt.wantType {
			t.Errorf("Level(%d): expected type %s, got %s", tt.id, tt.wantType, level.Type)
		}
	}
}

func TestCorrectKitCount(t *testing.T) {
	level, _ := fireCatalog.Level(5)
	if got := level.CorrectKitCount(); got != 5 {
		t.Errorf("Expected 5 correct kit items, got %d", got)
	}
}
