package game

import "fmt"

// LevelType tags the interaction variant of a level
type LevelType string

const (
	LevelInteractive    LevelType = "interactive"
	LevelCategorySelect LevelType = "category-select"
	LevelQuiz           LevelType = "quiz"
	LevelVideo          LevelType = "video"
	LevelFirefighterKit LevelType = "firefighter-kit"
)

// Scene is one page of an interactive story level
type Scene struct {
	Text  string `json:"text"`
	Image string `json:"image"`
}

// Item is a sortable object in a category-select level
type Item struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	IsHazardous bool   `json:"isHazardous"`
}

// Question is one multiple-choice quiz question with exactly four options
type Question struct {
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// KitItem is a candidate object for the equipment-kit level
type KitItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
	IsCorrect   bool   `json:"isCorrect"`
}

// Level is one immutable level descriptor. Exactly one content field is
// populated, selected by Type.
type Level struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        LevelType `json:"type"`

	Scenes    []Scene    `json:"scenes,omitempty"`
	Items     []Item     `json:"items,omitempty"`
	Questions []Question `json:"questions,omitempty"`
	VideoID   string     `json:"videoId,omitempty"`
	KitItems  []KitItem  `json:"kitItems,omitempty"`
}

// CorrectKitCount returns how many kit items belong in the completed set
func (l *Level) CorrectKitCount() int {
	count := 0
	for _, item := range l.KitItems {
		if item.IsCorrect {
			count++
		}
	}
	return count
}

// Catalog is the fixed, ordered list of levels defining one game
type Catalog struct {
	Name   string
	Title  string
	Levels []Level
}

// Len returns the number of levels in the catalog
func (c *Catalog) Len() int {
	return len(c.Levels)
}

// Level returns the descriptor with the given 1-based id
func (c *Catalog) Level(id int) (*Level, bool) {
	if id < 1 || id > len(c.Levels) {
		return nil, false
	}
	return &c.Levels[id-1], true
}

// Validate checks catalog integrity: sequential 1-based ids and well-formed
// content for each level type.
func (c *Catalog) Validate() error {
	if len(c.Levels) == 0 {
		return fmt.Errorf("catalog %q has no levels", c.Name)
	}
	for i := range c.Levels {
		level := &c.Levels[i]
		if level.ID != i+1 {
			return fmt.Errorf("catalog %q: level at position %d has id %d", c.Name, i+1, level.ID)
		}
		switch level.Type {
		case LevelInteractive:
			if len(level.Scenes) == 0 {
				return fmt.Errorf("catalog %q: level %d has no scenes", c.Name, level.ID)
			}
		case LevelCategorySelect:
			if len(level.Items) == 0 {
				return fmt.Errorf("catalog %q: level %d has no items", c.Name, level.ID)
			}
		case LevelQuiz:
			if len(level.Questions) == 0 {
				return fmt.Errorf("catalog %q: level %d has no questions", c.Name, level.ID)
			}
			for qi, q := range level.Questions {
				if len(q.Options) != 4 {
					return fmt.Errorf("catalog %q: level %d question %d has %d options, want 4", c.Name, level.ID, qi, len(q.Options))
				}
				if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
					return fmt.Errorf("catalog %q: level %d question %d has correct answer %d out of range", c.Name, level.ID, qi, q.CorrectAnswer)
				}
			}
		case LevelVideo:
			if level.VideoID == "" {
				return fmt.Errorf("catalog %q: level %d has no video id", c.Name, level.ID)
			}
		case LevelFirefighterKit:
			if level.CorrectKitCount() == 0 {
				return fmt.Errorf("catalog %q: level %d has no correct kit items", c.Name, level.ID)
			}
		default:
			return fmt.Errorf("catalog %q: level %d has unknown type %q", c.Name, level.ID, level.Type)
		}
	}
	return nil
}

// registry holds every playable game catalog keyed by game name
var registry = map[string]*Catalog{
	"fire": fireCatalog,
}

// Lookup returns the catalog for a game name
func Lookup(name string) (*Catalog, bool) {
	catalog, ok := registry[name]
	return catalog, ok
}

// KnownGame reports whether a game name has a registered catalog
func KnownGame(name string) bool {
	_, ok := registry[name]
	return ok
}

// GameNames returns the registered game names
func GameNames() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}
