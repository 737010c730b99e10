package game

// Status is the controller's high-level state
type Status string

const (
	StatusNotStarted   Status = "not_started"
	StatusInProgress   Status = "in_progress"
	StatusGameComplete Status = "game_complete"
)

// Reward constants. Wrong quiz answers subtract; there is no floor on score
// or lives.
const (
	levelReward    = 100
	videoReward    = 200
	categoryReward = 10
	quizReward     = 100
	quizPenalty    = 100
	startingLives  = 3
)

// Bin names for category-select levels
const (
	BinHazardous = "hazardous"
	BinSafe      = "safe"
)

// Persistence keys. One snapshot per session owner, under these three
// logical keys; a session is resumable only when all three are present.
const (
	KeySessionState = "sessionState"
	KeyPlayerName   = "playerName"
	KeyRegistration = "playerRegistration"
)

// SessionState is the persisted per-session state
type SessionState struct {
	GameName     string `json:"gameName"`
	Status       Status `json:"status"`
	CurrentLevel int    `json:"currentLevel"`
	Score        int    `json:"score"`
	Lives        int    `json:"lives"`
	Stars        int    `json:"stars"`
	ResultSaved  bool   `json:"resultSaved"`
}

func newSessionState(gameName string) SessionState {
	return SessionState{
		GameName:     gameName,
		Status:       StatusInProgress,
		CurrentLevel: 1,
		Score:        0,
		Lives:        startingLives,
		Stars:        0,
	}
}

// levelProgress is the per-level transient state. It lives in engine memory
// only and is discarded whenever the current level changes; it is never
// persisted.
type levelProgress struct {
	SceneIndex    int
	Assigned      map[string]string // item id -> bin
	Answers       map[int]int       // question index -> chosen option
	Checked       bool
	KitSelected   map[string]bool
	VideoRewarded bool
}

func newLevelProgress() *levelProgress {
	return &levelProgress{
		Assigned:    make(map[string]string),
		Answers:     make(map[int]int),
		KitSelected: make(map[string]bool),
	}
}
