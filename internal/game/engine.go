package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"

	"safeschool/internal/kvstore"
	"safeschool/internal/models"
)

var (
	ErrNoSession          = errors.New("no active session")
	ErrNameRequired       = errors.New("player name is required")
	ErrRegistrationFailed = errors.New("registration failed")
	ErrSaveFailed         = errors.New("result not saved")
	ErrUnknownGame        = errors.New("unknown game")
	ErrWrongLevelType     = errors.New("action does not match current level type")
	ErrGameComplete       = errors.New("game already complete")
	ErrUnknownItem        = errors.New("unknown item")
	ErrUnknownBin         = errors.New("unknown category")
	ErrItemAssigned       = errors.New("item already assigned")
	ErrQuizIncomplete     = errors.New("all questions must be answered first")
	ErrAlreadyChecked     = errors.New("answers already checked")
	ErrNotChecked         = errors.New("answers not checked yet")
	ErrQuestionRange      = errors.New("question or answer index out of range")
)

// PlayerService is the game service seam the engine calls at the session
// boundaries: player registration at start, result recording at the end.
type PlayerService interface {
	RegisterPlayer(ctx context.Context, code, fullName string) (*models.Player, error)
	RecordResult(ctx context.Context, playerID string, stars, score int) (*models.Player, error)
}

// Engine drives players through a level catalog. Persistent session state
// goes through the injected store; per-level transient state lives in
// memory and resets whenever the level changes.
type Engine struct {
	store   kvstore.Store
	players PlayerService

	mu       sync.Mutex
	progress map[string]*levelProgress
}

// NewEngine creates a session engine over the given store and player service
func NewEngine(store kvstore.Store, players PlayerService) *Engine {
	return &Engine{
		store:    store,
		players:  players,
		progress: make(map[string]*levelProgress),
	}
}

// View is the session snapshot returned to the presentation layer after
// every action.
type View struct {
	Status     Status         `json:"status"`
	State      SessionState   `json:"state"`
	PlayerName string         `json:"playerName"`
	Player     *models.Player `json:"player,omitempty"`
	Level      *Level         `json:"level,omitempty"`

	SceneIndex  int               `json:"sceneIndex"`
	Assigned    map[string]string `json:"assigned,omitempty"`
	Answers     map[int]int       `json:"answers,omitempty"`
	Checked     bool              `json:"checked"`
	KitSelected []string          `json:"kitSelected,omitempty"`

	LevelCompleted bool   `json:"levelCompleted"`
	GameCompleted  bool   `json:"gameCompleted"`
	ResultSaved    bool   `json:"resultSaved"`
	Correct        *bool  `json:"correct,omitempty"`
	Message        string `json:"message,omitempty"`
}

// session bundles everything loaded for one action
type session struct {
	playerID string
	state    SessionState
	player   *models.Player
	name     string
	catalog  *Catalog
}

func (s *session) level() *Level {
	level, _ := s.catalog.Level(s.state.CurrentLevel)
	return level
}

// Start registers a player against an access code and opens a fresh session
// at level 1. On registration failure no session is created.
func (e *Engine) Start(ctx context.Context, code, fullName string) (*View, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, ErrNameRequired
	}

	player, err := e.players.RegisterPlayer(ctx, code, fullName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRegistrationFailed, err)
	}

	catalog, ok := Lookup(player.GameName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGame, player.GameName)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	s := &session{
		playerID: player.ID,
		state:    newSessionState(player.GameName),
		player:   player,
		name:     fullName,
		catalog:  catalog,
	}

	registrationJSON, err := json.Marshal(player)
	if err != nil {
		return nil, fmt.Errorf("failed to encode registration: %w", err)
	}
	if err := e.store.Set(player.ID, KeyPlayerName, fullName); err != nil {
		return nil, fmt.Errorf("failed to persist player name: %w", err)
	}
	if err := e.store.Set(player.ID, KeyRegistration, string(registrationJSON)); err != nil {
		return nil, fmt.Errorf("failed to persist registration: %w", err)
	}
	if err := e.persist(s); err != nil {
		return nil, err
	}

	e.progress[player.ID] = newLevelProgress()
	return e.view(s, nil), nil
}

// State returns the current session view, restoring it from the store when
// needed. A session exists only when all three persistence keys are present.
func (e *Engine) State(playerID string) (*View, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, err := e.load(playerID)
	if err != nil {
		return nil, err
	}
	return e.view(s, e.progressFor(playerID)), nil
}

// Abort discards the session: all persistence keys are removed and transient
// progress is dropped.
func (e *Engine) Abort(playerID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.load(playerID); err != nil {
		return err
	}
	return e.clear(playerID)
}

// NextScene advances an interactive level by one scene; moving past the last
// scene completes the level.
func (e *Engine) NextScene(ctx context.Context, playerID string) (*View, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, level, p, err := e.loadFor(playerID, LevelInteractive)
	if err != nil {
		return nil, err
	}

	if p.SceneIndex < len(level.Scenes)-1 {
		p.SceneIndex++
		return e.view(s, nil), nil
	}
	return e.completeLevel(ctx, s, true)
}

// AssignCategory places the named item into a bin. A correct placement
// scores; a wrong one costs a life, leaves the item unassigned and reports
// the item's true classification.
func (e *Engine) AssignCategory(ctx context.Context, playerID, itemID, bin string) (*View, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, level, p, err := e.loadFor(playerID, LevelCategorySelect)
	if err != nil {
		return nil, err
	}

	if bin != BinHazardous && bin != BinSafe {
		return nil, ErrUnknownBin
	}

	var item *Item
	for i := range level.Items {
		if level.Items[i].ID == itemID {
			item = &level.Items[i]
			break
		}
	}
	if item == nil {
		return nil, ErrUnknownItem
	}
	if _, assigned := p.Assigned[itemID]; assigned {
		return nil, ErrItemAssigned
	}

	correct := item.IsHazardous == (bin == BinHazardous)
	if !correct {
		s.state.Lives--
		if err := e.persist(s); err != nil {
			return nil, err
		}
		kind := "безопасный"
		if item.IsHazardous {
			kind = "опасный"
		}
		view := e.view(s, p)
		view.Correct = boolPtr(false)
		view.Message = fmt.Sprintf("Неправильно! %s %s предмет.", item.Name, kind)
		return view, nil
	}

	s.state.Score += categoryReward
	p.Assigned[itemID] = bin

	if len(p.Assigned) == len(level.Items) {
		return e.completeLevel(ctx, s, true)
	}
	if err := e.persist(s); err != nil {
		return nil, err
	}
	view := e.view(s, p)
	view.Correct = boolPtr(true)
	return view, nil
}

// AnswerQuiz records the chosen option for one question. Re-answering before
// the check replaces the prior choice.
func (e *Engine) AnswerQuiz(playerID string, questionIndex, answerIndex int) (*View, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, level, p, err := e.loadFor(playerID, LevelQuiz)
	if err != nil {
		return nil, err
	}
	if p.Checked {
		return nil, ErrAlreadyChecked
	}
	if questionIndex < 0 || questionIndex >= len(level.Questions) {
		return nil, ErrQuestionRange
	}
	if answerIndex < 0 || answerIndex >= len(level.Questions[questionIndex].Options) {
		return nil, ErrQuestionRange
	}

	p.Answers[questionIndex] = answerIndex
	return e.view(s, p), nil
}

// CheckQuiz scores the quiz once every question has an answer: +100 per
// correct choice, -100 per wrong one, applied in a single step.
func (e *Engine) CheckQuiz(playerID string) (*View, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, level, p, err := e.loadFor(playerID, LevelQuiz)
	if err != nil {
		return nil, err
	}
	if p.Checked {
		return nil, ErrAlreadyChecked
	}
	if len(p.Answers) < len(level.Questions) {
		return nil, ErrQuizIncomplete
	}

	delta := 0
	for i, question := range level.Questions {
		if p.Answers[i] == question.CorrectAnswer {
			delta += quizReward
		} else {
			delta -= quizPenalty
		}
	}

	s.state.Score += delta
	p.Checked = true
	if err := e.persist(s); err != nil {
		return nil, err
	}
	return e.view(s, p), nil
}

// VideoEnded awards the video level's reward once, on the player-end signal.
// The level itself is completed by the subsequent Advance call, without the
// generic reward.
func (e *Engine) VideoEnded(playerID string) (*View, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, _, p, err := e.loadFor(playerID, LevelVideo)
	if err != nil {
		return nil, err
	}

	if !p.VideoRewarded {
		p.VideoRewarded = true
		s.state.Score += videoReward
		s.state.Stars++
		if err := e.persist(s); err != nil {
			return nil, err
		}
	}
	return e.view(s, p), nil
}

// ToggleKitItem adds the item to the selected kit, or removes it when
// already selected.
func (e *Engine) ToggleKitItem(playerID, itemID string) (*View, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, level, p, err := e.loadFor(playerID, LevelFirefighterKit)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range level.KitItems {
		if level.KitItems[i].ID == itemID {
			found = true
			break
		}
	}
	if !found {
		return nil, ErrUnknownItem
	}

	if p.KitSelected[itemID] {
		delete(p.KitSelected, itemID)
	} else {
		p.KitSelected[itemID] = true
	}
	return e.view(s, p), nil
}

// CheckKit succeeds only when the selection is exactly the correct item set.
// Failure costs a life and keeps the selection for correction.
func (e *Engine) CheckKit(ctx context.Context, playerID string) (*View, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, level, p, err := e.loadFor(playerID, LevelFirefighterKit)
	if err != nil {
		return nil, err
	}

	selectedCorrect, selectedWrong := 0, 0
	for i := range level.KitItems {
		item := &level.KitItems[i]
		if !p.KitSelected[item.ID] {
			continue
		}
		if item.IsCorrect {
			selectedCorrect++
		} else {
			selectedWrong++
		}
	}

	if selectedCorrect == level.CorrectKitCount() && selectedWrong == 0 {
		return e.completeLevel(ctx, s, true)
	}

	s.state.Lives--
	if err := e.persist(s); err != nil {
		return nil, err
	}
	view := e.view(s, p)
	view.Correct = boolPtr(false)
	view.Message = "Неправильно! Проверь свой выбор еще раз."
	return view, nil
}

// Advance performs the explicit next-level transition where a level needs
// one: after quiz results are shown, and after the video level (which was
// already rewarded by its end signal, so no generic reward applies). On a
// completed game with an unsaved result it retries the finish call.
func (e *Engine) Advance(ctx context.Context, playerID string) (*View, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, err := e.load(playerID)
	if err != nil {
		return nil, err
	}

	if s.state.Status == StatusGameComplete {
		if s.state.ResultSaved {
			return nil, ErrGameComplete
		}
		return e.finish(ctx, s)
	}

	level := s.level()
	p := e.progressFor(playerID)

	switch level.Type {
	case LevelQuiz:
		if !p.Checked {
			return nil, ErrNotChecked
		}
		return e.completeLevel(ctx, s, true)
	case LevelVideo:
		return e.completeLevel(ctx, s, false)
	default:
		return nil, ErrWrongLevelType
	}
}

// completeLevel applies the generic reward when asked, then moves to the
// next level or finishes the game.
func (e *Engine) completeLevel(ctx context.Context, s *session, reward bool) (*View, error) {
	if reward {
		s.state.Score += levelReward
		s.state.Stars++
	}

	if s.state.CurrentLevel == s.catalog.Len() {
		s.state.Status = StatusGameComplete
		delete(e.progress, s.playerID)
		return e.finish(ctx, s)
	}

	s.state.CurrentLevel++
	e.progress[s.playerID] = newLevelProgress()
	if err := e.persist(s); err != nil {
		return nil, err
	}

	view := e.view(s, e.progress[s.playerID])
	view.LevelCompleted = true
	return view, nil
}

// finish records the final result with the game service. Success clears the
// persisted session; failure keeps the snapshot so the save can be retried,
// and is surfaced on the view rather than blocking the completion screen.
func (e *Engine) finish(ctx context.Context, s *session) (*View, error) {
	player, err := e.players.RecordResult(ctx, s.playerID, s.state.Stars, s.state.Score)
	if err != nil {
		log.Printf("Finish call failed for player %s: %v", s.playerID, err)
		s.state.ResultSaved = false
		if persistErr := e.persist(s); persistErr != nil {
			return nil, persistErr
		}
		view := e.view(s, nil)
		view.GameCompleted = true
		view.Message = "Не удалось сохранить результат. Попробуйте еще раз."
		return view, nil
	}

	s.player = player
	s.state.ResultSaved = true
	if err := e.clear(s.playerID); err != nil {
		return nil, err
	}

	view := e.view(s, nil)
	view.LevelCompleted = true
	view.GameCompleted = true
	return view, nil
}

// load restores a session from the store; all three keys must be present
func (e *Engine) load(playerID string) (*session, error) {
	stateJSON, ok, err := e.store.Get(playerID, KeySessionState)
	if err != nil {
		return nil, fmt.Errorf("failed to read session state: %w", err)
	}
	if !ok {
		return nil, ErrNoSession
	}

	name, ok, err := e.store.Get(playerID, KeyPlayerName)
	if err != nil {
		return nil, fmt.Errorf("failed to read player name: %w", err)
	}
	if !ok {
		return nil, ErrNoSession
	}

	registrationJSON, ok, err := e.store.Get(playerID, KeyRegistration)
	if err != nil {
		return nil, fmt.Errorf("failed to read registration: %w", err)
	}
	if !ok {
		return nil, ErrNoSession
	}

	var state SessionState
	if err := json.Unmarshal([]byte(stateJSON), &state); err != nil {
		return nil, fmt.Errorf("corrupt session state: %w", err)
	}
	var player models.Player
	if err := json.Unmarshal([]byte(registrationJSON), &player); err != nil {
		return nil, fmt.Errorf("corrupt registration: %w", err)
	}

	catalog, ok := Lookup(state.GameName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGame, state.GameName)
	}

	return &session{
		playerID: playerID,
		state:    state,
		player:   &player,
		name:     name,
		catalog:  catalog,
	}, nil
}

// loadFor loads a session and checks the current level's type
func (e *Engine) loadFor(playerID string, levelType LevelType) (*session, *Level, *levelProgress, error) {
	s, err := e.load(playerID)
	if err != nil {
		return nil, nil, nil, err
	}
	if s.state.Status != StatusInProgress {
		return nil, nil, nil, ErrGameComplete
	}
	level := s.level()
	if level.Type != levelType {
		return nil, nil, nil, ErrWrongLevelType
	}
	return s, level, e.progressFor(playerID), nil
}

// progressFor returns the transient progress for a session, creating a fresh
// one when missing (first action on a level, or after a process restart).
func (e *Engine) progressFor(playerID string) *levelProgress {
	p, ok := e.progress[playerID]
	if !ok {
		p = newLevelProgress()
		e.progress[playerID] = p
	}
	return p
}

// persist writes the session state snapshot
func (e *Engine) persist(s *session) error {
	stateJSON, err := json.Marshal(s.state)
	if err != nil {
		return fmt.Errorf("failed to encode session state: %w", err)
	}
	if err := e.store.Set(s.playerID, KeySessionState, string(stateJSON)); err != nil {
		return fmt.Errorf("failed to persist session state: %w", err)
	}
	return nil
}

// clear removes all persistence keys and transient progress for a session
func (e *Engine) clear(playerID string) error {
	for _, key := range []string{KeySessionState, KeyPlayerName, KeyRegistration} {
		if err := e.store.Remove(playerID, key); err != nil {
			return fmt.Errorf("failed to clear %s: %w", key, err)
		}
	}
	delete(e.progress, playerID)
	return nil
}

// view builds the presentation snapshot for a session
func (e *Engine) view(s *session, p *levelProgress) *View {
	view := &View{
		Status:      s.state.Status,
		State:       s.state,
		PlayerName:  s.name,
		Player:      s.player,
		ResultSaved: s.state.ResultSaved,
	}

	if s.state.Status == StatusGameComplete {
		view.GameCompleted = true
		return view
	}

	view.Level = s.level()
	if p != nil {
		view.SceneIndex = p.SceneIndex
		view.Checked = p.Checked
		if len(p.Assigned) > 0 {
			assigned := make(map[string]string, len(p.Assigned))
			for item, bin := range p.Assigned {
				assigned[item] = bin
			}
			view.Assigned = assigned
		}
		if len(p.Answers) > 0 {
			answers := make(map[int]int, len(p.Answers))
			for q, a := range p.Answers {
				answers[q] = a
			}
			view.Answers = answers
		}
		if len(p.KitSelected) > 0 {
			selected := make([]string, 0, len(p.KitSelected))
			for item := range p.KitSelected {
				selected = append(selected, item)
			}
			sort.Strings(selected)
			view.KitSelected = selected
		}
	}
	return view
}

func boolPtr(b bool) *bool {
	return &b
}
