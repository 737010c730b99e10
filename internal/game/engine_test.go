package game

import (
	"context"
	"errors"
	"testing"

	"safeschool/internal/kvstore"
	"safeschool/internal/models"
)

type fakePlayerService struct {
	registerErr error
	recordErr   error

	registerCalls int
	recordCalls   int
	lastStars     int
	lastScore     int
}

func (f *fakePlayerService) RegisterPlayer(ctx context.Context, code, fullName string) (*models.Player, error) {
	f.registerCalls++
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &models.Player{
		ID:       "player-1",
		GameName: "fire",
		GameCode: code,
		FullName: fullName,
	}, nil
}

func (f *fakePlayerService) RecordResult(ctx context.Context, playerID string, stars, score int) (*models.Player, error) {
	f.recordCalls++
	f.lastStars = stars
	f.lastScore = score
	if f.recordErr != nil {
		return nil, f.recordErr
	}
	return &models.Player{
		ID:       playerID,
		GameName: "fire",
		Stars:    stars,
		Score:    score,
	}, nil
}

func newTestEngine() (*Engine, *fakePlayerService, kvstore.Store) {
	svc := &fakePlayerService{}
	store := kvstore.NewMemoryStore()
	return NewEngine(store, svc), svc, store
}

func startSession(t *testing.T, e *Engine) string {
	t.Helper()
	view, err := e.Start(context.Background(), "ABC123", "Иван Иванов")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if view.Player == nil {
		t.Fatal("Expected player on start view")
	}
	return view.Player.ID
}

// completeInteractive drives the first level to completion
func completeInteractive(t *testing.T, e *Engine, playerID string) *View {
	t.Helper()
	ctx := context.Background()
	view, err := e.NextScene(ctx, playerID)
	if err != nil {
		t.Fatalf("NextScene failed: %v", err)
	}
	view, err = e.NextScene(ctx, playerID)
	if err != nil {
		t.Fatalf("NextScene failed: %v", err)
	}
	return view
}

// completeCategory assigns every item to its correct bin
func completeCategory(t *testing.T, e *Engine, playerID string) *View {
	t.Helper()
	ctx := context.Background()
	assignments := map[string]string{
		"matches": BinHazardous,
		"candle":  BinHazardous,
		"iron":    BinHazardous,
		"toy":     BinSafe,
		"book":    BinSafe,
	}
	var view *View
	var err error
	for item, bin := range assignments {
		view, err = e.AssignCategory(ctx, playerID, item, bin)
		if err != nil {
			t.Fatalf("AssignCategory(%s) failed: %v", item, err)
		}
	}
	return view
}

// completeQuiz answers every question correctly and advances
func completeQuiz(t *testing.T, e *Engine, playerID string) *View {
	t.Helper()
	ctx := context.Background()
	level, _ := fireCatalog.Level(3)
	for i, question := range level.Questions {
		if _, err := e.AnswerQuiz(playerID, i, question.CorrectAnswer); err != nil {
			t.Fatalf("AnswerQuiz(%d) failed: %v", i, err)
		}
	}
	if _, err := e.CheckQuiz(playerID); err != nil {
		t.Fatalf("CheckQuiz failed: %v", err)
	}
	view, err := e.Advance(ctx, playerID)
	if err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	return view
}

// completeVideo signals the end event and advances
func completeVideo(t *testing.T, e *Engine, playerID string) *View {
	t.Helper()
	ctx := context.Background()
	if _, err := e.VideoEnded(playerID); err != nil {
		t.Fatalf("VideoEnded failed: %v", err)
	}
	view, err := e.Advance(ctx, playerID)
	if err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	return view
}

// completeKit selects exactly the correct items and checks
func completeKit(t *testing.T, e *Engine, playerID string) *View {
	t.Helper()
	ctx := context.Background()
	for _, item := range []string{"helmet", "axe", "hose", "mask", "gloves"} {
		if _, err := e.ToggleKitItem(playerID, item); err != nil {
			t.Fatalf("ToggleKitItem(%s) failed: %v", item, err)
		}
	}
	view, err := e.CheckKit(ctx, playerID)
	if err != nil {
		t.Fatalf("CheckKit failed: %v", err)
	}
	return view
}

func TestStartCreatesSession(t *testing.T) {
	e, svc, store := newTestEngine()

	view, err := e.Start(context.Background(), "ABC123", "Иван Иванов")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if svc.registerCalls != 1 {
		t.Errorf("Expected 1 register call, got %d", svc.registerCalls)
	}
	if view.Status != StatusInProgress {
		t.Errorf("Expected status %s, got %s", StatusInProgress, view.Status)
	}
	if view.State.CurrentLevel != 1 {
		t.Errorf("Expected level 1, got %d", view.State.CurrentLevel)
	}
	if view.State.Lives != 3 {
		t.Errorf("Expected 3 lives, got %d", view.State.Lives)
	}
	if view.State.Score != 0 || view.State.Stars != 0 {
		t.Errorf("Expected zero score and stars, got %d/%d", view.State.Score, view.State.Stars)
	}
	if view.PlayerName != "Иван Иванов" {
		t.Errorf("Expected player name preserved, got %q", view.PlayerName)
	}

	for _, key := range []string{KeySessionState, KeyPlayerName, KeyRegistration} {
		if _, ok, _ := store.Get("player-1", key); !ok {
			t.Errorf("Expected %s to be persisted", key)
		}
	}
}

func TestStartValidation(t *testing.T) {
	e, svc, _ := newTestEngine()

	if _, err := e.Start(context.Background(), "ABC123", "   "); !errors.Is(err, ErrNameRequired) {
		t.Errorf("Expected ErrNameRequired, got %v", err)
	}
	if svc.registerCalls != 0 {
		t.Error("Expected no register call for empty name")
	}
}

func TestStartRegistrationFailure(t *testing.T) {
	e, svc, store := newTestEngine()
	svc.registerErr = errors.New("link not found")

	if _, err := e.Start(context.Background(), "BAD999", "Иван Иванов"); !errors.Is(err, ErrRegistrationFailed) {
		t.Errorf("Expected ErrRegistrationFailed, got %v", err)
	}
	if _, ok, _ := store.Get("player-1", KeySessionState); ok {
		t.Error("Expected no session persisted after failed registration")
	}
}

func TestNextSceneProgression(t *testing.T) {
	e, _, _ := newTestEngine()
	playerID := startSession(t, e)
	ctx := context.Background()

	view, err := e.NextScene(ctx, playerID)
	if err != nil {
		t.Fatalf("NextScene failed: %v", err)
	}
	if view.SceneIndex != 1 {
		t.Errorf("Expected scene index 1, got %d", view.SceneIndex)
	}
	if view.LevelCompleted {
		t.Error("Level should not be complete mid-scenes")
	}

	view, err = e.NextScene(ctx, playerID)
	if err != nil {
		t.Fatalf("NextScene failed: %v", err)
	}
	if !view.LevelCompleted {
		t.Error("Expected level completion after last scene")
	}
	if view.State.CurrentLevel != 2 {
		t.Errorf("Expected level 2, got %d", view.State.CurrentLevel)
	}
	if view.State.Score != 100 || view.State.Stars != 1 {
		t.Errorf("Expected 100 points and 1 star, got %d/%d", view.State.Score, view.State.Stars)
	}
}

func TestAssignCategory(t *testing.T) {
	e, _, _ := newTestEngine()
	playerID := startSession(t, e)
	completeInteractive(t, e, playerID)
	ctx := context.Background()

	view, err := e.AssignCategory(ctx, playerID, "matches", BinHazardous)
	if err != nil {
		t.Fatalf("AssignCategory failed: %v", err)
	}
	if view.Correct == nil || !*view.Correct {
		t.Error("Expected correct assignment")
	}
	if view.State.Score != 110 {
		t.Errorf("Expected score 110, got %d", view.State.Score)
	}
	if view.Assigned["matches"] != BinHazardous {
		t.Error("Expected matches to be assigned")
	}

	// re-assigning a placed item is rejected
	if _, err := e.AssignCategory(ctx, playerID, "matches", BinSafe); !errors.Is(err, ErrItemAssigned) {
		t.Errorf("Expected ErrItemAssigned, got %v", err)
	}

	if _, err := e.AssignCategory(ctx, playerID, "lamp", BinSafe); !errors.Is(err, ErrUnknownItem) {
		t.Errorf("Expected ErrUnknownItem, got %v", err)
	}
	if _, err := e.AssignCategory(ctx, playerID, "toy", "pile"); !errors.Is(err, ErrUnknownBin) {
		t.Errorf("Expected ErrUnknownBin, got %v", err)
	}
}

func TestAssignCategoryWrongBin(t *testing.T) {
	e, _, _ := newTestEngine()
	playerID := startSession(t, e)
	completeInteractive(t, e, playerID)
	ctx := context.Background()

	view, err := e.AssignCategory(ctx, playerID, "candle", BinSafe)
	if err != nil {
		t.Fatalf("AssignCategory failed: %v", err)
	}
	if view.Correct == nil || *view.Correct {
		t.Error("Expected incorrect assignment")
	}
	if view.State.Lives != 2 {
		t.Errorf("Expected 2 lives, got %d", view.State.Lives)
	}
	if view.State.Score != 100 {
		t.Errorf("Expected score unchanged at 100, got %d", view.State.Score)
	}
	if view.Message != "Неправильно! Свеча опасный предмет." {
		t.Errorf("Unexpected message: %q", view.Message)
	}
	if _, assigned := view.Assigned["candle"]; assigned {
		t.Error("Wrong placement must leave the item unassigned")
	}

	// the item stays available for a correct retry
	view, err = e.AssignCategory(ctx, playerID, "candle", BinHazardous)
	if err != nil {
		t.Fatalf("Retry failed: %v", err)
	}
	if view.Correct == nil || !*view.Correct {
		t.Error("Expected retry to succeed")
	}
}

func TestAssignCategoryCompletesLevel(t *testing.T) {
	e, _, _ := newTestEngine()
	playerID := startSession(t, e)
	completeInteractive(t, e, playerID)

	view := completeCategory(t, e, playerID)
	if !view.LevelCompleted {
		t.Error("Expected level completion after the final item")
	}
	if view.State.CurrentLevel != 3 {
		t.Errorf("Expected level 3, got %d", view.State.CurrentLevel)
	}
	// 100 from level 1, 5 items at 10 each, plus the completion reward
	if view.State.Score != 250 || view.State.Stars != 2 {
		t.Errorf("Expected 250 points and 2 stars, got %d/%d", view.State.Score, view.State.Stars)
	}
}

func TestQuizFlow(t *testing.T) {
	e, _, _ := newTestEngine()
	playerID := startSession(t, e)
	completeInteractive(t, e, playerID)
	completeCategory(t, e, playerID)
	ctx := context.Background()

	// checking before all answers are in is rejected
	if _, err := e.AnswerQuiz(playerID, 0, 1); err != nil {
		t.Fatalf("AnswerQuiz failed: %v", err)
	}
	if _, err := e.CheckQuiz(playerID); !errors.Is(err, ErrQuizIncomplete) {
		t.Errorf("Expected ErrQuizIncomplete, got %v", err)
	}
	if _, err := e.Advance(ctx, playerID); !errors.Is(err, ErrNotChecked) {
		t.Errorf("Expected ErrNotChecked, got %v", err)
	}

	if _, err := e.AnswerQuiz(playerID, 0, 9); !errors.Is(err, ErrQuestionRange) {
		t.Errorf("Expected ErrQuestionRange, got %v", err)
	}
	if _, err := e.AnswerQuiz(playerID, 7, 0); !errors.Is(err, ErrQuestionRange) {
		t.Errorf("Expected ErrQuestionRange, got %v", err)
	}

	view := completeQuiz(t, e, playerID)
	// 250 carried in, 4 correct answers at 100, plus the completion reward
	if view.State.Score != 750 || view.State.Stars != 3 {
		t.Errorf("Expected 750 points and 3 stars, got %d/%d", view.State.Score, view.State.Stars)
	}
	if view.State.CurrentLevel != 4 {
		t.Errorf("Expected level 4, got %d", view.State.CurrentLevel)
	}
}

func TestQuizMixedAnswers(t *testing.T) {
	e, _, _ := newTestEngine()
	playerID := startSession(t, e)
	completeInteractive(t, e, playerID)
	completeCategory(t, e, playerID)

	level, _ := fireCatalog.Level(3)
	for i, question := range level.Questions {
		answer := question.CorrectAnswer
		if i >= 2 {
			answer = (question.CorrectAnswer + 1) % len(question.Options)
		}
		// the final choice before checking is the one that counts
		if _, err := e.AnswerQuiz(playerID, i, (answer+1)%len(question.Options)); err != nil {
			t.Fatalf("AnswerQuiz failed: %v", err)
		}
		if _, err := e.AnswerQuiz(playerID, i, answer); err != nil {
			t.Fatalf("AnswerQuiz failed: %v", err)
		}
	}

	view, err := e.CheckQuiz(playerID)
	if err != nil {
		t.Fatalf("CheckQuiz failed: %v", err)
	}
	// 2 correct and 2 wrong cancel out
	if view.State.Score != 250 {
		t.Errorf("Expected score 250, got %d", view.State.Score)
	}

	if _, err := e.CheckQuiz(playerID); !errors.Is(err, ErrAlreadyChecked) {
		t.Errorf("Expected ErrAlreadyChecked, got %v", err)
	}
	if _, err := e.AnswerQuiz(playerID, 0, 0); !errors.Is(err, ErrAlreadyChecked) {
		t.Errorf("Expected ErrAlreadyChecked after check, got %v", err)
	}
}

func TestVideoSingleAward(t *testing.T) {
	e, _, _ := newTestEngine()
	playerID := startSession(t, e)
	completeInteractive(t, e, playerID)
	completeCategory(t, e, playerID)
	completeQuiz(t, e, playerID)

	view, err := e.VideoEnded(playerID)
	if err != nil {
		t.Fatalf("VideoEnded failed: %v", err)
	}
	if view.State.Score != 950 || view.State.Stars != 4 {
		t.Errorf("Expected 950 points and 4 stars, got %d/%d", view.State.Score, view.State.Stars)
	}

	// a repeated end signal must not award again
	view, err = e.VideoEnded(playerID)
	if err != nil {
		t.Fatalf("VideoEnded failed: %v", err)
	}
	if view.State.Score != 950 || view.State.Stars != 4 {
		t.Errorf("Expected award applied once, got %d/%d", view.State.Score, view.State.Stars)
	}

	// level completion after the video carries no additional reward
	view, err = e.Advance(context.Background(), playerID)
	if err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if view.State.CurrentLevel != 5 {
		t.Errorf("Expected level 5, got %d", view.State.CurrentLevel)
	}
	if view.State.Score != 950 || view.State.Stars != 4 {
		t.Errorf("Expected no generic reward, got %d/%d", view.State.Score, view.State.Stars)
	}
}

func TestKitCheck(t *testing.T) {
	e, _, _ := newTestEngine()
	playerID := startSession(t, e)
	completeInteractive(t, e, playerID)
	completeCategory(t, e, playerID)
	completeQuiz(t, e, playerID)
	completeVideo(t, e, playerID)
	ctx := context.Background()

	// a subset of the correct items is not enough
	for _, item := range []string{"helmet", "axe", "hose", "mask"} {
		if _, err := e.ToggleKitItem(playerID, item); err != nil {
			t.Fatalf("ToggleKitItem failed: %v", err)
		}
	}
	view, err := e.CheckKit(ctx, playerID)
	if err != nil {
		t.Fatalf("CheckKit failed: %v", err)
	}
	if view.Correct == nil || *view.Correct {
		t.Error("Expected kit check to fail on incomplete selection")
	}
	if view.State.Lives != 2 {
		t.Errorf("Expected 2 lives, got %d", view.State.Lives)
	}
	if len(view.KitSelected) != 4 {
		t.Errorf("Expected selection retained, got %v", view.KitSelected)
	}

	// completing the set but adding a wrong item still fails
	if _, err := e.ToggleKitItem(playerID, "gloves"); err != nil {
		t.Fatalf("ToggleKitItem failed: %v", err)
	}
	if _, err := e.ToggleKitItem(playerID, "umbrella"); err != nil {
		t.Fatalf("ToggleKitItem failed: %v", err)
	}
	view, err = e.CheckKit(ctx, playerID)
	if err != nil {
		t.Fatalf("CheckKit failed: %v", err)
	}
	if view.Correct == nil || *view.Correct {
		t.Error("Expected kit check to fail with a wrong item selected")
	}
	if view.State.Lives != 1 {
		t.Errorf("Expected 1 life, got %d", view.State.Lives)
	}

	// dropping the wrong item leaves exactly the correct set
	if _, err := e.ToggleKitItem(playerID, "umbrella"); err != nil {
		t.Fatalf("ToggleKitItem failed: %v", err)
	}
	view, err = e.CheckKit(ctx, playerID)
	if err != nil {
		t.Fatalf("CheckKit failed: %v", err)
	}
	if !view.GameCompleted {
		t.Error("Expected game completion after the final level")
	}
}

func TestFullGameFinishes(t *testing.T) {
	e, svc, store := newTestEngine()
	playerID := startSession(t, e)

	completeInteractive(t, e, playerID)
	completeCategory(t, e, playerID)
	completeQuiz(t, e, playerID)
	completeVideo(t, e, playerID)
	view := completeKit(t, e, playerID)

	if view.Status != StatusGameComplete {
		t.Errorf("Expected status %s, got %s", StatusGameComplete, view.Status)
	}
	if !view.GameCompleted || !view.ResultSaved {
		t.Error("Expected a completed game with the result saved")
	}
	if view.State.Score != 1050 || view.State.Stars != 5 {
		t.Errorf("Expected 1050 points and 5 stars, got %d/%d", view.State.Score, view.State.Stars)
	}
	if svc.recordCalls != 1 {
		t.Errorf("Expected exactly one finish call, got %d", svc.recordCalls)
	}
	if svc.lastStars != 5 || svc.lastScore != 1050 {
		t.Errorf("Expected 5/1050 recorded, got %d/%d", svc.lastStars, svc.lastScore)
	}

	for _, key := range []string{KeySessionState, KeyPlayerName, KeyRegistration} {
		if _, ok, _ := store.Get(playerID, key); ok {
			t.Errorf("Expected %s to be cleared after finish", key)
		}
	}
	if _, err := e.State(playerID); !errors.Is(err, ErrNoSession) {
		t.Errorf("Expected ErrNoSession after finish, got %v", err)
	}
}

func TestFinishRetry(t *testing.T) {
	e, svc, store := newTestEngine()
	playerID := startSession(t, e)

	completeInteractive(t, e, playerID)
	completeCategory(t, e, playerID)
	completeQuiz(t, e, playerID)
	completeVideo(t, e, playerID)

	svc.recordErr = errors.New("service unavailable")
	view := completeKit(t, e, playerID)

	if !view.GameCompleted {
		t.Error("Expected completion screen despite the failed save")
	}
	if view.ResultSaved {
		t.Error("Expected result marked unsaved")
	}
	if view.Message == "" {
		t.Error("Expected a save failure message")
	}
	if _, ok, _ := store.Get(playerID, KeySessionState); !ok {
		t.Error("Expected session retained for retry after failed save")
	}

	svc.recordErr = nil
	view, err := e.Advance(context.Background(), playerID)
	if err != nil {
		t.Fatalf("Retry failed: %v", err)
	}
	if !view.ResultSaved {
		t.Error("Expected result saved on retry")
	}
	if svc.recordCalls != 2 {
		t.Errorf("Expected 2 finish calls, got %d", svc.recordCalls)
	}
	if _, ok, _ := store.Get(playerID, KeySessionState); ok {
		t.Error("Expected session cleared after successful retry")
	}

	if _, err := e.Advance(context.Background(), playerID); !errors.Is(err, ErrNoSession) {
		t.Errorf("Expected ErrNoSession after saved finish, got %v", err)
	}
}

func TestSessionResumesFromStore(t *testing.T) {
	store := kvstore.NewMemoryStore()
	svc := &fakePlayerService{}
	e := NewEngine(store, svc)
	playerID := startSession(t, e)

	completeInteractive(t, e, playerID)
	if _, err := e.AssignCategory(context.Background(), playerID, "matches", BinHazardous); err != nil {
		t.Fatalf("AssignCategory failed: %v", err)
	}

	// a fresh engine over the same store picks the session back up
	restarted := NewEngine(store, svc)
	view, err := restarted.State(playerID)
	if err != nil {
		t.Fatalf("State after restart failed: %v", err)
	}
	if view.State.CurrentLevel != 2 {
		t.Errorf("Expected level 2 restored, got %d", view.State.CurrentLevel)
	}
	if view.State.Score != 110 {
		t.Errorf("Expected score 110 restored, got %d", view.State.Score)
	}
	if view.PlayerName != "Иван Иванов" {
		t.Errorf("Expected player name restored, got %q", view.PlayerName)
	}

	// transient per-level progress is not persisted
	if len(view.Assigned) != 0 {
		t.Errorf("Expected item assignments reset after restart, got %v", view.Assigned)
	}
}

func TestAbort(t *testing.T) {
	e, _, store := newTestEngine()
	playerID := startSession(t, e)

	if err := e.Abort(playerID); err != nil {
		t.Fatalf("Abort failed: %v", err)
	}
	for _, key := range []string{KeySessionState, KeyPlayerName, KeyRegistration} {
		if _, ok, _ := store.Get(playerID, key); ok {
			t.Errorf("Expected %s removed on abort", key)
		}
	}
	if _, err := e.State(playerID); !errors.Is(err, ErrNoSession) {
		t.Errorf("Expected ErrNoSession after abort, got %v", err)
	}
	if err := e.Abort(playerID); !errors.Is(err, ErrNoSession) {
		t.Errorf("Expected ErrNoSession on repeated abort, got %v", err)
	}
}

func TestWrongLevelType(t *testing.T) {
	e, _, _ := newTestEngine()
	playerID := startSession(t, e)
	ctx := context.Background()

	// level 1 is interactive, so everything else is out of place
	if _, err := e.AssignCategory(ctx, playerID, "matches", BinHazardous); !errors.Is(err, ErrWrongLevelType) {
		t.Errorf("Expected ErrWrongLevelType, got %v", err)
	}
	if _, err := e.CheckQuiz(playerID); !errors.Is(err, ErrWrongLevelType) {
		t.Errorf("Expected ErrWrongLevelType, got %v", err)
	}
	if _, err := e.VideoEnded(playerID); !errors.Is(err, ErrWrongLevelType) {
		t.Errorf("Expected ErrWrongLevelType, got %v", err)
	}
	if _, err := e.CheckKit(ctx, playerID); !errors.Is(err, ErrWrongLevelType) {
		t.Errorf("Expected ErrWrongLevelType, got %v", err)
	}
	if _, err := e.Advance(ctx, playerID); !errors.Is(err, ErrWrongLevelType) {
		t.Errorf("Expected ErrWrongLevelType, got %v", err)
	}

	completeInteractive(t, e, playerID)
	if _, err := e.NextScene(ctx, playerID); !errors.Is(err, ErrWrongLevelType) {
		t.Errorf("Expected ErrWrongLevelType on level 2, got %v", err)
	}
}

func TestUnknownPlayer(t *testing.T) {
	e, _, _ := newTestEngine()

	if _, err := e.State("ghost"); !errors.Is(err, ErrNoSession) {
		t.Errorf("Expected ErrNoSession, got %v", err)
	}
	if _, err := e.NextScene(context.Background(), "ghost"); !errors.Is(err, ErrNoSession) {
		t.Errorf("Expected ErrNoSession, got %v", err)
	}
}
