package handlers

import (
	"errors"
	"net/http"

	"safeschool/internal/game"
)

// SessionHandler serves the in-game session actions
type SessionHandler struct {
	engine *game.Engine
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(engine *game.Engine) *SessionHandler {
	return &SessionHandler{engine: engine}
}

type categoryRequest struct {
	ItemID   string `json:"item_id"`
	Category string `json:"category"`
}

type quizAnswerRequest struct {
	Question int `json:"question"`
	Answer   int `json:"answer"`
}

type kitToggleRequest struct {
	ItemID string `json:"item_id"`
}

// State handles GET /api/v1/game/session/{playerId}
func (h *SessionHandler) State(w http.ResponseWriter, r *http.Request) {
	view, err := h.engine.State(r.PathValue("playerId"))
	if err != nil {
		respondSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Abort handles DELETE /api/v1/game/session/{playerId}
func (h *SessionHandler) Abort(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.Abort(r.PathValue("playerId")); err != nil {
		respondSessionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// NextScene handles POST /api/v1/game/session/{playerId}/scene/next
func (h *SessionHandler) NextScene(w http.ResponseWriter, r *http.Request) {
	view, err := h.engine.NextScene(r.Context(), r.PathValue("playerId"))
	if err != nil {
		respondSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// AssignCategory handles POST /api/v1/game/session/{playerId}/category
func (h *SessionHandler) AssignCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "Failed to decode category request", err)
		return
	}

	view, err := h.engine.AssignCategory(r.Context(), r.PathValue("playerId"), req.ItemID, req.Category)
	if err != nil {
		respondSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// AnswerQuiz handles POST /api/v1/game/session/{playerId}/quiz/answer
func (h *SessionHandler) AnswerQuiz(w http.ResponseWriter, r *http.Request) {
	var req quizAnswerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "Failed to decode quiz answer", err)
		return
	}

	view, err := h.engine.AnswerQuiz(r.PathValue("playerId"), req.Question, req.Answer)
	if err != nil {
		respondSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// CheckQuiz handles POST /api/v1/game/session/{playerId}/quiz/check
func (h *SessionHandler) CheckQuiz(w http.ResponseWriter, r *http.Request) {
	view, err := h.engine.CheckQuiz(r.PathValue("playerId"))
	if err != nil {
		respondSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// VideoEnded handles POST /api/v1/game/session/{playerId}/video/end
func (h *SessionHandler) VideoEnded(w http.ResponseWriter, r *http.Request) {
	view, err := h.engine.VideoEnded(r.PathValue("playerId"))
	if err != nil {
		respondSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// ToggleKitItem handles POST /api/v1/game/session/{playerId}/kit/toggle
func (h *SessionHandler) ToggleKitItem(w http.ResponseWriter, r *http.Request) {
	var req kitToggleRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "Failed to decode kit toggle", err)
		return
	}

	view, err := h.engine.ToggleKitItem(r.PathValue("playerId"), req.ItemID)
	if err != nil {
		respondSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// CheckKit handles POST /api/v1/game/session/{playerId}/kit/check
func (h *SessionHandler) CheckKit(w http.ResponseWriter, r *http.Request) {
	view, err := h.engine.CheckKit(r.Context(), r.PathValue("playerId"))
	if err != nil {
		respondSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Advance handles POST /api/v1/game/session/{playerId}/advance
func (h *SessionHandler) Advance(w http.ResponseWriter, r *http.Request) {
	view, err := h.engine.Advance(r.Context(), r.PathValue("playerId"))
	if err != nil {
		respondSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// respondSessionError maps engine errors onto HTTP statuses
func respondSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrNoSession):
		respondWithError(w, http.StatusNotFound, "No active session", "", nil)
	case errors.Is(err, game.ErrGameComplete):
		respondWithError(w, http.StatusConflict, "Game already complete", "", nil)
	case errors.Is(err, game.ErrItemAssigned), errors.Is(err, game.ErrAlreadyChecked):
		respondWithError(w, http.StatusConflict, err.Error(), "", nil)
	case errors.Is(err, game.ErrWrongLevelType),
		errors.Is(err, game.ErrUnknownItem),
		errors.Is(err, game.ErrUnknownBin),
		errors.Is(err, game.ErrQuizIncomplete),
		errors.Is(err, game.ErrNotChecked),
		errors.Is(err, game.ErrQuestionRange):
		respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
	default:
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Session action failed", err)
	}
}
