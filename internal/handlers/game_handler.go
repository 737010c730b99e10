package handlers

import (
	"errors"
	"net/http"

	"safeschool/internal/game"
	"safeschool/internal/service"
)

// GameHandler serves the public game endpoints used by students
type GameHandler struct {
	gameService *service.GameService
	engine      *game.Engine
}

// NewGameHandler creates a new game handler
func NewGameHandler(gameService *service.GameService, engine *game.Engine) *GameHandler {
	return &GameHandler{
		gameService: gameService,
		engine:      engine,
	}
}

type registerRequest struct {
	Code     string `json:"code"`
	FullName string `json:"full_name"`
}

type finishRequest struct {
	Stars int `json:"stars"`
	Score int `json:"score"`
}

// CheckLink handles GET /api/v1/user/check-link/{code}
func (h *GameHandler) CheckLink(w http.ResponseWriter, r *http.Request) {
	link, err := h.gameService.CheckLink(r.PathValue("code"))
	if err != nil {
		if errors.Is(err, service.ErrCodeNotFound) {
			respondWithError(w, http.StatusNotFound, "Link not found", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to check link", err)
		return
	}
	writeJSON(w, http.StatusOK, link)
}

// Register handles POST /api/v1/game/register: registers the player and
// opens a game session at level 1
func (h *GameHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "Failed to decode register request", err)
		return
	}

	view, err := h.engine.Start(r.Context(), req.Code, req.FullName)
	if err != nil {
		switch {
		case errors.Is(err, game.ErrNameRequired):
			respondWithError(w, http.StatusBadRequest, "Full name is required", "", nil)
		case errors.Is(err, service.ErrCodeNotFound), errors.Is(err, game.ErrRegistrationFailed):
			respondWithError(w, http.StatusNotFound, "Link not found", "Registration failed", err)
		default:
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Registration failed", err)
		}
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

// Finish handles PUT /api/v1/game/finish/{playerId}: records a final result
// reported by the client
func (h *GameHandler) Finish(w http.ResponseWriter, r *http.Request) {
	var req finishRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "Failed to decode finish request", err)
		return
	}

	player, err := h.gameService.RecordResult(r.Context(), r.PathValue("playerId"), req.Stars, req.Score)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPlayerNotFound):
			respondWithError(w, http.StatusNotFound, "Player not found", "", nil)
		case errors.Is(err, service.ErrAlreadyFinished):
			respondWithError(w, http.StatusConflict, "Result already recorded", "", nil)
		default:
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to record result", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, player)
}
