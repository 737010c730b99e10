package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"safeschool/internal/service"

	qrcode "github.com/skip2/go-qrcode"
)

// DataHandler serves the authenticated teacher endpoints
type DataHandler struct {
	linkService   *service.LinkService
	publicBaseURL string
}

// NewDataHandler creates a new data handler
func NewDataHandler(linkService *service.LinkService, publicBaseURL string) *DataHandler {
	return &DataHandler{
		linkService:   linkService,
		publicBaseURL: publicBaseURL,
	}
}

type createLinkRequest struct {
	GameName  string `json:"game_name"`
	SchoolNum string `json:"school_num"`
	Class     string `json:"class"`
	Comment   string `json:"comment"`
}

// GetUser handles GET /api/v1/data/get-user
func (h *DataHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// GetLinks handles GET /api/v1/data/links
func (h *DataHandler) GetLinks(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	links, err := h.linkService.GetLinks(user.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to list links", err)
		return
	}
	writeJSON(w, http.StatusOK, links)
}

// CreateLink handles POST /api/v1/data/create-link
func (h *DataHandler) CreateLink(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	var req createLinkRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "Failed to decode create-link request", err)
		return
	}

	link, err := h.linkService.CreateLink(user.ID, req.GameName, req.SchoolNum, req.Class, req.Comment)
	if err != nil {
		if errors.Is(err, service.ErrUnknownGameName) {
			respondWithError(w, http.StatusBadRequest, "Unknown game name", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to create link", err)
		return
	}
	writeJSON(w, http.StatusCreated, link)
}

// DeleteLink handles DELETE /api/v1/data/links/{code}
func (h *DataHandler) DeleteLink(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	if err := h.linkService.DeleteLink(user.ID, r.PathValue("code")); err != nil {
		if errors.Is(err, service.ErrLinkNotFound) {
			respondWithError(w, http.StatusNotFound, "Link not found", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to delete link", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetStats handles GET /api/v1/data/stats/{code}
func (h *DataHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	players, err := h.linkService.GetStats(user.ID, r.PathValue("code"))
	if err != nil {
		if errors.Is(err, service.ErrLinkNotFound) {
			respondWithError(w, http.StatusNotFound, "Link not found", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to load stats", err)
		return
	}
	writeJSON(w, http.StatusOK, players)
}

// GetLinkQR handles GET /api/v1/data/links/{code}/qr and returns a PNG code
// pointing students at the game URL
func (h *DataHandler) GetLinkQR(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	link, err := h.linkService.GetLink(user.ID, r.PathValue("code"))
	if err != nil {
		if errors.Is(err, service.ErrLinkNotFound) {
			respondWithError(w, http.StatusNotFound, "Link not found", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to load link", err)
		return
	}

	size := 256
	if s := r.URL.Query().Get("size"); s != "" {
		if parsed, err := strconv.Atoi(s); err == nil && parsed >= 64 && parsed <= 1024 {
			size = parsed
		}
	}

	gameURL := fmt.Sprintf("%s/school/game/%s", h.publicBaseURL, link.Code)
	png, err := qrcode.Encode(gameURL, qrcode.Medium, size)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to render QR code", err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
