package handlers

import (
	"errors"
	"net/http"

	"safeschool/internal/service"
	"safeschool/internal/validation"
)

// AuthHandler handles teacher sign-up and sign-in requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type signUpRequest struct {
	PhoneNumber  string `json:"phone_number"`
	EmailAddress string `json:"email_adress"`
	Password     string `json:"password"`
	Name         string `json:"name"`
}

type signInRequest struct {
	PhoneNumber string `json:"phone_number"`
	Password    string `json:"password"`
}

type authResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
}

// SignUp handles POST /api/v1/auth/sign-up
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "Failed to decode sign-up request", err)
		return
	}

	_, err := h.authService.SignUp(req.PhoneNumber, req.EmailAddress, req.Password, req.Name)
	if err != nil {
		var validationErr validation.ValidationError
		switch {
		case errors.As(err, &validationErr):
			respondWithError(w, http.StatusBadRequest, validationErr.Error(), "", nil)
		case errors.Is(err, service.ErrPhoneTaken), errors.Is(err, service.ErrEmailTaken):
			respondWithError(w, http.StatusConflict, err.Error(), "", nil)
		default:
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Sign-up failed", err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{
		Success: true,
		Message: "Account created",
	})
}

// SignIn handles POST /api/v1/auth/sign-in
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "Failed to decode sign-in request", err)
		return
	}

	token, _, err := h.authService.SignIn(req.PhoneNumber, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeJSON(w, http.StatusUnauthorized, authResponse{
				Success: false,
				Message: "Invalid phone number or password",
			})
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Sign-in failed", err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		Success: true,
		Message: "Signed in",
		Token:   token,
	})
}
