package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"safeschool/internal/security"
	"safeschool/internal/service"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// OAuthHandler implements Google sign-in for teachers. The browser is sent
// to Google and comes back through the callback, which hands the frontend a
// bearer token.
type OAuthHandler struct {
	authService   *service.AuthService
	config        *oauth2.Config
	publicBaseURL string
}

// NewOAuthHandler creates a new OAuth handler. With no client credentials
// configured the endpoints report the provider as unavailable.
func NewOAuthHandler(authService *service.AuthService, clientID, clientSecret, redirectBase, publicBaseURL string) *OAuthHandler {
	return &OAuthHandler{
		authService: authService,
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectBase + "/api/v1/auth/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		publicBaseURL: publicBaseURL,
	}
}

func (h *OAuthHandler) configured() bool {
	return h.config.ClientID != "" && h.config.ClientSecret != ""
}

// Start handles GET /api/v1/auth/google/start
func (h *OAuthHandler) Start(w http.ResponseWriter, r *http.Request) {
	if !h.configured() {
		respondWithError(w, http.StatusBadRequest, "OAuth provider not configured", "", nil)
		return
	}

	state, err := security.GenerateAccessCode()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to generate OAuth state", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.config.AuthCodeURL(state, oauth2.AccessTypeOnline), http.StatusFound)
}

// Callback handles GET /api/v1/auth/google/callback
func (h *OAuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	if !h.configured() {
		respondWithError(w, http.StatusBadRequest, "OAuth provider not configured", "", nil)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		respondWithError(w, http.StatusBadRequest, "Missing authorization code", "", nil)
		return
	}

	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		respondWithError(w, http.StatusBadRequest, "Invalid OAuth state", "", nil)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	oauthToken, err := h.config.Exchange(ctx, code)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Failed to exchange OAuth code", "OAuth exchange failed", err)
		return
	}

	subject, email, name, err := h.fetchGoogleUser(ctx, oauthToken)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Failed to fetch Google account", "", err)
		return
	}

	token, _, err := h.authService.SignInOAuth("google", subject, email, name)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "OAuth sign-in failed", err)
		return
	}

	redirect := fmt.Sprintf("%s/teacher?token=%s", h.publicBaseURL, url.QueryEscape(token))
	http.Redirect(w, r, redirect, http.StatusSeeOther)
}

func (h *OAuthHandler) fetchGoogleUser(ctx context.Context, token *oauth2.Token) (subject, email, name string, err error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))
	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to fetch Google user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", "", fmt.Errorf("failed to fetch Google user info: status %d", resp.StatusCode)
	}

	var payload struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", "", "", fmt.Errorf("failed to parse Google user info: %w", err)
	}
	return payload.ID, payload.Email, payload.Name, nil
}
