package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/tubeport/backend/internal/auth"
	"github.com/tubeport/backend/internal/logging"
)

// AuthHandler implements the OAuth login flow endpoints. The flow runs in a
// browser popup: the callback page signals the opener window and closes
// itself.
type AuthHandler struct {
	Flow       OAuthFlow
	Sessions   *auth.Manager
	Cookies    *auth.CookieCodec
	SessionTTL time.Duration
}

// Start handles GET /auth/google by redirecting to the consent screen.
func (h AuthHandler) Start(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	state := uuid.NewString()
	h.Cookies.WriteState(w, state)

	http.Redirect(w, r, h.Flow.AuthCodeURL(state), http.StatusFound)
}

// Callback handles GET /auth/google/callback: it exchanges the authorization
// code for a credential bundle, stores it in the session, and signals the
// opening window.
func (h AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	state, ok := h.Cookies.ReadState(w, r)
	if !ok || state == "" || r.URL.Query().Get("state") != state {
		logger.Warn("oauth callback state mismatch")
		respondError(ctx, w, http.StatusBadRequest, "login failed: invalid state")
		return
	}

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		logger.Warn("provider denied authorization", "error", errParam)
		respondError(ctx, w, http.StatusBadRequest, "login failed: authorization denied")
		return
	}

	bundle, err := h.Flow.Exchange(ctx, r.URL.Query().Get("code"))
	if err != nil {
		logger.Error("token exchange failed", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "login failed: could not complete sign-in")
		return
	}

	id, ok := h.Cookies.ReadSession(r)
	if !ok {
		id, err = h.Sessions.NewSessionID()
		if err != nil {
			logger.Error("generate session id", "error", err)
			respondError(ctx, w, http.StatusInternalServerError, "login failed: could not create session")
			return
		}
	}

	if err := h.Sessions.Put(ctx, id, bundle); err != nil {
		logger.Error("store credential bundle", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "login failed: could not create session")
		return
	}

	h.Cookies.WriteSession(w, id, h.SessionTTL)
	renderPage(ctx, w, http.StatusOK, "callback.html", nil)
}

// Logout handles GET /logout by destroying the session.
func (h AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if id, ok := h.Cookies.ReadSession(r); ok {
		h.Sessions.Clear(r.Context(), id)
	}

	h.Cookies.ClearSession(w)
	http.Redirect(w, r, "/", http.StatusFound)
}
