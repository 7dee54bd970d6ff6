package handlers

import (
	"net/http"

	"github.com/tubeport/backend/internal/auth"
	"github.com/tubeport/backend/internal/logging"
	"github.com/tubeport/backend/internal/models"
)

// ProfileHandler fetches and renders the authenticated user's profile.
type ProfileHandler struct {
	Sessions *auth.Manager
	Provider Provider
}

type profileData struct {
	Profile *models.Profile
}

// Show handles GET /profile. The profile is refetched from the provider and
// cached on the session for subsequent page renders.
func (h ProfileHandler) Show(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	session, ok := auth.SessionFromContext(ctx)
	if !ok {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	profile, err := h.Provider.UserInfo(ctx, session.Bundle)
	if err != nil {
		logger.Error("fetch user profile", "error", err)
		respondError(ctx, w, http.StatusBadGateway, "could not fetch your profile")
		return
	}

	if err := h.Sessions.PutProfile(ctx, session.ID, profile); err != nil {
		logger.Warn("cache profile on session", "error", err)
	}

	renderPage(ctx, w, http.StatusOK, "profile.html", profileData{Profile: &profile})
}
