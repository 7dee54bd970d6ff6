package handlers

import (
	"net/http"

	"github.com/tubeport/backend/internal/auth"
	"github.com/tubeport/backend/internal/models"
)

// PageHandler renders the entry page.
type PageHandler struct {
	Sessions *auth.Manager
	Cookies  *auth.CookieCodec
}

type indexData struct {
	Profile *models.Profile
}

// Index handles GET /. The page is public; a cached profile is shown when the
// browser has an authenticated session.
func (h PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	data := indexData{}
	if id, ok := h.Cookies.ReadSession(r); ok {
		if session, err := h.Sessions.Get(r.Context(), id); err == nil {
			data.Profile = session.Profile
		}
	}

	renderPage(r.Context(), w, http.StatusOK, "index.html", data)
}
