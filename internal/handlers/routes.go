package handlers

import (
	"net/http"
	"time"

	"github.com/tubeport/backend/internal/auth"
)

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Sessions      *auth.Manager
	Cookies       *auth.CookieCodec
	Flow          OAuthFlow
	Provider      Provider
	Relay         UploadRelay
	UploadLimiter RateLimiter
	SessionTTL    time.Duration
}

// RegisterRoutes wires HTTP handlers into the provided ServeMux. The profile
// and upload routes sit behind the session gate; everything else is public.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	gate := auth.RequireSession(deps.Sessions, deps.Cookies)

	health := HealthHandler{}
	pages := PageHandler{Sessions: deps.Sessions, Cookies: deps.Cookies}
	login := AuthHandler{Flow: deps.Flow, Sessions: deps.Sessions, Cookies: deps.Cookies, SessionTTL: deps.SessionTTL}
	profile := ProfileHandler{Sessions: deps.Sessions, Provider: deps.Provider}
	upload := UploadHandler{Provider: deps.Provider, Relay: deps.Relay, Limiter: deps.UploadLimiter}

	mux.HandleFunc("/healthz", health.Handle)
	mux.HandleFunc("/", pages.Index)
	mux.HandleFunc("/auth/google", login.Start)
	mux.HandleFunc("/auth/google/callback", login.Callback)
	mux.HandleFunc("/logout", login.Logout)
	mux.Handle("/profile", gate(http.HandlerFunc(profile.Show)))
	mux.Handle("/upload", gate(http.HandlerFunc(upload.Handle)))
}
