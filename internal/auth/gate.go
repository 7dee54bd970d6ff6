package auth

import (
	"context"
	"net/http"
)

type sessionCtxKey struct{}

// SessionFromContext returns the session admitted by RequireSession.
func SessionFromContext(ctx context.Context) (Session, bool) {
	session, ok := ctx.Value(sessionCtxKey{}).(Session)
	return session, ok
}

// RequireSession admits a request only when the browser session holds a
// credential bundle; everything else is redirected to the entry page. The
// admitted session is placed on the request context.
func RequireSession(manager *Manager, codec *CookieCodec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := codec.ReadSession(r)
			if !ok {
				http.Redirect(w, r, "/", http.StatusFound)
				return
			}

			session, err := manager.Get(r.Context(), id)
			if err != nil || !session.Authenticated() {
				http.Redirect(w, r, "/", http.StatusFound)
				return
			}

			ctx := context.WithValue(r.Context(), sessionCtxKey{}, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
