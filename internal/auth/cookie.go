package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"
	"time"
)

const (
	// SessionCookieName carries the signed session identifier.
	SessionCookieName = "tubeport_session"
	// StateCookieName carries the OAuth state nonce between the consent
	// redirect and the callback.
	StateCookieName = "tubeport_oauth_state"
)

// CookieCodec signs cookie values with HMAC-SHA256 so a tampered session id
// reads as no session at all.
type CookieCodec struct {
	secret []byte
}

// NewCookieCodec constructs a codec from the configured signing secret.
func NewCookieCodec(secret string) *CookieCodec {
	return &CookieCodec{secret: []byte(secret)}
}

// WriteSession sets the signed session cookie for the browser session.
func (c *CookieCodec) WriteSession(w http.ResponseWriter, id string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    c.encode(id),
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ReadSession extracts and verifies the session id from the request.
func (c *CookieCodec) ReadSession(r *http.Request) (string, bool) {
	return c.read(r, SessionCookieName)
}

// ClearSession expires the session cookie.
func (c *CookieCodec) ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// WriteState sets a short-lived cookie with the OAuth state nonce.
func (c *CookieCodec) WriteState(w http.ResponseWriter, state string) {
	http.SetCookie(w, &http.Cookie{
		Name:     StateCookieName,
		Value:    c.encode(state),
		Path:     "/",
		MaxAge:   int(10 * time.Minute / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ReadState extracts and verifies the OAuth state nonce, expiring the cookie.
func (c *CookieCodec) ReadState(w http.ResponseWriter, r *http.Request) (string, bool) {
	state, ok := c.read(r, StateCookieName)
	http.SetCookie(w, &http.Cookie{
		Name:     StateCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return state, ok
}

func (c *CookieCodec) encode(value string) string {
	return value + "." + c.sign(value)
}

func (c *CookieCodec) read(r *http.Request, name string) (string, bool) {
	cookie, err := r.Cookie(name)
	if err != nil {
		return "", false
	}

	value, sig, ok := strings.Cut(cookie.Value, ".")
	if !ok || value == "" {
		return "", false
	}

	if !hmac.Equal([]byte(sig), []byte(c.sign(value))) {
		return "", false
	}

	return value, true
}

func (c *CookieCodec) sign(value string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(value))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
