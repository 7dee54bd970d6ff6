package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func protectedHandler(t *testing.T, called *bool) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		if _, ok := SessionFromContext(r.Context()); !ok {
			t.Error("expected admitted session on the request context")
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireSessionRedirectsWithoutCookie(t *testing.T) {
	manager := NewManager(time.Hour, NewInMemorySessionStore())
	codec := NewCookieCodec("secret")

	var called bool
	handler := RequireSession(manager, codec)(protectedHandler(t, &called))

	req := httptest.NewRequest(http.MethodGet, "/upload", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if called {
		t.Fatal("protected handler must not run for unauthenticated request")
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("expected %d got %d", http.StatusFound, rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Fatalf("expected redirect to entry page got %q", loc)
	}
}

func TestRequireSessionRedirectsForUnknownSession(t *testing.T) {
	manager := NewManager(time.Hour, NewInMemorySessionStore())
	codec := NewCookieCodec("secret")

	var called bool
	handler := RequireSession(manager, codec)(protectedHandler(t, &called))

	rec := httptest.NewRecorder()
	codec.WriteSession(rec, "never-stored", time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	for _, cookie := range rec.Result().Cookies() {
		req.AddCookie(cookie)
	}

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if called || resp.Code != http.StatusFound {
		t.Fatalf("expected redirect, called=%v code=%d", called, resp.Code)
	}
}

func TestRequireSessionAdmitsAuthenticatedSession(t *testing.T) {
	manager := NewManager(time.Hour, NewInMemorySessionStore())
	codec := NewCookieCodec("secret")

	if err := manager.Put(context.Background(), "sess-1", &oauth2.Token{AccessToken: "at"}); err != nil {
		t.Fatalf("put: %v", err)
	}

	var called bool
	handler := RequireSession(manager, codec)(protectedHandler(t, &called))

	rec := httptest.NewRecorder()
	codec.WriteSession(rec, "sess-1", time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/upload", nil)
	for _, cookie := range rec.Result().Cookies() {
		req.AddCookie(cookie)
	}

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if !called {
		t.Fatal("expected protected handler to run")
	}
	if resp.Code != http.StatusOK {
		t.Fatalf("expected %d got %d", http.StatusOK, resp.Code)
	}
}
