package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"github.com/tubeport/backend/internal/auth"
	"github.com/tubeport/backend/internal/models"
)

type fakeFlow struct {
	authURL  string
	bundle   *oauth2.Token
	err      error
	gotState string
	gotCode  string
}

func (f *fakeFlow) AuthCodeURL(state string) string {
	f.gotState = state
	return f.authURL + "?state=" + state
}

func (f *fakeFlow) Exchange(_ context.Context, code string) (*oauth2.Token, error) {
	f.gotCode = code
	if f.err != nil {
		return nil, f.err
	}
	return f.bundle, nil
}

type fakeProvider struct {
	profile      models.Profile
	profileErr   error
	hasChannel   bool
	channelErr   error
	channelCalls int
}

func (p *fakeProvider) UserInfo(_ context.Context, _ *oauth2.Token) (models.Profile, error) {
	if p.profileErr != nil {
		return models.Profile{}, p.profileErr
	}
	return p.profile, nil
}

func (p *fakeProvider) HasChannel(_ context.Context, _ *oauth2.Token) (bool, error) {
	p.channelCalls++
	if p.channelErr != nil {
		return false, p.channelErr
	}
	return p.hasChannel, nil
}

type fakeRelay struct {
	receipt    models.Receipt
	err        error
	calls      int
	gotUpload  models.Upload
	gotPayload string
}

func (r *fakeRelay) Do(_ context.Context, _ *oauth2.Token, upload models.Upload, payload io.Reader) (models.Receipt, error) {
	r.calls++
	if r.err != nil {
		return models.Receipt{}, r.err
	}
	body, err := io.ReadAll(payload)
	if err != nil {
		return models.Receipt{}, err
	}
	r.gotUpload = upload
	r.gotPayload = string(body)
	return r.receipt, nil
}

type denyAllLimiter struct{}

func (denyAllLimiter) Allow(string) bool { return false }

// newSessionEnv builds a manager/codec pair over an in-memory store.
func newSessionEnv(t *testing.T) (*auth.Manager, *auth.CookieCodec) {
	t.Helper()
	return auth.NewManager(time.Hour, auth.NewInMemorySessionStore()), auth.NewCookieCodec("test-secret")
}

// authenticate stores a credential bundle for a session and returns the
// signed cookie a browser would carry.
func authenticate(t *testing.T, manager *auth.Manager, codec *auth.CookieCodec, id string) *http.Cookie {
	t.Helper()

	if err := manager.Put(context.Background(), id, &oauth2.Token{AccessToken: "at"}); err != nil {
		t.Fatalf("store bundle: %v", err)
	}

	rec := httptest.NewRecorder()
	codec.WriteSession(rec, id, time.Hour)
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected session cookie to be written")
	}
	return cookies[0]
}
