package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/tubeport/backend/internal/models"
)

// Manager owns the lifecycle of browser sessions backed by a SessionStore.
// Writes to the same session id are serialized so concurrent requests from
// one browser cannot corrupt its state.
type Manager struct {
	ttl   time.Duration
	store SessionStore

	mu    sync.Mutex
	locks map[string]*sync.Mutex

	now func() time.Time
}

// NewManager constructs a Manager whose sessions expire after the provided TTL.
func NewManager(ttl time.Duration, store SessionStore) *Manager {
	if store == nil {
		panic("auth: session store must not be nil")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{
		ttl:   ttl,
		store: store,
		locks: make(map[string]*sync.Mutex),
		now:   time.Now,
	}
}

// NewSessionID returns a fresh opaque session identifier.
func (m *Manager) NewSessionID() (string, error) {
	return randomToken()
}

// Put stores the credential bundle for the session, creating the session
// record when it does not exist yet.
func (m *Manager) Put(ctx context.Context, id string, bundle *oauth2.Token) error {
	if id == "" {
		return errors.New("session id must be provided")
	}
	if bundle == nil {
		return errors.New("credential bundle must be provided")
	}

	unlock := m.lock(id)
	defer unlock()

	now := m.now().UTC()
	session, err := m.find(ctx, id, now)
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			return err
		}
		session = Session{ID: id, CreatedAt: now, ExpiresAt: now.Add(m.ttl)}
	}

	session.Bundle = bundle
	return m.store.Save(ctx, session)
}

// Get returns the session for the identifier, treating expired sessions as
// absent.
func (m *Manager) Get(ctx context.Context, id string) (Session, error) {
	if id == "" {
		return Session{}, ErrSessionNotFound
	}
	return m.find(ctx, id, m.now().UTC())
}

// PutProfile caches the fetched user profile on an existing session.
func (m *Manager) PutProfile(ctx context.Context, id string, profile models.Profile) error {
	if id == "" {
		return ErrSessionNotFound
	}

	unlock := m.lock(id)
	defer unlock()

	session, err := m.find(ctx, id, m.now().UTC())
	if err != nil {
		return err
	}

	session.Profile = &profile
	return m.store.Save(ctx, session)
}

// Clear removes the session, invalidating its credential bundle.
func (m *Manager) Clear(ctx context.Context, id string) {
	if id == "" {
		return
	}

	unlock := m.lock(id)
	defer unlock()

	_ = m.store.Delete(ctx, id)
}

func (m *Manager) find(ctx context.Context, id string, now time.Time) (Session, error) {
	session, err := m.store.Find(ctx, id)
	if err != nil {
		return Session{}, err
	}

	if session.Expired(now) {
		_ = m.store.Delete(ctx, id)
		return Session{}, ErrSessionNotFound
	}

	return session, nil
}

// lock acquires the per-session mutex and returns its release func.
func (m *Manager) lock(id string) func() {
	m.mu.Lock()
	l, ok := m.locks[id]
	if !ok {
		l = &sync.Mutex{}
		m.locks[id] = l
	}
	m.mu.Unlock()

	l.Lock()
	return l.Unlock
}

func randomToken() (string, error) {
	const size = 32
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
