package uploads

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

type memoryObjectStore struct {
	mu      sync.Mutex
	objects map[string]string
	fail    error
}

func newMemoryObjectStore() *memoryObjectStore {
	return &memoryObjectStore{objects: make(map[string]string)}
}

func (s *memoryObjectStore) Save(_ context.Context, name string, r io.Reader) (string, error) {
	if s.fail != nil {
		return "", s.fail
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.objects[name] = string(body)
	s.mu.Unlock()
	return "bucket/" + name, nil
}

func (s *memoryObjectStore) get(name string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	body, ok := s.objects[name]
	return body, ok
}

func writeStaged(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.mp4")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write staged file: %v", err)
	}
	return path
}

func TestArchiverCopiesStagedFile(t *testing.T) {
	store := newMemoryObjectStore()
	archiver := NewArchiver(store, ArchiverConfig{QueueSize: 4, Workers: 2}, nil)

	path := writeStaged(t, "payload")
	if err := archiver.Enqueue(context.Background(), ArchiveJob{Name: "clip.mp4", Path: path}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := archiver.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	body, ok := store.get("clip.mp4")
	if !ok || body != "payload" {
		t.Fatalf("expected archived copy, got %q ok=%v", body, ok)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("archiving must not remove the local file: %v", err)
	}
}

func TestArchiverEnqueueAfterShutdown(t *testing.T) {
	archiver := NewArchiver(newMemoryObjectStore(), ArchiverConfig{}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := archiver.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	err := archiver.Enqueue(context.Background(), ArchiveJob{Name: "clip.mp4", Path: "irrelevant"})
	if !errors.Is(err, errArchiverClosed) {
		t.Fatalf("expected archiver closed error got %v", err)
	}
}

func TestArchiverSurvivesStoreFailure(t *testing.T) {
	store := newMemoryObjectStore()
	store.fail = errors.New("bucket unavailable")
	archiver := NewArchiver(store, ArchiverConfig{}, nil)

	path := writeStaged(t, "payload")
	if err := archiver.Enqueue(context.Background(), ArchiveJob{Name: "clip.mp4", Path: path}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := archiver.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown after store failure: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("local file must remain after failed archive: %v", err)
	}
}
