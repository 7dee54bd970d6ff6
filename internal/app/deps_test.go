package app

import (
	"context"
	"testing"
	"time"

	"github.com/tubeport/backend/internal/config"
)

func TestBuildDependencies(t *testing.T) {
	cfg := config.Config{
		ClientID:      "client",
		ClientSecret:  "secret",
		RedirectURL:   "http://localhost:8080/auth/google/callback",
		SessionSecret: "signing-secret",
		SessionTTL:    time.Hour,
		UploadDir:     t.TempDir(),
	}

	deps, archiver, err := buildDependencies(context.Background(), nil, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if archiver != nil {
		t.Fatal("expected no archiver without a configured bucket")
	}

	if deps.Sessions == nil {
		t.Fatal("expected session manager to be configured")
	}
	if deps.Cookies == nil {
		t.Fatal("expected cookie codec to be configured")
	}
	if deps.Flow == nil {
		t.Fatal("expected oauth flow to be configured")
	}
	if deps.Provider == nil {
		t.Fatal("expected provider client to be configured")
	}
	if deps.Relay == nil {
		t.Fatal("expected upload relay to be configured")
	}
	if deps.UploadLimiter == nil {
		t.Fatal("expected upload rate limiter to be configured")
	}
}

func TestBuildDependenciesWithArchive(t *testing.T) {
	cfg := config.Config{
		ClientID:      "client",
		ClientSecret:  "secret",
		SessionSecret: "signing-secret",
		SessionTTL:    time.Hour,
		UploadDir:     t.TempDir(),
		Archive: config.ArchiveConfig{
			Bucket:   "test-bucket",
			Region:   "us-east-1",
			Endpoint: "http://localhost:9000",
		},
	}

	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")

	deps, archiver, err := buildDependencies(context.Background(), nil, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if archiver == nil {
		t.Fatal("expected an archiver for the configured bucket")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = archiver.Shutdown(ctx)
	}()

	if deps.Relay == nil {
		t.Fatal("expected upload relay to be configured")
	}
}
