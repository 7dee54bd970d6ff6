package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tubeport/backend/internal/auth"
	"github.com/tubeport/backend/internal/config"
	"github.com/tubeport/backend/internal/handlers"
	"github.com/tubeport/backend/internal/middleware"
	"github.com/tubeport/backend/internal/repositories"
	"github.com/tubeport/backend/internal/storage"
	"github.com/tubeport/backend/internal/uploads"
	"github.com/tubeport/backend/internal/youtube"
)

// buildDependencies wires together concrete implementations used by the HTTP
// handlers. Sessions live in memory unless a database pool is provided, and
// the returned archiver is nil unless an archive bucket is configured.
func buildDependencies(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) (handlers.Dependencies, *uploads.Archiver, error) {
	flow := auth.NewFlow(auth.FlowConfig{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
	})
	provider := youtube.NewClient(flow, "")

	var sessionStore auth.SessionStore = auth.NewInMemorySessionStore()
	if pool != nil {
		sessionStore = repositories.NewPostgresSessionStore(pool)
	}

	var archiver *uploads.Archiver
	var archives uploads.ArchiveQueue
	if cfg.Archive.Bucket != "" {
		store, err := storage.NewS3Archive(ctx, cfg.Archive)
		if err != nil {
			return handlers.Dependencies{}, nil, fmt.Errorf("configure archive store: %w", err)
		}
		archiver = uploads.NewArchiver(store, uploads.ArchiverConfig{}, slog.Default())
		archives = archiver
	}

	relay := uploads.NewRelay(uploads.NewDirStaging(cfg.UploadDir), provider, archives)

	deps := handlers.Dependencies{
		Sessions:      auth.NewManager(cfg.SessionTTL, sessionStore),
		Cookies:       auth.NewCookieCodec(cfg.SessionSecret),
		Flow:          flow,
		Provider:      provider,
		Relay:         relay,
		UploadLimiter: middleware.NewIPRateLimiter(cfg.UploadRatePerMinute, time.Minute, cfg.UploadBurst, time.Hour),
		SessionTTL:    cfg.SessionTTL,
	}

	return deps, archiver, nil
}
