package uploads

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"
)

// ObjectStore saves a named byte stream to a retention bucket and returns the
// stored location.
type ObjectStore interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
}

// ArchiveJob identifies one staged file to copy into the object store.
type ArchiveJob struct {
	Name string
	Path string
}

// ArchiverConfig controls the concurrency characteristics of the archiver.
type ArchiverConfig struct {
	QueueSize int
	Workers   int
}

// Archiver asynchronously copies published uploads into an object store. The
// local staged file is never removed; archiving is purely additive.
type Archiver struct {
	store  ObjectStore
	logger *slog.Logger

	jobs   chan ArchiveJob
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

var errArchiverClosed = errors.New("archiver closed")

// NewArchiver starts a worker pool that drains the archive queue.
func NewArchiver(store ObjectStore, cfg ArchiverConfig, logger *slog.Logger) *Archiver {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 16
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	a := &Archiver{
		store:  store,
		logger: logger,
		jobs:   make(chan ArchiveJob, cfg.QueueSize),
		ctx:    ctx,
		cancel: cancel,
	}

	a.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go a.worker()
	}

	return a
}

// Enqueue schedules an archive copy for the supplied staged file.
func (a *Archiver) Enqueue(ctx context.Context, job ArchiveJob) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-a.ctx.Done():
		return errArchiverClosed
	default:
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-a.ctx.Done():
		return errArchiverClosed
	case a.jobs <- job:
		return nil
	}
}

// Shutdown waits for the worker pool to drain outstanding jobs.
func (a *Archiver) Shutdown(ctx context.Context) error {
	a.once.Do(func() {
		a.cancel()
		close(a.jobs)
	})

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

func (a *Archiver) worker() {
	defer a.wg.Done()

	for job := range a.jobs {
		a.handleJob(job)
	}
}

func (a *Archiver) handleJob(job ArchiveJob) {
	if a.store == nil {
		a.logger.Error("archiver missing object store", "path", job.Path)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	f, err := os.Open(job.Path)
	if err != nil {
		a.logger.Error("open staged file for archive", "path", job.Path, "error", err)
		return
	}
	defer f.Close()

	location, err := a.store.Save(ctx, job.Name, f)
	if err != nil {
		a.logger.Error("archive copy failed", "path", job.Path, "error", err)
		return
	}

	a.logger.Info("upload archived", "path", job.Path, "location", location)
}
