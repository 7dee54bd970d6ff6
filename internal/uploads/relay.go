package uploads

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"golang.org/x/oauth2"

	"github.com/tubeport/backend/internal/logging"
	"github.com/tubeport/backend/internal/models"
)

// Publisher submits a staged payload with its metadata to the upstream
// publish API and returns the assigned resource identifier.
type Publisher interface {
	Publish(ctx context.Context, bundle *oauth2.Token, title, description string, media io.Reader) (string, error)
}

// ArchiveQueue accepts published uploads for asynchronous retention copies.
type ArchiveQueue interface {
	Enqueue(ctx context.Context, job ArchiveJob) error
}

// Relay moves a submitted file to durable local storage and then to the
// upstream publish API. Staging strictly precedes the upstream call.
type Relay struct {
	staging   Staging
	publisher Publisher
	archives  ArchiveQueue
}

// NewRelay constructs a Relay. The archive queue may be nil, in which case
// published files are only kept locally.
func NewRelay(staging Staging, publisher Publisher, archives ArchiveQueue) *Relay {
	if staging == nil {
		panic("uploads: staging must not be nil")
	}
	if publisher == nil {
		panic("uploads: publisher must not be nil")
	}
	return &Relay{staging: staging, publisher: publisher, archives: archives}
}

// Do stages the payload and publishes it. A *StorageError means the local
// write failed and the upstream API was never called; an *UploadError means
// the upstream rejected the submission and the staged file was retained.
func (r *Relay) Do(ctx context.Context, bundle *oauth2.Token, upload models.Upload, payload io.Reader) (models.Receipt, error) {
	if bundle == nil {
		return models.Receipt{}, errors.New("relay requires a credential bundle")
	}

	stageCtx, span := logging.StartSpan(ctx, "stage upload")
	path, size, err := r.staging.Stage(stageCtx, upload.FileName, payload)
	span.End()
	if err != nil {
		return models.Receipt{}, &StorageError{Name: upload.FileName, Err: err}
	}

	f, err := os.Open(path)
	if err != nil {
		return models.Receipt{}, &StorageError{Name: upload.FileName, Err: err}
	}
	defer f.Close()

	publishCtx, span := logging.StartSpan(ctx, "publish upload")
	videoID, err := r.publisher.Publish(publishCtx, bundle, upload.Title, upload.Description, f)
	span.End()
	if err != nil {
		logging.FromContext(ctx).Error("upstream publish failed, staged file retained",
			"path", path, "size", size, "error", err)
		return models.Receipt{}, &UploadError{Path: path, Err: err}
	}

	receipt := models.Receipt{
		VideoID:     videoID,
		StagedPath:  path,
		PublishedAt: time.Now().UTC(),
	}

	if r.archives != nil {
		job := ArchiveJob{Name: upload.FileName, Path: path}
		if err := r.archives.Enqueue(ctx, job); err != nil {
			logging.FromContext(ctx).Warn("archive enqueue failed", "path", path, "error", err)
		}
	}

	return receipt, nil
}
