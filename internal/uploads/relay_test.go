package uploads

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"golang.org/x/oauth2"

	"github.com/tubeport/backend/internal/models"
)

type recordingStaging struct {
	inner Staging
	calls *[]string
	fail  error
}

func (s *recordingStaging) Stage(ctx context.Context, name string, payload io.Reader) (string, int64, error) {
	*s.calls = append(*s.calls, "stage")
	if s.fail != nil {
		return "", 0, s.fail
	}
	return s.inner.Stage(ctx, name, payload)
}

type recordingPublisher struct {
	calls *[]string
	fail  error

	gotTitle       string
	gotDescription string
	gotMedia       string
}

func (p *recordingPublisher) Publish(_ context.Context, _ *oauth2.Token, title, description string, media io.Reader) (string, error) {
	*p.calls = append(*p.calls, "publish")
	if p.fail != nil {
		return "", p.fail
	}
	body, err := io.ReadAll(media)
	if err != nil {
		return "", err
	}
	p.gotTitle = title
	p.gotDescription = description
	p.gotMedia = string(body)
	return "vid-42", nil
}

func testUpload() models.Upload {
	return models.Upload{FileName: "clip.mp4", Title: "t", Description: "d"}
}

func TestRelayStagesBeforePublishing(t *testing.T) {
	dir := t.TempDir()
	var calls []string
	staging := &recordingStaging{inner: NewDirStaging(dir), calls: &calls}
	publisher := &recordingPublisher{calls: &calls}
	relay := NewRelay(staging, publisher, nil)

	receipt, err := relay.Do(context.Background(), &oauth2.Token{AccessToken: "at"}, testUpload(), strings.NewReader("0123456789"))
	if err != nil {
		t.Fatalf("relay: %v", err)
	}

	if len(calls) != 2 || calls[0] != "stage" || calls[1] != "publish" {
		t.Fatalf("expected stage before publish, got %v", calls)
	}
	if receipt.VideoID != "vid-42" {
		t.Fatalf("expected upstream id, got %+v", receipt)
	}

	staged := filepath.Join(dir, "clip.mp4")
	if receipt.StagedPath != staged {
		t.Fatalf("expected staged path %s got %s", staged, receipt.StagedPath)
	}
	content, err := os.ReadFile(staged)
	if err != nil {
		t.Fatalf("read staged file: %v", err)
	}
	if string(content) != "0123456789" {
		t.Fatalf("staged content mismatch: %q", content)
	}
	if publisher.gotTitle != "t" || publisher.gotDescription != "d" || publisher.gotMedia != "0123456789" {
		t.Fatalf("publish received %q/%q media=%q", publisher.gotTitle, publisher.gotDescription, publisher.gotMedia)
	}
}

func TestRelayStorageFailureSkipsUpstream(t *testing.T) {
	var calls []string
	staging := &recordingStaging{calls: &calls, fail: errors.New("disk full")}
	publisher := &recordingPublisher{calls: &calls}
	relay := NewRelay(staging, publisher, nil)

	_, err := relay.Do(context.Background(), &oauth2.Token{AccessToken: "at"}, testUpload(), strings.NewReader("x"))

	var storageErr *StorageError
	if !errors.As(err, &storageErr) {
		t.Fatalf("expected *StorageError got %v", err)
	}
	for _, call := range calls {
		if call == "publish" {
			t.Fatal("publish must not be called when staging fails")
		}
	}
}

func TestRelayUploadFailureRetainsStagedFile(t *testing.T) {
	dir := t.TempDir()
	var calls []string
	staging := &recordingStaging{inner: NewDirStaging(dir), calls: &calls}
	publisher := &recordingPublisher{calls: &calls, fail: errors.New("quota exceeded")}
	relay := NewRelay(staging, publisher, nil)

	_, err := relay.Do(context.Background(), &oauth2.Token{AccessToken: "at"}, testUpload(), strings.NewReader("payload"))

	var uploadErr *UploadError
	if !errors.As(err, &uploadErr) {
		t.Fatalf("expected *UploadError got %v", err)
	}

	staged := filepath.Join(dir, "clip.mp4")
	if uploadErr.Path != staged {
		t.Fatalf("expected retained path %s got %s", staged, uploadErr.Path)
	}
	if _, statErr := os.Stat(staged); statErr != nil {
		t.Fatalf("expected staged file to remain on disk: %v", statErr)
	}

	var storageErr *StorageError
	if errors.As(err, &storageErr) {
		t.Fatal("upload failure must not be classified as a storage failure")
	}
}

func TestRelayRequiresBundle(t *testing.T) {
	var calls []string
	staging := &recordingStaging{inner: NewDirStaging(t.TempDir()), calls: &calls}
	publisher := &recordingPublisher{calls: &calls}
	relay := NewRelay(staging, publisher, nil)

	if _, err := relay.Do(context.Background(), nil, testUpload(), strings.NewReader("x")); err == nil {
		t.Fatal("expected error without credential bundle")
	}
	if len(calls) != 0 {
		t.Fatalf("expected no staging or publish calls, got %v", calls)
	}
}

type captureQueue struct {
	mu   sync.Mutex
	jobs []ArchiveJob
	fail error
}

func (q *captureQueue) Enqueue(_ context.Context, job ArchiveJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.fail != nil {
		return q.fail
	}
	q.jobs = append(q.jobs, job)
	return nil
}

func TestRelayEnqueuesArchiveAfterPublish(t *testing.T) {
	dir := t.TempDir()
	var calls []string
	queue := &captureQueue{}
	relay := NewRelay(&recordingStaging{inner: NewDirStaging(dir), calls: &calls}, &recordingPublisher{calls: &calls}, queue)

	if _, err := relay.Do(context.Background(), &oauth2.Token{AccessToken: "at"}, testUpload(), strings.NewReader("x")); err != nil {
		t.Fatalf("relay: %v", err)
	}

	if len(queue.jobs) != 1 || queue.jobs[0].Name != "clip.mp4" {
		t.Fatalf("expected one archive job, got %+v", queue.jobs)
	}
}

func TestRelayArchiveEnqueueFailureDoesNotFailUpload(t *testing.T) {
	dir := t.TempDir()
	var calls []string
	queue := &captureQueue{fail: errors.New("queue closed")}
	relay := NewRelay(&recordingStaging{inner: NewDirStaging(dir), calls: &calls}, &recordingPublisher{calls: &calls}, queue)

	receipt, err := relay.Do(context.Background(), &oauth2.Token{AccessToken: "at"}, testUpload(), strings.NewReader("x"))
	if err != nil {
		t.Fatalf("relay should succeed despite archive enqueue failure: %v", err)
	}
	if receipt.VideoID == "" {
		t.Fatalf("expected receipt, got %+v", receipt)
	}
}
