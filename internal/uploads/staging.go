package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/tubeport/backend/internal/logging"
)

// Staging persists an upload payload to local disk before it is relayed
// upstream.
type Staging interface {
	// Stage writes the payload under the given file name and returns the
	// destination path and byte count once the write is durably complete.
	Stage(ctx context.Context, name string, payload io.Reader) (string, int64, error)
}

// DirStaging stages payloads into a single configured directory, keyed by the
// original file name.
type DirStaging struct {
	Dir string
}

// NewDirStaging constructs a DirStaging rooted at dir.
func NewDirStaging(dir string) *DirStaging {
	return &DirStaging{Dir: dir}
}

// Stage writes the payload to {dir}/{base(name)}. The name is reduced to its
// base so a crafted file name cannot escape the upload directory. Two uploads
// with the same name target the same path; the later write wins and the
// overwrite is logged.
func (s *DirStaging) Stage(ctx context.Context, name string, payload io.Reader) (string, int64, error) {
	base := filepath.Base(name)
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "", 0, fmt.Errorf("invalid file name %q", name)
	}

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", 0, fmt.Errorf("create upload dir: %w", err)
	}

	dest := filepath.Join(s.Dir, base)
	if _, err := os.Stat(dest); err == nil {
		logging.FromContext(ctx).Warn("overwriting previously staged file", "path", dest)
	}

	f, err := os.Create(dest)
	if err != nil {
		return "", 0, fmt.Errorf("create staged file: %w", err)
	}

	n, err := io.Copy(f, payload)
	if err != nil {
		err = fmt.Errorf("write staged file: %w", err)
		return "", 0, errors.Join(err, f.Close())
	}

	if err := f.Sync(); err != nil {
		return "", 0, errors.Join(fmt.Errorf("sync staged file: %w", err), f.Close())
	}

	if err := f.Close(); err != nil {
		return "", 0, fmt.Errorf("close staged file: %w", err)
	}

	return dest, n, nil
}
