package uploads

import "fmt"

// StorageError reports that persisting the payload to local disk failed.
// When the relay returns it, no upstream call has been made.
type StorageError struct {
	Name string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("stage upload %q: %v", e.Name, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// UploadError reports that the upstream publish API rejected the submission
// after the payload was staged. The staged file remains on disk at Path.
type UploadError struct {
	Path string
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("publish %q: %v", e.Path, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}
