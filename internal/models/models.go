package models

import "time"

// Profile holds the identity details returned by the provider's userinfo
// endpoint. It is derived data cached per session for page rendering.
type Profile struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

// Upload describes a single submitted video: the staged file on local disk
// plus the metadata typed into the upload form.
type Upload struct {
	FileName    string
	StagedPath  string
	Size        int64
	Title       string
	Description string
}

// Receipt records the outcome of a successful publish call.
type Receipt struct {
	VideoID     string
	StagedPath  string
	PublishedAt time.Time
}
