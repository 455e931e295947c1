package model

import "time"

// File describes one stored upload. It is a pure domain model with no
// storage-specific dependencies or tags, reconstructed from the backend on
// every list call; nothing is persisted besides the file bytes and an
// optional metadata sidecar.
type File struct {
	ID           string    `json:"id"`
	FileName     string    `json:"filename"`
	OriginalName string    `json:"originalName,omitempty"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"type"`
	UploadedAt   time.Time `json:"uploadedAt"`
	URL          string    `json:"url"`
}
