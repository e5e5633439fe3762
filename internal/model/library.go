package model

import "time"

// LibraryItem represents a stored document in the library.
// Status mirrors the projected approval state of the owning request.
type LibraryItem struct {
	ID          string    `json:"id"`
	RequestID   string    `json:"request_id,omitempty"`
	Filename    string    `json:"filename"`
	StoragePath string    `json:"storage_path"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}
