package domain

import "time"

// Transfer status values
const (
	TransferStatusInProgress = "in_progress"
	TransferStatusCompleted  = "completed"
	TransferStatusFailed     = "failed"
)

// Transfer is the persisted record of one download attempt. A transfer
// that is interrupted keeps its temp file on disk; the next invocation
// against the same URL resumes from the temp file's byte length.
type Transfer struct {
	ID              int64
	SourceURL       string
	Filename        string
	TempPath        string
	ResumedFrom     int64
	BytesDownloaded int64
	// TotalSize is 0 when the server did not report a length.
	TotalSize int64
	Status    string
	LastError string
	StartedAt time.Time
	UpdatedAt time.Time
}
