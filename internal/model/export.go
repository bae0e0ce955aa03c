package model

import "time"

type ExportStatus string

const (
	ExportStatusPending   ExportStatus = "pending"
	ExportStatusUploading ExportStatus = "uploading"
	ExportStatusCompleted ExportStatus = "completed"
	ExportStatusFailed    ExportStatus = "failed"
)

// ExportRecord tracks one archived export document in object storage.
type ExportRecord struct {
	ID           int64        `json:"id"`
	BusinessID   int64        `json:"business_id"`
	VersionID    string       `json:"version_id"`
	MenuName     string       `json:"menu_name"`
	Filename     string       `json:"filename"`
	S3Key        string       `json:"s3_key"`
	SizeBytes    int64        `json:"size_bytes"`
	Status       ExportStatus `json:"status"`
	ErrorMessage string       `json:"error_message,omitempty"`
	CompletedAt  *time.Time   `json:"completed_at,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}
