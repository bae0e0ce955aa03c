// Package export archives version export documents to S3-compatible storage.
package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dukerupert/menuboard/internal/model"
	"github.com/dukerupert/menuboard/internal/version"
)

// s3Client is an interface for testability.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, input *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// RecordStore persists the archive history.
type RecordStore interface {
	CreateExport(ctx context.Context, businessID int64, versionID, menuName, filename, s3Key string) (*model.ExportRecord, error)
	UpdateExportStatus(ctx context.Context, id int64, status model.ExportStatus, errorMsg string) error
	CompleteExport(ctx context.Context, id, sizeBytes int64) error
}

// S3Config holds S3-compatible storage configuration.
type S3Config struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
}

func (c S3Config) complete() bool {
	return c.Bucket != "" && c.AccessKey != "" && c.SecretKey != ""
}

// State represents the archiver state.
type State string

const (
	StateIdle     State = "idle"
	StateRunning  State = "running"
	StateDisabled State = "disabled"
	StateError    State = "error"
)

// Status holds the current archiver status. BusinessID names the business
// whose export last moved the state.
type Status struct {
	BusinessID   int64      `json:"business_id,omitempty"`
	State        State      `json:"state"`
	LastArchived *time.Time `json:"last_archived,omitempty"`
	Error        string     `json:"error,omitempty"`
	InProgress   bool       `json:"in_progress"`
}

// StatusCallback is called whenever the archiver state changes.
type StatusCallback func(Status)

// Archiver uploads export documents and records each upload.
type Archiver struct {
	mu       sync.RWMutex
	cfg      S3Config
	status   Status
	callback StatusCallback
	records  RecordStore
	client   s3Client
	logger   *slog.Logger
	now      func() time.Time
}

func NewArchiver(cfg S3Config, records RecordStore, callback StatusCallback, logger *slog.Logger) *Archiver {
	a := &Archiver{
		cfg:      cfg,
		records:  records,
		callback: callback,
		logger:   logger,
		status:   Status{State: StateDisabled},
		now:      func() time.Time { return time.Now().UTC() },
	}
	if cfg.complete() {
		a.client = newS3Client(cfg)
		a.status.State = StateIdle
	}
	return a
}

func newS3Client(cfg S3Config) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

// Enabled reports whether object storage is configured.
func (a *Archiver) Enabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.client != nil
}

// Status returns the current archiver status.
func (a *Archiver) Status() Status {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.status
}

func (a *Archiver) setStatus(s Status) {
	a.mu.Lock()
	a.status = s
	a.mu.Unlock()
	if a.callback != nil {
		a.callback(s)
	}
}

// Key is the object key for doc: business/menu/version-timestamp.json.
func Key(businessID int64, doc version.Document) string {
	return fmt.Sprintf("%d/%s/%s-%s.json",
		businessID, version.Slug(doc.MenuName), version.Slug(doc.Version),
		doc.ExportedAt.UTC().Format("2006-01-02T150405Z"))
}

// Archive uploads doc and returns the completed record.
func (a *Archiver) Archive(ctx context.Context, businessID int64, versionID string, doc version.Document) (*model.ExportRecord, error) {
	a.mu.RLock()
	client := a.client
	bucket := a.cfg.Bucket
	a.mu.RUnlock()

	if client == nil {
		return nil, fmt.Errorf("export archive not configured: S3 credentials missing")
	}

	data, err := doc.Marshal()
	if err != nil {
		return nil, err
	}

	key := Key(businessID, doc)
	record, err := a.records.CreateExport(ctx, businessID, versionID, doc.MenuName, doc.Filename(), key)
	if err != nil {
		a.setStatus(Status{BusinessID: businessID, State: StateError, Error: err.Error()})
		return nil, fmt.Errorf("create export record: %w", err)
	}

	a.setStatus(Status{BusinessID: businessID, State: StateRunning, InProgress: true})
	if err := a.records.UpdateExportStatus(ctx, record.ID, model.ExportStatusUploading, ""); err != nil {
		a.logger.Warn("mark export uploading", "export_id", record.ID, "error", err)
	}

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String("application/json"),
	})
	if err != nil {
		if uerr := a.records.UpdateExportStatus(ctx, record.ID, model.ExportStatusFailed, err.Error()); uerr != nil {
			a.logger.Warn("mark export failed", "export_id", record.ID, "error", uerr)
		}
		a.setStatus(Status{BusinessID: businessID, State: StateError, Error: err.Error()})
		return nil, fmt.Errorf("upload to s3: %w", err)
	}

	if err := a.records.CompleteExport(ctx, record.ID, int64(len(data))); err != nil {
		a.setStatus(Status{BusinessID: businessID, State: StateError, Error: err.Error()})
		return nil, fmt.Errorf("complete export record: %w", err)
	}

	now := a.now()
	a.setStatus(Status{BusinessID: businessID, State: StateIdle, LastArchived: &now})
	a.logger.Info("export archived", "business_id", businessID, "version_id", versionID, "key", key, "bytes", len(data))

	record.Status = model.ExportStatusCompleted
	record.SizeBytes = int64(len(data))
	record.CompletedAt = &now
	return record, nil
}

// Fetch downloads a previously archived document.
func (a *Archiver) Fetch(ctx context.Context, record model.ExportRecord) ([]byte, error) {
	a.mu.RLock()
	client := a.client
	bucket := a.cfg.Bucket
	a.mu.RUnlock()

	if client == nil {
		return nil, fmt.Errorf("export archive not configured")
	}

	result, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(record.S3Key),
	})
	if err != nil {
		return nil, fmt.Errorf("download from s3: %w", err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("read archived export: %w", err)
	}
	return data, nil
}
