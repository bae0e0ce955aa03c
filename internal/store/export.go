package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/menuboard/internal/model"
)

type ExportStore struct {
	db *sql.DB
}

func NewExportStore(db *sql.DB) *ExportStore {
	return &ExportStore{db: db}
}

const exportCols = `id, business_id, version_id, menu_name, filename, s3_key, size_bytes, status, error_message, completed_at, created_at, updated_at`

func scanExport(scanner interface{ Scan(...any) error }) (*model.ExportRecord, error) {
	var e model.ExportRecord
	var errMsg sql.NullString
	var completedAt sql.NullTime
	err := scanner.Scan(&e.ID, &e.BusinessID, &e.VersionID, &e.MenuName, &e.Filename, &e.S3Key,
		&e.SizeBytes, &e.Status, &errMsg, &completedAt, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	e.ErrorMessage = errMsg.String
	if completedAt.Valid {
		e.CompletedAt = &completedAt.Time
	}
	return &e, nil
}

func (s *ExportStore) CreateExport(ctx context.Context, businessID int64, versionID, menuName, filename, s3Key string) (*model.ExportRecord, error) {
	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO exports (business_id, version_id, menu_name, filename, s3_key, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		businessID, versionID, menuName, filename, s3Key, model.ExportStatusPending, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("create export: %w", err)
	}
	id, _ := result.LastInsertId()
	return &model.ExportRecord{
		ID:         id,
		BusinessID: businessID,
		VersionID:  versionID,
		MenuName:   menuName,
		Filename:   filename,
		S3Key:      s3Key,
		Status:     model.ExportStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// GetExport returns nil, nil when the export does not exist for the business.
func (s *ExportStore) GetExport(ctx context.Context, businessID, id int64) (*model.ExportRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+exportCols+` FROM exports WHERE id = ? AND business_id = ?`, id, businessID)
	e, err := scanExport(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get export %d: %w", id, err)
	}
	return e, nil
}

func (s *ExportStore) ListExports(ctx context.Context, businessID int64, versionID string) ([]model.ExportRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+exportCols+` FROM exports WHERE business_id = ? AND version_id = ? ORDER BY created_at DESC, id DESC`,
		businessID, versionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list exports: %w", err)
	}
	defer rows.Close()

	var exports []model.ExportRecord
	for rows.Next() {
		e, err := scanExport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan export: %w", err)
		}
		exports = append(exports, *e)
	}
	return exports, rows.Err()
}

func (s *ExportStore) UpdateExportStatus(ctx context.Context, id int64, status model.ExportStatus, errorMsg string) error {
	var errPtr *string
	if errorMsg != "" {
		errPtr = &errorMsg
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE exports SET status = ?, error_message = ?, updated_at = ? WHERE id = ?`,
		status, errPtr, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("update export status: %w", err)
	}
	return nil
}

func (s *ExportStore) CompleteExport(ctx context.Context, id, sizeBytes int64) error {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`UPDATE exports SET status = ?, size_bytes = ?, completed_at = ?, updated_at = ? WHERE id = ?`,
		model.ExportStatusCompleted, sizeBytes, now, now, id,
	)
	if err != nil {
		return fmt.Errorf("update export completed: %w", err)
	}
	return nil
}
