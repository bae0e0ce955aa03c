package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dukerupert/menuboard/internal/model"
)

type VersionStore struct {
	db *sql.DB
}

func NewVersionStore(db *sql.DB) *VersionStore {
	return &VersionStore{db: db}
}

const versionCols = `id, business_id, menu_name, version_name, config_snapshot, items_snapshot, created_by, created_at, is_published, change_notes`

func scanVersion(scanner interface{ Scan(...any) error }) (*model.MenuVersion, error) {
	var v model.MenuVersion
	var configRaw, itemsRaw string
	var published int
	err := scanner.Scan(&v.ID, &v.BusinessID, &v.MenuName, &v.VersionName, &configRaw, &itemsRaw,
		&v.CreatedBy, &v.CreatedAt, &published, &v.ChangeNotes)
	if err != nil {
		return nil, err
	}
	v.IsPublished = published != 0
	if err := json.Unmarshal([]byte(configRaw), &v.ConfigSnapshot); err != nil {
		return nil, fmt.Errorf("decode config snapshot of %s: %w", v.ID, err)
	}
	if err := json.Unmarshal([]byte(itemsRaw), &v.ItemsSnapshot); err != nil {
		return nil, fmt.Errorf("decode items snapshot of %s: %w", v.ID, err)
	}
	if v.ItemsSnapshot == nil {
		v.ItemsSnapshot = []model.CatalogItem{}
	}
	return &v, nil
}

// ListVersions returns the menu's versions, newest first.
func (s *VersionStore) ListVersions(ctx context.Context, businessID int64, menuName string) ([]model.MenuVersion, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+versionCols+` FROM menu_versions WHERE business_id = ? AND menu_name = ? ORDER BY created_at DESC, rowid DESC`,
		businessID, menuName,
	)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	defer rows.Close()

	var versions []model.MenuVersion
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan version: %w", err)
		}
		versions = append(versions, *v)
	}
	return versions, rows.Err()
}

// GetVersion returns nil, nil when no such version exists for the business.
func (s *VersionStore) GetVersion(ctx context.Context, businessID int64, id string) (*model.MenuVersion, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+versionCols+` FROM menu_versions WHERE business_id = ? AND id = ?`, businessID, id)
	v, err := scanVersion(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get version: %w", err)
	}
	return v, nil
}

func (s *VersionStore) CreateVersion(ctx context.Context, v model.MenuVersion) error {
	configRaw, err := json.Marshal(v.ConfigSnapshot)
	if err != nil {
		return fmt.Errorf("encode config snapshot: %w", err)
	}
	items := v.ItemsSnapshot
	if items == nil {
		items = []model.CatalogItem{}
	}
	itemsRaw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode items snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO menu_versions (id, business_id, menu_name, version_name, config_snapshot, items_snapshot, created_by, created_at, is_published, change_notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.BusinessID, v.MenuName, v.VersionName, string(configRaw), string(itemsRaw),
		v.CreatedBy, v.CreatedAt, boolToInt(v.IsPublished), v.ChangeNotes,
	)
	if err != nil {
		return fmt.Errorf("insert version: %w", err)
	}
	return nil
}

// PublishVersion unpublishes every version of the menu and publishes id in
// one transaction.
func (s *VersionStore) PublishVersion(ctx context.Context, businessID int64, menuName, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE menu_versions SET is_published = 0 WHERE business_id = ? AND menu_name = ? AND is_published = 1`,
		businessID, menuName,
	); err != nil {
		return fmt.Errorf("unpublish versions: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE menu_versions SET is_published = 1 WHERE business_id = ? AND menu_name = ? AND id = ?`,
		businessID, menuName, id,
	)
	if err != nil {
		return fmt.Errorf("publish version: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n != 1 {
		return fmt.Errorf("publish version %s: not found in menu %q", id, menuName)
	}
	return tx.Commit()
}
