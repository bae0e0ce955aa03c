package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dukerupert/menuboard/internal/layout"
	"github.com/dukerupert/menuboard/internal/model"
)

type LayoutStore struct {
	db *sql.DB
}

func NewLayoutStore(db *sql.DB) *LayoutStore {
	return &LayoutStore{db: db}
}

// LoadLayoutConfig returns the saved config for the menu, or the default
// config when none has been saved yet.
func (s *LayoutStore) LoadLayoutConfig(ctx context.Context, businessID int64, menuName string) (model.LayoutConfig, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT config FROM layout_configs WHERE business_id = ? AND menu_name = ?`,
		businessID, menuName,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return layout.Default(menuName), nil
	}
	if err != nil {
		return model.LayoutConfig{}, fmt.Errorf("load layout config: %w", err)
	}

	var cfg model.LayoutConfig
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return model.LayoutConfig{}, fmt.Errorf("decode layout config: %w", err)
	}
	return layout.Normalize(cfg, menuName), nil
}

func (s *LayoutStore) SaveLayoutConfig(ctx context.Context, businessID int64, menuName string, cfg model.LayoutConfig) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode layout config: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO layout_configs (business_id, menu_name, config, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(business_id, menu_name) DO UPDATE SET config = excluded.config, updated_at = excluded.updated_at`,
		businessID, menuName, string(data), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save layout config: %w", err)
	}
	return nil
}
