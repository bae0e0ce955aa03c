package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/menuboard/internal/model"
)

type BusinessStore struct {
	db *sql.DB
}

func NewBusinessStore(db *sql.DB) *BusinessStore {
	return &BusinessStore{db: db}
}

const businessCols = `id, name, tagline, logo_url, created_at, updated_at`

func scanBusiness(scanner interface{ Scan(...any) error }) (*model.Business, error) {
	var b model.Business
	if err := scanner.Scan(&b.ID, &b.Name, &b.Tagline, &b.LogoURL, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *BusinessStore) Create(ctx context.Context, name, tagline, logoURL string) (*model.Business, error) {
	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO businesses (name, tagline, logo_url, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		name, tagline, logoURL, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert business: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetBusiness(ctx, id)
}

// GetBusiness returns nil, nil when the business does not exist.
func (s *BusinessStore) GetBusiness(ctx context.Context, id int64) (*model.Business, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+businessCols+` FROM businesses WHERE id = ?`, id)
	b, err := scanBusiness(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get business: %w", err)
	}
	return b, nil
}

func (s *BusinessStore) List(ctx context.Context) ([]model.Business, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+businessCols+` FROM businesses ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list businesses: %w", err)
	}
	defer rows.Close()

	var businesses []model.Business
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, fmt.Errorf("scan business: %w", err)
		}
		businesses = append(businesses, *b)
	}
	return businesses, rows.Err()
}

func (s *BusinessStore) Update(ctx context.Context, id int64, name, tagline, logoURL string) (*model.Business, error) {
	_, err := s.db.ExecContext(ctx,
		`UPDATE businesses SET name = ?, tagline = ?, logo_url = ?, updated_at = ? WHERE id = ?`,
		name, tagline, logoURL, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update business: %w", err)
	}
	return s.GetBusiness(ctx, id)
}
