package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/menuboard/internal/category"
	"github.com/dukerupert/menuboard/internal/model"
)

type CategoryStore struct {
	db *sql.DB
}

func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categorySelect = `SELECT c.id, c.business_id, c.name, c.description, c.position, c.is_active, c.color, c.icon,
	(SELECT COUNT(*) FROM items i WHERE i.category_id = c.id) AS item_count,
	c.created_at, c.updated_at
	FROM categories c`

func scanCategory(scanner interface{ Scan(...any) error }) (*model.Category, error) {
	var c model.Category
	var active int
	err := scanner.Scan(&c.ID, &c.BusinessID, &c.Name, &c.Description, &c.Position, &active,
		&c.Color, &c.Icon, &c.ItemCount, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.IsActive = active != 0
	return &c, nil
}

func (s *CategoryStore) ListCategories(ctx context.Context, businessID int64) ([]model.Category, error) {
	rows, err := s.db.QueryContext(ctx, categorySelect+` WHERE c.business_id = ? ORDER BY c.position ASC, c.id ASC`, businessID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

// GetCategory returns nil, nil when the category does not exist for the business.
func (s *CategoryStore) GetCategory(ctx context.Context, businessID, id int64) (*model.Category, error) {
	row := s.db.QueryRowContext(ctx, categorySelect+` WHERE c.business_id = ? AND c.id = ?`, businessID, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (s *CategoryStore) CreateCategory(ctx context.Context, businessID int64, in category.NewCategory) (*model.Category, error) {
	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (business_id, name, description, position, color, icon, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		businessID, in.Name, in.Description, in.Position, in.Color, in.Icon, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert category: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetCategory(ctx, businessID, id)
}

func (s *CategoryStore) UpdateCategory(ctx context.Context, businessID, id int64, patch model.CategoryPatch) (*model.Category, error) {
	existing, err := s.GetCategory(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("update category %d: not found", id)
	}

	if patch.Name != nil {
		existing.Name = *patch.Name
	}
	if patch.Description != nil {
		existing.Description = *patch.Description
	}
	if patch.Color != nil {
		existing.Color = *patch.Color
	}
	if patch.Icon != nil {
		existing.Icon = *patch.Icon
	}
	if patch.IsActive != nil {
		existing.IsActive = *patch.IsActive
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, description = ?, color = ?, icon = ?, is_active = ?, updated_at = ?
		 WHERE id = ? AND business_id = ?`,
		existing.Name, existing.Description, existing.Color, existing.Icon, boolToInt(existing.IsActive),
		time.Now().UTC(), id, businessID,
	)
	if err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return s.GetCategory(ctx, businessID, id)
}

// DeleteCategory detaches the category's items and removes it. Items are
// never deleted with their category.
func (s *CategoryStore) DeleteCategory(ctx context.Context, businessID, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE items SET category_id = NULL, updated_at = ? WHERE business_id = ? AND category_id = ?`,
		time.Now().UTC(), businessID, id,
	); err != nil {
		return fmt.Errorf("detach items: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = ? AND business_id = ?`, id, businessID); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return tx.Commit()
}

// SetPositions stores position = index for every id in orderedIDs.
func (s *CategoryStore) SetPositions(ctx context.Context, businessID int64, orderedIDs []int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `UPDATE categories SET position = ?, updated_at = ? WHERE id = ? AND business_id = ?`)
	if err != nil {
		return fmt.Errorf("prepare stmt: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for i, id := range orderedIDs {
		if _, err := stmt.ExecContext(ctx, i, now, id, businessID); err != nil {
			return fmt.Errorf("update position for id %d: %w", id, err)
		}
	}

	return tx.Commit()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
