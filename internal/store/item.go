package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/menuboard/internal/model"
)

type ItemStore struct {
	db *sql.DB
}

func NewItemStore(db *sql.DB) *ItemStore {
	return &ItemStore{db: db}
}

const catalogItemCols = `id, business_id, menu_name, category_id, is_active, name, price, description, image_url, created_at, updated_at`

func scanCatalogItem(scanner interface{ Scan(...any) error }) (*model.CatalogItem, error) {
	var item model.CatalogItem
	var categoryID sql.NullInt64
	var active int
	err := scanner.Scan(
		&item.ID, &item.BusinessID, &item.MenuName, &categoryID, &active,
		&item.Data.Name, &item.Data.Price, &item.Data.Description, &item.Data.ImageURL,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	item.IsActive = active != 0
	if categoryID.Valid {
		item.CategoryID = model.Ref(categoryID.Int64)
	}
	return &item, nil
}

// ListItems returns the business's items for menuName, or every item when
// menuName is empty.
func (s *ItemStore) ListItems(ctx context.Context, businessID int64, menuName string) ([]model.CatalogItem, error) {
	query := `SELECT ` + catalogItemCols + ` FROM items WHERE business_id = ?`
	args := []any{businessID}
	if menuName != "" {
		query += ` AND menu_name = ?`
		args = append(args, menuName)
	}
	query += ` ORDER BY id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []model.CatalogItem
	for rows.Next() {
		item, err := scanCatalogItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// GetItem returns nil, nil when the item does not exist for the business.
func (s *ItemStore) GetItem(ctx context.Context, businessID, id int64) (*model.CatalogItem, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+catalogItemCols+` FROM items WHERE business_id = ? AND id = ?`, businessID, id)
	item, err := scanCatalogItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

func (s *ItemStore) CreateItem(ctx context.Context, businessID int64, in model.CatalogItem) (*model.CatalogItem, error) {
	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO items (business_id, menu_name, category_id, is_active, name, price, description, image_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		businessID, in.MenuName, in.CategoryID.Ptr(), boolToInt(in.IsActive),
		in.Data.Name, in.Data.Price, in.Data.Description, in.Data.ImageURL, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetItem(ctx, businessID, id)
}

func (s *ItemStore) UpdateItem(ctx context.Context, businessID, id int64, in model.CatalogItem) (*model.CatalogItem, error) {
	_, err := s.db.ExecContext(ctx,
		`UPDATE items SET menu_name = ?, category_id = ?, is_active = ?, name = ?, price = ?, description = ?, image_url = ?, updated_at = ?
		 WHERE id = ? AND business_id = ?`,
		in.MenuName, in.CategoryID.Ptr(), boolToInt(in.IsActive),
		in.Data.Name, in.Data.Price, in.Data.Description, in.Data.ImageURL, time.Now().UTC(),
		id, businessID,
	)
	if err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	return s.GetItem(ctx, businessID, id)
}

func (s *ItemStore) DeleteItem(ctx context.Context, businessID, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE id = ? AND business_id = ?`, id, businessID)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

// MenuNames returns every menu that has items or a saved layout, sorted.
func (s *ItemStore) MenuNames(ctx context.Context, businessID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT menu_name FROM items WHERE business_id = ?
		 UNION
		 SELECT menu_name FROM layout_configs WHERE business_id = ?
		 ORDER BY menu_name`,
		businessID, businessID,
	)
	if err != nil {
		return nil, fmt.Errorf("list menu names: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan menu name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
