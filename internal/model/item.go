package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemData is the display payload of a catalog entry.
type ItemData struct {
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description,omitempty"`
	ImageURL    string          `json:"image_url,omitempty"`
}

type CatalogItem struct {
	ID         int64       `json:"id"`
	BusinessID int64       `json:"business_id"`
	MenuName   string      `json:"menu_name"`
	CategoryID CategoryRef `json:"category_id"`
	IsActive   bool        `json:"is_active"`
	Data       ItemData    `json:"data"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}
