package model

import "time"

type MenuVersion struct {
	ID             string        `json:"id"`
	BusinessID     int64         `json:"business_id"`
	VersionName    string        `json:"version_name"`
	MenuName       string        `json:"menu_name"`
	ConfigSnapshot LayoutConfig  `json:"config_snapshot"`
	ItemsSnapshot  []CatalogItem `json:"items_snapshot"`
	CreatedBy      string        `json:"created_by"`
	CreatedAt      time.Time     `json:"created_at"`
	IsPublished    bool          `json:"is_published"`
	ChangeNotes    string        `json:"change_notes,omitempty"`
}
