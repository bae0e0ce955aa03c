package version

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dukerupert/menuboard/internal/model"
)

// Document is the export artifact: everything needed to rebuild the menu,
// with no reference back into the live stores.
type Document struct {
	MenuName   string              `json:"menu_name"`
	Version    string              `json:"version"`
	Config     model.LayoutConfig  `json:"config"`
	Items      []model.CatalogItem `json:"items"`
	ExportedAt time.Time           `json:"exported_at"`
}

func NewDocument(v model.MenuVersion, exportedAt time.Time) Document {
	items := make([]model.CatalogItem, len(v.ItemsSnapshot))
	for i, item := range v.ItemsSnapshot {
		item.BusinessID = 0
		items[i] = item
	}
	return Document{
		MenuName:   v.MenuName,
		Version:    v.VersionName,
		Config:     v.ConfigSnapshot.Clone(),
		Items:      items,
		ExportedAt: exportedAt.UTC(),
	}
}

// Filename is the suggested download name.
func (d Document) Filename() string {
	return fmt.Sprintf("%s-%s.json", Slug(d.MenuName), Slug(d.Version))
}

func (d Document) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal export: %w", err)
	}
	return data, nil
}

// Import reads an exported document back into a snapshot.
func Import(data []byte) (Snapshot, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Snapshot{}, fmt.Errorf("decode export: %w", err)
	}
	if strings.TrimSpace(doc.MenuName) == "" {
		return Snapshot{}, errors.New("decode export: menu_name is missing")
	}
	if doc.Items == nil {
		doc.Items = []model.CatalogItem{}
	}
	return Snapshot{Config: doc.Config, Items: doc.Items}, nil
}

// Slug reduces s to lowercase letters, digits and single dashes for use in
// file and object names.
func Slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if len(out) > 50 {
		out = strings.TrimSuffix(out[:50], "-")
	}
	if out == "" {
		out = "menu"
	}
	return out
}
