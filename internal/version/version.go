// Package version snapshots a menu's layout config and items into named,
// immutable versions and handles publish, revert and export.
package version

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/menuboard/internal/model"
)

var (
	ErrNameRequired = errors.New("version name is required")
	ErrNotFound     = errors.New("version not found")
	// ErrForeignMenu is returned when a version id belongs to a different
	// menu than the one being edited.
	ErrForeignMenu = errors.New("version belongs to another menu")
)

// Repository is the persistence collaborator for versions. GetVersion
// returns nil, nil when no version with id exists for the business.
// PublishVersion must publish id and unpublish every other version of the
// same menu atomically.
type Repository interface {
	ListVersions(ctx context.Context, businessID int64, menuName string) ([]model.MenuVersion, error)
	GetVersion(ctx context.Context, businessID int64, id string) (*model.MenuVersion, error)
	CreateVersion(ctx context.Context, v model.MenuVersion) error
	PublishVersion(ctx context.Context, businessID int64, menuName, id string) error
}

type LayoutLoader interface {
	LoadLayoutConfig(ctx context.Context, businessID int64, menuName string) (model.LayoutConfig, error)
}

type ItemLister interface {
	ListItems(ctx context.Context, businessID int64, menuName string) ([]model.CatalogItem, error)
}

// Snapshot is what a version captures and what revert hands back.
type Snapshot struct {
	Config model.LayoutConfig  `json:"config"`
	Items  []model.CatalogItem `json:"items"`
}

type Service struct {
	versions Repository
	layouts  LayoutLoader
	items    ItemLister
	logger   *slog.Logger

	now   func() time.Time
	newID func() string
}

func NewService(versions Repository, layouts LayoutLoader, items ItemLister, logger *slog.Logger) *Service {
	return &Service{
		versions: versions,
		layouts:  layouts,
		items:    items,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
}

// List returns the menu's versions, newest first.
func (s *Service) List(ctx context.Context, businessID int64, menuName string) ([]model.MenuVersion, error) {
	versions, err := s.versions.ListVersions(ctx, businessID, menuName)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	if versions == nil {
		versions = []model.MenuVersion{}
	}
	return versions, nil
}

// Published returns the menu's published version, or nil if there is none.
func (s *Service) Published(ctx context.Context, businessID int64, menuName string) (*model.MenuVersion, error) {
	versions, err := s.List(ctx, businessID, menuName)
	if err != nil {
		return nil, err
	}
	for i := range versions {
		if versions[i].IsPublished {
			return &versions[i], nil
		}
	}
	return nil, nil
}

// Save captures the current layout config and the menu's items as a new,
// unpublished version. The name is checked before anything is loaded.
func (s *Service) Save(ctx context.Context, businessID int64, menuName, name, notes, createdBy string) (*model.MenuVersion, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	cfg, err := s.layouts.LoadLayoutConfig(ctx, businessID, menuName)
	if err != nil {
		return nil, fmt.Errorf("load layout config: %w", err)
	}
	items, err := s.items.ListItems(ctx, businessID, menuName)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	if items == nil {
		items = []model.CatalogItem{}
	}

	v := model.MenuVersion{
		ID:             s.newID(),
		BusinessID:     businessID,
		VersionName:    name,
		MenuName:       menuName,
		ConfigSnapshot: cfg.Clone(),
		ItemsSnapshot:  append([]model.CatalogItem(nil), items...),
		CreatedBy:      strings.TrimSpace(createdBy),
		CreatedAt:      s.now(),
		IsPublished:    false,
		ChangeNotes:    strings.TrimSpace(notes),
	}
	if err := s.versions.CreateVersion(ctx, v); err != nil {
		return nil, fmt.Errorf("create version: %w", err)
	}
	s.logger.Info("version saved", "business_id", businessID, "menu", menuName, "version_id", v.ID, "items", len(items))
	return &v, nil
}

// Publish makes id the only published version of menuName. Versions of other
// menus are untouched.
func (s *Service) Publish(ctx context.Context, businessID int64, menuName, id string) (*model.MenuVersion, error) {
	v, err := s.get(ctx, businessID, menuName, id)
	if err != nil {
		return nil, err
	}
	if err := s.versions.PublishVersion(ctx, businessID, menuName, v.ID); err != nil {
		return nil, fmt.Errorf("publish version: %w", err)
	}
	v.IsPublished = true
	s.logger.Info("version published", "business_id", businessID, "menu", menuName, "version_id", v.ID)
	return v, nil
}

// Revert returns the version's snapshot for the caller to apply as the live
// draft. It changes nothing itself.
func (s *Service) Revert(ctx context.Context, businessID int64, menuName, id string) (Snapshot, error) {
	v, err := s.get(ctx, businessID, menuName, id)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		Config: v.ConfigSnapshot.Clone(),
		Items:  append([]model.CatalogItem{}, v.ItemsSnapshot...),
	}, nil
}

// Export builds the portable document for a version.
func (s *Service) Export(ctx context.Context, businessID int64, menuName, id string) (*Document, error) {
	v, err := s.get(ctx, businessID, menuName, id)
	if err != nil {
		return nil, err
	}
	doc := NewDocument(*v, s.now())
	return &doc, nil
}

// Get returns one version of menuName. A version that exists under another
// menu yields ErrForeignMenu.
func (s *Service) Get(ctx context.Context, businessID int64, menuName, id string) (*model.MenuVersion, error) {
	return s.get(ctx, businessID, menuName, id)
}

func (s *Service) get(ctx context.Context, businessID int64, menuName, id string) (*model.MenuVersion, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrNotFound
	}
	v, err := s.versions.GetVersion(ctx, businessID, id)
	if err != nil {
		return nil, fmt.Errorf("get version: %w", err)
	}
	if v == nil {
		return nil, ErrNotFound
	}
	if v.MenuName != menuName {
		return nil, ErrForeignMenu
	}
	return v, nil
}
