package version

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/menuboard/internal/layout"
	"github.com/dukerupert/menuboard/internal/model"
)

type memVersions struct {
	versions map[string]model.MenuVersion
}

func (m *memVersions) ListVersions(_ context.Context, businessID int64, menuName string) ([]model.MenuVersion, error) {
	var out []model.MenuVersion
	for _, v := range m.versions {
		if v.BusinessID == businessID && v.MenuName == menuName {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memVersions) GetVersion(_ context.Context, businessID int64, id string) (*model.MenuVersion, error) {
	v, ok := m.versions[id]
	if !ok || v.BusinessID != businessID {
		return nil, nil
	}
	return &v, nil
}

func (m *memVersions) CreateVersion(_ context.Context, v model.MenuVersion) error {
	m.versions[v.ID] = v
	return nil
}

func (m *memVersions) PublishVersion(_ context.Context, businessID int64, menuName, id string) error {
	for k, v := range m.versions {
		if v.BusinessID == businessID && v.MenuName == menuName {
			v.IsPublished = k == id
			m.versions[k] = v
		}
	}
	return nil
}

type stubCatalog struct {
	cfg   model.LayoutConfig
	items []model.CatalogItem
	loads int
}

func (s *stubCatalog) LoadLayoutConfig(_ context.Context, _ int64, menuName string) (model.LayoutConfig, error) {
	s.loads++
	cfg := s.cfg.Clone()
	cfg.SelectedMenu = menuName
	return cfg, nil
}

func (s *stubCatalog) ListItems(context.Context, int64, string) ([]model.CatalogItem, error) {
	return s.items, nil
}

func newTestService() (*Service, *memVersions, *stubCatalog) {
	repo := &memVersions{versions: make(map[string]model.MenuVersion)}
	catalog := &stubCatalog{
		cfg: layout.Default("Dinner"),
		items: []model.CatalogItem{{
			ID: 1, BusinessID: 1, MenuName: "Dinner", CategoryID: model.Ref(3), IsActive: true,
			Data: model.ItemData{Name: "Soup", Price: decimal.RequireFromString("7.25")},
		}},
	}
	svc := NewService(repo, catalog, catalog, slog.New(slog.NewTextHandler(io.Discard, nil)))

	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	n := 0
	svc.newID = func() string {
		n++
		return fmt.Sprintf("v%d", n)
	}
	return svc, repo, catalog
}

func TestSaveRequiresName(t *testing.T) {
	svc, _, catalog := newTestService()
	if _, err := svc.Save(context.Background(), 1, "Dinner", "   ", "", ""); !errors.Is(err, ErrNameRequired) {
		t.Fatalf("err = %v, want ErrNameRequired", err)
	}
	if catalog.loads != 0 {
		t.Error("config loaded before the name was checked")
	}
}

func TestSaveSnapshotsIndependently(t *testing.T) {
	svc, repo, catalog := newTestService()
	ctx := context.Background()

	v, err := svc.Save(ctx, 1, "Dinner", " Spring ", " new soups ", "sam")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if v.VersionName != "Spring" || v.ChangeNotes != "new soups" || v.IsPublished {
		t.Errorf("saved = %+v", v)
	}

	catalog.items[0].Data.Name = "Changed"
	stored := repo.versions[v.ID]
	if stored.ItemsSnapshot[0].Data.Name != "Soup" {
		t.Error("snapshot shares storage with the live items")
	}
}

func TestPublishIsExclusivePerMenu(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	a, _ := svc.Save(ctx, 1, "Dinner", "A", "", "")
	b, _ := svc.Save(ctx, 1, "Dinner", "B", "", "")
	lunch, _ := svc.Save(ctx, 1, "Lunch", "L", "", "")

	if _, err := svc.Publish(ctx, 1, "Lunch", lunch.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Publish(ctx, 1, "Dinner", a.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Publish(ctx, 1, "Dinner", b.ID); err != nil {
		t.Fatal(err)
	}

	versions, _ := svc.List(ctx, 1, "Dinner")
	published := 0
	for _, v := range versions {
		if v.IsPublished {
			published++
			if v.ID != b.ID {
				t.Errorf("published %s, want %s", v.ID, b.ID)
			}
		}
	}
	if published != 1 {
		t.Errorf("published dinner versions = %d, want 1", published)
	}
	if !repo.versions[lunch.ID].IsPublished {
		t.Error("publishing dinner unpublished lunch")
	}

	got, err := svc.Published(ctx, 1, "Dinner")
	if err != nil || got == nil || got.ID != b.ID {
		t.Errorf("Published = %+v, %v", got, err)
	}
}

func TestPublishedNone(t *testing.T) {
	svc, _, _ := newTestService()
	got, err := svc.Published(context.Background(), 1, "Dinner")
	if err != nil || got != nil {
		t.Errorf("Published = %+v, %v; want nil, nil", got, err)
	}
}

func TestListNewestFirst(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	svc.Save(ctx, 1, "Dinner", "first", "", "")
	svc.Save(ctx, 1, "Dinner", "second", "", "")

	versions, err := svc.List(ctx, 1, "Dinner")
	if err != nil {
		t.Fatal(err)
	}
	if len(versions) != 2 || versions[0].VersionName != "second" {
		t.Errorf("versions = %+v", versions)
	}

	empty, _ := svc.List(ctx, 1, "Brunch")
	if empty == nil || len(empty) != 0 {
		t.Errorf("empty list = %#v", empty)
	}
}

func TestForeignAndMissingVersions(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	lunch, _ := svc.Save(ctx, 1, "Lunch", "L", "", "")

	if _, err := svc.Publish(ctx, 1, "Dinner", lunch.ID); !errors.Is(err, ErrForeignMenu) {
		t.Errorf("Publish foreign: %v", err)
	}
	if _, err := svc.Revert(ctx, 1, "Dinner", lunch.ID); !errors.Is(err, ErrForeignMenu) {
		t.Errorf("Revert foreign: %v", err)
	}
	if _, err := svc.Get(ctx, 1, "Dinner", lunch.ID); !errors.Is(err, ErrForeignMenu) {
		t.Errorf("Get foreign: %v", err)
	}
	if v, err := svc.Get(ctx, 1, "Lunch", lunch.ID); err != nil || v.ID != lunch.ID {
		t.Errorf("Get = %+v, %v", v, err)
	}
	if _, err := svc.Export(ctx, 1, "Dinner", "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Export missing: %v", err)
	}
	if _, err := svc.Publish(ctx, 2, "Lunch", lunch.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Publish other business: %v", err)
	}
	if _, err := svc.Revert(ctx, 1, "Lunch", " "); !errors.Is(err, ErrNotFound) {
		t.Errorf("Revert blank id: %v", err)
	}
}

func TestRevertReturnsCopy(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()
	v, _ := svc.Save(ctx, 1, "Dinner", "A", "", "")

	snap, err := svc.Revert(ctx, 1, "Dinner", v.ID)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Config.SelectedMenu != "Dinner" || len(snap.Items) != 1 {
		t.Errorf("snapshot = %+v", snap)
	}
	snap.Items[0].Data.Name = "mutated"
	if repo.versions[v.ID].ItemsSnapshot[0].Data.Name != "Soup" {
		t.Error("revert exposed stored snapshot")
	}
}

func TestExportRoundTrip(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	v, _ := svc.Save(ctx, 1, "Dinner Menu", "Spring Launch!", "", "")

	doc, err := svc.Export(ctx, 1, "Dinner Menu", v.ID)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Filename() != "dinner-menu-spring-launch.json" {
		t.Errorf("filename = %q", doc.Filename())
	}
	data, err := doc.Marshal()
	if err != nil {
		t.Fatal(err)
	}

	snap, err := Import(data)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(snap.Items) != 1 {
		t.Fatalf("items = %d", len(snap.Items))
	}
	it := snap.Items[0]
	if it.BusinessID != 0 {
		t.Error("export leaked the business id")
	}
	if !it.Data.Price.Equal(decimal.RequireFromString("7.25")) {
		t.Errorf("price = %s", it.Data.Price)
	}
	if id, ok := it.CategoryID.ID(); !ok || id != 3 {
		t.Errorf("category = %v", it.CategoryID)
	}
	if snap.Config.Theme != v.ConfigSnapshot.Theme {
		t.Error("theme changed across export")
	}
}

func TestImportRejectsBadDocuments(t *testing.T) {
	for _, in := range []string{`not json`, `{"version":"x"}`} {
		if _, err := Import([]byte(in)); err == nil {
			t.Errorf("Import(%q) succeeded", in)
		}
	}
}

func TestSlug(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Dinner Menu", "dinner-menu"},
		{"  Spring   Launch!! ", "spring-launch"},
		{"Café & Bar", "caf-bar"},
		{"!!!", "menu"},
		{"", "menu"},
	}
	for _, tt := range tests {
		if got := Slug(tt.in); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
