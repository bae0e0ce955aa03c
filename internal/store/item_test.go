package store

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/menuboard/internal/model"
)

func TestItemCRUD(t *testing.T) {
	s := NewItemStore(openTestDB(t))
	ctx := context.Background()

	created, err := s.CreateItem(ctx, 1, model.CatalogItem{
		MenuName: "Dinner",
		IsActive: true,
		Data: model.ItemData{
			Name:        "Soup",
			Price:       decimal.RequireFromString("7.25"),
			Description: "Tomato",
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 || !created.Data.Price.Equal(decimal.RequireFromString("7.25")) {
		t.Errorf("created = %+v", created)
	}
	if !created.CategoryID.IsAbsent() {
		t.Errorf("category = %v, want absent", created.CategoryID)
	}

	created.Data.Price = decimal.RequireFromString("8")
	created.IsActive = false
	updated, err := s.UpdateItem(ctx, 1, created.ID, *created)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.IsActive || updated.Data.Price.StringFixed(2) != "8.00" {
		t.Errorf("updated = %+v", updated)
	}

	if err := s.DeleteItem(ctx, 1, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got, _ := s.GetItem(ctx, 1, created.ID); got != nil {
		t.Error("item still present")
	}
}

func TestItemSentinelStoredAsNull(t *testing.T) {
	s := NewItemStore(openTestDB(t))
	ctx := context.Background()

	item, err := s.CreateItem(ctx, 1, model.CatalogItem{
		MenuName:   "Dinner",
		CategoryID: model.Sentinel(),
		Data:       model.ItemData{Name: "Olives"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !item.CategoryID.IsAbsent() {
		t.Errorf("category = %v, want absent", item.CategoryID)
	}
}

func TestItemListAndMenus(t *testing.T) {
	db := openTestDB(t)
	s := NewItemStore(db)
	ctx := context.Background()

	for _, menu := range []string{"Dinner", "Lunch", "Dinner"} {
		if _, err := s.CreateItem(ctx, 1, model.CatalogItem{MenuName: menu, Data: model.ItemData{Name: "x"}}); err != nil {
			t.Fatal(err)
		}
	}
	if err := NewLayoutStore(db).SaveLayoutConfig(ctx, 1, "Brunch", model.LayoutConfig{SelectedMenu: "Brunch"}); err != nil {
		t.Fatal(err)
	}

	dinner, _ := s.ListItems(ctx, 1, "Dinner")
	if len(dinner) != 2 {
		t.Errorf("dinner items = %d, want 2", len(dinner))
	}
	all, _ := s.ListItems(ctx, 1, "")
	if len(all) != 3 {
		t.Errorf("all items = %d, want 3", len(all))
	}

	menus, err := s.MenuNames(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Brunch", "Dinner", "Lunch"}
	if len(menus) != len(want) {
		t.Fatalf("menus = %v, want %v", menus, want)
	}
	for i := range want {
		if menus[i] != want[i] {
			t.Errorf("menus = %v, want %v", menus, want)
			break
		}
	}
}
