package layout

import (
	"errors"
	"strings"
	"testing"

	"github.com/dukerupert/menuboard/internal/model"
	"github.com/dukerupert/menuboard/internal/theme"
)

func TestDefault(t *testing.T) {
	cfg := Default("Dinner")
	if cfg.SelectedMenu != "Dinner" {
		t.Errorf("selectedMenu = %q", cfg.SelectedMenu)
	}
	if cfg.LayoutType != model.LayoutGrid || cfg.Columns != 2 {
		t.Errorf("layout = %s/%d, want grid/2", cfg.LayoutType, cfg.Columns)
	}
	if cfg.Sections == nil || len(cfg.Sections) != 0 {
		t.Errorf("sections = %v, want empty non-nil", cfg.Sections)
	}
	if cfg.Theme != theme.Default() {
		t.Error("default config should use the default preset")
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestNormalize(t *testing.T) {
	cfg := model.LayoutConfig{
		Sections: []model.Section{
			{Type: model.SectionCategoryHeader},
			{Type: model.SectionItemList, CategoryID: model.Ref(3)},
			{ID: "keep", Type: model.SectionItemList},
		},
	}
	out := Normalize(cfg, "Brunch")

	if out.SelectedMenu != "Brunch" {
		t.Errorf("selectedMenu = %q", out.SelectedMenu)
	}
	if out.LayoutType != model.LayoutGrid || out.Columns != DefaultColumns {
		t.Errorf("layout = %s/%d", out.LayoutType, out.Columns)
	}
	if out.Theme != theme.Default() {
		t.Error("empty theme should be filled with the default preset")
	}

	header := out.Sections[0]
	if header.ID == "" {
		t.Error("header should get an id")
	}
	if header.CategoryID.Kind() != model.RefSentinel {
		t.Errorf("absent header ref should become the sentinel, got %v", header.CategoryID)
	}
	if header.Content == nil || header.Content.Alignment != model.AlignLeft {
		t.Errorf("header content = %+v", header.Content)
	}

	list := out.Sections[1]
	if list.Layout != model.LayoutGrid {
		t.Errorf("list layout = %q, want inherited grid", list.Layout)
	}
	if id, ok := list.CategoryID.ID(); !ok || id != 3 {
		t.Errorf("explicit ref changed: %v", list.CategoryID)
	}
	if out.Sections[2].ID != "keep" {
		t.Errorf("existing id replaced: %q", out.Sections[2].ID)
	}

	if cfg.Sections[0].ID != "" || cfg.Sections[0].Content != nil {
		t.Error("Normalize modified its input")
	}
	if err := Validate(out); err != nil {
		t.Errorf("normalized config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	base := func() model.LayoutConfig {
		cfg := Default("Dinner")
		cfg.Sections = []model.Section{
			NewCategoryHeader(model.Ref(1), "Mains", cfg.Theme),
			NewItemList(model.Ref(1), model.LayoutList),
			NewPromotional("Happy Hour", "4-6pm", "", cfg.Theme),
		}
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*model.LayoutConfig)
		want   string
	}{
		{"valid", func(*model.LayoutConfig) {}, ""},
		{"no menu", func(c *model.LayoutConfig) { c.SelectedMenu = " " }, "selectedMenu"},
		{"bad layout", func(c *model.LayoutConfig) { c.LayoutType = "masonry" }, "layout_type"},
		{"zero columns", func(c *model.LayoutConfig) { c.Columns = 0 }, "columns"},
		{"too many columns", func(c *model.LayoutConfig) { c.Columns = MaxColumns + 1 }, "columns"},
		{"bad theme color", func(c *model.LayoutConfig) { c.Theme.BgColor = "white" }, "bg_color"},
		{"duplicate ids", func(c *model.LayoutConfig) { c.Sections[1].ID = c.Sections[0].ID }, "duplicate id"},
		{"header without content", func(c *model.LayoutConfig) { c.Sections[0].Content = nil }, "requires content"},
		{"bad alignment", func(c *model.LayoutConfig) { c.Sections[0].Content.Alignment = "justify" }, "alignment"},
		{"empty promo", func(c *model.LayoutConfig) { c.Sections[2].Content.Text = "" }, "promotional text"},
		{"bad promo color", func(c *model.LayoutConfig) { c.Sections[2].Content.TextColor = "#12" }, "text_color"},
		{"bad weight", func(c *model.LayoutConfig) { c.Sections[2].Content.FontWeight = "heavy" }, "font_weight"},
		{"unknown type", func(c *model.LayoutConfig) { c.Sections[1].Type = "carousel" }, "unknown section type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := Validate(cfg)
			if tt.want == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.want)
			}
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("error does not wrap ErrInvalid: %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := Default("")
	cfg.Columns = 0
	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"selectedMenu", "columns"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}
}
