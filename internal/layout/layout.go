// Package layout owns the section document of a menu: its defaults,
// normalization and validation.
package layout

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dukerupert/menuboard/internal/model"
	"github.com/dukerupert/menuboard/internal/theme"
)

// ErrInvalid wraps every validation failure returned by Validate.
var ErrInvalid = errors.New("invalid layout config")

const (
	DefaultColumns = 2
	MaxColumns     = 6
)

var validFontWeights = map[string]bool{
	"":       true,
	"normal": true,
	"bold":   true,
	"100":    true, "200": true, "300": true, "400": true, "500": true,
	"600": true, "700": true, "800": true, "900": true,
}

// Default returns the config used for a menu that has never been saved.
func Default(menuName string) model.LayoutConfig {
	return model.LayoutConfig{
		SelectedMenu: menuName,
		LayoutType:   model.LayoutGrid,
		Columns:      DefaultColumns,
		Sections:     []model.Section{},
		Theme:        theme.Default(),
	}
}

// NewCategoryHeader builds a header section styled from t.
func NewCategoryHeader(ref model.CategoryRef, text string, t model.Theme) model.Section {
	return model.Section{
		ID:         uuid.NewString(),
		Type:       model.SectionCategoryHeader,
		CategoryID: ref,
		Content: &model.SectionContent{
			Text:            text,
			BackgroundColor: t.PrimaryColor,
			TextColor:       t.BgColor,
			FontSize:        theme.HeaderFontSize(t),
			FontWeight:      "bold",
			Alignment:       model.AlignLeft,
		},
	}
}

func NewItemList(ref model.CategoryRef, layout model.LayoutType) model.Section {
	return model.Section{
		ID:         uuid.NewString(),
		Type:       model.SectionItemList,
		CategoryID: ref,
		Layout:     layout,
	}
}

func NewPromotional(text, subtitle, imageURL string, t model.Theme) model.Section {
	return model.Section{
		ID:   uuid.NewString(),
		Type: model.SectionPromotional,
		Content: &model.SectionContent{
			Text:            text,
			Subtitle:        subtitle,
			ImageURL:        imageURL,
			BackgroundColor: t.CardColor,
			TextColor:       t.TextColor,
			FontSize:        theme.PromoFontSize(t),
			FontWeight:      "bold",
		},
	}
}

// Normalize fills in everything an editor is allowed to leave out: section
// ids, list layouts, header alignment and the selected menu. It returns a
// copy and never fails.
func Normalize(cfg model.LayoutConfig, menuName string) model.LayoutConfig {
	out := cfg.Clone()
	if menuName != "" {
		out.SelectedMenu = menuName
	}
	if out.LayoutType == "" {
		out.LayoutType = model.LayoutGrid
	}
	if out.Columns == 0 {
		out.Columns = DefaultColumns
	}
	if out.Theme == (model.Theme{}) {
		out.Theme = theme.Default()
	}
	for i := range out.Sections {
		s := &out.Sections[i]
		if strings.TrimSpace(s.ID) == "" {
			s.ID = uuid.NewString()
		}
		switch s.Type {
		case model.SectionItemList:
			if s.Layout == "" {
				s.Layout = out.LayoutType
			}
			if s.CategoryID.IsAbsent() {
				s.CategoryID = model.Sentinel()
			}
		case model.SectionCategoryHeader:
			if s.CategoryID.IsAbsent() {
				s.CategoryID = model.Sentinel()
			}
			if s.Content == nil {
				s.Content = NewCategoryHeader(s.CategoryID, "", out.Theme).Content
			}
			if s.Content.Alignment == "" {
				s.Content.Alignment = model.AlignLeft
			}
		}
	}
	return out
}

// Validate reports every problem in cfg at once. The returned error wraps
// ErrInvalid.
func Validate(cfg model.LayoutConfig) error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if strings.TrimSpace(cfg.SelectedMenu) == "" {
		add("selectedMenu is required")
	}
	if !validLayout(cfg.LayoutType) {
		add("layout_type must be grid or list, got %q", cfg.LayoutType)
	}
	if cfg.Columns < 1 || cfg.Columns > MaxColumns {
		add("columns must be between 1 and %d, got %d", MaxColumns, cfg.Columns)
	}
	if err := theme.Validate(cfg.Theme); err != nil {
		errs = append(errs, err)
	}

	seen := make(map[string]bool, len(cfg.Sections))
	for i, s := range cfg.Sections {
		if s.ID != "" {
			if seen[s.ID] {
				add("sections[%d]: duplicate id %q", i, s.ID)
			}
			seen[s.ID] = true
		}
		switch s.Type {
		case model.SectionCategoryHeader:
			if s.Content == nil {
				add("sections[%d]: category_header requires content", i)
				continue
			}
			validateContent(i, *s.Content, add)
			switch s.Content.Alignment {
			case "", model.AlignLeft, model.AlignCenter, model.AlignRight:
			default:
				add("sections[%d]: alignment must be left, center or right", i)
			}
		case model.SectionItemList:
			if s.Layout != "" && !validLayout(s.Layout) {
				add("sections[%d]: layout must be grid or list, got %q", i, s.Layout)
			}
		case model.SectionPromotional:
			if s.Content == nil {
				add("sections[%d]: promotional requires content", i)
				continue
			}
			if strings.TrimSpace(s.Content.Text) == "" {
				add("sections[%d]: promotional text is required", i)
			}
			validateContent(i, *s.Content, add)
		default:
			add("sections[%d]: unknown section type %q", i, s.Type)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}

func validateContent(i int, c model.SectionContent, add func(string, ...any)) {
	if c.BackgroundColor != "" && !theme.IsColor(c.BackgroundColor) {
		add("sections[%d]: background_color %q is not a hex color", i, c.BackgroundColor)
	}
	if c.TextColor != "" && !theme.IsColor(c.TextColor) {
		add("sections[%d]: text_color %q is not a hex color", i, c.TextColor)
	}
	if c.FontSize < 0 {
		add("sections[%d]: font_size must not be negative", i)
	}
	if !validFontWeights[c.FontWeight] {
		add("sections[%d]: font_weight %q is not supported", i, c.FontWeight)
	}
}

func validLayout(l model.LayoutType) bool {
	return l == model.LayoutGrid || l == model.LayoutList
}
