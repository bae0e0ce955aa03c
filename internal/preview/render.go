// Package preview turns a layout config, its items and the business's
// categories into a render tree. The same tree backs the editor preview and
// the contract the mobile client renders.
package preview

import (
	"net/url"
	"strings"

	"github.com/dukerupert/menuboard/internal/model"
	"github.com/dukerupert/menuboard/internal/resolve"
	"github.com/dukerupert/menuboard/internal/theme"
)

// MaxGridColumns caps grid columns on the phone-sized preview.
const MaxGridColumns = 2

// Render builds the tree for cfg. It is a pure function of its arguments and
// never fails: bad input degrades to placeholders and the "Other Items"
// bucket. Inactive categories are not live: their items fall through to the
// first active category.
func Render(cfg model.LayoutConfig, items []model.CatalogItem, categories []model.Category, business BusinessInfo) Tree {
	r := resolve.New(liveCategories(categories))
	visible := filterItems(items, cfg.SelectedMenu)

	tree := Tree{
		Menu:     cfg.SelectedMenu,
		Business: business,
		Theme:    cfg.Theme,
		Blocks:   []Block{},
	}
	if business.LogoURL != "" {
		tree.Business.LogoURL = imageFor(business.LogoURL).URL
	}

	if len(cfg.Sections) > 0 {
		tree.Blocks = renderSections(cfg, visible, r)
	} else {
		tree.Blocks = renderGrouped(cfg, visible, r)
	}
	return tree
}

func liveCategories(categories []model.Category) []model.Category {
	var out []model.Category
	for _, c := range categories {
		if c.IsActive {
			out = append(out, c)
		}
	}
	return out
}

func filterItems(items []model.CatalogItem, menu string) []model.CatalogItem {
	var out []model.CatalogItem
	for _, item := range items {
		if item.MenuName == menu && item.IsActive {
			out = append(out, item)
		}
	}
	return out
}

func renderSections(cfg model.LayoutConfig, items []model.CatalogItem, r *resolve.Resolver) []Block {
	blocks := make([]Block, 0, len(cfg.Sections))
	for _, s := range cfg.Sections {
		switch s.Type {
		case model.SectionCategoryHeader:
			cat, ok := r.Resolve(s.CategoryID)
			b := Block{
				Kind:      BlockHeader,
				SectionID: s.ID,
				Label:     resolve.OtherItemsLabel,
				Style:     headerStyle(cfg.Theme),
			}
			if ok {
				b.CategoryID = idPtr(cat.ID)
				b.Label = cat.Name
			}
			if s.Content != nil {
				b.Style = contentStyle(*s.Content, cfg.Theme, b.Style)
				if text := strings.TrimSpace(s.Content.Text); text != "" && text != b.Label {
					b.Subtitle = text
				}
			}
			blocks = append(blocks, b)

		case model.SectionItemList:
			cat, ok := r.Resolve(s.CategoryID)
			var target *int64
			if ok {
				target = idPtr(cat.ID)
			}
			layout := s.Layout
			if layout == "" {
				layout = cfg.LayoutType
			}
			b := itemsBlock(cfg, layout, matching(items, r, target))
			b.SectionID = s.ID
			b.CategoryID = target
			blocks = append(blocks, b)

		case model.SectionPromotional:
			b := Block{
				Kind:      BlockPromotional,
				SectionID: s.ID,
				Style:     promoStyle(cfg.Theme),
			}
			if s.Content != nil {
				b.Label = s.Content.Text
				b.Subtitle = s.Content.Subtitle
				b.Style = contentStyle(*s.Content, cfg.Theme, b.Style)
				if strings.TrimSpace(s.Content.ImageURL) != "" {
					img := imageFor(s.Content.ImageURL)
					b.Image = &img
				}
			}
			blocks = append(blocks, b)
		}
	}
	return blocks
}

// renderGrouped is used when the config has no sections: one header and one
// items block per category holding items, in position order, then the
// "Other Items" bucket.
func renderGrouped(cfg model.LayoutConfig, items []model.CatalogItem, r *resolve.Resolver) []Block {
	var blocks []Block
	for _, cat := range r.Ordered() {
		group := matching(items, r, idPtr(cat.ID))
		if len(group) == 0 {
			continue
		}
		style := headerStyle(cfg.Theme)
		if theme.IsColor(cat.Color) {
			style.BackgroundColor = cat.Color
		}
		blocks = append(blocks, Block{
			Kind:       BlockHeader,
			CategoryID: idPtr(cat.ID),
			Label:      cat.Name,
			Style:      style,
		})
		b := itemsBlock(cfg, cfg.LayoutType, group)
		b.CategoryID = idPtr(cat.ID)
		blocks = append(blocks, b)
	}

	if other := matching(items, r, nil); len(other) > 0 {
		blocks = append(blocks, Block{
			Kind:  BlockHeader,
			Label: resolve.OtherItemsLabel,
			Style: headerStyle(cfg.Theme),
		})
		blocks = append(blocks, itemsBlock(cfg, cfg.LayoutType, other))
	}
	if blocks == nil {
		blocks = []Block{}
	}
	return blocks
}

// matching returns the items whose effective category is target; a nil
// target selects the "Other Items" bucket.
func matching(items []model.CatalogItem, r *resolve.Resolver, target *int64) []model.CatalogItem {
	var out []model.CatalogItem
	for _, item := range items {
		got := r.EffectiveID(item)
		switch {
		case target == nil && got == nil:
			out = append(out, item)
		case target != nil && got != nil && *got == *target:
			out = append(out, item)
		}
	}
	return out
}

func itemsBlock(cfg model.LayoutConfig, layout model.LayoutType, items []model.CatalogItem) Block {
	columns := 1
	if layout == model.LayoutGrid {
		columns = min(max(cfg.Columns, 1), MaxGridColumns)
	} else {
		layout = model.LayoutList
	}

	cards := make([]ItemCard, 0, len(items))
	for _, item := range items {
		cards = append(cards, card(item, cfg.Theme))
	}

	b := Block{
		Kind:    BlockItems,
		Layout:  layout,
		Columns: columns,
		Style:   Style{BackgroundColor: cfg.Theme.BgColor, Padding: cfg.Theme.SpacingUnit},
		Rows:    [][]ItemCard{},
	}
	for start := 0; start < len(cards); start += columns {
		end := min(start+columns, len(cards))
		b.Rows = append(b.Rows, cards[start:end:end])
	}
	return b
}

func card(item model.CatalogItem, t model.Theme) ItemCard {
	return ItemCard{
		ID:          item.ID,
		Name:        item.Data.Name,
		Price:       item.Data.Price.StringFixed(2),
		Description: item.Data.Description,
		Image:       imageFor(item.Data.ImageURL),
		Style: Style{
			BackgroundColor: t.CardColor,
			TextColor:       t.TextColor,
			FontFamily:      t.FontFamily,
			FontSize:        t.FontSizeBase,
			BorderRadius:    t.BorderRadius,
			Elevation:       t.CardElevation,
			Padding:         t.SpacingUnit,
		},
	}
}

// imageFor accepts absolute http(s) URLs and site-relative paths; anything
// else becomes the placeholder.
func imageFor(raw string) Image {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Image{URL: PlaceholderImageURL, Placeholder: true}
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Image{URL: PlaceholderImageURL, Placeholder: true}
	}
	switch {
	case (u.Scheme == "http" || u.Scheme == "https") && u.Host != "":
		return Image{URL: u.String()}
	case u.Scheme == "" && u.Host == "" && strings.HasPrefix(u.Path, "/"):
		return Image{URL: u.String()}
	}
	return Image{URL: PlaceholderImageURL, Placeholder: true}
}

func headerStyle(t model.Theme) Style {
	return Style{
		BackgroundColor: t.PrimaryColor,
		TextColor:       t.BgColor,
		FontFamily:      t.FontFamily,
		FontSize:        theme.HeaderFontSize(t),
		FontWeight:      "bold",
		Alignment:       string(model.AlignLeft),
		Padding:         t.SpacingUnit,
	}
}

func promoStyle(t model.Theme) Style {
	return Style{
		BackgroundColor: t.CardColor,
		TextColor:       t.TextColor,
		FontFamily:      t.FontFamily,
		FontSize:        theme.PromoFontSize(t),
		FontWeight:      "bold",
		Alignment:       string(model.AlignCenter),
		BorderRadius:    t.BorderRadius,
		Padding:         t.SpacingUnit,
	}
}

// contentStyle uses the section's own tokens, taking anything left blank or
// malformed from fallback.
func contentStyle(c model.SectionContent, t model.Theme, fallback Style) Style {
	s := Style{
		BackgroundColor: c.BackgroundColor,
		TextColor:       c.TextColor,
		FontFamily:      t.FontFamily,
		FontSize:        c.FontSize,
		FontWeight:      c.FontWeight,
		Alignment:       string(c.Alignment),
		BorderRadius:    t.BorderRadius,
		Padding:         t.SpacingUnit,
	}
	if !theme.IsColor(s.BackgroundColor) {
		s.BackgroundColor = fallback.BackgroundColor
	}
	if !theme.IsColor(s.TextColor) {
		s.TextColor = fallback.TextColor
	}
	if s.FontSize <= 0 {
		s.FontSize = fallback.FontSize
	}
	if s.FontWeight == "" {
		s.FontWeight = fallback.FontWeight
	}
	if s.Alignment == "" {
		s.Alignment = fallback.Alignment
	}
	return s
}

func idPtr(id int64) *int64 {
	return &id
}
