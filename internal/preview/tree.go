package preview

import "github.com/dukerupert/menuboard/internal/model"

// PlaceholderImageURL is rendered in place of a missing or unusable image.
const PlaceholderImageURL = "/static/img/placeholder.svg"

type BlockKind string

const (
	BlockHeader      BlockKind = "header"
	BlockItems       BlockKind = "items"
	BlockPromotional BlockKind = "promotional"
)

// BusinessInfo is the title block shown above the menu.
type BusinessInfo struct {
	Name    string `json:"name"`
	Tagline string `json:"tagline,omitempty"`
	LogoURL string `json:"logo_url,omitempty"`
}

type Style struct {
	BackgroundColor string `json:"background_color,omitempty"`
	TextColor       string `json:"text_color,omitempty"`
	FontFamily      string `json:"font_family,omitempty"`
	FontSize        int    `json:"font_size,omitempty"`
	FontWeight      string `json:"font_weight,omitempty"`
	Alignment       string `json:"alignment,omitempty"`
	BorderRadius    int    `json:"border_radius,omitempty"`
	Elevation       int    `json:"elevation,omitempty"`
	Padding         int    `json:"padding,omitempty"`
}

type Image struct {
	URL         string `json:"url"`
	Placeholder bool   `json:"placeholder"`
}

type ItemCard struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Price       string `json:"price"`
	Description string `json:"description,omitempty"`
	Image       Image  `json:"image"`
	Style       Style  `json:"style"`
}

// Block is one rendered element of the menu. Items blocks carry their cards
// already arranged into rows: one card per row for lists, up to Columns cards
// per row for grids.
type Block struct {
	Kind       BlockKind        `json:"kind"`
	SectionID  string           `json:"section_id,omitempty"`
	CategoryID *int64           `json:"category_id"`
	Label      string           `json:"label,omitempty"`
	Subtitle   string           `json:"subtitle,omitempty"`
	Image      *Image           `json:"image,omitempty"`
	Style      Style            `json:"style"`
	Layout     model.LayoutType `json:"layout,omitempty"`
	Columns    int              `json:"columns,omitempty"`
	Rows       [][]ItemCard     `json:"rows,omitempty"`
}

// Tree is the complete, self-contained render output.
type Tree struct {
	Menu     string       `json:"menu"`
	Business BusinessInfo `json:"business"`
	Theme    model.Theme  `json:"theme"`
	Blocks   []Block      `json:"blocks"`
}

// Items returns every card in the block, row by row.
func (b Block) Items() []ItemCard {
	var out []ItemCard
	for _, row := range b.Rows {
		out = append(out, row...)
	}
	return out
}
