package model

type SectionType string

const (
	SectionCategoryHeader SectionType = "category_header"
	SectionItemList       SectionType = "item_list"
	SectionPromotional    SectionType = "promotional"
)

type LayoutType string

const (
	LayoutGrid LayoutType = "grid"
	LayoutList LayoutType = "list"
)

type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// SectionContent holds the styled text of header and promotional sections.
// Subtitle and ImageURL are only meaningful for promotional sections,
// Alignment only for headers.
type SectionContent struct {
	Text            string    `json:"text"`
	Subtitle        string    `json:"subtitle,omitempty"`
	ImageURL        string    `json:"image_url,omitempty"`
	BackgroundColor string    `json:"background_color"`
	TextColor       string    `json:"text_color"`
	FontSize        int       `json:"font_size"`
	FontWeight      string    `json:"font_weight"`
	Alignment       Alignment `json:"alignment,omitempty"`
}

// Section is one ordered element of a LayoutConfig. Type selects which of
// the remaining fields apply:
//
//	category_header: CategoryID, Content
//	item_list:       CategoryID, Layout
//	promotional:     Content
type Section struct {
	ID         string          `json:"id"`
	Type       SectionType     `json:"type"`
	CategoryID CategoryRef     `json:"category_id"`
	Content    *SectionContent `json:"content,omitempty"`
	Layout     LayoutType      `json:"layout,omitempty"`
}

type LayoutConfig struct {
	SelectedMenu string     `json:"selectedMenu"`
	LayoutType   LayoutType `json:"layout_type"`
	Columns      int        `json:"columns"`
	Sections     []Section  `json:"sections"`
	Theme        Theme      `json:"theme"`
}

// Clone returns a deep copy so drafts and snapshots never share section content.
func (c LayoutConfig) Clone() LayoutConfig {
	out := c
	out.Sections = make([]Section, len(c.Sections))
	for i, s := range c.Sections {
		out.Sections[i] = s
		if s.Content != nil {
			content := *s.Content
			out.Sections[i].Content = &content
		}
	}
	return out
}
