package theme

import "github.com/dukerupert/menuboard/internal/model"

// Scope selects which section fields ApplyToSections may overwrite.
type Scope uint8

const (
	ScopeHeaderColors Scope = 1 << iota
	ScopeHeaderFont
	ScopePromotions

	// ScopeDefault is what a plain save delegates to the theme. Promotional
	// sections keep their own colors unless re-themed explicitly.
	ScopeDefault = ScopeHeaderColors | ScopeHeaderFont
	ScopeAll     = ScopeDefault | ScopePromotions
)

// ParseScope maps the API spelling onto a Scope.
func ParseScope(s string) (Scope, bool) {
	switch s {
	case "", "default", "headers":
		return ScopeDefault, true
	case "all":
		return ScopeAll, true
	case "colors":
		return ScopeHeaderColors, true
	}
	return 0, false
}

// ApplyToSections returns a copy of sections with theme tokens stamped onto
// every field delegated by scope. The input slice is never modified.
func ApplyToSections(sections []model.Section, t model.Theme, scope Scope) []model.Section {
	out := make([]model.Section, len(sections))
	for i, s := range sections {
		out[i] = s
		if s.Content == nil {
			continue
		}
		content := *s.Content
		switch s.Type {
		case model.SectionCategoryHeader:
			if scope&ScopeHeaderColors != 0 {
				content.BackgroundColor = t.PrimaryColor
				content.TextColor = t.BgColor
			}
			if scope&ScopeHeaderFont != 0 {
				content.FontSize = HeaderFontSize(t)
			}
		case model.SectionPromotional:
			if scope&ScopePromotions != 0 {
				content.BackgroundColor = t.CardColor
				content.TextColor = t.TextColor
				content.FontSize = PromoFontSize(t)
			}
		}
		out[i].Content = &content
	}
	return out
}

// ApplyToConfig stamps t onto cfg: the config carries its own copy of the
// theme for offline rendering, and sections are re-themed per scope.
func ApplyToConfig(cfg model.LayoutConfig, t model.Theme, scope Scope) model.LayoutConfig {
	out := cfg.Clone()
	out.Theme = t
	out.Sections = ApplyToSections(cfg.Sections, t, scope)
	return out
}
