// Package theme holds the named theme presets and the propagation of theme
// tokens onto a menu's sections.
package theme

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/dukerupert/menuboard/internal/model"
)

const DefaultPreset = "classic"

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

var presets = map[string]model.Theme{
	"classic": {
		BgColor: "#FFFFFF", CardColor: "#F7F7F7", TextColor: "#222222", PrimaryColor: "#B23A48",
		CardElevation: 2, BorderRadius: 8, FontFamily: "Georgia", FontSizeBase: 16, SpacingUnit: 8,
	},
	"dark": {
		BgColor: "#121212", CardColor: "#1E1E1E", TextColor: "#EDEDED", PrimaryColor: "#F2A541",
		CardElevation: 4, BorderRadius: 12, FontFamily: "Inter", FontSizeBase: 16, SpacingUnit: 8,
	},
	"warm": {
		BgColor: "#FFF8F0", CardColor: "#FFFFFF", TextColor: "#3E2723", PrimaryColor: "#D35400",
		CardElevation: 1, BorderRadius: 16, FontFamily: "Merriweather", FontSizeBase: 15, SpacingUnit: 10,
	},
	"fresh": {
		BgColor: "#F4FBF6", CardColor: "#FFFFFF", TextColor: "#1B3A2B", PrimaryColor: "#2E8B57",
		CardElevation: 2, BorderRadius: 10, FontFamily: "Nunito", FontSizeBase: 16, SpacingUnit: 8,
	},
	"minimal": {
		BgColor: "#FFFFFF", CardColor: "#FFFFFF", TextColor: "#000000", PrimaryColor: "#000000",
		CardElevation: 0, BorderRadius: 0, FontFamily: "Helvetica", FontSizeBase: 14, SpacingUnit: 6,
	},
}

// Default returns the classic preset.
func Default() model.Theme {
	return presets[DefaultPreset]
}

// ByName returns the preset with the given name (case-insensitive).
func ByName(name string) (model.Theme, bool) {
	t, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	return t, ok
}

// PresetNames returns all preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func HeaderFontSize(t model.Theme) int { return t.FontSizeBase + 4 }
func PromoFontSize(t model.Theme) int  { return t.FontSizeBase + 8 }

// IsColor reports whether s is a #rgb, #rrggbb or #rrggbbaa color.
func IsColor(s string) bool {
	return hexColor.MatchString(s)
}

func Validate(t model.Theme) error {
	var errs []error
	for field, value := range map[string]string{
		"bg_color":      t.BgColor,
		"card_color":    t.CardColor,
		"text_color":    t.TextColor,
		"primary_color": t.PrimaryColor,
	} {
		if !IsColor(value) {
			errs = append(errs, fmt.Errorf("theme.%s %q is not a hex color", field, value))
		}
	}
	if t.CardElevation < 0 {
		errs = append(errs, errors.New("theme.card_elevation must not be negative"))
	}
	if t.BorderRadius < 0 {
		errs = append(errs, errors.New("theme.border_radius must not be negative"))
	}
	if t.FontSizeBase <= 0 {
		errs = append(errs, errors.New("theme.font_size_base must be positive"))
	}
	if t.SpacingUnit < 0 {
		errs = append(errs, errors.New("theme.spacing_unit must not be negative"))
	}
	if len(errs) == 0 {
		return nil
	}
	sort.Slice(errs, func(i, j int) bool { return errs[i].Error() < errs[j].Error() })
	return errors.Join(errs...)
}
