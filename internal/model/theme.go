package model

// Theme is the flat set of visual tokens shared by the editor preview and the
// mobile client. It is a value type; copies never alias.
type Theme struct {
	BgColor       string `json:"bg_color"`
	CardColor     string `json:"card_color"`
	TextColor     string `json:"text_color"`
	PrimaryColor  string `json:"primary_color"`
	CardElevation int    `json:"card_elevation"`
	BorderRadius  int    `json:"border_radius"`
	FontFamily    string `json:"font_family"`
	FontSizeBase  int    `json:"font_size_base"`
	SpacingUnit   int    `json:"spacing_unit"`
}
