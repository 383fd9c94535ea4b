package render

import "strings"

// Palette for the blue/teal tech look. Hex values are ffmpeg 0xRRGGBB
// color arguments.
const (
	colorBGDark      = "0x0F172A" // deep navy
	colorBGLight     = "0xF1F5F9"
	colorPrimary     = "0x3B82F6" // blue
	colorPrimaryDark = "0x2563EB"
	colorAccent      = "0x14B8A6" // teal
	colorTextLight   = "0xF8FAFC"
	colorTextDark    = "0x0F172A"
	colorCodeBG      = "0x1E293B"
	colorCodeText    = "0xCBD5E1"
	colorKeyword     = "0x8B5CF6"
)

// theme resolves the scene background request to concrete colors.
type theme struct {
	background string
	text       string
}

func themeFor(background string) theme {
	bg := strings.ToLower(background)
	if strings.Contains(bg, "light") {
		return theme{background: colorBGLight, text: colorTextDark}
	}
	return theme{background: colorBGDark, text: colorTextLight}
}
