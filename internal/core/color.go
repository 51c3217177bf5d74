package core

// Color is a foreground color for a screen cell. The platform maps it to a
// terminal color when rendering.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorOrange
	ColorGray
	ColorBrightRed
	ColorBrightYellow
)

// ANSI returns the 256-color palette index for c, or "" for the terminal
// default.
func (c Color) ANSI() string {
	switch c {
	case ColorRed:
		return "1"
	case ColorGreen:
		return "2"
	case ColorYellow:
		return "3"
	case ColorBlue:
		return "12"
	case ColorMagenta:
		return "13"
	case ColorCyan:
		return "14"
	case ColorWhite:
		return "15"
	case ColorOrange:
		return "208"
	case ColorGray:
		return "240"
	case ColorBrightRed:
		return "196"
	case ColorBrightYellow:
		return "226"
	default:
		return ""
	}
}
