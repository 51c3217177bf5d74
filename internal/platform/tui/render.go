package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/bomb-arena/internal/core"
)

// colorStyles is built once; SSH sessions render concurrently.
var colorStyles = func() map[core.Color]lipgloss.Style {
	out := make(map[core.Color]lipgloss.Style)
	for c := core.ColorDefault; c <= core.ColorBrightYellow; c++ {
		s := lipgloss.NewStyle()
		if code := c.ANSI(); code != "" {
			s = s.Foreground(lipgloss.Color(code))
		}
		out[c] = s
	}
	return out
}()

// RenderScreen converts a Screen buffer to a styled string for display.
// Adjacent cells of one color share a single escape sequence.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}
		for _, span := range s.Spans(y) {
			if span.Color == core.ColorDefault {
				sb.WriteString(span.Text)
				continue
			}
			sb.WriteString(colorStyles[span.Color].Render(span.Text))
		}
	}
	return sb.String()
}
