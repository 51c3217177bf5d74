package bomber

import (
	"fmt"
	"strings"
	"time"

	"github.com/vovakirdan/bomb-arena/internal/arena"
	"github.com/vovakirdan/bomb-arena/internal/core"
)

const (
	cellW     = 2 // Screen columns per board cell
	hudHeight = 3 // Title, player line, separator
)

var slotColors = []core.Color{core.ColorRed, core.ColorCyan, core.ColorGreen, core.ColorMagenta}

// Render draws the HUD, board and event ticker.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	g.renderHUD(dst)

	size := g.arena.BoardSize()
	boardW, boardH := size.Width*cellW, size.Height
	if dst.Width() < boardW || dst.Height() < hudHeight+boardH {
		g.renderOverlay(dst, "Window too small",
			fmt.Sprintf("Need %dx%d", boardW, hudHeight+boardH))
		return
	}

	origin := core.Centered(dst.Width(), boardH, boardW, boardH)
	origin.Y = hudHeight
	g.renderBoard(dst, origin)
	g.renderTicker(dst, origin.Bottom()+1)

	switch {
	case g.gameOver && g.winner >= 0:
		g.renderOverlay(dst, fmt.Sprintf("%s wins!", label(g.winner)), "R to play again, B for menu")
	case g.gameOver:
		g.renderOverlay(dst, "Draw!", "R to play again, B for menu")
	case g.paused:
		g.renderOverlay(dst, "Paused", "Press P to continue")
	}
}

func (g *Game) renderHUD(dst *core.Screen) {
	elapsed := g.arena.Now()
	if g.gameOver {
		elapsed = g.endedAt
	}
	dst.DrawText(1, 0, fmt.Sprintf("%s  %s", g.title, clock(elapsed)))

	x := 1
	for _, p := range g.arena.AllPlayers() {
		var status string
		switch p.State() {
		case arena.StateAlive:
			status = fmt.Sprintf("%s ♥%d ●%d/%d", label(p.Slot), p.Lives, p.MaxBombs-p.ActiveBombs, p.MaxBombs)
		case arena.StateDead:
			status = fmt.Sprintf("%s ♥%d ✗", label(p.Slot), p.Lives)
		default:
			status = fmt.Sprintf("%s out", label(p.Slot))
		}
		c := slotColors[p.Slot%len(slotColors)]
		if p.State() == arena.StateEliminated {
			c = core.ColorGray
		}
		dst.DrawTextColor(x, 1, status, c)
		x += len([]rune(status)) + 3
	}

	dst.DrawHLine(0, 2, dst.Width(), '─')
}

// glyph is the two-column picture of one board cell.
type glyph struct {
	text  string
	color core.Color
}

var (
	glyphWall = glyph{"██", core.ColorGray}
	glyphBox  = glyph{"▒▒", core.ColorYellow}
	glyphBomb = glyph{"()", core.ColorRed}
	glyphFuse = glyph{"()", core.ColorBrightRed}
	glyphFire = glyph{"░░", core.ColorOrange}
)

// renderBoard draws cells back to front: terrain, fire, bombs, players.
func (g *Game) renderBoard(dst *core.Screen, r core.Rect) {
	size := g.arena.BoardSize()
	draw := func(p arena.Position, gl glyph) {
		dst.DrawTextColor(r.X+p.X*cellW, r.Y+p.Y, gl.text, gl.color)
	}

	for y := 0; y < size.Height; y++ {
		for x := 0; x < size.Width; x++ {
			p := arena.Position{X: x, Y: y}
			switch g.arena.CellAt(p) {
			case arena.CellWall:
				draw(p, glyphWall)
			case arena.CellBox:
				draw(p, glyphBox)
			}
		}
	}
	for _, p := range g.arena.Fires() {
		draw(p, glyphFire)
	}
	now := g.arena.Now()
	for _, b := range g.arena.Bombs() {
		if b.DetonatesAt()-now <= 500*time.Millisecond {
			draw(b.Pos, glyphFuse)
		} else {
			draw(b.Pos, glyphBomb)
		}
	}
	for _, p := range g.arena.AlivePlayers() {
		draw(p.Pos, glyph{label(p.Slot), slotColors[p.Slot%len(slotColors)]})
	}
}

func (g *Game) renderTicker(dst *core.Screen, y int) {
	if g.loadErr != nil {
		dst.DrawTextColor(1, y, "config: "+firstLine(g.loadErr.Error()), core.ColorYellow)
		y++
	}
	for i, line := range g.ticker {
		dst.DrawTextColor(1, y+i, line, core.ColorGray)
	}
}

func (g *Game) renderOverlay(dst *core.Screen, title, hint string) {
	w := core.Max(len([]rune(title)), len([]rune(hint))) + 6
	box := core.Centered(dst.Width(), dst.Height(), w, 5)
	for y := box.Y; y < box.Bottom(); y++ {
		dst.DrawHLine(box.X, y, box.W, ' ')
	}
	dst.DrawBox(box, core.ColorWhite)
	dst.DrawTextCenteredColor(box.Y+1, title, core.ColorBrightYellow)
	dst.DrawTextCentered(box.Y+3, hint)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
