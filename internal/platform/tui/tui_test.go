package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/bomb-arena/internal/config"
	"github.com/vovakirdan/bomb-arena/internal/core"
	"github.com/vovakirdan/bomb-arena/internal/registry"
	"github.com/vovakirdan/bomb-arena/internal/storage"
)

// fakeGame ends its match after endAfter steps.
type fakeGame struct {
	endAfter int
	steps    int
	resets   int
	keys     [][]string
	actions  []core.InputFrame
}

func (g *fakeGame) ID() string    { return "fake" }
func (g *fakeGame) Title() string { return "Fake" }

func (g *fakeGame) Reset(core.RuntimeConfig) {
	g.steps = 0
	g.resets++
}

func (g *fakeGame) Step(in core.InputFrame) core.StepResult {
	if in.Has(core.ActionRestart) && g.over() {
		g.Reset(core.RuntimeConfig{})
		return core.StepResult{State: g.State()}
	}
	g.steps++
	g.keys = append(g.keys, append([]string(nil), in.Keys...))
	g.actions = append(g.actions, in.Clone())
	return core.StepResult{State: g.State()}
}

func (g *fakeGame) Render(dst *core.Screen) {
	dst.DrawTextColor(0, 0, "fake", core.ColorRed)
}

func (g *fakeGame) over() bool { return g.steps >= g.endAfter }

func (g *fakeGame) State() core.GameState {
	return core.GameState{GameOver: g.over()}
}

func (g *fakeGame) Result() (core.MatchResult, bool) {
	if !g.over() {
		return core.MatchResult{}, false
	}
	return core.MatchResult{
		MatchID:  "match-" + string(rune('a'+g.resets)),
		Winner:   1,
		Reason:   "last-standing",
		Duration: 90 * time.Second,
		Players: []core.PlayerResult{
			{Slot: 0, PlayerID: "player1", Deaths: 3},
			{Slot: 1, PlayerID: "player2", LivesLeft: 1, Kills: 2},
		},
	}, true
}

func init() {
	registry.Register("tui_fake_duel", 2, func() registry.Game { return &fakeGame{endAfter: 1} })
	registry.Register("tui_fake", 4, func() registry.Game { return &fakeGame{endAfter: 1} })
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return out
}

func tick(m Model) TickMsg {
	return TickMsg{Loop: m.loop, At: time.Now()}
}

func TestMapKeyToFrame(t *testing.T) {
	km := NewKeyMapper()
	tests := []struct {
		name   string
		msg    tea.KeyMsg
		action core.Action
		token  string
		quit   bool
	}{
		{"arrow is a token", tea.KeyMsg{Type: tea.KeyUp}, core.ActionNone, "up", false},
		{"letter is a token", runes("w"), core.ActionNone, "w", false},
		{"space is a token", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, core.ActionNone, " ", false},
		{"enter is a token", tea.KeyMsg{Type: tea.KeyEnter}, core.ActionNone, "enter", false},
		{"q quits", runes("q"), core.ActionQuit, "", true},
		{"ctrl+c quits", tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, "", true},
		{"p pauses", runes("p"), core.ActionPause, "", false},
		{"r restarts", runes("r"), core.ActionRestart, "", false},
		{"esc goes back", tea.KeyMsg{Type: tea.KeyEsc}, core.ActionBack, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame := core.NewInputFrame()
			quit := km.MapKeyToFrame(tt.msg, &frame)
			if quit != tt.quit {
				t.Errorf("quit = %v, want %v", quit, tt.quit)
			}
			if tt.action != core.ActionNone && !frame.Has(tt.action) {
				t.Errorf("action %v not set", tt.action)
			}
			if tt.token == "" && len(frame.Keys) != 0 {
				t.Errorf("reserved key leaked as token: %v", frame.Keys)
			}
			if tt.token != "" && (len(frame.Keys) != 1 || frame.Keys[0] != tt.token) {
				t.Errorf("Keys = %q, want [%q]", frame.Keys, tt.token)
			}
		})
	}
}

func TestReservedKeysAreHandled(t *testing.T) {
	km := NewKeyMapper()
	msgs := map[string]tea.KeyMsg{
		"ctrl+c": {Type: tea.KeyCtrlC},
		"ctrl+s": {Type: tea.KeyCtrlS},
		"esc":    {Type: tea.KeyEsc},
	}
	for _, k := range config.ReservedKeys {
		msg, ok := msgs[k]
		if !ok {
			msg = runes(k)
		}
		if msg.String() != k {
			t.Fatalf("test message for %q renders as %q", k, msg.String())
		}
		if _, reserved := km.MapKey(msg); !reserved {
			t.Errorf("reserved key %q is not handled by the platform", k)
		}
	}
}

func TestDefaultBindingsAreNotReserved(t *testing.T) {
	km := NewKeyMapper()
	for _, p := range config.DefaultBomberConfig().Players {
		for _, k := range []string{p.Keys.Up, p.Keys.Down, p.Keys.Left, p.Keys.Right, p.Keys.Bomb} {
			frame := core.NewInputFrame()
			var msg tea.KeyMsg
			switch k {
			case "up":
				msg = tea.KeyMsg{Type: tea.KeyUp}
			case "down":
				msg = tea.KeyMsg{Type: tea.KeyDown}
			case "left":
				msg = tea.KeyMsg{Type: tea.KeyLeft}
			case "right":
				msg = tea.KeyMsg{Type: tea.KeyRight}
			case "enter":
				msg = tea.KeyMsg{Type: tea.KeyEnter}
			case " ":
				msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
			default:
				msg = runes(k)
			}
			km.MapKeyToFrame(msg, &frame)
			if len(frame.Keys) != 1 || frame.Keys[0] != k {
				t.Errorf("%s binding %q arrives as %q", p.ID, k, frame.Keys)
			}
		}
	}
}

func TestRenderScreenText(t *testing.T) {
	s := core.NewScreen(6, 2)
	s.DrawTextColor(0, 0, "ab", core.ColorRed)
	s.DrawText(2, 0, "cd")
	s.DrawTextColor(0, 1, "██", core.ColorGray)

	// Without a terminal lipgloss emits no escapes, so only the text remains.
	if got, want := RenderScreen(s), s.String(); got != want {
		t.Errorf("RenderScreen() = %q, want %q", got, want)
	}
}

func TestModelPassesKeysToGame(t *testing.T) {
	game := &fakeGame{endAfter: 100}
	m := NewModel(game, nil, core.DefaultConfig())
	m.Init()

	m = update(t, m, runes("w"))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m = update(t, m, tick(m))
	m = update(t, m, tick(m))

	if len(game.keys) != 2 {
		t.Fatalf("game stepped %d times, want 2", len(game.keys))
	}
	if got := strings.Join(game.keys[0], ","); got != "w,left" {
		t.Errorf("first frame keys = %q, want w,left", got)
	}
	if len(game.keys[1]) != 0 {
		t.Errorf("frame not cleared between ticks: %q", game.keys[1])
	}
}

func TestModelIgnoresStaleTickLoop(t *testing.T) {
	game := &fakeGame{endAfter: 100}
	m := NewModel(game, nil, core.DefaultConfig())
	m.Init()

	m = update(t, m, TickMsg{Loop: m.loop + 1000})
	if game.steps != 0 {
		t.Errorf("tick from another loop stepped the game")
	}
}

func TestModelSavesMatchOnce(t *testing.T) {
	store := openStore(t)
	game := &fakeGame{endAfter: 2}
	m := NewModel(game, store, core.DefaultConfig())
	m.Init()

	for range 5 {
		m = update(t, m, tick(m))
	}
	if !m.State().GameOver {
		t.Fatal("match should be over")
	}

	matches, err := store.RecentMatches("", 10)
	if err != nil {
		t.Fatalf("RecentMatches() failed: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("saved %d matches, want 1", len(matches))
	}
	got := matches[0]
	if got.GameID != "fake" || got.WinnerSlot != 1 || got.Players != 2 {
		t.Errorf("saved match = %+v", got)
	}
	if w, ok := got.Winner(); !ok || w.Kills != 2 {
		t.Errorf("winner line = %+v, %v", w, ok)
	}

	// A restart starts a new match, which is saved again when it ends.
	m = update(t, m, runes("r"))
	for range 4 {
		m = update(t, m, tick(m))
	}
	matches, _ = store.RecentMatches("", 10)
	if len(matches) != 2 {
		t.Errorf("after restart saved %d matches, want 2", len(matches))
	}
}

func TestModelBackOnlyWhenOver(t *testing.T) {
	game := &fakeGame{endAfter: 2}
	m := NewModel(game, nil, core.DefaultConfig())
	m.embedded = true
	m.Init()

	m = update(t, m, tick(m))
	m = update(t, m, runes("b"))
	if m.BackToMenu() {
		t.Fatal("back honoured mid-match")
	}

	m = update(t, m, tick(m))
	m = update(t, m, runes("b"))
	if !m.BackToMenu() {
		t.Fatal("back ignored after game over")
	}

	steps := game.steps
	m = update(t, m, tick(m))
	if game.steps != steps {
		t.Error("game kept stepping after leaving")
	}
}

func TestModelQuit(t *testing.T) {
	m := NewModel(&fakeGame{endAfter: 10}, nil, core.DefaultConfig())
	m.Init()
	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if !m.IsQuitting() || m.View() != "" {
		t.Error("ctrl+c should quit and blank the view")
	}
}

func TestModelResizeKeepsMatch(t *testing.T) {
	game := &fakeGame{endAfter: 10}
	m := NewModel(game, nil, core.DefaultConfig())
	m.Init()
	m = update(t, m, tick(m))
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	if game.resets != 1 {
		t.Errorf("resize reset the game (%d resets)", game.resets)
	}
	if m.screen.Width() != 120 || m.screen.Height() != 40 {
		t.Errorf("screen = %dx%d, want 120x40", m.screen.Width(), m.screen.Height())
	}
}

func TestMatchRecord(t *testing.T) {
	res, _ := (&fakeGame{}).Result()
	rec := MatchRecord("bomber_duel", res)
	if rec.GameID != "bomber_duel" || rec.EndReason != "last-standing" || rec.Duration != 90*time.Second {
		t.Errorf("MatchRecord() = %+v", rec)
	}
	if len(rec.Lines) != 2 || rec.Lines[0].Deaths != 3 {
		t.Errorf("lines = %+v", rec.Lines)
	}
}

func TestMenuListsVariants(t *testing.T) {
	m := NewMenuModel(core.DefaultConfig())
	if len(m.items) != 2 {
		t.Fatalf("menu has %d items, want 2", len(m.items))
	}
	if m.items[0].GameID != "tui_fake_duel" || m.items[0].Players != 2 {
		t.Errorf("first item = %+v, want the 2-player variant", m.items[0])
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(MenuModel)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(MenuModel)
	if m.Selected() == nil || m.Selected().GameID != "tui_fake" {
		t.Errorf("Selected() = %+v, want tui_fake", m.Selected())
	}
	if !strings.Contains(m.View(), "4 players") {
		t.Error("view does not show player counts")
	}
}

func TestMenuHistoryAndQuit(t *testing.T) {
	m := NewMenuModel(core.DefaultConfig())
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if !next.(MenuModel).WantsHistory() {
		t.Error("tab should open history")
	}
	next, _ = m.Update(runes("q"))
	if !next.(MenuModel).IsQuitting() {
		t.Error("q should quit")
	}
}

func TestHistoryModel(t *testing.T) {
	store := openStore(t)
	for i, game := range []string{"tui_fake_duel", "tui_fake", "tui_fake"} {
		res, _ := (&fakeGame{resets: i}).Result()
		if _, err := store.SaveMatch(MatchRecord(game, res)); err != nil {
			t.Fatalf("SaveMatch() failed: %v", err)
		}
	}

	m := NewHistoryModel(store, 120, 30)
	if len(m.matches) != 3 {
		t.Fatalf("All tab shows %d matches, want 3", len(m.matches))
	}
	if len(m.stats) != 2 || m.stats[1].Wins != 3 {
		t.Errorf("slot stats = %+v", m.stats)
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(HistoryModel)
	if m.tabs[m.tab].id != "tui_fake_duel" || len(m.matches) != 1 {
		t.Errorf("tab %q shows %d matches, want 1", m.tabs[m.tab].id, len(m.matches))
	}
	if !strings.Contains(m.View(), "P2") {
		t.Error("view does not show the winner")
	}

	next, _ = m.Update(runes("b"))
	if !next.(HistoryModel).IsGoingBack() {
		t.Error("b should go back")
	}
}

func TestHistoryWithoutStore(t *testing.T) {
	m := NewHistoryModel(nil, 60, 20)
	if !strings.Contains(m.View(), "No matches recorded yet.") {
		t.Error("empty history placeholder missing")
	}
}

func TestSessionFlow(t *testing.T) {
	store := openStore(t)
	s := NewSessionModel(store, core.DefaultConfig(), nil, nil)

	send := func(msg tea.Msg) {
		t.Helper()
		next, _ := s.Update(msg)
		s = next.(SessionModel)
	}

	send(tea.KeyMsg{Type: tea.KeyEnter})
	if s.current != screenGame {
		t.Fatalf("screen = %v, want game", s.current)
	}
	send(TickMsg{Loop: s.game.loop})
	if !s.game.State().GameOver {
		t.Fatal("fake match should end after one tick")
	}
	send(runes("b"))
	if s.current != screenMenu {
		t.Fatalf("screen = %v, want menu", s.current)
	}

	send(tea.KeyMsg{Type: tea.KeyTab})
	if s.current != screenHistory || len(s.history.matches) != 1 {
		t.Fatalf("history shows %d matches", len(s.history.matches))
	}
	send(tea.KeyMsg{Type: tea.KeyEsc})
	if s.current != screenMenu {
		t.Fatalf("screen = %v, want menu", s.current)
	}

	send(runes("q"))
	if !s.quitting {
		t.Error("q should end the session")
	}
}
