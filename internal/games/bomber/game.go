// Package bomber runs a bomb arena match on top of the arena simulation:
// it feeds key presses through the held-key poller, advances the logical
// clock each tick, decides when the match is over and draws the board.
package bomber

import (
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/bomb-arena/internal/arena"
	"github.com/vovakirdan/bomb-arena/internal/config"
	"github.com/vovakirdan/bomb-arena/internal/core"
	"github.com/vovakirdan/bomb-arena/internal/registry"
)

const tickerLines = 3

// Package-level settings, set once by the command line before games start.
var (
	configPath string
	preset     = config.PresetNormal
	baseLogger = log.New(io.Discard)
)

// SetConfigPath sets the YAML file loaded on every Reset. Empty uses the
// default search order.
func SetConfigPath(path string) {
	configPath = path
}

// SetPreset sets the rule preset applied over the loaded config.
func SetPreset(p config.Preset) {
	preset = p
}

// SetLogger sets the logger games and their arenas write to.
func SetLogger(l *log.Logger) {
	if l != nil {
		baseLogger = l
	}
}

// Game is one bomb arena variant.
type Game struct {
	players  int
	id       string
	title    string
	observer registry.Observer

	cfg     config.BomberConfig
	arena   *arena.Arena
	input   *poller
	logger  *log.Logger
	rng     *rand.Rand
	runtime core.RuntimeConfig
	loadErr error

	matchID  string
	tick     uint64
	tickMs   int
	nextPoll time.Duration

	slots  map[arena.PlayerID]int
	kills  []int
	deaths []int
	ticker []string

	paused   bool
	gameOver bool
	winner   int // Slot, -1 for a draw
	endedAt  time.Duration
}

// New creates a game for the given number of players (1 to 4).
func New(players int) *Game {
	g := &Game{players: players, winner: -1}
	switch players {
	case 2:
		g.id, g.title = "bomber_duel", "Bomb Arena Duel"
	case 3:
		g.id, g.title = "bomber_trio", "Bomb Arena Trio"
	default:
		g.id, g.title = "bomber", "Bomb Arena"
	}
	return g
}

var (
	_ registry.Reporter   = (*Game)(nil)
	_ registry.Observable = (*Game)(nil)
)

func init() {
	registry.Register("bomber", 4, func() registry.Game { return New(4) })
	registry.Register("bomber_duel", 2, func() registry.Game { return New(2) })
	registry.Register("bomber_trio", 3, func() registry.Game { return New(3) })
}

// ID returns the game identifier.
func (g *Game) ID() string { return g.id }

// Title returns the display name.
func (g *Game) Title() string { return g.title }

// SetObserver implements registry.Observable.
func (g *Game) SetObserver(o registry.Observer) {
	g.observer = o
}

// Reset loads the configuration and starts a new match.
func (g *Game) Reset(rc core.RuntimeConfig) {
	g.runtime = rc
	g.cfg, g.loadErr = config.LoadBomber(configPath)
	if g.loadErr != nil {
		baseLogger.Warn("using default config", "err", g.loadErr)
		g.cfg = config.DefaultBomberConfig()
	}
	config.ApplyPreset(&g.cfg, preset)

	seed := rc.Seed
	if g.cfg.Board.Seed != 0 {
		seed = g.cfg.Board.Seed
	}
	g.rng = rand.New(rand.NewPCG(uint64(seed), 1))
	g.matchID = uuid.NewString()
	g.logger = baseLogger.With("game", g.id, "match", g.matchID[:8])

	ac, err := g.cfg.ToArena(g.players)
	if err == nil {
		ac.Seed = seed
		g.arena, err = arena.New(ac, arena.WithLogger(g.logger))
	}
	if err != nil {
		// Configs are validated on load; this only trips when a file
		// configures fewer players than the variant needs.
		g.loadErr = err
		g.logger.Warn("falling back to default arena", "err", err)
		g.cfg = config.DefaultBomberConfig()
		config.ApplyPreset(&g.cfg, preset)
		ac, err = g.cfg.ToArena(g.players)
		if err == nil {
			ac.Seed = seed
			g.arena, err = arena.New(ac, arena.WithLogger(g.logger))
		}
		if err != nil {
			g.logger.Error("default arena rejected", "err", err)
		}
	}

	g.input = newPoller(g.cfg.Input.Hold(), g.cfg.Input.Cooldown())
	g.tick = 0
	g.tickMs = rc.TickMillis()
	g.nextPoll = 0
	g.slots = make(map[arena.PlayerID]int, g.players)
	for _, p := range g.arena.AllPlayers() {
		g.slots[p.ID] = p.Slot
	}
	g.kills = make([]int, g.players)
	g.deaths = make([]int, g.players)
	g.ticker = nil
	g.paused = false
	g.gameOver = false
	g.winner = -1
	g.endedAt = 0

	g.logger.Info("match started", "players", g.players, "seed", seed)
}

// Step advances the match by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++

	if in.Has(core.ActionRestart) && g.gameOver {
		rc := g.runtime
		rc.Seed = g.rng.Int64()
		g.Reset(rc)
		return core.StepResult{State: g.State()}
	}
	if in.Has(core.ActionPause) && !g.gameOver {
		g.paused = !g.paused
	}
	if g.paused || g.gameOver {
		return core.StepResult{State: g.State()}
	}

	now := g.arena.Now()
	for _, key := range in.Keys {
		g.input.Press(key, now)
	}

	target := now + time.Duration(g.tickMs)*time.Millisecond
	poll := g.cfg.Input.Poll()
	for g.nextPoll <= target {
		g.arena.AdvanceTo(g.nextPoll)
		g.input.Poll(g.arena, g.nextPoll)
		g.nextPoll += poll
	}
	g.arena.AdvanceTo(target)

	g.handleEvents(g.arena.Events())
	g.checkGameOver()
	return core.StepResult{State: g.State()}
}

func (g *Game) handleEvents(events []arena.Event) {
	for _, e := range events {
		if g.observer != nil {
			g.observer.Event(g.id, e.Kind.String())
		}

		var line string
		switch e.Kind {
		case arena.EventPlayerDied:
			g.deaths[g.slots[e.Player]]++
			if e.Owner != e.Player {
				if s, ok := g.slots[e.Owner]; ok {
					g.kills[s]++
				}
				line = fmt.Sprintf("%s blasted %s", label(g.slots[e.Owner]), label(g.slots[e.Player]))
			} else {
				line = fmt.Sprintf("%s caught in own blast", label(g.slots[e.Player]))
			}
		case arena.EventPlayerEliminated:
			line = fmt.Sprintf("%s is out", label(g.slots[e.Player]))
		case arena.EventPlayerRespawned:
			line = fmt.Sprintf("%s is back (%d left)", label(g.slots[e.Player]), e.Lives)
		default:
			continue
		}
		g.pushTicker(fmt.Sprintf("%s %s", clock(e.At), line))
	}
}

func (g *Game) pushTicker(line string) {
	g.ticker = append(g.ticker, line)
	if len(g.ticker) > tickerLines {
		g.ticker = g.ticker[len(g.ticker)-tickerLines:]
	}
}

// checkGameOver ends the match once at most one player has lives left.
func (g *Game) checkGameOver() {
	standing := g.arena.Standings()
	limit := 1
	if g.players == 1 {
		limit = 0
	}
	if len(standing) > limit {
		return
	}

	g.gameOver = true
	g.endedAt = g.arena.Now()
	if len(standing) == 1 {
		g.winner = standing[0].Slot
		g.pushTicker(fmt.Sprintf("%s %s wins", clock(g.endedAt), label(g.winner)))
	} else {
		g.winner = -1
		g.pushTicker(fmt.Sprintf("%s draw", clock(g.endedAt)))
	}

	res, _ := g.Result()
	g.logger.Info("match over", "winner", g.winner, "reason", res.Reason, "duration", res.Duration)
	if g.observer != nil {
		g.observer.MatchOver(g.id, res)
	}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.score(),
		GameOver: g.gameOver,
		Paused:   g.paused,
	}
}

// score is the winner's remaining lives times 100.
func (g *Game) score() int {
	if !g.gameOver || g.winner < 0 {
		return 0
	}
	for _, p := range g.arena.AllPlayers() {
		if p.Slot == g.winner {
			return p.Lives * 100
		}
	}
	return 0
}

// Result implements registry.Reporter.
func (g *Game) Result() (core.MatchResult, bool) {
	if !g.gameOver {
		return core.MatchResult{}, false
	}
	reason := "last-standing"
	if g.winner < 0 {
		reason = "draw"
	}
	res := core.MatchResult{
		MatchID:  g.matchID,
		Winner:   g.winner,
		Reason:   reason,
		Duration: g.endedAt,
	}
	for _, p := range g.arena.AllPlayers() {
		res.Players = append(res.Players, core.PlayerResult{
			Slot:      p.Slot,
			PlayerID:  string(p.ID),
			LivesLeft: p.Lives,
			Deaths:    g.deaths[p.Slot],
			Kills:     g.kills[p.Slot],
		})
	}
	return res, true
}

// label is the on-board name of a slot.
func label(slot int) string {
	return fmt.Sprintf("P%d", slot+1)
}

// clock formats a logical time as mm:ss.
func clock(d time.Duration) string {
	s := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", s/60, s%60)
}
