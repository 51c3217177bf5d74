package arena

import (
	"io"
	"math"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
)

// Player is a player record. Players are created once per slot and never
// removed; an eliminated player stays in the store with Alive false.
type Player struct {
	ID          PlayerID `json:"id"`
	Slot        int      `json:"slot"`
	Pos         Position `json:"pos"`
	Spawn       Position `json:"spawn"`
	Keys        Keys     `json:"keys"`
	Alive       bool     `json:"alive"`
	Lives       int      `json:"lives"`
	MaxBombs    int      `json:"max_bombs"`
	ActiveBombs int      `json:"active_bombs"`
}

// PlayerState is the lifecycle state of a player.
type PlayerState int

const (
	StateAlive PlayerState = iota
	StateDead              // Waiting for a scheduled respawn
	StateEliminated
)

func (s PlayerState) String() string {
	switch s {
	case StateAlive:
		return "alive"
	case StateDead:
		return "dead"
	case StateEliminated:
		return "eliminated"
	default:
		return "unknown"
	}
}

// State derives the lifecycle state from the record.
func (p Player) State() PlayerState {
	switch {
	case p.Alive:
		return StateAlive
	case p.Lives > 0:
		return StateDead
	default:
		return StateEliminated
	}
}

// BombID identifies a bomb instance.
type BombID string

// Bomb is an armed bomb.
type Bomb struct {
	ID        BombID        `json:"id"`
	Owner     PlayerID      `json:"owner"`
	Pos       Position      `json:"pos"`
	PlantedAt time.Duration `json:"planted_at"`
	Fuse      time.Duration `json:"fuse"`
}

// DetonatesAt returns the logical time the bomb explodes.
func (b Bomb) DetonatesAt() time.Duration {
	return b.PlantedAt + b.Fuse
}

// Option configures an Arena.
type Option func(*Arena)

// WithLogger sets the logger used for lifecycle diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(a *Arena) {
		if l != nil {
			a.logger = l
		}
	}
}

// Arena is the entity store plus the transitions that mutate it.
// It is not safe for concurrent use; callers serialise commands and clock
// advances on one goroutine.
type Arena struct {
	cfg    Config
	board  *Board
	sched  *Scheduler
	logger *log.Logger

	// Dense per-cell state, indexed by Board.index.
	terrain []Cell
	bombAt  []BombID
	fire    []bool

	players []*Player // slot order
	byID    map[PlayerID]*Player
	bombs   []*Bomb // plant order
	bombSeq uint64
	events  []Event
}

// New builds an arena from cfg. Boxes are placed with a random source seeded
// from cfg.Seed, so equal configs produce equal boards.
func New(cfg Config, opts ...Option) (*Arena, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	board := NewBoard(cfg.Width, cfg.Height)
	cells := cfg.Width * cfg.Height
	a := &Arena{
		cfg:     cfg,
		board:   board,
		sched:   NewScheduler(),
		logger:  log.New(io.Discard),
		terrain: make([]Cell, cells),
		bombAt:  make([]BombID, cells),
		fire:    make([]bool, cells),
		byID:    make(map[PlayerID]*Player, len(cfg.Players)),
	}
	for _, opt := range opts {
		opt(a)
	}

	for i, wall := range board.walls {
		if wall {
			a.terrain[i] = CellWall
		}
	}

	spawns := SpawnPositions(cfg.Width, cfg.Height)
	for slot, pc := range cfg.Players {
		p := &Player{
			ID:       pc.ID,
			Slot:     slot,
			Pos:      spawns[slot],
			Spawn:    spawns[slot],
			Keys:     pc.Keys,
			Alive:    true,
			Lives:    cfg.Lives,
			MaxBombs: cfg.MaxBombs,
		}
		a.players = append(a.players, p)
		a.byID[p.ID] = p
	}

	placed, eligible := a.placeBoxes(spawns)
	a.logger.Debug("arena ready",
		"width", cfg.Width, "height", cfg.Height,
		"boxes", placed, "eligible", eligible, "seed", cfg.Seed)
	return a, nil
}

// placeBoxes fills floor(density*eligible) of the interior cells outside the
// spawn safe zones with boxes. Safe zones are reserved for all four corners
// whether or not a slot is occupied.
func (a *Arena) placeBoxes(spawns []Position) (placed, eligible int) {
	size := a.board.Size()
	safe := make(map[Position]bool, 3*len(spawns))
	for _, sp := range spawns {
		for _, p := range safeZone(sp, size) {
			safe[p] = true
		}
	}

	var candidates []Position
	for y := 1; y < size.Height-1; y++ {
		for x := 1; x < size.Width-1; x++ {
			p := Position{X: x, Y: y}
			if a.board.IsWall(p) || safe[p] {
				continue
			}
			candidates = append(candidates, p)
		}
	}

	rng := rand.New(rand.NewPCG(uint64(a.cfg.Seed), 0))
	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	count := int(math.Floor(float64(len(candidates)) * a.cfg.BoxDensity))
	for _, p := range candidates[:count] {
		a.terrain[a.board.index(p)] = CellBox
	}
	return count, len(candidates)
}

// Config returns the configuration the arena was built from.
func (a *Arena) Config() Config {
	cfg := a.cfg
	cfg.Players = append([]PlayerConfig(nil), a.cfg.Players...)
	return cfg
}

// --- Query API: every result is a copy ---

// AlivePlayers returns the players currently alive, in slot order.
func (a *Arena) AlivePlayers() []Player {
	out := make([]Player, 0, len(a.players))
	for _, p := range a.players {
		if p.Alive {
			out = append(out, *p)
		}
	}
	return out
}

// AllPlayers returns every player, in slot order.
func (a *Arena) AllPlayers() []Player {
	out := make([]Player, len(a.players))
	for i, p := range a.players {
		out[i] = *p
	}
	return out
}

// Player returns one player by id.
func (a *Arena) Player(id PlayerID) (Player, bool) {
	p, ok := a.byID[id]
	if !ok {
		return Player{}, false
	}
	return *p, true
}

// Bombs returns the armed bombs in plant order.
func (a *Arena) Bombs() []Bomb {
	out := make([]Bomb, len(a.bombs))
	for i, b := range a.bombs {
		out[i] = *b
	}
	return out
}

// Fires returns the burning cells in row-major order.
func (a *Arena) Fires() []Position {
	var out []Position
	for i, burning := range a.fire {
		if burning {
			out = append(out, a.board.position(i))
		}
	}
	return out
}

// Walls returns the wall cells in row-major order.
func (a *Arena) Walls() []Position {
	return a.board.Walls()
}

// DestructibleBoxes returns the remaining boxes in row-major order.
func (a *Arena) DestructibleBoxes() []Position {
	var out []Position
	for i, c := range a.terrain {
		if c == CellBox {
			out = append(out, a.board.position(i))
		}
	}
	return out
}

// BoardSize returns the board dimensions.
func (a *Arena) BoardSize() Size {
	return a.board.Size()
}

// CellAt returns the terrain at p. Out-of-bounds positions read as walls.
func (a *Arena) CellAt(p Position) Cell {
	if !a.board.InBounds(p) {
		return CellWall
	}
	return a.terrain[a.board.index(p)]
}

// HasFire reports whether p is burning.
func (a *Arena) HasFire(p Position) bool {
	return a.board.InBounds(p) && a.fire[a.board.index(p)]
}

// BombAt returns the bomb on p, if any.
func (a *Arena) BombAt(p Position) (Bomb, bool) {
	if b := a.bombOn(p); b != nil {
		return *b, true
	}
	return Bomb{}, false
}

func (a *Arena) bombOn(p Position) *Bomb {
	if !a.board.InBounds(p) {
		return nil
	}
	id := a.bombAt[a.board.index(p)]
	if id == "" {
		return nil
	}
	return a.findBomb(id)
}

func (a *Arena) findBomb(id BombID) *Bomb {
	for _, b := range a.bombs {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// Snapshot is an immutable copy of everything a renderer needs.
type Snapshot struct {
	Now     time.Duration `json:"now"`
	Size    Size          `json:"size"`
	Players []Player      `json:"players"`
	Bombs   []Bomb        `json:"bombs"`
	Fires   []Position    `json:"fires"`
	Walls   []Position    `json:"walls"`
	Boxes   []Position    `json:"boxes"`
}

// Snapshot copies the whole store.
func (a *Arena) Snapshot() Snapshot {
	return Snapshot{
		Now:     a.sched.Now(),
		Size:    a.BoardSize(),
		Players: a.AllPlayers(),
		Bombs:   a.Bombs(),
		Fires:   a.Fires(),
		Walls:   a.Walls(),
		Boxes:   a.DestructibleBoxes(),
	}
}

// --- Clock API ---

// Now returns the arena's logical time.
func (a *Arena) Now() time.Duration {
	return a.sched.Now()
}

// Advance moves the clock forward by d and fires every transition that falls
// due. Returns the number of transitions run.
func (a *Arena) Advance(d time.Duration) int {
	if d < 0 {
		return 0
	}
	return a.sched.AdvanceTo(a.sched.Now() + d)
}

// AdvanceTo moves the clock to t. Times in the past are ignored.
func (a *Arena) AdvanceTo(t time.Duration) int {
	return a.sched.AdvanceTo(t)
}

// NextEventAt returns when the next scheduled transition fires.
func (a *Arena) NextEventAt() (time.Duration, bool) {
	return a.sched.Next()
}

// Pending lists the scheduled transitions in firing order.
func (a *Arena) Pending() []PendingTask {
	return a.sched.Pending()
}
