package arena

import (
	"testing"
	"time"
)

// openArena returns a four-player arena with no boxes.
func openArena(t *testing.T, mutate ...func(*Config)) *Arena {
	t.Helper()
	cfg := DefaultConfig()
	cfg.BoxDensity = 0
	cfg.Seed = 1
	for _, m := range mutate {
		m(&cfg)
	}
	a, err := New(cfg)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return a
}

func mustMove(t *testing.T, a *Arena, id PlayerID, tokens ...string) {
	t.Helper()
	for _, tok := range tokens {
		if !a.MovePlayer(id, tok) {
			p, _ := a.Player(id)
			t.Fatalf("MovePlayer(%s, %q) from %+v = false, expected true", id, tok, p.Pos)
		}
	}
}

func fireSet(a *Arena) map[Position]bool {
	out := make(map[Position]bool)
	for _, p := range a.Fires() {
		out[p] = true
	}
	return out
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width = 4
	if _, err := New(cfg); err == nil {
		t.Error("New() with 4-wide board succeeded, expected error")
	}
}

func TestInitialLayout(t *testing.T) {
	a := openArena(t)

	if got := a.BoardSize(); got != (Size{Width: 15, Height: 15}) {
		t.Errorf("BoardSize() = %+v, expected 15x15", got)
	}

	expected := []Position{{1, 1}, {13, 1}, {1, 13}, {13, 13}}
	players := a.AllPlayers()
	if len(players) != len(expected) {
		t.Fatalf("Expected %d players, got %d", len(expected), len(players))
	}
	for i, p := range players {
		if p.Pos != expected[i] || p.Spawn != expected[i] {
			t.Errorf("player %d at %+v (spawn %+v), expected %+v", i, p.Pos, p.Spawn, expected[i])
		}
		if !p.Alive || p.Lives != 3 || p.MaxBombs != 1 || p.ActiveBombs != 0 {
			t.Errorf("player %d initial state = %+v", i, p)
		}
	}
}

func TestWallLattice(t *testing.T) {
	a := openArena(t)
	walls := make(map[Position]bool)
	for _, w := range a.Walls() {
		walls[w] = true
	}

	for y := 0; y < 15; y++ {
		for x := 0; x < 15; x++ {
			border := x == 0 || y == 0 || x == 14 || y == 14
			pillar := x%2 == 0 && y%2 == 0
			if walls[Position{x, y}] != (border || pillar) {
				t.Errorf("wall at (%d,%d) = %v, expected %v", x, y, walls[Position{x, y}], border || pillar)
			}
		}
	}
}

func TestWallsNeverReachable(t *testing.T) {
	a := openArena(t)
	for _, w := range a.Walls() {
		for _, p := range a.AllPlayers() {
			if a.CanMoveTo(w, p.ID) {
				t.Errorf("CanMoveTo(%+v, %s) = true for a wall", w, p.ID)
			}
		}
	}
}

func TestBoxGeneration(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 42

	a, err := New(cfg)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	boxes := a.DestructibleBoxes()
	// 133 interior floor cells minus 12 safe-zone cells, times 0.9.
	if len(boxes) != 108 {
		t.Errorf("Expected 108 boxes, got %d", len(boxes))
	}

	safe := make(map[Position]bool)
	for _, sp := range SpawnPositions(15, 15) {
		for _, p := range safeZone(sp, a.BoardSize()) {
			safe[p] = true
		}
	}
	for _, b := range boxes {
		if safe[b] {
			t.Errorf("box at %+v inside a spawn safe zone", b)
		}
		if a.board.IsWall(b) {
			t.Errorf("box at %+v on a wall", b)
		}
	}

	t.Run("same seed same board", func(t *testing.T) {
		b, _ := New(cfg)
		other := b.DestructibleBoxes()
		if len(other) != len(boxes) {
			t.Fatalf("box count differs: %d vs %d", len(other), len(boxes))
		}
		for i := range boxes {
			if boxes[i] != other[i] {
				t.Fatalf("box %d differs: %+v vs %+v", i, boxes[i], other[i])
			}
		}
	})

	t.Run("different seed different board", func(t *testing.T) {
		cfg2 := cfg
		cfg2.Seed = 43
		b, _ := New(cfg2)
		other := b.DestructibleBoxes()
		same := true
		for i := range boxes {
			if boxes[i] != other[i] {
				same = false
				break
			}
		}
		if same {
			t.Error("seeds 42 and 43 produced identical boards")
		}
	})
}

func TestMovePlayer(t *testing.T) {
	tests := []struct {
		name     string
		id       PlayerID
		token    string
		expected bool
		pos      Position
	}{
		{"step right", "player1", "right", true, Position{2, 1}},
		{"step down", "player1", "down", true, Position{1, 2}},
		{"into border wall", "player1", "up", false, Position{1, 1}},
		{"into left wall", "player1", "left", false, Position{1, 1}},
		{"other player's key", "player1", "w", false, Position{1, 1}},
		{"unbound token", "player1", "x", false, Position{1, 1}},
		{"empty token", "player1", "", false, Position{1, 1}},
		{"second slot bindings", "player2", "a", true, Position{12, 1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := openArena(t)
			if got := a.MovePlayer(tc.id, tc.token); got != tc.expected {
				t.Errorf("MovePlayer() = %v, expected %v", got, tc.expected)
			}
			p, _ := a.Player(tc.id)
			if p.Pos != tc.pos {
				t.Errorf("position = %+v, expected %+v", p.Pos, tc.pos)
			}
		})
	}

	t.Run("unknown player", func(t *testing.T) {
		a := openArena(t)
		if a.MovePlayer("nobody", "right") {
			t.Error("MovePlayer() for unknown player = true")
		}
	})
}

func TestMoveBlockedByBoxAndPlayer(t *testing.T) {
	a := openArena(t)
	a.terrain[a.board.index(Position{2, 1})] = CellBox
	if a.MovePlayer("player1", "right") {
		t.Error("moved into a box")
	}

	b := openArena(t, func(c *Config) {
		c.Width, c.Height = 5, 5
		c.Players = c.Players[:2]
	})
	// On a 5x5 board spawns (1,1) and (3,1) share the corridor cell (2,1).
	mustMove(t, b, "player1", "right")
	if b.MovePlayer("player2", "a") {
		t.Error("moved onto another alive player")
	}
}

func TestOwnBombRule(t *testing.T) {
	a := openArena(t)
	mustMove(t, a, "player1", "enter")

	if !a.CanMoveTo(Position{1, 1}, "player1") {
		t.Error("owner cannot stay on own bomb")
	}
	mustMove(t, a, "player1", "right")
	if a.MovePlayer("player1", "left") {
		t.Error("walked back onto a bomb")
	}
	if a.CanMoveTo(Position{1, 1}, "player2") {
		t.Error("foreign player may enter a bomb cell")
	}
}

func TestBombLimitAndRearm(t *testing.T) {
	a := openArena(t)

	mustMove(t, a, "player1", "enter", "right")
	// The bomb token is always consumed, even when the plant is refused.
	mustMove(t, a, "player1", "enter")
	if n := len(a.Bombs()); n != 1 {
		t.Fatalf("Expected 1 bomb at limit, got %d", n)
	}
	p, _ := a.Player("player1")
	if p.ActiveBombs != 1 {
		t.Errorf("ActiveBombs = %d, expected 1", p.ActiveBombs)
	}

	// Leave the blast cross of (1,1).
	mustMove(t, a, "player1", "right", "down")

	a.Advance(1999 * time.Millisecond)
	if len(a.Bombs()) != 1 {
		t.Fatal("bomb detonated before its fuse")
	}
	a.Advance(time.Millisecond)
	if len(a.Bombs()) != 0 {
		t.Fatal("bomb still armed after its fuse")
	}

	p, _ = a.Player("player1")
	if !p.Alive || p.ActiveBombs != 0 {
		t.Fatalf("after detonation player = %+v", p)
	}
	mustMove(t, a, "player1", "enter")
	if len(a.Bombs()) != 1 {
		t.Error("could not plant again after detonation")
	}
}

func TestPlantRefusedOnOccupiedCell(t *testing.T) {
	t.Run("second plant on the same cell", func(t *testing.T) {
		a := openArena(t, func(c *Config) { c.MaxBombs = 2 })
		mustMove(t, a, "player1", "enter", "enter")

		p, _ := a.Player("player1")
		if n := len(a.Bombs()); n != 1 || p.ActiveBombs != 1 {
			t.Fatalf("bombs = %d, active = %d, expected 1 and 1", n, p.ActiveBombs)
		}
		mustMove(t, a, "player1", "right", "enter")
		if n := len(a.Bombs()); n != 2 {
			t.Errorf("Expected a second bomb on a free cell, got %d", n)
		}
	})

	t.Run("respawn onto a foreign bomb", func(t *testing.T) {
		a := openArena(t, func(c *Config) {
			c.Width, c.Height = 7, 7
			c.Players = c.Players[:2]
		})
		mustMove(t, a, "player1", "enter")
		a.AdvanceTo(4000 * time.Millisecond)

		// player2 walks from (5,1) onto the empty spawn of player1 and plants.
		mustMove(t, a, "player2", "a", "a", "a", "a", " ", "s")
		a.AdvanceTo(5000 * time.Millisecond)

		p, _ := a.Player("player1")
		if !p.Alive || p.Pos != (Position{1, 1}) {
			t.Fatalf("after respawn player = %+v", p)
		}
		mustMove(t, a, "player1", "enter")
		if n := len(a.Bombs()); n != 1 {
			t.Errorf("Expected only the foreign bomb, got %d", n)
		}
		if p, _ = a.Player("player1"); p.ActiveBombs != 0 {
			t.Errorf("ActiveBombs = %d, expected 0", p.ActiveBombs)
		}
	})
}

func TestFirePropagation(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(a *Arena)
		path    []string
		burning []Position
		dry     []Position
	}{
		{
			name: "open corridor reaches exactly radius",
			path: []string{"right", "right"},
			burning: []Position{
				{3, 1}, {4, 1}, {5, 1}, {2, 1}, {1, 1}, {3, 2}, {3, 3},
			},
			dry: []Position{{6, 1}, {3, 4}, {3, 0}},
		},
		{
			name: "box at distance one absorbs the ray",
			setup: func(a *Arena) {
				a.terrain[a.board.index(Position{4, 1})] = CellBox
			},
			path:    []string{"right", "right"},
			burning: []Position{{3, 1}, {4, 1}},
			dry:     []Position{{5, 1}},
		},
		{
			name:    "wall at distance one blocks the ray",
			path:    []string{"right"},
			burning: []Position{{2, 1}, {3, 1}, {4, 1}, {1, 1}},
			dry:     []Position{{2, 2}, {2, 3}, {2, 0}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := openArena(t)
			if tc.setup != nil {
				tc.setup(a)
			}
			mustMove(t, a, "player1", tc.path...)
			p, _ := a.Player("player1")
			origin := p.Pos
			mustMove(t, a, "player1", "enter")

			a.Advance(2000 * time.Millisecond)
			fire := fireSet(a)
			if !fire[origin] {
				t.Errorf("origin %+v not burning", origin)
			}
			for _, c := range tc.burning {
				if !fire[c] {
					t.Errorf("expected fire at %+v", c)
				}
			}
			for _, c := range tc.dry {
				if fire[c] {
					t.Errorf("unexpected fire at %+v", c)
				}
			}
		})
	}
}

func TestBoxDestroyedPermanently(t *testing.T) {
	a := openArena(t)
	box := Position{4, 1}
	a.terrain[a.board.index(box)] = CellBox

	mustMove(t, a, "player1", "right", "right", "enter", "down", "down", "right")
	a.Advance(2000 * time.Millisecond)

	if a.CellAt(box) != CellEmpty {
		t.Fatal("box survived the blast")
	}
	a.Advance(10 * time.Second)
	for _, b := range a.DestructibleBoxes() {
		if b == box {
			t.Error("destroyed box reappeared")
		}
	}
	if !a.CanMoveTo(box, "player1") {
		t.Error("cleared box cell is not walkable")
	}
}

func TestFireBlocksMovement(t *testing.T) {
	a := openArena(t)
	mustMove(t, a, "player1", "enter", "right", "right", "down")
	a.Advance(2000 * time.Millisecond)

	if a.MovePlayer("player1", "up") {
		t.Error("moved into fire")
	}
	a.Advance(2000 * time.Millisecond)
	if len(a.Fires()) != 0 {
		t.Fatalf("fire not cleared: %v", a.Fires())
	}
	mustMove(t, a, "player1", "up")
}

func TestDeathRespawnElimination(t *testing.T) {
	a := openArena(t, func(c *Config) { c.Lives = 2 })

	// Stand on the own bomb.
	mustMove(t, a, "player1", "right", "enter")
	a.Advance(2000 * time.Millisecond)

	p, _ := a.Player("player1")
	if p.Alive || p.Lives != 1 {
		t.Fatalf("after first blast player = %+v", p)
	}
	if p.State() != StateDead {
		t.Errorf("State() = %v, expected dead", p.State())
	}
	if a.MovePlayer("player1", "right") {
		t.Error("dead player moved")
	}
	if n := len(a.AlivePlayers()); n != 3 {
		t.Errorf("AlivePlayers() = %d, expected 3", n)
	}

	a.Advance(2999 * time.Millisecond)
	if p, _ = a.Player("player1"); p.Alive {
		t.Fatal("respawned before the delay")
	}
	a.Advance(time.Millisecond)
	p, _ = a.Player("player1")
	if !p.Alive || p.Pos != p.Spawn || p.ActiveBombs != 0 {
		t.Fatalf("after respawn player = %+v", p)
	}

	mustMove(t, a, "player1", "enter")
	a.Advance(2000 * time.Millisecond)
	p, _ = a.Player("player1")
	if p.Alive || p.Lives != 0 || p.State() != StateEliminated {
		t.Fatalf("after second blast player = %+v", p)
	}
	for _, task := range a.Pending() {
		if task.Kind == TaskRespawn {
			t.Error("respawn scheduled for an eliminated player")
		}
	}
	a.Advance(time.Minute)
	if p, _ = a.Player("player1"); p.Alive {
		t.Error("eliminated player came back")
	}
}

func TestBlastKillsEveryPlayerInCross(t *testing.T) {
	a := openArena(t, func(c *Config) {
		c.Width, c.Height = 5, 5
		c.Players = c.Players[:2]
	})
	// Spawns (1,1) and (3,1) both lie in the cross of a bomb at (1,1).
	mustMove(t, a, "player1", "enter")
	a.Advance(2000 * time.Millisecond)

	for _, p := range a.AllPlayers() {
		if p.Alive || p.Lives != 2 {
			t.Errorf("player %s = %+v, expected dead with 2 lives", p.ID, p)
		}
	}

	var deaths int
	for _, e := range a.Events() {
		if e.Kind == EventPlayerDied {
			deaths++
			if e.Owner != "player1" {
				t.Errorf("death of %s attributed to %s", e.Player, e.Owner)
			}
		}
	}
	if deaths != 2 {
		t.Errorf("Expected 2 death events, got %d", deaths)
	}
}

func TestBombOfEliminatedOwnerStillExplodes(t *testing.T) {
	a := openArena(t, func(c *Config) {
		c.Width, c.Height = 5, 5
		c.Lives = 1
		c.MaxBombs = 2
		c.Players = c.Players[:2]
	})
	mustMove(t, a, "player1", "enter")
	a.Advance(500 * time.Millisecond)
	mustMove(t, a, "player1", "down", "enter")
	a.Advance(1500 * time.Millisecond)

	if p, _ := a.Player("player1"); p.State() != StateEliminated {
		t.Fatalf("player1 = %+v, expected eliminated", p)
	}
	// player2 at (3,1) was already caught by the first blast; the second bomb
	// from an eliminated owner must still go off.
	if len(a.Bombs()) != 1 {
		t.Fatalf("Expected the second bomb armed, got %d", len(a.Bombs()))
	}
	a.Advance(500 * time.Millisecond)
	if len(a.Bombs()) != 0 {
		t.Error("bomb of an eliminated owner did not explode")
	}
	if p, _ := a.Player("player1"); p.ActiveBombs != 0 {
		t.Errorf("ActiveBombs = %d after both detonations", p.ActiveBombs)
	}
}

// An earlier clear removes its cells even when a later blast reignited them.
func TestOverlappingFireClearedByEarlierTimer(t *testing.T) {
	a := openArena(t, func(c *Config) { c.MaxBombs = 2 })

	mustMove(t, a, "player1", "enter", "right", "right")
	a.Advance(1000 * time.Millisecond)
	mustMove(t, a, "player1", "enter", "down", "down", "right")

	a.AdvanceTo(3000 * time.Millisecond)
	shared, own := Position{3, 1}, Position{4, 1}
	if !a.HasFire(shared) || !a.HasFire(own) {
		t.Fatal("second blast did not burn")
	}

	a.AdvanceTo(4000 * time.Millisecond)
	if a.HasFire(shared) {
		t.Error("shared cell still burning after the first clear")
	}
	if !a.HasFire(own) {
		t.Error("second blast cleared too early")
	}

	a.AdvanceTo(5000 * time.Millisecond)
	if n := len(a.Fires()); n != 0 {
		t.Errorf("Expected no fire, got %d cells", n)
	}
}

func TestEditedEventCellsDoNotAffectFireClear(t *testing.T) {
	a := openArena(t)
	mustMove(t, a, "player1", "right", "right", "enter", "left", "left", "down")
	a.Advance(2000 * time.Millisecond)

	var burned int
	for _, e := range a.Events() {
		if e.Kind != EventBombDetonated {
			continue
		}
		burned = len(e.Cells)
		for i := range e.Cells {
			e.Cells[i] = Position{7, 7}
		}
	}
	if burned == 0 || len(a.Fires()) != burned {
		t.Fatalf("detonation burned %d cells, board shows %d", burned, len(a.Fires()))
	}

	a.Advance(2000 * time.Millisecond)
	if fires := a.Fires(); len(fires) != 0 {
		t.Errorf("fires after clear delay: %v", fires)
	}
	if a.HasFire(Position{7, 7}) {
		t.Error("edited event reached the board")
	}
}

func TestImmutableQueries(t *testing.T) {
	a := openArena(t)
	walls := a.Walls()
	size := a.BoardSize()

	mustMove(t, a, "player1", "enter", "right", "right", "down")
	a.Advance(10 * time.Second)

	again := a.Walls()
	if len(again) != len(walls) {
		t.Fatalf("wall count changed: %d -> %d", len(walls), len(again))
	}
	for i := range walls {
		if walls[i] != again[i] {
			t.Errorf("wall %d changed: %+v -> %+v", i, walls[i], again[i])
		}
	}
	if a.BoardSize() != size {
		t.Error("board size changed")
	}

	players := a.AllPlayers()
	players[0].Lives = 99
	players[0].Pos = Position{7, 7}
	if p, _ := a.Player("player1"); p.Lives == 99 || p.Pos == (Position{7, 7}) {
		t.Error("AllPlayers() aliases live state")
	}
}

func TestSnapshotDeterminism(t *testing.T) {
	run := func() Snapshot {
		cfg := DefaultConfig()
		cfg.Seed = 7
		a, err := New(cfg)
		if err != nil {
			t.Fatalf("New() failed: %v", err)
		}
		script := []struct {
			id    PlayerID
			token string
		}{
			{"player1", "enter"}, {"player1", "right"}, {"player2", " "},
			{"player2", "s"}, {"player3", "m"}, {"player4", "v"},
		}
		for _, s := range script {
			a.MovePlayer(s.id, s.token)
			a.Advance(150 * time.Millisecond)
		}
		a.Advance(6 * time.Second)
		return a.Snapshot()
	}

	first, second := run(), run()
	if len(first.Boxes) != len(second.Boxes) || len(first.Fires) != len(second.Fires) {
		t.Fatal("snapshots differ in size")
	}
	for i := range first.Players {
		if first.Players[i] != second.Players[i] {
			t.Errorf("player %d differs: %+v vs %+v", i, first.Players[i], second.Players[i])
		}
	}
	for i := range first.Boxes {
		if first.Boxes[i] != second.Boxes[i] {
			t.Errorf("box %d differs", i)
		}
	}
}

func TestEventsDrain(t *testing.T) {
	a := openArena(t)
	mustMove(t, a, "player1", "enter", "right", "right", "down")
	a.Advance(4000 * time.Millisecond)

	events := a.Events()
	kinds := make([]EventKind, len(events))
	for i, e := range events {
		kinds[i] = e.Kind
	}
	expected := []EventKind{EventBombPlanted, EventBombDetonated, EventFireCleared}
	if len(kinds) != len(expected) {
		t.Fatalf("events = %v, expected %v", kinds, expected)
	}
	for i := range expected {
		if kinds[i] != expected[i] {
			t.Errorf("event %d = %v, expected %v", i, kinds[i], expected[i])
		}
	}
	if events[1].At != 2000*time.Millisecond || events[2].At != 4000*time.Millisecond {
		t.Errorf("event times = %v, %v", events[1].At, events[2].At)
	}
	if len(a.Events()) != 0 {
		t.Error("Events() did not drain")
	}
}
