// Package arena is the deterministic simulation core of the bomb arena.
//
// It owns the entity state (players, bombs, fire, destructible boxes), decides
// movement legality, runs the bomb/fire/player lifecycles and drives them from
// a logical-clock event queue. The package has no goroutines and no wall-clock
// reads: time only moves when the caller advances it, which keeps every run
// reproducible for a given seed and input sequence.
package arena

// Position is a cell coordinate on the board.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns p translated by d.
func (p Position) Add(d Position) Position {
	return Position{X: p.X + d.X, Y: p.Y + d.Y}
}

// Direction is one of the four axis directions.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// Directions lists the four axis directions in ray order.
var Directions = [4]Direction{DirUp, DirDown, DirLeft, DirRight}

// Delta returns the unit step for the direction.
func (d Direction) Delta() Position {
	switch d {
	case DirUp:
		return Position{X: 0, Y: -1}
	case DirDown:
		return Position{X: 0, Y: 1}
	case DirLeft:
		return Position{X: -1, Y: 0}
	case DirRight:
		return Position{X: 1, Y: 0}
	default:
		return Position{}
	}
}

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// Cell is the terrain held by a board cell.
type Cell uint8

const (
	CellEmpty Cell = iota
	CellWall       // Indestructible
	CellBox        // Destroyed by fire
)

// Size is the board dimensions in cells.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Board is the immutable part of the arena: its dimensions and wall lattice.
//
// Layout rules:
//   - every border cell is a wall
//   - every interior cell where both coordinates are even is a wall
type Board struct {
	size  Size
	walls []bool
}

// NewBoard builds the wall lattice for a width x height board.
func NewBoard(width, height int) *Board {
	b := &Board{
		size:  Size{Width: width, Height: height},
		walls: make([]bool, width*height),
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			border := x == 0 || y == 0 || x == width-1 || y == height-1
			pillar := x%2 == 0 && y%2 == 0
			b.walls[y*width+x] = border || pillar
		}
	}
	return b
}

// Size returns the board dimensions.
func (b *Board) Size() Size {
	return b.size
}

// InBounds reports whether p lies on the board.
func (b *Board) InBounds(p Position) bool {
	return p.X >= 0 && p.X < b.size.Width && p.Y >= 0 && p.Y < b.size.Height
}

// IsWall reports whether p is a wall. Out-of-bounds positions are not walls.
func (b *Board) IsWall(p Position) bool {
	if !b.InBounds(p) {
		return false
	}
	return b.walls[b.index(p)]
}

// Walls returns every wall position in row-major order.
func (b *Board) Walls() []Position {
	out := make([]Position, 0, len(b.walls)/2)
	for i, wall := range b.walls {
		if wall {
			out = append(out, b.position(i))
		}
	}
	return out
}

func (b *Board) index(p Position) int {
	return p.Y*b.size.Width + p.X
}

func (b *Board) position(i int) Position {
	return Position{X: i % b.size.Width, Y: i / b.size.Width}
}

// SpawnPositions returns the four inner-corner spawn cells, one per corner
// region, in slot order: top-left, top-right, bottom-left, bottom-right.
func SpawnPositions(width, height int) []Position {
	return []Position{
		{X: 1, Y: 1},
		{X: width - 2, Y: 1},
		{X: 1, Y: height - 2},
		{X: width - 2, Y: height - 2},
	}
}

// safeZone returns the cells kept clear of boxes around a spawn: the spawn
// itself plus its horizontal and vertical neighbours toward the board centre.
func safeZone(spawn Position, size Size) []Position {
	dx, dy := 1, 1
	if spawn.X >= size.Width/2 {
		dx = -1
	}
	if spawn.Y >= size.Height/2 {
		dy = -1
	}
	return []Position{
		spawn,
		{X: spawn.X + dx, Y: spawn.Y},
		{X: spawn.X, Y: spawn.Y + dy},
	}
}
