package arena

// propagate computes the cells a blast at origin ignites and the boxes it
// destroys. The origin always burns. Each of the four rays travels up to the
// blast radius, stops before walls and the board edge, and stops on the
// first box, which burns and is destroyed. Rays are independent of each
// other; bombs in the path burn but do not stop the ray.
func (a *Arena) propagate(origin Position) (cells, boxes []Position) {
	cells = append(cells, origin)
	for _, dir := range Directions {
		step := dir.Delta()
		p := origin
		for n := 0; n < a.cfg.BlastRadius; n++ {
			p = p.Add(step)
			if !a.board.InBounds(p) {
				break
			}
			c := a.terrain[a.board.index(p)]
			if c == CellWall {
				break
			}
			cells = append(cells, p)
			if c == CellBox {
				boxes = append(boxes, p)
				break
			}
		}
	}
	return cells, boxes
}

// BlastCells previews the cells a bomb at origin would ignite right now.
// It does not mutate the arena.
func (a *Arena) BlastCells(origin Position) []Position {
	if !a.board.InBounds(origin) || a.board.IsWall(origin) {
		return nil
	}
	cells, _ := a.propagate(origin)
	return cells
}
