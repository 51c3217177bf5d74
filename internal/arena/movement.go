package arena

// CanMoveTo reports whether the player may occupy target. Out-of-bounds
// cells, walls, boxes, fire and cells held by another alive player are
// blocked. A bomb blocks unless the player is already standing on it.
func (a *Arena) CanMoveTo(target Position, id PlayerID) bool {
	if !a.board.InBounds(target) {
		return false
	}
	i := a.board.index(target)
	if a.terrain[i] != CellEmpty || a.fire[i] {
		return false
	}

	mover := a.byID[id]
	if a.bombAt[i] != "" {
		if mover == nil || mover.Pos != target {
			return false
		}
	}

	for _, p := range a.players {
		if p.Alive && p.ID != id && p.Pos == target {
			return false
		}
	}
	return true
}

// MovePlayer applies one input token for the player. Direction tokens step
// the player by one cell; the bomb token plants a bomb and always counts as
// handled. Returns false for unknown or dead players, unbound tokens and
// blocked moves, leaving the arena untouched.
func (a *Arena) MovePlayer(id PlayerID, token string) bool {
	p, ok := a.byID[id]
	if !ok || !p.Alive {
		a.logger.Debug("move rejected", "player", id, "token", token, "reason", "not alive")
		return false
	}

	dir, bomb, ok := p.Keys.Resolve(token)
	if !ok {
		return false
	}
	if bomb {
		a.plantBomb(p)
		return true
	}

	target := p.Pos.Add(dir.Delta())
	if !a.CanMoveTo(target, id) {
		return false
	}
	p.Pos = target
	return true
}
