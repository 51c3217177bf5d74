package arena

import (
	"fmt"
	"time"
)

// plantBomb arms a bomb under the player. Planting is a no-op while the
// player is dead, at its bomb limit, or standing on a bomb already.
func (a *Arena) plantBomb(p *Player) {
	if !p.Alive {
		return
	}
	if p.ActiveBombs >= p.MaxBombs {
		a.logger.Debug("plant rejected", "player", p.ID, "reason", "bomb limit", "active", p.ActiveBombs)
		return
	}
	i := a.board.index(p.Pos)
	if a.bombAt[i] != "" {
		a.logger.Debug("plant rejected", "player", p.ID, "reason", "cell occupied", "x", p.Pos.X, "y", p.Pos.Y)
		return
	}

	now := a.sched.Now()
	a.bombSeq++
	b := &Bomb{
		ID:        BombID(fmt.Sprintf("bomb_%s_%d_%d", p.ID, now.Milliseconds(), a.bombSeq)),
		Owner:     p.ID,
		Pos:       p.Pos,
		PlantedAt: now,
		Fuse:      a.cfg.Fuse,
	}
	a.bombs = append(a.bombs, b)
	a.bombAt[i] = b.ID
	p.ActiveBombs++

	id := b.ID
	a.sched.Schedule(a.cfg.Fuse, TaskDetonate, func() { a.detonate(id) })

	a.logger.Debug("bomb planted", "player", p.ID, "bomb", b.ID, "x", b.Pos.X, "y", b.Pos.Y)
	a.emit(Event{Kind: EventBombPlanted, Player: p.ID, Owner: p.ID, Bomb: b.ID, Pos: b.Pos})
}

// detonate explodes a bomb: the owner gets the slot back, fire spreads from
// the bomb cell, players caught in it die, and the fire is scheduled to clear.
func (a *Arena) detonate(id BombID) {
	b := a.removeBomb(id)
	if b == nil {
		return
	}
	if owner := a.byID[b.Owner]; owner != nil && owner.ActiveBombs > 0 {
		owner.ActiveBombs--
	}

	cells, boxes := a.propagate(b.Pos)
	for _, c := range cells {
		a.fire[a.board.index(c)] = true
	}
	for _, c := range boxes {
		a.terrain[a.board.index(c)] = CellEmpty
		a.emit(Event{Kind: EventBoxDestroyed, Owner: b.Owner, Bomb: b.ID, Pos: c})
	}

	a.logger.Debug("bomb detonated", "bomb", b.ID, "x", b.Pos.X, "y", b.Pos.Y,
		"cells", len(cells), "boxes", len(boxes))
	a.emit(Event{Kind: EventBombDetonated, Owner: b.Owner, Bomb: b.ID, Pos: b.Pos, Cells: cells})

	burning := make(map[Position]bool, len(cells))
	for _, c := range cells {
		burning[c] = true
	}
	for _, p := range a.players {
		if p.Alive && burning[p.Pos] {
			a.kill(p, b)
		}
	}

	a.sched.Schedule(a.cfg.FireDuration, TaskClearFire, func() { a.clearFire(cells) })
}

// clearFire removes the fire from exactly the given cells. A cell reignited
// by a later overlapping blast is cleared too.
func (a *Arena) clearFire(cells []Position) {
	for _, c := range cells {
		a.fire[a.board.index(c)] = false
	}
	a.emit(Event{Kind: EventFireCleared, Cells: cells})
}

func (a *Arena) removeBomb(id BombID) *Bomb {
	for i, b := range a.bombs {
		if b.ID != id {
			continue
		}
		a.bombs = append(a.bombs[:i], a.bombs[i+1:]...)
		if idx := a.board.index(b.Pos); a.bombAt[idx] == id {
			a.bombAt[idx] = ""
		}
		return b
	}
	return nil
}

// FuseRemaining returns how long until the bomb on p explodes.
func (a *Arena) FuseRemaining(p Position) (time.Duration, bool) {
	b := a.bombOn(p)
	if b == nil {
		return 0, false
	}
	return b.DetonatesAt() - a.sched.Now(), true
}
