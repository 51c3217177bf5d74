package arena

// kill takes a life from an alive player caught in the blast of b. A player
// with lives left respawns after the respawn delay; otherwise it is
// eliminated for the rest of the match.
func (a *Arena) kill(p *Player, b *Bomb) {
	p.Alive = false
	if p.Lives > 0 {
		p.Lives--
	}
	a.logger.Debug("player died", "player", p.ID, "by", b.Owner, "lives", p.Lives)
	a.emit(Event{Kind: EventPlayerDied, Player: p.ID, Owner: b.Owner, Bomb: b.ID, Pos: p.Pos, Lives: p.Lives})

	if p.Lives == 0 {
		a.logger.Debug("player eliminated", "player", p.ID)
		a.emit(Event{Kind: EventPlayerEliminated, Player: p.ID, Owner: b.Owner, Pos: p.Pos})
		return
	}

	id := p.ID
	a.sched.Schedule(a.cfg.RespawnDelay, TaskRespawn, func() { a.respawn(id) })
}

// respawn returns a dead player to its spawn cell with its bomb slots reset.
// The spawn cell is taken regardless of what occupies it.
func (a *Arena) respawn(id PlayerID) {
	p := a.byID[id]
	if p == nil {
		return
	}
	p.ActiveBombs = 0
	p.Pos = p.Spawn
	p.Alive = true
	a.logger.Debug("player respawned", "player", p.ID, "x", p.Pos.X, "y", p.Pos.Y, "lives", p.Lives)
	a.emit(Event{Kind: EventPlayerRespawned, Player: p.ID, Pos: p.Pos, Lives: p.Lives})
}

// Standings returns the players that still have lives, in slot order.
func (a *Arena) Standings() []Player {
	var out []Player
	for _, p := range a.players {
		if p.Lives > 0 {
			out = append(out, *p)
		}
	}
	return out
}
