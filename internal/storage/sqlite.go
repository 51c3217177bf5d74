// Package storage keeps the match history in SQLite.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for match history.
type Store struct {
	db *sql.DB
}

// Match is one finished match.
type Match struct {
	ID         int64
	MatchID    string
	GameID     string
	Players    int
	WinnerSlot int    // -1 for a draw
	EndReason  string // "last-standing", "draw", "abandoned"
	Duration   time.Duration
	CreatedAt  time.Time
	Lines      []PlayerLine
}

// Winner returns the winning line, if the match had one.
func (m Match) Winner() (PlayerLine, bool) {
	for _, l := range m.Lines {
		if l.Slot == m.WinnerSlot {
			return l, true
		}
	}
	return PlayerLine{}, false
}

// PlayerLine is one slot's result in a match.
type PlayerLine struct {
	Slot      int
	PlayerID  string
	LivesLeft int
	Deaths    int
	Kills     int
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS matches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			match_id TEXT NOT NULL UNIQUE,
			game_id TEXT NOT NULL,
			players INTEGER NOT NULL,
			winner_slot INTEGER NOT NULL DEFAULT -1,
			end_reason TEXT NOT NULL,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_matches_game_id ON matches(game_id);

		CREATE TABLE IF NOT EXISTS match_players (
			match_id TEXT NOT NULL REFERENCES matches(match_id),
			slot INTEGER NOT NULL,
			player_id TEXT NOT NULL,
			lives_left INTEGER NOT NULL DEFAULT 0,
			deaths INTEGER NOT NULL DEFAULT 0,
			kills INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (match_id, slot)
		);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveMatch records a match and its player lines in one transaction.
// Returns the ID of the inserted match row.
func (s *Store) SaveMatch(m Match) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO matches (match_id, game_id, players, winner_slot, end_reason, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		m.MatchID, m.GameID, m.Players, m.WinnerSlot, m.EndReason, m.Duration.Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save match: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	for _, l := range m.Lines {
		if _, err := tx.Exec(
			`INSERT INTO match_players (match_id, slot, player_id, lives_left, deaths, kills)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			m.MatchID, l.Slot, l.PlayerID, l.LivesLeft, l.Deaths, l.Kills,
		); err != nil {
			return 0, fmt.Errorf("storage: cannot save player line: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("storage: cannot commit match: %w", err)
	}
	return id, nil
}

const matchColumns = `id, match_id, game_id, players, winner_slot, end_reason, duration_ms, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanMatch(row scanner) (Match, error) {
	var (
		m          Match
		durationMs int64
		createdAt  any
	)
	err := row.Scan(&m.ID, &m.MatchID, &m.GameID, &m.Players, &m.WinnerSlot, &m.EndReason, &durationMs, &createdAt)
	if err != nil {
		return m, err
	}
	m.Duration = time.Duration(durationMs) * time.Millisecond
	m.CreatedAt = parseTime(createdAt)
	return m, nil
}

// parseTime handles both driver return types for DATETIME columns.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// MatchByID retrieves a match with its player lines. Returns nil when the
// match is unknown.
func (s *Store) MatchByID(matchID string) (*Match, error) {
	m, err := scanMatch(s.db.QueryRow(
		`SELECT `+matchColumns+` FROM matches WHERE match_id = ?`, matchID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query match: %w", err)
	}

	if m.Lines, err = s.lines(m.MatchID); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Store) lines(matchID string) ([]PlayerLine, error) {
	rows, err := s.db.Query(
		`SELECT slot, player_id, lives_left, deaths, kills
		 FROM match_players WHERE match_id = ? ORDER BY slot`,
		matchID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query player lines: %w", err)
	}
	defer rows.Close()

	var out []PlayerLine
	for rows.Next() {
		var l PlayerLine
		if err := rows.Scan(&l.Slot, &l.PlayerID, &l.LivesLeft, &l.Deaths, &l.Kills); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// RecentMatches retrieves the most recent matches, newest first, with their
// player lines. An empty gameID matches every variant.
func (s *Store) RecentMatches(gameID string, limit int) ([]Match, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+matchColumns+`
		 FROM matches
		 WHERE ? = '' OR game_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		gameID, gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query matches: %w", err)
	}

	var matches []Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	rows.Close()

	for i := range matches {
		if matches[i].Lines, err = s.lines(matches[i].MatchID); err != nil {
			return nil, err
		}
	}
	return matches, nil
}

// SlotStats aggregates results per spawn slot for one variant.
type SlotStats struct {
	Slot    int
	Matches int
	Wins    int
	Kills   int
	Deaths  int
}

// SlotStats returns per-slot aggregates, ordered by slot. An empty gameID
// covers every variant.
func (s *Store) SlotStats(gameID string) ([]SlotStats, error) {
	rows, err := s.db.Query(
		`SELECT p.slot,
		        COUNT(*),
		        SUM(CASE WHEN m.winner_slot = p.slot THEN 1 ELSE 0 END),
		        SUM(p.kills),
		        SUM(p.deaths)
		 FROM match_players p
		 JOIN matches m ON m.match_id = p.match_id
		 WHERE ? = '' OR m.game_id = ?
		 GROUP BY p.slot
		 ORDER BY p.slot`,
		gameID, gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get slot stats: %w", err)
	}
	defer rows.Close()

	var out []SlotStats
	for rows.Next() {
		var st SlotStats
		if err := rows.Scan(&st.Slot, &st.Matches, &st.Wins, &st.Kills, &st.Deaths); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// GameStats contains aggregated statistics for a variant.
type GameStats struct {
	GameID      string
	Matches     int
	Draws       int
	AvgDuration time.Duration
	LastPlayed  time.Time
}

// GetGameStats retrieves aggregated statistics for one variant.
func (s *Store) GetGameStats(gameID string) (*GameStats, error) {
	stats := &GameStats{GameID: gameID}
	var (
		avgMs      float64
		lastPlayed any
	)
	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN winner_slot < 0 THEN 1 ELSE 0 END), 0),
		        COALESCE(AVG(duration_ms), 0.0),
		        MAX(created_at)
		 FROM matches WHERE game_id = ?`,
		gameID,
	).Scan(&stats.Matches, &stats.Draws, &avgMs, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get game stats: %w", err)
	}
	stats.AvgDuration = time.Duration(avgMs) * time.Millisecond
	stats.LastPlayed = parseTime(lastPlayed)
	return stats, nil
}

// ClearMatches deletes the history of one variant, or all history when
// gameID is empty.
func (s *Store) ClearMatches(gameID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`DELETE FROM match_players WHERE match_id IN
		 (SELECT match_id FROM matches WHERE ? = '' OR game_id = ?)`,
		gameID, gameID,
	); err != nil {
		return fmt.Errorf("storage: cannot clear player lines: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM matches WHERE ? = '' OR game_id = ?`, gameID, gameID); err != nil {
		return fmt.Errorf("storage: cannot clear matches: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit clear: %w", err)
	}
	return nil
}
