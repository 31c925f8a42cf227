package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/ecoshot/ecoshot/internal/model"
	"github.com/ecoshot/ecoshot/internal/storage"
)

// Storage is a Postgres-backed implementation of the gateway interface.
// Inventory items live in their own table with a serial order column so
// append order survives and the atomic pop is a single DELETE RETURNING.
type Storage struct {
	db *sql.DB
}

// New connects to Postgres and verifies the connection
func New(dsn string) (*Storage, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return &Storage{db: db}, nil
}

// NewWithDB creates a Postgres storage with an existing handle (for testing)
func NewWithDB(db *sql.DB) *Storage {
	return &Storage{db: db}
}

// Close closes the database handle
func (s *Storage) Close() error {
	return s.db.Close()
}

// Ensure Storage implements the interface
var _ storage.Gateway = (*Storage)(nil)

// Migrate creates the schema if it does not exist
func (s *Storage) Migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS matches (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			state TEXT NOT NULL,
			admin_id TEXT NOT NULL,
			win_score INT NOT NULL,
			winner_id TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
			started_at TIMESTAMPTZ,
			paused_at TIMESTAMPTZ,
			ended_at TIMESTAMPTZ,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS players (
			match_id TEXT NOT NULL REFERENCES matches(id) ON DELETE CASCADE,
			id TEXT NOT NULL,
			name TEXT NOT NULL,
			role TEXT NOT NULL,
			token TEXT NOT NULL,
			status TEXT NOT NULL,
			score INT NOT NULL DEFAULT 0,
			shots INT NOT NULL DEFAULT 0,
			history JSONB NOT NULL DEFAULT '[]',
			joined_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (match_id, id)
		)`,
		`CREATE TABLE IF NOT EXISTS inventory_items (
			seq BIGSERIAL PRIMARY KEY,
			match_id TEXT NOT NULL,
			player_id TEXT NOT NULL,
			item_id TEXT NOT NULL,
			name TEXT NOT NULL,
			category TEXT NOT NULL,
			benefit_value DOUBLE PRECISION NOT NULL DEFAULT 0,
			collected_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_inventory_owner
			ON inventory_items (match_id, player_id, seq)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// Match operations

func (s *Storage) SaveMatch(ctx context.Context, match *model.Match) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO matches (id, name, state, admin_id, win_score, winner_id,
			created_at, started_at, paused_at, ended_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			state = EXCLUDED.state,
			admin_id = EXCLUDED.admin_id,
			win_score = EXCLUDED.win_score,
			winner_id = EXCLUDED.winner_id,
			started_at = EXCLUDED.started_at,
			paused_at = EXCLUDED.paused_at,
			ended_at = EXCLUDED.ended_at,
			updated_at = EXCLUDED.updated_at`,
		string(match.ID), match.Name, string(match.State), string(match.AdminID),
		match.WinScore, string(match.WinnerID),
		match.CreatedAt, nullTime(match.StartedAt), nullTime(match.PausedAt),
		nullTime(match.EndedAt), match.UpdatedAt)
	if err != nil {
		return err
	}

	for _, p := range match.Players {
		if err := savePlayerTx(ctx, tx, match.ID, p); err != nil {
			return err
		}
		if err := rewriteInventoryTx(ctx, tx, match.ID, p.ID, p.Inventory); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *Storage) GetMatch(ctx context.Context, id model.MatchID) (*model.Match, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, state, admin_id, win_score, winner_id,
			created_at, started_at, paused_at, ended_at, updated_at
		FROM matches WHERE id = $1`, string(id))

	match, err := scanMatch(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrMatchNotFound
		}
		return nil, err
	}

	if err := s.loadPlayers(ctx, match); err != nil {
		return nil, err
	}
	return match, nil
}

func (s *Storage) ListMatches(ctx context.Context) ([]*model.Match, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, state, admin_id, win_score, winner_id,
			created_at, started_at, paused_at, ended_at, updated_at
		FROM matches ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []*model.Match
	for rows.Next() {
		match, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, match)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, match := range matches {
		if err := s.loadPlayers(ctx, match); err != nil {
			return nil, err
		}
	}
	return matches, nil
}

func (s *Storage) DeleteMatch(ctx context.Context, id model.MatchID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM inventory_items WHERE match_id = $1`, string(id)); err != nil {
		return err
	}
	// Players cascade from the match row
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM matches WHERE id = $1`, string(id)); err != nil {
		return err
	}
	return tx.Commit()
}

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, matchID model.MatchID, player *model.Player) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := savePlayerTx(ctx, tx, matchID, player); err != nil {
		return err
	}
	return tx.Commit()
}

// Inventory ledger operations

func (s *Storage) AppendInventory(ctx context.Context, matchID model.MatchID, playerID model.PlayerID, items ...model.Item) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, item := range items {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO inventory_items (match_id, player_id, item_id, name, category, benefit_value, collected_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			string(matchID), string(playerID), item.ID, item.Name,
			string(item.Category), item.BenefitValue, item.CollectedAt)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Storage) PopInventory(ctx context.Context, matchID model.MatchID, playerID model.PlayerID) ([]model.Item, error) {
	// Single statement keeps the pop atomic against concurrent appends
	rows, err := s.db.QueryContext(ctx, `
		WITH popped AS (
			DELETE FROM inventory_items
			WHERE match_id = $1 AND player_id = $2
			RETURNING seq, item_id, name, category, benefit_value, collected_at
		)
		SELECT item_id, name, category, benefit_value, collected_at
		FROM popped ORDER BY seq`,
		string(matchID), string(playerID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanItems(rows)
}

// Ping verifies the database connection
func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Helpers

func savePlayerTx(ctx context.Context, tx *sql.Tx, matchID model.MatchID, player *model.Player) error {
	history, err := json.Marshal(player.History)
	if err != nil {
		return err
	}
	if len(player.History) == 0 {
		history = []byte("[]")
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO players (match_id, id, name, role, token, status, score, shots, history, joined_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (match_id, id) DO UPDATE SET
			name = EXCLUDED.name,
			role = EXCLUDED.role,
			token = EXCLUDED.token,
			status = EXCLUDED.status,
			score = EXCLUDED.score,
			shots = EXCLUDED.shots,
			history = EXCLUDED.history`,
		string(matchID), string(player.ID), player.Name, string(player.Role),
		string(player.Token), string(player.Status), player.Score, player.Shots,
		history, player.JoinedAt)
	return err
}

func rewriteInventoryTx(ctx context.Context, tx *sql.Tx, matchID model.MatchID, playerID model.PlayerID, items []model.Item) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM inventory_items WHERE match_id = $1 AND player_id = $2`,
		string(matchID), string(playerID)); err != nil {
		return err
	}
	for _, item := range items {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO inventory_items (match_id, player_id, item_id, name, category, benefit_value, collected_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			string(matchID), string(playerID), item.ID, item.Name,
			string(item.Category), item.BenefitValue, item.CollectedAt)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Storage) loadPlayers(ctx context.Context, match *model.Match) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, role, token, status, score, shots, history, joined_at
		FROM players WHERE match_id = $1 ORDER BY joined_at, id`, string(match.ID))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			p       model.Player
			history []byte
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Role, &p.Token, &p.Status,
			&p.Score, &p.Shots, &history, &p.JoinedAt); err != nil {
			return err
		}
		if err := json.Unmarshal(history, &p.History); err != nil {
			return err
		}
		match.Players = append(match.Players, &p)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, p := range match.Players {
		items, err := s.readInventory(ctx, match.ID, p.ID)
		if err != nil {
			return err
		}
		p.Inventory = items
	}
	return nil
}

func (s *Storage) readInventory(ctx context.Context, matchID model.MatchID, playerID model.PlayerID) ([]model.Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT item_id, name, category, benefit_value, collected_at
		FROM inventory_items
		WHERE match_id = $1 AND player_id = $2 ORDER BY seq`,
		string(matchID), string(playerID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanItems(rows)
}

func scanItems(rows *sql.Rows) ([]model.Item, error) {
	var items []model.Item
	for rows.Next() {
		var item model.Item
		if err := rows.Scan(&item.ID, &item.Name, &item.Category,
			&item.BenefitValue, &item.CollectedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMatch(row rowScanner) (*model.Match, error) {
	var (
		m                            model.Match
		startedAt, pausedAt, endedAt sql.NullTime
	)
	err := row.Scan(&m.ID, &m.Name, &m.State, &m.AdminID, &m.WinScore, &m.WinnerID,
		&m.CreatedAt, &startedAt, &pausedAt, &endedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	m.StartedAt = startedAt.Time
	m.PausedAt = pausedAt.Time
	m.EndedAt = endedAt.Time
	return &m, nil
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
