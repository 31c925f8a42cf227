package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ecoshot/ecoshot/internal/model"
	"github.com/ecoshot/ecoshot/internal/storage"
)

// Storage is a Redis-backed implementation of the gateway interface.
//
// A match is split across keys: metadata (with the roster order) under
// the match key, one key per player record, and one LIST per player
// inventory so appends and the atomic pop map onto native list ops.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Gateway = (*Storage)(nil)

// storedMatch is the JSON shape of match metadata. The roster keeps only
// IDs in join order; player records and inventories live under their own
// keys.
type storedMatch struct {
	ID        model.MatchID
	Name      string
	State     model.MatchState
	AdminID   model.PlayerID
	WinScore  int
	Roster    []model.PlayerID
	WinnerID  model.PlayerID
	CreatedAt time.Time
	StartedAt time.Time
	PausedAt  time.Time
	EndedAt   time.Time
	UpdatedAt time.Time
}

// storedPlayer is the JSON shape of a player record. The inventory is
// not part of it; the ledger is owned by the inventory LIST.
type storedPlayer struct {
	ID       model.PlayerID
	Name     string
	Role     model.PlayerRole
	Token    model.Token
	Status   model.PlayerStatus
	Score    int
	Shots    int
	History  []model.ScoreEntry
	JoinedAt time.Time
}

func toStoredMatch(m *model.Match) storedMatch {
	roster := make([]model.PlayerID, len(m.Players))
	for i, p := range m.Players {
		roster[i] = p.ID
	}
	return storedMatch{
		ID:        m.ID,
		Name:      m.Name,
		State:     m.State,
		AdminID:   m.AdminID,
		WinScore:  m.WinScore,
		Roster:    roster,
		WinnerID:  m.WinnerID,
		CreatedAt: m.CreatedAt,
		StartedAt: m.StartedAt,
		PausedAt:  m.PausedAt,
		EndedAt:   m.EndedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toStoredPlayer(p *model.Player) storedPlayer {
	return storedPlayer{
		ID:       p.ID,
		Name:     p.Name,
		Role:     p.Role,
		Token:    p.Token,
		Status:   p.Status,
		Score:    p.Score,
		Shots:    p.Shots,
		History:  p.History,
		JoinedAt: p.JoinedAt,
	}
}

func (sp storedPlayer) toModel() *model.Player {
	return &model.Player{
		ID:       sp.ID,
		Name:     sp.Name,
		Role:     sp.Role,
		Token:    sp.Token,
		Status:   sp.Status,
		Score:    sp.Score,
		Shots:    sp.Shots,
		History:  sp.History,
		JoinedAt: sp.JoinedAt,
	}
}

// Match operations

func (s *Storage) SaveMatch(ctx context.Context, match *model.Match) error {
	metaData, err := json.Marshal(toStoredMatch(match))
	if err != nil {
		return err
	}

	// Full-aggregate write: metadata, every player record, and every
	// inventory rewritten in one pipeline
	pipe := s.client.Pipeline()
	pipe.Set(ctx, matchKey(match.ID), metaData, s.cfg.MatchTTL)
	pipe.SAdd(ctx, matchIndexKey(), string(match.ID))

	for _, p := range match.Players {
		playerData, err := json.Marshal(toStoredPlayer(p))
		if err != nil {
			return err
		}
		pipe.Set(ctx, playerKey(match.ID, p.ID), playerData, s.cfg.MatchTTL)

		invKey := inventoryKey(match.ID, p.ID)
		pipe.Del(ctx, invKey)
		for _, item := range p.Inventory {
			itemData, err := json.Marshal(item)
			if err != nil {
				return err
			}
			pipe.RPush(ctx, invKey, itemData)
		}
		if s.cfg.MatchTTL > 0 && len(p.Inventory) > 0 {
			pipe.Expire(ctx, invKey, s.cfg.MatchTTL)
		}
	}

	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetMatch(ctx context.Context, id model.MatchID) (*model.Match, error) {
	metaData, err := s.client.Get(ctx, matchKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrMatchNotFound
		}
		return nil, err
	}

	var meta storedMatch
	if err := json.Unmarshal(metaData, &meta); err != nil {
		return nil, err
	}

	match := &model.Match{
		ID:        meta.ID,
		Name:      meta.Name,
		State:     meta.State,
		AdminID:   meta.AdminID,
		WinScore:  meta.WinScore,
		WinnerID:  meta.WinnerID,
		CreatedAt: meta.CreatedAt,
		StartedAt: meta.StartedAt,
		PausedAt:  meta.PausedAt,
		EndedAt:   meta.EndedAt,
		UpdatedAt: meta.UpdatedAt,
	}

	if len(meta.Roster) == 0 {
		return match, nil
	}

	playerKeys := make([]string, len(meta.Roster))
	for i, pid := range meta.Roster {
		playerKeys[i] = playerKey(id, pid)
	}

	values, err := s.client.MGet(ctx, playerKeys...).Result()
	if err != nil {
		return nil, err
	}

	for i, val := range values {
		if val == nil {
			continue // Player record may have expired
		}
		var sp storedPlayer
		if err := json.Unmarshal([]byte(val.(string)), &sp); err != nil {
			continue // Skip invalid data
		}
		player := sp.toModel()

		items, err := s.readInventory(ctx, id, meta.Roster[i])
		if err != nil {
			return nil, err
		}
		player.Inventory = items
		match.Players = append(match.Players, player)
	}

	return match, nil
}

func (s *Storage) ListMatches(ctx context.Context) ([]*model.Match, error) {
	ids, err := s.client.SMembers(ctx, matchIndexKey()).Result()
	if err != nil {
		return nil, err
	}

	matches := make([]*model.Match, 0, len(ids))
	for _, id := range ids {
		match, err := s.GetMatch(ctx, model.MatchID(id))
		if err != nil {
			if errors.Is(err, model.ErrMatchNotFound) {
				continue // Metadata expired; index entry is stale
			}
			return nil, err
		}
		matches = append(matches, match)
	}
	return matches, nil
}

func (s *Storage) DeleteMatch(ctx context.Context, id model.MatchID) error {
	// Read the roster so player and inventory keys can be removed too
	metaData, err := s.client.Get(ctx, matchKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return s.client.SRem(ctx, matchIndexKey(), string(id)).Err()
		}
		return err
	}

	var meta storedMatch
	if err := json.Unmarshal(metaData, &meta); err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, matchKey(id))
	pipe.SRem(ctx, matchIndexKey(), string(id))
	for _, pid := range meta.Roster {
		pipe.Del(ctx, playerKey(id, pid))
		pipe.Del(ctx, inventoryKey(id, pid))
	}
	_, err = pipe.Exec(ctx)
	return err
}

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, matchID model.MatchID, player *model.Player) error {
	data, err := json.Marshal(toStoredPlayer(player))
	if err != nil {
		return err
	}
	return s.client.Set(ctx, playerKey(matchID, player.ID), data, s.cfg.MatchTTL).Err()
}

// Inventory ledger operations

func (s *Storage) AppendInventory(ctx context.Context, matchID model.MatchID, playerID model.PlayerID, items ...model.Item) error {
	if len(items) == 0 {
		return nil
	}

	key := inventoryKey(matchID, playerID)

	pipe := s.client.Pipeline()
	for _, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			return err
		}
		pipe.RPush(ctx, key, data)
	}
	if s.cfg.MatchTTL > 0 {
		pipe.Expire(ctx, key, s.cfg.MatchTTL)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) PopInventory(ctx context.Context, matchID model.MatchID, playerID model.PlayerID) ([]model.Item, error) {
	key := inventoryKey(matchID, playerID)

	// Read and clear atomically so a concurrent append can never be
	// returned twice
	var lrange *redis.StringSliceCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		lrange = pipe.LRange(ctx, key, 0, -1)
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil {
		return nil, err
	}

	raw := lrange.Val()
	items := make([]model.Item, 0, len(raw))
	for _, entry := range raw {
		var item model.Item
		if err := json.Unmarshal([]byte(entry), &item); err != nil {
			continue // Skip invalid data
		}
		items = append(items, item)
	}
	return items, nil
}

// Ping verifies the Redis connection
func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// readInventory returns a player's ledger in append order
func (s *Storage) readInventory(ctx context.Context, matchID model.MatchID, playerID model.PlayerID) ([]model.Item, error) {
	raw, err := s.client.LRange(ctx, inventoryKey(matchID, playerID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	items := make([]model.Item, 0, len(raw))
	for _, entry := range raw {
		var item model.Item
		if err := json.Unmarshal([]byte(entry), &item); err != nil {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}
