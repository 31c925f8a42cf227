package memory

import (
	"context"
	"sync"

	"github.com/ecoshot/ecoshot/internal/model"
	"github.com/ecoshot/ecoshot/internal/storage"
)

// Storage is an in-memory implementation of the gateway interface.
// Everything stored and returned is deep-copied, so callers can keep
// mutating their aggregates without sharing state with the mirror.
type Storage struct {
	mu sync.RWMutex

	matches map[model.MatchID]*model.Match
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		matches: make(map[model.MatchID]*model.Match),
	}
}

// Ensure Storage implements the interface
var _ storage.Gateway = (*Storage)(nil)

// Match operations

func (s *Storage) SaveMatch(ctx context.Context, match *model.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches[match.ID] = match.Clone()
	return nil
}

func (s *Storage) GetMatch(ctx context.Context, id model.MatchID) (*model.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	match, ok := s.matches[id]
	if !ok {
		return nil, model.ErrMatchNotFound
	}
	return match.Clone(), nil
}

func (s *Storage) ListMatches(ctx context.Context) ([]*model.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matches := make([]*model.Match, 0, len(s.matches))
	for _, m := range s.matches {
		matches = append(matches, m.Clone())
	}
	return matches, nil
}

func (s *Storage) DeleteMatch(ctx context.Context, id model.MatchID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.matches, id)
	return nil
}

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, matchID model.MatchID, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	match, ok := s.matches[matchID]
	if !ok {
		return model.ErrMatchNotFound
	}

	stored := match.GetPlayer(player.ID)
	if stored == nil {
		clone := player.Clone()
		clone.Inventory = nil
		match.Players = append(match.Players, clone)
		return nil
	}

	// The ledger is owned by the inventory operations
	inventory := stored.Inventory
	*stored = *player.Clone()
	stored.Inventory = inventory
	return nil
}

// Inventory ledger operations

func (s *Storage) AppendInventory(ctx context.Context, matchID model.MatchID, playerID model.PlayerID, items ...model.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	player, err := s.findPlayer(matchID, playerID)
	if err != nil {
		return err
	}
	player.Inventory = append(player.Inventory, items...)
	return nil
}

func (s *Storage) PopInventory(ctx context.Context, matchID model.MatchID, playerID model.PlayerID) ([]model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	player, err := s.findPlayer(matchID, playerID)
	if err != nil {
		return nil, err
	}
	items := player.Inventory
	player.Inventory = nil
	return items, nil
}

// Ping always succeeds for the in-memory backend
func (s *Storage) Ping(ctx context.Context) error {
	return nil
}

// findPlayer returns the stored player, or a not-found sentinel.
// Callers must hold the lock.
func (s *Storage) findPlayer(matchID model.MatchID, playerID model.PlayerID) (*model.Player, error) {
	match, ok := s.matches[matchID]
	if !ok {
		return nil, model.ErrMatchNotFound
	}
	player := match.GetPlayer(playerID)
	if player == nil {
		return nil, model.ErrPlayerNotFound
	}
	return player, nil
}
