package storage

import (
	"context"

	"github.com/ecoshot/ecoshot/internal/model"
)

// Gateway defines the interface for durable match persistence.
//
// Gameplay state is authoritative in memory; a Gateway only mirrors it.
// Implementations are read back at startup rehydration and never on the
// shot path. Match reads reassemble the full aggregate: metadata, roster
// in join order, and each player's inventory ledger.
type Gateway interface {
	// Match operations
	SaveMatch(ctx context.Context, match *model.Match) error
	GetMatch(ctx context.Context, id model.MatchID) (*model.Match, error)
	ListMatches(ctx context.Context) ([]*model.Match, error)
	DeleteMatch(ctx context.Context, id model.MatchID) error

	// Player operations. SavePlayer writes the player record without its
	// inventory; the ledger is owned by the inventory operations below.
	SavePlayer(ctx context.Context, matchID model.MatchID, player *model.Player) error

	// Inventory ledger operations. AppendInventory preserves order;
	// PopInventory atomically returns and clears the whole ledger.
	AppendInventory(ctx context.Context, matchID model.MatchID, playerID model.PlayerID, items ...model.Item) error
	PopInventory(ctx context.Context, matchID model.MatchID, playerID model.PlayerID) ([]model.Item, error)

	// Ping verifies the backend is reachable
	Ping(ctx context.Context) error
}
