package redis

import (
	"fmt"

	"github.com/ecoshot/ecoshot/internal/model"
)

// Key prefix for all match-related data
const keyPrefix = "ecoshot"

// Key generation functions for each entity type

// matchKey returns the Redis key for a match's metadata
func matchKey(id model.MatchID) string {
	return fmt.Sprintf("%s:match:%s", keyPrefix, id)
}

// matchIndexKey returns the Redis key for the SET of all match IDs
func matchIndexKey() string {
	return fmt.Sprintf("%s:idx:matches", keyPrefix)
}

// playerKey returns the Redis key for a player record
func playerKey(matchID model.MatchID, playerID model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s:%s", keyPrefix, matchID, playerID)
}

// inventoryKey returns the Redis key for a player's inventory LIST
func inventoryKey(matchID model.MatchID, playerID model.PlayerID) string {
	return fmt.Sprintf("%s:inventory:%s:%s", keyPrefix, matchID, playerID)
}
