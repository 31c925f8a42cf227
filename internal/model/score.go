package model

import "time"

// ScoreCause identifies which game action produced a score entry
type ScoreCause string

const (
	CauseHit            ScoreCause = "hit"             // Shot another player's badge
	CauseItemRedeemed   ScoreCause = "item_redeemed"   // Item deposited into a matching container
	CauseItemsCollected ScoreCause = "items_collected" // Unmatched items consumed at a deposit
)

// ScoreEntry is one immutable line in a player's score history.
// Every score mutation appends exactly one entry.
type ScoreEntry struct {
	ID        string
	Cause     ScoreCause
	Points    int
	Detail    string // target name, item name, or a short description
	CreatedAt time.Time
}
