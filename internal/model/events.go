package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	// Connection events
	EventMatchSnapshot      EventType = "match_snapshot"
	EventPlayerConnected    EventType = "player_connected"
	EventPlayerDisconnected EventType = "player_disconnected"

	// Roster events
	EventPlayerJoined EventType = "player_joined"

	// Lifecycle events
	EventMatchStarted   EventType = "match_started"
	EventMatchPaused    EventType = "match_paused"
	EventMatchResumed   EventType = "match_resumed"
	EventMatchEnded     EventType = "match_ended"
	EventMatchRestarted EventType = "match_restarted"

	// Gameplay events
	EventShotResult        EventType = "shot_result"
	EventItemsCollected    EventType = "items_collected"
	EventItemRedeemed      EventType = "item_redeemed"
	EventLeaderboardUpdate EventType = "leaderboard_update"

	// Personal end-of-match events
	EventPlayerWon  EventType = "player_won"
	EventPlayerLost EventType = "player_lost"

	// Error frame for a single client
	EventError EventType = "error"
)

// ShotOutcome describes how a shot attempt resolved
type ShotOutcome string

const (
	OutcomeHit       ShotOutcome = "hit"       // Another player's badge decoded
	OutcomeCollected ShotOutcome = "collected" // Items added to the inventory
	OutcomeDeposited ShotOutcome = "deposited" // Inventory emptied into containers
	OutcomeMiss      ShotOutcome = "miss"      // Nothing usable in the photo
)

// Event is the base structure for everything fanned out to clients
type Event struct {
	Type      EventType
	Timestamp time.Time
	MatchID   MatchID
	PlayerID  PlayerID // actor or affected player; empty for match-wide events
	Payload   any      // one of the payload structs below
}

// PlayerSummary is the public view of a roster member carried in events.
// Tokens never appear in it.
type PlayerSummary struct {
	ID     PlayerID     `json:"id"`
	Name   string       `json:"name"`
	Role   PlayerRole   `json:"role"`
	Status PlayerStatus `json:"status"`
	Score  int          `json:"score"`
	Shots  int          `json:"shots"`
	Items  int          `json:"items"` // carried inventory size
}

// SummarizePlayer builds the public event view of a player
func SummarizePlayer(p *Player) PlayerSummary {
	return PlayerSummary{
		ID:     p.ID,
		Name:   p.Name,
		Role:   p.Role,
		Status: p.Status,
		Score:  p.Score,
		Shots:  p.Shots,
		Items:  len(p.Inventory),
	}
}

// ItemPayload is the event view of an inventory item
type ItemPayload struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Category     ItemCategory `json:"category"`
	BenefitValue float64      `json:"benefit_value"`
}

// ItemPayloadFrom builds the event view of an item
func ItemPayloadFrom(item Item) ItemPayload {
	return ItemPayload{
		ID:           item.ID,
		Name:         item.Name,
		Category:     item.Category,
		BenefitValue: item.BenefitValue,
	}
}

// ItemPayloadsFrom builds event views for a batch of items
func ItemPayloadsFrom(items []Item) []ItemPayload {
	payloads := make([]ItemPayload, len(items))
	for i, item := range items {
		payloads[i] = ItemPayloadFrom(item)
	}
	return payloads
}

// MatchSnapshotPayload is sent to a client immediately after it binds
type MatchSnapshotPayload struct {
	MatchID   MatchID         `json:"match_id"`
	Name      string          `json:"name,omitempty"`
	State     MatchState      `json:"state"`
	AdminID   PlayerID        `json:"admin_id"`
	WinScore  int             `json:"win_score"`
	WinnerID  PlayerID        `json:"winner_id,omitempty"`
	Players   []PlayerSummary `json:"players"`
	You       PlayerSummary   `json:"you"`
	Inventory []ItemPayload   `json:"inventory"` // the bound player's carried items
}

// PlayerJoinedPayload contains data for player joined events
type PlayerJoinedPayload struct {
	Player PlayerSummary `json:"player"`
}

// PlayerConnectionPayload contains data for connect/disconnect events
type PlayerConnectionPayload struct {
	PlayerID PlayerID     `json:"player_id"`
	Name     string       `json:"name"`
	Status   PlayerStatus `json:"status"`
}

// MatchLifecyclePayload contains data for lifecycle transition events
type MatchLifecyclePayload struct {
	State      MatchState `json:"state"`
	WinnerID   PlayerID   `json:"winner_id,omitempty"`
	WinnerName string     `json:"winner_name,omitempty"`
}

// RedeemedItemPayload describes one item matched to a container at a deposit
type RedeemedItemPayload struct {
	Item      ItemPayload `json:"item"`
	Container string      `json:"container"`
	Points    int         `json:"points"`
}

// ShotResultPayload is broadcast to the match after every shot attempt.
// PlayerID and Name identify the shooter so clients can tell their own
// results apart from everyone else's.
type ShotResultPayload struct {
	PlayerID       PlayerID              `json:"player_id"`
	Name           string                `json:"name"`
	Outcome        ShotOutcome           `json:"outcome"`
	Points         int                   `json:"points"` // total awarded by this shot
	Target         *PlayerSummary        `json:"target,omitempty"`
	Collected      []ItemPayload         `json:"collected,omitempty"`
	Redeemed       []RedeemedItemPayload `json:"redeemed,omitempty"`
	FallbackPoints int                   `json:"fallback_points,omitempty"`
	Description    string                `json:"description,omitempty"` // classifier scene description
}

// ItemsCollectedPayload contains data for collection events
type ItemsCollectedPayload struct {
	PlayerID PlayerID      `json:"player_id"`
	Name     string        `json:"name"`
	Items    []ItemPayload `json:"items"`
}

// ItemRedeemedPayload contains data for a single redeemed item
type ItemRedeemedPayload struct {
	PlayerID  PlayerID    `json:"player_id"`
	Name      string      `json:"name"`
	Item      ItemPayload `json:"item"`
	Container string      `json:"container"`
	Points    int         `json:"points"`
}

// LeaderboardRow is one ranked line of the leaderboard
type LeaderboardRow struct {
	Rank     int      `json:"rank"`
	PlayerID PlayerID `json:"player_id"`
	Name     string   `json:"name"`
	Score    int      `json:"score"`
	Shots    int      `json:"shots"`
	Items    int      `json:"items"`
}

// LeaderboardPayload contains the full ordered leaderboard
type LeaderboardPayload struct {
	Rows []LeaderboardRow `json:"rows"`
}

// LeaderboardFrom builds the ranked rows for a match
func LeaderboardFrom(m *Match) []LeaderboardRow {
	ranked := m.Ranked()
	rows := make([]LeaderboardRow, len(ranked))
	for i, p := range ranked {
		rows[i] = LeaderboardRow{
			Rank:     i + 1,
			PlayerID: p.ID,
			Name:     p.Name,
			Score:    p.Score,
			Shots:    p.Shots,
			Items:    len(p.Inventory),
		}
	}
	return rows
}

// PlayerWonPayload is sent privately to the winner at the threshold
type PlayerWonPayload struct {
	Score    int `json:"score"`
	WinScore int `json:"win_score"`
}

// PlayerLostPayload is sent privately to every non-winner at the threshold
type PlayerLostPayload struct {
	WinnerID   PlayerID `json:"winner_id"`
	WinnerName string   `json:"winner_name"`
	Score      int      `json:"score"`
}

// ErrorPayload is sent to a single client for an unprocessable frame
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
