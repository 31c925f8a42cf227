package model

import "time"

// PlayerID uniquely identifies a player within a match
type PlayerID string

// PlayerRole distinguishes the match admin from ordinary players
type PlayerRole string

const (
	RoleAdmin  PlayerRole = "admin"
	RolePlayer PlayerRole = "player"
)

// PlayerStatus tracks a player's relationship to a running match
type PlayerStatus string

const (
	StatusConnected    PlayerStatus = "connected"    // A socket is bound
	StatusDisconnected PlayerStatus = "disconnected" // On the roster, no socket
	StatusEliminated   PlayerStatus = "eliminated"   // Lost a match that ended at the threshold
)

// Player represents one participant in a match
type Player struct {
	ID     PlayerID
	Name   string // unique per match, case-insensitive
	Role   PlayerRole
	Token  Token // printed badge text; survives restarts
	Status PlayerStatus
	Score  int
	Shots  int // shot attempts resolved for this player

	// Inventory is the ordered ledger of carried items.
	// Deposits empty it atomically under the match lock.
	Inventory []Item

	// History records every score mutation.
	// Invariant: Score equals the sum of History points at all times.
	History []ScoreEntry

	JoinedAt time.Time
}

// Clone returns a deep copy of the player
func (p *Player) Clone() *Player {
	if p == nil {
		return nil
	}
	clone := *p
	clone.Inventory = make([]Item, len(p.Inventory))
	copy(clone.Inventory, p.Inventory)
	clone.History = make([]ScoreEntry, len(p.History))
	copy(clone.History, p.History)
	return &clone
}
