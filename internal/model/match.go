package model

import (
	"sort"
	"strings"
	"time"
)

// MatchID is the short human-readable code players use to join a match
type MatchID string

// MatchState represents the lifecycle phase of a match
type MatchState string

const (
	MatchStateWaiting MatchState = "waiting" // Roster forming, shots rejected
	MatchStateActive  MatchState = "active"  // Shots being resolved
	MatchStatePaused  MatchState = "paused"  // Frozen by the admin
	MatchStateEnded   MatchState = "ended"   // Over; restart returns to waiting
)

// MatchCodeAlphabet excludes characters that misread on printed badges (0/O, 1/I/L)
const MatchCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// MatchCodeLength is the number of characters in a match code
const MatchCodeLength = 6

// DefaultWinScore is the points threshold used when a match is created without one
const DefaultWinScore = 300

// MaxNameLength bounds match and player display names
const MaxNameLength = 64

// Match is the aggregate for one game session. Lifecycle state, roster,
// scores and inventories all live here; the match registry serializes
// every mutation of a Match behind a per-match lock.
type Match struct {
	ID       MatchID
	Name     string // optional display name
	State    MatchState
	AdminID  PlayerID
	WinScore int // reaching this score ends the match

	// Players in join order. Join order is the leaderboard tie-break.
	Players []*Player

	WinnerID PlayerID // set only when the match ended with a winner

	CreatedAt time.Time
	StartedAt time.Time
	PausedAt  time.Time
	EndedAt   time.Time
	UpdatedAt time.Time
}

// GetPlayer returns the roster member with the given ID, or nil if not found
func (m *Match) GetPlayer(playerID PlayerID) *Player {
	for _, p := range m.Players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

// GetPlayerByName returns the roster member with the given display name,
// matched case-insensitively, or nil if not found
func (m *Match) GetPlayerByName(name string) *Player {
	for _, p := range m.Players {
		if strings.EqualFold(p.Name, name) {
			return p
		}
	}
	return nil
}

// GetPlayerByToken returns the roster member whose badge carries the given
// token, or nil if not found
func (m *Match) GetPlayerByToken(token Token) *Player {
	for _, p := range m.Players {
		if p.Token == token {
			return p
		}
	}
	return nil
}

// Admin returns the admin roster member, or nil if the roster is empty
func (m *Match) Admin() *Player {
	return m.GetPlayer(m.AdminID)
}

// ConnectedCount returns the number of players with a live connection
func (m *Match) ConnectedCount() int {
	count := 0
	for _, p := range m.Players {
		if p.Status == StatusConnected {
			count++
		}
	}
	return count
}

// Ranked returns the roster ordered by score descending. The sort is
// stable over join order, so the earlier joiner wins ties.
func (m *Match) Ranked() []*Player {
	ranked := make([]*Player, len(m.Players))
	copy(ranked, m.Players)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// Clone returns a deep copy safe to hand out after the match lock is released
func (m *Match) Clone() *Match {
	if m == nil {
		return nil
	}
	clone := *m
	clone.Players = make([]*Player, len(m.Players))
	for i, p := range m.Players {
		clone.Players[i] = p.Clone()
	}
	return &clone
}
