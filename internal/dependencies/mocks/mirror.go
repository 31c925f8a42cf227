package mocks

import (
	"sync"

	"github.com/ecoshot/ecoshot/internal/model"
)

// MirrorCall records one write queued through the MockMirror
type MirrorCall struct {
	Op       string
	MatchID  model.MatchID
	PlayerID model.PlayerID
	Items    []model.Item
}

// MockMirror records persistence write-through calls for test assertions
type MockMirror struct {
	mu    sync.Mutex
	calls []MirrorCall
}

// NewMockMirror creates a new MockMirror
func NewMockMirror() *MockMirror {
	return &MockMirror{}
}

// SaveMatch records a match write
func (m *MockMirror) SaveMatch(match *model.Match) {
	m.record(MirrorCall{Op: "save_match", MatchID: match.ID})
}

// SavePlayer records a player write
func (m *MockMirror) SavePlayer(matchID model.MatchID, player *model.Player) {
	m.record(MirrorCall{Op: "save_player", MatchID: matchID, PlayerID: player.ID})
}

// AppendInventory records a ledger append
func (m *MockMirror) AppendInventory(matchID model.MatchID, playerID model.PlayerID, items ...model.Item) {
	m.record(MirrorCall{Op: "append_inventory", MatchID: matchID, PlayerID: playerID, Items: items})
}

// ClearInventory records a ledger clear
func (m *MockMirror) ClearInventory(matchID model.MatchID, playerID model.PlayerID) {
	m.record(MirrorCall{Op: "clear_inventory", MatchID: matchID, PlayerID: playerID})
}

// DeleteMatch records a match removal
func (m *MockMirror) DeleteMatch(matchID model.MatchID) {
	m.record(MirrorCall{Op: "delete_match", MatchID: matchID})
}

// Calls returns every recorded write in order
func (m *MockMirror) Calls() []MirrorCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MirrorCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// OfOp returns the recorded writes with the given operation name
func (m *MockMirror) OfOp(op string) []MirrorCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []MirrorCall
	for _, c := range m.calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Reset clears all recorded writes
func (m *MockMirror) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

func (m *MockMirror) record(c MirrorCall) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, c)
}
