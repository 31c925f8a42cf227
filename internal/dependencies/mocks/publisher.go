package mocks

import (
	"sync"

	"github.com/ecoshot/ecoshot/internal/events"
	"github.com/ecoshot/ecoshot/internal/model"
)

// PublishedEvent records one delivery made through the MockPublisher
type PublishedEvent struct {
	MatchID  model.MatchID
	PlayerID model.PlayerID // set only for direct sends
	Direct   bool
	Event    model.Event
}

// MockPublisher records published events in order for test assertions
type MockPublisher struct {
	mu      sync.Mutex
	entries []PublishedEvent
}

// Ensure MockPublisher implements Publisher
var _ events.Publisher = (*MockPublisher)(nil)

// NewMockPublisher creates a new MockPublisher
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

// Broadcast records a match-wide delivery
func (p *MockPublisher) Broadcast(matchID model.MatchID, event model.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = append(p.entries, PublishedEvent{MatchID: matchID, Event: event})
}

// SendTo records a single-player delivery
func (p *MockPublisher) SendTo(matchID model.MatchID, playerID model.PlayerID, event model.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = append(p.entries, PublishedEvent{MatchID: matchID, PlayerID: playerID, Direct: true, Event: event})
}

// All returns every recorded delivery in publish order
func (p *MockPublisher) All() []PublishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]PublishedEvent, len(p.entries))
	copy(out, p.entries)
	return out
}

// OfType returns the recorded events with the given type, in order
func (p *MockPublisher) OfType(t model.EventType) []PublishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []PublishedEvent
	for _, e := range p.entries {
		if e.Event.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// DirectTo returns the direct deliveries addressed to the given player
func (p *MockPublisher) DirectTo(playerID model.PlayerID) []PublishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []PublishedEvent
	for _, e := range p.entries {
		if e.Direct && e.PlayerID == playerID {
			out = append(out, e)
		}
	}
	return out
}

// Reset clears all recorded deliveries
func (p *MockPublisher) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = nil
}
