package response

import (
	"time"

	"github.com/ecoshot/ecoshot/internal/model"
)

// Player represents a roster member in API responses. Badge tokens are
// deliberately absent; only CreatedMatch and JoinedMatch carry them.
type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Status string `json:"status"`
	Score  int    `json:"score"`
	Shots  int    `json:"shots"`
	Items  int    `json:"items"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:     string(p.ID),
		Name:   p.Name,
		Role:   string(p.Role),
		Status: string(p.Status),
		Score:  p.Score,
		Shots:  p.Shots,
		Items:  len(p.Inventory),
	}
}

// Match represents a match in API responses
type Match struct {
	ID       string   `json:"id"`
	Name     string   `json:"name,omitempty"`
	State    string   `json:"state"`
	AdminID  string   `json:"admin_id"`
	WinScore int      `json:"win_score"`
	WinnerID string   `json:"winner_id,omitempty"`
	Players  []Player `json:"players"`

	CreatedAt time.Time  `json:"created_at"`
	StartedAt *time.Time `json:"started_at,omitempty"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

// MatchFromModel converts a model.Match to a response Match
func MatchFromModel(m *model.Match) Match {
	players := make([]Player, len(m.Players))
	for i, p := range m.Players {
		players[i] = PlayerFromModel(p)
	}
	return Match{
		ID:        string(m.ID),
		Name:      m.Name,
		State:     string(m.State),
		AdminID:   string(m.AdminID),
		WinScore:  m.WinScore,
		WinnerID:  string(m.WinnerID),
		Players:   players,
		CreatedAt: m.CreatedAt,
		StartedAt: optionalTime(m.StartedAt),
		EndedAt:   optionalTime(m.EndedAt),
	}
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// CreatedMatch is the response for match creation. It is the only place
// the admin's badge token is returned.
type CreatedMatch struct {
	Match Match  `json:"match"`
	You   Player `json:"you"`
	Token string `json:"token"`
}

// CreatedMatchFromModel builds the creation response for the admin
func CreatedMatchFromModel(m *model.Match) CreatedMatch {
	admin := m.Admin()
	return CreatedMatch{
		Match: MatchFromModel(m),
		You:   PlayerFromModel(admin),
		Token: string(admin.Token),
	}
}

// JoinedMatch is the response for joining a match. It is the only place
// a joining player's badge token is returned, and rejoins get the same
// token back.
type JoinedMatch struct {
	Match Match  `json:"match"`
	You   Player `json:"you"`
	Token string `json:"token"`
}

// JoinedMatchFromModel builds the join response for one player
func JoinedMatchFromModel(m *model.Match, p *model.Player) JoinedMatch {
	return JoinedMatch{
		Match: MatchFromModel(m),
		You:   PlayerFromModel(p),
		Token: string(p.Token),
	}
}

// MatchList is the response for listing matches
type MatchList struct {
	Matches []Match `json:"matches"`
}

// MatchListFromModel converts a batch of match snapshots
func MatchListFromModel(matches []*model.Match) MatchList {
	out := make([]Match, len(matches))
	for i, m := range matches {
		out[i] = MatchFromModel(m)
	}
	return MatchList{Matches: out}
}

// Leaderboard is the response for the leaderboard endpoint
type Leaderboard struct {
	Rows []model.LeaderboardRow `json:"rows"`
}

// Roster is the response for the roster endpoint
type Roster struct {
	Players []Player `json:"players"`
}

// RosterFromModel converts roster snapshots
func RosterFromModel(players []*model.Player) Roster {
	out := make([]Player, len(players))
	for i, p := range players {
		out[i] = PlayerFromModel(p)
	}
	return Roster{Players: out}
}

// Health is the response for the health endpoint
type Health struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
}
