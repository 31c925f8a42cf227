package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Match:
		o.printMatch(v)
	case CreatedMatch:
		o.printCreatedMatch(v)
	case JoinedMatch:
		o.printJoinedMatch(v)
	case MatchList:
		o.printMatchList(v)
	case Leaderboard:
		o.printLeaderboard(v)
	case Roster:
		o.printRoster(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Status string `json:"status"`
	Score  int    `json:"score"`
	Shots  int    `json:"shots"`
	Items  int    `json:"items"`
}

// Match response type
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

// CreatedMatch response type
type CreatedMatch struct {
	Match Match  `json:"match"`
	You   Player `json:"you"`
	Token string `json:"token"`
}

// JoinedMatch response type
type JoinedMatch struct {
	Match Match  `json:"match"`
	You   Player `json:"you"`
	Token string `json:"token"`
}

// MatchList response type
type MatchList struct {
	Matches []Match `json:"matches"`
}

// LeaderboardRow response type
type LeaderboardRow struct {
	Rank     int    `json:"rank"`
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
	Shots    int    `json:"shots"`
	Items    int    `json:"items"`
}

// Leaderboard response type
type Leaderboard struct {
	Rows []LeaderboardRow `json:"rows"`
}

// Roster response type
type Roster struct {
	Players []Player `json:"players"`
}

// HealthResult response type
type HealthResult struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
}

func (o *Output) printMatch(m Match) {
	fmt.Printf("Match: %s\n", m.ID)
	if m.Name != "" {
		fmt.Printf("Name: %s\n", m.Name)
	}
	fmt.Printf("State: %s\n", m.State)
	fmt.Printf("Win Score: %d\n", m.WinScore)
	if m.WinnerID != "" {
		fmt.Printf("Winner: %s\n", m.WinnerID)
	}
	fmt.Printf("Players (%d):\n", len(m.Players))
	for _, p := range m.Players {
		roleStr := ""
		if p.Role == "admin" {
			roleStr = " [admin]"
		}
		fmt.Printf("  - %s (%s) - %d pts, %d shots, %d items, %s%s\n",
			p.Name, p.ID, p.Score, p.Shots, p.Items, p.Status, roleStr)
	}
}

func (o *Output) printCreatedMatch(c CreatedMatch) {
	o.printMatch(c.Match)
	fmt.Printf("\nYour player ID: %s\n", c.You.ID)
	fmt.Printf("Your badge token: %s\n", c.Token)
}

func (o *Output) printJoinedMatch(j JoinedMatch) {
	o.printMatch(j.Match)
	fmt.Printf("\nYour player ID: %s\n", j.You.ID)
	fmt.Printf("Your badge token: %s\n", j.Token)
}

func (o *Output) printMatchList(l MatchList) {
	if len(l.Matches) == 0 {
		fmt.Println("No matches")
		return
	}
	for _, m := range l.Matches {
		name := m.Name
		if name == "" {
			name = "-"
		}
		fmt.Printf("%s  %-8s  %-20s  %d players\n", m.ID, m.State, name, len(m.Players))
	}
}

func (o *Output) printLeaderboard(lb Leaderboard) {
	for _, row := range lb.Rows {
		fmt.Printf("%2d. %-20s %4d pts  (%d shots, %d items)\n",
			row.Rank, row.Name, row.Score, row.Shots, row.Items)
	}
}

func (o *Output) printRoster(r Roster) {
	for _, p := range r.Players {
		roleStr := ""
		if p.Role == "admin" {
			roleStr = " [admin]"
		}
		fmt.Printf("  - %s (%s) - %s%s\n", p.Name, p.ID, p.Status, roleStr)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
	fmt.Printf("Storage: %s\n", h.Storage)
}
