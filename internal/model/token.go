package model

import (
	"fmt"
	"strings"
)

// Token is the text printed on a player's badge. It binds exactly one
// (match, player) pair and stays stable for the life of the player
// record, including across restarts, so badges survive a rematch.
//
// Wire format: "ECOSHOT1:<match_id>:<player_id>". The prefix is
// versioned so a future format can coexist with printed badges.
type Token string

const tokenPrefix = "ECOSHOT1"

// NewToken encodes a match and player identity as badge text
func NewToken(matchID MatchID, playerID PlayerID) Token {
	return Token(fmt.Sprintf("%s:%s:%s", tokenPrefix, matchID, playerID))
}

// ParseToken decodes badge text back into its match and player identity.
// Returns ErrInvalidToken for anything that is not a well-formed token.
func ParseToken(raw string) (MatchID, PlayerID, error) {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	if len(parts) != 3 || parts[0] != tokenPrefix || parts[1] == "" || parts[2] == "" {
		return "", "", ErrInvalidToken
	}
	return MatchID(parts[1]), PlayerID(parts[2]), nil
}
