package request

// CreateMatchRequest is the request body for creating a match
type CreateMatchRequest struct {
	Name      string `json:"name,omitempty"`
	AdminName string `json:"admin_name"`
	WinScore  int    `json:"win_score,omitempty"`
}

// JoinMatchRequest is the request body for joining a match
type JoinMatchRequest struct {
	Name string `json:"name"`
}

// LifecycleRequest is the request body for every lifecycle verb. The
// registry rejects callers who are not the match admin.
type LifecycleRequest struct {
	PlayerID string `json:"player_id"`
}
