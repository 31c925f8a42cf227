package match

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ecoshot/ecoshot/internal/dependencies/clock"
	"github.com/ecoshot/ecoshot/internal/dependencies/random"
	"github.com/ecoshot/ecoshot/internal/events"
	"github.com/ecoshot/ecoshot/internal/model"
	"github.com/ecoshot/ecoshot/internal/services/scoring"
)

// Mirror is the asynchronous write-through surface of the persistence
// gateway. Calls never block and never fail from the registry's point
// of view; in-memory state stays authoritative.
type Mirror interface {
	SaveMatch(match *model.Match)
	SavePlayer(matchID model.MatchID, player *model.Player)
	AppendInventory(matchID model.MatchID, playerID model.PlayerID, items ...model.Item)
	ClearInventory(matchID model.MatchID, playerID model.PlayerID)
	DeleteMatch(matchID model.MatchID)
}

// Config holds registry settings
type Config struct {
	// DefaultWinScore applies to matches created without a threshold
	DefaultWinScore int
}

// DefaultConfig returns the default registry configuration
func DefaultConfig() Config {
	return Config{DefaultWinScore: model.DefaultWinScore}
}

// session pairs a match aggregate with its serialization point. Every
// mutation of the aggregate happens under mu, which is what makes the
// inventory pop-and-reconcile and the score mutation atomic.
type session struct {
	mu    sync.Mutex
	match *model.Match
}

// Registry owns all live match aggregates and their lifecycle state
// machine. Reads hand out deep snapshots; mutations run under the
// per-match session lock so shots from the same player serialize while
// different matches stay fully independent.
type Registry struct {
	mu       sync.RWMutex
	sessions map[model.MatchID]*session

	config    Config
	scoring   *scoring.Service
	mirror    Mirror
	publisher events.Publisher
	clock     clock.Clock
	random    random.Random
	logger    *slog.Logger
}

// NewRegistry creates a new match registry
func NewRegistry(
	cfg Config,
	scoringService *scoring.Service,
	mirror Mirror,
	publisher events.Publisher,
	clk clock.Clock,
	rnd random.Random,
	logger *slog.Logger,
) *Registry {
	if cfg.DefaultWinScore <= 0 {
		cfg.DefaultWinScore = model.DefaultWinScore
	}
	return &Registry{
		sessions:  make(map[model.MatchID]*session),
		config:    cfg,
		scoring:   scoringService,
		mirror:    mirror,
		publisher: publisher,
		clock:     clk,
		random:    rnd,
		logger:    logger.With(slog.String("component", "registry")),
	}
}

// CreateMatch creates a new match in the waiting state with the admin
// auto-joined as its first player. The returned snapshot carries the
// admin's badge token.
func (r *Registry) CreateMatch(name, adminName string, winScore int) (*model.Match, error) {
	adminName, err := validName(adminName)
	if err != nil {
		return nil, err
	}
	if len(name) > model.MaxNameLength {
		return nil, model.ErrNameTooLong
	}
	if winScore < 0 {
		return nil, model.ErrInvalidWinScore
	}
	if winScore == 0 {
		winScore = r.config.DefaultWinScore
	}

	now := r.clock.Now()

	r.mu.Lock()
	var id model.MatchID
	for {
		id = model.MatchID(r.random.String(model.MatchCodeLength, model.MatchCodeAlphabet))
		if _, taken := r.sessions[id]; !taken && id != "" {
			break
		}
	}

	admin := r.newPlayer(id, adminName, model.RoleAdmin, now)
	m := &model.Match{
		ID:        id,
		Name:      strings.TrimSpace(name),
		State:     model.MatchStateWaiting,
		AdminID:   admin.ID,
		WinScore:  winScore,
		Players:   []*model.Player{admin},
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.sessions[id] = &session{match: m}
	r.mu.Unlock()

	r.mirror.SaveMatch(m.Clone())
	r.logger.Info("match created",
		slog.String("match_id", string(id)),
		slog.String("admin", adminName),
		slog.Int("win_score", winScore))
	return m.Clone(), nil
}

// Join adds a player to a match. An unseen name requires the match to
// still be waiting; a known name is an idempotent rejoin in any state
// and returns the existing record, badge token included, unchanged.
func (r *Registry) Join(matchID model.MatchID, playerName string) (*model.Match, *model.Player, error) {
	playerName, err := validName(playerName)
	if err != nil {
		return nil, nil, err
	}

	sess, err := r.session(matchID)
	if err != nil {
		return nil, nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	m := sess.match

	if existing := m.GetPlayerByName(playerName); existing != nil {
		return m.Clone(), existing.Clone(), nil
	}

	if m.State != model.MatchStateWaiting {
		return nil, nil, model.ErrMatchNotWaiting
	}

	now := r.clock.Now()
	player := r.newPlayer(matchID, playerName, model.RolePlayer, now)
	m.Players = append(m.Players, player)
	m.UpdatedAt = now

	r.publisher.Broadcast(matchID, r.event(model.EventPlayerJoined, matchID, player.ID,
		model.PlayerJoinedPayload{Player: model.SummarizePlayer(player)}))
	r.mirror.SaveMatch(m.Clone())

	r.logger.Info("player joined",
		slog.String("match_id", string(matchID)),
		slog.String("player_id", string(player.ID)),
		slog.String("name", playerName))
	return m.Clone(), player.Clone(), nil
}

// GetMatch returns a snapshot of a match
func (r *Registry) GetMatch(matchID model.MatchID) (*model.Match, error) {
	sess, err := r.session(matchID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.match.Clone(), nil
}

// ListMatches returns snapshots of every live match, oldest first
func (r *Registry) ListMatches() []*model.Match {
	r.mu.RLock()
	sessions := make([]*session, 0, len(r.sessions))
	for _, sess := range r.sessions {
		sessions = append(sessions, sess)
	}
	r.mu.RUnlock()

	matches := make([]*model.Match, 0, len(sessions))
	for _, sess := range sessions {
		sess.mu.Lock()
		matches = append(matches, sess.match.Clone())
		sess.mu.Unlock()
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].ID < matches[j].ID
		}
		return matches[i].CreatedAt.Before(matches[j].CreatedAt)
	})
	return matches
}

// Leaderboard returns the ranked rows for a match
func (r *Registry) Leaderboard(matchID model.MatchID) ([]model.LeaderboardRow, error) {
	m, err := r.GetMatch(matchID)
	if err != nil {
		return nil, err
	}
	return model.LeaderboardFrom(m), nil
}

// Roster returns snapshots of a match's players in join order
func (r *Registry) Roster(matchID model.MatchID) ([]*model.Player, error) {
	m, err := r.GetMatch(matchID)
	if err != nil {
		return nil, err
	}
	return m.Players, nil
}

// Start begins play. The match must be waiting, or ended for a rematch,
// and carry at least two players; only the admin may start. Starting
// from ended first resets every player's score, shots, inventory and
// history while keeping identities and badge tokens.
func (r *Registry) Start(matchID model.MatchID, callerID model.PlayerID) (*model.Match, error) {
	return r.transition(matchID, callerID, func(m *model.Match, now time.Time) (model.EventType, error) {
		switch m.State {
		case model.MatchStateWaiting:
		case model.MatchStateEnded:
			r.resetForRematch(m)
		default:
			return "", model.ErrMatchAlreadyStarted
		}
		if len(m.Players) < 2 {
			return "", model.ErrInsufficientPlayers
		}
		m.State = model.MatchStateActive
		m.StartedAt = now
		return model.EventMatchStarted, nil
	})
}

// Pause freezes an active match
func (r *Registry) Pause(matchID model.MatchID, callerID model.PlayerID) (*model.Match, error) {
	return r.transition(matchID, callerID, func(m *model.Match, now time.Time) (model.EventType, error) {
		if m.State != model.MatchStateActive {
			return "", model.ErrMatchNotActive
		}
		m.State = model.MatchStatePaused
		m.PausedAt = now
		return model.EventMatchPaused, nil
	})
}

// Resume unfreezes a paused match
func (r *Registry) Resume(matchID model.MatchID, callerID model.PlayerID) (*model.Match, error) {
	return r.transition(matchID, callerID, func(m *model.Match, now time.Time) (model.EventType, error) {
		if m.State != model.MatchStatePaused {
			return "", model.ErrMatchNotPaused
		}
		m.State = model.MatchStateActive
		return model.EventMatchResumed, nil
	})
}

// End finishes an active or paused match. The winner is the current
// leaderboard head; ties go to the earlier joiner.
func (r *Registry) End(matchID model.MatchID, callerID model.PlayerID) (*model.Match, error) {
	return r.transition(matchID, callerID, func(m *model.Match, now time.Time) (model.EventType, error) {
		if m.State != model.MatchStateActive && m.State != model.MatchStatePaused {
			return "", model.ErrMatchNotActive
		}
		m.State = model.MatchStateEnded
		m.EndedAt = now
		if ranked := m.Ranked(); len(ranked) > 0 {
			m.WinnerID = ranked[0].ID
		}
		return model.EventMatchEnded, nil
	})
}

// Restart returns an ended match to the waiting state with every score,
// shot count, inventory and history zeroed. Player IDs and tokens are
// unchanged, so printed badges survive the rematch.
func (r *Registry) Restart(matchID model.MatchID, callerID model.PlayerID) (*model.Match, error) {
	return r.transition(matchID, callerID, func(m *model.Match, now time.Time) (model.EventType, error) {
		if m.State != model.MatchStateEnded {
			return "", model.ErrMatchNotEnded
		}
		r.resetForRematch(m)
		m.State = model.MatchStateWaiting
		return model.EventMatchRestarted, nil
	})
}

// SetStatus records a player's connection state and announces it
func (r *Registry) SetStatus(matchID model.MatchID, playerID model.PlayerID, status model.PlayerStatus) error {
	sess, err := r.session(matchID)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	m := sess.match

	player := m.GetPlayer(playerID)
	if player == nil {
		return model.ErrPlayerNotFound
	}
	if player.Status == status {
		return nil
	}
	player.Status = status
	m.UpdatedAt = r.clock.Now()

	switch status {
	case model.StatusConnected:
		r.publisher.Broadcast(matchID, r.event(model.EventPlayerConnected, matchID, playerID,
			model.PlayerConnectionPayload{PlayerID: playerID, Name: player.Name, Status: status}))
	case model.StatusDisconnected:
		r.publisher.Broadcast(matchID, r.event(model.EventPlayerDisconnected, matchID, playerID,
			model.PlayerConnectionPayload{PlayerID: playerID, Name: player.Name, Status: status}))
	}

	r.mirror.SavePlayer(matchID, player.Clone())
	return nil
}

// BeginShot validates that a shot attempt may be resolved and counts
// it against the shooter. Called once per attempt before any decode or
// classification work.
func (r *Registry) BeginShot(matchID model.MatchID, shooterID model.PlayerID) (*model.Match, error) {
	sess, err := r.session(matchID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	m := sess.match

	if m.State != model.MatchStateActive {
		return nil, model.ErrMatchNotActive
	}
	shooter := m.GetPlayer(shooterID)
	if shooter == nil {
		return nil, model.ErrPlayerNotFound
	}

	shooter.Shots++
	m.UpdatedAt = r.clock.Now()
	r.mirror.SavePlayer(matchID, shooter.Clone())
	return m.Clone(), nil
}

// HitResult describes a resolved badge hit
type HitResult struct {
	Shooter model.PlayerSummary
	Target  model.PlayerSummary
	Points  int
	Ended   bool
}

// RecordHit awards the shooter the fixed hit score for decoding the
// target's badge. Self-hits are rejected; the pipeline treats a badge
// resolving to the shooter as classification fallback instead.
func (r *Registry) RecordHit(matchID model.MatchID, shooterID, targetID model.PlayerID) (*HitResult, error) {
	sess, err := r.session(matchID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	m := sess.match

	if m.State != model.MatchStateActive {
		return nil, model.ErrMatchNotActive
	}
	shooter := m.GetPlayer(shooterID)
	target := m.GetPlayer(targetID)
	if shooter == nil || target == nil {
		return nil, model.ErrPlayerNotFound
	}
	if shooterID == targetID {
		return nil, model.ErrInvalidToken
	}

	points := r.scoring.ScoreHit()
	ended := r.applyScore(m, shooter, model.ScoreEntry{
		ID:        uuid.New().String(),
		Cause:     model.CauseHit,
		Points:    points,
		Detail:    fmt.Sprintf("hit %s", target.Name),
		CreatedAt: r.clock.Now(),
	})

	r.mirror.SavePlayer(matchID, shooter.Clone())
	if ended {
		r.mirror.SaveMatch(m.Clone())
	}

	return &HitResult{
		Shooter: model.SummarizePlayer(shooter),
		Target:  model.SummarizePlayer(target),
		Points:  points,
		Ended:   ended,
	}, nil
}

// Collect appends freshly classified items to the shooter's inventory
// ledger. No points are awarded until the items are deposited.
func (r *Registry) Collect(matchID model.MatchID, shooterID model.PlayerID, items []model.Item) ([]model.Item, error) {
	if len(items) == 0 {
		return nil, nil
	}

	sess, err := r.session(matchID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	m := sess.match

	if m.State != model.MatchStateActive {
		return nil, model.ErrMatchNotActive
	}
	shooter := m.GetPlayer(shooterID)
	if shooter == nil {
		return nil, model.ErrPlayerNotFound
	}

	now := r.clock.Now()
	stamped := r.stampItems(items, now)
	shooter.Inventory = append(shooter.Inventory, stamped...)
	m.UpdatedAt = now

	r.publisher.Broadcast(matchID, r.event(model.EventItemsCollected, matchID, shooterID,
		model.ItemsCollectedPayload{
			PlayerID: shooterID,
			Name:     shooter.Name,
			Items:    model.ItemPayloadsFrom(stamped),
		}))
	r.mirror.AppendInventory(matchID, shooterID, stamped...)

	return stamped, nil
}

// DepositResult describes one inventory reconciliation at containers
type DepositResult struct {
	Shooter        model.PlayerSummary
	Redeemed       []scoring.RedeemedItem
	Unmatched      []model.Item
	FallbackPoints int
	Total          int
	Ended          bool
}

// Deposit resolves a shot at disposal containers. Items detected in the
// same photo are collected first, then the whole inventory is popped
// atomically and reconciled: matched items redeem for category points,
// the rest are consumed for the flat fallback. Nothing returns to the
// ledger. The pop and the score mutation happen in one pass under the
// session lock, so two concurrent deposits can never spend the same
// item twice.
func (r *Registry) Deposit(matchID model.MatchID, shooterID model.PlayerID, detected []model.Item, containers []model.Container) (*DepositResult, error) {
	sess, err := r.session(matchID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	m := sess.match

	if m.State != model.MatchStateActive {
		return nil, model.ErrMatchNotActive
	}
	shooter := m.GetPlayer(shooterID)
	if shooter == nil {
		return nil, model.ErrPlayerNotFound
	}

	now := r.clock.Now()

	// Atomic pop-all, merged with this frame's detections
	working := shooter.Inventory
	shooter.Inventory = nil
	working = append(working, r.stampItems(detected, now)...)

	result := r.scoring.Reconcile(working, containers)

	entries := make([]model.ScoreEntry, 0, len(result.Redeemed)+1)
	for _, redeemed := range result.Redeemed {
		entries = append(entries, model.ScoreEntry{
			ID:        uuid.New().String(),
			Cause:     model.CauseItemRedeemed,
			Points:    redeemed.Points,
			Detail:    fmt.Sprintf("%s into %s", redeemed.Item.Name, redeemed.Container.Name),
			CreatedAt: now,
		})
		r.publisher.Broadcast(matchID, r.event(model.EventItemRedeemed, matchID, shooterID,
			model.ItemRedeemedPayload{
				PlayerID:  shooterID,
				Name:      shooter.Name,
				Item:      model.ItemPayloadFrom(redeemed.Item),
				Container: redeemed.Container.Name,
				Points:    redeemed.Points,
			}))
	}
	if result.FallbackPoints > 0 {
		entries = append(entries, model.ScoreEntry{
			ID:        uuid.New().String(),
			Cause:     model.CauseItemsCollected,
			Points:    result.FallbackPoints,
			Detail:    fmt.Sprintf("%d unmatched items consumed", len(result.Unmatched)),
			CreatedAt: now,
		})
		r.publisher.Broadcast(matchID, r.event(model.EventItemsCollected, matchID, shooterID,
			model.ItemsCollectedPayload{
				PlayerID: shooterID,
				Name:     shooter.Name,
				Items:    model.ItemPayloadsFrom(result.Unmatched),
			}))
	}

	ended := r.applyScore(m, shooter, entries...)
	m.UpdatedAt = now

	r.mirror.ClearInventory(matchID, shooterID)
	r.mirror.SavePlayer(matchID, shooter.Clone())
	if ended {
		r.mirror.SaveMatch(m.Clone())
	}

	return &DepositResult{
		Shooter:        model.SummarizePlayer(shooter),
		Redeemed:       result.Redeemed,
		Unmatched:      result.Unmatched,
		FallbackPoints: result.FallbackPoints,
		Total:          result.Total,
		Ended:          ended,
	}, nil
}

// Restore loads persisted matches into the registry at startup. Every
// restored player starts disconnected until a socket binds.
func (r *Registry) Restore(matches []*model.Match) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range matches {
		if m == nil || m.ID == "" {
			continue
		}
		clone := m.Clone()
		for _, p := range clone.Players {
			if p.Status == model.StatusConnected {
				p.Status = model.StatusDisconnected
			}
		}
		r.sessions[clone.ID] = &session{match: clone}
	}
	r.logger.Info("matches restored", slog.Int("count", len(matches)))
}

// Sweep removes ended matches idle for longer than ttl and returns the
// removed IDs so the realtime layer can drop their hubs
func (r *Registry) Sweep(ttl time.Duration) []model.MatchID {
	cutoff := r.clock.Now().Add(-ttl)

	r.mu.Lock()
	defer r.mu.Unlock()

	var removed []model.MatchID
	for id, sess := range r.sessions {
		sess.mu.Lock()
		expired := sess.match.State == model.MatchStateEnded && sess.match.UpdatedAt.Before(cutoff)
		sess.mu.Unlock()
		if expired {
			delete(r.sessions, id)
			r.mirror.DeleteMatch(id)
			removed = append(removed, id)
		}
	}
	if len(removed) > 0 {
		r.logger.Info("ended matches swept", slog.Int("count", len(removed)))
	}
	return removed
}

// transition runs one admin-only lifecycle verb under the session lock
func (r *Registry) transition(
	matchID model.MatchID,
	callerID model.PlayerID,
	verb func(m *model.Match, now time.Time) (model.EventType, error),
) (*model.Match, error) {
	sess, err := r.session(matchID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	m := sess.match

	if m.GetPlayer(callerID) == nil {
		return nil, model.ErrPlayerNotFound
	}
	if callerID != m.AdminID {
		return nil, model.ErrNotAdmin
	}

	now := r.clock.Now()
	eventType, err := verb(m, now)
	if err != nil {
		return nil, err
	}
	m.UpdatedAt = now

	payload := model.MatchLifecyclePayload{State: m.State}
	if m.WinnerID != "" {
		if winner := m.GetPlayer(m.WinnerID); winner != nil {
			payload.WinnerID = winner.ID
			payload.WinnerName = winner.Name
		}
	}
	r.publisher.Broadcast(matchID, r.event(eventType, matchID, callerID, payload))
	r.mirror.SaveMatch(m.Clone())

	r.logger.Info("match transition",
		slog.String("match_id", string(matchID)),
		slog.String("state", string(m.State)))
	return m.Clone(), nil
}

// applyScore is the single path every point change passes through. It
// appends the score entries, mutates the score by their sum, announces
// the new leaderboard, and auto-ends the match when the shooter crosses
// the win threshold. Callers hold the session lock. Returns whether the
// match ended.
func (r *Registry) applyScore(m *model.Match, player *model.Player, entries ...model.ScoreEntry) bool {
	if len(entries) == 0 {
		return false
	}

	delta := 0
	for _, entry := range entries {
		delta += entry.Points
	}
	player.Score += delta
	player.History = append(player.History, entries...)

	r.publisher.Broadcast(m.ID, r.event(model.EventLeaderboardUpdate, m.ID, player.ID,
		model.LeaderboardPayload{Rows: model.LeaderboardFrom(m)}))

	if m.State != model.MatchStateActive || player.Score < m.WinScore {
		return false
	}

	// Threshold crossed: end the match and notify each player privately
	now := r.clock.Now()
	m.State = model.MatchStateEnded
	m.EndedAt = now
	m.UpdatedAt = now
	m.WinnerID = player.ID

	r.publisher.Broadcast(m.ID, r.event(model.EventMatchEnded, m.ID, player.ID,
		model.MatchLifecyclePayload{
			State:      m.State,
			WinnerID:   player.ID,
			WinnerName: player.Name,
		}))
	r.publisher.SendTo(m.ID, player.ID, r.event(model.EventPlayerWon, m.ID, player.ID,
		model.PlayerWonPayload{Score: player.Score, WinScore: m.WinScore}))

	for _, other := range m.Players {
		if other.ID == player.ID {
			continue
		}
		other.Status = model.StatusEliminated
		r.publisher.SendTo(m.ID, other.ID, r.event(model.EventPlayerLost, m.ID, other.ID,
			model.PlayerLostPayload{
				WinnerID:   player.ID,
				WinnerName: player.Name,
				Score:      other.Score,
			}))
		r.mirror.SavePlayer(m.ID, other.Clone())
	}

	r.logger.Info("match ended at threshold",
		slog.String("match_id", string(m.ID)),
		slog.String("winner_id", string(player.ID)),
		slog.Int("score", player.Score))
	return true
}

// resetForRematch zeroes gameplay state while preserving identities and
// badge tokens. Callers hold the session lock.
func (r *Registry) resetForRematch(m *model.Match) {
	for _, p := range m.Players {
		p.Score = 0
		p.Shots = 0
		p.Inventory = nil
		p.History = nil
		if p.Status == model.StatusEliminated {
			p.Status = model.StatusDisconnected
		}
		r.mirror.SavePlayer(m.ID, p.Clone())
		r.mirror.ClearInventory(m.ID, p.ID)
	}
	m.WinnerID = ""
	m.StartedAt = time.Time{}
	m.PausedAt = time.Time{}
	m.EndedAt = time.Time{}
}

func (r *Registry) newPlayer(matchID model.MatchID, name string, role model.PlayerRole, now time.Time) *model.Player {
	id := model.PlayerID(uuid.New().String())
	return &model.Player{
		ID:       id,
		Name:     name,
		Role:     role,
		Token:    model.NewToken(matchID, id),
		Status:   model.StatusDisconnected,
		JoinedAt: now,
	}
}

// stampItems assigns identities and collection times to freshly
// classified items
func (r *Registry) stampItems(items []model.Item, now time.Time) []model.Item {
	stamped := make([]model.Item, len(items))
	for i, item := range items {
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		item.CollectedAt = now
		stamped[i] = item
	}
	return stamped
}

func (r *Registry) session(matchID model.MatchID) (*session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess, ok := r.sessions[matchID]
	if !ok {
		return nil, model.ErrMatchNotFound
	}
	return sess, nil
}

func (r *Registry) event(t model.EventType, matchID model.MatchID, playerID model.PlayerID, payload any) model.Event {
	return model.Event{
		Type:      t,
		Timestamp: r.clock.Now(),
		MatchID:   matchID,
		PlayerID:  playerID,
		Payload:   payload,
	}
}

func validName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", model.ErrNameRequired
	}
	if len(name) > model.MaxNameLength {
		return "", model.ErrNameTooLong
	}
	return name, nil
}

// RegistryInterface is the registry surface consumed by the transport
// layers, for dependency injection in tests
type RegistryInterface interface {
	CreateMatch(name, adminName string, winScore int) (*model.Match, error)
	Join(matchID model.MatchID, playerName string) (*model.Match, *model.Player, error)
	GetMatch(matchID model.MatchID) (*model.Match, error)
	ListMatches() []*model.Match
	Leaderboard(matchID model.MatchID) ([]model.LeaderboardRow, error)
	Roster(matchID model.MatchID) ([]*model.Player, error)
	Start(matchID model.MatchID, callerID model.PlayerID) (*model.Match, error)
	Pause(matchID model.MatchID, callerID model.PlayerID) (*model.Match, error)
	Resume(matchID model.MatchID, callerID model.PlayerID) (*model.Match, error)
	End(matchID model.MatchID, callerID model.PlayerID) (*model.Match, error)
	Restart(matchID model.MatchID, callerID model.PlayerID) (*model.Match, error)
	SetStatus(matchID model.MatchID, playerID model.PlayerID, status model.PlayerStatus) error
	BeginShot(matchID model.MatchID, shooterID model.PlayerID) (*model.Match, error)
	RecordHit(matchID model.MatchID, shooterID, targetID model.PlayerID) (*HitResult, error)
	Collect(matchID model.MatchID, shooterID model.PlayerID, items []model.Item) ([]model.Item, error)
	Deposit(matchID model.MatchID, shooterID model.PlayerID, detected []model.Item, containers []model.Container) (*DepositResult, error)
}

var _ RegistryInterface = (*Registry)(nil)
