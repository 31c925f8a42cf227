package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/ecoshot/ecoshot/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.MatchTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

// testMatch builds a two-player match with one carried item
func testMatch() *model.Match {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	return &model.Match{
		ID:       "KWX4T2",
		Name:     "park cleanup",
		State:    model.MatchStateActive,
		AdminID:  "p-alice",
		WinScore: 300,
		Players: []*model.Player{
			{
				ID:       "p-alice",
				Name:     "Alice",
				Role:     model.RoleAdmin,
				Token:    model.NewToken("KWX4T2", "p-alice"),
				Status:   model.StatusConnected,
				Score:    50,
				Shots:    2,
				History: []model.ScoreEntry{
					{ID: "se-1", Cause: model.CauseHit, Points: 50, Detail: "Bob", CreatedAt: now},
				},
				JoinedAt: now,
			},
			{
				ID:     "p-bob",
				Name:   "Bob",
				Role:   model.RolePlayer,
				Token:  model.NewToken("KWX4T2", "p-bob"),
				Status: model.StatusConnected,
				Inventory: []model.Item{
					{ID: "item-1", Name: "bottle", Category: model.CategoryRecyclable, BenefitValue: 0.8, CollectedAt: now},
				},
				JoinedAt: now.Add(time.Minute),
			},
		},
		CreatedAt: now,
		StartedAt: now.Add(2 * time.Minute),
		UpdatedAt: now.Add(2 * time.Minute),
	}
}

// Match tests

func (s *StorageSuite) TestSaveAndGetMatch() {
	match := testMatch()

	err := s.storage.SaveMatch(s.ctx, match)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetMatch(s.ctx, match.ID)
	s.Require().NoError(err)
	s.Equal(match.ID, retrieved.ID)
	s.Equal(match.State, retrieved.State)
	s.Equal(match.WinScore, retrieved.WinScore)

	// Roster comes back in join order with ledgers intact
	s.Require().Len(retrieved.Players, 2)
	s.Equal(model.PlayerID("p-alice"), retrieved.Players[0].ID)
	s.Equal(model.PlayerID("p-bob"), retrieved.Players[1].ID)
	s.Equal(50, retrieved.Players[0].Score)
	s.Require().Len(retrieved.Players[0].History, 1)
	s.Equal(model.CauseHit, retrieved.Players[0].History[0].Cause)
	s.Require().Len(retrieved.Players[1].Inventory, 1)
	s.Equal("bottle", retrieved.Players[1].Inventory[0].Name)
}

func (s *StorageSuite) TestGetMatchNotFound() {
	_, err := s.storage.GetMatch(s.ctx, "NOPE99")
	s.ErrorIs(err, model.ErrMatchNotFound)
}

func (s *StorageSuite) TestListMatches() {
	match1 := testMatch()
	match2 := testMatch()
	match2.ID = "ZQRP77"

	s.Require().NoError(s.storage.SaveMatch(s.ctx, match1))
	s.Require().NoError(s.storage.SaveMatch(s.ctx, match2))

	matches, err := s.storage.ListMatches(s.ctx)
	s.Require().NoError(err)
	s.Len(matches, 2)
}

func (s *StorageSuite) TestDeleteMatch() {
	match := testMatch()
	s.Require().NoError(s.storage.SaveMatch(s.ctx, match))

	err := s.storage.DeleteMatch(s.ctx, match.ID)
	s.Require().NoError(err)

	_, err = s.storage.GetMatch(s.ctx, match.ID)
	s.ErrorIs(err, model.ErrMatchNotFound)

	// Player and inventory keys go with the match
	s.False(s.mini.Exists(playerKey(match.ID, "p-alice")))
	s.False(s.mini.Exists(inventoryKey(match.ID, "p-bob")))

	matches, err := s.storage.ListMatches(s.ctx)
	s.Require().NoError(err)
	s.Empty(matches)
}

func (s *StorageSuite) TestMatchTTL() {
	match := testMatch()
	s.Require().NoError(s.storage.SaveMatch(s.ctx, match))

	ttl := s.mini.TTL(matchKey(match.ID))
	s.True(ttl > 0, "Match metadata should have TTL")
}

// Player tests

func (s *StorageSuite) TestSavePlayerUpdatesRecord() {
	match := testMatch()
	s.Require().NoError(s.storage.SaveMatch(s.ctx, match))

	bob := match.Players[1].Clone()
	bob.Score = 120
	bob.Shots = 7
	err := s.storage.SavePlayer(s.ctx, match.ID, bob)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetMatch(s.ctx, match.ID)
	s.Require().NoError(err)
	s.Equal(120, retrieved.Players[1].Score)
	s.Equal(7, retrieved.Players[1].Shots)

	// The ledger is untouched by player record writes
	s.Len(retrieved.Players[1].Inventory, 1)
}

// Inventory ledger tests

func (s *StorageSuite) TestAppendAndPopInventory() {
	match := testMatch()
	s.Require().NoError(s.storage.SaveMatch(s.ctx, match))

	extra := []model.Item{
		{ID: "item-2", Name: "apple core", Category: model.CategoryOrganic, BenefitValue: 0.3},
		{ID: "item-3", Name: "battery", Category: model.CategoryHazardous, BenefitValue: 1.5},
	}
	err := s.storage.AppendInventory(s.ctx, match.ID, "p-bob", extra...)
	s.Require().NoError(err)

	items, err := s.storage.PopInventory(s.ctx, match.ID, "p-bob")
	s.Require().NoError(err)

	// Append order is preserved: the seeded bottle first, then the batch
	s.Require().Len(items, 3)
	s.Equal("bottle", items[0].Name)
	s.Equal("apple core", items[1].Name)
	s.Equal("battery", items[2].Name)
}

func (s *StorageSuite) TestPopInventoryEmptiesLedger() {
	match := testMatch()
	s.Require().NoError(s.storage.SaveMatch(s.ctx, match))

	_, err := s.storage.PopInventory(s.ctx, match.ID, "p-bob")
	s.Require().NoError(err)

	items, err := s.storage.PopInventory(s.ctx, match.ID, "p-bob")
	s.Require().NoError(err)
	s.Empty(items)
}

func (s *StorageSuite) TestPopInventoryEmpty() {
	match := testMatch()
	s.Require().NoError(s.storage.SaveMatch(s.ctx, match))

	items, err := s.storage.PopInventory(s.ctx, match.ID, "p-alice")
	s.Require().NoError(err)
	s.Empty(items)
}

func (s *StorageSuite) TestPing() {
	s.NoError(s.storage.Ping(s.ctx))
}
