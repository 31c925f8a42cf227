package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/ecoshot/ecoshot/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func testMatch() *model.Match {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	return &model.Match{
		ID:       "KWX4T2",
		State:    model.MatchStateActive,
		AdminID:  "p-alice",
		WinScore: 300,
		Players: []*model.Player{
			{ID: "p-alice", Name: "Alice", Role: model.RoleAdmin, Status: model.StatusConnected, JoinedAt: now},
			{
				ID: "p-bob", Name: "Bob", Role: model.RolePlayer, Status: model.StatusConnected,
				Inventory: []model.Item{
					{ID: "item-1", Name: "bottle", Category: model.CategoryRecyclable, BenefitValue: 0.8},
				},
				JoinedAt: now.Add(time.Minute),
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Match tests

func (s *StorageSuite) TestSaveAndGetMatch() {
	match := testMatch()

	err := s.storage.SaveMatch(s.ctx, match)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetMatch(s.ctx, "KWX4T2")
	s.Require().NoError(err)
	s.Equal(match.ID, retrieved.ID)
	s.Require().Len(retrieved.Players, 2)
	s.Equal(model.PlayerID("p-alice"), retrieved.Players[0].ID)
}

func (s *StorageSuite) TestGetMatchNotFound() {
	_, err := s.storage.GetMatch(s.ctx, "NOPE99")
	s.ErrorIs(err, model.ErrMatchNotFound)
}

func (s *StorageSuite) TestGetMatchReturnsCopy() {
	match := testMatch()
	s.Require().NoError(s.storage.SaveMatch(s.ctx, match))

	first, err := s.storage.GetMatch(s.ctx, "KWX4T2")
	s.Require().NoError(err)
	first.Players[0].Score = 999
	first.State = model.MatchStateEnded

	second, err := s.storage.GetMatch(s.ctx, "KWX4T2")
	s.Require().NoError(err)
	s.Equal(0, second.Players[0].Score)
	s.Equal(model.MatchStateActive, second.State)
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
	s.Require().NoError(s.storage.SaveMatch(s.ctx, testMatch()))

	err := s.storage.DeleteMatch(s.ctx, "KWX4T2")
	s.Require().NoError(err)

	_, err = s.storage.GetMatch(s.ctx, "KWX4T2")
	s.ErrorIs(err, model.ErrMatchNotFound)
}

// Player tests

func (s *StorageSuite) TestSavePlayerUpdatesRecord() {
	match := testMatch()
	s.Require().NoError(s.storage.SaveMatch(s.ctx, match))

	bob := match.Players[1].Clone()
	bob.Score = 70
	s.Require().NoError(s.storage.SavePlayer(s.ctx, "KWX4T2", bob))

	retrieved, err := s.storage.GetMatch(s.ctx, "KWX4T2")
	s.Require().NoError(err)
	s.Equal(70, retrieved.Players[1].Score)

	// The ledger is owned by the inventory operations
	s.Len(retrieved.Players[1].Inventory, 1)
}

func (s *StorageSuite) TestSavePlayerUnknownMatch() {
	err := s.storage.SavePlayer(s.ctx, "NOPE99", &model.Player{ID: "p-x"})
	s.ErrorIs(err, model.ErrMatchNotFound)
}

// Inventory ledger tests

func (s *StorageSuite) TestAppendAndPopInventory() {
	s.Require().NoError(s.storage.SaveMatch(s.ctx, testMatch()))

	err := s.storage.AppendInventory(s.ctx, "KWX4T2", "p-bob",
		model.Item{ID: "item-2", Name: "apple core", Category: model.CategoryOrganic})
	s.Require().NoError(err)

	items, err := s.storage.PopInventory(s.ctx, "KWX4T2", "p-bob")
	s.Require().NoError(err)
	s.Require().Len(items, 2)
	s.Equal("bottle", items[0].Name)
	s.Equal("apple core", items[1].Name)

	items, err = s.storage.PopInventory(s.ctx, "KWX4T2", "p-bob")
	s.Require().NoError(err)
	s.Empty(items)
}

func (s *StorageSuite) TestAppendInventoryUnknownPlayer() {
	s.Require().NoError(s.storage.SaveMatch(s.ctx, testMatch()))

	err := s.storage.AppendInventory(s.ctx, "KWX4T2", "p-nope", model.Item{ID: "item-9"})
	s.ErrorIs(err, model.ErrPlayerNotFound)
}
