package factory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/ecoshot/ecoshot/internal/config"
	"github.com/ecoshot/ecoshot/internal/model"
	"github.com/ecoshot/ecoshot/internal/testutil"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

// createMatch creates a match with one joined opponent and returns the
// snapshot alongside both player records
func (s *IntegrationSuite) createMatch(code string, winScore int) (*model.Match, *model.Player, *model.Player) {
	s.app.MockRandom.QueueString(code)
	m, err := s.app.Registry.CreateMatch("Park Cleanup", "Ava", winScore)
	s.Require().NoError(err)
	admin := m.GetPlayer(m.AdminID)
	s.Require().NotNil(admin)

	_, opponent, err := s.app.Registry.Join(m.ID, "Ben")
	s.Require().NoError(err)
	return m, admin, opponent
}

// Test: Complete match flow from creation to rematch
func (s *IntegrationSuite) TestCompleteMatchFlow() {
	m, ava, ben := s.createMatch("MATCH1", 100)

	// Step 1: Start the match
	started, err := s.app.Registry.Start(m.ID, ava.ID)
	s.Require().NoError(err)
	s.Equal(model.MatchStateActive, started.State)

	// Step 2: Ava photographs Ben's badge for a hit
	s.app.Scanner.Set(string(ben.Token))
	result, err := s.app.Pipeline.Resolve(s.ctx, m.ID, ava.ID, []byte("badge-photo"))
	s.Require().NoError(err)
	s.Equal(model.OutcomeHit, result.Outcome)
	s.Equal(50, result.Points)
	s.Require().NotNil(result.Target)
	s.Equal("Ben", result.Target.Name)

	// Step 3: A shot with nothing in it is a miss
	s.app.Scanner.Clear()
	result, err = s.app.Pipeline.Resolve(s.ctx, m.ID, ava.ID, []byte("empty-scene"))
	s.Require().NoError(err)
	s.Equal(model.OutcomeMiss, result.Outcome)

	// Step 4: A scene with litter but no containers collects it
	s.app.Classifier.Result = model.Classification{
		Items: []model.Item{
			{Name: "plastic bottle", Category: model.CategoryRecyclable, BenefitValue: 0.8},
		},
		Description: "a bottle on a park bench",
	}
	result, err = s.app.Pipeline.Resolve(s.ctx, m.ID, ava.ID, []byte("litter-scene"))
	s.Require().NoError(err)
	s.Equal(model.OutcomeCollected, result.Outcome)
	s.Len(result.Collected, 1)
	s.Equal(0, result.Points)

	snap, err := s.app.Registry.GetMatch(m.ID)
	s.Require().NoError(err)
	s.Len(snap.GetPlayer(ava.ID).Inventory, 1)

	// Step 5: Deposit at a recycling point redeems both the carried
	// bottle (40) and the can detected in the same frame (25), which
	// crosses the 100 point threshold (50 + 65) and ends the match
	s.app.Classifier.Result = model.Classification{
		Items: []model.Item{
			{Name: "soda can", Category: model.CategoryRecyclable, BenefitValue: 0.5},
		},
		Containers: []model.Container{
			{Name: "recycling bin", Category: model.ContainerRecycling},
		},
	}
	result, err = s.app.Pipeline.Resolve(s.ctx, m.ID, ava.ID, []byte("deposit-scene"))
	s.Require().NoError(err)
	s.Equal(model.OutcomeDeposited, result.Outcome)
	s.Len(result.Redeemed, 2)
	s.Equal(65, result.Points)

	snap, err = s.app.Registry.GetMatch(m.ID)
	s.Require().NoError(err)
	s.Equal(model.MatchStateEnded, snap.State)
	s.Equal(ava.ID, snap.WinnerID)
	s.Equal(115, snap.GetPlayer(ava.ID).Score)
	s.Equal(model.StatusEliminated, snap.GetPlayer(ben.ID).Status)
	s.Empty(snap.GetPlayer(ava.ID).Inventory)

	// Step 6: Restart zeroes scores but keeps identities and badges
	restarted, err := s.app.Registry.Restart(m.ID, ava.ID)
	s.Require().NoError(err)
	s.Equal(model.MatchStateWaiting, restarted.State)
	s.Equal(0, restarted.GetPlayer(ava.ID).Score)
	s.Equal(ben.Token, restarted.GetPlayer(ben.ID).Token)

	// Step 7: The rematch starts with the same roster
	started, err = s.app.Registry.Start(m.ID, ava.ID)
	s.Require().NoError(err)
	s.Equal(model.MatchStateActive, started.State)
	s.Len(started.Players, 2)
}

// Test: Shots are rejected unless the match is active
func (s *IntegrationSuite) TestShotsRejectedWhenNotActive() {
	m, ava, _ := s.createMatch("MATCH1", 0)

	_, err := s.app.Pipeline.Resolve(s.ctx, m.ID, ava.ID, []byte("too-early"))
	s.ErrorIs(err, model.ErrMatchNotActive)

	_, err = s.app.Registry.Start(m.ID, ava.ID)
	s.Require().NoError(err)
	_, err = s.app.Registry.Pause(m.ID, ava.ID)
	s.Require().NoError(err)

	_, err = s.app.Pipeline.Resolve(s.ctx, m.ID, ava.ID, []byte("paused"))
	s.ErrorIs(err, model.ErrMatchNotActive)
}

// Test: A deposit consumes unmatched inventory for the flat fallback
func (s *IntegrationSuite) TestDepositConsumesUnmatchedItems() {
	m, ava, _ := s.createMatch("MATCH1", 0)
	_, err := s.app.Registry.Start(m.ID, ava.ID)
	s.Require().NoError(err)

	s.app.Classifier.Result = model.Classification{
		Items: []model.Item{
			{Name: "battery", Category: model.CategoryHazardous, BenefitValue: 1.2},
		},
	}
	_, err = s.app.Pipeline.Resolve(s.ctx, m.ID, ava.ID, []byte("battery-scene"))
	s.Require().NoError(err)

	// Recycling accepts nothing hazardous, so the battery is consumed
	// for the fallback award instead of returning to the ledger
	s.app.Classifier.Result = model.Classification{
		Containers: []model.Container{
			{Name: "recycling bin", Category: model.ContainerRecycling},
		},
	}
	result, err := s.app.Pipeline.Resolve(s.ctx, m.ID, ava.ID, []byte("bin-scene"))
	s.Require().NoError(err)
	s.Equal(model.OutcomeDeposited, result.Outcome)
	s.Empty(result.Redeemed)
	s.Len(result.Collected, 1)
	s.Equal(20, result.FallbackPoints)
	s.Equal(20, result.Points)

	snap, _ := s.app.Registry.GetMatch(m.ID)
	s.Empty(snap.GetPlayer(ava.ID).Inventory)
	s.Equal(20, snap.GetPlayer(ava.ID).Score)
}

// Test: A badge from another match falls through to classification
func (s *IntegrationSuite) TestForeignBadgeIsNotAHit() {
	m, ava, _ := s.createMatch("MATCH1", 0)
	_, err := s.app.Registry.Start(m.ID, ava.ID)
	s.Require().NoError(err)

	s.app.Scanner.Set(string(model.NewToken("OTHER1", "stranger")))
	result, err := s.app.Pipeline.Resolve(s.ctx, m.ID, ava.ID, []byte("foreign-badge"))
	s.Require().NoError(err)
	s.Equal(model.OutcomeMiss, result.Outcome)

	snap, _ := s.app.Registry.GetMatch(m.ID)
	s.Equal(0, snap.GetPlayer(ava.ID).Score)
	s.Equal(1, snap.GetPlayer(ava.ID).Shots)
}

// Test: Photographing your own badge never scores
func (s *IntegrationSuite) TestOwnBadgeIsNotAHit() {
	m, ava, _ := s.createMatch("MATCH1", 0)
	_, err := s.app.Registry.Start(m.ID, ava.ID)
	s.Require().NoError(err)

	s.app.Scanner.Set(string(ava.Token))
	result, err := s.app.Pipeline.Resolve(s.ctx, m.ID, ava.ID, []byte("own-badge"))
	s.Require().NoError(err)
	s.Equal(model.OutcomeMiss, result.Outcome)

	snap, _ := s.app.Registry.GetMatch(m.ID)
	s.Equal(0, snap.GetPlayer(ava.ID).Score)
}

// Test: Mirrored state survives a process restart via rehydration
func (s *IntegrationSuite) TestRehydrationRestoresMatches() {
	m, ava, ben := s.createMatch("MATCH1", 0)
	_, err := s.app.Registry.Start(m.ID, ava.ID)
	s.Require().NoError(err)

	s.app.Scanner.Set(string(ben.Token))
	_, err = s.app.Pipeline.Resolve(s.ctx, m.ID, ava.ID, []byte("badge-photo"))
	s.Require().NoError(err)

	s.Require().NoError(s.app.Registry.SetStatus(m.ID, ava.ID, model.StatusConnected))

	// Drain the async mirror, then boot a second app on the same gateway
	s.app.Persister.Close()

	second := newWithDependencies(deps{
		gateway:    s.app.Gateway,
		clock:      s.app.MockClock,
		random:     s.app.MockRandom,
		decoder:    s.app.Scanner,
		classifier: s.app.Classifier,
		config:     config.Config{DefaultWinScore: 300},
		logger:     testutil.NopLogger(),
	})
	s.Require().NoError(second.Rehydrate(s.ctx))

	restored, err := second.Registry.GetMatch(m.ID)
	s.Require().NoError(err)
	s.Equal(model.MatchStateActive, restored.State)
	s.Equal(50, restored.GetPlayer(ava.ID).Score)
	s.Equal(ben.Token, restored.GetPlayer(ben.ID).Token)

	// Nobody has a live socket after a restart
	s.Equal(model.StatusDisconnected, restored.GetPlayer(ava.ID).Status)
}
