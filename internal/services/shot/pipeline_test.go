package shot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/ecoshot/ecoshot/internal/dependencies/mocks"
	"github.com/ecoshot/ecoshot/internal/model"
	"github.com/ecoshot/ecoshot/internal/services/classify"
	"github.com/ecoshot/ecoshot/internal/services/match"
	"github.com/ecoshot/ecoshot/internal/services/scoring"
	"github.com/ecoshot/ecoshot/internal/testutil"
)

// stubDecoder returns a fixed decode outcome
type stubDecoder struct {
	text string
	err  error
}

func (d *stubDecoder) DecodeToken(context.Context, []byte) (string, error) {
	return d.text, d.err
}

type PipelineSuite struct {
	suite.Suite
	ctx        context.Context
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	publisher  *mocks.MockPublisher
	registry   *match.Registry
	decoder    *stubDecoder
	classifier *classify.StaticClassifier

	matchID model.MatchID
	alice   *model.Player
	bob     *model.Player
}

func TestPipelineSuite(t *testing.T) {
	suite.Run(t, new(PipelineSuite))
}

func (s *PipelineSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = mocks.NewMockClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.publisher = mocks.NewMockPublisher()
	s.registry = match.NewRegistry(
		match.DefaultConfig(),
		scoring.New(),
		mocks.NewMockMirror(),
		s.publisher,
		s.clock,
		s.random,
		testutil.NopLogger(),
	)
	s.decoder = &stubDecoder{err: context.Canceled}
	s.classifier = &classify.StaticClassifier{}

	s.random.QueueString("GAME42")
	m, err := s.registry.CreateMatch("", "Alice", 0)
	s.Require().NoError(err)
	s.matchID = m.ID
	s.alice = m.Players[0]

	_, bob, err := s.registry.Join(s.matchID, "Bob")
	s.Require().NoError(err)
	s.bob = bob

	_, err = s.registry.Start(s.matchID, s.alice.ID)
	s.Require().NoError(err)
	s.publisher.Reset()
}

func (s *PipelineSuite) pipeline() *Pipeline {
	return NewPipeline(s.registry, s.decoder, s.classifier, s.publisher, s.clock, testutil.NopLogger())
}

func (s *PipelineSuite) shooterScore(id model.PlayerID) int {
	m, err := s.registry.GetMatch(s.matchID)
	s.Require().NoError(err)
	return m.GetPlayer(id).Score
}

// shotResults returns the broadcast shot_result payloads tagged with the
// given shooter
func (s *PipelineSuite) shotResults(id model.PlayerID) []model.ShotResultPayload {
	var out []model.ShotResultPayload
	for _, e := range s.publisher.OfType(model.EventShotResult) {
		payload := e.Event.Payload.(model.ShotResultPayload)
		if payload.PlayerID == id {
			out = append(out, payload)
		}
	}
	return out
}

func (s *PipelineSuite) TestHitOnAnotherPlayersBadge() {
	s.decoder.text, s.decoder.err = string(s.alice.Token), nil

	result, err := s.pipeline().Resolve(s.ctx, s.matchID, s.bob.ID, []byte("photo"))
	s.Require().NoError(err)

	s.Equal(model.OutcomeHit, result.Outcome)
	s.Equal(scoring.HitPoints, result.Points)
	s.Require().NotNil(result.Target)
	s.Equal(s.alice.ID, result.Target.ID)

	s.Equal(scoring.HitPoints, s.shooterScore(s.bob.ID))
	s.Equal(0, s.shooterScore(s.alice.ID))

	m, _ := s.registry.GetMatch(s.matchID)
	s.Equal(1, m.GetPlayer(s.bob.ID).Shots)

	results := s.shotResults(s.bob.ID)
	s.Require().Len(results, 1)
	s.Equal(model.OutcomeHit, results[0].Outcome)
}

func (s *PipelineSuite) TestSelfTargetFallsThroughToClassification() {
	s.decoder.text, s.decoder.err = string(s.bob.Token), nil

	result, err := s.pipeline().Resolve(s.ctx, s.matchID, s.bob.ID, []byte("photo"))
	s.Require().NoError(err)

	s.Equal(model.OutcomeMiss, result.Outcome)
	s.Equal(0, s.shooterScore(s.bob.ID))
}

func (s *PipelineSuite) TestForeignMatchTokenFallsThrough() {
	s.decoder.text, s.decoder.err = string(model.NewToken("OTHER1", s.alice.ID)), nil

	result, err := s.pipeline().Resolve(s.ctx, s.matchID, s.bob.ID, []byte("photo"))
	s.Require().NoError(err)
	s.Equal(model.OutcomeMiss, result.Outcome)
}

func (s *PipelineSuite) TestUnparseableDecodeFallsThrough() {
	s.decoder.text, s.decoder.err = "just some text", nil

	result, err := s.pipeline().Resolve(s.ctx, s.matchID, s.bob.ID, []byte("photo"))
	s.Require().NoError(err)
	s.Equal(model.OutcomeMiss, result.Outcome)
}

func (s *PipelineSuite) TestEmptySceneIsMiss() {
	result, err := s.pipeline().Resolve(s.ctx, s.matchID, s.bob.ID, []byte("photo"))
	s.Require().NoError(err)

	s.Equal(model.OutcomeMiss, result.Outcome)
	s.Equal(0, s.shooterScore(s.bob.ID))
	s.Len(s.shotResults(s.bob.ID), 1)
}

func (s *PipelineSuite) TestClassifierFailureIsMiss() {
	s.classifier.Err = model.ErrClassifyFailed

	result, err := s.pipeline().Resolve(s.ctx, s.matchID, s.bob.ID, []byte("photo"))
	s.Require().NoError(err)
	s.Equal(model.OutcomeMiss, result.Outcome)
}

func (s *PipelineSuite) TestItemsWithoutContainersAreCollected() {
	s.classifier.Result = model.Classification{
		Items: []model.Item{
			{Name: "bottle", Category: model.CategoryRecyclable, BenefitValue: 0.8},
			{Name: "apple core", Category: model.CategoryOrganic, BenefitValue: 0.3},
		},
		Description: "litter under a bench",
	}

	result, err := s.pipeline().Resolve(s.ctx, s.matchID, s.bob.ID, []byte("photo"))
	s.Require().NoError(err)

	s.Equal(model.OutcomeCollected, result.Outcome)
	s.Equal(0, result.Points)
	s.Len(result.Collected, 2)
	s.Equal("litter under a bench", result.Description)

	m, _ := s.registry.GetMatch(s.matchID)
	s.Len(m.GetPlayer(s.bob.ID).Inventory, 2)
	s.Equal(0, s.shooterScore(s.bob.ID))
	s.Len(s.publisher.OfType(model.EventItemsCollected), 1)
}

func (s *PipelineSuite) TestUnsortedOnlyContainersStillDeposit() {
	// Any detected container makes the shot a deposit; an unsorted bin
	// redeems nothing, so the spent items pay the flat fallback
	s.classifier.Result = model.Classification{
		Items:      []model.Item{{Name: "bottle", Category: model.CategoryRecyclable, BenefitValue: 0.8}},
		Containers: []model.Container{{Name: "mystery bin", Category: model.ContainerUnsorted}},
	}

	result, err := s.pipeline().Resolve(s.ctx, s.matchID, s.bob.ID, []byte("photo"))
	s.Require().NoError(err)

	s.Equal(model.OutcomeDeposited, result.Outcome)
	s.Empty(result.Redeemed)
	s.Len(result.Collected, 1)
	s.Equal(scoring.FallbackPoints, result.FallbackPoints)
	s.Equal(scoring.FallbackPoints, result.Points)

	m, _ := s.registry.GetMatch(s.matchID)
	s.Empty(m.GetPlayer(s.bob.ID).Inventory)
	s.Equal(scoring.FallbackPoints, s.shooterScore(s.bob.ID))
}

func (s *PipelineSuite) TestDepositReconcilesInventory() {
	_, err := s.registry.Collect(s.matchID, s.bob.ID, []model.Item{
		{Name: "bottle", Category: model.CategoryRecyclable, BenefitValue: 0.8},
		{Name: "battery", Category: model.CategoryHazardous, BenefitValue: 1.5},
	})
	s.Require().NoError(err)
	s.publisher.Reset()

	s.classifier.Result = model.Classification{
		Containers: []model.Container{{Name: "blue bin", Category: model.ContainerRecycling}},
	}

	result, err := s.pipeline().Resolve(s.ctx, s.matchID, s.bob.ID, []byte("photo"))
	s.Require().NoError(err)

	s.Equal(model.OutcomeDeposited, result.Outcome)
	s.Require().Len(result.Redeemed, 1)
	s.Equal("bottle", result.Redeemed[0].Item.Name)
	s.Equal(40, result.Redeemed[0].Points)
	s.Len(result.Collected, 1)
	s.Equal(scoring.FallbackPoints, result.FallbackPoints)
	s.Equal(40+scoring.FallbackPoints, result.Points)

	m, _ := s.registry.GetMatch(s.matchID)
	s.Empty(m.GetPlayer(s.bob.ID).Inventory)
	s.Equal(result.Points, s.shooterScore(s.bob.ID))
	s.Len(s.publisher.OfType(model.EventItemRedeemed), 1)
}

func (s *PipelineSuite) TestDepositCollectsSameFrameItemsFirst() {
	s.classifier.Result = model.Classification{
		Items:      []model.Item{{Name: "bottle", Category: model.CategoryRecyclable, BenefitValue: 0.8}},
		Containers: []model.Container{{Name: "blue bin", Category: model.ContainerRecycling}},
	}

	result, err := s.pipeline().Resolve(s.ctx, s.matchID, s.bob.ID, []byte("photo"))
	s.Require().NoError(err)

	s.Equal(model.OutcomeDeposited, result.Outcome)
	s.Require().Len(result.Redeemed, 1)
	s.Equal("bottle", result.Redeemed[0].Item.Name)

	m, _ := s.registry.GetMatch(s.matchID)
	s.Empty(m.GetPlayer(s.bob.ID).Inventory)
}

func (s *PipelineSuite) TestThresholdEndsMatchAndRejectsFurtherShots() {
	s.random.QueueString("GAME77")
	m, err := s.registry.CreateMatch("", "Carol", 100)
	s.Require().NoError(err)
	_, dave, err := s.registry.Join(m.ID, "Dave")
	s.Require().NoError(err)
	_, err = s.registry.Start(m.ID, m.AdminID)
	s.Require().NoError(err)

	s.decoder.text, s.decoder.err = string(m.Players[0].Token), nil

	pipeline := s.pipeline()
	_, err = pipeline.Resolve(s.ctx, m.ID, dave.ID, []byte("photo"))
	s.Require().NoError(err)
	_, err = pipeline.Resolve(s.ctx, m.ID, dave.ID, []byte("photo"))
	s.Require().NoError(err)

	snap, _ := s.registry.GetMatch(m.ID)
	s.Equal(model.MatchStateEnded, snap.State)
	s.Equal(dave.ID, snap.WinnerID)

	_, err = pipeline.Resolve(s.ctx, m.ID, dave.ID, []byte("photo"))
	s.ErrorIs(err, model.ErrMatchNotActive)
}

func (s *PipelineSuite) TestEmptyImageRejected() {
	_, err := s.pipeline().Resolve(s.ctx, s.matchID, s.bob.ID, nil)
	s.ErrorIs(err, model.ErrInvalidImage)
}

func (s *PipelineSuite) TestUnknownShooterRejected() {
	_, err := s.pipeline().Resolve(s.ctx, s.matchID, "ghost", []byte("photo"))
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *PipelineSuite) TestShotResultIsBroadcastWithShooter() {
	s.decoder.text, s.decoder.err = string(s.alice.Token), nil

	_, err := s.pipeline().Resolve(s.ctx, s.matchID, s.bob.ID, []byte("photo"))
	s.Require().NoError(err)

	// The result fans out match-wide, not to the shooter alone, and the
	// payload names the shooter so clients can pick out their own
	published := s.publisher.OfType(model.EventShotResult)
	s.Require().Len(published, 1)
	s.False(published[0].Direct)

	payload := published[0].Event.Payload.(model.ShotResultPayload)
	s.Equal(s.bob.ID, payload.PlayerID)
	s.Equal("Bob", payload.Name)
	s.Equal(model.OutcomeHit, payload.Outcome)
}

func (s *PipelineSuite) TestOneShotResultPerAttempt() {
	pipeline := s.pipeline()
	for i := 0; i < 3; i++ {
		_, err := pipeline.Resolve(s.ctx, s.matchID, s.bob.ID, []byte("photo"))
		s.Require().NoError(err)
	}
	s.Len(s.shotResults(s.bob.ID), 3)
}
