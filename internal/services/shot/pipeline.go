package shot

import (
	"context"
	"log/slog"

	"github.com/ecoshot/ecoshot/internal/dependencies/clock"
	"github.com/ecoshot/ecoshot/internal/events"
	"github.com/ecoshot/ecoshot/internal/model"
	"github.com/ecoshot/ecoshot/internal/services/classify"
	"github.com/ecoshot/ecoshot/internal/services/match"
)

// TokenDecoder races the decode variants for one image and returns the
// winning badge text, or an error when nothing decoded
type TokenDecoder interface {
	DecodeToken(ctx context.Context, image []byte) (string, error)
}

// Pipeline orchestrates one shot attempt: try the token decode for a
// hit, otherwise classify the scene and resolve the inventory path.
// Decoder and classifier failures are absorbed here; every attempt
// resolves to exactly one terminal outcome.
type Pipeline struct {
	registry   match.RegistryInterface
	decoder    TokenDecoder
	classifier classify.Classifier
	publisher  events.Publisher
	clock      clock.Clock
	logger     *slog.Logger
}

// NewPipeline creates a shot-resolution pipeline
func NewPipeline(
	registry match.RegistryInterface,
	decoder TokenDecoder,
	classifier classify.Classifier,
	publisher events.Publisher,
	clk clock.Clock,
	logger *slog.Logger,
) *Pipeline {
	return &Pipeline{
		registry:   registry,
		decoder:    decoder,
		classifier: classifier,
		publisher:  publisher,
		clock:      clk,
		logger:     logger.With(slog.String("component", "shot")),
	}
}

// Resolve runs one shot attempt to its terminal outcome. The returned
// payload is also broadcast to the match as a shot_result event tagged
// with the shooter. Errors are returned only for pre-pipeline guards:
// unknown match or shooter, or a match that is not active.
func (p *Pipeline) Resolve(ctx context.Context, matchID model.MatchID, shooterID model.PlayerID, image []byte) (*model.ShotResultPayload, error) {
	if len(image) == 0 {
		return nil, model.ErrInvalidImage
	}

	snap, err := p.registry.BeginShot(matchID, shooterID)
	if err != nil {
		return nil, err
	}
	shooter := snap.GetPlayer(shooterID)

	if result, ok, err := p.tryHit(ctx, snap, matchID, shooterID, image); err != nil {
		return nil, err
	} else if ok {
		p.sendResult(matchID, shooter, result)
		return result, nil
	}

	result := p.classifyAndResolve(ctx, matchID, shooterID, image)
	p.sendResult(matchID, shooter, result)
	return result, nil
}

// tryHit runs the decode race and records a hit when the badge resolves
// to another live roster member of this match. Any other decode outcome
// falls through to classification.
func (p *Pipeline) tryHit(ctx context.Context, snap *model.Match, matchID model.MatchID, shooterID model.PlayerID, image []byte) (*model.ShotResultPayload, bool, error) {
	text, err := p.decoder.DecodeToken(ctx, image)
	if err != nil {
		return nil, false, nil
	}

	tokenMatch, targetID, err := model.ParseToken(text)
	if err != nil {
		p.logger.Debug("decoded text is not a badge token", slog.String("match_id", string(matchID)))
		return nil, false, nil
	}
	if tokenMatch != matchID || snap.GetPlayer(targetID) == nil || targetID == shooterID {
		// Foreign badge, stale roster, or self-target: not a hit
		return nil, false, nil
	}

	hit, err := p.registry.RecordHit(matchID, shooterID, targetID)
	if err != nil {
		return nil, false, err
	}

	p.logger.Info("shot hit",
		slog.String("match_id", string(matchID)),
		slog.String("shooter_id", string(shooterID)),
		slog.String("target_id", string(targetID)))
	return &model.ShotResultPayload{
		Outcome: model.OutcomeHit,
		Points:  hit.Points,
		Target:  &hit.Target,
	}, true, nil
}

// classifyAndResolve is the fallback path: classify the scene, then
// deposit, collect, or miss. A classifier failure is an empty scene,
// never an error to the shooter.
func (p *Pipeline) classifyAndResolve(ctx context.Context, matchID model.MatchID, shooterID model.PlayerID, image []byte) *model.ShotResultPayload {
	classification, err := p.classifier.Classify(ctx, image)
	if err != nil {
		p.logger.Warn("classification failed, treating as empty scene",
			slog.String("match_id", string(matchID)),
			slog.Any("error", err))
		classification = nil
	}

	if classification.Empty() {
		return &model.ShotResultPayload{Outcome: model.OutcomeMiss}
	}

	if len(classification.Containers) > 0 {
		return p.deposit(matchID, shooterID, classification)
	}
	if len(classification.Items) > 0 {
		return p.collect(matchID, shooterID, classification)
	}
	return &model.ShotResultPayload{
		Outcome:     model.OutcomeMiss,
		Description: classification.Description,
	}
}

func (p *Pipeline) deposit(matchID model.MatchID, shooterID model.PlayerID, classification *model.Classification) *model.ShotResultPayload {
	result, err := p.registry.Deposit(matchID, shooterID, classification.Items, classification.Containers)
	if err != nil {
		p.logger.Warn("deposit failed",
			slog.String("match_id", string(matchID)),
			slog.Any("error", err))
		return &model.ShotResultPayload{Outcome: model.OutcomeMiss}
	}

	redeemed := make([]model.RedeemedItemPayload, len(result.Redeemed))
	for i, r := range result.Redeemed {
		redeemed[i] = model.RedeemedItemPayload{
			Item:      model.ItemPayloadFrom(r.Item),
			Container: r.Container.Name,
			Points:    r.Points,
		}
	}

	p.logger.Info("shot deposited",
		slog.String("match_id", string(matchID)),
		slog.String("shooter_id", string(shooterID)),
		slog.Int("redeemed", len(result.Redeemed)),
		slog.Int("points", result.Total))
	return &model.ShotResultPayload{
		Outcome:        model.OutcomeDeposited,
		Points:         result.Total,
		Redeemed:       redeemed,
		Collected:      model.ItemPayloadsFrom(result.Unmatched),
		FallbackPoints: result.FallbackPoints,
		Description:    classification.Description,
	}
}

func (p *Pipeline) collect(matchID model.MatchID, shooterID model.PlayerID, classification *model.Classification) *model.ShotResultPayload {
	stamped, err := p.registry.Collect(matchID, shooterID, classification.Items)
	if err != nil {
		p.logger.Warn("collect failed",
			slog.String("match_id", string(matchID)),
			slog.Any("error", err))
		return &model.ShotResultPayload{Outcome: model.OutcomeMiss}
	}

	p.logger.Info("shot collected items",
		slog.String("match_id", string(matchID)),
		slog.String("shooter_id", string(shooterID)),
		slog.Int("items", len(stamped)))
	return &model.ShotResultPayload{
		Outcome:     model.OutcomeCollected,
		Collected:   model.ItemPayloadsFrom(stamped),
		Description: classification.Description,
	}
}

// sendResult fans the attempt's outcome out to every connection in the
// match. The payload carries the shooter's identity so clients can
// filter for their own results.
func (p *Pipeline) sendResult(matchID model.MatchID, shooter *model.Player, result *model.ShotResultPayload) {
	result.PlayerID = shooter.ID
	result.Name = shooter.Name
	p.publisher.Broadcast(matchID, model.Event{
		Type:      model.EventShotResult,
		Timestamp: p.clock.Now(),
		MatchID:   matchID,
		PlayerID:  shooter.ID,
		Payload:   *result,
	})
}
