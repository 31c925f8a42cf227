package decode

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// ErrNoToken reports that no variant produced a decodable payload. The
// shot pipeline absorbs it and falls through to scene classification.
var ErrNoToken = errors.New("no token decoded")

// DefaultTimeout bounds the whole decode race for one shot
const DefaultTimeout = 3 * time.Second

// Service races the preprocessing variants of one shot image against
// the decoder and returns the first successful payload. Completion
// order decides the winner, not variant priority; once a variant
// succeeds the rest are cancelled.
type Service struct {
	decoder Decoder
	timeout time.Duration
	logger  *slog.Logger
}

// NewService creates a decode service. A non-positive timeout falls
// back to the default.
func NewService(decoder Decoder, timeout time.Duration, logger *slog.Logger) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{
		decoder: decoder,
		timeout: timeout,
		logger:  logger.With(slog.String("component", "decode")),
	}
}

type raceResult struct {
	variant    string
	candidates []Candidate
	err        error
}

// DecodeToken returns the badge text from the first variant whose
// decode completes with a candidate. Among that variant's simultaneous
// candidates a QR payload wins over any other format. ErrNoToken when
// every variant exhausts without a result.
func (s *Service) DecodeToken(ctx context.Context, img []byte) (string, error) {
	raceCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	set := variants()
	results := make(chan raceResult, len(set))
	for _, v := range set {
		go func(v variant) {
			prepared, err := v.prepare(img)
			if err != nil {
				results <- raceResult{variant: v.name, err: err}
				return
			}
			candidates, err := s.decoder.Decode(raceCtx, prepared)
			results <- raceResult{variant: v.name, candidates: candidates, err: err}
		}(v)
	}

	for remaining := len(set); remaining > 0; remaining-- {
		select {
		case result := <-results:
			if result.err != nil {
				s.logger.Debug("decode variant failed",
					slog.String("variant", result.variant),
					slog.Any("error", result.err))
				continue
			}
			if len(result.candidates) == 0 {
				continue
			}
			text := preferred(result.candidates)
			s.logger.Debug("decode variant won",
				slog.String("variant", result.variant))
			return text, nil
		case <-raceCtx.Done():
			return "", ErrNoToken
		}
	}
	return "", ErrNoToken
}

// preferred picks the QR candidate when one is present, otherwise the
// first candidate seen
func preferred(candidates []Candidate) string {
	for _, c := range candidates {
		if c.Format == FormatQR {
			return c.Text
		}
	}
	return candidates[0].Text
}
