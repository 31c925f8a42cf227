package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ecoshot/ecoshot/internal/model"
)

// Classifier analyzes a scene photo for collectible items and disposal
// containers. Implementations may fail; the shot pipeline treats any
// failure as an empty scene.
type Classifier interface {
	Classify(ctx context.Context, image []byte) (*model.Classification, error)
}

// DefaultTimeout bounds one classification request
const DefaultTimeout = 5 * time.Second

// classifyPath is the classification endpoint under the service base URL
const classifyPath = "/v1/classify"

// maxResponseBytes caps how much of a classifier response is read
const maxResponseBytes = 1 << 20

// HTTPClassifier calls an external scene classification service over
// HTTP: the image bytes are POSTed as the request body and the response
// describes the detected items and containers.
type HTTPClassifier struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// Ensure HTTPClassifier implements Classifier
var _ Classifier = (*HTTPClassifier)(nil)

// NewHTTPClassifier creates a classifier against the given base URL.
// A non-positive timeout falls back to the default.
func NewHTTPClassifier(baseURL string, timeout time.Duration, logger *slog.Logger) *HTTPClassifier {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPClassifier{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger.With(slog.String("component", "classifier")),
	}
}

type classifyResponse struct {
	Items []struct {
		Name         string  `json:"name"`
		Category     string  `json:"category"`
		BenefitValue float64 `json:"benefit_value"`
	} `json:"items"`
	Containers []struct {
		Name     string `json:"name"`
		Category string `json:"category"`
	} `json:"containers"`
	Confidence  string `json:"confidence"`
	Description string `json:"description"`
}

// Classify posts the image and maps the response to model types.
// Entries with unknown categories are dropped with a warning rather
// than failing the whole classification.
func (c *HTTPClassifier) Classify(ctx context.Context, img []byte) (*model.Classification, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+classifyPath, bytes.NewReader(img))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", model.ErrClassifyFailed, err)
	}
	req.Header.Set("Content-Type", http.DetectContentType(img))
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrClassifyFailed, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", model.ErrClassifyFailed, resp.StatusCode)
	}

	var body classifyResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: parse response: %v", model.ErrClassifyFailed, err)
	}

	classification := &model.Classification{Description: body.Description}
	for _, item := range body.Items {
		category := model.ItemCategory(item.Category)
		if !category.Valid() {
			c.logger.Warn("dropping item with unknown category",
				slog.String("name", item.Name),
				slog.String("category", item.Category))
			continue
		}
		benefit := item.BenefitValue
		if benefit < 0 {
			benefit = 0
		}
		classification.Items = append(classification.Items, model.Item{
			ID:           uuid.New().String(),
			Name:         item.Name,
			Category:     category,
			BenefitValue: benefit,
		})
	}
	for _, container := range body.Containers {
		category := model.ContainerCategory(container.Category)
		if !category.Valid() {
			c.logger.Warn("dropping container with unknown category",
				slog.String("name", container.Name),
				slog.String("category", container.Category))
			continue
		}
		classification.Containers = append(classification.Containers, model.Container{
			Name:     container.Name,
			Category: category,
		})
	}
	return classification, nil
}

// StaticClassifier returns a fixed classification regardless of input.
// It backs local development and tests when no classifier service is
// configured.
type StaticClassifier struct {
	Result model.Classification
	Err    error
}

// Ensure StaticClassifier implements Classifier
var _ Classifier = (*StaticClassifier)(nil)

// Classify returns a copy of the configured result
func (s *StaticClassifier) Classify(context.Context, []byte) (*model.Classification, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	result := s.Result
	result.Items = append([]model.Item(nil), s.Result.Items...)
	result.Containers = append([]model.Container(nil), s.Result.Containers...)
	return &result, nil
}
