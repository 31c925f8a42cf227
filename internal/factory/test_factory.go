package factory

import (
	"context"
	"sync"
	"time"

	"github.com/ecoshot/ecoshot/internal/config"
	"github.com/ecoshot/ecoshot/internal/dependencies/mocks"
	"github.com/ecoshot/ecoshot/internal/services/classify"
	"github.com/ecoshot/ecoshot/internal/services/decode"
	"github.com/ecoshot/ecoshot/internal/storage/memory"
	"github.com/ecoshot/ecoshot/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
	Scanner    *ScriptedDecoder
	Classifier *classify.StaticClassifier
}

// NewTestApp creates an App configured for testing with mocked
// dependencies, an in-memory gateway, and scriptable decode/classify
// results
func NewTestApp() *TestApp {
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	scanner := &ScriptedDecoder{}
	classifier := &classify.StaticClassifier{}

	cfg := config.Config{
		DefaultWinScore: 300,
		DecodeTimeout:   time.Second,
	}

	app := newWithDependencies(deps{
		gateway:    memory.New(),
		clock:      mockClock,
		random:     mockRandom,
		decoder:    scanner,
		classifier: classifier,
		config:     cfg,
		logger:     testutil.NopLogger(),
	})

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		Scanner:    scanner,
		Classifier: classifier,
	}
}

// ScriptedDecoder returns a fixed badge text until it is cleared. The
// decode race may call it once per image variant, so the result is
// stable rather than consumed.
type ScriptedDecoder struct {
	mu   sync.Mutex
	text string
}

// Set makes every decode attempt return the given badge text
func (d *ScriptedDecoder) Set(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.text = text
}

// Clear makes decode attempts find nothing
func (d *ScriptedDecoder) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.text = ""
}

// Decode returns the scripted text as a QR candidate
func (d *ScriptedDecoder) Decode(context.Context, []byte) ([]decode.Candidate, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.text == "" {
		return nil, nil
	}
	return []decode.Candidate{{Text: d.text, Format: decode.FormatQR}}, nil
}
