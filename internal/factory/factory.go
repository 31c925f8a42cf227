package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ecoshot/ecoshot/internal/config"
	"github.com/ecoshot/ecoshot/internal/dependencies/clock"
	"github.com/ecoshot/ecoshot/internal/dependencies/random"
	"github.com/ecoshot/ecoshot/internal/services/classify"
	"github.com/ecoshot/ecoshot/internal/services/decode"
	"github.com/ecoshot/ecoshot/internal/services/match"
	"github.com/ecoshot/ecoshot/internal/services/scoring"
	"github.com/ecoshot/ecoshot/internal/services/shot"
	"github.com/ecoshot/ecoshot/internal/storage"
	"github.com/ecoshot/ecoshot/internal/storage/memory"
	"github.com/ecoshot/ecoshot/internal/storage/postgres"
	redisstorage "github.com/ecoshot/ecoshot/internal/storage/redis"
	"github.com/ecoshot/ecoshot/internal/ws"
)

// Storage type constants
const (
	StorageTypeMemory   = "memory"
	StorageTypeRedis    = "redis"
	StorageTypePostgres = "postgres"
)

// App contains all wired application components
type App struct {
	// Persistence
	Gateway   storage.Gateway
	Persister *storage.Persister

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	ScoringService *scoring.Service
	DecodeService  *decode.Service
	Classifier     classify.Classifier
	Registry       *match.Registry
	Pipeline       *shot.Pipeline

	// Realtime
	HubManager *ws.HubManager
	WSHandler  *ws.Handler
}

// New creates a new application with all dependencies wired from config
func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	gateway, err := newGateway(cfg)
	if err != nil {
		return nil, fmt.Errorf("storage init: %w", err)
	}

	clk := clock.New()
	rnd := random.New()

	var decoder decode.Decoder = decode.NopDecoder{}
	if cfg.DecoderCommand != "" {
		decoder = decode.NewExecDecoder(cfg.DecoderCommand)
	}

	var classifier classify.Classifier = &classify.StaticClassifier{}
	if cfg.ClassifierURL != "" {
		classifier = classify.NewHTTPClassifier(cfg.ClassifierURL, cfg.ClassifierTimeout, logger)
	}

	return newWithDependencies(deps{
		gateway:    gateway,
		clock:      clk,
		random:     rnd,
		decoder:    decoder,
		classifier: classifier,
		config:     cfg,
		logger:     logger,
	}), nil
}

// newGateway creates the persistence backend selected by config
func newGateway(cfg config.Config) (storage.Gateway, error) {
	switch cfg.StorageType {
	case "", StorageTypeMemory:
		return memory.New(), nil
	case StorageTypeRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		return redisstorage.New(redisCfg)
	case StorageTypePostgres:
		if cfg.PostgresDSN == "" {
			return nil, errors.New("ECOSHOT_POSTGRES_DSN required when storage is postgres")
		}
		store, err := postgres.New(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		if err := store.Migrate(context.Background()); err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("invalid storage type %q: must be memory, redis or postgres", cfg.StorageType)
	}
}

// deps bundles the injectable components
type deps struct {
	gateway    storage.Gateway
	clock      clock.Clock
	random     random.Random
	decoder    decode.Decoder
	classifier classify.Classifier
	config     config.Config
	logger     *slog.Logger
}

// newWithDependencies wires an App from the given dependencies
func newWithDependencies(d deps) *App {
	persister := storage.NewPersister(d.gateway, d.logger)
	hubManager := ws.NewHubManager(d.logger)
	scoringService := scoring.New()
	decodeService := decode.NewService(d.decoder, d.config.DecodeTimeout, d.logger)

	registry := match.NewRegistry(
		match.Config{DefaultWinScore: d.config.DefaultWinScore},
		scoringService,
		persister,
		hubManager,
		d.clock,
		d.random,
		d.logger,
	)

	pipeline := shot.NewPipeline(
		registry,
		decodeService,
		d.classifier,
		hubManager,
		d.clock,
		d.logger,
	)

	wsHandler := ws.NewHandler(registry, pipeline, hubManager, d.clock, d.logger)

	return &App{
		Gateway:        d.gateway,
		Persister:      persister,
		Clock:          d.clock,
		Random:         d.random,
		ScoringService: scoringService,
		DecodeService:  decodeService,
		Classifier:     d.classifier,
		Registry:       registry,
		Pipeline:       pipeline,
		HubManager:     hubManager,
		WSHandler:      wsHandler,
	}
}

// Rehydrate loads persisted matches into the registry at startup
func (a *App) Rehydrate(ctx context.Context) error {
	matches, err := a.Gateway.ListMatches(ctx)
	if err != nil {
		return fmt.Errorf("list matches: %w", err)
	}
	a.Registry.Restore(matches)
	return nil
}

// Close releases application resources. The persister drains its queue
// first so late mirror writes are not lost.
func (a *App) Close() {
	a.Persister.Close()
	type closer interface{ Close() error }
	if c, ok := a.Gateway.(closer); ok {
		_ = c.Close()
	}
}
