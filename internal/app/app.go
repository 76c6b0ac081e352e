package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-intelligence/internal/adapter/repository"
	"github.com/johnquangdev/meeting-intelligence/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-intelligence/internal/infrastructure/database"
	"github.com/johnquangdev/meeting-intelligence/internal/infrastructure/storage"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/audit"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/ingest"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/merge"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/resolution"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/suggestion"
	"github.com/johnquangdev/meeting-intelligence/pkg/ai"
	"github.com/johnquangdev/meeting-intelligence/pkg/config"
)

// App is the service graph shared by the API server and intelctl
type App struct {
	Config  *config.Config
	Logger  *zap.Logger
	DB      *gorm.DB
	Dialect string
	Repos   *repository.Set

	Audit       *audit.Logger
	Suggestions suggestion.Service
	Ingest      ingest.Service
	Merger      *merge.Engine
	Corpus      resolution.CorpusLoader
	Scans       *resolution.ScanJobRunner

	redis *redis.Client
}

// Options tune what New sets up
type Options struct {
	// Migrate applies pending migrations regardless of DB_AUTO_MIGRATE
	Migrate bool
}

// New connects the database and builds every service over it
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts Options) (*App, error) {
	logger.Info("📦 Connecting to database...", zap.String("driver", cfg.Database.Driver))
	db, dialect, err := database.NewDB(cfg, logger)
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg, Logger: logger, DB: db, Dialect: dialect}

	if opts.Migrate || cfg.Database.AutoMigrate {
		if cfg.IsProduction() && !opts.Migrate {
			a.Close()
			return nil, fmt.Errorf("DB_AUTO_MIGRATE is enabled in production; run intelctl migrate up instead")
		}
		if _, err := database.Migrate(db, dialect, logger); err != nil {
			a.Close()
			return nil, err
		}
	}

	if err := a.build(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) build(ctx context.Context) error {
	cfg, logger := a.Config, a.Logger

	logger.Info("⚙️  Initializing repositories...")
	a.Repos = repository.NewSet(a.DB)
	a.Audit = audit.NewLogger(a.Repos.Audit, logger)

	logger.Info("🤖 Initializing AI components...", zap.String("provider", cfg.LLM.Provider))
	model, err := ai.NewLanguageModel(cfg)
	if err != nil {
		return fmt.Errorf("failed to create language model: %w", err)
	}
	var transcriber ai.Transcriber
	if cfg.Assembly.APIKey != "" {
		transcriber = ai.NewAssemblyAIClient(&cfg.Assembly, logger)
	} else {
		logger.Warn("⚠️  ASSEMBLYAI_API_KEY not set, audio uploads will fail")
	}

	limiterStore, err := a.limiterStore(ctx)
	if err != nil {
		return err
	}

	a.Suggestions = suggestion.NewService(
		a.Repos.Tx,
		a.Repos.Suggestions,
		a.Repos.Contacts,
		a.Repos.Companies,
		a.Repos.Aliases,
		a.Repos.Meetings,
		a.Audit,
		logger,
	)

	a.Ingest = ingest.NewService(ingest.Deps{
		Tx:          a.Repos.Tx,
		Contacts:    a.Repos.Contacts,
		Companies:   a.Repos.Companies,
		Aliases:     a.Repos.Aliases,
		Meetings:    a.Repos.Meetings,
		Jobs:        a.Repos.Jobs,
		Normalizer:  ingest.NewNormalizer(transcriber, cfg.Ingest.LanguageHint, logger),
		Extractor:   ingest.NewExtractor(model, cfg.Ingest.TruncateLength, logger),
		Suggestions: a.Suggestions,
		Audit:       a.Audit,
		Limiter:     cache.NewCooldownLimiter(limiterStore, cfg.Ingest.Cooldown, logger),
		Timeout:     cfg.Ingest.JobTimeout,
		Logger:      logger,
	})

	a.Merger = merge.NewEngine(
		a.Repos.Contacts,
		a.Repos.Companies,
		a.Repos.Aliases,
		a.Repos.Suggestions,
		a.Repos.Meetings,
		a.Audit,
		logger,
	)

	a.Corpus = resolution.ContactCorpus(a.Repos.Contacts, a.Repos.Aliases)
	a.Scans = resolution.NewScanJobRunner(a.Corpus, cfg.Ingest.ScanWorkers, 0, logger)
	return nil
}

// limiterStore picks Redis when enabled so the cooldown holds across replicas
func (a *App) limiterStore(ctx context.Context) (cache.Store, error) {
	if !a.Config.Redis.Enabled {
		a.Logger.Info("🕒 Using in-process cooldown store")
		return cache.NewMemoryStore(nil), nil
	}

	a.Logger.Info("📦 Connecting to Redis...", zap.String("addr", a.Config.GetRedisAddr()))
	client, err := cache.NewRedisClient(ctx, a.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	a.redis = client
	return cache.NewRedisStore(client), nil
}

// ObjectStore connects the audio bucket
func (a *App) ObjectStore(ctx context.Context) (storage.ObjectStore, error) {
	client, err := storage.NewMinIOClient(ctx, &a.Config.Storage, a.Logger)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Ping checks the database connection
func (a *App) Ping(ctx context.Context) error {
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close waits for duplicate scans, then releases Redis and the database
func (a *App) Close() {
	if a.Scans != nil {
		a.Scans.Wait()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.Logger.Warn("failed to close redis", zap.Error(err))
		}
	}
	if a.DB != nil {
		if err := database.CloseDB(a.DB); err != nil {
			a.Logger.Warn("failed to close database", zap.Error(err))
		}
	}
}
