package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"PolicyPal/internal/auth"
	"PolicyPal/internal/config"
	"PolicyPal/internal/domain"
	"PolicyPal/internal/httpapi"
	"PolicyPal/internal/infrastructure/congress"
	"PolicyPal/internal/infrastructure/llm"
	"PolicyPal/internal/infrastructure/lock"
	"PolicyPal/internal/infrastructure/ml"
	"PolicyPal/internal/infrastructure/ratelimit"
	"PolicyPal/internal/infrastructure/scheduler"
	"PolicyPal/internal/infrastructure/storage"
	"PolicyPal/internal/infrastructure/telegram"
	"PolicyPal/internal/logging"
	"PolicyPal/internal/ports"
	"PolicyPal/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg    config.Config
	logger *logging.Logger
	db     *gorm.DB

	bills    *storage.BillRepository
	tracking *storage.TrackingRepository
	votes    *storage.VoteStore
	users    *storage.UserRepository

	ingestor  *usecase.Ingestor
	scheduler *usecase.Scheduler
	catalog   *usecase.Catalog
	ledger    *usecase.Ledger

	closers []io.Closer
}

// New opens storage and builds every use case. Remote backends that are not
// configured are left out rather than failing startup.
func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Application, error) {
	if logger == nil {
		logger = logging.New(cfg.Logging.Level, cfg.Logging.Mode)
	}

	db, err := storage.Open(cfg.Database)
	if err != nil {
		return nil, err
	}

	a := &Application{
		cfg:      cfg,
		logger:   logger,
		db:       db,
		bills:    storage.NewBillRepository(db),
		tracking: storage.NewTrackingRepository(db),
		votes:    storage.NewVoteStore(db),
		users:    storage.NewUserRepository(db),
	}

	source := congress.NewClient(cfg.Congress, ratelimit.New(cfg.Congress.RateLimit), logger.With("component", "congress"))
	summarizer := usecase.NewSummarizer(a.summaryBackend(ctx), logger.With("component", "summarizer"))

	reconciler := usecase.NewReconciler(usecase.ReconcilerDeps{
		Source:     source,
		Bills:      a.bills,
		Summarizer: summarizer,
		Logger:     logger.With("component", "reconciler"),
	})
	a.ingestor = usecase.NewIngestor(usecase.IngestorDeps{
		Source:          source,
		Reconciler:      reconciler,
		Logger:          logger.With("component", "ingest"),
		CurrentCongress: cfg.Congress.CurrentCongress,
	})
	a.catalog = usecase.NewCatalog(a.bills, a.tracking)
	a.ledger = usecase.NewLedger(a.votes, a.bills, logger.With("component", "ledger"))

	deps := usecase.SchedulerDeps{
		Driver:    scheduler.NewCronScheduler(cfg.Scheduler.Location()),
		Ingestor:  a.ingestor,
		Tracking:  a.tracking,
		Lock:      a.runLock(ctx),
		Logger:    logger.With("component", "scheduler"),
		BatchSpec: cfg.Scheduler.BatchSpec,
		DailySpec: cfg.Scheduler.DailySpec,
		PageSize:  cfg.Scheduler.BatchPageSize,
		Congress:  cfg.Congress.CurrentCongress,
		LockTTL:   cfg.Scheduler.LockTTL,
	}
	if n := telegram.NewNotifier(cfg.Notifications.Telegram); n != nil {
		deps.Notifier = n
	}
	a.scheduler = usecase.NewScheduler(deps)

	return a, nil
}

func (a *Application) summaryBackend(ctx context.Context) ports.Summarizer {
	cfg := a.cfg
	instructions := cfg.Summarizer.Instructions

	registry := llm.NewRegistry()
	if cfg.ChatGPT.APIKey != "" {
		registry.Register(llm.NewChatGPTClient(cfg.ChatGPT, instructions))
	}
	if cfg.ML.InferenceURL != "" {
		registry.Register(ml.NewClient(cfg.ML.InferenceURL, cfg.ML.APIKey, instructions))
	}
	if cfg.Vertex.ProjectID != "" && strings.EqualFold(cfg.Summarizer.Provider, "vertex") {
		vertex, err := llm.NewVertexClient(ctx, cfg.Vertex, instructions)
		if err != nil {
			a.logger.Warn("vertex summarizer unavailable", "error", err)
		} else {
			registry.Register(vertex)
			a.closers = append(a.closers, vertex)
		}
	}

	backend, err := registry.Resolve(strings.ToLower(cfg.Summarizer.Provider))
	if err != nil {
		a.logger.Warn("summaries disabled", "provider", cfg.Summarizer.Provider, "error", err)
		return nil
	}
	return backend
}

// runLock prefers Redis and falls back to the database lease table.
func (a *Application) runLock(ctx context.Context) ports.RunLock {
	rl := lock.NewRedisLock(a.cfg.Redis, a.logger.With("component", "lock"))
	if rl == nil {
		return storage.NewJobLocks(a.db)
	}
	if err := rl.Ping(ctx); err != nil {
		a.logger.Warn("redis unavailable, using database run locks", "error", err)
		_ = rl.Close()
		return storage.NewJobLocks(a.db)
	}
	a.closers = append(a.closers, rl)
	return rl
}

// InitDB creates missing tables.
func (a *Application) InitDB() error {
	return storage.Migrate(a.db)
}

// ResetDB drops and recreates every table.
func (a *Application) ResetDB(ctx context.Context) error {
	if err := storage.Reset(a.db); err != nil {
		return err
	}
	return a.tracking.ResetOffset(ctx)
}

func (a *Application) ScrapeBills(ctx context.Context, congressNum, offset, limit int) (domain.BatchResult, error) {
	return a.ingestor.BatchScrape(ctx, congressNum, offset, limit)
}

func (a *Application) DailyUpdate(ctx context.Context) (domain.BatchResult, error) {
	return a.ingestor.DailyUpdate(ctx)
}

func (a *Application) Status(ctx context.Context) (domain.ScrapeStatus, error) {
	return a.catalog.Status(ctx)
}

func (a *Application) RecentBills(ctx context.Context, limit int) ([]domain.Bill, error) {
	return a.catalog.Recent(ctx, limit)
}

// ScheduleUpdates runs the ingestion jobs until ctx is cancelled.
func (a *Application) ScheduleUpdates(ctx context.Context) error {
	if err := a.scheduler.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return a.scheduler.Stop(context.Background())
}

// Serve runs the HTTP API, and the scheduler alongside it when withScheduler is set.
func (a *Application) Serve(ctx context.Context, withScheduler bool) error {
	tokens, err := auth.NewJWTIssuer(a.cfg.Auth.JWTSecret, a.cfg.Auth.TokenTTL)
	if err != nil {
		return fmt.Errorf("configure auth: %w", err)
	}

	accounts := usecase.NewAccounts(usecase.AccountsDeps{
		Users:  a.users,
		Votes:  a.votes,
		Hasher: auth.NewBcryptHasher(bcrypt.DefaultCost),
		Tokens: tokens,
		Logger: a.logger.With("component", "accounts"),
	})

	server := httpapi.NewServer(a.cfg.HTTP.Addr, httpapi.RouterConfig{
		AuthHandler:    httpapi.NewAuthHandler(accounts),
		BillHandler:    httpapi.NewBillHandler(a.catalog, a.ledger),
		UserHandler:    httpapi.NewUserHandler(accounts, a.ledger),
		Tokens:         tokens,
		Logger:         a.logger.With("component", "http"),
		AllowedOrigins: a.cfg.HTTP.AllowedOrigins,
	})

	if withScheduler {
		if err := a.scheduler.Start(ctx); err != nil {
			return err
		}
		defer func() {
			if err := a.scheduler.Stop(context.Background()); err != nil {
				a.logger.Warn("scheduler stop", "error", err)
			}
		}()
	}

	return server.Run(ctx)
}

// Close releases remote clients and the database handle.
func (a *Application) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if sqlDB, err := a.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.logger.Sync()
	return errors.Join(errs...)
}
