package usecase

import (
	"context"
	"fmt"
	"time"

	"PolicyPal/internal/logging"
	"PolicyPal/internal/ports"
)

const (
	jobBatchScrape = "batch-scrape"
	jobDailyUpdate = "daily-update"
)

// SchedulerDeps wires the cron-like driver with the ingestion use cases.
type SchedulerDeps struct {
	Driver    ports.Scheduler
	Ingestor  *Ingestor
	Tracking  ports.TrackingRepository
	Lock      ports.RunLock
	Notifier  ports.Notifier
	Logger    *logging.Logger
	BatchSpec string
	DailySpec string
	PageSize  int
	Congress  int
	LockTTL   time.Duration
}

// Scheduler runs batch and daily ingestion on a schedule, one run per job at a time.
type Scheduler struct {
	driver    ports.Scheduler
	ingestor  *Ingestor
	tracking  ports.TrackingRepository
	lock      ports.RunLock
	notifier  ports.Notifier
	logger    *logging.Logger
	batchSpec string
	dailySpec string
	pageSize  int
	congress  int
	lockTTL   time.Duration
}

// NewScheduler returns a helper to start/stop recurring jobs.
func NewScheduler(deps SchedulerDeps) *Scheduler {
	s := &Scheduler{
		driver:    deps.Driver,
		ingestor:  deps.Ingestor,
		tracking:  deps.Tracking,
		lock:      deps.Lock,
		notifier:  deps.Notifier,
		logger:    deps.Logger,
		batchSpec: deps.BatchSpec,
		dailySpec: deps.DailySpec,
		pageSize:  deps.PageSize,
		congress:  deps.Congress,
		lockTTL:   deps.LockTTL,
	}
	if s.batchSpec == "" {
		s.batchSpec = "@every 1m"
	}
	if s.dailySpec == "" {
		s.dailySpec = "@every 24h"
	}
	if s.pageSize <= 0 {
		s.pageSize = 3
	}
	if s.congress <= 0 {
		s.congress = 118
	}
	if s.lockTTL <= 0 {
		s.lockTTL = 30 * time.Minute
	}
	return s
}

// Start registers both jobs with the driver and starts it.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.ingestor == nil {
		return nil
	}

	if err := s.driver.Add(s.batchSpec, func() { s.tick(ctx, jobBatchScrape, s.RunBatch) }); err != nil {
		return fmt.Errorf("register %s: %w", jobBatchScrape, err)
	}
	if err := s.driver.Add(s.dailySpec, func() { s.tick(ctx, jobDailyUpdate, s.RunDaily) }); err != nil {
		return fmt.Errorf("register %s: %w", jobDailyUpdate, err)
	}

	s.logger.Info("scheduler started", "batch", s.batchSpec, "daily", s.dailySpec, "page_size", s.pageSize)
	return s.driver.Start(ctx)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}

func (s *Scheduler) tick(ctx context.Context, name string, run func(context.Context) (bool, error)) {
	if ctx.Err() != nil {
		return
	}
	ran, err := run(ctx)
	switch {
	case err != nil:
		s.logger.Error("scheduled job failed", "job", name, "error", err)
	case !ran:
		s.logger.Info("scheduled job skipped, previous run still active", "job", name)
	}
}

// RunBatch ingests the next page and advances the stored offset by the page
// size. The offset stays put when the listing itself could not be fetched.
func (s *Scheduler) RunBatch(ctx context.Context) (bool, error) {
	return s.guarded(ctx, jobBatchScrape, func(ctx context.Context) error {
		offset, err := s.tracking.Offset(ctx)
		if err != nil {
			return fmt.Errorf("read offset: %w", err)
		}

		if _, err := s.ingestor.BatchScrape(ctx, s.congress, offset, s.pageSize); err != nil {
			return err
		}

		next, err := s.tracking.AdvanceOffset(ctx, s.pageSize)
		if err != nil {
			return fmt.Errorf("advance offset: %w", err)
		}
		s.logger.Debug("offset advanced", "offset", next)
		return nil
	})
}

// RunDaily ingests the last day of changes and publishes a digest of new bills.
func (s *Scheduler) RunDaily(ctx context.Context) (bool, error) {
	return s.guarded(ctx, jobDailyUpdate, func(ctx context.Context) error {
		result, err := s.ingestor.DailyUpdate(ctx)
		if err != nil {
			return err
		}

		if s.notifier == nil {
			return nil
		}
		if message := buildDigestMessage(result); message != "" {
			if err := s.notifier.PublishDigest(ctx, message); err != nil {
				s.logger.Warn("digest not delivered", "error", err)
			}
		}
		return nil
	})
}

func (s *Scheduler) guarded(ctx context.Context, name string, fn func(context.Context) error) (bool, error) {
	if s.lock == nil {
		return true, fn(ctx)
	}

	release, ok, err := s.lock.Acquire(ctx, "job:"+name, s.lockTTL)
	if err != nil {
		return false, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return false, nil
	}
	defer release()

	return true, fn(ctx)
}
