package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron"

	"PolicyPal/internal/ports"
)

// CronScheduler runs jobs on cron specs ("@every 1m", "0 0 6 * * *").
type CronScheduler struct {
	mu      sync.Mutex
	cron    *cron.Cron
	running bool
}

var _ ports.Scheduler = (*CronScheduler)(nil)

// NewCronScheduler evaluates specs in loc.
func NewCronScheduler(loc *time.Location) *CronScheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &CronScheduler{cron: cron.NewWithLocation(loc)}
}

// Add registers job under spec.
func (c *CronScheduler) Add(spec string, job func()) error {
	if job == nil {
		return nil
	}
	if err := c.cron.AddFunc(spec, job); err != nil {
		return fmt.Errorf("schedule %q: %w", spec, err)
	}
	return nil
}

// Start begins dispatching; the scheduler stops by itself when ctx is done.
func (c *CronScheduler) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return nil
	}
	c.running = true
	c.cron.Start()

	go func() {
		<-ctx.Done()
		_ = c.Stop(context.Background())
	}()
	return nil
}

// Stop halts dispatching. Runs already in flight are not interrupted.
func (c *CronScheduler) Stop(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return nil
	}
	c.cron.Stop()
	c.running = false
	return nil
}
