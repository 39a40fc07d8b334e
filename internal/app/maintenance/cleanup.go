package maintenance

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/novalearn/novalearn-server/internal/services"
	"github.com/novalearn/novalearn-server/pkg/logger"
)

const (
	defaultLogRetentionDays = 30
	defaultTokenSpec        = "@daily"
	defaultLogSpec          = "@daily"
)

// Cleaner coordinates background maintenance: purging expired verification
// tokens, pruning old reminder logs, and (optionally) running the reminder
// scan on an in-process schedule.
type Cleaner struct {
	tokens    *services.VerificationService
	reminders *services.ReminderService
	cron      *cron.Cron
	now       func() time.Time
	log       *zap.Logger
	enabled   bool
	retention int

	tokenSchedule string
	logSchedule   string
	scanSchedule  string // empty disables the in-process reminder scan
}

// Option customises the Cleaner.
type Option func(*Cleaner)

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) Option {
	return func(cleaner *Cleaner) {
		if c != nil {
			cleaner.cron = c
		}
	}
}

// WithNow overrides the clock used for scheduling and cleanup comparisons.
func WithNow(now func() time.Time) Option {
	return func(cleaner *Cleaner) {
		if now != nil {
			cleaner.now = now
		}
	}
}

// WithLogRetentionDays adjusts how long reminder logs are retained.
func WithLogRetentionDays(days int) Option {
	return func(cleaner *Cleaner) {
		if days > 0 {
			cleaner.retention = days
		}
	}
}

// WithTokenSchedule overrides the cron specification for token cleanup.
func WithTokenSchedule(spec string) Option {
	return func(cleaner *Cleaner) {
		if spec != "" {
			cleaner.tokenSchedule = spec
		}
	}
}

// WithScanSchedule enables the in-process reminder scan on the given cron
// specification. When unset the scan only runs via the jobs endpoint.
func WithScanSchedule(spec string) Option {
	return func(cleaner *Cleaner) {
		cleaner.scanSchedule = spec
	}
}

// NewCleaner constructs a Cleaner with sensible defaults. Any nil dependency
// results in the corresponding job being skipped.
func NewCleaner(tokens *services.VerificationService, reminders *services.ReminderService, opts ...Option) *Cleaner {
	cleaner := &Cleaner{
		tokens:        tokens,
		reminders:     reminders,
		now:           time.Now,
		retention:     defaultLogRetentionDays,
		tokenSchedule: defaultTokenSpec,
		logSchedule:   defaultLogSpec,
		log:           logger.WithModule("maintenance"),
	}

	for _, opt := range opts {
		opt(cleaner)
	}

	if cleaner.cron == nil {
		cleaner.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}

	cleaner.enabled = cleaner.tokens != nil || cleaner.reminders != nil

	return cleaner
}

// Start registers the maintenance jobs with the cron scheduler and launches
// it if at least one job is enabled.
func (c *Cleaner) Start() error {
	if !c.enabled {
		return nil
	}

	if c.tokens != nil {
		if _, err := c.cron.AddFunc(c.tokenSchedule, func() {
			ctx := context.Background()
			if _, err := c.tokens.DeleteExpired(ctx, c.now()); err != nil {
				c.log.Warn("token cleanup failed", zap.Error(err))
			}
		}); err != nil {
			return err
		}
	}

	if c.reminders != nil && c.retention > 0 {
		if _, err := c.cron.AddFunc(c.logSchedule, func() {
			ctx := context.Background()
			cutoff := c.now().AddDate(0, 0, -c.retention)
			if _, err := c.reminders.DeleteLogsBefore(ctx, cutoff); err != nil {
				c.log.Warn("reminder log cleanup failed", zap.Error(err))
			}
		}); err != nil {
			return err
		}
	}

	if c.reminders != nil && c.scanSchedule != "" {
		if _, err := c.cron.AddFunc(c.scanSchedule, func() {
			ctx := context.Background()
			if _, err := c.reminders.Scan(ctx, c.now()); err != nil {
				c.log.Warn("reminder scan failed", zap.Error(err))
			}
		}); err != nil {
			return err
		}
	}

	c.cron.Start()
	return nil
}

// Stop halts the underlying scheduler, waiting for any running jobs to complete.
func (c *Cleaner) Stop() context.Context {
	if c.cron == nil {
		return context.Background()
	}
	return c.cron.Stop()
}

// RunOnce executes the cleanup routines sequentially. Primarily used in tests
// and during graceful shutdown. The reminder scan is deliberately excluded;
// shutdown must not send messages.
func (c *Cleaner) RunOnce(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var errs error

	if c.tokens != nil {
		if _, err := c.tokens.DeleteExpired(ctx, c.now()); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	if c.reminders != nil && c.retention > 0 {
		cutoff := c.now().AddDate(0, 0, -c.retention)
		if _, err := c.reminders.DeleteLogsBefore(ctx, cutoff); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	return errs
}
