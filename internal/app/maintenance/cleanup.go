package maintenance

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/dgarcez/rachao/internal/services"
	"github.com/dgarcez/rachao/pkg/logger"
)

const defaultInviteSpec = "@daily"

// Cleaner runs background maintenance, currently purging admin invites that
// outlived their validity window so settings listings stay accurate without
// every request paying for the sweep.
type Cleaner struct {
	invites *services.InviteService
	cron    *cron.Cron
	log     *zap.Logger

	inviteSchedule string
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

// WithInviteSchedule overrides the cron specification for the invite sweep.
func WithInviteSchedule(spec string) Option {
	return func(cleaner *Cleaner) {
		if spec != "" {
			cleaner.inviteSchedule = spec
		}
	}
}

// NewCleaner constructs a Cleaner. A nil invite service disables the sweep.
func NewCleaner(invites *services.InviteService, opts ...Option) *Cleaner {
	cleaner := &Cleaner{
		invites:        invites,
		inviteSchedule: defaultInviteSpec,
		log:            logger.WithModule("maintenance"),
	}

	for _, opt := range opts {
		opt(cleaner)
	}

	if cleaner.cron == nil {
		cleaner.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}

	return cleaner
}

// Start registers the sweep with the scheduler and launches it.
func (c *Cleaner) Start() error {
	if c.invites == nil {
		return nil
	}

	if _, err := c.cron.AddFunc(c.inviteSchedule, func() {
		ctx := context.Background()
		if removed, err := c.invites.SweepExpired(ctx); err != nil {
			c.log.Warn("invite sweep failed", zap.Error(err))
		} else if removed > 0 {
			c.log.Info("expired invites purged", zap.Int64("count", removed))
		}
	}); err != nil {
		return err
	}

	c.cron.Start()
	return nil
}

// Stop halts the scheduler, waiting for any running job to complete.
func (c *Cleaner) Stop() context.Context {
	if c.cron == nil {
		return context.Background()
	}
	return c.cron.Stop()
}

// RunOnce executes all maintenance routines sequentially. Used in tests and
// during graceful shutdown.
func (c *Cleaner) RunOnce(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var errs error
	if c.invites != nil {
		if _, err := c.invites.SweepExpired(ctx); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}
