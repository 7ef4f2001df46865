// Package bridge runs the poll-normalize-publish cycle.
package bridge

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/john/elegoo_hub/logger"
	"github.com/john/elegoo_hub/printer"
	"github.com/john/elegoo_hub/publish"
)

// DefaultInterval is the sleep between cycles.
const DefaultInterval = 30 * time.Second

// Config holds what the bridge needs besides its collaborators.
type Config struct {
	Registry printer.Registry
	Interval time.Duration
	Endpoint string // only logged
}

// Bridge polls every registered printer in order, publishes the batch and
// sleeps a fixed interval. The sleep is not shortened by the time the cycle
// took, so the effective period is interval plus cycle duration.
type Bridge struct {
	config    Config
	fetcher   Fetcher
	publisher Publisher
	clock     Clock
	logger    logger.Logger
}

// New creates a bridge. A nil clock uses real time; a nil logger discards
// output.
func New(cfg Config, f Fetcher, p Publisher, clock Clock, log logger.Logger) *Bridge {
	if clock == nil {
		clock = realClock{}
	}
	if log == nil {
		log = logger.NewTestLogger()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}

	return &Bridge{
		config:    cfg,
		fetcher:   f,
		publisher: p,
		clock:     clock,
		logger:    log,
	}
}

// Run loops until ctx is cancelled and returns ctx.Err().
func (b *Bridge) Run(ctx context.Context) error {
	b.logger.Info().
		Int("printers", len(b.config.Registry)).
		Dur("interval", b.config.Interval).
		Str("endpoint", b.config.Endpoint).
		Msg("Elegoo hub starting")

	for {
		b.RunCycle(ctx)

		if err := b.clock.Sleep(ctx, b.config.Interval); err != nil {
			b.logger.Info().Msg("Elegoo hub stopping")
			return err
		}
	}
}

// RunCycle fetches and normalizes every printer, publishes the batch and
// returns it. Failures are logged; nothing here is fatal.
func (b *Bridge) RunCycle(ctx context.Context) printer.Batch {
	cycleID := uuid.NewString()
	log := b.logger.With().Str("cycle", cycleID).Logger()

	log.Info().Str("time", b.clock.Now().Format(time.TimeOnly)).Msg("Polling...")

	batch := printer.NormalizeBatch(b.config.Registry, func(cfg printer.Config) *printer.Status {
		log.Info().Str("printer", cfg.Name).Str("ip", cfg.IP).Msg("Querying")
		return b.fetcher.Fetch(ctx, cfg)
	})

	online, failed := batch.Summary()
	log.Debug().Int("online", online).Int("errors", failed).Msg("Batch assembled")

	res, err := b.publisher.Publish(publish.WithRequestID(ctx, cycleID), batch)
	if err != nil {
		log.Error().Err(err).Msg("Push failed")
		return batch
	}

	log.Info().Int("synced", res.Synced).Msgf("Synced %d printers", res.Synced)
	return batch
}
