package worker

// retry_cron.go
// Background goroutine that periodically looks for comandas that closed more
// than a grace period ago but still have zero total commission — the async
// calculation was lost or failed all its retries — and re-enqueues an
// idempotent recompute for each.

import (
	"context"
	"time"

	"github.com/warklp/saasBarber-sub001/internal/repository"

	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 10
)

// RetryCronConfig holds all dependencies for the repair goroutine.
type RetryCronConfig struct {
	ComandaRepo repository.ComandaRepository
	Dispatcher  *Dispatcher
	// GracePeriod is how long after close a comanda may sit without
	// commissions before the cron considers it stuck.
	GracePeriod time.Duration
}

// StartRetryCron launches a goroutine that ticks every 30s, queries stuck
// comandas, and re-enqueues their commission calculation. It respects the
// context for graceful shutdown.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				processRetries(ctx, cfg)
			}
		}
	}()
}

func processRetries(ctx context.Context, cfg RetryCronConfig) {
	cutoff := time.Now().Add(-cfg.GracePeriod)
	comandas, err := cfg.ComandaRepo.ListClosedMissingCommission(ctx, cutoff, retryBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("retry_cron: failed to query stuck comandas")
		return
	}
	if len(comandas) == 0 {
		return
	}

	log.Info().Int("count", len(comandas)).Msg("retry_cron: re-enqueueing stuck comandas")

	for i := range comandas {
		if err := cfg.Dispatcher.Recompute(ctx, comandas[i].ID); err != nil {
			log.Warn().Err(err).Str("comanda_id", comandas[i].ID.String()).
				Msg("retry_cron: failed to enqueue recompute")
		}
	}
}
