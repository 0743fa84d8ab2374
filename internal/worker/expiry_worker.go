package worker

import (
	"context"
	"time"

	"github.com/examhall/examhall-backend/internal/service"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ExpiryWorker periodically completes in-progress exams whose duration has
// elapsed, so an exam never stays open just because no client auto-submitted.
type ExpiryWorker struct {
	exams    *service.ExamService
	interval time.Duration
	grace    time.Duration
	logger   zerolog.Logger
}

// NewExpiryWorker creates a new ExpiryWorker.
func NewExpiryWorker(exams *service.ExamService, interval, grace time.Duration) *ExpiryWorker {
	return &ExpiryWorker{
		exams:    exams,
		interval: interval,
		grace:    grace,
		logger:   log.With().Str("component", "expiry_worker").Logger(),
	}
}

// Run sweeps on a ticker until ctx is cancelled.
func (w *ExpiryWorker) Run(ctx context.Context) {
	w.logger.Info().Dur("interval", w.interval).Dur("grace", w.grace).Msg("expiry worker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("expiry worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *ExpiryWorker) sweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	ended, err := w.exams.EndOverdue(sweepCtx, w.grace)
	if err != nil {
		w.logger.Error().Err(err).Msg("overdue sweep failed")
		return
	}
	if ended > 0 {
		w.logger.Info().Int64("ended", ended).Msg("overdue exams completed")
	}
}
