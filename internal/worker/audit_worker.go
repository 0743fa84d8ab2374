package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/examhall/examhall-backend/internal/config"
	"github.com/examhall/examhall-backend/internal/model"
	"github.com/examhall/examhall-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	auditBatchSize    = 100
	auditFlushTimeout = 5 * time.Second
)

// AuditWorker drains the audit queue from Redis and persists entries to
// Postgres in batches.
type AuditWorker struct {
	redis  *redis.Client
	audits *repository.AuditRepository
	logger zerolog.Logger
}

// NewAuditWorker creates a new AuditWorker.
func NewAuditWorker(redisClient *redis.Client, audits *repository.AuditRepository) *AuditWorker {
	return &AuditWorker{
		redis:  redisClient,
		audits: audits,
		logger: log.With().Str("component", "audit_worker").Logger(),
	}
}

// Run blocks draining the queue until ctx is cancelled. Any batch still in
// hand at shutdown is flushed first.
func (w *AuditWorker) Run(ctx context.Context) {
	w.logger.Info().Msg("audit worker started")

	batch := make([]model.AuditLog, 0, auditBatchSize)
	flushTimer := time.NewTimer(auditFlushTimeout)
	defer flushTimer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.flushSafe(batch)
			w.logger.Info().Msg("audit worker stopped")
			return
		case <-flushTimer.C:
			w.flushSafe(batch)
			batch = batch[:0]
			flushTimer.Reset(auditFlushTimeout)
		default:
		}

		res, err := w.redis.BLPop(ctx, time.Second, config.WorkerKey.PersistAuditQueue).Result()
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			if !errors.Is(err, redis.Nil) {
				w.logger.Warn().Err(err).Msg("queue pop failed")
				time.Sleep(time.Second)
			}
			continue
		}

		// BLPop returns [key, value].
		var entry model.AuditLog
		if err := json.Unmarshal([]byte(res[1]), &entry); err != nil {
			w.logger.Warn().Err(err).Msg("malformed audit entry dropped")
			continue
		}
		batch = append(batch, entry)

		if len(batch) >= auditBatchSize {
			w.flushSafe(batch)
			batch = batch[:0]
			flushTimer.Reset(auditFlushTimeout)
		}
	}
}

// flushSafe persists a batch with its own timeout so shutdown cannot hang on
// a slow database.
func (w *AuditWorker) flushSafe(batch []model.AuditLog) {
	if len(batch) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := w.audits.InsertBatch(ctx, batch); err != nil {
		w.logger.Error().Err(err).Int("entries", len(batch)).Msg("audit batch persist failed")
		return
	}
	w.logger.Debug().Int("entries", len(batch)).Msg("audit batch persisted")
}
