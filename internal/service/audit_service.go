package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/examhall/examhall-backend/internal/config"
	"github.com/examhall/examhall-backend/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// AuditService queues administrator actions for asynchronous persistence.
// Entries are pushed to a Redis list and drained in batches by the audit
// worker, keeping audit writes off the request path.
type AuditService struct {
	redis *redis.Client
}

// NewAuditService creates a new AuditService.
func NewAuditService(redisClient *redis.Client) *AuditService {
	return &AuditService{redis: redisClient}
}

// Record queues one audit entry. Best effort: a queue failure is logged and
// swallowed so an audit outage never fails the admin operation itself.
func (s *AuditService) Record(ctx context.Context, adminUsername, action string, details any) {
	entry := model.AuditLog{
		AdminUsername: adminUsername,
		Action:        action,
		Timestamp:     time.Now().UTC(),
	}
	if details != nil {
		raw, err := json.Marshal(details)
		if err != nil {
			log.Warn().Err(err).Str("action", action).Msg("audit: marshal details failed")
		} else {
			entry.Details = raw
		}
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		log.Warn().Err(err).Str("action", action).Msg("audit: marshal entry failed")
		return
	}

	if err := s.redis.RPush(ctx, config.WorkerKey.PersistAuditQueue, payload).Err(); err != nil {
		log.Warn().Err(err).Str("action", action).Msg("audit: queue push failed")
	}
}
