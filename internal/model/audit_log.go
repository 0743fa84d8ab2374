package model

import (
	"encoding/json"
	"time"
)

// AuditLog records a single administrator action for later review.
// Entries are queued to Redis by the services and persisted in batches
// by the audit worker.
type AuditLog struct {
	ID            int64           `json:"id"`
	AdminUsername string          `json:"admin_username"`
	Action        string          `json:"action"`
	Details       json.RawMessage `json:"details,omitempty"`
	Timestamp     time.Time       `json:"timestamp"`
}
