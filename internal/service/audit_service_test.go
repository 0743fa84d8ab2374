package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/examhall/examhall-backend/internal/config"
	"github.com/examhall/examhall-backend/internal/model"
	"github.com/redis/go-redis/v9"
)

// newTestAudit returns an AuditService backed by an in-process Redis.
func newTestAudit(t *testing.T) (*AuditService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewAuditService(client), mr
}

func TestAuditRecordQueuesEntry(t *testing.T) {
	audit, mr := newTestAudit(t)
	ctx := context.Background()

	audit.Record(ctx, "alice", "exam.start", map[string]any{"exam_id": "abc"})

	raw, err := mr.Lpop(config.WorkerKey.PersistAuditQueue)
	if err != nil {
		t.Fatalf("queue empty: %v", err)
	}

	var entry model.AuditLog
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		t.Fatalf("unmarshal entry: %v", err)
	}
	if entry.AdminUsername != "alice" {
		t.Errorf("AdminUsername = %q, want alice", entry.AdminUsername)
	}
	if entry.Action != "exam.start" {
		t.Errorf("Action = %q, want exam.start", entry.Action)
	}
	if entry.Timestamp.IsZero() {
		t.Error("Timestamp not set")
	}
	var details map[string]string
	if err := json.Unmarshal(entry.Details, &details); err != nil {
		t.Fatalf("unmarshal details: %v", err)
	}
	if details["exam_id"] != "abc" {
		t.Errorf("details = %v", details)
	}
}

func TestAuditRecordWithoutDetails(t *testing.T) {
	audit, mr := newTestAudit(t)

	audit.Record(context.Background(), "bob", "admin.logout", nil)

	raw, err := mr.Lpop(config.WorkerKey.PersistAuditQueue)
	if err != nil {
		t.Fatalf("queue empty: %v", err)
	}
	var entry model.AuditLog
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		t.Fatalf("unmarshal entry: %v", err)
	}
	if len(entry.Details) != 0 {
		t.Errorf("Details = %s, want empty", entry.Details)
	}
}

func TestAuditRecordSurvivesRedisOutage(t *testing.T) {
	audit, mr := newTestAudit(t)
	mr.Close()

	// Must not panic or block; audit is best effort.
	audit.Record(context.Background(), "alice", "exam.end", nil)
}
