package repository

import (
	"context"

	"github.com/examhall/examhall-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditRepository handles audit log persistence.
type AuditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

// InsertBatch stores a batch of audit entries drained from the Redis queue.
func (r *AuditRepository) InsertBatch(ctx context.Context, entries []model.AuditLog) error {
	if len(entries) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(
			`INSERT INTO audit_logs (admin_username, action, details, timestamp)
			 VALUES ($1, $2, $3, $4)`,
			e.AdminUsername, e.Action, e.Details, e.Timestamp)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range entries {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// ListPaginated retrieves audit entries newest-first.
func (r *AuditRepository) ListPaginated(ctx context.Context, limit, offset int) ([]model.AuditLog, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM audit_logs`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, admin_username, action, details, timestamp
		 FROM audit_logs
		 ORDER BY timestamp DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []model.AuditLog
	for rows.Next() {
		var e model.AuditLog
		if err := rows.Scan(&e.ID, &e.AdminUsername, &e.Action, &e.Details, &e.Timestamp); err != nil {
			return nil, 0, err
		}
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}
