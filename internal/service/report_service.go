package service

import (
	"context"

	"github.com/examhall/examhall-backend/internal/model"
)

// AuditLogStore is the read side of the audit trail.
type AuditLogStore interface {
	ListPaginated(ctx context.Context, limit, offset int) ([]model.AuditLog, int, error)
}

// ReportService serves the admin reporting views: stored exam results and
// the audit trail.
type ReportService struct {
	results ResultStore
	audits  AuditLogStore
}

// NewReportService creates a new ReportService.
func NewReportService(results ResultStore, audits AuditLogStore) *ReportService {
	return &ReportService{results: results, audits: audits}
}

// Results retrieves stored submissions, newest first.
func (s *ReportService) Results(ctx context.Context, limit, offset int) ([]model.ExamResult, int, error) {
	return s.results.ListPaginated(ctx, limit, offset)
}

// AuditLogs retrieves audit entries, newest first.
func (s *ReportService) AuditLogs(ctx context.Context, limit, offset int) ([]model.AuditLog, int, error) {
	return s.audits.ListPaginated(ctx, limit, offset)
}
