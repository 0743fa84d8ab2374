package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/examhall/examhall-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ExamService manages exam scheduling and the exactly-once start transition.
type ExamService struct {
	exams     ExamStore
	questions QuestionStore
	audit     *AuditService
}

// NewExamService creates a new ExamService.
func NewExamService(exams ExamStore, questions QuestionStore, audit *AuditService) *ExamService {
	return &ExamService{exams: exams, questions: questions, audit: audit}
}

// Schedule creates a new exam in SCHEDULED state. Questions are not drawn
// until the exam starts.
func (s *ExamService) Schedule(ctx context.Context, actor string, req *model.ScheduleExamRequest) (*model.Exam, error) {
	count := req.NumberOfQuestions
	if count <= 0 {
		count = DefaultQuestionCount
	}

	e := &model.Exam{
		Title:             req.Title,
		Description:       req.Description,
		StartTime:         req.StartTime,
		DurationMinutes:   req.DurationMinutes,
		NumberOfQuestions: count,
		Status:            model.ExamStatusScheduled,
	}
	if err := s.exams.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("create exam: %w", err)
	}

	s.audit.Record(ctx, actor, "exam.schedule", map[string]any{"exam_id": e.ID, "title": e.Title})
	return e, nil
}

// Get retrieves a single exam.
func (s *ExamService) Get(ctx context.Context, id uuid.UUID) (*model.Exam, error) {
	e, err := s.exams.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch exam: %w", err)
	}
	return e, nil
}

// List retrieves exams with pagination and an optional status filter.
func (s *ExamService) List(ctx context.Context, status *model.ExamStatus, limit, offset int) ([]model.Exam, int, error) {
	return s.exams.ListPaginated(ctx, status, limit, offset)
}

// Update edits an exam's details. The sampled question set is never touched,
// and completed exams are immutable.
func (s *ExamService) Update(ctx context.Context, actor string, id uuid.UUID, req *model.UpdateExamRequest) (*model.Exam, error) {
	count := req.NumberOfQuestions
	if count <= 0 {
		count = DefaultQuestionCount
	}

	e := &model.Exam{
		ID:                id,
		Title:             req.Title,
		Description:       req.Description,
		StartTime:         req.StartTime,
		DurationMinutes:   req.DurationMinutes,
		NumberOfQuestions: count,
	}
	ok, err := s.exams.UpdateDetails(ctx, e)
	if err != nil {
		return nil, fmt.Errorf("update exam: %w", err)
	}
	if !ok {
		current, err := s.exams.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("fetch exam: %w", err)
		}
		if current.Status == model.ExamStatusCompleted {
			return nil, ErrExamCompleted
		}
		return nil, ErrNotFound
	}

	s.audit.Record(ctx, actor, "exam.update", map[string]any{"exam_id": id})
	return s.Get(ctx, id)
}

// Start flips a SCHEDULED exam to IN_PROGRESS immediately, sampling its
// question set and resetting its start time to now. The sample happens once
// for the life of the exam; a lost start race leaves the winner's set alone.
func (s *ExamService) Start(ctx context.Context, actor string, id uuid.UUID) (*model.Exam, error) {
	e, err := s.exams.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch exam: %w", err)
	}
	if e.Status != model.ExamStatusScheduled {
		if e.Status == model.ExamStatusCompleted {
			return nil, ErrExamCompleted
		}
		return nil, ErrExamNotScheduled
	}

	pool, err := s.questions.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list question pool: %w", err)
	}
	sampled := SampleQuestionIDs(pool, e.NumberOfQuestions)

	ok, err := s.exams.Start(ctx, id, sampled)
	if err != nil {
		return nil, fmt.Errorf("start exam: %w", err)
	}
	if !ok {
		// Lost the race. The winner already fixed the question set.
		current, err := s.exams.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("refetch exam: %w", err)
		}
		if current.Status == model.ExamStatusInProgress {
			return current, nil
		}
		return nil, ErrExamCompleted
	}

	s.audit.Record(ctx, actor, "exam.start", map[string]any{
		"exam_id":   id,
		"questions": len(sampled),
	})
	return s.Get(ctx, id)
}

// End marks an exam COMPLETED. Ending an already completed exam is rejected.
func (s *ExamService) End(ctx context.Context, actor string, id uuid.UUID) error {
	ok, err := s.exams.End(ctx, id)
	if err != nil {
		return fmt.Errorf("end exam: %w", err)
	}
	if !ok {
		if _, err := s.exams.GetByID(ctx, id); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("fetch exam: %w", err)
		}
		return ErrExamCompleted
	}
	s.audit.Record(ctx, actor, "exam.end", map[string]any{"exam_id": id})
	return nil
}

// Delete removes an exam. Stored results keep their denormalized exam title.
func (s *ExamService) Delete(ctx context.Context, actor string, id uuid.UUID) error {
	if err := s.exams.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete exam: %w", err)
	}
	s.audit.Record(ctx, actor, "exam.delete", map[string]any{"exam_id": id})
	return nil
}

// EndOverdue completes in-progress exams whose duration plus grace has
// elapsed. Called periodically by the expiry worker.
func (s *ExamService) EndOverdue(ctx context.Context, grace time.Duration) (int64, error) {
	return s.exams.EndOverdue(ctx, grace)
}
