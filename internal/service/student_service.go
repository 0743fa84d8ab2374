package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/examhall/examhall-backend/internal/model"
	"github.com/examhall/examhall-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// StudentService manages the student roster. The student row owns the exam
// assignment; any terminal seating the student carries a cached copy that is
// kept in sync here.
type StudentService struct {
	students  StudentStore
	exams     ExamStore
	terminals TerminalStore
	audit     *AuditService
}

// NewStudentService creates a new StudentService.
func NewStudentService(students StudentStore, exams ExamStore, terminals TerminalStore, audit *AuditService) *StudentService {
	return &StudentService{students: students, exams: exams, terminals: terminals, audit: audit}
}

// Get retrieves a single student.
func (s *StudentService) Get(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch student: %w", err)
	}
	return student, nil
}

// List retrieves students with pagination.
func (s *StudentService) List(ctx context.Context, limit, offset int) ([]model.Student, int, error) {
	return s.students.ListPaginated(ctx, limit, offset)
}

// Create adds a student to the roster.
func (s *StudentService) Create(ctx context.Context, actor string, req *model.CreateStudentRequest) (*model.Student, error) {
	if err := s.checkExam(ctx, req.AssignedExamID); err != nil {
		return nil, err
	}

	student := &model.Student{
		Name:           req.Name,
		RollNumber:     req.RollNumber,
		ClassBatch:     req.ClassBatch,
		AssignedExamID: req.AssignedExamID,
	}
	if err := s.students.Create(ctx, student); err != nil {
		if errors.Is(err, repository.ErrDuplicateRollNumber) {
			return nil, ErrDuplicateRollNumber
		}
		return nil, fmt.Errorf("create student: %w", err)
	}

	s.audit.Record(ctx, actor, "student.create", map[string]any{
		"student_id":  student.ID,
		"roll_number": student.RollNumber,
	})
	return student, nil
}

// Update edits a student. A changed exam assignment is propagated to the
// terminal seating the student, so the seat's cached exam never goes stale.
func (s *StudentService) Update(ctx context.Context, actor string, id uuid.UUID, req *model.UpdateStudentRequest) (*model.Student, error) {
	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkExam(ctx, req.AssignedExamID); err != nil {
		return nil, err
	}

	examChanged := !uuidPtrEqual(student.AssignedExamID, req.AssignedExamID)

	student.Name = req.Name
	student.RollNumber = req.RollNumber
	student.ClassBatch = req.ClassBatch
	student.AssignedExamID = req.AssignedExamID
	if err := s.students.Update(ctx, student); err != nil {
		if errors.Is(err, repository.ErrDuplicateRollNumber) {
			return nil, ErrDuplicateRollNumber
		}
		return nil, fmt.Errorf("update student: %w", err)
	}

	if examChanged {
		if err := s.terminals.SyncAssignedExam(ctx, id, req.AssignedExamID); err != nil {
			return nil, fmt.Errorf("sync terminal exam: %w", err)
		}
	}

	s.audit.Record(ctx, actor, "student.update", map[string]any{"student_id": id})
	return student, nil
}

// Delete removes a student and frees any seat holding them. Deleting an
// unknown student is a no-op.
func (s *StudentService) Delete(ctx context.Context, actor string, id uuid.UUID) error {
	if err := s.terminals.UnassignByStudent(ctx, id); err != nil {
		return fmt.Errorf("unassign terminal: %w", err)
	}
	if err := s.students.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	s.audit.Record(ctx, actor, "student.delete", map[string]any{"student_id": id})
	return nil
}

// checkExam verifies a referenced exam exists.
func (s *StudentService) checkExam(ctx context.Context, examID *uuid.UUID) error {
	if examID == nil {
		return nil
	}
	if _, err := s.exams.GetByID(ctx, *examID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("fetch exam: %w", err)
	}
	return nil
}

func uuidPtrEqual(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
