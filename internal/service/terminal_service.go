package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/examhall/examhall-backend/internal/model"
	"github.com/examhall/examhall-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TerminalService implements the terminal lifecycle: registration, approval,
// seat assignment, liveness polling and the admin live board.
type TerminalService struct {
	terminals TerminalStore
	students  StudentStore
	exams     ExamStore
	results   ResultStore
	audit     *AuditService
}

// NewTerminalService creates a new TerminalService.
func NewTerminalService(terminals TerminalStore, students StudentStore, exams ExamStore, results ResultStore, audit *AuditService) *TerminalService {
	return &TerminalService{
		terminals: terminals,
		students:  students,
		exams:     exams,
		results:   results,
		audit:     audit,
	}
}

// newIdentifier mints the opaque credential a terminal uses for all later
// polling. 8 random bytes is plenty for a hall-sized fleet.
func newIdentifier() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate identifier: %w", err)
	}
	return "term-" + hex.EncodeToString(buf), nil
}

// Register creates a new PENDING terminal and returns it with its identifier.
func (s *TerminalService) Register(ctx context.Context, name, ipAddress string) (*model.Terminal, error) {
	identifier, err := newIdentifier()
	if err != nil {
		return nil, err
	}

	t := &model.Terminal{
		Name:       name,
		Identifier: identifier,
		IPAddress:  ipAddress,
		Status:     model.TerminalStatusPending,
		LiveStatus: model.LiveStatusOnline,
	}
	if err := s.terminals.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create terminal: %w", err)
	}
	return t, nil
}

// GetStatus resolves everything a polling terminal needs: its own record,
// the seated student, the assigned exam and whether that exam was already
// taken. The poll doubles as a liveness signal, so last_seen is refreshed.
func (s *TerminalService) GetStatus(ctx context.Context, identifier string) (*model.TerminalStatusDetails, error) {
	t, err := s.terminals.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch terminal: %w", err)
	}

	if err := s.terminals.TouchLastSeen(ctx, identifier); err != nil {
		return nil, fmt.Errorf("touch last seen: %w", err)
	}
	t.LastSeen = time.Now()

	details := &model.TerminalStatusDetails{Terminal: *t}

	var examStatus *model.ExamStatus
	if t.AssignedStudentID != nil {
		student, err := s.students.GetByID(ctx, *t.AssignedStudentID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("fetch student: %w", err)
		}
		if student != nil {
			details.StudentName = student.Name
			details.StudentRoll = student.RollNumber
		}
	}
	if t.AssignedExamID != nil {
		exam, err := s.exams.GetByID(ctx, *t.AssignedExamID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("fetch exam: %w", err)
		}
		if exam != nil {
			details.Exam = exam.Summary()
			examStatus = &exam.Status
		}
		if t.AssignedStudentID != nil {
			taken, err := s.results.Exists(ctx, *t.AssignedStudentID, *t.AssignedExamID)
			if err != nil {
				return nil, fmt.Errorf("check result: %w", err)
			}
			details.ExamAlreadyTaken = taken
		}
	}

	details.LiveStatus = DeriveLiveStatus(t.LiveStatus, examStatus, t.LastSeen, time.Now())
	return details, nil
}

// Heartbeat refreshes a terminal's liveness and, optionally, its
// self-reported live status.
func (s *TerminalService) Heartbeat(ctx context.Context, identifier string, reported model.LiveStatus) error {
	ok, err := s.terminals.RecordHeartbeat(ctx, identifier, reported)
	if err != nil {
		return fmt.Errorf("record heartbeat: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// List returns all registered terminals.
func (s *TerminalService) List(ctx context.Context) ([]model.Terminal, error) {
	return s.terminals.List(ctx)
}

// Approve admits a PENDING terminal. Approving a terminal in any other state
// is rejected.
func (s *TerminalService) Approve(ctx context.Context, actor string, id uuid.UUID) error {
	ok, err := s.terminals.UpdateStatusIf(ctx, id, model.TerminalStatusApproved,
		[]model.TerminalStatus{model.TerminalStatusPending})
	if err != nil {
		return fmt.Errorf("approve terminal: %w", err)
	}
	if !ok {
		return s.transitionFailure(ctx, id)
	}
	s.audit.Record(ctx, actor, "terminal.approve", map[string]any{"terminal_id": id})
	return nil
}

// Reject turns away a PENDING or previously APPROVED terminal. Rejection is
// final; a rejected machine must re-register to try again.
func (s *TerminalService) Reject(ctx context.Context, actor string, id uuid.UUID) error {
	ok, err := s.terminals.UpdateStatusIf(ctx, id, model.TerminalStatusRejected,
		[]model.TerminalStatus{model.TerminalStatusPending, model.TerminalStatusApproved})
	if err != nil {
		return fmt.Errorf("reject terminal: %w", err)
	}
	if !ok {
		return s.transitionFailure(ctx, id)
	}
	s.audit.Record(ctx, actor, "terminal.reject", map[string]any{"terminal_id": id})
	return nil
}

// transitionFailure distinguishes a missing terminal from an ineligible
// current status after a guarded update matched zero rows.
func (s *TerminalService) transitionFailure(ctx context.Context, id uuid.UUID) error {
	if _, err := s.terminals.GetByID(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("fetch terminal: %w", err)
	}
	return ErrInvalidTransition
}

// Delete removes a terminal entirely.
func (s *TerminalService) Delete(ctx context.Context, actor string, id uuid.UUID) error {
	if err := s.terminals.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete terminal: %w", err)
	}
	s.audit.Record(ctx, actor, "terminal.delete", map[string]any{"terminal_id": id})
	return nil
}

// AssignStudent seats a student on an approved terminal, or clears the seat
// when studentID is nil. The student's exam assignment is copied onto the
// terminal as a cache. A student may hold at most one seat.
func (s *TerminalService) AssignStudent(ctx context.Context, actor string, terminalID uuid.UUID, studentID *uuid.UUID) error {
	if studentID == nil {
		ok, err := s.terminals.Unassign(ctx, terminalID)
		if err != nil {
			return fmt.Errorf("unassign terminal: %w", err)
		}
		if !ok {
			return ErrNotFound
		}
		s.audit.Record(ctx, actor, "terminal.unassign", map[string]any{"terminal_id": terminalID})
		return nil
	}

	student, err := s.students.GetByID(ctx, *studentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("fetch student: %w", err)
	}

	ok, err := s.terminals.Assign(ctx, terminalID, student.ID, student.AssignedExamID)
	if err != nil {
		if errors.Is(err, repository.ErrStudentSeated) {
			return ErrStudentSeated
		}
		return fmt.Errorf("assign student: %w", err)
	}
	if !ok {
		if _, err := s.terminals.GetByID(ctx, terminalID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("fetch terminal: %w", err)
		}
		return ErrTerminalNotApproved
	}

	s.audit.Record(ctx, actor, "terminal.assign", map[string]any{
		"terminal_id": terminalID,
		"student_id":  student.ID,
	})
	return nil
}

// LiveBoard builds the admin dashboard: one row per seated terminal with the
// live status derived at read time.
func (s *TerminalService) LiveBoard(ctx context.Context) ([]model.LiveBoardRow, error) {
	entries, err := s.terminals.ListAssigned(ctx)
	if err != nil {
		return nil, fmt.Errorf("list assigned terminals: %w", err)
	}

	now := time.Now()
	rows := make([]model.LiveBoardRow, 0, len(entries))
	for _, e := range entries {
		row := model.LiveBoardRow{
			TerminalID:   e.TerminalID,
			TerminalName: e.TerminalName,
			StudentName:  e.StudentName,
			StudentRoll:  e.StudentRoll,
			ExamStatus:   e.ExamStatus,
			LastSeen:     e.LastSeen,
			LiveStatus:   DeriveLiveStatus(e.StoredLive, e.ExamStatus, e.LastSeen, now),
		}
		if e.ExamTitle != nil {
			row.ExamTitle = *e.ExamTitle
		}
		rows = append(rows, row)
	}
	return rows, nil
}
