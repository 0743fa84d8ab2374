package repository

import (
	"context"
	"errors"
	"time"

	"github.com/examhall/examhall-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrStudentSeated is returned when an assignment would give a student a
// second seat. Backed by the partial unique index on assigned_student_id.
var ErrStudentSeated = errors.New("student is already assigned to another terminal")

// TerminalRepository handles terminal data access.
type TerminalRepository struct {
	pool *pgxpool.Pool
}

// NewTerminalRepository creates a new TerminalRepository.
func NewTerminalRepository(pool *pgxpool.Pool) *TerminalRepository {
	return &TerminalRepository{pool: pool}
}

const terminalColumns = `id, name, identifier, ip_address, status, assigned_student_id,
	        assigned_exam_id, live_status, last_seen, created_at, updated_at`

func scanTerminal(row interface{ Scan(...any) error }) (*model.Terminal, error) {
	t := &model.Terminal{}
	err := row.Scan(&t.ID, &t.Name, &t.Identifier, &t.IPAddress, &t.Status,
		&t.AssignedStudentID, &t.AssignedExamID, &t.LiveStatus, &t.LastSeen,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// GetByID retrieves a terminal by its UUID.
func (r *TerminalRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Terminal, error) {
	return scanTerminal(r.pool.QueryRow(ctx,
		`SELECT `+terminalColumns+` FROM terminals WHERE id = $1`, id))
}

// GetByIdentifier retrieves a terminal by its opaque registration identifier.
func (r *TerminalRepository) GetByIdentifier(ctx context.Context, identifier string) (*model.Terminal, error) {
	return scanTerminal(r.pool.QueryRow(ctx,
		`SELECT `+terminalColumns+` FROM terminals WHERE identifier = $1`, identifier))
}

// List retrieves all terminals, newest registrations first.
func (r *TerminalRepository) List(ctx context.Context) ([]model.Terminal, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+terminalColumns+` FROM terminals ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var terminals []model.Terminal
	for rows.Next() {
		t, err := scanTerminal(rows)
		if err != nil {
			return nil, err
		}
		terminals = append(terminals, *t)
	}
	return terminals, rows.Err()
}

// Create inserts a new terminal in PENDING state.
func (r *TerminalRepository) Create(ctx context.Context, t *model.Terminal) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO terminals (name, identifier, ip_address, status, live_status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, last_seen, created_at, updated_at`,
		t.Name, t.Identifier, t.IPAddress, t.Status, t.LiveStatus,
	).Scan(&t.ID, &t.LastSeen, &t.CreatedAt, &t.UpdatedAt)
}

// UpdateStatusIf transitions a terminal's status only when its current status
// is one of from. Returns false when no row matched (unknown id or an
// ineligible current status).
func (r *TerminalRepository) UpdateStatusIf(ctx context.Context, id uuid.UUID, to model.TerminalStatus, from []model.TerminalStatus) (bool, error) {
	allowed := make([]string, len(from))
	for i, s := range from {
		allowed[i] = string(s)
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE terminals SET status = $1, updated_at = NOW()
		 WHERE id = $2 AND status = ANY($3)`,
		to, id, allowed)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Delete removes a terminal. Deleting an unknown id is a no-op.
func (r *TerminalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM terminals WHERE id = $1`, id)
	return err
}

// Assign seats a student (and the student's exam, if any) on an approved
// terminal in a single conditional update. The partial unique index on
// assigned_student_id rejects a second seat for the same student; that case
// surfaces as ErrStudentSeated. Returns false when the terminal does not
// exist or is not APPROVED.
func (r *TerminalRepository) Assign(ctx context.Context, terminalID, studentID uuid.UUID, examID *uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE terminals
		 SET assigned_student_id = $2, assigned_exam_id = $3,
		     live_status = $4, last_seen = NOW(), updated_at = NOW()
		 WHERE id = $1 AND status = $5`,
		terminalID, studentID, examID, model.LiveStatusReady, model.TerminalStatusApproved)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return false, ErrStudentSeated
		}
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Unassign clears a terminal's seat and exam cache. Returns false when the
// terminal does not exist.
func (r *TerminalRepository) Unassign(ctx context.Context, terminalID uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE terminals
		 SET assigned_student_id = NULL, assigned_exam_id = NULL,
		     live_status = $2, last_seen = NOW(), updated_at = NOW()
		 WHERE id = $1`,
		terminalID, model.LiveStatusOnline)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// RecordHeartbeat refreshes last_seen and, when reported is non-empty, the
// stored live status. FINISHED is terminal for the seat: once set, later
// self-reports only refresh last_seen. Returns false when the identifier is
// unknown.
func (r *TerminalRepository) RecordHeartbeat(ctx context.Context, identifier string, reported model.LiveStatus) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE terminals
		 SET live_status = CASE WHEN live_status = $3 THEN live_status
		                        ELSE COALESCE(NULLIF($2, ''), live_status) END,
		     last_seen = NOW(), updated_at = NOW()
		 WHERE identifier = $1`,
		identifier, string(reported), model.LiveStatusFinished)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// TouchLastSeen refreshes a terminal's liveness timestamp only.
func (r *TerminalRepository) TouchLastSeen(ctx context.Context, identifier string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE terminals SET last_seen = NOW() WHERE identifier = $1`, identifier)
	return err
}

// FinishByStudent flips the terminal seating the given student to FINISHED.
// Called on successful submission; missing seat is not an error.
func (r *TerminalRepository) FinishByStudent(ctx context.Context, studentID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE terminals SET live_status = $2, updated_at = NOW()
		 WHERE assigned_student_id = $1`,
		studentID, model.LiveStatusFinished)
	return err
}

// UnassignByStudent clears the seat on any terminal referencing the student.
// Used when a student is deleted.
func (r *TerminalRepository) UnassignByStudent(ctx context.Context, studentID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE terminals
		 SET assigned_student_id = NULL, assigned_exam_id = NULL,
		     live_status = $2, updated_at = NOW()
		 WHERE assigned_student_id = $1`,
		studentID, model.LiveStatusOnline)
	return err
}

// SyncAssignedExam refreshes the cached exam id on the terminal seating the
// student. The student row is the source of truth for the exam assignment.
func (r *TerminalRepository) SyncAssignedExam(ctx context.Context, studentID uuid.UUID, examID *uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE terminals SET assigned_exam_id = $2, updated_at = NOW()
		 WHERE assigned_student_id = $1`,
		studentID, examID)
	return err
}

// LiveBoardEntry joins a seated terminal with its student and exam for the
// live-status dashboard. ExamTitle/ExamStatus are nil when the student has
// no exam assigned.
type LiveBoardEntry struct {
	TerminalID   uuid.UUID
	TerminalName string
	StudentName  string
	StudentRoll  string
	ExamTitle    *string
	ExamStatus   *model.ExamStatus
	StoredLive   model.LiveStatus
	LastSeen     time.Time
}

// ListAssigned returns one row per terminal that currently seats a student.
func (r *TerminalRepository) ListAssigned(ctx context.Context) ([]LiveBoardEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT t.id, t.name, s.name, s.roll_number, e.title, e.status, t.live_status, t.last_seen
		 FROM terminals t
		 JOIN students s ON s.id = t.assigned_student_id
		 LEFT JOIN exams e ON e.id = t.assigned_exam_id
		 WHERE t.assigned_student_id IS NOT NULL
		 ORDER BY t.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []LiveBoardEntry
	for rows.Next() {
		var e LiveBoardEntry
		if err := rows.Scan(&e.TerminalID, &e.TerminalName, &e.StudentName, &e.StudentRoll,
			&e.ExamTitle, &e.ExamStatus, &e.StoredLive, &e.LastSeen); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
