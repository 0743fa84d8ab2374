package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/examhall/examhall-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ExamRepository handles exam data access.
type ExamRepository struct {
	pool *pgxpool.Pool
}

// NewExamRepository creates a new ExamRepository.
func NewExamRepository(pool *pgxpool.Pool) *ExamRepository {
	return &ExamRepository{pool: pool}
}

const examColumns = `id, title, description, start_time, duration_minutes,
	        number_of_questions, status, question_ids, created_at, updated_at`

func scanExam(row interface{ Scan(...any) error }) (*model.Exam, error) {
	e := &model.Exam{}
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.StartTime, &e.DurationMinutes,
		&e.NumberOfQuestions, &e.Status, &e.QuestionIDs, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// GetByID retrieves an exam by its UUID.
func (r *ExamRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Exam, error) {
	return scanExam(r.pool.QueryRow(ctx,
		`SELECT `+examColumns+` FROM exams WHERE id = $1`, id))
}

// ListPaginated retrieves exams with pagination and an optional status filter.
func (r *ExamRepository) ListPaginated(ctx context.Context, status *model.ExamStatus, limit, offset int) ([]model.Exam, int, error) {
	countQuery := `SELECT COUNT(*) FROM exams`
	var countArgs []interface{}
	if status != nil {
		countQuery += ` WHERE status = $1`
		countArgs = append(countArgs, *status)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + examColumns + ` FROM exams`
	var args []interface{}
	argIdx := 1

	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
		argIdx++
	}

	query += ` ORDER BY start_time DESC LIMIT $` + strconv.Itoa(argIdx) + ` OFFSET $` + strconv.Itoa(argIdx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var exams []model.Exam
	for rows.Next() {
		e, err := scanExam(rows)
		if err != nil {
			return nil, 0, err
		}
		exams = append(exams, *e)
	}
	return exams, total, rows.Err()
}

// Create inserts a new exam in SCHEDULED state with an empty question set.
func (r *ExamRepository) Create(ctx context.Context, e *model.Exam) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO exams (title, description, start_time, duration_minutes, number_of_questions, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, question_ids, created_at, updated_at`,
		e.Title, e.Description, e.StartTime, e.DurationMinutes, e.NumberOfQuestions, e.Status,
	).Scan(&e.ID, &e.QuestionIDs, &e.CreatedAt, &e.UpdatedAt)
}

// UpdateDetails edits an exam's mutable fields. The question set is never
// touched here. Returns false when the exam is missing or already COMPLETED.
func (r *ExamRepository) UpdateDetails(ctx context.Context, e *model.Exam) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE exams
		 SET title = $1, description = $2, start_time = $3, duration_minutes = $4,
		     number_of_questions = $5, updated_at = NOW()
		 WHERE id = $6 AND status <> $7`,
		e.Title, e.Description, e.StartTime, e.DurationMinutes, e.NumberOfQuestions,
		e.ID, model.ExamStatusCompleted)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Start flips a SCHEDULED exam to IN_PROGRESS, fixing its question set and
// resetting start_time, in one status-guarded update. A concurrent duplicate
// start sees zero rows affected and must not re-sample.
func (r *ExamRepository) Start(ctx context.Context, id uuid.UUID, questionIDs []uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE exams
		 SET status = $1, start_time = NOW(), question_ids = $2, updated_at = NOW()
		 WHERE id = $3 AND status = $4`,
		model.ExamStatusInProgress, questionIDs, id, model.ExamStatusScheduled)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// End marks an exam COMPLETED. Allowed from SCHEDULED or IN_PROGRESS; ending
// an already completed exam affects zero rows.
func (r *ExamRepository) End(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE exams SET status = $1, updated_at = NOW()
		 WHERE id = $2 AND status <> $1`,
		model.ExamStatusCompleted, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Delete removes an exam. Results referencing it are kept for audit.
func (r *ExamRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM exams WHERE id = $1`, id)
	return err
}

// EndOverdue completes every IN_PROGRESS exam whose start_time + duration
// (+ grace) has elapsed. Returns the number of exams ended.
func (r *ExamRepository) EndOverdue(ctx context.Context, grace time.Duration) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE exams SET status = $1, updated_at = NOW()
		 WHERE status = $2
		   AND start_time + duration_minutes * interval '1 minute' + $3 * interval '1 second' < NOW()`,
		model.ExamStatusCompleted, model.ExamStatusInProgress, int64(grace.Seconds()))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
