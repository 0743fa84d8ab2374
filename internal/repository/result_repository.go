package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/examhall/examhall-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrDuplicateResult is returned when a result already exists for the
// (student, exam) pair. Backed by the unique index on exam_results.
var ErrDuplicateResult = errors.New("a result for this student and exam already exists")

// ResultRepository handles exam result data access.
type ResultRepository struct {
	pool *pgxpool.Pool
}

// NewResultRepository creates a new ResultRepository.
func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

// Insert stores a result exactly once per (student, exam) pair. A concurrent
// duplicate insert loses the ON CONFLICT race and gets ErrDuplicateResult;
// the stored row is never overwritten.
func (r *ResultRepository) Insert(ctx context.Context, res *model.ExamResult) error {
	answersJSON, err := json.Marshal(res.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}

	err = r.pool.QueryRow(ctx,
		`INSERT INTO exam_results (student_id, exam_id, student_name, exam_title, answers, score, total_questions)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (student_id, exam_id) DO NOTHING
		 RETURNING id, completed_at`,
		res.StudentID, res.ExamID, res.StudentName, res.ExamTitle, answersJSON,
		res.Score, res.TotalQuestions,
	).Scan(&res.ID, &res.CompletedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return ErrDuplicateResult
	}
	return err
}

// Exists reports whether a result is already recorded for the pair.
func (r *ResultRepository) Exists(ctx context.Context, studentID, examID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM exam_results WHERE student_id = $1 AND exam_id = $2)`,
		studentID, examID,
	).Scan(&exists)
	return exists, err
}

// ListPaginated retrieves results newest-first.
func (r *ResultRepository) ListPaginated(ctx context.Context, limit, offset int) ([]model.ExamResult, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM exam_results`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, student_id, exam_id, student_name, exam_title, answers, score, total_questions, completed_at
		 FROM exam_results
		 ORDER BY completed_at DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var results []model.ExamResult
	for rows.Next() {
		var res model.ExamResult
		var answersJSON []byte
		if err := rows.Scan(&res.ID, &res.StudentID, &res.ExamID, &res.StudentName,
			&res.ExamTitle, &answersJSON, &res.Score, &res.TotalQuestions, &res.CompletedAt); err != nil {
			return nil, 0, err
		}
		if err := json.Unmarshal(answersJSON, &res.Answers); err != nil {
			return nil, 0, fmt.Errorf("unmarshal answers: %w", err)
		}
		results = append(results, res)
	}
	return results, total, rows.Err()
}
