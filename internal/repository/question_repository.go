package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/examhall/examhall-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// QuestionRepository handles question-bank data access.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

const questionColumns = `id, text, options, correct_options, category, tags, weight, negative_marking`

func scanQuestion(row interface{ Scan(...any) error }) (*model.Question, error) {
	q := &model.Question{}
	var optionsJSON []byte
	var correct []int32
	err := row.Scan(&q.ID, &q.Text, &optionsJSON, &correct, &q.Category, &q.Tags,
		&q.Weight, &q.NegativeMarking)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(optionsJSON, &q.Options); err != nil {
		return nil, fmt.Errorf("unmarshal options: %w", err)
	}
	q.CorrectOptions = make([]int, len(correct))
	for i, c := range correct {
		q.CorrectOptions[i] = int(c)
	}
	return q, nil
}

func toInt32s(values []int) []int32 {
	out := make([]int32, len(values))
	for i, v := range values {
		out[i] = int32(v)
	}
	return out
}

// GetByID retrieves a question by its UUID.
func (r *QuestionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Question, error) {
	return scanQuestion(r.pool.QueryRow(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE id = $1`, id))
}

// ListPaginated retrieves questions with pagination.
func (r *QuestionRepository) ListPaginated(ctx context.Context, limit, offset int) ([]model.Question, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM questions`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+questionColumns+` FROM questions ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, 0, err
		}
		questions = append(questions, *q)
	}
	return questions, total, rows.Err()
}

// ListIDs returns the ids of the entire question pool. Input to the sampler.
func (r *QuestionRepository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM questions`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListByIDs retrieves the questions for the given ids in the order given.
// Ids with no matching row are silently skipped.
func (r *QuestionRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[uuid.UUID]model.Question, len(ids))
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		byID[q.ID] = *q
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ordered := make([]model.Question, 0, len(ids))
	for _, id := range ids {
		if q, ok := byID[id]; ok {
			ordered = append(ordered, q)
		}
	}
	return ordered, nil
}

// Create inserts a new question.
func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	optionsJSON, err := json.Marshal(q.Options)
	if err != nil {
		return fmt.Errorf("marshal options: %w", err)
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO questions (text, options, correct_options, category, tags, weight, negative_marking)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		q.Text, optionsJSON, toInt32s(q.CorrectOptions), q.Category, q.Tags,
		q.Weight, q.NegativeMarking,
	).Scan(&q.ID)
}

// Update modifies an existing question. Exams that already sampled it keep
// serving the updated content; the sampled id list itself never changes.
func (r *QuestionRepository) Update(ctx context.Context, q *model.Question) error {
	optionsJSON, err := json.Marshal(q.Options)
	if err != nil {
		return fmt.Errorf("marshal options: %w", err)
	}
	_, err = r.pool.Exec(ctx,
		`UPDATE questions
		 SET text = $1, options = $2, correct_options = $3, category = $4,
		     tags = $5, weight = $6, negative_marking = $7, updated_at = NOW()
		 WHERE id = $8`,
		q.Text, optionsJSON, toInt32s(q.CorrectOptions), q.Category, q.Tags,
		q.Weight, q.NegativeMarking, q.ID)
	return err
}

// Delete removes a question by id.
func (r *QuestionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	return err
}
