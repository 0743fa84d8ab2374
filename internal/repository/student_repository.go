package repository

import (
	"context"
	"errors"

	"github.com/examhall/examhall-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrDuplicateRollNumber is returned when a student's roll number collides
// with an existing row.
var ErrDuplicateRollNumber = errors.New("student with this roll number already exists")

// StudentRepository handles student data access.
type StudentRepository struct {
	pool *pgxpool.Pool
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

const studentColumns = `id, name, roll_number, class_batch, assigned_exam_id, created_at, updated_at`

func scanStudent(row interface{ Scan(...any) error }) (*model.Student, error) {
	s := &model.Student{}
	err := row.Scan(&s.ID, &s.Name, &s.RollNumber, &s.ClassBatch, &s.AssignedExamID,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetByID retrieves a student by id.
func (r *StudentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	return scanStudent(r.pool.QueryRow(ctx,
		`SELECT `+studentColumns+` FROM students WHERE id = $1`, id))
}

// ListPaginated retrieves students with pagination, ordered by roll number.
func (r *StudentRepository) ListPaginated(ctx context.Context, limit, offset int) ([]model.Student, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM students`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+studentColumns+` FROM students ORDER BY roll_number LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var students []model.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, 0, err
		}
		students = append(students, *s)
	}
	return students, total, rows.Err()
}

// Create inserts a new student.
func (r *StudentRepository) Create(ctx context.Context, s *model.Student) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO students (name, roll_number, class_batch, assigned_exam_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		s.Name, s.RollNumber, s.ClassBatch, s.AssignedExamID,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateRollNumber
		}
		return err
	}
	return nil
}

// Update modifies a student's details and exam assignment.
func (r *StudentRepository) Update(ctx context.Context, s *model.Student) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE students
		 SET name = $1, roll_number = $2, class_batch = $3, assigned_exam_id = $4, updated_at = NOW()
		 WHERE id = $5`,
		s.Name, s.RollNumber, s.ClassBatch, s.AssignedExamID, s.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateRollNumber
		}
		return err
	}
	return nil
}

// Delete removes a student by id. Terminal back-references are cleared by
// the service before this is called.
func (r *StudentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	return err
}
