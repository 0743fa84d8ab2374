package service

import (
	"context"
	"time"

	"github.com/examhall/examhall-backend/internal/model"
	"github.com/examhall/examhall-backend/internal/repository"
	"github.com/google/uuid"
)

// The store interfaces below are the persistence surface the services depend
// on. The pgx repositories satisfy them in production; tests substitute
// in-memory fakes.

type TerminalStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Terminal, error)
	GetByIdentifier(ctx context.Context, identifier string) (*model.Terminal, error)
	List(ctx context.Context) ([]model.Terminal, error)
	Create(ctx context.Context, t *model.Terminal) error
	UpdateStatusIf(ctx context.Context, id uuid.UUID, to model.TerminalStatus, from []model.TerminalStatus) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Assign(ctx context.Context, terminalID, studentID uuid.UUID, examID *uuid.UUID) (bool, error)
	Unassign(ctx context.Context, terminalID uuid.UUID) (bool, error)
	RecordHeartbeat(ctx context.Context, identifier string, reported model.LiveStatus) (bool, error)
	TouchLastSeen(ctx context.Context, identifier string) error
	FinishByStudent(ctx context.Context, studentID uuid.UUID) error
	UnassignByStudent(ctx context.Context, studentID uuid.UUID) error
	SyncAssignedExam(ctx context.Context, studentID uuid.UUID, examID *uuid.UUID) error
	ListAssigned(ctx context.Context) ([]repository.LiveBoardEntry, error)
}

type StudentStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Student, error)
	ListPaginated(ctx context.Context, limit, offset int) ([]model.Student, int, error)
	Create(ctx context.Context, s *model.Student) error
	Update(ctx context.Context, s *model.Student) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ExamStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Exam, error)
	ListPaginated(ctx context.Context, status *model.ExamStatus, limit, offset int) ([]model.Exam, int, error)
	Create(ctx context.Context, e *model.Exam) error
	UpdateDetails(ctx context.Context, e *model.Exam) (bool, error)
	Start(ctx context.Context, id uuid.UUID, questionIDs []uuid.UUID) (bool, error)
	End(ctx context.Context, id uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
	EndOverdue(ctx context.Context, grace time.Duration) (int64, error)
}

type QuestionStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Question, error)
	ListPaginated(ctx context.Context, limit, offset int) ([]model.Question, int, error)
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Question, error)
	Create(ctx context.Context, q *model.Question) error
	Update(ctx context.Context, q *model.Question) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ResultStore interface {
	Insert(ctx context.Context, res *model.ExamResult) error
	Exists(ctx context.Context, studentID, examID uuid.UUID) (bool, error)
	ListPaginated(ctx context.Context, limit, offset int) ([]model.ExamResult, int, error)
}

type AdminStore interface {
	GetByID(ctx context.Context, id int) (*model.Admin, error)
	GetByUsername(ctx context.Context, username string) (*model.Admin, error)
	List(ctx context.Context) ([]model.Admin, error)
	Create(ctx context.Context, a *model.Admin) error
	Delete(ctx context.Context, id int) error
	CountSuperadmins(ctx context.Context) (int, error)
}
