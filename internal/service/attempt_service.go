package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/examhall/examhall-backend/internal/model"
	"github.com/examhall/examhall-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// AttemptService serves exam papers to students and grades their
// submissions. Submission is exactly-once per (student, exam) pair.
type AttemptService struct {
	exams     ExamStore
	questions QuestionStore
	students  StudentStore
	results   ResultStore
	terminals TerminalStore
}

// NewAttemptService creates a new AttemptService.
func NewAttemptService(exams ExamStore, questions QuestionStore, students StudentStore, results ResultStore, terminals TerminalStore) *AttemptService {
	return &AttemptService{
		exams:     exams,
		questions: questions,
		students:  students,
		results:   results,
		terminals: terminals,
	}
}

// FetchPaper returns the exam's sampled questions with answer keys stripped.
// A student who already submitted is turned away, as is an exam whose
// question set has not been fixed yet.
func (s *AttemptService) FetchPaper(ctx context.Context, examID, studentID uuid.UUID) (*model.ExamPaper, error) {
	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch exam: %w", err)
	}

	taken, err := s.results.Exists(ctx, studentID, examID)
	if err != nil {
		return nil, fmt.Errorf("check result: %w", err)
	}
	if taken {
		return nil, ErrAlreadySubmitted
	}

	if len(exam.QuestionIDs) == 0 {
		return nil, ErrExamNotReady
	}

	questions, err := s.questions.ListByIDs(ctx, exam.QuestionIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch questions: %w", err)
	}

	paper := &model.ExamPaper{
		Exam:      *exam.Summary(),
		Questions: make([]model.QuestionForStudent, 0, len(questions)),
	}
	for i := range questions {
		paper.Questions = append(paper.Questions, questions[i].ForStudent())
	}
	return paper, nil
}

// Submit grades the answers against the exam's question set and stores the
// result. A submission carrying two answers for the same question is
// rejected outright. The unique result row per (student, exam) makes retries
// and concurrent duplicates safe: only the first submission is ever recorded.
func (s *AttemptService) Submit(ctx context.Context, examID uuid.UUID, req *model.SubmitExamRequest) (*model.SubmitExamResponse, error) {
	seen := make(map[uuid.UUID]struct{}, len(req.Answers))
	for _, a := range req.Answers {
		if _, dup := seen[a.QuestionID]; dup {
			return nil, ErrDuplicateAnswer
		}
		seen[a.QuestionID] = struct{}{}
	}

	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch exam: %w", err)
	}
	if len(exam.QuestionIDs) == 0 {
		return nil, ErrExamNotReady
	}

	student, err := s.students.GetByID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch student: %w", err)
	}

	questions, err := s.questions.ListByIDs(ctx, exam.QuestionIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch questions: %w", err)
	}

	result := &model.ExamResult{
		StudentID:      student.ID,
		ExamID:         exam.ID,
		StudentName:    student.Name,
		ExamTitle:      exam.Title,
		Answers:        req.Answers,
		Score:          ScoreAnswers(questions, req.Answers),
		TotalQuestions: len(exam.QuestionIDs),
	}
	if err := s.results.Insert(ctx, result); err != nil {
		if errors.Is(err, repository.ErrDuplicateResult) {
			return nil, ErrAlreadySubmitted
		}
		return nil, fmt.Errorf("store result: %w", err)
	}

	// The seat flips to FINISHED so the live board reflects the submission
	// even before the terminal's next poll.
	if err := s.terminals.FinishByStudent(ctx, student.ID); err != nil {
		log.Warn().Err(err).Stringer("student_id", student.ID).Msg("attempt: finish seat failed")
	}

	return &model.SubmitExamResponse{
		ResultID:       result.ID,
		Score:          result.Score,
		TotalQuestions: result.TotalQuestions,
	}, nil
}
