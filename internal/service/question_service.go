package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/examhall/examhall-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrBadCorrectOption is returned when a correct-option index falls outside
// the question's option list.
var ErrBadCorrectOption = errors.New("correct option index out of range")

// QuestionService manages the question bank.
type QuestionService struct {
	questions QuestionStore
	audit     *AuditService
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(questions QuestionStore, audit *AuditService) *QuestionService {
	return &QuestionService{questions: questions, audit: audit}
}

// Get retrieves a single question, answer key included. Admin only.
func (s *QuestionService) Get(ctx context.Context, id uuid.UUID) (*model.Question, error) {
	q, err := s.questions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch question: %w", err)
	}
	return q, nil
}

// List retrieves questions with pagination.
func (s *QuestionService) List(ctx context.Context, limit, offset int) ([]model.Question, int, error) {
	return s.questions.ListPaginated(ctx, limit, offset)
}

// Create adds a question to the bank.
func (s *QuestionService) Create(ctx context.Context, actor string, req *model.SaveQuestionRequest) (*model.Question, error) {
	if err := validateCorrectOptions(req); err != nil {
		return nil, err
	}

	q := fromSaveRequest(req)
	if err := s.questions.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}

	s.audit.Record(ctx, actor, "question.create", map[string]any{"question_id": q.ID})
	return q, nil
}

// Update replaces a question's content. Exams that already sampled it serve
// the updated content on the next paper fetch.
func (s *QuestionService) Update(ctx context.Context, actor string, id uuid.UUID, req *model.SaveQuestionRequest) (*model.Question, error) {
	if err := validateCorrectOptions(req); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	q := fromSaveRequest(req)
	q.ID = id
	if err := s.questions.Update(ctx, q); err != nil {
		return nil, fmt.Errorf("update question: %w", err)
	}

	s.audit.Record(ctx, actor, "question.update", map[string]any{"question_id": id})
	return q, nil
}

// Delete removes a question from the bank. Exams referencing it simply serve
// one question fewer. Deleting an unknown question is a no-op.
func (s *QuestionService) Delete(ctx context.Context, actor string, id uuid.UUID) error {
	if err := s.questions.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	s.audit.Record(ctx, actor, "question.delete", map[string]any{"question_id": id})
	return nil
}

func validateCorrectOptions(req *model.SaveQuestionRequest) error {
	for _, c := range req.CorrectOptions {
		if c < 0 || c >= len(req.Options) {
			return ErrBadCorrectOption
		}
	}
	return nil
}

func fromSaveRequest(req *model.SaveQuestionRequest) *model.Question {
	return &model.Question{
		Text:            req.Text,
		Options:         req.Options,
		CorrectOptions:  req.CorrectOptions,
		Category:        req.Category,
		Tags:            req.Tags,
		Weight:          req.Weight,
		NegativeMarking: req.NegativeMarking,
	}
}
