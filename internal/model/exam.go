package model

import (
	"time"

	"github.com/google/uuid"
)

// ExamStatus enumerates the possible states of an exam.
type ExamStatus string

const (
	ExamStatusScheduled  ExamStatus = "SCHEDULED"
	ExamStatusInProgress ExamStatus = "IN_PROGRESS"
	ExamStatusCompleted  ExamStatus = "COMPLETED"
)

// Exam represents an exam definition. QuestionIDs stays empty until the exam
// is started; it is then populated atomically with the status flip and never
// changes again for the life of the exam.
type Exam struct {
	ID                uuid.UUID   `json:"id"`
	Title             string      `json:"title"`
	Description       string      `json:"description"`
	StartTime         time.Time   `json:"start_time"`
	DurationMinutes   int         `json:"duration_minutes"`
	NumberOfQuestions int         `json:"number_of_questions"`
	Status            ExamStatus  `json:"status"`
	QuestionIDs       []uuid.UUID `json:"question_ids"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

// ExamSummary is the compact exam view embedded in terminal status polls.
type ExamSummary struct {
	ID              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	StartTime       time.Time  `json:"start_time"`
	DurationMinutes int        `json:"duration_minutes"`
	Status          ExamStatus `json:"status"`
}

// Summary converts an Exam into its compact polling view.
func (e *Exam) Summary() *ExamSummary {
	return &ExamSummary{
		ID:              e.ID,
		Title:           e.Title,
		StartTime:       e.StartTime,
		DurationMinutes: e.DurationMinutes,
		Status:          e.Status,
	}
}

// ScheduleExamRequest is the payload for scheduling a new exam.
type ScheduleExamRequest struct {
	Title             string    `json:"title" binding:"required,min=1,max=255"`
	Description       string    `json:"description" binding:"required,min=1,max=2000"`
	StartTime         time.Time `json:"start_time" binding:"required"`
	DurationMinutes   int       `json:"duration_minutes" binding:"required,min=1,max=480"`
	NumberOfQuestions int       `json:"number_of_questions" binding:"omitempty,min=1,max=500"`
}

// UpdateExamRequest is the payload for editing an exam. Editing never
// re-samples questions and is rejected once the exam is completed.
type UpdateExamRequest struct {
	Title             string    `json:"title" binding:"required,min=1,max=255"`
	Description       string    `json:"description" binding:"required,min=1,max=2000"`
	StartTime         time.Time `json:"start_time" binding:"required"`
	DurationMinutes   int       `json:"duration_minutes" binding:"required,min=1,max=480"`
	NumberOfQuestions int       `json:"number_of_questions" binding:"omitempty,min=1,max=500"`
}
