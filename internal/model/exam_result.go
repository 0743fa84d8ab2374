package model

import (
	"time"

	"github.com/google/uuid"
)

// Answer is a single submitted answer. A nil SelectedOption means the
// question was left unanswered; it never incurs a negative-marking penalty.
type Answer struct {
	QuestionID     uuid.UUID `json:"question_id"`
	SelectedOption *int      `json:"selected_option"`
}

// ExamResult is the immutable record of one student's submission for one
// exam. At most one row exists per (student, exam) pair.
type ExamResult struct {
	ID             uuid.UUID `json:"id"`
	StudentID      uuid.UUID `json:"student_id"`
	ExamID         uuid.UUID `json:"exam_id"`
	StudentName    string    `json:"student_name"`
	ExamTitle      string    `json:"exam_title"`
	Answers        []Answer  `json:"answers"`
	Score          float64   `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	CompletedAt    time.Time `json:"completed_at"`
}

// SubmitExamRequest is the payload for submitting a completed exam.
type SubmitExamRequest struct {
	StudentID uuid.UUID `json:"student_id" binding:"required"`
	Answers   []Answer  `json:"answers" binding:"dive"`
}

// SubmitExamResponse is returned after a successful submission.
type SubmitExamResponse struct {
	ResultID       uuid.UUID `json:"result_id"`
	Score          float64   `json:"score"`
	TotalQuestions int       `json:"total_questions"`
}

// ExamPaper is the payload served to a student opening their exam.
type ExamPaper struct {
	Exam      ExamSummary          `json:"exam"`
	Questions []QuestionForStudent `json:"questions"`
}
