package model

import (
	"github.com/google/uuid"
)

// QuestionCategory is the difficulty bucket of a question.
type QuestionCategory string

const (
	CategoryEasy   QuestionCategory = "EASY"
	CategoryMedium QuestionCategory = "MEDIUM"
	CategoryHard   QuestionCategory = "HARD"
)

// Option is a single answer choice.
type Option struct {
	Text string `json:"text"`
}

// Question represents a question-bank entry. CorrectOptions holds the indexes
// of the correct choices in Options.
type Question struct {
	ID              uuid.UUID        `json:"id"`
	Text            string           `json:"text"`
	Options         []Option         `json:"options"`
	CorrectOptions  []int            `json:"correct_options"`
	Category        QuestionCategory `json:"category"`
	Tags            []string         `json:"tags"`
	Weight          float64          `json:"weight"`
	NegativeMarking bool             `json:"negative_marking"`
}

// QuestionForStudent is a question as served to an exam client, without the
// correct answer indexes.
type QuestionForStudent struct {
	ID              uuid.UUID `json:"id"`
	Text            string    `json:"text"`
	Options         []Option  `json:"options"`
	Weight          float64   `json:"weight"`
	NegativeMarking bool      `json:"negative_marking"`
}

// ForStudent strips the answer key from a question.
func (q *Question) ForStudent() QuestionForStudent {
	return QuestionForStudent{
		ID:              q.ID,
		Text:            q.Text,
		Options:         q.Options,
		Weight:          q.Weight,
		NegativeMarking: q.NegativeMarking,
	}
}

// SaveQuestionRequest is the payload for creating or updating a question.
type SaveQuestionRequest struct {
	Text            string           `json:"text" binding:"required,min=10,max=2000"`
	Options         []Option         `json:"options" binding:"required,min=2,dive"`
	CorrectOptions  []int            `json:"correct_options" binding:"required,min=1,dive,min=0"`
	Category        QuestionCategory `json:"category" binding:"required,oneof=EASY MEDIUM HARD"`
	Tags            []string         `json:"tags" binding:"omitempty"`
	Weight          float64          `json:"weight" binding:"required,gt=0"`
	NegativeMarking bool             `json:"negative_marking"`
}
