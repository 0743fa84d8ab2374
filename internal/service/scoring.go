package service

import (
	"github.com/examhall/examhall-backend/internal/model"
	"github.com/google/uuid"
)

// negativeMarkPenalty is subtracted for a wrong answer to a question with
// negative marking enabled, regardless of the question's weight.
const negativeMarkPenalty = 1.0

// ScoreAnswers grades a submission against the exam's question set. Grading
// walks the question set, not the submission, so each question contributes
// at most once no matter how the answers slice is shaped; repeated entries
// for a question beyond the first are ignored. A correct answer earns the
// question's weight; a wrong answer costs the flat penalty when the question
// has negative marking; an unanswered question never costs anything. Answers
// referencing questions outside the set are ignored. The final score is
// clamped at zero.
func ScoreAnswers(questions []model.Question, answers []model.Answer) float64 {
	firstPick := make(map[uuid.UUID]*int, len(answers))
	for _, a := range answers {
		if _, seen := firstPick[a.QuestionID]; !seen {
			firstPick[a.QuestionID] = a.SelectedOption
		}
	}

	var score float64
	for i := range questions {
		q := &questions[i]
		selected, answered := firstPick[q.ID]
		if !answered || selected == nil {
			continue
		}
		if isCorrect(q, *selected) {
			score += q.Weight
		} else if q.NegativeMarking {
			score -= negativeMarkPenalty
		}
	}

	if score < 0 {
		return 0
	}
	return score
}

func isCorrect(q *model.Question, selected int) bool {
	for _, c := range q.CorrectOptions {
		if c == selected {
			return true
		}
	}
	return false
}
