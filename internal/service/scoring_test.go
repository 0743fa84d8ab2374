package service

import (
	"testing"

	"github.com/examhall/examhall-backend/internal/model"
	"github.com/google/uuid"
)

func intPtr(v int) *int { return &v }

func TestScoreAnswers(t *testing.T) {
	q1 := model.Question{ID: uuid.New(), Weight: 2, CorrectOptions: []int{0}}
	q2 := model.Question{ID: uuid.New(), Weight: 3, CorrectOptions: []int{1}, NegativeMarking: true}
	q3 := model.Question{ID: uuid.New(), Weight: 1, CorrectOptions: []int{0, 2}}
	questions := []model.Question{q1, q2, q3}

	tests := []struct {
		name    string
		answers []model.Answer
		want    float64
	}{
		{
			name: "one right one wrong with penalty",
			answers: []model.Answer{
				{QuestionID: q1.ID, SelectedOption: intPtr(0)},
				{QuestionID: q2.ID, SelectedOption: intPtr(0)},
			},
			want: 1, // +2 for q1, -1 for q2
		},
		{
			name: "all correct",
			answers: []model.Answer{
				{QuestionID: q1.ID, SelectedOption: intPtr(0)},
				{QuestionID: q2.ID, SelectedOption: intPtr(1)},
				{QuestionID: q3.ID, SelectedOption: intPtr(2)},
			},
			want: 6,
		},
		{
			name: "unanswered never penalized",
			answers: []model.Answer{
				{QuestionID: q2.ID, SelectedOption: nil},
			},
			want: 0,
		},
		{
			name: "wrong without negative marking costs nothing",
			answers: []model.Answer{
				{QuestionID: q1.ID, SelectedOption: intPtr(1)},
			},
			want: 0,
		},
		{
			name: "score clamped at zero",
			answers: []model.Answer{
				{QuestionID: q2.ID, SelectedOption: intPtr(0)},
			},
			want: 0,
		},
		{
			name: "any correct option counts",
			answers: []model.Answer{
				{QuestionID: q3.ID, SelectedOption: intPtr(0)},
			},
			want: 1,
		},
		{
			name: "answer outside question set ignored",
			answers: []model.Answer{
				{QuestionID: uuid.New(), SelectedOption: intPtr(0)},
				{QuestionID: q1.ID, SelectedOption: intPtr(0)},
			},
			want: 2,
		},
		{
			name: "repeated answers for one question score once",
			answers: []model.Answer{
				{QuestionID: q1.ID, SelectedOption: intPtr(0)},
				{QuestionID: q1.ID, SelectedOption: intPtr(0)},
				{QuestionID: q1.ID, SelectedOption: intPtr(0)},
			},
			want: 2, // q1's weight, not three times over
		},
		{
			name: "first answer wins over a later contradiction",
			answers: []model.Answer{
				{QuestionID: q2.ID, SelectedOption: intPtr(1)},
				{QuestionID: q2.ID, SelectedOption: intPtr(0)},
			},
			want: 3,
		},
		{
			name:    "empty submission",
			answers: nil,
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreAnswers(questions, tt.answers)
			if got != tt.want {
				t.Errorf("ScoreAnswers() = %v, want %v", got, tt.want)
			}
		})
	}
}
