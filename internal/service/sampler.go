package service

import (
	"math/rand/v2"

	"github.com/google/uuid"
)

// DefaultQuestionCount is used when an exam does not specify how many
// questions to draw.
const DefaultQuestionCount = 10

// SampleQuestionIDs draws count distinct ids from pool, uniformly at random.
// When the pool holds fewer than count questions the whole pool is returned
// in shuffled order. The input slice is never modified.
func SampleQuestionIDs(pool []uuid.UUID, count int) []uuid.UUID {
	if count <= 0 {
		count = DefaultQuestionCount
	}

	shuffled := make([]uuid.UUID, len(pool))
	copy(shuffled, pool)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	if count > len(shuffled) {
		count = len(shuffled)
	}
	return shuffled[:count]
}
