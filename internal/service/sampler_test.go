package service

import (
	"testing"

	"github.com/google/uuid"
)

func makePool(n int) []uuid.UUID {
	pool := make([]uuid.UUID, n)
	for i := range pool {
		pool[i] = uuid.New()
	}
	return pool
}

func TestSampleQuestionIDs(t *testing.T) {
	tests := []struct {
		name     string
		poolSize int
		count    int
		wantLen  int
	}{
		{"normal draw", 100, 10, 10},
		{"pool smaller than count", 3, 10, 3},
		{"pool equals count", 5, 5, 5},
		{"empty pool", 0, 10, 0},
		{"zero count falls back to default", 50, 0, DefaultQuestionCount},
		{"negative count falls back to default", 50, -1, DefaultQuestionCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := makePool(tt.poolSize)
			got := SampleQuestionIDs(pool, tt.count)

			if len(got) != tt.wantLen {
				t.Fatalf("len = %d, want %d", len(got), tt.wantLen)
			}

			// Every drawn id comes from the pool, with no duplicates.
			inPool := make(map[uuid.UUID]bool, len(pool))
			for _, id := range pool {
				inPool[id] = true
			}
			seen := make(map[uuid.UUID]bool, len(got))
			for _, id := range got {
				if !inPool[id] {
					t.Errorf("sampled id %s not in pool", id)
				}
				if seen[id] {
					t.Errorf("duplicate id %s in sample", id)
				}
				seen[id] = true
			}
		})
	}
}

func TestSampleQuestionIDsDoesNotMutatePool(t *testing.T) {
	pool := makePool(20)
	orig := append([]uuid.UUID(nil), pool...)

	SampleQuestionIDs(pool, 5)

	for i := range pool {
		if pool[i] != orig[i] {
			t.Fatalf("pool mutated at index %d", i)
		}
	}
}
