package memory

import (
	"context"
	"sync"

	"ai-admissions-be/internal/repository/contract"
)

type StatsRepository struct {
	mu     sync.Mutex
	counts map[string]int64
}

var _ contract.StatsRepository = &StatsRepository{}

func NewStatsRepository() *StatsRepository {
	return &StatsRepository{counts: make(map[string]int64)}
}

func (r *StatsRepository) IncrementRoute(_ context.Context, route string) error {
	r.mu.Lock()
	r.counts[route]++
	r.mu.Unlock()
	return nil
}

func (r *StatsRepository) RouteCounts(_ context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]int64, len(r.counts))
	for k, v := range r.counts {
		out[k] = v
	}
	return out, nil
}
