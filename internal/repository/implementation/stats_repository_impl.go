package implementation

import (
	"context"
	"fmt"
	"strconv"

	"ai-admissions-be/internal/repository/contract"

	"github.com/redis/go-redis/v9"
)

const routeStatsKey = "admissions:stats:routes"

// StatsRepositoryImpl keeps the counters in one Redis hash so every API
// instance reports the same totals.
type StatsRepositoryImpl struct {
	rdb *redis.Client
}

var _ contract.StatsRepository = &StatsRepositoryImpl{}

func NewStatsRepository(rdb *redis.Client) *StatsRepositoryImpl {
	return &StatsRepositoryImpl{rdb: rdb}
}

func (r *StatsRepositoryImpl) IncrementRoute(ctx context.Context, route string) error {
	if err := r.rdb.HIncrBy(ctx, routeStatsKey, route, 1).Err(); err != nil {
		return fmt.Errorf("increment route %s: %w", route, err)
	}
	return nil
}

func (r *StatsRepositoryImpl) RouteCounts(ctx context.Context) (map[string]int64, error) {
	raw, err := r.rdb.HGetAll(ctx, routeStatsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("read route stats: %w", err)
	}

	counts := make(map[string]int64, len(raw))
	for route, v := range raw {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			continue
		}
		counts[route] = n
	}
	return counts, nil
}
