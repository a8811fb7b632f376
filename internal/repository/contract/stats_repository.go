package contract

import "context"

// StatsRepository counts routed turns per behavior.
type StatsRepository interface {
	IncrementRoute(ctx context.Context, route string) error
	RouteCounts(ctx context.Context) (map[string]int64, error)
}
