package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsRepository_CountsConcurrently(t *testing.T) {
	repo := NewStatsRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			route := "rag"
			if i%2 == 0 {
				route = "form"
			}
			_ = repo.IncrementRoute(ctx, route)
		}(i)
	}
	wg.Wait()

	counts, err := repo.RouteCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"rag": 10, "form": 10}, counts)

	// returned map is a copy
	counts["rag"] = 0
	again, _ := repo.RouteCounts(ctx)
	assert.Equal(t, int64(10), again["rag"])
}
