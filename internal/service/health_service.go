package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"ai-admissions-be/internal/dto"
	"ai-admissions-be/internal/repository/memory"

	"golang.org/x/sync/errgroup"
)

const (
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"
)

// HealthCheck checks one dependency. A nil error means reachable.
type HealthCheck struct {
	Name  string
	Probe func(ctx context.Context) error
}

type IHealthService interface {
	Check(ctx context.Context) *dto.HealthResponse
}

type healthService struct {
	checks      []HealthCheck
	sessionRepo *memory.SessionRepository
	timeout     time.Duration
}

func NewHealthService(sessionRepo *memory.SessionRepository, checks ...HealthCheck) IHealthService {
	sorted := append([]HealthCheck(nil), checks...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return &healthService{checks: sorted, sessionRepo: sessionRepo, timeout: 2 * time.Second}
}

// Check runs every health check concurrently. A failing dependency degrades the
// status but the API itself keeps answering.
func (s *healthService) Check(ctx context.Context) *dto.HealthResponse {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var mu sync.Mutex
	results := make(map[string]string, len(s.checks))

	g, gctx := errgroup.WithContext(ctx)
	for _, c := range s.checks {
		c := c
		g.Go(func() error {
			status := "ok"
			if err := c.Probe(gctx); err != nil {
				status = err.Error()
			}
			mu.Lock()
			results[c.Name] = status
			mu.Unlock()
			// never cancel sibling checks
			return nil
		})
	}
	_ = g.Wait()

	overall := StatusHealthy
	for _, status := range results {
		if status != "ok" {
			overall = StatusDegraded
			break
		}
	}

	return &dto.HealthResponse{
		Status:         overall,
		Checks:         results,
		ActiveSessions: s.sessionRepo.Count(),
		Timestamp:      time.Now(),
	}
}
