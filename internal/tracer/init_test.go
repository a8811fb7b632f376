package tracer

import (
	"context"
	"testing"

	"ai-admissions-be/internal/config"
	"ai-admissions-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func TestInitTracer_DisabledIsNoop(t *testing.T) {
	shutdown := InitTracer(config.TelemetryConfig{Enabled: false}, logger.NewNopLogger())
	assert.NoError(t, shutdown(context.Background()))
}

func TestInitTracer_EnabledReturnsShutdown(t *testing.T) {
	shutdown := InitTracer(config.TelemetryConfig{Enabled: true, Endpoint: "127.0.0.1:4318"}, logger.NewNopLogger())
	// nothing has been exported yet, so shutdown does not need the collector
	assert.NoError(t, shutdown(context.Background()))
}
