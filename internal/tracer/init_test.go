package tracer

import (
	"context"
	"testing"

	"schoolhub-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func TestInitTracerDisabledByDefault(t *testing.T) {
	t.Setenv("OTEL_ENABLED", "")
	shutdown := InitTracer(logger.NewNopLogger())
	assert.NoError(t, shutdown(context.Background()))
}
