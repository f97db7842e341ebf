package telemetry

import (
	"context"
	"testing"

	"worksync/internal/config"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel"
)

func TestSetup_DisabledWithoutEndpoint(t *testing.T) {
	before := otel.GetTracerProvider()

	shutdown := Setup(config.TelemetryConfig{}, "worksync-test")
	assert.NoError(t, shutdown(context.Background()))
	assert.Equal(t, before, otel.GetTracerProvider())
}
