package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learningpal/internal/platform/logger"
)

func TestSetupNone(t *testing.T) {
	shutdown, err := Setup(context.Background(), Options{ServiceName: "learningpal-test", SampleRatio: 1}, logger.NewNop())
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSetupUnknownExporter(t *testing.T) {
	_, err := Setup(context.Background(), Options{ServiceName: "x", Exporter: "zipkin"}, logger.NewNop())
	assert.ErrorContains(t, err, "unknown tracing exporter")
}

func TestClampRatio(t *testing.T) {
	assert.Equal(t, 0.0, clampRatio(-1))
	assert.Equal(t, 0.25, clampRatio(0.25))
	assert.Equal(t, 1.0, clampRatio(3))
}
