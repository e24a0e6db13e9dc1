package observability

import (
	"context"
	"testing"

	"github.com/annel0/terragen/internal/config"
	"github.com/annel0/terragen/internal/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestPipelineSpans(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := NewTracerProvider("terragen-test", sdktrace.WithSpanProcessor(rec))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	cfg := config.Default()
	cfg.Width, cfg.Height = 12, 12
	cfg.Erosion.Droplets = 50
	cfg.Erosion.ThermalIterations = 2

	p, err := world.NewPipeline(cfg, world.WithTracer(tp.Tracer("test")))
	require.NoError(t, err)
	_, err = p.Run(context.Background())
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, s := range rec.Ended() {
		names[s.Name()] = true
		assert.Equal(t, "terragen-test", serviceName(s))
	}
	for _, want := range []string{"world.Run", "world.heightmap", "world.erosion", "world.biomes"} {
		assert.True(t, names[want], "нет спана %s", want)
	}
}

func serviceName(s sdktrace.ReadOnlySpan) string {
	for _, kv := range s.Resource().Attributes() {
		if kv.Key == "service.name" {
			return kv.Value.AsString()
		}
	}
	return ""
}
