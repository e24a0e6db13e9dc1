package observability

import (
	"context"
	"time"

	"github.com/annel0/terragen/internal/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// ShutdownFunc завершает экспорт спанов
type ShutdownFunc func(context.Context) error

// InitTelemetry настраивает OTLP экспортер и устанавливает глобальный TracerProvider.
// endpoint вида "localhost:4318"; пустая строка означает значение по умолчанию
// (или OTEL_EXPORTER_OTLP_ENDPOINT). Возвращает функцию shutdown, которую
// нужно вызвать при завершении приложения.
func InitTelemetry(ctx context.Context, serviceName, endpoint string, logger *logging.Logger) (ShutdownFunc, error) {
	var opts []otlptracehttp.Option
	if endpoint != "" {
		opts = append(opts, otlptracehttp.WithEndpoint(endpoint), otlptracehttp.WithInsecure())
	}

	exp, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, err
	}

	tp := NewTracerProvider(serviceName, sdktrace.WithBatcher(exp))
	otel.SetTracerProvider(tp)
	logger.Info("📡 OpenTelemetry инициализирован (OTLP → %s, service=%s)", endpointOrDefault(endpoint), serviceName)

	shutdown := func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return tp.Shutdown(ctx)
	}
	return shutdown, nil
}

// NewTracerProvider создаёт провайдер с ресурсом service.name.
// Экспортер передаётся опцией, что позволяет подставить in-memory экспортер в тестах.
func NewTracerProvider(serviceName string, opts ...sdktrace.TracerProviderOption) *sdktrace.TracerProvider {
	res := resource.NewSchemaless(attribute.String("service.name", serviceName))
	opts = append(opts, sdktrace.WithResource(res))
	return sdktrace.NewTracerProvider(opts...)
}

func endpointOrDefault(endpoint string) string {
	if endpoint == "" {
		return "localhost:4318"
	}
	return endpoint
}
