package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	slogotel "github.com/remychantenay/slog-otel"
	"go.opentelemetry.io/contrib/exporters/autoexport"
	"go.opentelemetry.io/contrib/propagators/autoprop"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/illenko/checkout-service/observability/logging"
	"github.com/illenko/checkout-service/observability/tracing"
)

type Options struct {
	ServiceName string
	// CollectorEndpoint switches from env-driven autoexport to OTLP/gRPC.
	CollectorEndpoint string
	LogOutput         io.Writer
}

func SetupOpenTelemetry(ctx context.Context, opts Options) (shutdown func(context.Context) error, err error) {
	var shutdownFuncs []func(context.Context) error

	shutdown = func(ctx context.Context) error {
		var err error
		for _, fn := range shutdownFuncs {
			err = errors.Join(err, fn(ctx))
		}
		shutdownFuncs = nil
		return err
	}

	slog.SetDefault(NewLogger(opts.LogOutput))

	otel.SetTextMapPropagator(autoprop.NewTextMapPropagator())

	serviceName := opts.ServiceName
	if serviceName == "" {
		serviceName = "checkout-service"
	}
	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(serviceName),
	)

	if opts.CollectorEndpoint != "" {
		tp, mp, err := tracing.InitProvider(ctx, opts.CollectorEndpoint, res)
		if err != nil {
			return shutdown, err
		}
		shutdownFuncs = append(shutdownFuncs, tp.Shutdown, mp.Shutdown)
		return shutdown, nil
	}

	tExporter, err := autoexport.NewSpanExporter(ctx)
	if err != nil {
		err = errors.Join(err, shutdown(ctx))
		return
	}
	tp := trace.NewTracerProvider(
		trace.WithBatcher(tExporter),
		trace.WithResource(res),
	)
	shutdownFuncs = append(shutdownFuncs, tp.Shutdown)
	otel.SetTracerProvider(tp)

	mReader, err := autoexport.NewMetricReader(ctx)
	if err != nil {
		err = errors.Join(err, shutdown(ctx))
		return
	}
	mp := metric.NewMeterProvider(
		metric.WithReader(mReader),
		metric.WithResource(res),
	)
	shutdownFuncs = append(shutdownFuncs, mp.Shutdown)
	otel.SetMeterProvider(mp)

	return shutdown, nil
}

// NewLogger builds the JSON logger with trace correlation and redaction.
func NewLogger(w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}
	jsonHandler := slog.NewJSONHandler(w, &slog.HandlerOptions{ReplaceAttr: logging.RedactSecrets})
	return slog.New(logging.HandlerWithRequestContext(slogotel.OtelHandler{Next: jsonHandler}))
}
