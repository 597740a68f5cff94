package grpc

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	oteltrace "go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/tair/techstore/pkg/logger"
)

// Metrics holds the gRPC request metrics of one server
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestSummary  *prometheus.SummaryVec
	errorsTotal     *prometheus.CounterVec
}

// NewMetrics registers the gRPC metrics on reg, or on the default registerer
// when reg is nil
func NewMetrics(reg prometheus.Registerer, service string) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: service + "_grpc_requests_total",
				Help: "Total number of gRPC requests",
			},
			[]string{"method", "status_code"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    service + "_grpc_request_duration_seconds",
				Help:    "Duration of gRPC requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		requestSummary: prometheus.NewSummaryVec(
			prometheus.SummaryOpts{
				Name: service + "_grpc_request_duration_summary",
				Help: "Summary of gRPC request durations with percentiles",
				Objectives: map[float64]float64{
					0.5:  0.05,
					0.9:  0.01,
					0.95: 0.01,
					0.99: 0.001,
				},
				MaxAge: 10 * time.Minute,
			},
			[]string{"method"},
		),
		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: service + "_grpc_errors_total",
				Help: "Total number of gRPC errors",
			},
			[]string{"method", "error_code"},
		),
	}
	reg.MustRegister(m.requestsTotal, m.requestDuration, m.requestSummary, m.errorsTotal)
	return m
}

// UnaryInterceptor collects Prometheus metrics for unary calls
func (m *Metrics) UnaryInterceptor(
	ctx context.Context,
	req interface{},
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	duration := time.Since(start).Seconds()

	code := status.Code(err)
	if err != nil {
		m.errorsTotal.WithLabelValues(info.FullMethod, code.String()).Inc()
	}
	m.requestsTotal.WithLabelValues(info.FullMethod, code.String()).Inc()
	m.requestDuration.WithLabelValues(info.FullMethod).Observe(duration)
	m.requestSummary.WithLabelValues(info.FullMethod).Observe(duration)

	return resp, err
}

// RecoveryInterceptor turns handler panics into codes.Internal
func RecoveryInterceptor(
	ctx context.Context,
	req interface{},
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (resp interface{}, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error(ctx).
				Str("method", info.FullMethod).
				Interface("panic", rec).
				Str("stack", string(debug.Stack())).
				Msg("gRPC handler panicked")
			err = status.Error(codes.Internal, "internal server error")
		}
	}()
	return handler(ctx, req)
}

// LoggingInterceptor logs gRPC requests with structured logging
func LoggingInterceptor(
	ctx context.Context,
	req interface{},
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (interface{}, error) {
	start := time.Now()

	traceID := "no-trace"
	if span := oteltrace.SpanFromContext(ctx); span.SpanContext().IsValid() {
		traceID = span.SpanContext().TraceID().String()
	}

	resp, err := handler(ctx, req)
	duration := time.Since(start)

	if err != nil {
		logger.Error(ctx).
			Str("method", info.FullMethod).
			Str("protocol", "grpc").
			Dur("duration", duration).
			Str("trace_id", traceID).
			Str("grpc_status", status.Code(err).String()).
			Err(err).
			Msg("gRPC request failed")
	} else {
		logger.Debug(ctx).
			Str("method", info.FullMethod).
			Str("protocol", "grpc").
			Dur("duration", duration).
			Str("trace_id", traceID).
			Msg("gRPC request completed")
	}

	return resp, err
}
