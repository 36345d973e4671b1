package middleware

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// MetricsRecorder receives one observation per finished call.
type MetricsRecorder interface {
	RecordRPC(method, code string, d time.Duration)
}

// Metrics reports call counts and latencies.
type Metrics struct {
	recorder MetricsRecorder
}

// NewMetrics creates a new Metrics middleware.
func NewMetrics(recorder MetricsRecorder) *Metrics {
	return &Metrics{recorder: recorder}
}

// HandleGRPC observes a unary call.
func (m *Metrics) HandleGRPC(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	m.recorder.RecordRPC(info.FullMethod, status.Code(err).String(), time.Since(start))
	return resp, err
}

// HandleStream observes a stream once it ends.
func (m *Metrics) HandleStream(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
	start := time.Now()
	err := handler(srv, ss)
	m.recorder.RecordRPC(info.FullMethod, status.Code(err).String(), time.Since(start))
	return err
}
