package router

import (
	"context"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/selector"
	"google.golang.org/grpc"

	"github.com/dtroode/storefront/internal/api/grpc/handler"
	"github.com/dtroode/storefront/internal/api/grpc/middleware"
	"github.com/dtroode/storefront/internal/api/proto"
	"github.com/dtroode/storefront/internal/logger"
	"github.com/dtroode/storefront/internal/model"
)

// Services are the backends exposed over gRPC.
type Services struct {
	Auth    handler.AuthService
	Tokens  middleware.TokenService
	Records handler.RecordService
	Avatars handler.AvatarService
}

// Option customizes the interceptor chain.
type Option func(*Router)

// WithMetrics records every call with recorder.
func WithMetrics(recorder middleware.MetricsRecorder) Option {
	return func(r *Router) {
		r.metrics = recorder
	}
}

// WithRateLimiter throttles the Auth service per peer.
func WithRateLimiter(limiter *middleware.RateLimiter) Option {
	return func(r *Router) {
		r.limiter = limiter
	}
}

// Router represents a gRPC router for storefront operations.
// It manages gRPC service registration and middleware configuration.
type Router struct {
	services       Services
	contextManager model.ContextManager
	logger         *logger.Logger
	metrics        middleware.MetricsRecorder
	limiter        *middleware.RateLimiter
}

// New creates new gRPC Router instance.
func New(services Services, contextManager model.ContextManager, logger *logger.Logger, opts ...Option) *Router {
	r := &Router{
		services:       services,
		contextManager: contextManager,
		logger:         logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func isAuthMethod(_ context.Context, c interceptors.CallMeta) bool {
	return strings.HasPrefix(c.FullMethod(), proto.AuthServicePrefix)
}

func authSkip(ctx context.Context, c interceptors.CallMeta) bool {
	return !isAuthMethod(ctx, c)
}

// Register builds the gRPC server with its interceptor chain and services.
func (r *Router) Register(opts ...grpc.ServerOption) *grpc.Server {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.services.Tokens, r.contextManager, r.logger)
	recoveryOpt := middleware.RecoveryOption(r.logger)

	unary := []grpc.UnaryServerInterceptor{
		recovery.UnaryServerInterceptor(recoveryOpt),
		logging.HandleGRPC,
	}
	stream := []grpc.StreamServerInterceptor{
		recovery.StreamServerInterceptor(recoveryOpt),
		logging.HandleStream,
	}

	if r.metrics != nil {
		m := middleware.NewMetrics(r.metrics)
		unary = append(unary, m.HandleGRPC)
		stream = append(stream, m.HandleStream)
	}

	if r.limiter != nil {
		unary = append(unary, selector.UnaryServerInterceptor(
			r.limiter.HandleGRPC,
			selector.MatchFunc(isAuthMethod),
		))
	}

	unary = append(unary, selector.UnaryServerInterceptor(
		auth.UnaryServerInterceptor(authenticate.AuthFunc),
		selector.MatchFunc(authSkip),
	))
	stream = append(stream, selector.StreamServerInterceptor(
		auth.StreamServerInterceptor(authenticate.AuthFunc),
		selector.MatchFunc(authSkip),
	))

	opts = append(opts,
		grpc.ChainUnaryInterceptor(unary...),
		grpc.ChainStreamInterceptor(stream...),
	)

	s := grpc.NewServer(opts...)
	r.registerAuthRoutes(s)
	r.registerRecordRoutes(s)
	r.registerAvatarRoutes(s)

	return s
}

func (r *Router) registerAuthRoutes(server *grpc.Server) {
	authHandler := handler.NewAuth(r.services.Auth, r.logger)
	proto.RegisterAuthServer(server, authHandler)
}

func (r *Router) registerRecordRoutes(server *grpc.Server) {
	recordsHandler := handler.NewRecords(r.services.Records, r.contextManager, r.logger)
	proto.RegisterRecordsServer(server, recordsHandler)
}

func (r *Router) registerAvatarRoutes(server *grpc.Server) {
	if r.services.Avatars == nil {
		return
	}
	avatarsHandler := handler.NewAvatars(r.services.Avatars, r.contextManager, r.logger)
	proto.RegisterAvatarsServer(server, avatarsHandler)
}
