// Package remote implements the client boundaries over the storefront gRPC
// API.
package remote

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dtroode/storefront/internal/api/proto"
	"github.com/dtroode/storefront/internal/logger"
	"github.com/dtroode/storefront/internal/model"
)

// TokenSource supplies the bearer token of the signed-in user.
type TokenSource interface {
	AccessToken() string
	// Renew replaces stale with a fresh access token. Concurrent callers
	// holding the same stale token share one refresh.
	Renew(ctx context.Context, stale string) (model.Session, error)
}

// Options configure Dial.
type Options struct {
	Addr   string
	TLS    bool
	CAFile string
	// CallTimeout bounds every unary call. Zero means no timeout.
	CallTimeout time.Duration
}

// Client is a connection to the storefront server.
type Client struct {
	conn        *grpc.ClientConn
	callTimeout time.Duration
	logger      *logger.Logger

	mu     sync.RWMutex
	tokens TokenSource
}

// Dial creates a Client. The connection is established lazily on the first
// call. extra options are appended after the ones derived from opts.
func Dial(opts Options, logger *logger.Logger, extra ...grpc.DialOption) (*Client, error) {
	creds, err := transportCredentials(opts)
	if err != nil {
		return nil, err
	}

	c := &Client{callTimeout: opts.CallTimeout, logger: logger}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(creds),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
		grpc.WithStreamInterceptor(c.streamTokenInterceptor),
	}, extra...)

	conn, err := grpc.NewClient(opts.Addr, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create grpc client: %w", err)
	}
	c.conn = conn

	return c, nil
}

func transportCredentials(opts Options) (credentials.TransportCredentials, error) {
	if !opts.TLS {
		return insecure.NewCredentials(), nil
	}

	config := &tls.Config{MinVersion: tls.VersionTLS12}
	if opts.CAFile != "" {
		pem, err := os.ReadFile(opts.CAFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificates in CA file %s", opts.CAFile)
		}
		config.RootCAs = pool
	}

	return credentials.NewTLS(config), nil
}

// SetTokenSource attaches the session whose token authenticates record and
// avatar calls.
func (c *Client) SetTokenSource(tokens TokenSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens = tokens
}

// Close releases the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Auth returns the authentication backend of the session store.
func (c *Client) Auth() *AuthBackend {
	return &AuthBackend{client: proto.NewAuthClient(c.conn), parent: c}
}

// Records returns a model.RecordStore over the connection.
func (c *Client) Records() *RecordStore {
	return newRecordStore(proto.NewRecordsClient(c.conn), c)
}

// Avatars returns the avatar client of the signed-in user.
func (c *Client) Avatars() *AvatarStore {
	return &AvatarStore{client: proto.NewAvatarsClient(c.conn), parent: c}
}

func (c *Client) tokenSource() TokenSource {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tokens
}

func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.callTimeout)
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	md.Set("authorization", "Bearer "+token)
	return metadata.NewOutgoingContext(ctx, md)
}

// accessTokenInterceptor attaches the bearer token and, when the server
// rejects it, renews the session once and retries.
func (c *Client) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	tokens := c.tokenSource()
	if tokens == nil || strings.HasPrefix(method, proto.AuthServicePrefix) {
		return invoker(ctx, method, req, reply, cc, opts...)
	}

	stale := tokens.AccessToken()
	err := invoker(withAccessToken(ctx, stale), method, req, reply, cc, opts...)
	if status.Code(err) != codes.Unauthenticated || stale == "" {
		return err
	}

	session, refreshErr := tokens.Renew(ctx, stale)
	if refreshErr != nil {
		c.logger.Debug("Remote client: token refresh failed",
			"method", method,
			"error", refreshErr.Error())
		return err
	}

	return invoker(withAccessToken(ctx, session.AccessToken), method, req, reply, cc, opts...)
}

func (c *Client) streamTokenInterceptor(
	ctx context.Context,
	desc *grpc.StreamDesc,
	cc *grpc.ClientConn,
	method string,
	streamer grpc.Streamer,
	opts ...grpc.CallOption,
) (grpc.ClientStream, error) {
	if tokens := c.tokenSource(); tokens != nil {
		ctx = withAccessToken(ctx, tokens.AccessToken())
	}
	return streamer(ctx, desc, cc, method, opts...)
}
