// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package functions

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// CallPath is the endpoint every function call is posted to.
const CallPath = "/functions/call"

// Request describes one transport round trip. The core always issues
// POST CallPath; the descriptor exists so transports stay reusable for
// other endpoints.
type Request struct {
	Method string
	Path   string
	Body   any
}

// Transport performs the actual network exchange: serialize Body, issue
// the request, and return the decoded response value. Failures surface
// unchanged to whoever initiated the call. Retries, authentication, and
// timeouts are the transport's concern, never the core's.
type Transport interface {
	RoundTrip(ctx context.Context, req *Request) (any, error)
}

// Transport types
const (
	TransportHTTP    = "http"    // plain HTTP POST, default
	TransportJSONRPC = "jsonrpc" // JSON-RPC 2.0 over HTTP
	TransportGRPC    = "grpc"    // requires build tag
)

// DefaultTransport is the default transport type (HTTP).
const DefaultTransport = TransportHTTP

type transportFactory func(target string, o *transportOptions) (Transport, error)

var (
	transportsMu sync.RWMutex
	transports   = map[string]transportFactory{
		TransportHTTP:    newHTTPTransport,
		TransportJSONRPC: newJSONRPCTransport,
	}
)

// registerTransport registers a new transport (used by build tags)
func registerTransport(name string, factory transportFactory) {
	transportsMu.Lock()
	defer transportsMu.Unlock()
	transports[name] = factory
}

// AvailableTransports returns list of available transport types
func AvailableTransports() []string {
	transportsMu.RLock()
	defer transportsMu.RUnlock()
	result := make([]string, 0, len(transports))
	for name := range transports {
		result = append(result, name)
	}
	return result
}

// HasTransport checks if a transport is available
func HasTransport(name string) bool {
	transportsMu.RLock()
	defer transportsMu.RUnlock()
	_, ok := transports[name]
	return ok
}

// TransportOption configures shipped transports.
type TransportOption func(*transportOptions)

type transportOptions struct {
	kind       string
	codec      Codec
	timeout    time.Duration
	retryMax   int
	headers    map[string]string
	limiter    *rate.Limiter
	logger     *zap.Logger
	httpClient *http.Client
}

func defaultTransportOptions() *transportOptions {
	return &transportOptions{
		kind:     DefaultTransport,
		codec:    defaultCodec,
		timeout:  30 * time.Second,
		retryMax: 3,
		logger:   zap.NewNop(),
	}
}

// WithTransport explicitly sets the transport type ("http", "jsonrpc",
// or "grpc" when built with the grpc tag).
func WithTransport(name string) TransportOption {
	return func(o *transportOptions) { o.kind = name }
}

// WithCodec sets a custom wire codec. The default is JSON. Applies to
// the HTTP and gRPC transports; JSON-RPC is bound to its own codec.
func WithCodec(c Codec) TransportOption {
	return func(o *transportOptions) { o.codec = c }
}

// WithTimeout sets the per-request timeout. The default is 30s.
func WithTimeout(d time.Duration) TransportOption {
	return func(o *transportOptions) { o.timeout = d }
}

// WithRetryMax sets the retry budget for transient HTTP failures.
// The default is 3; 0 disables retries. Only the HTTP transport
// retries; JSON-RPC and gRPC issue each request exactly once.
func WithRetryMax(n int) TransportOption {
	return func(o *transportOptions) { o.retryMax = n }
}

// WithHeader adds a header sent on every request.
func WithHeader(key, value string) TransportOption {
	return func(o *transportOptions) {
		if o.headers == nil {
			o.headers = make(map[string]string)
		}
		o.headers[key] = value
	}
}

// WithRateLimiter throttles outgoing requests. Unlimited by default.
func WithRateLimiter(l *rate.Limiter) TransportOption {
	return func(o *transportOptions) { o.limiter = l }
}

// WithLogger enables debug logging of outgoing calls. Silent by default.
func WithLogger(l *zap.Logger) TransportOption {
	return func(o *transportOptions) { o.logger = l }
}

// WithHTTPClient supplies the underlying HTTP client, replacing the
// built-in retrying client. Retry and timeout policy then belong to the
// supplied client.
func WithHTTPClient(c *http.Client) TransportOption {
	return func(o *transportOptions) { o.httpClient = c }
}

// NewTransport builds a named transport for target (a base URL for the
// HTTP family, a dial address for gRPC). The default is TransportHTTP.
func NewTransport(target string, opts ...TransportOption) (Transport, error) {
	o := defaultTransportOptions()
	for _, opt := range opts {
		opt(o)
	}
	transportsMu.RLock()
	factory, ok := transports[o.kind]
	transportsMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown transport: %s", o.kind)
	}
	return factory(target, o)
}
