// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package functions

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrNoName is returned when a call is attempted without a function name.
var ErrNoName = errors.New("functions: function name required")

// ArgsTransform rewrites the argument list before serialization.
type ArgsTransform func(args []any) []any

// ResponseTransform post-processes the decoded response before it is
// returned to the caller.
type ResponseTransform func(resp any) (any, error)

// CallRequest is the wire body for one function call. A fresh value is
// built per invocation and never reused. Service is omitted from the
// encoded body when empty.
type CallRequest struct {
	Name      string `json:"name"`
	Arguments []any  `json:"arguments"`
	Service   string `json:"service,omitempty"`
}

// Option configures a Caller.
type Option func(*config)

type config struct {
	serviceName       string
	argsTransform     ArgsTransform
	responseTransform ResponseTransform
}

// WithServiceName scopes every call to a named backend service.
// The default is unscoped: no service field is sent at all.
func WithServiceName(name string) Option {
	return func(c *config) { c.serviceName = name }
}

// WithArgsTransform overrides argument preprocessing. The default is
// SanitizeArgs. Passing nil disables preprocessing entirely, so
// arguments are serialized exactly as given.
func WithArgsTransform(t ArgsTransform) Option {
	return func(c *config) { c.argsTransform = t }
}

// WithResponseTransform post-processes every decoded response.
// The default returns the response verbatim.
func WithResponseTransform(t ResponseTransform) Option {
	return func(c *config) { c.responseTransform = t }
}

// Caller executes remote function calls over a single transport,
// optionally scoped to one backend service. Configuration is fixed at
// construction; a Caller holds no per-call state and is safe for
// concurrent use from multiple goroutines.
type Caller struct {
	transport Transport
	cfg       config
}

// New builds a Caller over transport.
func New(transport Transport, opts ...Option) *Caller {
	cfg := config{argsTransform: SanitizeArgs}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Caller{transport: transport, cfg: cfg}
}

// CallFunction invokes the remote function name with args and returns
// the decoded response. Transport failures propagate unchanged: no
// retry, no wrapping, no partial result.
func (c *Caller) CallFunction(ctx context.Context, name string, args ...any) (any, error) {
	if name == "" {
		return nil, ErrNoName
	}
	if c.cfg.argsTransform != nil {
		args = c.cfg.argsTransform(args)
	}
	if args == nil {
		args = []any{}
	}
	resp, err := c.transport.RoundTrip(ctx, &Request{
		Method: http.MethodPost,
		Path:   CallPath,
		Body: &CallRequest{
			Name:      name,
			Arguments: args,
			Service:   c.cfg.serviceName,
		},
	})
	if err != nil {
		return nil, err
	}
	if c.cfg.responseTransform != nil {
		return c.cfg.responseTransform(resp)
	}
	return resp, nil
}

// Inspect returns a short description of the caller's configuration.
func (c *Caller) Inspect() string {
	if c.cfg.serviceName == "" {
		return "functions.Caller(unscoped)"
	}
	return fmt.Sprintf("functions.Caller(service=%q)", c.cfg.serviceName)
}
