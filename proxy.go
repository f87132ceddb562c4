// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package functions

import (
	"context"
	"fmt"
)

// Func is a remote function bound to a name: invoking it performs one
// call over the proxy's transport.
type Func func(ctx context.Context, args ...any) (any, error)

// Reserved property names that always resolve to the proxy's own
// control surface instead of a remote function.
const (
	reservedInspect      = "inspect"
	reservedCallFunction = "callFunction"
)

var reservedNames = map[string]struct{}{
	reservedInspect:      {},
	reservedCallFunction: {},
}

// Reserved reports whether name is shadowed by the proxy's own surface.
// A remote function literally named "inspect" or "callFunction" cannot
// be reached through Func; use CallFunction directly for those.
func Reserved(name string) bool {
	_, ok := reservedNames[name]
	return ok
}

// Proxy exposes an open-ended set of remote functions by name without a
// declared schema. Func synthesizes a binding for any name on demand;
// nothing validates that the remote side actually defines it, so a typo
// surfaces only as a transport error at call time.
type Proxy struct {
	*Caller
}

// NewProxy builds a Proxy over transport.
func NewProxy(transport Transport, opts ...Option) *Proxy {
	return &Proxy{Caller: New(transport, opts...)}
}

// Func returns a callable bound to the remote function name. Reserved
// names resolve to the underlying Caller instead: "callFunction" yields
// the explicit escape hatch (args[0] is the remote name) and "inspect"
// yields the configuration description. Bindings are synthesized fresh
// per lookup and never cached.
func (p *Proxy) Func(name string) Func {
	switch name {
	case reservedCallFunction:
		return func(ctx context.Context, args ...any) (any, error) {
			if len(args) == 0 {
				return nil, ErrNoName
			}
			remote, ok := args[0].(string)
			if !ok {
				return nil, fmt.Errorf("functions: callFunction name must be a string, got %T", args[0])
			}
			return p.CallFunction(ctx, remote, args[1:]...)
		}
	case reservedInspect:
		return func(ctx context.Context, args ...any) (any, error) {
			return p.Inspect(), nil
		}
	default:
		return func(ctx context.Context, args ...any) (any, error) {
			return p.CallFunction(ctx, name, args...)
		}
	}
}
