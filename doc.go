// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package functions provides a dynamic call-forwarding proxy for remote
// function-execution endpoints in the Lux ecosystem.
//
// A Proxy turns any function name into a callable binding without a
// declared schema: the name, the argument list, and an optional service
// scope are serialized into a single POST to /functions/call, and the
// decoded response comes back as the result.
//
// # Transport Selection
//
// HTTP is the default transport. Use build tags to enable alternatives:
//
//	go build              # HTTP and JSON-RPC (default)
//	go build -tags grpc   # Enable gRPC transport
//
// # Usage
//
// Proxy usage:
//
//	transport, err := functions.NewTransport("https://api.example.com")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	proxy := functions.NewProxy(transport, functions.WithServiceName("billing"))
//
//	// Dynamic binding: the name becomes the remote function name
//	charge := proxy.Func("createCharge")
//	result, err := charge(ctx, map[string]any{"amount": 1200, "memo": nil})
//
//	// Explicit escape hatch, always available
//	result, err = proxy.CallFunction(ctx, "createCharge", map[string]any{"amount": 1200})
//
// Unset fields (nil values in map arguments) are stripped before
// serialization, so "memo" above never reaches the wire. Override or
// disable this with WithArgsTransform.
//
// Response post-processing:
//
//	proxy := functions.NewProxy(transport,
//	    functions.WithResponseTransform(func(resp any) (any, error) {
//	        return resp.(map[string]any)["value"], nil
//	    }),
//	)
//
// # Architecture
//
// The package separates concerns:
//
//   - sanitize.go: argument sanitization (strip unset fields)
//   - caller.go: Caller, configuration options, and the wire body
//   - proxy.go: Proxy with dynamic name-to-function binding
//   - codec.go: Codec interface for message encoding
//   - transport.go: Transport interface and registry
//   - http.go: HTTP transport (default)
//   - jsonrpc.go: JSON-RPC 2.0 transport
//   - transport_grpc.go: gRPC transport (requires -tags grpc)
//
// Application code should only depend on the Transport interface;
// the Caller never retries, logs, or rewraps transport failures, so
// resilience policy is a transport deployment decision.
//
// Transports holding a connection (gRPC) also implement io.Closer;
// assert to it to release the connection on teardown.
//
// # Reserved Names
//
// "inspect" and "callFunction" identify the proxy's own control surface
// and are never forwarded remotely through Func. A remote function with
// either literal name is reachable only via CallFunction.
package functions
