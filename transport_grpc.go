//go:build grpc

// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package functions

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func init() {
	// Register gRPC transport when build tag is enabled
	registerTransport(TransportGRPC, newGRPCTransport)
}

// rawCodec moves pre-encoded payloads through grpc unchanged.
type rawCodec struct{}

func (rawCodec) Marshal(v any) ([]byte, error) { return Binary.Encode(v) }

func (rawCodec) Unmarshal(data []byte, v any) error { return Binary.Decode(data, v) }

func (rawCodec) Name() string { return "lux-raw" }

// grpcTransport invokes the request path as a gRPC full method with the
// call body carried as an opaque payload.
type grpcTransport struct {
	conn  *grpc.ClientConn
	codec Codec
}

func newGRPCTransport(target string, o *transportOptions) (Transport, error) {
	conn, err := grpc.NewClient(target,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("grpc dial: %w", err)
	}
	return &grpcTransport{conn: conn, codec: o.codec}, nil
}

func (t *grpcTransport) RoundTrip(ctx context.Context, req *Request) (any, error) {
	payload, err := t.codec.Encode(req.Body)
	if err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}

	var raw []byte
	if err := t.conn.Invoke(ctx, req.Path, payload, &raw, grpc.ForceCodec(rawCodec{})); err != nil {
		return nil, err
	}

	decoded, err := decodeValue(t.codec, raw)
	if err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return decoded, nil
}

// Close releases the underlying connection. The transport returned by
// NewTransport is an io.Closer; assert to it when tearing down:
//
//	if c, ok := transport.(io.Closer); ok {
//	    _ = c.Close()
//	}
func (t *grpcTransport) Close() error {
	return t.conn.Close()
}
