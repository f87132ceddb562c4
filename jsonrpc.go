// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package functions

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/rpc/v2/json2"
	"go.uber.org/zap"
)

// jsonrpcTransport posts call bodies as JSON-RPC 2.0 requests. The
// request path maps to the JSON-RPC method with slashes replaced by
// dots, so CallPath becomes "functions.call".
type jsonrpcTransport struct {
	endpoint *url.URL
	client   *http.Client
	headers  map[string]string
	log      *zap.Logger
}

func newJSONRPCTransport(target string, o *transportOptions) (Transport, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	client := o.httpClient
	if client == nil {
		client = &http.Client{Timeout: o.timeout}
	}
	return &jsonrpcTransport{
		endpoint: u,
		client:   client,
		headers:  o.headers,
		log:      o.logger,
	}, nil
}

// rpcMethod maps a request path onto a JSON-RPC method name.
func rpcMethod(path string) string {
	return strings.ReplaceAll(strings.Trim(path, "/"), "/", ".")
}

// drainBody drains and closes an HTTP response body so the connection
// can be reused. Closing a body with unread data can abort HTTP/2
// connections mid-stream.
func drainBody(body io.ReadCloser) {
	if body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}

func (t *jsonrpcTransport) RoundTrip(ctx context.Context, req *Request) (any, error) {
	method := rpcMethod(req.Path)
	payload, err := json2.EncodeClientRequest(method, req.Body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	t.log.Debug("function call",
		zap.String("rpc_method", method),
		zap.String("endpoint", t.endpoint.String()),
	)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, v := range t.headers {
		httpReq.Header.Set(k, v)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer drainBody(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode)
	}

	var decoded any
	if err := json2.DecodeClientResponse(resp.Body, &decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return decoded, nil
}
