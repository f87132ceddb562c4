// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package functions

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/rpc/v2/json2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type jsonrpcRequest struct {
	Version string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
	ID      uint64          `json:"id"`
}

func TestJSONRPCTransportRoundTrip(t *testing.T) {
	var gotReq jsonrpcRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		resp := map[string]any{
			"jsonrpc": "2.0",
			"result":  map[string]any{"value": 42},
			"id":      gotReq.ID,
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	tr, err := NewTransport(srv.URL, WithTransport(TransportJSONRPC))
	require.NoError(t, err)

	caller := New(tr, WithServiceName("billing"))
	got, err := caller.CallFunction(context.Background(), "foo", 1)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"value": float64(42)}, got)
	assert.Equal(t, "2.0", gotReq.Version)
	assert.Equal(t, "functions.call", gotReq.Method)

	var params map[string]any
	require.NoError(t, json.Unmarshal(gotReq.Params, &params))
	assert.Equal(t, map[string]any{
		"name":      "foo",
		"arguments": []any{float64(1)},
		"service":   "billing",
	}, params)
}

func TestJSONRPCTransportRemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","error":{"code":-32601,"message":"method not found"},"id":1}`))
	}))
	defer srv.Close()

	tr, err := NewTransport(srv.URL, WithTransport(TransportJSONRPC))
	require.NoError(t, err)

	_, err = New(tr).CallFunction(context.Background(), "missing")
	require.Error(t, err)

	var rpcErr *json2.Error
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, json2.E_NO_METHOD, rpcErr.Code)
}

func TestJSONRPCTransportNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down for maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	tr, err := NewTransport(srv.URL, WithTransport(TransportJSONRPC))
	require.NoError(t, err)

	_, err = New(tr).CallFunction(context.Background(), "foo")
	assert.ErrorIs(t, err, ErrStatus)
}

func TestJSONRPCTransportBadEndpoint(t *testing.T) {
	_, err := NewTransport("://not-a-url", WithTransport(TransportJSONRPC))
	assert.Error(t, err)
}
