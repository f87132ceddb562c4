// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package functions

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestHTTPTransportRoundTrip(t *testing.T) {
	var gotBody map[string]any
	var gotMethod, gotPath string
	var gotHeader http.Header

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		gotHeader = r.Header.Clone()
		data, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(data, &gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"value": 42}`))
	}))
	defer srv.Close()

	tr, err := NewTransport(srv.URL, WithHeader("Authorization", "Bearer test"))
	require.NoError(t, err)

	caller := New(tr, WithServiceName("billing"))
	got, err := caller.CallFunction(context.Background(), "foo", 1, map[string]any{"a": 1, "b": nil})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"value": float64(42)}, got)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, CallPath, gotPath)
	assert.Equal(t, "application/json", gotHeader.Get("Content-Type"))
	assert.Equal(t, "Bearer test", gotHeader.Get("Authorization"))
	assert.NotEmpty(t, gotHeader.Get("X-Request-Id"))

	assert.Equal(t, map[string]any{
		"name":      "foo",
		"arguments": []any{float64(1), map[string]any{"a": float64(1)}},
		"service":   "billing",
	}, gotBody)
}

func TestHTTPTransportNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such function", http.StatusNotFound)
	}))
	defer srv.Close()

	tr, err := NewTransport(srv.URL, WithRetryMax(0))
	require.NoError(t, err)

	_, err = New(tr).CallFunction(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrStatus)
}

func TestHTTPTransportEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	tr, err := NewTransport(srv.URL)
	require.NoError(t, err)

	got, err := New(tr).CallFunction(context.Background(), "fireAndForget")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestHTTPTransportCustomClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`"ok"`))
	}))
	defer srv.Close()

	tr, err := NewTransport(srv.URL, WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	got, err := New(tr).CallFunction(context.Background(), "ping")
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
}

func TestHTTPTransportRateLimiterBlocksCall(t *testing.T) {
	// Zero rate and zero burst: the limiter can never admit a request,
	// so the call fails before any network activity.
	tr, err := NewTransport("http://localhost:0",
		WithRateLimiter(rate.NewLimiter(rate.Limit(0), 0)))
	require.NoError(t, err)

	_, err = New(tr).CallFunction(context.Background(), "foo")
	assert.Error(t, err)
}

func TestProxyOverHTTPTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"value": 7}`))
	}))
	defer srv.Close()

	tr, err := NewTransport(srv.URL)
	require.NoError(t, err)

	proxy := NewProxy(tr, WithResponseTransform(func(resp any) (any, error) {
		return resp.(map[string]any)["value"], nil
	}))

	got, err := proxy.Func("compute")(context.Background())
	require.NoError(t, err)
	assert.Equal(t, float64(7), got)
}
