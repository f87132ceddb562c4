// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package functions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ErrStatus is returned by the HTTP transports for non-2xx responses.
var ErrStatus = errors.New("functions: non-success status")

// httpTransport implements Transport over plain HTTP against a fixed
// base URL. Transient failures are retried by the underlying client;
// the core above never retries.
type httpTransport struct {
	client  *resty.Client
	codec   Codec
	limiter *rate.Limiter
	log     *zap.Logger
}

func newHTTPTransport(target string, o *transportOptions) (Transport, error) {
	var client *resty.Client
	if o.httpClient != nil {
		client = resty.NewWithClient(o.httpClient)
	} else {
		rc := retryablehttp.NewClient()
		rc.RetryMax = o.retryMax
		rc.RetryWaitMin = 1 * time.Second
		rc.RetryWaitMax = 30 * time.Second
		rc.Logger = nil
		client = resty.NewWithClient(rc.StandardClient()).
			SetTimeout(o.timeout)
	}
	client.
		SetBaseURL(target).
		SetHeader("User-Agent", "lux-functions/1.0")
	for k, v := range o.headers {
		client.SetHeader(k, v)
	}
	return &httpTransport{
		client:  client,
		codec:   o.codec,
		limiter: o.limiter,
		log:     o.logger,
	}, nil
}

func (t *httpTransport) RoundTrip(ctx context.Context, req *Request) (any, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	body, err := t.codec.Encode(req.Body)
	if err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}

	requestID := uuid.NewString()
	t.log.Debug("function call",
		zap.String("method", req.Method),
		zap.String("path", req.Path),
		zap.String("request_id", requestID),
	)

	resp, err := t.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("X-Request-Id", requestID).
		SetBody(body).
		Execute(req.Method, req.Path)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: %s", ErrStatus, resp.Status())
	}

	decoded, err := decodeValue(t.codec, resp.Body())
	if err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return decoded, nil
}
