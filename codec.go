// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package functions

import (
	"encoding/json"
)

// Codec encodes call bodies and decodes responses on the wire.
type Codec interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte, v any) error
}

// JSONCodec is the default wire codec.
type JSONCodec struct{}

func (JSONCodec) Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (JSONCodec) Decode(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// defaultCodec is used when no codec is specified
var defaultCodec Codec = JSONCodec{}

// BinaryCodec passes pre-encoded bytes through unchanged and falls back
// to JSON for anything else.
type BinaryCodec struct{}

func (BinaryCodec) Encode(v any) ([]byte, error) {
	if b, ok := v.([]byte); ok {
		return b, nil
	}
	if b, ok := v.(*[]byte); ok {
		return *b, nil
	}
	return json.Marshal(v)
}

func (BinaryCodec) Decode(data []byte, v any) error {
	if b, ok := v.(*[]byte); ok {
		*b = data
		return nil
	}
	return json.Unmarshal(data, v)
}

// Binary is a codec that passes bytes through unchanged
var Binary Codec = BinaryCodec{}

// decodeValue decodes a response payload into a generic value. Empty
// payloads decode to nil, matching a remote function with no result.
func decodeValue(c Codec, data []byte) (any, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var v any
	if err := c.Decode(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}
