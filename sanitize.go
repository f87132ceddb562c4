// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package functions

// SanitizeArgs strips unset fields from map-valued arguments before
// serialization. A nil value in a map[string]any marks a field the
// caller never set; the wire format cannot express "present but unset",
// so the key is removed entirely rather than encoded as null.
//
// Maps are edited in place and the same slice is returned. No defensive
// copy is made, so callers must treat their argument maps as consumed.
// Non-map arguments pass through untouched. Sanitizing twice yields the
// same result as sanitizing once.
func SanitizeArgs(args []any) []any {
	for _, arg := range args {
		m, ok := arg.(map[string]any)
		if !ok {
			continue
		}
		for k, v := range m {
			if v == nil {
				delete(m, k)
			}
		}
	}
	return args
}
