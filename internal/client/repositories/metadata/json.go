package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformed reports a stored value that does not decode into the
// requested type.
var ErrMalformed = errors.New("malformed metadata value")

// GetJSON decodes the value under key into v. It reports false when the key
// is absent. A value that is not valid JSON yields ErrMalformed.
func GetJSON(ctx context.Context, r Repository, key string, v any) (bool, error) {
	raw, err := r.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if raw == nil {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrMalformed, key, err)
	}
	return true, nil
}

// SetJSON stores v encoded as JSON under key.
func SetJSON(ctx context.Context, r Repository, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode metadata[%s]: %w", key, err)
	}
	return r.Set(ctx, key, raw)
}
