// Package codec centralizes JSON encoding for palettes and run reports.
//
// GoJSON is the default. JSON uses the standard library and serves as the
// reference the GoJSON output is compared against.
package codec

import (
	"errors"
	"fmt"
)

// ErrUnknownCodec is returned by ByName for an unregistered name.
var ErrUnknownCodec = errors.New("codec: unknown codec")

// Codec encodes and decodes JSON documents. Implementations are stateless and
// safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	// MarshalIndent encodes v with two-space indentation.
	MarshalIndent(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// Default is the codec used for palette files and run reports.
var Default Codec = GoJSON{}

// ByName returns the codec registered as "json" or "go-json".
func ByName(name string) (Codec, error) {
	for _, c := range []Codec{JSON{}, GoJSON{}} {
		if c.Name() == name {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
}
