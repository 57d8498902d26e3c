package config

import (
	"context"

	"github.com/zclconf/go-cty/cty"
)

// Loader is the interface for a format-specific definition loader.
type Loader interface {
	// Load reads flowsheet definitions from the given paths and
	// translates them into the format-agnostic model, together with a
	// matching Converter.
	Load(ctx context.Context, paths ...string) (*Model, Converter, error)
}

// Converter is the bridge between evaluated definition values and the Go
// parameter structs the unit modules consume.
type Converter interface {
	// DecodeParams populates target (a pointer to a unit's parameter
	// struct) from the evaluated parameters map, applying the struct's
	// field tags.
	DecodeParams(ctx context.Context, target any, params map[string]cty.Value) error
}
