// Package registry provides the central glue between flowsheet definitions
// and compiled unit models.
//
// The Registry maps the unit-type labels used in flowsheet files (e.g.
// "compressor") to Go builders that produce the corresponding blocks. It
// is populated at startup by the unit modules and validated so that every
// type referenced by a definition resolves before any model is built.
package registry

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/vk/flowsheetgo/internal/flowsheet"
	"github.com/vk/flowsheetgo/internal/props"
)

// Builder holds the compiled Go parts of one unit type.
type Builder struct {
	// Type is the label used in `unit` blocks.
	Type string
	// Description is a short human-readable summary.
	Description string
	// NewParams returns a pointer to the unit's typed parameter struct,
	// decoded from the definition's parameters block.
	NewParams func() any
	// Build constructs the block. pkg is the property package resolved
	// for this unit instance; params is the populated NewParams value.
	Build func(name string, pkg props.Package, params any) (flowsheet.Block, error)
}

// Module is the interface all unit modules implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds the unit builders for a single application instance.
type Registry struct {
	builders map[string]*Builder
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{builders: make(map[string]*Builder)}
}

// Register adds a builder. Registering the same type twice is a
// programmer error and panics.
func (r *Registry) Register(b *Builder) {
	if _, exists := r.builders[b.Type]; exists {
		panic(fmt.Sprintf("unit type %q already registered", b.Type))
	}
	slog.Debug("Registering unit builder.", "type", b.Type)
	r.builders[b.Type] = b
}

// Builder resolves a unit type label.
func (r *Registry) Builder(unitType string) (*Builder, bool) {
	b, ok := r.builders[unitType]
	return b, ok
}

// Types lists the registered unit type labels, sorted.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.builders))
	for t := range r.builders {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
