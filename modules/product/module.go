// Package product provides the product unit model: a pure material sink
// with a single inlet.
package product

import (
	"context"

	"github.com/vk/flowsheetgo/internal/flowsheet"
	"github.com/vk/flowsheetgo/internal/props"
	"github.com/vk/flowsheetgo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Params is empty: a product sink has no design parameters.
type Params struct{}

// Block is a product sink.
type Block struct {
	name  string
	inlet *flowsheet.Port
}

// New creates a product block.
func New(name string, pkg props.Package) *Block {
	return &Block{
		name:  name,
		inlet: flowsheet.NewPort(name, "inlet", flowsheet.Inlet, pkg),
	}
}

func (b *Block) Name() string { return b.name }
func (b *Block) Type() string { return "product" }

func (b *Block) Ports() []*flowsheet.Port { return []*flowsheet.Port{b.inlet} }

func (b *Block) Port(name string) (*flowsheet.Port, error) {
	if name == "inlet" {
		return b.inlet, nil
	}
	return nil, flowsheet.NoSuchPort(b.name, "product", name)
}

func (b *Block) DesignVars() []*flowsheet.Var      { return nil }
func (b *Block) Equations() []flowsheet.Constraint { return nil }

// Initialize is a no-op: the inlet guess arrives through the upstream arc.
func (b *Block) Initialize(context.Context) error { return nil }

// Register registers the builder with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.Register(&registry.Builder{
		Type:        "product",
		Description: "Material sink closing a flowsheet path.",
		NewParams:   func() any { return new(Params) },
		Build: func(name string, pkg props.Package, _ any) (flowsheet.Block, error) {
			return New(name, pkg), nil
		},
	})
}
