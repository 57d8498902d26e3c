// Package feed provides the feed unit model: a pure material source with
// a single outlet whose state is fixed by the caller.
package feed

import (
	"context"

	"github.com/vk/flowsheetgo/internal/flowsheet"
	"github.com/vk/flowsheetgo/internal/props"
	"github.com/vk/flowsheetgo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Params is empty: a feed has no design parameters, only fixed state.
type Params struct{}

// Block is a feed source.
type Block struct {
	name   string
	outlet *flowsheet.Port
}

// New creates a feed block.
func New(name string, pkg props.Package) *Block {
	return &Block{
		name:   name,
		outlet: flowsheet.NewPort(name, "outlet", flowsheet.Outlet, pkg),
	}
}

func (b *Block) Name() string { return b.name }
func (b *Block) Type() string { return "feed" }

func (b *Block) Ports() []*flowsheet.Port { return []*flowsheet.Port{b.outlet} }

func (b *Block) Port(name string) (*flowsheet.Port, error) {
	if name == "outlet" {
		return b.outlet, nil
	}
	return nil, flowsheet.NoSuchPort(b.name, "feed", name)
}

func (b *Block) DesignVars() []*flowsheet.Var      { return nil }
func (b *Block) Equations() []flowsheet.Constraint { return nil }

// Initialize is a no-op: the feed state comes entirely from fixes.
func (b *Block) Initialize(context.Context) error { return nil }

// Register registers the builder with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.Register(&registry.Builder{
		Type:        "feed",
		Description: "Material source with a fixed outlet state.",
		NewParams:   func() any { return new(Params) },
		Build: func(name string, pkg props.Package, _ any) (flowsheet.Block, error) {
			return New(name, pkg), nil
		},
	})
}
