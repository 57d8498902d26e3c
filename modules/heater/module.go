// Package heater provides the heater unit model: a single-stream heat
// duty block. A negative duty makes it a cooler; fixing the outlet
// temperature instead of the duty turns the duty into the unknown, which
// is how the cooler flowsheets specify it.
package heater

import (
	"context"
	"fmt"

	"github.com/vk/flowsheetgo/internal/ctxlog"
	"github.com/vk/flowsheetgo/internal/flowsheet"
	"github.com/vk/flowsheetgo/internal/props"
	"github.com/vk/flowsheetgo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Params is empty: duty and pressure drop are flowsheet variables.
type Params struct{}

// Block is a heater/cooler.
type Block struct {
	name string
	pkg  props.Package

	inlet  *flowsheet.Port
	outlet *flowsheet.Port

	duty   *flowsheet.Var
	deltaP *flowsheet.Var
}

// New creates a heater block.
func New(name string, pkg props.Package) *Block {
	return &Block{
		name:   name,
		pkg:    pkg,
		inlet:  flowsheet.NewPort(name, "inlet", flowsheet.Inlet, pkg),
		outlet: flowsheet.NewPort(name, "outlet", flowsheet.Outlet, pkg),
		duty:   flowsheet.NewVar(name+".heat_duty", "W"),
		deltaP: flowsheet.NewVar(name+".deltaP", "Pa"),
	}
}

func (b *Block) Name() string { return b.name }
func (b *Block) Type() string { return "heater" }

func (b *Block) Ports() []*flowsheet.Port {
	return []*flowsheet.Port{b.inlet, b.outlet}
}

func (b *Block) Port(name string) (*flowsheet.Port, error) {
	switch name {
	case "inlet":
		return b.inlet, nil
	case "outlet":
		return b.outlet, nil
	}
	return nil, flowsheet.NoSuchPort(b.name, "heater", name)
}

func (b *Block) DesignVars() []*flowsheet.Var {
	return []*flowsheet.Var{b.duty, b.deltaP}
}

func (b *Block) Equations() []flowsheet.Constraint {
	in, out := b.inlet, b.outlet
	return []flowsheet.Constraint{
		{
			Name:     b.name + ".mole_balance",
			Residual: func() float64 { return out.FlowMol.Value() - in.FlowMol.Value() },
		},
		{
			Name:     b.name + ".pressure_change",
			Residual: func() float64 { return out.Pressure.Value() - in.Pressure.Value() - b.deltaP.Value() },
		},
		{
			Name: b.name + ".energy_balance",
			Residual: func() float64 {
				return b.duty.Value() - in.FlowMol.Value()*(out.EnthMol.Value()-in.EnthMol.Value())
			},
		},
	}
}

// Initialize propagates the inlet state, applying the duty if it is
// already fixed.
func (b *Block) Initialize(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	in, out := b.inlet, b.outlet

	flow := in.FlowMol.Value()
	if flow <= 0 {
		return fmt.Errorf("%s: inlet flow %.4f mol/s is not initialized", b.name, flow)
	}

	hOut := in.EnthMol.Value()
	if b.duty.Fixed() {
		hOut += b.duty.Value() / flow
	}

	out.FlowMol.SetGuess(flow)
	out.Pressure.SetGuess(in.Pressure.Value() + b.deltaP.Value())
	out.EnthMol.SetGuess(hOut)
	b.duty.SetGuess(flow * (hOut - in.EnthMol.Value()))

	logger.Debug("Heater initialized.", "block", b.name, "h_out_guess", hOut)
	return nil
}

// Performance reports the solved duty quantities.
func (b *Block) Performance() []flowsheet.Quantity {
	return []flowsheet.Quantity{
		{Name: "heat_duty", Value: b.duty.Value(), Unit: "W"},
		{Name: "deltaP", Value: b.deltaP.Value(), Unit: "Pa"},
	}
}

// Register registers the builder with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.Register(&registry.Builder{
		Type:        "heater",
		Description: "Single-stream heater/cooler with a heat duty.",
		NewParams:   func() any { return new(Params) },
		Build: func(name string, pkg props.Package, _ any) (flowsheet.Block, error) {
			return New(name, pkg), nil
		},
	})
}
