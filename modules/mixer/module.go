// Package mixer provides the mixer unit model: N inlets merged into one
// outlet under mole and energy balances. The outlet pressure follows the
// minimize momentum basis: a smooth minimum over the inlet pressures, so
// the Newton backend sees a differentiable residual.
package mixer

import (
	"context"
	"fmt"
	"math"

	"github.com/vk/flowsheetgo/internal/ctxlog"
	"github.com/vk/flowsheetgo/internal/flowsheet"
	"github.com/vk/flowsheetgo/internal/props"
	"github.com/vk/flowsheetgo/internal/registry"
)

// pressureEps is the smoothing width of the minimum-pressure residual, in
// pascals. Small against any realistic operating pressure.
const pressureEps = 1.0

// Module implements the registry.Module interface for this package.
type Module struct{}

// Params configures the inlet port names.
type Params struct {
	Inlets []string `fs:"inlets"`
}

// Block is a mixer.
type Block struct {
	name string
	pkg  props.Package

	inlets []*flowsheet.Port
	outlet *flowsheet.Port
}

// New creates a mixer with the given inlet port names.
func New(name string, pkg props.Package, inletNames []string) (*Block, error) {
	if len(inletNames) < 2 {
		return nil, fmt.Errorf("mixer %q needs at least two inlets, got %d", name, len(inletNames))
	}
	seen := make(map[string]bool, len(inletNames))
	b := &Block{
		name:   name,
		pkg:    pkg,
		outlet: flowsheet.NewPort(name, "outlet", flowsheet.Outlet, pkg),
	}
	for _, inlet := range inletNames {
		if seen[inlet] {
			return nil, fmt.Errorf("mixer %q: duplicate inlet name %q", name, inlet)
		}
		seen[inlet] = true
		b.inlets = append(b.inlets, flowsheet.NewPort(name, inlet, flowsheet.Inlet, pkg))
	}
	return b, nil
}

func (b *Block) Name() string { return b.name }
func (b *Block) Type() string { return "mixer" }

func (b *Block) Ports() []*flowsheet.Port {
	ports := make([]*flowsheet.Port, 0, len(b.inlets)+1)
	ports = append(ports, b.inlets...)
	return append(ports, b.outlet)
}

func (b *Block) Port(name string) (*flowsheet.Port, error) {
	if name == "outlet" {
		return b.outlet, nil
	}
	for _, p := range b.inlets {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, flowsheet.NoSuchPort(b.name, "mixer", name)
}

func (b *Block) DesignVars() []*flowsheet.Var { return nil }

func (b *Block) Equations() []flowsheet.Constraint {
	out := b.outlet
	return []flowsheet.Constraint{
		{
			Name: b.name + ".mole_balance",
			Residual: func() float64 {
				sum := 0.0
				for _, in := range b.inlets {
					sum += in.FlowMol.Value()
				}
				return out.FlowMol.Value() - sum
			},
		},
		{
			Name: b.name + ".energy_balance",
			Residual: func() float64 {
				sum := 0.0
				for _, in := range b.inlets {
					sum += in.FlowMol.Value() * in.EnthMol.Value()
				}
				return out.FlowMol.Value()*out.EnthMol.Value() - sum
			},
		},
		{
			Name: b.name + ".minimum_pressure",
			Residual: func() float64 {
				return out.Pressure.Value() - b.smoothMinPressure()
			},
		},
	}
}

// smoothMinPressure is a shifted log-sum-exp minimum over the inlet
// pressures, exact to within pressureEps·ln(N).
func (b *Block) smoothMinPressure() float64 {
	min := math.Inf(1)
	for _, in := range b.inlets {
		if p := in.Pressure.Value(); p < min {
			min = p
		}
	}
	sum := 0.0
	for _, in := range b.inlets {
		sum += math.Exp(-(in.Pressure.Value() - min) / pressureEps)
	}
	return min - pressureEps*math.Log(sum)
}

// Initialize combines the already-initialized inlet states into an outlet
// guess: summed flow, flow-weighted enthalpy, minimum pressure.
func (b *Block) Initialize(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	flowSum := 0.0
	enthSum := 0.0
	for _, in := range b.inlets {
		flowSum += in.FlowMol.Value()
		enthSum += in.FlowMol.Value() * in.EnthMol.Value()
	}
	if flowSum <= 0 {
		return fmt.Errorf("%s: inlet flows are not initialized", b.name)
	}

	b.outlet.FlowMol.SetGuess(flowSum)
	b.outlet.EnthMol.SetGuess(enthSum / flowSum)
	b.outlet.Pressure.SetGuess(b.smoothMinPressure())

	logger.Debug("Mixer initialized.", "block", b.name, "flow_out_guess", flowSum)
	return nil
}

// Register registers the builder with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.Register(&registry.Builder{
		Type:        "mixer",
		Description: "N-inlet mixer with minimize momentum basis.",
		NewParams:   func() any { return new(Params) },
		Build: func(name string, pkg props.Package, params any) (flowsheet.Block, error) {
			p := params.(*Params)
			inlets := p.Inlets
			if len(inlets) == 0 {
				inlets = []string{"inlet_1", "inlet_2"}
			}
			return New(name, pkg, inlets)
		},
	})
}
