// Package separator provides the splitter unit model: one inlet divided
// over N outlets by molar split fractions, with enthalpy and pressure
// passed through unchanged. This is the single-phase separator of the
// original flowsheets; phase separation needs vapor-liquid equilibrium
// and is out of scope.
package separator

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

// Params configures the outlet port names.
type Params struct {
	Outlets []string `fs:"outlets"`
}

// Block is a split-fraction separator.
type Block struct {
	name string
	pkg  props.Package

	inlet   *flowsheet.Port
	outlets []*flowsheet.Port
	fracs   []*flowsheet.Var
}

// New creates a separator with the given outlet port names. Each outlet
// gets a split-fraction design variable "name.split_<outlet>"; fixing all
// but one squares the block.
func New(name string, pkg props.Package, outletNames []string) (*Block, error) {
	if len(outletNames) < 2 {
		return nil, fmt.Errorf("separator %q needs at least two outlets, got %d", name, len(outletNames))
	}
	seen := make(map[string]bool, len(outletNames))
	b := &Block{
		name:  name,
		pkg:   pkg,
		inlet: flowsheet.NewPort(name, "inlet", flowsheet.Inlet, pkg),
	}
	for _, outlet := range outletNames {
		if seen[outlet] {
			return nil, fmt.Errorf("separator %q: duplicate outlet name %q", name, outlet)
		}
		seen[outlet] = true
		b.outlets = append(b.outlets, flowsheet.NewPort(name, outlet, flowsheet.Outlet, pkg))
		b.fracs = append(b.fracs, flowsheet.NewVar(name+".split_"+outlet, "-"))
	}
	return b, nil
}

func (b *Block) Name() string { return b.name }
func (b *Block) Type() string { return "separator" }

func (b *Block) Ports() []*flowsheet.Port {
	ports := make([]*flowsheet.Port, 0, len(b.outlets)+1)
	ports = append(ports, b.inlet)
	return append(ports, b.outlets...)
}

func (b *Block) Port(name string) (*flowsheet.Port, error) {
	if name == "inlet" {
		return b.inlet, nil
	}
	for _, p := range b.outlets {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, flowsheet.NoSuchPort(b.name, "separator", name)
}

func (b *Block) DesignVars() []*flowsheet.Var { return b.fracs }

func (b *Block) Equations() []flowsheet.Constraint {
	in := b.inlet
	cons := make([]flowsheet.Constraint, 0, 3*len(b.outlets)+1)
	for i, out := range b.outlets {
		out := out
		frac := b.fracs[i]
		cons = append(cons,
			flowsheet.Constraint{
				Name:     fmt.Sprintf("%s.%s_split", b.name, out.Name),
				Residual: func() float64 { return out.FlowMol.Value() - frac.Value()*in.FlowMol.Value() },
			},
			flowsheet.Constraint{
				Name:     fmt.Sprintf("%s.%s_enthalpy", b.name, out.Name),
				Residual: func() float64 { return out.EnthMol.Value() - in.EnthMol.Value() },
			},
			flowsheet.Constraint{
				Name:     fmt.Sprintf("%s.%s_pressure", b.name, out.Name),
				Residual: func() float64 { return out.Pressure.Value() - in.Pressure.Value() },
			},
		)
	}
	cons = append(cons, flowsheet.Constraint{
		Name: b.name + ".split_closure",
		Residual: func() float64 {
			sum := 0.0
			for _, frac := range b.fracs {
				sum += frac.Value()
			}
			return sum - 1
		},
	})
	return cons
}

// Initialize shares the inlet flow over the outlets: fixed fractions keep
// their values, free ones split the remainder evenly.
func (b *Block) Initialize(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	in := b.inlet

	if in.FlowMol.Value() <= 0 {
		return fmt.Errorf("%s: inlet flow is not initialized", b.name)
	}

	fixedSum := 0.0
	free := 0
	for _, frac := range b.fracs {
		if frac.Fixed() {
			fixedSum += frac.Value()
		} else {
			free++
		}
	}
	if free > 0 {
		share := (1 - fixedSum) / float64(free)
		for _, frac := range b.fracs {
			frac.SetGuess(share)
		}
	}

	for i, out := range b.outlets {
		out.FlowMol.SetGuess(b.fracs[i].Value() * in.FlowMol.Value())
		out.EnthMol.SetGuess(in.EnthMol.Value())
		out.Pressure.SetGuess(in.Pressure.Value())
	}

	logger.Debug("Separator initialized.", "block", b.name, "outlets", len(b.outlets))
	return nil
}

// Performance reports the solved split fractions.
func (b *Block) Performance() []flowsheet.Quantity {
	quantities := make([]flowsheet.Quantity, 0, len(b.fracs))
	for i, frac := range b.fracs {
		quantities = append(quantities, flowsheet.Quantity{
			Name:  "split_" + b.outlets[i].Name,
			Value: frac.Value(),
			Unit:  "-",
		})
	}
	return quantities
}

// Register registers the builder with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.Register(&registry.Builder{
		Type:        "separator",
		Description: "Split-fraction separator over N outlets.",
		NewParams:   func() any { return new(Params) },
		Build: func(name string, pkg props.Package, params any) (flowsheet.Block, error) {
			p := params.(*Params)
			outlets := p.Outlets
			if len(outlets) == 0 {
				outlets = []string{"outlet_1", "outlet_2"}
			}
			return New(name, pkg, outlets)
		},
	})
}
