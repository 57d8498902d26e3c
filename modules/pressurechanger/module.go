// Package pressurechanger provides the isentropic pressure-changer unit
// model behind the compressor, pump and turbine types. All three share
// the same variable set and equations; they differ only in the direction
// the isentropic efficiency is applied.
package pressurechanger

import (
	"context"
	"fmt"
	"math"

	"github.com/vk/flowsheetgo/internal/ctxlog"
	"github.com/vk/flowsheetgo/internal/flowsheet"
	"github.com/vk/flowsheetgo/internal/props"
	"github.com/vk/flowsheetgo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Params is empty: deltaP, ratioP and efficiency are flowsheet variables
// set through fix blocks, not construction parameters.
type Params struct{}

// Mode selects how the isentropic efficiency enters the energy balance.
type Mode int

const (
	// ModeCompressor covers compressors and pumps: actual enthalpy rise
	// exceeds the isentropic one.
	ModeCompressor Mode = iota
	// ModeTurbine recovers less than the isentropic enthalpy drop.
	ModeTurbine
)

// Block is an isentropic pressure changer.
type Block struct {
	name string
	typ  string
	mode Mode
	pkg  props.Package

	inlet  *flowsheet.Port
	outlet *flowsheet.Port

	deltaP   *flowsheet.Var
	ratioP   *flowsheet.Var
	eta      *flowsheet.Var
	work     *flowsheet.Var
	enthIsen *flowsheet.Var
}

// New creates a pressure changer of the given registered type.
func New(name, typ string, mode Mode, pkg props.Package) *Block {
	b := &Block{
		name:     name,
		typ:      typ,
		mode:     mode,
		pkg:      pkg,
		inlet:    flowsheet.NewPort(name, "inlet", flowsheet.Inlet, pkg),
		outlet:   flowsheet.NewPort(name, "outlet", flowsheet.Outlet, pkg),
		deltaP:   flowsheet.NewVar(name+".deltaP", "Pa"),
		ratioP:   flowsheet.NewVar(name+".ratioP", "-"),
		eta:      flowsheet.NewVar(name+".efficiency_isentropic", "-"),
		work:     flowsheet.NewVar(name+".work_mechanical", "W"),
		enthIsen: flowsheet.NewVar(name+".enth_isentropic", "J/mol"),
	}
	// Neutral starting values keep the first residual evaluation inside
	// the property packages' valid region.
	b.ratioP.Set(1)
	b.eta.Set(1)
	return b
}

func (b *Block) Name() string { return b.name }
func (b *Block) Type() string { return b.typ }

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
	return nil, flowsheet.NoSuchPort(b.name, b.typ, name)
}

func (b *Block) DesignVars() []*flowsheet.Var {
	return []*flowsheet.Var{b.deltaP, b.ratioP, b.eta, b.work, b.enthIsen}
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
			Name:     b.name + ".pressure_ratio",
			Residual: func() float64 { return out.Pressure.Value() - b.ratioP.Value()*in.Pressure.Value() },
		},
		{
			Name: b.name + ".isentropic_enthalpy",
			Residual: func() float64 {
				hIsen, err := b.pkg.IsentropicEnthalpy(in.EnthMol.Value(), in.Pressure.Value(), out.Pressure.Value())
				if err != nil {
					return math.NaN()
				}
				return b.enthIsen.Value() - hIsen
			},
		},
		{
			Name: b.name + ".isentropic_efficiency",
			Residual: func() float64 {
				dh := out.EnthMol.Value() - in.EnthMol.Value()
				dhIsen := b.enthIsen.Value() - in.EnthMol.Value()
				if b.mode == ModeTurbine {
					return dh - b.eta.Value()*dhIsen
				}
				return b.eta.Value()*dh - dhIsen
			},
		},
		{
			Name: b.name + ".work",
			Residual: func() float64 {
				return b.work.Value() - in.FlowMol.Value()*(out.EnthMol.Value()-in.EnthMol.Value())
			},
		},
	}
}

// Initialize propagates the inlet state to a consistent outlet guess:
// outlet pressure from whichever pressure specification is fixed, outlet
// enthalpy from the isentropic path corrected by the current efficiency.
func (b *Block) Initialize(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	in, out := b.inlet, b.outlet

	pIn := in.Pressure.Value()
	if pIn <= 0 {
		return fmt.Errorf("%s: inlet pressure %.2f Pa is not initialized", b.name, pIn)
	}

	var pOut float64
	switch {
	case b.deltaP.Fixed():
		pOut = pIn + b.deltaP.Value()
	case b.ratioP.Fixed():
		pOut = pIn * b.ratioP.Value()
	case out.Pressure.Fixed():
		pOut = out.Pressure.Value()
	default:
		pOut = pIn
	}
	if pOut <= 0 {
		return fmt.Errorf("%s: outlet pressure guess %.2f Pa is not positive", b.name, pOut)
	}

	hIn := in.EnthMol.Value()
	hIsen, err := b.pkg.IsentropicEnthalpy(hIn, pIn, pOut)
	if err != nil {
		return fmt.Errorf("%s: %w", b.name, err)
	}

	eta := b.eta.Value()
	if eta <= 0 || eta > 1 {
		eta = 1
	}
	var hOut float64
	if b.mode == ModeTurbine {
		hOut = hIn + eta*(hIsen-hIn)
	} else {
		hOut = hIn + (hIsen-hIn)/eta
	}

	flow := in.FlowMol.Value()
	out.FlowMol.SetGuess(flow)
	out.Pressure.SetGuess(pOut)
	out.EnthMol.SetGuess(hOut)
	b.enthIsen.SetGuess(hIsen)
	b.deltaP.SetGuess(pOut - pIn)
	b.ratioP.SetGuess(pOut / pIn)
	b.work.SetGuess(flow * (hOut - hIn))

	logger.Debug("Pressure changer initialized.", "block", b.name, "p_out_guess", pOut, "h_out_guess", hOut)
	return nil
}

// Performance reports the solved duty-side quantities.
func (b *Block) Performance() []flowsheet.Quantity {
	return []flowsheet.Quantity{
		{Name: "work_mechanical", Value: b.work.Value(), Unit: "W"},
		{Name: "deltaP", Value: b.deltaP.Value(), Unit: "Pa"},
		{Name: "ratioP", Value: b.ratioP.Value(), Unit: "-"},
		{Name: "efficiency_isentropic", Value: b.eta.Value(), Unit: "-"},
	}
}

// Register registers the compressor, pump and turbine builders.
func (m *Module) Register(r *registry.Registry) {
	register := func(typ, description string, mode Mode) {
		r.Register(&registry.Builder{
			Type:        typ,
			Description: description,
			NewParams:   func() any { return new(Params) },
			Build: func(name string, pkg props.Package, _ any) (flowsheet.Block, error) {
				return New(name, typ, mode, pkg), nil
			},
		})
	}
	register("compressor", "Isentropic gas compressor.", ModeCompressor)
	register("pump", "Isentropic liquid pump.", ModeCompressor)
	register("turbine", "Isentropic expansion turbine.", ModeTurbine)
}
