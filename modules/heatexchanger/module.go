// Package heatexchanger provides the 0D two-side heat exchanger unit
// model. Heat flows from the hot side to the cold side through the duty
// equation Q = U*A*LMTD, with the log-mean temperature difference
// approximated by Chen's form so the residual stays smooth when the two
// terminal differences cross.
package heatexchanger

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

// Params optionally selects a different property package for the cold
// side, for exchangers coupling dissimilar streams.
type Params struct {
	ColdPropertyPackage string `fs:"cold_property_package"`
}

// Block is a countercurrent 0D heat exchanger.
type Block struct {
	name    string
	hotPkg  props.Package
	coldPkg props.Package

	hotIn   *flowsheet.Port
	hotOut  *flowsheet.Port
	coldIn  *flowsheet.Port
	coldOut *flowsheet.Port

	area   *flowsheet.Var
	coeff  *flowsheet.Var
	duty   *flowsheet.Var
	deltaT *flowsheet.Var
}

// New creates a heat exchanger. coldPkg may equal hotPkg.
func New(name string, hotPkg, coldPkg props.Package) *Block {
	return &Block{
		name:    name,
		hotPkg:  hotPkg,
		coldPkg: coldPkg,
		hotIn:   flowsheet.NewPort(name, "hot_inlet", flowsheet.Inlet, hotPkg),
		hotOut:  flowsheet.NewPort(name, "hot_outlet", flowsheet.Outlet, hotPkg),
		coldIn:  flowsheet.NewPort(name, "cold_inlet", flowsheet.Inlet, coldPkg),
		coldOut: flowsheet.NewPort(name, "cold_outlet", flowsheet.Outlet, coldPkg),
		area:    flowsheet.NewVar(name+".area", "m2"),
		coeff:   flowsheet.NewVar(name+".heat_transfer_coefficient", "W/m2/K"),
		duty:    flowsheet.NewVar(name+".heat_duty", "W"),
		deltaT:  flowsheet.NewVar(name+".delta_temperature", "K"),
	}
}

func (b *Block) Name() string { return b.name }
func (b *Block) Type() string { return "heat_exchanger" }

func (b *Block) Ports() []*flowsheet.Port {
	return []*flowsheet.Port{b.hotIn, b.hotOut, b.coldIn, b.coldOut}
}

func (b *Block) Port(name string) (*flowsheet.Port, error) {
	switch name {
	case "hot_inlet":
		return b.hotIn, nil
	case "hot_outlet":
		return b.hotOut, nil
	case "cold_inlet":
		return b.coldIn, nil
	case "cold_outlet":
		return b.coldOut, nil
	}
	return nil, flowsheet.NoSuchPort(b.name, "heat_exchanger", name)
}

func (b *Block) DesignVars() []*flowsheet.Var {
	return []*flowsheet.Var{b.area, b.coeff, b.duty, b.deltaT}
}

func (b *Block) Equations() []flowsheet.Constraint {
	return []flowsheet.Constraint{
		{
			Name:     b.name + ".hot_mole_balance",
			Residual: func() float64 { return b.hotOut.FlowMol.Value() - b.hotIn.FlowMol.Value() },
		},
		{
			Name:     b.name + ".cold_mole_balance",
			Residual: func() float64 { return b.coldOut.FlowMol.Value() - b.coldIn.FlowMol.Value() },
		},
		{
			Name:     b.name + ".hot_pressure",
			Residual: func() float64 { return b.hotOut.Pressure.Value() - b.hotIn.Pressure.Value() },
		},
		{
			Name:     b.name + ".cold_pressure",
			Residual: func() float64 { return b.coldOut.Pressure.Value() - b.coldIn.Pressure.Value() },
		},
		{
			Name: b.name + ".hot_energy_balance",
			Residual: func() float64 {
				return b.duty.Value() - b.hotIn.FlowMol.Value()*(b.hotIn.EnthMol.Value()-b.hotOut.EnthMol.Value())
			},
		},
		{
			Name: b.name + ".cold_energy_balance",
			Residual: func() float64 {
				return b.duty.Value() - b.coldIn.FlowMol.Value()*(b.coldOut.EnthMol.Value()-b.coldIn.EnthMol.Value())
			},
		},
		{
			Name: b.name + ".mean_temperature_difference",
			Residual: func() float64 {
				lmtd, err := b.chenLMTD()
				if err != nil {
					return math.NaN()
				}
				return b.deltaT.Value() - lmtd
			},
		},
		{
			Name: b.name + ".heat_transfer",
			Residual: func() float64 {
				return b.duty.Value() - b.coeff.Value()*b.area.Value()*b.deltaT.Value()
			},
		},
	}
}

// chenLMTD is Chen's approximation of the countercurrent log-mean
// temperature difference, (dt1*dt2*(dt1+dt2)/2)^(1/3).
func (b *Block) chenLMTD() (float64, error) {
	thIn, err := b.hotIn.Temperature()
	if err != nil {
		return 0, err
	}
	thOut, err := b.hotOut.Temperature()
	if err != nil {
		return 0, err
	}
	tcIn, err := b.coldIn.Temperature()
	if err != nil {
		return 0, err
	}
	tcOut, err := b.coldOut.Temperature()
	if err != nil {
		return 0, err
	}
	dt1 := thIn - tcOut
	dt2 := thOut - tcIn
	return math.Cbrt(dt1 * dt2 * (dt1 + dt2) / 2), nil
}

// Initialize guesses both outlets by exchanging a fraction of the hot
// side's approach to the cold inlet temperature, then backs the duty-side
// variables out of that guess.
func (b *Block) Initialize(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	hotFlow := b.hotIn.FlowMol.Value()
	coldFlow := b.coldIn.FlowMol.Value()
	if hotFlow <= 0 || coldFlow <= 0 {
		return fmt.Errorf("%s: inlet flows (%.4f, %.4f mol/s) are not initialized", b.name, hotFlow, coldFlow)
	}

	thIn, err := b.hotIn.Temperature()
	if err != nil {
		return fmt.Errorf("%s: %w", b.name, err)
	}
	tcIn, err := b.coldIn.Temperature()
	if err != nil {
		return fmt.Errorf("%s: %w", b.name, err)
	}
	if thIn <= tcIn {
		return fmt.Errorf("%s: hot inlet (%.2f K) is not hotter than cold inlet (%.2f K)", b.name, thIn, tcIn)
	}

	// Half the maximum approach on each side is a robust starting point.
	thOut := thIn - 0.5*(thIn-tcIn)
	hHotOut, err := b.hotPkg.EnthalpyTP(thOut, b.hotIn.Pressure.Value())
	if err != nil {
		return fmt.Errorf("%s: %w", b.name, err)
	}
	duty := hotFlow * (b.hotIn.EnthMol.Value() - hHotOut)
	hColdOut := b.coldIn.EnthMol.Value() + duty/coldFlow

	b.hotOut.FlowMol.SetGuess(hotFlow)
	b.hotOut.Pressure.SetGuess(b.hotIn.Pressure.Value())
	b.hotOut.EnthMol.SetGuess(hHotOut)
	b.coldOut.FlowMol.SetGuess(coldFlow)
	b.coldOut.Pressure.SetGuess(b.coldIn.Pressure.Value())
	b.coldOut.EnthMol.SetGuess(hColdOut)

	b.duty.SetGuess(duty)
	if lmtd, err := b.chenLMTD(); err == nil && lmtd > 0 {
		b.deltaT.SetGuess(lmtd)
		if b.coeff.Value() > 0 && !b.area.Fixed() {
			b.area.SetGuess(duty / (b.coeff.Value() * lmtd))
		}
		if b.area.Value() > 0 && !b.coeff.Fixed() {
			b.coeff.SetGuess(duty / (b.area.Value() * lmtd))
		}
	}

	logger.Debug("Heat exchanger initialized.", "block", b.name, "duty_guess", duty)
	return nil
}

// Performance reports the solved exchanger quantities.
func (b *Block) Performance() []flowsheet.Quantity {
	return []flowsheet.Quantity{
		{Name: "heat_duty", Value: b.duty.Value(), Unit: "W"},
		{Name: "area", Value: b.area.Value(), Unit: "m2"},
		{Name: "heat_transfer_coefficient", Value: b.coeff.Value(), Unit: "W/m2/K"},
		{Name: "delta_temperature", Value: b.deltaT.Value(), Unit: "K"},
	}
}

// Register registers the builder with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.Register(&registry.Builder{
		Type:        "heat_exchanger",
		Description: "0D countercurrent heat exchanger with Chen LMTD.",
		NewParams:   func() any { return new(Params) },
		Build: func(name string, pkg props.Package, params any) (flowsheet.Block, error) {
			p := params.(*Params)
			coldPkg := pkg
			if p.ColdPropertyPackage != "" {
				var err error
				coldPkg, err = props.ByName(p.ColdPropertyPackage, nil)
				if err != nil {
					return nil, fmt.Errorf("heat exchanger %q: %w", name, err)
				}
			}
			return New(name, pkg, coldPkg), nil
		},
	})
}
