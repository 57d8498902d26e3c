package flowsheet

import (
	"fmt"

	"github.com/vk/flowsheetgo/internal/props"
)

// PortKind distinguishes stream directions on a block.
type PortKind int

const (
	// Inlet ports receive material from an upstream arc.
	Inlet PortKind = iota
	// Outlet ports feed material to a downstream arc.
	Outlet
)

func (k PortKind) String() string {
	if k == Inlet {
		return "inlet"
	}
	return "outlet"
}

// State variable names carried by every port. Together they fully
// determine one thermodynamic state.
const (
	VarFlowMol  = "flow_mol"
	VarEnthMol  = "enth_mol"
	VarPressure = "pressure"

	// VarTemperature is a fix-only pseudo-variable: fixing it converts to
	// an enth_mol fix through the port's property package.
	VarTemperature = "temperature"
)

// Port is a named stream endpoint on a block. It owns exactly three state
// variables (molar flow, molar enthalpy, pressure) and carries the
// property-package handle governing their relationships.
type Port struct {
	Name  string
	Block string
	Kind  PortKind
	Pkg   props.Package

	FlowMol  *Var
	EnthMol  *Var
	Pressure *Var

	connected bool
}

// NewPort creates a port and its three state variables.
func NewPort(block, name string, kind PortKind, pkg props.Package) *Port {
	prefix := block + "." + name + "."
	return &Port{
		Name:     name,
		Block:    block,
		Kind:     kind,
		Pkg:      pkg,
		FlowMol:  NewVar(prefix+VarFlowMol, "mol/s"),
		EnthMol:  NewVar(prefix+VarEnthMol, "J/mol"),
		Pressure: NewVar(prefix+VarPressure, "Pa"),
	}
}

// StateVars returns the port's three state variables in canonical order.
func (p *Port) StateVars() []*Var {
	return []*Var{p.FlowMol, p.EnthMol, p.Pressure}
}

// Var resolves one of the port's state variables by name.
func (p *Port) Var(name string) (*Var, error) {
	switch name {
	case VarFlowMol:
		return p.FlowMol, nil
	case VarEnthMol:
		return p.EnthMol, nil
	case VarPressure:
		return p.Pressure, nil
	}
	return nil, fmt.Errorf("port %s.%s has no state variable %q", p.Block, p.Name, name)
}

// NoSuchPort builds the standard error for a port lookup miss on a block.
func NoSuchPort(block, blockType, port string) error {
	return fmt.Errorf("%s block %q has no port %q", blockType, block, port)
}

// Temperature derives the port's temperature from its enthalpy and
// pressure through the property package.
func (p *Port) Temperature() (float64, error) {
	return p.Pkg.TemperaturePH(p.Pressure.Value(), p.EnthMol.Value())
}
