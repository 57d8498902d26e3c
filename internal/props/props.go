// Package props defines the property-package boundary of the workflow.
//
// A property package is an opaque provider of molar enthalpy, temperature
// and entropy-path relationships for a fixed stream composition. Unit
// blocks consume the interface only; the bundled adapters are deliberately
// simple constant-heat-capacity correlations standing in for the external
// thermodynamic libraries the original flowsheets delegate to.
package props

import (
	"fmt"
	"sort"
)

// GasConstant is the universal gas constant in J/(mol·K).
const GasConstant = 8.314462618

// Package is the opaque property-package handle attached to every port.
// All enthalpies are molar (J/mol), pressures absolute (Pa), temperatures
// in kelvin.
type Package interface {
	// Name identifies the package; arcs may only connect ports whose
	// packages share a name.
	Name() string

	// EnthalpyTP returns the molar enthalpy at the given temperature and
	// pressure.
	EnthalpyTP(t, p float64) (float64, error)

	// TemperaturePH inverts EnthalpyTP at fixed pressure.
	TemperaturePH(p, h float64) (float64, error)

	// IsentropicEnthalpy returns the outlet molar enthalpy of an ideal
	// (entropy-conserving) path from state (hIn, pIn) to pressure pOut.
	IsentropicEnthalpy(hIn, pIn, pOut float64) (float64, error)
}

// builders maps package names to constructors taking the flowsheet-level
// package parameters (e.g. composition).
var builders = map[string]func(params map[string]float64) (Package, error){
	"methane": func(map[string]float64) (Package, error) { return Methane(), nil },
	"water":   func(map[string]float64) (Package, error) { return Water(), nil },
	"meoh-etoh": func(params map[string]float64) (Package, error) {
		x, ok := params["mole_frac_methanol"]
		if !ok {
			x = 0.5
		}
		return MethanolEthanol(x)
	},
}

// ByName constructs a registered property package. The params map carries
// package-specific settings such as blend composition.
func ByName(name string, params map[string]float64) (Package, error) {
	build, ok := builders[name]
	if !ok {
		return nil, fmt.Errorf("unknown property package %q (available: %v)", name, Names())
	}
	return build(params)
}

// Names lists the registered property packages, sorted.
func Names() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
