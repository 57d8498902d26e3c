package props

import (
	"fmt"
	"math"
)

// idealGas models a pure vapor with constant molar heat capacity. The
// enthalpy datum is h = 0 at the reference temperature.
type idealGas struct {
	name string
	cp   float64 // J/(mol·K)
	tRef float64 // K
}

// Methane returns the ideal-gas methane package used by the compressor
// flowsheets. Cp is the 298 K value for CH4.
func Methane() Package {
	return &idealGas{name: "methane", cp: 35.69, tRef: 298.15}
}

func (g *idealGas) Name() string { return g.name }

func (g *idealGas) EnthalpyTP(t, p float64) (float64, error) {
	if t <= 0 {
		return 0, fmt.Errorf("%s: temperature %.2f K out of range", g.name, t)
	}
	if p <= 0 {
		return 0, fmt.Errorf("%s: pressure %.2f Pa out of range", g.name, p)
	}
	return g.cp * (t - g.tRef), nil
}

func (g *idealGas) TemperaturePH(p, h float64) (float64, error) {
	if p <= 0 {
		return 0, fmt.Errorf("%s: pressure %.2f Pa out of range", g.name, p)
	}
	t := g.tRef + h/g.cp
	if t <= 0 {
		return 0, fmt.Errorf("%s: enthalpy %.2f J/mol below valid range", g.name, h)
	}
	return t, nil
}

// IsentropicEnthalpy follows the constant-cp relation
// T2s = T1 · (P2/P1)^(R/cp).
func (g *idealGas) IsentropicEnthalpy(hIn, pIn, pOut float64) (float64, error) {
	if pIn <= 0 || pOut <= 0 {
		return 0, fmt.Errorf("%s: isentropic path needs positive pressures, got %.2f -> %.2f", g.name, pIn, pOut)
	}
	tIn, err := g.TemperaturePH(pIn, hIn)
	if err != nil {
		return 0, err
	}
	tOut := tIn * math.Pow(pOut/pIn, GasConstant/g.cp)
	return g.EnthalpyTP(tOut, pOut)
}
