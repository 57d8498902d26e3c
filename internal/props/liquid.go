package props

import "fmt"

// liquid models an incompressible subcooled liquid: constant molar heat
// capacity plus a molar-volume pressure-work term,
//
//	h(T, P) = cp·(T − Tref) + vm·(P − Pref)
//
// which makes the isentropic enthalpy rise across a pump exactly
// vm·ΔP, the textbook incompressible result.
type liquid struct {
	name string
	cp   float64 // J/(mol·K)
	vm   float64 // m³/mol
	tRef float64 // K
	pRef float64 // Pa
}

// Water returns the subcooled liquid water package used by the steam-side
// flowsheets. The htpx-style helpers on the package interface replace the
// external steam-table lookups of the original models.
func Water() Package {
	return &liquid{
		name: "water",
		cp:   75.38,
		vm:   1.8068e-5,
		tRef: 273.15,
		pRef: 101325,
	}
}

// MethanolEthanol returns an ideal liquid blend with the given methanol
// mole fraction. Cp and molar volume are linear in composition.
func MethanolEthanol(xMethanol float64) (Package, error) {
	if xMethanol < 0 || xMethanol > 1 {
		return nil, fmt.Errorf("meoh-etoh: mole_frac_methanol %.4f outside [0, 1]", xMethanol)
	}
	xEth := 1 - xMethanol
	return &liquid{
		name: "meoh-etoh",
		cp:   xMethanol*81.1 + xEth*112.3,
		vm:   xMethanol*40.7e-6 + xEth*58.7e-6,
		tRef: 273.15,
		pRef: 101325,
	}, nil
}

func (l *liquid) Name() string { return l.name }

func (l *liquid) EnthalpyTP(t, p float64) (float64, error) {
	if t <= 0 {
		return 0, fmt.Errorf("%s: temperature %.2f K out of range", l.name, t)
	}
	if p <= 0 {
		return 0, fmt.Errorf("%s: pressure %.2f Pa out of range", l.name, p)
	}
	return l.cp*(t-l.tRef) + l.vm*(p-l.pRef), nil
}

func (l *liquid) TemperaturePH(p, h float64) (float64, error) {
	if p <= 0 {
		return 0, fmt.Errorf("%s: pressure %.2f Pa out of range", l.name, p)
	}
	t := l.tRef + (h-l.vm*(p-l.pRef))/l.cp
	if t <= 0 {
		return 0, fmt.Errorf("%s: enthalpy %.2f J/mol below valid range", l.name, h)
	}
	return t, nil
}

// IsentropicEnthalpy for an incompressible liquid is the flow-work term
// vm·(P2 − P1) on top of the inlet enthalpy.
func (l *liquid) IsentropicEnthalpy(hIn, pIn, pOut float64) (float64, error) {
	if pIn <= 0 || pOut <= 0 {
		return 0, fmt.Errorf("%s: isentropic path needs positive pressures, got %.2f -> %.2f", l.name, pIn, pOut)
	}
	return hIn + l.vm*(pOut-pIn), nil
}
