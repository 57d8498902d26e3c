package flowsheet

// Var is a single scalar state or design variable. A fixed var is excluded
// from the solver's unknowns; its value is part of the problem data.
type Var struct {
	// Path is the dotted address of the variable, e.g. "K-101.inlet.flow_mol".
	Path string
	// Unit is the display unit of the value, e.g. "Pa".
	Unit string

	value float64
	fixed bool
}

// NewVar creates an unfixed variable with a zero value.
func NewVar(path, unit string) *Var {
	return &Var{Path: path, Unit: unit}
}

// Value returns the current value.
func (v *Var) Value() float64 { return v.value }

// Fixed reports whether the variable is pinned to its value.
func (v *Var) Fixed() bool { return v.fixed }

// Fix pins the variable to the given value.
func (v *Var) Fix(value float64) {
	v.value = value
	v.fixed = true
}

// Unfix releases a fixed variable back to the solver.
func (v *Var) Unfix() { v.fixed = false }

// Set overwrites the value regardless of the fixed flag. The solver uses
// this to write back its in-place updates.
func (v *Var) Set(value float64) { v.value = value }

// SetGuess writes an initial guess, leaving fixed variables untouched.
func (v *Var) SetGuess(value float64) {
	if v.fixed {
		return
	}
	v.value = value
}
