package flowsheet

import "context"

// Constraint is a single scalar equation in residual form: the system is
// solved when every residual is zero. Residuals close over the variables
// they reference and may return NaN when evaluated outside a property
// package's valid region; the solver reports that as infeasibility.
type Constraint struct {
	Name     string
	Residual func() float64
}

// Block is a unit-operation node: named stream ports, zero or more design
// variables, the residual equations tying them together, and an
// initialization pass that turns an inlet state into a feasible outlet
// guess.
type Block interface {
	// Name is the flowsheet-unique instance name, e.g. "K-101".
	Name() string
	// Type is the registered unit type, e.g. "compressor".
	Type() string

	// Ports returns all stream ports in a stable order.
	Ports() []*Port
	// Port resolves a port by name.
	Port(name string) (*Port, error)

	// DesignVars returns the block's non-port variables (deltaP,
	// efficiency, heat duty, ...). May be empty.
	DesignVars() []*Var

	// Equations returns the block's residual equations. May be empty for
	// pure source/sink blocks.
	Equations() []Constraint

	// Initialize seeds the block's free variables with a feasible guess,
	// assuming upstream ports already hold initialized values.
	Initialize(ctx context.Context) error
}

// Quantity is a named, united value reported by a block after solving.
type Quantity struct {
	Name  string
	Value float64
	Unit  string
}

// Performer is implemented by blocks that expose performance quantities
// (work, duty, pressure ratio) to the reporter.
type Performer interface {
	Performance() []Quantity
}
