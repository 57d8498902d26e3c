// Package solver is the delegation boundary to the nonlinear solver. The
// workflow hands over a fully specified, square system and receives a
// structured termination status back; no modeling knowledge lives here.
// A damped-Newton backend is bundled so the module is self-contained, but
// anything satisfying Solver can be swapped in.
package solver

import (
	"context"
	"fmt"

	"github.com/vk/flowsheetgo/internal/flowsheet"
)

// Status is the structured termination status of a solve.
type Status string

const (
	// StatusOptimal means the residuals converged below tolerance.
	StatusOptimal Status = "optimal"
	// StatusInfeasible means the backend cannot make progress: singular
	// Jacobian, or residuals evaluated outside a property package's
	// valid region.
	StatusInfeasible Status = "infeasible"
	// StatusIterationLimit means the iteration cap was reached first.
	StatusIterationLimit Status = "iteration_limit"
)

// Result carries the backend's verdict and diagnostics. A non-optimal
// status is not a Go error; the caller decides how to surface it.
type Result struct {
	Status       Status
	Iterations   int
	ResidualNorm float64
	Message      string
}

// Solver is the single synchronous entry point every backend implements.
type Solver interface {
	Solve(ctx context.Context, sys *System) (Result, error)
}

// System is the flattened square equation system extracted from a
// flowsheet: the free variables as unknowns and every constraint as one
// residual equation.
type System struct {
	vars []*flowsheet.Var
	cons []flowsheet.Constraint
}

// NewSystem extracts the solvable system from a flowsheet. It refuses
// non-square systems, returning the flowsheet's SpecificationError.
func NewSystem(fs *flowsheet.Flowsheet) (*System, error) {
	if err := fs.CheckSpecification(); err != nil {
		return nil, err
	}
	return &System{vars: fs.FreeVars(), cons: fs.Constraints()}, nil
}

// Size returns the number of unknowns (equal to the number of equations).
func (s *System) Size() int { return len(s.vars) }

// Values snapshots the current unknown values.
func (s *System) Values() []float64 {
	x := make([]float64, len(s.vars))
	for i, v := range s.vars {
		x[i] = v.Value()
	}
	return x
}

// SetValues writes unknown values back into the model in place.
func (s *System) SetValues(x []float64) {
	if len(x) != len(s.vars) {
		panic(fmt.Sprintf("solver: value vector length %d != system size %d", len(x), len(s.vars)))
	}
	for i, v := range s.vars {
		v.Set(x[i])
	}
}

// Residuals evaluates every constraint at the current variable values
// into dst, which must have length Size().
func (s *System) Residuals(dst []float64) {
	for i, c := range s.cons {
		dst[i] = c.Residual()
	}
}

// ConstraintName names equation i, for diagnostics.
func (s *System) ConstraintName(i int) string { return s.cons[i].Name }

// VarPath names unknown j, for diagnostics.
func (s *System) VarPath(j int) string { return s.vars[j].Path }
