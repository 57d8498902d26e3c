package solver

import (
	"context"
	"fmt"
	"math"

	"github.com/vk/flowsheetgo/internal/ctxlog"
)

// Newton is the bundled damped-Newton backend: forward-difference
// Jacobian, dense partial-pivot elimination, halving line search. Systems
// here are tens of equations, so dense assembly is fine.
type Newton struct {
	// Tolerance is the convergence bound on the residual infinity norm.
	Tolerance float64
	// MaxIterations caps the outer Newton iterations.
	MaxIterations int
}

// NewNewton returns a backend with the default tolerance and iteration cap.
func NewNewton() *Newton {
	return &Newton{Tolerance: 1e-6, MaxIterations: 50}
}

// Solve drives the system residuals to zero, updating the model variables
// in place. Non-convergence is reported through Result.Status, not the
// error return; the error is reserved for cancellation and misuse.
func (n *Newton) Solve(ctx context.Context, sys *System) (Result, error) {
	logger := ctxlog.FromContext(ctx)
	size := sys.Size()
	if size == 0 {
		return Result{Status: StatusOptimal, Message: "empty system"}, nil
	}

	x := sys.Values()
	f := make([]float64, size)
	fTrial := make([]float64, size)
	xTrial := make([]float64, size)
	jac := make([][]float64, size)
	for i := range jac {
		jac[i] = make([]float64, size)
	}

	sys.Residuals(f)
	if bad, msg := firstInvalid(sys, f); bad {
		return Result{Status: StatusInfeasible, ResidualNorm: math.Inf(1), Message: msg}, nil
	}
	norm := infNorm(f)

	for iter := 1; iter <= n.MaxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return Result{Status: StatusInfeasible, Iterations: iter - 1, ResidualNorm: norm, Message: "canceled"}, err
		}
		if norm < n.Tolerance {
			logger.Debug("Newton converged.", "iterations", iter-1, "residual_norm", norm)
			return Result{
				Status:       StatusOptimal,
				Iterations:   iter - 1,
				ResidualNorm: norm,
				Message:      fmt.Sprintf("converged in %d iterations", iter-1),
			}, nil
		}

		n.jacobian(sys, x, f, jac)
		dx, ok := solveDense(jac, f)
		if !ok {
			return Result{
				Status:       StatusInfeasible,
				Iterations:   iter - 1,
				ResidualNorm: norm,
				Message:      fmt.Sprintf("singular Jacobian at iteration %d", iter),
			}, nil
		}

		// Halving line search on the residual norm. If no damping step
		// helps we still take the smallest one; the iteration cap is the
		// backstop against stalls.
		alpha := 1.0
		accepted := false
		for try := 0; try < 8; try++ {
			for j := range x {
				xTrial[j] = x[j] - alpha*dx[j]
			}
			sys.SetValues(xTrial)
			sys.Residuals(fTrial)
			if bad, _ := firstInvalid(sys, fTrial); !bad && infNorm(fTrial) < norm {
				accepted = true
				break
			}
			alpha /= 2
		}
		if !accepted {
			if bad, msg := firstInvalid(sys, fTrial); bad {
				return Result{
					Status:       StatusInfeasible,
					Iterations:   iter,
					ResidualNorm: norm,
					Message:      msg,
				}, nil
			}
		}

		copy(x, xTrial)
		copy(f, fTrial)
		norm = infNorm(f)
		logger.Debug("Newton iteration complete.",
			"iteration", iter, "residual_norm", norm, "step_scale", alpha,
			"largest_step_var", sys.VarPath(maxAbsIndex(dx)))
	}

	if norm < n.Tolerance {
		return Result{
			Status:       StatusOptimal,
			Iterations:   n.MaxIterations,
			ResidualNorm: norm,
			Message:      fmt.Sprintf("converged in %d iterations", n.MaxIterations),
		}, nil
	}
	return Result{
		Status:       StatusIterationLimit,
		Iterations:   n.MaxIterations,
		ResidualNorm: norm,
		Message:      fmt.Sprintf("residual norm %.3e above tolerance %.3e after %d iterations", norm, n.Tolerance, n.MaxIterations),
	}, nil
}

// jacobian fills jac with forward differences around x, where f holds the
// residuals at x. Variables are restored afterwards.
func (n *Newton) jacobian(sys *System, x, f []float64, jac [][]float64) {
	size := sys.Size()
	fPert := make([]float64, size)
	xPert := make([]float64, size)
	copy(xPert, x)

	for j := 0; j < size; j++ {
		step := 1e-7 * math.Max(math.Abs(x[j]), 1.0)
		xPert[j] = x[j] + step
		sys.SetValues(xPert)
		sys.Residuals(fPert)
		for i := 0; i < size; i++ {
			jac[i][j] = (fPert[i] - f[i]) / step
		}
		xPert[j] = x[j]
	}
	sys.SetValues(x)
}

// solveDense solves A·dx = b by Gaussian elimination with partial
// pivoting, overwriting its inputs. Returns false for a singular matrix.
func solveDense(a [][]float64, b []float64) ([]float64, bool) {
	size := len(b)
	// Work on copies: the caller reuses its buffers across iterations.
	m := make([][]float64, size)
	for i := range m {
		m[i] = make([]float64, size)
		copy(m[i], a[i])
	}
	rhs := make([]float64, size)
	copy(rhs, b)

	for col := 0; col < size; col++ {
		pivot := col
		for row := col + 1; row < size; row++ {
			if math.Abs(m[row][col]) > math.Abs(m[pivot][col]) {
				pivot = row
			}
		}
		if math.Abs(m[pivot][col]) < 1e-300 {
			return nil, false
		}
		m[col], m[pivot] = m[pivot], m[col]
		rhs[col], rhs[pivot] = rhs[pivot], rhs[col]

		for row := col + 1; row < size; row++ {
			factor := m[row][col] / m[col][col]
			if factor == 0 {
				continue
			}
			for k := col; k < size; k++ {
				m[row][k] -= factor * m[col][k]
			}
			rhs[row] -= factor * rhs[col]
		}
	}

	dx := make([]float64, size)
	for row := size - 1; row >= 0; row-- {
		sum := rhs[row]
		for k := row + 1; k < size; k++ {
			sum -= m[row][k] * dx[k]
		}
		dx[row] = sum / m[row][row]
	}
	return dx, true
}

// firstInvalid reports whether any residual is NaN or Inf, naming the
// offending constraint.
func firstInvalid(sys *System, f []float64) (bool, string) {
	for i, r := range f {
		if math.IsNaN(r) || math.IsInf(r, 0) {
			return true, fmt.Sprintf("constraint %q evaluated to %v; state is outside the property package's valid region", sys.ConstraintName(i), r)
		}
	}
	return false, ""
}

// maxAbsIndex returns the index of the largest-magnitude entry, for
// naming the variable that moved the most in an iteration.
func maxAbsIndex(v []float64) int {
	idx := 0
	for i, r := range v {
		if math.Abs(r) > math.Abs(v[idx]) {
			idx = i
		}
	}
	return idx
}

func infNorm(f []float64) float64 {
	max := 0.0
	for _, r := range f {
		if abs := math.Abs(r); abs > max {
			max = abs
		}
	}
	return max
}
