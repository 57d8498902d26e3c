package flowsheet

import (
	"errors"
	"fmt"
)

// Structural errors surface at build time, before any specification or
// solving is attempted.
var (
	// ErrDuplicateBlock marks two blocks sharing an instance name.
	ErrDuplicateBlock = errors.New("duplicate block name")
	// ErrMissingPort marks an arc endpoint that does not resolve to a port.
	ErrMissingPort = errors.New("port does not exist")
	// ErrPackageMismatch marks an arc whose endpoints carry different
	// property packages.
	ErrPackageMismatch = errors.New("property packages differ across connection")
	// ErrPortConnected marks a port referenced by more than one arc.
	ErrPortConnected = errors.New("port already connected")
	// ErrPortDirection marks an arc drawn against stream direction.
	ErrPortDirection = errors.New("arc must run outlet -> inlet")
)

// ErrUnknownPath marks a fix path that resolves to no variable.
var ErrUnknownPath = errors.New("unknown variable path")

// ErrAlreadyFixed marks a second fix applied to the same variable.
var ErrAlreadyFixed = errors.New("variable already fixed")

// SpecificationError reports a nonzero degree-of-freedom count. It is a
// caller error: solving is refused until exactly enough variables are
// fixed to square the system.
type SpecificationError struct {
	DegreesOfFreedom int
	FreeVars         int
	Constraints      int
}

func (e *SpecificationError) Error() string {
	verdict := "underspecified: fix more variables"
	if e.DegreesOfFreedom < 0 {
		verdict = "overspecified: unfix variables"
	}
	return fmt.Sprintf("flowsheet has %d degrees of freedom (%d free variables, %d constraints); %s",
		e.DegreesOfFreedom, e.FreeVars, e.Constraints, verdict)
}
