// Package flowsheet holds the model containers of the workflow: variables,
// ports, unit blocks, arcs, and the flowsheet that owns the global
// variable and constraint sets. It implements arc expansion into equality
// constraints and degree-of-freedom accounting; the physics lives in the
// unit modules and property packages.
package flowsheet

import (
	"fmt"
	"strings"
)

// Arc is a directed connection equating the state of an outlet port with
// the state of a downstream inlet port.
type Arc struct {
	Name        string
	Source      *Port
	Destination *Port
}

// Flowsheet owns all blocks and connections of one model instance, plus
// the flattened variable and constraint sets the solver operates on.
type Flowsheet struct {
	name string

	blocks map[string]Block
	order  []string // insertion order, for deterministic walks
	arcs   []*Arc

	vars []*Var
	cons []Constraint
}

// New creates an empty flowsheet.
func New(name string) *Flowsheet {
	return &Flowsheet{
		name:   name,
		blocks: make(map[string]Block),
	}
}

// Name returns the flowsheet name.
func (fs *Flowsheet) Name() string { return fs.name }

// AddBlock registers a unit block, absorbing its port and design variables
// and its equations into the global sets.
func (fs *Flowsheet) AddBlock(b Block) error {
	if _, exists := fs.blocks[b.Name()]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateBlock, b.Name())
	}
	fs.blocks[b.Name()] = b
	fs.order = append(fs.order, b.Name())

	for _, p := range b.Ports() {
		fs.vars = append(fs.vars, p.StateVars()...)
	}
	fs.vars = append(fs.vars, b.DesignVars()...)
	fs.cons = append(fs.cons, b.Equations()...)
	return nil
}

// Block resolves a block by instance name.
func (fs *Flowsheet) Block(name string) (Block, bool) {
	b, ok := fs.blocks[name]
	return b, ok
}

// Blocks returns all blocks in insertion order.
func (fs *Flowsheet) Blocks() []Block {
	out := make([]Block, 0, len(fs.order))
	for _, name := range fs.order {
		out = append(out, fs.blocks[name])
	}
	return out
}

// Arcs returns all connections in insertion order.
func (fs *Flowsheet) Arcs() []*Arc { return fs.arcs }

// Connect draws an arc between two "block.port" references and expands it
// into one equality constraint per state variable. Structural problems
// (missing port, wrong direction, double connection, mismatched property
// packages) are returned immediately.
func (fs *Flowsheet) Connect(name, sourceRef, destRef string) error {
	src, err := fs.resolvePort(sourceRef)
	if err != nil {
		return fmt.Errorf("arc %q source: %w", name, err)
	}
	dst, err := fs.resolvePort(destRef)
	if err != nil {
		return fmt.Errorf("arc %q destination: %w", name, err)
	}

	if src.Kind != Outlet || dst.Kind != Inlet {
		return fmt.Errorf("arc %q: %w (%s is an %s, %s is an %s)",
			name, ErrPortDirection, sourceRef, src.Kind, destRef, dst.Kind)
	}
	if src.connected || dst.connected {
		busy := sourceRef
		if dst.connected {
			busy = destRef
		}
		return fmt.Errorf("arc %q: %w: %s", name, ErrPortConnected, busy)
	}
	if src.Pkg.Name() != dst.Pkg.Name() {
		return fmt.Errorf("arc %q: %w (%s carries %q, %s carries %q)",
			name, ErrPackageMismatch, sourceRef, src.Pkg.Name(), destRef, dst.Pkg.Name())
	}

	src.connected = true
	dst.connected = true

	arc := &Arc{Name: name, Source: src, Destination: dst}
	fs.arcs = append(fs.arcs, arc)

	pairs := []struct {
		label    string
		from, to *Var
	}{
		{VarFlowMol, src.FlowMol, dst.FlowMol},
		{VarEnthMol, src.EnthMol, dst.EnthMol},
		{VarPressure, src.Pressure, dst.Pressure},
	}
	for _, pair := range pairs {
		from, to := pair.from, pair.to
		fs.cons = append(fs.cons, Constraint{
			Name:     fmt.Sprintf("%s.%s_equality", name, pair.label),
			Residual: func() float64 { return from.Value() - to.Value() },
		})
	}
	return nil
}

// resolvePort turns a "block.port" reference into a port.
func (fs *Flowsheet) resolvePort(ref string) (*Port, error) {
	blockName, portName, ok := strings.Cut(ref, ".")
	if !ok {
		return nil, fmt.Errorf("%w: reference %q is not of the form block.port", ErrMissingPort, ref)
	}
	b, found := fs.blocks[blockName]
	if !found {
		return nil, fmt.Errorf("%w: no block %q", ErrMissingPort, blockName)
	}
	p, err := b.Port(portName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingPort, err)
	}
	return p, nil
}

// Vars returns every variable in the flowsheet.
func (fs *Flowsheet) Vars() []*Var { return fs.vars }

// FreeVars returns the variables not pinned by a fix.
func (fs *Flowsheet) FreeVars() []*Var {
	free := make([]*Var, 0, len(fs.vars))
	for _, v := range fs.vars {
		if !v.Fixed() {
			free = append(free, v)
		}
	}
	return free
}

// Constraints returns every constraint in the flowsheet.
func (fs *Flowsheet) Constraints() []Constraint { return fs.cons }

// DegreesOfFreedom is the count of free variables minus constraints. The
// system is square, and solvable, only at zero.
func (fs *Flowsheet) DegreesOfFreedom() int {
	return len(fs.FreeVars()) - len(fs.cons)
}

// CheckSpecification returns a SpecificationError unless the flowsheet is
// at exactly zero degrees of freedom.
func (fs *Flowsheet) CheckSpecification() error {
	dof := fs.DegreesOfFreedom()
	if dof == 0 {
		return nil
	}
	return &SpecificationError{
		DegreesOfFreedom: dof,
		FreeVars:         len(fs.FreeVars()),
		Constraints:      len(fs.cons),
	}
}

// Fix pins the variable at the given dotted path. A fix on a port's
// "temperature" pseudo-variable is converted to an enth_mol fix through
// the port's property package; this requires the port's pressure to be
// fixed first, mirroring how the original models call htpx(T, P).
func (fs *Flowsheet) Fix(path string, value float64) error {
	if block, port, ok := splitPortPath(path); ok && strings.HasSuffix(path, "."+VarTemperature) {
		p, err := fs.resolvePort(block + "." + port)
		if err != nil {
			return fmt.Errorf("fix %q: %w", path, err)
		}
		if !p.Pressure.Fixed() {
			return fmt.Errorf("fix %q: pressure on %s.%s must be fixed before a temperature fix", path, block, port)
		}
		h, err := p.Pkg.EnthalpyTP(value, p.Pressure.Value())
		if err != nil {
			return fmt.Errorf("fix %q: %w", path, err)
		}
		if p.EnthMol.Fixed() {
			return fmt.Errorf("fix %q: %w: %s", path, ErrAlreadyFixed, p.EnthMol.Path)
		}
		p.EnthMol.Fix(h)
		return nil
	}

	v, err := fs.FindVar(path)
	if err != nil {
		return err
	}
	if v.Fixed() {
		return fmt.Errorf("fix %q: %w", path, ErrAlreadyFixed)
	}
	v.Fix(value)
	return nil
}

// Unfix releases a previously fixed variable.
func (fs *Flowsheet) Unfix(path string) error {
	v, err := fs.FindVar(path)
	if err != nil {
		return err
	}
	v.Unfix()
	return nil
}

// FindVar resolves a dotted variable path: "block.port.var" for state
// variables, "block.var" for design variables.
func (fs *Flowsheet) FindVar(path string) (*Var, error) {
	parts := strings.Split(path, ".")
	switch len(parts) {
	case 3:
		p, err := fs.resolvePort(parts[0] + "." + parts[1])
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownPath, path)
		}
		v, err := p.Var(parts[2])
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownPath, path)
		}
		return v, nil
	case 2:
		b, ok := fs.blocks[parts[0]]
		if !ok {
			return nil, fmt.Errorf("%w: no block %q", ErrUnknownPath, parts[0])
		}
		for _, v := range b.DesignVars() {
			if v.Path == path {
				return v, nil
			}
		}
		return nil, fmt.Errorf("%w: block %q has no design variable %q", ErrUnknownPath, parts[0], parts[1])
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPath, path)
}

// splitPortPath splits "block.port.var" into its block and port parts.
func splitPortPath(path string) (block, port string, ok bool) {
	parts := strings.Split(path, ".")
	if len(parts) != 3 {
		return "", "", false
	}
	return parts[0], parts[1], true
}
