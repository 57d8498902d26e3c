// Package schema holds the HCL block structures of flowsheet definition
// files. The hcl package translates these into the format-agnostic config
// model.
package schema

import "github.com/hashicorp/hcl/v2"

// Parameters represents the content of a unit's 'parameters' block. The
// attribute set varies per unit type, so it stays a raw body until the
// unit's typed parameter struct is known.
type Parameters struct {
	Body hcl.Body `hcl:",remain"`
}

// Composition represents the 'composition' block carrying property-package
// settings such as mole fractions.
type Composition struct {
	Body hcl.Body `hcl:",remain"`
}

// Unit represents a `unit` block: a unit-operation instance. The optional
// property_package attribute overrides the flowsheet-level package for
// this unit's ports, for flowsheets coupling dissimilar streams.
type Unit struct {
	Type            string      `hcl:"unit_type,label"`
	Name            string      `hcl:"instance_name,label"`
	PropertyPackage *string     `hcl:"property_package,optional"`
	Parameters      *Parameters `hcl:"parameters,block"`
}

// Arc represents an `arc` block: a directed connection between an outlet
// port and an inlet port, each referenced as "block.port".
type Arc struct {
	Name        string `hcl:"name,label"`
	Source      string `hcl:"source"`
	Destination string `hcl:"destination"`
}

// Fix represents a `fix` block pinning one variable before solving. The
// optional unit attribute declares the unit the value is written in and
// is validated against the target variable.
type Fix struct {
	Path  string         `hcl:"path,label"`
	Value hcl.Expression `hcl:"value"`
	Unit  *string        `hcl:"unit,optional"`
}

// Flowsheet represents a top-level `flowsheet` block.
type Flowsheet struct {
	Name            string       `hcl:"name,label"`
	PropertyPackage string       `hcl:"property_package"`
	Composition     *Composition `hcl:"composition,block"`
	Units           []*Unit      `hcl:"unit,block"`
	Arcs            []*Arc       `hcl:"arc,block"`
	Fixes           []*Fix       `hcl:"fix,block"`
}

// File represents the top-level structure of a flowsheet definition file.
type File struct {
	Flowsheets []*Flowsheet `hcl:"flowsheet,block"`
	Body       hcl.Body     `hcl:",remain"`
}
