// Package config defines the format-agnostic flowsheet definition model.
// Loaders (HCL today) translate their native syntax into this model; the
// app builds the live flowsheet from it without knowing the source format.
package config

import "github.com/zclconf/go-cty/cty"

// Model is the unified representation of one loaded definition set.
type Model struct {
	Flowsheet *Flowsheet
}

// Flowsheet is the definition of a single flowsheet run.
type Flowsheet struct {
	Name string

	// PropertyPackage names the default property package for all units.
	PropertyPackage string
	// PackageParams carries package-level settings such as blend
	// composition.
	PackageParams map[string]float64

	Units []*Unit
	Arcs  []*Arc
	Fixes []*Fix
}

// Unit is the definition of one unit block instance.
type Unit struct {
	// Type is the registered unit type label, e.g. "compressor".
	Type string
	// Name is the flowsheet-unique instance name, e.g. "K-101".
	Name string
	// PropertyPackage optionally overrides the flowsheet-level package
	// for this unit's ports; empty means inherit.
	PropertyPackage string
	// Parameters holds the evaluated attributes of the parameters block.
	Parameters map[string]cty.Value
}

// Arc is the definition of a directed connection between two ports.
type Arc struct {
	Name        string
	Source      string // "block.port"
	Destination string // "block.port"
}

// Fix pins one variable to a value before solving.
type Fix struct {
	// Path is the dotted variable address, e.g. "K-101.deltaP" or
	// "FEED.outlet.temperature".
	Path  string
	Value float64
	// Unit optionally declares the unit of Value; empty means unchecked.
	Unit string
}
