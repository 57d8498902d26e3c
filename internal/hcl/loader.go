// Package hcl implements the HCL flowsheet-definition loader: it parses
// .fs.hcl files, decodes them against the schema package, and translates
// the result into the format-agnostic config model.
package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/vk/flowsheetgo/internal/config"
	"github.com/vk/flowsheetgo/internal/ctxlog"
	"github.com/vk/flowsheetgo/internal/fsutil"
	"github.com/vk/flowsheetgo/internal/schema"
)

// Extension is the file suffix searched for when a definition path is a
// directory.
const Extension = ".fs.hcl"

// Loader is the HCL implementation of config.Loader.
type Loader struct{}

// NewLoader creates an HCL loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads every definition file under the given paths and translates
// the single flowsheet they define into the config model.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, config.Converter, error) {
	logger := ctxlog.FromContext(ctx)

	var files []string
	for _, path := range paths {
		found, err := fsutil.FindFlowsheetFiles(path, Extension)
		if err != nil {
			return nil, nil, err
		}
		files = append(files, found...)
	}
	if len(files) == 0 {
		return nil, nil, fmt.Errorf("no %s files found under %v", Extension, paths)
	}
	logger.Debug("Found flowsheet definition files.", "files", files)

	parser := hclparse.NewParser()
	var sheets []*schema.Flowsheet
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, nil, fmt.Errorf("failed to parse %s: %w", file, diags)
		}

		var decoded schema.File
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &decoded); diags.HasErrors() {
			return nil, nil, fmt.Errorf("failed to decode %s: %w", file, diags)
		}
		sheets = append(sheets, decoded.Flowsheets...)
	}

	if len(sheets) != 1 {
		return nil, nil, fmt.Errorf("expected exactly one flowsheet block, found %d", len(sheets))
	}

	fsModel, err := l.translateFlowsheet(ctx, sheets[0])
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("Flowsheet definition translated into unified model.",
		"flowsheet", fsModel.Name, "units", len(fsModel.Units), "arcs", len(fsModel.Arcs), "fixes", len(fsModel.Fixes))

	return &config.Model{Flowsheet: fsModel}, &Converter{}, nil
}

// translateFlowsheet converts the HCL-specific schema into the agnostic model.
func (l *Loader) translateFlowsheet(ctx context.Context, s *schema.Flowsheet) (*config.Flowsheet, error) {
	out := &config.Flowsheet{
		Name:            s.Name,
		PropertyPackage: s.PropertyPackage,
	}

	if s.Composition != nil {
		params, err := evalNumberAttributes(s.Composition.Body)
		if err != nil {
			return nil, fmt.Errorf("flowsheet %q composition: %w", s.Name, err)
		}
		out.PackageParams = params
	}

	for _, u := range s.Units {
		unit := &config.Unit{Type: u.Type, Name: u.Name}
		if u.PropertyPackage != nil {
			unit.PropertyPackage = *u.PropertyPackage
		}
		if u.Parameters != nil {
			values, err := evalAttributes(u.Parameters.Body)
			if err != nil {
				return nil, fmt.Errorf("unit %q parameters: %w", u.Name, err)
			}
			unit.Parameters = values
		}
		out.Units = append(out.Units, unit)
	}

	for _, a := range s.Arcs {
		out.Arcs = append(out.Arcs, &config.Arc{
			Name:        a.Name,
			Source:      a.Source,
			Destination: a.Destination,
		})
	}

	for _, f := range s.Fixes {
		val, diags := f.Value.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("fix %q: %w", f.Path, diags)
		}
		num, err := convert.Convert(val, cty.Number)
		if err != nil {
			return nil, fmt.Errorf("fix %q: value must be a number: %w", f.Path, err)
		}
		fval, _ := num.AsBigFloat().Float64()
		fix := &config.Fix{Path: f.Path, Value: fval}
		if f.Unit != nil {
			fix.Unit = *f.Unit
		}
		out.Fixes = append(out.Fixes, fix)
	}

	return out, nil
}

// evalAttributes evaluates every attribute of a body with a nil evaluation
// context: definition files carry literals and arithmetic, not references.
func evalAttributes(body hcl.Body) (map[string]cty.Value, error) {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}
	values := make(map[string]cty.Value, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("attribute %q: %w", name, diags)
		}
		values[name] = val
	}
	return values, nil
}

// evalNumberAttributes evaluates a body whose attributes must all be numbers.
func evalNumberAttributes(body hcl.Body) (map[string]float64, error) {
	values, err := evalAttributes(body)
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(values))
	for name, val := range values {
		num, err := convert.Convert(val, cty.Number)
		if err != nil {
			return nil, fmt.Errorf("attribute %q must be a number: %w", name, err)
		}
		f, _ := num.AsBigFloat().Float64()
		out[name] = f
	}
	return out, nil
}
