package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/flowsheetgo/internal/ctxlog"
	"github.com/vk/flowsheetgo/internal/flowsheet"
	"github.com/vk/flowsheetgo/internal/props"
)

// buildFlowsheet turns the loaded definition model into a live flowsheet:
// property package resolution, unit construction through the registry,
// arc expansion, then the fixes in file order. Fix order matters for
// temperature fixes, which need the port's pressure pinned first.
func (a *App) buildFlowsheet(ctx context.Context) (*flowsheet.Flowsheet, error) {
	logger := ctxlog.FromContext(ctx)
	def := a.config.Flowsheet

	pkg, err := props.ByName(def.PropertyPackage, def.PackageParams)
	if err != nil {
		return nil, fmt.Errorf("flowsheet %q: %w", def.Name, err)
	}
	logger.Debug("Property package resolved.", "package", pkg.Name())

	fs := flowsheet.New(def.Name)
	for _, unit := range def.Units {
		builder, ok := a.registry.Builder(unit.Type)
		if !ok {
			return nil, fmt.Errorf("unit %q: unknown unit type %q (available: %v)",
				unit.Name, unit.Type, a.registry.Types())
		}
		unitPkg := pkg
		if unit.PropertyPackage != "" {
			unitPkg, err = props.ByName(unit.PropertyPackage, def.PackageParams)
			if err != nil {
				return nil, fmt.Errorf("unit %q: %w", unit.Name, err)
			}
		}
		params := builder.NewParams()
		if err := a.converter.DecodeParams(ctx, params, unit.Parameters); err != nil {
			return nil, fmt.Errorf("unit %q: %w", unit.Name, err)
		}
		block, err := builder.Build(unit.Name, unitPkg, params)
		if err != nil {
			return nil, err
		}
		if err := fs.AddBlock(block); err != nil {
			return nil, err
		}
	}
	logger.Debug("Unit blocks built.", "count", len(def.Units))

	for _, arc := range def.Arcs {
		if err := fs.Connect(arc.Name, arc.Source, arc.Destination); err != nil {
			return nil, err
		}
	}
	logger.Debug("Arcs connected.", "count", len(def.Arcs))

	for _, fix := range def.Fixes {
		if fix.Unit != "" {
			if err := checkFixUnit(fs, fix.Path, fix.Unit); err != nil {
				return nil, err
			}
		}
		if err := fs.Fix(fix.Path, fix.Value); err != nil {
			return nil, err
		}
	}
	logger.Debug("Fixes applied.", "count", len(def.Fixes))

	return fs, nil
}

// checkFixUnit validates a fix's declared unit against the target
// variable. Temperature pseudo-fixes are always kelvin.
func checkFixUnit(fs *flowsheet.Flowsheet, path, unit string) error {
	if strings.HasSuffix(path, "."+flowsheet.VarTemperature) {
		if unit != "K" {
			return fmt.Errorf("fix %q: declared unit %q, temperature fixes are in K", path, unit)
		}
		return nil
	}
	v, err := fs.FindVar(path)
	if err != nil {
		return err
	}
	if v.Unit != unit {
		return fmt.Errorf("fix %q: declared unit %q does not match variable unit %q", path, unit, v.Unit)
	}
	return nil
}
