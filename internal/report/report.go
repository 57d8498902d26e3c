// Package report builds and renders the stream table of a solved
// flowsheet: one column per arc, one row per stream property, each row
// tagged with its display unit, followed by the performance quantities of
// every block that exposes them.
package report

import (
	"fmt"

	"github.com/vk/flowsheetgo/internal/flowsheet"
)

// Stream property rows, in display order.
var properties = []struct {
	name string
	unit string
}{
	{"flow_mol", "mol/s"},
	{"temperature", "K"},
	{"pressure", "Pa"},
	{"enth_mol", "J/mol"},
}

// Row is one property across all streams. Values aligns with
// Table.Streams.
type Row struct {
	Property string
	Unit     string
	Values   []float64
}

// BlockPerformance carries one block's reported quantities.
type BlockPerformance struct {
	Block      string
	Type       string
	Quantities []flowsheet.Quantity
}

// Table is the assembled report, ready for rendering.
type Table struct {
	Flowsheet string
	Streams   []string
	Rows      []Row
	Blocks    []BlockPerformance
}

// Build assembles the report from a solved flowsheet. Stream values are
// read from each arc's source port; after a converged solve the
// destination holds the same state. Temperatures are derived through the
// stream's property package, so a state outside the package's valid
// region fails the build.
func Build(fs *flowsheet.Flowsheet) (*Table, error) {
	arcs := fs.Arcs()
	table := &Table{Flowsheet: fs.Name()}

	for _, arc := range arcs {
		table.Streams = append(table.Streams, arc.Name)
	}

	for _, prop := range properties {
		row := Row{Property: prop.name, Unit: prop.unit, Values: make([]float64, 0, len(arcs))}
		for _, arc := range arcs {
			var value float64
			switch prop.name {
			case flowsheet.VarFlowMol:
				value = arc.Source.FlowMol.Value()
			case flowsheet.VarTemperature:
				t, err := arc.Source.Temperature()
				if err != nil {
					return nil, fmt.Errorf("report: stream %q: %w", arc.Name, err)
				}
				value = t
			case flowsheet.VarPressure:
				value = arc.Source.Pressure.Value()
			case flowsheet.VarEnthMol:
				value = arc.Source.EnthMol.Value()
			}
			row.Values = append(row.Values, value)
		}
		table.Rows = append(table.Rows, row)
	}

	for _, b := range fs.Blocks() {
		performer, ok := b.(flowsheet.Performer)
		if !ok {
			continue
		}
		quantities := performer.Performance()
		if len(quantities) == 0 {
			continue
		}
		table.Blocks = append(table.Blocks, BlockPerformance{
			Block:      b.Name(),
			Type:       b.Type(),
			Quantities: quantities,
		})
	}
	return table, nil
}
