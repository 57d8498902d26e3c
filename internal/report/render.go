package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headerStyle = lipgloss.NewStyle().Bold(true)
	labelStyle  = lipgloss.NewStyle().Faint(true)
)

// RenderText writes the table in a fixed-width terminal layout.
func RenderText(w io.Writer, t *Table) error {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Stream Table: "+t.Flowsheet) + "\n\n")

	labels := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		labels[i] = fmt.Sprintf("%s [%s]", row.Property, row.Unit)
	}
	labelWidth := 0
	for _, label := range labels {
		if len(label) > labelWidth {
			labelWidth = len(label)
		}
	}

	cells := make([][]string, len(t.Rows))
	widths := make([]int, len(t.Streams))
	for j, stream := range t.Streams {
		widths[j] = len(stream)
	}
	for i, row := range t.Rows {
		cells[i] = make([]string, len(row.Values))
		for j, value := range row.Values {
			cells[i][j] = formatValue(value)
			if len(cells[i][j]) > widths[j] {
				widths[j] = len(cells[i][j])
			}
		}
	}

	b.WriteString(strings.Repeat(" ", labelWidth))
	for j, stream := range t.Streams {
		b.WriteString("  " + headerStyle.Render(pad(stream, widths[j])))
	}
	b.WriteString("\n")
	for i, row := range cells {
		b.WriteString(labelStyle.Render(pad(labels[i], labelWidth)))
		for j, cell := range row {
			b.WriteString("  " + pad(cell, widths[j]))
		}
		b.WriteString("\n")
	}

	if len(t.Blocks) > 0 {
		b.WriteString("\n" + titleStyle.Render("Unit Performance") + "\n")
		for _, block := range t.Blocks {
			b.WriteString(fmt.Sprintf("\n%s (%s)\n", headerStyle.Render(block.Block), block.Type))
			for _, q := range block.Quantities {
				b.WriteString(fmt.Sprintf("  %s: %s %s\n", labelStyle.Render(q.Name), formatValue(q.Value), q.Unit))
			}
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func formatValue(v float64) string {
	return fmt.Sprintf("%.6g", v)
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

type yamlQuantity struct {
	Name  string  `yaml:"name"`
	Value float64 `yaml:"value"`
	Unit  string  `yaml:"unit"`
}

type yamlBlock struct {
	Block       string         `yaml:"block"`
	Type        string         `yaml:"type"`
	Performance []yamlQuantity `yaml:"performance"`
}

type yamlStream struct {
	Name   string         `yaml:"name"`
	Values []yamlQuantity `yaml:"state"`
}

type yamlDocument struct {
	Flowsheet string       `yaml:"flowsheet"`
	Streams   []yamlStream `yaml:"streams"`
	Blocks    []yamlBlock  `yaml:"units,omitempty"`
}

// RenderYAML writes the table as a YAML document, stream-major for easy
// machine consumption.
func RenderYAML(w io.Writer, t *Table) error {
	doc := yamlDocument{Flowsheet: t.Flowsheet}
	for j, name := range t.Streams {
		stream := yamlStream{Name: name}
		for _, row := range t.Rows {
			stream.Values = append(stream.Values, yamlQuantity{
				Name:  row.Property,
				Value: row.Values[j],
				Unit:  row.Unit,
			})
		}
		doc.Streams = append(doc.Streams, stream)
	}
	for _, block := range t.Blocks {
		yb := yamlBlock{Block: block.Block, Type: block.Type}
		for _, q := range block.Quantities {
			yb.Performance = append(yb.Performance, yamlQuantity{Name: q.Name, Value: q.Value, Unit: q.Unit})
		}
		doc.Blocks = append(doc.Blocks, yb)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}
