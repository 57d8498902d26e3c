package hcl_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/flowsheetgo/internal/hcl"
)

const sampleDefinition = `
flowsheet "compression_train" {
  property_package = "methane"

  unit "feed" "FEED" {}

  unit "compressor" "K-101" {}

  unit "product" "PROD" {
    property_package = "methane"
  }

  arc "s01" {
    source      = "FEED.outlet"
    destination = "K-101.inlet"
  }

  arc "s02" {
    source      = "K-101.outlet"
    destination = "PROD.inlet"
  }

  fix "FEED.outlet.flow_mol" {
    value = 60
  }

  fix "FEED.outlet.pressure" {
    value = 101325
  }

  fix "K-101.ratioP" {
    value = 2 * 8
  }

  fix "K-101.efficiency_isentropic" {
    value = 0.9
    unit  = "-"
  }
}
`

func writeDefinition(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "model.fs.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_TranslatesDefinition(t *testing.T) {
	path := writeDefinition(t, sampleDefinition)

	model, converter, err := hcl.NewLoader().Load(context.Background(), path)
	require.NoError(t, err)
	require.NotNil(t, converter)

	fs := model.Flowsheet
	assert.Equal(t, "compression_train", fs.Name)
	assert.Equal(t, "methane", fs.PropertyPackage)
	require.Len(t, fs.Units, 3)
	assert.Equal(t, "compressor", fs.Units[1].Type)
	assert.Equal(t, "K-101", fs.Units[1].Name)
	assert.Empty(t, fs.Units[1].PropertyPackage)
	assert.Equal(t, "methane", fs.Units[2].PropertyPackage)

	require.Len(t, fs.Arcs, 2)
	assert.Equal(t, "FEED.outlet", fs.Arcs[0].Source)
	assert.Equal(t, "K-101.inlet", fs.Arcs[0].Destination)

	// Fix expressions may use literal arithmetic; order is preserved.
	require.Len(t, fs.Fixes, 4)
	assert.Equal(t, "K-101.ratioP", fs.Fixes[2].Path)
	assert.Equal(t, 16.0, fs.Fixes[2].Value)
	assert.Empty(t, fs.Fixes[2].Unit)
	assert.Equal(t, "-", fs.Fixes[3].Unit)
}

func TestLoad_CompositionBlock(t *testing.T) {
	path := writeDefinition(t, `
flowsheet "blend" {
  property_package = "meoh-etoh"

  composition {
    mole_frac_methanol = 0.25
  }

  unit "feed" "FEED" {}
}
`)

	model, _, err := hcl.NewLoader().Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 0.25, model.Flowsheet.PackageParams["mole_frac_methanol"])
}

func TestLoad_Errors(t *testing.T) {
	t.Run("no files", func(t *testing.T) {
		_, _, err := hcl.NewLoader().Load(context.Background(), t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no .fs.hcl files found")
	})

	t.Run("two flowsheet blocks", func(t *testing.T) {
		path := writeDefinition(t, `
flowsheet "a" {
  property_package = "water"
}
flowsheet "b" {
  property_package = "water"
}
`)
		_, _, err := hcl.NewLoader().Load(context.Background(), path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exactly one flowsheet")
	})

	t.Run("fix value must be a number", func(t *testing.T) {
		path := writeDefinition(t, `
flowsheet "a" {
  property_package = "water"
  fix "X.deltaP" {
    value = "lots"
  }
}
`)
		_, _, err := hcl.NewLoader().Load(context.Background(), path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be a number")
	})
}

func TestDecodeParams(t *testing.T) {
	type params struct {
		Inlets   []string `fs:"inlets"`
		Scale    float64  `fs:"scale"`
		Name     string   `fs:"name"`
		Verbose  bool     `fs:"verbose"`
		Untagged int
	}

	ctx := context.Background()
	conv := &hcl.Converter{}

	t.Run("populates tagged fields", func(t *testing.T) {
		var p params
		err := conv.DecodeParams(ctx, &p, map[string]cty.Value{
			"inlets":  cty.ListVal([]cty.Value{cty.StringVal("a"), cty.StringVal("b")}),
			"scale":   cty.NumberFloatVal(1.5),
			"name":    cty.StringVal("mix"),
			"verbose": cty.True,
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, p.Inlets)
		assert.Equal(t, 1.5, p.Scale)
		assert.Equal(t, "mix", p.Name)
		assert.True(t, p.Verbose)
	})

	t.Run("rejects unknown attribute", func(t *testing.T) {
		var p params
		err := conv.DecodeParams(ctx, &p, map[string]cty.Value{
			"inletz": cty.ListVal([]cty.Value{cty.StringVal("a")}),
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported parameter")
	})
}
