package heater_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/flowsheetgo/internal/flowsheet"
	"github.com/vk/flowsheetgo/internal/initializer"
	"github.com/vk/flowsheetgo/internal/props"
	"github.com/vk/flowsheetgo/internal/solver"
	"github.com/vk/flowsheetgo/modules/feed"
	"github.com/vk/flowsheetgo/modules/heater"
	"github.com/vk/flowsheetgo/modules/product"
)

func buildLine(t *testing.T, pkg props.Package) *flowsheet.Flowsheet {
	t.Helper()
	fs := flowsheet.New("line")
	require.NoError(t, fs.AddBlock(feed.New("FEED", pkg)))
	require.NoError(t, fs.AddBlock(heater.New("HTR", pkg)))
	require.NoError(t, fs.AddBlock(product.New("PROD", pkg)))
	require.NoError(t, fs.Connect("s01", "FEED.outlet", "HTR.inlet"))
	require.NoError(t, fs.Connect("s02", "HTR.outlet", "PROD.inlet"))
	return fs
}

func solveLine(t *testing.T, fs *flowsheet.Flowsheet) solver.Result {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, fs.CheckSpecification())
	require.NoError(t, initializer.Initialize(ctx, fs))
	sys, err := solver.NewSystem(fs)
	require.NoError(t, err)
	result, err := solver.NewNewton().Solve(ctx, sys)
	require.NoError(t, err)
	return result
}

func value(t *testing.T, fs *flowsheet.Flowsheet, path string) float64 {
	t.Helper()
	v, err := fs.FindVar(path)
	require.NoError(t, err)
	return v.Value()
}

func TestHeater_FixedDuty(t *testing.T) {
	water, err := props.ByName("water", nil)
	require.NoError(t, err)
	fs := buildLine(t, water)

	require.NoError(t, fs.Fix("FEED.outlet.flow_mol", 100))
	require.NoError(t, fs.Fix("FEED.outlet.pressure", 101325))
	require.NoError(t, fs.Fix("FEED.outlet.temperature", 298.15))
	require.NoError(t, fs.Fix("HTR.heat_duty", 150760))
	require.NoError(t, fs.Fix("HTR.deltaP", 0))

	result := solveLine(t, fs)
	require.Equal(t, solver.StatusOptimal, result.Status, result.Message)

	// Q = F*cp*dT, so 150760 W over 100 mol/s of water is a 20 K rise.
	b, ok := fs.Block("HTR")
	require.True(t, ok)
	outPort, err := b.Port("outlet")
	require.NoError(t, err)
	tOut, err := outPort.Temperature()
	require.NoError(t, err)
	assert.InDelta(t, 318.15, tOut, 1e-6)
	assert.InDelta(t, 101325, value(t, fs, "HTR.outlet.pressure"), 1e-6)
}

func TestCooler_FixedOutletTemperature(t *testing.T) {
	water, err := props.ByName("water", nil)
	require.NoError(t, err)
	fs := buildLine(t, water)

	require.NoError(t, fs.Fix("FEED.outlet.flow_mol", 100))
	require.NoError(t, fs.Fix("FEED.outlet.pressure", 101325))
	require.NoError(t, fs.Fix("FEED.outlet.temperature", 308.15))

	// Specifying the outlet state instead of the duty turns the duty into
	// the unknown. The outlet pressure must be pinned before the
	// temperature fix can be translated to an enthalpy.
	require.NoError(t, fs.Fix("HTR.outlet.pressure", 101325))
	require.NoError(t, fs.Fix("HTR.outlet.temperature", 288.15))

	result := solveLine(t, fs)
	require.Equal(t, solver.StatusOptimal, result.Status, result.Message)

	assert.InDelta(t, -150760, value(t, fs, "HTR.heat_duty"), 1e-3)
	assert.InDelta(t, 0, value(t, fs, "HTR.deltaP"), 1e-6)
}

func TestHeater_TemperatureFixRequiresPressure(t *testing.T) {
	water, err := props.ByName("water", nil)
	require.NoError(t, err)
	fs := buildLine(t, water)

	err = fs.Fix("HTR.outlet.temperature", 288.15)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pressure")
}
