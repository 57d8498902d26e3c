package pressurechanger_test

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
	"github.com/vk/flowsheetgo/modules/pressurechanger"
	"github.com/vk/flowsheetgo/modules/product"
)

// buildLine assembles FEED -> unit -> PROD around the given pressure
// changer and connects the arcs.
func buildLine(t *testing.T, pkg props.Package, unit *pressurechanger.Block) *flowsheet.Flowsheet {
	t.Helper()
	fs := flowsheet.New("line")
	require.NoError(t, fs.AddBlock(feed.New("FEED", pkg)))
	require.NoError(t, fs.AddBlock(unit))
	require.NoError(t, fs.AddBlock(product.New("PROD", pkg)))
	require.NoError(t, fs.Connect("s01", "FEED.outlet", unit.Name()+".inlet"))
	require.NoError(t, fs.Connect("s02", unit.Name()+".outlet", "PROD.inlet"))
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

func TestPump_FixedPressureRise(t *testing.T) {
	water, err := props.ByName("water", nil)
	require.NoError(t, err)

	pump := pressurechanger.New("PUMP", "pump", pressurechanger.ModeCompressor, water)
	fs := buildLine(t, water, pump)

	require.NoError(t, fs.Fix("FEED.outlet.flow_mol", 100))
	require.NoError(t, fs.Fix("FEED.outlet.pressure", 101325))
	require.NoError(t, fs.Fix("FEED.outlet.temperature", 308.15))
	require.NoError(t, fs.Fix("PUMP.deltaP", 506625))
	require.NoError(t, fs.Fix("PUMP.efficiency_isentropic", 0.85))

	result := solveLine(t, fs)
	require.Equal(t, solver.StatusOptimal, result.Status, result.Message)

	assert.InDelta(t, 607950, value(t, fs, "PUMP.outlet.pressure"), 1e-3)
	assert.InDelta(t, 607950, value(t, fs, "PROD.inlet.pressure"), 1e-3)
	assert.InDelta(t, 100, value(t, fs, "PROD.inlet.flow_mol"), 1e-6)

	// The actual enthalpy rise exceeds the ideal one by the efficiency.
	hIn := value(t, fs, "PUMP.inlet.enth_mol")
	hOut := value(t, fs, "PUMP.outlet.enth_mol")
	hIsen := value(t, fs, "PUMP.enth_isentropic")
	assert.Greater(t, hOut, hIsen)
	assert.InDelta(t, (hIsen-hIn)/0.85, hOut-hIn, 1e-6)

	work := value(t, fs, "PUMP.work_mechanical")
	assert.InDelta(t, 100*(hOut-hIn), work, 1e-6)
	assert.Greater(t, work, 0.0)
}

func TestCompressor_FixedPressureRatio(t *testing.T) {
	methane, err := props.ByName("methane", nil)
	require.NoError(t, err)

	comp := pressurechanger.New("K-101", "compressor", pressurechanger.ModeCompressor, methane)
	fs := buildLine(t, methane, comp)

	require.NoError(t, fs.Fix("FEED.outlet.flow_mol", 60))
	require.NoError(t, fs.Fix("FEED.outlet.pressure", 101325))
	require.NoError(t, fs.Fix("FEED.outlet.temperature", 298.15))
	require.NoError(t, fs.Fix("K-101.ratioP", 16))
	require.NoError(t, fs.Fix("K-101.efficiency_isentropic", 0.9))

	result := solveLine(t, fs)
	require.Equal(t, solver.StatusOptimal, result.Status, result.Message)

	assert.InDelta(t, 16*101325, value(t, fs, "K-101.outlet.pressure"), 1e-2)

	// Compression heats the gas.
	inPort, err := mustBlockPort(fs, "K-101", "inlet")
	require.NoError(t, err)
	outPort, err := mustBlockPort(fs, "K-101", "outlet")
	require.NoError(t, err)
	tIn, err := inPort.Temperature()
	require.NoError(t, err)
	tOut, err := outPort.Temperature()
	require.NoError(t, err)
	assert.Greater(t, tOut, tIn)
	assert.Greater(t, value(t, fs, "K-101.work_mechanical"), 0.0)
}

func TestTurbine_ExpansionProducesWork(t *testing.T) {
	methane, err := props.ByName("methane", nil)
	require.NoError(t, err)

	turb := pressurechanger.New("T-101", "turbine", pressurechanger.ModeTurbine, methane)
	fs := buildLine(t, methane, turb)

	require.NoError(t, fs.Fix("FEED.outlet.flow_mol", 40))
	require.NoError(t, fs.Fix("FEED.outlet.pressure", 1.6e6))
	require.NoError(t, fs.Fix("FEED.outlet.temperature", 600))
	require.NoError(t, fs.Fix("T-101.ratioP", 0.125))
	require.NoError(t, fs.Fix("T-101.efficiency_isentropic", 0.8))

	result := solveLine(t, fs)
	require.Equal(t, solver.StatusOptimal, result.Status, result.Message)

	assert.InDelta(t, 0.125*1.6e6, value(t, fs, "T-101.outlet.pressure"), 1e-2)
	assert.Less(t, value(t, fs, "T-101.work_mechanical"), 0.0)

	// A real turbine recovers less enthalpy than the isentropic path.
	hIn := value(t, fs, "T-101.inlet.enth_mol")
	hOut := value(t, fs, "T-101.outlet.enth_mol")
	hIsen := value(t, fs, "T-101.enth_isentropic")
	assert.Greater(t, hOut, hIsen)
	assert.InDelta(t, 0.8*(hIsen-hIn), hOut-hIn, 1e-6)
}

func TestPassThrough_FeedToProduct(t *testing.T) {
	water, err := props.ByName("water", nil)
	require.NoError(t, err)

	fs := flowsheet.New("passthrough")
	require.NoError(t, fs.AddBlock(feed.New("FEED", water)))
	require.NoError(t, fs.AddBlock(product.New("PROD", water)))
	require.NoError(t, fs.Connect("s01", "FEED.outlet", "PROD.inlet"))

	require.NoError(t, fs.Fix("FEED.outlet.flow_mol", 100))
	require.NoError(t, fs.Fix("FEED.outlet.pressure", 101325))
	require.NoError(t, fs.Fix("FEED.outlet.temperature", 308.15))

	result := solveLine(t, fs)
	require.Equal(t, solver.StatusOptimal, result.Status, result.Message)

	// The sink state is the source state, unchanged.
	assert.InDelta(t, value(t, fs, "FEED.outlet.flow_mol"), value(t, fs, "PROD.inlet.flow_mol"), 1e-9)
	assert.InDelta(t, value(t, fs, "FEED.outlet.enth_mol"), value(t, fs, "PROD.inlet.enth_mol"), 1e-9)
	assert.InDelta(t, value(t, fs, "FEED.outlet.pressure"), value(t, fs, "PROD.inlet.pressure"), 1e-9)
}

func TestPump_UnderAndOverSpecified(t *testing.T) {
	water, err := props.ByName("water", nil)
	require.NoError(t, err)

	pump := pressurechanger.New("PUMP", "pump", pressurechanger.ModeCompressor, water)
	fs := buildLine(t, water, pump)

	// 17 variables against 12 constraints leaves five to fix.
	err = fs.CheckSpecification()
	var spec *flowsheet.SpecificationError
	require.ErrorAs(t, err, &spec)
	assert.Equal(t, 5, spec.DegreesOfFreedom)

	require.NoError(t, fs.Fix("FEED.outlet.flow_mol", 100))
	require.NoError(t, fs.Fix("FEED.outlet.pressure", 101325))
	require.NoError(t, fs.Fix("FEED.outlet.temperature", 308.15))
	require.NoError(t, fs.Fix("PUMP.deltaP", 506625))
	require.NoError(t, fs.Fix("PUMP.efficiency_isentropic", 0.85))
	require.NoError(t, fs.CheckSpecification())

	require.NoError(t, fs.Fix("PUMP.work_mechanical", 1000))
	err = fs.CheckSpecification()
	require.ErrorAs(t, err, &spec)
	assert.Equal(t, -1, spec.DegreesOfFreedom)
}

func mustBlockPort(fs *flowsheet.Flowsheet, block, port string) (*flowsheet.Port, error) {
	b, ok := fs.Block(block)
	if !ok {
		return nil, flowsheet.NoSuchPort(block, "?", port)
	}
	return b.Port(port)
}
