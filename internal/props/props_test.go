package props

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByName(t *testing.T) {
	t.Run("known packages", func(t *testing.T) {
		for _, name := range []string{"methane", "water", "meoh-etoh"} {
			pkg, err := ByName(name, nil)
			require.NoError(t, err, name)
			assert.Equal(t, name, pkg.Name())
		}
	})

	t.Run("unknown package", func(t *testing.T) {
		_, err := ByName("ammonia", nil)
		assert.ErrorContains(t, err, "unknown property package")
	})

	t.Run("blend composition out of range", func(t *testing.T) {
		_, err := ByName("meoh-etoh", map[string]float64{"mole_frac_methanol": 1.2})
		assert.ErrorContains(t, err, "outside [0, 1]")
	})
}

func TestEnthalpyTemperatureRoundTrip(t *testing.T) {
	cases := []struct {
		pkg  Package
		temp float64
		pres float64
	}{
		{Methane(), 298.0, 101325},
		{Methane(), 450.0, 1.6e6},
		{Water(), 308.15, 101325},
		{Water(), 350.0, 607950},
	}
	for _, tc := range cases {
		h, err := tc.pkg.EnthalpyTP(tc.temp, tc.pres)
		require.NoError(t, err)
		back, err := tc.pkg.TemperaturePH(tc.pres, h)
		require.NoError(t, err)
		assert.InDelta(t, tc.temp, back, 1e-9, "%s at %.2f K", tc.pkg.Name(), tc.temp)
	}
}

func TestIsentropicEnthalpy(t *testing.T) {
	t.Run("gas compression heats the stream", func(t *testing.T) {
		gas := Methane()
		hIn, err := gas.EnthalpyTP(308.15, 101325)
		require.NoError(t, err)

		hIsen, err := gas.IsentropicEnthalpy(hIn, 101325, 16*101325)
		require.NoError(t, err)
		assert.Greater(t, hIsen, hIn)

		tOut, err := gas.TemperaturePH(16*101325, hIsen)
		require.NoError(t, err)
		assert.Greater(t, tOut, 308.15)
	})

	t.Run("liquid pump rise is flow work", func(t *testing.T) {
		w := Water()
		hIn, err := w.EnthalpyTP(308.15, 101325)
		require.NoError(t, err)

		deltaP := 506625.0
		hIsen, err := w.IsentropicEnthalpy(hIn, 101325, 101325+deltaP)
		require.NoError(t, err)
		assert.InDelta(t, 1.8068e-5*deltaP, hIsen-hIn, 1e-9)
	})

	t.Run("invalid pressures rejected", func(t *testing.T) {
		_, err := Methane().IsentropicEnthalpy(100, -1, 101325)
		assert.Error(t, err)
		_, err = Water().IsentropicEnthalpy(100, 101325, 0)
		assert.Error(t, err)
	})
}
