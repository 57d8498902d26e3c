package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/flowsheetgo/internal/flowsheet"
	"github.com/vk/flowsheetgo/internal/props"
)

func stubBuilder(unitType string) *Builder {
	return &Builder{
		Type:      unitType,
		NewParams: func() any { return &struct{}{} },
		Build: func(name string, pkg props.Package, _ any) (flowsheet.Block, error) {
			return nil, nil
		},
	}
}

func TestRegistry(t *testing.T) {
	r := New()
	r.Register(stubBuilder("pump"))
	r.Register(stubBuilder("heater"))

	t.Run("lookup", func(t *testing.T) {
		b, ok := r.Builder("pump")
		require.True(t, ok)
		assert.Equal(t, "pump", b.Type)

		_, ok = r.Builder("flash")
		assert.False(t, ok)
	})

	t.Run("types sorted", func(t *testing.T) {
		assert.Equal(t, []string{"heater", "pump"}, r.Types())
	})

	t.Run("duplicate registration panics", func(t *testing.T) {
		assert.Panics(t, func() { r.Register(stubBuilder("pump")) })
	})
}
