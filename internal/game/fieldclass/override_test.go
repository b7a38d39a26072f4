package fieldclass

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/arenafield/internal/model"
)

func TestOverride_AppliesToTeammatesInside(t *testing.T) {
	h := newHarness(t)
	caster := h.player("alpha", 0, 1000, 1000)
	mate := h.player("beta", 0, 1000, 1000)
	enemy := h.player("gamma", 1, 1000, 1000)

	h.cast(caster, "boost")
	h.advance(50)

	assert.ElementsMatch(t, []string{"alpha", "beta"}, h.sends.sends)
	assert.Equal(t, 300, h.override.Value(mate, "speed_actual", 100))
	assert.Equal(t, 20, h.override.Value(mate, "Thrust", 5))
	assert.Equal(t, 100, h.override.Value(enemy, "speed_actual", 100))
	assert.Equal(t, 300, h.store.Value(mate, model.ShipWarbird, "speed_actual"), "store consults the adviser")

	mate.SetPosition(model.NewPosition(9000, 9000))
	h.advance(50)
	assert.Equal(t, 300, h.override.Value(mate, "speed_actual", 100), "within grace")
	h.advance(50)
	assert.Equal(t, 100, h.override.Value(mate, "speed_actual", 100))
	assert.Equal(t, 0, h.override.Active(mate))
	assert.Equal(t, "beta", h.sends.sends[len(h.sends.sends)-1])

	// Lifetime 1000 ticks: expiry restores the caster.
	for range 20 {
		h.advance(50)
	}
	assert.Equal(t, 0, h.engine.InstanceCount(testZone))
	assert.Equal(t, 0, h.override.Active(caster))
	assert.Equal(t, "alpha", h.sends.sends[len(h.sends.sends)-1])
}

func TestOverride_OverlappingEntriesKeepNewest(t *testing.T) {
	c := NewOverride(&sendLog{})
	p, err := model.NewPlayer(1, "alpha")
	require.NoError(t, err)

	a := parseOverrides("pub", "field-a", "speed_actual=300")
	b := parseOverrides("pub", "field-b", "speed_actual=400")

	c.apply(p.ID(), a)
	c.apply(p.ID(), b)
	assert.Equal(t, 400, c.Value(p, "speed_actual", 0))

	c.remove(p.ID(), a)
	assert.Equal(t, 400, c.Value(p, "speed_actual", 0), "a no longer owns the setting")

	c.remove(p.ID(), b)
	assert.Equal(t, 0, c.Value(p, "speed_actual", 0))
	assert.Equal(t, 0, c.Active(p))
}

func TestOverride_LeaveDropsTable(t *testing.T) {
	c := NewOverride(&sendLog{})
	p, err := model.NewPlayer(1, "alpha")
	require.NoError(t, err)

	c.apply(p.ID(), parseOverrides("pub", "field-a", DefaultOverrides))
	assert.Equal(t, 2, c.Active(p))

	c.OnPlayerLeave(p, "pub")
	assert.Equal(t, 0, c.Active(p))
}

func TestParseOverrides(t *testing.T) {
	entries := parseOverrides("pub", "field-x", "Speed_Actual=250, thrust=x,=5,bad,maxspeed_actual=-1")
	require.Len(t, entries, 2)
	assert.Equal(t, "speed_actual", entries[0].name)
	assert.Equal(t, 250, entries[0].value)
	assert.Equal(t, "maxspeed_actual", entries[1].name)
	assert.Equal(t, -1, entries[1].value)
}

func TestOverride_DefaultConfig(t *testing.T) {
	c := NewOverride(&sendLog{})
	props := c.LoadTypeConfig("pub", "field-x", emptyConfig{})
	cfg, ok := props.(overrideConfig)
	require.True(t, ok)
	require.Len(t, cfg.entries, 2)
	assert.Equal(t, "speed_actual", cfg.entries[0].name)
	assert.Equal(t, 200, cfg.entries[1].value)
}

type emptyConfig struct{}

func (emptyConfig) GetInt(_, _ string, def int) int      { return def }
func (emptyConfig) GetString(_, _ string) (string, bool) { return "", false }
