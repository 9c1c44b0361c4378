package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	o := Default()
	require.NoError(t, o.Validate())
	assert.True(t, o.GlancingBlows)
	assert.Equal(t, 3, o.DirectBlowMargin)
	assert.False(t, o.RangeAttenuation)
	assert.Equal(t, HeatPerWeapon, o.BayHeat)
}

func TestParseOverlaysDefaults(t *testing.T) {
	o, err := Parse([]byte("range_attenuation: true\nbay_heat: arc\nglancing_blows: false\n"))
	require.NoError(t, err)
	assert.True(t, o.RangeAttenuation)
	assert.False(t, o.GlancingBlows)
	assert.Equal(t, HeatPerArc, o.BayHeat)
	assert.True(t, o.DirectBlows, "unset keys keep their defaults")

	_, err = Parse([]byte("bay_heat: sideways\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("direct_blow_margin: 0\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("no_such_rule: true\n"))
	assert.Error(t, err)
}

func TestLoadAppliesEnvLast(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("extreme_range: true\nquirks: true\n"), 0o600))

	t.Setenv("FIRE_QUIRKS", "false")
	t.Setenv("FIRE_BAY_HEAT", "arc")
	t.Setenv("FIRE_DIRECT_BLOW_MARGIN", "4")

	o, err := Load(path)
	require.NoError(t, err)
	assert.True(t, o.ExtremeRange)
	assert.False(t, o.Quirks)
	assert.Equal(t, HeatPerArc, o.BayHeat)
	assert.Equal(t, 4, o.DirectBlowMargin)
}

func TestLoadWithoutFile(t *testing.T) {
	o, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), o)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
