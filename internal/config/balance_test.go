package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	b := Default()

	require.NoError(t, b.Validate())
	assert.Equal(t, time.Second, b.TickInterval)
	assert.Equal(t, 5, b.Combo.WindowSeconds)
	assert.Equal(t, 3.0, b.Combo.Cap)
	assert.Equal(t, 0.5, b.Events.ActivationChance)
	assert.Equal(t, 10000.0, b.Prestige.InitialCost)
}

func TestParse_OverridesOnTopOfDefaults(t *testing.T) {
	b, err := Parse([]byte(`
tick_interval: 500ms
combo:
  cap: 4
prestige:
  earnings_divisor: 500
`))
	require.NoError(t, err)

	assert.Equal(t, 500*time.Millisecond, b.TickInterval)
	assert.Equal(t, 4.0, b.Combo.Cap)
	assert.Equal(t, 0.1, b.Combo.Step, "unset fields keep defaults")
	assert.Equal(t, 500.0, b.Prestige.EarningsDivisor)
	assert.Equal(t, 1.5, b.Prestige.CostGrowth)
}

func TestParse_EmptyDocumentIsDefault(t *testing.T) {
	b, err := Parse([]byte(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), b)
}

func TestParse_UnknownFieldRejected(t *testing.T) {
	_, err := Parse([]byte("combo:\n  windw_seconds: 3\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestParse_Validation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"zero tick", "tick_interval: 0s", "tick_interval"},
		{"cap below one", "combo:\n  cap: 0.5", "combo.cap"},
		{"chance above 100", "events:\n  activation_chance: 101", "events.activation_chance"},
		{"negative crit", "critical:\n  base_chance: -1", "critical.base_chance"},
		{"flat cost growth", "upgrades:\n  cost_growth: 1", "upgrades.cost_growth"},
		{"zero divisor", "prestige:\n  earnings_divisor: 0", "prestige.earnings_divisor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid balance")
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "balance.yaml")
	require.NoError(t, os.WriteFile(path, []byte("upgrades:\n  cost_growth: 1.25\n"), 0o644))

	b, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1.25, b.Upgrades.CostGrowth)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read balance file")
}
