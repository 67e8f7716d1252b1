package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.InDelta(t, 0.02, cfg.RiskFreeRate, 1e-12)
	assert.InDelta(t, 3.0, cfg.MaxLeverage, 1e-12)
	assert.Equal(t, 50, cfg.FrontierSteps)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("RISK_FREE_RATE", "0.03")
	t.Setenv("MAX_LEVERAGE", "5")
	t.Setenv("DEV_MODE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.InDelta(t, 0.03, cfg.RiskFreeRate, 1e-12)
	assert.InDelta(t, 5.0, cfg.MaxLeverage, 1e-12)
	assert.True(t, cfg.DevMode)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{name: "valid", cfg: Config{Port: 8080, MaxLeverage: 3, FrontierSteps: 50}, ok: true},
		{name: "bad port", cfg: Config{Port: -1, MaxLeverage: 3, FrontierSteps: 50}, ok: false},
		{name: "leverage below one", cfg: Config{Port: 8080, MaxLeverage: 0.5, FrontierSteps: 50}, ok: false},
		{name: "zero steps", cfg: Config{Port: 8080, MaxLeverage: 3, FrontierSteps: 0}, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
