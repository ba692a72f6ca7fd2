package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sriram-PR/docnav/pkg/utils"
)

func containsWarning(warnings []string, substr string) bool {
	for _, w := range warnings {
		if strings.Contains(w, substr) {
			return true
		}
	}
	return false
}

func TestAppConfig_Validate_Defaults(t *testing.T) {
	cfg := AppConfig{}
	warnings, err := cfg.Validate()

	require.NoError(t, err)

	assert.Equal(t, "./docnav_state", cfg.StateDir)
	assert.Equal(t, 4, cfg.IndexWorkers)
	assert.Equal(t, "tab", cfg.URLParam)

	require.NotNil(t, cfg.Navigation.ActivationThreshold)
	assert.Equal(t, 200.0, *cfg.Navigation.ActivationThreshold)
	require.NotNil(t, cfg.Navigation.SettleDelay)
	assert.Equal(t, 500*time.Millisecond, *cfg.Navigation.SettleDelay)
	assert.Equal(t, 100*time.Millisecond, cfg.Navigation.RetryInterval)
	assert.Equal(t, 5, cfg.Navigation.MaxRetries)

	assert.Equal(t, ":8080", cfg.Server.ListenAddr)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Minute, cfg.Server.SessionTTL)
	assert.Equal(t, time.Minute, cfg.Server.SessionSweepInterval)

	assert.True(t, containsWarning(warnings, "state_dir is empty"))
	assert.True(t, containsWarning(warnings, "index_workers should be > 0"))
	assert.True(t, containsWarning(warnings, "no collections configured"))
}

func TestAppConfig_Validate_KeepsValues(t *testing.T) {
	cfg := AppConfig{
		StateDir:     "/state",
		IndexWorkers: 8,
		URLParam:     "doc",
		Navigation: NavigationConfig{
			ActivationThreshold: ptr(120.0),
			SettleDelay:         ptr(300 * time.Millisecond),
			RetryInterval:       50 * time.Millisecond,
			MaxRetries:          10,
		},
		Collections: map[string]CollectionConfig{"guides": {Dir: "./guides"}},
	}

	warnings, err := cfg.Validate()

	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, 8, cfg.IndexWorkers)
	assert.Equal(t, "doc", cfg.URLParam)
	assert.Equal(t, 120.0, *cfg.Navigation.ActivationThreshold)
	assert.Equal(t, 300*time.Millisecond, *cfg.Navigation.SettleDelay)
	assert.Equal(t, 10, cfg.Navigation.MaxRetries)
}

func TestAppConfig_Validate_KeepsExplicitZeroTiming(t *testing.T) {
	cfg := AppConfig{
		StateDir:     "/state",
		IndexWorkers: 1,
		Navigation: NavigationConfig{
			ActivationThreshold: ptr(0.0),
			SettleDelay:         ptr(time.Duration(0)),
		},
	}

	_, err := cfg.Validate()

	require.NoError(t, err)
	assert.Equal(t, 0.0, *cfg.Navigation.ActivationThreshold)
	assert.Equal(t, time.Duration(0), *cfg.Navigation.SettleDelay)
	assert.Equal(t, 0.0, GetEffectiveActivationThreshold(cfg))
	assert.Equal(t, time.Duration(0), GetEffectiveSettleDelay(cfg))
}

func TestAppConfig_Validate_NegativeValues(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(*AppConfig)
		wantWarning string
		check       func(*testing.T, *AppConfig)
	}{
		{
			name:        "negative refresh_interval",
			setup:       func(c *AppConfig) { c.RefreshInterval = -time.Second },
			wantWarning: "refresh_interval cannot be negative",
			check: func(t *testing.T, c *AppConfig) {
				assert.Equal(t, time.Duration(0), c.RefreshInterval)
			},
		},
		{
			name:        "negative activation_threshold",
			setup:       func(c *AppConfig) { c.Navigation.ActivationThreshold = ptr(-1.0) },
			wantWarning: "activation_threshold cannot be negative",
			check: func(t *testing.T, c *AppConfig) {
				assert.Equal(t, 200.0, *c.Navigation.ActivationThreshold)
			},
		},
		{
			name:        "negative settle_delay",
			setup:       func(c *AppConfig) { c.Navigation.SettleDelay = ptr(-time.Second) },
			wantWarning: "settle_delay cannot be negative",
			check: func(t *testing.T, c *AppConfig) {
				assert.Equal(t, 500*time.Millisecond, *c.Navigation.SettleDelay)
			},
		},
		{
			name:        "negative max_retries",
			setup:       func(c *AppConfig) { c.Navigation.MaxRetries = -3 },
			wantWarning: "max_retries cannot be negative",
			check: func(t *testing.T, c *AppConfig) {
				assert.Equal(t, 5, c.Navigation.MaxRetries)
			},
		},
		{
			name: "sweep interval longer than ttl",
			setup: func(c *AppConfig) {
				c.Server.SessionTTL = time.Minute
				c.Server.SessionSweepInterval = time.Hour
			},
			wantWarning: "session_sweep_interval",
			check: func(t *testing.T, c *AppConfig) {
				assert.Equal(t, time.Minute, c.Server.SessionSweepInterval)
			},
		},
		{
			name:        "long settle delay",
			setup:       func(c *AppConfig) { c.Navigation.SettleDelay = ptr(time.Minute) },
			wantWarning: "unusually long",
			check: func(t *testing.T, c *AppConfig) {
				assert.Equal(t, time.Minute, *c.Navigation.SettleDelay)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := AppConfig{StateDir: "/state", IndexWorkers: 1}
			tt.setup(&cfg)

			warnings, err := cfg.Validate()

			require.NoError(t, err)
			assert.True(t, containsWarning(warnings, tt.wantWarning), "warnings: %v", warnings)
			tt.check(t, &cfg)
		})
	}
}

func TestCollectionConfig_Validate(t *testing.T) {
	t.Run("missing dir", func(t *testing.T) {
		cfg := CollectionConfig{}
		_, err := cfg.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, utils.ErrConfigValidation)
	})

	t.Run("bad exclude pattern", func(t *testing.T) {
		cfg := CollectionConfig{Dir: "./docs", ExcludePatterns: []string{"[oops"}}
		_, err := cfg.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, utils.ErrConfigValidation)
	})

	t.Run("param without sync warns", func(t *testing.T) {
		cfg := CollectionConfig{Dir: "./docs", EnableURLSync: boolPtr(false), URLParam: "doc"}
		warnings, err := cfg.Validate()
		require.NoError(t, err)
		assert.True(t, containsWarning(warnings, "URL sync is disabled"))
	})

	t.Run("valid", func(t *testing.T) {
		cfg := CollectionConfig{Dir: "./docs", ExcludePatterns: []string{`^drafts/`}}
		warnings, err := cfg.Validate()
		require.NoError(t, err)
		assert.Empty(t, warnings)
	})
}
