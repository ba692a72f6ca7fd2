package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func boolPtr(b bool) *bool {
	return &b
}

func ptr[T any](v T) *T {
	return &v
}

func TestGetEffectiveEnableURLSync(t *testing.T) {
	tests := []struct {
		name     string
		colCfg   CollectionConfig
		appCfg   AppConfig
		expected bool
	}{
		{
			name:     "collection enabled overrides global disabled",
			colCfg:   CollectionConfig{EnableURLSync: boolPtr(true)},
			appCfg:   AppConfig{EnableURLSync: false},
			expected: true,
		},
		{
			name:     "collection disabled overrides global enabled",
			colCfg:   CollectionConfig{EnableURLSync: boolPtr(false)},
			appCfg:   AppConfig{EnableURLSync: true},
			expected: false,
		},
		{
			name:     "collection nil uses global enabled",
			colCfg:   CollectionConfig{},
			appCfg:   AppConfig{EnableURLSync: true},
			expected: true,
		},
		{
			name:     "collection nil uses global disabled",
			colCfg:   CollectionConfig{},
			appCfg:   AppConfig{},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetEffectiveEnableURLSync(tt.colCfg, tt.appCfg))
		})
	}
}

func TestGetEffectiveURLParam(t *testing.T) {
	assert.Equal(t, "doc", GetEffectiveURLParam(CollectionConfig{URLParam: "doc"}, AppConfig{URLParam: "page"}))
	assert.Equal(t, "page", GetEffectiveURLParam(CollectionConfig{}, AppConfig{URLParam: "page"}))
	assert.Equal(t, "tab", GetEffectiveURLParam(CollectionConfig{}, AppConfig{}))
}

func TestGetEffectiveContentSelector(t *testing.T) {
	assert.Equal(t, "article", GetEffectiveContentSelector(CollectionConfig{ContentSelector: "article"}, AppConfig{DefaultContentSelector: "main"}))
	assert.Equal(t, "main", GetEffectiveContentSelector(CollectionConfig{}, AppConfig{DefaultContentSelector: "main"}))
	assert.Equal(t, "body", GetEffectiveContentSelector(CollectionConfig{}, AppConfig{}))
}

func TestGetEffectiveNavigationTiming(t *testing.T) {
	assert.Equal(t, DefaultActivationThreshold, GetEffectiveActivationThreshold(AppConfig{}))
	assert.Equal(t, DefaultSettleDelay, GetEffectiveSettleDelay(AppConfig{}))

	cfg := AppConfig{Navigation: NavigationConfig{ActivationThreshold: ptr(0.0), SettleDelay: ptr(250 * time.Millisecond)}}
	assert.Equal(t, 0.0, GetEffectiveActivationThreshold(cfg))
	assert.Equal(t, 250*time.Millisecond, GetEffectiveSettleDelay(cfg))
}
