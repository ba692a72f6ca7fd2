package config

import "time"

const (
	DefaultActivationThreshold = 200.0
	DefaultSettleDelay         = 500 * time.Millisecond
)

// CollectionConfig describes one documentation collection (a category of the docs viewer)
type CollectionConfig struct {
	Dir             string   `yaml:"dir"`
	Label           string   `yaml:"label,omitempty"`
	ContentSelector string   `yaml:"content_selector,omitempty"` // CSS selector for HTML documents
	ExcludePatterns []string `yaml:"exclude_patterns,omitempty"` // Regex patterns on paths relative to Dir
	EnableURLSync   *bool    `yaml:"enable_url_sync,omitempty"`  // nil = use global setting
	URLParam        string   `yaml:"url_param,omitempty"`
}

// NavigationConfig holds the timing and threshold knobs of the viewer engine
type NavigationConfig struct {
	ActivationThreshold *float64       `yaml:"activation_threshold,omitempty"` // Scroll-spy threshold, in viewport units; nil = 200, 0 = viewport top
	SettleDelay         *time.Duration `yaml:"settle_delay,omitempty"`         // Wait after a scroll before navigation counts as done; nil = 500ms
	RetryInterval       time.Duration  `yaml:"retry_interval,omitempty"`       // Poll interval while the target is not mounted
	MaxRetries          int            `yaml:"max_retries,omitempty"`
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	ListenAddr           string        `yaml:"listen_addr,omitempty"`
	ReadTimeout          time.Duration `yaml:"read_timeout,omitempty"`
	WriteTimeout         time.Duration `yaml:"write_timeout,omitempty"`
	IdleTimeout          time.Duration `yaml:"idle_timeout,omitempty"`
	SessionTTL           time.Duration `yaml:"session_ttl,omitempty"`            // Idle viewer sessions are dropped after this
	SessionSweepInterval time.Duration `yaml:"session_sweep_interval,omitempty"` // How often expired sessions are swept
}

// AppConfig holds the global application configuration
type AppConfig struct {
	StateDir               string                      `yaml:"state_dir"`
	IndexWorkers           int                         `yaml:"index_workers,omitempty"`
	RefreshInterval        time.Duration               `yaml:"refresh_interval,omitempty"` // 0 = never re-scan collections
	DefaultContentSelector string                      `yaml:"default_content_selector,omitempty"`
	EnableURLSync          bool                        `yaml:"enable_url_sync,omitempty"`
	URLParam               string                      `yaml:"url_param,omitempty"`
	Navigation             NavigationConfig            `yaml:"navigation,omitempty"`
	Server                 ServerConfig                `yaml:"server,omitempty"`
	Collections            map[string]CollectionConfig `yaml:"collections"`
}

// GetEffectiveEnableURLSync determines whether a collection's pages sync selection with the URL
func GetEffectiveEnableURLSync(colCfg CollectionConfig, appCfg AppConfig) bool {
	if colCfg.EnableURLSync != nil {
		return *colCfg.EnableURLSync
	}
	return appCfg.EnableURLSync
}

// GetEffectiveURLParam determines the query parameter used for URL sync
// Collection config (if non-empty) overrides global; falls back to "tab"
func GetEffectiveURLParam(colCfg CollectionConfig, appCfg AppConfig) string {
	if colCfg.URLParam != "" {
		return colCfg.URLParam
	}
	if appCfg.URLParam != "" {
		return appCfg.URLParam
	}
	return "tab"
}

// GetEffectiveActivationThreshold returns the configured scroll-spy threshold.
// Unset falls back to DefaultActivationThreshold; an explicit 0 is kept.
func GetEffectiveActivationThreshold(appCfg AppConfig) float64 {
	if appCfg.Navigation.ActivationThreshold != nil {
		return *appCfg.Navigation.ActivationThreshold
	}
	return DefaultActivationThreshold
}

// GetEffectiveSettleDelay returns the configured settle delay.
// Unset falls back to DefaultSettleDelay; an explicit 0 is kept.
func GetEffectiveSettleDelay(appCfg AppConfig) time.Duration {
	if appCfg.Navigation.SettleDelay != nil {
		return *appCfg.Navigation.SettleDelay
	}
	return DefaultSettleDelay
}

// GetEffectiveContentSelector determines the CSS selector for HTML documents
func GetEffectiveContentSelector(colCfg CollectionConfig, appCfg AppConfig) string {
	if colCfg.ContentSelector != "" {
		return colCfg.ContentSelector
	}
	if appCfg.DefaultContentSelector != "" {
		return appCfg.DefaultContentSelector
	}
	return "body"
}
