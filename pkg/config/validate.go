package config

import (
	"fmt"
	"time"

	"github.com/Sriram-PR/docnav/pkg/utils"
)

// Validate checks AppConfig fields and applies sensible defaults.
// Returns collected warnings and any fatal error.
// Modifies receiver in place to apply defaults.
func (c *AppConfig) Validate() (warnings []string, err error) {
	// StateDir
	if c.StateDir == "" {
		warnings = append(warnings, "state_dir is empty, defaulting to './docnav_state'")
		c.StateDir = "./docnav_state"
	}

	// IndexWorkers
	if c.IndexWorkers <= 0 {
		warnings = append(warnings, "index_workers should be > 0, defaulting to 4")
		c.IndexWorkers = 4
	}

	// RefreshInterval
	if c.RefreshInterval < 0 {
		warnings = append(warnings, "refresh_interval cannot be negative, disabling refresh")
		c.RefreshInterval = 0
	}

	if c.URLParam == "" {
		c.URLParam = "tab"
	}

	c.validateNavigation(&warnings)
	c.validateServer(&warnings)

	if len(c.Collections) == 0 {
		warnings = append(warnings, "no collections configured, the catalog will be empty")
	}

	return warnings, nil // AppConfig validation never fails fatally
}

// validateNavigation applies navigation defaults.
func (c *AppConfig) validateNavigation(warnings *[]string) {
	n := &c.Navigation
	if n.ActivationThreshold != nil && *n.ActivationThreshold < 0 {
		*warnings = append(*warnings, "navigation.activation_threshold cannot be negative, defaulting to 200")
		n.ActivationThreshold = nil
	}
	if n.ActivationThreshold == nil {
		threshold := DefaultActivationThreshold
		n.ActivationThreshold = &threshold
	}
	if n.SettleDelay != nil && *n.SettleDelay < 0 {
		*warnings = append(*warnings, "navigation.settle_delay cannot be negative, defaulting to 500ms")
		n.SettleDelay = nil
	}
	if n.SettleDelay == nil {
		settle := DefaultSettleDelay
		n.SettleDelay = &settle
	}
	if n.RetryInterval <= 0 {
		n.RetryInterval = 100 * time.Millisecond
	}
	if n.MaxRetries < 0 {
		*warnings = append(*warnings, "navigation.max_retries cannot be negative, defaulting to 5")
		n.MaxRetries = 5
	}
	if n.MaxRetries == 0 {
		n.MaxRetries = 5
	}
	if *n.SettleDelay > 10*time.Second {
		*warnings = append(*warnings, fmt.Sprintf(
			"navigation.settle_delay (%v) is unusually long, navigating indicators will linger", *n.SettleDelay))
	}
}

// validateServer applies HTTP server defaults.
func (c *AppConfig) validateServer(warnings *[]string) {
	s := &c.Server
	if s.ListenAddr == "" {
		s.ListenAddr = ":8080"
	}
	if s.ReadTimeout <= 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout <= 0 {
		s.WriteTimeout = 30 * time.Second
	}
	if s.IdleTimeout <= 0 {
		s.IdleTimeout = 60 * time.Second
	}
	if s.SessionTTL <= 0 {
		s.SessionTTL = 30 * time.Minute
	}
	if s.SessionSweepInterval <= 0 {
		s.SessionSweepInterval = time.Minute
	}
	if s.SessionSweepInterval > s.SessionTTL {
		*warnings = append(*warnings, fmt.Sprintf(
			"server.session_sweep_interval (%v) > session_ttl (%v), using session_ttl",
			s.SessionSweepInterval, s.SessionTTL))
		s.SessionSweepInterval = s.SessionTTL
	}
}

// Validate checks CollectionConfig fields.
// Returns collected warnings and any fatal error.
func (c *CollectionConfig) Validate() (warnings []string, err error) {
	// Required: Dir
	if c.Dir == "" {
		return nil, fmt.Errorf("%w: collection needs dir", utils.ErrConfigValidation)
	}

	if _, err := utils.CompileRegexPatterns(c.ExcludePatterns); err != nil {
		return nil, err
	}

	if c.EnableURLSync != nil && !*c.EnableURLSync && c.URLParam != "" {
		warnings = append(warnings, fmt.Sprintf("url_param '%s' is set but URL sync is disabled for this collection", c.URLParam))
	}

	return warnings, nil
}
