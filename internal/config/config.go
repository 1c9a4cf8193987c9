// Package config provides unified configuration loading for nudge.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/waltergaltieri/nudge/internal/constants"
	"github.com/waltergaltieri/nudge/internal/pathutil"
	"gopkg.in/yaml.v3"
)

// NudgeConfig contains all nudge engine configuration settings.
type NudgeConfig struct {
	// Behavior contains settings for behavior pattern analysis.
	Behavior BehaviorConfig `json:"behavior" yaml:"behavior"`

	// Timing contains settings for timing recommendations.
	Timing TimingConfig `json:"timing" yaml:"timing"`

	// Engine contains settings for the suggestion orchestrator.
	Engine EngineConfig `json:"engine" yaml:"engine"`

	// Logging contains settings for operational and decision logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`

	// Store contains settings for the optional analytics sink.
	Store StoreConfig `json:"store" yaml:"store"`
}

// LoggingConfig configures nudge's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "debug" enables decision logging to .nudge/decisions.jsonl.
	// "trace" additionally includes behavior-log snapshots in traces.
	Level string `json:"level" yaml:"level"`
}

// BehaviorConfig configures the pattern matcher's global admission and the
// thresholds of the built-in condition catalog.
type BehaviorConfig struct {
	// Sensitivity scales every pattern score: "low" (0.7), "medium" (1.0),
	// or "high" (1.3).
	Sensitivity string `json:"sensitivity" yaml:"sensitivity"`

	// MinTimeBetweenSuggestions is the global gate between two triggers.
	MinTimeBetweenSuggestions time.Duration `json:"min_time_between_suggestions" yaml:"min_time_between_suggestions"`

	// InactivityThreshold is how long without activity counts as inactive.
	InactivityThreshold time.Duration `json:"inactivity_threshold" yaml:"inactivity_threshold"`

	// ErrorThreshold is the per-context error count that marks a
	// repeated-error situation.
	ErrorThreshold int `json:"error_threshold" yaml:"error_threshold"`
}

// SensitivityMultiplier returns the score multiplier for the configured
// sensitivity. Unknown values fall back to medium.
func (c BehaviorConfig) SensitivityMultiplier() float64 {
	switch c.Sensitivity {
	case "low":
		return constants.SensitivityLow
	case "high":
		return constants.SensitivityHigh
	default:
		return constants.SensitivityMedium
	}
}

// TimeWindow is an optimal time-of-day window with a preference weight.
// Hours are in the engine's local time, StartHour inclusive, EndHour
// exclusive.
type TimeWindow struct {
	StartHour int     `json:"start_hour" yaml:"start_hour"`
	EndHour   int     `json:"end_hour" yaml:"end_hour"`
	Weight    float64 `json:"weight" yaml:"weight"`
}

// Contains reports whether t falls inside the window.
func (w TimeWindow) Contains(t time.Time) bool {
	h := t.Hour()
	return h >= w.StartHour && h < w.EndHour
}

// TimingConfig configures the timing recommender.
type TimingConfig struct {
	// MinDelay and MaxDelay bound the computed optimal delay.
	MinDelay time.Duration `json:"min_delay" yaml:"min_delay"`
	MaxDelay time.Duration `json:"max_delay" yaml:"max_delay"`

	// OptimalWindows are the preferred time-of-day windows.
	OptimalWindows []TimeWindow `json:"optimal_windows" yaml:"optimal_windows"`

	// MinSessionAge is how settled a session must be before interrupting.
	MinSessionAge time.Duration `json:"min_session_age" yaml:"min_session_age"`

	// MinPageStability is the minimum time since page load before
	// interrupting.
	MinPageStability time.Duration `json:"min_page_stability" yaml:"min_page_stability"`

	// LearnPreferences toggles per-tour delay multiplier learning from
	// accept/dismiss feedback.
	LearnPreferences bool `json:"learn_preferences" yaml:"learn_preferences"`
}

// EngineConfig configures the suggestion orchestrator.
type EngineConfig struct {
	// MaxPendingSuggestions caps the pending queue length.
	MaxPendingSuggestions int `json:"max_pending_suggestions" yaml:"max_pending_suggestions"`

	// MaxSuggestionsPerSession caps suggestions shown per session.
	MaxSuggestionsPerSession int `json:"max_suggestions_per_session" yaml:"max_suggestions_per_session"`

	// SuggestionCooldown is the minimum time between two shown suggestions.
	SuggestionCooldown time.Duration `json:"suggestion_cooldown" yaml:"suggestion_cooldown"`

	// MaxRetries bounds the pending → pending retry loop per suggestion.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// RetryDelayMultiplier is the exponential backoff base per retry.
	RetryDelayMultiplier float64 `json:"retry_delay_multiplier" yaml:"retry_delay_multiplier"`

	// DefaultExpiration is how long a suggestion stays eligible.
	DefaultExpiration time.Duration `json:"default_expiration" yaml:"default_expiration"`

	// DuplicateFilter drops candidates whose tour and page context already
	// have a pending suggestion.
	DuplicateFilter bool `json:"duplicate_filter" yaml:"duplicate_filter"`

	// ContextFilter restricts suggestions to their originating page and
	// drops them on navigation away.
	ContextFilter bool `json:"context_filter" yaml:"context_filter"`

	// MinPriority, when set, rejects candidates below the named priority
	// ("low", "medium", "high", "critical"). Empty disables the filter.
	MinPriority string `json:"min_priority,omitempty" yaml:"min_priority,omitempty"`

	// AnalyticsEnabled toggles analytics recording entirely.
	AnalyticsEnabled bool `json:"analytics_enabled" yaml:"analytics_enabled"`

	// AnalysisInterval is the cadence of the periodic analysis driver.
	AnalysisInterval time.Duration `json:"analysis_interval" yaml:"analysis_interval"`
}

// StoreConfig configures the optional SQLite analytics sink.
type StoreConfig struct {
	// Enabled turns the sink on. When off, analytics stay in memory only.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Path is the SQLite database path. Defaults to .nudge/analytics.db
	// under the working directory.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// Default returns a NudgeConfig with the documented defaults.
func Default() *NudgeConfig {
	return &NudgeConfig{
		Behavior: BehaviorConfig{
			Sensitivity:               "medium",
			MinTimeBetweenSuggestions: constants.DefaultMinTimeBetweenSuggestions,
			InactivityThreshold:       constants.DefaultInactivityThreshold,
			ErrorThreshold:            constants.DefaultErrorThreshold,
		},
		Timing: TimingConfig{
			MinDelay: constants.DefaultMinDelay,
			MaxDelay: constants.DefaultMaxDelay,
			OptimalWindows: []TimeWindow{
				{StartHour: 9, EndHour: 11, Weight: 0.8},
				{StartHour: 14, EndHour: 16, Weight: 0.9},
				{StartHour: 19, EndHour: 21, Weight: 0.6},
			},
			MinSessionAge:    constants.DefaultMinSessionAge,
			MinPageStability: constants.DefaultMinPageStability,
			LearnPreferences: true,
		},
		Engine: EngineConfig{
			MaxPendingSuggestions:    constants.DefaultMaxPendingSuggestions,
			MaxSuggestionsPerSession: constants.DefaultMaxSuggestionsPerSession,
			SuggestionCooldown:       constants.DefaultSuggestionCooldown,
			MaxRetries:               constants.DefaultMaxRetries,
			RetryDelayMultiplier:     constants.DefaultRetryDelayMultiplier,
			DefaultExpiration:        constants.DefaultExpirationTime,
			DuplicateFilter:          true,
			ContextFilter:            true,
			AnalyticsEnabled:         true,
			AnalysisInterval:         constants.DefaultAnalysisInterval,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Store: StoreConfig{
			Enabled: false,
		},
	}
}

// Load loads configuration from the default locations and environment
// variables. Order: defaults -> ~/.nudge/config.yaml -> environment.
func Load() (*NudgeConfig, error) {
	cfg := Default()

	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, ".nudge", "config.yaml")
		if _, statErr := os.Stat(configPath); statErr == nil {
			fileCfg, loadErr := LoadFromFile(configPath)
			if loadErr != nil {
				return nil, fmt.Errorf("loading config file: %w", loadErr)
			}
			cfg = fileCfg
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// LoadFromFile loads configuration from a specific YAML file. Fields absent
// from the file keep their defaults.
func LoadFromFile(path string) (*NudgeConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", pathutil.RedactPath(path), err)
	}

	return cfg, nil
}

// Validate checks that the configuration is internally consistent.
func (c *NudgeConfig) Validate() error {
	validSensitivity := map[string]bool{"": true, "low": true, "medium": true, "high": true}
	if !validSensitivity[c.Behavior.Sensitivity] {
		return fmt.Errorf("invalid sensitivity: %s (valid: low, medium, high)", c.Behavior.Sensitivity)
	}

	if c.Behavior.ErrorThreshold < 1 {
		return fmt.Errorf("error_threshold must be at least 1, got %d", c.Behavior.ErrorThreshold)
	}

	if c.Timing.MinDelay < 0 || c.Timing.MaxDelay < 0 {
		return fmt.Errorf("delays must be non-negative")
	}
	if c.Timing.MinDelay > c.Timing.MaxDelay {
		return fmt.Errorf("min_delay %v exceeds max_delay %v", c.Timing.MinDelay, c.Timing.MaxDelay)
	}

	for _, w := range c.Timing.OptimalWindows {
		if w.StartHour < 0 || w.StartHour > 23 || w.EndHour < 1 || w.EndHour > 24 || w.StartHour >= w.EndHour {
			return fmt.Errorf("invalid optimal window [%d, %d)", w.StartHour, w.EndHour)
		}
		if w.Weight < 0 || w.Weight > 1 {
			return fmt.Errorf("window weight must be between 0 and 1, got %f", w.Weight)
		}
	}

	if c.Engine.RetryDelayMultiplier < 1 {
		return fmt.Errorf("retry_delay_multiplier must be at least 1, got %f", c.Engine.RetryDelayMultiplier)
	}

	if c.Engine.MinPriority != "" {
		valid := map[string]bool{"low": true, "medium": true, "high": true, "critical": true}
		if !valid[c.Engine.MinPriority] {
			return fmt.Errorf("invalid min_priority: %s", c.Engine.MinPriority)
		}
	}

	validLevels := map[string]bool{"": true, "info": true, "debug": true, "trace": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *NudgeConfig) {
	if v := os.Getenv("NUDGE_SENSITIVITY"); v != "" {
		cfg.Behavior.Sensitivity = v
	}

	if v := os.Getenv("NUDGE_MAX_PER_SESSION"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Engine.MaxSuggestionsPerSession = n
		}
	}

	if v := os.Getenv("NUDGE_ANALYTICS"); v != "" {
		cfg.Engine.AnalyticsEnabled = v == "true" || v == "1"
	}

	if v := os.Getenv("NUDGE_STORE_PATH"); v != "" {
		cfg.Store.Enabled = true
		cfg.Store.Path = v
	}

	if v := os.Getenv("NUDGE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
