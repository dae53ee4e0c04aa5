package domain

import (
	"fmt"
	"time"
)

// Heuristics holds the hand-tuned thresholds of the data-quality scanner.
type Heuristics struct {
	MinAge             float64 `yaml:"min_age"              json:"min_age"`
	MaxAge             float64 `yaml:"max_age"              json:"max_age"`
	MinYear            int     `yaml:"min_year"             json:"min_year"`
	YearSlack          int     `yaml:"year_slack"           json:"year_slack"`
	MinPercent         float64 `yaml:"min_percent"          json:"min_percent"`
	MaxPercent         float64 `yaml:"max_percent"          json:"max_percent"`
	MaxStringLength    int     `yaml:"max_string_length"    json:"max_string_length"`
	DuplicateScanLimit int     `yaml:"duplicate_scan_limit" json:"duplicate_scan_limit"`
	AnomalySample      int     `yaml:"anomaly_sample"       json:"anomaly_sample"`
	OutlierZScore      float64 `yaml:"outlier_z_score"      json:"outlier_z_score"`
	OutlierMinSamples  int     `yaml:"outlier_min_samples"  json:"outlier_min_samples"`
	// RangeKeySubstring matches age/year/percent anywhere in a key, so
	// "birthyear" is checked but so is "page". Off, a key must contain the
	// word after camelCase/snake_case splitting.
	RangeKeySubstring bool `yaml:"range_key_substring" json:"range_key_substring"`
}

// StructureLimits controls when structural warnings are raised.
type StructureLimits struct {
	MaxDepth   int `yaml:"max_depth"   json:"max_depth"`
	LargeArray int `yaml:"large_array" json:"large_array"`
	WideObject int `yaml:"wide_object" json:"wide_object"`
	MaxNodes   int `yaml:"max_nodes"   json:"max_nodes"`
}

// SecurityConfig toggles optional security rules.
type SecurityConfig struct {
	DetectSecrets bool `yaml:"detect_secrets" json:"detect_secrets"`
}

// RepairConfig configures the AI fallback used when local rules fail.
type RepairConfig struct {
	AI         bool          `yaml:"ai"          json:"ai"`
	Model      string        `yaml:"model"       json:"model,omitempty"`
	MaxTokens  int64         `yaml:"max_tokens"  json:"max_tokens"`
	RateLimit  int           `yaml:"rate_limit"  json:"rate_limit"`
	RateWindow time.Duration `yaml:"rate_window" json:"rate_window"`
	Timeout    time.Duration `yaml:"timeout"     json:"timeout"`
}

// CacheConfig configures the content-addressed result cache.
type CacheConfig struct {
	Enabled  bool   `yaml:"enabled"   json:"enabled"`
	Dir      string `yaml:"dir"       json:"dir,omitempty"`
	TTLHours int    `yaml:"ttl_hours" json:"ttl_hours"`
}

// ProjectConfig holds configuration loaded from .jsonkraft.yaml.
type ProjectConfig struct {
	Heuristics  Heuristics      `yaml:"heuristics"   json:"heuristics"`
	Structure   StructureLimits `yaml:"structure"    json:"structure"`
	Security    SecurityConfig  `yaml:"security"     json:"security"`
	Repair      RepairConfig    `yaml:"repair"       json:"repair"`
	Cache       CacheConfig     `yaml:"cache"        json:"cache"`
	MinScore    int             `yaml:"min_score"    json:"min_score,omitempty"`
	Workers     int             `yaml:"workers"      json:"workers,omitempty"`
	ExcludeDirs []string        `yaml:"exclude_dirs,omitempty" json:"exclude_dirs,omitempty"`
}

// DefaultHeuristics returns the stock data-quality thresholds.
func DefaultHeuristics() Heuristics {
	return Heuristics{
		MinAge:             0,
		MaxAge:             120,
		MinYear:            1900,
		YearSlack:          10,
		MinPercent:         0,
		MaxPercent:         100,
		MaxStringLength:    10000,
		DuplicateScanLimit: 1000,
		AnomalySample:      5,
		OutlierZScore:      3,
		OutlierMinSamples:  4,
	}
}

// DefaultStructureLimits returns the stock structural thresholds.
func DefaultStructureLimits() StructureLimits {
	return StructureLimits{
		MaxDepth:   10,
		LargeArray: 1000,
		WideObject: 100,
		MaxNodes:   100000,
	}
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() ProjectConfig {
	return ProjectConfig{
		Heuristics: DefaultHeuristics(),
		Structure:  DefaultStructureLimits(),
		Repair: RepairConfig{
			AI:         true,
			MaxTokens:  4096,
			RateLimit:  5,
			RateWindow: time.Minute,
			Timeout:    30 * time.Second,
		},
		Cache: CacheConfig{
			Enabled:  true,
			Dir:      ".jsonkraft/cache",
			TTLHours: 24,
		},
		Workers: 4,
	}
}

// Validate checks the config for invalid values and returns a descriptive error.
func (c ProjectConfig) Validate() error {
	h := c.Heuristics

	// 1. ranges must be ordered
	if h.MinAge > h.MaxAge {
		return fmt.Errorf("heuristics.min_age (%.0f) must not exceed max_age (%.0f)", h.MinAge, h.MaxAge)
	}
	if h.MinPercent > h.MaxPercent {
		return fmt.Errorf("heuristics.min_percent (%.0f) must not exceed max_percent (%.0f)", h.MinPercent, h.MaxPercent)
	}
	if h.YearSlack < 0 {
		return fmt.Errorf("heuristics.year_slack must be >= 0 (got %d)", h.YearSlack)
	}

	// 2. counts and limits must be positive
	positive := map[string]int{
		"heuristics.max_string_length":    h.MaxStringLength,
		"heuristics.duplicate_scan_limit": h.DuplicateScanLimit,
		"heuristics.anomaly_sample":       h.AnomalySample,
		"heuristics.outlier_min_samples":  h.OutlierMinSamples,
		"structure.max_depth":             c.Structure.MaxDepth,
		"structure.large_array":           c.Structure.LargeArray,
		"structure.wide_object":           c.Structure.WideObject,
		"structure.max_nodes":             c.Structure.MaxNodes,
	}
	for name, v := range positive {
		if v <= 0 {
			return fmt.Errorf("%s must be > 0 (got %d)", name, v)
		}
	}
	if h.OutlierZScore <= 0 {
		return fmt.Errorf("heuristics.outlier_z_score must be > 0 (got %.2f)", h.OutlierZScore)
	}

	// 3. repair fallback settings
	if c.Repair.RateLimit < 0 {
		return fmt.Errorf("repair.rate_limit must be >= 0 (got %d)", c.Repair.RateLimit)
	}
	if c.Repair.RateLimit > 0 && c.Repair.RateWindow <= 0 {
		return fmt.Errorf("repair.rate_window must be > 0 when rate_limit is set")
	}
	if c.Repair.Timeout < 0 {
		return fmt.Errorf("repair.timeout must be >= 0 (got %s)", c.Repair.Timeout)
	}

	// 4. cache
	if c.Cache.Enabled && c.Cache.TTLHours <= 0 {
		return fmt.Errorf("cache.ttl_hours must be > 0 when the cache is enabled (got %d)", c.Cache.TTLHours)
	}

	// 5. min_score 0-100
	if c.MinScore < 0 || c.MinScore > 100 {
		return fmt.Errorf("min_score = %d (must be between 0 and 100)", c.MinScore)
	}

	// 6. workers
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0 (got %d)", c.Workers)
	}

	return nil
}
