package model

import "time"

// Config is the full runtime configuration. Values merge from flags, env
// (PEOPLEX_*), the config file, and these defaults, in that priority order.
type Config struct {
	Verify      VerifyConfig      `yaml:"verify" mapstructure:"verify"`
	Confidence  ConfidenceConfig  `yaml:"confidence" mapstructure:"confidence"`
	Linking     LinkingConfig     `yaml:"linking" mapstructure:"linking"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Spotter     SpotterConfig     `yaml:"spotter" mapstructure:"spotter"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// VerifyConfig tunes the issue detector.
type VerifyConfig struct {
	// Sanity band for VND amounts mentioned in news prose. Amounts outside
	// it raise hallucination warnings.
	MinAmountVND int64 `yaml:"min_amount_vnd" mapstructure:"min_amount_vnd"`
	MaxAmountVND int64 `yaml:"max_amount_vnd" mapstructure:"max_amount_vnd"`

	// SnippetPad is the rune padding around issue/missing-entity snippets.
	SnippetPad int `yaml:"snippet_pad" mapstructure:"snippet_pad"`
}

// ConfidenceConfig tunes field and entity confidence aggregation.
type ConfidenceConfig struct {
	// DerivedDiscount applies to fields with no direct span that are
	// grounded via a present source span (age -> birth_year).
	DerivedDiscount float64 `yaml:"derived_discount" mapstructure:"derived_discount"`

	// WeakCap bounds entity confidence when no strong identifier and fewer
	// than two medium signals are present.
	WeakCap float64 `yaml:"weak_cap" mapstructure:"weak_cap"`

	// Exponential blending weights for repeat sightings.
	BlendOld      float64 `yaml:"blend_old" mapstructure:"blend_old"`
	BlendIncoming float64 `yaml:"blend_incoming" mapstructure:"blend_incoming"`
}

// LinkingConfig tunes cross-document resolution.
type LinkingConfig struct {
	// Three-band decision thresholds: >= AutoMerge merges, >= Review queues
	// for human decision, below Review stays distinct.
	AutoMergeThreshold float64 `yaml:"auto_merge_threshold" mapstructure:"auto_merge_threshold"`
	ReviewThreshold    float64 `yaml:"review_threshold" mapstructure:"review_threshold"`

	// ConflictFloor is the score forced on pairs with conflicting strong
	// identifiers, regardless of name similarity.
	ConflictFloor float64 `yaml:"conflict_floor" mapstructure:"conflict_floor"`

	// MinEntityConfidence gates clusters out of cross-doc resolution.
	MinEntityConfidence float64 `yaml:"min_entity_confidence" mapstructure:"min_entity_confidence"`
}

// ConcurrencyConfig sizes the per-document worker pool.
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// SpotterConfig selects and bounds the completeness second pass.
type SpotterConfig struct {
	// Backend: "heuristic" (default), "llm", or "none".
	Backend string `yaml:"backend" mapstructure:"backend"`

	// RequestsPerSecond rate-limits LLM-backed spotting.
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// LLMConfig configures the provider behind the LLM spotter backend.
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // openai, anthropic, ollama
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"-" mapstructure:"-"` // env only, never persisted
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// CacheConfig controls spotter response caching.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir     string        `yaml:"dir" mapstructure:"dir"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// DefaultConfig returns the built-in defaults. The merge thresholds and the
// derived discount are recommended starting points, not validated constants;
// tune them against a labeled set before production use.
func DefaultConfig() *Config {
	return &Config{
		Verify: VerifyConfig{
			MinAmountVND: 1_000,
			MaxAmountVND: 1_000_000_000_000, // 1 trillion VND
			SnippetPad:   40,
		},
		Confidence: ConfidenceConfig{
			DerivedDiscount: 0.5,
			WeakCap:         0.4,
			BlendOld:        0.8,
			BlendIncoming:   0.2,
		},
		Linking: LinkingConfig{
			AutoMergeThreshold:  0.9,
			ReviewThreshold:     0.6,
			ConflictFloor:       0.1,
			MinEntityConfidence: 0.2,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Spotter: SpotterConfig{
			Backend:           "heuristic",
			RequestsPerSecond: 1,
			Burst:             2,
		},
		LLM: LLMConfig{
			Provider:  "",
			Model:     "",
			Timeout:   30,
			MaxTokens: 1000,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     24 * time.Hour,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
	}
}
