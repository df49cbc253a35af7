package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "mcq-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// KeyphraseConfig holds settings for the keyphrase extraction stage.
type KeyphraseConfig struct {
	// TopN is the maximum number of terms returned (default 25).
	TopN int `json:"top_n" yaml:"top_n" mapstructure:"top_n"`

	// Alpha scales the boost given to the first candidate of each topic (default 1.1).
	Alpha float64 `json:"alpha" yaml:"alpha" mapstructure:"alpha"`

	// Threshold is the clustering cut distance for topic grouping (default 0.74).
	Threshold float64 `json:"threshold" yaml:"threshold" mapstructure:"threshold"`

	// Damping is the PageRank damping factor (default 0.85).
	Damping float64 `json:"damping" yaml:"damping" mapstructure:"damping"`
}

// DefaultKeyphraseConfig returns the standard MultipartiteRank parameters.
func DefaultKeyphraseConfig() KeyphraseConfig {
	return KeyphraseConfig{
		TopN:      25,
		Alpha:     1.1,
		Threshold: 0.74,
		Damping:   0.85,
	}
}

// ConceptNetConfig holds settings for the ConceptNet fallback distractor source.
type ConceptNetConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Enabled controls whether the fallback is consulted at all.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// BaseURL is the API root (default "http://api.conceptnet.io").
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// PrimaryLimit caps edges fetched for the term itself (default 5).
	PrimaryLimit int `json:"primary_limit" yaml:"primary_limit" mapstructure:"primary_limit"`

	// SecondaryLimit caps edges fetched per related concept (default 10).
	SecondaryLimit int `json:"secondary_limit" yaml:"secondary_limit" mapstructure:"secondary_limit"`

	// RatePerSecond is the sustained outbound request rate (default 3).
	RatePerSecond float64 `json:"rate_per_second" yaml:"rate_per_second" mapstructure:"rate_per_second"`

	// Burst is the number of requests allowed above the sustained rate (default 6).
	Burst int `json:"burst" yaml:"burst" mapstructure:"burst"`

	// MaxRetries is the number of retries on 429/5xx responses (default 2).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// APIKey is sent as a bearer token when set; the public API needs none.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`
}

// DefaultConceptNetConfig returns settings for the public ConceptNet API.
func DefaultConceptNetConfig() ConceptNetConfig {
	return ConceptNetConfig{
		HTTPConfig: HTTPConfig{
			Timeout:   10 * time.Second,
			UserAgent: "mcq-engine/0.1",
		},
		Enabled:        true,
		BaseURL:        "http://api.conceptnet.io",
		PrimaryLimit:   5,
		SecondaryLimit: 10,
		RatePerSecond:  3,
		Burst:          6,
		MaxRetries:     2,
	}
}

// LexiconConfig locates the lexical ontology loaded at startup.
// Exactly one source is used, checked in the order Path, WordNetDir, Fixture.
type LexiconConfig struct {
	// Path is a SQLite lexicon database built by "mcq-engine lexicon import".
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// WordNetDir is a WordNet 3.x dict directory (index.noun, data.noun).
	WordNetDir string `json:"wordnet_dir" yaml:"wordnet_dir" mapstructure:"wordnet_dir"`

	// Fixture is a YAML lexicon file, used for demos and tests.
	Fixture string `json:"fixture" yaml:"fixture" mapstructure:"fixture"`
}

// PipelineConfig groups the settings of one question generation run.
type PipelineConfig struct {
	Keyphrase  KeyphraseConfig  `json:"keyphrase" yaml:"keyphrase" mapstructure:"keyphrase"`
	ConceptNet ConceptNetConfig `json:"conceptnet" yaml:"conceptnet" mapstructure:"conceptnet"`
	Lexicon    LexiconConfig    `json:"lexicon" yaml:"lexicon" mapstructure:"lexicon"`

	// Workers bounds concurrent per-term processing (default 4).
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers"`

	// RequestTimeout bounds one Generate call, including network fallbacks
	// (default 60s). Zero disables the bound.
	RequestTimeout time.Duration `json:"request_timeout" yaml:"request_timeout" mapstructure:"request_timeout"`

	// MaxOptions caps the options per question, correct answer included (default 4).
	MaxOptions int `json:"max_options" yaml:"max_options" mapstructure:"max_options"`
}

// DefaultPipelineConfig returns the default pipeline settings.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Keyphrase:      DefaultKeyphraseConfig(),
		ConceptNet:     DefaultConceptNetConfig(),
		Workers:        4,
		RequestTimeout: 60 * time.Second,
		MaxOptions:     len(OptionLabels),
	}
}

// ServerConfig holds settings for the HTTP surface.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// CORSOrigins lists allowed browser origins.
	CORSOrigins []string `json:"cors_origins" yaml:"cors_origins" mapstructure:"cors_origins"`

	// MaxBodyBytes limits uploaded documents (default 1 MiB).
	MaxBodyBytes int64 `json:"max_body_bytes" yaml:"max_body_bytes" mapstructure:"max_body_bytes"`

	// HandlerTimeout bounds a single HTTP request (default 90s). When it
	// exceeds the pipeline request timeout, a pipeline timeout is answered
	// with the questions finished so far and "partial": true; otherwise the
	// request ends with 504 and no questions.
	HandlerTimeout time.Duration `json:"handler_timeout" yaml:"handler_timeout" mapstructure:"handler_timeout"`
}

// DefaultServerConfig returns the default server settings.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:           ":8080",
		CORSOrigins:    []string{"http://localhost:3000"},
		MaxBodyBytes:   1 << 20,
		HandlerTimeout: 90 * time.Second,
	}
}
