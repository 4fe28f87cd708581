// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ConversionBackend identifies the PDF-to-text tool used by the extract stage.
type ConversionBackend string

const (
	BackendNative     ConversionBackend = "pdf"
	BackendMarkitdown ConversionBackend = "markitdown"
)

// FilesConfig names the artifacts each pipeline stage reads and writes.
type FilesConfig struct {
	// InputPDF is the rulebook PDF consumed by the extract stage.
	InputPDF string `json:"input_pdf" yaml:"input_pdf" mapstructure:"input_pdf" validate:"required"`

	// RawText holds extracted page text with <!-- Page N --> markers.
	RawText string `json:"raw_text" yaml:"raw_text" mapstructure:"raw_text" validate:"required"`

	// BasicMarkdown is the output of the regex cleanup stage.
	BasicMarkdown string `json:"basic_markdown" yaml:"basic_markdown" mapstructure:"basic_markdown" validate:"required"`

	// AIMarkdown is the output of the AI cleanup stage.
	AIMarkdown string `json:"ai_markdown" yaml:"ai_markdown" mapstructure:"ai_markdown" validate:"required"`

	// ExportDir receives one Markdown file per chunk plus the health report.
	ExportDir string `json:"export_dir" yaml:"export_dir" mapstructure:"export_dir" validate:"required"`

	// Catalogue is an optional YAML section catalogue. Empty selects the
	// built-in SRD 5.2 table of contents.
	Catalogue string `json:"catalogue,omitempty" yaml:"catalogue,omitempty" mapstructure:"catalogue"`

	// Suffix is appended to every chunk filename (e.g. "SRD_5_2").
	Suffix string `json:"suffix" yaml:"suffix" mapstructure:"suffix"`
}

// ChunkingConfig controls section splitting and persistence of chunks.
type ChunkingConfig struct {
	// TargetMin is the lower bound of the ideal chunk size in words.
	TargetMin int `json:"target_min" yaml:"target_min" mapstructure:"target_min" validate:"min=1"`

	// TargetMax is the upper bound of the ideal chunk size in words.
	TargetMax int `json:"target_max" yaml:"target_max" mapstructure:"target_max" validate:"gtefield=TargetMin"`

	// LookaheadLines bounds the search for a paragraph break or header once
	// a fragment reaches TargetMax.
	LookaheadLines int `json:"lookahead_lines" yaml:"lookahead_lines" mapstructure:"lookahead_lines" validate:"min=1"`

	// Writers is the number of chunk files written concurrently.
	Writers int `json:"writers" yaml:"writers" mapstructure:"writers" validate:"min=1,max=64"`
}

// AIConfig holds settings for the AI cleanup stage.
type AIConfig struct {
	// Enabled turns the AI cleanup stage on for full workflow runs.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// Model is the chat completion model identifier (e.g. "gpt-4o-mini").
	Model string `json:"model" yaml:"model" mapstructure:"model" validate:"required"`

	// APIKey is the authentication key for the completion API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// MaxTokens caps the completion length per page.
	MaxTokens int `json:"max_tokens" yaml:"max_tokens" mapstructure:"max_tokens" validate:"min=1"`

	// Temperature is the sampling temperature.
	Temperature float64 `json:"temperature" yaml:"temperature" mapstructure:"temperature" validate:"min=0,max=2"`

	// MaxRetries is the number of retry attempts for a failed page (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries" validate:"min=0"`

	// Timeout bounds a single completion call.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// MaxPageChars truncates oversized pages before they are sent.
	MaxPageChars int `json:"max_page_chars" yaml:"max_page_chars" mapstructure:"max_page_chars" validate:"min=1"`
}

// CacheConfig selects where AI cleanup responses are cached.
type CacheConfig struct {
	// Provider is "none", "memory" or "redis".
	Provider string `json:"provider" yaml:"provider" mapstructure:"provider" validate:"oneof=none memory redis"`

	// RedisURL is a redis:// connection URL, required for the redis provider.
	RedisURL string `json:"redis_url,omitempty" yaml:"redis_url,omitempty" mapstructure:"redis_url" validate:"required_if=Provider redis"`

	// TTL is how long a cached page survives. Zero keeps entries forever.
	TTL time.Duration `json:"ttl" yaml:"ttl" mapstructure:"ttl"`
}

// SourceConfig describes where the rulebook PDF is downloaded from when it
// is not on disk.
type SourceConfig struct {
	// URL is the published PDF location. Empty disables downloading.
	URL string `json:"url,omitempty" yaml:"url,omitempty" mapstructure:"url" validate:"omitempty,url"`

	UserAgent  string        `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
	Timeout    time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
	MaxRetries int           `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries" validate:"min=0"`
}

// ContainerConfig selects the container runtime and image for the
// markitdown backend.
type ContainerConfig struct {
	// Runtime is "auto", "docker" or "podman". Auto tries docker first.
	Runtime string `json:"runtime" yaml:"runtime" mapstructure:"runtime" validate:"oneof=auto docker podman"`

	// Image is the markitdown image reference.
	Image string `json:"image" yaml:"image" mapstructure:"image" validate:"required"`
}

// ServerConfig holds settings for the HTTP API.
type ServerConfig struct {
	// Addr is the listen address (e.g. ":8090").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr" validate:"required"`

	// MaxBodyBytes limits the size of a submitted document.
	MaxBodyBytes int64 `json:"max_body_bytes" yaml:"max_body_bytes" mapstructure:"max_body_bytes" validate:"min=1"`
}

// LoggingConfig controls the structured diagnostics logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level" yaml:"level" mapstructure:"level" validate:"oneof=debug info warn error"`

	// Format is "text" or "json".
	Format string `json:"format" yaml:"format" mapstructure:"format" validate:"oneof=text json"`
}

// Config groups every stage configuration. It is passed explicitly into each
// entry point; DefaultConfig supplies the values used when nothing overrides
// them.
type Config struct {
	Backend   ConversionBackend `json:"backend" yaml:"backend" mapstructure:"backend" validate:"oneof=pdf markitdown"`
	Files     FilesConfig       `json:"files" yaml:"files" mapstructure:"files"`
	Source    SourceConfig      `json:"source" yaml:"source" mapstructure:"source"`
	Container ContainerConfig   `json:"container" yaml:"container" mapstructure:"container"`
	Chunking  ChunkingConfig    `json:"chunking" yaml:"chunking" mapstructure:"chunking"`
	AI        AIConfig          `json:"ai" yaml:"ai" mapstructure:"ai"`
	Cache     CacheConfig       `json:"cache" yaml:"cache" mapstructure:"cache"`
	Server    ServerConfig      `json:"server" yaml:"server" mapstructure:"server"`
	Logging   LoggingConfig     `json:"logging" yaml:"logging" mapstructure:"logging"`
}

// DefaultConfig returns the configuration used when no file, environment
// variable, or flag overrides a value.
func DefaultConfig() Config {
	return Config{
		Backend: BackendNative,
		Files: FilesConfig{
			InputPDF:      "SRD_CC_v5.2.1.pdf",
			RawText:       "srd_raw_text.txt",
			BasicMarkdown: "srd_cleaned_output.md",
			AIMarkdown:    "srd_ai_cleaned.md",
			ExportDir:     "export",
			Suffix:        "SRD_5_2",
		},
		Source: SourceConfig{
			UserAgent:  "rulebook-engine/0.1",
			Timeout:    5 * time.Minute,
			MaxRetries: 4,
		},
		Container: ContainerConfig{
			Runtime: "auto",
			Image:   "markitdown:latest",
		},
		Chunking: ChunkingConfig{
			TargetMin:      200,
			TargetMax:      500,
			LookaheadLines: 10,
			Writers:        4,
		},
		AI: AIConfig{
			Enabled:      true,
			Model:        "gpt-4o-mini",
			MaxTokens:    4000,
			Temperature:  0.1,
			MaxRetries:   3,
			Timeout:      60 * time.Second,
			MaxPageChars: 12000,
		},
		Cache: CacheConfig{
			Provider: "none",
			TTL:      30 * 24 * time.Hour,
		},
		Server: ServerConfig{
			Addr:         ":8090",
			MaxBodyBytes: 20 << 20,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
