// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config layers defaults, named profiles, a YAML config file,
// RULEBOOK_ENGINE_* environment variables and command-line flags into one
// validated types.Config.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/pdiddy/rulebook-engine/pkg/types"
)

// EnvPrefix is the environment variable prefix bound by viper.
const EnvPrefix = "RULEBOOK_ENGINE"

var validate = validator.New(validator.WithRequiredStructEnabled())

// SetDefaults registers every field of base as a viper default so that
// environment variables bind to known keys and Unmarshal sees a full tree.
func SetDefaults(v *viper.Viper, base types.Config) {
	v.SetDefault("backend", string(base.Backend))

	v.SetDefault("files.input_pdf", base.Files.InputPDF)
	v.SetDefault("files.raw_text", base.Files.RawText)
	v.SetDefault("files.basic_markdown", base.Files.BasicMarkdown)
	v.SetDefault("files.ai_markdown", base.Files.AIMarkdown)
	v.SetDefault("files.export_dir", base.Files.ExportDir)
	v.SetDefault("files.catalogue", base.Files.Catalogue)
	v.SetDefault("files.suffix", base.Files.Suffix)

	v.SetDefault("source.url", base.Source.URL)
	v.SetDefault("source.user_agent", base.Source.UserAgent)
	v.SetDefault("source.timeout", base.Source.Timeout)
	v.SetDefault("source.max_retries", base.Source.MaxRetries)

	v.SetDefault("container.runtime", base.Container.Runtime)
	v.SetDefault("container.image", base.Container.Image)

	v.SetDefault("chunking.target_min", base.Chunking.TargetMin)
	v.SetDefault("chunking.target_max", base.Chunking.TargetMax)
	v.SetDefault("chunking.lookahead_lines", base.Chunking.LookaheadLines)
	v.SetDefault("chunking.writers", base.Chunking.Writers)

	v.SetDefault("ai.enabled", base.AI.Enabled)
	v.SetDefault("ai.model", base.AI.Model)
	v.SetDefault("ai.api_key", base.AI.APIKey)
	v.SetDefault("ai.max_tokens", base.AI.MaxTokens)
	v.SetDefault("ai.temperature", base.AI.Temperature)
	v.SetDefault("ai.max_retries", base.AI.MaxRetries)
	v.SetDefault("ai.timeout", base.AI.Timeout)
	v.SetDefault("ai.max_page_chars", base.AI.MaxPageChars)

	v.SetDefault("cache.provider", base.Cache.Provider)
	v.SetDefault("cache.redis_url", base.Cache.RedisURL)
	v.SetDefault("cache.ttl", base.Cache.TTL)

	v.SetDefault("server.addr", base.Server.Addr)
	v.SetDefault("server.max_body_bytes", base.Server.MaxBodyBytes)

	v.SetDefault("logging.level", base.Logging.Level)
	v.SetDefault("logging.format", base.Logging.Format)
}

// BindEnv makes viper resolve keys such as chunking.target_min from
// RULEBOOK_ENGINE_CHUNKING_TARGET_MIN.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load unmarshals the resolved viper tree and validates it.
func Load(v *viper.Viper) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding configuration: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}

// Validate checks cfg against its struct constraints and reports every
// violated field.
func Validate(cfg types.Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating configuration: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg := fmt.Sprintf("%s failed %q", strings.TrimPrefix(fe.Namespace(), "Config."), fe.Tag())
		if fe.Param() != "" {
			msg += fmt.Sprintf(" (%s)", fe.Param())
		}
		msgs = append(msgs, msg)
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}
