// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets reads credentials kept out of the config file. A secrets
// directory holds one plain-text file per credential; the file name is the
// key and its trimmed contents the value. Known keys fall back to an
// environment variable when no file supplies them.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultDir is the secrets directory relative to the working directory.
const DefaultDir = ".secrets"

// Credential keys understood by the engine.
const (
	OpenAIAPIKey = "openai-api-key"
	RedisURL     = "redis-url"
)

// binding ties a credential to its environment fallback and the config key
// it fills.
type binding struct {
	env       string
	configKey string
}

var bindings = map[string]binding{
	OpenAIAPIKey: {env: "OPENAI_API_KEY", configKey: "ai.api_key"},
	RedisURL:     {env: "REDIS_URL", configKey: "cache.redis_url"},
}

// Store holds the credentials read from a secrets directory.
type Store struct {
	values  map[string]string
	skipped []string
}

// Load reads every regular, non-hidden file in dir. A missing directory
// yields an empty store. Files that cannot be read or are blank are skipped
// and listed by Skipped.
func Load(dir string) (*Store, error) {
	s := &Store{values: make(map[string]string)}

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			s.skipped = append(s.skipped, name)
			continue
		}
		if v := strings.TrimSpace(string(data)); v != "" {
			s.values[name] = v
		}
	}
	return s, nil
}

// Get returns the credential for key. A value from the directory wins over
// the key's environment fallback.
func (s *Store) Get(key string) string {
	if s != nil {
		if v, ok := s.values[key]; ok {
			return v
		}
	}
	if b, ok := bindings[key]; ok {
		return strings.TrimSpace(os.Getenv(b.env))
	}
	return ""
}

// Keys lists the credentials read from the directory, sorted.
func (s *Store) Keys() []string {
	if s == nil {
		return nil
	}
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Skipped lists files that could not be read.
func (s *Store) Skipped() []string {
	if s == nil {
		return nil
	}
	return s.skipped
}

// Apply passes every known credential that has a value to set, keyed by the
// config key it fills. Pass viper.SetDefault so that a config file or flag
// still overrides the secret.
func (s *Store) Apply(set func(key string, value any)) {
	for name, b := range bindings {
		if v := s.Get(name); v != "" {
			set(b.configKey, v)
		}
	}
}
