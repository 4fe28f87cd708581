// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/rulebook-engine/pkg/types"
)

// DefaultProfilesDir is where named profiles are stored.
const DefaultProfilesDir = "profiles"

// ErrProfileNotFound is returned when no stored or built-in profile has the
// requested name.
var ErrProfileNotFound = errors.New("profile not found")

var profileNameRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// BuiltinProfiles returns the profiles available without any file on disk.
func BuiltinProfiles() map[string]types.Config {
	fast := types.DefaultConfig()
	fast.Chunking.TargetMax = 300
	fast.AI.Enabled = false

	quality := types.DefaultConfig()
	quality.AI.Model = "gpt-4o"
	quality.AI.MaxTokens = 8000
	quality.AI.MaxRetries = 5
	quality.Chunking.TargetMin = 300
	quality.Chunking.TargetMax = 700

	return map[string]types.Config{
		"fast":    fast,
		"quality": quality,
	}
}

// SaveProfile writes cfg as <dir>/<name>.yaml and returns the path. The API
// key is never persisted.
func SaveProfile(dir, name string, cfg types.Config) (string, error) {
	if !profileNameRe.MatchString(name) {
		return "", fmt.Errorf("invalid profile name %q", name)
	}
	if err := Validate(cfg); err != nil {
		return "", err
	}
	cfg.AI.APIKey = ""

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("encoding profile %s: %w", name, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating profiles directory: %w", err)
	}
	path := filepath.Join(dir, name+".yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing profile %s: %w", name, err)
	}
	return path, nil
}

// LoadProfile reads <dir>/<name>.yaml over the defaults. A stored profile
// shadows a built-in one of the same name.
func LoadProfile(dir, name string) (types.Config, error) {
	path := filepath.Join(dir, name+".yaml")
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		if cfg, ok := BuiltinProfiles()[name]; ok {
			return cfg, nil
		}
		return types.Config{}, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	if err != nil {
		return types.Config{}, fmt.Errorf("reading profile %s: %w", name, err)
	}

	cfg := types.DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return types.Config{}, fmt.Errorf("parsing profile %s: %w", name, err)
	}
	if err := Validate(cfg); err != nil {
		return types.Config{}, fmt.Errorf("profile %s: %w", name, err)
	}
	return cfg, nil
}

// ListProfiles returns the built-in and stored profile names, sorted and
// without duplicates. A missing directory lists only the built-ins.
func ListProfiles(dir string) ([]string, error) {
	seen := make(map[string]bool)
	for name := range BuiltinProfiles() {
		seen[name] = true
	}

	entries, err := os.ReadDir(dir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading profiles directory %s: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".yaml" {
			continue
		}
		seen[strings.TrimSuffix(e.Name(), ".yaml")] = true
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
