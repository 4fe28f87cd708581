// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		dirs  []string
		want  []string
	}{
		{
			name: "known keys trimmed",
			files: map[string]string{
				OpenAIAPIKey: "  sk-abc123  \n",
				RedisURL:     "redis://localhost:6379/0\n",
			},
			want: []string{OpenAIAPIKey, RedisURL},
		},
		{
			name:  "blank files ignored",
			files: map[string]string{OpenAIAPIKey: "sk", "empty": "", "spaces": " \n\t"},
			want:  []string{OpenAIAPIKey},
		},
		{
			name:  "dotfiles and directories ignored",
			files: map[string]string{".gitkeep": "", ".hidden": "x", RedisURL: "redis://cache"},
			dirs:  []string{"nested"},
			want:  []string{RedisURL},
		},
		{
			name: "empty directory",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for name, content := range tt.files {
				writeFile(t, dir, name, content)
			}
			for _, d := range tt.dirs {
				require.NoError(t, os.Mkdir(filepath.Join(dir, d), 0o755))
			}

			s, err := Load(dir)
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.Keys())
			assert.Empty(t, s.Skipped())
		})
	}
}

func TestLoadMissingDir(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.Empty(t, s.Keys())
}

func TestLoadUnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores file permissions")
	}
	dir := t.TempDir()
	writeFile(t, dir, OpenAIAPIKey, "sk-good")
	bad := filepath.Join(dir, RedisURL)
	require.NoError(t, os.WriteFile(bad, []byte("redis://x"), 0o000))
	t.Cleanup(func() { os.Chmod(bad, 0o644) })

	s, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "sk-good", s.Get(OpenAIAPIKey))
	assert.Equal(t, []string{RedisURL}, s.Skipped())
}

func TestGet(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-from-env")
	t.Setenv("REDIS_URL", "")

	dir := t.TempDir()
	writeFile(t, dir, RedisURL, "redis://file:6379")
	s, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "sk-from-env", s.Get(OpenAIAPIKey))
	assert.Equal(t, "redis://file:6379", s.Get(RedisURL))
	assert.Empty(t, s.Get("unknown-key"))

	writeFile(t, dir, OpenAIAPIKey, "sk-from-file")
	s, err = Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "sk-from-file", s.Get(OpenAIAPIKey), "file wins over environment")

	var nilStore *Store
	assert.Equal(t, "sk-from-env", nilStore.Get(OpenAIAPIKey))
}

func TestApply(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("REDIS_URL", "redis://env")

	dir := t.TempDir()
	writeFile(t, dir, OpenAIAPIKey, "sk-file")
	writeFile(t, dir, "unrelated", "value")
	s, err := Load(dir)
	require.NoError(t, err)

	got := map[string]any{}
	s.Apply(func(key string, value any) { got[key] = value })

	assert.Equal(t, map[string]any{
		"ai.api_key":      "sk-file",
		"cache.redis_url": "redis://env",
	}, got)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
