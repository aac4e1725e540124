package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("ENV", "")
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	return filepath.Join(dir, appName)
}

func writeConfig(t *testing.T, path string, cfg any) {
	t.Helper()
	data, err := json.Marshal(cfg)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), dirPerm))
	require.NoError(t, os.WriteFile(path, data, filePerm))
}

func TestLoadCreatesDefaultConfig(t *testing.T) {
	configDir := isolate(t)

	m, err := NewManager()
	require.NoError(t, err)
	require.NoError(t, m.Load())

	assert.FileExists(t, filepath.Join(configDir, "config.json"))
	assert.FileExists(t, filepath.Join(configDir, "config.schema.json"))
	assert.Equal(t, filepath.Join(configDir, "config.json"), m.GetConfigFile())

	cfg := m.Get()
	assert.Equal(t, DefaultConfig().Host, cfg.Host)
	assert.Equal(t, ".dll", cfg.Modules.DefaultExtension)
	assert.True(t, cfg.Modules.UseMmap)
	assert.Empty(t, cfg.Modules.SearchPath)
	assert.NotEmpty(t, cfg.Modules.Dirs())
}

func TestLoadExplicitFile(t *testing.T) {
	configDir := isolate(t)
	path := filepath.Join(t.TempDir(), "custom.json")
	writeConfig(t, path, map[string]any{
		"modules": map[string]any{"search_path": []string{"/opt/modules"}, "use_mmap": false},
		"logging": map[string]any{"level": "DEBUG"},
		"host":    map[string]any{"read_chunk": 16},
	})

	m, err := NewManager(WithConfigFile(path))
	require.NoError(t, err)
	require.NoError(t, m.Load())

	cfg := m.Get()
	assert.Equal(t, []string{"/opt/modules"}, cfg.Modules.Dirs())
	assert.False(t, cfg.Modules.UseMmap)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 16, cfg.Host.ReadChunk)
	assert.Equal(t, defaultConcurrency, cfg.Host.Concurrency)
	assert.NoFileExists(t, filepath.Join(configDir, "config.json"))
}

func TestLoadExplicitFileMissing(t *testing.T) {
	isolate(t)
	m, err := NewManager(WithConfigFile(filepath.Join(t.TempDir(), "nope.json")))
	require.NoError(t, err)
	assert.Error(t, m.Load())
}

func TestEnvironmentOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("DUMBERPROTO_HOST_CONCURRENCY", "9")
	t.Setenv("DUMBERPROTO_MODULES_DEFAULT_EXTENSION", ".mui")
	t.Setenv("DUMBERPROTO_LOG_FORMAT", "json")

	m, err := NewManager()
	require.NoError(t, err)
	require.NoError(t, m.Load())

	cfg := m.Get()
	assert.Equal(t, 9, cfg.Host.Concurrency)
	assert.Equal(t, ".mui", cfg.Modules.DefaultExtension)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{name: "chunk", mutate: func(c *Config) { c.Host.ReadChunk = 0 }, want: "host.read_chunk"},
		{name: "concurrency", mutate: func(c *Config) { c.Host.Concurrency = -1 }, want: "host.concurrency"},
		{name: "level", mutate: func(c *Config) { c.Logging.Level = "loud" }, want: "logging.level"},
		{name: "format", mutate: func(c *Config) { c.Logging.Format = "xml" }, want: "logging.format"},
		{name: "extension", mutate: func(c *Config) { c.Modules.DefaultExtension = "dll" }, want: "modules.default_extension"},
		{name: "empty dir", mutate: func(c *Config) { c.Modules.SearchPath = []string{" "} }, want: "modules.search_path[0]"},
	}

	require.NoError(t, validateConfig(DefaultConfig()))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := validateConfig(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "bad.json")
	writeConfig(t, path, map[string]any{"host": map[string]any{"concurrency": 0}})

	m, err := NewManager(WithConfigFile(path))
	require.NoError(t, err)
	err = m.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "host.concurrency")
}

func TestGetReturnsCopy(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "c.json")
	writeConfig(t, path, map[string]any{"modules": map[string]any{"search_path": []string{"/a"}}})

	m, err := NewManager(WithConfigFile(path))
	require.NoError(t, err)
	require.NoError(t, m.Load())

	cfg := m.Get()
	cfg.Modules.SearchPath[0] = "/mutated"
	assert.Equal(t, []string{"/a"}, m.Get().Modules.SearchPath)
}

func TestWatchReloads(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "watched.json")
	writeConfig(t, path, map[string]any{"modules": map[string]any{"search_path": []string{"/first"}}})

	m, err := NewManager(WithConfigFile(path))
	require.NoError(t, err)
	require.NoError(t, m.Load())

	changed := make(chan *Config, 4)
	m.OnConfigChange(func(c *Config) { changed <- c })
	require.NoError(t, m.Watch(func(err error) { t.Log(err) }))
	require.NoError(t, m.Watch(nil))

	writeConfig(t, path, map[string]any{"modules": map[string]any{"search_path": []string{"/second"}}})

	select {
	case cfg := <-changed:
		assert.Equal(t, []string{"/second"}, cfg.Modules.SearchPath)
	case <-time.After(5 * time.Second):
		t.Fatal("config change not observed")
	}
}

func TestSchema(t *testing.T) {
	data, err := Schema()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "dumberproto configuration", doc["title"])
	assert.Contains(t, string(data), "search_path")
	assert.Contains(t, string(data), "read_chunk")
}

func TestXDGDevMode(t *testing.T) {
	t.Setenv("ENV", "dev")
	dirs, err := GetXDGDirs()
	require.NoError(t, err)

	cwd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cwd, ".dev", appName), dirs.ConfigHome)
}
