// Package config provides configuration management for dumberproto with Viper integration.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// File permission constants
const (
	dirPerm  = 0755 // Standard directory permissions (rwxr-xr-x)
	filePerm = 0644 // Standard file permissions (rw-r--r--)
)

const envPrefix = "DUMBERPROTO"

// Config represents the complete configuration for dumberproto.
type Config struct {
	Modules ModulesConfig `mapstructure:"modules" yaml:"modules" json:"modules"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging" json:"logging"`
	Host    HostConfig    `mapstructure:"host" yaml:"host" json:"host"`
}

// ModulesConfig controls how module images are located and mapped.
type ModulesConfig struct {
	// SearchPath lists directories searched for module images, in order.
	// Empty means the working directory followed by the executable's directory.
	SearchPath []string `mapstructure:"search_path" yaml:"search_path" json:"search_path"`
	// DefaultExtension is appended to module names without an extension.
	DefaultExtension string `mapstructure:"default_extension" yaml:"default_extension" json:"default_extension"`
	// UseMmap maps images read-only instead of reading them into memory.
	UseMmap bool `mapstructure:"use_mmap" yaml:"use_mmap" json:"use_mmap"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level" json:"level" jsonschema:"enum=trace,enum=debug,enum=info,enum=warn,enum=error"`
	Format string `mapstructure:"format" yaml:"format" json:"format" jsonschema:"enum=console,enum=json"`
}

// HostConfig tunes the reference host that drives sessions.
type HostConfig struct {
	// ReadChunk is the buffer size of each Read in the pull loop.
	ReadChunk int `mapstructure:"read_chunk" yaml:"read_chunk" json:"read_chunk" jsonschema:"minimum=1"`
	// Concurrency bounds parallel fetches.
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency" json:"concurrency" jsonschema:"minimum=1"`
}

// Dirs returns the effective module search path.
func (m ModulesConfig) Dirs() []string {
	if len(m.SearchPath) > 0 {
		return m.SearchPath
	}

	var dirs []string
	if cwd, err := os.Getwd(); err == nil {
		dirs = append(dirs, cwd)
	}
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}
	return dirs
}

// Manager handles configuration loading, watching, and reloading.
type Manager struct {
	config    *Config
	viper     *viper.Viper
	mu        sync.RWMutex
	callbacks []func(*Config)
	watching  bool
	explicit  bool
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithConfigFile reads configuration from path instead of searching the
// config directories. No default file is created.
func WithConfigFile(path string) ManagerOption {
	return func(m *Manager) {
		if path == "" {
			return
		}
		m.viper.SetConfigFile(path)
		m.explicit = true
	}
}

// NewManager creates a new configuration manager.
func NewManager(opts ...ManagerOption) (*Manager, error) {
	v := viper.New()

	// Will find config.json, config.yaml, config.toml, etc.
	v.SetConfigName("config")

	configDir, err := GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindings := map[string]string{
		"modules.search_path":       "MODULES_SEARCH_PATH",
		"modules.default_extension": "MODULES_DEFAULT_EXTENSION",
		"modules.use_mmap":          "MODULES_USE_MMAP",
		"logging.level":             "LOG_LEVEL",
		"logging.format":            "LOG_FORMAT",
		"host.read_chunk":           "HOST_READ_CHUNK",
		"host.concurrency":          "HOST_CONCURRENCY",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, envPrefix+"_"+env); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable %s: %w", env, err)
		}
	}

	m := &Manager{
		viper:     v,
		callbacks: make([]func(*Config), 0),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Load loads the configuration from file and environment variables.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.setDefaults()

	if err := m.viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) || m.explicit {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		if err := m.createDefaultConfig(); err != nil {
			return fmt.Errorf("failed to create default config: %w", err)
		}
		if err := m.viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read default config: %w", err)
		}
	}

	config, err := m.decode()
	if err != nil {
		return err
	}
	m.config = config
	return nil
}

func (m *Manager) decode() (*Config, error) {
	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.Logging.Level = strings.ToLower(config.Logging.Level)
	config.Logging.Format = strings.ToLower(config.Logging.Format)
	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

// Get returns the current configuration (thread-safe).
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config == nil {
		return DefaultConfig()
	}

	// Return a copy to prevent external modification
	configCopy := *m.config
	configCopy.Modules.SearchPath = append([]string(nil), m.config.Modules.SearchPath...)
	return &configCopy
}

// Watch starts watching the config file for changes and reloads automatically.
// Reload failures are passed to onError and the previous configuration is kept.
func (m *Manager) Watch(onError func(error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.watching {
		return nil
	}
	if m.viper.ConfigFileUsed() == "" {
		return fmt.Errorf("no configuration file to watch")
	}

	m.viper.OnConfigChange(func(_ fsnotify.Event) {
		if err := m.reload(); err != nil {
			if onError != nil {
				onError(fmt.Errorf("failed to reload config: %w", err))
			}
			return
		}

		m.mu.RLock()
		config := m.config
		callbacks := make([]func(*Config), len(m.callbacks))
		copy(callbacks, m.callbacks)
		m.mu.RUnlock()

		for _, callback := range callbacks {
			callback(config)
		}
	})
	m.viper.WatchConfig()

	m.watching = true
	return nil
}

// OnConfigChange registers a callback function to be called when config changes.
func (m *Manager) OnConfigChange(callback func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.callbacks = append(m.callbacks, callback)
}

// reload re-reads the configuration file.
func (m *Manager) reload() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.viper.ReadInConfig(); err != nil {
		return err
	}
	config, err := m.decode()
	if err != nil {
		return err
	}
	m.config = config
	return nil
}

// setDefaults sets default configuration values in Viper.
func (m *Manager) setDefaults() {
	defaults := DefaultConfig()

	m.viper.SetDefault("modules.search_path", defaults.Modules.SearchPath)
	m.viper.SetDefault("modules.default_extension", defaults.Modules.DefaultExtension)
	m.viper.SetDefault("modules.use_mmap", defaults.Modules.UseMmap)

	m.viper.SetDefault("logging.level", defaults.Logging.Level)
	m.viper.SetDefault("logging.format", defaults.Logging.Format)

	m.viper.SetDefault("host.read_chunk", defaults.Host.ReadChunk)
	m.viper.SetDefault("host.concurrency", defaults.Host.Concurrency)
}

// createDefaultConfig writes the default configuration and its schema.
func (m *Manager) createDefaultConfig() error {
	configFile, err := GetConfigFile()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configFile), dirPerm); err != nil {
		return err
	}

	configData, err := json.MarshalIndent(DefaultConfig(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal default config: %w", err)
	}

	if err := os.WriteFile(configFile, configData, filePerm); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	if _, err := GenerateSchemaFile(); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Created default configuration file: %s\n", configFile)
	return nil
}

// GetConfigFile returns the path to the configuration file being used.
func (m *Manager) GetConfigFile() string {
	return m.viper.ConfigFileUsed()
}
