package config

// Default configuration constants
const (
	defaultExtension   = ".dll"
	defaultReadChunk   = 4096 // bytes
	defaultConcurrency = 4    // parallel fetches
)

// DefaultConfig returns the default configuration values for dumberproto.
func DefaultConfig() *Config {
	return &Config{
		Modules: ModulesConfig{
			SearchPath:       []string{},
			DefaultExtension: defaultExtension,
			UseMmap:          true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Host: HostConfig{
			ReadChunk:   defaultReadChunk,
			Concurrency: defaultConcurrency,
		},
	}
}
