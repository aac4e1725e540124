package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("config validation failed")

// validateConfig performs validation of configuration values
func validateConfig(config *Config) error {
	var validationErrors []string

	switch config.Logging.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		validationErrors = append(validationErrors, fmt.Sprintf("logging.level must be one of: trace, debug, info, warn, error (got: %s)", config.Logging.Level))
	}

	switch config.Logging.Format {
	case "console", "json":
	default:
		validationErrors = append(validationErrors, fmt.Sprintf("logging.format must be one of: console, json (got: %s)", config.Logging.Format))
	}

	if config.Host.ReadChunk < 1 {
		validationErrors = append(validationErrors, "host.read_chunk must be positive")
	}
	if config.Host.Concurrency < 1 {
		validationErrors = append(validationErrors, "host.concurrency must be positive")
	}

	if ext := config.Modules.DefaultExtension; ext != "" && !strings.HasPrefix(ext, ".") {
		validationErrors = append(validationErrors, fmt.Sprintf("modules.default_extension must start with a dot (got: %s)", ext))
	}
	for i, dir := range config.Modules.SearchPath {
		if strings.TrimSpace(dir) == "" {
			validationErrors = append(validationErrors, fmt.Sprintf("modules.search_path[%d] must not be empty", i))
		}
	}

	if len(validationErrors) > 0 {
		return fmt.Errorf("%w:\n  - %s", ErrInvalidConfig, strings.Join(validationErrors, "\n  - "))
	}

	return nil
}
