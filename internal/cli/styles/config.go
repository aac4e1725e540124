package styles

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/dumberproto/internal/config"
)

// ConfigRenderer renders the effective configuration with styled output.
type ConfigRenderer struct {
	theme *Theme
}

// NewConfigRenderer creates a new config renderer with the given theme.
func NewConfigRenderer(theme *Theme) *ConfigRenderer {
	return &ConfigRenderer{theme: theme}
}

// RenderConfig renders the config file path followed by every setting.
func (r *ConfigRenderer) RenderConfig(path string, cfg *config.Config) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Accent)
	keyStyle := r.theme.Subtle
	valStyle := r.theme.Highlight

	if path == "" {
		path = "(defaults and environment only)"
	}

	searchPath := strings.Join(cfg.Modules.SearchPath, ", ")
	if searchPath == "" {
		searchPath = strings.Join(cfg.Modules.Dirs(), ", ") + " (default)"
	}

	settings := []struct{ key, value string }{
		{"modules.search_path", searchPath},
		{"modules.default_extension", cfg.Modules.DefaultExtension},
		{"modules.use_mmap", strconv.FormatBool(cfg.Modules.UseMmap)},
		{"logging.level", cfg.Logging.Level},
		{"logging.format", cfg.Logging.Format},
		{"host.read_chunk", strconv.Itoa(cfg.Host.ReadChunk)},
		{"host.concurrency", strconv.Itoa(cfg.Host.Concurrency)},
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("\n  %s Config %s\n\n", iconStyle.Render(IconConfig), keyStyle.Render(path)))
	for _, s := range settings {
		sb.WriteString(fmt.Sprintf("    %s %-26s %s\n", iconStyle.Render(IconCursor), keyStyle.Render(s.key), valStyle.Render(s.value)))
	}
	return sb.String()
}

// RenderSchemaWritten renders the confirmation after writing the schema file.
func (r *ConfigRenderer) RenderSchemaWritten(path string) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Success)
	return fmt.Sprintf("\n  %s Schema written to %s\n", iconStyle.Render(IconCheck), r.theme.Subtle.Render(path))
}

// RenderError renders an error message.
func (r *ConfigRenderer) RenderError(err error) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Error)
	return fmt.Sprintf("\n  %s %s\n", iconStyle.Render(IconX), r.theme.ErrorStyle.Render(err.Error()))
}
