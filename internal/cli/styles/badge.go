package styles

import (
	"fmt"
	"net/http"

	"github.com/charmbracelet/lipgloss"
)

// StatusBadge renders an HTTP-like status code, colored by class.
func (t *Theme) StatusBadge(code int) string {
	text := fmt.Sprintf("%d %s", code, http.StatusText(code))
	switch {
	case code >= http.StatusInternalServerError:
		return t.Badge.Background(t.Error).Render(text)
	case code >= http.StatusBadRequest:
		return t.Badge.Background(t.Warning).Render(text)
	default:
		return t.Badge.Render(text)
	}
}

// SizeBadge renders a byte count badge.
func (t *Theme) SizeBadge(n int) string {
	return t.BadgeMuted.Render(FormatSize(n))
}

// MutedBadge renders a badge with muted colors.
func (t *Theme) MutedBadge(text string) string {
	return t.BadgeMuted.Render(text)
}

// AccentText renders text in the accent color.
func (t *Theme) AccentText(text string) string {
	return lipgloss.NewStyle().Foreground(t.Accent).Render(text)
}
