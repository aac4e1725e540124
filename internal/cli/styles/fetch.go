package styles

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/dumberproto/internal/domain/entity"
)

// FetchRenderer renders per-URL status lines for fetch and the URL commands.
type FetchRenderer struct {
	theme *Theme
}

// NewFetchRenderer creates a new fetch renderer with the given theme.
func NewFetchRenderer(theme *Theme) *FetchRenderer {
	return &FetchRenderer{theme: theme}
}

// RenderStatus renders one fetched URL with its status, type and size.
func (r *FetchRenderer) RenderStatus(uri string, status int, contentType string, size int) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Success)
	icon := IconCheck
	if status >= 400 {
		iconStyle = lipgloss.NewStyle().Foreground(r.theme.Error)
		icon = IconX
	}
	return fmt.Sprintf("%s %s %s %s %s",
		iconStyle.Render(icon),
		r.theme.Normal.Render(uri),
		r.theme.StatusBadge(status),
		r.theme.MutedBadge(contentType),
		r.theme.SizeBadge(size),
	)
}

// RenderFailure renders a failed URL with its result code and cause.
func (r *FetchRenderer) RenderFailure(uri string, status int, err error) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Error)
	return fmt.Sprintf("%s %s %s %s\n    %s",
		iconStyle.Render(IconX),
		r.theme.Normal.Render(uri),
		r.theme.StatusBadge(status),
		r.theme.MutedBadge(entity.StatusCode(err).String()),
		r.theme.ErrorStyle.Render(err.Error()),
	)
}

// RenderValue renders the answer of a URL query.
func (r *FetchRenderer) RenderValue(label, value string) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Accent)
	return fmt.Sprintf("%s %s %s", iconStyle.Render(IconArrow), r.theme.Subtle.Render(label), r.theme.Highlight.Render(value))
}

// RenderSummary renders the final tally of a fetch run.
func (r *FetchRenderer) RenderSummary(ok, failed int) string {
	if failed == 0 {
		return r.theme.SuccessStyle.Render(fmt.Sprintf("%s %d fetched", IconCheck, ok))
	}
	return r.theme.WarningStyle.Render(fmt.Sprintf("%s %d fetched, %d failed", IconWarning, ok, failed))
}
