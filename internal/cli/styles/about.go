package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/dumberproto/internal/domain/build"
	"github.com/bnema/dumberproto/internal/domain/entity"
)

// VersionRenderer renders build info in fastfetch style.
type VersionRenderer struct {
	theme *Theme
}

// NewVersionRenderer creates a new version renderer with the given theme.
func NewVersionRenderer(theme *Theme) *VersionRenderer {
	return &VersionRenderer{theme: theme}
}

// Render renders build info and the registered schemes next to a logo.
func (r *VersionRenderer) Render(info build.Info, schemes []entity.SchemeID) string {
	logo := r.renderLogo()
	lines := r.renderInfoLines(info, schemes)

	return lipgloss.JoinHorizontal(lipgloss.Top, logo, "   ", lines)
}

func (r *VersionRenderer) renderLogo() string {
	logoStyle := lipgloss.NewStyle().Foreground(r.theme.Accent).Bold(true)

	logo := `██████▄
██   ██
██████▀
██
██`

	return logoStyle.MarginTop(1).MarginLeft(2).Render(logo)
}

func (r *VersionRenderer) renderInfoLines(info build.Info, schemes []entity.SchemeID) string {
	keyStyle := r.theme.Subtle
	valStyle := r.theme.Highlight
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Accent)

	names := make([]string, 0, len(schemes))
	for _, s := range schemes {
		names = append(names, s.Name+":")
	}

	lines := []string{
		fmt.Sprintf("%s %s %s", iconStyle.Render(IconVersion), keyStyle.Render("Version"), valStyle.Render(info.Version)),
		fmt.Sprintf("%s %s %s", iconStyle.Render(IconGitBranch), keyStyle.Render("Commit"), valStyle.Render(info.Commit)),
		fmt.Sprintf("%s %s %s", iconStyle.Render(IconCalendar), keyStyle.Render("Built"), valStyle.Render(info.BuildDate)),
		fmt.Sprintf("%s %s %s", iconStyle.Render(IconGo), keyStyle.Render("Go"), valStyle.Render(info.GoVersion)),
		fmt.Sprintf("%s %s %s", iconStyle.Render(IconArrow), keyStyle.Render("Schemes"), valStyle.Render(strings.Join(names, " "))),
		"",
		fmt.Sprintf("%s %s", iconStyle.Render(IconGithub), keyStyle.Render(build.RepoURL())),
		fmt.Sprintf(
			"%s %s %s",
			iconStyle.Render(IconHeart),
			keyStyle.Render("Made with love by"),
			valStyle.Render(strings.Join(build.Contributors(), ", ")),
		),
	}

	return strings.Join(lines, "\n")
}
