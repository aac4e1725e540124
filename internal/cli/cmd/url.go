package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/dumberproto/internal/application/port"
	"github.com/bnema/dumberproto/internal/cli/styles"
	"github.com/bnema/dumberproto/internal/domain/entity"
)

// initialURLCapacity is the first capacity offered to ParseURL, in
// characters. A larger one is offered once when the handler asks for it.
const initialURLCapacity = 260

var securityURLCmd = &cobra.Command{
	Use:   "security-url URL",
	Short: "Print the security URL of an about: or res: URL",
	Long: `Ask the scheme's protocol info for the URL a host should use for
security decisions. res: URLs map to the file:// URL of their module.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runParseURL(cmd, args[0], entity.ParseSecurityURL)
	},
}

var domainCmd = &cobra.Command{
	Use:   "domain URL",
	Short: "Print the domain of an about: or res: URL",
	Long: `Ask the scheme's protocol info for the URL's domain. Neither scheme has
one; the handler reports the buffer size a host would need.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runParseURL(cmd, args[0], entity.ParseDomain)
	},
}

func init() {
	rootCmd.AddCommand(securityURLCmd)
	rootCmd.AddCommand(domainCmd)
}

func runParseURL(cmd *cobra.Command, rawURL string, action entity.ParseAction) error {
	app := GetApp()
	if app == nil {
		return errAppNotInitialized
	}

	entry, err := app.Registry.ForURL(rawURL)
	if err != nil {
		return err
	}

	renderer := styles.NewFetchRenderer(app.Theme)
	label := "security url"
	if action == entity.ParseDomain {
		label = "domain"
	}

	out, err := parseURL(entry.Info, rawURL, action)
	switch {
	case err == nil:
		fmt.Fprintln(cmd.OutOrStdout(), renderer.RenderValue(label, out))
		return nil
	case errors.Is(err, entity.ErrNotApplicable):
		need, _ := entity.RequiredSize(err)
		fmt.Fprintln(cmd.OutOrStdout(), renderer.RenderValue(label, fmt.Sprintf("not applicable (%d characters)", need)))
		return nil
	case errors.Is(err, entity.ErrDefaultAction):
		fmt.Fprintln(cmd.OutOrStdout(), renderer.RenderValue(label, "host default"))
		return nil
	default:
		return fmt.Errorf("%s %s: %w", label, rawURL, err)
	}
}

// parseURL calls ParseURL and retries once with the capacity the handler
// asked for when the first one was too small.
func parseURL(info port.ProtocolInfo, rawURL string, action entity.ParseAction) (string, error) {
	capacity := initialURLCapacity
	for {
		out, err := info.ParseURL(rawURL, action, capacity)
		if err == nil || !errors.Is(err, entity.ErrBufferTooSmall) {
			return out, err
		}
		need, ok := entity.RequiredSize(err)
		if !ok || need <= capacity {
			return "", err
		}
		capacity = need
	}
}
