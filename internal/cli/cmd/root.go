// Package cmd provides Cobra CLI commands for dumberproto.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/dumberproto/internal/cli"
	"github.com/bnema/dumberproto/internal/domain/build"
)

var errAppNotInitialized = errors.New("app not initialized")

var (
	app        *cli.App
	buildInfo  build.Info
	configFile string
	logLevel   string
	rootCmd    = &cobra.Command{
		Use:   "dumberproto",
		Short: "about: and res: URL scheme handlers",
		Long: `dumberproto - pluggable handlers for the about: and res: URL schemes.

about:<text> synthesizes a small HTML document around the text after the
colon. res://<module>[/<type>]/<name> extracts a resource embedded in a
module image found on the configured search path.

The handlers are driven the way a browser host drives them: a session is
created per URL, started with a sink that receives progress, data and
result notifications, then read until exhausted.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip initialization for commands that don't need app context
			switch cmd.Name() {
			case "help", "completion", "schema":
				return nil
			}

			var err error
			app, err = cli.NewApp(cli.Options{
				ConfigFile: configFile,
				LogLevel:   logLevel,
			})
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			app.BuildInfo = buildInfo
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if app != nil {
				_ = app.Close()
			}
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default $XDG_CONFIG_HOME/dumberproto/config.json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logging.level (trace, debug, info, warn, error)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GetApp returns the initialized app (for use by subcommands).
func GetApp() *cli.App {
	return app
}

// SetBuildInfo sets the build information (called from main.go before Execute).
func SetBuildInfo(info build.Info) {
	buildInfo = info
}
