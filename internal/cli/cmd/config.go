package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/dumberproto/internal/cli/styles"
	"github.com/bnema/dumberproto/internal/config"
)

var configSchemaWrite bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
	Long:  `Show the effective configuration or print its JSON schema.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long:  `Display the config file in use and every setting after defaults and environment overrides.`,
	RunE:  runConfigShow,
}

var configSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the configuration JSON schema",
	Long: `Print the JSON schema of the configuration file.

With --write, the schema is written next to the config file instead.`,
	RunE: runConfigSchema,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSchemaCmd)
	configSchemaCmd.Flags().BoolVarP(&configSchemaWrite, "write", "w", false, "write config.schema.json to the config directory")
}

// runConfigShow prints the config file path and the effective settings.
func runConfigShow(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return errAppNotInitialized
	}

	path := ""
	if app.Manager != nil {
		path = app.Manager.GetConfigFile()
	}

	renderer := styles.NewConfigRenderer(app.Theme)
	fmt.Fprint(cmd.OutOrStdout(), renderer.RenderConfig(path, app.Config))
	return nil
}

// runConfigSchema prints or writes the configuration schema.
func runConfigSchema(cmd *cobra.Command, _ []string) error {
	if configSchemaWrite {
		renderer := styles.NewConfigRenderer(styles.NewTheme())
		path, err := config.GenerateSchemaFile()
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), renderer.RenderError(err))
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), renderer.RenderSchemaWritten(path))
		return nil
	}

	data, err := config.Schema()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
