package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/dumberproto/internal/domain/entity"
)

var extractOutput string

var extractCmd = &cobra.Command{
	Use:   "extract MODULE TYPE NAME",
	Short: "Extract one resource from a module",
	Long: `Resolve NAME of TYPE in MODULE the way res: URLs are resolved and write
the raw bytes to stdout or --output.

TYPE and NAME accept "#123" for numeric ids; TYPE also accepts a plain
number (23 is HTML). A NAME that is a plain number falls back to that id
under the HTML type.`,
	Args: cobra.ExactArgs(3),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "write to file instead of stdout")
}

func runExtract(cmd *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return errAppNotInitialized
	}

	ref := entity.ResourceRef{
		Module:   args[0],
		TypeHint: entity.ParseTypeHint(args[1]),
		Name:     args[2],
	}
	data, err := app.Resolver.Resolve(ref)
	if err != nil {
		return err
	}

	if extractOutput == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(extractOutput, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", extractOutput, err)
	}
	app.Logger().Debug().Str("output", extractOutput).Int("size", len(data)).Msg("resource written")
	return nil
}
