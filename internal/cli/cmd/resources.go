package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bnema/dumberproto/internal/cli/styles"
	"github.com/bnema/dumberproto/internal/domain/entity"
	"github.com/bnema/dumberproto/internal/infrastructure/peimage"
)

var resourcesCmd = &cobra.Command{
	Use:   "resources MODULE",
	Short: "List the resources embedded in a module",
	Long: `Load MODULE from the search path as data and list its resource table
with the res: URL that addresses each entry.`,
	Args: cobra.ExactArgs(1),
	RunE: runResources,
}

func init() {
	rootCmd.AddCommand(resourcesCmd)
}

func runResources(cmd *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return errAppNotInitialized
	}

	img, err := app.Loader.Open(args[0])
	if err != nil {
		return err
	}
	defer img.Close()

	rows := resourceRows(img)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s\n", app.Theme.AccentText(styles.IconPackage), app.Theme.Subtle.Render(img.Path))
	if len(rows) == 0 {
		fmt.Fprintln(out, app.Theme.Subtle.Render("  no resources"))
		return nil
	}
	fmt.Fprintln(out, styles.RenderResourceTable(app.Theme, rows))
	return nil
}

func resourceRows(img *peimage.Image) []styles.ResourceRow {
	module := filepath.Base(img.Path)
	resources := img.Resources()
	rows := make([]styles.ResourceRow, 0, len(resources))
	for _, r := range resources {
		rows = append(rows, styles.ResourceRow{
			Type: r.Type,
			Name: r.Name,
			Lang: r.Lang,
			Size: int(r.Size),
			URL:  resourceURL(module, r.Type, r.Name),
		})
	}
	return rows
}

// resourceURL returns the res: URL that resolves to the resource. The type
// segment is omitted for the default type.
func resourceURL(module string, typ, name entity.ResourceID) string {
	if typ == entity.DefaultResourceType {
		return fmt.Sprintf("res://%s/%s", module, name)
	}
	return fmt.Sprintf("res://%s/%s/%s", module, typ, name)
}
