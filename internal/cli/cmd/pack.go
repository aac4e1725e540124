package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bnema/dumberproto/internal/cli/styles"
	"github.com/bnema/dumberproto/internal/domain/entity"
	"github.com/bnema/dumberproto/internal/infrastructure/peimage"
)

var (
	packOutput string
	packType   string
)

var packCmd = &cobra.Command{
	Use:   "pack -o OUT NAME=FILE...",
	Short: "Build a resource-only module image",
	Long: `Write a PE image whose only content is a resource table holding each
FILE under NAME, so that res://OUT/NAME serves it.

Resources default to the HTML type (23); --type selects another. "#123"
names a numeric id.

Example:
  dumberproto pack -o pages.dll index.htm=./index.htm '#404=./404.htm'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPack,
}

func init() {
	rootCmd.AddCommand(packCmd)
	packCmd.Flags().StringVarP(&packOutput, "output", "o", "", "image file to write")
	packCmd.Flags().StringVarP(&packType, "type", "t", "23", "resource type for every entry")
	_ = packCmd.MarkFlagRequired("output")
}

func runPack(cmd *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return errAppNotInitialized
	}

	entries, err := parsePackArgs(args)
	if err != nil {
		return err
	}
	data, err := buildPack(entity.ParseTypeHint(packType), entries)
	if err != nil {
		return err
	}
	if err := os.WriteFile(packOutput, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", packOutput, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n",
		app.Theme.AccentText(styles.IconCheck),
		app.Theme.Normal.Render(packOutput),
		app.Theme.SizeBadge(len(data)),
	)
	return nil
}

// packEntry is one NAME=FILE argument.
type packEntry struct {
	Name entity.ResourceID
	Path string
}

func parsePackArgs(args []string) ([]packEntry, error) {
	seen := make(map[string]bool, len(args))
	entries := make([]packEntry, 0, len(args))
	for _, arg := range args {
		name, path, ok := strings.Cut(arg, "=")
		if !ok || name == "" || path == "" {
			return nil, fmt.Errorf("invalid entry %q: want NAME=FILE", arg)
		}
		id := entity.ParseResourceID(name)
		key := strings.ToUpper(id.String())
		if seen[key] {
			return nil, fmt.Errorf("duplicate resource name %q", name)
		}
		seen[key] = true
		entries = append(entries, packEntry{Name: id, Path: path})
	}
	if len(entries) == 0 {
		return nil, errors.New("no resources to pack")
	}
	return entries, nil
}

// buildPack reads every entry's file and renders the image.
func buildPack(typ entity.ResourceID, entries []packEntry) ([]byte, error) {
	b := peimage.NewBuilder()
	for _, e := range entries {
		data, err := os.ReadFile(e.Path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Path, err)
		}
		b.Add(typ, e.Name, data)
	}
	return b.Bytes()
}
