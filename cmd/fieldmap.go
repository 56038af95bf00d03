package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pders01/modeldrift/internal/match"
	"github.com/pders01/modeldrift/internal/registry"
	"github.com/pders01/modeldrift/internal/report"
)

var (
	fieldmapManifest string
	fieldmapSource   string
	fieldmapJSON     bool
	fieldmapToon     bool
)

var fieldmapCmd = &cobra.Command{
	Use:   "fieldmap <source-model> <target-model>",
	Short: "Map fields from one model onto another",
	Long: `Pair the fields of two models: same-named fields first, then the
conventional id renames (id <-> casefile_id, user_id <-> owner_id).

Example:
  modeldrift fieldmap CasefileResponse GrantPermissionRequest`,
	Args: cobra.ExactArgs(2),
	RunE: runFieldmap,
}

func init() {
	rootCmd.AddCommand(fieldmapCmd)

	fieldmapCmd.Flags().StringVar(&fieldmapManifest, "manifest", "", "Registry manifest exported by the application")
	fieldmapCmd.Flags().StringVar(&fieldmapSource, "source", "", "Source tree used when no manifest is given")
	fieldmapCmd.Flags().BoolVar(&fieldmapJSON, "json", false, "Output as JSON")
	fieldmapCmd.Flags().BoolVar(&fieldmapToon, "toon", false, "Output in LLM-friendly toon format")
}

func runFieldmap(cmd *cobra.Command, args []string) error {
	w := stdout(cmd)
	ctx := context.Background()

	src, err := loadSources(ctx, fieldmapManifest, fieldmapSource)
	if err != nil {
		return err
	}

	source, err := registry.Lookup(ctx, src.Records, args[0])
	if err != nil {
		return modelNotFound(err, args[0])
	}
	target, err := registry.Lookup(ctx, src.Records, args[1])
	if err != nil {
		return modelNotFound(err, args[1])
	}

	mappings := match.Fields(source, target, match.DefaultSemanticPairs)

	if done, err := printStructured(w, fieldmapJSON, fieldmapToon, mappings); done || err != nil {
		return err
	}
	report.FieldMappings(w, source.Name, target.Name, mappings)
	return nil
}

func modelNotFound(err error, name string) error {
	if errors.Is(err, registry.ErrRecordNotFound) {
		return fmt.Errorf("model '%s' not found", name)
	}
	return err
}
