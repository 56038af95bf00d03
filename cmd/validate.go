package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/pders01/modeldrift/internal/config"
	"github.com/pders01/modeldrift/internal/inventory"
	"github.com/pders01/modeldrift/internal/registry"
	"github.com/pders01/modeldrift/internal/report"
)

var (
	validateInventory string
	validateManifest  string
	validateSource    string
	validateJSON      bool
	validateToon      bool
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the methods inventory against the code",
	Long: `Cross-check every inventory method against where it should live:
  internal  must be registered in the method registry
  external  implementation class must be in the service map
  hybrid    either of the above

Request/response model mismatches and models missing from the code are
warnings. Exits 1 when any error is found.

The service map is configured under [inventory.service_map].

Examples:
  modeldrift validate --inventory methods_inventory.yaml
  modeldrift validate --inventory methods_inventory.yaml --manifest registry.yaml --json`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateInventory, "inventory", "", "Methods inventory YAML (required)")
	validateCmd.Flags().StringVar(&validateManifest, "manifest", "", "Registry manifest exported by the application")
	validateCmd.Flags().StringVar(&validateSource, "source", "", "Source tree used when no manifest is given")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Output as JSON")
	validateCmd.Flags().BoolVar(&validateToon, "toon", false, "Output in LLM-friendly toon format")
}

func runValidate(cmd *cobra.Command, args []string) error {
	w := stdout(cmd)
	ctx := context.Background()

	if validateInventory == "" {
		return fmt.Errorf("--inventory is required")
	}

	inv, err := inventory.Load(afero.NewOsFs(), validateInventory)
	if err != nil {
		return err
	}

	src, err := loadSources(ctx, validateManifest, validateSource)
	if err != nil {
		return err
	}
	methods, err := src.Methods.ListMethods(ctx)
	if err != nil {
		return fmt.Errorf("failed to list methods: %w", err)
	}
	known, err := registry.Names(ctx, src.Records)
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}

	res := inventory.Validate(inv, methods, config.GetServiceMap(), known)

	if done, err := printStructured(w, validateJSON, validateToon, res); err != nil {
		return err
	} else if !done {
		report.Validation(w, res)
	}

	if !res.OK() {
		return errChecksFailed
	}
	return nil
}
