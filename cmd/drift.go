package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/pders01/modeldrift/internal/drift"
	"github.com/pders01/modeldrift/internal/inventory"
	"github.com/pders01/modeldrift/internal/report"
)

var (
	driftInventory string
	driftManifest  string
	driftSource    string
	driftCIMode    bool
	driftJSON      bool
	driftToon      bool
)

var driftCmd = &cobra.Command{
	Use:   "drift",
	Short: "Score drift between the methods inventory and the code",
	Long: `Compare the methods inventory with the methods the code registers:
  - new methods (weight 1)
  - deleted internal methods (weight 3)
  - changed request/response models (weight 2)
  - changed classification (weight 1)
  - changed versions (weight 1)

Severity: 0 none, 1-3 low, 4-10 medium, above 10 high.

Methods come from a registry manifest (--manifest) or, without one, from
the endpoints found in the source tree.

Examples:
  modeldrift drift --inventory methods_inventory.yaml
  modeldrift drift --inventory methods_inventory.yaml --manifest registry.yaml --ci-mode`,
	RunE: runDrift,
}

func init() {
	rootCmd.AddCommand(driftCmd)

	driftCmd.Flags().StringVar(&driftInventory, "inventory", "", "Methods inventory YAML (required)")
	driftCmd.Flags().StringVar(&driftManifest, "manifest", "", "Registry manifest exported by the application")
	driftCmd.Flags().StringVar(&driftSource, "source", "", "Source tree used when no manifest is given")
	driftCmd.Flags().BoolVar(&driftCIMode, "ci-mode", false, "Exit 1 when the inventory needs an update")
	driftCmd.Flags().BoolVar(&driftJSON, "json", false, "Output as JSON")
	driftCmd.Flags().BoolVar(&driftToon, "toon", false, "Output in LLM-friendly toon format")
}

type driftOutput struct {
	Report *drift.Report `json:"drift_report"`
	Score  drift.Score   `json:"drift_score"`
}

func runDrift(cmd *cobra.Command, args []string) error {
	w := stdout(cmd)
	ctx := context.Background()

	if driftInventory == "" {
		return fmt.Errorf("--inventory is required")
	}

	inv, err := inventory.Load(afero.NewOsFs(), driftInventory)
	if err != nil {
		return err
	}

	src, err := loadSources(ctx, driftManifest, driftSource)
	if err != nil {
		return err
	}
	methods, err := src.Methods.ListMethods(ctx)
	if err != nil {
		return fmt.Errorf("failed to list methods: %w", err)
	}

	r := drift.Detect(inv, methods)
	score := drift.Calculate(r)

	if done, err := printStructured(w, driftJSON, driftToon, driftOutput{Report: r, Score: score}); err != nil {
		return err
	} else if !done {
		report.Drift(w, r, score)
	}

	if driftCIMode && score.RequiresUpdate {
		return errChecksFailed
	}
	return nil
}
