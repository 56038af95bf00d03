package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pders01/modeldrift/internal/flow"
	"github.com/pders01/modeldrift/internal/report"
)

var (
	flowDetailed bool
	flowManifest string
	flowSource   string
	flowJSON     bool
	flowToon     bool
)

var flowCmd = &cobra.Command{
	Use:   "flow <method> [method...]",
	Short: "Validate parameter flow through a method chain",
	Long: `Check that every method in a chain can be fed by the one before it:
the required request fields of each method must be present in the
previous method's response with a compatible type.

Exits 1 when the chain is not valid.

Examples:
  modeldrift flow create_casefile grant_permission
  modeldrift flow create_casefile add_note --detailed --manifest registry.yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFlow,
}

func init() {
	rootCmd.AddCommand(flowCmd)

	flowCmd.Flags().BoolVar(&flowDetailed, "detailed", false, "Show every field mapping")
	flowCmd.Flags().StringVar(&flowManifest, "manifest", "", "Registry manifest exported by the application")
	flowCmd.Flags().StringVar(&flowSource, "source", "", "Source tree used when no manifest is given")
	flowCmd.Flags().BoolVar(&flowJSON, "json", false, "Output as JSON")
	flowCmd.Flags().BoolVar(&flowToon, "toon", false, "Output in LLM-friendly toon format")
}

func runFlow(cmd *cobra.Command, args []string) error {
	w := stdout(cmd)
	ctx := context.Background()

	src, err := loadSources(ctx, flowManifest, flowSource)
	if err != nil {
		return err
	}

	res, err := flow.New(src.Methods, src.Records).Chain(ctx, args)
	if errors.Is(err, flow.ErrMethodNotFound) {
		return fmt.Errorf("%w (see 'modeldrift search' or the registry manifest for method names)", err)
	}
	if err != nil {
		return err
	}

	if done, err := printStructured(w, flowJSON, flowToon, res); err != nil {
		return err
	} else if !done {
		report.Flow(w, res, flowDetailed)
	}

	if !res.Valid() {
		return errChecksFailed
	}
	return nil
}
