package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/pders01/modeldrift/internal/report"
	"github.com/pders01/modeldrift/internal/usage"
)

var (
	fieldusageUnused       bool
	fieldusageCoOccurrence bool
	fieldusageCoverage     bool
	fieldusageMinPairs     int
	fieldusageRareBelow    int
	fieldusageExport       string
	fieldusageManifest     string
	fieldusageSource       string
	fieldusageJSON         bool
	fieldusageToon         bool
)

var fieldusageCmd = &cobra.Command{
	Use:   "fieldusage",
	Short: "Analyze how method contracts use model fields",
	Long: `Count how often each field appears in the request and response models
of the registered methods.

Views:
  (default)        most used, unused and rarely used fields
  --unused         fields no method contract uses
  --co-occurrence  field pairs that share a contract
  --coverage       share of methods using each field

Examples:
  modeldrift fieldusage
  modeldrift fieldusage --unused --manifest registry.yaml
  modeldrift fieldusage --co-occurrence --min-pairs 3
  modeldrift fieldusage --export usage.json`,
	RunE: runFieldusage,
}

func init() {
	rootCmd.AddCommand(fieldusageCmd)

	fieldusageCmd.Flags().BoolVar(&fieldusageUnused, "unused", false, "Show unused fields only")
	fieldusageCmd.Flags().BoolVar(&fieldusageCoOccurrence, "co-occurrence", false, "Show co-occurrence patterns")
	fieldusageCmd.Flags().BoolVar(&fieldusageCoverage, "coverage", false, "Show the coverage report")
	fieldusageCmd.Flags().IntVar(&fieldusageMinPairs, "min-pairs", 5, "Minimum co-occurrences for a pattern")
	fieldusageCmd.Flags().IntVar(&fieldusageRareBelow, "rare-below", 3, "Use count under which a field is rare")
	fieldusageCmd.Flags().StringVar(&fieldusageExport, "export", "", "Write the full analysis as JSON to this file")
	fieldusageCmd.Flags().StringVar(&fieldusageManifest, "manifest", "", "Registry manifest exported by the application")
	fieldusageCmd.Flags().StringVar(&fieldusageSource, "source", "", "Source tree used when no manifest is given")
	fieldusageCmd.Flags().BoolVar(&fieldusageJSON, "json", false, "Output as JSON")
	fieldusageCmd.Flags().BoolVar(&fieldusageToon, "toon", false, "Output in LLM-friendly toon format")
}

func runFieldusage(cmd *cobra.Command, args []string) error {
	w := stdout(cmd)
	ctx := context.Background()

	src, err := loadSources(ctx, fieldusageManifest, fieldusageSource)
	if err != nil {
		return err
	}
	methods, err := src.Methods.ListMethods(ctx)
	if err != nil {
		return fmt.Errorf("failed to list methods: %w", err)
	}
	records, err := src.Records.ListRecords(ctx)
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}

	r := usage.Analyze(methods, records)

	if fieldusageExport != "" {
		err := report.WriteFile(afero.NewOsFs(), fieldusageExport, func(f io.Writer) error {
			return report.Encode(f, report.FormatJSON, r)
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Exported analysis to %s\n", fieldusageExport)
		return nil
	}

	var view any = r
	switch {
	case fieldusageUnused:
		view = r.Unused()
	case fieldusageCoOccurrence:
		view = r.Pairs(fieldusageMinPairs)
	case fieldusageCoverage:
		view = r.Coverage()
	}
	if done, err := printStructured(w, fieldusageJSON, fieldusageToon, view); err != nil || done {
		return err
	}

	fmt.Fprintf(w, "Loaded %d methods and %d models\n", len(methods), len(records))
	switch {
	case fieldusageUnused:
		report.UnusedFields(w, r.Unused())
	case fieldusageCoOccurrence:
		report.CoOccurrence(w, r.Pairs(fieldusageMinPairs), fieldusageMinPairs)
	case fieldusageCoverage:
		report.FieldCoverage(w, r.Coverage())
	default:
		report.UsageSummary(w, r, fieldusageRareBelow)
	}
	return nil
}
