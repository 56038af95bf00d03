package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/pders01/modeldrift/internal/config"
	"github.com/pders01/modeldrift/internal/mapping"
	"github.com/pders01/modeldrift/internal/report"
)

var (
	impactHTML      bool
	impactOutputDir string
	impactJSON      bool
	impactToon      bool
)

var impactCmd = &cobra.Command{
	Use:   "impact [path]",
	Short: "Analyze model dependencies and change impact",
	Long: `Map how models reference each other and how widely endpoints use them:
  - dependencies (depends on / used by / depth)
  - impact risk per model from its usage count
  - reuse matrix and orphaned models

mapping_analysis.json is written to the output directory; --html adds
mapping_report.html.

Examples:
  modeldrift impact ./src
  modeldrift impact ./src --html --output-dir reports`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImpact,
}

func init() {
	rootCmd.AddCommand(impactCmd)

	impactCmd.Flags().BoolVar(&impactHTML, "html", false, "Also write the HTML report")
	impactCmd.Flags().StringVar(&impactOutputDir, "output-dir", "", "Output directory (default from config)")
	impactCmd.Flags().BoolVar(&impactJSON, "json", false, "Print the analysis as JSON")
	impactCmd.Flags().BoolVar(&impactToon, "toon", false, "Print the analysis in LLM-friendly toon format")
}

func runImpact(cmd *cobra.Command, args []string) error {
	w := stdout(cmd)

	root := ""
	if len(args) > 0 {
		root = args[0]
	}
	snap, err := analyzeTree(context.Background(), config.ResolveSourceRoot(root), "", nil)
	if err != nil {
		return err
	}

	outDir := impactOutputDir
	if outDir == "" {
		outDir = config.GetOutputDir()
	}
	a := mapping.Analyze(snap)
	written, err := writeMapping(afero.NewOsFs(), outDir, snap, a, impactHTML)
	if err != nil {
		return err
	}

	if done, err := printStructured(w, impactJSON, impactToon, a); done || err != nil {
		return err
	}

	report.MappingText(w, a)
	fmt.Fprintln(w)
	for _, path := range written {
		fmt.Fprintf(w, "✓ Wrote %s\n", path)
	}
	return nil
}
