package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pders01/modeldrift/internal/models"
	"github.com/pders01/modeldrift/internal/report"
	"github.com/pders01/modeldrift/internal/search"
)

var (
	methodsDomain     string
	methodsSubdomain  string
	methodsCapability string
	methodsComplexity string
	methodsMaturity   string
	methodsTier       string
	methodsManifest   string
	methodsSource     string
	methodsJSON       bool
	methodsToon       bool
)

var methodsCmd = &cobra.Command{
	Use:   "methods [query]",
	Short: "Search registered methods by keyword and classification",
	Long: `List the registered methods whose name or description contains the
query, narrowed by classification. Without a query or filters every
method is listed.

Examples:
  modeldrift methods gmail
  modeldrift methods --domain workspace
  modeldrift methods casefile --domain workspace --capability create
  modeldrift methods --integration-tier external --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMethods,
}

func init() {
	rootCmd.AddCommand(methodsCmd)

	methodsCmd.Flags().StringVar(&methodsDomain, "domain", "", "Filter by domain")
	methodsCmd.Flags().StringVar(&methodsSubdomain, "subdomain", "", "Filter by subdomain")
	methodsCmd.Flags().StringVar(&methodsCapability, "capability", "", "Filter by capability (create, read, update, delete, ...)")
	methodsCmd.Flags().StringVar(&methodsComplexity, "complexity", "", "Filter by complexity (atomic, composite, pipeline)")
	methodsCmd.Flags().StringVar(&methodsMaturity, "maturity", "", "Filter by maturity (stable, beta, experimental)")
	methodsCmd.Flags().StringVar(&methodsTier, "integration-tier", "", "Filter by integration tier (internal, external, hybrid)")
	methodsCmd.Flags().StringVar(&methodsManifest, "manifest", "", "Registry manifest exported by the application")
	methodsCmd.Flags().StringVar(&methodsSource, "source", "", "Source tree used when no manifest is given")
	methodsCmd.Flags().BoolVar(&methodsJSON, "json", false, "Output as JSON")
	methodsCmd.Flags().BoolVar(&methodsToon, "toon", false, "Output in LLM-friendly toon format")
}

func runMethods(cmd *cobra.Command, args []string) error {
	w := stdout(cmd)
	ctx := context.Background()

	src, err := loadSources(ctx, methodsManifest, methodsSource)
	if err != nil {
		return err
	}

	q := search.MethodQuery{
		Classification: models.Classification{
			Domain:          methodsDomain,
			Subdomain:       methodsSubdomain,
			Capability:      methodsCapability,
			Complexity:      methodsComplexity,
			Maturity:        methodsMaturity,
			IntegrationTier: methodsTier,
		},
	}
	if len(args) > 0 {
		q.Text = strings.TrimSpace(args[0])
	}

	found, err := search.Methods(ctx, src.Methods, q)
	if err != nil {
		return err
	}

	if done, err := printStructured(w, methodsJSON, methodsToon, found); err != nil || done {
		return err
	}
	report.Methods(w, found)
	return nil
}
