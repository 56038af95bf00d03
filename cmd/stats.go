package cmd

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/pders01/modeldrift/internal/config"
	"github.com/pders01/modeldrift/internal/report"
	"github.com/pders01/modeldrift/internal/snapshot"
)

var (
	statsJSON bool
	statsToon bool
)

var statsCmd = &cobra.Command{
	Use:   "stats [snapshot]",
	Short: "Show snapshot statistics",
	Long: `Display statistics about a snapshot including:
  - Model count by convention (pydantic, dataclass)
  - Endpoints by HTTP method
  - Deprecated endpoints
  - Most used models

Without an argument the newest stored snapshot is used.

Examples:
  modeldrift stats
  modeldrift stats release-1.2 --json
  modeldrift stats version_analysis/api_versions.yaml --toon`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Output as JSON")
	statsCmd.Flags().BoolVar(&statsToon, "toon", false, "Output in LLM-friendly toon format")
}

func runStats(cmd *cobra.Command, args []string) error {
	w := stdout(cmd)
	store := snapshot.NewStore(afero.NewOsFs(), config.GetSnapshotDir())

	ref := ""
	if len(args) > 0 {
		ref = args[0]
	}
	path, err := resolveOrLatest(store, ref)
	if err != nil {
		return err
	}
	snap, err := snapshot.Load(store.Fs, path)
	if err != nil {
		return err
	}

	st := report.SnapshotStats(snap)
	if done, err := printStructured(w, statsJSON, statsToon, st); done || err != nil {
		return err
	}
	report.StatsText(w, st)
	return nil
}

// resolveOrLatest resolves ref, or picks the newest snapshot when ref is empty
func resolveOrLatest(store *snapshot.Store, ref string) (string, error) {
	if ref == "" {
		return store.Latest()
	}
	return store.Resolve(ref)
}
