package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/pders01/modeldrift/internal/config"
	"github.com/pders01/modeldrift/internal/diff"
	"github.com/pders01/modeldrift/internal/models"
	"github.com/pders01/modeldrift/internal/report"
	"github.com/pders01/modeldrift/internal/snapshot"
)

var (
	diffSource string
	diffCI     bool
	diffJSON   bool
	diffToon   bool
	diffYAML   bool
)

var diffCmd = &cobra.Command{
	Use:   "diff <previous> [current]",
	Short: "Compare two snapshots",
	Long: `Compare two snapshots and report structural changes:
  - models added, removed and modified
  - fields added, removed and modified per model
  - breaking changes with severity

A snapshot is a file path (JSON snapshot or api_versions.yaml), a stored
snapshot id prefix, or a topic. Without [current] the source tree is
analysed and compared against <previous>.

Examples:
  modeldrift diff release-1.1 release-1.2
  modeldrift diff api_versions.yaml --source ./src --ci`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runDiff,
}

func init() {
	rootCmd.AddCommand(diffCmd)

	diffCmd.Flags().StringVar(&diffSource, "source", "", "Source tree to compare when [current] is omitted")
	diffCmd.Flags().BoolVar(&diffCI, "ci", false, "Exit 1 when breaking changes are found")
	diffCmd.Flags().BoolVar(&diffJSON, "json", false, "Output as JSON")
	diffCmd.Flags().BoolVar(&diffToon, "toon", false, "Output in LLM-friendly toon format")
	diffCmd.Flags().BoolVar(&diffYAML, "yaml", false, "Output as YAML")
}

func runDiff(cmd *cobra.Command, args []string) error {
	w := stdout(cmd)
	fs := afero.NewOsFs()
	store := snapshot.NewStore(fs, config.GetSnapshotDir())

	previous, prevPath, err := loadSnapshotRef(store, args[0])
	if err != nil {
		return err
	}

	var current *models.Snapshot
	currentName := ""
	if len(args) > 1 {
		current, currentName, err = loadSnapshotRef(store, args[1])
	} else {
		root := config.ResolveSourceRoot(diffSource)
		current, err = analyzeTree(context.Background(), root, "", nil)
		currentName = root
	}
	if err != nil {
		return err
	}

	changes := diff.Snapshots(previous, current)

	if diffYAML {
		if err := report.Encode(w, report.FormatYAML, changes); err != nil {
			return err
		}
	} else if done, err := printStructured(w, diffJSON, diffToon, changes); err != nil {
		return err
	} else if !done {
		fmt.Fprintf(w, "Previous: %s\n", prevPath)
		fmt.Fprintf(w, "Current:  %s\n\n", currentName)
		report.Changes(w, changes)
	}

	if diffCI && changes.HasBreaking() {
		return errChecksFailed
	}
	return nil
}

// loadSnapshotRef resolves ref in the store and loads it
func loadSnapshotRef(store *snapshot.Store, ref string) (*models.Snapshot, string, error) {
	path, err := store.Resolve(ref)
	if err != nil {
		return nil, "", err
	}
	snap, err := snapshot.Load(store.Fs, path)
	if err != nil {
		return nil, "", err
	}
	return snap, path, nil
}
