package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/pders01/modeldrift/internal/config"
	"github.com/pders01/modeldrift/internal/snapshot"
)

var (
	saveTopic   string
	saveTags    []string
	saveNotes   string
	saveVersion string
)

var saveCmd = &cobra.Command{
	Use:   "save [path]",
	Short: "Analyze a source tree and store a snapshot",
	Long: `Analyze a source tree and store the result as a snapshot file:
  <snapshot.dir>/YYYY-MM-DDTHHMMSS-topic-slug.json

Snapshots carry an id, topic, tags, notes, the project version and the
git state of the tree. They are the baseline for diff, stats and
analyze --compare.

Examples:
  modeldrift save ./src --topic release-1.2 --tag release
  modeldrift save --notes "before auth refactor"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSave,
}

func init() {
	rootCmd.AddCommand(saveCmd)

	saveCmd.Flags().StringVar(&saveTopic, "topic", "", "Snapshot topic")
	saveCmd.Flags().StringSliceVar(&saveTags, "tag", []string{}, "Add metadata tags")
	saveCmd.Flags().StringVar(&saveNotes, "notes", "", "Optional notes")
	saveCmd.Flags().StringVar(&saveVersion, "version", "", "Version stamped on models and endpoints")
}

func runSave(cmd *cobra.Command, args []string) error {
	w := stdout(cmd)

	root := ""
	if len(args) > 0 {
		root = args[0]
	}

	snap, err := analyzeTree(context.Background(), config.ResolveSourceRoot(root), saveVersion, nil)
	if err != nil {
		return err
	}
	snap.Topic = saveTopic
	snap.Tags = saveTags
	snap.Notes = saveNotes

	store := snapshot.NewStore(afero.NewOsFs(), config.GetSnapshotDir())
	path, err := store.Save(snap)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "✓ Snapshot saved: %s\n", path)
	fmt.Fprintf(w, "  ID:        %s\n", snap.ID)
	fmt.Fprintf(w, "  Models:    %d\n", snap.Summary.TotalModels)
	fmt.Fprintf(w, "  Endpoints: %d\n", snap.Summary.TotalEndpoints)
	if snap.Git.CommitHash != "" {
		fmt.Fprintf(w, "  Commit:    %s (%s)\n", snap.Git.CommitHash[:min(8, len(snap.Git.CommitHash))], snap.Git.Branch)
	}
	return nil
}
