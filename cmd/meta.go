package cmd

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/pders01/modeldrift/internal/config"
	"github.com/pders01/modeldrift/internal/models"
	"github.com/pders01/modeldrift/internal/snapshot"
)

var (
	metaJSON bool
	metaToon bool
)

var metaCmd = &cobra.Command{
	Use:   "meta <snapshot>",
	Short: "Show metadata for a snapshot",
	Long: `Display the metadata of a stored snapshot: id, topic, tags, notes,
project version, git state and headline counts.

Example:
  modeldrift meta release-1.2
  modeldrift meta 3f2a --json`,
	Args: cobra.ExactArgs(1),
	RunE: runMeta,
}

func init() {
	rootCmd.AddCommand(metaCmd)

	metaCmd.Flags().BoolVar(&metaJSON, "json", false, "Output as JSON")
	metaCmd.Flags().BoolVar(&metaToon, "toon", false, "Output in LLM-friendly toon format")
}

type snapshotMeta struct {
	Path        string         `json:"path"`
	ID          string         `json:"id"`
	Topic       string         `json:"topic,omitempty"`
	Created     string         `json:"created"`
	Version     string         `json:"version,omitempty"`
	ProjectRoot string         `json:"project_root"`
	Tags        []string       `json:"tags,omitempty"`
	Notes       string         `json:"notes,omitempty"`
	Git         models.GitInfo `json:"git_info"`
	Summary     models.Summary `json:"summary"`
}

func runMeta(cmd *cobra.Command, args []string) error {
	w := stdout(cmd)
	store := snapshot.NewStore(afero.NewOsFs(), config.GetSnapshotDir())

	snap, path, err := loadSnapshotRef(store, args[0])
	if err != nil {
		return err
	}

	meta := snapshotMeta{
		Path:        path,
		ID:          snap.ID,
		Topic:       snap.Topic,
		Created:     snap.Timestamp.Format("2006-01-02 15:04:05"),
		Version:     snap.Version,
		ProjectRoot: snap.ProjectRoot,
		Tags:        snap.Tags,
		Notes:       snap.Notes,
		Git:         snap.Git,
		Summary:     snap.Summary,
	}

	if done, err := printStructured(w, metaJSON, metaToon, meta); done || err != nil {
		return err
	}

	fmt.Fprintf(w, "Snapshot: %s\n\n", meta.Path)
	fmt.Fprintf(w, "ID:            %s\n", meta.ID)
	if meta.Topic != "" {
		fmt.Fprintf(w, "Topic:         %s\n", meta.Topic)
	}
	fmt.Fprintf(w, "Created:       %s\n", meta.Created)
	if meta.Version != "" {
		fmt.Fprintf(w, "Version:       %s\n", meta.Version)
	}
	fmt.Fprintf(w, "Project Root:  %s\n", meta.ProjectRoot)

	if meta.Git.CommitHash != "" {
		dirty := ""
		if meta.Git.IsDirty {
			dirty = " (dirty)"
		}
		fmt.Fprintf(w, "Commit:        %s%s\n", meta.Git.CommitHash, dirty)
		fmt.Fprintf(w, "Branch:        %s\n", meta.Git.Branch)
		if meta.Git.Author != "" {
			fmt.Fprintf(w, "Author:        %s\n", meta.Git.Author)
		}
		if meta.Git.RemoteURL != "" {
			fmt.Fprintf(w, "Remote:        %s\n", meta.Git.RemoteURL)
		}
	}

	if len(meta.Tags) > 0 {
		fmt.Fprintf(w, "Tags:          %v\n", meta.Tags)
	}

	fmt.Fprintf(w, "Models:        %d (%d pydantic, %d dataclass)\n",
		meta.Summary.TotalModels, meta.Summary.PydanticModels, meta.Summary.Dataclasses)
	fmt.Fprintf(w, "Functions:     %d\n", meta.Summary.TotalFunctions)
	fmt.Fprintf(w, "Endpoints:     %d\n", meta.Summary.TotalEndpoints)
	fmt.Fprintf(w, "Files:         %d analyzed, %d skipped\n", meta.Summary.FilesAnalyzed, meta.Summary.FilesSkipped)

	if meta.Notes != "" {
		fmt.Fprintf(w, "\nNotes:\n%s\n", meta.Notes)
	}

	return nil
}
