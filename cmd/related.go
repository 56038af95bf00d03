package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/pders01/modeldrift/internal/config"
	"github.com/pders01/modeldrift/internal/models"
	"github.com/pders01/modeldrift/internal/snapshot"
)

var (
	relatedJSON bool
	relatedToon bool
)

var relatedCmd = &cobra.Command{
	Use:   "related <snapshot>",
	Short: "Find related snapshots",
	Long: `Find snapshots related to a given snapshot based on:
  - Same git commit
  - Shared tags
  - Same topic
  - Shared models

Results are ranked by relevance.

Example:
  modeldrift related release-1.2`,
	Args: cobra.ExactArgs(1),
	RunE: runRelated,
}

func init() {
	rootCmd.AddCommand(relatedCmd)

	relatedCmd.Flags().BoolVar(&relatedJSON, "json", false, "Output as JSON")
	relatedCmd.Flags().BoolVar(&relatedToon, "toon", false, "Output in LLM-friendly toon format")
}

type relatedSnapshot struct {
	Path   string   `json:"path"`
	Topic  string   `json:"topic,omitempty"`
	Tags   []string `json:"tags,omitempty"`
	Score  int      `json:"score"`
	Reason string   `json:"reason"`
}

func runRelated(cmd *cobra.Command, args []string) error {
	w := stdout(cmd)
	store := snapshot.NewStore(afero.NewOsFs(), config.GetSnapshotDir())

	target, targetPath, err := loadSnapshotRef(store, args[0])
	if err != nil {
		return err
	}

	entries, err := store.List()
	if err != nil {
		return fmt.Errorf("failed to list snapshots: %w", err)
	}

	var related []relatedSnapshot
	for _, e := range entries {
		if e.Path == targetPath {
			continue
		}
		other, err := snapshot.Load(store.Fs, e.Path)
		if err != nil {
			continue
		}

		if r, ok := relate(target, other); ok {
			r.Path = e.Path
			related = append(related, r)
		}
	}

	if len(related) == 0 {
		fmt.Fprintln(w, "No related snapshots found")
		return nil
	}

	sort.SliceStable(related, func(i, j int) bool {
		return related[i].Score > related[j].Score
	})

	if done, err := printStructured(w, relatedJSON, relatedToon, related); done || err != nil {
		return err
	}

	fmt.Fprintf(w, "Found %d related snapshot(s) for %s:\n\n", len(related), targetPath)
	for i, r := range related {
		fmt.Fprintf(w, "%d. %s [score: %d]\n", i+1, r.Path, r.Score)
		fmt.Fprintf(w, "   Relationship: %s\n", r.Reason)
		if r.Topic != "" {
			fmt.Fprintf(w, "   Topic:   %s\n", r.Topic)
		}
		if len(r.Tags) > 0 {
			fmt.Fprintf(w, "   Tags:    %v\n", r.Tags)
		}
		fmt.Fprintln(w)
	}

	return nil
}

// relate scores how closely other relates to target: same commit 100,
// 10 per shared tag, same topic 20, 1 per shared model name
func relate(target, other *models.Snapshot) (relatedSnapshot, bool) {
	r := relatedSnapshot{Topic: other.Topic, Tags: other.Tags}
	var reasons []string

	if target.Git.CommitHash != "" && target.Git.CommitHash == other.Git.CommitHash {
		r.Score += 100
		reasons = append(reasons, "same commit")
	}

	shared := 0
	for _, tag := range target.Tags {
		if hasTag(other.Tags, tag) {
			shared++
		}
	}
	if shared > 0 {
		r.Score += shared * 10
		reasons = append(reasons, fmt.Sprintf("%d shared tags", shared))
	}

	if target.Topic != "" && snapshot.Slug(target.Topic) == snapshot.Slug(other.Topic) {
		r.Score += 20
		reasons = append(reasons, "same topic")
	}

	names := make(map[string]bool, len(target.Models))
	for _, m := range target.Models {
		names[m.Name] = true
	}
	common := 0
	for _, m := range other.Models {
		if names[m.Name] {
			common++
		}
	}
	if common > 0 {
		r.Score += common
		reasons = append(reasons, fmt.Sprintf("%d shared models", common))
	}

	r.Reason = strings.Join(reasons, ", ")
	return r, r.Score > 0
}
