package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/pders01/modeldrift/internal/config"
	"github.com/pders01/modeldrift/internal/snapshot"
)

var (
	tagsJSON   bool
	tagsToon   bool
	tagsRename string
)

var tagsCmd = &cobra.Command{
	Use:   "tags [old-tag]",
	Short: "List or manage tags",
	Long: `List all tags used across stored snapshots with usage counts.
Optionally rename tags across all snapshots.

Examples:
  modeldrift tags                    # List all tags
  modeldrift tags release --rename release-candidate`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTags,
}

func init() {
	rootCmd.AddCommand(tagsCmd)

	tagsCmd.Flags().BoolVar(&tagsJSON, "json", false, "Output as JSON")
	tagsCmd.Flags().BoolVar(&tagsToon, "toon", false, "Output in LLM-friendly toon format")
	tagsCmd.Flags().StringVar(&tagsRename, "rename", "", "Rename tag to new value")
}

type tagInfo struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

func runTags(cmd *cobra.Command, args []string) error {
	w := stdout(cmd)
	store := snapshot.NewStore(afero.NewOsFs(), config.GetSnapshotDir())

	if tagsRename != "" {
		if len(args) == 0 {
			return fmt.Errorf("tag name required for --rename")
		}
		updated, err := renameTag(store, args[0], tagsRename)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Renamed tag '%s' → '%s' in %d snapshot(s)\n", args[0], tagsRename, updated)
		return nil
	}

	entries, err := store.List()
	if err != nil {
		return fmt.Errorf("failed to list snapshots: %w", err)
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "No snapshots found")
		return nil
	}

	tagCounts := make(map[string]int)
	for _, e := range entries {
		for _, tag := range e.Tags {
			tagCounts[tag]++
		}
	}

	if len(tagCounts) == 0 {
		fmt.Fprintln(w, "No tags found")
		return nil
	}

	var tags []tagInfo
	for tag, count := range tagCounts {
		tags = append(tags, tagInfo{Tag: tag, Count: count})
	}
	sort.Slice(tags, func(i, j int) bool {
		if tags[i].Count == tags[j].Count {
			return tags[i].Tag < tags[j].Tag
		}
		return tags[i].Count > tags[j].Count
	})

	if done, err := printStructured(w, tagsJSON, tagsToon, tags); done || err != nil {
		return err
	}

	fmt.Fprintf(w, "Found %d tag(s):\n\n", len(tags))
	for _, t := range tags {
		fmt.Fprintf(w, "  %-30s %3d\n", t.Tag, t.Count)
	}

	return nil
}

// renameTag rewrites every snapshot carrying oldTag; a snapshot that
// already has newTag keeps a single copy
func renameTag(store *snapshot.Store, oldTag, newTag string) (int, error) {
	entries, err := store.List()
	if err != nil {
		return 0, fmt.Errorf("failed to list snapshots: %w", err)
	}

	updated := 0
	for _, e := range entries {
		if !hasTag(e.Tags, oldTag) {
			continue
		}

		snap, err := snapshot.Load(store.Fs, e.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to load %s: %v\n", e.Path, err)
			continue
		}

		tags := make([]string, 0, len(snap.Tags))
		for _, tag := range snap.Tags {
			if tag == oldTag {
				tag = newTag
			}
			if !hasTag(tags, tag) {
				tags = append(tags, tag)
			}
		}
		snap.Tags = tags

		if err := store.Rewrite(e.Path, snap); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to update %s: %v\n", e.Path, err)
			continue
		}
		updated++
	}
	return updated, nil
}
