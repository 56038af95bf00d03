package cmd

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/pders01/modeldrift/internal/config"
	"github.com/pders01/modeldrift/internal/snapshot"
)

var (
	pruneDryRun bool
	pruneForce  bool
)

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old snapshots based on retention policy",
	Long: `Remove snapshots older than the retention period.

The retention policy is configured in ~/.config/modeldrift/config.toml:
  [retention]
  days = 90
  preserve_tags = ["important", "release"]

Snapshots with preserve tags will never be pruned.

Example:
  modeldrift prune              # Show what would be pruned
  modeldrift prune --force      # Actually prune snapshots`,
	RunE: runPrune,
}

func init() {
	rootCmd.AddCommand(pruneCmd)

	pruneCmd.Flags().BoolVar(&pruneDryRun, "dry-run", true, "Show what would be pruned without deleting")
	pruneCmd.Flags().BoolVar(&pruneForce, "force", false, "Actually delete snapshots (overrides dry-run)")
}

func runPrune(cmd *cobra.Command, args []string) error {
	w := stdout(cmd)

	retentionDays := config.GetRetentionDays()
	now := time.Now()

	fmt.Fprintf(w, "Retention policy: %d days\n", retentionDays)
	fmt.Fprintf(w, "Preserve tags: %v\n", config.GetPreserveTags())
	fmt.Fprintf(w, "Cutoff date: %s\n\n", now.AddDate(0, 0, -retentionDays).Format("2006-01-02"))

	store := snapshot.NewStore(afero.NewOsFs(), config.GetSnapshotDir())
	entries, err := store.List()
	if err != nil {
		return fmt.Errorf("failed to list snapshots: %w", err)
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "No snapshots found")
		return nil
	}

	toPrune, toPreserve := snapshot.Plan(entries, retentionDays, now, config.ShouldPreserve)

	if len(toPrune) == 0 {
		fmt.Fprintln(w, "No snapshots to prune")
		return nil
	}

	fmt.Fprintf(w, "Snapshots to prune (%d):\n\n", len(toPrune))
	for _, c := range toPrune {
		fmt.Fprintf(w, "  %s\n", c.Entry.Path)
		fmt.Fprintf(w, "    Age:    %s\n", humanize.RelTime(c.Entry.Timestamp, now, "", ""))
		fmt.Fprintf(w, "    Reason: %s\n", c.Reason)
		if len(c.Entry.Tags) > 0 {
			fmt.Fprintf(w, "    Tags:   %v\n", c.Entry.Tags)
		}
		fmt.Fprintln(w)
	}

	if len(toPreserve) > 0 {
		fmt.Fprintf(w, "Snapshots to preserve (%d):\n\n", len(toPreserve))
		for _, c := range toPreserve {
			fmt.Fprintf(w, "  %s\n", c.Entry.Path)
			fmt.Fprintf(w, "    Age:    %s\n", humanize.RelTime(c.Entry.Timestamp, now, "", ""))
			fmt.Fprintf(w, "    Reason: %s\n", c.Reason)
			fmt.Fprintln(w)
		}
	}

	if pruneForce {
		fmt.Fprintln(w, "Pruning snapshots...")
		pruned := 0
		for _, c := range toPrune {
			fmt.Fprintf(w, "  Deleting %s...\n", c.Entry.Path)
			if err := store.Delete(c.Entry.Path); err != nil {
				fmt.Fprintf(w, "    Error: %v\n", err)
				continue
			}
			pruned++
			fmt.Fprintf(w, "    ✓ Deleted\n")
		}
		fmt.Fprintf(w, "\n✓ Pruned %d snapshot(s)\n", pruned)
	} else {
		fmt.Fprintln(w, "\nThis is a dry run. Use --force to actually prune snapshots.")
	}

	return nil
}
