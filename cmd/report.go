package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/pders01/modeldrift/internal/config"
	"github.com/pders01/modeldrift/internal/diff"
	"github.com/pders01/modeldrift/internal/mapping"
	"github.com/pders01/modeldrift/internal/report"
	"github.com/pders01/modeldrift/internal/snapshot"
)

var reportOutput string

var reportCmd = &cobra.Command{
	Use:   "report <template>",
	Short: "Generate pre-defined reports",
	Long: `Generate formatted reports from stored snapshots using pre-defined templates.

Available templates:
  summary  - Analysis summary and statistics of the newest snapshot
  changes  - Changes between the two newest snapshots
  mapping  - HTML model mapping report of the newest snapshot

Examples:
  modeldrift report summary
  modeldrift report changes
  modeldrift report mapping --output mapping_report.html`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&reportOutput, "output", "", "Write the report to a file instead of stdout")
}

func runReport(cmd *cobra.Command, args []string) error {
	template := args[0]

	switch template {
	case "summary", "changes", "mapping":
	default:
		return fmt.Errorf("unknown report template: %s (available: summary, changes, mapping)", template)
	}

	if reportOutput == "" {
		return generateReport(stdout(cmd), template)
	}

	if err := report.WriteFile(afero.NewOsFs(), reportOutput, func(w io.Writer) error {
		return generateReport(w, template)
	}); err != nil {
		return err
	}
	fmt.Fprintf(stdout(cmd), "✓ Wrote %s\n", reportOutput)
	return nil
}

func generateReport(w io.Writer, template string) error {
	store := snapshot.NewStore(afero.NewOsFs(), config.GetSnapshotDir())
	entries, err := store.List()
	if err != nil {
		return fmt.Errorf("failed to list snapshots: %w", err)
	}
	if len(entries) == 0 {
		return fmt.Errorf("%w: no snapshots in %s", snapshot.ErrNotFound, store.Dir)
	}

	latest, err := snapshot.Load(store.Fs, entries[0].Path)
	if err != nil {
		return err
	}

	switch template {
	case "summary":
		report.Summary(w, latest)
		fmt.Fprintln(w)
		report.StatsText(w, report.SnapshotStats(latest))
		return nil

	case "changes":
		if len(entries) < 2 {
			return fmt.Errorf("changes report needs two snapshots, found %d", len(entries))
		}
		previous, err := snapshot.Load(store.Fs, entries[1].Path)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "Changes Report")
		fmt.Fprintln(w, "══════════════")
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Previous: %s\n", entries[1].Path)
		fmt.Fprintf(w, "Current:  %s\n\n", entries[0].Path)
		report.Changes(w, diff.Snapshots(previous, latest))
		return nil

	default:
		return report.MappingHTML(w, latest, mapping.Analyze(latest))
	}
}
