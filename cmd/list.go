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
	listTopic string
	listToday bool
	listSince string
	listTag   string
	listJSON  bool
	listToon  bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored snapshots",
	Long: `List stored snapshots, newest first, with optional filtering.

Examples:
  modeldrift list
  modeldrift list --topic release
  modeldrift list --today
  modeldrift list --since 2025-10-01`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listTopic, "topic", "", "Filter by topic")
	listCmd.Flags().BoolVar(&listToday, "today", false, "Show only today's snapshots")
	listCmd.Flags().StringVar(&listSince, "since", "", "Show snapshots since date (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&listTag, "tag", "", "Filter by tag")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
	listCmd.Flags().BoolVar(&listToon, "toon", false, "Output in LLM-friendly toon format")
}

type listedSnapshot struct {
	Path      string    `json:"path"`
	ID        string    `json:"id"`
	Topic     string    `json:"topic"`
	Timestamp time.Time `json:"timestamp"`
	Tags      []string  `json:"tags"`
	Notes     string    `json:"notes,omitempty"`
	Models    int       `json:"models"`
	Endpoints int       `json:"endpoints"`
}

func runList(cmd *cobra.Command, args []string) error {
	w := stdout(cmd)

	var since time.Time
	if listSince != "" {
		t, err := time.ParseInLocation("2006-01-02", listSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since date format (use YYYY-MM-DD): %w", err)
		}
		since = t
	}

	store := snapshot.NewStore(afero.NewOsFs(), config.GetSnapshotDir())
	entries, err := store.List()
	if err != nil {
		return fmt.Errorf("failed to list snapshots: %w", err)
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "No snapshots found")
		return nil
	}

	today := time.Now().Format("2006-01-02")
	snapshots := []listedSnapshot{}
	for _, e := range entries {
		if listTopic != "" && e.Topic != listTopic && snapshot.Slug(e.Topic) != snapshot.Slug(listTopic) {
			continue
		}
		if listToday && e.Timestamp.Local().Format("2006-01-02") != today {
			continue
		}
		if !since.IsZero() && e.Timestamp.Before(since) {
			continue
		}
		if listTag != "" && !hasTag(e.Tags, listTag) {
			continue
		}
		snapshots = append(snapshots, listedSnapshot{
			Path:      e.Path,
			ID:        e.ID,
			Topic:     e.Topic,
			Timestamp: e.Timestamp,
			Tags:      e.Tags,
			Notes:     e.Notes,
			Models:    e.Summary.TotalModels,
			Endpoints: e.Summary.TotalEndpoints,
		})
	}

	if done, err := printStructured(w, listJSON, listToon, snapshots); done || err != nil {
		return err
	}

	if len(snapshots) == 0 {
		fmt.Fprintln(w, "No snapshots match the filter criteria")
		return nil
	}

	fmt.Fprintf(w, "Found %d snapshot(s):\n\n", len(snapshots))
	for _, s := range snapshots {
		fmt.Fprintf(w, "  %s\n", s.Path)
		if s.Topic != "" {
			fmt.Fprintf(w, "    Topic:     %s\n", s.Topic)
		}
		fmt.Fprintf(w, "    Created:   %s (%s)\n", s.Timestamp.Local().Format("2006-01-02 15:04"), humanize.Time(s.Timestamp))
		fmt.Fprintf(w, "    Models:    %d, endpoints: %d\n", s.Models, s.Endpoints)
		if len(s.Tags) > 0 {
			fmt.Fprintf(w, "    Tags:      %v\n", s.Tags)
		}
		if s.Notes != "" {
			fmt.Fprintf(w, "    Notes:     %s\n", truncate(s.Notes, 60))
		}
		fmt.Fprintln(w)
	}

	return nil
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
