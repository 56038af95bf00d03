package cmd

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/pders01/modeldrift/internal/config"
	"github.com/pders01/modeldrift/internal/models"
	"github.com/pders01/modeldrift/internal/snapshot"
)

var (
	archiveOutput string
	archiveTopic  string
)

var archiveCmd = &cobra.Command{
	Use:   "archive <year|YYYY-MM|all>",
	Short: "Bundle snapshots for external storage",
	Long: `Create a tar.gz archive of stored snapshot files for backup or transfer.

Examples:
  modeldrift archive 2024          # Archive all snapshots from 2024
  modeldrift archive 2024-11       # Archive snapshots from November 2024
  modeldrift archive all           # Archive all snapshots
  modeldrift archive 2024 --topic release
  modeldrift archive all --output my-snapshots.tar.gz`,
	Args: cobra.ExactArgs(1),
	RunE: runArchive,
}

func init() {
	rootCmd.AddCommand(archiveCmd)

	archiveCmd.Flags().StringVar(&archiveOutput, "output", "", "Output file path (default: modeldrift-snapshots-<period>.tar.gz)")
	archiveCmd.Flags().StringVar(&archiveTopic, "topic", "", "Filter by topic")
}

func runArchive(cmd *cobra.Command, args []string) error {
	w := stdout(cmd)
	period := args[0]
	fs := afero.NewOsFs()

	store := snapshot.NewStore(fs, config.GetSnapshotDir())
	entries, err := store.List()
	if err != nil {
		return fmt.Errorf("failed to list snapshots: %w", err)
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "No snapshots found")
		return nil
	}

	var selected []snapshot.Entry
	for _, e := range entries {
		if period != "all" && !strings.HasPrefix(e.Timestamp.Format(models.TimestampLayout), period) {
			continue
		}
		if archiveTopic != "" && e.Topic != archiveTopic {
			continue
		}
		selected = append(selected, e)
	}

	if len(selected) == 0 {
		fmt.Fprintln(w, "No snapshots match the filter criteria")
		return nil
	}

	outputFile := archiveOutput
	if outputFile == "" {
		outputFile = fmt.Sprintf("modeldrift-snapshots-%s.tar.gz", strings.ReplaceAll(period, "/", "-"))
	}

	fmt.Fprintf(w, "Archiving %d snapshot(s) to: %s\n", len(selected), outputFile)

	if err := createArchive(fs, outputFile, selected); err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}

	if info, err := fs.Stat(outputFile); err == nil {
		fmt.Fprintf(w, "\n✓ Archive created: %s (%s)\n", outputFile, humanize.Bytes(uint64(info.Size())))
	} else {
		fmt.Fprintf(w, "\n✓ Archive created: %s\n", outputFile)
	}

	fmt.Fprintln(w, "\nArchived snapshots:")
	for _, e := range selected {
		fmt.Fprintf(w, "  - %s\n", filepath.Base(e.Path))
	}

	return nil
}

// createArchive writes the snapshot files into a gzipped tarball, each
// under its base name
func createArchive(fs afero.Fs, filename string, entries []snapshot.Entry) error {
	outFile, err := fs.Create(filename)
	if err != nil {
		return err
	}
	defer outFile.Close()

	gzWriter := gzip.NewWriter(outFile)
	tarWriter := tar.NewWriter(gzWriter)

	for _, e := range entries {
		if err := addToArchive(fs, tarWriter, e.Path); err != nil {
			return fmt.Errorf("failed to archive %s: %w", e.Path, err)
		}
	}

	if err := tarWriter.Close(); err != nil {
		return err
	}
	return gzWriter.Close()
}

func addToArchive(fs afero.Fs, tw *tar.Writer, path string) error {
	info, err := fs.Stat(path)
	if err != nil {
		return err
	}
	header, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	header.Name = filepath.Base(path)
	if err := tw.WriteHeader(header); err != nil {
		return err
	}

	file, err := fs.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = io.Copy(tw, file)
	return err
}
