package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/pders01/modeldrift/internal/analyzer"
	"github.com/pders01/modeldrift/internal/config"
	"github.com/pders01/modeldrift/internal/diff"
	"github.com/pders01/modeldrift/internal/extract"
	"github.com/pders01/modeldrift/internal/git"
	"github.com/pders01/modeldrift/internal/mapping"
	"github.com/pders01/modeldrift/internal/models"
	"github.com/pders01/modeldrift/internal/report"
	"github.com/pders01/modeldrift/internal/snapshot"
)

var (
	analyzeCompare        string
	analyzeFailOnBreaking bool
	analyzeYAML           bool
	analyzeManifests      bool
	analyzeCSV            bool
	analyzeXLSX           bool
	analyzeMapping        bool
	analyzeOutputDir      string
	analyzeVersion        string
	analyzeExclude        []string
	analyzeJSON           bool
	analyzeToon           bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [path]",
	Short: "Analyze a Python source tree",
	Long: `Extract models, functions and endpoints from a Python source tree,
print a summary and write the analysis to the output directory.

The tree defaults to MODELDRIFT_SOURCE, source.default_path from the config,
../<source.guess_name> when it exists, or the working directory.

Exports:
  version_analysis.json   always
  api_versions.yaml       --yaml
  manifests/*.yaml        --manifests
  *.csv                   --csv
  code_analysis.xlsx      --xlsx
  mapping_analysis.json   --mapping (with mapping_report.html)

Examples:
  modeldrift analyze ./src
  modeldrift analyze ./src --compare release-1 --fail-on-breaking
  modeldrift analyze --yaml --manifests --output-dir build/api`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeCompare, "compare", "", "Snapshot (path, id, or topic) to compare against")
	analyzeCmd.Flags().BoolVar(&analyzeFailOnBreaking, "fail-on-breaking", false, "Exit 1 when the comparison finds breaking changes")
	analyzeCmd.Flags().BoolVar(&analyzeYAML, "yaml", false, "Write the CI/CD version document")
	analyzeCmd.Flags().BoolVar(&analyzeManifests, "manifests", false, "Write one YAML manifest per source file")
	analyzeCmd.Flags().BoolVar(&analyzeCSV, "csv", false, "Write CSV exports")
	analyzeCmd.Flags().BoolVar(&analyzeXLSX, "xlsx", false, "Write the Excel workbook")
	analyzeCmd.Flags().BoolVar(&analyzeMapping, "mapping", false, "Write the model mapping analysis")
	analyzeCmd.Flags().StringVar(&analyzeOutputDir, "output-dir", "", "Output directory (default from config)")
	analyzeCmd.Flags().StringVar(&analyzeVersion, "version", "", "Version stamped on models and endpoints")
	analyzeCmd.Flags().StringSliceVar(&analyzeExclude, "exclude", nil, "Path substrings to skip (replaces the configured list)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the analysis as JSON")
	analyzeCmd.Flags().BoolVar(&analyzeToon, "toon", false, "Print the analysis in LLM-friendly toon format")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	w := stdout(cmd)
	fs := afero.NewOsFs()

	root := ""
	if len(args) > 0 {
		root = args[0]
	}

	snap, err := analyzeTree(context.Background(), config.ResolveSourceRoot(root), analyzeVersion, analyzeExclude)
	if err != nil {
		return err
	}

	structured, err := printStructured(w, analyzeJSON, analyzeToon, snap)
	if err != nil {
		return err
	}
	if !structured {
		report.Summary(w, snap)
	}

	outDir := analyzeOutputDir
	if outDir == "" {
		outDir = config.GetOutputDir()
	}
	written, err := writeExports(fs, outDir, snap)
	if err != nil {
		return err
	}
	if !structured {
		for _, path := range written {
			fmt.Fprintf(w, "✓ Wrote %s\n", path)
		}
	}

	if analyzeCompare == "" {
		return nil
	}

	store := snapshot.NewStore(fs, config.GetSnapshotDir())
	prevPath, err := store.Resolve(analyzeCompare)
	if err != nil {
		return fmt.Errorf("failed to find snapshot to compare: %w", err)
	}
	previous, err := snapshot.Load(fs, prevPath)
	if err != nil {
		return err
	}

	changes := diff.Snapshots(previous, snap)
	changesPath := filepath.Join(outDir, report.ChangesJSON)
	if err := report.WriteFile(fs, changesPath, func(out io.Writer) error {
		return report.Encode(out, report.FormatJSON, changes)
	}); err != nil {
		return err
	}
	if !structured {
		fmt.Fprintf(w, "\nCompared with %s\n", prevPath)
		report.Changes(w, changes)
	}

	if analyzeFailOnBreaking && changes.HasBreaking() {
		return errChecksFailed
	}
	return nil
}

// writeExports writes the analysis JSON plus every export selected by flags
func writeExports(fs afero.Fs, outDir string, snap *models.Snapshot) ([]string, error) {
	var written []string

	path := filepath.Join(outDir, report.AnalysisJSON)
	if err := report.WriteFile(fs, path, func(out io.Writer) error {
		return report.Encode(out, report.FormatJSON, snap)
	}); err != nil {
		return nil, err
	}
	written = append(written, path)

	if analyzeYAML {
		path := filepath.Join(outDir, report.VersionsYAML)
		if err := report.WriteVersionYAML(fs, path, snap); err != nil {
			return nil, err
		}
		written = append(written, path)
	}

	if analyzeManifests {
		paths, err := report.WriteManifests(fs, filepath.Join(outDir, report.ManifestDir), snap)
		if err != nil {
			return nil, err
		}
		written = append(written, paths...)
	}

	now := time.Now()
	if analyzeCSV {
		files, err := report.WriteCSV(fs, outDir, snap, now)
		if err != nil {
			return nil, err
		}
		written = append(written, files.Models, files.Fields, files.Functions, files.Mappings)
	}

	if analyzeXLSX {
		path := filepath.Join(outDir, report.WorkbookXLSX)
		if err := report.WriteXLSX(fs, path, snap, now); err != nil {
			return nil, err
		}
		written = append(written, path)
	}

	if analyzeMapping {
		paths, err := writeMapping(fs, outDir, snap, mapping.Analyze(snap), true)
		if err != nil {
			return nil, err
		}
		written = append(written, paths...)
	}

	return written, nil
}

// writeMapping writes the mapping analysis JSON and optionally its HTML report
func writeMapping(fs afero.Fs, outDir string, snap *models.Snapshot, a *mapping.Analysis, withHTML bool) ([]string, error) {
	jsonPath := filepath.Join(outDir, report.MappingJSON)
	if err := report.WriteFile(fs, jsonPath, func(out io.Writer) error {
		return report.Encode(out, report.FormatJSON, a)
	}); err != nil {
		return nil, err
	}
	if !withHTML {
		return []string{jsonPath}, nil
	}

	htmlPath := filepath.Join(outDir, report.MappingReport)
	if err := report.WriteFile(fs, htmlPath, func(out io.Writer) error {
		return report.MappingHTML(out, snap, a)
	}); err != nil {
		return nil, err
	}
	return []string{jsonPath, htmlPath}, nil
}

// analyzeTree runs one extraction pass over root with the configured options
func analyzeTree(ctx context.Context, root, version string, excludes []string) (*models.Snapshot, error) {
	if version == "" {
		version = config.GetProjectVersion()
	}
	if excludes == nil {
		excludes = config.GetExcludePatterns()
	}

	snap, err := analyzer.Analyze(ctx, analyzer.Options{
		Fs:       afero.NewOsFs(),
		Root:     root,
		Excludes: excludes,
		Extract: extract.Options{
			ModelBaseMarker:     config.GetModelBaseMarker(),
			DataclassDecorators: config.GetDataclassDecorators(),
		},
		MatchAttributeTail: config.GetMatchAttributeTail(),
		Version:            version,
		Git:                git.IsGitRepo(root),
		Logger:             newLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to analyze %s: %w", root, err)
	}
	return snap, nil
}
