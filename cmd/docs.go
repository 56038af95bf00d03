package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/pders01/modeldrift/internal/config"
	"github.com/pders01/modeldrift/internal/models"
	"github.com/pders01/modeldrift/internal/registry"
	"github.com/pders01/modeldrift/internal/report"
)

var (
	docsModel    string
	docsAll      bool
	docsIndex    bool
	docsOutput   string
	docsStdout   bool
	docsExamples bool
	docsHTML     bool
	docsManifest string
	docsSource   string
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Generate markdown documentation for models",
	Long: `Write a markdown reference page per model with its fields, required
flags, descriptions and defaults, plus an index grouped by module.

Pages go to <output_dir>/docs unless --output or --stdout is given.
--html also writes each page as standalone HTML.

Examples:
  modeldrift docs                      # module breakdown
  modeldrift docs --all
  modeldrift docs --model CreateCasefileRequest --with-examples --stdout
  modeldrift docs --index --output site/models`,
	RunE: runDocs,
}

func init() {
	rootCmd.AddCommand(docsCmd)

	docsCmd.Flags().StringVar(&docsModel, "model", "", "Generate the page of one model")
	docsCmd.Flags().BoolVar(&docsAll, "all", false, "Generate pages for all models and the index")
	docsCmd.Flags().BoolVar(&docsIndex, "index", false, "Generate the index page")
	docsCmd.Flags().StringVar(&docsOutput, "output", "", "Output directory (default <output_dir>/docs)")
	docsCmd.Flags().BoolVar(&docsStdout, "stdout", false, "Print pages instead of writing files")
	docsCmd.Flags().BoolVar(&docsExamples, "with-examples", false, "Include an example JSON body")
	docsCmd.Flags().BoolVar(&docsHTML, "html", false, "Also write each page as HTML")
	docsCmd.Flags().StringVar(&docsManifest, "manifest", "", "Registry manifest exported by the application")
	docsCmd.Flags().StringVar(&docsSource, "source", "", "Source tree used when no manifest is given")
}

// docPage is one generated markdown page
type docPage struct {
	name string
	body []byte
}

func runDocs(cmd *cobra.Command, args []string) error {
	w := stdout(cmd)
	ctx := context.Background()

	src, err := loadSources(ctx, docsManifest, docsSource)
	if err != nil {
		return err
	}
	records, err := src.Records.ListRecords(ctx)
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("no models found")
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Name < records[j].Name })

	var pages []docPage
	switch {
	case docsAll:
		for _, r := range records {
			pages = append(pages, modelPage(r))
		}
		pages = append(pages, indexPage(records))
	case docsIndex:
		pages = append(pages, indexPage(records))
	case docsModel != "":
		rec, err := registry.Lookup(ctx, src.Records, docsModel)
		if err != nil {
			return err
		}
		pages = append(pages, modelPage(*rec))
	default:
		fmt.Fprintf(w, "\n%d models available for documentation\n", len(records))
		fmt.Fprintln(w, "\nModule breakdown:")
		counts := report.ModuleCounts(records)
		modules := make([]string, 0, len(counts))
		for m := range counts {
			modules = append(modules, m)
		}
		sort.Strings(modules)
		for _, m := range modules {
			fmt.Fprintf(w, "  • %s: %d models\n", m, counts[m])
		}
		fmt.Fprintln(w, "\nUse --all to generate docs for all models")
		fmt.Fprintln(w, "Use --model <name> to generate docs for one model")
		fmt.Fprintln(w, "Use --index to generate the index page")
		return nil
	}

	if docsStdout {
		for _, p := range pages {
			if len(pages) > 1 {
				fmt.Fprintf(w, "\n%s\n%s\n%s\n", strings.Repeat("=", 80), strings.TrimSuffix(p.name, ".md"), strings.Repeat("=", 80))
			}
			w.Write(p.body)
		}
		return nil
	}

	dir := docsOutput
	if dir == "" {
		dir = filepath.Join(config.GetOutputDir(), "docs")
	}
	fs := afero.NewOsFs()
	for _, p := range pages {
		path := filepath.Join(dir, p.name)
		if err := report.WriteFile(fs, path, func(f io.Writer) error {
			_, err := f.Write(p.body)
			return err
		}); err != nil {
			return err
		}
		if docsHTML {
			title := strings.TrimSuffix(p.name, ".md")
			htmlPath := strings.TrimSuffix(path, ".md") + ".html"
			if err := report.WriteFile(fs, htmlPath, func(f io.Writer) error {
				return report.DocHTML(f, title, p.body)
			}); err != nil {
				return err
			}
		}
	}
	fmt.Fprintf(w, "Generated %d page(s) in %s\n", len(pages), dir)
	return nil
}

func modelPage(rec models.RecordDescriptor) docPage {
	var buf bytes.Buffer
	report.ModelDoc(&buf, rec, docsExamples)
	return docPage{name: rec.Name + ".md", body: buf.Bytes()}
}

func indexPage(records []models.RecordDescriptor) docPage {
	var buf bytes.Buffer
	report.DocsIndex(&buf, records)
	return docPage{name: report.DocsIndexName, body: buf.Bytes()}
}
