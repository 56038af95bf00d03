package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/pders01/modeldrift/internal/flow"
	"github.com/pders01/modeldrift/internal/report"
	"github.com/pders01/modeldrift/internal/workflow"
)

var (
	workflowMethods   []string
	workflowName      string
	workflowOutput    string
	workflowNoAutoMap bool
	workflowManifest  string
	workflowSource    string
)

var workflowCmd = &cobra.Command{
	Use:   "workflow [goal]",
	Short: "Compose methods into a workflow definition",
	Long: `Build a composite workflow from a chain of methods and export it as YAML.

  workflow                      interactive: describe a goal, pick methods, name it
  workflow "<goal>"             list the methods that match a goal
  workflow --methods a,b,c      build the workflow non-interactively

Field mappings between consecutive steps are inferred from matching
field names unless --no-auto-map is given.

Examples:
  modeldrift workflow
  modeldrift workflow "create casefile and share it"
  modeldrift workflow --methods create_casefile,grant_permission --output share.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWorkflow,
}

func init() {
	rootCmd.AddCommand(workflowCmd)

	workflowCmd.Flags().StringSliceVar(&workflowMethods, "methods", nil, "Methods to chain, in order")
	workflowCmd.Flags().StringVar(&workflowName, "name", "", "Workflow name (default from the method names)")
	workflowCmd.Flags().StringVar(&workflowOutput, "output", "", "Write the YAML definition to a file")
	workflowCmd.Flags().BoolVar(&workflowNoAutoMap, "no-auto-map", false, "Do not infer field mappings")
	workflowCmd.Flags().StringVar(&workflowManifest, "manifest", "", "Registry manifest exported by the application")
	workflowCmd.Flags().StringVar(&workflowSource, "source", "", "Source tree used when no manifest is given")
}

func runWorkflow(cmd *cobra.Command, args []string) error {
	w := stdout(cmd)
	ctx := context.Background()

	src, err := loadSources(ctx, workflowManifest, workflowSource)
	if err != nil {
		return err
	}
	methods, err := src.Methods.ListMethods(ctx)
	if err != nil {
		return fmt.Errorf("failed to list methods: %w", err)
	}
	records, err := src.Records.ListRecords(ctx)
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}

	names, name := workflowMethods, workflowName
	switch {
	case len(names) > 0:

	case len(args) > 0:
		printSuggestions(w, workflow.Suggest(args[0], methods))
		return nil

	default:
		if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
			return fmt.Errorf("interactive mode needs a terminal; use --methods or pass a goal")
		}
		sel, err := workflow.Run(methods)
		if errors.Is(err, workflow.ErrCancelled) {
			fmt.Fprintln(w, "Cancelled")
			return nil
		}
		if err != nil {
			return err
		}
		names = sel.Methods
		if name == "" {
			name = sel.Name
		}
	}

	composite, err := workflow.Build(names, methods, records, name, !workflowNoAutoMap)
	if errors.Is(err, flow.ErrMethodNotFound) {
		return fmt.Errorf("%w (run 'modeldrift workflow \"<goal>\"' to find method names)", err)
	}
	if err != nil {
		return err
	}

	for _, issue := range composite.Issues() {
		fmt.Fprintf(os.Stderr, "⚠ %s\n", issue)
	}

	if workflowOutput == "" {
		return report.Encode(w, report.FormatYAML, composite)
	}
	if err := report.WriteFile(afero.NewOsFs(), workflowOutput, func(out io.Writer) error {
		return report.Encode(out, report.FormatYAML, composite)
	}); err != nil {
		return err
	}
	fmt.Fprintf(w, "✓ Workflow '%s' written to %s (%d steps)\n", composite.Name, workflowOutput, len(composite.Steps))
	return nil
}

func printSuggestions(w io.Writer, suggestions []workflow.Suggestion) {
	if len(suggestions) == 0 {
		fmt.Fprintln(w, "No matching methods found")
		return
	}

	fmt.Fprintf(w, "Found %d matching methods:\n\n", len(suggestions))
	for i, s := range suggestions {
		if i == workflow.MaxShown {
			fmt.Fprintf(w, "  ... and %d more\n", len(suggestions)-i)
			break
		}
		fmt.Fprintf(w, "  %2d. %-30s %4.1f  %s\n", i+1, s.Method, s.Score, truncate(s.Description, 60))
	}
	fmt.Fprintln(w, "\nBuild with: modeldrift workflow --methods <m1>,<m2>")
}
