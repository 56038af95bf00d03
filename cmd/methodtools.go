package cmd

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/pders01/modeldrift/internal/inventory"
	"github.com/pders01/modeldrift/internal/report"
)

var (
	methodtoolsInventory string
	methodtoolsJSON      bool
	methodtoolsToon      bool
)

var methodtoolsCmd = &cobra.Command{
	Use:   "methodtools <tools-dir-or-file>",
	Short: "Validate tool definitions against the methods inventory",
	Long: `Check generated tool YAMLs against the methods inventory.

For every tool the referenced method must exist in the inventory. Request
and response models, classification (domain, subdomain, capability,
integration tier) and the wrapped implementation are compared with the
inventory entry; differences are warnings. A version difference is
reported but does not affect the result. Exits 1 when any tool is an
error.

Examples:
  modeldrift methodtools --inventory methods_inventory.yaml methodtools/
  modeldrift methodtools --inventory methods_inventory.yaml tools/create_casefile.yaml --json`,
	Args: cobra.ExactArgs(1),
	RunE: runMethodtools,
}

func init() {
	rootCmd.AddCommand(methodtoolsCmd)

	methodtoolsCmd.Flags().StringVar(&methodtoolsInventory, "inventory", "", "Methods inventory YAML (required)")
	methodtoolsCmd.Flags().BoolVar(&methodtoolsJSON, "json", false, "Output as JSON")
	methodtoolsCmd.Flags().BoolVar(&methodtoolsToon, "toon", false, "Output in LLM-friendly toon format")
}

func runMethodtools(cmd *cobra.Command, args []string) error {
	w := stdout(cmd)
	fs := afero.NewOsFs()

	if methodtoolsInventory == "" {
		return fmt.Errorf("--inventory is required")
	}
	inv, err := inventory.Load(fs, methodtoolsInventory)
	if err != nil {
		return err
	}
	files, err := inventory.ToolFiles(fs, args[0])
	if err != nil {
		return err
	}

	res := inventory.ValidateTools(fs, inv, files)

	if done, err := printStructured(w, methodtoolsJSON, methodtoolsToon, res); err != nil {
		return err
	} else if !done {
		report.ToolValidation(w, res)
	}

	if !res.OK() {
		return errChecksFailed
	}
	return nil
}
