package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pders01/modeldrift/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the default configuration",
	Long: `Write the default config file to ~/.config/modeldrift/config.toml.

The file lists every setting with its default: analysis excludes, model
markers, snapshot directory, retention policy and embeddings. An existing
file is left alone unless --force is given.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	w := stdout(cmd)

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	dir := configDir(home)
	configPath := filepath.Join(dir, "config.toml")

	if _, err := os.Stat(configPath); err == nil && !initForce {
		fmt.Fprintf(w, "Config already exists: %s\n", configPath)
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(configPath, []byte(config.DefaultConfigTOML), 0644); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	fmt.Fprintf(w, "✓ Created default config: %s\n", configPath)
	fmt.Fprintln(w, "\n✓ modeldrift initialized successfully!")
	fmt.Fprintln(w, "  You can now use: modeldrift analyze <path>")
	return nil
}
