package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/phuslu/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pders01/modeldrift/internal/config"
	"github.com/pders01/modeldrift/internal/logger"
	"github.com/pders01/modeldrift/internal/report"
)

var cfgFile string

// errChecksFailed ends a run whose findings were already printed
var errChecksFailed = errors.New("checks failed")

var rootCmd = &cobra.Command{
	Use:   "modeldrift",
	Short: "Track data model and API drift in Python codebases",
	Long: `modeldrift statically analyses Python source trees and records:
  - pydantic models and dataclasses with their fields
  - functions and the routes they serve
  - a structural fingerprint per model

Snapshots of that analysis can be stored, compared for breaking changes,
checked against a methods inventory and exported for CI/CD pipelines.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errChecksFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func init() {
	config.SetDefaults()
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/modeldrift/config.toml)")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		viper.AddConfigPath(configDir(home))
		viper.SetConfigType("toml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix(config.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		newLogger().Info().Str("file", viper.ConfigFileUsed()).Msg("using config file")
	}
}

func configDir(home string) string {
	return filepath.Join(home, ".config", "modeldrift")
}

func newLogger() *log.Logger {
	return logger.New(config.GetLogLevel())
}

// stdout is the command's output stream; tests call runX with a nil command
func stdout(cmd *cobra.Command) io.Writer {
	if cmd == nil {
		return os.Stdout
	}
	return cmd.OutOrStdout()
}

// printStructured writes v as JSON or toon when either flag is set and
// reports whether it did
func printStructured(w io.Writer, asJSON, asToon bool, v any) (bool, error) {
	switch {
	case asJSON:
		return true, report.Encode(w, report.FormatJSON, v)
	case asToon:
		return true, report.Encode(w, report.FormatToon, v)
	default:
		return false, nil
	}
}
