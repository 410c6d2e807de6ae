// Package cmd provides the command-line interface for Fragmenta with
// configuration management supporting multiple configuration sources.
//
// Configuration System:
//
//	The CLI supports flexible configuration through multiple sources with clear precedence:
//	1. Command-line flags (--config, --workers, etc.) - highest priority
//	2. FRAGMENTA_CONFIG_FILE environment variable - custom config file path
//	3. Individual environment variables (FRAGMENTA_SOURCE_DIR, etc.)
//	4. Configuration files (.fragmenta.yml) - lowest priority
//
// Environment Variables:
//
//	FRAGMENTA_CONFIG_FILE: Path to custom configuration file
//	FRAGMENTA_SOURCE_DIR: Override the source directory name
//	FRAGMENTA_SCAN_WORKERS: Override the entity construction worker bound
//	FRAGMENTA_LOG_LEVEL / FRAGMENTA_LOG_FORMAT: Override logging options
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fragmenta",
	Short: "Aggregate a fragment project's content tree into a project model",
	Long: `Fragmenta discovers the collections, fragments, fragment compositions and
page templates of a fragment project by scanning its src/ directory for marker
files, and materializes them into a single project model for downstream build
and render tooling.

Entities with unparsable marker files are dropped with a logged error; missing
referenced content files degrade to empty fields. Only the project's
package.json and a page template's page-definition.json are required.

Quick Start:
  fragmenta list .                List everything discovered in a project
  fragmenta list -f json .        Emit the full project model as JSON

Command Aliases (for faster typing):
  list (l)`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .fragmenta.yml, can also use FRAGMENTA_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

// initConfig initializes the configuration system with support for multiple
// config sources.
//
// Configuration Loading Priority (highest to lowest):
//  1. --config flag: Explicitly specified config file path
//  2. FRAGMENTA_CONFIG_FILE environment variable: Custom config file path
//  3. Default: .fragmenta.yml in current directory
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("FRAGMENTA_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".fragmenta")
	}

	// Enable automatic environment variable binding with FRAGMENTA_ prefix
	// Examples: FRAGMENTA_SOURCE_DIR, FRAGMENTA_SCAN_WORKERS
	viper.SetEnvPrefix("FRAGMENTA")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// If the config file doesn't exist or has errors, Viper falls back to
	// defaults without failing.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
