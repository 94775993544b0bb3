// Package cmd provides the command-line interface for doctags with
// configuration from multiple sources.
//
// Configuration precedence, highest first:
//  1. Command-line flags (--config, --locale, ...)
//  2. DOCTAGS_CONFIG_FILE environment variable (custom config file path)
//  3. Individual environment variables (DOCTAGS_TAGS_PAGES_PREFIX, ...)
//  4. Configuration file (.doctags.yml in the current directory)
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/doctags/doctags/internal/logging"
)

var (
	cfgFile  string
	logLevel string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "doctags",
	Short: "Tag taxonomy engine for documentation sites",
	Long: `doctags attaches a tag taxonomy to a documentation site: tags are
declared in a YAML file, pages reference them in frontmatter, and doctags
computes the derived views used for rendering - usage counts, per-page tag
lists, prerequisite chains, related-tag rankings, and learning paths.

Quick start:
  doctags build                   Process tags and report the results
  doctags validate                Check definitions and references
  doctags list                    List tags in display order

Configuration lives in .doctags.yml (or DOCTAGS_* environment variables).`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .doctags.yml, can also use DOCTAGS_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info", "log level (debug, info, warn, error)")
	restrictFlag(rootCmd, "log-level", "debug", "info", "warn", "error")
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig initializes the configuration system.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("DOCTAGS_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".doctags")
	}

	viper.SetEnvPrefix("DOCTAGS")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// A missing config file is fine; every option has a default.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func newLogger() logging.Logger {
	return logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.ParseLevel(viper.GetString("log-level")),
		Format: "text",
		Output: os.Stderr,
	})
}
