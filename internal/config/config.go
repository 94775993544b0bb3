// Package config provides configuration management for doctags using Viper
// for flexible loading from files, environment variables, and command-line
// flags.
//
// The configuration system supports YAML files, environment variable
// overrides with the DOCTAGS_ prefix, and validation of the recognized
// options: the tag URL prefix and base path, the undefined-inline-tag
// policy, the definitions file location, the docs scan paths, and the
// locale set.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/doctags/doctags/internal/errors"
	"github.com/doctags/doctags/internal/processor"
)

type Config struct {
	Tags TagsConfig `yaml:"tags"`
	Docs DocsConfig `yaml:"docs"`
	I18n I18nConfig `yaml:"i18n"`
}

type TagsConfig struct {
	PagesPrefix          string `yaml:"pages_prefix"`
	BasePath             string `yaml:"base_path"`
	OnInlineTagsNotFound string `yaml:"on_inline_tags_not_found"`
	DefinitionsFile      string `yaml:"definitions_file"`
	StrictColors         bool   `yaml:"strict_colors"`
}

type DocsConfig struct {
	ScanPaths       []string `yaml:"scan_paths"`
	ExcludePatterns []string `yaml:"exclude_patterns"`
}

type I18nConfig struct {
	DefaultLocale string   `yaml:"default_locale"`
	Locales       []string `yaml:"locales"`
}

// Load unmarshals the configuration from viper's current state and applies
// defaults for everything unset.
func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, errors.NewConfigError("config_unmarshal", "cannot decode configuration").WithCause(err)
	}

	// Handle values set via viper directly (workaround for viper slice and
	// nested-key handling).
	if viper.IsSet("tags.pages_prefix") {
		config.Tags.PagesPrefix = viper.GetString("tags.pages_prefix")
	}
	if viper.IsSet("tags.base_path") {
		config.Tags.BasePath = viper.GetString("tags.base_path")
	}
	if viper.IsSet("tags.on_inline_tags_not_found") {
		config.Tags.OnInlineTagsNotFound = viper.GetString("tags.on_inline_tags_not_found")
	}
	if viper.IsSet("tags.definitions_file") {
		config.Tags.DefinitionsFile = viper.GetString("tags.definitions_file")
	}
	if viper.IsSet("tags.strict_colors") {
		config.Tags.StrictColors = viper.GetBool("tags.strict_colors")
	}
	if viper.IsSet("docs.scan_paths") && len(config.Docs.ScanPaths) == 0 {
		config.Docs.ScanPaths = viper.GetStringSlice("docs.scan_paths")
	}
	if viper.IsSet("docs.exclude_patterns") && len(config.Docs.ExcludePatterns) == 0 {
		config.Docs.ExcludePatterns = viper.GetStringSlice("docs.exclude_patterns")
	}
	if viper.IsSet("i18n.default_locale") {
		config.I18n.DefaultLocale = viper.GetString("i18n.default_locale")
	}
	if viper.IsSet("i18n.locales") && len(config.I18n.Locales) == 0 {
		config.I18n.Locales = viper.GetStringSlice("i18n.locales")
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Tags.PagesPrefix == "" {
		c.Tags.PagesPrefix = "tags"
	}
	if c.Tags.OnInlineTagsNotFound == "" {
		c.Tags.OnInlineTagsNotFound = string(processor.PolicyWarn)
	}
	if c.Tags.DefinitionsFile == "" {
		c.Tags.DefinitionsFile = "tags.yml"
	}
	if len(c.Docs.ScanPaths) == 0 {
		c.Docs.ScanPaths = []string{"./docs"}
	}
	if c.I18n.DefaultLocale == "" {
		c.I18n.DefaultLocale = "en"
	}
	if len(c.I18n.Locales) == 0 {
		c.I18n.Locales = []string{c.I18n.DefaultLocale}
	}
}

// Validate checks the option values the engine is strict about.
func (c *Config) Validate() error {
	if !processor.ValidPolicy(c.Tags.OnInlineTagsNotFound) {
		return errors.NewConfigError("invalid_policy",
			fmt.Sprintf("tags.on_inline_tags_not_found must be ignore, warn, or error, got %q", c.Tags.OnInlineTagsNotFound))
	}
	hasDefault := false
	for _, locale := range c.I18n.Locales {
		if locale == c.I18n.DefaultLocale {
			hasDefault = true
		}
	}
	if !hasDefault {
		c.I18n.Locales = append([]string{c.I18n.DefaultLocale}, c.I18n.Locales...)
	}
	return nil
}

// ProcessorOptions builds the engine options for one display locale.
func (c *Config) ProcessorOptions(locale string) processor.Options {
	return processor.Options{
		Locale:               locale,
		DefaultLocale:        c.I18n.DefaultLocale,
		PagesPrefix:          c.Tags.PagesPrefix,
		BasePath:             c.Tags.BasePath,
		OnInlineTagsNotFound: processor.Policy(c.Tags.OnInlineTagsNotFound),
		StrictColors:         c.Tags.StrictColors,
	}
}
