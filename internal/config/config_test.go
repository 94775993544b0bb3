package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doctags/doctags/internal/errors"
	"github.com/doctags/doctags/internal/processor"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestLoad_Defaults(t *testing.T) {
	resetViper(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "tags", cfg.Tags.PagesPrefix)
	assert.Equal(t, "", cfg.Tags.BasePath)
	assert.Equal(t, "warn", cfg.Tags.OnInlineTagsNotFound)
	assert.Equal(t, "tags.yml", cfg.Tags.DefinitionsFile)
	assert.Equal(t, []string{"./docs"}, cfg.Docs.ScanPaths)
	assert.Equal(t, "en", cfg.I18n.DefaultLocale)
	assert.Equal(t, []string{"en"}, cfg.I18n.Locales)
}

func TestLoad_Overrides(t *testing.T) {
	resetViper(t)
	viper.Set("tags.pages_prefix", "topics")
	viper.Set("tags.base_path", "/docs")
	viper.Set("tags.on_inline_tags_not_found", "error")
	viper.Set("tags.definitions_file", "taxonomy.yml")
	viper.Set("tags.strict_colors", true)
	viper.Set("docs.scan_paths", []string{"./docs", "./blog"})
	viper.Set("i18n.default_locale", "fr")
	viper.Set("i18n.locales", []string{"fr", "en"})

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "topics", cfg.Tags.PagesPrefix)
	assert.Equal(t, "/docs", cfg.Tags.BasePath)
	assert.Equal(t, "error", cfg.Tags.OnInlineTagsNotFound)
	assert.Equal(t, "taxonomy.yml", cfg.Tags.DefinitionsFile)
	assert.True(t, cfg.Tags.StrictColors)
	assert.Equal(t, []string{"./docs", "./blog"}, cfg.Docs.ScanPaths)
	assert.Equal(t, "fr", cfg.I18n.DefaultLocale)
	assert.Equal(t, []string{"fr", "en"}, cfg.I18n.Locales)
}

func TestLoad_InvalidPolicy(t *testing.T) {
	resetViper(t)
	viper.Set("tags.on_inline_tags_not_found", "explode")

	_, err := Load()
	require.Error(t, err)
	assert.True(t, errors.IsConfigError(err))
}

func TestValidate_DefaultLocaleAlwaysInLocales(t *testing.T) {
	resetViper(t)
	viper.Set("i18n.default_locale", "en")
	viper.Set("i18n.locales", []string{"fr", "de"})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Contains(t, cfg.I18n.Locales, "en")
}

func TestProcessorOptions(t *testing.T) {
	resetViper(t)
	viper.Set("tags.pages_prefix", "topics")
	viper.Set("tags.on_inline_tags_not_found", "ignore")

	cfg, err := Load()
	require.NoError(t, err)

	opts := cfg.ProcessorOptions("fr")
	assert.Equal(t, "fr", opts.Locale)
	assert.Equal(t, "en", opts.DefaultLocale)
	assert.Equal(t, "topics", opts.PagesPrefix)
	assert.Equal(t, processor.PolicyIgnore, opts.OnInlineTagsNotFound)
}
