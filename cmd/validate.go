package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doctags/doctags/internal/config"
	"github.com/doctags/doctags/internal/scanner"
	"github.com/doctags/doctags/internal/validation"
)

var validateStrict bool

var validateCmd = &cobra.Command{
	Use:     "validate",
	Aliases: []string{"v"},
	Short:   "Validate tag definitions and cross-references",
	Long: `Validate batch-checks the tag definitions file (identifier patterns,
required labels, color formats), then runs a processing pass and reports
dangling prerequisites, slug collisions, cycles, and undefined inline tags.

Examples:
  doctags validate                # Report every problem, exit 0 on warnings
  doctags validate --strict       # Any warning fails validation`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "Treat warnings as failures")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	problems := 0

	definitions := &scanner.FileDefinitionSource{Path: cfg.Tags.DefinitionsFile}
	table, err := definitions.Definitions(ctx)
	if err != nil {
		return err
	}
	for _, problem := range validation.ValidateTable(table, validation.Options{
		StrictColors:  cfg.Tags.StrictColors,
		DefaultLocale: cfg.I18n.DefaultLocale,
	}) {
		fmt.Fprintf(os.Stderr, "definition: %s\n", problem)
		problems++
	}

	tagStore := newStore(cfg, logger)
	locale := cfg.I18n.DefaultLocale
	if err := tagStore.Initialize(ctx, locale); err != nil {
		return err
	}

	result, err := tagStore.ValidatePrerequisites(locale)
	if err != nil {
		return err
	}
	for _, e := range result.Errors {
		fmt.Fprintf(os.Stderr, "prerequisite: tag %q lists undefined prerequisite %q\n", e.TagID, e.Prerequisite)
		problems++
	}

	warnings, err := tagStore.Warnings(locale)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	if problems > 0 {
		return fmt.Errorf("validation found %d problems", problems)
	}
	if validateStrict && len(warnings) > 0 {
		return fmt.Errorf("validation found %d warnings (strict mode)", len(warnings))
	}
	fmt.Println("tag definitions and references are valid")
	return nil
}
