package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/doctags/doctags/internal/config"
	"github.com/doctags/doctags/internal/watcher"
)

var (
	buildWatch  bool
	buildStrict bool
)

var buildCmd = &cobra.Command{
	Use:     "build",
	Aliases: []string{"b"},
	Short:   "Run the tag processing pass for every configured locale",
	Long: `Build loads the tag definitions, scans the docs directories, and runs
the full processing pass for every configured locale, reporting tag and
warning counts.

Examples:
  doctags build                   # One pass, report and exit
  doctags build --strict          # Treat dangling prerequisites as fatal
  doctags build --watch           # Reprocess when definitions or docs change`,
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().BoolVarP(&buildWatch, "watch", "w", false, "Reprocess on definitions or docs changes")
	buildCmd.Flags().BoolVar(&buildStrict, "strict", false, "Fail the build on dangling prerequisites")
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger()
	tagStore := newStore(cfg, logger)
	ctx := cmd.Context()

	buildAll := func() error {
		for _, locale := range cfg.I18n.Locales {
			if err := tagStore.Initialize(ctx, locale); err != nil {
				return fmt.Errorf("processing locale %s: %w", locale, err)
			}

			tags, err := tagStore.AllSorted(locale)
			if err != nil {
				return err
			}
			warnings, err := tagStore.Warnings(locale)
			if err != nil {
				return err
			}
			fmt.Printf("locale %s: %d tags, %d warnings\n", locale, len(tags), len(warnings))

			if buildStrict {
				result, err := tagStore.ValidatePrerequisites(locale)
				if err != nil {
					return err
				}
				if !result.Valid {
					for _, e := range result.Errors {
						fmt.Fprintf(os.Stderr, "  %s -> %s: prerequisite not defined\n", e.TagID, e.Prerequisite)
					}
					return fmt.Errorf("locale %s: %d dangling prerequisites", locale, len(result.Errors))
				}
			}
		}
		return nil
	}

	if err := buildAll(); err != nil {
		return err
	}
	if !buildWatch {
		return nil
	}

	contentWatcher, err := watcher.New(300*time.Millisecond, logger)
	if err != nil {
		return err
	}
	defer contentWatcher.Stop()

	contentWatcher.AddFilter(watcher.MarkdownOrYAMLFilter)
	contentWatcher.AddFilter(watcher.NoHiddenFilter)
	contentWatcher.AddHandler(func(events []watcher.ChangeEvent) error {
		fmt.Printf("detected %d changes, reprocessing\n", len(events))
		tagStore.ResetAll()
		if err := buildAll(); err != nil {
			fmt.Fprintf(os.Stderr, "reprocessing failed: %v\n", err)
		}
		return nil
	})

	if err := contentWatcher.WatchFile(cfg.Tags.DefinitionsFile); err != nil {
		return err
	}
	for _, path := range cfg.Docs.ScanPaths {
		if err := contentWatcher.WatchRecursive(path); err != nil {
			return err
		}
	}

	watchCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	contentWatcher.Start(watchCtx)

	fmt.Println("watching for changes, ctrl-c to stop")
	<-watchCtx.Done()
	return nil
}
