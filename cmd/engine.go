package cmd

import (
	"github.com/doctags/doctags/internal/config"
	"github.com/doctags/doctags/internal/logging"
	"github.com/doctags/doctags/internal/processor"
	"github.com/doctags/doctags/internal/scanner"
	"github.com/doctags/doctags/internal/store"
)

// newStore wires the store's processor factory from the loaded
// configuration: every partition reads the same definitions file and scans
// the same docs paths, resolved for its own locale.
func newStore(cfg *config.Config, logger logging.Logger) *store.Store {
	definitions := &scanner.FileDefinitionSource{Path: cfg.Tags.DefinitionsFile}
	pages := scanner.NewPageScanner(cfg.Docs.ScanPaths, cfg.Docs.ExcludePatterns, logger)

	return store.New(func(locale string) (*processor.Processor, error) {
		return processor.New(definitions, pages, cfg.ProcessorOptions(locale), logger)
	})
}
