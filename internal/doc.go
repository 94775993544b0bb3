// Package internal contains the core implementation packages for doctags.
//
// This package follows Go's internal package convention, making these
// packages unavailable for import by external modules while providing
// all the core functionality for the doctags CLI tool.
//
// # Package Organization
//
// The internal packages are organized by functional domain:
//
//   - config: Configuration loading, defaults, and validation
//   - errors: Error taxonomy and reference warning collection
//   - i18n: Locale canonicalization and display-text fallback resolution
//   - processor: The tag processing pass, relationship graphs, and sorting
//   - scanner: Definitions file parsing and docs frontmatter scanning
//   - similarity: Edit-distance suggestions for unknown inline tags
//   - store: Per-locale memoized access to processed tag sets
//   - types: The shared data model for definitions, pages, and tags
//   - validation: Definition-shape checks for IDs, colors, and references
//   - watcher: File system monitoring with debouncing
//
// # Inter-Package Communication
//
// Packages communicate through well-defined interfaces:
//
//   - Scanner implements the processor's definition and page sources
//   - Processor consumes both sources in one pass and exposes read accessors
//   - Store memoizes one processor per locale behind initialization checks
//   - Watcher observes content changes and lets callers reset the store
package internal
