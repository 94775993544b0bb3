// Package processor implements the tag processing and relationship engine.
//
// Given a decoded tag definitions table and a page corpus, a Processor runs
// one synchronous processing pass: cross-reference pages against defined
// tags, derive slugs and URLs, validate referential integrity, and compute
// the relationship graphs (prerequisite chains, related-tag scores, next
// steps). The resulting records are read-only after the pass; a Processor is
// discarded and rebuilt wholesale on invalidation.
package processor

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/doctags/doctags/internal/errors"
	"github.com/doctags/doctags/internal/i18n"
	"github.com/doctags/doctags/internal/logging"
	"github.com/doctags/doctags/internal/similarity"
	"github.com/doctags/doctags/internal/types"
	"github.com/doctags/doctags/internal/validation"
)

// Policy controls how the engine reacts to page-referenced tags that are
// absent from the definitions table.
type Policy string

const (
	PolicyIgnore Policy = "ignore"
	PolicyWarn   Policy = "warn"
	PolicyError  Policy = "error"
)

// ValidPolicy reports whether s names a recognized inline-tag policy.
func ValidPolicy(s string) bool {
	switch Policy(s) {
	case PolicyIgnore, PolicyWarn, PolicyError:
		return true
	}
	return false
}

// relationLimit caps the RelatedTags and NextSteps lists on a processed tag.
const relationLimit = 5

// suggestionLimit caps "did you mean" suggestions per undefined inline tag.
const suggestionLimit = 3

// DefinitionSource supplies the decoded tag definitions table. A nil table
// with a nil error means the source is absent, which degrades to zero tags
// rather than failing.
type DefinitionSource interface {
	Definitions(ctx context.Context) (*types.DefinitionTable, error)
}

// PageProvider supplies the ordered page corpus.
type PageProvider interface {
	Pages(ctx context.Context) ([]types.PageReference, error)
}

// Options configures one Processor.
type Options struct {
	// Locale is the display locale labels and descriptions resolve to.
	Locale string
	// DefaultLocale is the authoring fallback locale (default "en").
	DefaultLocale string
	// PagesPrefix is the path segment for tag URLs (default "tags").
	PagesPrefix string
	// BasePath is the URL prefix applied ahead of the tags prefix.
	BasePath string
	// OnInlineTagsNotFound is the undefined-inline-tag policy (default warn).
	OnInlineTagsNotFound Policy
	// StrictColors enables strict CSS color validation of definitions.
	StrictColors bool
}

func (o *Options) applyDefaults() {
	if o.Locale == "" {
		o.Locale = o.DefaultLocale
	}
	if o.Locale == "" {
		o.Locale = i18n.FallbackLocale
	}
	if o.PagesPrefix == "" {
		o.PagesPrefix = "tags"
	}
	if o.OnInlineTagsNotFound == "" {
		o.OnInlineTagsNotFound = PolicyWarn
	}
}

// PrerequisiteError is one dangling prerequisite reference.
type PrerequisiteError struct {
	TagID        string `json:"tagId"`
	Prerequisite string `json:"prerequisite"`
}

// PrerequisiteValidation is the result of ValidatePrerequisites.
type PrerequisiteValidation struct {
	Valid  bool                `json:"isValid"`
	Errors []PrerequisiteError `json:"errors,omitempty"`
}

// Processor is the tag processing engine. It is built for one locale, runs
// its pass once, and serves read accessors afterwards. Initialize is not
// safe for concurrent use; the store serializes it.
type Processor struct {
	definitions DefinitionSource
	pages       PageProvider
	opts        Options
	logger      logging.Logger
	resolver    *i18n.Resolver
	collator    *collate.Collator

	initialized bool
	tags        map[string]*types.ProcessedTag
	sorted      []*types.ProcessedTag
	reverse     map[string][]string
	pageSets    map[string]map[string]bool
	warnings    *errors.WarningCollector
}

// New creates a Processor. The definition source and page provider are
// consulted lazily on Initialize.
func New(definitions DefinitionSource, pages PageProvider, opts Options, logger logging.Logger) (*Processor, error) {
	opts.applyDefaults()
	if !ValidPolicy(string(opts.OnInlineTagsNotFound)) {
		return nil, errors.NewConfigError("invalid_policy",
			fmt.Sprintf("onInlineTagsNotFound must be ignore, warn, or error, got %q", opts.OnInlineTagsNotFound))
	}
	resolver, err := i18n.NewResolver(opts.DefaultLocale)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Processor{
		definitions: definitions,
		pages:       pages,
		opts:        opts,
		logger:      logger.WithComponent("processor"),
		resolver:    resolver,
		collator:    collate.New(language.Make(opts.Locale)),
		warnings:    errors.NewWarningCollector(),
	}, nil
}

// Locale returns the display locale this processor was built for.
func (p *Processor) Locale() string {
	return p.opts.Locale
}

// Initialize runs the full processing pass. Phases run strictly in order:
// load definitions, cross-reference pages, build processed tags, validate
// slug uniqueness, compute relationship graphs, validate inline tags. A
// second call on an initialized processor returns immediately without
// re-fetching the corpus.
func (p *Processor) Initialize(ctx context.Context) error {
	if p.initialized {
		return nil
	}

	table, err := p.definitions.Definitions(ctx)
	if err != nil {
		return err
	}
	if table == nil {
		table = &types.DefinitionTable{}
	}
	if len(table.Tags) == 0 {
		p.logger.Info(ctx, "no tag definitions found, processing with zero tags")
	}

	for _, problem := range validation.ValidateTable(table, validation.Options{
		StrictColors:  p.opts.StrictColors,
		DefaultLocale: p.resolver.DefaultLocale(),
	}) {
		p.logger.Warn(ctx, nil, "tag definition problem", "problem", problem)
	}

	corpus, err := p.pages.Pages(ctx)
	if err != nil {
		return errors.NewIOError("page_corpus", "fetching page corpus", err)
	}

	index := p.crossReference(corpus)

	if err := p.buildProcessedTags(table, index); err != nil {
		return err
	}
	p.validateSlugs(ctx)
	p.computeGraphs(ctx)
	if err := p.validateInlineTags(ctx, corpus); err != nil {
		return err
	}
	p.buildSorted()

	p.initialized = true
	p.logger.Info(ctx, "tag processing complete",
		"tags", len(p.tags), "pages", len(corpus), "warnings", p.warnings.Count())
	return nil
}

// crossReference scans every page's tag list once and accumulates the
// tagID to pages index.
func (p *Processor) crossReference(corpus []types.PageReference) map[string][]types.PageReference {
	index := make(map[string][]types.PageReference)
	for _, page := range corpus {
		for _, tagID := range page.Tags {
			index[tagID] = append(index[tagID], page)
		}
	}
	return index
}

// buildProcessedTags merges every defined tag with its cross-referenced
// pages. Tags with zero matching pages still get an entry.
func (p *Processor) buildProcessedTags(table *types.DefinitionTable, index map[string][]types.PageReference) error {
	p.tags = make(map[string]*types.ProcessedTag, len(table.Tags))
	p.pageSets = make(map[string]map[string]bool, len(table.Tags))

	for id, def := range table.Tags {
		if def.ID == "" {
			def.ID = id
		}

		label, err := p.resolver.ResolveRequired(id, "label", def.Label, p.opts.Locale)
		if err != nil {
			return err
		}
		description, _ := p.resolver.Resolve(def.Description, p.opts.Locale)

		color := def.Color
		if color == "" {
			color = table.Defaults.Color
		}

		slug := def.Permalink
		if slug == "" {
			slug = Slugify(id)
		}

		pages := index[id]
		pageSet := make(map[string]bool, len(pages))
		for _, page := range pages {
			pageSet[page.ID] = true
		}
		p.pageSets[id] = pageSet

		p.tags[id] = &types.ProcessedTag{
			ID:            id,
			Label:         label,
			Description:   description,
			Color:         color,
			Icon:          def.Icon,
			Hidden:        def.Hidden,
			Priority:      def.Priority,
			Difficulty:    def.Difficulty,
			ContentType:   def.ContentType,
			Prerequisites: def.Prerequisites,
			Extra:         def.Extra,
			Slug:          slug,
			URL:           p.tagURL(slug),
			Count:         len(pages),
			Pages:         pages,
		}
	}
	return nil
}

// validateSlugs warns once per slug collision group. Collisions only affect
// URL assignment, so they never abort processing.
func (p *Processor) validateSlugs(ctx context.Context) {
	bySlug := make(map[string][]string)
	for _, id := range p.sortedIDs() {
		slug := p.tags[id].Slug
		bySlug[slug] = append(bySlug[slug], id)
	}

	slugs := make([]string, 0, len(bySlug))
	for slug := range bySlug {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)

	for _, slug := range slugs {
		ids := bySlug[slug]
		if len(ids) < 2 {
			continue
		}
		warning := errors.ReferenceWarning{
			Kind:    errors.WarningSlugCollision,
			Detail:  fmt.Sprintf("slug %q is shared by %d tags", slug, len(ids)),
			Related: ids,
		}
		p.warnings.Add(warning)
		p.logger.Warn(ctx, nil, "slug collision", "slug", slug, "tags", strings.Join(ids, ", "))
	}
}

// validateInlineTags finds tag IDs referenced by pages but absent from the
// definitions table and applies the configured policy.
func (p *Processor) validateInlineTags(ctx context.Context, corpus []types.PageReference) error {
	if p.opts.OnInlineTagsNotFound == PolicyIgnore {
		return nil
	}

	undefinedPages := make(map[string][]string)
	var undefined []string
	for _, page := range corpus {
		for _, tagID := range page.Tags {
			if _, ok := p.tags[tagID]; ok {
				continue
			}
			if _, seen := undefinedPages[tagID]; !seen {
				undefined = append(undefined, tagID)
			}
			undefinedPages[tagID] = append(undefinedPages[tagID], page.Slug)
		}
	}
	if len(undefined) == 0 {
		return nil
	}
	sort.Strings(undefined)

	defined := p.sortedIDs()
	var report []string
	for _, tagID := range undefined {
		detail := fmt.Sprintf("tag %q is referenced by pages [%s] but not defined",
			tagID, strings.Join(undefinedPages[tagID], ", "))
		if suggestions := similarity.Suggest(tagID, defined, suggestionLimit); len(suggestions) > 0 {
			detail += fmt.Sprintf(", did you mean %s?", strings.Join(suggestions, ", "))
		}
		report = append(report, detail)

		if p.opts.OnInlineTagsNotFound == PolicyWarn {
			p.warnings.Add(errors.ReferenceWarning{
				Kind:    errors.WarningUndefinedTag,
				TagID:   tagID,
				Detail:  detail,
				Related: undefinedPages[tagID],
			})
			p.logger.Warn(ctx, nil, "undefined inline tag", "tag", tagID, "pages", strings.Join(undefinedPages[tagID], ", "))
		}
	}

	if p.opts.OnInlineTagsNotFound == PolicyError {
		return errors.NewReferenceError("undefined_inline_tags",
			fmt.Sprintf("%d undefined inline tags: %s", len(undefined), strings.Join(report, "; ")))
	}
	return nil
}

// buildSorted computes the stable sorted view: priority descending, count
// descending, label ascending under the locale's collation, tag ID as the
// final tie-break.
func (p *Processor) buildSorted() {
	p.sorted = make([]*types.ProcessedTag, 0, len(p.tags))
	for _, tag := range p.tags {
		p.sorted = append(p.sorted, tag)
	}
	sort.SliceStable(p.sorted, func(i, j int) bool {
		a, b := p.sorted[i], p.sorted[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if c := p.collator.CompareString(a.Label, b.Label); c != 0 {
			return c < 0
		}
		return a.ID < b.ID
	})
}

// Tags returns the processed tag map. The map and its records are read-only
// after Initialize; callers must not mutate them.
func (p *Processor) Tags() map[string]*types.ProcessedTag {
	return p.tags
}

// Tag returns one processed tag by ID.
func (p *Processor) Tag(id string) (*types.ProcessedTag, bool) {
	tag, ok := p.tags[id]
	return tag, ok
}

// AllSorted returns every processed tag in the stable sort order. Hidden
// tags are included; index-style consumers filter them out themselves.
func (p *Processor) AllSorted() []*types.ProcessedTag {
	out := make([]*types.ProcessedTag, len(p.sorted))
	copy(out, p.sorted)
	return out
}

// TagsForPage returns every processed tag whose page list contains a page
// with the given slug, in the stable sort order.
func (p *Processor) TagsForPage(pageSlug string) []*types.ProcessedTag {
	var out []*types.ProcessedTag
	for _, tag := range p.sorted {
		for _, page := range tag.Pages {
			if page.Slug == pageSlug {
				out = append(out, tag)
				break
			}
		}
	}
	return out
}

// Warnings returns the reference warnings collected during the pass.
func (p *Processor) Warnings() []errors.ReferenceWarning {
	return p.warnings.All()
}

// ValidatePrerequisites reports every (tag, prerequisite) pair where the
// prerequisite is not a defined tag. Non-fatal: the build-time caller
// decides whether to treat failures as hard errors.
func (p *Processor) ValidatePrerequisites() PrerequisiteValidation {
	result := PrerequisiteValidation{Valid: true}
	for _, id := range p.sortedIDs() {
		for _, prereq := range p.tags[id].Prerequisites {
			if _, ok := p.tags[prereq]; !ok {
				result.Valid = false
				result.Errors = append(result.Errors, PrerequisiteError{
					TagID:        id,
					Prerequisite: prereq,
				})
			}
		}
	}
	return result
}

// Cleanup releases the processor's internal maps so a dropped processor does
// not retain large page and tag graphs across a reload cycle.
func (p *Processor) Cleanup() {
	p.tags = nil
	p.sorted = nil
	p.reverse = nil
	p.pageSets = nil
	p.warnings.Clear()
	p.initialized = false
}

// sortedIDs returns the defined tag IDs in ascending order.
func (p *Processor) sortedIDs() []string {
	ids := make([]string, 0, len(p.tags))
	for id := range p.tags {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// tagURL composes the relative URL for a tag slug from the configured base
// path and pages prefix.
func (p *Processor) tagURL(slug string) string {
	parts := []string{}
	for _, part := range []string{p.opts.BasePath, p.opts.PagesPrefix, slug} {
		part = strings.Trim(part, "/")
		if part != "" {
			parts = append(parts, part)
		}
	}
	return "/" + strings.Join(parts, "/")
}

// Slugify normalizes a tag ID into a URL-safe slug: lowercased, with every
// run of characters outside [a-z0-9_-] collapsed to a single hyphen.
func Slugify(id string) string {
	var b strings.Builder
	lastHyphen := false
	for _, r := range strings.ToLower(id) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen && b.Len() > 0 {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
