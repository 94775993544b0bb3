// Package validation checks authored tag definitions against the structural
// rules the engine relies on: identifier patterns, required labels, slug
// safety, and optionally strict CSS color formats.
//
// Validators return human-readable problem strings instead of erroring out
// on the first hit, so callers can batch-report every problem in a
// definitions file at once.
package validation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/doctags/doctags/internal/types"
)

var (
	idPattern        = regexp.MustCompile(`^[a-z0-9_-]+$`)
	permalinkPattern = regexp.MustCompile(`^[a-z0-9_/-]+$`)
	hexColorPattern  = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
)

// namedColors is the set of CSS named colors accepted under strict color
// validation. Covers the common names; the functional and hex forms handle
// everything else.
var namedColors = map[string]bool{
	"black": true, "silver": true, "gray": true, "grey": true, "white": true,
	"maroon": true, "red": true, "purple": true, "fuchsia": true, "green": true,
	"lime": true, "olive": true, "yellow": true, "navy": true, "blue": true,
	"teal": true, "aqua": true, "orange": true, "gold": true, "coral": true,
	"crimson": true, "indigo": true, "violet": true, "pink": true, "brown": true,
	"tan": true, "salmon": true, "turquoise": true, "transparent": true,
}

// Options controls optional validation behavior.
type Options struct {
	// StrictColors rejects color values that are not hex, functional, or
	// recognized named CSS colors. When false, any non-empty string passes.
	StrictColors bool
	// DefaultLocale is the locale whose label value every definition must
	// author, directly or via a plain string.
	DefaultLocale string
}

// ValidateID reports whether id conforms to the tag identifier pattern
// (lowercase alphanumeric, hyphen, underscore).
func ValidateID(id string) bool {
	return idPattern.MatchString(id)
}

// ValidateColor reports whether color is an acceptable CSS color under
// strict validation.
func ValidateColor(color string) bool {
	if hexColorPattern.MatchString(color) {
		return true
	}
	lower := strings.ToLower(color)
	for _, fn := range []string{"rgb(", "rgba(", "hsl(", "hsla(", "var("} {
		if strings.HasPrefix(lower, fn) && strings.HasSuffix(lower, ")") {
			return true
		}
	}
	return namedColors[lower]
}

// ValidateDefinition checks one tag definition and returns every problem
// found as a human-readable string.
func ValidateDefinition(def types.TagDefinition, opts Options) []string {
	var problems []string

	if def.ID == "" {
		problems = append(problems, "tag has an empty ID")
	} else if !ValidateID(def.ID) {
		problems = append(problems,
			fmt.Sprintf("tag %q: ID must contain only lowercase letters, digits, hyphens, and underscores", def.ID))
	}

	if def.Label.IsZero() {
		problems = append(problems, fmt.Sprintf("tag %q: missing required field \"label\"", def.ID))
	} else if _, plain := def.Label.Plain(); !plain && opts.DefaultLocale != "" {
		if _, ok := def.Label.ForLocale(opts.DefaultLocale); !ok {
			problems = append(problems,
				fmt.Sprintf("tag %q: label has no value for default locale %q", def.ID, opts.DefaultLocale))
		}
	}

	if def.Color != "" && opts.StrictColors && !ValidateColor(def.Color) {
		problems = append(problems,
			fmt.Sprintf("tag %q: color %q is not a recognized CSS color", def.ID, def.Color))
	}

	if def.Permalink != "" && !permalinkPattern.MatchString(def.Permalink) {
		problems = append(problems,
			fmt.Sprintf("tag %q: permalink %q is not URL-safe", def.ID, def.Permalink))
	}

	if !def.Difficulty.Valid() {
		problems = append(problems,
			fmt.Sprintf("tag %q: difficulty %q is not one of beginner, intermediate, advanced", def.ID, def.Difficulty))
	}

	if !def.ContentType.Valid() {
		problems = append(problems,
			fmt.Sprintf("tag %q: contentType %q is not a recognized content type", def.ID, def.ContentType))
	}

	for _, prereq := range def.Prerequisites {
		if !ValidateID(prereq) {
			problems = append(problems,
				fmt.Sprintf("tag %q: prerequisite %q is not a valid tag ID", def.ID, prereq))
		}
	}

	return problems
}

// ValidateTable checks every definition in the table, in tag-ID order, and
// returns the concatenated problem list. Dangling prerequisites are not
// checked here: they are a cross-reference concern, reported as warnings by
// the processor.
func ValidateTable(table *types.DefinitionTable, opts Options) []string {
	if table == nil {
		return nil
	}
	ids := make([]string, 0, len(table.Tags))
	for id := range table.Tags {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var problems []string
	for _, id := range ids {
		def := table.Tags[id]
		if def.ID == "" {
			def.ID = id
		}
		problems = append(problems, ValidateDefinition(def, opts)...)
	}
	return problems
}
