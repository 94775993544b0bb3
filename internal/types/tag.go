// Package types defines the shared data model for the tag taxonomy engine:
// authored tag definitions, scanned page references, and the processed tag
// records the engine derives from them.
package types

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Difficulty classifies a tag's educational level.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Valid reports whether d is one of the recognized difficulty levels.
// The empty value is valid because the field is optional.
func (d Difficulty) Valid() bool {
	switch d {
	case "", DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// ContentType classifies the kind of content a tag groups.
type ContentType string

const (
	ContentTypeTutorial  ContentType = "tutorial"
	ContentTypeGuide     ContentType = "guide"
	ContentTypeReference ContentType = "reference"
	ContentTypeConcept   ContentType = "concept"
	ContentTypeExample   ContentType = "example"
)

// Valid reports whether c is one of the recognized content types.
// The empty value is valid because the field is optional.
func (c ContentType) Valid() bool {
	switch c {
	case "", ContentTypeTutorial, ContentTypeGuide, ContentTypeReference,
		ContentTypeConcept, ContentTypeExample:
		return true
	}
	return false
}

// LocalizedText holds a value that is authored either as a plain string or as
// a locale→string mapping. Insertion order of the mapping is preserved so the
// resolver's last-resort fallback ("first value present") is well-defined.
type LocalizedText struct {
	plain    string
	byLocale map[string]string
	order    []string
}

// NewLocalizedText returns a plain, locale-independent value.
func NewLocalizedText(s string) LocalizedText {
	return LocalizedText{plain: s}
}

// NewLocalizedMap returns a locale-keyed value from ordered locale/value pairs.
func NewLocalizedMap(pairs ...[2]string) LocalizedText {
	t := LocalizedText{byLocale: make(map[string]string, len(pairs))}
	for _, p := range pairs {
		if _, dup := t.byLocale[p[0]]; !dup {
			t.order = append(t.order, p[0])
		}
		t.byLocale[p[0]] = p[1]
	}
	return t
}

// IsZero reports whether no value was authored at all.
func (t LocalizedText) IsZero() bool {
	return t.plain == "" && len(t.byLocale) == 0
}

// Plain returns the locale-independent value, if the text was authored as one.
func (t LocalizedText) Plain() (string, bool) {
	if t.byLocale != nil {
		return "", false
	}
	return t.plain, t.plain != ""
}

// ForLocale returns the value authored for exactly the given locale key.
func (t LocalizedText) ForLocale(locale string) (string, bool) {
	v, ok := t.byLocale[locale]
	return v, ok
}

// Locales returns the authored locale keys in document order.
func (t LocalizedText) Locales() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// First returns the first authored value: the plain value, or the first map
// entry in document order.
func (t LocalizedText) First() (string, bool) {
	if t.byLocale == nil {
		return t.plain, t.plain != ""
	}
	if len(t.order) == 0 {
		return "", false
	}
	return t.byLocale[t.order[0]], true
}

// UnmarshalYAML accepts either a scalar string or a mapping of locale keys to
// strings.
func (t *LocalizedText) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Decode(&t.plain)
	case yaml.MappingNode:
		t.byLocale = make(map[string]string, len(node.Content)/2)
		t.order = make([]string, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			var locale, value string
			if err := node.Content[i].Decode(&locale); err != nil {
				return err
			}
			if err := node.Content[i+1].Decode(&value); err != nil {
				return err
			}
			if _, dup := t.byLocale[locale]; !dup {
				t.order = append(t.order, locale)
			}
			t.byLocale[locale] = value
		}
		return nil
	default:
		return fmt.Errorf("localized value must be a string or a locale map, got %s", nodeKind(node))
	}
}

// MarshalYAML renders the value back in its authored shape.
func (t LocalizedText) MarshalYAML() (interface{}, error) {
	if t.byLocale == nil {
		return t.plain, nil
	}
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, locale := range t.order {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: locale},
			&yaml.Node{Kind: yaml.ScalarNode, Value: t.byLocale[locale]},
		)
	}
	return node, nil
}

func nodeKind(node *yaml.Node) string {
	switch node.Kind {
	case yaml.ScalarNode:
		return "scalar"
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.AliasNode:
		return "alias"
	default:
		return "document"
	}
}

// TagDefinition is the authored, static description of a tag as it appears in
// the tag definitions file. Unknown keys are preserved in Extra so site
// authors can attach schema extensions the engine does not interpret.
type TagDefinition struct {
	ID            string
	Label         LocalizedText
	Description   LocalizedText
	Color         string
	Icon          string
	Permalink     string
	Hidden        bool
	Priority      int
	Difficulty    Difficulty
	ContentType   ContentType
	Prerequisites []string
	Extra         map[string]interface{}
}

// UnmarshalYAML decodes the known definition fields and collects every
// unrecognized key into Extra.
func (d *TagDefinition) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("tag definition must be a mapping, got %s", nodeKind(node))
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		var key string
		if err := node.Content[i].Decode(&key); err != nil {
			return err
		}
		value := node.Content[i+1]
		var err error
		switch key {
		case "id":
			err = value.Decode(&d.ID)
		case "label":
			err = value.Decode(&d.Label)
		case "description":
			err = value.Decode(&d.Description)
		case "color":
			err = value.Decode(&d.Color)
		case "icon":
			err = value.Decode(&d.Icon)
		case "permalink":
			err = value.Decode(&d.Permalink)
		case "hidden":
			err = value.Decode(&d.Hidden)
		case "priority":
			err = value.Decode(&d.Priority)
		case "difficulty":
			err = value.Decode(&d.Difficulty)
		case "contentType", "content_type":
			err = value.Decode(&d.ContentType)
		case "prerequisites":
			err = value.Decode(&d.Prerequisites)
		default:
			var extra interface{}
			if err = value.Decode(&extra); err == nil {
				if d.Extra == nil {
					d.Extra = make(map[string]interface{})
				}
				d.Extra[key] = extra
			}
		}
		if err != nil {
			return fmt.Errorf("tag definition field %q: %w", key, err)
		}
	}
	return nil
}

// DefinitionDefaults holds shared defaults applied to definitions that omit
// the corresponding field.
type DefinitionDefaults struct {
	Color string `yaml:"color"`
}

// DefinitionTable is the decoded tag definitions source: the per-tag
// definitions plus shared defaults.
type DefinitionTable struct {
	Tags     map[string]TagDefinition
	Defaults DefinitionDefaults
}

// PageReference identifies one documentation page and the tags it references.
type PageReference struct {
	ID          string                 `json:"id" yaml:"id"`
	Slug        string                 `json:"slug" yaml:"slug"`
	Title       string                 `json:"title" yaml:"title"`
	Description string                 `json:"description,omitempty" yaml:"description,omitempty"`
	Tags        []string               `json:"tags" yaml:"tags"`
	Frontmatter map[string]interface{} `json:"frontmatter,omitempty" yaml:"frontmatter,omitempty"`
}

// ProcessedTag is the runtime-computed record for one defined tag: the
// definition fields with display text resolved for one locale, plus usage
// counts, matched pages, and relationship graphs. Records are built in a
// single processing pass and treated as read-only afterwards.
type ProcessedTag struct {
	ID            string                 `json:"id" yaml:"id"`
	Label         string                 `json:"label" yaml:"label"`
	Description   string                 `json:"description,omitempty" yaml:"description,omitempty"`
	Color         string                 `json:"color,omitempty" yaml:"color,omitempty"`
	Icon          string                 `json:"icon,omitempty" yaml:"icon,omitempty"`
	Hidden        bool                   `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	Priority      int                    `json:"priority" yaml:"priority"`
	Difficulty    Difficulty             `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
	ContentType   ContentType            `json:"contentType,omitempty" yaml:"contentType,omitempty"`
	Prerequisites []string               `json:"prerequisites,omitempty" yaml:"prerequisites,omitempty"`
	Extra         map[string]interface{} `json:"extra,omitempty" yaml:"extra,omitempty"`

	Slug              string          `json:"slug" yaml:"slug"`
	URL               string          `json:"url" yaml:"url"`
	Count             int             `json:"count" yaml:"count"`
	Pages             []PageReference `json:"pages,omitempty" yaml:"pages,omitempty"`
	PrerequisiteChain []string        `json:"prerequisiteChain,omitempty" yaml:"prerequisiteChain,omitempty"`
	RelatedTags       []string        `json:"relatedTags,omitempty" yaml:"relatedTags,omitempty"`
	NextSteps         []string        `json:"nextSteps,omitempty" yaml:"nextSteps,omitempty"`
}
