// Package scanner supplies the engine's two inputs from disk: the YAML tag
// definitions file and the markdown page corpus discovered under the
// configured docs directories.
package scanner

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/doctags/doctags/internal/errors"
	"github.com/doctags/doctags/internal/types"
)

// FileDefinitionSource reads the tag definitions table from one YAML file.
//
// A missing file is not an error: the engine degrades to zero tags. A file
// that exists but is not a mapping with a "tags" key is a fatal config
// error.
type FileDefinitionSource struct {
	Path string
}

type definitionsFile struct {
	Tags     map[string]types.TagDefinition `yaml:"tags"`
	Defaults types.DefinitionDefaults       `yaml:"defaults"`
}

// Definitions implements processor.DefinitionSource.
func (s *FileDefinitionSource) Definitions(ctx context.Context) (*types.DefinitionTable, error) {
	data, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewIOError("definitions_read", fmt.Sprintf("reading %s", s.Path), err)
	}
	return ParseDefinitions(data, s.Path)
}

// ParseDefinitions decodes a definitions document. The document must be a
// mapping with a "tags" key; each tag's ID defaults to its map key.
func ParseDefinitions(data []byte, source string) (*types.DefinitionTable, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, errors.NewConfigError("definitions_malformed",
			fmt.Sprintf("%s is not valid YAML", source)).WithCause(err)
	}
	if len(root.Content) == 0 {
		// Empty document: same degraded result as a missing file.
		return nil, nil
	}
	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, errors.NewConfigError("definitions_not_object",
			fmt.Sprintf("%s: tag definitions must be a mapping", source))
	}

	hasTags := false
	for i := 0; i+1 < len(doc.Content); i += 2 {
		if doc.Content[i].Value == "tags" {
			hasTags = true
			break
		}
	}
	if !hasTags {
		return nil, errors.NewConfigError("definitions_missing_tags",
			fmt.Sprintf("%s: missing required top-level \"tags\" key", source))
	}

	var file definitionsFile
	if err := doc.Decode(&file); err != nil {
		return nil, errors.NewConfigError("definitions_malformed",
			fmt.Sprintf("%s: cannot decode tag definitions", source)).WithCause(err)
	}

	table := &types.DefinitionTable{
		Tags:     make(map[string]types.TagDefinition, len(file.Tags)),
		Defaults: file.Defaults,
	}
	for id, def := range file.Tags {
		if def.ID == "" {
			def.ID = id
		}
		table.Tags[id] = def
	}
	return table, nil
}

// StaticDefinitionSource serves an already-decoded table. Used by callers
// that decode definitions themselves, and by tests.
type StaticDefinitionSource struct {
	Table *types.DefinitionTable
}

// Definitions implements processor.DefinitionSource.
func (s *StaticDefinitionSource) Definitions(ctx context.Context) (*types.DefinitionTable, error) {
	return s.Table, nil
}
