//go:build property
// +build property

package processor

import (
	"context"
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/doctags/doctags/internal/types"
)

// TestSortedOrderProperties checks the stable sort contract over random tag
// sets: the sorted view is a permutation of the tag map ordered by priority
// descending, count descending, label ascending.
func TestSortedOrderProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("sorted view is an ordered permutation", prop.ForAll(
		func(priorities []int, counts []int) bool {
			n := len(priorities)
			if len(counts) < n {
				n = len(counts)
			}
			if n == 0 {
				return true
			}

			tags := make(map[string]types.TagDefinition, n)
			corpus := []types.PageReference{}
			for i := 0; i < n; i++ {
				id := fmt.Sprintf("tag%02d", i)
				tags[id] = types.TagDefinition{
					Label:    types.NewLocalizedText(fmt.Sprintf("Label %02d", i%7)),
					Priority: priorities[i] % 5,
				}
				for j := 0; j < counts[i]%4; j++ {
					slug := fmt.Sprintf("p-%02d-%d", i, j)
					corpus = append(corpus, types.PageReference{
						ID: slug, Slug: slug, Title: slug, Tags: []string{id},
					})
				}
			}

			p, err := New(
				&countingDefinitions{table: &types.DefinitionTable{Tags: tags}},
				&countingPages{corpus: corpus},
				Options{},
				nil,
			)
			if err != nil {
				return false
			}
			if err := p.Initialize(context.Background()); err != nil {
				return false
			}

			sorted := p.AllSorted()
			if len(sorted) != len(p.Tags()) {
				return false
			}

			seen := make(map[string]bool, len(sorted))
			for _, tag := range sorted {
				if seen[tag.ID] {
					return false
				}
				seen[tag.ID] = true
				if _, ok := p.Tag(tag.ID); !ok {
					return false
				}
			}

			for i := 1; i < len(sorted); i++ {
				prev, cur := sorted[i-1], sorted[i]
				if prev.Priority != cur.Priority {
					if prev.Priority < cur.Priority {
						return false
					}
					continue
				}
				if prev.Count != cur.Count {
					if prev.Count < cur.Count {
						return false
					}
					continue
				}
				if prev.Label > cur.Label {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 100)),
		gen.SliceOf(gen.IntRange(0, 100)),
	))

	properties.TestingRun(t)
}
