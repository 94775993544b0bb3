package processor

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/doctags/doctags/internal/errors"
)

// computeGraphs derives the three relationship graphs for every processed
// tag. Tag IDs are iterated in ascending order so equal-score candidates
// resolve deterministically.
func (p *Processor) computeGraphs(ctx context.Context) {
	ids := p.sortedIDs()

	// Full reverse-prerequisite adjacency. NextSteps on the record is this
	// relation truncated for display; learning-path search uses the full
	// relation so a path is never lost to the display limit.
	p.reverse = make(map[string][]string, len(ids))
	for _, id := range ids {
		for _, prereq := range p.tags[id].Prerequisites {
			p.reverse[prereq] = append(p.reverse[prereq], id)
		}
	}

	p.warnDanglingPrerequisites(ctx, ids)

	for _, id := range ids {
		p.tags[id].PrerequisiteChain = p.prerequisiteChain(ctx, id)
	}
	for _, id := range ids {
		p.tags[id].RelatedTags = p.relatedTags(id)
	}
	for _, id := range ids {
		steps := p.reverse[id]
		if len(steps) > relationLimit {
			steps = steps[:relationLimit]
		}
		p.tags[id].NextSteps = steps
	}
}

// warnDanglingPrerequisites emits one warning per (tag, prerequisite) pair
// where the prerequisite is undefined. Dangling references degrade the
// derived graphs but never abort processing.
func (p *Processor) warnDanglingPrerequisites(ctx context.Context, ids []string) {
	for _, id := range ids {
		for _, prereq := range p.tags[id].Prerequisites {
			if _, ok := p.tags[prereq]; ok {
				continue
			}
			p.warnings.Add(errors.ReferenceWarning{
				Kind:   errors.WarningDanglingPrerequisite,
				TagID:  id,
				Detail: fmt.Sprintf("tag %q lists undefined prerequisite %q", id, prereq),
			})
			p.logger.Warn(ctx, nil, "dangling prerequisite", "tag", id, "prerequisite", prereq)
		}
	}
}

// prerequisiteChain resolves a tag's prerequisites recursively, deduplicated
// and flattened. Each recursion branch carries its own copy of the current
// path, so a diamond dependency (two branches meeting at a shared ancestor)
// resolves the ancestor once without a spurious cycle warning, while a true
// cycle halts only the offending branch.
func (p *Processor) prerequisiteChain(ctx context.Context, start string) []string {
	var chain []string
	seen := map[string]bool{start: true}

	var visit func(id string, path []string)
	visit = func(id string, path []string) {
		tag, ok := p.tags[id]
		if !ok {
			return
		}
		for _, prereq := range tag.Prerequisites {
			if onPath(path, prereq) {
				cycle := append(append([]string{}, path...), prereq)
				p.warnings.Add(errors.ReferenceWarning{
					Kind:    errors.WarningCycle,
					TagID:   start,
					Detail:  fmt.Sprintf("prerequisite cycle: %s", strings.Join(cycle, " -> ")),
					Related: cycle,
				})
				p.logger.Warn(ctx, nil, "prerequisite cycle detected",
					"tag", start, "cycle", strings.Join(cycle, " -> "))
				continue
			}
			if seen[prereq] {
				continue
			}
			seen[prereq] = true
			chain = append(chain, prereq)

			branch := make([]string, len(path), len(path)+1)
			copy(branch, path)
			visit(prereq, append(branch, prereq))
		}
	}
	visit(start, []string{start})
	return chain
}

// relatedTags scores every other tag against the given one: two points per
// shared page, three if either lists the other as a direct prerequisite.
// Tags with a positive score are kept, sorted by score descending with tag
// ID ascending as the tie-break, truncated to the relation limit.
func (p *Processor) relatedTags(id string) []string {
	tag := p.tags[id]
	prereqs := make(map[string]bool, len(tag.Prerequisites))
	for _, prereq := range tag.Prerequisites {
		prereqs[prereq] = true
	}

	type scored struct {
		id    string
		score int
	}
	var candidates []scored
	for _, otherID := range p.sortedIDs() {
		if otherID == id {
			continue
		}
		score := 2 * p.sharedPages(id, otherID)
		if prereqs[otherID] {
			score += 3
		}
		for _, prereq := range p.tags[otherID].Prerequisites {
			if prereq == id {
				score += 3
				break
			}
		}
		if score > 0 {
			candidates = append(candidates, scored{id: otherID, score: score})
		}
	}

	// Stable sort keeps the ID-ascending iteration order for equal scores.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if len(candidates) > relationLimit {
		candidates = candidates[:relationLimit]
	}

	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.id
	}
	return out
}

// sharedPages counts the pages referenced by both tags.
func (p *Processor) sharedPages(a, b string) int {
	setA, setB := p.pageSets[a], p.pageSets[b]
	if len(setB) < len(setA) {
		setA, setB = setB, setA
	}
	shared := 0
	for pageID := range setA {
		if setB[pageID] {
			shared++
		}
	}
	return shared
}

// LearningPath suggests how to continue from a tag. With an empty end, it
// returns the start tag's next-step suggestions. With both endpoints, it
// runs a breadth-first search over the full reverse-prerequisite relation
// and returns the shortest path of tag IDs including both endpoints, or nil
// when the end is unreachable. Neighbors expand in tag-ID order, so the
// chosen path is deterministic among equals.
func (p *Processor) LearningPath(startID, endID string) []string {
	start, ok := p.tags[startID]
	if !ok {
		return nil
	}
	if endID == "" {
		out := make([]string, len(start.NextSteps))
		copy(out, start.NextSteps)
		return out
	}
	if _, ok := p.tags[endID]; !ok {
		return nil
	}
	if startID == endID {
		return []string{startID}
	}

	parent := map[string]string{startID: ""}
	queue := []string{startID}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, next := range p.reverse[current] {
			if _, visited := parent[next]; visited {
				continue
			}
			parent[next] = current
			if next == endID {
				return reconstructPath(parent, startID, endID)
			}
			queue = append(queue, next)
		}
	}
	return nil
}

func reconstructPath(parent map[string]string, startID, endID string) []string {
	var path []string
	for id := endID; id != ""; id = parent[id] {
		path = append(path, id)
		if id == startID {
			break
		}
	}
	// Reverse into start-to-end order.
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func onPath(path []string, id string) bool {
	for _, p := range path {
		if p == id {
			return true
		}
	}
	return false
}
