// Package store provides memoized, concurrency-safe access to tag
// processors, one partition per locale.
//
// The store guarantees at most one in-flight processing pass per partition:
// concurrent Initialize calls for the same locale collapse onto a single
// pass and a single page-corpus fetch, and every caller observes the same
// result. The store is an explicit object owned by the application
// lifecycle, never a package-level singleton.
package store

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/doctags/doctags/internal/errors"
	"github.com/doctags/doctags/internal/processor"
	"github.com/doctags/doctags/internal/types"
)

// Factory builds a fresh processor for a locale. The store calls it once
// per successful partition initialization.
type Factory func(locale string) (*processor.Processor, error)

type partitionState int

const (
	stateUninitialized partitionState = iota
	stateInitializing
	stateReady
	stateFailed
)

type partition struct {
	state partitionState
	proc  *processor.Processor
	err   error
}

// Store caches one initialized processor per locale.
type Store struct {
	factory Factory

	mu    sync.Mutex
	group singleflight.Group
	parts map[string]*partition
}

// New creates an empty store around a processor factory.
func New(factory Factory) *Store {
	return &Store{
		factory: factory,
		parts:   make(map[string]*partition),
	}
}

// Initialize makes the partition for the given locale ready, running the
// processing pass at most once. Idempotent: a ready partition returns
// immediately. Concurrent callers share one in-flight pass via singleflight;
// the transition into the initializing state happens under the store mutex
// with no blocking call in between, so no two callers can both observe an
// uninitialized partition and start redundant work. On failure the
// partition is cleared as a unit, so a later call retries cleanly.
func (s *Store) Initialize(ctx context.Context, locale string) error {
	s.mu.Lock()
	if part, ok := s.parts[locale]; ok && part.state == stateReady {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	_, err, _ := s.group.Do(locale, func() (interface{}, error) {
		s.mu.Lock()
		if part, ok := s.parts[locale]; ok && part.state == stateReady {
			s.mu.Unlock()
			return nil, nil
		}
		s.parts[locale] = &partition{state: stateInitializing}
		s.mu.Unlock()

		proc, err := s.factory(locale)
		if err == nil {
			err = proc.Initialize(ctx)
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if err != nil {
			// Clear the in-flight marker and any partial instance together;
			// the initialized flag and the data must never disagree.
			s.parts[locale] = &partition{state: stateFailed, err: err}
			return nil, err
		}
		s.parts[locale] = &partition{state: stateReady, proc: proc}
		return nil, nil
	})
	return err
}

// ready returns the processor for a ready partition, or a
// store-not-initialized error naming the accessor.
func (s *Store) ready(locale, accessor string) (*processor.Processor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	part, ok := s.parts[locale]
	if !ok || part.state != stateReady {
		return nil, errors.NewStoreNotInitializedError(accessor)
	}
	return part.proc, nil
}

// Tags returns the processed tag map for a locale.
func (s *Store) Tags(locale string) (map[string]*types.ProcessedTag, error) {
	proc, err := s.ready(locale, "Tags")
	if err != nil {
		return nil, err
	}
	return proc.Tags(), nil
}

// Tag returns one processed tag for a locale.
func (s *Store) Tag(locale, id string) (*types.ProcessedTag, error) {
	proc, err := s.ready(locale, "Tag")
	if err != nil {
		return nil, err
	}
	tag, ok := proc.Tag(id)
	if !ok {
		return nil, nil
	}
	return tag, nil
}

// AllSorted returns the sorted tag list for a locale.
func (s *Store) AllSorted(locale string) ([]*types.ProcessedTag, error) {
	proc, err := s.ready(locale, "AllSorted")
	if err != nil {
		return nil, err
	}
	return proc.AllSorted(), nil
}

// TagsForPage returns the tags referencing a page slug for a locale.
func (s *Store) TagsForPage(locale, pageSlug string) ([]*types.ProcessedTag, error) {
	proc, err := s.ready(locale, "TagsForPage")
	if err != nil {
		return nil, err
	}
	return proc.TagsForPage(pageSlug), nil
}

// ValidatePrerequisites reports dangling prerequisites for a locale.
func (s *Store) ValidatePrerequisites(locale string) (processor.PrerequisiteValidation, error) {
	proc, err := s.ready(locale, "ValidatePrerequisites")
	if err != nil {
		return processor.PrerequisiteValidation{}, err
	}
	return proc.ValidatePrerequisites(), nil
}

// LearningPath returns next-step suggestions or a shortest path between two
// tags for a locale.
func (s *Store) LearningPath(locale, startID, endID string) ([]string, error) {
	proc, err := s.ready(locale, "LearningPath")
	if err != nil {
		return nil, err
	}
	return proc.LearningPath(startID, endID), nil
}

// Warnings returns the reference warnings collected for a locale.
func (s *Store) Warnings(locale string) ([]errors.ReferenceWarning, error) {
	proc, err := s.ready(locale, "Warnings")
	if err != nil {
		return nil, err
	}
	return proc.Warnings(), nil
}

// Err returns the error a failed partition recorded, if any.
func (s *Store) Err(locale string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if part, ok := s.parts[locale]; ok {
		return part.err
	}
	return nil
}

// Reset drops one partition, releasing the processor's internal maps first
// so the old tag and page graphs do not outlive the reload.
func (s *Store) Reset(locale string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if part, ok := s.parts[locale]; ok {
		if part.proc != nil {
			part.proc.Cleanup()
		}
		delete(s.parts, locale)
	}
}

// ResetAll drops every partition.
func (s *Store) ResetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for locale, part := range s.parts {
		if part.proc != nil {
			part.proc.Cleanup()
		}
		delete(s.parts, locale)
	}
}

// Locales returns the locales with a ready partition.
func (s *Store) Locales() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for locale, part := range s.parts {
		if part.state == stateReady {
			out = append(out, locale)
		}
	}
	return out
}
