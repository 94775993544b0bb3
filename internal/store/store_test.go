package store

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doctags/doctags/internal/errors"
	"github.com/doctags/doctags/internal/processor"
	"github.com/doctags/doctags/internal/types"
)

// countingProvider counts corpus fetches across every processor the store
// builds, so tests can assert a single processing pass.
type countingProvider struct {
	fetches atomic.Int64
	corpus  []types.PageReference
}

func (p *countingProvider) Pages(ctx context.Context) ([]types.PageReference, error) {
	p.fetches.Add(1)
	return p.corpus, nil
}

type staticDefinitions struct {
	table *types.DefinitionTable
	err   error
}

func (s *staticDefinitions) Definitions(ctx context.Context) (*types.DefinitionTable, error) {
	return s.table, s.err
}

func testTable() *types.DefinitionTable {
	return &types.DefinitionTable{Tags: map[string]types.TagDefinition{
		"golang": {Label: types.NewLocalizedText("Go")},
		"web":    {Label: types.NewLocalizedText("Web"), Prerequisites: []string{"golang"}},
	}}
}

func testStore(definitions *staticDefinitions, pages *countingProvider) *Store {
	return New(func(locale string) (*processor.Processor, error) {
		return processor.New(definitions, pages, processor.Options{Locale: locale}, nil)
	})
}

func TestAccessorsBeforeInitializeFailFast(t *testing.T) {
	s := testStore(&staticDefinitions{table: testTable()}, &countingProvider{})

	_, err := s.Tags("en")
	require.Error(t, err)
	assert.True(t, errors.IsNotInitialized(err))
	assert.Contains(t, err.Error(), "Initialize")

	_, err = s.AllSorted("en")
	assert.True(t, errors.IsNotInitialized(err))
}

func TestInitializeAndRead(t *testing.T) {
	pages := &countingProvider{corpus: []types.PageReference{
		{ID: "p1", Slug: "p1", Title: "P1", Tags: []string{"golang"}},
	}}
	s := testStore(&staticDefinitions{table: testTable()}, pages)

	require.NoError(t, s.Initialize(context.Background(), "en"))

	tags, err := s.Tags("en")
	require.NoError(t, err)
	assert.Len(t, tags, 2)

	tag, err := s.Tag("en", "golang")
	require.NoError(t, err)
	require.NotNil(t, tag)
	assert.Equal(t, 1, tag.Count)

	missing, err := s.Tag("en", "ghost")
	require.NoError(t, err)
	assert.Nil(t, missing)

	sorted, err := s.AllSorted("en")
	require.NoError(t, err)
	assert.Len(t, sorted, 2)

	result, err := s.ValidatePrerequisites("en")
	require.NoError(t, err)
	assert.True(t, result.Valid)

	path, err := s.LearningPath("en", "golang", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"web"}, path)

	assert.Equal(t, []string{"en"}, s.Locales())
}

func TestInitialize_Idempotent(t *testing.T) {
	pages := &countingProvider{}
	s := testStore(&staticDefinitions{table: testTable()}, pages)

	require.NoError(t, s.Initialize(context.Background(), "en"))
	require.NoError(t, s.Initialize(context.Background(), "en"))
	require.NoError(t, s.Initialize(context.Background(), "en"))

	assert.Equal(t, int64(1), pages.fetches.Load())
}

func TestInitialize_ConcurrentCallersShareOnePass(t *testing.T) {
	pages := &countingProvider{corpus: []types.PageReference{
		{ID: "p1", Slug: "p1", Title: "P1", Tags: []string{"golang", "web"}},
	}}
	s := testStore(&staticDefinitions{table: testTable()}, pages)

	const callers = 32
	var wg sync.WaitGroup
	results := make([]map[string]*types.ProcessedTag, callers)
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := s.Initialize(context.Background(), "en"); err != nil {
				errs[i] = err
				return
			}
			results[i], errs[i] = s.Tags("en")
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int64(1), pages.fetches.Load(), "exactly one corpus fetch across all callers")
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, results[0], results[i], "all callers observe the same result")
	}
}

func TestInitialize_SeparatePartitionsPerLocale(t *testing.T) {
	pages := &countingProvider{}
	s := testStore(&staticDefinitions{table: testTable()}, pages)

	require.NoError(t, s.Initialize(context.Background(), "en"))
	require.NoError(t, s.Initialize(context.Background(), "fr"))

	assert.Equal(t, int64(2), pages.fetches.Load(), "one pass per partition")
	assert.ElementsMatch(t, []string{"en", "fr"}, s.Locales())
}

func TestInitialize_FailureClearsPartitionForRetry(t *testing.T) {
	definitions := &staticDefinitions{err: errors.NewConfigError("definitions_malformed", "bad yaml")}
	pages := &countingProvider{}
	s := testStore(definitions, pages)

	err := s.Initialize(context.Background(), "en")
	require.Error(t, err)
	assert.True(t, errors.IsConfigError(err))
	assert.Error(t, s.Err("en"))

	// Accessors still fail fast: the initialized flag and the data never
	// disagree.
	_, accessErr := s.Tags("en")
	assert.True(t, errors.IsNotInitialized(accessErr))

	// The source recovers; a retry succeeds cleanly.
	definitions.err = nil
	definitions.table = testTable()
	require.NoError(t, s.Initialize(context.Background(), "en"))

	tags, err := s.Tags("en")
	require.NoError(t, err)
	assert.Len(t, tags, 2)
}

func TestReset(t *testing.T) {
	pages := &countingProvider{}
	s := testStore(&staticDefinitions{table: testTable()}, pages)

	require.NoError(t, s.Initialize(context.Background(), "en"))
	s.Reset("en")

	_, err := s.Tags("en")
	assert.True(t, errors.IsNotInitialized(err))

	// Next access reprocesses.
	require.NoError(t, s.Initialize(context.Background(), "en"))
	assert.Equal(t, int64(2), pages.fetches.Load())
}

func TestResetAll(t *testing.T) {
	s := testStore(&staticDefinitions{table: testTable()}, &countingProvider{})

	require.NoError(t, s.Initialize(context.Background(), "en"))
	require.NoError(t, s.Initialize(context.Background(), "fr"))
	s.ResetAll()

	assert.Empty(t, s.Locales())
	_, err := s.Tags("en")
	assert.True(t, errors.IsNotInitialized(err))
}
