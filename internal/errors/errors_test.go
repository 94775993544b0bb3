package errors

import (
	stderrors "errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTagError_Error(t *testing.T) {
	err := NewConfigError("definitions_malformed", "tags file is not valid YAML").
		WithCause(stderrors.New("yaml: line 3"))

	assert.Contains(t, err.Error(), "[definitions_malformed]")
	assert.Contains(t, err.Error(), "tags file is not valid YAML")
	assert.Contains(t, err.Error(), "yaml: line 3")
}

func TestTagError_Unwrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := NewIOError("page_corpus", "fetching pages", cause)

	assert.ErrorIs(t, err, cause)
}

func TestTagError_TypeChecks(t *testing.T) {
	assert.True(t, IsConfigError(NewConfigError("c", "m")))
	assert.False(t, IsConfigError(NewReferenceError("r", "m")))

	assert.True(t, IsReferenceError(NewReferenceError("r", "m")))
	assert.True(t, IsNotInitialized(NewStoreNotInitializedError("Tags")))

	// Type checks see through wrapping.
	wrapped := fmt.Errorf("processing locale en: %w", NewReferenceError("r", "m"))
	assert.True(t, IsReferenceError(wrapped))
}

func TestNewStoreNotInitializedError_NamesTheRequiredCall(t *testing.T) {
	err := NewStoreNotInitializedError("AllSorted")
	assert.Contains(t, err.Error(), "AllSorted")
	assert.Contains(t, err.Error(), "Initialize")
}

func TestWarningCollector(t *testing.T) {
	c := NewWarningCollector()
	c.Add(ReferenceWarning{Kind: WarningCycle, TagID: "a", Detail: "cycle a -> b -> a"})
	c.Add(ReferenceWarning{Kind: WarningSlugCollision, Detail: "slug x shared"})

	assert.Equal(t, 2, c.Count())
	assert.Len(t, c.ByKind(WarningCycle), 1)
	assert.Len(t, c.All(), 2)

	c.Clear()
	assert.Equal(t, 0, c.Count())
}

func TestWarningCollector_ConcurrentAdd(t *testing.T) {
	c := NewWarningCollector()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Add(ReferenceWarning{Kind: WarningUndefinedTag, Detail: "ghost"})
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, c.Count())
}

func TestReferenceWarning_String(t *testing.T) {
	w := ReferenceWarning{
		Kind:    WarningDanglingPrerequisite,
		TagID:   "b",
		Detail:  `tag "b" lists undefined prerequisite "ghost"`,
		Related: []string{"ghost"},
	}
	s := w.String()
	assert.Contains(t, s, "dangling_prerequisite")
	assert.Contains(t, s, "ghost")
}
