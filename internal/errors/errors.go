// Package errors defines the structured error taxonomy for the tag engine.
//
// Only two classes of failure cross the engine boundary as errors: a
// structurally invalid tag definitions source (config errors) and undefined
// inline tags under the "error" policy (reference errors). Everything else
// the engine recovers from locally and reports as a ReferenceWarning through
// the warning collector.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrorType categorizes engine errors.
type ErrorType string

const (
	// ErrorTypeConfig marks a fatal problem with the tag definitions source
	// or a required localized field that resolves to nothing.
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeReference marks an undefined inline tag escalated by the
	// "error" policy.
	ErrorTypeReference ErrorType = "reference"
	// ErrorTypeStore marks a read accessor called before initialization.
	ErrorTypeStore ErrorType = "store"
	// ErrorTypeIO marks a failure reading the definitions file or page corpus.
	ErrorTypeIO ErrorType = "io"
)

// TagError is a structured error with a type, a stable code, and an optional
// cause.
type TagError struct {
	Type        ErrorType
	Code        string
	Message     string
	Cause       error
	Recoverable bool
}

// Error implements the error interface.
func (e *TagError) Error() string {
	var b strings.Builder
	if e.Code != "" {
		fmt.Fprintf(&b, "[%s] ", e.Code)
	}
	b.WriteString(e.Message)
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *TagError) Unwrap() error {
	return e.Cause
}

// Is matches errors by type and code.
func (e *TagError) Is(target error) bool {
	var t *TagError
	if errors.As(target, &t) {
		return e.Type == t.Type && (t.Code == "" || e.Code == t.Code)
	}
	return false
}

// WithCause attaches a cause error.
func (e *TagError) WithCause(cause error) *TagError {
	e.Cause = cause
	return e
}

// NewConfigError creates a fatal configuration error.
func NewConfigError(code, message string) *TagError {
	return &TagError{
		Type:    ErrorTypeConfig,
		Code:    code,
		Message: message,
	}
}

// NewReferenceError creates a policy-escalated reference error.
func NewReferenceError(code, message string) *TagError {
	return &TagError{
		Type:        ErrorTypeReference,
		Code:        code,
		Message:     message,
		Recoverable: true,
	}
}

// NewIOError creates an I/O error with a cause.
func NewIOError(code, message string, cause error) *TagError {
	return &TagError{
		Type:        ErrorTypeIO,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: true,
	}
}

// NewStoreNotInitializedError reports a read accessor called before a
// successful Initialize. The message names the required call so the caller
// knows how to fix the ordering.
func NewStoreNotInitializedError(accessor string) *TagError {
	return &TagError{
		Type:    ErrorTypeStore,
		Code:    "store_not_initialized",
		Message: fmt.Sprintf("%s called before Initialize: call Store.Initialize for this locale first", accessor),
	}
}

// IsConfigError reports whether err is a fatal configuration error.
func IsConfigError(err error) bool {
	var t *TagError
	return errors.As(err, &t) && t.Type == ErrorTypeConfig
}

// IsReferenceError reports whether err is a policy-escalated reference error.
func IsReferenceError(err error) bool {
	var t *TagError
	return errors.As(err, &t) && t.Type == ErrorTypeReference
}

// IsNotInitialized reports whether err is a store-not-initialized error.
func IsNotInitialized(err error) bool {
	var t *TagError
	return errors.As(err, &t) && t.Type == ErrorTypeStore
}

// WarningKind categorizes recoverable reference problems.
type WarningKind string

const (
	WarningDanglingPrerequisite WarningKind = "dangling_prerequisite"
	WarningSlugCollision        WarningKind = "slug_collision"
	WarningCycle                WarningKind = "cycle"
	WarningUndefinedTag         WarningKind = "undefined_tag"
)

// ReferenceWarning is a recovered referential-integrity problem. Processing
// continues with a degraded but well-defined result; the warning records what
// was dropped or left non-unique.
type ReferenceWarning struct {
	Kind    WarningKind
	TagID   string
	Detail  string
	Related []string
}

// String renders the warning for logs and batch reports.
func (w ReferenceWarning) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", w.Kind, w.Detail)
	if len(w.Related) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(w.Related, ", "))
	}
	return b.String()
}

// WarningCollector accumulates reference warnings across a processing pass so
// callers can batch-report them.
type WarningCollector struct {
	mu       sync.RWMutex
	warnings []ReferenceWarning
}

// NewWarningCollector creates an empty collector.
func NewWarningCollector() *WarningCollector {
	return &WarningCollector{}
}

// Add records a warning.
func (c *WarningCollector) Add(w ReferenceWarning) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.warnings = append(c.warnings, w)
}

// All returns a copy of the collected warnings.
func (c *WarningCollector) All() []ReferenceWarning {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]ReferenceWarning, len(c.warnings))
	copy(out, c.warnings)
	return out
}

// ByKind returns the collected warnings of one kind.
func (c *WarningCollector) ByKind(kind WarningKind) []ReferenceWarning {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []ReferenceWarning
	for _, w := range c.warnings {
		if w.Kind == kind {
			out = append(out, w)
		}
	}
	return out
}

// Count returns the number of collected warnings.
func (c *WarningCollector) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.warnings)
}

// Clear drops all collected warnings.
func (c *WarningCollector) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.warnings = nil
}
