// Package i18n resolves localized tag labels and descriptions. An authored
// value may be a plain string or a locale-keyed map; the resolver picks one
// string per requested locale with a fixed fallback chain.
package i18n

import (
	"fmt"

	"golang.org/x/text/language"

	"github.com/doctags/doctags/internal/errors"
	"github.com/doctags/doctags/internal/types"
)

// FallbackLocale is the universal last-resort locale tried after the
// configured default.
const FallbackLocale = "en"

// Resolver resolves localized values against a configured default locale.
//
// Resolution order: exact locale match, configured default locale, the
// universal fallback locale, then the first authored value in document
// order. Locale keys are compared canonically so "en-US" and "en_us" unify.
type Resolver struct {
	defaultLocale string
}

// NewResolver creates a resolver. The default locale must parse as a BCP 47
// tag; an empty string falls back to the universal fallback locale.
func NewResolver(defaultLocale string) (*Resolver, error) {
	if defaultLocale == "" {
		defaultLocale = FallbackLocale
	}
	canonical, err := canonicalize(defaultLocale)
	if err != nil {
		return nil, errors.NewConfigError("invalid_default_locale",
			fmt.Sprintf("default locale %q is not a valid locale tag", defaultLocale)).WithCause(err)
	}
	return &Resolver{defaultLocale: canonical}, nil
}

// DefaultLocale returns the canonical default locale.
func (r *Resolver) DefaultLocale() string {
	return r.defaultLocale
}

// Resolve returns the best value of text for the requested locale, following
// the fallback chain. The second return is false when no value is authored
// at all.
func (r *Resolver) Resolve(text types.LocalizedText, locale string) (string, bool) {
	if plain, ok := text.Plain(); ok {
		return plain, true
	}
	if text.IsZero() {
		return "", false
	}

	for _, want := range r.chain(locale) {
		if v, ok := lookup(text, want); ok {
			return v, true
		}
	}
	return text.First()
}

// ResolveRequired is Resolve for fields that must produce a value. When
// nothing resolves it returns a config error naming the field, since every
// definition must author at least the default-locale value.
func (r *Resolver) ResolveRequired(tagID, field string, text types.LocalizedText, locale string) (string, error) {
	v, ok := r.Resolve(text, locale)
	if !ok || v == "" {
		return "", errors.NewConfigError("unresolvable_"+field,
			fmt.Sprintf("tag %q: required field %q has no value for locale %q or any fallback", tagID, field, locale))
	}
	return v, nil
}

// chain returns the canonical locales to try, most specific first.
func (r *Resolver) chain(locale string) []string {
	chain := make([]string, 0, 3)
	if canonical, err := canonicalize(locale); err == nil && canonical != "" {
		chain = append(chain, canonical)
	}
	if r.defaultLocale != "" && !containsString(chain, r.defaultLocale) {
		chain = append(chain, r.defaultLocale)
	}
	if !containsString(chain, FallbackLocale) {
		chain = append(chain, FallbackLocale)
	}
	return chain
}

// lookup finds a value whose authored locale key canonicalizes to want.
func lookup(text types.LocalizedText, want string) (string, bool) {
	if v, ok := text.ForLocale(want); ok {
		return v, true
	}
	for _, authored := range text.Locales() {
		canonical, err := canonicalize(authored)
		if err != nil {
			continue
		}
		if canonical == want {
			v, _ := text.ForLocale(authored)
			return v, true
		}
	}
	return "", false
}

func canonicalize(locale string) (string, error) {
	if locale == "" {
		return "", nil
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return "", err
	}
	return tag.String(), nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
