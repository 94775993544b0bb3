package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected int
	}{
		{"identical", "features", "features", 0},
		{"empty left", "", "abc", 3},
		{"empty right", "abc", "", 3},
		{"both empty", "", "", 0},
		{"single substitution", "kitten", "sitten", 1},
		{"classic", "kitten", "sitting", 3},
		{"missing letter", "featurs", "features", 1},
		{"unicode", "café", "cafe", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Distance(tt.a, tt.b))
		})
	}
}

func TestFindSimilar(t *testing.T) {
	matches := FindSimilar("Featurs", []string{"Features", "Platforms"}, 0.4)

	assert.Len(t, matches, 1)
	assert.Equal(t, "Features", matches[0].Value)
	assert.Equal(t, 1, matches[0].Distance)
}

func TestFindSimilar_ExcludesExactMatch(t *testing.T) {
	matches := FindSimilar("Features", []string{"Features", "Featured"}, 0.4)

	for _, m := range matches {
		assert.NotEqual(t, "Features", m.Value)
	}
	assert.Len(t, matches, 1)
	assert.Equal(t, "Featured", matches[0].Value)
}

func TestFindSimilar_ExcludesCaseInsensitiveEqual(t *testing.T) {
	// "features" vs "FEATURES" has distance 0 after folding; an identical
	// candidate is not a useful suggestion.
	matches := FindSimilar("features", []string{"FEATURES"}, 0.4)
	assert.Empty(t, matches)
}

func TestFindSimilar_SortedByDistance(t *testing.T) {
	matches := FindSimilar("golang", []string{"goland", "go-lang", "erlang"}, 1.0)

	assert.GreaterOrEqual(t, len(matches), 2)
	for i := 1; i < len(matches); i++ {
		assert.LessOrEqual(t, matches[i-1].Distance, matches[i].Distance)
	}
	assert.Equal(t, "goland", matches[0].Value)
}

func TestFindSimilar_ThresholdFloor(t *testing.T) {
	// Short queries still tolerate distance 2: max(2, floor(len*ratio)).
	matches := FindSimilar("db", []string{"dbs", "dbms", "database"}, 0.4)

	values := make([]string, len(matches))
	for i, m := range matches {
		values[i] = m.Value
	}
	assert.Contains(t, values, "dbs")
	assert.Contains(t, values, "dbms")
	assert.NotContains(t, values, "database")
}

func TestSuggest_Limit(t *testing.T) {
	suggestions := Suggest("tag", []string{"tags", "tagg", "taag", "stag"}, 2)
	assert.Len(t, suggestions, 2)
}
