package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/doctags/doctags/internal/types"
)

func validDefinition(id string) types.TagDefinition {
	return types.TagDefinition{
		ID:    id,
		Label: types.NewLocalizedText("Label"),
	}
}

func TestValidateID(t *testing.T) {
	tests := []struct {
		id    string
		valid bool
	}{
		{"golang", true},
		{"go-lang", true},
		{"go_lang", true},
		{"golang2", true},
		{"", false},
		{"GoLang", false},
		{"go lang", false},
		{"go/lang", false},
		{"golang!", false},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidateID(tt.id))
		})
	}
}

func TestValidateColor(t *testing.T) {
	valid := []string{"#fff", "#ffff", "#25c2a0", "#25c2a0ff", "rgb(1, 2, 3)", "rgba(1,2,3,0.5)", "hsl(120, 50%, 50%)", "teal", "Orange", "var(--ifm-color-primary)"}
	for _, color := range valid {
		assert.True(t, ValidateColor(color), "expected %q to be valid", color)
	}

	invalid := []string{"#ff", "#ggg", "25c2a0", "bluish", "rgb 1 2 3"}
	for _, color := range invalid {
		assert.False(t, ValidateColor(color), "expected %q to be invalid", color)
	}
}

func TestValidateDefinition_Valid(t *testing.T) {
	def := validDefinition("golang")
	def.Color = "#25c2a0"
	def.Difficulty = types.DifficultyBeginner
	def.ContentType = types.ContentTypeGuide
	def.Prerequisites = []string{"programming"}

	assert.Empty(t, ValidateDefinition(def, Options{StrictColors: true, DefaultLocale: "en"}))
}

func TestValidateDefinition_BadID(t *testing.T) {
	problems := ValidateDefinition(validDefinition("Bad ID"), Options{})
	assert.Len(t, problems, 1)
	assert.Contains(t, problems[0], "Bad ID")
}

func TestValidateDefinition_MissingLabel(t *testing.T) {
	def := types.TagDefinition{ID: "golang"}
	problems := ValidateDefinition(def, Options{})
	assert.Len(t, problems, 1)
	assert.Contains(t, problems[0], "label")
}

func TestValidateDefinition_LabelMissingDefaultLocale(t *testing.T) {
	def := types.TagDefinition{
		ID:    "golang",
		Label: types.NewLocalizedMap([2]string{"fr", "Go"}),
	}
	problems := ValidateDefinition(def, Options{DefaultLocale: "en"})
	assert.Len(t, problems, 1)
	assert.Contains(t, problems[0], "default locale")
}

func TestValidateDefinition_StrictColor(t *testing.T) {
	def := validDefinition("golang")
	def.Color = "not-a-color"

	assert.NotEmpty(t, ValidateDefinition(def, Options{StrictColors: true}))
	assert.Empty(t, ValidateDefinition(def, Options{StrictColors: false}))
}

func TestValidateDefinition_BadEnums(t *testing.T) {
	def := validDefinition("golang")
	def.Difficulty = "expert"
	def.ContentType = "movie"

	problems := ValidateDefinition(def, Options{})
	assert.Len(t, problems, 2)
}

func TestValidateDefinition_BatchReportsAll(t *testing.T) {
	def := types.TagDefinition{
		ID:            "Bad ID",
		Color:         "nope",
		Permalink:     "bad permalink!",
		Difficulty:    "expert",
		Prerequisites: []string{"OK?!"},
	}
	problems := ValidateDefinition(def, Options{StrictColors: true})
	// One problem each: ID, label, color, permalink, difficulty, prerequisite.
	assert.Len(t, problems, 6)
}

func TestValidateTable(t *testing.T) {
	table := &types.DefinitionTable{
		Tags: map[string]types.TagDefinition{
			"golang":  validDefinition("golang"),
			"Invalid": {Label: types.NewLocalizedText("X")},
		},
	}
	problems := ValidateTable(table, Options{})
	assert.Len(t, problems, 1)
	assert.Contains(t, problems[0], "Invalid")
}

func TestValidateTable_Nil(t *testing.T) {
	assert.Empty(t, ValidateTable(nil, Options{}))
}
