package assembly

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l10nlab/promptpilot/internal/domain"
)

var validTag = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

func TestSectionTag(t *testing.T) {
	tests := []struct {
		name     string
		section  domain.PromptSection
		expected string
	}{
		{
			name:     "built-in role",
			section:  domain.PromptSection{TypeId: "role", Name: "whatever"},
			expected: "Role_Definition",
		},
		{
			name:     "built-in is case insensitive",
			section:  domain.PromptSection{TypeId: "Instructions", Name: ""},
			expected: "Instructions",
		},
		{
			name:     "built-in context",
			section:  domain.PromptSection{TypeId: "context"},
			expected: "Context",
		},
		{
			name:     "built-in examples",
			section:  domain.PromptSection{TypeId: "examples"},
			expected: "Examples",
		},
		{
			name:     "custom derives from name",
			section:  domain.PromptSection{TypeId: "custom", Name: "Glossary Rules"},
			expected: "Glossary_Rules",
		},
		{
			name:     "symbol runs collapse to one underscore",
			section:  domain.PromptSection{TypeId: "custom", Name: "3 cool/tag!!"},
			expected: "C_3_cool_tag",
		},
		{
			name:     "leading and trailing separators stripped",
			section:  domain.PromptSection{TypeId: "custom", Name: "  __tone notes__  "},
			expected: "tone_notes",
		},
		{
			name:     "empty name falls back",
			section:  domain.PromptSection{TypeId: "custom", Name: ""},
			expected: "Custom_Section",
		},
		{
			name:     "pure symbols fall back",
			section:  domain.PromptSection{TypeId: "custom", Name: "!!! ???"},
			expected: "Custom_Section",
		},
		{
			name:     "unmapped type derives from name",
			section:  domain.PromptSection{TypeId: "output", Name: "Output Rules"},
			expected: "Output_Rules",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SectionTag(tt.section)
			assert.Equal(t, tt.expected, got)
			assert.Regexp(t, validTag, got)
		})
	}
}

func TestSectionTagIdempotent(t *testing.T) {
	sec := domain.PromptSection{TypeId: "custom", Name: "a b c"}
	assert.Equal(t, SectionTag(sec), SectionTag(sec))
}

func TestNormalizeOrder(t *testing.T) {
	sections := []domain.PromptSection{
		{Id: "a", Order: 7},
		{Id: "b", Order: 2},
		{Id: "c", Order: 2},
	}
	got := NormalizeOrder(sections)

	require.Len(t, got, 3)
	assert.Equal(t, []string{"b", "c", "a"}, []string{got[0].Id, got[1].Id, got[2].Id})
	for i, sec := range got {
		assert.Equal(t, i, sec.Order)
	}
	// input untouched
	assert.Equal(t, 7, sections[0].Order)
}

func TestSystemPromptPreview(t *testing.T) {
	sections := []domain.PromptSection{
		{TypeId: "instructions", Content: "translate faithfully", Order: 1},
		{TypeId: "role", Content: "you are a translator", Order: 0},
	}
	structure := domain.PromptStructure{OutputRequirement: "Assistant:\n<translated_text>"}

	got := SystemPromptPreview(sections, structure)

	want := "<Role_Definition>\nyou are a translator\n</Role_Definition>\n\n" +
		"<Instructions>\ntranslate faithfully\n</Instructions>\n\n" +
		"Assistant:\n<translated_text>"
	assert.Equal(t, want, got)
}

func TestSystemPromptPreviewOneBlockPerSection(t *testing.T) {
	sections := []domain.PromptSection{
		{TypeId: "role", Content: "r", Order: 0},
		{TypeId: "context", Content: "c", Order: 1},
		{TypeId: "custom", Name: "Extra", Content: "x", Order: 2},
	}
	got := SystemPromptPreview(sections, domain.PromptStructure{})

	for _, tag := range []string{"Role_Definition", "Context", "Extra"} {
		assert.Equal(t, 1, strings.Count(got, "<"+tag+">"))
		assert.Equal(t, 1, strings.Count(got, "</"+tag+">"))
	}
}

func TestUserPromptPreview(t *testing.T) {
	structure := domain.PromptStructure{
		TaskInfo: "<your_task>\n<target_language>{TARGET_LANGUAGE}</target_language>\n<source_text>{SOURCE_TEXT}</source_text>\n</your_task>",
	}
	got := UserPromptPreview(structure, "ja")

	assert.NotContains(t, got, "{TARGET_LANGUAGE}")
	assert.Contains(t, got, "<target_language>ja</target_language>")
	// other placeholders stay literal
	assert.Contains(t, got, "{SOURCE_TEXT}")
}

func TestSplitVariables(t *testing.T) {
	segs := SplitVariables("Translate {SOURCE_TEXT} into {TARGET_LANGUAGE} for {player}.")

	var variables []string
	for _, s := range segs {
		if s.Variable {
			variables = append(variables, s.Text)
		}
	}
	assert.Equal(t, []string{"{SOURCE_TEXT}", "{TARGET_LANGUAGE}"}, variables)

	var rebuilt strings.Builder
	for _, s := range segs {
		rebuilt.WriteString(s.Text)
	}
	assert.Equal(t, "Translate {SOURCE_TEXT} into {TARGET_LANGUAGE} for {player}.", rebuilt.String())
}

func TestFixedTags(t *testing.T) {
	structure := domain.PromptStructure{
		OutputRequirement: "Assistant:\n<translated_text>",
		TaskInfo:          "<your_task>\n<source_text>{SOURCE_TEXT}</source_text>\n<translated_text>\n</your_task>",
	}
	got := FixedTags(structure)
	assert.Equal(t, []string{"translated_text", "your_task", "source_text"}, got)
}

func TestDynamicTags(t *testing.T) {
	sections := []domain.PromptSection{
		{TypeId: "role", Order: 0},
		{TypeId: "custom", Name: "Notes", Order: 1},
		{TypeId: "custom", Name: "Notes", Order: 2},
	}
	assert.Equal(t, []string{"Role_Definition", "Notes"}, DynamicTags(sections))
}

func TestInsertTag(t *testing.T) {
	assert.Equal(t, "ab<Context>cd", InsertTag("abcd", 2, "Context"))
	assert.Equal(t, "<Context>abcd", InsertTag("abcd", -3, "Context"))
	assert.Equal(t, "abcd<Context>", InsertTag("abcd", 99, "Context"))
}
