package assembly

import (
	"regexp"
	"strings"

	"github.com/l10nlab/promptpilot/internal/domain"
)

// Built-in section types carry a fixed tag. Everything else derives its tag
// from the section name.
var builtinTags = map[string]string{
	domain.SectionRole:         "Role_Definition",
	domain.SectionContext:      "Context",
	domain.SectionInstructions: "Instructions",
	domain.SectionExamples:     "Examples",
}

const fallbackTag = "Custom_Section"

var nonAlnumRuns = regexp.MustCompile(`[^0-9a-zA-Z]+`)

// SectionTag returns the XML element name a section is wrapped in. The
// result always matches ^[A-Za-z][A-Za-z0-9_]*$.
func SectionTag(sec domain.PromptSection) string {
	if tag, ok := builtinTags[strings.ToLower(sec.TypeId)]; ok {
		return tag
	}
	return sanitizeTag(sec.Name)
}

func sanitizeTag(raw string) string {
	tag := nonAlnumRuns.ReplaceAllString(strings.TrimSpace(raw), "_")
	tag = strings.Trim(tag, "_")
	if tag == "" {
		return fallbackTag
	}
	if !isLetter(tag[0]) {
		tag = "C_" + tag
	}
	return tag
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
