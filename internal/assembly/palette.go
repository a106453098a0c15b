package assembly

import (
	"regexp"

	"github.com/l10nlab/promptpilot/internal/domain"
)

var tagNameRegexp = regexp.MustCompile(`<([A-Za-z][A-Za-z0-9_]*)>`)

// FixedTags extracts the tag names that appear in the backend-supplied
// templates, in order of first appearance.
func FixedTags(structure domain.PromptStructure) []string {
	seen := map[string]struct{}{}
	var tags []string
	for _, text := range []string{structure.OutputRequirement, structure.TaskInfo} {
		for _, m := range tagNameRegexp.FindAllStringSubmatch(text, -1) {
			if _, ok := seen[m[1]]; ok {
				continue
			}
			seen[m[1]] = struct{}{}
			tags = append(tags, m[1])
		}
	}
	return tags
}

// DynamicTags returns the deduplicated tags derivable from the live section
// list, in section order.
func DynamicTags(sections []domain.PromptSection) []string {
	seen := map[string]struct{}{}
	var tags []string
	for _, sec := range NormalizeOrder(sections) {
		tag := SectionTag(sec)
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}

// InsertTag splices "<tag>" into text at the given cursor offset. The offset
// is clamped to the text bounds; no uniqueness or semantic validation is
// applied.
func InsertTag(text string, offset int, tag string) string {
	if offset < 0 {
		offset = 0
	}
	if offset > len(text) {
		offset = len(text)
	}
	return text[:offset] + "<" + tag + ">" + text[offset:]
}
