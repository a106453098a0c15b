package assembly

import (
	"fmt"
	"sort"
	"strings"

	"github.com/l10nlab/promptpilot/internal/domain"
)

// TargetLanguageVar is the only placeholder substituted client-side, and only
// in the user-prompt preview. Everything else is resolved by the backend at
// translation time.
const TargetLanguageVar = "{TARGET_LANGUAGE}"

// KnownVariables is the fixed set of placeholder tokens the backend resolves.
// The previews mark them but never substitute them (except TargetLanguageVar
// in the user-prompt preview).
var KnownVariables = []string{
	"{SOURCE_TEXT}", "{TARGET_LANGUAGE}", "{PREVIOUS_CONTEXT}",
	"{FOLLOWING_CONTEXT}", "{TERMINOLOGY}", "{SIMILAR_TRANSLATIONS}",
	"{ADDITIONAL_INSTRUCTIONS}", "{nameChs}", "{name}", "{gender}", "{age}",
	"{occupation}", "{faction}", "{personality}", "{speakingStyle}",
	"{sampleDialogue}", "{writingStyle}",
}

var knownVariableSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(KnownVariables))
	for _, v := range KnownVariables {
		m[v] = struct{}{}
	}
	return m
}()

// NormalizeOrder sorts sections by their Order field and reassigns dense
// 0..n-1 values, preserving relative order. It returns a new slice.
func NormalizeOrder(sections []domain.PromptSection) []domain.PromptSection {
	out := make([]domain.PromptSection, len(sections))
	copy(out, sections)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	for i := range out {
		out[i].Order = i
	}
	return out
}

// SystemPromptPreview assembles the full system prompt: one wrapped block per
// section in order, blank-line separated, followed by the fixed output
// requirement template. Placeholders are left untouched.
func SystemPromptPreview(sections []domain.PromptSection, structure domain.PromptStructure) string {
	blocks := make([]string, 0, len(sections)+1)
	for _, sec := range NormalizeOrder(sections) {
		tag := SectionTag(sec)
		blocks = append(blocks, fmt.Sprintf("<%s>\n%s\n</%s>", tag, sec.Content, tag))
	}
	if req := strings.TrimSpace(structure.OutputRequirement); req != "" {
		blocks = append(blocks, req)
	}
	return strings.Join(blocks, "\n\n")
}

// UserPromptPreview renders the task-info template for the active working
// language. Only {TARGET_LANGUAGE} is substituted; the remaining known
// placeholders stay literal for the caller to mark.
func UserPromptPreview(structure domain.PromptStructure, language string) string {
	return strings.ReplaceAll(strings.TrimSpace(structure.TaskInfo), TargetLanguageVar, language)
}

// Segment is a run of preview text. Variable segments are known placeholder
// tokens, which the render layer highlights.
type Segment struct {
	Text     string
	Variable bool
}

// SplitVariables cuts text into plain and placeholder segments so known
// tokens can be marked without substituting them.
func SplitVariables(text string) []Segment {
	if text == "" {
		return nil
	}
	var segs []Segment
	plain := func(s string) {
		if s == "" {
			return
		}
		segs = append(segs, Segment{Text: s})
	}
	for len(text) > 0 {
		open := strings.IndexByte(text, '{')
		if open < 0 {
			plain(text)
			break
		}
		closing := strings.IndexByte(text[open:], '}')
		if closing < 0 {
			plain(text)
			break
		}
		token := text[open : open+closing+1]
		if _, known := knownVariableSet[token]; known {
			plain(text[:open])
			segs = append(segs, Segment{Text: token, Variable: true})
			text = text[open+closing+1:]
			continue
		}
		plain(text[:open+1])
		text = text[open+1:]
	}
	return segs
}
