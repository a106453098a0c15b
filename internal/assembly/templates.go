package assembly

import (
	"github.com/google/uuid"

	"github.com/l10nlab/promptpilot/internal/domain"
)

// StarterSections is the scaffold the editor offers for a brand new prompt:
// the four conventional sections with guidance text the author replaces.
func StarterSections() []domain.PromptSection {
	return []domain.PromptSection{
		{
			Id:      uuid.NewString(),
			TypeId:  domain.SectionRole,
			Name:    "Role Definition",
			Content: "You are a professional game localization translator working from Chinese into {TARGET_LANGUAGE}.",
			Order:   0,
		},
		{
			Id:      uuid.NewString(),
			TypeId:  domain.SectionContext,
			Name:    "Context",
			Content: "Previous dialogue:\n{PREVIOUS_CONTEXT}\n\nFollowing dialogue:\n{FOLLOWING_CONTEXT}",
			Order:   1,
		},
		{
			Id:      uuid.NewString(),
			TypeId:  domain.SectionInstructions,
			Name:    "Instructions",
			Content: "Translate the source text faithfully. Respect the terminology list:\n{TERMINOLOGY}",
			Order:   2,
		},
		{
			Id:      uuid.NewString(),
			TypeId:  domain.SectionExamples,
			Name:    "Examples",
			Content: "Reference translations of similar lines:\n{SIMILAR_TRANSLATIONS}",
			Order:   3,
		},
	}
}

// FallbackStructure stands in when the backend's prompt-structure templates
// cannot be fetched, so the editor previews still render.
func FallbackStructure() domain.PromptStructure {
	return domain.PromptStructure{
		OutputRequirement: "Output only the translation wrapped in <translated_text></translated_text> tags.",
		TaskInfo: "Translate the following text into {TARGET_LANGUAGE}:\n\n" +
			"<source_text>\n{SOURCE_TEXT}\n</source_text>\n\n{ADDITIONAL_INSTRUCTIONS}",
	}
}
