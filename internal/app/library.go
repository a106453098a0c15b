package app

import (
	"net/http"

	"github.com/l10nlab/promptpilot/internal/domain"
)

func (a App) library(w http.ResponseWriter, r *http.Request) *AppResp {
	summaries, err := a.PromptRepo.BaseSummaries(r.Context())

	if err != nil {
		return a.errResp(err, get500())
	}

	var records []domain.BasePromptSummary
	if summaries != nil {
		records = *summaries
	}

	return &AppResp{Component: a.ComponentBuilder.Library(records), Code: 200, Message: "OK", ContentType: "text/html"}
}

func (a App) versions(w http.ResponseWriter, r *http.Request) *AppResp {
	baseId := r.PathValue("baseId")
	versions, err := a.PromptRepo.Versions(r.Context(), baseId)

	if err != nil {
		return a.errResp(err, get500())
	}

	var records []domain.Prompt
	if versions != nil {
		records = *versions
	}

	return &AppResp{Component: a.ComponentBuilder.Versions(baseId, records), Code: 200, Message: "OK", ContentType: "text/html"}
}
