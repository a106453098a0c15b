package app

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/l10nlab/promptpilot/internal/components"
	"github.com/l10nlab/promptpilot/internal/domain"
	"github.com/l10nlab/promptpilot/internal/evalrun"
)

type evalRowReq struct {
	SourceText    string `json:"sourceText"`
	ReferenceText string `json:"referenceText"`
	Instructions  string `json:"instructions"`
}

type evalColumnReq struct {
	Id                string `json:"id"`
	BasePromptId      string `json:"basePromptId"`
	SelectedVersionId string `json:"selectedVersionId"`
	ModelId           string `json:"modelId"`
}

type evalRunReq struct {
	TestSetName string          `json:"testSetName"`
	Rows        []evalRowReq    `json:"rows"`
	Columns     []evalColumnReq `json:"columns"`
}

func (a App) evaluation(w http.ResponseWriter, r *http.Request) *AppResp {
	return a.renderEvaluation(r, "")
}

func (a App) runEvaluation(w http.ResponseWriter, r *http.Request) *AppResp {
	content, err := Read(r.Body)
	if err != nil {
		return a.errResp(err, get400())
	}

	req, err := ReadJSON[evalRunReq](content)
	if err != nil {
		return a.errResp(err, get400())
	}

	rows := make([]domain.TestRow, 0, len(req.Rows))
	for _, row := range req.Rows {
		rows = append(rows, domain.TestRow{
			Id:            uuid.NewString(),
			SourceText:    row.SourceText,
			ReferenceText: row.ReferenceText,
			Instructions:  row.Instructions})
	}

	testSetName := req.TestSetName
	if testSetName == "" {
		testSetName = "Manual Input"
	}

	err = a.Runs.Submit(r.Context(), rows, a.columns(r, req.Columns), testSetName)

	if err != nil {
		if errors.Is(err, evalrun.ErrNoPromptSelected) ||
			errors.Is(err, evalrun.ErrEmptyTestSet) ||
			errors.Is(err, evalrun.ErrRunActive) {
			return a.renderEvaluation(r, err.Error())
		}
		return a.renderEvaluation(r, "Run submission failed. See the run status for details.")
	}

	return a.renderEvaluation(r, "")
}

func (a App) replaceColumns(w http.ResponseWriter, r *http.Request) *AppResp {
	content, err := Read(r.Body)
	if err != nil {
		return a.errResp(err, get400())
	}

	req, err := ReadJSON[[]evalColumnReq](content)
	if err != nil {
		return a.errResp(err, get400())
	}

	a.Runs.ReplaceColumns(a.columns(r, *req))

	return a.renderEvaluation(r, "")
}

func (a App) runJudge(w http.ResponseWriter, r *http.Request) *AppResp {
	if err := a.Runs.RunJudge(r.Context()); err != nil {
		return a.renderEvaluation(r, err.Error())
	}

	return a.renderEvaluation(r, "")
}

func (a App) scoreResult(w http.ResponseWriter, r *http.Request) *AppResp {
	content, err := Read(r.Body)
	if err != nil {
		return a.errResp(err, get400())
	}

	req, err := ReadJSON[struct {
		Score int `json:"score"`
	}](content)
	if err != nil {
		return a.errResp(err, get400())
	}

	if err = a.Runs.SetScore(r.Context(), r.PathValue("resultId"), req.Score); err != nil {
		return a.renderEvaluation(r, "Saving the score failed; the previous value was kept.")
	}

	return a.renderEvaluation(r, "")
}

func (a App) commentResult(w http.ResponseWriter, r *http.Request) *AppResp {
	content, err := Read(r.Body)
	if err != nil {
		return a.errResp(err, get400())
	}

	req, err := ReadJSON[struct {
		Comment string `json:"comment"`
	}](content)
	if err != nil {
		return a.errResp(err, get400())
	}

	if err = a.Runs.SetComment(r.Context(), r.PathValue("resultId"), req.Comment); err != nil {
		return a.renderEvaluation(r, "Saving the comment failed; the previous value was kept.")
	}

	return a.renderEvaluation(r, "")
}

// columns maps the posted column setup onto domain columns, attaching the
// version listing per base prompt so the dropdowns stay populated.
func (a App) columns(r *http.Request, reqs []evalColumnReq) []domain.EvaluationColumn {
	columns := make([]domain.EvaluationColumn, 0, len(reqs))
	for _, req := range reqs {
		col := domain.EvaluationColumn{
			Id:                req.Id,
			BasePromptId:      req.BasePromptId,
			SelectedVersionId: req.SelectedVersionId,
			ModelId:           req.ModelId}
		if col.Id == "" {
			col.Id = uuid.NewString()
		}
		if col.BasePromptId != "" {
			versions, err := a.PromptRepo.Versions(r.Context(), col.BasePromptId)
			if err != nil {
				slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))
			} else if versions != nil {
				col.AvailableVersions = *versions
			}
		}
		columns = append(columns, col)
	}
	return columns
}

func (a App) renderEvaluation(r *http.Request, banner string) *AppResp {
	view := components.EvaluationFromSnapshot(a.Runs.Snapshot())
	if banner != "" {
		view.LastError = banner
	}
	view.TestSets = a.testSetList(r)

	return &AppResp{Component: a.ComponentBuilder.Evaluation(view), Code: 200, Message: "OK", ContentType: "text/html"}
}

func (a App) testSetList(r *http.Request) []domain.TestSetSummary {
	testSets, err := a.TestSetRepo.Mine(r.Context())
	if err != nil {
		slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))
		return nil
	}
	if testSets == nil {
		return nil
	}
	return *testSets
}
