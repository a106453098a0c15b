package app

import (
	"net/http"

	"github.com/l10nlab/promptpilot/internal/domain"
)

type sessionSaveReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Project     string `json:"project"`
	Language    string `json:"language"`
}

func (a App) sessions(w http.ResponseWriter, r *http.Request) *AppResp {
	summaries, err := a.SessionRepo.List(r.Context())

	if err != nil {
		return a.errResp(err, get500())
	}

	var records []domain.EvaluationSessionSummary
	if summaries != nil {
		records = *summaries
	}

	return &AppResp{Component: a.ComponentBuilder.Sessions(records), Code: 200, Message: "OK", ContentType: "text/html"}
}

func (a App) saveSession(w http.ResponseWriter, r *http.Request) *AppResp {
	content, err := Read(r.Body)
	if err != nil {
		return a.errResp(err, get400())
	}

	req, err := ReadJSON[sessionSaveReq](content)
	if err != nil {
		return a.errResp(err, get400())
	}

	session, err := a.Runs.BuildSession(req.Name, req.Description, req.Project, req.Language)
	if err != nil {
		return a.renderEvaluation(r, err.Error())
	}

	if _, err = a.SessionRepo.Save(r.Context(), session); err != nil {
		return a.errResp(err, get500())
	}

	http.Redirect(w, r, "/sessions", http.StatusSeeOther)
	return nil
}

func (a App) session(w http.ResponseWriter, r *http.Request) *AppResp {
	session, err := a.SessionRepo.Get(r.Context(), r.PathValue("sessionId"))

	if err != nil {
		return a.errResp(err, get500())
	}
	if session == nil {
		return a.errResp(nil, get404())
	}

	return &AppResp{Component: a.ComponentBuilder.Session(*session), Code: 200, Message: "OK", ContentType: "text/html"}
}

func (a App) deleteSession(w http.ResponseWriter, r *http.Request) *AppResp {
	if err := a.SessionRepo.Delete(r.Context(), r.PathValue("sessionId")); err != nil {
		return a.errResp(err, get500())
	}

	http.Redirect(w, r, "/sessions", http.StatusSeeOther)
	return nil
}
