package app

import (
	"log"
	"net/http"

	"github.com/a-h/templ"

	"github.com/l10nlab/promptpilot/internal/components"
	"github.com/l10nlab/promptpilot/internal/config"
	"github.com/l10nlab/promptpilot/internal/domain"
	"github.com/l10nlab/promptpilot/internal/evalrun"
	"github.com/l10nlab/promptpilot/internal/persistence"
)

// ComponentBuilder decouples controllers from concrete templates; tests swap
// in cheap fakes.
type ComponentBuilder struct {
	Index      func() templ.Component
	Login      func(errMsg string) templ.Component
	Register   func(errMsg string) templ.Component
	Editor     func(view components.EditorView) templ.Component
	Library    func(summaries []domain.BasePromptSummary) templ.Component
	Versions   func(baseId string, versions []domain.Prompt) templ.Component
	Evaluation func(view components.EvaluationView) templ.Component
	Sessions   func(summaries []domain.EvaluationSessionSummary) templ.Component
	Session    func(session domain.EvaluationSession) templ.Component
	Error      func(code int, title string, msg string) templ.Component
}

type App struct {
	PromptRepo       persistence.PromptRepo
	EvaluationRepo   persistence.EvaluationRepo
	SessionRepo      persistence.SessionRepo
	StructureRepo    persistence.StructureRepo
	AuthRepo         persistence.AuthRepo
	TestSetRepo      persistence.TestSetRepo
	Creds            *persistence.Credentials
	Runs             *evalrun.Orchestrator
	ComponentBuilder ComponentBuilder
	Config           config.Config
}

func (a App) Start() {
	mux := http.NewServeMux()

	mux.Handle("/static/",
		http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	mux.Handle("GET /{$}", AppHandler{controllerFunc(a.index)})

	mux.Handle("GET /login", AppHandler{controllerFunc(a.loginPage)})
	mux.Handle("POST /login", AppHandler{controllerFunc(a.login)})
	mux.Handle("POST /logout", AppHandler{controllerFunc(a.logout)})
	mux.Handle("GET /register", AppHandler{controllerFunc(a.registerPage)})
	mux.Handle("POST /register", AppHandler{controllerFunc(a.register)})

	mux.Handle("GET /editor", AppHandler{a.authed(a.editor)})
	mux.Handle("POST /prompts", AppHandler{a.authed(a.createPrompt)})
	mux.Handle("PUT /prompts/{versionId}", AppHandler{a.authed(a.saveVersion)})
	mux.Handle("POST /prompts/{versionId}/delete", AppHandler{a.authed(a.deleteVersion)})

	mux.Handle("GET /library", AppHandler{a.authed(a.library)})
	mux.Handle("GET /library/{baseId}/versions", AppHandler{a.authed(a.versions)})

	mux.Handle("GET /evaluation", AppHandler{a.authed(a.evaluation)})
	mux.Handle("POST /evaluation/run", AppHandler{a.authed(a.runEvaluation)})
	mux.Handle("POST /evaluation/columns", AppHandler{a.authed(a.replaceColumns)})
	mux.Handle("POST /evaluation/judge", AppHandler{a.authed(a.runJudge)})
	mux.Handle("POST /evaluation/results/{resultId}/score", AppHandler{a.authed(a.scoreResult)})
	mux.Handle("POST /evaluation/results/{resultId}/comment", AppHandler{a.authed(a.commentResult)})

	mux.Handle("GET /sessions", AppHandler{a.authed(a.sessions)})
	mux.Handle("POST /sessions", AppHandler{a.authed(a.saveSession)})
	mux.Handle("GET /sessions/{sessionId}", AppHandler{a.authed(a.session)})
	mux.Handle("POST /sessions/{sessionId}/delete", AppHandler{a.authed(a.deleteSession)})

	mux.Handle("POST /test-sets/upload", AppHandler{a.authed(a.uploadTestSet)})
	mux.Handle("GET /test-sets/{testSetId}/entries", AppHandler{a.authed(a.testSetEntries)})

	log.Printf("App running on %s...", a.Config.Port)
	log.Fatal(http.ListenAndServe(":"+a.Config.Port, mux))
}

// authed redirects to the login page when no usable credential is loaded.
func (a App) authed(next controllerFunc) Controller {
	return controllerFunc(func(w http.ResponseWriter, r *http.Request) *AppResp {
		if _, ok := a.Creds.Token(); !ok || a.Creds.Expired() {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return nil
		}
		return next(w, r)
	})
}

func (a App) index(w http.ResponseWriter, r *http.Request) *AppResp {
	if _, ok := a.Creds.Token(); !ok || a.Creds.Expired() {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return nil
	}
	return &AppResp{Component: a.ComponentBuilder.Index(), Code: 200, Message: "OK", ContentType: "text/html"}
}

func (a App) errResp(err error, ctx errCtx) *AppResp {
	return &AppResp{
		Error:       err,
		Message:     ctx.Msg,
		Code:        ctx.Code,
		ContentType: "text/html",
		Component:   a.ComponentBuilder.Error(ctx.Code, ctx.Title, ctx.Msg)}
}
