package app

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l10nlab/promptpilot/internal/components"
	"github.com/l10nlab/promptpilot/internal/config"
	"github.com/l10nlab/promptpilot/internal/domain"
	"github.com/l10nlab/promptpilot/internal/evalrun"
	"github.com/l10nlab/promptpilot/internal/persistence"
)

func newForm(body string) io.Reader {
	return strings.NewReader(body)
}

func noop() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error { return nil })
}

// captured records which template a controller picked and with what view.
type captured struct {
	name       string
	editor     components.EditorView
	evaluation components.EvaluationView
	library    []domain.BasePromptSummary
	errCode    int
}

func capturingBuilder(c *captured) ComponentBuilder {
	return ComponentBuilder{
		Index:    func() templ.Component { c.name = "index"; return noop() },
		Login:    func(string) templ.Component { c.name = "login"; return noop() },
		Register: func(string) templ.Component { c.name = "register"; return noop() },
		Editor: func(view components.EditorView) templ.Component {
			c.name = "editor"
			c.editor = view
			return noop()
		},
		Library: func(summaries []domain.BasePromptSummary) templ.Component {
			c.name = "library"
			c.library = summaries
			return noop()
		},
		Versions: func(string, []domain.Prompt) templ.Component { c.name = "versions"; return noop() },
		Evaluation: func(view components.EvaluationView) templ.Component {
			c.name = "evaluation"
			c.evaluation = view
			return noop()
		},
		Sessions: func([]domain.EvaluationSessionSummary) templ.Component { c.name = "sessions"; return noop() },
		Session:  func(domain.EvaluationSession) templ.Component { c.name = "session"; return noop() },
		Error: func(code int, title string, msg string) templ.Component {
			c.name = "error"
			c.errCode = code
			return noop()
		},
	}
}

func testApp(t *testing.T, backend http.HandlerFunc) (App, *captured) {
	t.Helper()
	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	creds := persistence.LoadCredentials(filepath.Join(t.TempDir(), "token"))
	client := persistence.NewClient(server.URL, creds)
	evaluationRepo := persistence.EvaluationRepo{Client: client}

	c := &captured{}
	a := App{
		PromptRepo:       persistence.PromptRepo{Client: client},
		EvaluationRepo:   evaluationRepo,
		SessionRepo:      persistence.SessionRepo{Client: client},
		StructureRepo:    persistence.StructureRepo{Client: client},
		AuthRepo:         persistence.AuthRepo{Client: client},
		TestSetRepo:      persistence.TestSetRepo{Client: client},
		Creds:            creds,
		Runs:             evalrun.New(evaluationRepo, time.Hour),
		ComponentBuilder: capturingBuilder(c),
		Config:           config.Config{Port: "0"},
	}
	t.Cleanup(a.Runs.Stop)
	return a, c
}

func TestAuthedRedirectsWithoutCredential(t *testing.T) {
	a, c := testApp(t, func(w http.ResponseWriter, r *http.Request) {})

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/editor", nil)
	resp := a.authed(a.editor).Handle(w, r)

	assert.Nil(t, resp)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Result().Header.Get("Location"))
	assert.Empty(t, c.name)
}

func TestLoginStoresTokenAndRedirects(t *testing.T) {
	a, _ := testApp(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/token":
			w.Write([]byte(`{"access_token":"tok-1","token_type":"bearer"}`))
		case "/auth/users/me":
			assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
			w.Write([]byte(`{"id":"u1","username":"reviewer"}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/login",
		newForm("username=reviewer&password=s3cret"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp := a.login(w, r)

	assert.Nil(t, resp)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/editor", w.Result().Header.Get("Location"))

	token, ok := a.Creds.Token()
	require.True(t, ok)
	assert.Equal(t, "tok-1", token)
}

func TestLoginFailureRendersLoginAgain(t *testing.T) {
	a, c := testApp(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"incorrect username or password"}`))
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/login", newForm("username=x&password=y"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp := a.login(w, r)

	require.NotNil(t, resp)
	assert.Error(t, resp.Error)
	assert.Equal(t, "login", c.name)

	_, ok := a.Creds.Token()
	assert.False(t, ok)
}

func TestEditorFallsBackToStarterScaffold(t *testing.T) {
	a, c := testApp(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/prompt-structure":
			w.WriteHeader(http.StatusBadGateway)
		case "/prompts/production/":
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"detail":"no production prompt"}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/editor?project=hk4e&language=ja", nil)
	resp := a.editor(w, r)

	require.NotNil(t, resp)
	assert.Equal(t, "editor", c.name)
	assert.Nil(t, c.editor.Prompt)
	assert.Len(t, c.editor.Sections, 4)
	assert.Equal(t, "Role_Definition", c.editor.Sections[0].Tag)
	assert.NotEmpty(t, c.editor.StructureMsg)
	assert.NotEmpty(t, c.editor.SystemPreview)
}

func TestEditorOpensProductionPrompt(t *testing.T) {
	a, c := testApp(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/prompt-structure":
			w.Write([]byte(`{"output_requirement":"Wrap in <translated_text>.","task_info":"Translate to {TARGET_LANGUAGE}: {SOURCE_TEXT}"}`))
		case "/prompts/production/":
			w.Write([]byte(`{"id":"v7","base_prompt_id":"b1","name":"NPC dialogue","version":"7.0","isProduction":true,` +
				`"sections":[{"id":"s1","typeId":"role","name":"Role","content":"You translate.","order":0}],` +
				`"project":"hk4e","language":"ja"}`))
		}
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/editor?project=hk4e&language=ja", nil)
	a.editor(w, r)

	require.NotNil(t, c.editor.Prompt)
	assert.Equal(t, "v7", c.editor.Prompt.Id)
	require.NotNil(t, c.editor.ProductionPrompt)
	assert.Equal(t, "v7", c.editor.ProductionPrompt.Id)
	require.Len(t, c.editor.Sections, 1)
	assert.Equal(t, "Role_Definition", c.editor.Sections[0].Tag)
	assert.Empty(t, c.editor.StructureMsg)

	// {TARGET_LANGUAGE} is substituted, {SOURCE_TEXT} only marked.
	var hasVariable bool
	for _, seg := range c.editor.UserPreview {
		assert.NotContains(t, seg.Text, "{TARGET_LANGUAGE}")
		if seg.Variable && seg.Text == "{SOURCE_TEXT}" {
			hasVariable = true
		}
	}
	assert.True(t, hasVariable)
}

func TestSaveVersionCarriesProductionFlag(t *testing.T) {
	var savedBody string
	a, c := testApp(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == "PUT" && r.URL.Path == "/prompts/v7":
			content, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			savedBody = string(content)
			w.Write([]byte(`{"id":"v8","base_prompt_id":"b1","name":"NPC dialogue","version":"8.0",` +
				`"isProduction":true,"project":"hk4e","language":"ja","sections":[]}`))
		case r.URL.Path == "/prompt-structure":
			w.Write([]byte(`{"output_requirement":"x","task_info":"y"}`))
		case r.URL.Path == "/prompts/production/":
			w.Write([]byte(`{"id":"v8","name":"NPC dialogue","version":"8.0","isProduction":true}`))
		default:
			t.Errorf("unexpected path %s %s", r.Method, r.URL.Path)
		}
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest("PUT", "/prompts/v7",
		newForm(`{"name":"NPC dialogue","project":"hk4e","language":"ja","isProduction":true,"sections":[]}`))
	r.SetPathValue("versionId", "v7")
	resp := a.saveVersion(w, r)

	require.NotNil(t, resp)
	assert.Equal(t, "editor", c.name)
	assert.Contains(t, savedBody, `"isProduction":true`)
	require.NotNil(t, c.editor.Prompt)
	assert.True(t, c.editor.Prompt.IsProduction)
	require.NotNil(t, c.editor.ProductionPrompt)
}

func TestLibraryRendersSummaries(t *testing.T) {
	a, c := testApp(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/prompts/base-summaries/", r.URL.Path)
		w.Write([]byte(`[{"base_prompt_id":"b1","name":"NPC dialogue","latest_version":"7.0","version_count":7}]`))
	})

	w := httptest.NewRecorder()
	a.library(w, httptest.NewRequest("GET", "/library", nil))

	assert.Equal(t, "library", c.name)
	require.Len(t, c.library, 1)
	assert.Equal(t, "NPC dialogue", c.library[0].Name)
}

func TestRunEvaluationValidationShowsBanner(t *testing.T) {
	a, c := testApp(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/test-sets/mine" {
			w.Write([]byte(`[]`))
			return
		}
		t.Errorf("unexpected call to %s", r.URL.Path)
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/evaluation/run",
		newForm(`{"rows":[{"sourceText":"hello"}],"columns":[{"id":"c1"}]}`))
	resp := a.runEvaluation(w, r)

	require.NotNil(t, resp)
	assert.Equal(t, "evaluation", c.name)
	assert.Contains(t, c.evaluation.LastError, "no column")
}

func TestTestSetEntriesKeepsPickerPopulated(t *testing.T) {
	a, c := testApp(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/test-sets/ts1/entries":
			w.Write([]byte(`[{"source_text":"hello","reference_text":"bonjour"}]`))
		case "/test-sets/mine":
			w.Write([]byte(`[{"id":"ts1","test_set_name":"dialogue set","row_count":1}]`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/test-sets/ts1/entries", nil)
	r.SetPathValue("testSetId", "ts1")
	resp := a.testSetEntries(w, r)

	require.NotNil(t, resp)
	assert.Equal(t, "evaluation", c.name)
	require.Len(t, c.evaluation.Rows, 1)
	assert.Equal(t, "hello", c.evaluation.Rows[0].SourceText)
	require.Len(t, c.evaluation.TestSets, 1)
	assert.Equal(t, "dialogue set", c.evaluation.TestSets[0].TestSetName)
}

func TestSessionNotFound(t *testing.T) {
	a, c := testApp(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/sessions/s1", nil)
	r.SetPathValue("sessionId", "s1")
	resp := a.session(w, r)

	require.NotNil(t, resp)
	assert.Equal(t, "error", c.name)
	assert.Equal(t, 404, c.errCode)
}
