package persistence

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l10nlab/promptpilot/internal/domain"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	creds := LoadCredentials(filepath.Join(t.TempDir(), "token"))
	return NewClient(server.URL+"/api/v1", creds)
}

func TestRequestAttachesBearerAndJSONContentType(t *testing.T) {
	var gotAuth, gotContentType, gotPath string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotPath = r.URL.Path
		w.Write([]byte(`{"id":"e1","status":"pending"}`))
	})
	require.NoError(t, client.Creds.Store("tok-123"))

	repo := EvaluationRepo{Client: client}
	ev, err := repo.Submit(context.Background(), domain.EvaluationRequest{
		PromptIds:   []string{"p1"},
		TestSetData: []domain.EvaluationRequestRow{{SourceText: "hello"}},
		TestSetName: "Manual Input",
	})

	require.NoError(t, err)
	assert.Equal(t, "e1", ev.Id)
	assert.Equal(t, domain.EvalPending, ev.Status)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "/api/v1/evaluations/", gotPath)
}

func TestRequestWithoutCredentialOmitsAuthHeader(t *testing.T) {
	var sawAuth bool
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		sawAuth = r.Header.Get("Authorization") != ""
		w.Write([]byte(`{"output_requirement":"x","task_info":"y"}`))
	})

	_, err := StructureRepo{Client: client}.Get(context.Background())

	require.NoError(t, err)
	assert.False(t, sawAuth)
}

func TestRequestSurfacesServerDetail(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":"prompt name must not be empty"}`))
	})

	_, err := PromptRepo{Client: client}.Create(context.Background(), domain.Prompt{})

	require.Error(t, err)
	reqErr, ok := err.(*ReqError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, reqErr.Status)
	assert.Contains(t, reqErr.Error(), "prompt name must not be empty")
}

func TestRequestFallsBackToStatusText(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("not json"))
	})

	_, err := PromptRepo{Client: client}.List(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), http.StatusText(http.StatusBadGateway))
}

func TestRequestNoContent(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	err := PromptRepo{Client: client}.Delete(context.Background(), "v1")

	assert.NoError(t, err)
}

func TestProductionLookupTreats404AsAbsence(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "hk4e", r.URL.Query().Get("project"))
		assert.Equal(t, "ja", r.URL.Query().Get("language"))
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"no production prompt"}`))
	})

	prompt, err := PromptRepo{Client: client}.Production(context.Background(), "hk4e", "ja")

	require.NoError(t, err)
	assert.Nil(t, prompt)
}

func TestLoginIsFormEncoded(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "reviewer", r.PostForm.Get("username"))
		assert.Equal(t, "s3cret", r.PostForm.Get("password"))
		w.Write([]byte(`{"access_token":"abc","token_type":"bearer"}`))
	})

	token, err := AuthRepo{Client: client}.Login(context.Background(), "reviewer", "s3cret")

	require.NoError(t, err)
	assert.Equal(t, "abc", token.AccessToken)
}

func TestUploadIsMultipart(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1 << 20))
		assert.Equal(t, "dialogue set", r.FormValue("test_set_name"))
		assert.Equal(t, "ja", r.FormValue("language_code"))
		assert.Contains(t, r.FormValue("mappings"), "sourceTextColumn")

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "rows.csv", header.Filename)

		w.Write([]byte(`{"id":"ts1","test_set_name":"dialogue set","row_count":2}`))
	})

	source := "source"
	resp, err := TestSetRepo{Client: client}.Upload(context.Background(), TestSetUpload{
		FileName:     "rows.csv",
		FileType:     "text/csv",
		File:         []byte("source,reference\nhello,bonjour\n"),
		TestSetName:  "dialogue set",
		LanguageCode: "ja",
		Mappings:     domain.ColumnMapping{SourceTextColumn: &source},
	})

	require.NoError(t, err)
	assert.Equal(t, "ts1", resp.Id)
	assert.Equal(t, 2, resp.RowCount)
}

func TestScoreAndCommentUpdatesArePartial(t *testing.T) {
	var bodies []string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		body := make([]byte, r.ContentLength)
		r.Body.Read(body)
		bodies = append(bodies, string(body))
		w.WriteHeader(http.StatusNoContent)
	})

	repo := EvaluationRepo{Client: client}
	require.NoError(t, repo.UpdateScore(context.Background(), "res1", 4))
	require.NoError(t, repo.UpdateComment(context.Background(), "res1", `nice "work"`))

	require.Len(t, bodies, 2)
	assert.JSONEq(t, `{"score": 4}`, bodies[0])
	assert.JSONEq(t, `{"comment": "nice \"work\""}`, bodies[1])
}
