package app

import (
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/l10nlab/promptpilot/internal/components"
	"github.com/l10nlab/promptpilot/internal/domain"
	"github.com/l10nlab/promptpilot/internal/persistence"
)

const maxUploadBytes = 10 << 20

func (a App) uploadTestSet(w http.ResponseWriter, r *http.Request) *AppResp {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return a.errResp(err, get400())
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return a.errResp(err, get400())
	}
	defer file.Close()

	// The multipart form is already capped at maxUploadBytes; read the file
	// whole rather than through the JSON-body limit.
	content, err := io.ReadAll(file)
	if err != nil {
		return a.errResp(err, get400())
	}

	upload := persistence.TestSetUpload{
		FileName:     header.Filename,
		FileType:     header.Header.Get("Content-Type"),
		File:         content,
		TestSetName:  r.FormValue("test_set_name"),
		LanguageCode: r.FormValue("language_code"),
		Mappings: domain.ColumnMapping{
			SourceTextColumn:    optionalField(r, "source_column"),
			ReferenceTextColumn: optionalField(r, "reference_column"),
			TextIdColumn:        optionalField(r, "text_id_column"),
			ExtraInfoColumn:     optionalField(r, "extra_info_column")}}

	if _, err = a.TestSetRepo.Upload(r.Context(), upload); err != nil {
		return a.renderEvaluation(r, "Uploading the test set failed.")
	}

	http.Redirect(w, r, "/evaluation", http.StatusSeeOther)
	return nil
}

// testSetEntries loads a stored test set into the evaluation matrix as input
// rows. Nothing is submitted until the user runs the evaluation.
func (a App) testSetEntries(w http.ResponseWriter, r *http.Request) *AppResp {
	entries, err := a.TestSetRepo.Entries(r.Context(), r.PathValue("testSetId"))

	if err != nil {
		return a.errResp(err, get500())
	}

	var rows []domain.TestRow
	if entries != nil {
		rows = make([]domain.TestRow, 0, len(*entries))
		for _, entry := range *entries {
			rows = append(rows, domain.TestRow{
				Id:            uuid.NewString(),
				SourceText:    entry.SourceText,
				ReferenceText: entry.ReferenceText,
				Instructions:  entry.ExtraInfoValue})
		}
	}

	view := components.EvaluationFromSnapshot(a.Runs.Snapshot())
	view.Rows = rows
	view.Cells = map[string]components.EvaluationCell{}
	view.TestSets = a.testSetList(r)

	return &AppResp{Component: a.ComponentBuilder.Evaluation(view), Code: 200, Message: "OK", ContentType: "text/html"}
}

func optionalField(r *http.Request, name string) *string {
	value := r.FormValue(name)
	if value == "" {
		return nil
	}
	return &value
}
