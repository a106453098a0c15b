package persistence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"

	"github.com/l10nlab/promptpilot/internal/domain"
)

type TestSetRepo struct {
	Client *Client
}

type TestSetUpload struct {
	FileName     string
	FileType     string
	File         []byte
	TestSetName  string
	LanguageCode string
	Mappings     domain.ColumnMapping
}

// Upload sends a spreadsheet plus its column mappings as one multipart
// request. The request helper leaves the multipart content type alone.
func (r TestSetRepo) Upload(ctx context.Context, upload TestSetUpload) (*domain.TestSetUploadResponse, error) {
	mappings, err := json.Marshal(upload.Mappings)

	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	part, err := form.CreateFormFile("file", upload.FileName)
	if err != nil {
		return nil, err
	}
	if _, err = part.Write(upload.File); err != nil {
		return nil, err
	}

	fields := map[string]string{
		"test_set_name":      upload.TestSetName,
		"language_code":      upload.LanguageCode,
		"mappings":           string(mappings),
		"original_file_name": upload.FileName,
		"file_type":          upload.FileType,
	}
	for name, value := range fields {
		if err = form.WriteField(name, value); err != nil {
			return nil, err
		}
	}

	if err = form.Close(); err != nil {
		return nil, err
	}

	return request[domain.TestSetUploadResponse](ctx, r.Client, reqConfig{
		Method:      "POST",
		Path:        "/test-sets/upload",
		Body:        buf.Bytes(),
		ContentType: form.FormDataContentType()})
}

func (r TestSetRepo) Mine(ctx context.Context) (*[]domain.TestSetSummary, error) {
	records, err := request[[]domain.TestSetSummary](ctx, r.Client, reqConfig{
		Method: "GET",
		Path:   "/test-sets/mine"})

	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r TestSetRepo) Entries(ctx context.Context, testSetId string) (*[]domain.TestSetEntry, error) {
	records, err := request[[]domain.TestSetEntry](ctx, r.Client, reqConfig{
		Method: "GET",
		Path:   fmt.Sprintf("/test-sets/%s/entries", testSetId)})

	if err != nil {
		return nil, err
	}

	return records, nil
}
