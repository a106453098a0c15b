package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/l10nlab/promptpilot/internal/domain"
)

type PromptRepo struct {
	Client *Client
}

func (r PromptRepo) List(ctx context.Context) (*[]domain.Prompt, error) {
	records, err := request[[]domain.Prompt](ctx, r.Client, reqConfig{
		Method: "GET",
		Path:   "/prompts/"})

	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r PromptRepo) BaseSummaries(ctx context.Context) (*[]domain.BasePromptSummary, error) {
	records, err := request[[]domain.BasePromptSummary](ctx, r.Client, reqConfig{
		Method: "GET",
		Path:   "/prompts/base-summaries/"})

	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r PromptRepo) Versions(ctx context.Context, basePromptId string) (*[]domain.Prompt, error) {
	records, err := request[[]domain.Prompt](ctx, r.Client, reqConfig{
		Method: "GET",
		Path:   fmt.Sprintf("/prompts/base/%s/versions", basePromptId)})

	if err != nil {
		return nil, err
	}

	return records, nil
}

// Create starts a new base prompt; the backend assigns version 1.0 and makes
// the new version its own base.
func (r PromptRepo) Create(ctx context.Context, prompt domain.Prompt) (*domain.Prompt, error) {
	body, err := json.Marshal(prompt)

	if err != nil {
		return nil, err
	}

	return request[domain.Prompt](ctx, r.Client, reqConfig{
		Method: "POST",
		Path:   "/prompts/",
		Body:   body})
}

// SaveVersion persists edits as a new version of the base prompt that
// versionId belongs to. Versions are immutable; nothing is updated in place.
func (r PromptRepo) SaveVersion(ctx context.Context, versionId string, prompt domain.Prompt) (*domain.Prompt, error) {
	body, err := json.Marshal(prompt)

	if err != nil {
		return nil, err
	}

	return request[domain.Prompt](ctx, r.Client, reqConfig{
		Method: "PUT",
		Path:   fmt.Sprintf("/prompts/%s", versionId),
		Body:   body})
}

func (r PromptRepo) Delete(ctx context.Context, versionId string) error {
	_, err := request[struct{}](ctx, r.Client, reqConfig{
		Method: "DELETE",
		Path:   fmt.Sprintf("/prompts/%s", versionId)})

	return err
}

// Production returns the current production version for a project/language
// pair, or nil when the backend reports none (404 means absence here, not
// failure).
func (r PromptRepo) Production(ctx context.Context, project string, language string) (*domain.Prompt, error) {
	params := url.Values{}
	params.Set("project", project)
	params.Set("language", language)

	record, err := request[domain.Prompt](ctx, r.Client, reqConfig{
		Method: "GET",
		Path:   "/prompts/production/?" + params.Encode()})

	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	return record, nil
}
