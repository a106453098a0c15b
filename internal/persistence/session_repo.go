package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/l10nlab/promptpilot/internal/domain"
)

type SessionRepo struct {
	Client *Client
}

func (r SessionRepo) Save(ctx context.Context, session domain.EvaluationSession) (*domain.EvaluationSession, error) {
	body, err := json.Marshal(session)

	if err != nil {
		return nil, err
	}

	return request[domain.EvaluationSession](ctx, r.Client, reqConfig{
		Method: "POST",
		Path:   "/evaluation-sessions/",
		Body:   body})
}

func (r SessionRepo) List(ctx context.Context) (*[]domain.EvaluationSessionSummary, error) {
	records, err := request[[]domain.EvaluationSessionSummary](ctx, r.Client, reqConfig{
		Method: "GET",
		Path:   "/evaluation-sessions/"})

	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r SessionRepo) Get(ctx context.Context, sessionId string) (*domain.EvaluationSession, error) {
	return request[domain.EvaluationSession](ctx, r.Client, reqConfig{
		Method: "GET",
		Path:   fmt.Sprintf("/evaluation-sessions/%s", sessionId)})
}

func (r SessionRepo) Delete(ctx context.Context, sessionId string) error {
	_, err := request[struct{}](ctx, r.Client, reqConfig{
		Method: "DELETE",
		Path:   fmt.Sprintf("/evaluation-sessions/%s", sessionId)})

	return err
}
