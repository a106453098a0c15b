package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/l10nlab/promptpilot/internal/domain"
)

type EvaluationRepo struct {
	Client *Client
}

func (r EvaluationRepo) Submit(ctx context.Context, req domain.EvaluationRequest) (*domain.Evaluation, error) {
	body, err := json.Marshal(req)

	if err != nil {
		return nil, err
	}

	return request[domain.Evaluation](ctx, r.Client, reqConfig{
		Method: "POST",
		Path:   "/evaluations/",
		Body:   body})
}

// CheckCompletion asks the backend to reconcile and report the run's
// authoritative status.
func (r EvaluationRepo) CheckCompletion(ctx context.Context, evaluationId string) (*domain.Evaluation, error) {
	return request[domain.Evaluation](ctx, r.Client, reqConfig{
		Method: "PATCH",
		Path:   fmt.Sprintf("/evaluations/%s/check_completion", evaluationId)})
}

func (r EvaluationRepo) Results(ctx context.Context, evaluationId string) (*[]domain.EvaluationResult, error) {
	records, err := request[[]domain.EvaluationResult](ctx, r.Client, reqConfig{
		Method: "GET",
		Path:   fmt.Sprintf("/evaluations/%s/results", evaluationId)})

	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r EvaluationRepo) UpdateScore(ctx context.Context, resultId string, score int) error {
	body := []byte(fmt.Sprintf(`{"score": %d}`, score))

	_, err := request[domain.EvaluationResult](ctx, r.Client, reqConfig{
		Method: "PUT",
		Path:   fmt.Sprintf("/evaluations/results/%s", resultId),
		Body:   body})

	return err
}

func (r EvaluationRepo) UpdateComment(ctx context.Context, resultId string, comment string) error {
	content, err := json.Marshal(comment)

	if err != nil {
		return err
	}

	body := []byte(fmt.Sprintf(`{"comment": %s}`, content))

	_, err = request[domain.EvaluationResult](ctx, r.Client, reqConfig{
		Method: "PUT",
		Path:   fmt.Sprintf("/evaluations/results/%s", resultId),
		Body:   body})

	return err
}

// RunJudge asks the backend to start LLM judging for a finished run. The
// backend accepts and works in the background; progress shows up as
// judge_status on subsequent status checks.
func (r EvaluationRepo) RunJudge(ctx context.Context, evaluationId string) error {
	_, err := request[struct{}](ctx, r.Client, reqConfig{
		Method: "POST",
		Path:   fmt.Sprintf("/evaluations/%s/judge", evaluationId)})

	return err
}
