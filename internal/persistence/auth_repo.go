package persistence

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/l10nlab/promptpilot/internal/domain"
)

type AuthRepo struct {
	Client *Client
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a bearer token. The token endpoint is the
// one form-encoded call in the API.
func (r AuthRepo) Login(ctx context.Context, username string, password string) (*domain.Token, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	return request[domain.Token](ctx, r.Client, reqConfig{
		Method:      "POST",
		Path:        "/auth/token",
		Body:        []byte(form.Encode()),
		ContentType: "application/x-www-form-urlencoded"})
}

func (r AuthRepo) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	body, err := json.Marshal(req)

	if err != nil {
		return nil, err
	}

	return request[domain.User](ctx, r.Client, reqConfig{
		Method: "POST",
		Path:   "/auth/register",
		Body:   body})
}

func (r AuthRepo) Me(ctx context.Context) (*domain.User, error) {
	return request[domain.User](ctx, r.Client, reqConfig{
		Method: "GET",
		Path:   "/auth/users/me"})
}
