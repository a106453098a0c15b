package persistence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Client is the single door to the evaluation backend. Every repo goes
// through request, which resolves the base URL, attaches the bearer
// credential from the injected session and applies the shared rate limit.
type Client struct {
	BaseUrl string
	Creds   *Credentials
	http    *http.Client
	limiter *rate.Limiter
}

func NewClient(baseUrl string, creds *Credentials) *Client {
	return &Client{
		BaseUrl: strings.TrimRight(baseUrl, "/"),
		Creds:   creds,
		http:    &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(20), 40),
	}
}

type reqConfig struct {
	Method      string
	Path        string
	Headers     []string
	Body        []byte
	ContentType string
}

// ReqError carries the server-supplied detail message for a non-success
// response, falling back to the status text.
type ReqError struct {
	Status int
	Detail string
}

func (e *ReqError) Error() string {
	return fmt.Sprintf("request failed (%d): %s", e.Status, e.Detail)
}

// IsNotFound reports whether err is a 404 response. The production-prompt
// lookup treats that as absence rather than failure.
func IsNotFound(err error) bool {
	reqErr, ok := err.(*ReqError)
	return ok && reqErr.Status == http.StatusNotFound
}

type errBody struct {
	Detail string `json:"detail"`
}

func request[T any](ctx context.Context, c *Client, config reqConfig) (*T, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := config.Path
	if !strings.HasPrefix(url, "http") {
		url = c.BaseUrl + url
	}

	var reader *bytes.Reader
	if config.Body != nil {
		reader = bytes.NewReader(config.Body)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, config.Method, url, reader)

	if err != nil {
		return nil, err
	}

	for i := 0; i < len(config.Headers); i++ {
		headerKV := strings.SplitN(config.Headers[i], ":", 2)
		req.Header.Add(strings.TrimSpace(headerKV[0]), strings.TrimSpace(headerKV[1]))
	}

	if config.ContentType != "" {
		req.Header.Set("Content-Type", config.ContentType)
	} else if config.Body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	if token, ok := c.Creds.Token(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)

	if err != nil {
		return nil, err
	}

	body, err := readAll(resp.Body)

	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := http.StatusText(resp.StatusCode)
		var parsed errBody
		if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
			detail = parsed.Detail
		}
		return nil, &ReqError{Status: resp.StatusCode, Detail: detail}
	}

	if resp.StatusCode == http.StatusNoContent || len(body) == 0 {
		return nil, nil
	}

	var t *T
	if err = json.Unmarshal(body, &t); err != nil {
		return nil, err
	}

	return t, nil
}
