package persistence

import (
	"context"

	"github.com/l10nlab/promptpilot/internal/domain"
)

type StructureRepo struct {
	Client *Client
}

// Get fetches the fixed output-requirement and task-info templates that the
// assembler appends to every prompt.
func (r StructureRepo) Get(ctx context.Context) (*domain.PromptStructure, error) {
	return request[domain.PromptStructure](ctx, r.Client, reqConfig{
		Method: "GET",
		Path:   "/prompt-structure"})
}
