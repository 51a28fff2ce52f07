package companion

import (
	"context"

	"github.com/futig/code-companion/internal/entity"
)

// CompletionClient turns a prompt pair into generated text
type CompletionClient interface {
	Complete(ctx context.Context, prompt entity.Prompt) (string, error)
}
