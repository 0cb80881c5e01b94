package summary

import (
	"context"

	"github.com/kailas-cloud/paperlens/internal/domain"
)

// Completer generates text for a prompt. A nil Completer disables the AI path.
type Completer interface {
	Complete(ctx context.Context, prompt string) (domain.CompletionResult, error)
}
