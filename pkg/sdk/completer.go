package paperlens

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/paperlens/internal/domain"
)

// Completer generates text for a prompt. Any LLM client can be adapted to it.
type Completer interface {
	Complete(ctx context.Context, prompt string) (Completion, error)
}

// Completion is a completer answer with token accounting.
type Completion struct {
	Text             string
	Model            string
	PromptTokens     int
	CompletionTokens int
}

// completerAdapter wraps the public Completer to satisfy domain.Completer.
type completerAdapter struct {
	inner Completer
}

func (a *completerAdapter) Complete(ctx context.Context, prompt string) (domain.CompletionResult, error) {
	c, err := a.inner.Complete(ctx, prompt)
	if err != nil {
		return domain.CompletionResult{}, fmt.Errorf("complete: %w", err)
	}
	return domain.CompletionResult{
		Text:             c.Text,
		Model:            c.Model,
		PromptTokens:     c.PromptTokens,
		CompletionTokens: c.CompletionTokens,
		TotalTokens:      c.PromptTokens + c.CompletionTokens,
	}, nil
}
