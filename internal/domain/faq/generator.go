package faq

import (
	"context"

	"github.com/yanqian/smartfaq/pkg/metrics"
)

// Message mirrors a role tagged chat message.
type Message struct {
	Role    string
	Content string
}

// Completion is the text returned by a Generator.
type Completion struct {
	Text  string
	Usage metrics.TokenUsage
}

// Generator is the generative fallback collaborator.
type Generator interface {
	Complete(ctx context.Context, messages []Message) (Completion, error)
}

// TokenCounter measures text against the generator's context window.
type TokenCounter interface {
	Count(text string) int
}
