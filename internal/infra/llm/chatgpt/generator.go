package chatgpt

import (
	"context"
	"errors"

	"github.com/yanqian/smartfaq/internal/domain/faq"
	"github.com/yanqian/smartfaq/pkg/metrics"
)

// Generator adapts the HTTP client to faq.Generator.
type Generator struct {
	client      *Client
	model       string
	temperature float32
}

// NewGenerator constructs the adapter.
func NewGenerator(client *Client, model string, temperature float32) *Generator {
	return &Generator{client: client, model: model, temperature: temperature}
}

// Complete implements faq.Generator.
func (g *Generator) Complete(ctx context.Context, messages []faq.Message) (faq.Completion, error) {
	req := ChatCompletionRequest{
		Model:       g.model,
		Temperature: g.temperature,
		Messages:    make([]Message, 0, len(messages)),
	}
	for _, msg := range messages {
		req.Messages = append(req.Messages, Message{Role: msg.Role, Content: msg.Content})
	}
	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return faq.Completion{}, err
	}
	if len(resp.Choices) == 0 {
		return faq.Completion{}, errors.New("chatgpt returned no choices")
	}
	return faq.Completion{
		Text: resp.Choices[0].Message.Content,
		Usage: metrics.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

var _ faq.Generator = (*Generator)(nil)
