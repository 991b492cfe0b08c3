package openai

import (
	"context"
	"errors"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/yanqian/smartfaq/internal/domain/faq"
	"github.com/yanqian/smartfaq/pkg/metrics"
)

// Generator implements faq.Generator with the go-openai SDK.
type Generator struct {
	client      *goopenai.Client
	model       string
	temperature float32
}

// NewGenerator constructs the adapter. An empty baseURL targets api.openai.com.
func NewGenerator(apiKey, baseURL, model string, temperature float32) (*Generator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("openai api key cannot be empty")
	}
	cfg := goopenai.DefaultConfig(apiKey)
	if strings.TrimSpace(baseURL) != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	if model == "" {
		model = goopenai.GPT3Dot5Turbo
	}
	return &Generator{
		client:      goopenai.NewClientWithConfig(cfg),
		model:       model,
		temperature: temperature,
	}, nil
}

// Complete implements faq.Generator.
func (g *Generator) Complete(ctx context.Context, messages []faq.Message) (faq.Completion, error) {
	req := goopenai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: g.temperature,
		Messages:    make([]goopenai.ChatCompletionMessage, 0, len(messages)),
	}
	for _, msg := range messages {
		req.Messages = append(req.Messages, goopenai.ChatCompletionMessage{Role: msg.Role, Content: msg.Content})
	}
	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return faq.Completion{}, err
	}
	if len(resp.Choices) == 0 {
		return faq.Completion{}, errors.New("openai returned no choices")
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
