package tokenizer

import (
	"log/slog"

	"github.com/pkoukk/tiktoken-go"

	"github.com/yanqian/smartfaq/internal/domain/faq"
)

const fallbackEncoding = "cl100k_base"

// Counter measures prompt text with the BPE encoding of the configured model.
type Counter struct {
	encoding *tiktoken.Tiktoken
	fallback faq.TokenCounter
}

// NewCounter resolves the encoding for model. When no encoding can be
// loaded the counter degrades to faq.WordCounter.
func NewCounter(model string, logger *slog.Logger) *Counter {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "tokenizer")
	encoding, err := tiktoken.EncodingForModel(model)
	if err != nil {
		encoding, err = tiktoken.GetEncoding(fallbackEncoding)
	}
	if err != nil {
		log.Warn("tiktoken encoding unavailable, estimating tokens from words", "model", model, "error", err)
		return &Counter{fallback: faq.WordCounter{}}
	}
	return &Counter{encoding: encoding, fallback: faq.WordCounter{}}
}

// Count implements faq.TokenCounter.
func (c *Counter) Count(text string) int {
	if c.encoding == nil {
		return c.fallback.Count(text)
	}
	return len(c.encoding.Encode(text, nil, nil))
}

var _ faq.TokenCounter = (*Counter)(nil)
