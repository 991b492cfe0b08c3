package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/smartfaq/internal/domain/faq"
)

func TestCounterWithoutEncodingUsesWordEstimate(t *testing.T) {
	counter := &Counter{fallback: faq.WordCounter{}}
	text := "How do I reset my password?"

	require.Equal(t, faq.WordCounter{}.Count(text), counter.Count(text))
	require.Zero(t, counter.Count(""))
}
