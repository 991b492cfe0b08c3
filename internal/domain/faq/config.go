package faq

import "time"

const (
	defaultThreshold           = 0.5
	defaultDeclinedConfidence  = 0.4
	defaultGeneratedConfidence = 0.7
	defaultDeclineMarker       = "don't have enough information"
	defaultFallbackTimeout     = 15 * time.Second
	defaultPrompt              = "You are a helpful assistant that answers questions based on the following FAQ information. If you don't find a match, reply with 'I don't have enough information to answer this question.'"
)

// Config holds runtime knobs for the FAQ service.
type Config struct {
	DefaultThreshold    float64
	DeclinedConfidence  float64
	GeneratedConfidence float64
	DeclineMarker       string
	Prompt              string
	FallbackTimeout     time.Duration
	MaxContextTokens    int
	CacheTTL            time.Duration
	TopRecommendations  int
}

// DefaultConfig returns the policy used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		DefaultThreshold:    defaultThreshold,
		DeclinedConfidence:  defaultDeclinedConfidence,
		GeneratedConfidence: defaultGeneratedConfidence,
		DeclineMarker:       defaultDeclineMarker,
		Prompt:              defaultPrompt,
		FallbackTimeout:     defaultFallbackTimeout,
		TopRecommendations:  10,
	}
}

func (c Config) withDefaults() Config {
	if c.DeclineMarker == "" {
		c.DeclineMarker = defaultDeclineMarker
	}
	if c.Prompt == "" {
		c.Prompt = defaultPrompt
	}
	if c.FallbackTimeout <= 0 {
		c.FallbackTimeout = defaultFallbackTimeout
	}
	return c
}
