package faq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

var (
	// ErrFallbackUnavailable is returned when no generator is configured or
	// the corpus does not fit the context budget.
	ErrFallbackUnavailable = errors.New("generative fallback unavailable")
	errEmptyCompletion     = errors.New("generative fallback returned empty text")
)

// Engine picks the best answer for a question from a knowledge base
// snapshot, falling back to a generator when no entry matches well enough.
type Engine struct {
	cfg       Config
	index     *Index
	generator Generator
	cache     AnswerCache
	tokens    TokenCounter
	logger    *slog.Logger
}

// NewEngine wires an engine around its own index. generator and cache may
// be nil.
func NewEngine(cfg Config, index *Index, generator Generator, cache AnswerCache, tokens TokenCounter, logger *slog.Logger) *Engine {
	if index == nil {
		index = NewIndex()
	}
	if tokens == nil {
		tokens = WordCounter{}
	}
	return &Engine{
		cfg:       cfg.withDefaults(),
		index:     index,
		generator: generator,
		cache:     cache,
		tokens:    tokens,
		logger:    logger.With("component", "faq.engine"),
	}
}

// Answer resolves question against entries. It never fails: every outcome,
// including a missing answer, is expressed in the returned Decision.
func (e *Engine) Answer(ctx context.Context, question string, threshold float64, entries []Entry) Decision {
	if len(entries) == 0 {
		return Decision{Outcome: OutcomeNoAnswer}
	}

	state := e.index.Ensure(entries)
	match, _ := state.search(question)
	if match.Score >= threshold {
		entry := entries[match.Row]
		return Decision{
			Answer:      entry.Answer,
			Confidence:  match.Score,
			SourceFAQID: entry.ID,
			HasAnswer:   true,
			Outcome:     OutcomeDirectMatch,
		}
	}

	completion, err := e.fallback(ctx, question, entries, state)
	if err != nil {
		if errors.Is(err, ErrFallbackUnavailable) {
			e.logger.Debug("faq fallback skipped", "reason", err)
		} else {
			e.logger.Warn("faq fallback failed", "error", err)
		}
		return Decision{Confidence: match.Score, Outcome: OutcomeNoAnswer}
	}

	if e.declined(completion.Text) {
		return Decision{Confidence: e.cfg.DeclinedConfidence, Outcome: OutcomeDeclined}
	}
	decision := Decision{
		Answer:     completion.Text,
		Confidence: e.cfg.GeneratedConfidence,
		HasAnswer:  true,
		Outcome:    OutcomeGeneratedMatch,
	}
	if !completion.Usage.IsZero() {
		usage := completion.Usage
		decision.TokenUsage = &usage
	}
	return decision
}

func (e *Engine) fallback(ctx context.Context, question string, entries []Entry, state *indexState) (Completion, error) {
	if e.generator == nil {
		return Completion{}, ErrFallbackUnavailable
	}

	cacheKey := answerCacheKey(state.fingerprint, question)
	if cached, ok := e.cachedAnswer(ctx, cacheKey); ok {
		return Completion{Text: cached}, nil
	}

	selected := selectContext(entries, state.scores(question), e.tokens, e.cfg.MaxContextTokens)
	if len(selected) == 0 {
		return Completion{}, fmt.Errorf("%w: no entry fits %d context tokens", ErrFallbackUnavailable, e.cfg.MaxContextTokens)
	}
	messages := []Message{
		{Role: "system", Content: buildSystemPrompt(e.cfg.Prompt, selected)},
		{Role: "user", Content: question},
	}

	callCtx, cancel := context.WithTimeout(ctx, e.cfg.FallbackTimeout)
	defer cancel()
	completion, err := e.generator.Complete(callCtx, messages)
	if err != nil {
		return Completion{}, err
	}
	completion.Text = strings.TrimSpace(completion.Text)
	if completion.Text == "" {
		return Completion{}, errEmptyCompletion
	}

	e.saveAnswer(ctx, cacheKey, question, completion.Text)
	return completion, nil
}

func (e *Engine) declined(text string) bool {
	folded := strings.ToLower(strings.ReplaceAll(text, "’", "'"))
	return strings.Contains(folded, strings.ToLower(e.cfg.DeclineMarker))
}

func (e *Engine) cachedAnswer(ctx context.Context, key string) (string, bool) {
	if e.cache == nil || e.cfg.CacheTTL <= 0 {
		return "", false
	}
	record, ok, err := e.cache.GetAnswer(ctx, key)
	if err != nil {
		e.logger.Warn("faq cache lookup failed", "error", err)
		return "", false
	}
	if !ok || strings.TrimSpace(record.Answer) == "" {
		return "", false
	}
	return record.Answer, true
}

func (e *Engine) saveAnswer(ctx context.Context, key, question, answer string) {
	if e.cache == nil || e.cfg.CacheTTL <= 0 {
		return
	}
	record := AnswerRecord{
		Key:       key,
		Question:  question,
		Answer:    answer,
		CreatedAt: time.Now().UTC(),
	}
	if err := e.cache.SaveAnswer(ctx, record, e.cfg.CacheTTL); err != nil {
		e.logger.Warn("faq cache save failed", "error", err)
	}
}

func answerCacheKey(fp uint64, question string) string {
	return fmt.Sprintf("%016x:%s", fp, normalizeQuestion(question))
}
