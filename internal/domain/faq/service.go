package faq

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/yanqian/smartfaq/pkg/errors"
	"github.com/yanqian/smartfaq/pkg/util"
)

// Service exposes smart FAQ capabilities.
type Service interface {
	Answer(ctx context.Context, req Request) (Response, error)
	Trending(ctx context.Context) ([]TrendingQuery, error)
	List(ctx context.Context) ([]Entry, error)
	Get(ctx context.Context, id string) (Entry, error)
	Create(ctx context.Context, input EntryInput) (Entry, error)
	Update(ctx context.Context, id string, input EntryInput) (Entry, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	cfg    Config
	repo   Repository
	store  Store
	engine *Engine
	logger *slog.Logger
	now    func() time.Time

	// serialises read-modify-write cycles against the repository
	writeMu sync.Mutex
}

// NewService wires up the FAQ domain.
func NewService(cfg Config, repo Repository, store Store, engine *Engine, logger *slog.Logger) Service {
	return &service{
		cfg:    cfg,
		repo:   repo,
		store:  store,
		engine: engine,
		logger: logger.With("component", "faq.service"),
		now:    util.NowUTC,
	}
}

func (s *service) Answer(ctx context.Context, req Request) (Response, error) {
	start := time.Now()
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return Response{}, apperrors.Wrap("invalid_input", "question cannot be empty", nil)
	}
	threshold := s.cfg.DefaultThreshold
	if req.ConfidenceThreshold != nil {
		threshold = *req.ConfidenceThreshold
	}
	if threshold < 0 || threshold > 1 {
		return Response{}, apperrors.Wrap("invalid_input", "confidence threshold must be within [0,1]", nil)
	}

	entries, err := s.repo.List(ctx)
	if err != nil {
		return Response{}, apperrors.Wrap("storage_error", "failed to load knowledge base", err)
	}

	decision := s.engine.Answer(ctx, question, threshold, entries)
	s.logger.Info("faq answered",
		"outcome", decision.Outcome,
		"confidence", decision.Confidence,
		"source_faq_id", decision.SourceFAQID,
		"entries", len(entries),
	)

	recs := []TrendingQuery{}
	if s.store != nil {
		if err := s.store.IncrementQuery(ctx, normalizeQuestion(question), question); err != nil {
			s.logger.Warn("faq trending increment failed", "error", err)
		}
		recs, err = s.store.TopQueries(ctx, s.cfg.TopRecommendations)
		if err != nil {
			s.logger.Warn("faq trending fetch failed", "error", err)
		}
		if recs == nil {
			recs = []TrendingQuery{}
		}
	}

	return Response{
		Decision:        decision,
		Question:        question,
		Recommendations: recs,
		DurationMs:      time.Since(start).Milliseconds(),
	}, nil
}

func (s *service) Trending(ctx context.Context) ([]TrendingQuery, error) {
	if s.store == nil {
		return []TrendingQuery{}, nil
	}
	recs, err := s.store.TopQueries(ctx, s.cfg.TopRecommendations)
	if err != nil {
		return nil, apperrors.Wrap("faq_error", "failed to load trending queries", err)
	}
	return recs, nil
}

func (s *service) List(ctx context.Context) ([]Entry, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Wrap("storage_error", "failed to load knowledge base", err)
	}
	return entries, nil
}

func (s *service) Get(ctx context.Context, id string) (Entry, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return Entry{}, err
	}
	idx := indexOf(entries, id)
	if idx < 0 {
		return Entry{}, apperrors.Wrap("not_found", "faq not found", nil)
	}
	return entries[idx], nil
}

func (s *service) Create(ctx context.Context, input EntryInput) (Entry, error) {
	input, err := sanitizeInput(input)
	if err != nil {
		return Entry{}, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	entries, err := s.List(ctx)
	if err != nil {
		return Entry{}, err
	}
	now := s.now()
	entry := Entry{
		ID:        uuid.NewString(),
		Question:  input.Question,
		Answer:    input.Answer,
		Tags:      input.Tags,
		CreatedAt: now,
		UpdatedAt: now,
	}
	next := append(cloneEntries(entries), entry)
	if err := s.repo.Save(ctx, next); err != nil {
		return Entry{}, apperrors.Wrap("storage_error", "failed to save knowledge base", err)
	}
	s.logger.Info("faq created", "faq_id", entry.ID)
	return entry, nil
}

func (s *service) Update(ctx context.Context, id string, input EntryInput) (Entry, error) {
	input, err := sanitizeInput(input)
	if err != nil {
		return Entry{}, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	entries, err := s.List(ctx)
	if err != nil {
		return Entry{}, err
	}
	idx := indexOf(entries, id)
	if idx < 0 {
		return Entry{}, apperrors.Wrap("not_found", "faq not found", nil)
	}
	current := entries[idx]
	tags := input.Tags
	if len(tags) == 0 {
		tags = current.Tags
	}
	updated := Entry{
		ID:        current.ID,
		Question:  input.Question,
		Answer:    input.Answer,
		Tags:      tags,
		CreatedAt: current.CreatedAt,
		UpdatedAt: s.now(),
	}
	next := cloneEntries(entries)
	next[idx] = updated
	if err := s.repo.Save(ctx, next); err != nil {
		return Entry{}, apperrors.Wrap("storage_error", "failed to save knowledge base", err)
	}
	s.logger.Info("faq updated", "faq_id", id)
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	entries, err := s.List(ctx)
	if err != nil {
		return err
	}
	idx := indexOf(entries, id)
	if idx < 0 {
		return apperrors.Wrap("not_found", "faq not found", nil)
	}
	next := make([]Entry, 0, len(entries)-1)
	next = append(next, entries[:idx]...)
	next = append(next, entries[idx+1:]...)
	if err := s.repo.Save(ctx, next); err != nil {
		return apperrors.Wrap("storage_error", "failed to save knowledge base", err)
	}
	s.logger.Info("faq deleted", "faq_id", id)
	return nil
}

func sanitizeInput(input EntryInput) (EntryInput, error) {
	input.Question = strings.TrimSpace(input.Question)
	input.Answer = strings.TrimSpace(input.Answer)
	if input.Question == "" {
		return EntryInput{}, apperrors.Wrap("invalid_input", "question cannot be empty", nil)
	}
	if input.Answer == "" {
		return EntryInput{}, apperrors.Wrap("invalid_input", "answer cannot be empty", nil)
	}
	input.Tags = normalizeTags(input.Tags)
	return input, nil
}

// normalizeTags trims and de-duplicates tags, keeping first occurrence order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func indexOf(entries []Entry, id string) int {
	for i, entry := range entries {
		if entry.ID == id {
			return i
		}
	}
	return -1
}

func cloneEntries(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}
