package faq

import (
	"context"
	"time"
)

// AnswerCache stores generated answers between queries.
type AnswerCache interface {
	GetAnswer(ctx context.Context, key string) (AnswerRecord, bool, error)
	SaveAnswer(ctx context.Context, record AnswerRecord, ttl time.Duration) error
}

// Store defines the persistence contract for FAQ cache data.
type Store interface {
	AnswerCache
	IncrementQuery(ctx context.Context, canonical, display string) error
	TopQueries(ctx context.Context, limit int) ([]TrendingQuery, error)
}
