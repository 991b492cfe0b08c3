package faq

import (
	"time"

	"github.com/yanqian/smartfaq/pkg/metrics"
)

// Entry is a single question/answer pair of the knowledge base.
type Entry struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// EntryInput carries the mutable fields of an Entry.
type EntryInput struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Tags     []string `json:"tags"`
}

// Outcome names the terminal state reached while answering a query.
type Outcome string

const (
	// OutcomeNoAnswer means neither the index nor the fallback produced an answer.
	OutcomeNoAnswer Outcome = "no_answer"
	// OutcomeDirectMatch means an indexed entry scored at or above the threshold.
	OutcomeDirectMatch Outcome = "direct_match"
	// OutcomeDeclined means the generative fallback explicitly declined.
	OutcomeDeclined Outcome = "declined"
	// OutcomeGeneratedMatch means the generative fallback produced the answer.
	OutcomeGeneratedMatch Outcome = "generated_match"
)

// Decision is the result of a single query.
type Decision struct {
	Answer      string              `json:"answer,omitempty"`
	Confidence  float64             `json:"confidence"`
	SourceFAQID string              `json:"sourceFaqId,omitempty"`
	HasAnswer   bool                `json:"hasAnswer"`
	Outcome     Outcome             `json:"outcome"`
	TokenUsage  *metrics.TokenUsage `json:"tokenUsage,omitempty"`
}

// Request encapsulates a FAQ search query.
type Request struct {
	Question            string   `json:"question"`
	ConfidenceThreshold *float64 `json:"confidenceThreshold,omitempty"`
}

// Response is returned to the HTTP transport.
type Response struct {
	Decision
	Question        string          `json:"question"`
	Recommendations []TrendingQuery `json:"recommendations"`
	DurationMs      int64           `json:"durationMs"`
}

// TrendingQuery represents a frequently asked question.
type TrendingQuery struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

// AnswerRecord captures a generated answer persisted in the KV cache.
type AnswerRecord struct {
	Key       string    `json:"key"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"createdAt"`
}
