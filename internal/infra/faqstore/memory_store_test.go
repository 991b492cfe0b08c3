package faqstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/smartfaq/internal/domain/faq"
)

func TestMemoryStoreAnswerTTL(t *testing.T) {
	store := NewMemoryStore()
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }

	record := faq.AnswerRecord{Key: "abc:refund policy", Question: "Refund policy?", Answer: "30 days."}
	require.NoError(t, store.SaveAnswer(context.Background(), record, time.Minute))

	got, ok, err := store.GetAnswer(context.Background(), record.Key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, record, got)

	clock = clock.Add(2 * time.Minute)
	_, ok, err = store.GetAnswer(context.Background(), record.Key)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStoreAnswerWithoutTTL(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.SaveAnswer(context.Background(), faq.AnswerRecord{Key: "k", Answer: "a"}, 0))

	_, ok, err := store.GetAnswer(context.Background(), "k")
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = store.GetAnswer(context.Background(), "")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStoreTopQueries(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.IncrementQuery(ctx, "reset password", "Reset password?"))
	require.NoError(t, store.IncrementQuery(ctx, "reset password", "reset PASSWORD"))
	require.NoError(t, store.IncrementQuery(ctx, "shipping", "Shipping?"))
	require.NoError(t, store.IncrementQuery(ctx, "billing", "Billing?"))
	require.NoError(t, store.IncrementQuery(ctx, "", "ignored"))

	top, err := store.TopQueries(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, []faq.TrendingQuery{
		{Query: "Reset password?", Count: 2},
		{Query: "Billing?", Count: 1},
	}, top)

	all, err := store.TopQueries(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
}
