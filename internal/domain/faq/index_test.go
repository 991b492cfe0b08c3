package faq

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEntries() []Entry {
	return []Entry{
		{ID: "pw", Question: "How do I reset my password?", Answer: "Click 'Forgot password' on the login page."},
		{ID: "bill", Question: "Where can I download my invoice?", Answer: "Invoices are listed under Billing in account settings."},
		{ID: "ship", Question: "How long does shipping take?", Answer: "Standard shipping takes three to five business days."},
	}
}

func TestIndexSearchNotReady(t *testing.T) {
	idx := NewIndex()
	match, ok := idx.Search("anything")
	require.False(t, ok)
	require.Zero(t, match.Score)
	require.Empty(t, match.EntryID)
	require.False(t, idx.Ready())
}

func TestIndexSelfMatchScoresOne(t *testing.T) {
	idx := NewIndex()
	entries := sampleEntries()
	idx.Rebuild(entries)
	require.True(t, idx.Ready())

	for _, entry := range entries {
		match, ok := idx.Search(entry.Question)
		require.True(t, ok)
		require.Equal(t, entry.ID, match.EntryID)
		require.Equal(t, 1.0, match.Score)
	}
}

func TestIndexRebuildEmptyResets(t *testing.T) {
	idx := NewIndex()
	idx.Rebuild(sampleEntries())
	idx.Rebuild(nil)

	_, ok := idx.Search("How do I reset my password?")
	require.False(t, ok)
	require.False(t, idx.Ready())
}

func TestIndexRebuildIdempotent(t *testing.T) {
	queries := []string{"reset password", "invoice billing", "shipping days", "unrelated words", ""}
	first := NewIndex()
	first.Rebuild(sampleEntries())
	second := NewIndex()
	second.Rebuild(sampleEntries())
	second.Rebuild(sampleEntries())

	for _, q := range queries {
		a, okA := first.Search(q)
		b, okB := second.Search(q)
		require.Equal(t, okA, okB)
		require.Equal(t, a, b, "query %q", q)
	}
}

func TestIndexTieBreakPrefersEarliestRow(t *testing.T) {
	entries := []Entry{
		{ID: "first", Question: "Do you ship abroad?", Answer: "Yes, worldwide."},
		{ID: "second", Question: "Do you ship abroad?", Answer: "Yes, worldwide."},
	}
	idx := NewIndex()
	idx.Rebuild(entries)

	for i := 0; i < 20; i++ {
		match, ok := idx.Search("ship abroad worldwide")
		require.True(t, ok)
		require.Equal(t, "first", match.EntryID)
		require.Equal(t, 0, match.Row)
	}
}

func TestIndexOutOfVocabularyQueryScoresZero(t *testing.T) {
	idx := NewIndex()
	idx.Rebuild(sampleEntries())

	match, ok := idx.Search("Weather forecast today?")
	require.True(t, ok)
	require.Zero(t, match.Score)
	require.Equal(t, "pw", match.EntryID)
}

func TestIndexAnswerTermsAreSearchable(t *testing.T) {
	idx := NewIndex()
	idx.Rebuild(sampleEntries())

	match, ok := idx.Search("business days")
	require.True(t, ok)
	require.Equal(t, "ship", match.EntryID)
	require.Greater(t, match.Score, 0.0)
	require.Less(t, match.Score, 1.0)
}

func TestIndexEnsureReusesStateForSameSnapshot(t *testing.T) {
	idx := NewIndex()
	entries := sampleEntries()

	first := idx.Ensure(entries)
	second := idx.Ensure(sampleEntries())
	require.Same(t, first, second)

	changed := sampleEntries()
	changed[0].Answer = "Use the reset link we email you."
	third := idx.Ensure(changed)
	require.NotSame(t, first, third)
	require.NotEqual(t, first.fingerprint, third.fingerprint)
}

func TestIndexConcurrentEnsureAndSearch(t *testing.T) {
	idx := NewIndex()
	small := sampleEntries()[:1]
	large := sampleEntries()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			entries := small
			if i%2 == 0 {
				entries = large
			}
			state := idx.Ensure(entries)
			match, ok := state.search(entries[len(entries)-1].Question)
			assert.True(t, ok)
			assert.Equal(t, entries[len(entries)-1].ID, match.EntryID, fmt.Sprintf("goroutine %d", i))
			assert.Len(t, state.ids, len(entries))
		}(i)
	}
	wg.Wait()
}
