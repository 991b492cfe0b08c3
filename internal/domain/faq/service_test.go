package faq

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/smartfaq/pkg/errors"
)

type fakeRepository struct {
	entries []Entry
	listErr error
	saveErr error
	saves   int
}

func (r *fakeRepository) List(context.Context) ([]Entry, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return cloneEntries(r.entries), nil
}

func (r *fakeRepository) Save(_ context.Context, entries []Entry) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves++
	r.entries = cloneEntries(entries)
	return nil
}

type fakeStore struct {
	fakeCache
	counts map[string]int64
}

func (s *fakeStore) IncrementQuery(_ context.Context, canonical, _ string) error {
	if s.counts == nil {
		s.counts = make(map[string]int64)
	}
	s.counts[canonical]++
	return nil
}

func (s *fakeStore) TopQueries(context.Context, int) ([]TrendingQuery, error) {
	out := make([]TrendingQuery, 0, len(s.counts))
	for q, c := range s.counts {
		out = append(out, TrendingQuery{Query: q, Count: c})
	}
	return out, nil
}

func newTestService(repo Repository, store Store, gen Generator) *service {
	cfg := DefaultConfig()
	svc := NewService(cfg, repo, store, NewEngine(cfg, NewIndex(), gen, store, nil, testLogger()), testLogger()).(*service)
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return svc
}

func TestServiceAnswerRejectsEmptyQuestion(t *testing.T) {
	svc := newTestService(&fakeRepository{}, nil, nil)
	_, err := svc.Answer(context.Background(), Request{Question: "   "})
	require.True(t, apperrors.IsCode(err, "invalid_input"))
}

func TestServiceAnswerRejectsThresholdOutOfRange(t *testing.T) {
	svc := newTestService(&fakeRepository{}, nil, nil)
	for _, threshold := range []float64{-0.1, 1.5} {
		th := threshold
		_, err := svc.Answer(context.Background(), Request{Question: "hi", ConfidenceThreshold: &th})
		require.True(t, apperrors.IsCode(err, "invalid_input"), "threshold %v", th)
	}
}

func TestServiceAnswerEmptyKnowledgeBase(t *testing.T) {
	gen := &fakeGenerator{resp: Completion{Text: "generated"}}
	svc := newTestService(&fakeRepository{}, nil, gen)

	resp, err := svc.Answer(context.Background(), Request{Question: "How do I reset my password?"})

	require.NoError(t, err)
	require.False(t, resp.HasAnswer)
	require.Zero(t, resp.Confidence)
	require.Zero(t, gen.callCount())
}

func TestServiceAnswerUsesDefaultThresholdAndTracksTrending(t *testing.T) {
	store := &fakeStore{fakeCache: *newFakeCache()}
	svc := newTestService(&fakeRepository{entries: passwordKB()}, store, nil)

	resp, err := svc.Answer(context.Background(), Request{Question: " How do I reset my password? "})

	require.NoError(t, err)
	require.True(t, resp.HasAnswer)
	require.Equal(t, "How do I reset my password?", resp.Question)
	require.Equal(t, passwordKB()[0].ID, resp.SourceFAQID)
	require.Equal(t, int64(1), store.counts["how do i reset my password"])
	require.Len(t, resp.Recommendations, 1)
}

func TestServiceAnswerCustomThreshold(t *testing.T) {
	svc := newTestService(&fakeRepository{entries: passwordKB()}, nil, nil)
	strict := 1.0

	resp, err := svc.Answer(context.Background(), Request{Question: "reset my password", ConfidenceThreshold: &strict})

	require.NoError(t, err)
	require.False(t, resp.HasAnswer)
	require.Greater(t, resp.Confidence, 0.0)
}

func TestServiceAnswerRepositoryFailure(t *testing.T) {
	svc := newTestService(&fakeRepository{listErr: errors.New("disk gone")}, nil, nil)
	_, err := svc.Answer(context.Background(), Request{Question: "hello"})
	require.True(t, apperrors.IsCode(err, "storage_error"))
}

func TestServiceCreateAssignsIdentity(t *testing.T) {
	repo := &fakeRepository{}
	svc := newTestService(repo, nil, nil)

	entry, err := svc.Create(context.Background(), EntryInput{
		Question: "  How do I reset my password? ",
		Answer:   "Click 'Forgot password'.",
		Tags:     []string{"account", " account ", "", "login"},
	})

	require.NoError(t, err)
	require.NotEmpty(t, entry.ID)
	require.Equal(t, "How do I reset my password?", entry.Question)
	require.Equal(t, []string{"account", "login"}, entry.Tags)
	require.Equal(t, entry.CreatedAt, entry.UpdatedAt)
	require.Len(t, repo.entries, 1)
	require.Equal(t, entry, repo.entries[0])
}

func TestServiceCreateValidatesInput(t *testing.T) {
	svc := newTestService(&fakeRepository{}, nil, nil)
	_, err := svc.Create(context.Background(), EntryInput{Question: "q"})
	require.True(t, apperrors.IsCode(err, "invalid_input"))
	_, err = svc.Create(context.Background(), EntryInput{Answer: "a"})
	require.True(t, apperrors.IsCode(err, "invalid_input"))
}

func TestServiceCreateKeepsInsertionOrder(t *testing.T) {
	repo := &fakeRepository{}
	svc := newTestService(repo, nil, nil)
	first, err := svc.Create(context.Background(), EntryInput{Question: "one?", Answer: "first"})
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), EntryInput{Question: "two?", Answer: "second"})
	require.NoError(t, err)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{first.ID, second.ID}, []string{list[0].ID, list[1].ID})
	require.NotEqual(t, first.ID, second.ID)
}

func TestServiceUpdatePreservesIdentity(t *testing.T) {
	repo := &fakeRepository{}
	svc := newTestService(repo, nil, nil)
	created, err := svc.Create(context.Background(), EntryInput{Question: "old?", Answer: "old", Tags: []string{"keep"}})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, EntryInput{Question: "new?", Answer: "new"})

	require.NoError(t, err)
	require.Equal(t, created.ID, updated.ID)
	require.Equal(t, created.CreatedAt, updated.CreatedAt)
	require.True(t, updated.UpdatedAt.After(created.UpdatedAt))
	require.Equal(t, "new?", updated.Question)
	require.Equal(t, []string{"keep"}, updated.Tags)

	retagged, err := svc.Update(context.Background(), created.ID, EntryInput{Question: "new?", Answer: "new", Tags: []string{"fresh"}})
	require.NoError(t, err)
	require.Equal(t, []string{"fresh"}, retagged.Tags)
}

func TestServiceUpdateUnknownID(t *testing.T) {
	svc := newTestService(&fakeRepository{}, nil, nil)
	_, err := svc.Update(context.Background(), "missing", EntryInput{Question: "q", Answer: "a"})
	require.True(t, apperrors.IsCode(err, "not_found"))
}

func TestServiceGetAndDelete(t *testing.T) {
	repo := &fakeRepository{}
	svc := newTestService(repo, nil, nil)
	created, err := svc.Create(context.Background(), EntryInput{Question: "q?", Answer: "a"})
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, created, got)

	require.NoError(t, svc.Delete(context.Background(), created.ID))
	_, err = svc.Get(context.Background(), created.ID)
	require.True(t, apperrors.IsCode(err, "not_found"))
	require.True(t, apperrors.IsCode(svc.Delete(context.Background(), created.ID), "not_found"))
}

func TestServiceSaveFailure(t *testing.T) {
	svc := newTestService(&fakeRepository{saveErr: errors.New("read only")}, nil, nil)
	_, err := svc.Create(context.Background(), EntryInput{Question: "q", Answer: "a"})
	require.True(t, apperrors.IsCode(err, "storage_error"))
}

func TestServiceAnswerSeesUpdatedKnowledgeBase(t *testing.T) {
	repo := &fakeRepository{}
	svc := newTestService(repo, nil, nil)

	resp, err := svc.Answer(context.Background(), Request{Question: "Is there a mobile app?"})
	require.NoError(t, err)
	require.False(t, resp.HasAnswer)

	created, err := svc.Create(context.Background(), EntryInput{Question: "Is there a mobile app?", Answer: "Yes, on both stores."})
	require.NoError(t, err)

	resp, err = svc.Answer(context.Background(), Request{Question: "Is there a mobile app?"})
	require.NoError(t, err)
	require.True(t, resp.HasAnswer)
	require.Equal(t, created.ID, resp.SourceFAQID)
}

func TestServiceTrendingWithoutStore(t *testing.T) {
	svc := newTestService(&fakeRepository{}, nil, nil)
	recs, err := svc.Trending(context.Background())
	require.NoError(t, err)
	require.Empty(t, recs)
}
