package faq

import (
	"encoding/binary"
	"hash/fnv"
	"math"
	"sync"
	"sync/atomic"
)

const scorePrecision = 1e12

// Match is the best scoring row of a search.
type Match struct {
	EntryID string
	Row     int
	Score   float64
}

// indexState is an immutable fitted index for one knowledge base snapshot.
type indexState struct {
	fingerprint uint64
	vectorizer  *Vectorizer
	documents   []sparseVector
	questions   []sparseVector
	ids         []string
}

// Index holds the TF-IDF vectors of the knowledge base. States are swapped
// atomically, so a search never sees a half rebuilt index.
type Index struct {
	mu    sync.Mutex
	state atomic.Pointer[indexState]
}

// NewIndex returns an empty, not ready index.
func NewIndex() *Index {
	return &Index{}
}

// Rebuild refits the index on entries in their given order. An empty slice
// resets the index to not ready.
func (i *Index) Rebuild(entries []Entry) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.state.Store(buildState(entries, fingerprint(entries)))
}

// Ensure rebuilds the index only if entries differ from the indexed
// snapshot and returns the state matching entries.
func (i *Index) Ensure(entries []Entry) *indexState {
	fp := fingerprint(entries)
	if current := i.state.Load(); current != nil && current.fingerprint == fp {
		return current
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	if current := i.state.Load(); current != nil && current.fingerprint == fp {
		return current
	}
	next := buildState(entries, fp)
	i.state.Store(next)
	return next
}

// Ready reports whether the index holds at least one row.
func (i *Index) Ready() bool {
	return i.state.Load().ready()
}

// Search returns the best matching entry. The bool is false when the index
// is not ready, in which case the score is zero.
func (i *Index) Search(query string) (Match, bool) {
	return i.state.Load().search(query)
}

func buildState(entries []Entry, fp uint64) *indexState {
	if len(entries) == 0 {
		return &indexState{fingerprint: fp}
	}
	corpus := make([]string, len(entries))
	ids := make([]string, len(entries))
	for idx, entry := range entries {
		corpus[idx] = corpusDocument(entry)
		ids[idx] = entry.ID
	}
	vectorizer := FitVectorizer(corpus)
	state := &indexState{
		fingerprint: fp,
		vectorizer:  vectorizer,
		documents:   make([]sparseVector, len(entries)),
		questions:   make([]sparseVector, len(entries)),
		ids:         ids,
	}
	for idx, entry := range entries {
		state.documents[idx] = vectorizer.Transform(corpus[idx])
		state.questions[idx] = vectorizer.Transform(entry.Question)
	}
	return state
}

func corpusDocument(entry Entry) string {
	return entry.Question + " " + entry.Answer
}

func (s *indexState) ready() bool {
	return s != nil && len(s.ids) > 0
}

// scores returns the similarity of query to every row.
func (s *indexState) scores(query string) []float64 {
	if !s.ready() {
		return nil
	}
	q := s.vectorizer.Transform(query)
	out := make([]float64, len(s.ids))
	if q.empty() {
		return out
	}
	for row := range s.ids {
		score := math.Max(q.dot(s.documents[row]), q.dot(s.questions[row]))
		out[row] = clampScore(score)
	}
	return out
}

func (s *indexState) search(query string) (Match, bool) {
	scores := s.scores(query)
	if len(scores) == 0 {
		return Match{}, false
	}
	best := 0
	for row := 1; row < len(scores); row++ {
		// strict comparison keeps the earliest row on ties
		if scores[row] > scores[best] {
			best = row
		}
	}
	return Match{EntryID: s.ids[best], Row: best, Score: scores[best]}, true
}

func clampScore(score float64) float64 {
	score = math.Round(score*scorePrecision) / scorePrecision
	switch {
	case score < 0:
		return 0
	case score > 1:
		return 1
	default:
		return score
	}
}

// fingerprint identifies the content the index depends on.
func fingerprint(entries []Entry) uint64 {
	h := fnv.New64a()
	var length [8]byte
	write := func(s string) {
		binary.LittleEndian.PutUint64(length[:], uint64(len(s)))
		_, _ = h.Write(length[:])
		_, _ = h.Write([]byte(s))
	}
	for _, entry := range entries {
		write(entry.ID)
		write(entry.Question)
		write(entry.Answer)
	}
	return h.Sum64() ^ uint64(len(entries))
}
