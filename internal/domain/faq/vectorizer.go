package faq

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// sparseVector holds the non-zero weights of a vector ordered by index, so
// dot products are summed in a deterministic order.
type sparseVector struct {
	idx []int
	val []float64
}

// Vectorizer is a TF-IDF model fitted on a fixed corpus.
// It uses raw term counts, smoothed IDF and L2 normalisation.
type Vectorizer struct {
	vocabulary map[string]int
	idf        []float64
}

// FitVectorizer builds the vocabulary and IDF values from the corpus.
func FitVectorizer(corpus []string) *Vectorizer {
	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range tokenize(text) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	// stable ordering for the vocabulary
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	v := &Vectorizer{
		vocabulary: make(map[string]int, len(terms)),
		idf:        make([]float64, len(terms)),
	}
	n := float64(len(corpus))
	for i, term := range terms {
		v.vocabulary[term] = i
		v.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
	return v
}

// Dimension returns the vocabulary size.
func (v *Vectorizer) Dimension() int { return len(v.idf) }

// Transform projects text into the fitted vector space. Terms outside the
// vocabulary are ignored.
func (v *Vectorizer) Transform(text string) sparseVector {
	counts := make(map[int]float64)
	for _, tok := range tokenize(text) {
		if idx, ok := v.vocabulary[tok]; ok {
			counts[idx]++
		}
	}
	vec := sparseVector{
		idx: make([]int, 0, len(counts)),
		val: make([]float64, 0, len(counts)),
	}
	for idx := range counts {
		vec.idx = append(vec.idx, idx)
	}
	sort.Ints(vec.idx)
	var norm float64
	for _, idx := range vec.idx {
		w := counts[idx] * v.idf[idx]
		vec.val = append(vec.val, w)
		norm += w * w
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec.val {
			vec.val[i] /= norm
		}
	}
	return vec
}

func tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

func (a sparseVector) empty() bool { return len(a.idx) == 0 }

func (a sparseVector) dot(b sparseVector) float64 {
	var (
		sum  float64
		i, j int
	)
	for i < len(a.idx) && j < len(b.idx) {
		switch {
		case a.idx[i] == b.idx[j]:
			sum += a.val[i] * b.val[j]
			i++
			j++
		case a.idx[i] < b.idx[j]:
			i++
		default:
			j++
		}
	}
	return sum
}
