package faq

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

const contextHeader = "Here are the FAQs:"

// WordCounter is an upper biased token estimate used when no tokenizer is
// available.
type WordCounter struct{}

// Count implements TokenCounter.
func (WordCounter) Count(text string) int {
	if text == "" {
		return 0
	}
	words := len(strings.Fields(text))
	byRunes := (utf8.RuneCountInString(text) + 1) / 2
	if byRunes < words {
		return words
	}
	return byRunes
}

// selectContext picks the entries passed to the generator. Entries are
// ranked by score, keeping insertion order on ties, and added while they fit
// within budget tokens. A non-positive budget keeps every entry in its
// original order.
func selectContext(entries []Entry, scores []float64, tokens TokenCounter, budget int) []Entry {
	if budget <= 0 {
		return entries
	}
	order := make([]int, len(entries))
	for i := range order {
		order[i] = i
	}
	if len(scores) == len(entries) {
		sort.SliceStable(order, func(a, b int) bool {
			return scores[order[a]] > scores[order[b]]
		})
	}

	used := 0
	selected := make([]Entry, 0, len(entries))
	for _, row := range order {
		cost := tokens.Count(formatEntry(entries[row]))
		if used+cost > budget {
			continue
		}
		used += cost
		selected = append(selected, entries[row])
	}
	return selected
}

func buildSystemPrompt(prompt string, entries []Entry) string {
	blocks := make([]string, len(entries))
	for i, entry := range entries {
		blocks[i] = formatEntry(entry)
	}
	return fmt.Sprintf("%s %s\n\n%s", strings.TrimSpace(prompt), contextHeader, strings.Join(blocks, "\n\n"))
}

func formatEntry(entry Entry) string {
	return "Question: " + entry.Question + "\nAnswer: " + entry.Answer
}
