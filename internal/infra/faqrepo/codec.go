package faqrepo

import (
	"encoding/json"
	"fmt"

	"github.com/yanqian/smartfaq/internal/domain/faq"
)

// document is the JSON layout shared by the blob based backends.
type document struct {
	Entries []faq.Entry `json:"faqs"`
}

func encodeEntries(entries []faq.Entry) ([]byte, error) {
	payload, err := json.MarshalIndent(document{Entries: cloneEntries(entries)}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode faqs: %w", err)
	}
	return payload, nil
}

func decodeEntries(payload []byte) ([]faq.Entry, error) {
	if len(payload) == 0 {
		return []faq.Entry{}, nil
	}
	var doc document
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("decode faqs: %w", err)
	}
	return cloneEntries(doc.Entries), nil
}
