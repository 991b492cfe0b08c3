package faqrepo

import (
	"context"
	"fmt"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/smartfaq/internal/domain/faq"
)

// ValkeyRepository stores the whole knowledge base as one JSON document.
type ValkeyRepository struct {
	client valkey.Client
	prefix string
}

// NewValkeyRepository constructs the repository.
func NewValkeyRepository(client valkey.Client, prefix string) *ValkeyRepository {
	if prefix == "" {
		prefix = "faq"
	}
	return &ValkeyRepository{client: client, prefix: prefix}
}

// List implements faq.Repository. A missing key yields an empty knowledge base.
func (r *ValkeyRepository) List(ctx context.Context) ([]faq.Entry, error) {
	payload, err := r.client.Do(ctx, r.client.B().Get().Key(r.entriesKey()).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return []faq.Entry{}, nil
		}
		return nil, err
	}
	return decodeEntries([]byte(payload))
}

// Save implements faq.Repository.
func (r *ValkeyRepository) Save(ctx context.Context, entries []faq.Entry) error {
	payload, err := encodeEntries(entries)
	if err != nil {
		return err
	}
	return r.client.Do(ctx, r.client.B().Set().Key(r.entriesKey()).Value(string(payload)).Build()).Error()
}

func (r *ValkeyRepository) entriesKey() string {
	return fmt.Sprintf("%s:entries", r.prefix)
}

var _ faq.Repository = (*ValkeyRepository)(nil)
