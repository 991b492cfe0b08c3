package faq

import "context"

// Repository is the knowledge base collaborator. It owns durable storage
// and hands out ordered snapshots of the entries.
type Repository interface {
	List(ctx context.Context) ([]Entry, error)
	Save(ctx context.Context, entries []Entry) error
}

// Watcher is implemented by repositories that observe changes made outside
// the process. Watch blocks until ctx is done.
type Watcher interface {
	Watch(ctx context.Context) error
}
