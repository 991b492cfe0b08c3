package faqrepo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/smartfaq/internal/domain/faq"
)

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS faq_entries (
		id         TEXT PRIMARY KEY,
		position   INTEGER NOT NULL,
		question   TEXT NOT NULL,
		answer     TEXT NOT NULL,
		tags       TEXT[] NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)
`

var faqColumns = []string{"id", "position", "question", "answer", "tags", "created_at", "updated_at"}

// PostgresRepository implements faq.Repository using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// EnsureSchema creates the faq_entries table when missing.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("create faq_entries: %w", err)
	}
	return nil
}

// List returns the entries in insertion order.
func (r *PostgresRepository) List(ctx context.Context) ([]faq.Entry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, question, answer, tags, created_at, updated_at
		FROM faq_entries
		ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]faq.Entry, 0)
	for rows.Next() {
		var entry faq.Entry
		if err := rows.Scan(&entry.ID, &entry.Question, &entry.Answer, &entry.Tags, &entry.CreatedAt, &entry.UpdatedAt); err != nil {
			return nil, err
		}
		if entry.Tags == nil {
			entry.Tags = []string{}
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Save replaces the table content with entries in a single transaction.
func (r *PostgresRepository) Save(ctx context.Context, entries []faq.Entry) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM faq_entries`); err != nil {
		return err
	}
	rows := make([][]any, len(entries))
	for i, entry := range entries {
		tags := entry.Tags
		if tags == nil {
			tags = []string{}
		}
		rows[i] = []any{entry.ID, i, entry.Question, entry.Answer, tags, entry.CreatedAt, entry.UpdatedAt}
	}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"faq_entries"}, faqColumns, pgx.CopyFromRows(rows)); err != nil {
		return fmt.Errorf("copy faq_entries: %w", err)
	}
	return tx.Commit(ctx)
}

var _ faq.Repository = (*PostgresRepository)(nil)
