package faqrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/yanqian/smartfaq/internal/domain/faq"
)

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS faq_entries (
		id         TEXT PRIMARY KEY,
		position   INTEGER NOT NULL,
		question   TEXT NOT NULL,
		answer     TEXT NOT NULL,
		tags       TEXT NOT NULL DEFAULT '[]',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)
`

type sqliteRow struct {
	ID        string    `db:"id"`
	Position  int       `db:"position"`
	Question  string    `db:"question"`
	Answer    string    `db:"answer"`
	Tags      string    `db:"tags"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// SQLiteRepository implements faq.Repository on a local SQLite database.
type SQLiteRepository struct {
	db *sqlx.DB
}

// NewSQLiteRepository opens the database and creates the schema.
func NewSQLiteRepository(path string) (*SQLiteRepository, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one writer at a time keeps SQLite from reporting busy errors
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create faq_entries: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

// List implements faq.Repository.
func (r *SQLiteRepository) List(ctx context.Context) ([]faq.Entry, error) {
	var rows []sqliteRow
	if err := r.db.SelectContext(ctx, &rows, `
		SELECT id, position, question, answer, tags, created_at, updated_at
		FROM faq_entries
		ORDER BY position
	`); err != nil {
		return nil, err
	}
	entries := make([]faq.Entry, 0, len(rows))
	for _, row := range rows {
		tags := []string{}
		if row.Tags != "" {
			if err := json.Unmarshal([]byte(row.Tags), &tags); err != nil {
				return nil, fmt.Errorf("decode tags for %s: %w", row.ID, err)
			}
		}
		entries = append(entries, faq.Entry{
			ID:        row.ID,
			Question:  row.Question,
			Answer:    row.Answer,
			Tags:      tags,
			CreatedAt: row.CreatedAt.UTC(),
			UpdatedAt: row.UpdatedAt.UTC(),
		})
	}
	return entries, nil
}

// Save implements faq.Repository.
func (r *SQLiteRepository) Save(ctx context.Context, entries []faq.Entry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM faq_entries`); err != nil {
		return err
	}
	for i, entry := range entries {
		tags := entry.Tags
		if tags == nil {
			tags = []string{}
		}
		encoded, err := json.Marshal(tags)
		if err != nil {
			return err
		}
		row := sqliteRow{
			ID:        entry.ID,
			Position:  i,
			Question:  entry.Question,
			Answer:    entry.Answer,
			Tags:      string(encoded),
			CreatedAt: entry.CreatedAt,
			UpdatedAt: entry.UpdatedAt,
		}
		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO faq_entries (id, position, question, answer, tags, created_at, updated_at)
			VALUES (:id, :position, :question, :answer, :tags, :created_at, :updated_at)
		`, row); err != nil {
			return fmt.Errorf("insert faq %s: %w", entry.ID, err)
		}
	}
	return tx.Commit()
}

// Close releases the database handle.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

var _ faq.Repository = (*SQLiteRepository)(nil)
