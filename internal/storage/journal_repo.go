package storage

import (
	"context"
	"fmt"
)

type JournalRepo struct {
	db DBTX
}

func NewJournalRepo(db DBTX) *JournalRepo {
	return &JournalRepo{db: db}
}

func (r *JournalRepo) Insert(ctx context.Context, e JournalEntry) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO journal_entries (profile_key, content, mood, tags, created_at) VALUES (?, ?, ?, ?, ?)
	`, e.ProfileKey, e.Content, e.Mood, e.Tags, FormatTime(e.CreatedAt))
	if err != nil {
		return 0, fmt.Errorf("journal insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("journal last insert id: %w", err)
	}
	return id, nil
}

func (r *JournalRepo) Count(ctx context.Context, profileKey string) (int, error) {
	row := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM journal_entries WHERE profile_key = ?`, profileKey)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("journal count: %w", err)
	}
	return n, nil
}

func (r *JournalRepo) Recent(ctx context.Context, profileKey string, limit int) ([]JournalEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, profile_key, content, mood, tags, created_at
		FROM journal_entries
		WHERE profile_key = ?
		ORDER BY id DESC
		LIMIT ?
	`, profileKey, limit)
	if err != nil {
		return nil, fmt.Errorf("journal list: %w", err)
	}
	defer rows.Close()

	var out []JournalEntry
	for rows.Next() {
		var (
			e         JournalEntry
			createdAt string
		)
		if err := rows.Scan(&e.ID, &e.ProfileKey, &e.Content, &e.Mood, &e.Tags, &createdAt); err != nil {
			return nil, fmt.Errorf("journal scan: %w", err)
		}
		if e.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("journal scan: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("journal rows: %w", err)
	}
	return out, nil
}
