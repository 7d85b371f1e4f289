package storage

import (
	"context"
	"fmt"
	"time"
)

// XPLogRepo only appends and reads; XP history is never rewritten.
type XPLogRepo struct {
	db DBTX
}

func NewXPLogRepo(db DBTX) *XPLogRepo {
	return &XPLogRepo{db: db}
}

func (r *XPLogRepo) Insert(ctx context.Context, l XPLog) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO xp_logs (profile_key, amount, source, skill, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, l.ProfileKey, l.Amount, l.Source, l.Skill, FormatTime(l.CreatedAt))
	if err != nil {
		return 0, fmt.Errorf("xp log insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("xp log last insert id: %w", err)
	}
	return id, nil
}

// Recent returns the newest entries first.
func (r *XPLogRepo) Recent(ctx context.Context, profileKey string, limit int) ([]XPLog, error) {
	if limit <= 0 {
		limit = 10
	}
	return r.query(ctx, `
		SELECT id, profile_key, amount, source, skill, created_at
		FROM xp_logs
		WHERE profile_key = ?
		ORDER BY id DESC
		LIMIT ?
	`, profileKey, limit)
}

// Between returns entries created in [from, to), oldest first.
func (r *XPLogRepo) Between(ctx context.Context, profileKey string, from, to time.Time) ([]XPLog, error) {
	return r.query(ctx, `
		SELECT id, profile_key, amount, source, skill, created_at
		FROM xp_logs
		WHERE profile_key = ? AND created_at >= ? AND created_at < ?
		ORDER BY created_at ASC, id ASC
	`, profileKey, FormatTime(from), FormatTime(to))
}

func (r *XPLogRepo) query(ctx context.Context, q string, args ...any) ([]XPLog, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("xp log list: %w", err)
	}
	defer rows.Close()

	var out []XPLog
	for rows.Next() {
		var (
			l         XPLog
			createdAt string
		)
		if err := rows.Scan(&l.ID, &l.ProfileKey, &l.Amount, &l.Source, &l.Skill, &createdAt); err != nil {
			return nil, fmt.Errorf("xp log scan: %w", err)
		}
		if l.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("xp log scan: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("xp log rows: %w", err)
	}
	return out, nil
}
