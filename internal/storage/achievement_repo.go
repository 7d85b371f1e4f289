package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type AchievementRepo struct {
	db DBTX
}

func NewAchievementRepo(db DBTX) *AchievementRepo {
	return &AchievementRepo{db: db}
}

// Seed inserts a locked achievement if it does not exist yet.
func (r *AchievementRepo) Seed(ctx context.Context, profileKey, key string, position int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO achievements (profile_key, achievement, unlocked, position) VALUES (?, ?, 0, ?)
		ON CONFLICT(profile_key, achievement) DO NOTHING
	`, profileKey, key, position)
	if err != nil {
		return fmt.Errorf("achievement seed: %w", err)
	}
	return nil
}

func (r *AchievementRepo) List(ctx context.Context, profileKey string) ([]Achievement, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT profile_key, achievement, unlocked, unlocked_at
		FROM achievements
		WHERE profile_key = ?
		ORDER BY position ASC, achievement ASC
	`, profileKey)
	if err != nil {
		return nil, fmt.Errorf("achievement list: %w", err)
	}
	defer rows.Close()

	var out []Achievement
	for rows.Next() {
		var (
			a          Achievement
			unlocked   int
			unlockedAt sql.NullString
		)
		if err := rows.Scan(&a.ProfileKey, &a.Key, &unlocked, &unlockedAt); err != nil {
			return nil, fmt.Errorf("achievement scan: %w", err)
		}
		a.Unlocked = unlocked != 0
		if unlockedAt.Valid {
			t, err := parseTime(unlockedAt.String)
			if err != nil {
				return nil, fmt.Errorf("achievement scan: %w", err)
			}
			a.UnlockedAt = &t
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("achievement rows: %w", err)
	}
	return out, nil
}

// Unlock flips a locked achievement to unlocked and stamps it. It reports
// false when the achievement is missing or already unlocked, so the stamp is
// written at most once.
func (r *AchievementRepo) Unlock(ctx context.Context, profileKey, key string, at time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE achievements
		SET unlocked = 1, unlocked_at = ?
		WHERE profile_key = ? AND achievement = ? AND unlocked = 0
	`, FormatTime(at), profileKey, key)
	if err != nil {
		return false, fmt.Errorf("achievement unlock: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("achievement unlock rows: %w", err)
	}
	return n == 1, nil
}
