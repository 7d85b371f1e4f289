package storage

import (
	"context"
	"fmt"
	"time"
)

type QuestRepo struct {
	db DBTX
}

func NewQuestRepo(db DBTX) *QuestRepo {
	return &QuestRepo{db: db}
}

const questColumns = `id, profile_key, title, description, quest_type, xp_reward, skill_target, metric,
	target_value, current_value, completed, expires_at, created_at`

func (r *QuestRepo) Insert(ctx context.Context, q Quest) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO quests (
			profile_key, title, description, quest_type, xp_reward, skill_target, metric,
			target_value, current_value, completed, expires_at, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, q.ProfileKey, q.Title, q.Description, q.QuestType, q.XPReward, q.SkillTarget, q.Metric,
		q.TargetValue, q.CurrentValue, boolToInt(q.Completed), FormatTime(q.ExpiresAt), FormatTime(q.CreatedAt))
	if err != nil {
		return 0, fmt.Errorf("quest insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("quest last insert id: %w", err)
	}
	return id, nil
}

func (r *QuestRepo) Get(ctx context.Context, profileKey string, id int64) (*Quest, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+questColumns+` FROM quests WHERE profile_key = ? AND id = ?`, profileKey, id)
	return scanQuestRow(row)
}

// CountCreatedBetween counts quests of questType created in [from, to).
func (r *QuestRepo) CountCreatedBetween(ctx context.Context, profileKey, questType string, from, to time.Time) (int, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM quests
		WHERE profile_key = ? AND quest_type = ? AND created_at >= ? AND created_at < ?
	`, profileKey, questType, FormatTime(from), FormatTime(to))
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("quest count: %w", err)
	}
	return n, nil
}

// ListCreatedBetween lists quests of questType created in [from, to), oldest first.
func (r *QuestRepo) ListCreatedBetween(ctx context.Context, profileKey, questType string, from, to time.Time) ([]Quest, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+questColumns+`
		FROM quests
		WHERE profile_key = ? AND quest_type = ? AND created_at >= ? AND created_at < ?
		ORDER BY created_at ASC, id ASC
	`, profileKey, questType, FormatTime(from), FormatTime(to))
	if err != nil {
		return nil, fmt.Errorf("quest list: %w", err)
	}
	defer rows.Close()

	var out []Quest
	for rows.Next() {
		q, err := scanQuestRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("quest rows: %w", err)
	}
	return out, nil
}

// MarkCompleted performs the one-way false -> true transition. It reports
// whether this call made the change.
func (r *QuestRepo) MarkCompleted(ctx context.Context, profileKey string, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE quests SET completed = 1 WHERE profile_key = ? AND id = ? AND completed = 0
	`, profileKey, id)
	if err != nil {
		return false, fmt.Errorf("quest complete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("quest complete rows: %w", err)
	}
	return n == 1, nil
}

// Advance adds delta to the progress of every open, unexpired quest tracking
// metric, capped at its target. It returns the number of quests touched.
func (r *QuestRepo) Advance(ctx context.Context, profileKey, metric string, delta int, now time.Time) (int, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE quests
		SET current_value = MIN(target_value, current_value + ?)
		WHERE profile_key = ? AND metric = ? AND completed = 0
			AND created_at <= ? AND expires_at > ? AND current_value < target_value
	`, delta, profileKey, metric, FormatTime(now), FormatTime(now))
	if err != nil {
		return 0, fmt.Errorf("quest advance: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("quest advance rows: %w", err)
	}
	return int(n), nil
}

func (r *QuestRepo) CountCompleted(ctx context.Context, profileKey string) (int, error) {
	row := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM quests WHERE profile_key = ? AND completed = 1`, profileKey)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("quest completed count: %w", err)
	}
	return n, nil
}

func scanQuestRow(row scanner) (*Quest, error) {
	var (
		q         Quest
		completed int
		expiresAt string
		createdAt string
	)
	if err := row.Scan(
		&q.ID, &q.ProfileKey, &q.Title, &q.Description, &q.QuestType, &q.XPReward, &q.SkillTarget, &q.Metric,
		&q.TargetValue, &q.CurrentValue, &completed, &expiresAt, &createdAt,
	); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("quest scan: %w", err)
	}
	q.Completed = completed != 0

	var err error
	if q.ExpiresAt, err = parseTime(expiresAt); err != nil {
		return nil, fmt.Errorf("quest scan: %w", err)
	}
	if q.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("quest scan: %w", err)
	}
	return &q, nil
}
