package storage

import (
	"context"
	"database/sql"
	"fmt"
)

type HabitRepo struct {
	db DBTX
}

func NewHabitRepo(db DBTX) *HabitRepo {
	return &HabitRepo{db: db}
}

const habitColumns = `id, profile_key, name, icon, frequency, streak, best_streak, skill_target, xp_reward, created_at`

func (r *HabitRepo) Insert(ctx context.Context, h Habit) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO habits (profile_key, name, icon, frequency, streak, best_streak, skill_target, xp_reward, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, h.ProfileKey, h.Name, h.Icon, h.Frequency, h.Streak, h.BestStreak, h.SkillTarget, h.XPReward, FormatTime(h.CreatedAt))
	if err != nil {
		return 0, fmt.Errorf("habit insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("habit last insert id: %w", err)
	}
	return id, nil
}

func (r *HabitRepo) Get(ctx context.Context, profileKey string, id int64) (*Habit, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+habitColumns+` FROM habits WHERE profile_key = ? AND id = ?`, profileKey, id)
	return scanHabitRow(row)
}

func (r *HabitRepo) List(ctx context.Context, profileKey string) ([]Habit, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+habitColumns+` FROM habits WHERE profile_key = ? ORDER BY id ASC`, profileKey)
	if err != nil {
		return nil, fmt.Errorf("habit list: %w", err)
	}
	defer rows.Close()

	var out []Habit
	for rows.Next() {
		h, err := scanHabitRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("habit rows: %w", err)
	}
	return out, nil
}

func (r *HabitRepo) UpdateStreak(ctx context.Context, id int64, streak, bestStreak int) error {
	_, err := r.db.ExecContext(ctx, `UPDATE habits SET streak = ?, best_streak = ? WHERE id = ?`, streak, bestStreak, id)
	if err != nil {
		return fmt.Errorf("habit update streak: %w", err)
	}
	return nil
}

// Delete removes the habit and its completion logs.
func (r *HabitRepo) Delete(ctx context.Context, profileKey string, id int64) (bool, error) {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM habit_logs WHERE habit_id IN (SELECT id FROM habits WHERE profile_key = ? AND id = ?)`, profileKey, id); err != nil {
		return false, fmt.Errorf("habit delete logs: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM habits WHERE profile_key = ? AND id = ?`, profileKey, id)
	if err != nil {
		return false, fmt.Errorf("habit delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("habit delete rows: %w", err)
	}
	return n > 0, nil
}

func scanHabitRow(row scanner) (*Habit, error) {
	var (
		h         Habit
		createdAt string
	)
	if err := row.Scan(&h.ID, &h.ProfileKey, &h.Name, &h.Icon, &h.Frequency, &h.Streak, &h.BestStreak, &h.SkillTarget, &h.XPReward, &createdAt); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("habit scan: %w", err)
	}
	t, err := parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("habit scan: %w", err)
	}
	h.CreatedAt = t
	return &h, nil
}

type HabitLogRepo struct {
	db DBTX
}

func NewHabitLogRepo(db DBTX) *HabitLogRepo {
	return &HabitLogRepo{db: db}
}

func (r *HabitLogRepo) Insert(ctx context.Context, habitID int64, completedOn string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO habit_logs (habit_id, completed_on) VALUES (?, ?)`, habitID, completedOn)
	if err != nil {
		return 0, fmt.Errorf("habit log insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("habit log last insert id: %w", err)
	}
	return id, nil
}

func (r *HabitLogRepo) Exists(ctx context.Context, habitID int64, completedOn string) (bool, error) {
	row := r.db.QueryRowContext(ctx, `SELECT 1 FROM habit_logs WHERE habit_id = ? AND completed_on = ? LIMIT 1`, habitID, completedOn)
	var one int
	if err := row.Scan(&one); err != nil {
		if isNoRows(err) {
			return false, nil
		}
		return false, fmt.Errorf("habit log exists: %w", err)
	}
	return true, nil
}

// LastBefore returns the most recent log strictly before completedOn, or nil.
func (r *HabitLogRepo) LastBefore(ctx context.Context, habitID int64, completedOn string) (*HabitLog, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, habit_id, completed_on
		FROM habit_logs
		WHERE habit_id = ? AND completed_on < ?
		ORDER BY completed_on DESC
		LIMIT 1
	`, habitID, completedOn)
	var l HabitLog
	if err := row.Scan(&l.ID, &l.HabitID, &l.CompletedOn); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("habit log last: %w", err)
	}
	return &l, nil
}

// CompletedOn returns the set of the profile's habit ids that have a log on the given date.
func (r *HabitLogRepo) CompletedOn(ctx context.Context, profileKey, completedOn string) (map[int64]bool, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT l.habit_id
		FROM habit_logs l
		JOIN habits h ON h.id = l.habit_id
		WHERE h.profile_key = ? AND l.completed_on = ?
	`, profileKey, completedOn)
	if err != nil {
		return nil, fmt.Errorf("habit log completed on: %w", err)
	}
	defer rows.Close()

	out := map[int64]bool{}
	for rows.Next() {
		var id sql.NullInt64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("habit log scan: %w", err)
		}
		if id.Valid {
			out[id.Int64] = true
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("habit log rows: %w", err)
	}
	return out, nil
}

func (r *HabitLogRepo) Count(ctx context.Context, profileKey string) (int, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM habit_logs l JOIN habits h ON h.id = l.habit_id WHERE h.profile_key = ?
	`, profileKey)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("habit log count: %w", err)
	}
	return n, nil
}
