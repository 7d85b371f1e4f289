package storage

import (
	"context"
	"fmt"
)

type EnergyRepo struct {
	db DBTX
}

func NewEnergyRepo(db DBTX) *EnergyRepo {
	return &EnergyRepo{db: db}
}

func (r *EnergyRepo) Insert(ctx context.Context, e EnergyLog) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO energy_logs (profile_key, level, mood, activity, sleep_hours, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, e.ProfileKey, e.Level, e.Mood, e.Activity, e.SleepHours, e.Notes, FormatTime(e.CreatedAt))
	if err != nil {
		return 0, fmt.Errorf("energy insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("energy last insert id: %w", err)
	}
	return id, nil
}

// Latest returns the most recently recorded energy log, or nil.
func (r *EnergyRepo) Latest(ctx context.Context, profileKey string) (*EnergyLog, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, profile_key, level, mood, activity, sleep_hours, notes, created_at
		FROM energy_logs
		WHERE profile_key = ?
		ORDER BY id DESC
		LIMIT 1
	`, profileKey)
	var (
		e         EnergyLog
		createdAt string
	)
	if err := row.Scan(&e.ID, &e.ProfileKey, &e.Level, &e.Mood, &e.Activity, &e.SleepHours, &e.Notes, &createdAt); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("energy latest: %w", err)
	}
	t, err := parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("energy latest: %w", err)
	}
	e.CreatedAt = t
	return &e, nil
}

type SleepRepo struct {
	db DBTX
}

func NewSleepRepo(db DBTX) *SleepRepo {
	return &SleepRepo{db: db}
}

func (r *SleepRepo) Insert(ctx context.Context, s SleepLog) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO sleep_logs (profile_key, date, bedtime, waketime, duration, quality, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, s.ProfileKey, s.Date, s.Bedtime, s.Waketime, s.Duration, s.Quality, s.Notes, FormatTime(s.CreatedAt))
	if err != nil {
		return 0, fmt.Errorf("sleep insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("sleep last insert id: %w", err)
	}
	return id, nil
}

func (r *SleepRepo) Recent(ctx context.Context, profileKey string, limit int) ([]SleepLog, error) {
	if limit <= 0 {
		limit = 7
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, profile_key, date, bedtime, waketime, duration, quality, notes, created_at
		FROM sleep_logs
		WHERE profile_key = ?
		ORDER BY date DESC, id DESC
		LIMIT ?
	`, profileKey, limit)
	if err != nil {
		return nil, fmt.Errorf("sleep list: %w", err)
	}
	defer rows.Close()

	var out []SleepLog
	for rows.Next() {
		var (
			s         SleepLog
			createdAt string
		)
		if err := rows.Scan(&s.ID, &s.ProfileKey, &s.Date, &s.Bedtime, &s.Waketime, &s.Duration, &s.Quality, &s.Notes, &createdAt); err != nil {
			return nil, fmt.Errorf("sleep scan: %w", err)
		}
		if s.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("sleep scan: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sleep rows: %w", err)
	}
	return out, nil
}
