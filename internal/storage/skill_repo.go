package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type SkillRepo struct {
	db DBTX
}

func NewSkillRepo(db DBTX) *SkillRepo {
	return &SkillRepo{db: db}
}

func (r *SkillRepo) Get(ctx context.Context, profileKey, key string) (*Skill, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT profile_key, skill, xp, level
		FROM skills
		WHERE profile_key = ? AND skill = ?
	`, profileKey, key)
	var s Skill
	if err := row.Scan(&s.ProfileKey, &s.Key, &s.XP, &s.Level); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("skill get: %w", err)
	}
	return &s, nil
}

// List returns the profile's skills in their seeded order.
func (r *SkillRepo) List(ctx context.Context, profileKey string) ([]Skill, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT profile_key, skill, xp, level
		FROM skills
		WHERE profile_key = ?
		ORDER BY position ASC, skill ASC
	`, profileKey)
	if err != nil {
		return nil, fmt.Errorf("skill list: %w", err)
	}
	defer rows.Close()

	var out []Skill
	for rows.Next() {
		var s Skill
		if err := rows.Scan(&s.ProfileKey, &s.Key, &s.XP, &s.Level); err != nil {
			return nil, fmt.Errorf("skill scan: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("skill rows: %w", err)
	}
	return out, nil
}

// Seed inserts the skill if it does not exist yet; existing rows are left untouched.
func (r *SkillRepo) Seed(ctx context.Context, profileKey, key string, position int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO skills (profile_key, skill, xp, level, position) VALUES (?, ?, 0, 1, ?)
		ON CONFLICT(profile_key, skill) DO NOTHING
	`, profileKey, key, position)
	if err != nil {
		return fmt.Errorf("skill seed: %w", err)
	}
	return nil
}

func (r *SkillRepo) Update(ctx context.Context, s *Skill) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE skills SET xp = ?, level = ? WHERE profile_key = ? AND skill = ?
	`, s.XP, s.Level, s.ProfileKey, s.Key)
	if err != nil {
		return fmt.Errorf("skill update: %w", err)
	}
	return nil
}
