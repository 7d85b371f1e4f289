package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type ProfileRepo struct {
	db DBTX
}

func NewProfileRepo(db DBTX) *ProfileRepo {
	return &ProfileRepo{db: db}
}

func (r *ProfileRepo) Get(ctx context.Context, key string) (*Profile, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT key, name, title, level, total_xp, character_class, created_at
		FROM profiles
		WHERE key = ?
	`, key)

	var (
		p         Profile
		createdAt string
	)
	if err := row.Scan(&p.Key, &p.Name, &p.Title, &p.Level, &p.TotalXP, &p.CharacterClass, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("profile get: %w", err)
	}
	t, err := parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("profile get: %w", err)
	}
	p.CreatedAt = t
	return &p, nil
}

func (r *ProfileRepo) Insert(ctx context.Context, p Profile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (key, name, title, level, total_xp, character_class, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, p.Key, p.Name, p.Title, p.Level, p.TotalXP, p.CharacterClass, FormatTime(p.CreatedAt))
	if err != nil {
		return fmt.Errorf("profile insert: %w", err)
	}
	return nil
}

func (r *ProfileRepo) Update(ctx context.Context, p *Profile) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE profiles
		SET name = ?, title = ?, level = ?, total_xp = ?, character_class = ?
		WHERE key = ?
	`, p.Name, p.Title, p.Level, p.TotalXP, p.CharacterClass, p.Key)
	if err != nil {
		return fmt.Errorf("profile update: %w", err)
	}
	return nil
}
