package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const schemaVersion = 2

// Migrate brings the database up to schemaVersion. It is safe to run on every open.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("create version table: %w", err)
	}

	var ver int
	err := db.QueryRowContext(ctx, `SELECT version FROM schema_version LIMIT 1`).Scan(&ver)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		ver = 0
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	}

	steps := []func(context.Context, *sql.DB) error{migrateV1, migrateV2}
	for i := ver; i < len(steps); i++ {
		if err := steps[i](ctx, db); err != nil {
			return err
		}
	}
	if ver == schemaVersion {
		return nil
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM schema_version`); err != nil {
		return fmt.Errorf("reset version: %w", err)
	}
	if _, err := db.ExecContext(ctx, `INSERT INTO schema_version (version) VALUES (?)`, schemaVersion); err != nil {
		return fmt.Errorf("write version: %w", err)
	}
	return nil
}

func execAll(ctx context.Context, db *sql.DB, label string, stmts []string) error {
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate %s: %w", label, err)
		}
	}
	return nil
}

// migrateV1 creates the gamification collections.
func migrateV1(ctx context.Context, db *sql.DB) error {
	return execAll(ctx, db, "v1", []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			key TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			title TEXT NOT NULL,
			level INTEGER NOT NULL DEFAULT 1,
			total_xp INTEGER NOT NULL DEFAULT 0,
			character_class TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS skills (
			profile_key TEXT NOT NULL,
			skill TEXT NOT NULL,
			xp INTEGER NOT NULL DEFAULT 0,
			level INTEGER NOT NULL DEFAULT 1,
			position INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (profile_key, skill)
		);`,
		`CREATE TABLE IF NOT EXISTS achievements (
			profile_key TEXT NOT NULL,
			achievement TEXT NOT NULL,
			unlocked INTEGER NOT NULL DEFAULT 0,
			unlocked_at TEXT,
			position INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (profile_key, achievement)
		);`,
		`CREATE TABLE IF NOT EXISTS xp_logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			profile_key TEXT NOT NULL,
			amount INTEGER NOT NULL,
			source TEXT NOT NULL,
			skill TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS quests (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			profile_key TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			quest_type TEXT NOT NULL,
			xp_reward INTEGER NOT NULL DEFAULT 50,
			skill_target TEXT NOT NULL DEFAULT '',
			metric TEXT NOT NULL DEFAULT '',
			target_value INTEGER NOT NULL DEFAULT 1,
			current_value INTEGER NOT NULL DEFAULT 0,
			completed INTEGER NOT NULL DEFAULT 0,
			expires_at TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS habits (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			profile_key TEXT NOT NULL,
			name TEXT NOT NULL,
			icon TEXT NOT NULL DEFAULT '',
			frequency TEXT NOT NULL DEFAULT 'daily',
			streak INTEGER NOT NULL DEFAULT 0,
			best_streak INTEGER NOT NULL DEFAULT 0,
			skill_target TEXT NOT NULL DEFAULT 'discipline',
			xp_reward INTEGER NOT NULL DEFAULT 10,
			created_at TEXT NOT NULL
		);`,
		// One log per habit per calendar date.
		`CREATE TABLE IF NOT EXISTS habit_logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			habit_id INTEGER NOT NULL,
			completed_on TEXT NOT NULL,
			FOREIGN KEY(habit_id) REFERENCES habits(id) ON DELETE CASCADE,
			UNIQUE (habit_id, completed_on)
		);`,
		`CREATE TABLE IF NOT EXISTS journal_entries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			profile_key TEXT NOT NULL,
			content TEXT NOT NULL,
			mood TEXT NOT NULL DEFAULT '',
			tags TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_xp_logs_profile_created ON xp_logs(profile_key, created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_quests_profile_type_created ON quests(profile_key, quest_type, created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_habits_profile ON habits(profile_key);`,
		`CREATE INDEX IF NOT EXISTS idx_journal_profile ON journal_entries(profile_key);`,
	})
}

// migrateV2 adds the wellbeing and project collections.
func migrateV2(ctx context.Context, db *sql.DB) error {
	return execAll(ctx, db, "v2", []string{
		`CREATE TABLE IF NOT EXISTS energy_logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			profile_key TEXT NOT NULL,
			level INTEGER NOT NULL,
			mood TEXT NOT NULL DEFAULT '',
			activity TEXT NOT NULL DEFAULT '',
			sleep_hours REAL NOT NULL DEFAULT 0,
			notes TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS sleep_logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			profile_key TEXT NOT NULL,
			date TEXT NOT NULL,
			bedtime TEXT NOT NULL,
			waketime TEXT NOT NULL,
			duration REAL NOT NULL,
			quality INTEGER NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS projects (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			profile_key TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'idea',
			priority INTEGER NOT NULL DEFAULT 5,
			category TEXT NOT NULL DEFAULT 'general',
			created_at TEXT NOT NULL,
			completed_at TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_energy_profile_created ON energy_logs(profile_key, created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_sleep_profile_date ON sleep_logs(profile_key, date);`,
		`CREATE INDEX IF NOT EXISTS idx_projects_profile_status ON projects(profile_key, status);`,
	})
}
