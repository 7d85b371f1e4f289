package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DefaultDBPath returns the default Aura database location.
func DefaultDBPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(homeDir, ".aura", "aura.db"), nil
}

// OpenSQLite opens (and creates if missing) the SQLite database at the provided path.
// The pool is pinned to one connection: every engine write goes through a single
// transaction at a time anyway.
func OpenSQLite(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir %s: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}

// Open opens the database at path and migrates it to the current schema.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewStore(db), nil
}

// Store is the record store behind the engine. Reads go through Repos; every
// read-modify-write goes through WithTx.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Close() error {
	return s.db.Close()
}

// Repos returns repositories bound to the database handle itself (no transaction).
func (s *Store) Repos() *Repos {
	return newRepos(s.db)
}

// WithTx runs fn with repositories bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
func (s *Store) WithTx(ctx context.Context, fn func(r *Repos) error) error {
	return inTx(ctx, s.db, fn)
}

// Repos groups every collection of the record store behind one handle.
type Repos struct {
	Profiles     *ProfileRepo
	Skills       *SkillRepo
	Achievements *AchievementRepo
	XPLogs       *XPLogRepo
	Quests       *QuestRepo
	Habits       *HabitRepo
	HabitLogs    *HabitLogRepo
	Journal      *JournalRepo
	Energy       *EnergyRepo
	Sleep        *SleepRepo
	Projects     *ProjectRepo
}

func newRepos(db DBTX) *Repos {
	return &Repos{
		Profiles:     NewProfileRepo(db),
		Skills:       NewSkillRepo(db),
		Achievements: NewAchievementRepo(db),
		XPLogs:       NewXPLogRepo(db),
		Quests:       NewQuestRepo(db),
		Habits:       NewHabitRepo(db),
		HabitLogs:    NewHabitLogRepo(db),
		Journal:      NewJournalRepo(db),
		Energy:       NewEnergyRepo(db),
		Sleep:        NewSleepRepo(db),
		Projects:     NewProjectRepo(db),
	}
}
