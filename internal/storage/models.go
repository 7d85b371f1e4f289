package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Timestamps are stored as fixed-width UTC text so that string comparison in
// SQL matches chronological order. Calendar dates use DateLayout.
const (
	timeLayout = "2006-01-02 15:04:05.000000000"
	DateLayout = "2006-01-02"
)

type Profile struct {
	Key            string
	Name           string
	Title          string
	Level          int
	TotalXP        int
	CharacterClass string
	CreatedAt      time.Time
}

type Skill struct {
	ProfileKey string
	Key        string
	XP         int
	Level      int
}

type Achievement struct {
	ProfileKey string
	Key        string
	Unlocked   bool
	UnlockedAt *time.Time
}

// XPLog is append-only: there is no update or delete for it.
type XPLog struct {
	ID         int64
	ProfileKey string
	Amount     int
	Source     string
	Skill      string // empty when the award targeted no skill
	CreatedAt  time.Time
}

type Quest struct {
	ID           int64
	ProfileKey   string
	Title        string
	Description  string
	QuestType    string
	XPReward     int
	SkillTarget  string
	Metric       string
	TargetValue  int
	CurrentValue int
	Completed    bool
	ExpiresAt    time.Time
	CreatedAt    time.Time
}

type Habit struct {
	ID          int64
	ProfileKey  string
	Name        string
	Icon        string
	Frequency   string
	Streak      int
	BestStreak  int
	SkillTarget string
	XPReward    int
	CreatedAt   time.Time
}

type HabitLog struct {
	ID          int64
	HabitID     int64
	CompletedOn string // DateLayout
}

type JournalEntry struct {
	ID         int64
	ProfileKey string
	Content    string
	Mood       string
	Tags       string
	CreatedAt  time.Time
}

type EnergyLog struct {
	ID         int64
	ProfileKey string
	Level      int
	Mood       string
	Activity   string
	SleepHours float64
	Notes      string
	CreatedAt  time.Time
}

type SleepLog struct {
	ID         int64
	ProfileKey string
	Date       string // DateLayout
	Bedtime    string
	Waketime   string
	Duration   float64
	Quality    int
	Notes      string
	CreatedAt  time.Time
}

type Project struct {
	ID          int64
	ProfileKey  string
	Title       string
	Description string
	Status      string
	Priority    int
	Category    string
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// FormatTime renders t in the storage timestamp format.
func FormatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.ParseInLocation(timeLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

// DateKey renders the wall-clock calendar date of t.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

type scanner interface {
	Scan(dest ...any) error
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
