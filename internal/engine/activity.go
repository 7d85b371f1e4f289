package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"auralife/internal/storage"
)

const (
	energyXP  = 5
	sleepXP   = 10
	journalXP = 5
)

// ActivityResult is returned by every logging operation.
type ActivityResult struct {
	ID       int64
	Applied  bool
	Award    AwardResult
	Unlocked []AchievementID
}

type EnergyInput struct {
	Level      int
	Mood       string
	Activity   string
	SleepHours float64
	Notes      string
}

type SleepInput struct {
	Date     time.Time // zero means today
	Bedtime  string    // HH:MM
	Waketime string    // HH:MM
	Quality  int
	Notes    string
}

type JournalInput struct {
	Content string
	Mood    string
	Tags    string
}

func validateScale(field string, v int) error {
	if v < 1 || v > 10 {
		return fmt.Errorf("%s must be between 1 and 10, got %d", field, v)
	}
	return nil
}

// LogEnergy records an energy level (1..10).
func (s *Service) LogEnergy(ctx context.Context, p ProfileKey, in EnergyInput) (ActivityResult, error) {
	if err := validateScale("energy level", in.Level); err != nil {
		return ActivityResult{}, err
	}
	return s.logActivity(ctx, p, MetricEnergyLog, energyXP, "Énergie loggée", SkillEnergie, func(r *storage.Repos) (int64, error) {
		return r.Energy.Insert(ctx, storage.EnergyLog{
			ProfileKey: string(p),
			Level:      in.Level,
			Mood:       in.Mood,
			Activity:   in.Activity,
			SleepHours: in.SleepHours,
			Notes:      in.Notes,
			CreatedAt:  s.now(),
		})
	})
}

// LogSleep records a night of sleep. The duration wraps past midnight.
func (s *Service) LogSleep(ctx context.Context, p ProfileKey, in SleepInput) (ActivityResult, error) {
	if err := validateScale("sleep quality", in.Quality); err != nil {
		return ActivityResult{}, err
	}
	hours, err := SleepDuration(in.Bedtime, in.Waketime)
	if err != nil {
		return ActivityResult{}, err
	}
	date := in.Date
	if date.IsZero() {
		date = s.now()
	}
	return s.logActivity(ctx, p, MetricSleepLog, sleepXP, "Sommeil loggé", SkillSante, func(r *storage.Repos) (int64, error) {
		return r.Sleep.Insert(ctx, storage.SleepLog{
			ProfileKey: string(p),
			Date:       s.dateKey(date),
			Bedtime:    in.Bedtime,
			Waketime:   in.Waketime,
			Duration:   hours,
			Quality:    in.Quality,
			Notes:      in.Notes,
			CreatedAt:  s.now(),
		})
	})
}

// WriteJournal stores a journal entry.
func (s *Service) WriteJournal(ctx context.Context, p ProfileKey, in JournalInput) (ActivityResult, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return ActivityResult{}, errors.New("journal content is required")
	}
	return s.logActivity(ctx, p, MetricJournal, journalXP, "Entrée journal", SkillIntelligence, func(r *storage.Repos) (int64, error) {
		return r.Journal.Insert(ctx, storage.JournalEntry{
			ProfileKey: string(p),
			Content:    content,
			Mood:       in.Mood,
			Tags:       in.Tags,
			CreatedAt:  s.now(),
		})
	})
}

func (s *Service) logActivity(ctx context.Context, p ProfileKey, metric QuestMetric, xp int, source string, skill SkillID, insert func(r *storage.Repos) (int64, error)) (ActivityResult, error) {
	var res ActivityResult
	err := s.withProfile(ctx, p, func(r *storage.Repos) error {
		id, err := insert(r)
		if err != nil {
			return err
		}
		res.ID = id
		res.Applied = true
		if res.Award, err = s.award(ctx, r, p, xp, source, skill); err != nil {
			return err
		}
		if err := s.advanceQuests(ctx, r, p, metric); err != nil {
			return err
		}
		res.Unlocked, err = s.evaluate(ctx, r, p)
		return err
	})
	return res, err
}

// SleepDuration returns the hours between two HH:MM clock times, rounded to
// a tenth. A waketime earlier than bedtime is taken as the next day.
func SleepDuration(bedtime, waketime string) (float64, error) {
	bed, err := time.Parse("15:04", strings.TrimSpace(bedtime))
	if err != nil {
		return 0, fmt.Errorf("invalid bedtime %q (want HH:MM)", bedtime)
	}
	wake, err := time.Parse("15:04", strings.TrimSpace(waketime))
	if err != nil {
		return 0, fmt.Errorf("invalid waketime %q (want HH:MM)", waketime)
	}
	h := wake.Sub(bed).Hours()
	if h < 0 {
		h += 24
	}
	return math.Round(h*10) / 10, nil
}
