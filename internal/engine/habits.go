package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"auralife/internal/storage"
)

type HabitFrequency string

const (
	HabitDaily  HabitFrequency = "daily"
	HabitWeekly HabitFrequency = "weekly"
)

func (h HabitFrequency) IsValid() bool {
	switch h {
	case HabitDaily, HabitWeekly:
		return true
	default:
		return false
	}
}

func ParseHabitFrequency(input string) (HabitFrequency, error) {
	s := strings.TrimSpace(strings.ToLower(input))
	if s == "" {
		return HabitDaily, nil
	}
	h := HabitFrequency(s)
	if !h.IsValid() {
		return "", fmt.Errorf("invalid habit frequency: %q", input)
	}
	return h, nil
}

// StreakPolicy computes a habit's streak after a completion on date.
// previous is the latest earlier completion, zero if there is none.
type StreakPolicy interface {
	NextStreak(streak int, freq HabitFrequency, previous, date time.Time) int
}

// NoResetPolicy only ever counts up: a missed period keeps the streak.
type NoResetPolicy struct{}

func (NoResetPolicy) NextStreak(streak int, _ HabitFrequency, _, _ time.Time) int {
	return streak + 1
}

// ResetOnMissPolicy restarts at 1 when the previous completion is not in the
// immediately preceding period (day or ISO week).
type ResetOnMissPolicy struct{}

func (ResetOnMissPolicy) NextStreak(streak int, freq HabitFrequency, previous, date time.Time) int {
	if previous.IsZero() {
		return streak + 1
	}
	var gap int
	switch freq {
	case HabitWeekly:
		gap = daysBetween(weekStart(previous), weekStart(date)) / 7
	default:
		gap = daysBetween(previous, date)
	}
	if gap <= 1 {
		return streak + 1
	}
	return 1
}

func daysBetween(a, b time.Time) int {
	ya, ma, da := a.Date()
	yb, mb, db := b.Date()
	ua := time.Date(ya, ma, da, 0, 0, 0, 0, time.UTC)
	ub := time.Date(yb, mb, db, 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

type HabitInput struct {
	Name      string
	Icon      string
	Frequency HabitFrequency
	Skill     SkillID
	XPReward  int
}

type HabitView struct {
	ID         int64
	Name       string
	Icon       string
	Frequency  HabitFrequency
	Streak     int
	BestStreak int
	Skill      SkillID
	XPReward   int
	DoneToday  bool
}

type HabitResult struct {
	Applied    bool
	Habit      string
	Streak     int
	BestStreak int
	Award      AwardResult
	Unlocked   []AchievementID
}

const (
	defaultHabitXP   = 10
	defaultHabitIcon = "✅"
)

func (s *Service) CreateHabit(ctx context.Context, p ProfileKey, in HabitInput) (int64, error) {
	name, err := normalizeTitle(in.Name)
	if err != nil {
		return 0, err
	}
	if in.Frequency == "" {
		in.Frequency = HabitDaily
	}
	if !in.Frequency.IsValid() {
		return 0, fmt.Errorf("invalid habit frequency: %q", in.Frequency)
	}
	if in.Skill == "" {
		in.Skill = SkillDiscipline
	}
	if !in.Skill.IsValid() {
		return 0, fmt.Errorf("%w: %q", ErrUnknownSkill, in.Skill)
	}
	if in.XPReward < 0 {
		return 0, fmt.Errorf("xp reward must be >= 0, got %d", in.XPReward)
	}
	if in.XPReward == 0 {
		in.XPReward = defaultHabitXP
	}
	if strings.TrimSpace(in.Icon) == "" {
		in.Icon = defaultHabitIcon
	}

	var id int64
	err = s.withProfile(ctx, p, func(r *storage.Repos) error {
		var err error
		id, err = r.Habits.Insert(ctx, storage.Habit{
			ProfileKey:  string(p),
			Name:        name,
			Icon:        in.Icon,
			Frequency:   string(in.Frequency),
			SkillTarget: string(in.Skill),
			XPReward:    in.XPReward,
			CreatedAt:   s.now(),
		})
		return err
	})
	if err != nil {
		return 0, err
	}
	s.log.Info("habit created", "profile", p, "habit", id, "name", name)
	return id, nil
}

// DeleteHabit removes the habit and all of its completion logs.
func (s *Service) DeleteHabit(ctx context.Context, p ProfileKey, habitID int64) error {
	return s.withProfile(ctx, p, func(r *storage.Repos) error {
		ok, err := r.Habits.Delete(ctx, string(p), habitID)
		if err != nil {
			return err
		}
		if !ok {
			return NotFoundError{Kind: "habit", ID: habitID}
		}
		return nil
	})
}

// Habits lists the profile's habits with their completion flag for date.
func (s *Service) Habits(ctx context.Context, p ProfileKey, date time.Time) ([]HabitView, error) {
	var out []HabitView
	err := s.withProfile(ctx, p, func(r *storage.Repos) error {
		var err error
		out, err = s.habitViews(ctx, r, p, date)
		return err
	})
	return out, err
}

func (s *Service) habitViews(ctx context.Context, r *storage.Repos, p ProfileKey, date time.Time) ([]HabitView, error) {
	habits, err := r.Habits.List(ctx, string(p))
	if err != nil {
		return nil, err
	}
	done, err := r.HabitLogs.CompletedOn(ctx, string(p), s.dateKey(date))
	if err != nil {
		return nil, err
	}
	out := make([]HabitView, 0, len(habits))
	for _, h := range habits {
		out = append(out, HabitView{
			ID:         h.ID,
			Name:       h.Name,
			Icon:       h.Icon,
			Frequency:  HabitFrequency(h.Frequency),
			Streak:     h.Streak,
			BestStreak: h.BestStreak,
			Skill:      SkillID(h.SkillTarget),
			XPReward:   h.XPReward,
			DoneToday:  done[h.ID],
		})
	}
	return out, nil
}

// HasCompletion reports whether the habit was completed on date.
func (s *Service) HasCompletion(ctx context.Context, p ProfileKey, habitID int64, date time.Time) (bool, error) {
	var done bool
	err := s.withProfile(ctx, p, func(r *storage.Repos) error {
		h, err := r.Habits.Get(ctx, string(p), habitID)
		if err != nil {
			return err
		}
		if h == nil {
			return NotFoundError{Kind: "habit", ID: habitID}
		}
		done, err = r.HabitLogs.Exists(ctx, habitID, s.dateKey(date))
		return err
	})
	return done, err
}

// CompleteHabit logs the habit for date, advances its streak, pays its reward
// and evaluates achievements. A second call for the same date is a no-op with
// Applied=false.
func (s *Service) CompleteHabit(ctx context.Context, p ProfileKey, habitID int64, date time.Time) (HabitResult, error) {
	var res HabitResult
	day := s.dateKey(date)
	err := s.withProfile(ctx, p, func(r *storage.Repos) error {
		h, err := r.Habits.Get(ctx, string(p), habitID)
		if err != nil {
			return err
		}
		if h == nil {
			return NotFoundError{Kind: "habit", ID: habitID}
		}
		res.Habit = h.Name
		res.Streak, res.BestStreak = h.Streak, h.BestStreak

		done, err := r.HabitLogs.Exists(ctx, habitID, day)
		if err != nil {
			return err
		}
		if done {
			s.log.Debug("habit already completed", "profile", p, "habit", habitID, "date", day)
			return nil
		}

		var previous time.Time
		last, err := r.HabitLogs.LastBefore(ctx, habitID, day)
		if err != nil {
			return err
		}
		if last != nil {
			previous, err = time.ParseInLocation(storage.DateLayout, last.CompletedOn, s.loc)
			if err != nil {
				return fmt.Errorf("habit log date: %w", err)
			}
		}
		current, err := time.ParseInLocation(storage.DateLayout, day, s.loc)
		if err != nil {
			return fmt.Errorf("habit log date: %w", err)
		}

		if _, err := r.HabitLogs.Insert(ctx, habitID, day); err != nil {
			return err
		}
		streak := s.streaks.NextStreak(h.Streak, HabitFrequency(h.Frequency), previous, current)
		best := h.BestStreak
		if streak > best {
			best = streak
		}
		if err := r.Habits.UpdateStreak(ctx, habitID, streak, best); err != nil {
			return err
		}
		res.Applied = true
		res.Streak, res.BestStreak = streak, best

		res.Award, err = s.award(ctx, r, p, h.XPReward, "Habitude: "+h.Name, SkillID(h.SkillTarget))
		if err != nil {
			return err
		}
		if err := s.advanceQuests(ctx, r, p, MetricHabitDone); err != nil {
			return err
		}
		res.Unlocked, err = s.evaluate(ctx, r, p)
		return err
	})
	if err == nil && res.Applied {
		s.log.Info("habit completed", "profile", p, "habit", habitID, "date", day, "streak", res.Streak)
	}
	return res, err
}

func (s *Service) dateKey(t time.Time) string {
	return storage.DateKey(t.In(s.loc))
}
