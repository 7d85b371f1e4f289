package engine

import (
	"context"
	"fmt"
	"time"

	"auralife/internal/storage"
)

// AchievementID is the stable key of an achievement.
type AchievementID string

const (
	AchievementPremierPas     AchievementID = "premier_pas"
	AchievementSerie7         AchievementID = "serie_7"
	AchievementSerie30        AchievementID = "serie_30"
	AchievementNiveau5        AchievementID = "niveau_5"
	AchievementNiveau10       AchievementID = "niveau_10"
	AchievementMillionnaireXP AchievementID = "millionnaire_xp"
	AchievementPenseur        AchievementID = "penseur"
	AchievementMaitreSkill    AchievementID = "maitre_skill"
)

// Snapshot is the state achievement conditions are evaluated against.
type Snapshot struct {
	Profile          storage.Profile
	Habits           []storage.Habit
	Skills           []storage.Skill
	JournalEntries   int
	HabitCompletions int // every habit log ever written
}

type AchievementDef struct {
	ID          AchievementID
	Name        string
	Description string
	Icon        string
	// Condition reports whether the achievement is earned for the snapshot.
	Condition func(*Snapshot) bool
}

var achievementRegistry = []AchievementDef{
	{
		ID: AchievementPremierPas, Name: "Premier Pas", Description: "Compléter ta première habitude", Icon: "🚩",
		Condition: func(s *Snapshot) bool { return s.HabitCompletions > 0 },
	},
	{
		ID: AchievementSerie7, Name: "Série de 7", Description: "Maintenir une habitude 7 jours", Icon: "🔥",
		Condition: func(s *Snapshot) bool { return anyHabit(s, func(h storage.Habit) bool { return h.BestStreak >= 7 }) },
	},
	{
		ID: AchievementSerie30, Name: "Série de 30", Description: "Maintenir une habitude 30 jours", Icon: "🏆",
		Condition: func(s *Snapshot) bool { return anyHabit(s, func(h storage.Habit) bool { return h.BestStreak >= 30 }) },
	},
	{
		ID: AchievementNiveau5, Name: "Niveau 5", Description: "Atteindre le niveau 5", Icon: "⭐",
		Condition: func(s *Snapshot) bool { return s.Profile.Level >= 5 },
	},
	{
		ID: AchievementNiveau10, Name: "Niveau 10", Description: "Atteindre le niveau 10", Icon: "👑",
		Condition: func(s *Snapshot) bool { return s.Profile.Level >= 10 },
	},
	{
		ID: AchievementMillionnaireXP, Name: "Millionnaire XP", Description: "Accumuler 10000 XP", Icon: "💎",
		Condition: func(s *Snapshot) bool { return s.Profile.TotalXP >= 10000 },
	},
	{
		ID: AchievementPenseur, Name: "Penseur", Description: "Écrire 10 entrées de journal", Icon: "📖",
		Condition: func(s *Snapshot) bool { return s.JournalEntries >= 10 },
	},
	{
		ID: AchievementMaitreSkill, Name: "Maître Skill", Description: "Avoir une compétence niveau 10", Icon: "🏅",
		Condition: func(s *Snapshot) bool {
			for _, sk := range s.Skills {
				if sk.Level >= 10 {
					return true
				}
			}
			return false
		},
	},
}

func anyHabit(s *Snapshot, pred func(storage.Habit) bool) bool {
	for _, h := range s.Habits {
		if pred(h) {
			return true
		}
	}
	return false
}

// Registry returns a copy of every achievement definition in display order.
func Registry() []AchievementDef {
	out := make([]AchievementDef, len(achievementRegistry))
	copy(out, achievementRegistry)
	return out
}

func LookupAchievement(id AchievementID) (AchievementDef, bool) {
	for _, a := range achievementRegistry {
		if a.ID == id {
			return a, true
		}
	}
	return AchievementDef{}, false
}

func ParseAchievement(input string) (AchievementID, error) {
	s := foldKey(input)
	for _, a := range achievementRegistry {
		if s == string(a.ID) || s == foldKey(a.Name) {
			return a.ID, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAchievement, input)
}

type AchievementView struct {
	ID          AchievementID
	Name        string
	Description string
	Icon        string
	Unlocked    bool
	UnlockedAt  *time.Time
}

// CheckAchievements unlocks every locked achievement whose condition now
// holds and returns only the ones unlocked by this call.
func (s *Service) CheckAchievements(ctx context.Context, p ProfileKey) ([]AchievementID, error) {
	var out []AchievementID
	err := s.withProfile(ctx, p, func(r *storage.Repos) error {
		var err error
		out, err = s.evaluate(ctx, r, p)
		return err
	})
	return out, err
}

func (s *Service) snapshot(ctx context.Context, r *storage.Repos, p ProfileKey) (*Snapshot, error) {
	prof, err := s.loadProfile(ctx, r, p)
	if err != nil {
		return nil, err
	}
	habits, err := r.Habits.List(ctx, string(p))
	if err != nil {
		return nil, err
	}
	skills, err := r.Skills.List(ctx, string(p))
	if err != nil {
		return nil, err
	}
	entries, err := r.Journal.Count(ctx, string(p))
	if err != nil {
		return nil, err
	}
	completions, err := r.HabitLogs.Count(ctx, string(p))
	if err != nil {
		return nil, err
	}
	return &Snapshot{Profile: *prof, Habits: habits, Skills: skills, JournalEntries: entries, HabitCompletions: completions}, nil
}

func (s *Service) evaluate(ctx context.Context, r *storage.Repos, p ProfileKey) ([]AchievementID, error) {
	snap, err := s.snapshot(ctx, r, p)
	if err != nil {
		return nil, err
	}
	states, err := r.Achievements.List(ctx, string(p))
	if err != nil {
		return nil, err
	}
	unlocked := make(map[string]bool, len(states))
	for _, st := range states {
		unlocked[st.Key] = st.Unlocked
	}

	now := s.now()
	var out []AchievementID
	for _, a := range achievementRegistry {
		if unlocked[string(a.ID)] || !a.Condition(snap) {
			continue
		}
		ok, err := r.Achievements.Unlock(ctx, string(p), string(a.ID), now)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, a.ID)
			s.log.Info("achievement unlocked", "profile", p, "achievement", a.Name)
		}
	}
	return out, nil
}

// Achievements lists every achievement with its unlock state.
func (s *Service) Achievements(ctx context.Context, p ProfileKey) ([]AchievementView, error) {
	var out []AchievementView
	err := s.withProfile(ctx, p, func(r *storage.Repos) error {
		var err error
		out, err = s.achievementViews(ctx, r, p)
		return err
	})
	return out, err
}

func (s *Service) achievementViews(ctx context.Context, r *storage.Repos, p ProfileKey) ([]AchievementView, error) {
	states, err := r.Achievements.List(ctx, string(p))
	if err != nil {
		return nil, err
	}
	byKey := make(map[string]storage.Achievement, len(states))
	for _, st := range states {
		byKey[st.Key] = st
	}
	out := make([]AchievementView, 0, len(achievementRegistry))
	for _, a := range achievementRegistry {
		st, ok := byKey[string(a.ID)]
		if !ok {
			continue
		}
		out = append(out, AchievementView{
			ID:          a.ID,
			Name:        a.Name,
			Description: a.Description,
			Icon:        a.Icon,
			Unlocked:    st.Unlocked,
			UnlockedAt:  st.UnlockedAt,
		})
	}
	return out, nil
}
