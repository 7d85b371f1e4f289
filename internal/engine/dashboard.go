package engine

import (
	"context"
	"time"

	"auralife/internal/storage"
)

type ProfileView struct {
	Key            ProfileKey
	Name           string
	Title          string
	CharacterClass string
	Level          int
	TotalXP        int
	LevelXP        int // threshold of the current level
	NextLevelXP    int
	Progress       float64
	CreatedAt      time.Time
}

type SkillView struct {
	ID       SkillID
	Label    string
	Icon     string
	XP       int
	Level    int
	Progress float64
}

// Dashboard is everything the board renders in one read.
type Dashboard struct {
	Profile        ProfileView
	Skills         []SkillView
	Achievements   []AchievementView
	Quests         []QuestView
	Habits         []HabitView
	Tips           []string
	NewDailyQuests int
	NewBossQuest   bool
}

// Dashboard generates any missing daily and weekly quests, then assembles the
// full view for date.
func (s *Service) Dashboard(ctx context.Context, p ProfileKey, date time.Time) (*Dashboard, error) {
	d := &Dashboard{}
	err := s.withProfile(ctx, p, func(r *storage.Repos) error {
		var err error
		if d.NewDailyQuests, err = s.generateDaily(ctx, r, p); err != nil {
			return err
		}
		if d.NewBossQuest, err = s.generateWeekly(ctx, r, p); err != nil {
			return err
		}
		if d.Profile, err = s.profileView(ctx, r, p); err != nil {
			return err
		}
		if d.Skills, err = s.skillViews(ctx, r, p); err != nil {
			return err
		}
		if d.Achievements, err = s.achievementViews(ctx, r, p); err != nil {
			return err
		}
		if d.Quests, err = s.activeQuests(ctx, r, p); err != nil {
			return err
		}
		if d.Habits, err = s.habitViews(ctx, r, p, date); err != nil {
			return err
		}
		d.Tips, err = s.tips(ctx, r, p, date)
		return err
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) Profile(ctx context.Context, p ProfileKey) (ProfileView, error) {
	var v ProfileView
	err := s.withProfile(ctx, p, func(r *storage.Repos) error {
		var err error
		v, err = s.profileView(ctx, r, p)
		return err
	})
	return v, err
}

func (s *Service) Skills(ctx context.Context, p ProfileKey) ([]SkillView, error) {
	var out []SkillView
	err := s.withProfile(ctx, p, func(r *storage.Repos) error {
		var err error
		out, err = s.skillViews(ctx, r, p)
		return err
	})
	return out, err
}

func (s *Service) profileView(ctx context.Context, r *storage.Repos, p ProfileKey) (ProfileView, error) {
	prof, err := s.loadProfile(ctx, r, p)
	if err != nil {
		return ProfileView{}, err
	}
	return ProfileView{
		Key:            p,
		Name:           prof.Name,
		Title:          prof.Title,
		CharacterClass: prof.CharacterClass,
		Level:          prof.Level,
		TotalXP:        prof.TotalXP,
		LevelXP:        XPForLevel(prof.Level),
		NextLevelXP:    XPForLevel(prof.Level + 1),
		Progress:       LevelProgress(prof.TotalXP, prof.Level),
		CreatedAt:      prof.CreatedAt,
	}, nil
}

func (s *Service) skillViews(ctx context.Context, r *storage.Repos, p ProfileKey) ([]SkillView, error) {
	skills, err := r.Skills.List(ctx, string(p))
	if err != nil {
		return nil, err
	}
	out := make([]SkillView, 0, len(skills))
	for _, sk := range skills {
		id := SkillID(sk.Key)
		out = append(out, SkillView{
			ID:       id,
			Label:    id.Label(),
			Icon:     id.Icon(),
			XP:       sk.XP,
			Level:    sk.Level,
			Progress: LevelProgress(sk.XP, sk.Level),
		})
	}
	return out, nil
}
