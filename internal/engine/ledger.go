package engine

import (
	"context"

	"auralife/internal/storage"
)

type AwardResult struct {
	Amount      int
	Source      string
	Skill       SkillID
	LevelBefore int
	LevelAfter  int
	LeveledUp   bool
	Title       string
	TotalXP     int
}

// AwardXP adds amount (any sign) to the profile and, when skill names an
// existing track, to that skill. The entry is appended to the XP log.
// Achievements are not evaluated here; call CheckAchievements afterwards.
func (s *Service) AwardXP(ctx context.Context, p ProfileKey, amount int, source string, skill SkillID) (AwardResult, error) {
	var res AwardResult
	err := s.withProfile(ctx, p, func(r *storage.Repos) error {
		var err error
		res, err = s.award(ctx, r, p, amount, source, skill)
		return err
	})
	return res, err
}

func (s *Service) award(ctx context.Context, r *storage.Repos, p ProfileKey, amount int, source string, skill SkillID) (AwardResult, error) {
	prof, err := s.loadProfile(ctx, r, p)
	if err != nil {
		return AwardResult{}, err
	}

	res := AwardResult{Amount: amount, Source: source, Skill: skill, LevelBefore: prof.Level}
	prof.TotalXP = addXP(prof.TotalXP, amount)
	prof.Level = LevelFromXP(prof.TotalXP)
	prof.Title = TitleForLevel(prof.Level)
	if err := r.Profiles.Update(ctx, prof); err != nil {
		return AwardResult{}, err
	}

	if skill != "" {
		sk, err := r.Skills.Get(ctx, string(p), string(skill))
		if err != nil {
			return AwardResult{}, err
		}
		if sk != nil {
			sk.XP = addXP(sk.XP, amount)
			sk.Level = LevelFromXP(sk.XP)
			if err := r.Skills.Update(ctx, sk); err != nil {
				return AwardResult{}, err
			}
		} else {
			s.log.Debug("xp skill skipped", "profile", p, "skill", skill)
		}
	}

	if _, err := r.XPLogs.Insert(ctx, storage.XPLog{
		ProfileKey: string(p),
		Amount:     amount,
		Source:     source,
		Skill:      string(skill),
		CreatedAt:  s.now(),
	}); err != nil {
		return AwardResult{}, err
	}

	res.LevelAfter = prof.Level
	res.LeveledUp = prof.Level > res.LevelBefore
	res.Title = prof.Title
	res.TotalXP = prof.TotalXP
	if res.LeveledUp {
		s.log.Info("level up", "profile", p, "level", prof.Level, "title", prof.Title)
	}
	return res, nil
}
