package engine

import (
	"context"
	"fmt"
	"time"

	"auralife/internal/storage"
)

const (
	lowEnergyThreshold = 5
	maxActiveProjects  = 5
)

// GenerateTips inspects pending habits, the latest energy log and the active
// project count, and returns one tip per condition met. It never writes
// anything beyond first-use bootstrap.
func (s *Service) GenerateTips(ctx context.Context, p ProfileKey, date time.Time) ([]string, error) {
	var tips []string
	err := s.withProfile(ctx, p, func(r *storage.Repos) error {
		var err error
		tips, err = s.tips(ctx, r, p, date)
		return err
	})
	return tips, err
}

func (s *Service) tips(ctx context.Context, r *storage.Repos, p ProfileKey, date time.Time) ([]string, error) {
	var tips []string

	habits, err := r.Habits.List(ctx, string(p))
	if err != nil {
		return nil, err
	}
	done, err := r.HabitLogs.CompletedOn(ctx, string(p), s.dateKey(date))
	if err != nil {
		return nil, err
	}
	pending := 0
	for _, h := range habits {
		if !done[h.ID] {
			pending++
		}
	}
	if pending > 0 {
		tips = append(tips, fmt.Sprintf("🔥 Tu as %d habitude(s) non complétée(s) aujourd'hui", pending))
	}

	energy, err := r.Energy.Latest(ctx, string(p))
	if err != nil {
		return nil, err
	}
	if energy != nil && energy.Level < lowEnergyThreshold {
		tips = append(tips, "⚡ Ton niveau d'énergie est bas. Prends une pause !")
	}

	active, err := r.Projects.CountByStatus(ctx, string(p), string(ProjectActive))
	if err != nil {
		return nil, err
	}
	if active > maxActiveProjects {
		tips = append(tips, fmt.Sprintf("📋 Tu as %d projets actifs. Focus sur 2-3 max.", active))
	}

	if len(tips) == 0 {
		tips = append(tips, "✨ Tu es sur la bonne voie ! Continue comme ça.")
	}
	return tips, nil
}
