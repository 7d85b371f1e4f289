package engine

import (
	"context"
	"time"

	"auralife/internal/storage"
)

type DayXP struct {
	Date string
	XP   int
}

// XPHistory returns the latest XP log entries, newest first.
func (s *Service) XPHistory(ctx context.Context, p ProfileKey, limit int) ([]storage.XPLog, error) {
	var out []storage.XPLog
	err := s.withProfile(ctx, p, func(r *storage.Repos) error {
		var err error
		out, err = r.XPLogs.Recent(ctx, string(p), limit)
		return err
	})
	return out, err
}

// WeeklyXP returns seven daily XP totals ending on date, oldest first.
func (s *Service) WeeklyXP(ctx context.Context, p ProfileKey, date time.Time) ([]DayXP, error) {
	end := startOfDay(date.In(s.loc)).AddDate(0, 0, 1)
	start := end.AddDate(0, 0, -7)

	out := make([]DayXP, 7)
	index := make(map[string]int, 7)
	for i := range out {
		key := storage.DateKey(start.AddDate(0, 0, i))
		out[i].Date = key
		index[key] = i
	}

	err := s.withProfile(ctx, p, func(r *storage.Repos) error {
		logs, err := r.XPLogs.Between(ctx, string(p), start, end)
		if err != nil {
			return err
		}
		for _, l := range logs {
			if i, ok := index[s.dateKey(l.CreatedAt)]; ok {
				out[i].XP = addXP(out[i].XP, l.Amount)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) JournalEntries(ctx context.Context, p ProfileKey, limit int) ([]storage.JournalEntry, error) {
	var out []storage.JournalEntry
	err := s.withProfile(ctx, p, func(r *storage.Repos) error {
		var err error
		out, err = r.Journal.Recent(ctx, string(p), limit)
		return err
	})
	return out, err
}

func (s *Service) SleepLogs(ctx context.Context, p ProfileKey, limit int) ([]storage.SleepLog, error) {
	var out []storage.SleepLog
	err := s.withProfile(ctx, p, func(r *storage.Repos) error {
		var err error
		out, err = r.Sleep.Recent(ctx, string(p), limit)
		return err
	})
	return out, err
}
