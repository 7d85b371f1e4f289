package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"auralife/internal/logger"
	"auralife/internal/storage"
)

// ProfileKey names the profile every operation runs against.
type ProfileKey string

func ParseProfileKey(input string) (ProfileKey, error) {
	s := strings.TrimSpace(input)
	if s == "" || len(s) > 64 || strings.ContainsAny(s, " \t\r\n") {
		return "", fmt.Errorf("%w: %q", ErrInvalidProfile, input)
	}
	return ProfileKey(s), nil
}

// ProfileDefaults seeds a profile the first time it is touched.
type ProfileDefaults struct {
	Name           string
	CharacterClass string
}

var defaultProfile = ProfileDefaults{Name: "Voyageur", CharacterClass: "Explorateur"}

type Service struct {
	store    *storage.Store
	now      func() time.Time
	loc      *time.Location
	log      *logger.Logger
	boss     BossSelector
	streaks  StreakPolicy
	defaults ProfileDefaults

	mu    sync.Mutex
	locks map[ProfileKey]*sync.Mutex
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocation sets the timezone that defines calendar days and weeks.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func WithLogger(l *logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func WithBossSelector(b BossSelector) Option {
	return func(s *Service) {
		if b != nil {
			s.boss = b
		}
	}
}

func WithStreakPolicy(p StreakPolicy) Option {
	return func(s *Service) {
		if p != nil {
			s.streaks = p
		}
	}
}

// WithDefaults overrides the name and class given to new profiles. Empty
// fields keep the built-in defaults.
func WithDefaults(d ProfileDefaults) Option {
	return func(s *Service) {
		if d.Name != "" {
			s.defaults.Name = d.Name
		}
		if d.CharacterClass != "" {
			s.defaults.CharacterClass = d.CharacterClass
		}
	}
}

func NewService(store *storage.Store, opts ...Option) *Service {
	s := &Service{
		store:    store,
		now:      time.Now,
		loc:      time.Local,
		log:      logger.Nop(),
		boss:     RandomBoss(),
		streaks:  NoResetPolicy{},
		defaults: defaultProfile,
		locks:    map[ProfileKey]*sync.Mutex{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Location() *time.Location { return s.loc }

func (s *Service) clock() time.Time {
	return s.now().In(s.loc)
}

func (s *Service) lockFor(p ProfileKey) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[p]
	if !ok {
		l = &sync.Mutex{}
		s.locks[p] = l
	}
	return l
}

// withProfile serializes work on one profile and runs fn in a single
// transaction after making sure the profile's records exist.
func (s *Service) withProfile(ctx context.Context, p ProfileKey, fn func(r *storage.Repos) error) error {
	if _, err := ParseProfileKey(string(p)); err != nil {
		return err
	}
	l := s.lockFor(p)
	l.Lock()
	defer l.Unlock()

	return s.store.WithTx(ctx, func(r *storage.Repos) error {
		if err := s.bootstrap(ctx, r, p); err != nil {
			return err
		}
		return fn(r)
	})
}

// Bootstrap creates the profile with its skills and achievements if any are missing.
func (s *Service) Bootstrap(ctx context.Context, p ProfileKey) error {
	return s.withProfile(ctx, p, func(*storage.Repos) error { return nil })
}

func (s *Service) bootstrap(ctx context.Context, r *storage.Repos, p ProfileKey) error {
	key := string(p)
	prof, err := r.Profiles.Get(ctx, key)
	if err != nil {
		return err
	}
	if prof == nil {
		if err := r.Profiles.Insert(ctx, storage.Profile{
			Key:            key,
			Name:           s.defaults.Name,
			Title:          TitleForLevel(1),
			Level:          1,
			TotalXP:        0,
			CharacterClass: s.defaults.CharacterClass,
			CreatedAt:      s.now(),
		}); err != nil {
			return err
		}
		s.log.Info("profile created", "profile", key)
	} else if lvl := LevelFromXP(prof.TotalXP); prof.Level != lvl || prof.Title != TitleForLevel(lvl) {
		prof.Level = lvl
		prof.Title = TitleForLevel(lvl)
		if err := r.Profiles.Update(ctx, prof); err != nil {
			return err
		}
	}

	for i, sk := range skillCatalog {
		if err := r.Skills.Seed(ctx, key, string(sk.ID), i); err != nil {
			return err
		}
	}
	for i, a := range achievementRegistry {
		if err := r.Achievements.Seed(ctx, key, string(a.ID), i); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) loadProfile(ctx context.Context, r *storage.Repos, p ProfileKey) (*storage.Profile, error) {
	prof, err := r.Profiles.Get(ctx, string(p))
	if err != nil {
		return nil, err
	}
	if prof == nil {
		return nil, errors.New("profile missing after bootstrap")
	}
	return prof, nil
}

func normalizeTitle(title string) (string, error) {
	t := strings.TrimSpace(title)
	if t == "" {
		return "", errors.New("title is required")
	}
	return t, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// weekStart returns Monday 00:00 of t's ISO week, in t's location.
func weekStart(t time.Time) time.Time {
	day := startOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
