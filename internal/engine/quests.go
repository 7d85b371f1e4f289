package engine

import (
	"context"
	"math/rand/v2"
	"time"

	"auralife/internal/storage"
)

type QuestType string

const (
	QuestDaily QuestType = "daily"
	QuestBoss  QuestType = "boss"
)

// QuestMetric names the activity that moves a quest's progress.
type QuestMetric string

const (
	MetricEnergyLog QuestMetric = "energy_log"
	MetricHabitDone QuestMetric = "habit_done"
	MetricJournal   QuestMetric = "journal_entry"
	MetricSleepLog  QuestMetric = "sleep_log"
)

type QuestTemplate struct {
	Title       string
	Description string
	XPReward    int
	Skill       SkillID
	Metric      QuestMetric
	Target      int
}

var dailyTemplates = []QuestTemplate{
	{"Lève-tôt", "Logger ton énergie", 30, SkillEnergie, MetricEnergyLog, 1},
	{"Triple Habitude", "Compléter 3 habitudes", 50, SkillDiscipline, MetricHabitDone, 3},
	{"Pensée du Jour", "Écrire dans le journal", 25, SkillIntelligence, MetricJournal, 1},
}

var bossTemplates = []QuestTemplate{
	{"🐉 Boss: Procrastination", "Compléter 20 habitudes cette semaine", 500, SkillDiscipline, MetricHabitDone, 20},
	{"🐉 Boss: Chaos Mental", "Écrire 5 entrées journal", 400, SkillIntelligence, MetricJournal, 5},
	{"🐉 Boss: Fatigue", "Logger 7 nuits de sommeil", 450, SkillSante, MetricSleepLog, 7},
}

func DailyTemplates() []QuestTemplate {
	return append([]QuestTemplate(nil), dailyTemplates...)
}

func BossTemplates() []QuestTemplate {
	return append([]QuestTemplate(nil), bossTemplates...)
}

// BossSelector picks the index of this week's boss from pool.
type BossSelector interface {
	SelectBoss(pool []QuestTemplate) int
}

type BossSelectorFunc func(pool []QuestTemplate) int

func (f BossSelectorFunc) SelectBoss(pool []QuestTemplate) int { return f(pool) }

// RandomBoss selects uniformly at random.
func RandomBoss() BossSelector {
	return BossSelectorFunc(func(pool []QuestTemplate) int { return rand.IntN(len(pool)) })
}

// FixedBoss always selects index i.
func FixedBoss(i int) BossSelector {
	return BossSelectorFunc(func([]QuestTemplate) int { return i })
}

type QuestView struct {
	ID          int64
	Title       string
	Description string
	Type        QuestType
	XPReward    int
	Skill       SkillID
	Current     int
	Target      int
	Completed   bool
	ExpiresAt   time.Time
	Percent     int
}

type QuestResult struct {
	Applied  bool
	Quest    QuestView
	Award    AwardResult
	Unlocked []AchievementID
}

// GenerateDailyQuests creates today's daily set unless one already exists.
// It returns the number of quests created.
func (s *Service) GenerateDailyQuests(ctx context.Context, p ProfileKey) (int, error) {
	var n int
	err := s.withProfile(ctx, p, func(r *storage.Repos) error {
		var err error
		n, err = s.generateDaily(ctx, r, p)
		return err
	})
	return n, err
}

func (s *Service) generateDaily(ctx context.Context, r *storage.Repos, p ProfileKey) (int, error) {
	now := s.clock()
	from := startOfDay(now)
	to := from.AddDate(0, 0, 1)

	existing, err := r.Quests.CountCreatedBetween(ctx, string(p), string(QuestDaily), from, to)
	if err != nil {
		return 0, err
	}
	if existing > 0 {
		return 0, nil
	}
	for _, t := range dailyTemplates {
		if _, err := r.Quests.Insert(ctx, newQuest(p, QuestDaily, t, now, to)); err != nil {
			return 0, err
		}
	}
	s.log.Info("daily quests generated", "profile", p, "count", len(dailyTemplates))
	return len(dailyTemplates), nil
}

// GenerateWeeklyQuest creates this ISO week's boss quest unless one exists.
func (s *Service) GenerateWeeklyQuest(ctx context.Context, p ProfileKey) (bool, error) {
	var created bool
	err := s.withProfile(ctx, p, func(r *storage.Repos) error {
		var err error
		created, err = s.generateWeekly(ctx, r, p)
		return err
	})
	return created, err
}

func (s *Service) generateWeekly(ctx context.Context, r *storage.Repos, p ProfileKey) (bool, error) {
	now := s.clock()
	from := weekStart(now)
	to := from.AddDate(0, 0, 7)

	existing, err := r.Quests.CountCreatedBetween(ctx, string(p), string(QuestBoss), from, to)
	if err != nil {
		return false, err
	}
	if existing > 0 {
		return false, nil
	}

	i := s.boss.SelectBoss(BossTemplates())
	if i < 0 || i >= len(bossTemplates) {
		s.log.Warn("boss index out of range", "profile", p, "index", i)
		i = 0
	}
	t := bossTemplates[i]
	if _, err := r.Quests.Insert(ctx, newQuest(p, QuestBoss, t, now, to)); err != nil {
		return false, err
	}
	s.log.Info("boss quest generated", "profile", p, "title", t.Title)
	return true, nil
}

func newQuest(p ProfileKey, typ QuestType, t QuestTemplate, now, expires time.Time) storage.Quest {
	return storage.Quest{
		ProfileKey:  string(p),
		Title:       t.Title,
		Description: t.Description,
		QuestType:   string(typ),
		XPReward:    t.XPReward,
		SkillTarget: string(t.Skill),
		Metric:      string(t.Metric),
		TargetValue: t.Target,
		ExpiresAt:   expires,
		CreatedAt:   now,
	}
}

// CompleteQuest marks the quest completed and pays its reward. Completing an
// already completed quest is a no-op with Applied=false.
func (s *Service) CompleteQuest(ctx context.Context, p ProfileKey, questID int64) (QuestResult, error) {
	var res QuestResult
	err := s.withProfile(ctx, p, func(r *storage.Repos) error {
		q, err := r.Quests.Get(ctx, string(p), questID)
		if err != nil {
			return err
		}
		if q == nil {
			return NotFoundError{Kind: "quest", ID: questID}
		}

		ok, err := r.Quests.MarkCompleted(ctx, string(p), questID)
		if err != nil {
			return err
		}
		if !ok {
			res.Quest = questView(*q)
			s.log.Debug("quest already completed", "profile", p, "quest", questID)
			return nil
		}
		q.Completed = true
		res.Applied = true
		res.Quest = questView(*q)

		res.Award, err = s.award(ctx, r, p, q.XPReward, "Quête: "+q.Title, SkillID(q.SkillTarget))
		if err != nil {
			return err
		}
		res.Unlocked, err = s.evaluate(ctx, r, p)
		return err
	})
	return res, err
}

// ActiveQuests returns today's daily quests followed by this week's boss quest.
func (s *Service) ActiveQuests(ctx context.Context, p ProfileKey) ([]QuestView, error) {
	var out []QuestView
	err := s.withProfile(ctx, p, func(r *storage.Repos) error {
		var err error
		out, err = s.activeQuests(ctx, r, p)
		return err
	})
	return out, err
}

func (s *Service) activeQuests(ctx context.Context, r *storage.Repos, p ProfileKey) ([]QuestView, error) {
	now := s.clock()
	day := startOfDay(now)
	week := weekStart(now)

	daily, err := r.Quests.ListCreatedBetween(ctx, string(p), string(QuestDaily), day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	boss, err := r.Quests.ListCreatedBetween(ctx, string(p), string(QuestBoss), week, week.AddDate(0, 0, 7))
	if err != nil {
		return nil, err
	}

	out := make([]QuestView, 0, len(daily)+len(boss))
	for _, q := range daily {
		out = append(out, questView(q))
	}
	for _, q := range boss {
		out = append(out, questView(q))
	}
	return out, nil
}

func (s *Service) QuestsCompleted(ctx context.Context, p ProfileKey) (int, error) {
	var n int
	err := s.withProfile(ctx, p, func(r *storage.Repos) error {
		var err error
		n, err = r.Quests.CountCompleted(ctx, string(p))
		return err
	})
	return n, err
}

// advanceQuests moves every active quest tracking m by one. Today's and this
// week's quests are generated first so early activity is never lost.
func (s *Service) advanceQuests(ctx context.Context, r *storage.Repos, p ProfileKey, m QuestMetric) error {
	if _, err := s.generateDaily(ctx, r, p); err != nil {
		return err
	}
	if _, err := s.generateWeekly(ctx, r, p); err != nil {
		return err
	}
	n, err := r.Quests.Advance(ctx, string(p), string(m), 1, s.now())
	if err != nil {
		return err
	}
	if n > 0 {
		s.log.Debug("quest progress", "profile", p, "metric", m, "quests", n)
	}
	return nil
}

func questView(q storage.Quest) QuestView {
	return QuestView{
		ID:          q.ID,
		Title:       q.Title,
		Description: q.Description,
		Type:        QuestType(q.QuestType),
		XPReward:    q.XPReward,
		Skill:       SkillID(q.SkillTarget),
		Current:     q.CurrentValue,
		Target:      q.TargetValue,
		Completed:   q.Completed,
		ExpiresAt:   q.ExpiresAt,
		Percent:     questPercent(q.CurrentValue, q.TargetValue),
	}
}

func questPercent(current, target int) int {
	if target <= 0 {
		return 0
	}
	if current >= target {
		return 100
	}
	if current <= 0 {
		return 0
	}
	return current * 100 / target
}
