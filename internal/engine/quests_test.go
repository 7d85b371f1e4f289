package engine

import (
	"context"
	"errors"
	"testing"
	"time"
)

func countQuests(t *testing.T, svc *Service, typ QuestType) int {
	t.Helper()
	from := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC)
	n, err := svc.store.Repos().Quests.CountCreatedBetween(context.Background(), string(testProfile), string(typ), from, to)
	if err != nil {
		t.Fatalf("count quests: %v", err)
	}
	return n
}

func TestGenerateDailyQuestsOncePerDay(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()

	n, err := svc.GenerateDailyQuests(ctx, testProfile)
	if err != nil || n != 3 {
		t.Fatalf("first generate=%d err=%v, want 3", n, err)
	}
	clock.Advance(6 * time.Hour)
	n, err = svc.GenerateDailyQuests(ctx, testProfile)
	if err != nil || n != 0 {
		t.Fatalf("second generate=%d err=%v, want 0", n, err)
	}
	if got := countQuests(t, svc, QuestDaily); got != 3 {
		t.Fatalf("daily quests=%d, want 3", got)
	}
}

func TestGenerateDailyQuestsAcrossDays(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()

	if _, err := svc.GenerateDailyQuests(ctx, testProfile); err != nil {
		t.Fatalf("day 1: %v", err)
	}
	day1, err := svc.ActiveQuests(ctx, testProfile)
	if err != nil {
		t.Fatalf("active day 1: %v", err)
	}

	clock.Advance(24 * time.Hour)
	if _, err := svc.GenerateDailyQuests(ctx, testProfile); err != nil {
		t.Fatalf("day 2: %v", err)
	}
	day2, err := svc.ActiveQuests(ctx, testProfile)
	if err != nil {
		t.Fatalf("active day 2: %v", err)
	}

	if got := countQuests(t, svc, QuestDaily); got != 6 {
		t.Fatalf("daily quests=%d, want 6", got)
	}
	if len(day1) != 3 || len(day2) != 3 {
		t.Fatalf("windows hold %d and %d quests, want 3 each", len(day1), len(day2))
	}
	if day1[0].ID == day2[0].ID {
		t.Fatalf("day windows overlap")
	}
	wantExpiry := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	if !day2[0].ExpiresAt.Equal(wantExpiry) {
		t.Fatalf("expiresAt=%v, want %v", day2[0].ExpiresAt, wantExpiry)
	}
}

func TestGenerateWeeklyQuestOncePerWeek(t *testing.T) {
	svc, clock := newTestService(t, WithBossSelector(FixedBoss(2)))
	ctx := context.Background()

	created, err := svc.GenerateWeeklyQuest(ctx, testProfile)
	if err != nil || !created {
		t.Fatalf("first=%v err=%v, want true", created, err)
	}
	// Sunday evening is still the same ISO week.
	clock.now = time.Date(2025, 3, 16, 23, 0, 0, 0, time.UTC)
	created, err = svc.GenerateWeeklyQuest(ctx, testProfile)
	if err != nil || created {
		t.Fatalf("second=%v err=%v, want false", created, err)
	}
	if got := countQuests(t, svc, QuestBoss); got != 1 {
		t.Fatalf("boss quests=%d, want 1", got)
	}

	quests, err := svc.ActiveQuests(ctx, testProfile)
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if len(quests) != 1 || quests[0].Title != "🐉 Boss: Fatigue" || quests[0].Target != 7 {
		t.Fatalf("quests=%+v, want the Fatigue boss", quests)
	}
	wantExpiry := time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC)
	if !quests[0].ExpiresAt.Equal(wantExpiry) {
		t.Fatalf("expiresAt=%v, want %v", quests[0].ExpiresAt, wantExpiry)
	}

	// Monday starts a new week.
	clock.now = wantExpiry
	created, err = svc.GenerateWeeklyQuest(ctx, testProfile)
	if err != nil || !created {
		t.Fatalf("next week=%v err=%v, want true", created, err)
	}
}

func TestCompleteQuestOnce(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.GenerateDailyQuests(ctx, testProfile); err != nil {
		t.Fatalf("generate: %v", err)
	}
	quests, err := svc.ActiveQuests(ctx, testProfile)
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	q := quests[1] // Triple Habitude, 50 XP to Discipline

	res, err := svc.CompleteQuest(ctx, testProfile, q.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !res.Applied || res.Award.Amount != 50 || res.Award.Skill != SkillDiscipline {
		t.Fatalf("res=%+v, want applied 50 XP discipline", res)
	}
	again, err := svc.CompleteQuest(ctx, testProfile, q.ID)
	if err != nil {
		t.Fatalf("complete again: %v", err)
	}
	if again.Applied {
		t.Fatalf("second completion applied")
	}
	if p := getProfile(t, svc); p.TotalXP != 50 {
		t.Fatalf("xp=%d, want 50", p.TotalXP)
	}
	if n, _ := svc.QuestsCompleted(ctx, testProfile); n != 1 {
		t.Fatalf("completed=%d, want 1", n)
	}

	_, err = svc.CompleteQuest(ctx, testProfile, 9999)
	var nf NotFoundError
	if !errors.As(err, &nf) || nf.Kind != "quest" {
		t.Fatalf("err=%v, want quest NotFoundError", err)
	}
}

func TestActivitiesAdvanceQuestProgress(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.GenerateDailyQuests(ctx, testProfile); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := svc.GenerateWeeklyQuest(ctx, testProfile); err != nil {
		t.Fatalf("generate weekly: %v", err)
	}
	if _, err := svc.LogEnergy(ctx, testProfile, EnergyInput{Level: 7}); err != nil {
		t.Fatalf("energy: %v", err)
	}
	h, err := svc.CreateHabit(ctx, testProfile, HabitInput{Name: "Lire"})
	if err != nil {
		t.Fatalf("habit: %v", err)
	}
	if _, err := svc.CompleteHabit(ctx, testProfile, h, testStart); err != nil {
		t.Fatalf("complete habit: %v", err)
	}

	quests, err := svc.ActiveQuests(ctx, testProfile)
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	got := map[string]int{}
	for _, q := range quests {
		got[q.Title] = q.Percent
	}
	want := map[string]int{
		"Lève-tôt":                 100,
		"Triple Habitude":          33,
		"Pensée du Jour":           0,
		"🐉 Boss: Procrastination": 5,
	}
	for title, pct := range want {
		if got[title] != pct {
			t.Fatalf("%s percent=%d, want %d (all=%v)", title, got[title], pct, got)
		}
	}
	// Progress alone never completes a quest.
	for _, q := range quests {
		if q.Completed {
			t.Fatalf("%s completed without an explicit call", q.Title)
		}
	}
}

func TestQuestPercent(t *testing.T) {
	tests := []struct{ cur, target, want int }{
		{0, 3, 0},
		{1, 3, 33},
		{3, 3, 100},
		{9, 3, 100},
		{1, 0, 0},
	}
	for _, tt := range tests {
		if got := questPercent(tt.cur, tt.target); got != tt.want {
			t.Fatalf("questPercent(%d,%d)=%d, want %d", tt.cur, tt.target, got, tt.want)
		}
	}
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		in   time.Time
		want time.Time
	}{
		{time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC), time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)},
		{time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)},
		{time.Date(2025, 3, 16, 23, 59, 0, 0, time.UTC), time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)},
		{time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC), time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		if got := weekStart(tt.in); !got.Equal(tt.want) {
			t.Fatalf("weekStart(%v)=%v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestEarlyActivityCountsTowardsQuests(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.LogEnergy(ctx, testProfile, EnergyInput{Level: 7}); err != nil {
		t.Fatalf("energy: %v", err)
	}
	h, err := svc.CreateHabit(ctx, testProfile, HabitInput{Name: "Sport"})
	if err != nil {
		t.Fatalf("habit: %v", err)
	}
	if _, err := svc.CompleteHabit(ctx, testProfile, h, testStart); err != nil {
		t.Fatalf("complete habit: %v", err)
	}

	d, err := svc.Dashboard(ctx, testProfile, testStart)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if d.NewDailyQuests != 0 || d.NewBossQuest {
		t.Fatalf("dashboard generated quests again: daily=%d boss=%v", d.NewDailyQuests, d.NewBossQuest)
	}
	got := map[string]int{}
	for _, q := range d.Quests {
		got[q.Title] = q.Current
	}
	want := map[string]int{
		"Lève-tôt":                 1,
		"Triple Habitude":          1,
		"Pensée du Jour":           0,
		"🐉 Boss: Procrastination": 1,
	}
	for title, n := range want {
		if got[title] != n {
			t.Fatalf("%s progress=%d, want %d (all=%v)", title, got[title], n, got)
		}
	}
	if got := countQuests(t, svc, QuestDaily); got != 3 {
		t.Fatalf("daily quests=%d, want 3", got)
	}
}

func TestOutOfRangeBossFallsBackToFirst(t *testing.T) {
	svc, _ := newTestService(t, WithBossSelector(FixedBoss(len(BossTemplates()))))
	ctx := context.Background()

	created, err := svc.GenerateWeeklyQuest(ctx, testProfile)
	if err != nil || !created {
		t.Fatalf("created=%v err=%v", created, err)
	}
	quests, err := svc.ActiveQuests(ctx, testProfile)
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	want := BossTemplates()[0].Title
	for _, q := range quests {
		if q.Type == QuestBoss && q.Title != want {
			t.Fatalf("boss=%q, want %q", q.Title, want)
		}
	}
}
