package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(context.Background(), filepath.Join(t.TempDir(), "aura.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestMigrateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)
	for i := 0; i < 3; i++ {
		if err := Migrate(ctx, st.DB()); err != nil {
			t.Fatalf("migrate #%d: %v", i, err)
		}
	}
	var n int
	if err := st.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_version`).Scan(&n); err != nil {
		t.Fatalf("count versions: %v", err)
	}
	if n != 1 {
		t.Fatalf("schema_version rows=%d, want 1", n)
	}
}

func TestHabitLogUniquePerDate(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)
	r := st.Repos()

	id, err := r.Habits.Insert(ctx, Habit{ProfileKey: "main", Name: "Run", Frequency: "daily", SkillTarget: "sante", XPReward: 10, CreatedAt: time.Now()})
	if err != nil {
		t.Fatalf("insert habit: %v", err)
	}
	if _, err := r.HabitLogs.Insert(ctx, id, "2025-03-10"); err != nil {
		t.Fatalf("first log: %v", err)
	}
	if _, err := r.HabitLogs.Insert(ctx, id, "2025-03-10"); err == nil {
		t.Fatalf("expected unique violation on second log for the same date")
	}
	ok, err := r.HabitLogs.Exists(ctx, id, "2025-03-10")
	if err != nil || !ok {
		t.Fatalf("Exists=%v err=%v, want true", ok, err)
	}

	last, err := r.HabitLogs.LastBefore(ctx, id, "2025-03-11")
	if err != nil {
		t.Fatalf("last before: %v", err)
	}
	if last == nil || last.CompletedOn != "2025-03-10" {
		t.Fatalf("LastBefore=%+v, want 2025-03-10", last)
	}

	deleted, err := r.Habits.Delete(ctx, "main", id)
	if err != nil || !deleted {
		t.Fatalf("Delete=%v err=%v", deleted, err)
	}
	n, err := r.HabitLogs.Count(ctx, "main")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("logs after delete=%d, want 0", n)
	}
}

func TestXPLogBetweenOrdersChronologically(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)
	r := st.Repos()

	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	// Inserted out of order, with and without sub-second parts.
	for _, off := range []time.Duration{2 * time.Hour, 500 * time.Millisecond, 0, time.Hour + 123*time.Microsecond} {
		if _, err := r.XPLogs.Insert(ctx, XPLog{ProfileKey: "main", Amount: 1, Source: "t", CreatedAt: base.Add(off)}); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	logs, err := r.XPLogs.Between(ctx, "main", base, base.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("between: %v", err)
	}
	if len(logs) != 3 {
		t.Fatalf("len=%d, want 3", len(logs))
	}
	for i := 1; i < len(logs); i++ {
		if !logs[i-1].CreatedAt.Before(logs[i].CreatedAt) {
			t.Fatalf("logs not chronological at %d: %v then %v", i, logs[i-1].CreatedAt, logs[i].CreatedAt)
		}
	}
}

func TestAchievementUnlockStampsOnce(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)
	r := st.Repos()

	if err := r.Achievements.Seed(ctx, "main", "penseur", 0); err != nil {
		t.Fatalf("seed: %v", err)
	}
	first := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	ok, err := r.Achievements.Unlock(ctx, "main", "penseur", first)
	if err != nil || !ok {
		t.Fatalf("first unlock=%v err=%v", ok, err)
	}
	ok, err = r.Achievements.Unlock(ctx, "main", "penseur", first.Add(time.Hour))
	if err != nil || ok {
		t.Fatalf("second unlock=%v err=%v, want false", ok, err)
	}

	list, err := r.Achievements.List(ctx, "main")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].UnlockedAt == nil || !list[0].UnlockedAt.Equal(first) {
		t.Fatalf("achievement=%+v, want unlocked at %v", list, first)
	}
}

func TestQuestAdvanceCapsAtTarget(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)
	r := st.Repos()

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	id, err := r.Quests.Insert(ctx, Quest{
		ProfileKey: "main", Title: "Triple", QuestType: "daily", XPReward: 50, SkillTarget: "discipline",
		Metric: "habit_done", TargetValue: 3, CreatedAt: now, ExpiresAt: now.Add(12 * time.Hour),
	})
	if err != nil {
		t.Fatalf("insert quest: %v", err)
	}
	for i := 0; i < 5; i++ {
		if _, err := r.Quests.Advance(ctx, "main", "habit_done", 1, now.Add(time.Minute)); err != nil {
			t.Fatalf("advance: %v", err)
		}
	}
	q, err := r.Quests.Get(ctx, "main", id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if q.CurrentValue != 3 {
		t.Fatalf("CurrentValue=%d, want 3", q.CurrentValue)
	}

	// Expired quests no longer move.
	n, err := r.Quests.Advance(ctx, "main", "habit_done", 1, now.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("advance expired: %v", err)
	}
	if n != 0 {
		t.Fatalf("advanced %d expired quests, want 0", n)
	}
}

func TestProjectMarkDoneOnce(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	var id int64
	err := st.WithTx(ctx, func(r *Repos) error {
		var err error
		id, err = r.Projects.Insert(ctx, Project{ProfileKey: "main", Title: "Site", Status: "active", Priority: 5, Category: "general", CreatedAt: time.Now()})
		return err
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	r := st.Repos()
	now := time.Now()
	if ok, err := r.Projects.MarkDone(ctx, "main", id, now); err != nil || !ok {
		t.Fatalf("MarkDone=%v err=%v, want true", ok, err)
	}
	if ok, err := r.Projects.MarkDone(ctx, "main", id, now); err != nil || ok {
		t.Fatalf("second MarkDone=%v err=%v, want false", ok, err)
	}
	p, err := r.Projects.Get(ctx, "main", id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.Status != "done" || p.CompletedAt == nil {
		t.Fatalf("project=%+v, want done with completed_at", p)
	}
	if n, _ := r.Projects.CountByStatus(ctx, "main", "active"); n != 0 {
		t.Fatalf("active=%d, want 0", n)
	}
}
