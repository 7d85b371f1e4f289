package engine

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"
)

func day(d int) time.Time {
	return time.Date(2025, 3, d, 9, 0, 0, 0, time.UTC)
}

func TestCompleteHabitReachesSeriesOfSeven(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id, err := svc.CreateHabit(ctx, testProfile, HabitInput{Name: "Méditer", Skill: SkillFocus})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.store.Repos().Habits.UpdateStreak(ctx, id, 6, 6); err != nil {
		t.Fatalf("seed streak: %v", err)
	}

	res, err := svc.CompleteHabit(ctx, testProfile, id, testStart)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !res.Applied || res.Streak != 7 || res.BestStreak != 7 {
		t.Fatalf("res=%+v, want applied 7/7", res)
	}
	if !slices.Contains(res.Unlocked, AchievementSerie7) {
		t.Fatalf("unlocked=%v, want serie_7", res.Unlocked)
	}
	if res.Award.Amount != 10 || res.Award.Skill != SkillFocus {
		t.Fatalf("award=%+v, want 10 XP to focus", res.Award)
	}

	again, err := svc.CheckAchievements(ctx, testProfile)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("re-check unlocked %v, want none", again)
	}
}

func TestCompleteHabitTwiceSameDay(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id, err := svc.CreateHabit(ctx, testProfile, HabitInput{Name: "Courir", XPReward: 25})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	done, err := svc.HasCompletion(ctx, testProfile, id, testStart)
	if err != nil || done {
		t.Fatalf("HasCompletion before=%v err=%v", done, err)
	}

	first, err := svc.CompleteHabit(ctx, testProfile, id, testStart)
	if err != nil || !first.Applied {
		t.Fatalf("first=%+v err=%v", first, err)
	}
	if !slices.Contains(first.Unlocked, AchievementPremierPas) {
		t.Fatalf("unlocked=%v, want premier_pas", first.Unlocked)
	}
	second, err := svc.CompleteHabit(ctx, testProfile, id, testStart.Add(3*time.Hour))
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if second.Applied || second.Streak != 1 {
		t.Fatalf("second=%+v, want no-op with streak 1", second)
	}
	if p := getProfile(t, svc); p.TotalXP != 25 {
		t.Fatalf("xp=%d, want 25", p.TotalXP)
	}
	done, err = svc.HasCompletion(ctx, testProfile, id, testStart)
	if err != nil || !done {
		t.Fatalf("HasCompletion after=%v err=%v", done, err)
	}
}

func TestStreakPolicies(t *testing.T) {
	tests := []struct {
		name   string
		policy StreakPolicy
		days   []int
		streak int
		best   int
	}{
		{"no reset keeps counting", NoResetPolicy{}, []int{10, 11, 13}, 3, 3},
		{"reset on miss", ResetOnMissPolicy{}, []int{10, 11, 13}, 1, 2},
		{"reset on miss consecutive", ResetOnMissPolicy{}, []int{10, 11, 12}, 3, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t, WithStreakPolicy(tt.policy))
			ctx := context.Background()

			id, err := svc.CreateHabit(ctx, testProfile, HabitInput{Name: "Eau"})
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			var res HabitResult
			for _, d := range tt.days {
				if res, err = svc.CompleteHabit(ctx, testProfile, id, day(d)); err != nil {
					t.Fatalf("complete day %d: %v", d, err)
				}
			}
			if res.Streak != tt.streak || res.BestStreak != tt.best {
				t.Fatalf("streak=%d best=%d, want %d/%d", res.Streak, res.BestStreak, tt.streak, tt.best)
			}
		})
	}
}

func TestResetOnMissWeekly(t *testing.T) {
	p := ResetOnMissPolicy{}
	wed := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	if got := p.NextStreak(4, HabitWeekly, time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), wed); got != 5 {
		t.Fatalf("previous week=%d, want 5", got)
	}
	if got := p.NextStreak(4, HabitWeekly, time.Date(2025, 2, 24, 0, 0, 0, 0, time.UTC), wed); got != 1 {
		t.Fatalf("two weeks back=%d, want 1", got)
	}
	if got := p.NextStreak(0, HabitDaily, time.Time{}, wed); got != 1 {
		t.Fatalf("first completion=%d, want 1", got)
	}
}

func TestHabitsListAndDelete(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	a, _ := svc.CreateHabit(ctx, testProfile, HabitInput{Name: "A"})
	b, _ := svc.CreateHabit(ctx, testProfile, HabitInput{Name: "B", Frequency: HabitWeekly, Skill: SkillSocial})
	if _, err := svc.CompleteHabit(ctx, testProfile, a, testStart); err != nil {
		t.Fatalf("complete: %v", err)
	}

	list, err := svc.Habits(ctx, testProfile, testStart)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || !list[0].DoneToday || list[1].DoneToday {
		t.Fatalf("list=%+v, want A done, B pending", list)
	}
	if list[1].Frequency != HabitWeekly || list[1].Skill != SkillSocial || list[1].XPReward != 10 {
		t.Fatalf("B=%+v, want weekly social 10 XP", list[1])
	}

	if err := svc.DeleteHabit(ctx, testProfile, b); err != nil {
		t.Fatalf("delete: %v", err)
	}
	err = svc.DeleteHabit(ctx, testProfile, b)
	var nf NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("delete twice err=%v, want NotFoundError", err)
	}
	if _, err := svc.CompleteHabit(ctx, testProfile, b, testStart); !IsNotFound(err) {
		t.Fatalf("complete deleted err=%v, want NotFoundError", err)
	}
}

func TestCreateHabitValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	bad := []HabitInput{
		{Name: "  "},
		{Name: "x", Frequency: "monthly"},
		{Name: "x", Skill: "cuisine"},
		{Name: "x", XPReward: -1},
	}
	for _, in := range bad {
		if _, err := svc.CreateHabit(ctx, testProfile, in); err == nil {
			t.Fatalf("CreateHabit(%+v) succeeded, want error", in)
		}
	}
}
