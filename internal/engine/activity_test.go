package engine

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestSleepDuration(t *testing.T) {
	tests := []struct {
		bed, wake string
		want      float64
	}{
		{"23:00", "07:00", 8},
		{"22:30", "06:15", 7.8},
		{"01:10", "09:00", 7.8},
		{"08:00", "08:00", 0},
		{"13:00", "14:20", 1.3},
	}
	for _, tt := range tests {
		got, err := SleepDuration(tt.bed, tt.wake)
		if err != nil {
			t.Fatalf("SleepDuration(%s,%s): %v", tt.bed, tt.wake, err)
		}
		if got != tt.want {
			t.Fatalf("SleepDuration(%s,%s)=%v, want %v", tt.bed, tt.wake, got, tt.want)
		}
	}
	for _, bad := range [][2]string{{"25:00", "07:00"}, {"23:00", "7h"}} {
		if _, err := SleepDuration(bad[0], bad[1]); err == nil {
			t.Fatalf("SleepDuration(%v) succeeded, want error", bad)
		}
	}
}

func TestLogActivitiesAwardXP(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	energy, err := svc.LogEnergy(ctx, testProfile, EnergyInput{Level: 8, Mood: "bien"})
	if err != nil {
		t.Fatalf("energy: %v", err)
	}
	sleep, err := svc.LogSleep(ctx, testProfile, SleepInput{Bedtime: "23:30", Waketime: "07:00", Quality: 7})
	if err != nil {
		t.Fatalf("sleep: %v", err)
	}
	journal, err := svc.WriteJournal(ctx, testProfile, JournalInput{Content: "Bonne journée"})
	if err != nil {
		t.Fatalf("journal: %v", err)
	}

	checks := []struct {
		name  string
		res   ActivityResult
		xp    int
		skill SkillID
	}{
		{"energy", energy, 5, SkillEnergie},
		{"sleep", sleep, 10, SkillSante},
		{"journal", journal, 5, SkillIntelligence},
	}
	for _, c := range checks {
		if !c.res.Applied || c.res.Award.Amount != c.xp || c.res.Award.Skill != c.skill {
			t.Fatalf("%s=%+v, want %d XP to %s", c.name, c.res, c.xp, c.skill)
		}
	}
	if p := getProfile(t, svc); p.TotalXP != 20 {
		t.Fatalf("xp=%d, want 20", p.TotalXP)
	}

	logs, err := svc.SleepLogs(ctx, testProfile, 5)
	if err != nil {
		t.Fatalf("sleep logs: %v", err)
	}
	if len(logs) != 1 || logs[0].Duration != 7.5 || logs[0].Date != "2025-03-12" {
		t.Fatalf("sleep logs=%+v, want 7.5h on 2025-03-12", logs)
	}
	entries, err := svc.JournalEntries(ctx, testProfile, 5)
	if err != nil || len(entries) != 1 {
		t.Fatalf("entries=%v err=%v", entries, err)
	}
}

func TestLogValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.LogEnergy(ctx, testProfile, EnergyInput{Level: 11}); err == nil {
		t.Fatalf("energy 11 accepted")
	}
	if _, err := svc.LogSleep(ctx, testProfile, SleepInput{Bedtime: "23:00", Waketime: "07:00", Quality: 0}); err == nil {
		t.Fatalf("quality 0 accepted")
	}
	if _, err := svc.WriteJournal(ctx, testProfile, JournalInput{Content: "   "}); err == nil {
		t.Fatalf("empty journal accepted")
	}
	if p := getProfile(t, svc); p.TotalXP != 0 {
		t.Fatalf("xp=%d after rejected logs, want 0", p.TotalXP)
	}
}

func TestProjectLifecycle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id, err := svc.CreateProject(ctx, testProfile, ProjectInput{Title: "Site perso"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.SetProjectStatus(ctx, testProfile, id, ProjectActive); err != nil {
		t.Fatalf("activate: %v", err)
	}

	res, err := svc.CompleteProject(ctx, testProfile, id)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !res.Applied || res.Award.Amount != 50 || res.Award.Skill != SkillBusiness {
		t.Fatalf("res=%+v, want 50 XP business", res)
	}
	again, err := svc.CompleteProject(ctx, testProfile, id)
	if err != nil || again.Applied {
		t.Fatalf("again=%+v err=%v, want no-op", again, err)
	}
	if p := getProfile(t, svc); p.TotalXP != 50 {
		t.Fatalf("xp=%d, want 50", p.TotalXP)
	}
	if err := svc.SetProjectStatus(ctx, testProfile, id, ProjectIdea); err == nil {
		t.Fatalf("reopening a done project succeeded")
	}
	if _, err := svc.CompleteProject(ctx, testProfile, 404); !IsNotFound(err) {
		t.Fatalf("err=%v, want NotFoundError", err)
	}

	list, err := svc.Projects(ctx, testProfile)
	if err != nil || len(list) != 1 || list[0].Status != string(ProjectDone) {
		t.Fatalf("projects=%+v err=%v", list, err)
	}
}

func TestWeeklyXP(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()

	clock.now = time.Date(2025, 3, 5, 12, 0, 0, 0, time.UTC) // day before the window
	if _, err := svc.AwardXP(ctx, testProfile, 999, "old", ""); err != nil {
		t.Fatalf("award: %v", err)
	}
	clock.now = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	for _, amount := range []int{20, 30} {
		if _, err := svc.AwardXP(ctx, testProfile, amount, "test", ""); err != nil {
			t.Fatalf("award: %v", err)
		}
	}
	clock.now = time.Date(2025, 3, 12, 23, 59, 0, 0, time.UTC)
	if _, err := svc.AwardXP(ctx, testProfile, 7, "late", ""); err != nil {
		t.Fatalf("award: %v", err)
	}

	week, err := svc.WeeklyXP(ctx, testProfile, testStart)
	if err != nil {
		t.Fatalf("weekly: %v", err)
	}
	if len(week) != 7 || week[0].Date != "2025-03-06" || week[6].Date != "2025-03-12" {
		t.Fatalf("week=%+v, want 03-06..03-12", week)
	}
	want := []int{0, 0, 0, 0, 50, 0, 7}
	for i, d := range week {
		if d.XP != want[i] {
			t.Fatalf("day %s xp=%d, want %d", d.Date, d.XP, want[i])
		}
	}
}

func TestGenerateTips(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tips, err := svc.GenerateTips(ctx, testProfile, testStart)
	if err != nil {
		t.Fatalf("tips: %v", err)
	}
	if len(tips) != 1 || !strings.HasPrefix(tips[0], "✨") {
		t.Fatalf("tips=%v, want the single positive tip", tips)
	}

	if _, err := svc.CreateHabit(ctx, testProfile, HabitInput{Name: "A"}); err != nil {
		t.Fatalf("habit: %v", err)
	}
	if _, err := svc.CreateHabit(ctx, testProfile, HabitInput{Name: "B"}); err != nil {
		t.Fatalf("habit: %v", err)
	}
	if _, err := svc.LogEnergy(ctx, testProfile, EnergyInput{Level: 3}); err != nil {
		t.Fatalf("energy: %v", err)
	}
	for i := 0; i < 6; i++ {
		if _, err := svc.CreateProject(ctx, testProfile, ProjectInput{Title: "P", Status: ProjectActive}); err != nil {
			t.Fatalf("project: %v", err)
		}
	}

	tips, err = svc.GenerateTips(ctx, testProfile, testStart)
	if err != nil {
		t.Fatalf("tips: %v", err)
	}
	want := []string{
		"🔥 Tu as 2 habitude(s) non complétée(s) aujourd'hui",
		"⚡ Ton niveau d'énergie est bas. Prends une pause !",
		"📋 Tu as 6 projets actifs. Focus sur 2-3 max.",
	}
	if len(tips) != len(want) {
		t.Fatalf("tips=%v, want %v", tips, want)
	}
	for i := range want {
		if tips[i] != want[i] {
			t.Fatalf("tip[%d]=%q, want %q", i, tips[i], want[i])
		}
	}
}

func TestDashboardGeneratesQuests(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	d, err := svc.Dashboard(ctx, testProfile, testStart)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if d.NewDailyQuests != 3 || !d.NewBossQuest || len(d.Quests) != 4 {
		t.Fatalf("dashboard quests=%d new=%d boss=%v", len(d.Quests), d.NewDailyQuests, d.NewBossQuest)
	}
	if d.Profile.NextLevelXP != 282 || d.Profile.LevelXP != 100 {
		t.Fatalf("profile=%+v", d.Profile)
	}
	if len(d.Skills) != 8 || len(d.Achievements) != 8 || len(d.Tips) != 1 {
		t.Fatalf("dashboard=%+v", d)
	}

	again, err := svc.Dashboard(ctx, testProfile, testStart)
	if err != nil {
		t.Fatalf("dashboard again: %v", err)
	}
	if again.NewDailyQuests != 0 || again.NewBossQuest || len(again.Quests) != 4 {
		t.Fatalf("second dashboard regenerated quests: %+v", again.Quests)
	}
}
