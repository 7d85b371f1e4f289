package engine

import (
	"context"
	"slices"
	"testing"
	"time"
)

func TestCheckAchievementsIsIdempotent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.AwardXP(ctx, testProfile, XPForLevel(5), "test", ""); err != nil {
		t.Fatalf("award: %v", err)
	}
	first, err := svc.CheckAchievements(ctx, testProfile)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !slices.Equal(first, []AchievementID{AchievementNiveau5}) {
		t.Fatalf("first=%v, want [niveau_5]", first)
	}
	second, err := svc.CheckAchievements(ctx, testProfile)
	if err != nil {
		t.Fatalf("check again: %v", err)
	}
	if len(second) != 0 {
		t.Fatalf("second=%v, want none", second)
	}
}

func TestUnlockStampIsWrittenOnce(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()

	if _, err := svc.AwardXP(ctx, testProfile, 10000, "test", SkillFocus); err != nil {
		t.Fatalf("award: %v", err)
	}
	if _, err := svc.CheckAchievements(ctx, testProfile); err != nil {
		t.Fatalf("check: %v", err)
	}
	clock.Advance(48 * time.Hour)
	if _, err := svc.CheckAchievements(ctx, testProfile); err != nil {
		t.Fatalf("check: %v", err)
	}

	list, err := svc.Achievements(ctx, testProfile)
	if err != nil {
		t.Fatalf("achievements: %v", err)
	}
	got := map[AchievementID]bool{}
	for _, a := range list {
		got[a.ID] = a.Unlocked
		if a.Unlocked && !a.UnlockedAt.Equal(testStart) {
			t.Fatalf("%s unlockedAt=%v, want %v", a.ID, a.UnlockedAt, testStart)
		}
	}
	for _, id := range []AchievementID{AchievementNiveau5, AchievementNiveau10, AchievementMillionnaireXP, AchievementMaitreSkill} {
		if !got[id] {
			t.Fatalf("%s locked at 10000 XP", id)
		}
	}
	if got[AchievementPenseur] || got[AchievementPremierPas] {
		t.Fatalf("unexpected unlocks: %v", got)
	}
}

func TestPenseurUnlocksOnTenthEntry(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for i := 1; i <= 10; i++ {
		res, err := svc.WriteJournal(ctx, testProfile, JournalInput{Content: "note"})
		if err != nil {
			t.Fatalf("journal #%d: %v", i, err)
		}
		has := slices.Contains(res.Unlocked, AchievementPenseur)
		if has != (i == 10) {
			t.Fatalf("entry %d unlocked Penseur=%v", i, has)
		}
	}
}

func TestParseAchievement(t *testing.T) {
	id, err := ParseAchievement("serie de 7")
	if err != nil || id != AchievementSerie7 {
		t.Fatalf("ParseAchievement=%s err=%v, want serie_7", id, err)
	}
	if _, err := ParseAchievement("nope"); err == nil {
		t.Fatalf("expected error for unknown achievement")
	}
	def, ok := LookupAchievement(AchievementMaitreSkill)
	if !ok || def.Name != "Maître Skill" {
		t.Fatalf("LookupAchievement=%+v ok=%v", def, ok)
	}
}
