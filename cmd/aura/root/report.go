package root

import (
	"fmt"
	"io"

	"auralife/internal/engine"
	"auralife/internal/ui"
)

func printAward(w io.Writer, a engine.AwardResult) {
	line := ui.Gold.Render(fmt.Sprintf("+%d XP", a.Amount))
	if a.Skill != "" {
		line += " " + ui.Muted.Render(fmt.Sprintf("(%s %s)", a.Skill.Icon(), a.Skill.Label()))
	}
	fmt.Fprintln(w, line)
	if a.LeveledUp {
		fmt.Fprintf(w, "%s %s\n", ui.BadgeLevelUp, ui.LabelValue("Level", fmt.Sprintf("%d → %d · %s", a.LevelBefore, a.LevelAfter, a.Title)))
	}
}

func printUnlocked(w io.Writer, ids []engine.AchievementID) {
	for _, id := range ids {
		def, ok := engine.LookupAchievement(id)
		if !ok {
			continue
		}
		fmt.Fprintf(w, "%s %s %s\n", ui.Gold.Render(ui.IconTrophy+" Achievement unlocked:"), def.Icon, def.Name)
	}
}
