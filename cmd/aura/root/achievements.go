package root

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"auralife/internal/engine"
	"auralife/internal/ui"
)

func newAchievementsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "achievements [name]",
		Aliases: []string{"ach"},
		Short:   "List achievements and check for new unlocks",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var only engine.AchievementID
			if len(args) == 1 {
				id, err := engine.ParseAchievement(args[0])
				if err != nil {
					return fmt.Errorf("%w (known: %s)", err, achievementKeys())
				}
				only = id
			}

			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			fresh, err := a.svc.CheckAchievements(ctx, a.profile)
			if err != nil {
				return err
			}
			list, err := a.svc.Achievements(ctx, a.profile)
			if err != nil {
				return err
			}
			if only != "" {
				list = slices.DeleteFunc(list, func(v engine.AchievementView) bool { return v.ID != only })
			}
			out := cmd.OutOrStdout()
			if flagJSON {
				return printJSON(out, list)
			}

			printUnlocked(out, fresh)
			fmt.Fprintln(out, ui.Heading(ui.IconTrophy, "Achievements"))
			for _, ach := range list {
				if ach.Unlocked {
					when := ach.UnlockedAt.In(a.svc.Location()).Format("2006-01-02")
					fmt.Fprintf(out, "%s %s %s\n", ach.Icon, ui.Gold.Render(ach.Name), ui.Muted.Render(when))
					continue
				}
				fmt.Fprintf(out, "%s %s %s\n", ui.IconLock, ui.Muted.Render(ach.Name), ui.Muted.Render("· "+ach.Description))
			}
			return nil
		},
	}
	return cmd
}

func achievementKeys() string {
	defs := engine.Registry()
	keys := make([]string, 0, len(defs))
	for _, d := range defs {
		keys = append(keys, string(d.ID))
	}
	return strings.Join(keys, ", ")
}
