package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"auralife/internal/ui"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show level, title and skills",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			p, err := a.svc.Profile(ctx, a.profile)
			if err != nil {
				return err
			}
			skills, err := a.svc.Skills(ctx, a.profile)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if flagJSON {
				return printJSON(out, map[string]any{"profile": p, "skills": skills})
			}

			fmt.Fprintln(out, ui.Heading(ui.IconSparkle, fmt.Sprintf("%s · %s", p.Name, p.Title)))
			fmt.Fprintln(out, ui.LabelValue("Class", p.CharacterClass))
			fmt.Fprintln(out, ui.LabelValue("Level", p.Level))
			toNext := p.NextLevelXP - p.TotalXP
			if toNext < 0 {
				toNext = 0
			}
			fmt.Fprintln(out, ui.LabelValue("Total XP", fmt.Sprintf("%d (next at %d, %d to go)", p.TotalXP, p.NextLevelXP, toNext)))
			fmt.Fprintf(out, "%s %3.0f%%\n", ui.ProgressBar(p.Progress, 30), p.Progress*100)
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render(ui.IconChart+" Skills"))
			for _, s := range skills {
				fmt.Fprintf(out, "- %s %-13s lvl %2d %s %s\n", s.Icon, s.Label, s.Level, ui.ProgressBar(s.Progress, 14), ui.Muted.Render(fmt.Sprintf("(xp %d)", s.XP)))
			}
			return nil
		},
	}
	return cmd
}
