package root

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"auralife/internal/engine"
	"auralife/internal/ui"
)

func newXPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "xp",
		Short: "XP history",
	}
	cmd.AddCommand(newXPHistoryCmd(), newXPWeekCmd())
	return cmd
}

func newXPHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the latest XP awards",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			logs, err := a.svc.XPHistory(ctx, a.profile, limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if flagJSON {
				return printJSON(out, logs)
			}
			fmt.Fprintln(out, ui.Heading(ui.IconScroll, "XP history"))
			for _, l := range logs {
				skill := ""
				if l.Skill != "" {
					skill = ui.Muted.Render(" · " + engine.SkillID(l.Skill).Label())
				}
				fmt.Fprintf(out, "%s %s %s%s\n",
					ui.Muted.Render(l.CreatedAt.In(a.svc.Location()).Format("01-02 15:04")),
					ui.Gold.Render(fmt.Sprintf("%+d", l.Amount)), l.Source, skill)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of entries")
	return cmd
}

func newXPWeekCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "week",
		Short: "XP earned per day over the last 7 days",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			days, err := a.svc.WeeklyXP(ctx, a.profile, time.Now())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if flagJSON {
				return printJSON(out, days)
			}

			max, total := 1, 0
			for _, d := range days {
				if d.XP > max {
					max = d.XP
				}
				total += d.XP
			}
			fmt.Fprintln(out, ui.Heading(ui.IconChart, "XP this week"))
			for _, d := range days {
				fmt.Fprintf(out, "%s %s %d\n", d.Date, ui.ProgressBar(float64(d.XP)/float64(max), 20), d.XP)
			}
			fmt.Fprintln(out, ui.LabelValue("Total", total))
			return nil
		},
	}
	return cmd
}
