package root

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"auralife/internal/engine"
	"auralife/internal/storage"
	"auralife/internal/ui"
)

func newLogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Log energy, sleep and journal entries",
	}
	cmd.AddCommand(newLogEnergyCmd(), newLogSleepCmd(), newLogJournalCmd(), newLogRecentCmd())
	return cmd
}

func reportActivity(cmd *cobra.Command, label string, res engine.ActivityResult) error {
	out := cmd.OutOrStdout()
	if flagJSON {
		return printJSON(out, res)
	}
	fmt.Fprintf(out, "%s #%d\n", ui.Good.Render(label), res.ID)
	printAward(out, res.Award)
	printUnlocked(out, res.Unlocked)
	return nil
}

func newLogEnergyCmd() *cobra.Command {
	var in engine.EnergyInput

	cmd := &cobra.Command{
		Use:   "energy <level 1-10>",
		Short: "Log your energy level",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := fmt.Sscanf(args[0], "%d", &in.Level); err != nil {
				return fmt.Errorf("level must be an integer, got %q", args[0])
			}

			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := a.svc.LogEnergy(ctx, a.profile, in)
			if err != nil {
				return err
			}
			return reportActivity(cmd, ui.IconBolt+" Energy logged", res)
		},
	}
	cmd.Flags().StringVar(&in.Mood, "mood", "", "Mood")
	cmd.Flags().StringVar(&in.Activity, "activity", "", "What you were doing")
	cmd.Flags().Float64Var(&in.SleepHours, "sleep", 0, "Hours slept last night")
	cmd.Flags().StringVar(&in.Notes, "notes", "", "Notes")
	return cmd
}

func newLogSleepCmd() *cobra.Command {
	var in engine.SleepInput
	var date string

	cmd := &cobra.Command{
		Use:   "sleep <bedtime HH:MM> <waketime HH:MM>",
		Short: "Log a night of sleep",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Bedtime, in.Waketime = args[0], args[1]

			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if date != "" {
				if in.Date, err = time.ParseInLocation(storage.DateLayout, date, a.svc.Location()); err != nil {
					return fmt.Errorf("invalid --date %q (want YYYY-MM-DD)", date)
				}
			}
			res, err := a.svc.LogSleep(ctx, a.profile, in)
			if err != nil {
				return err
			}
			hours, _ := engine.SleepDuration(in.Bedtime, in.Waketime)
			return reportActivity(cmd, fmt.Sprintf("%s Sleep logged (%.1fh)", ui.IconMoon, hours), res)
		},
	}
	cmd.Flags().IntVarP(&in.Quality, "quality", "q", 7, "Sleep quality (1-10)")
	cmd.Flags().StringVar(&in.Notes, "notes", "", "Notes")
	cmd.Flags().StringVar(&date, "date", "", "Night date (YYYY-MM-DD, default today)")
	return cmd
}

func newLogJournalCmd() *cobra.Command {
	var in engine.JournalInput

	cmd := &cobra.Command{
		Use:   "journal <text...>",
		Short: "Write a journal entry",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("entry text is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Content = strings.Join(args, " ")

			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := a.svc.WriteJournal(ctx, a.profile, in)
			if err != nil {
				return err
			}
			return reportActivity(cmd, ui.IconBook+" Journal entry saved", res)
		},
	}
	cmd.Flags().StringVar(&in.Mood, "mood", "", "Mood")
	cmd.Flags().StringVar(&in.Tags, "tags", "", "Comma-separated tags")
	return cmd
}

func newLogRecentCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Show recent journal entries and nights",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			entries, err := a.svc.JournalEntries(ctx, a.profile, limit)
			if err != nil {
				return err
			}
			nights, err := a.svc.SleepLogs(ctx, a.profile, limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if flagJSON {
				return printJSON(out, map[string]any{"journal": entries, "sleep": nights})
			}

			fmt.Fprintln(out, ui.H2.Render(ui.IconBook+" Journal"))
			for _, e := range entries {
				fmt.Fprintf(out, "- %s %s\n", ui.Muted.Render(e.CreatedAt.In(a.svc.Location()).Format("2006-01-02 15:04")), e.Content)
			}
			fmt.Fprintln(out, "")
			fmt.Fprintln(out, ui.H2.Render(ui.IconMoon+" Sleep"))
			for _, n := range nights {
				fmt.Fprintf(out, "- %s %s→%s %.1fh %s\n", n.Date, n.Bedtime, n.Waketime, n.Duration, ui.Muted.Render(fmt.Sprintf("(quality %d)", n.Quality)))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 5, "Entries per section")
	return cmd
}
