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

func newHabitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "habit",
		Aliases: []string{"h"},
		Short:   "Manage habits and streaks",
	}
	cmd.AddCommand(newHabitAddCmd(), newHabitListCmd(), newHabitDoneCmd(), newHabitRmCmd())
	return cmd
}

func newHabitAddCmd() *cobra.Command {
	var icon, freq, skill string
	var xp int

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a habit",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("name is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := engine.ParseHabitFrequency(freq)
			if err != nil {
				return err
			}
			sk, err := engine.ParseSkill(skill)
			if err != nil {
				return err
			}

			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			id, err := a.svc.CreateHabit(ctx, a.profile, engine.HabitInput{Name: args[0], Icon: icon, Frequency: f, Skill: sk, XPReward: xp})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s #%d %s\n", ui.Good.Render(ui.IconPlus+" Habit created"), id, args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&icon, "icon", "", "Icon shown next to the habit")
	cmd.Flags().StringVarP(&freq, "freq", "f", "daily", "Frequency (daily|weekly)")
	cmd.Flags().StringVarP(&skill, "skill", "s", "discipline", "Skill that receives the XP ("+skillKeys()+")")
	cmd.Flags().IntVar(&xp, "xp", 10, "XP reward per completion")
	return cmd
}

func newHabitListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List habits with today's status",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			habits, err := a.svc.Habits(ctx, a.profile, time.Now())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if flagJSON {
				return printJSON(out, habits)
			}
			fmt.Fprintln(out, ui.Heading(ui.IconLoop, "Habits"))
			if len(habits) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("(none yet: aura habit add <name>)"))
				return nil
			}
			for _, h := range habits {
				fmt.Fprintf(out, "%s #%d %s %s %s %s\n",
					ui.Check(h.DoneToday), h.ID, h.Icon, h.Name,
					ui.Warn.Render(fmt.Sprintf("%s %d", ui.IconFire, h.Streak)),
					ui.Muted.Render(fmt.Sprintf("(best %d · %s · +%d %s)", h.BestStreak, h.Frequency, h.XPReward, h.Skill.Label())))
			}
			return nil
		},
	}
	return cmd
}

func newHabitDoneCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Complete a habit for today (or --date)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			on := time.Now().In(a.svc.Location())
			if date != "" {
				if on, err = time.ParseInLocation(storage.DateLayout, date, a.svc.Location()); err != nil {
					return fmt.Errorf("invalid --date %q (want YYYY-MM-DD)", date)
				}
			}

			out := cmd.OutOrStdout()
			done, err := a.svc.HasCompletion(ctx, a.profile, id, on)
			if err != nil {
				return err
			}
			if done {
				fmt.Fprintln(out, ui.Muted.Render(fmt.Sprintf("Habit #%d is already done for %s.", id, storage.DateKey(on))))
				return nil
			}

			res, err := a.svc.CompleteHabit(ctx, a.profile, id, on)
			if err != nil {
				return err
			}
			if flagJSON {
				return printJSON(out, res)
			}
			if !res.Applied {
				fmt.Fprintln(out, ui.Muted.Render("Nothing to do."))
				return nil
			}
			fmt.Fprintf(out, "%s %s %s\n", ui.Good.Render(ui.IconDone+" Done"), res.Habit, ui.Warn.Render(fmt.Sprintf("%s %d", ui.IconFire, res.Streak)))
			printAward(out, res.Award)
			printUnlocked(out, res.Unlocked)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Completion date (YYYY-MM-DD)")
	return cmd
}

func newHabitRmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a habit and its history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := a.svc.DeleteHabit(ctx, a.profile, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s #%d\n", ui.Warn.Render("Deleted habit"), id)
			return nil
		},
	}
	return cmd
}

func skillKeys() string {
	catalog := engine.SkillCatalog()
	keys := make([]string, 0, len(catalog))
	for _, sk := range catalog {
		keys = append(keys, string(sk.ID))
	}
	return strings.Join(keys, "|")
}
