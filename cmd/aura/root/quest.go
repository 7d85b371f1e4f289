package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"auralife/internal/engine"
	"auralife/internal/ui"
)

func newQuestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "quest",
		Aliases: []string{"q"},
		Short:   "Daily and boss quests",
	}
	cmd.AddCommand(newQuestListCmd(), newQuestDoneCmd(), newQuestTemplatesCmd())
	return cmd
}

func newQuestListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show today's quests and this week's boss",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if _, err := a.svc.GenerateDailyQuests(ctx, a.profile); err != nil {
				return err
			}
			if _, err := a.svc.GenerateWeeklyQuest(ctx, a.profile); err != nil {
				return err
			}
			quests, err := a.svc.ActiveQuests(ctx, a.profile)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if flagJSON {
				return printJSON(out, quests)
			}
			fmt.Fprintln(out, ui.Heading(ui.IconQuest, "Quests"))
			for _, q := range quests {
				fmt.Fprintln(out, questLine(q))
			}
			return nil
		},
	}
	return cmd
}

func questLine(q engine.QuestView) string {
	icon := ui.Check(q.Completed)
	if q.Type == engine.QuestBoss && !q.Completed {
		icon = ui.IconBoss
	}
	return fmt.Sprintf("%s #%d %s %s %s %s",
		icon, q.ID, q.Title,
		ui.ProgressBar(float64(q.Percent)/100, 10),
		ui.Muted.Render(fmt.Sprintf("%d/%d", q.Current, q.Target)),
		ui.Gold.Render(fmt.Sprintf("+%d XP", q.XPReward)))
}

func newQuestDoneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Complete a quest and claim its reward",
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

			res, err := a.svc.CompleteQuest(ctx, a.profile, id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if flagJSON {
				return printJSON(out, res)
			}
			if !res.Applied {
				fmt.Fprintln(out, ui.Muted.Render(fmt.Sprintf("Quest #%d is already completed.", id)))
				return nil
			}
			fmt.Fprintf(out, "%s %s\n", ui.Good.Render(ui.IconDone+" Quest complete"), res.Quest.Title)
			printAward(out, res.Award)
			printUnlocked(out, res.Unlocked)
			return nil
		},
	}
	return cmd
}

func newQuestTemplatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Show the daily quest set and the boss pool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			daily, bosses := engine.DailyTemplates(), engine.BossTemplates()
			out := cmd.OutOrStdout()
			if flagJSON {
				return printJSON(out, map[string]any{"daily": daily, "boss": bosses})
			}
			fmt.Fprintln(out, ui.Heading(ui.IconQuest, "Daily"))
			for _, t := range daily {
				fmt.Fprintln(out, templateLine(t))
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, ui.Heading(ui.IconBoss, "Boss pool (one per week)"))
			for _, t := range bosses {
				fmt.Fprintln(out, templateLine(t))
			}
			return nil
		},
	}
	return cmd
}

func templateLine(t engine.QuestTemplate) string {
	return fmt.Sprintf("- %s %s %s",
		t.Title,
		ui.Muted.Render(fmt.Sprintf("(%s ×%d, %s %s)", t.Description, t.Target, t.Skill.Icon(), t.Skill.Label())),
		ui.Gold.Render(fmt.Sprintf("+%d XP", t.XPReward)))
}
