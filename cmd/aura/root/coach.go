package root

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"auralife/internal/ui"
)

func newCoachCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coach",
		Short: "Get tips for today",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			tips, err := a.svc.GenerateTips(ctx, a.profile, time.Now())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if flagJSON {
				return printJSON(out, tips)
			}
			fmt.Fprintln(out, ui.Heading(ui.IconCoach, "Coach"))
			for _, t := range tips {
				fmt.Fprintln(out, "- "+t)
			}
			return nil
		},
	}
	return cmd
}
