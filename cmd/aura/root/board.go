package root

import (
	"context"

	"github.com/spf13/cobra"

	"auralife/internal/tui"
)

const boardLogFile = "board.log"

func newBoardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Open the interactive dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			// The board owns the terminal; engine logs go to a file.
			a, cleanup, err := openAppWith(ctx, boardLogFile)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := tui.RunBoard(ctx, a.svc, a.profile, cmd.OutOrStdout()); err != nil {
				a.log.Error("board exited", "err", err)
				return err
			}
			return nil
		},
	}
	return cmd
}
