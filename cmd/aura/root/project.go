package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"auralife/internal/engine"
	"auralife/internal/ui"
)

func newProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Track projects",
	}
	cmd.AddCommand(newProjectAddCmd(), newProjectListCmd(), newProjectStatusCmd("start", engine.ProjectActive), newProjectStatusCmd("park", engine.ProjectIdea), newProjectDoneCmd())
	return cmd
}

func newProjectAddCmd() *cobra.Command {
	var in engine.ProjectInput
	var active bool

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a project idea",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("title is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Title = args[0]
			if active {
				in.Status = engine.ProjectActive
			}

			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			id, err := a.svc.CreateProject(ctx, a.profile, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s #%d %s\n", ui.Good.Render(ui.IconBox+" Project created"), id, in.Title)
			return nil
		},
	}
	cmd.Flags().StringVarP(&in.Description, "desc", "d", "", "Description")
	cmd.Flags().StringVarP(&in.Category, "category", "c", "", "Category")
	cmd.Flags().IntVar(&in.Priority, "priority", 5, "Priority (higher first)")
	cmd.Flags().BoolVar(&active, "active", false, "Start as active")
	return cmd
}

func newProjectListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			projects, err := a.svc.Projects(ctx, a.profile)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if flagJSON {
				return printJSON(out, projects)
			}
			fmt.Fprintln(out, ui.Heading(ui.IconBox, "Projects"))
			for _, p := range projects {
				fmt.Fprintf(out, "#%d %s [%s] %s\n", p.ID, p.Title, ui.StatusText(p.Status), ui.Muted.Render(fmt.Sprintf("(p%d · %s)", p.Priority, p.Category)))
			}
			return nil
		},
	}
	return cmd
}

func newProjectStatusCmd(use string, status engine.ProjectStatus) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use + " <id>",
		Short: fmt.Sprintf("Mark a project %s", status),
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

			if err := a.svc.SetProjectStatus(ctx, a.profile, id, status); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Project #%d → %s\n", id, ui.StatusText(string(status)))
			return nil
		},
	}
	return cmd
}

func newProjectDoneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Complete a project",
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

			res, err := a.svc.CompleteProject(ctx, a.profile, id)
			if err != nil {
				return err
			}
			if !res.Applied && !flagJSON {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render(fmt.Sprintf("Project #%d is already done.", id)))
				return nil
			}
			return reportActivity(cmd, ui.IconDone+" Project done", res)
		},
	}
	return cmd
}
