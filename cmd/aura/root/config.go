package root

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"auralife/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or modify configuration",
		Long: `View or change aura configuration stored in ~/.aura/config.toml.

Settings:
  db_path          Path to the SQLite database
  profile          Profile key used by every command (default "main")
  log_mode         dev, prod or off
  timezone         IANA timezone that defines days and weeks (default local)
  player_name      Name given to new profiles
  character_class  Class given to new profiles`,
	}
	cmd.AddCommand(newConfigGetCmd(), newConfigSetCmd(), newConfigPathCmd())
	return cmd
}

func newConfigGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get [key]",
		Short: "Show one setting, or all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFrom(configPath())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				val, err := cfg.Get(args[0])
				if err != nil {
					return err
				}
				if val != "" {
					fmt.Fprintln(out, val)
				}
				return nil
			}
			if flagJSON {
				return printJSON(out, cfg)
			}
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tVALUE")
			for _, key := range config.ValidKeys() {
				val, _ := cfg.Get(key)
				if val == "" {
					val = "(not set)"
				}
				fmt.Fprintf(w, "%s\t%s\n", key, val)
			}
			return w.Flush()
		},
	}
	return cmd
}

func newConfigSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change a setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath()
			cfg, err := config.LoadFrom(path)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := cfg.SaveTo(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], args[1])
			return nil
		},
	}
	return cmd
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), configPath())
			return nil
		},
	}
}
