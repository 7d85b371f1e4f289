package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"auralife/internal/ui"
)

const Version = "0.1.0"

var (
	flagDB      string
	flagProfile string
	flagConfig  string
	flagJSON    bool
)

var rootCmd = &cobra.Command{
	Use:           "aura",
	Short:         "Aura Life, a local-first life tracker with RPG progression",
	Long:          "Aura logs habits, energy, sleep, journal entries and projects, and turns them into XP, levels, skills, achievements and quests.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagDB, "db", "", "Database path (overrides config and AURA_DB)")
	pf.StringVarP(&flagProfile, "profile", "p", "", "Profile key (overrides config and AURA_PROFILE)")
	pf.StringVar(&flagConfig, "config", "", "Config file path (default ~/.aura/config.toml)")
	pf.BoolVar(&flagJSON, "json", false, "Print machine-readable JSON")

	rootCmd.AddCommand(
		newStatusCmd(),
		newBoardCmd(),
		newHabitCmd(),
		newQuestCmd(),
		newLogCmd(),
		newProjectCmd(),
		newAchievementsCmd(),
		newCoachCmd(),
		newXPCmd(),
		newConfigCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
