package commands

import (
	"context"
	"fmt"
	"lmssynergy/lib/telemetry"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath *string
	jsonOutput *bool
	verbose    *bool
	dumpDir    *string
)

var rootCmd = &cobra.Command{
	Use:   "synergy-cli",
	Short: "synergy-cli reads schedules, grades and messages from the Synergy LMS portal.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*verbose)
	},
	SilenceUsage: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	configPath = flags.StringP("config", "c", "synergy.json5", "The config file, synergy.local.json5 next to it overrides it.")
	jsonOutput = flags.Bool("json", false, "Print results as json instead of tables.")
	verbose = flags.BoolP("verbose", "v", false, "Enable debug logging.")
	dumpDir = flags.String("dump", "", "Write every http exchange to this directory, <dev_state> is allowed.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
