package cmd

import (
	"fmt"
	"os"

	"github.com/skycoin/skycoin/src/util/logging"
	"github.com/spf13/cobra"
)

var log = logging.MustGetLogger("radiant")

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "radiant",
	Short: "Radiant - Selection tools for brush based level scenes",
	Long: `Radiant works on level scenes saved by the editor. It reports what a
scene contains, runs area selections and brush clipping the way the editor
viewports do, and keeps named selection sets.`,
	SilenceUsage:      true,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := logLevel
		if !cmd.Flags().Changed("log-level") {
			if cfg, _, err := loadProject(); err == nil && cfg.LogLevel != "" {
				level = cfg.LogLevel
			}
		}
		lvl, err := logging.LevelFromString(level)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", level, err)
		}
		logging.SetLevel(lvl)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
