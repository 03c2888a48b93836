// Command livemix runs the mixer engine against WAV files and audio
// devices: offline rendering, local playback, and live capture.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var verbose bool

// rootCmd is the base command; subcommands do the work.
var rootCmd = &cobra.Command{
	Use:   "livemix",
	Short: "Real-time audio mixer engine",
	Long: `livemix runs the mixer engine: it routes audio through a channel strip ` +
		`with smoothed, thread-safe parameter control. Subcommands render WAV files ` +
		`offline (process), play them through the engine (play), and capture live ` +
		`input on linux (capture).`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		} else {
			logrus.SetLevel(logrus.WarnLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
