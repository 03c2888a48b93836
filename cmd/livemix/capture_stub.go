//go:build !linux

package main

import (
	"errors"

	"github.com/spf13/cobra"
)

var captureCmd = &cobra.Command{
	Use:   "capture <output.wav>",
	Short: "Capture live input through the engine (ALSA, linux only)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return errors.New("capture requires linux (ALSA)")
	},
}

func init() {
	rootCmd.AddCommand(captureCmd)
}
