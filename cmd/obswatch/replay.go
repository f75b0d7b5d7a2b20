package main

import (
	"os"

	"github.com/ravegoth/obj-observe/internal/cli"
	"github.com/spf13/cobra"
)

var replayCmd = &cobra.Command{
	Use:   "replay <scenario.yaml>",
	Short: "Replay a scripted mutation scenario and print its change events",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		debug, _ := cmd.Flags().GetBool("debug")
		quiet, _ := cmd.Flags().GetBool("quiet")
		return cli.RunReplay(cli.ReplayOptions{
			Path:  args[0],
			Debug: debug,
			Quiet: quiet,
			Out:   os.Stdout,
		})
	},
}

func init() {
	replayCmd.Flags().Bool("quiet", false, "Only print the summary line")
	rootCmd.AddCommand(replayCmd)
}
