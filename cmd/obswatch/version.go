package main

import (
	"fmt"

	observe "github.com/ravegoth/obj-observe"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of obswatch",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("obswatch version %s\n", observe.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
