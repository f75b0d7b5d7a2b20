package main

import (
	"github.com/ravegoth/obj-observe/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve an observed key/value state over HTTP",
	Long:  `Starts an HTTP server around an observed map: PUT /state/{key} mutates, GET /state snapshots, GET /events lists recorded change events and /metrics exposes Prometheus counters.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		debug, _ := cmd.Flags().GetBool("debug")
		addr, _ := cmd.Flags().GetString("addr")
		return cli.RunServe(cli.ServeOptions{
			Addr:  addr,
			Debug: debug,
		})
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8400", "Listen address")
	rootCmd.AddCommand(serveCmd)
}
