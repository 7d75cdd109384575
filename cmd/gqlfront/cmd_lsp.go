package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/gqlfront/lsp"
)

func newLSPCmd(a *app) *cobra.Command {
	var tcpAddr string

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		RunE: func(cmd *cobra.Command, args []string) error {
			server := lsp.NewServer(version)
			if tcpAddr != "" {
				return server.RunTCP(tcpAddr)
			}
			return server.RunStdio()
		},
	}

	cmd.Flags().StringVar(&tcpAddr, "tcp", "", "listen on this TCP address instead of stdio")

	return cmd
}
