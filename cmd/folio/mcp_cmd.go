package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	mcpserver "github.com/sgx-labs/folio/internal/mcp"
)

func mcpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the portfolio to AI tools over MCP (stdio)",
		Long: `Start a Model Context Protocol server on stdin/stdout exposing
list_items, get_item and search_items. Text that looks like a prompt
injection is withheld from tool output.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSite()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return mcpserver.New(s.cat, s.defaultSort, Version).Serve(ctx)
		},
	}
}
