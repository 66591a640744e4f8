package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sgx-labs/folio/internal/setup"
)

func setupSubCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Set up integrations (MCP)",
	}

	var (
		remove bool
		dir    string
	)
	mcpSetupCmd := &cobra.Command{
		Use:   "mcp",
		Short: "Register or remove the folio MCP server in .mcp.json",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := siteRoot()
			if err != nil {
				return err
			}
			if dir == "" {
				dir = root
			}
			out := cmd.OutOrStdout()
			if remove {
				return setup.RemoveMCP(out, dir)
			}
			abs, err := filepath.Abs(root)
			if err != nil {
				return err
			}
			return setup.RegisterMCP(out, dir, setup.DetectBinaryPath(), abs)
		},
	}
	mcpSetupCmd.Flags().BoolVar(&remove, "remove", false, "Remove the folio MCP server")
	mcpSetupCmd.Flags().StringVar(&dir, "dir", "", "Directory holding .mcp.json (default: the site root)")
	cmd.AddCommand(mcpSetupCmd)

	return cmd
}
