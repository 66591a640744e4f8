package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/sgx-labs/folio/internal/config"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage folio configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), config.ShowConfig())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print path to config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := config.FindConfigFile()
			if p == "" {
				return fmt.Errorf("no config file found; run 'folio config init'")
			}
			fmt.Fprintln(cmd.OutOrStdout(), p)
			return nil
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented default config under the site root",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := siteRoot()
			if err != nil {
				return err
			}
			path, err := config.GenerateConfig(root, force)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	cmd.AddCommand(initCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "edit",
		Short: "Open config file in $EDITOR",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := siteRoot()
			if err != nil {
				return err
			}
			configPath := config.ConfigFilePath(root)
			if _, err := os.Stat(configPath); os.IsNotExist(err) {
				fmt.Fprintln(cmd.OutOrStdout(), "No config file found. Generating default...")
				if _, err := config.GenerateConfig(root, false); err != nil {
					return err
				}
			}
			editor := os.Getenv("EDITOR")
			if editor == "" {
				editor = "vi"
			}
			return runEditor(editor, configPath)
		},
	})

	return cmd
}

// siteRoot resolves the root without requiring a valid config file, so
// init and edit work on a broken one.
func siteRoot() (string, error) {
	if config.RootOverride != "" {
		return config.RootOverride, nil
	}
	if v := os.Getenv("FOLIO_ROOT"); v != "" {
		return v, nil
	}
	return os.Getwd()
}

func runEditor(editor, path string) error {
	cmd := exec.Command(editor, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
