package main

import (
	"github.com/spf13/cobra"

	"github.com/sgx-labs/folio/internal/catalog"
	"github.com/sgx-labs/folio/internal/explorer"
	"github.com/sgx-labs/folio/internal/tui"
)

func browseCmd() *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "browse [projects|blog]",
		Short: "Explore a collection interactively",
		Long: `Open the terminal explorer over a collection. Type / to open the
filter panel and search as you type; enter on an item prints it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			collection := catalog.ProjectsCollection
			if len(args) == 1 {
				collection = args[0]
			}
			return runBrowse(cmd, collection, raw)
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the opened item's body source instead of rendering it")
	return cmd
}

func runBrowse(cmd *cobra.Command, collection string, raw bool) error {
	collection, err := collectionArg(collection)
	if err != nil {
		return err
	}
	s, err := loadSite()
	if err != nil {
		return err
	}
	items, err := collectionItems(s.cat, collection)
	if err != nil {
		return err
	}

	picked, err := tui.Run(explorer.NewSession(items, s.defaultSort), title(collection))
	if err != nil || picked == nil {
		return err
	}
	b, err := s.cat.Get(collection, picked.ID)
	if err != nil {
		return err
	}
	printBody(cmd.OutOrStdout(), b, raw)
	return nil
}
