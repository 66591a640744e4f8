// Package main is the entrypoint for the folio CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sgx-labs/folio/internal/catalog"
	"github.com/sgx-labs/folio/internal/config"
	"github.com/sgx-labs/folio/internal/content"
	"github.com/sgx-labs/folio/internal/explorer"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "folio",
		Short: "Portfolio site server and content explorer",
		Long:  "folio serves a portfolio of projects and blog posts written as MDX files, and explores them from the terminal.",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(versionCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(listCmd())
	root.AddCommand(showCmd())
	root.AddCommand(searchCmd())
	root.AddCommand(browseCmd())
	root.AddCommand(checkCmd())
	root.AddCommand(mcpCmd())
	root.AddCommand(configCmd())
	root.AddCommand(setupSubCmd())
	root.AddCommand(completionCmd())

	// Global --root flag
	root.PersistentFlags().StringVar(&config.RootOverride, "root", "", "Site root holding content/ or src/content/ (overrides config)")

	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the folio version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "folio %s\n", Version)
			return nil
		},
	}
}

// site is what every read-only command needs: the merged config and a
// catalog over the configured content root.
type site struct {
	cfg         *config.Config
	cat         *catalog.Catalog
	cache       *content.Cache
	defaultSort explorer.SortMode
}

func loadSite() (*site, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	sortMode, err := explorer.ParseSortMode(cfg.Explorer.DefaultSort)
	if err != nil {
		return nil, err
	}
	cache := content.NewCache()
	store := content.NewStore(cfg.SiteRoot(),
		content.WithExtension(cfg.Site.Extension),
		content.WithCache(cache),
	)
	return &site{
		cfg:         cfg,
		cat:         catalog.New(store),
		cache:       cache,
		defaultSort: sortMode,
	}, nil
}

// collectionArg validates a collection name given on the command line.
func collectionArg(name string) (string, error) {
	if !catalog.Known(name) {
		return "", &catalog.UnknownCollectionError{Name: name}
	}
	return name, nil
}

// title is the heading used for a collection in CLI output.
func title(collection string) string {
	if collection == catalog.BlogCollection {
		return "Blog"
	}
	return "Projects"
}
