package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sgx-labs/folio/internal/catalog"
	"github.com/sgx-labs/folio/internal/explorer"
)


func searchCmd() *cobra.Command {
	var (
		collection string
		typ        string
		sortArg    string
		jsonOut    bool
	)
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Fuzzy-search a collection",
		Long: `Search titles, summaries, types, tags and dates with the same
typo-tolerant matching the site explorer uses.

Examples:
  folio search splunk
  folio search "support agnet" --type ai
  folio search --collection blog --sort oldest hello`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd.OutOrStdout(), collection, strings.Join(args, " "), typ, sortArg, jsonOut)
		},
	}
	cmd.Flags().StringVarP(&collection, "collection", "c", catalog.ProjectsCollection, "projects or blog")
	cmd.Flags().StringVar(&typ, "type", "", "Only match items of this type")
	cmd.Flags().StringVar(&sortArg, "sort", "", "newest or oldest (default from config)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func runSearch(w io.Writer, collection, query, typ, sortArg string, jsonOut bool) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return fmt.Errorf("search query is empty")
	}
	if len(query) > explorer.MaxQueryLen {
		return fmt.Errorf("search query is longer than %d bytes", explorer.MaxQueryLen)
	}
	return runQuery(w, collection, explorer.Query{Text: query, Type: typ}, sortArg, jsonOut)
}
