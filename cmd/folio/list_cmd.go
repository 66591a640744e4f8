package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sgx-labs/folio/internal/catalog"
	"github.com/sgx-labs/folio/internal/cli"
	"github.com/sgx-labs/folio/internal/content"
	"github.com/sgx-labs/folio/internal/explorer"
)

func listCmd() *cobra.Command {
	var (
		typ     string
		sortArg string
		jsonOut bool
	)
	cmd := &cobra.Command{
		Use:   "list [projects|blog]",
		Short: "List the items of a collection",
		Long:  "List every item of a collection, newest first unless the config or --sort says otherwise. The collection defaults to projects.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			collection := catalog.ProjectsCollection
			if len(args) == 1 {
				collection = args[0]
			}
			return runList(cmd.OutOrStdout(), collection, typ, sortArg, jsonOut)
		},
	}
	cmd.Flags().StringVar(&typ, "type", "", "Only show items of this type (projects only)")
	cmd.Flags().StringVar(&sortArg, "sort", "", "newest or oldest (default from config)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func runList(w io.Writer, collection, typ, sortArg string, jsonOut bool) error {
	return runQuery(w, collection, explorer.Query{Type: typ}, sortArg, jsonOut)
}

// runQuery loads collection, runs q through the explorer pipeline and
// prints the result. An empty sortArg means the configured default.
func runQuery(w io.Writer, collection string, q explorer.Query, sortArg string, jsonOut bool) error {
	collection, err := collectionArg(collection)
	if err != nil {
		return err
	}
	s, err := loadSite()
	if err != nil {
		return err
	}

	q.Sort = s.defaultSort
	if sortArg != "" {
		if q.Sort, err = explorer.ParseSortMode(sortArg); err != nil {
			return err
		}
	}

	items, err := collectionItems(s.cat, collection)
	if err != nil {
		return err
	}
	res := explorer.Apply(items, q)

	if jsonOut {
		return printJSON(w, res)
	}
	printResult(w, title(collection), res)
	return nil
}

// collectionItems loads a collection, treating a missing directory as an
// empty collection.
func collectionItems(cat *catalog.Catalog, collection string) ([]explorer.Item, error) {
	items, err := cat.Items(collection)
	if errors.Is(err, content.ErrDirNotFound) {
		return []explorer.Item{}, nil
	}
	return items, err
}

func printResult(w io.Writer, heading string, res explorer.Result) {
	cli.Header(w, heading)
	fmt.Fprintf(w, "\n  %s\n\n", explorer.Summary(res.Count))
	if res.Count == 0 {
		fmt.Fprintln(w, "  No items match.")
		return
	}
	for _, it := range res.Items {
		cli.Item(w, it, itemLabel(it))
		fmt.Fprintln(w)
	}
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// itemLabel is the badge shown next to an item: its type label, or the
// collection name for untyped items.
func itemLabel(it explorer.Item) string {
	if it.Type != "" {
		return catalog.TypeLabel(it.Type)
	}
	if it.Href == catalog.PostHref(it.ID) {
		return "Blog"
	}
	return "Project"
}
