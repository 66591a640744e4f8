package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/sgx-labs/folio/internal/catalog"
	"github.com/sgx-labs/folio/internal/cli"
)

func showCmd() *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "show <projects|blog> <slug>",
		Short: "Print one item with its body",
		Long: `Print an item's metadata and body. The body is rendered as
terminal markdown unless --raw is given. Also accepts a site path:

  folio show /projects/soc-lab`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			collection, slug, err := itemRef(args)
			if err != nil {
				return err
			}
			return runShow(cmd.OutOrStdout(), collection, slug, raw)
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the body source instead of rendering it")
	return cmd
}

// itemRef accepts either "<collection> <slug>" or a single "/collection/slug".
func itemRef(args []string) (string, string, error) {
	if len(args) == 2 {
		return args[0], args[1], nil
	}
	parts := strings.Split(strings.Trim(args[0], "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("expected <collection> <slug> or /collection/slug, got %q", args[0])
	}
	return parts[0], parts[1], nil
}

func runShow(w io.Writer, collection, slug string, raw bool) error {
	collection, err := collectionArg(collection)
	if err != nil {
		return err
	}
	s, err := loadSite()
	if err != nil {
		return err
	}
	b, err := s.cat.Get(collection, slug)
	if err != nil {
		if catalog.IsNotFound(err) {
			return fmt.Errorf("no %s item %q", collection, slug)
		}
		return err
	}
	printBody(w, b, raw)
	return nil
}

func printBody(w io.Writer, b catalog.Body, raw bool) {
	cli.Item(w, b.Item, itemLabel(b.Item))
	if l := b.Links; l != nil {
		if l.GitHub != "" {
			fmt.Fprintf(w, "  github  %s\n", l.GitHub)
		}
		if l.Demo != "" {
			fmt.Fprintf(w, "  demo    %s\n", l.Demo)
		}
	}
	fmt.Fprintln(w)

	if raw {
		fmt.Fprintln(w, b.Content)
		return
	}
	fmt.Fprint(w, renderMarkdown(b.Content))
}

// renderMarkdown styles a body for the terminal. Component tags pass through
// as text; on any renderer failure the source is returned unchanged.
func renderMarkdown(body string) string {
	if cli.NoColor {
		return body + "\n"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return body + "\n"
	}
	out, err := r.Render(body)
	if err != nil {
		return body + "\n"
	}
	return out
}
