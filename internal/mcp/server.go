// Package mcp exposes the content catalog to agents over the Model Context
// Protocol.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sgx-labs/folio/internal/catalog"
	"github.com/sgx-labs/folio/internal/content"
	"github.com/sgx-labs/folio/internal/explorer"
)

// Server answers tool calls from a catalog.
type Server struct {
	cat         *catalog.Catalog
	defaultSort explorer.SortMode
	version     string
}

// New returns a Server over cat.
func New(cat *catalog.Catalog, defaultSort explorer.SortMode, version string) *Server {
	if defaultSort != explorer.Oldest {
		defaultSort = explorer.Newest
	}
	return &Server{cat: cat, defaultSort: defaultSort, version: version}
}

// Serve runs the MCP server on stdio until the client disconnects or ctx
// is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	return s.build().Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) build() *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "folio",
		Version: s.version,
	}, nil)
	s.registerTools(server)
	return server
}

func (s *Server) registerTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_items",
		Description: "List every item in a portfolio collection, newest first.\n\nArgs:\n  collection: 'projects' or 'blog'\n\nReturns id, href, title, summary, date, type and tags for each item.",
	}, s.handleListItems)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_item",
		Description: "Read one portfolio item with its full body. Use this after list_items or search_items returns a relevant id.\n\nArgs:\n  collection: 'projects' or 'blog'\n  slug: item id\n\nReturns the item metadata and its markdown body.",
	}, s.handleGetItem)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_items",
		Description: "Fuzzy search a portfolio collection by title, summary, tags and type, then filter by type and sort by date.\n\nArgs:\n  collection: 'projects' or 'blog'\n  query: search text (empty matches everything)\n  type: exact type filter, or 'all'\n  sort: 'newest' (default) or 'oldest'\n\nReturns matching items and a count.",
	}, s.handleSearchItems)
}

type listInput struct {
	Collection string `json:"collection" jsonschema:"Collection name: projects or blog"`
}

type getInput struct {
	Collection string `json:"collection" jsonschema:"Collection name: projects or blog"`
	Slug       string `json:"slug" jsonschema:"Item id as returned by list_items"`
}

type searchInput struct {
	Collection string `json:"collection" jsonschema:"Collection name: projects or blog"`
	Query      string `json:"query,omitempty" jsonschema:"Search text"`
	Type       string `json:"type,omitempty" jsonschema:"Exact type filter, or all"`
	Sort       string `json:"sort,omitempty" jsonschema:"newest or oldest"`
}

type itemOutput struct {
	explorer.Item
	Label string `json:"label"`
}

type searchOutput struct {
	Count   int          `json:"count"`
	Summary string       `json:"summary"`
	Items   []itemOutput `json:"items"`
}

type getOutput struct {
	itemOutput
	Links *catalog.ProjectLinks `json:"links,omitempty"`
	Body  string                `json:"body"`
}

func (s *Server) handleListItems(ctx context.Context, req *mcp.CallToolRequest, input listInput) (*mcp.CallToolResult, any, error) {
	items, msg := s.load(input.Collection)
	if msg != "" {
		return textResult(msg), nil, nil
	}
	if len(items) == 0 {
		return textResult("No items in " + input.Collection + "."), nil, nil
	}
	return jsonResult(s.outputs(ctx, items)), nil, nil
}

func (s *Server) handleGetItem(ctx context.Context, req *mcp.CallToolRequest, input getInput) (*mcp.CallToolResult, any, error) {
	if !catalog.Known(input.Collection) {
		return textResult(unknownCollection(input.Collection)), nil, nil
	}
	if strings.TrimSpace(input.Slug) == "" {
		return textResult("Error: slug is required."), nil, nil
	}
	body, err := s.cat.Get(input.Collection, input.Slug)
	if err != nil {
		if catalog.IsNotFound(err) {
			return textResult(fmt.Sprintf("Item not found: %s/%s.", input.Collection, input.Slug)), nil, nil
		}
		return textResult(loadError(err)), nil, nil
	}
	out := getOutput{
		itemOutput: s.output(ctx, body.Item),
		Links:      body.Links,
		Body:       screen(ctx, body.Content),
	}
	return jsonResult(out), nil, nil
}

func (s *Server) handleSearchItems(ctx context.Context, req *mcp.CallToolRequest, input searchInput) (*mcp.CallToolResult, any, error) {
	if len(input.Query) > explorer.MaxQueryLen {
		return textResult(fmt.Sprintf("Error: query is longer than %d bytes.", explorer.MaxQueryLen)), nil, nil
	}
	sort := s.defaultSort
	if input.Sort != "" {
		m, err := explorer.ParseSortMode(input.Sort)
		if err != nil {
			return textResult("Error: sort must be newest or oldest."), nil, nil
		}
		sort = m
	}
	items, msg := s.load(input.Collection)
	if msg != "" {
		return textResult(msg), nil, nil
	}

	sess := explorer.NewSession(items, s.defaultSort)
	sess.SetSort(sort)
	sess.SetType(input.Type)
	sess.SetQuery(input.Query)

	res := sess.Result()
	if res.Count == 0 {
		return textResult("No items match."), nil, nil
	}
	return jsonResult(searchOutput{
		Count:   res.Count,
		Summary: sess.Summary(),
		Items:   s.outputs(ctx, res.Items),
	}), nil, nil
}

// load returns a collection's items, or a user-facing message on failure.
func (s *Server) load(collection string) ([]explorer.Item, string) {
	if !catalog.Known(collection) {
		return nil, unknownCollection(collection)
	}
	items, err := s.cat.Items(collection)
	if errors.Is(err, content.ErrDirNotFound) {
		return nil, ""
	}
	if err != nil {
		return nil, loadError(err)
	}
	return items, ""
}

func (s *Server) output(ctx context.Context, it explorer.Item) itemOutput {
	it.Title = screen(ctx, it.Title)
	it.Summary = screen(ctx, it.Summary)
	label := ""
	if it.Type != "" {
		label = catalog.TypeLabel(it.Type)
	}
	return itemOutput{Item: it, Label: label}
}

func (s *Server) outputs(ctx context.Context, items []explorer.Item) []itemOutput {
	out := make([]itemOutput, len(items))
	for i, it := range items {
		out[i] = s.output(ctx, it)
	}
	return out
}

func unknownCollection(name string) string {
	return fmt.Sprintf("Error: unknown collection %q. Use one of: %s.", name, strings.Join(catalog.Collections(), ", "))
}

// loadError reports content problems without leaking file system paths.
func loadError(err error) string {
	var verr *content.ValidationError
	if errors.As(err, &verr) {
		return fmt.Sprintf("Error: %s/%s has invalid front matter.", verr.Collection, verr.Slug)
	}
	return "Error: could not load content."
}

// Helpers

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return textResult("Error: could not encode result.")
	}
	return textResult(string(data))
}
