package web

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sgx-labs/folio/internal/catalog"
	"github.com/sgx-labs/folio/internal/config"
	"github.com/sgx-labs/folio/internal/content"
	"github.com/sgx-labs/folio/internal/explorer"
)

const (
	maxCardTags      = 6
	maxFeatured      = 6
	maxLatestPosts   = 3
	confidentialNote = "Repo private (client confidentiality)"
)

type page struct {
	Site  config.SiteConfig
	Title string
}

type card struct {
	explorer.Item
	Label string
	Note  string
}

type option struct {
	Value    string
	Label    string
	Selected bool
}

type homeView struct {
	page
	Featured []card
	Latest   []card
}

type listView struct {
	page
	Path       string
	Heading    string
	Intro      string
	Query      string
	Type       string
	Sort       string
	PanelOpen  bool
	Active     bool
	Types      []option
	Sorts      []option
	Summary    string
	Cards      []card
	ToggleHref string
	ClearHref  string
}

type detailView struct {
	page
	BackHref  string
	BackLabel string
	Item      explorer.Item
	Label     string
	Note      string
	Links     *catalog.ProjectLinks
	Body      template.HTML
}

type statusView struct {
	page
	Code    int
	Heading string
	Message string
}

var collectionText = map[string]struct{ heading, intro, back string }{
	catalog.ProjectsCollection: {"Projects", "Case studies and builds, newest first.", "Back to projects"},
	catalog.BlogCollection:     {"Blog", "Notes, write-ups and reviews.", "Back to blog"},
}

func makeCard(collection string, it explorer.Item) card {
	c := card{Item: it}
	switch {
	case it.Type != "":
		c.Label = catalog.TypeLabel(it.Type)
	case collection == catalog.BlogCollection:
		c.Label = "Blog"
	default:
		c.Label = "Project"
	}
	if it.Confidential {
		c.Note = confidentialNote
	}
	if len(it.Tags) > maxCardTags {
		c.Tags = it.Tags[:maxCardTags]
	}
	return c
}

func makeCards(collection string, items []explorer.Item) []card {
	out := make([]card, len(items))
	for i, it := range items {
		out[i] = makeCard(collection, it)
	}
	return out
}

// items loads a collection for display. A collection without a directory
// shows as empty.
func (s *Server) items(collection string) ([]explorer.Item, error) {
	items, err := s.cat.Items(collection)
	if errors.Is(err, content.ErrDirNotFound) {
		return []explorer.Item{}, nil
	}
	return items, err
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	var (
		projects []catalog.ProjectEntry
		posts    []catalog.PostEntry
	)
	g := new(errgroup.Group)
	g.Go(func() error {
		var err error
		projects, err = s.cat.Projects()
		if errors.Is(err, content.ErrDirNotFound) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		var err error
		posts, err = s.cat.Posts()
		if errors.Is(err, content.ErrDirNotFound) {
			return nil
		}
		return err
	})
	if err := g.Wait(); err != nil {
		s.serverError(w, r, err)
		return
	}

	var featured []catalog.ProjectEntry
	for _, p := range projects {
		if p.Frontmatter.Featured {
			featured = append(featured, p)
		}
	}
	if len(featured) == 0 {
		featured = projects
	}
	if len(featured) > maxFeatured {
		featured = featured[:maxFeatured]
	}
	if len(posts) > maxLatestPosts {
		posts = posts[:maxLatestPosts]
	}

	s.renderPage(w, r, http.StatusOK, "home.html", homeView{
		page:     page{Site: s.site},
		Featured: makeCards(catalog.ProjectsCollection, catalog.ProjectItems(featured)),
		Latest:   makeCards(catalog.BlogCollection, catalog.PostItems(posts)),
	})
}

// sessionFromQuery replays the URL's explorer state onto a fresh session.
// An unknown sort value falls back to the default.
func (s *Server) sessionFromQuery(items []explorer.Item, v url.Values) *explorer.Session {
	sess := explorer.NewSession(items, s.defaultSort)
	if m, err := explorer.ParseSortMode(v.Get("sort")); err == nil {
		sess.SetSort(m)
	}
	sess.SetType(v.Get("type"))
	sess.SetQuery(v.Get("q"))
	if truthy(v.Get("panel")) {
		sess.TogglePanel()
	}
	return sess
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "open", "yes", "on":
		return true
	}
	return false
}

// listHref builds a list page URL carrying only non-default state.
func listHref(path string, sess *explorer.Session, panel bool) string {
	v := url.Values{}
	if sess.Query() != "" {
		v.Set("q", sess.Query())
	}
	if sess.Type() != explorer.AllTypes {
		v.Set("type", sess.Type())
	}
	if sess.Sort() != sess.DefaultSort() {
		v.Set("sort", sess.Sort().String())
	}
	if panel {
		v.Set("panel", "1")
	}
	if len(v) == 0 {
		return path
	}
	return path + "?" + v.Encode()
}

func (s *Server) handleList(collection string) http.HandlerFunc {
	text := collectionText[collection]
	path := "/" + collection
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if len(q.Get("q")) > explorer.MaxQueryLen {
			s.renderPage(w, r, http.StatusBadRequest, "status.html", statusView{
				page:    page{Site: s.site, Title: "Bad request"},
				Code:    http.StatusBadRequest,
				Heading: "Search too long",
				Message: fmt.Sprintf("Searches are limited to %d characters.", explorer.MaxQueryLen),
			})
			return
		}
		items, err := s.items(collection)
		if err != nil {
			s.serverError(w, r, err)
			return
		}
		sess := s.sessionFromQuery(items, q)

		types := sess.TypeOptions()
		typeOpts := make([]option, len(types))
		for i, t := range types {
			label := "All types"
			if t != explorer.AllTypes {
				label = catalog.TypeLabel(t)
			}
			typeOpts[i] = option{Value: t, Label: label, Selected: t == sess.Type()}
		}
		sortOpts := []option{
			{Value: explorer.Newest.String(), Label: "Newest first", Selected: sess.Sort() == explorer.Newest},
			{Value: explorer.Oldest.String(), Label: "Oldest first", Selected: sess.Sort() == explorer.Oldest},
		}

		cleared := explorer.NewSession(nil, s.defaultSort)
		res := sess.Result()
		s.renderPage(w, r, http.StatusOK, "list.html", listView{
			page:       page{Site: s.site, Title: text.heading},
			Path:       path,
			Heading:    text.heading,
			Intro:      text.intro,
			Query:      sess.Query(),
			Type:       sess.Type(),
			Sort:       sess.Sort().String(),
			PanelOpen:  sess.PanelOpen(),
			Active:     sess.HasActiveFilters(),
			Types:      typeOpts,
			Sorts:      sortOpts,
			Summary:    sess.Summary(),
			Cards:      makeCards(collection, res.Items),
			ToggleHref: listHref(path, sess, !sess.PanelOpen()),
			ClearHref:  listHref(path, cleared, sess.PanelOpen()),
		})
	}
}

func (s *Server) handleDetail(collection string) http.HandlerFunc {
	text := collectionText[collection]
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := s.cat.Get(collection, r.PathValue("slug"))
		if catalog.IsNotFound(err) || errors.Is(err, content.ErrDirNotFound) {
			s.handleNotFound(w, r)
			return
		}
		if err != nil {
			s.serverError(w, r, err)
			return
		}
		html, err := s.renderer.Render(body.Content)
		if err != nil {
			s.serverError(w, r, err)
			return
		}
		c := makeCard(collection, body.Item)
		s.renderPage(w, r, http.StatusOK, "detail.html", detailView{
			page:      page{Site: s.site, Title: body.Item.Title},
			BackHref:  "/" + collection,
			BackLabel: text.back,
			Item:      body.Item,
			Label:     c.Label,
			Note:      c.Note,
			Links:     body.Links,
			Body:      html,
		})
	}
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, http.StatusNotFound, "status.html", statusView{
		page:    page{Site: s.site, Title: "Not found"},
		Code:    http.StatusNotFound,
		Heading: "Page not found",
		Message: "There is nothing at this address.",
	})
}

// serverError logs err and shows a generic page; details never reach the
// visitor.
func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	s.renderPage(w, r, http.StatusInternalServerError, "status.html", statusView{
		page:    page{Site: s.site, Title: "Error"},
		Code:    http.StatusInternalServerError,
		Heading: "Something went wrong",
		Message: "This page could not be loaded.",
	})
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, code int, name string, data any) {
	if err := s.pages.render(w, code, name, data); err != nil {
		s.log.Error("render page", zap.String("page", name), zap.String("path", r.URL.Path), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
