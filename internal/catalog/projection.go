package catalog

import (
	"fmt"

	"github.com/sgx-labs/folio/internal/explorer"
)

// DefaultPostType is the type given to posts that do not declare one.
const DefaultPostType = "blog"

// ProjectHref is the page path of a project.
func ProjectHref(slug string) string { return "/projects/" + slug }

// PostHref is the page path of a blog post.
func PostHref(slug string) string { return "/blog/" + slug }

// ProjectItem maps a project to an explorer item. Tags come from the
// project's stack.
func ProjectItem(p ProjectEntry) explorer.Item {
	return explorer.Item{
		ID:           p.Slug,
		Href:         ProjectHref(p.Slug),
		Title:        p.Frontmatter.Title,
		Summary:      p.Frontmatter.Summary,
		Date:         p.Frontmatter.Date,
		Type:         p.Frontmatter.Type,
		Tags:         p.Frontmatter.Stack,
		Confidential: p.Frontmatter.Confidential,
	}
}

// PostItem maps a blog post to an explorer item. Posts without a type get
// DefaultPostType and posts without tags get an empty list.
func PostItem(p PostEntry) explorer.Item {
	typ := p.Frontmatter.Type
	if typ == "" {
		typ = DefaultPostType
	}
	tags := p.Frontmatter.Tags
	if tags == nil {
		tags = []string{}
	}
	return explorer.Item{
		ID:      p.Slug,
		Href:    PostHref(p.Slug),
		Title:   p.Frontmatter.Title,
		Summary: p.Frontmatter.Summary,
		Date:    p.Frontmatter.Date,
		Type:    typ,
		Tags:    tags,
	}
}

// ProjectItems maps every project in order.
func ProjectItems(ps []ProjectEntry) []explorer.Item {
	out := make([]explorer.Item, len(ps))
	for i, p := range ps {
		out[i] = ProjectItem(p)
	}
	return out
}

// PostItems maps every post in order.
func PostItems(ps []PostEntry) []explorer.Item {
	out := make([]explorer.Item, len(ps))
	for i, p := range ps {
		out[i] = PostItem(p)
	}
	return out
}

// Items loads a whole collection and projects it.
func (c *Catalog) Items(collection string) ([]explorer.Item, error) {
	switch collection {
	case ProjectsCollection:
		ps, err := c.Projects()
		if err != nil {
			return nil, err
		}
		return ProjectItems(ps), nil
	case BlogCollection:
		ps, err := c.Posts()
		if err != nil {
			return nil, err
		}
		return PostItems(ps), nil
	}
	return nil, &UnknownCollectionError{Name: collection}
}

// Body is the detail view of any item: its projection plus the raw body.
type Body struct {
	Item    explorer.Item
	Links   *ProjectLinks
	Content string
}

// Get loads one item of any collection with its body.
func (c *Catalog) Get(collection, slug string) (Body, error) {
	switch collection {
	case ProjectsCollection:
		p, err := c.Project(slug)
		if err != nil {
			return Body{}, err
		}
		item := ProjectItem(ProjectEntry{Slug: p.Slug, Frontmatter: p.Frontmatter})
		return Body{Item: item, Links: p.Frontmatter.Links, Content: p.Content}, nil
	case BlogCollection:
		p, err := c.Post(slug)
		if err != nil {
			return Body{}, err
		}
		item := PostItem(PostEntry{Slug: p.Slug, Frontmatter: p.Frontmatter})
		return Body{Item: item, Content: p.Content}, nil
	}
	return Body{}, &UnknownCollectionError{Name: collection}
}

// UnknownCollectionError is returned for a collection name the catalog
// does not serve.
type UnknownCollectionError struct {
	Name string
}

func (e *UnknownCollectionError) Error() string {
	return fmt.Sprintf("unknown collection %q (want projects or blog)", e.Name)
}
