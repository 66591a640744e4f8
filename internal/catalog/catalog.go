// Package catalog binds the generic content store to the site's two
// collections, projects and blog posts, with their front matter schemas.
package catalog

import (
	"github.com/sgx-labs/folio/internal/content"
)

// Collection names as they appear on disk.
const (
	ProjectsCollection = "projects"
	BlogCollection     = "blog"
)

// ProjectLinks are the optional outbound links of a project.
type ProjectLinks struct {
	GitHub string `yaml:"github" json:"github,omitempty"`
	Demo   string `yaml:"demo" json:"demo,omitempty"`
}

// ProjectFrontmatter is the metadata block of a project file.
type ProjectFrontmatter struct {
	Title        string        `yaml:"title" json:"title"`
	Date         string        `yaml:"date" json:"date"`
	Type         string        `yaml:"type" json:"type"`
	Summary      string        `yaml:"summary" json:"summary"`
	Stack        []string      `yaml:"stack" json:"stack,omitempty"`
	Featured     bool          `yaml:"featured" json:"featured,omitempty"`
	Confidential bool          `yaml:"confidential" json:"confidential,omitempty"`
	Links        *ProjectLinks `yaml:"links" json:"links,omitempty"`
}

// BlogFrontmatter is the metadata block of a blog post. Type is optional.
type BlogFrontmatter struct {
	Title    string   `yaml:"title" json:"title"`
	Date     string   `yaml:"date" json:"date"`
	Type     string   `yaml:"type" json:"type,omitempty"`
	Summary  string   `yaml:"summary" json:"summary"`
	Tags     []string `yaml:"tags" json:"tags,omitempty"`
	Featured bool     `yaml:"featured" json:"featured,omitempty"`
}

type (
	Project      = content.Item[ProjectFrontmatter]
	ProjectEntry = content.Entry[ProjectFrontmatter]
	Post         = content.Item[BlogFrontmatter]
	PostEntry    = content.Entry[BlogFrontmatter]
)

// ValidateProject requires title, date, type and summary.
func ValidateProject(fm *ProjectFrontmatter) error {
	var c content.Check
	c.Require("title", fm.Title != "")
	c.Require("date", fm.Date != "")
	c.Require("type", fm.Type != "")
	c.Require("summary", fm.Summary != "")
	c.Date("date", fm.Date)
	return c.Err()
}

// ValidatePost requires title, date and summary.
func ValidatePost(fm *BlogFrontmatter) error {
	var c content.Check
	c.Require("title", fm.Title != "")
	c.Require("date", fm.Date != "")
	c.Require("summary", fm.Summary != "")
	c.Date("date", fm.Date)
	return c.Err()
}

// Catalog exposes list and detail lookups for each collection.
type Catalog struct {
	store *content.Store
}

// New returns a catalog over store.
func New(store *content.Store) *Catalog {
	return &Catalog{store: store}
}

// Store returns the underlying content store.
func (c *Catalog) Store() *content.Store { return c.store }

// Projects returns every project, newest first, without bodies.
func (c *Catalog) Projects() ([]ProjectEntry, error) {
	return content.LoadAll(c.store, ProjectsCollection, ValidateProject, "date")
}

// Project returns one project with its body.
func (c *Catalog) Project(slug string) (Project, error) {
	return content.LoadBySlug(c.store, ProjectsCollection, slug, ValidateProject)
}

// Posts returns every blog post, newest first, without bodies.
func (c *Catalog) Posts() ([]PostEntry, error) {
	return content.LoadAll(c.store, BlogCollection, ValidatePost, "date")
}

// Post returns one blog post with its body.
func (c *Catalog) Post(slug string) (Post, error) {
	return content.LoadBySlug(c.store, BlogCollection, slug, ValidatePost)
}

// IsNotFound reports whether err means the requested item does not exist.
func IsNotFound(err error) bool {
	return content.IsNotFound(err)
}

// Collections lists the collection names the catalog knows.
func Collections() []string {
	return []string{ProjectsCollection, BlogCollection}
}

// Known reports whether name is a catalog collection.
func Known(name string) bool {
	return name == ProjectsCollection || name == BlogCollection
}
