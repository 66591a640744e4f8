// Package content reads collections of front-matter files (one file per
// item) from a content directory and validates their metadata.
package content

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
)

// DefaultExtension is the file extension that marks a content item.
const DefaultExtension = ".mdx"

// Item is a fully loaded content file.
type Item[F any] struct {
	Slug        string
	Frontmatter F
	Content     string
}

// Entry is an Item without its body, as returned by LoadAll.
type Entry[F any] struct {
	Slug        string
	Frontmatter F
}

// Store resolves collections under a site root. It holds no mutable state
// apart from the optional cache, so one Store can serve concurrent readers.
type Store struct {
	root  string
	ext   string
	cache *Cache
}

// Option configures a Store.
type Option func(*Store)

// WithExtension overrides DefaultExtension.
func WithExtension(ext string) Option {
	return func(s *Store) {
		if ext == "" {
			return
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		s.ext = ext
	}
}

// WithCache makes the store read files through c.
func WithCache(c *Cache) Option {
	return func(s *Store) { s.cache = c }
}

// NewStore returns a store rooted at root (the site directory that holds
// content/ or src/content/).
func NewStore(root string, opts ...Option) *Store {
	s := &Store{root: root, ext: DefaultExtension}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Root returns the site root.
func (s *Store) Root() string { return s.root }

// Extension returns the content file extension, including the dot.
func (s *Store) Extension() string { return s.ext }

// Candidates lists the directories searched for a collection, in order.
func (s *Store) Candidates(collection string) []string {
	return []string{
		filepath.Join(s.root, "content", collection),
		filepath.Join(s.root, "src", "content", collection),
	}
}

// Dir resolves the backing directory of a collection. A candidate that
// holds at least one content file wins over one that merely exists.
func (s *Store) Dir(collection string) (string, error) {
	candidates := s.Candidates(collection)

	var existing []string
	for _, dir := range candidates {
		if isDir(dir) {
			existing = append(existing, dir)
		}
	}
	for _, dir := range existing {
		if s.hasContent(dir) {
			return dir, nil
		}
	}
	if len(existing) > 0 {
		return existing[0], nil
	}
	return "", &DirNotFoundError{Collection: collection, Tried: candidates}
}

// ListSlugs returns the identifiers of every item in a collection, in
// file name order.
func (s *Store) ListSlugs(collection string) ([]string, error) {
	dir, err := s.Dir(collection)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s directory: %w", collection, err)
	}

	var slugs []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), s.ext) {
			continue
		}
		slugs = append(slugs, strings.TrimSuffix(e.Name(), s.ext))
	}
	return slugs, nil
}

// LoadBySlug reads one item, splits its front matter from the body and runs
// validate over the decoded front matter.
func LoadBySlug[F any](s *Store, collection, slug string, validate Validator[F]) (Item[F], error) {
	item, _, err := load(s, collection, slug, validate)
	return item, err
}

// LoadAll loads every item of a collection without bodies, sorted
// descending by the string value of sortKey in the front matter. Items with
// equal keys keep file name order.
func LoadAll[F any](s *Store, collection string, validate Validator[F], sortKey string) ([]Entry[F], error) {
	slugs, err := s.ListSlugs(collection)
	if err != nil {
		return nil, err
	}

	type keyed struct {
		entry Entry[F]
		key   string
	}
	list := make([]keyed, 0, len(slugs))
	for _, slug := range slugs {
		item, raw, err := load(s, collection, slug, validate)
		if err != nil {
			return nil, err
		}
		list = append(list, keyed{
			entry: Entry[F]{Slug: item.Slug, Frontmatter: item.Frontmatter},
			key:   sortValue(raw, sortKey),
		})
	}

	sort.SliceStable(list, func(i, j int) bool {
		return list[i].key > list[j].key
	})

	out := make([]Entry[F], len(list))
	for i, k := range list {
		out[i] = k.entry
	}
	return out, nil
}

func load[F any](s *Store, collection, slug string, validate Validator[F]) (Item[F], map[string]any, error) {
	var zero Item[F]

	dir, err := s.Dir(collection)
	if err != nil {
		return zero, nil, err
	}
	if !validSlug(slug) {
		return zero, nil, &NotFoundError{Collection: collection, Slug: slug}
	}

	path := filepath.Join(dir, slug+s.ext)
	data, err := s.read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return zero, nil, &NotFoundError{Collection: collection, Slug: slug}
		}
		return zero, nil, fmt.Errorf("read %s item %s: %w", collection, slug, err)
	}

	var fm F
	body, err := frontmatter.Parse(bytes.NewReader(data), &fm)
	if err != nil {
		return zero, nil, fmt.Errorf("parse front matter of %s/%s%s: %w", collection, slug, s.ext, err)
	}
	raw := map[string]any{}
	if _, err := frontmatter.Parse(bytes.NewReader(data), &raw); err != nil {
		return zero, nil, fmt.Errorf("parse front matter of %s/%s%s: %w", collection, slug, s.ext, err)
	}

	if validate != nil {
		if err := validate(&fm); err != nil {
			verr := &ValidationError{Collection: collection, Slug: slug, Err: err}
			var fe *FieldError
			if errors.As(err, &fe) {
				verr.Missing = fe.Missing
				verr.Invalid = fe.Invalid
			}
			return zero, nil, verr
		}
	}

	return Item[F]{Slug: slug, Frontmatter: fm, Content: string(body)}, raw, nil
}

func (s *Store) read(path string) ([]byte, error) {
	if s.cache != nil {
		return s.cache.Read(path)
	}
	return os.ReadFile(path)
}

func (s *Store) hasContent(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), s.ext) {
			return true
		}
	}
	return false
}

// validSlug rejects identifiers that could escape the collection directory.
func validSlug(slug string) bool {
	if slug == "" || slug == "." || slug == ".." {
		return false
	}
	return !strings.ContainsAny(slug, `/\`) && !strings.Contains(slug, "..")
}

func sortValue(raw map[string]any, key string) string {
	v, ok := raw[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case time.Time:
		return t.Format(DateLayout)
	default:
		return fmt.Sprint(t)
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
