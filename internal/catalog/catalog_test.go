package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sgx-labs/folio/internal/content"
	"github.com/sgx-labs/folio/internal/explorer"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "content", "projects", "soc-lab.mdx"), `---
title: SOC lab
date: 2024-01-01
type: cyber
summary: Detection lab
stack: [splunk, sigma]
confidential: true
links:
  github: https://github.com/example/soc-lab
---
Lab body.
`)
	writeFile(t, filepath.Join(root, "content", "projects", "pipeline.mdx"), `---
title: Automation pipeline
date: 2024-06-01
type: automation
summary: Nightly jobs
---
Pipeline body.
`)
	writeFile(t, filepath.Join(root, "content", "projects", "old.mdx"), `---
title: Old thing
date: 2023-12-01
type: coding
summary: Legacy
featured: true
---
`)
	writeFile(t, filepath.Join(root, "content", "blog", "hello.mdx"), `---
title: Hello
date: 2024-02-02
summary: First post
---
Hi.
`)
	writeFile(t, filepath.Join(root, "content", "blog", "review.mdx"), `---
title: Review
date: 2024-03-03
type: case-study
summary: A review
tags: [ops]
---
`)
	return New(content.NewStore(root))
}

func TestProjects_NewestFirst(t *testing.T) {
	c := newTestCatalog(t)
	ps, err := c.Projects()
	if err != nil {
		t.Fatalf("Projects: %v", err)
	}
	var dates []string
	for _, p := range ps {
		dates = append(dates, p.Frontmatter.Date)
	}
	if diff := cmp.Diff([]string{"2024-06-01", "2024-01-01", "2023-12-01"}, dates); diff != "" {
		t.Fatalf("order (-want +got):\n%s", diff)
	}
}

func TestProject_DecodesOptionalFields(t *testing.T) {
	c := newTestCatalog(t)
	p, err := c.Project("soc-lab")
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if !p.Frontmatter.Confidential {
		t.Error("confidential not decoded")
	}
	if p.Frontmatter.Links == nil || p.Frontmatter.Links.GitHub != "https://github.com/example/soc-lab" {
		t.Errorf("links not decoded: %+v", p.Frontmatter.Links)
	}
	if diff := cmp.Diff([]string{"splunk", "sigma"}, p.Frontmatter.Stack); diff != "" {
		t.Errorf("stack (-want +got):\n%s", diff)
	}

	old, err := c.Project("old")
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if old.Frontmatter.Links != nil || old.Frontmatter.Stack != nil {
		t.Errorf("absent optional fields should stay nil: %+v", old.Frontmatter)
	}
}

func TestProject_NotFound(t *testing.T) {
	c := newTestCatalog(t)
	_, err := c.Project("missing-slug")
	if !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if errors.Is(err, content.ErrValidation) {
		t.Fatal("not found must not look like a validation failure")
	}
}

func TestValidateProject_RequiresType(t *testing.T) {
	err := ValidateProject(&ProjectFrontmatter{Title: "t", Date: "2024-01-01", Summary: "s"})
	var fe *content.FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FieldError, got %v", err)
	}
	if diff := cmp.Diff([]string{"type"}, fe.Missing); diff != "" {
		t.Fatalf("missing (-want +got):\n%s", diff)
	}

	if err := ValidatePost(&BlogFrontmatter{Title: "t", Date: "2024-01-01", Summary: "s"}); err != nil {
		t.Fatalf("posts do not require type: %v", err)
	}
}

func TestProjects_InvalidItemFailsCollection(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "content", "projects", "draft.mdx"), "---\ntitle: Draft\ndate: 2024-01-01\nsummary: s\n---\n")
	_, err := New(content.NewStore(root)).Projects()
	var verr *content.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Collection != ProjectsCollection || verr.Slug != "draft" {
		t.Fatalf("error should name collection and slug: %v", err)
	}
}

func TestPostItem_Defaults(t *testing.T) {
	c := newTestCatalog(t)
	posts, err := c.Posts()
	if err != nil {
		t.Fatalf("Posts: %v", err)
	}
	items := PostItems(posts)
	want := []explorer.Item{
		{ID: "review", Href: "/blog/review", Title: "Review", Summary: "A review", Date: "2024-03-03", Type: "case-study", Tags: []string{"ops"}},
		{ID: "hello", Href: "/blog/hello", Title: "Hello", Summary: "First post", Date: "2024-02-02", Type: "blog", Tags: []string{}},
	}
	if diff := cmp.Diff(want, items); diff != "" {
		t.Fatalf("post items (-want +got):\n%s", diff)
	}
}

func TestProjectItem_UsesStackAsTags(t *testing.T) {
	got := ProjectItem(ProjectEntry{Slug: "soc-lab", Frontmatter: ProjectFrontmatter{
		Title: "SOC lab", Date: "2024-01-01", Type: "cyber", Summary: "s",
		Stack: []string{"splunk"}, Confidential: true,
	}})
	want := explorer.Item{
		ID: "soc-lab", Href: "/projects/soc-lab", Title: "SOC lab", Summary: "s",
		Date: "2024-01-01", Type: "cyber", Tags: []string{"splunk"}, Confidential: true,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("project item (-want +got):\n%s", diff)
	}
}

func TestItems_AlwaysHaveIDAndHref(t *testing.T) {
	c := newTestCatalog(t)
	for _, coll := range Collections() {
		items, err := c.Items(coll)
		if err != nil {
			t.Fatalf("Items(%s): %v", coll, err)
		}
		if len(items) == 0 {
			t.Fatalf("Items(%s) empty", coll)
		}
		for _, it := range items {
			if it.ID == "" || it.Href == "" {
				t.Errorf("%s: item without id or href: %+v", coll, it)
			}
		}
	}
	if _, err := c.Items("photos"); err == nil {
		t.Fatal("expected error for unknown collection")
	}
}

func TestGet_ReturnsBody(t *testing.T) {
	c := newTestCatalog(t)
	b, err := c.Get(ProjectsCollection, "pipeline")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if b.Item.Href != "/projects/pipeline" || b.Content == "" {
		t.Fatalf("unexpected body: %+v", b)
	}
	if _, err := c.Get(BlogCollection, "nope"); !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestTypeLabel(t *testing.T) {
	tests := map[string]string{
		"cyber":             "Cybersecurity",
		"ai":                "AI",
		"AI":                "AI",
		"automation":        "Automation",
		"blog":              "Blog",
		"photo":             "Photography",
		"coding":            "Software",
		"":                  "Software",
		"case-study":        "Case Study",
		"literature_review": "Literature Review",
	}
	for in, want := range tests {
		if got := TypeLabel(in); got != want {
			t.Errorf("TypeLabel(%q) = %q, want %q", in, got, want)
		}
	}
}
