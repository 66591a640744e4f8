package content

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type testMeta struct {
	Title   string   `yaml:"title"`
	Date    string   `yaml:"date"`
	Type    string   `yaml:"type"`
	Summary string   `yaml:"summary"`
	Tags    []string `yaml:"tags"`
}

func validateTestMeta(fm *testMeta) error {
	var c Check
	c.Require("title", fm.Title != "")
	c.Require("date", fm.Date != "")
	c.Require("summary", fm.Summary != "")
	c.Date("date", fm.Date)
	return c.Err()
}

func writeItem(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func item(title, date string) string {
	return "---\ntitle: " + title + "\ndate: " + date + "\nsummary: about " + title + "\n---\nBody of " + title + "\n"
}

func TestListSlugs_FiltersByExtension(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "content", "projects")
	writeItem(t, dir, "beta.mdx", item("Beta", "2024-01-01"))
	writeItem(t, dir, "alpha.mdx", item("Alpha", "2024-01-01"))
	writeItem(t, dir, "notes.md", item("Notes", "2024-01-01"))
	writeItem(t, dir, "README", "readme")
	if err := os.MkdirAll(filepath.Join(dir, "drafts.mdx"), 0o755); err != nil {
		t.Fatal(err)
	}

	s := NewStore(root)
	got, err := s.ListSlugs("projects")
	if err != nil {
		t.Fatalf("ListSlugs: %v", err)
	}
	if diff := cmp.Diff([]string{"alpha", "beta"}, got); diff != "" {
		t.Fatalf("slugs mismatch (-want +got):\n%s", diff)
	}
}

func TestListSlugs_CustomExtension(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "content", "blog")
	writeItem(t, dir, "one.md", item("One", "2024-01-01"))
	writeItem(t, dir, "two.mdx", item("Two", "2024-01-01"))

	s := NewStore(root, WithExtension("md"))
	got, err := s.ListSlugs("blog")
	if err != nil {
		t.Fatalf("ListSlugs: %v", err)
	}
	if diff := cmp.Diff([]string{"one"}, got); diff != "" {
		t.Fatalf("slugs mismatch (-want +got):\n%s", diff)
	}
}

func TestDir_PrefersCandidateWithContent(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "content", "projects"), 0o755); err != nil {
		t.Fatal(err)
	}
	srcDir := filepath.Join(root, "src", "content", "projects")
	writeItem(t, srcDir, "alpha.mdx", item("Alpha", "2024-01-01"))

	got, err := NewStore(root).Dir("projects")
	if err != nil {
		t.Fatalf("Dir: %v", err)
	}
	if got != srcDir {
		t.Fatalf("Dir = %q, want %q", got, srcDir)
	}
}

func TestDir_FallsBackToExistingEmptyDir(t *testing.T) {
	root := t.TempDir()
	want := filepath.Join(root, "src", "content", "blog")
	if err := os.MkdirAll(want, 0o755); err != nil {
		t.Fatal(err)
	}

	s := NewStore(root)
	got, err := s.Dir("blog")
	if err != nil {
		t.Fatalf("Dir: %v", err)
	}
	if got != want {
		t.Fatalf("Dir = %q, want %q", got, want)
	}
	slugs, err := s.ListSlugs("blog")
	if err != nil {
		t.Fatalf("ListSlugs: %v", err)
	}
	if len(slugs) != 0 {
		t.Fatalf("expected no slugs, got %v", slugs)
	}
}

func TestDir_MissingCollection(t *testing.T) {
	root := t.TempDir()
	s := NewStore(root)

	_, err := s.ListSlugs("photos")
	if !errors.Is(err, ErrDirNotFound) {
		t.Fatalf("expected ErrDirNotFound, got %v", err)
	}
	var dnf *DirNotFoundError
	if !errors.As(err, &dnf) {
		t.Fatalf("expected *DirNotFoundError, got %T", err)
	}
	if dnf.Collection != "photos" || len(dnf.Tried) != 2 {
		t.Fatalf("unexpected error details: %+v", dnf)
	}
	if !strings.Contains(err.Error(), "photos") || !strings.Contains(err.Error(), filepath.Join("src", "content", "photos")) {
		t.Fatalf("error should name the collection and candidates: %v", err)
	}

	_, err = LoadBySlug(s, "photos", "x", validateTestMeta)
	if !errors.Is(err, ErrDirNotFound) {
		t.Fatalf("LoadBySlug: expected ErrDirNotFound, got %v", err)
	}
}

func TestLoadBySlug_SplitsFrontmatterAndBody(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "content", "projects")
	writeItem(t, dir, "soc-lab.mdx", `---
title: SOC lab
date: 2024-03-09
type: cyber
summary: Home lab for detection engineering
tags: [splunk, sigma]
---
## Overview

<Callout title="Note">Private repo.</Callout>
`)

	got, err := LoadBySlug(NewStore(root), "projects", "soc-lab", validateTestMeta)
	if err != nil {
		t.Fatalf("LoadBySlug: %v", err)
	}
	want := testMeta{
		Title:   "SOC lab",
		Date:    "2024-03-09",
		Type:    "cyber",
		Summary: "Home lab for detection engineering",
		Tags:    []string{"splunk", "sigma"},
	}
	if got.Slug != "soc-lab" {
		t.Fatalf("slug = %q", got.Slug)
	}
	if diff := cmp.Diff(want, got.Frontmatter); diff != "" {
		t.Fatalf("front matter mismatch (-want +got):\n%s", diff)
	}
	if strings.Contains(got.Content, "title:") {
		t.Fatalf("body still contains front matter: %q", got.Content)
	}
	if !strings.Contains(got.Content, "## Overview") || !strings.Contains(got.Content, "<Callout") {
		t.Fatalf("body not preserved: %q", got.Content)
	}
}

func TestLoadBySlug_OptionalFieldsStayAbsent(t *testing.T) {
	root := t.TempDir()
	writeItem(t, filepath.Join(root, "content", "blog"), "plain.mdx", item("Plain", "2024-02-02"))

	got, err := LoadBySlug(NewStore(root), "blog", "plain", validateTestMeta)
	if err != nil {
		t.Fatalf("LoadBySlug: %v", err)
	}
	if got.Frontmatter.Type != "" {
		t.Fatalf("type should be absent, got %q", got.Frontmatter.Type)
	}
	if got.Frontmatter.Tags != nil {
		t.Fatalf("tags should be nil, got %#v", got.Frontmatter.Tags)
	}
}

func TestLoadBySlug_NotFoundIsDistinctFromValidation(t *testing.T) {
	root := t.TempDir()
	writeItem(t, filepath.Join(root, "content", "projects"), "real.mdx", item("Real", "2024-01-01"))

	_, err := LoadBySlug(NewStore(root), "projects", "missing-slug", validateTestMeta)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if errors.Is(err, ErrValidation) {
		t.Fatalf("not-found must not match ErrValidation: %v", err)
	}
	if !IsNotFound(err) {
		t.Fatalf("IsNotFound(%v) = false", err)
	}
	if !strings.Contains(err.Error(), "projects") || !strings.Contains(err.Error(), "missing-slug") {
		t.Fatalf("error should name collection and slug: %v", err)
	}
}

func TestLoadBySlug_RejectsPathTraversal(t *testing.T) {
	root := t.TempDir()
	writeItem(t, filepath.Join(root, "content", "projects"), "real.mdx", item("Real", "2024-01-01"))
	writeItem(t, filepath.Join(root, "content"), "secret.mdx", item("Secret", "2024-01-01"))

	for _, slug := range []string{"../secret", "..", "a/b", `a\b`, ""} {
		_, err := LoadBySlug(NewStore(root), "projects", slug, validateTestMeta)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("slug %q: expected ErrNotFound, got %v", slug, err)
		}
	}
}

func TestLoadBySlug_ValidationFailure(t *testing.T) {
	root := t.TempDir()
	writeItem(t, filepath.Join(root, "content", "projects"), "half.mdx", "---\ntitle: Half\n---\nbody\n")

	got, err := LoadBySlug(NewStore(root), "projects", "half", validateTestMeta)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if diff := cmp.Diff([]string{"date", "summary"}, verr.Missing); diff != "" {
		t.Fatalf("missing fields (-want +got):\n%s", diff)
	}
	if verr.Collection != "projects" || verr.Slug != "half" {
		t.Fatalf("error should carry collection and slug: %+v", verr)
	}
	if got.Slug != "" || got.Content != "" || got.Frontmatter.Title != "" {
		t.Fatalf("partial result returned: %+v", got)
	}
}

func TestLoadBySlug_InvalidDate(t *testing.T) {
	root := t.TempDir()
	writeItem(t, filepath.Join(root, "content", "blog"), "odd.mdx", item("Odd", "2024-1-5"))

	_, err := LoadBySlug(NewStore(root), "blog", "odd", validateTestMeta)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if len(verr.Invalid) != 1 || !strings.HasPrefix(verr.Invalid[0], "date") {
		t.Fatalf("expected date to be flagged invalid, got %+v", verr)
	}
}

func TestLoadBySlug_NoFrontmatterFailsValidation(t *testing.T) {
	root := t.TempDir()
	writeItem(t, filepath.Join(root, "content", "blog"), "bare.mdx", "just a body\n")

	_, err := LoadBySlug(NewStore(root), "blog", "bare", validateTestMeta)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestLoadAll_SortsNewestFirst(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "content", "projects")
	writeItem(t, dir, "a.mdx", item("A", "2024-01-01"))
	writeItem(t, dir, "b.mdx", item("B", "2024-06-01"))
	writeItem(t, dir, "c.mdx", item("C", "2023-12-01"))

	got, err := LoadAll(NewStore(root), "projects", validateTestMeta, "date")
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	var dates []string
	for _, e := range got {
		dates = append(dates, e.Frontmatter.Date)
	}
	if diff := cmp.Diff([]string{"2024-06-01", "2024-01-01", "2023-12-01"}, dates); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadAll_EqualKeysKeepFileOrder(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "content", "blog")
	writeItem(t, dir, "c.mdx", item("C", "2024-05-05"))
	writeItem(t, dir, "a.mdx", item("A", "2024-05-05"))
	writeItem(t, dir, "b.mdx", item("B", "2024-05-05"))
	writeItem(t, dir, "z.mdx", item("Z", "2025-01-01"))

	got, err := LoadAll(NewStore(root), "blog", validateTestMeta, "date")
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	var slugs []string
	for _, e := range got {
		slugs = append(slugs, e.Slug)
	}
	if diff := cmp.Diff([]string{"z", "a", "b", "c"}, slugs); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadAll_MissingSortKeySortsLast(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "content", "blog")
	writeItem(t, dir, "a.mdx", "---\ntitle: A\nsummary: s\n---\n")
	writeItem(t, dir, "b.mdx", item("B", "2020-01-01"))

	got, err := LoadAll[testMeta](NewStore(root), "blog", nil, "date")
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(got) != 2 || got[0].Slug != "b" || got[1].Slug != "a" {
		t.Fatalf("expected [b a], got %+v", got)
	}
}

func TestLoadAll_Idempotent(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "content", "projects")
	writeItem(t, dir, "a.mdx", item("A", "2022-01-01"))
	writeItem(t, dir, "b.mdx", item("B", "2023-01-01"))
	writeItem(t, dir, "c.mdx", item("C", "2023-01-01"))

	for _, s := range []*Store{NewStore(root), NewStore(root, WithCache(NewCache()))} {
		first, err := LoadAll(s, "projects", validateTestMeta, "date")
		if err != nil {
			t.Fatalf("LoadAll: %v", err)
		}
		second, err := LoadAll(s, "projects", validateTestMeta, "date")
		if err != nil {
			t.Fatalf("LoadAll: %v", err)
		}
		if diff := cmp.Diff(first, second); diff != "" {
			t.Fatalf("second load differs (-first +second):\n%s", diff)
		}
	}
}

func TestLoadAll_PropagatesValidationFailure(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "content", "projects")
	writeItem(t, dir, "good.mdx", item("Good", "2024-01-01"))
	writeItem(t, dir, "bad.mdx", "---\ntitle: Bad\n---\n")

	got, err := LoadAll(NewStore(root), "projects", validateTestMeta, "date")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if got != nil {
		t.Fatalf("expected no partial list, got %+v", got)
	}
}

func TestCheck_Date(t *testing.T) {
	tests := []struct {
		value string
		ok    bool
	}{
		{"", true},
		{"2024-01-31", true},
		{"2024-02-30", false},
		{"2024-1-31", false},
		{"31/01/2024", false},
		{"2024-01-31T10:00:00Z", false},
	}
	for _, tt := range tests {
		var c Check
		c.Date("date", tt.value)
		if got := c.Err() == nil; got != tt.ok {
			t.Errorf("Date(%q) ok = %v, want %v", tt.value, got, tt.ok)
		}
	}
}
