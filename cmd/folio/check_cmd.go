package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sgx-labs/folio/internal/catalog"
	"github.com/sgx-labs/folio/internal/cli"
	"github.com/sgx-labs/folio/internal/content"
	"github.com/sgx-labs/folio/internal/render"
)

func checkCmd() *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate every content file",
		Long: `Load every project and blog post, validate its frontmatter and
check that each component tag in its body is known and well formed.
Exits non-zero when anything fails, so it can gate a deploy.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.OutOrStdout(), jsonOut)
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

// CheckResult is the outcome for one content file.
type CheckResult struct {
	Collection string `json:"collection"`
	Slug       string `json:"slug"`
	Status     string `json:"status"` // "pass" or "fail"
	Message    string `json:"message,omitempty"`
}

// CheckReport is the whole run.
type CheckReport struct {
	Root    string        `json:"root"`
	Checks  []CheckResult `json:"checks"`
	Missing []string      `json:"missing,omitempty"` // collections with no directory
	Passed  int           `json:"passed"`
	Failed  int           `json:"failed"`
}

func runCheck(w io.Writer, jsonOut bool) error {
	s, err := loadSite()
	if err != nil {
		return err
	}
	report, err := checkSite(s.cat, render.New(nil))
	if err != nil {
		return err
	}
	report.Root = s.cat.Store().Root()

	if jsonOut {
		if err := printJSON(w, report); err != nil {
			return err
		}
	} else {
		printCheckReport(w, report)
	}
	if report.Failed > 0 {
		return fmt.Errorf("%d of %d items failed checks", report.Failed, report.Failed+report.Passed)
	}
	return nil
}

// checkSite checks all collections concurrently. Per-item failures land in
// the report; only I/O errors reading a collection abort the run.
func checkSite(cat *catalog.Catalog, r *render.Renderer) (CheckReport, error) {
	collections := catalog.Collections()
	results := make([][]CheckResult, len(collections))
	missing := make([]bool, len(collections))

	var g errgroup.Group
	for i, name := range collections {
		g.Go(func() error {
			res, err := checkCollection(cat, r, name)
			if errors.Is(err, content.ErrDirNotFound) {
				missing[i] = true
				return nil
			}
			results[i] = res
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return CheckReport{}, err
	}

	report := CheckReport{Checks: []CheckResult{}}
	for i, res := range results {
		if missing[i] {
			report.Missing = append(report.Missing, collections[i])
		}
		for _, c := range res {
			if c.Status == "pass" {
				report.Passed++
			} else {
				report.Failed++
			}
			report.Checks = append(report.Checks, c)
		}
	}
	return report, nil
}

func checkCollection(cat *catalog.Catalog, r *render.Renderer, collection string) ([]CheckResult, error) {
	slugs, err := cat.Store().ListSlugs(collection)
	if err != nil {
		return nil, err
	}
	out := make([]CheckResult, 0, len(slugs))
	for _, slug := range slugs {
		res := CheckResult{Collection: collection, Slug: slug, Status: "pass"}
		b, err := cat.Get(collection, slug)
		if err == nil {
			err = r.Validate(b.Content)
		}
		if err != nil {
			res.Status = "fail"
			res.Message = err.Error()
		}
		out = append(out, res)
	}
	return out, nil
}

func printCheckReport(w io.Writer, report CheckReport) {
	cli.Header(w, "folio check")
	fmt.Fprintf(w, "  %s\n", cli.ShortenHome(report.Root))
	for _, name := range report.Missing {
		cli.Warn(w, "no %s directory found", name)
	}

	section := ""
	for _, c := range report.Checks {
		if c.Collection != section {
			section = c.Collection
			cli.Section(w, title(section))
		}
		if c.Status == "pass" {
			cli.OK(w, c.Slug)
		} else {
			cli.Fail(w, c.Slug, c.Message)
		}
	}
	fmt.Fprintf(w, "\n  %d passed, %d failed\n", report.Passed, report.Failed)
}
