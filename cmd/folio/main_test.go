package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sgx-labs/folio/internal/cli"
	"github.com/sgx-labs/folio/internal/config"
)

func writeCommandTestFile(t *testing.T, root, collection, name, body string) {
	t.Helper()
	path := filepath.Join(root, "content", collection, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

// setupCommandTestSite points the CLI at a fresh site root with two
// projects and no blog directory.
func setupCommandTestSite(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	oldOverride := config.RootOverride
	config.RootOverride = root
	t.Cleanup(func() { config.RootOverride = oldOverride })

	oldNoColor := cli.NoColor
	cli.NoColor = true
	t.Cleanup(func() { cli.NoColor = oldNoColor })

	for _, k := range []string{"FOLIO_ROOT", "FOLIO_ADDR", "FOLIO_LOG_LEVEL", "FOLIO_DEFAULT_SORT", "FOLIO_LIMITER"} {
		t.Setenv(k, "")
	}
	t.Setenv("HOME", root)

	writeCommandTestFile(t, root, "projects", "soc-lab.mdx", `---
title: SOC lab
date: 2024-04-01
type: cyber
summary: Detection lab built on Splunk
stack: [splunk, sigma]
links:
  github: https://github.com/example/soc-lab
---
# Overview

Built a detection lab with Splunk and Sigma rules.
`)
	writeCommandTestFile(t, root, "projects", "agent.mdx", `---
title: Support agent
date: 2023-03-01
type: ai
summary: Retrieval assistant
---
<Callout title="Note">
Answers from the help centre.
</Callout>
`)
	return root
}

func TestVersionCmd(t *testing.T) {
	root := rootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute(): %v", err)
	}
	if got := out.String(); got != "folio "+Version+"\n" {
		t.Fatalf("unexpected version output: %q", got)
	}
}

func TestCompletionCmd_Bash(t *testing.T) {
	root := rootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"completion", "bash"})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute(): %v", err)
	}
	if !strings.Contains(out.String(), "bash completion for folio") {
		t.Fatalf("expected bash completion output, got: %q", out.String())
	}
}

func TestRootCmd_RegistersCommands(t *testing.T) {
	root := rootCmd()
	for _, name := range []string{"serve", "list", "show", "search", "browse", "check", "mcp", "config", "version"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("command %q not registered", name)
		}
	}
	if root.PersistentFlags().Lookup("root") == nil {
		t.Error("expected global --root flag")
	}
}

func TestCollectionArg(t *testing.T) {
	if _, err := collectionArg("projects"); err != nil {
		t.Errorf("projects: %v", err)
	}
	_, err := collectionArg("photos")
	if err == nil || !strings.Contains(err.Error(), "unknown collection") {
		t.Errorf("expected unknown collection error, got %v", err)
	}
}
