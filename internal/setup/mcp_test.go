package setup

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func readServers(t *testing.T, dir string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, MCPFile))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("parse: %v", err)
	}
	servers, _ := doc["mcpServers"].(map[string]any)
	return servers
}

func TestRegisterMCP_CreatesFile(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer

	if err := RegisterMCP(&out, dir, "/usr/local/bin/folio", "/srv/site"); err != nil {
		t.Fatalf("RegisterMCP: %v", err)
	}
	if !MCPInstalled(dir) {
		t.Fatal("expected folio to be registered")
	}

	entry, _ := readServers(t, dir)[ServerName].(map[string]any)
	if entry["command"] != "/usr/local/bin/folio" {
		t.Errorf("command = %v", entry["command"])
	}
	env, _ := entry["env"].(map[string]any)
	if env["FOLIO_ROOT"] != "/srv/site" {
		t.Errorf("env = %v", entry["env"])
	}
}

func TestRegisterMCP_KeepsOtherServersAndKeys(t *testing.T) {
	dir := t.TempDir()
	existing := `{"mcpServers":{"other":{"command":"other","args":[]}},"inputs":[1]}`
	if err := os.WriteFile(filepath.Join(dir, MCPFile), []byte(existing), 0o644); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer

	if err := RegisterMCP(&out, dir, "folio", dir); err != nil {
		t.Fatalf("RegisterMCP: %v", err)
	}
	servers := readServers(t, dir)
	if _, ok := servers["other"]; !ok {
		t.Error("existing server was dropped")
	}
	if _, ok := servers[ServerName]; !ok {
		t.Error("folio not added")
	}

	data, _ := os.ReadFile(filepath.Join(dir, MCPFile))
	var doc map[string]any
	_ = json.Unmarshal(data, &doc)
	if _, ok := doc["inputs"]; !ok {
		t.Error("unrelated top-level key was dropped")
	}
}

func TestRemoveMCP(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer

	if err := RemoveMCP(&out, dir); err == nil {
		t.Fatal("expected error when no file exists")
	}
	if err := RegisterMCP(&out, dir, "folio", dir); err != nil {
		t.Fatal(err)
	}
	if err := RemoveMCP(&out, dir); err != nil {
		t.Fatalf("RemoveMCP: %v", err)
	}
	if MCPInstalled(dir) {
		t.Fatal("folio still registered after removal")
	}

	out.Reset()
	if err := RemoveMCP(&out, dir); err != nil {
		t.Fatalf("second RemoveMCP: %v", err)
	}
	if !bytes.Contains(out.Bytes(), []byte("not registered")) {
		t.Errorf("expected not-registered note, got %q", out.String())
	}
}

func TestMCPInstalled_BadJSON(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, MCPFile), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if MCPInstalled(dir) {
		t.Fatal("unparseable file should not count as installed")
	}
	var out bytes.Buffer
	if err := RegisterMCP(&out, dir, "folio", dir); err == nil {
		t.Fatal("expected parse error instead of overwriting the file")
	}
}
