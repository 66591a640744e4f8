// Package setup registers folio with editors and AI tools that read a
// project-level .mcp.json.
package setup

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
)

// ServerName is the key folio uses under mcpServers.
const ServerName = "folio"

// MCPFile is the project-level MCP config file name.
const MCPFile = ".mcp.json"

type mcpServer struct {
	Command string            `json:"command"`
	Args    []string          `json:"args"`
	Env     map[string]string `json:"env,omitempty"`
}

// mcpDoc keeps every top-level key and every other server untouched.
type mcpDoc struct {
	rest    map[string]json.RawMessage
	servers map[string]json.RawMessage
}

func readMCP(path string) (*mcpDoc, error) {
	doc := &mcpDoc{
		rest:    make(map[string]json.RawMessage),
		servers: make(map[string]json.RawMessage),
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", MCPFile, err)
	}
	if err := json.Unmarshal(data, &doc.rest); err != nil {
		return nil, fmt.Errorf("parse %s: %w", MCPFile, err)
	}
	if raw, ok := doc.rest["mcpServers"]; ok {
		if err := json.Unmarshal(raw, &doc.servers); err != nil {
			return nil, fmt.Errorf("parse %s mcpServers: %w", MCPFile, err)
		}
	}
	return doc, nil
}

func (d *mcpDoc) write(path string) error {
	servers, err := json.Marshal(d.servers)
	if err != nil {
		return err
	}
	d.rest["mcpServers"] = servers
	data, err := json.MarshalIndent(d.rest, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", MCPFile, err)
	}
	return nil
}

// RegisterMCP adds or replaces the folio entry in dir/.mcp.json. The entry
// runs "<binary> mcp" with FOLIO_ROOT pointing at siteRoot.
func RegisterMCP(w io.Writer, dir, binary, siteRoot string) error {
	path := filepath.Join(dir, MCPFile)
	doc, err := readMCP(path)
	if err != nil {
		return err
	}
	entry, err := json.Marshal(mcpServer{
		Command: binary,
		Args:    []string{"mcp"},
		Env:     map[string]string{"FOLIO_ROOT": siteRoot},
	})
	if err != nil {
		return err
	}
	doc.servers[ServerName] = entry
	if err := doc.write(path); err != nil {
		return err
	}
	fmt.Fprintf(w, "  → %s (MCP server)\n", path)
	return nil
}

// RemoveMCP deletes the folio entry from dir/.mcp.json.
func RemoveMCP(w io.Writer, dir string) error {
	path := filepath.Join(dir, MCPFile)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("read %s: %w", MCPFile, err)
	}
	doc, err := readMCP(path)
	if err != nil {
		return err
	}
	if _, ok := doc.servers[ServerName]; !ok {
		fmt.Fprintf(w, "  folio not registered in %s\n", MCPFile)
		return nil
	}
	delete(doc.servers, ServerName)
	if err := doc.write(path); err != nil {
		return err
	}
	fmt.Fprintf(w, "  Removed folio from %s\n", MCPFile)
	return nil
}

// MCPInstalled reports whether dir/.mcp.json has a folio entry.
func MCPInstalled(dir string) bool {
	doc, err := readMCP(filepath.Join(dir, MCPFile))
	if err != nil {
		return false
	}
	_, ok := doc.servers[ServerName]
	return ok
}

// DetectBinaryPath finds the installed folio binary, falling back to the
// bare name.
func DetectBinaryPath() string {
	if p, err := exec.LookPath("folio"); err == nil {
		return p
	}

	home, _ := os.UserHomeDir()
	candidates := []string{
		filepath.Join(home, ".local", "bin", "folio"),
		filepath.Join(home, "go", "bin", "folio"),
		"/usr/local/bin/folio",
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return "folio"
}
