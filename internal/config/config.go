// Package config loads folio settings from TOML, environment variables and
// command-line overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config file location relative to the site root.
const (
	ConfigDir  = ".folio"
	ConfigName = "config.toml"
)

// RootOverride is set by the --root flag and wins over every other source.
var RootOverride string

// Duration is a time.Duration written as a Go duration string ("60s").
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Config holds all folio configuration, loaded from TOML + env + flags.
type Config struct {
	Site     SiteConfig     `toml:"site"`
	Server   ServerConfig   `toml:"server"`
	Explorer ExplorerConfig `toml:"explorer"`
	Contact  ContactConfig  `toml:"contact"`
	Watch    WatchConfig    `toml:"watch"`
}

// SiteConfig describes the site and where its content lives.
type SiteConfig struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
	Author      string `toml:"author"`
	BaseURL     string `toml:"base_url"`
	Root        string `toml:"root"`
	Extension   string `toml:"extension"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
	LogLevel     string   `toml:"log_level"`
}

// ExplorerConfig holds list page defaults.
type ExplorerConfig struct {
	DefaultSort string `toml:"default_sort"` // "newest" or "oldest"
}

// ContactConfig holds contact relay and rate limit settings.
type ContactConfig struct {
	To              string   `toml:"to"`
	From            string   `toml:"from"`
	APIKey          string   `toml:"api_key"`
	APIURL          string   `toml:"api_url"`
	RateLimitWindow Duration `toml:"rate_limit_window"`
	RateLimitMax    int      `toml:"rate_limit_max"`
	Limiter         string   `toml:"limiter"` // "memory" or "sqlite"
	LimiterPath     string   `toml:"limiter_path"`
	MaxClients      int      `toml:"max_clients"`
}

// WatchConfig controls content reloading while serving.
type WatchConfig struct {
	Enabled  bool     `toml:"enabled"`
	Debounce Duration `toml:"debounce"`
}

// DefaultConfig returns a Config with all built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			Title:     "Portfolio",
			Extension: ".mdx",
		},
		Server: ServerConfig{
			Addr:         "127.0.0.1:3000",
			ReadTimeout:  Duration{10 * time.Second},
			WriteTimeout: Duration{15 * time.Second},
			LogLevel:     "info",
		},
		Explorer: ExplorerConfig{
			DefaultSort: "newest",
		},
		Contact: ContactConfig{
			APIURL:          "https://api.resend.com/emails",
			RateLimitWindow: Duration{time.Minute},
			RateLimitMax:    3,
			Limiter:         "memory",
			MaxClients:      10000,
		},
		Watch: WatchConfig{
			Enabled:  true,
			Debounce: Duration{250 * time.Millisecond},
		},
	}
}

// LoadConfig merges all configuration sources:
// defaults < TOML file < env vars < RootOverride.
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(findConfigFile())
}

// LoadConfigFrom loads configuration from a specific file path, merging with
// defaults and env vars. A missing file is not an error.
func LoadConfigFrom(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			meta, err := toml.DecodeFile(configPath, cfg)
			if err != nil {
				return nil, fmt.Errorf("parse config %s: %w", configPath, err)
			}
			warnUnknownKeys(meta, configPath)
		}
	}

	applyEnv(cfg)
	if RootOverride != "" {
		cfg.Site.Root = RootOverride
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("FOLIO_ROOT"); v != "" {
		cfg.Site.Root = v
	}
	if v := os.Getenv("FOLIO_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("FOLIO_LOG_LEVEL"); v != "" {
		cfg.Server.LogLevel = v
	}
	if v := os.Getenv("FOLIO_DEFAULT_SORT"); v != "" {
		cfg.Explorer.DefaultSort = v
	}
	if v := os.Getenv("FOLIO_LIMITER"); v != "" {
		cfg.Contact.Limiter = v
	}
	if v := os.Getenv("RESEND_API_KEY"); v != "" {
		cfg.Contact.APIKey = v
	}
	if v := os.Getenv("CONTACT_TO_EMAIL"); v != "" {
		cfg.Contact.To = v
	}
	if v := os.Getenv("CONTACT_FROM_EMAIL"); v != "" {
		cfg.Contact.From = v
	}
}

// Validate rejects values that would otherwise fail later at runtime.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Explorer.DefaultSort) {
	case "newest", "oldest":
	default:
		return fmt.Errorf("explorer.default_sort must be \"newest\" or \"oldest\", got %q", c.Explorer.DefaultSort)
	}
	switch c.Contact.Limiter {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("contact.limiter must be \"memory\" or \"sqlite\", got %q", c.Contact.Limiter)
	}
	if c.Contact.RateLimitMax < 0 {
		return fmt.Errorf("contact.rate_limit_max must not be negative")
	}
	return nil
}

// SiteRoot returns the directory that holds content/ or src/content/.
// An unset root means the current directory.
func (c *Config) SiteRoot() string {
	if c.Site.Root != "" {
		return c.Site.Root
	}
	if cwd, err := os.Getwd(); err == nil {
		return cwd
	}
	return "."
}

// LimiterDBPath returns where the SQLite limiter keeps its counters.
func (c *Config) LimiterDBPath() string {
	if c.Contact.LimiterPath != "" {
		return c.Contact.LimiterPath
	}
	return filepath.Join(c.SiteRoot(), ConfigDir, "limits.db")
}

// findConfigFile looks for .folio/config.toml under the override root,
// then FOLIO_ROOT, then the current directory.
func findConfigFile() string {
	var dirs []string
	if RootOverride != "" {
		dirs = append(dirs, RootOverride)
	}
	if v := os.Getenv("FOLIO_ROOT"); v != "" {
		dirs = append(dirs, v)
	}
	if cwd, err := os.Getwd(); err == nil {
		dirs = append(dirs, cwd)
	}

	for _, dir := range dirs {
		p := ConfigFilePath(dir)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// FindConfigFile returns the path to the active config file, or empty string if none found.
func FindConfigFile() string {
	return findConfigFile()
}

// ConfigFilePath returns the config file location for a site root.
func ConfigFilePath(root string) string {
	return filepath.Join(root, ConfigDir, ConfigName)
}

// GenerateConfig writes a commented default config under root. It refuses
// to overwrite an existing file unless force is set.
func GenerateConfig(root string, force bool) (string, error) {
	configPath := ConfigFilePath(root)
	if _, err := os.Stat(configPath); err == nil && !force {
		return configPath, fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}
	return configPath, os.WriteFile(configPath, []byte(generateTOMLContent()), 0o600)
}

func generateTOMLContent() string {
	var b strings.Builder
	b.WriteString("# folio configuration\n")
	b.WriteString("#\n")
	b.WriteString("# Priority: CLI flags > environment variables > this file > built-in defaults\n")
	b.WriteString("# Environment variables: FOLIO_ROOT, FOLIO_ADDR, FOLIO_LOG_LEVEL,\n")
	b.WriteString("#   FOLIO_DEFAULT_SORT, FOLIO_LIMITER, RESEND_API_KEY,\n")
	b.WriteString("#   CONTACT_TO_EMAIL, CONTACT_FROM_EMAIL\n\n")

	b.WriteString("[site]\n")
	b.WriteString("title = \"Portfolio\"\n")
	b.WriteString("# description = \"Security, automation and software projects\"\n")
	b.WriteString("# author = \"\"\n")
	b.WriteString("# base_url = \"https://example.com\"\n")
	b.WriteString("# root = \"/path/to/site\"  # holds content/ or src/content/; defaults to the working directory\n")
	b.WriteString("extension = \".mdx\"\n\n")

	b.WriteString("[server]\n")
	b.WriteString("addr = \"127.0.0.1:3000\"\n")
	b.WriteString("read_timeout = \"10s\"\n")
	b.WriteString("write_timeout = \"15s\"\n")
	b.WriteString("log_level = \"info\"  # debug, info, warn, error\n\n")

	b.WriteString("[explorer]\n")
	b.WriteString("default_sort = \"newest\"  # or \"oldest\"\n\n")

	b.WriteString("[contact]\n")
	b.WriteString("# to = \"you@example.com\"       # or CONTACT_TO_EMAIL\n")
	b.WriteString("# from = \"site@example.com\"    # or CONTACT_FROM_EMAIL\n")
	b.WriteString("# api_key = \"\"                 # or RESEND_API_KEY\n")
	b.WriteString("rate_limit_window = \"1m0s\"\n")
	b.WriteString("rate_limit_max = 3\n")
	b.WriteString("limiter = \"memory\"  # \"sqlite\" shares counters between processes\n")
	b.WriteString("# limiter_path = \".folio/limits.db\"\n")
	b.WriteString("max_clients = 10000\n\n")

	b.WriteString("[watch]\n")
	b.WriteString("enabled = true\n")
	b.WriteString("debounce = \"250ms\"\n")

	return b.String()
}

// ShowConfig returns the current effective configuration as TOML, with the
// API key redacted.
func ShowConfig() string {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Sprintf("# Error loading config: %v\n", err)
	}
	return Render(cfg)
}

// Render encodes cfg as TOML with secrets redacted.
func Render(cfg *Config) string {
	shown := *cfg
	if shown.Site.Root == "" {
		shown.Site.Root = cfg.SiteRoot()
	}
	if shown.Contact.APIKey != "" {
		shown.Contact.APIKey = "<redacted>"
	}

	var b strings.Builder
	b.WriteString("# Effective folio configuration (merged from all sources)\n\n")
	enc := toml.NewEncoder(&b)
	if err := enc.Encode(shown); err != nil {
		return fmt.Sprintf("# Error encoding config: %v\n", err)
	}
	return b.String()
}

// configSuggestions maps common wrong keys to the correct TOML key name.
var configSuggestions = map[string]string{
	"port":        "addr",
	"listen":      "addr",
	"address":     "addr",
	"sort":        "default_sort",
	"apikey":      "api_key",
	"api-key":     "api_key",
	"resend_key":  "api_key",
	"baseurl":     "base_url",
	"base-url":    "base_url",
	"url":         "base_url",
	"content_dir": "root",
	"dir":         "root",
	"ext":         "extension",
	"rate_limit":  "rate_limit_max",
	"limit":       "rate_limit_max",
	"window":      "rate_limit_window",
	"to_email":    "to",
	"from_email":  "from",
	"level":       "log_level",
	"debounce_ms": "debounce",
}

// warnUnknownKeys prints warnings for unrecognized config keys.
func warnUnknownKeys(meta toml.MetaData, configPath string) {
	undecoded := meta.Undecoded()
	if len(undecoded) == 0 {
		return
	}

	fname := filepath.Base(configPath)
	for _, key := range undecoded {
		keyStr := key.String()
		lastPart := key[len(key)-1]

		if suggestion, ok := configSuggestions[lastPart]; ok {
			fmt.Fprintf(os.Stderr, "folio: WARNING: unknown key %q in %s; did you mean %q?\n",
				keyStr, fname, suggestion)
		} else {
			fmt.Fprintf(os.Stderr, "folio: WARNING: unknown key %q in %s (will be ignored)\n",
				keyStr, fname)
		}
	}
}
