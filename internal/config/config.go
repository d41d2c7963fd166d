// Package config handles project configuration and output layout.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config represents project configuration stored in config.json in the
// working directory.
type Config struct {
	PandocPath    string `json:"pandoc_path,omitempty"`    // pandoc binary, defaults to "pandoc" on PATH
	PandocTimeout int    `json:"pandoc_timeout,omitempty"` // seconds, defaults to DefaultPandocTimeout
	OutputRoot    string `json:"output_root,omitempty"`    // root for per-document output dirs, defaults to "output"
}

const (
	ConfigFile = "config.json"

	// DefaultPandocTimeout bounds one pandoc invocation, in seconds.
	DefaultPandocTimeout = 60

	// Artifact file names inside a document's output directory.
	ContentFile      = "content.md"
	BibliographyFile = "references.bib"
	AuditLogFile     = "match_audit.log"
	DumpFile         = "match_debug.dump"
	HistoryDBFile    = "runs.db"
)

// Load reads configuration from the given directory. A missing config.json is
// not an error; defaults apply.
func Load(dir string) (*Config, error) {
	data, err := os.ReadFile(filepath.Join(dir, ConfigFile))
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}

// Save writes configuration to the given directory.
func (c *Config) Save(dir string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, ConfigFile), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Pandoc returns the configured pandoc binary, falling back to PATH lookup.
func (c *Config) Pandoc() string {
	if c.PandocPath != "" {
		return ExpandPath(c.PandocPath)
	}
	return "pandoc"
}

// Root returns the configured output root, defaulting to "output".
func (c *Config) Root() string {
	if c.OutputRoot != "" {
		return ExpandPath(c.OutputRoot)
	}
	return "output"
}

// OutputDir returns the per-document output directory: <root>/<document stem>.
func (c *Config) OutputDir(documentPath string) string {
	stem := strings.TrimSuffix(filepath.Base(documentPath), filepath.Ext(documentPath))
	return filepath.Join(c.Root(), stem)
}

// ContentPath returns the converted Markdown path inside an output directory.
func ContentPath(outputDir string) string {
	return filepath.Join(outputDir, ContentFile)
}

// BibliographyPath returns the output bibliography path inside an output directory.
func BibliographyPath(outputDir string) string {
	return filepath.Join(outputDir, BibliographyFile)
}

// AuditLogPath returns the audit log path inside an output directory.
func AuditLogPath(outputDir string) string {
	return filepath.Join(outputDir, AuditLogFile)
}

// DumpPath returns the diagnostic dump path inside an output directory.
func DumpPath(outputDir string) string {
	return filepath.Join(outputDir, DumpFile)
}

// HistoryDBPath returns the run-history database path under the output root.
func (c *Config) HistoryDBPath() string {
	return filepath.Join(c.Root(), HistoryDBFile)
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}
