// Package config loads and validates the databuild configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/databuild/internal/errors"
)

// Config represents the application configuration
type Config struct {
	Package PackageConfig `yaml:"package"`
	Render  RenderConfig  `yaml:"render"`
	Output  OutputConfig  `yaml:"output"`
	Build   BuildConfig   `yaml:"build"`

	// BaseDir is the directory of the configuration file; all relative
	// paths in the file resolve against it. Not serialized.
	BaseDir string `yaml:"-"`
}

// PackageConfig points at the package manifest.
type PackageConfig struct {
	Manifest string `yaml:"manifest"`
}

// RenderConfig declares the processing units and the object allowlist.
type RenderConfig struct {
	// Root is the working directory for unit execution.
	Root string `yaml:"root,omitempty"`

	// Units are executed strictly in declared order: later units may read
	// objects produced by earlier ones.
	Units []Unit `yaml:"units"`

	// Objects is the allowlist of object names captured into the merged
	// context after each unit runs.
	Objects []string `yaml:"objects"`
}

// Unit is one configured processing script.
type Unit struct {
	Script  string `yaml:"script"`
	Enabled *bool  `yaml:"enabled,omitempty"` // nil means enabled
}

// IsEnabled reports whether the unit takes part in the build.
func (u Unit) IsEnabled() bool {
	return u.Enabled == nil || *u.Enabled
}

// OutputConfig locates the package's data, documentation and state areas.
type OutputConfig struct {
	DataDir  string `yaml:"data_dir"`
	DocsDir  string `yaml:"docs_dir"`
	StateDir string `yaml:"state_dir"`
}

// BuildConfig holds build policy switches.
type BuildConfig struct {
	// Strict controls two conditions: allowlisted names never produced by
	// any unit (strict: error, lenient: warning), and the
	// data-changed-but-version-bumped contradiction (strict: fatal,
	// lenient: accept the manual version). nil means strict.
	Strict *bool `yaml:"strict,omitempty"`
}

// IsStrict reports whether strict mode is in effect. Strict is the default.
func (b BuildConfig) IsStrict() bool {
	return b.Strict == nil || *b.Strict
}

// Load loads configuration from the specified file
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	if err := loadEnvFile(); err != nil {
		fmt.Fprintf(os.Stderr, "Note: .env file not found or couldn't be loaded: %v\n", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, errors.ConfigurationInvalid(fmt.Sprintf("configuration file not found: %s", configPath))
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}
	config.BaseDir = filepath.Dir(absPath)

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Package.Manifest == "" {
		c.Package.Manifest = "datapackage.yaml"
	}
	if c.Render.Root == "" {
		c.Render.Root = "."
	}
	if c.Output.DataDir == "" {
		c.Output.DataDir = "data"
	}
	if c.Output.DocsDir == "" {
		c.Output.DocsDir = "docs"
	}
	if c.Output.StateDir == "" {
		c.Output.StateDir = ".databuild"
	}
}

// Validate checks the configuration before any unit executes: at least one
// enabled unit, a non-empty object allowlist, and every enabled script
// present on disk.
func (c *Config) Validate() error {
	enabled := 0
	for _, u := range c.Render.Units {
		if u.Script == "" {
			return errors.ConfigurationInvalid("unit with empty script path")
		}
		if !u.IsEnabled() {
			continue
		}
		enabled++
		if _, err := os.Stat(c.ResolvePath(u.Script)); err != nil {
			return errors.ConfigurationInvalid(fmt.Sprintf("unit script not found: %s", u.Script))
		}
	}
	if enabled == 0 {
		return errors.ConfigurationInvalid("no enabled processing units")
	}

	if len(c.Render.Objects) == 0 {
		return errors.ConfigurationInvalid("object allowlist is empty")
	}
	seen := make(map[string]bool, len(c.Render.Objects))
	for _, name := range c.Render.Objects {
		if name == "" {
			return errors.ConfigurationInvalid("object allowlist contains an empty name")
		}
		if seen[name] {
			return errors.ConfigurationInvalid(fmt.Sprintf("object allowlist contains %q twice", name))
		}
		seen[name] = true
	}
	return nil
}

// EnabledUnits returns the units taking part in the build, in declared order.
func (c *Config) EnabledUnits() []Unit {
	units := make([]Unit, 0, len(c.Render.Units))
	for _, u := range c.Render.Units {
		if u.IsEnabled() {
			units = append(units, u)
		}
	}
	return units
}

// ResolvePath resolves a configured path against the config file directory.
func (c *Config) ResolvePath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.BaseDir, p)
}

// RenderRoot returns the absolute working directory for unit execution.
func (c *Config) RenderRoot() string { return c.ResolvePath(c.Render.Root) }

// ManifestPath returns the absolute package manifest path.
func (c *Config) ManifestPath() string { return c.ResolvePath(c.Package.Manifest) }

// DataDir returns the absolute object persistence directory.
func (c *Config) DataDir() string { return c.ResolvePath(c.Output.DataDir) }

// DocsDir returns the absolute documentation directory.
func (c *Config) DocsDir() string { return c.ResolvePath(c.Output.DocsDir) }

// StateDir returns the absolute state directory (fingerprint record,
// build history).
func (c *Config) StateDir() string { return c.ResolvePath(c.Output.StateDir) }

// loadEnvFile loads environment variables from .env when present.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load()
}
