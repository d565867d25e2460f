// Package config loads checker configuration from YAML or TOML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/gnolang/ntt/ast"
	tt "github.com/gnolang/ntt/internal/types"
	"github.com/gnolang/ntt/nodegex"
)

// DefaultFile is used when no configuration path is given.
const DefaultFile = ".ntt.yaml"

var ErrInvalidConfig = errors.New("invalid configuration")

// Format is the encoding of a configuration file.
type Format int

const (
	FormatYAML Format = iota
	FormatTOML
)

func (f Format) String() string {
	if f == FormatTOML {
		return "toml"
	}
	return "yaml"
}

// DetectFormat picks the format from the file extension. Anything that
// is not .toml is read as YAML.
func DetectFormat(path string) Format {
	if strings.ToLower(filepath.Ext(path)) == ".toml" {
		return FormatTOML
	}
	return FormatYAML
}

// Config represents the overall configuration.
type Config struct {
	Name       string                   `yaml:"name" toml:"name"`
	Root       string                   `yaml:"root,omitempty" toml:"root,omitempty"`
	Extensions []string                 `yaml:"extensions,omitempty" toml:"extensions,omitempty"`
	Rules      map[string]tt.ConfigRule `yaml:"rules" toml:"rules"`
	Queries    []Query                  `yaml:"queries,omitempty" toml:"queries,omitempty"`
}

// Query reports every match of a node pattern as an issue.
type Query struct {
	Name     string       `yaml:"name" toml:"name"`
	Message  string       `yaml:"message" toml:"message"`
	Note     string       `yaml:"note,omitempty" toml:"note,omitempty"`
	Severity tt.Severity  `yaml:"severity" toml:"severity"`
	Pattern  nodegex.Spec `yaml:"pattern" toml:"pattern"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	rules := make(map[string]tt.ConfigRule, len(ast.AllErrorKinds))
	for _, e := range ast.AllErrorKinds {
		rules[e.Name()] = tt.ConfigRule{Severity: DefaultSeverity(e)}
	}
	return Config{
		Name:       "ntt",
		Root:       ast.NodeProgram.String(),
		Extensions: []string{".ntt"},
		Rules:      rules,
	}
}

// DefaultSeverity is the severity of a diagnostic not mentioned in the
// configuration.
func DefaultSeverity(e ast.ErrorKind) tt.Severity {
	switch e {
	case ast.RedundantDelimiter:
		return tt.SeverityInfo
	case ast.MissingSemicolon:
		return tt.SeverityWarning
	}
	return tt.SeverityError
}

// Load reads the configuration at path. An empty path, or a missing
// default file, yields Default().
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && filepath.Base(path) == DefaultFile {
			return Default(), nil
		}
		return Config{}, err
	}
	return Parse(data, DetectFormat(path))
}

// Parse decodes data and fills in defaults for omitted fields.
func Parse(data []byte, format Format) (Config, error) {
	var cfg Config
	switch format {
	case FormatTOML:
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return cfg, fmt.Errorf("TOML parse error: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("YAML parse error: %w", err)
		}
	}

	def := Default()
	if cfg.Name == "" {
		cfg.Name = def.Name
	}
	if cfg.Root == "" {
		cfg.Root = def.Root
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = def.Extensions
	}
	if cfg.Rules == nil {
		cfg.Rules = map[string]tt.ConfigRule{}
	}
	for name, rule := range def.Rules {
		if _, ok := cfg.Rules[name]; !ok {
			cfg.Rules[name] = rule
		}
	}
	return cfg, cfg.Validate()
}

// Validate checks the root kind, rule names and query patterns.
func (c Config) Validate() error {
	if _, err := c.RootKind(); err != nil {
		return err
	}
	known := make(map[string]bool, len(ast.AllErrorKinds))
	names := make([]string, 0, len(ast.AllErrorKinds))
	for _, e := range ast.AllErrorKinds {
		known[e.Name()] = true
		names = append(names, e.Name())
	}
	for name := range c.Rules {
		if !known[name] {
			return fmt.Errorf("%w: unknown rule %q%s", ErrInvalidConfig, name, didYouMean(name, names))
		}
	}
	for _, q := range c.Queries {
		if q.Name == "" {
			return fmt.Errorf("%w: query without name", ErrInvalidConfig)
		}
		if _, err := nodegex.Compile(q.Pattern); err != nil {
			return fmt.Errorf("query %q: %w", q.Name, err)
		}
	}
	return nil
}

// RootKind returns the container kind source files are parsed into.
func (c Config) RootKind() (ast.Kind, error) {
	if c.Root == "" {
		return ast.NodeProgram, nil
	}
	k, ok := ast.ParseKind(c.Root)
	if !ok || !k.IsContainer() {
		return 0, fmt.Errorf("%w: %q is not a container kind%s", ErrInvalidConfig, c.Root, didYouMean(c.Root, containerKinds()))
	}
	return k, nil
}

func containerKinds() []string {
	var kinds []string
	for k := ast.NodeProgram; k.IsContainer(); k++ {
		kinds = append(kinds, k.String())
	}
	return kinds
}

// Encode renders the configuration in the given format.
func (c Config) Encode(format Format) ([]byte, error) {
	if format == FormatTOML {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return yaml.Marshal(c)
}

// Write stores the configuration at path, in the format its extension
// implies.
func (c Config) Write(path string) error {
	d, err := c.Encode(DetectFormat(path))
	if err != nil {
		return err
	}
	return os.WriteFile(path, d, 0o644)
}
