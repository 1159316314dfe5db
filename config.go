package facadegen

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config is the file form of Options.
type Config struct {
	Package       string `yaml:"package" toml:"package"`
	RuntimeImport string `yaml:"runtime_import" toml:"runtime_import"`
	// Overrides names definitions that some server releases redeclare
	// inconsistently; each declaration recompiles them and the newest wins.
	Overrides []string `yaml:"overrides" toml:"overrides"`
}

// LoadConfig reads a YAML (.yaml/.yml) or TOML (.toml) config file.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("facadegen: config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("facadegen: config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("facadegen: config %s: %w", path, err)
		}
	default:
		return Config{}, fmt.Errorf("facadegen: config %s: unsupported extension %q", path, ext)
	}
	return cfg, nil
}

// Options returns the run options described by c.
func (c Config) Options() Options {
	return Options{
		Package:       c.Package,
		RuntimeImport: c.RuntimeImport,
		Overrides:     append([]string(nil), c.Overrides...),
	}
}
