package schema

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// ParseJSON decodes a JSON bundle: an array of {Name, Version, Schema}
// records. Numbers inside schema trees are kept as json.Number.
func ParseJSON(token string, data []byte) (Bundle, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var records []Record
	if err := dec.Decode(&records); err != nil {
		return Bundle{}, fmt.Errorf("schema: invalid JSON bundle %s: %w", token, err)
	}
	b := Bundle{Token: token, Records: records}
	if err := b.validate(); err != nil {
		return Bundle{}, err
	}
	return b, nil
}

// ParseYAML decodes the same bundle shape from YAML.
func ParseYAML(token string, data []byte) (Bundle, error) {
	var raw []struct {
		Name    string `yaml:"Name"`
		Version int    `yaml:"Version"`
		Schema  any    `yaml:"Schema"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Bundle{}, fmt.Errorf("schema: invalid YAML bundle %s: %w", token, err)
	}
	b := Bundle{Token: token, Records: make([]Record, 0, len(raw))}
	for _, r := range raw {
		b.Records = append(b.Records, Record{Name: r.Name, Version: r.Version, Schema: yamlAnyToStringMap(r.Schema)})
	}
	if err := b.validate(); err != nil {
		return Bundle{}, err
	}
	return b, nil
}

// LoadFile reads a bundle from path. The version token is extracted from the
// file name and the format is chosen by extension (.yaml/.yml, else JSON).
func LoadFile(path string) (Bundle, error) {
	token, err := VersionToken(path)
	if err != nil {
		return Bundle{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Bundle{}, fmt.Errorf("schema: read %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(token, data)
	default:
		return ParseJSON(token, data)
	}
}

// yamlAnyToStringMap converts YAML-decoded values (which may contain map[any]any)
// into JSON-like map[string]any recursively. Non-map roots return nil.
func yamlAnyToStringMap(v any) map[string]any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = yamlNormalizeValue(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			ks, ok := k.(string)
			if !ok {
				continue
			}
			out[ks] = yamlNormalizeValue(vv)
		}
		return out
	default:
		return nil
	}
}

func yamlNormalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any, map[any]any:
		return yamlAnyToStringMap(t)
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = yamlNormalizeValue(t[i])
		}
		return arr
	default:
		return v
	}
}

// LoadGlob loads every file matching pattern, in lexical path order. The
// first file without a version token aborts the load.
func LoadGlob(pattern string) ([]Bundle, error) {
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("schema: bad pattern %q: %w", pattern, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("schema: no files match %q", pattern)
	}
	slices.Sort(paths)
	bundles := make([]Bundle, 0, len(paths))
	for _, p := range paths {
		b, err := LoadFile(p)
		if err != nil {
			return nil, err
		}
		bundles = append(bundles, b)
	}
	return bundles, nil
}
