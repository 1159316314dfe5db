// Package schema holds the input side of facadegen: schema bundles as they
// are published by the server, their loaders, and the build-time errors the
// compiler reports against them.
package schema

import (
	"fmt"
	"strings"
)

// Record is one facade schema: the facade name, its version and the raw
// schema tree with "definitions" and "properties".
type Record struct {
	Name    string         `json:"Name" yaml:"Name"`
	Version int            `json:"Version" yaml:"Version"`
	Schema  map[string]any `json:"Schema" yaml:"Schema"`
}

// Definitions returns the named type bodies of the record.
func (r Record) Definitions() map[string]any {
	m, _ := r.Schema["definitions"].(map[string]any)
	return m
}

// Methods returns the method property bag of the record.
func (r Record) Methods() map[string]any {
	m, _ := r.Schema["properties"].(map[string]any)
	return m
}

// Bundle is every record published by one server release. Token is the
// release identifier taken from the file name; bundles are processed in
// lexical Token order.
type Bundle struct {
	Token   string
	Records []Record
}

func (b Bundle) validate() error {
	for i, r := range b.Records {
		path := fmt.Sprintf("%s/%d", b.Token, i)
		if strings.TrimSpace(r.Name) == "" {
			return &ShapeError{Path: path, Message: "record has no Name"}
		}
		if r.Version <= 0 {
			return &ShapeError{Path: path + "/" + r.Name, Message: fmt.Sprintf("version must be positive, got %d", r.Version)}
		}
		if r.Schema == nil {
			return &ShapeError{Path: path + "/" + r.Name, Message: "record has no Schema"}
		}
		if v, ok := r.Schema["definitions"]; ok {
			if _, ok := v.(map[string]any); !ok {
				return &ShapeError{Path: path + "/" + r.Name + "/definitions", Message: "definitions must be an object"}
			}
		}
		if v, ok := r.Schema["properties"]; ok {
			if _, ok := v.(map[string]any); !ok {
				return &ShapeError{Path: path + "/" + r.Name + "/properties", Message: "properties must be an object"}
			}
		}
	}
	return nil
}
