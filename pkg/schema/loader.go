package schema

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed student.yaml
var builtin embed.FS

var (
	defaultOnce   sync.Once
	defaultSchema *Schema
)

// Default returns the built-in student profile schema. The table is embedded
// in the binary, so a parse failure is a programming error and panics.
func Default() *Schema {
	defaultOnce.Do(func() {
		s, err := Load(SourceFromFS(builtin, "student.yaml"))
		if err != nil {
			panic(err)
		}
		defaultSchema = s
	})
	return defaultSchema
}

type documentFile struct {
	Name       string      `json:"name" yaml:"name"`
	Attributes []Attribute `json:"attributes" yaml:"attributes"`
}

// Load reads and parses the schema table behind src.
func Load(src Source) (*Schema, error) {
	if src == nil {
		return nil, fmt.Errorf("schema: source is required")
	}
	data, err := src.Read()
	if err != nil {
		return nil, err
	}
	return Parse(data, src.Location())
}

// LoadFile reads a schema table from disk.
func LoadFile(path string) (*Schema, error) {
	return Load(SourceFromFile(path))
}

// Parse reads a JSON or YAML schema document.
func Parse(data []byte, location string) (*Schema, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("schema: file %s is empty", location)
	}

	var doc documentFile
	if err := json.Unmarshal(data, &doc); err != nil {
		doc = documentFile{}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("schema: parse %s: invalid JSON or YAML", location)
		}
	}

	s, err := New(doc.Name, doc.Attributes)
	if err != nil {
		return nil, fmt.Errorf("schema: load %s: %w", location, err)
	}
	return s, nil
}
