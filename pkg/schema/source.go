package schema

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Source identifies where a schema table originated so the loader can read
// files on disk and embedded resources the same way.
type Source interface {
	Kind() SourceKind
	Location() string
	Read() ([]byte, error)
}

// SourceKind enumerates the loader modalities.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
)

type fileSource struct {
	path string
}

func (s fileSource) Kind() SourceKind { return SourceKindFile }
func (s fileSource) Location() string { return s.path }

func (s fileSource) Read() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("schema: read %s: %w", s.path, err)
	}
	return data, nil
}

// SourceFromFile returns a Source pointing to a file path.
func SourceFromFile(path string) Source {
	return fileSource{path: filepath.Clean(path)}
}

type fsSource struct {
	fsys fs.FS
	name string
}

func (s fsSource) Kind() SourceKind { return SourceKindFS }
func (s fsSource) Location() string { return s.name }

func (s fsSource) Read() ([]byte, error) {
	if s.fsys == nil {
		return nil, fmt.Errorf("schema: no filesystem for %s", s.name)
	}
	data, err := fs.ReadFile(s.fsys, s.name)
	if err != nil {
		return nil, fmt.Errorf("schema: read %s: %w", s.name, err)
	}
	return data, nil
}

// SourceFromFS returns a Source identifying a resource inside an fs.FS.
func SourceFromFS(fsys fs.FS, name string) Source {
	return fsSource{fsys: fsys, name: name}
}
