// Package store persists query documents as files, so built queries
// survive between sessions and can be shared as plain YAML or JSON.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/satishbabariya/querystudio-go/internal/debug"
	"github.com/satishbabariya/querystudio-go/query/model"
)

var (
	ErrNotFound    = errors.New("query document not found")
	ErrInvalidName = errors.New("invalid query document name")
)

// Format selects the on-disk encoding of saved documents.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

const (
	yamlExt = ".query.yaml"
	jsonExt = ".query.json"
)

// Document wraps a query model with the metadata a saved query
// carries.
type Document struct {
	Name      string      `json:"name" yaml:"name"`
	Dialect   string      `json:"dialect,omitempty" yaml:"dialect,omitempty"`
	CreatedAt time.Time   `json:"createdAt" yaml:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt" yaml:"updatedAt"`
	Query     model.Query `json:"query" yaml:"query"`
}

// Store reads and writes query documents under one directory. The
// filesystem is injected so tests run against an in-memory one.
type Store struct {
	fs     afero.Fs
	dir    string
	format Format
}

// NewStore creates a store rooted at dir. An empty format defaults to
// YAML; loading always accepts both encodings.
func NewStore(fs afero.Fs, dir string, format Format) *Store {
	if format == "" {
		format = FormatYAML
	}
	return &Store{fs: fs, dir: dir, format: format}
}

// Save writes the document under its name, stamping UpdatedAt and, on
// first save, CreatedAt.
func (s *Store) Save(doc *Document) error {
	if err := validateName(doc.Name); err != nil {
		return err
	}

	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	var (
		data []byte
		err  error
		path string
	)
	switch s.format {
	case FormatJSON:
		data, err = json.MarshalIndent(doc, "", "  ")
		path = filepath.Join(s.dir, doc.Name+jsonExt)
	default:
		data, err = yaml.Marshal(doc)
		path = filepath.Join(s.dir, doc.Name+yamlExt)
	}
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}
	if err := afero.WriteFile(s.fs, path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	debug.Debug("Saved query document", "name", doc.Name, "path", path)
	return nil
}

// Load reads the document with the given name, trying the YAML
// encoding first and falling back to JSON.
func (s *Store) Load(name string) (*Document, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	for _, ext := range []string{yamlExt, jsonExt} {
		path := filepath.Join(s.dir, name+ext)
		data, err := afero.ReadFile(s.fs, path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read document: %w", err)
		}

		var doc Document
		if ext == jsonExt {
			err = json.Unmarshal(data, &doc)
		} else {
			err = yaml.Unmarshal(data, &doc)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode document %s: %w", name, err)
		}
		return &doc, nil
	}
	return nil, ErrNotFound
}

// List returns the names of all saved documents, sorted.
func (s *Store) List() ([]string, error) {
	infos, err := afero.ReadDir(s.fs, s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read store directory: %w", err)
	}

	seen := map[string]bool{}
	var names []string
	for _, info := range infos {
		if info.IsDir() {
			continue
		}
		name := info.Name()
		switch {
		case strings.HasSuffix(name, yamlExt):
			name = strings.TrimSuffix(name, yamlExt)
		case strings.HasSuffix(name, jsonExt):
			name = strings.TrimSuffix(name, jsonExt)
		default:
			continue
		}
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Path returns the on-disk location of the named document. When the
// document exists the stored file's path is returned; otherwise the
// path Save would write under the configured format.
func (s *Store) Path(name string) string {
	for _, ext := range []string{yamlExt, jsonExt} {
		p := filepath.Join(s.dir, name+ext)
		if ok, _ := afero.Exists(s.fs, p); ok {
			return p
		}
	}
	ext := yamlExt
	if s.format == FormatJSON {
		ext = jsonExt
	}
	return filepath.Join(s.dir, name+ext)
}

// Delete removes the document with the given name in every encoding it
// was saved under.
func (s *Store) Delete(name string) error {
	if err := validateName(name); err != nil {
		return err
	}

	deleted := false
	for _, ext := range []string{yamlExt, jsonExt} {
		path := filepath.Join(s.dir, name+ext)
		err := s.fs.Remove(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to delete document: %w", err)
		}
		deleted = true
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// validateName refuses names that would escape the store directory or
// collide with the encoding suffixes.
func validateName(name string) error {
	if name == "" {
		return ErrInvalidName
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return ErrInvalidName
	}
	return nil
}
