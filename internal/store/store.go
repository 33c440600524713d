// Package store persists the latest extracted page as a single file.
// Each Save replaces the previous snapshot in full; there is no history.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	yaml "gopkg.in/yaml.v3"

	"github.com/hyperifyio/pagechat/internal/extract"
)

// DefaultPath is the snapshot location used when none is configured.
const DefaultPath = "scraped_data.json"

// ErrNotFound is returned by Load when nothing has been saved yet.
var ErrNotFound = errors.New("no data available")

// ReadError reports a snapshot file that exists but cannot be read or decoded.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string { return fmt.Sprintf("read %s: %v", e.Path, e.Err) }
func (e *ReadError) Unwrap() error { return e.Err }

// WriteError reports a failed Save. The previous snapshot, if any, is intact.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string { return fmt.Sprintf("write %s: %v", e.Path, e.Err) }
func (e *WriteError) Unwrap() error { return e.Err }

// Store reads and writes the snapshot at Path. Files ending in .yaml or .yml
// are written as YAML, everything else as indented JSON.
type Store struct {
	Path string
}

// New returns a Store backed by path, or DefaultPath when path is blank.
func New(path string) *Store {
	if strings.TrimSpace(path) == "" {
		path = DefaultPath
	}
	return &Store{Path: path}
}

func (s *Store) isYAML() bool {
	switch strings.ToLower(filepath.Ext(s.Path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Exists reports whether a snapshot file is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.Path)
	return err == nil
}

// Save replaces the snapshot with doc. The data is written to a temporary
// file in the same directory and renamed over the target.
func (s *Store) Save(doc extract.Document) error {
	doc.Normalize()
	data, err := s.encode(doc)
	if err != nil {
		return &WriteError{Path: s.Path, Err: fmt.Errorf("encode: %w", err)}
	}
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &WriteError{Path: s.Path, Err: err}
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(s.Path)+".*.tmp")
	if err != nil {
		return &WriteError{Path: s.Path, Err: fmt.Errorf("create temp: %w", err)}
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return &WriteError{Path: s.Path, Err: err}
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return &WriteError{Path: s.Path, Err: err}
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		_ = os.Remove(tmp)
		return &WriteError{Path: s.Path, Err: err}
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		_ = os.Remove(tmp)
		return &WriteError{Path: s.Path, Err: err}
	}
	log.Debug().Str("path", s.Path).Int("bytes", len(data)).Msg("snapshot saved")
	return nil
}

// Load reads the snapshot. It returns ErrNotFound when no file exists and a
// *ReadError when the file is unreadable or corrupt.
func (s *Store) Load() (extract.Document, error) {
	b, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return extract.Document{}, fmt.Errorf("%w: %s", ErrNotFound, s.Path)
		}
		return extract.Document{}, &ReadError{Path: s.Path, Err: err}
	}
	doc, err := s.decode(b)
	if err != nil {
		return extract.Document{}, &ReadError{Path: s.Path, Err: err}
	}
	doc.Normalize()
	return doc, nil
}

func (s *Store) encode(doc extract.Document) ([]byte, error) {
	var buf bytes.Buffer
	if s.isYAML() {
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(4)
		if err := enc.Encode(doc); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Store) decode(b []byte) (extract.Document, error) {
	var doc extract.Document
	if len(bytes.TrimSpace(b)) == 0 {
		return doc, errors.New("empty file")
	}
	if s.isYAML() {
		return decodeYAML(b)
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return doc, fmt.Errorf("parse json: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return doc, errors.New("parse json: trailing data after snapshot")
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return doc, fmt.Errorf("parse json: %w", err)
	}
	if err := requireKeys(keys != nil, func(k string) bool { _, ok := keys[k]; return ok }); err != nil {
		return doc, err
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return doc, fmt.Errorf("parse json: %w", err)
	}
	return doc, nil
}

func decodeYAML(b []byte) (extract.Document, error) {
	var doc extract.Document
	dec := yaml.NewDecoder(bytes.NewReader(b))
	var node yaml.Node
	if err := dec.Decode(&node); err != nil {
		return doc, fmt.Errorf("parse yaml: %w", err)
	}
	if err := dec.Decode(&yaml.Node{}); !errors.Is(err, io.EOF) {
		return doc, errors.New("parse yaml: trailing document after snapshot")
	}
	var keys map[string]yaml.Node
	if err := node.Decode(&keys); err != nil {
		return doc, fmt.Errorf("parse yaml: %w", err)
	}
	if err := requireKeys(keys != nil, func(k string) bool { _, ok := keys[k]; return ok }); err != nil {
		return doc, err
	}
	if err := node.Decode(&doc); err != nil {
		return doc, fmt.Errorf("parse yaml: %w", err)
	}
	return doc, nil
}

// requireKeys rejects null documents and objects lacking the scalar fields
// every saved snapshot carries.
func requireKeys(isObject bool, has func(string) bool) error {
	if !isObject {
		return errors.New("snapshot is not an object")
	}
	for _, k := range []string{"title", "description"} {
		if !has(k) {
			return fmt.Errorf("snapshot is missing %q", k)
		}
	}
	return nil
}
