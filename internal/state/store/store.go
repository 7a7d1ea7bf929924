// Package store loads named Stream States from a state file written by an
// external prober. TOML, YAML and JSON files are supported; the format is
// chosen by file extension.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/smazurov/transcodeargs/internal/state"
)

// Format is a state file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFor returns the encoding implied by the path's extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported state file extension %q", filepath.Ext(path))
	}
}

// File is the on-disk layout of a state file.
type File struct {
	Version int                          `toml:"version" json:"version" yaml:"version"`
	States  map[string]state.StreamState `toml:"states" json:"states" yaml:"states"`
}

// Decode parses data in the given format.
func Decode(format Format, data []byte) (*File, error) {
	f := &File{}

	var err error
	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, f)
	case FormatYAML:
		err = yaml.Unmarshal(data, f)
	case FormatJSON:
		err = json.Unmarshal(data, f)
	default:
		return nil, fmt.Errorf("unsupported state file format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s state file: %w", format, err)
	}

	if f.States == nil {
		f.States = make(map[string]state.StreamState)
	}
	if f.Version == 0 {
		f.Version = 1
	}
	return f, nil
}

// Store holds the states of one file. It is safe for concurrent use; Load
// replaces the whole set atomically.
type Store struct {
	path string

	mu     sync.RWMutex
	states map[string]state.StreamState
}

// New creates a store for path. Nothing is read until Load.
func New(path string) *Store {
	if path == "" {
		path = "states.toml"
	}
	return &Store{
		path:   path,
		states: make(map[string]state.StreamState),
	}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the state file. A missing file leaves the store empty.
func (s *Store) Load() error {
	format, err := FormatFor(s.path)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.replace(make(map[string]state.StreamState))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read state file: %w", err)
	}

	f, err := Decode(format, data)
	if err != nil {
		return err
	}

	s.replace(f.States)
	return nil
}

func (s *Store) replace(states map[string]state.StreamState) {
	s.mu.Lock()
	s.states = states
	s.mu.Unlock()
}

// Get returns a copy of the named state.
func (s *Store) Get(name string) (*state.StreamState, error) {
	s.mu.RLock()
	st, ok := s.states[name]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", state.ErrStateNotFound, name)
	}
	return &st, nil
}

// Names returns the state names in sorted order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.states))
	for name := range s.states {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of loaded states.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.states)
}
