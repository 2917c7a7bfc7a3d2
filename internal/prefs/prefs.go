// Package prefs is a small persistent key-value store for UI preferences.
package prefs

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/strrl/lain/internal/config"
)

// Keys used by the dashboard.
const (
	KeyHideClaude = "hide-claude"
	KeyTheme      = "theme"
)

// Store reads and writes preferences. Every Set and Remove is written through
// to disk. An empty path keeps preferences in memory only.
type Store struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

// DefaultPath is prefs.toml next to the config file.
func DefaultPath() string {
	return filepath.Join(config.Dir(), "prefs.toml")
}

// Open loads preferences from path. A missing file is an empty store.
func Open(path string) (*Store, error) {
	s := &Store{path: path, values: map[string]string{}}
	if path == "" {
		return s, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return s, nil
	}
	if _, err := toml.DecodeFile(path, &s.values); err != nil {
		return s, fmt.Errorf("decode prefs %s: %w", path, err)
	}
	return s, nil
}

// Memory returns a store that is never persisted.
func Memory() *Store {
	s, _ := Open("")
	return s
}

// Get returns the value for key and whether it is set.
func (s *Store) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

// Set stores value under key.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.values[key]; ok && cur == value {
		return nil
	}
	s.values[key] = value
	return s.flush()
}

// Remove clears key. Removing an unset key is a no-op.
func (s *Store) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; !ok {
		return nil
	}
	delete(s.values, key)
	return s.flush()
}

// Keys lists the set keys in sorted order.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s *Store) flush() error {
	if s.path == "" {
		return nil
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(s.values); err != nil {
		return fmt.Errorf("encode prefs: %w", err)
	}
	if err := config.WriteFileAtomic(s.path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("save prefs: %w", err)
	}
	return nil
}
