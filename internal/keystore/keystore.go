// Package keystore persists auth keys per device address on behalf of
// the CLI. The session/command core never touches it: keys are loaded
// here and passed in as opaque inputs.
package keystore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/vitaminmoo/switchmate-tool/internal/device"
)

// Store is a JSON file mapping normalized device addresses to keys.
type Store struct {
	path string
}

// DefaultPath returns the default keystore path (~/.switchmate/keys.json).
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".switchmate", "keys.json"), nil
}

// Open opens a store backed by the given file, creating the parent
// directory if needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create keystore dir: %w", err)
	}
	return &Store{path: path}, nil
}

// OpenDefault opens the store at the default path.
func OpenDefault() (*Store, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return Open(path)
}

func (s *Store) load() (map[string]string, error) {
	keys := make(map[string]string)
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return keys, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read keystore: %w", err)
	}
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("failed to parse keystore: %w", err)
	}
	return keys, nil
}

func (s *Store) save(keys map[string]string) error {
	data, err := json.MarshalIndent(keys, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write keystore: %w", err)
	}
	return nil
}

// Get returns the stored key for an address, or false when none is
// stored.
func (s *Store) Get(addr device.Address) (device.AuthKey, bool, error) {
	keys, err := s.load()
	if err != nil {
		return device.NoAuth, false, err
	}
	raw, ok := keys[addr.String()]
	if !ok {
		return device.NoAuth, false, nil
	}
	key, err := device.ParseKey(raw)
	if err != nil {
		return device.NoAuth, false, fmt.Errorf("corrupt keystore entry for %s: %w", addr, err)
	}
	return key, true, nil
}

// Set stores a key for an address, replacing any previous entry.
func (s *Store) Set(addr device.Address, key device.AuthKey) error {
	keys, err := s.load()
	if err != nil {
		return err
	}
	keys[addr.String()] = key.String()
	return s.save(keys)
}

// Delete removes the entry for an address, reporting whether one
// existed.
func (s *Store) Delete(addr device.Address) (bool, error) {
	keys, err := s.load()
	if err != nil {
		return false, err
	}
	if _, ok := keys[addr.String()]; !ok {
		return false, nil
	}
	delete(keys, addr.String())
	return true, s.save(keys)
}

// Entry is one stored address/key pair.
type Entry struct {
	Address device.Address
	Key     device.AuthKey
}

// List returns all stored entries sorted by address.
func (s *Store) List() ([]Entry, error) {
	keys, err := s.load()
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(keys))
	for addr, raw := range keys {
		a, err := device.ParseAddress(addr)
		if err != nil {
			continue
		}
		k, err := device.ParseKey(raw)
		if err != nil {
			continue
		}
		entries = append(entries, Entry{Address: a, Key: k})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Address < entries[j].Address })
	return entries, nil
}
