// Package cache provides a file-based TTL cache for raw chunk responses.
//
// Entries are JSON files in a single directory, keyed by the SHA-256 hash of
// the mapping request (namespaces, format, and identifier payload). Repeated
// or interrupted invocations of the same job skip chunks whose responses are
// already on disk.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// entryExtension is the file extension used for cache entries.
const entryExtension = ".json"

// Cache errors.
var (
	ErrNotFound = errors.New("cache entry not found")
	ErrExpired  = errors.New("cache entry expired")
	ErrEmptyKey = errors.New("cache key cannot be empty")
)

// Key returns the cache key for a request payload: the hex-encoded SHA-256
// of the payload string.
func Key(payload string) string {
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// Entry is one cached chunk response with expiry metadata.
type Entry struct {
	Key       string    `json:"key"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the entry's TTL has elapsed.
func (e Entry) Expired() bool {
	return time.Now().After(e.ExpiresAt)
}

// FileStore is a directory of cache entries with a fixed TTL.
// Safe for concurrent use.
type FileStore struct {
	directory string
	ttl       time.Duration

	mu sync.RWMutex
}

// NewFileStore creates the cache directory if needed and returns a store
// whose entries expire after ttl.
func NewFileStore(directory string, ttl time.Duration) (*FileStore, error) {
	if directory == "" {
		return nil, errors.New("cache directory cannot be empty")
	}
	if err := os.MkdirAll(directory, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return &FileStore{directory: directory, ttl: ttl}, nil
}

// Get returns the cached text for key. Returns ErrNotFound when no entry
// exists and ErrExpired when the entry's TTL has elapsed (the stale file is
// removed).
func (s *FileStore) Get(key string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}

	s.mu.RLock()
	data, err := os.ReadFile(s.path(key))
	s.mu.RUnlock()
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("reading cache entry: %w", err)
	}

	var entry Entry
	if unmarshalErr := json.Unmarshal(data, &entry); unmarshalErr != nil {
		return "", fmt.Errorf("decoding cache entry: %w", unmarshalErr)
	}

	if entry.Expired() {
		s.mu.Lock()
		_ = os.Remove(s.path(key))
		s.mu.Unlock()
		return "", ErrExpired
	}

	return entry.Text, nil
}

// Set stores text under key, overwriting any existing entry. The file is
// written to a temp path and renamed for atomicity.
func (s *FileStore) Set(key, text string) error {
	if key == "" {
		return ErrEmptyKey
	}

	now := time.Now()
	entry := Entry{
		Key:       key,
		Text:      text,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(key)
	tempPath := path + ".tmp"
	if writeErr := os.WriteFile(tempPath, data, 0o600); writeErr != nil {
		return fmt.Errorf("writing cache entry: %w", writeErr)
	}
	if renameErr := os.Rename(tempPath, path); renameErr != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming cache entry: %w", renameErr)
	}
	return nil
}

// Clear removes every cache entry.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.directory)
	if err != nil {
		return fmt.Errorf("reading cache directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != entryExtension {
			continue
		}
		if removeErr := os.Remove(filepath.Join(s.directory, entry.Name())); removeErr != nil {
			return fmt.Errorf("removing cache entry %s: %w", entry.Name(), removeErr)
		}
	}
	return nil
}

// CleanupExpired removes entries whose TTL has elapsed. Unreadable or
// undecodable files are skipped.
func (s *FileStore) CleanupExpired() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.directory)
	if err != nil {
		return fmt.Errorf("reading cache directory: %w", err)
	}

	for _, dirEntry := range entries {
		if dirEntry.IsDir() || filepath.Ext(dirEntry.Name()) != entryExtension {
			continue
		}

		path := filepath.Join(s.directory, dirEntry.Name())
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			continue
		}

		var entry Entry
		if json.Unmarshal(data, &entry) != nil {
			continue
		}
		if entry.Expired() {
			_ = os.Remove(path)
		}
	}
	return nil
}

// Stats returns the entry count and total size in bytes of the cache.
func (s *FileStore) Stats() (count int, size int64, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.directory)
	if err != nil {
		return 0, 0, fmt.Errorf("reading cache directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != entryExtension {
			continue
		}
		info, infoErr := entry.Info()
		if infoErr != nil {
			continue
		}
		count++
		size += info.Size()
	}
	return count, size, nil
}

// Directory returns the cache directory path.
func (s *FileStore) Directory() string {
	return s.directory
}

// path maps a key to its entry file. Keys are hex digests, so no
// sanitization is needed.
func (s *FileStore) path(key string) string {
	return filepath.Join(s.directory, key+entryExtension)
}
