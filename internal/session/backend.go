// ABOUTME: Persistence backends for the session store
// ABOUTME: File backend keeps settings.json in the XDG config directory; memory backend for tests

package session

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// SettingsFile is the name of the persisted preference document
const SettingsFile = "settings.json"

// DefaultConfigDir returns the default config directory following XDG spec
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "coffee")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "coffee")
}

// FileBackend stores the session as a single JSON document
type FileBackend struct {
	configDir string
}

// NewFileBackend creates a backend rooted at configDir
func NewFileBackend(configDir string) *FileBackend {
	return &FileBackend{configDir: configDir}
}

// Path returns the settings file location
func (b *FileBackend) Path() string {
	return filepath.Join(b.configDir, SettingsFile)
}

// Load reads the session from disk. A missing or corrupt file is an empty session.
func (b *FileBackend) Load() (Session, error) {
	data, err := os.ReadFile(b.Path())
	if os.IsNotExist(err) {
		return Session{}, nil
	}
	if err != nil {
		return Session{}, err
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		slog.Warn("Ignoring unreadable settings file", "path", b.Path(), "error", err)
		return Session{}, nil
	}
	// A half-filled document never counts as a session
	if s.Token == "" || s.Username == "" {
		return Session{}, nil
	}
	return s, nil
}

// Store writes the session through a temp file and rename so readers never see
// a partial document
func (b *FileBackend) Store(s Session) error {
	if err := os.MkdirAll(b.configDir, 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(b.configDir, SettingsFile+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, b.Path()); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// MemoryBackend keeps the session in process memory
type MemoryBackend struct {
	mu      sync.Mutex
	session Session
	writes  int
	failErr error
}

// NewMemoryBackend creates a backend seeded with initial
func NewMemoryBackend(initial Session) *MemoryBackend {
	return &MemoryBackend{session: initial}
}

// Load returns the stored session
func (b *MemoryBackend) Load() (Session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.session, nil
}

// Store replaces the stored session, or fails with the error set by FailWith
func (b *MemoryBackend) Store(s Session) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failErr != nil {
		return b.failErr
	}
	b.session = s
	b.writes++
	return nil
}

// FailWith makes subsequent writes fail with err; nil restores normal behavior
func (b *MemoryBackend) FailWith(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failErr = err
}

// Writes reports how many successful writes happened
func (b *MemoryBackend) Writes() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.writes
}
