package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

const fileName = "settings.toml"

// HomeDir resolves the application home directory.
// CHUB_SEARCH_HOME wins; otherwise ~/.chub-search.
func HomeDir() string {
	if dir := os.Getenv("CHUB_SEARCH_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".chub-search"
	}
	return filepath.Join(home, ".chub-search")
}

// Defaults returns the built-in value for every known setting key.
// The store is always seeded from this map, so lookups for known keys
// never come back unresolved.
func Defaults() map[string]any {
	return map[string]any{
		"nsfw":                        false,
		"nsfl":                        false,
		"nsfw_only":                   false,
		"require_images":              false,
		"require_example_dialogues":   false,
		"require_alternate_greetings": false,
		"require_custom_prompt":       false,
		"require_expressions":         false,
		"require_lore":                false,
		"require_lore_embedded":       false,
		"require_lore_linked":         false,
		"recommended_verified":        false,
		"include_forks":               false,
		"find_count":                  30,
		"sort":                        "download_count",
		"asc":                         false,
	}
}

// Store is a mutable settings mapping backed by a TOML file.
// Values from the file are merged over the built-in defaults at load time.
type Store struct {
	mu   sync.RWMutex
	path string
	data map[string]any
}

// Open loads the settings store under the given directory, creating the
// directory if needed. An empty dir uses HomeDir().
func Open(dir string) (*Store, error) {
	if dir == "" {
		dir = HomeDir()
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create settings directory: %w", err)
	}

	s := &Store{
		path: filepath.Join(dir, fileName),
		data: Defaults(),
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	fromFile := make(map[string]any)
	if err := toml.Unmarshal(raw, &fromFile); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}
	for k, v := range fromFile {
		s.data[k] = v
	}
	return s, nil
}

// Get retrieves a raw value by key.
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok
}

// Bool retrieves a boolean setting; unknown keys or wrong types read as false.
func (s *Store) Bool(key string) bool {
	v, ok := s.Get(key)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// Int retrieves an integer setting. TOML decodes integers as int64.
func (s *Store) Int(key string) int {
	v, ok := s.Get(key)
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case float64:
		return int(n)
	default:
		return 0
	}
}

// String retrieves a string setting; unknown keys read as "".
func (s *Store) String(key string) string {
	v, ok := s.Get(key)
	if !ok {
		return ""
	}
	str, _ := v.(string)
	return str
}

// Set stores a value in memory. Call Save to persist.
func (s *Store) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}

// Apply stores a batch of values in memory.
func (s *Store) Apply(values map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range values {
		s.data[k] = v
	}
}

// Reset restores every setting to its built-in default.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = Defaults()
}

// Keys returns all setting keys in sorted order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Save writes the settings to disk atomically (temp file + rename).
func (s *Store) Save() error {
	s.mu.RLock()
	out, err := toml.Marshal(s.data)
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, out, 0600); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace settings file: %w", err)
	}
	return nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}
