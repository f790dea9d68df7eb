// Package settings reads and writes builder chain files in the INI layout
// used by earlier releases, and keeps the catalog of saved chains.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/justyntemme/renamer/internal/builder"
	"github.com/justyntemme/renamer/internal/debug"
)

// ErrNotFound is returned for unknown saved settings.
var ErrNotFound = errors.New("settings not found")

// generalSection holds keys written outside any group.
const generalSection = "General"

// Values keep their quotes so the Qt unescaping in qtvalue.go sees them.
var loadOptions = ini.LoadOptions{
	IgnoreInlineComment:     true,
	IgnoreContinuation:      true,
	SkipUnrecognizableLines: true,
	PreserveSurroundedQuote: true,
	KeyValueDelimiters:      "=",
}

func init() {
	// key=value without alignment, as the existing files are written
	ini.PrettyFormat = false
	ini.PrettyEqual = false
}

// Store is a hierarchical key/value view of one INI file. The first group
// level is the INI section; deeper levels are joined into the key with
// backslashes, e.g. "[SettingsList] 0\InsertText\Position=0".
type Store struct {
	path   string
	file   *ini.File
	groups []string
}

var (
	_ builder.Settings        = (*Store)(nil)
	_ builder.IntListSettings = (*Store)(nil)
)

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{file: ini.Empty(loadOptions)}
}

// Open loads path. A missing file yields an empty store bound to path.
func Open(path string) (*Store, error) {
	s := NewStore()
	s.path = path
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	f, err := ini.LoadSources(loadOptions, path)
	if err != nil {
		return nil, fmt.Errorf("load settings %s: %w", path, err)
	}
	s.file = f
	debug.Log(debug.SETTINGS, "Open: %s (%d sections)", path, len(f.Sections()))
	return s, nil
}

// Path returns the file the store was opened from.
func (s *Store) Path() string { return s.path }

// Save writes the store back to the file it was opened from.
func (s *Store) Save() error {
	if s.path == "" {
		return fmt.Errorf("save settings: store has no path")
	}
	return s.SaveTo(s.path)
}

// SaveTo writes the store to path, creating parent directories.
func (s *Store) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	if err := s.file.SaveTo(path); err != nil {
		return fmt.Errorf("save settings %s: %w", path, err)
	}
	debug.Log(debug.SETTINGS, "SaveTo: %s", path)
	return nil
}

func (s *Store) BeginGroup(name string) {
	s.groups = append(s.groups, name)
}

func (s *Store) EndGroup() {
	if len(s.groups) > 0 {
		s.groups = s.groups[:len(s.groups)-1]
	}
}

// locate splits the current group path plus key into section and key.
func (s *Store) locate(key string) (string, string) {
	parts := make([]string, 0, len(s.groups)+1)
	parts = append(parts, s.groups...)
	if key != "" {
		parts = append(parts, key)
	}
	if len(parts) == 1 {
		return generalSection, parts[0]
	}
	return parts[0], strings.Join(parts[1:], `\`)
}

func (s *Store) raw(key string) (string, bool) {
	section, k := s.locate(key)
	sec, err := s.file.GetSection(section)
	if err != nil || !sec.HasKey(k) {
		return "", false
	}
	return sec.Key(k).String(), true
}

func (s *Store) setRaw(key, value string) {
	section, k := s.locate(key)
	s.file.Section(section).Key(k).SetValue(value)
}

// Value returns the unescaped string stored under key.
func (s *Store) Value(key string) (string, bool) {
	raw, ok := s.raw(key)
	if !ok {
		return "", false
	}
	return decodeString(raw), true
}

// SetValue stores value with QSettings escaping.
func (s *Store) SetValue(key, value string) {
	s.setRaw(key, encodeString(value))
}

// IntList reads an integer list saved as QList<int> or as plain numbers.
func (s *Store) IntList(key string) ([]int, bool, error) {
	raw, ok := s.raw(key)
	if !ok {
		return nil, false, nil
	}
	values, err := decodeIntList(raw)
	if err != nil {
		return nil, true, fmt.Errorf("%s: %w", key, err)
	}
	return values, true, nil
}

// SetIntList stores values as a QVariant holding QList<int>.
func (s *Store) SetIntList(key string, values []int) {
	s.setRaw(key, encodeIntList(values))
}

// Remove deletes key, or every key below it when it names a group.
func (s *Store) Remove(key string) {
	section, k := s.locate(key)
	if len(s.groups) == 0 {
		// A top-level name can be a section or a General key
		s.file.DeleteSection(key)
		if sec, err := s.file.GetSection(generalSection); err == nil {
			sec.DeleteKey(key)
		}
		return
	}
	sec, err := s.file.GetSection(section)
	if err != nil {
		return
	}
	if k == "" {
		s.file.DeleteSection(section)
		return
	}
	for _, name := range sec.KeyStrings() {
		if name == k || strings.HasPrefix(name, k+`\`) {
			sec.DeleteKey(name)
		}
	}
}

// Keys returns every key as a slash separated path, sorted.
func (s *Store) Keys() []string {
	var keys []string
	for _, sec := range s.file.Sections() {
		if sec.Name() == ini.DefaultSection && len(sec.Keys()) == 0 {
			continue
		}
		for _, k := range sec.KeyStrings() {
			full := strings.ReplaceAll(k, `\`, "/")
			if sec.Name() != generalSection && sec.Name() != ini.DefaultSection {
				full = sec.Name() + "/" + full
			}
			keys = append(keys, full)
		}
	}
	sort.Strings(keys)
	return keys
}

// SaveChain replaces the chain stored in s.
func (s *Store) SaveChain(c *builder.Chain) {
	builder.SaveChain(c, s)
}

// LoadChain reads the chain stored in s.
func (s *Store) LoadChain() (*builder.Chain, error) {
	return builder.LoadChain(s)
}
