package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/justyntemme/renamer/internal/builder"
	"github.com/justyntemme/renamer/internal/debug"
	"github.com/justyntemme/renamer/internal/trash"
)

const (
	NewSettingsName = "New settings"
	LastUsedName    = "Last used"
	LastTimeName    = "Last time"

	fileExt = ".ini"
)

var (
	ErrInvalidName = errors.New("invalid settings name")
	ErrNotEditable = errors.New("settings row is not editable")
	ErrExists      = errors.New("settings already exist")
)

// Catalog lists the chain files of a settings directory. Row 0 is always
// NewSettingsName, then named settings in order, then LastUsedName and
// LastTimeName when their files exist.
type Catalog struct {
	mu    sync.RWMutex
	dir   string
	names []string
	fixed int // trailing rows that are not editable
}

func NewCatalog(dir string) *Catalog {
	return &Catalog{dir: dir, names: []string{NewSettingsName}}
}

func (c *Catalog) Dir() string { return c.dir }

// FilePath returns the file backing name.
func (c *Catalog) FilePath(name string) string {
	return filepath.Join(c.dir, name+fileExt)
}

// Load rescans the settings directory. A missing directory is empty.
func (c *Catalog) Load() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("read settings dir: %w", err)
	}

	var named []string
	var lastUsed, lastTime bool
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileExt) {
			continue
		}
		name := strings.TrimSuffix(e.Name(), fileExt)
		switch name {
		case LastUsedName:
			lastUsed = true
		case LastTimeName:
			lastTime = true
		case NewSettingsName, "":
		default:
			named = append(named, name)
		}
	}
	sort.Strings(named)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.names = append([]string{NewSettingsName}, named...)
	c.fixed = 0
	if lastUsed {
		c.names = append(c.names, LastUsedName)
		c.fixed++
	}
	if lastTime {
		c.names = append(c.names, LastTimeName)
		c.fixed++
	}
	debug.Log(debug.SETTINGS, "Catalog.Load: %s (%d rows)", c.dir, len(c.names))
	return nil
}

func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.names...)
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.names)
}

func (c *Catalog) Name(row int) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if row < 0 || row >= len(c.names) {
		return "", ErrNotFound
	}
	return c.names[row], nil
}

// RowOf returns the row of name or -1.
func (c *Catalog) RowOf(name string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rowOfLocked(name)
}

func (c *Catalog) rowOfLocked(name string) int {
	for i, n := range c.names {
		if n == name {
			return i
		}
	}
	return -1
}

func (c *Catalog) NotEditableRows() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fixed
}

func (c *Catalog) ExistsLastTime() bool {
	return c.RowOf(LastTimeName) >= 0
}

func (c *Catalog) IsEditable(row int) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isEditableLocked(row)
}

func (c *Catalog) isEditableLocked(row int) bool {
	return row > 0 && row < len(c.names)-c.fixed
}

func validName(name string) error {
	switch {
	case strings.TrimSpace(name) == "",
		strings.ContainsAny(name, `/\`),
		name == NewSettingsName, name == LastUsedName, name == LastTimeName:
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// insertLocked places name among the editable rows and returns its row.
func (c *Catalog) insertLocked(name string) int {
	if row := c.rowOfLocked(name); row >= 0 {
		return row
	}
	editable := c.names[1 : len(c.names)-c.fixed]
	row := 1 + sort.Search(len(editable), func(i int) bool { return editable[i] > name })
	c.names = append(c.names, "")
	copy(c.names[row+1:], c.names[row:])
	c.names[row] = name
	return row
}

// Insert adds a row for name without touching the disk.
func (c *Catalog) Insert(name string) (int, error) {
	if err := validName(name); err != nil {
		return -1, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.insertLocked(name), nil
}

// Save writes chain under name, replacing an existing file, and returns
// its row.
func (c *Catalog) Save(name string, chain *builder.Chain) (int, error) {
	if err := validName(name); err != nil {
		return -1, err
	}
	if err := c.write(name, chain); err != nil {
		return -1, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.insertLocked(name), nil
}

func (c *Catalog) write(name string, chain *builder.Chain) error {
	s, err := Open(c.FilePath(name))
	if err != nil {
		return err
	}
	s.SaveChain(chain)
	return s.Save()
}

// SaveAsLastUsed writes the "Last used" settings, adding its row before
// "Last time" when needed.
func (c *Catalog) SaveAsLastUsed(chain *builder.Chain) error {
	if err := c.write(LastUsedName, chain); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rowOfLocked(LastUsedName) >= 0 {
		return nil
	}
	row := len(c.names)
	if lt := c.rowOfLocked(LastTimeName); lt >= 0 {
		row = lt
	}
	c.names = append(c.names, "")
	copy(c.names[row+1:], c.names[row:])
	c.names[row] = LastUsedName
	c.fixed++
	return nil
}

// SaveAsLastTime writes the chain in use when the application exits.
func (c *Catalog) SaveAsLastTime(chain *builder.Chain) error {
	if err := c.write(LastTimeName, chain); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rowOfLocked(LastTimeName) < 0 {
		c.names = append(c.names, LastTimeName)
		c.fixed++
	}
	return nil
}

// Rename renames an editable row and its file.
func (c *Catalog) Rename(row int, newName string) (int, error) {
	if err := validName(newName); err != nil {
		return -1, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if row < 0 || row >= len(c.names) {
		return -1, ErrNotFound
	}
	if !c.isEditableLocked(row) {
		return -1, ErrNotEditable
	}
	old := c.names[row]
	if old == newName {
		return row, nil
	}
	if c.rowOfLocked(newName) >= 0 {
		return -1, fmt.Errorf("%w: %q", ErrExists, newName)
	}
	if err := os.Rename(c.FilePath(old), c.FilePath(newName)); err != nil {
		return -1, fmt.Errorf("rename settings %q: %w", old, err)
	}
	c.names = append(c.names[:row], c.names[row+1:]...)
	debug.Log(debug.SETTINGS, "Catalog.Rename: %q -> %q", old, newName)
	return c.insertLocked(newName), nil
}

// Remove moves the file of an editable row to the trash.
func (c *Catalog) Remove(row int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if row < 0 || row >= len(c.names) {
		return ErrNotFound
	}
	if !c.isEditableLocked(row) {
		return ErrNotEditable
	}
	name := c.names[row]
	trashed, err := trash.Discard(c.FilePath(name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove settings %q: %w", name, err)
	}
	c.names = append(c.names[:row], c.names[row+1:]...)
	debug.Log(debug.SETTINGS, "Catalog.Remove: %q (trashed=%v)", name, trashed)
	return nil
}

// Open returns the store for row. Row 0 is an empty store.
func (c *Catalog) Open(row int) (*Store, error) {
	name, err := c.Name(row)
	if err != nil {
		return nil, err
	}
	if row == 0 {
		return NewStore(), nil
	}
	return Open(c.FilePath(name))
}

// OpenName is Open by name.
func (c *Catalog) OpenName(name string) (*Store, error) {
	row := c.RowOf(name)
	if row < 0 {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return c.Open(row)
}

// LoadChain reads the chain saved in row. Row 0 is an empty chain.
func (c *Catalog) LoadChain(row int) (*builder.Chain, error) {
	if row == 0 {
		return builder.NewChain(), nil
	}
	s, err := c.Open(row)
	if err != nil {
		return nil, err
	}
	return s.LoadChain()
}
