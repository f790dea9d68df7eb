package path

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/jeandeaual/go-locale"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/justyntemme/renamer/internal/applog"
	"github.com/justyntemme/renamer/internal/debug"
)

var (
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrCrossDirectory  = errors.New("entities belong to different directories")
)

// SortOrder selects ascending or descending sorts.
type SortOrder int

const (
	Ascending SortOrder = iota
	Descending
)

// Children is one parent directory (with trailing separator) and the names
// of entries inside it that should be added.
type Children struct {
	Parent string
	Names  []string
}

// ParentDir groups the entities that live in one directory.
type ParentDir struct {
	id       DirID
	path     string
	children []*Entity
}

func (d *ParentDir) ID() DirID    { return d.id }
func (d *ParentDir) Path() string { return d.path }
func (d *ParentDir) Len() int     { return len(d.children) }

// Root owns every ParentDir and every Entity.
//
// All mutations go through Root methods which hold the mutex and rebuild
// the flattened entity list before releasing it, so readers always see
// the concatenation of each directory's children in directory order.
type Root struct {
	mu sync.RWMutex

	dirs     []*ParentDir
	byID     map[DirID]*ParentDir
	entities []*Entity
	nextID   DirID

	lang language.Tag
	log  applog.Logger
}

// NewRoot creates an empty collection. log receives rename/undo outcomes.
func NewRoot(log applog.Logger) *Root {
	if log == nil {
		log = applog.Nop{}
	}
	return &Root{
		byID: make(map[DirID]*ParentDir),
		lang: systemLanguage(),
		log:  log,
	}
}

// systemLanguage picks the collation language from the user's locale.
func systemLanguage() language.Tag {
	name, err := locale.GetLocale()
	if err != nil || name == "" {
		return language.English
	}
	tag, err := language.Parse(name)
	if err != nil {
		return language.English
	}
	return tag
}

// SetLanguage overrides the language used by the sorts.
func (r *Root) SetLanguage(tag language.Tag) {
	r.mu.Lock()
	r.lang = tag
	r.mu.Unlock()
}

// AddDirectories registers directory entries.
func (r *Root) AddDirectories(groups []Children) {
	r.addPaths(groups, true)
}

// AddFiles registers file entries.
func (r *Root) AddFiles(groups []Children) {
	r.addPaths(groups, false)
}

func (r *Root) addPaths(groups []Children, isDir bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	added := 0
	for _, g := range groups {
		dir := r.dirLocked(g.Parent)
		if dir == nil {
			dir = &ParentDir{id: r.nextID, path: g.Parent}
			r.nextID++
			r.dirs = append(r.dirs, dir)
			r.byID[dir.id] = dir
		}
		for _, name := range g.Names {
			if name == "" {
				continue
			}
			dir.children = append(dir.children, newEntity(dir, name, isDir, r.log))
			added++
		}
	}
	r.rebuildLocked()
	debug.Log(debug.PATH, "Root.addPaths: %d entries (dirs=%v), total %d", added, isDir, len(r.entities))
}

func (r *Root) dirLocked(path string) *ParentDir {
	for _, d := range r.dirs {
		if d.path == path {
			return d
		}
	}
	return nil
}

// rebuildLocked regenerates the flattened list and drops empty directories.
func (r *Root) rebuildLocked() {
	r.entities = r.entities[:0]
	dirs := r.dirs[:0]
	for _, d := range r.dirs {
		if len(d.children) == 0 {
			delete(r.byID, d.id)
			continue
		}
		dirs = append(dirs, d)
		r.entities = append(r.entities, d.children...)
	}
	for i := len(dirs); i < len(r.dirs); i++ {
		r.dirs[i] = nil
	}
	r.dirs = dirs
}

// Clear removes everything.
func (r *Root) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dirs = nil
	r.entities = nil
	r.byID = make(map[DirID]*ParentDir)
	debug.Log(debug.PATH, "Root.Clear")
}

// Remove deletes count entities starting at index.
func (r *Root) Remove(index, count int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if index < 0 || count < 0 || index+count > len(r.entities) {
		return fmt.Errorf("remove [%d,%d) of %d: %w", index, index+count, len(r.entities), ErrIndexOutOfRange)
	}
	doomed := make(map[*Entity]bool, count)
	for _, e := range r.entities[index : index+count] {
		doomed[e] = true
	}
	r.removeLocked(doomed)
	return nil
}

// RemoveRows deletes the entities at the given rows, in any order.
func (r *Root) RemoveRows(rows []int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	doomed := make(map[*Entity]bool, len(rows))
	for _, row := range rows {
		if row < 0 || row >= len(r.entities) {
			return fmt.Errorf("remove row %d of %d: %w", row, len(r.entities), ErrIndexOutOfRange)
		}
		doomed[r.entities[row]] = true
	}
	r.removeLocked(doomed)
	return nil
}

func (r *Root) removeLocked(doomed map[*Entity]bool) {
	for _, d := range r.dirs {
		d.children = slices.DeleteFunc(d.children, func(e *Entity) bool { return doomed[e] })
	}
	r.rebuildLocked()
	debug.Log(debug.PATH, "Root.remove: %d entities, %d left", len(doomed), len(r.entities))
}

// CanMove reports whether rows and targetRow all lie in one directory.
// targetRow may equal the row just past that directory's last entity.
func (r *Root) CanMove(rows []int, targetRow int) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, _, err := r.moveRangeLocked(rows, targetRow)
	return err == nil
}

// moveRangeLocked returns the [start,end) rows of the directory that owns
// every source row.
func (r *Root) moveRangeLocked(rows []int, targetRow int) (int, int, error) {
	if len(rows) == 0 {
		return 0, 0, fmt.Errorf("move: no rows")
	}
	for _, row := range rows {
		if row < 0 || row >= len(r.entities) {
			return 0, 0, fmt.Errorf("move row %d of %d: %w", row, len(r.entities), ErrIndexOutOfRange)
		}
	}
	dir := r.entities[rows[0]].dir
	start := 0
	for _, d := range r.dirs {
		if d.id == dir {
			break
		}
		start += len(d.children)
	}
	end := start + len(r.byID[dir].children)
	for _, row := range rows {
		if r.entities[row].dir != dir {
			return 0, 0, ErrCrossDirectory
		}
	}
	if targetRow < start || targetRow > end {
		return 0, 0, ErrCrossDirectory
	}
	return start, end, nil
}

// Move reorders the entities at rows so they land before targetRow, and
// returns the row of the first moved entity. All rows must share one
// directory with the target.
func (r *Root) Move(rows []int, targetRow int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	start, end, err := r.moveRangeLocked(rows, targetRow)
	if err != nil {
		return -1, err
	}
	sorted := slices.Clone(rows)
	sort.Ints(sorted)
	sorted = slices.Compact(sorted)

	diff := 0
	if sorted[0] < targetRow {
		diff = -sort.SearchInts(sorted, targetRow)
	}

	var taken []*Entity
	for i := len(sorted) - 1; i >= 0; i-- {
		row := sorted[i]
		taken = append(taken, r.entities[row])
		r.entities = slices.Delete(r.entities, row, row+1)
	}
	insertAt := targetRow + diff
	for _, e := range taken {
		r.entities = slices.Insert(r.entities, insertAt, e)
	}

	dir := r.byID[taken[0].dir]
	dir.children = slices.Clone(r.entities[start:end])
	r.rebuildLocked()
	debug.Log(debug.PATH, "Root.Move: %v -> %d (dir %s)", sorted, insertAt, dir.path)
	return insertAt, nil
}

func (r *Root) collator() *collate.Collator {
	return collate.New(r.lang, collate.Numeric)
}

// SortByEntityName sorts the children of every directory by name. The
// directory order is unchanged.
func (r *Root) SortByEntityName(order SortOrder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.collator()
	for _, d := range r.dirs {
		sort.SliceStable(d.children, func(i, j int) bool {
			return less(c.CompareString(d.children[i].name, d.children[j].name), order)
		})
	}
	r.rebuildLocked()
}

// SortByParentDir sorts the directories by path, keeping each directory's
// child order.
func (r *Root) SortByParentDir(order SortOrder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.collator()
	sort.SliceStable(r.dirs, func(i, j int) bool {
		return less(c.CompareString(r.dirs[i].path, r.dirs[j].path), order)
	})
	r.rebuildLocked()
}

func less(cmp int, order SortOrder) bool {
	if order == Descending {
		return cmp > 0
	}
	return cmp < 0
}

// Entity returns the entity at index.
func (r *Root) Entity(index int) (*Entity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if index < 0 || index >= len(r.entities) {
		return nil, fmt.Errorf("entity %d of %d: %w", index, len(r.entities), ErrIndexOutOfRange)
	}
	return r.entities[index], nil
}

// Entities returns a snapshot of the flattened list.
func (r *Root) Entities() []*Entity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.entities)
}

func (r *Root) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entities)
}

func (r *Root) IsEmpty() bool {
	return r.Len() == 0
}

// IndexOf returns the row of e, or -1.
func (r *Root) IndexOf(e *Entity) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Index(r.entities, e)
}

// DirPaths returns the parent directory paths in directory order.
func (r *Root) DirPaths() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	paths := make([]string, len(r.dirs))
	for i, d := range r.dirs {
		paths[i] = d.path
	}
	return paths
}

// DirOf returns the ParentDir behind a handle, or nil once it is gone.
func (r *Root) DirOf(id DirID) *ParentDir {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byID[id]
}

// Children returns a copy of one directory's entities in order.
func (r *Root) Children(id DirID) []*Entity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d := r.byID[id]
	if d == nil {
		return nil
	}
	return slices.Clone(d.children)
}
