// Package fs classifies dropped paths into the parent/children groups the
// entity collection is built from.
package fs

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charlievieth/fastwalk"

	"github.com/justyntemme/renamer/internal/debug"
	"github.com/justyntemme/renamer/internal/path"
)

// Options tune Analyze.
type Options struct {
	// Expand adds the direct children of every dropped directory.
	Expand bool
	// ShowHidden keeps dot-entries found while expanding.
	ShowHidden bool
	// Filter, when set, selects the children kept while expanding.
	Filter *Filter
}

// Result holds the grouped paths in first-seen parent order.
type Result struct {
	Dirs  []path.Children
	Files []path.Children
}

// Empty reports whether nothing usable was found.
func (r Result) Empty() bool {
	return len(r.Dirs) == 0 && len(r.Files) == 0
}

// IsAllDir reports whether only directories were found.
func (r Result) IsAllDir() bool {
	return len(r.Dirs) > 0 && len(r.Files) == 0
}

// Count returns the number of entries across all groups.
func (r Result) Count() int {
	n := 0
	for _, g := range r.Dirs {
		n += len(g.Names)
	}
	for _, g := range r.Files {
		n += len(g.Names)
	}
	return n
}

// Entry is one listed directory child.
type Entry struct {
	Name    string
	Path    string
	IsDir   bool
	Size    int64
	ModTime time.Time
}

// grouper accumulates children per parent, keeping first-seen order and
// dropping duplicates.
type grouper struct {
	groups []path.Children
	index  map[string]int
	seen   map[string]bool
}

func newGrouper() *grouper {
	return &grouper{index: make(map[string]int), seen: make(map[string]bool)}
}

func (g *grouper) add(parent, name string) {
	if g.seen[parent+name] {
		return
	}
	g.seen[parent+name] = true
	i, ok := g.index[parent]
	if !ok {
		i = len(g.groups)
		g.index[parent] = i
		g.groups = append(g.groups, path.Children{Parent: parent})
	}
	g.groups[i].Names = append(g.groups[i].Names, name)
}

// withSeparator returns p with exactly one trailing separator.
func withSeparator(p string) string {
	if strings.HasSuffix(p, string(filepath.Separator)) {
		return p
	}
	return p + string(filepath.Separator)
}

// isRoot reports whether p is a filesystem root such as "/" or "C:\".
func isRoot(p string) bool {
	return filepath.Dir(p) == p
}

// Analyze skips relative paths, filesystem roots and missing paths, then
// groups the rest by absolute parent directory into directories and files.
func Analyze(paths []string, opts Options) Result {
	dirs, files := newGrouper(), newGrouper()

	for _, p := range paths {
		if p == "" || !filepath.IsAbs(p) {
			debug.Log(debug.FS, "Analyze: skip relative %q", p)
			continue
		}
		p = filepath.Clean(p)
		if isRoot(p) {
			debug.Log(debug.FS, "Analyze: skip root %q", p)
			continue
		}
		info, err := os.Stat(p)
		if err != nil {
			debug.Log(debug.FS, "Analyze: skip %q: %v", p, err)
			continue
		}

		parent := withSeparator(filepath.Dir(p))
		name := filepath.Base(p)
		if !info.IsDir() {
			files.add(parent, name)
			continue
		}
		dirs.add(parent, name)

		if opts.Expand {
			entries, err := ListDir(p)
			if err != nil {
				debug.Log(debug.FS, "Analyze: expand %q: %v", p, err)
				continue
			}
			child := withSeparator(p)
			for _, e := range entries {
				if !opts.ShowHidden && strings.HasPrefix(e.Name, ".") {
					continue
				}
				if !opts.Filter.Match(e) {
					continue
				}
				if e.IsDir {
					dirs.add(child, e.Name)
				} else {
					files.add(child, e.Name)
				}
			}
		}
	}

	res := Result{Dirs: dirs.groups, Files: files.groups}
	debug.Log(debug.FS, "Analyze: %d paths -> %d dir groups, %d file groups", len(paths), len(res.Dirs), len(res.Files))
	return res
}

// ListDir returns the direct children of dir sorted by name.
func ListDir(dir string) ([]Entry, error) {
	debug.Log(debug.FS, "ListDir: reading %q", dir)

	var result []Entry
	var mu sync.Mutex

	conf := &fastwalk.Config{
		Follow: true, // Follow symlinks to get target info
	}

	err := fastwalk.Walk(conf, dir, func(fullPath string, d fs.DirEntry, err error) error {
		if err != nil {
			debug.Log(debug.FS_ENTRY, "ListDir: walk error at %q: %v", fullPath, err)
			return nil // Skip errors, continue walking
		}
		if fullPath == dir {
			return nil
		}
		if filepath.Dir(fullPath) != filepath.Clean(dir) {
			if d.IsDir() {
				return fastwalk.SkipDir
			}
			return nil
		}

		info, err := fastwalk.StatDirEntry(fullPath, d)
		if err != nil {
			// Broken symlinks still get listed
			info, err = os.Lstat(fullPath)
			if err != nil {
				debug.Log(debug.FS_ENTRY, "ListDir: skipping %q: stat error: %v", d.Name(), err)
				return nil
			}
		}

		mu.Lock()
		result = append(result, Entry{
			Name:    d.Name(),
			Path:    fullPath,
			IsDir:   info.IsDir(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		mu.Unlock()

		if d.IsDir() {
			return fastwalk.SkipDir
		}
		return nil
	})
	if err != nil {
		debug.Log(debug.FS, "ListDir: walk error: %v", err)
		return nil, err
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}
