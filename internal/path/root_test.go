package path

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/text/language"
)

func names(es []*Entity) string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.Name()
	}
	return strings.Join(out, ",")
}

// checkFlattened verifies the flattened list matches the per-directory order.
func checkFlattened(t *testing.T, r *Root) {
	t.Helper()
	r.mu.RLock()
	defer r.mu.RUnlock()
	var want []*Entity
	for _, d := range r.dirs {
		for _, e := range d.children {
			if e.dir != d.id {
				t.Errorf("entity %s points at dir %d, lives in %d", e.name, e.dir, d.id)
			}
		}
		want = append(want, d.children...)
	}
	if names(want) != names(r.entities) {
		t.Errorf("flattened %s, directories give %s", names(r.entities), names(want))
	}
}

func newTestRoot() *Root {
	r := NewRoot(nil)
	r.SetLanguage(language.English)
	r.AddFiles([]Children{
		{Parent: "/b/", Names: []string{"f10", "f2", "f1"}},
		{Parent: "/a/", Names: []string{"x", "y"}},
	})
	return r
}

func TestAddGroupsByParent(t *testing.T) {
	r := newTestRoot()
	r.AddDirectories([]Children{{Parent: "/b/", Names: []string{"sub"}}})
	if got := names(r.Entities()); got != "f10,f2,f1,sub,x,y" {
		t.Errorf("expected grouping by parent, got %s", got)
	}
	if got := strings.Join(r.DirPaths(), ","); got != "/b/,/a/" {
		t.Errorf("dir order: got %s", got)
	}
	e, _ := r.Entity(3)
	if !e.IsDir() || e.ParentPath() != "/b/" {
		t.Errorf("sub: expected dir in /b/, got dir=%v parent=%s", e.IsDir(), e.ParentPath())
	}
	checkFlattened(t, r)
}

func TestSort(t *testing.T) {
	testCases := []struct {
		name     string
		sort     func(r *Root)
		expected string
	}{
		{"name asc", func(r *Root) { r.SortByEntityName(Ascending) }, "f1,f2,f10,x,y"},
		{"name desc", func(r *Root) { r.SortByEntityName(Descending) }, "f10,f2,f1,y,x"},
		{"dir asc", func(r *Root) { r.SortByParentDir(Ascending) }, "x,y,f10,f2,f1"},
		{"dir desc", func(r *Root) { r.SortByParentDir(Descending) }, "f10,f2,f1,x,y"},
	}
	for _, tc := range testCases {
		r := newTestRoot()
		tc.sort(r)
		if got := names(r.Entities()); got != tc.expected {
			t.Errorf("%s: expected %s, got %s", tc.name, tc.expected, got)
		}
		checkFlattened(t, r)
	}
}

func TestRemove(t *testing.T) {
	r := newTestRoot()
	if err := r.Remove(1, 2); err != nil {
		t.Fatal(err)
	}
	if got := names(r.Entities()); got != "f10,x,y" {
		t.Errorf("Remove(1,2): got %s", got)
	}
	if err := r.RemoveRows([]int{2, 0}); err != nil {
		t.Fatal(err)
	}
	if got := names(r.Entities()); got != "x" {
		t.Errorf("RemoveRows: got %s", got)
	}
	if got := strings.Join(r.DirPaths(), ","); got != "/a/" {
		t.Errorf("empty directory should be dropped, got %s", got)
	}
	checkFlattened(t, r)

	if err := r.Remove(0, 5); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
	if err := r.RemoveRows([]int{9}); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}

	r.Clear()
	if !r.IsEmpty() || len(r.DirPaths()) != 0 {
		t.Error("Clear left entries behind")
	}
}

func TestMove(t *testing.T) {
	testCases := []struct {
		rows     []int
		target   int
		expected string
		row      int
	}{
		{[]int{0}, 2, "f2,f10,f1,x,y", 1},
		{[]int{2}, 0, "f1,f10,f2,x,y", 0},
		{[]int{0, 1}, 3, "f1,f10,f2,x,y", 1},
		{[]int{4}, 3, "f10,f2,f1,y,x", 3},
	}
	for _, tc := range testCases {
		r := newTestRoot()
		row, err := r.Move(tc.rows, tc.target)
		if err != nil {
			t.Fatalf("Move(%v, %d): %v", tc.rows, tc.target, err)
		}
		if got := names(r.Entities()); got != tc.expected || row != tc.row {
			t.Errorf("Move(%v, %d): expected %s@%d, got %s@%d", tc.rows, tc.target, tc.expected, tc.row, got, row)
		}
		checkFlattened(t, r)
	}
}

func TestMoveAcrossDirectoriesRejected(t *testing.T) {
	r := newTestRoot()
	if r.CanMove([]int{0, 3}, 1) {
		t.Error("CanMove should reject mixed directories")
	}
	if _, err := r.Move([]int{0}, 4); !errors.Is(err, ErrCrossDirectory) {
		t.Errorf("expected ErrCrossDirectory, got %v", err)
	}
	if got := names(r.Entities()); got != "f10,f2,f1,x,y" {
		t.Errorf("rejected move changed order: %s", got)
	}
}

func TestIndexOfAndChildren(t *testing.T) {
	r := newTestRoot()
	e, _ := r.Entity(4)
	if r.IndexOf(e) != 4 {
		t.Errorf("IndexOf: expected 4, got %d", r.IndexOf(e))
	}
	if got := names(r.Children(e.Dir())); got != "x,y" {
		t.Errorf("Children: got %s", got)
	}
	if d := r.DirOf(e.Dir()); d == nil || d.Path() != "/a/" || d.Len() != 2 {
		t.Errorf("DirOf: unexpected %+v", d)
	}
}
