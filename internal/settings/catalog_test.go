package settings

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/justyntemme/renamer/internal/builder"
)

func newTestCatalog(t *testing.T, names ...string) *Catalog {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_DATA_HOME", home)

	c := NewCatalog(t.TempDir())
	chain := builder.NewChain(builder.NewInsertText(0, "a"))
	for _, n := range names {
		s, err := Open(c.FilePath(n))
		if err != nil {
			t.Fatal(err)
		}
		s.SaveChain(chain)
		if err := s.Save(); err != nil {
			t.Fatal(err)
		}
	}
	if err := c.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return c
}

func TestCatalogLoadOrder(t *testing.T) {
	c := newTestCatalog(t, "b", LastTimeName, "a", LastUsedName)
	expected := strings.Join([]string{NewSettingsName, "a", "b", LastUsedName, LastTimeName}, ",")
	if got := strings.Join(c.Names(), ","); got != expected {
		t.Errorf("expected %s, got %s", expected, got)
	}
	if c.NotEditableRows() != 2 || !c.ExistsLastTime() {
		t.Errorf("fixed rows: got %d", c.NotEditableRows())
	}

	testCases := []struct {
		row      int
		editable bool
	}{
		{0, false}, {1, true}, {2, true}, {3, false}, {4, false}, {5, false},
	}
	for _, tc := range testCases {
		if got := c.IsEditable(tc.row); got != tc.editable {
			t.Errorf("IsEditable(%d): expected %v", tc.row, tc.editable)
		}
	}
}

func TestCatalogInsertAndSave(t *testing.T) {
	c := newTestCatalog(t, "b", "d", LastTimeName)
	row, err := c.Insert("c")
	if err != nil || row != 2 {
		t.Errorf("Insert(c): row %d, err %v", row, err)
	}
	row, err = c.Save("e", builder.NewChain(builder.NewNumber(0, 1, 1, 1, "", "")))
	if err != nil || row != 4 {
		t.Errorf("Save(e): row %d, err %v", row, err)
	}
	if _, err := os.Stat(c.FilePath("e")); err != nil {
		t.Errorf("saved file missing: %v", err)
	}
	if _, err := c.Insert(LastUsedName); !errors.Is(err, ErrInvalidName) {
		t.Errorf("reserved name accepted: %v", err)
	}

	if err := c.SaveAsLastUsed(builder.NewChain()); err != nil {
		t.Fatal(err)
	}
	names := c.Names()
	if names[len(names)-2] != LastUsedName || names[len(names)-1] != LastTimeName {
		t.Errorf("Last used misplaced: %v", names)
	}

	chain, err := c.LoadChain(c.RowOf("e"))
	if err != nil {
		t.Fatalf("LoadChain: %v", err)
	}
	if chain.Len() != 1 || chain.Kinds()[0] != builder.KindNumber {
		t.Errorf("unexpected chain %s", chain.Describe())
	}
	if empty, err := c.LoadChain(0); err != nil || !empty.IsEmpty() {
		t.Errorf("row 0 should be an empty chain: %v", err)
	}
}

func TestCatalogRenameRemove(t *testing.T) {
	c := newTestCatalog(t, "a", "m", LastUsedName)

	row, err := c.Rename(1, "z")
	if err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if row != 2 {
		t.Errorf("renamed row: expected 2, got %d", row)
	}
	if _, err := os.Stat(c.FilePath("z")); err != nil {
		t.Errorf("renamed file missing: %v", err)
	}
	if _, err := c.Rename(3, "x"); !errors.Is(err, ErrNotEditable) {
		t.Errorf("renaming Last used: %v", err)
	}
	if _, err := c.Rename(1, "z"); !errors.Is(err, ErrExists) {
		t.Errorf("rename onto existing: %v", err)
	}

	if err := c.Remove(c.RowOf("z")); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(c.FilePath("z")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("removed file still present: %v", err)
	}
	if err := c.Remove(0); !errors.Is(err, ErrNotEditable) {
		t.Errorf("removing row 0: %v", err)
	}
	if got := strings.Join(c.Names(), ","); got != NewSettingsName+",m,"+LastUsedName {
		t.Errorf("names after remove: %s", got)
	}
}
