package applog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLogDefaultsCategory(t *testing.T) {
	l := New(nil)
	l.Log("hello", "")
	l.Log("moved", CategoryRename)

	recs := l.Records()
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	testCases := []struct {
		idx      int
		category string
		content  string
	}{
		{0, CategoryGeneral, "hello"},
		{1, CategoryRename, "moved"},
	}
	for _, tc := range testCases {
		r := recs[tc.idx]
		if r.Category != tc.category || r.Content != tc.content {
			t.Errorf("record %d: expected [%s] %q, got [%s] %q", tc.idx, tc.category, tc.content, r.Category, r.Content)
		}
	}

	l.Clear()
	if l.Len() != 0 {
		t.Errorf("Clear: expected 0 records, got %d", l.Len())
	}
}

func TestWriteCategory(t *testing.T) {
	dir := t.TempDir()
	l := New(nil)
	l.Log("a", CategoryRename)
	l.Log("b", CategoryUndo)
	l.Log("c", CategoryRename)

	path, err := l.WriteCategory(dir, CategoryRename)
	if err != nil {
		t.Fatalf("WriteCategory: %v", err)
	}
	if filepath.Base(path) != "Rename.log" {
		t.Errorf("expected Rename.log, got %s", filepath.Base(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), data)
	}
	if !strings.HasSuffix(lines[1], "[Rename] c") {
		t.Errorf("unexpected line %q", lines[1])
	}
}

func TestWriteFileKeepsNewest(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < MaxLogFiles+3; i++ {
		name := fmt.Sprintf("renamer %s.log", base.Add(time.Duration(i)*time.Minute).Format(fileTimeLayout))
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	// Unrelated files are left alone
	if err := os.WriteFile(filepath.Join(dir, "Rename.log"), nil, 0644); err != nil {
		t.Fatal(err)
	}

	l := New(nil)
	l.now = func() time.Time { return base.Add(time.Hour) }
	l.Log("x", "")
	path, err := l.WriteFile(dir, "renamer")
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("written file missing: %v", err)
	}

	entries, _ := os.ReadDir(dir)
	dumps := 0
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "renamer ") {
			dumps++
		}
	}
	if dumps != MaxLogFiles {
		t.Errorf("expected %d dumps, got %d", MaxLogFiles, dumps)
	}
	if _, err := os.Stat(filepath.Join(dir, "Rename.log")); err != nil {
		t.Errorf("unrelated log removed: %v", err)
	}
	oldest := fmt.Sprintf("renamer %s.log", base.Format(fileTimeLayout))
	if _, err := os.Stat(filepath.Join(dir, oldest)); !os.IsNotExist(err) {
		t.Errorf("oldest dump should be pruned")
	}
}
