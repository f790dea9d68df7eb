package fs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func mkTree(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	for _, d := range []string{"dir1", "dir2", ".hidden_dir"} {
		if err := os.Mkdir(filepath.Join(tmpDir, d), 0755); err != nil {
			t.Fatalf("failed to create dir %s: %v", d, err)
		}
	}
	for _, f := range []string{"file1.txt", "file2.go", ".hidden_file", "dir1/nested.txt", "dir1/sub.d"} {
		if err := os.WriteFile(filepath.Join(tmpDir, f), []byte("test content"), 0644); err != nil {
			t.Fatalf("failed to create file %s: %v", f, err)
		}
	}
	return tmpDir
}

func TestAnalyzeGroups(t *testing.T) {
	tmpDir := mkTree(t)
	sep := string(filepath.Separator)
	res := Analyze([]string{
		filepath.Join(tmpDir, "file1.txt"),
		filepath.Join(tmpDir, "dir1"),
		filepath.Join(tmpDir, "dir1", "nested.txt"),
		filepath.Join(tmpDir, "file2.go"),
		filepath.Join(tmpDir, "file1.txt"), // duplicate
		"relative/path",
		"/",
		filepath.Join(tmpDir, "missing"),
	}, Options{})

	if len(res.Dirs) != 1 || res.Dirs[0].Parent != tmpDir+sep || strings.Join(res.Dirs[0].Names, ",") != "dir1" {
		t.Errorf("unexpected dirs %+v", res.Dirs)
	}
	if len(res.Files) != 2 {
		t.Fatalf("expected 2 file groups, got %+v", res.Files)
	}
	testCases := []struct {
		group    int
		parent   string
		expected string
	}{
		{0, tmpDir + sep, "file1.txt,file2.go"},
		{1, filepath.Join(tmpDir, "dir1") + sep, "nested.txt"},
	}
	for _, tc := range testCases {
		g := res.Files[tc.group]
		if g.Parent != tc.parent || strings.Join(g.Names, ",") != tc.expected {
			t.Errorf("file group %d: expected %s %s, got %s %s", tc.group, tc.parent, tc.expected, g.Parent, strings.Join(g.Names, ","))
		}
	}
	if res.Count() != 4 || res.IsAllDir() || res.Empty() {
		t.Errorf("unexpected summary count=%d allDir=%v empty=%v", res.Count(), res.IsAllDir(), res.Empty())
	}
}

func TestAnalyzeExpand(t *testing.T) {
	tmpDir := mkTree(t)
	sep := string(filepath.Separator)
	testCases := []struct {
		hidden   bool
		dirs     string
		children string
	}{
		{false, "dir1,dir2", "file1.txt,file2.go"},
		{true, ".hidden_dir,dir1,dir2", ".hidden_file,file1.txt,file2.go"},
	}
	for _, tc := range testCases {
		res := Analyze([]string{tmpDir}, Options{Expand: true, ShowHidden: tc.hidden})
		if len(res.Dirs) != 2 {
			t.Fatalf("hidden=%v: expected dropped dir plus its children, got %+v", tc.hidden, res.Dirs)
		}
		if got := strings.Join(res.Dirs[1].Names, ","); res.Dirs[1].Parent != tmpDir+sep || got != tc.dirs {
			t.Errorf("hidden=%v: child dirs expected %s, got %s", tc.hidden, tc.dirs, got)
		}
		if len(res.Files) != 1 || strings.Join(res.Files[0].Names, ",") != tc.children {
			t.Errorf("hidden=%v: child files expected %s, got %+v", tc.hidden, tc.children, res.Files)
		}
	}
}

func TestAnalyzeAllDir(t *testing.T) {
	tmpDir := mkTree(t)
	res := Analyze([]string{filepath.Join(tmpDir, "dir1"), filepath.Join(tmpDir, "dir2")}, Options{})
	if !res.IsAllDir() {
		t.Error("expected IsAllDir")
	}
	if !Analyze(nil, Options{}).Empty() {
		t.Error("expected empty result")
	}
}

func TestListDir(t *testing.T) {
	tmpDir := mkTree(t)
	entries, err := ListDir(tmpDir)
	if err != nil {
		t.Fatalf("ListDir returned error: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
		if e.Name == "dir1" && !e.IsDir {
			t.Error("dir1 should be a directory")
		}
		if e.Name == "file1.txt" && (e.IsDir || e.Size != int64(len("test content"))) {
			t.Errorf("file1.txt: unexpected entry %+v", e)
		}
	}
	if got := strings.Join(names, ","); got != ".hidden_dir,.hidden_file,dir1,dir2,file1.txt,file2.go" {
		t.Errorf("unexpected listing %s", got)
	}

	if _, err := ListDir("/nonexistent/path/that/does/not/exist"); err == nil {
		t.Error("expected error for nonexistent path")
	}
}

func TestListDirSymlinks(t *testing.T) {
	tmpDir := t.TempDir()
	realDir := filepath.Join(tmpDir, "realdir")
	if err := os.Mkdir(realDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(realDir, filepath.Join(tmpDir, "linkdir")); err != nil {
		t.Skipf("cannot create symlinks: %v", err)
	}
	if err := os.Symlink(filepath.Join(tmpDir, "gone"), filepath.Join(tmpDir, "broken")); err != nil {
		t.Fatal(err)
	}

	entries, err := ListDir(tmpDir)
	if err != nil {
		t.Fatal(err)
	}
	found := map[string]Entry{}
	for _, e := range entries {
		found[e.Name] = e
	}
	if e, ok := found["linkdir"]; !ok || !e.IsDir {
		t.Errorf("symlink to directory should appear as directory: %+v", e)
	}
	if _, ok := found["broken"]; !ok {
		t.Error("broken symlink should still be listed")
	}
}
