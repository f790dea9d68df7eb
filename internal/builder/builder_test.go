package builder

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type fakeInfo struct {
	dir    bool
	path   string
	hashes map[HashAlgorithm]string
	image  string
}

func (f *fakeInfo) IsDir() bool      { return f.dir }
func (f *fakeInfo) FullPath() string { return f.path }
func (f *fakeInfo) FileName() string { return filepath.Base(f.path) }
func (f *fakeInfo) CompleteBaseName() string {
	n := f.FileName()
	if i := strings.LastIndex(n, "."); i >= 0 {
		return n[:i]
	}
	return n
}
func (f *fakeInfo) Suffix() string {
	n := f.FileName()
	if i := strings.LastIndex(n, "."); i >= 0 {
		return n[i+1:]
	}
	return ""
}
func (f *fakeInfo) HashHex(alg HashAlgorithm) string { return f.hashes[alg] }
func (f *fakeInfo) SetHashHex(alg HashAlgorithm, h string) {
	if f.hashes == nil {
		f.hashes = map[HashAlgorithm]string{}
	}
	f.hashes[alg] = h
}
func (f *fakeInfo) ImageHash() string      { return f.image }
func (f *fakeInfo) SetImageHash(h string) { f.image = h }

func TestPositionResolve(t *testing.T) {
	testCases := []struct {
		pos      Position
		length   int
		expected int
	}{
		{Leftmost, 10, 0},
		{Rightmost, 10, 10},
		{0, 10, 0},
		{3, 10, 3},
		{50, 10, 10},
		{-3, 10, 7},
		{-50, 10, 0},
		{-1, 0, 0},
		{Rightmost, 0, 0},
	}
	for _, tc := range testCases {
		if got := tc.pos.Resolve(tc.length); got != tc.expected {
			t.Errorf("Position(%d).Resolve(%d): expected %d, got %d", tc.pos, tc.length, tc.expected, got)
		}
	}
}

func TestInsertAtRunes(t *testing.T) {
	testCases := []struct {
		s        string
		pos      Position
		text     string
		expected string
	}{
		{"", Leftmost, "x", "x"},
		{"abc", 1, "_", "a_bc"},
		{"abc", -1, "_", "ab_c"},
		{"日本語", 2, "-", "日本-語"},
		{"日本語", Rightmost, "!", "日本語!"},
		{"abc", 1, "", "abc"},
	}
	for _, tc := range testCases {
		if got := insertAt(tc.s, tc.pos, tc.text); got != tc.expected {
			t.Errorf("insertAt(%q, %d, %q): expected %q, got %q", tc.s, tc.pos, tc.text, tc.expected, got)
		}
	}
}

func TestOriginalName(t *testing.T) {
	testCases := []struct {
		info     *fakeInfo
		expected string
	}{
		{&fakeInfo{path: "/x/photo.tar.gz"}, "photo.tar"},
		{&fakeInfo{path: "/x/README"}, "README"},
		{&fakeInfo{path: "/x/dir.d", dir: true}, "dir.d"},
	}
	for _, tc := range testCases {
		b := NewOriginalName(Leftmost)
		b.SetFileInfo(tc.info)
		if got := b.Build(""); got != tc.expected {
			t.Errorf("OriginalName(%s): expected %q, got %q", tc.info.path, tc.expected, got)
		}
	}
}

func TestReplaceText(t *testing.T) {
	testCases := []struct {
		b        *ReplaceText
		input    string
		expected string
	}{
		{NewReplaceText("a", "b", false, true), "aAa", "bAb"},
		{NewReplaceText("a", "b", false, false), "aAa", "bbb"},
		{NewReplaceText("a.", "X", false, false), "A.ab", "Xab"},
		{NewReplaceText(`(\d+)`, `<\1>`, true, true), "img12x3", "img<12>x<3>"},
		{NewReplaceText(`(\d+)`, `<\10>`, true, true), "img12", "img<120>"},
		{NewReplaceText(`(\d+)`, `\0\2`, true, true), "a1", `a\0\2`},
		{NewReplaceText(`(a)(b)`, `\2\1`, true, true), "xab", "xba"},
		{NewReplaceText("x", "$price", true, true), "x1", "$price1"},
		{NewReplaceText(`(\d)`, "${1}", true, true), "v2", "v${1}"},
		{NewReplaceText("IMG", "pic", true, false), "img_IMG", "pic_pic"},
		{NewReplaceText("(", "x", true, true), "a(b", "a(b"},
		{NewReplaceText("", "x", false, true), "abc", "abc"},
	}
	for _, tc := range testCases {
		if got := tc.b.Build(tc.input); got != tc.expected {
			t.Errorf("%s on %q: expected %q, got %q", tc.b.Describe(), tc.input, tc.expected, got)
		}
	}
}

func TestNumberSequenceAndReset(t *testing.T) {
	n := NewNumber(Rightmost, 1, 1, 3, "", "")
	var got []string
	for i := 0; i < 3; i++ {
		got = append(got, n.Build(""))
	}
	if strings.Join(got, ",") != "001,002,003" {
		t.Errorf("expected 001,002,003, got %v", got)
	}
	n.Reset()
	if s := n.Build("a"); s != "a001" {
		t.Errorf("after Reset: expected a001, got %q", s)
	}

	neg := NewNumber(Rightmost, -5, 1, 3, "", "")
	if s := neg.Build(""); s != "-05" {
		t.Errorf("negative counter: expected -05, got %q", s)
	}

	p := NewNumber(0, 10, -5, 0, "(", ")")
	if s := p.Build("x"); s != "(10)x" {
		t.Errorf("expected (10)x, got %q", s)
	}
	if s := p.Build("x"); s != "(5)x" {
		t.Errorf("expected (5)x, got %q", s)
	}
}

func TestFileHash(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(path, []byte("abc"), 0644); err != nil {
		t.Fatal(err)
	}
	testCases := []struct {
		alg      HashAlgorithm
		expected string
	}{
		{HashMD5, "900150983cd24fb0d6963f7d28e17f72"},
		{HashSHA1, "a9993e364706816aba3e25717850c26c9cd0d89d"},
		{HashSHA256, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
		{HashSHA3256, "3a985da74fe225b2045c172d6bd390bd855f086e3e9d525b46bfe24511431532"},
	}
	for _, tc := range testCases {
		info := &fakeInfo{path: path}
		b := NewFileHash(tc.alg, Rightmost)
		b.SetFileInfo(info)
		if got := b.Build("h_"); got != "h_"+tc.expected {
			t.Errorf("FileHash(%s): expected %q, got %q", tc.alg, "h_"+tc.expected, got)
		}
		if info.HashHex(tc.alg) != tc.expected {
			t.Errorf("FileHash(%s): digest not cached", tc.alg)
		}
	}

	// A cached digest is used without touching the file
	info := &fakeInfo{path: filepath.Join(dir, "gone"), hashes: map[HashAlgorithm]string{HashMD5: "cafe"}}
	b := NewFileHash(HashMD5, Leftmost)
	b.SetFileInfo(info)
	if got := b.Build("x"); got != "cafex" {
		t.Errorf("cached: expected cafex, got %q", got)
	}

	// Unreadable files leave the name untouched
	b.SetFileInfo(&fakeInfo{path: filepath.Join(dir, "missing")})
	if got := b.Build("x"); got != "x" {
		t.Errorf("missing file: expected x, got %q", got)
	}
}

func TestDescribe(t *testing.T) {
	testCases := []struct {
		b        Builder
		expected string
	}{
		{NewOriginalName(Leftmost), "<< Original Name"},
		{NewOriginalName(Rightmost), "Original Name >>"},
		{NewOriginalName(-2), "__-2 Original Name"},
		{NewInsertText(3, "abc"), "__3 abc"},
		{NewInsertText(Leftmost, ""), "<< Insert Text"},
		{NewReplaceText("a", "b", true, false), "Replace a > b [RegExp:On][CaseInsensitive]"},
		{NewNumber(Rightmost, 7, 2, 3, "#", "_"), "Number #007_, inc 2 > pos:2147483647"},
		{NewFileHash(HashSHA3224, Rightmost), "SHA3-224 >>"},
		{NewImageHash(Leftmost), "<< Image Hash"},
	}
	for _, tc := range testCases {
		if got := tc.b.Describe(); got != tc.expected {
			t.Errorf("%s.Describe(): expected %q, got %q", tc.b.Kind(), tc.expected, got)
		}
	}
}

func TestNewAllKinds(t *testing.T) {
	for _, k := range Kinds {
		b, err := New(k)
		if err != nil {
			t.Fatalf("New(%s): %v", k, err)
		}
		if b.Kind() != k {
			t.Errorf("New(%s) returned kind %s", k, b.Kind())
		}
	}
	if _, err := New(Kind(KindCount)); err == nil {
		t.Error("expected error for unknown kind")
	}
}
