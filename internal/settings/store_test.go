package settings

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/justyntemme/renamer/internal/builder"
)

func TestStoreGroups(t *testing.T) {
	s := NewStore()
	s.SetValue("Top", "1")
	s.BeginGroup("SettingsList")
	s.SetValue("Types", "1")
	s.BeginGroup("0")
	s.BeginGroup("InsertText")
	s.SetValue("Text", "x")
	s.EndGroup()
	s.EndGroup()
	s.EndGroup()

	expected := `SettingsList/0/InsertText/Text,SettingsList/Types,Top`
	if got := strings.Join(s.Keys(), ","); got != expected {
		t.Errorf("keys: expected %s, got %s", expected, got)
	}

	s.BeginGroup("SettingsList")
	if v, ok := s.Value(`0\InsertText\Text`); !ok || v != "x" {
		t.Errorf("nested value: got %q, %v", v, ok)
	}
	s.Remove("0")
	if _, ok := s.Value(`0\InsertText\Text`); ok {
		t.Error("Remove(0) kept the nested key")
	}
	if _, ok := s.Value("Types"); !ok {
		t.Error("Remove(0) dropped a sibling key")
	}
	s.EndGroup()

	s.Remove("SettingsList")
	if _, ok := s.Value("SettingsList"); ok {
		t.Error("section survived Remove")
	}
}

func TestStoreReadsExistingFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "Photos.ini")
	content := "[SettingsList]\n" +
		"Types=1, 3\n" +
		"0\\InsertText\\Position=0\n" +
		"0\\InsertText\\Text=IMG_\n" +
		"1\\Number\\Position=2147483647\n" +
		"1\\Number\\Start=1\n" +
		"1\\Number\\Step=1\n" +
		"1\\Number\\Digit=3\n"
	if err := os.WriteFile(file, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Open(file)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	c, err := s.LoadChain()
	if err != nil {
		t.Fatalf("LoadChain: %v", err)
	}
	c.Reset()
	if got := c.Build(); got != "IMG_001" {
		t.Errorf("expected IMG_001, got %q", got)
	}
}

func TestStoreSaveChain(t *testing.T) {
	file := filepath.Join(t.TempDir(), "nested", "chain.ini")
	s, err := Open(file)
	if err != nil {
		t.Fatalf("Open missing file: %v", err)
	}
	s.SaveChain(builder.NewChain(
		builder.NewInsertText(-2, "x"),
		builder.NewReplaceText(`\d+`, "a,b", true, true),
	))
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	for _, line := range []string{
		"[SettingsList]",
		`Types=@Variant(\0\0\0\x7f\0\0\0\vQList<int>\0\0\0\0\x2\0\0\0\x1\0\0\0\x2)`,
		`0\InsertText\Position=-2`,
		`1\ReplaceText\Find=\\d+`,
		`1\ReplaceText\Replace="a,b"`,
	} {
		if !strings.Contains(string(data), line) {
			t.Errorf("saved file lacks %q:\n%s", line, data)
		}
	}

	reopened, err := Open(file)
	if err != nil {
		t.Fatal(err)
	}
	c, err := reopened.LoadChain()
	if err != nil {
		t.Fatalf("LoadChain: %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 builders, got %d", c.Len())
	}
	if got := c.Builders()[0].(*builder.InsertText).Pos; got != -2 {
		t.Errorf("position: got %d", got)
	}
	r := c.Builders()[1].(*builder.ReplaceText)
	if r.Find != `\d+` || r.Replace != "a,b" {
		t.Errorf("replace fields: got find %q replace %q", r.Find, r.Replace)
	}
}

func TestStoreReadsQtWrittenChain(t *testing.T) {
	body := "[SettingsList]\n" +
		`0\InsertText\Position=0` + "\n" +
		`0\InsertText\Text=img12` + "\n" +
		`1\ReplaceText\CaseSensitive=true` + "\n" +
		`1\ReplaceText\Find=(\\d+)` + "\n" +
		`1\ReplaceText\Replace="<\\1>, "` + "\n" +
		`1\ReplaceText\UseRegExp=true` + "\n" +
		`2\InsertText\Position=-2147483648` + "\n" +
		`2\InsertText\Text=@@tag` + "\n"

	testCases := []struct {
		name  string
		types string
	}{
		{"terminated type name", `Types=@Variant(\0\0\0\x7f\0\0\0\vQList<int>\0\0\0\0\x3\0\0\0\x1\0\0\0\x2\0\0\0\x1)`},
		{"bare type name", `Types=@Variant(\0\0\0\x7f\0\0\0\nQList<int>\0\0\0\0\x3\0\0\0\x1\0\0\0\x2\0\0\0\x1)`},
		{"plain list", `Types=1, 2, 1`},
	}
	for _, tc := range testCases {
		file := filepath.Join(t.TempDir(), "qt.ini")
		if err := os.WriteFile(file, []byte(body+tc.types+"\n"), 0644); err != nil {
			t.Fatal(err)
		}
		s, err := Open(file)
		if err != nil {
			t.Fatalf("%s: Open: %v", tc.name, err)
		}
		c, err := s.LoadChain()
		if err != nil {
			t.Errorf("%s: LoadChain: %v", tc.name, err)
			continue
		}
		if got := c.Build(); got != "@tagimg<12>, " {
			t.Errorf("%s: expected %q, got %q", tc.name, "@tagimg<12>, ", got)
		}
	}
}

func TestStoreEscapedValuesSurviveSave(t *testing.T) {
	values := []string{
		`\d+`,
		"a,b;c=d",
		" padded ",
		"@literal",
		"tab\there",
		"quote\"inside",
		"`tick`",
		"\x01a",
		"日本語",
		"",
	}
	file := filepath.Join(t.TempDir(), "escaped.ini")
	s := NewStore()
	s.BeginGroup("Values")
	for i, v := range values {
		s.SetValue(strconv.Itoa(i), v)
	}
	s.EndGroup()
	if err := s.SaveTo(file); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	reopened, err := Open(file)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	reopened.BeginGroup("Values")
	defer reopened.EndGroup()
	for i, expected := range values {
		got, ok := reopened.Value(strconv.Itoa(i))
		if !ok || got != expected {
			t.Errorf("value %d: expected %q, got %q (found %v)", i, expected, got, ok)
		}
	}
}
