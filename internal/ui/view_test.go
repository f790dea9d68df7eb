package ui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/justyntemme/renamer/internal/app"
	"github.com/justyntemme/renamer/internal/builder"
	"github.com/justyntemme/renamer/internal/fs"
	"github.com/justyntemme/renamer/internal/path"
)

func keyPress(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// pump feeds model events to v until one of type until is handled.
func pump(t *testing.T, m *app.Model, v *View, until app.EventType) {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev := <-m.Events():
			v.Update(eventMsg(ev))
			if ev.Type == until {
				return
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %s", until)
		}
	}
}

func TestViewRenameFlow(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, n := range []string{"one.txt", "two.txt"} {
		p := filepath.Join(dir, n)
		if err := os.WriteFile(p, []byte("data"), 0644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, p)
	}

	m, err := app.NewModel(nil, app.Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	chain := builder.NewChain(
		builder.NewOriginalName(builder.Leftmost),
		builder.NewInsertText(builder.Rightmost, "_x"),
	)
	v := NewView(m, chain, Options{Dark: true})

	v.Update(keyPress("r"))
	if m.IsRenaming() {
		t.Fatal("rename started in the initial state")
	}

	if err := m.AddPaths(fs.Analyze(paths, fs.Options{})); err != nil {
		t.Fatal(err)
	}
	// InternalDataChanged triggers a fresh preview
	pump(t, m, v, app.ReadyToRename)
	if v.State() != StateReady {
		t.Fatalf("expected ready, got %s", v.State())
	}
	if v.rows[0].NewName != "one_x.txt" {
		t.Errorf("preview: got %q", v.rows[0].NewName)
	}
	if v.rows[0].Size != "4 B" {
		t.Errorf("size: got %q", v.rows[0].Size)
	}

	v.Update(keyPress("r"))
	pump(t, m, v, app.RenameFinished)
	if v.State() != StateFinished {
		t.Fatalf("expected finished, got %s", v.State())
	}
	for _, r := range v.rows {
		if r.State != path.Success {
			t.Errorf("%s: expected success, got %s", r.Name, r.State)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "two_x.txt")); err != nil {
		t.Errorf("renamed file missing: %v", err)
	}

	// Clearing is disabled once renamed
	v.Update(keyPress("c"))
	if m.Root().Len() != 2 {
		t.Error("clear ran in the finished state")
	}

	if out := v.View(); !strings.Contains(out, "one_x.txt") {
		t.Errorf("view lacks the new name:\n%s", out)
	}
}
