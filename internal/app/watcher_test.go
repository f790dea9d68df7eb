package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDirectoryWatcherNotifies(t *testing.T) {
	dir := t.TempDir()
	dw, err := NewDirectoryWatcher(50)
	if err != nil {
		t.Fatalf("NewDirectoryWatcher: %v", err)
	}
	defer dw.Close()
	dw.Sync([]string{dir + string(filepath.Separator)})

	if err := os.WriteFile(filepath.Join(dir, "new.txt"), nil, 0644); err != nil {
		t.Fatal(err)
	}
	select {
	case got := <-dw.Notify():
		if got != filepath.Clean(dir) {
			t.Errorf("expected %s, got %s", dir, got)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no notification for a created file")
	}
}

func TestDirectoryWatcherMute(t *testing.T) {
	dir := t.TempDir()
	dw, err := NewDirectoryWatcher(50)
	if err != nil {
		t.Fatalf("NewDirectoryWatcher: %v", err)
	}
	defer dw.Close()
	if err := dw.Watch(dir); err != nil {
		t.Fatal(err)
	}

	dw.Mute()
	if err := os.Rename(mustCreate(t, dir, "a"), filepath.Join(dir, "b")); err != nil {
		t.Fatal(err)
	}
	select {
	case got := <-dw.Notify():
		t.Errorf("muted watcher reported %s", got)
	case <-time.After(300 * time.Millisecond):
	}

	dw.Sync(nil)
	if len(dw.Watched()) != 0 {
		t.Errorf("Sync(nil) left %v", dw.Watched())
	}
}

func mustCreate(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, nil, 0644); err != nil {
		t.Fatal(err)
	}
	return p
}
