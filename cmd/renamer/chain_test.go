package main

import (
	"path/filepath"
	"testing"

	"github.com/justyntemme/renamer/internal/builder"
	"github.com/justyntemme/renamer/internal/config"
)

func TestParsePosition(t *testing.T) {
	testCases := []struct {
		in       string
		expected builder.Position
		wantErr  bool
	}{
		{"start", builder.Leftmost, false},
		{"END", builder.Rightmost, false},
		{"3", 3, false},
		{"-2", -2, false},
		{"middle", 0, true},
	}
	for _, tc := range testCases {
		got, err := parsePosition(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("parsePosition(%q): unexpected error %v", tc.in, err)
			continue
		}
		if !tc.wantErr && got != tc.expected {
			t.Errorf("parsePosition(%q): expected %d, got %d", tc.in, tc.expected, got)
		}
	}
}

func TestChainFromFlags(t *testing.T) {
	insertText, insertAt = "IMG_", "start"
	numbering, numberAt, numberStart, numberStep, numberDigit = true, "end", 1, 1, 3
	hashAlg = "sha2-256"
	t.Cleanup(func() {
		insertText, insertAt = "", "end"
		numbering = false
		hashAlg = ""
	})

	c, err := chainFromFlags()
	if err != nil {
		t.Fatalf("chainFromFlags: %v", err)
	}
	expected := []builder.Kind{builder.KindOriginalName, builder.KindInsertText, builder.KindNumber, builder.KindFileHash}
	kinds := c.Kinds()
	if len(kinds) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, kinds)
	}
	for i := range expected {
		if kinds[i] != expected[i] {
			t.Errorf("builder %d: expected %s, got %s", i, expected[i], kinds[i])
		}
	}
	if alg := c.Builders()[3].(*builder.FileHash).Algorithm; alg != builder.HashSHA256 {
		t.Errorf("hash algorithm: got %s", alg)
	}
}

func TestSetConfigValue(t *testing.T) {
	m := config.NewManagerAt(filepath.Join(t.TempDir(), "config.json"))
	if err := m.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	testCases := []struct {
		key, value string
		wantErr    bool
	}{
		{"theme", "light", false},
		{"theme", "blue", true},
		{"expand", "true", false},
		{"hidden", "yes", true},
		{"hidden", "1", false},
		{"watch", "250", false},
		{"colour", "red", true},
	}
	for _, tc := range testCases {
		err := setConfigValue(m, tc.key, tc.value)
		if (err != nil) != tc.wantErr {
			t.Errorf("set %s=%s: unexpected error %v", tc.key, tc.value, err)
		}
	}

	cfg := m.Get()
	if cfg.UI.Theme != "light" || !cfg.Analyzer.ExpandDirectories || !cfg.Analyzer.ShowHidden {
		t.Errorf("unexpected config %+v", cfg)
	}
	if !cfg.Watch.Enabled || cfg.Watch.DebounceMS != 250 {
		t.Errorf("watch: expected enabled at 250ms, got %+v", cfg.Watch)
	}
}
