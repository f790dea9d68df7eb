// Package applog provides the application log shared by the rename pipeline.
// Records are kept in memory so they can be listed or dumped to disk later,
// and are mirrored to an optional zap logger as they arrive.
package applog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	// CategoryGeneral is used when a message is logged without a category.
	CategoryGeneral = "General"
	CategoryRename  = "Rename"
	CategoryUndo    = "Undo"

	// MaxLogFiles is how many WriteFile dumps are kept in a log directory.
	MaxLogFiles = 10

	fileTimeLayout = "2006-01-02 15-04-05"
	lineTimeLayout = "2006-01-02 15:04:05.000"
)

// Logger is the collaborator interface handed to components that log.
type Logger interface {
	Log(message, category string)
}

// Record is one log entry.
type Record struct {
	Time     time.Time
	Category string
	Content  string
}

// String formats the record as one log line.
func (r Record) String() string {
	return fmt.Sprintf("%s [%s] %s", r.Time.Format(lineTimeLayout), r.Category, r.Content)
}

// Log is a thread-safe append-only application log.
type Log struct {
	mu      sync.RWMutex
	records []Record
	sink    *zap.Logger
	now     func() time.Time
	keep    int
}

// New creates a log. sink may be nil.
func New(sink *zap.Logger) *Log {
	return &Log{sink: sink, now: time.Now, keep: MaxLogFiles}
}

// SetKeep changes how many WriteFile dumps are kept. n <= 0 restores the
// default.
func (l *Log) SetKeep(n int) {
	if n <= 0 {
		n = MaxLogFiles
	}
	l.mu.Lock()
	l.keep = n
	l.mu.Unlock()
}

// NewConsoleSink builds a zap logger writing human-readable lines to stderr.
func NewConsoleSink(level string) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.DisableCaller = true
	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, fmt.Errorf("parse log level %q: %w", level, err)
		}
		cfg.Level = lvl
	}
	return cfg.Build()
}

// Log appends a record. An empty category is stored as CategoryGeneral.
func (l *Log) Log(message, category string) {
	if category == "" {
		category = CategoryGeneral
	}
	rec := Record{Time: l.now(), Category: category, Content: message}

	l.mu.Lock()
	l.records = append(l.records, rec)
	l.mu.Unlock()

	if l.sink != nil {
		l.sink.Info(message, zap.String("category", category))
	}
}

// Records returns a copy of all records in insertion order.
func (l *Log) Records() []Record {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

// Len returns the number of records.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// Clear drops all records.
func (l *Log) Clear() {
	l.mu.Lock()
	l.records = nil
	l.mu.Unlock()
}

// WriteFile dumps every record to "<dir>/<appName> <timestamp>.log" and prunes
// older dumps so that at most MaxLogFiles (or SetKeep) remain. Returns the written path.
func (l *Log) WriteFile(dir, appName string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create log dir: %w", err)
	}
	name := fmt.Sprintf("%s %s.log", appName, l.now().Format(fileTimeLayout))
	path := filepath.Join(dir, name)
	if err := writeRecords(path, l.Records()); err != nil {
		return "", err
	}
	l.mu.RLock()
	keep := l.keep
	l.mu.RUnlock()
	if err := pruneLogFiles(dir, appName+" ", keep); err != nil {
		return path, err
	}
	return path, nil
}

// WriteCategory writes the records of one category to "<dir>/<category>.log".
func (l *Log) WriteCategory(dir, category string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create log dir: %w", err)
	}
	var recs []Record
	for _, r := range l.Records() {
		if r.Category == category {
			recs = append(recs, r)
		}
	}
	path := filepath.Join(dir, category+".log")
	return path, writeRecords(path, recs)
}

// Sync flushes the sink, if any.
func (l *Log) Sync() error {
	if l.sink == nil {
		return nil
	}
	return l.sink.Sync()
}

func writeRecords(path string, recs []Record) error {
	var b strings.Builder
	for _, r := range recs {
		b.WriteString(r.String())
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write log %s: %w", path, err)
	}
	return nil
}

// pruneLogFiles removes the oldest "<prefix>*.log" files beyond keep.
// The timestamp in the name sorts chronologically.
func pruneLogFiles(dir, prefix string, keep int) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("list log dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		n := e.Name()
		if !e.IsDir() && strings.HasPrefix(n, prefix) && strings.HasSuffix(n, ".log") {
			names = append(names, n)
		}
	}
	if len(names) <= keep {
		return nil
	}
	sort.Strings(names)
	for _, n := range names[:len(names)-keep] {
		if err := os.Remove(filepath.Join(dir, n)); err != nil {
			return fmt.Errorf("remove old log: %w", err)
		}
	}
	return nil
}

// Nop discards everything.
type Nop struct{}

func (Nop) Log(string, string) {}
