package store

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/justyntemme/renamer/internal/debug"
)

type EventType int

const (
	RecordEntry EventType = iota
	FetchBatches
	FetchEntries
	FetchSettings
	SaveSetting
)

// Operation names stored in the journal.
const (
	OpRename = "rename"
	OpUndo   = "undo"
)

// Entry is one rename or undo outcome.
type Entry struct {
	Batch  string
	Time   time.Time
	Op     string
	Parent string
	From   string
	To     string
	OK     bool
}

// Batch summarises the entries of one rename or undo run.
type Batch struct {
	ID      string
	Op      string
	Started time.Time
	Count   int
	Failed  int
}

type Request struct {
	Op    EventType
	Entry Entry
	Batch string
	Limit int
	Key   string
	Value string
}

type Response struct {
	Op       EventType
	Batches  []Batch
	Entries  []Entry
	Settings map[string]string // Key-value settings
	Err      error
}

type DB struct {
	conn         *sql.DB
	RequestChan  chan Request
	ResponseChan chan Response
	done         chan struct{}
	closeOnce    sync.Once
}

func NewDB() *DB {
	return &DB{
		RequestChan:  make(chan Request, 64),
		ResponseChan: make(chan Response, 10),
		done:         make(chan struct{}),
	}
}

// NewBatchID returns a fresh journal batch id.
func NewBatchID() string {
	return uuid.NewString()
}

// Open initializes the database connection and schema
func (d *DB) Open(dbPath string) error {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}

	// WAL lets the history command read while a rename is journaled
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return err
	}
	if _, err := db.Exec("PRAGMA synchronous=NORMAL;"); err != nil {
		db.Close()
		return err
	}

	journalQuery := `
	CREATE TABLE IF NOT EXISTS journal (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		batch TEXT NOT NULL,
		time INTEGER NOT NULL,
		op TEXT NOT NULL,
		parent TEXT NOT NULL,
		src TEXT NOT NULL,
		dst TEXT NOT NULL,
		ok INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS journal_batch ON journal(batch);
	`
	if _, err := db.Exec(journalQuery); err != nil {
		db.Close()
		return fmt.Errorf("create journal: %w", err)
	}

	settingsQuery := `
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	if _, err := db.Exec(settingsQuery); err != nil {
		db.Close()
		return fmt.Errorf("create settings: %w", err)
	}

	d.conn = db
	debug.Log(debug.STORE, "Open: %s", dbPath)
	return nil
}

// Start serves requests until Close. Run it in its own goroutine.
func (d *DB) Start() {
	defer close(d.done)
	for req := range d.RequestChan {
		switch req.Op {
		case RecordEntry:
			d.handleRecord(req.Entry)
		case FetchBatches:
			d.handleFetchBatches(req.Limit)
		case FetchEntries:
			d.handleFetchEntries(req.Batch)
		case FetchSettings:
			d.handleFetchSettings()
		case SaveSetting:
			d.handleSaveSetting(req.Key, req.Value)
		}
	}
}

// Record queues e for writing. It never waits for the write.
func (d *DB) Record(e Entry) {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	d.RequestChan <- Request{Op: RecordEntry, Entry: e}
}

func (d *DB) handleRecord(e Entry) {
	_, err := d.conn.Exec(
		"INSERT INTO journal (batch, time, op, parent, src, dst, ok) VALUES (?, ?, ?, ?, ?, ?, ?)",
		e.Batch, e.Time.UnixNano(), e.Op, e.Parent, e.From, e.To, e.OK)
	if err != nil {
		log.Printf("Store Error recording %s: %v", e.From, err)
		return
	}
	debug.Log(debug.STORE, "Record: %s %s%s -> %s ok=%v", e.Op, e.Parent, e.From, e.To, e.OK)
}

func (d *DB) handleFetchBatches(limit int) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := d.conn.Query(`
		SELECT batch, op, MIN(time), COUNT(*), SUM(CASE WHEN ok THEN 0 ELSE 1 END)
		FROM journal
		GROUP BY batch, op
		ORDER BY MIN(time) DESC, MIN(id) DESC
		LIMIT ?`, limit)
	if err != nil {
		d.ResponseChan <- Response{Op: FetchBatches, Err: err}
		return
	}
	defer rows.Close()

	var batches []Batch
	for rows.Next() {
		var b Batch
		var started int64
		if err := rows.Scan(&b.ID, &b.Op, &started, &b.Count, &b.Failed); err == nil {
			b.Started = time.Unix(0, started)
			batches = append(batches, b)
		}
	}
	d.ResponseChan <- Response{Op: FetchBatches, Batches: batches, Err: rows.Err()}
}

func (d *DB) handleFetchEntries(batch string) {
	rows, err := d.conn.Query(
		"SELECT batch, time, op, parent, src, dst, ok FROM journal WHERE batch = ? ORDER BY id ASC", batch)
	if err != nil {
		d.ResponseChan <- Response{Op: FetchEntries, Err: err}
		return
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var t int64
		if err := rows.Scan(&e.Batch, &t, &e.Op, &e.Parent, &e.From, &e.To, &e.OK); err == nil {
			e.Time = time.Unix(0, t)
			entries = append(entries, e)
		}
	}
	d.ResponseChan <- Response{Op: FetchEntries, Entries: entries, Err: rows.Err()}
}

func (d *DB) handleFetchSettings() {
	rows, err := d.conn.Query("SELECT key, value FROM settings")
	if err != nil {
		d.ResponseChan <- Response{Op: FetchSettings, Err: err}
		return
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err == nil {
			settings[key] = value
		}
	}

	d.ResponseChan <- Response{Op: FetchSettings, Settings: settings}
}

func (d *DB) handleSaveSetting(key, value string) {
	_, err := d.conn.Exec("INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)", key, value)
	if err != nil {
		log.Printf("Store Error saving setting: %v", err)
	}
	// Reply with the full set so callers stay in sync
	d.handleFetchSettings()
}

// Batches requests the latest batches and waits for the reply.
func (d *DB) Batches(limit int) ([]Batch, error) {
	d.RequestChan <- Request{Op: FetchBatches, Limit: limit}
	resp := <-d.ResponseChan
	return resp.Batches, resp.Err
}

// Entries requests the entries of one batch and waits for the reply.
func (d *DB) Entries(batch string) ([]Entry, error) {
	d.RequestChan <- Request{Op: FetchEntries, Batch: batch}
	resp := <-d.ResponseChan
	return resp.Entries, resp.Err
}

// Close drains pending requests, stops Start and closes the database.
// Start must have been launched.
func (d *DB) Close() {
	d.closeOnce.Do(func() {
		close(d.RequestChan)
		<-d.done
		if d.conn != nil {
			d.conn.Close()
		}
	})
}
