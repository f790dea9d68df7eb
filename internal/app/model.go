// Package app ties the entity collection to its background workers. Model
// is the single owner of the Root: every mutation and every worker start
// goes through it, and everything that happens is published on one
// ordered event stream.
package app

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/justyntemme/renamer/internal/applog"
	"github.com/justyntemme/renamer/internal/builder"
	"github.com/justyntemme/renamer/internal/debug"
	"github.com/justyntemme/renamer/internal/fs"
	"github.com/justyntemme/renamer/internal/path"
	"github.com/justyntemme/renamer/internal/store"
	"github.com/justyntemme/renamer/internal/worker"
)

// ErrBusy is returned while a rename or undo pass is running.
var ErrBusy = errors.New("rename in progress")

// Journal records rename and undo outcomes.
type Journal interface {
	Record(e store.Entry)
}

// Options configures a Model. The zero value has no journal and no watcher.
type Options struct {
	Journal    Journal
	Watch      bool
	DebounceMS int
}

// Model owns the entities and the generate, rename and undo workers.
type Model struct {
	root      *path.Root
	log       applog.Logger
	generator *worker.Generator
	renamer   *worker.Renamer
	undoer    *worker.Undoer
	journal   Journal
	watcher   *DirectoryWatcher

	op sync.Mutex // serialises operations; never taken by worker callbacks

	mu     sync.Mutex
	batch  string
	queue  []Event
	closed bool
	wake   chan struct{}
	events chan Event
	done   chan struct{}
}

// NewModel creates a model. log receives per-entity rename outcomes.
func NewModel(log applog.Logger, opts Options) (*Model, error) {
	if log == nil {
		log = applog.Nop{}
	}
	m := &Model{
		root:    path.NewRoot(log),
		log:     log,
		journal: opts.Journal,
		wake:    make(chan struct{}, 1),
		events:  make(chan Event, 64),
		done:    make(chan struct{}),
	}
	m.generator = worker.NewGenerator(m.root, m.onWorkerEvent)
	m.renamer = worker.NewRenamer(m.root, m.onWorkerEvent)
	m.undoer = worker.NewUndoer(m.root, m.onWorkerEvent)

	if opts.Watch {
		w, err := NewDirectoryWatcher(opts.DebounceMS)
		if err != nil {
			return nil, fmt.Errorf("start directory watcher: %w", err)
		}
		m.watcher = w
		go m.forwardChanges()
	}
	go m.dispatch()
	return m, nil
}

// Root exposes the collection for reading. Mutate it only through Model.
func (m *Model) Root() *path.Root { return m.root }

// Events delivers model events in order. It is closed by Close.
func (m *Model) Events() <-chan Event { return m.events }

// post queues ev without blocking.
func (m *Model) post(ev Event) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.queue = append(m.queue, ev)
	m.mu.Unlock()
	select {
	case m.wake <- struct{}{}:
	default:
	}
}

func (m *Model) dispatch() {
	defer close(m.events)
	for {
		select {
		case <-m.done:
			return
		case <-m.wake:
		}
		m.mu.Lock()
		pending := m.queue
		m.queue = nil
		m.mu.Unlock()
		for _, ev := range pending {
			select {
			case m.events <- ev:
			case <-m.done:
				return
			}
		}
	}
}

func (m *Model) forwardChanges() {
	for {
		select {
		case <-m.done:
			return
		case dir := <-m.watcher.Notify():
			m.post(Event{Type: ExternalChange, Dir: dir + string(filepath.Separator)})
		}
	}
}

func (m *Model) onWorkerEvent(ev worker.Event) {
	switch ev.Type {
	case worker.NameCreated:
		m.post(Event{Type: NameCreated, Index: ev.Index})
	case worker.CollisionDetected:
		m.post(Event{Type: CollisionDetected, Index: ev.Index, Other: ev.Other})
	case worker.Renamed:
		m.record(ev)
		m.post(Event{Type: StateChanged, Index: ev.Index})
	case worker.Completed:
		switch ev.Worker {
		case worker.Generate:
			m.post(Event{Type: ReadyToRename, Collisions: ev.Collisions})
		case worker.Rename:
			m.unmute()
			m.post(Event{Type: RenameFinished})
		case worker.Undo:
			m.unmute()
			m.post(Event{Type: ReadyToRename})
		}
	case worker.Stopped:
		if ev.Worker != worker.Generate {
			m.unmute()
			m.post(Event{Type: RenameStopped, Index: ev.Index})
		}
	}
}

// record journals attempts that touched the disk.
func (m *Model) record(ev worker.Event) {
	if m.journal == nil {
		return
	}
	e, err := m.root.Entity(ev.Index)
	if err != nil {
		return
	}
	m.mu.Lock()
	batch := m.batch
	m.mu.Unlock()

	entry := store.Entry{Batch: batch, Parent: e.ParentPath(), OK: ev.OK}
	switch {
	case ev.Worker == worker.Rename && ev.Prev == path.Ready:
		entry.Op, entry.From, entry.To = store.OpRename, e.Name(), e.NewName()
	case ev.Worker == worker.Undo && ev.Prev == path.Success:
		entry.Op, entry.From, entry.To = store.OpUndo, e.NewName(), e.Name()
	default:
		return
	}
	m.journal.Record(entry)
}

func (m *Model) unmute() {
	if m.watcher != nil {
		m.watcher.Unmute()
	}
}

func (m *Model) syncWatches() {
	if m.watcher != nil {
		m.watcher.Sync(m.root.DirPaths())
	}
}

// IsRenaming reports whether a rename or undo pass is running.
func (m *Model) IsRenaming() bool {
	return m.renamer.IsRunning() || m.undoer.IsRunning()
}

// IsGenerating reports whether new names are being built.
func (m *Model) IsGenerating() bool {
	return m.generator.IsRunning()
}

// beginMutation stops name generation so the collection can change.
func (m *Model) beginMutation() error {
	if m.IsRenaming() {
		return ErrBusy
	}
	m.generator.Stop()
	return nil
}

// AddPaths adds the analysed paths.
func (m *Model) AddPaths(res fs.Result) error {
	m.op.Lock()
	defer m.op.Unlock()
	if err := m.beginMutation(); err != nil {
		return err
	}
	if res.Empty() {
		return nil
	}
	m.root.AddDirectories(res.Dirs)
	m.root.AddFiles(res.Files)
	debug.Log(debug.APP, "AddPaths: %d new, %d total", res.Count(), m.root.Len())
	m.syncWatches()
	m.post(Event{Type: ItemCountChanged, Count: m.root.Len()})
	m.post(Event{Type: InternalDataChanged})
	return nil
}

// Remove deletes the entities at rows.
func (m *Model) Remove(rows []int) error {
	m.op.Lock()
	defer m.op.Unlock()
	if err := m.beginMutation(); err != nil {
		return err
	}
	if err := m.root.RemoveRows(rows); err != nil {
		return err
	}
	m.syncWatches()
	n := m.root.Len()
	m.post(Event{Type: ItemCountChanged, Count: n})
	if n == 0 {
		m.post(Event{Type: ItemCleared})
	} else {
		m.post(Event{Type: InternalDataChanged})
	}
	return nil
}

// Clear removes every entity.
func (m *Model) Clear() error {
	m.op.Lock()
	defer m.op.Unlock()
	if err := m.beginMutation(); err != nil {
		return err
	}
	m.root.Clear()
	m.syncWatches()
	m.post(Event{Type: ItemCountChanged})
	m.post(Event{Type: ItemCleared})
	return nil
}

// Move reorders rows inside one directory and returns the new row of the
// first moved entity.
func (m *Model) Move(rows []int, targetRow int) (int, error) {
	m.op.Lock()
	defer m.op.Unlock()
	if err := m.beginMutation(); err != nil {
		return -1, err
	}
	row, err := m.root.Move(rows, targetRow)
	if err != nil {
		return -1, err
	}
	m.post(Event{Type: InternalDataChanged})
	m.post(Event{Type: SortingBroken})
	return row, nil
}

// SortKey selects the sort column.
type SortKey int

const (
	SortByName SortKey = iota
	SortByParentDir
)

// Sort orders the entities by key.
func (m *Model) Sort(key SortKey, order path.SortOrder) error {
	m.op.Lock()
	defer m.op.Unlock()
	if err := m.beginMutation(); err != nil {
		return err
	}
	switch key {
	case SortByParentDir:
		m.root.SortByParentDir(order)
	default:
		m.root.SortByEntityName(order)
	}
	m.post(Event{Type: InternalDataChanged})
	return nil
}

// StartGenerate builds new names with a copy of chain. A running
// generation is replaced.
func (m *Model) StartGenerate(chain *builder.Chain) error {
	m.op.Lock()
	defer m.op.Unlock()
	if m.IsRenaming() {
		return ErrBusy
	}
	m.generator.Start(chain.Clone())
	return nil
}

// StartRename renames every Ready entity.
func (m *Model) StartRename() (string, error) {
	return m.startPass(worker.Rename)
}

// StartUndo reverses the last rename pass.
func (m *Model) StartUndo() (string, error) {
	return m.startPass(worker.Undo)
}

func (m *Model) startPass(kind worker.Kind) (string, error) {
	m.op.Lock()
	defer m.op.Unlock()
	if m.IsRenaming() {
		return "", ErrBusy
	}
	m.generator.Stop()

	batch := store.NewBatchID()
	m.mu.Lock()
	m.batch = batch
	m.mu.Unlock()
	if m.watcher != nil {
		m.watcher.Mute()
	}

	debug.Log(debug.APP, "start %s batch %s", kind, batch)
	if kind == worker.Undo {
		m.post(Event{Type: UndoStarted})
		m.undoer.Start()
	} else {
		m.post(Event{Type: RenameStarted})
		m.renamer.Start()
	}
	return batch, nil
}

// Stop cancels every running worker and waits for them.
func (m *Model) Stop() {
	m.op.Lock()
	defer m.op.Unlock()
	m.generator.Stop()
	m.renamer.Stop()
	m.undoer.Stop()
}

// Wait blocks until running workers finish on their own.
func (m *Model) Wait() {
	m.generator.Wait()
	m.renamer.Wait()
	m.undoer.Wait()
}

// Close stops the workers and the watcher and closes Events.
func (m *Model) Close() {
	m.Stop()
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.mu.Unlock()
	close(m.done)
	if m.watcher != nil {
		m.watcher.Close()
	}
}
