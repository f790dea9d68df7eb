// Package worker runs the background passes over the entity collection:
// name generation, renaming and undoing. Each pass runs in its own
// goroutine, reports through an Emit callback and stops cooperatively.
package worker

import (
	"context"
	"sync"

	"github.com/justyntemme/renamer/internal/debug"
	"github.com/justyntemme/renamer/internal/path"
)

// Kind identifies which pass produced an event.
type Kind int

const (
	Generate Kind = iota
	Rename
	Undo
)

func (k Kind) String() string {
	switch k {
	case Generate:
		return "generate"
	case Rename:
		return "rename"
	case Undo:
		return "undo"
	default:
		return "unknown"
	}
}

// EventType is what happened.
type EventType int

const (
	NameCreated       EventType = iota // Index has a new name
	CollisionDetected                  // Index and Other share a new name
	Renamed                            // Index was renamed or restored
	Completed                          // pass finished every entity
	Stopped                            // pass was cancelled
)

func (t EventType) String() string {
	switch t {
	case NameCreated:
		return "NameCreated"
	case CollisionDetected:
		return "CollisionDetected"
	case Renamed:
		return "Renamed"
	case Completed:
		return "Completed"
	case Stopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// Event is one notification from a pass. Per-item events are emitted in
// processing order; Completed or Stopped is always last.
type Event struct {
	Worker Kind
	Type   EventType
	Index  int
	Other  int

	// Renamed: OK is the result, Prev the state before the attempt and
	// Changed is true when the state moved
	OK      bool
	Prev    path.State
	Changed bool

	// Completed (Generate): number of entities flagged SameNewName
	Collisions int
}

// Emit receives events. It must not block for long.
type Emit func(Event)

// runner owns one goroutine at a time and its cancel func.
type runner struct {
	kind Kind
	root *path.Root
	emit Emit

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func newRunner(kind Kind, root *path.Root, emit Emit) runner {
	if emit == nil {
		emit = func(Event) {}
	}
	return runner{kind: kind, root: root, emit: emit}
}

// start stops any previous run of this runner and launches fn.
func (r *runner) start(fn func(ctx context.Context, entities []*path.Entity)) {
	r.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	entities := r.root.Entities()

	r.mu.Lock()
	r.cancel = cancel
	r.done = done
	r.mu.Unlock()

	debug.Log(debug.WORKER, "%s: start over %d entities", r.kind, len(entities))
	go func() {
		defer close(done)
		defer cancel()
		fn(ctx, entities)
	}()
}

// Stop requests cancellation and waits for the goroutine to exit.
func (r *runner) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
	debug.Log(debug.WORKER, "%s: joined", r.kind)
}

// Wait blocks until the current run, if any, finishes on its own.
func (r *runner) Wait() {
	r.mu.Lock()
	done := r.done
	r.mu.Unlock()
	if done != nil {
		<-done
	}
}

// IsRunning reports whether a run is in progress.
func (r *runner) IsRunning() bool {
	r.mu.Lock()
	done := r.done
	r.mu.Unlock()
	if done == nil {
		return false
	}
	select {
	case <-done:
		return false
	default:
		return true
	}
}

func (r *runner) send(ev Event) {
	ev.Worker = r.kind
	r.emit(ev)
}
