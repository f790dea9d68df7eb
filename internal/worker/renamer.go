package worker

import (
	"context"

	"github.com/justyntemme/renamer/internal/debug"
	"github.com/justyntemme/renamer/internal/path"
)

// Renamer applies Rename to every entity in order.
type Renamer struct {
	runner
}

func NewRenamer(root *path.Root, emit Emit) *Renamer {
	return &Renamer{runner: newRunner(Rename, root, emit)}
}

// Start begins a rename pass. A previous pass of this worker is joined first.
func (r *Renamer) Start() {
	r.start(func(ctx context.Context, entities []*path.Entity) {
		apply(ctx, &r.runner, entities, (*path.Entity).Rename)
	})
}

// Undoer applies UndoRename to every entity in order.
type Undoer struct {
	runner
}

func NewUndoer(root *path.Root, emit Emit) *Undoer {
	return &Undoer{runner: newRunner(Undo, root, emit)}
}

// Start begins an undo pass. A previous pass of this worker is joined first.
func (u *Undoer) Start() {
	u.start(func(ctx context.Context, entities []*path.Entity) {
		apply(ctx, &u.runner, entities, (*path.Entity).UndoRename)
	})
}

func apply(ctx context.Context, r *runner, entities []*path.Entity, op func(*path.Entity) bool) {
	for i, e := range entities {
		if ctx.Err() != nil {
			debug.Log(debug.WORKER, "%s: stopped at %d", r.kind, i)
			r.send(Event{Type: Stopped, Index: i})
			return
		}
		before := e.State()
		ok := op(e)
		r.send(Event{Type: Renamed, Index: i, OK: ok, Prev: before, Changed: e.State() != before})
	}
	debug.Log(debug.WORKER, "%s: completed %d", r.kind, len(entities))
	r.send(Event{Type: Completed})
}
