package worker

import (
	"context"

	"github.com/justyntemme/renamer/internal/builder"
	"github.com/justyntemme/renamer/internal/debug"
	"github.com/justyntemme/renamer/internal/path"
)

// Generator builds a new name for every entity and flags duplicates.
type Generator struct {
	runner
}

func NewGenerator(root *path.Root, emit Emit) *Generator {
	return &Generator{runner: newRunner(Generate, root, emit)}
}

// Start runs chain over the current entities. A previous generation run is
// stopped and joined first. The chain must not be used elsewhere until the
// run ends.
func (g *Generator) Start(chain *builder.Chain) {
	fc := builder.NewFileChain(chain)
	g.start(func(ctx context.Context, entities []*path.Entity) {
		g.run(ctx, fc, entities)
	})
}

func (g *Generator) run(ctx context.Context, fc *builder.FileChain, entities []*path.Entity) {
	fc.Reset()
	for i, e := range entities {
		if ctx.Err() != nil {
			debug.Log(debug.WORKER, "generate: stopped at %d", i)
			g.send(Event{Type: Stopped, Index: i})
			return
		}
		e.SetNewName(fc.BuildFor(e.Info()))
		g.send(Event{Type: NameCreated, Index: i})
	}

	collisions, ok := g.checkNewNames(ctx, entities)
	if !ok {
		g.send(Event{Type: Stopped, Index: len(entities)})
		return
	}
	if len(entities) > 0 {
		debug.Log(debug.WORKER, "generate: done, %d collisions", collisions)
		g.send(Event{Type: Completed, Collisions: collisions})
	}
}

type collisionKey struct {
	dir  path.DirID
	name string
}

// checkNewNames groups entities by directory and new name. Every member of
// a group with more than one entity is flagged SameNewName; the rest are
// validated on their own. Returns false when cancelled.
func (g *Generator) checkNewNames(ctx context.Context, entities []*path.Entity) (int, bool) {
	groups := make(map[collisionKey][]int)
	var order []collisionKey
	for i, e := range entities {
		name := e.NewName()
		if name == "" {
			e.CheckSelfNewName()
			continue
		}
		key := collisionKey{dir: e.Dir(), name: name}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], i)
	}

	collisions := 0
	for _, key := range order {
		if ctx.Err() != nil {
			return collisions, false
		}
		idx := groups[key]
		if len(idx) == 1 {
			entities[idx[0]].CheckSelfNewName()
			continue
		}
		first := entities[idx[0]]
		for _, j := range idx[1:] {
			first.CheckForNewNameCollisions(entities[j])
			g.send(Event{Type: CollisionDetected, Index: idx[0], Other: j})
		}
		collisions += len(idx)
	}
	return collisions, true
}
