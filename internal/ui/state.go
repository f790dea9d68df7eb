// Package ui adapts the model to a terminal: it turns entities into view
// rows, tracks which actions are allowed, and renders everything with
// bubbletea.
package ui

import "github.com/justyntemme/renamer/internal/app"

// State is the phase of the main window.
type State int

const (
	StateInitial  State = iota // nothing to rename yet
	StateReady                 // new names generated
	StateRenaming              // rename or undo running
	StateStopped               // a pass was cancelled
	StateFinished              // a rename pass completed
)

func (s State) String() string {
	switch s {
	case StateInitial:
		return "initial"
	case StateReady:
		return "ready"
	case StateRenaming:
		return "renaming"
	case StateStopped:
		return "stopped"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Actions lists which commands are enabled.
type Actions struct {
	Rename         bool
	Stop           bool
	Undo           bool
	Exit           bool
	ClearItems     bool
	ChangeSettings bool
}

var actionTable = map[State]Actions{
	StateInitial:  {Rename: false, Stop: false, Undo: false, Exit: true, ClearItems: true, ChangeSettings: true},
	StateReady:    {Rename: true, Stop: false, Undo: false, Exit: true, ClearItems: true, ChangeSettings: true},
	StateRenaming: {Rename: false, Stop: true, Undo: false, Exit: false, ClearItems: false, ChangeSettings: false},
	StateStopped:  {Rename: true, Stop: false, Undo: true, Exit: true, ClearItems: false, ChangeSettings: true},
	StateFinished: {Rename: false, Stop: false, Undo: true, Exit: true, ClearItems: false, ChangeSettings: true},
}

// ActionsFor returns the enabled commands in s.
func ActionsFor(s State) Actions {
	return actionTable[s]
}

// Next returns the state after ev.
func Next(s State, ev app.Event) State {
	switch ev.Type {
	case app.ReadyToRename:
		return StateReady
	case app.RenameStarted, app.UndoStarted:
		return StateRenaming
	case app.RenameStopped:
		return StateStopped
	case app.RenameFinished:
		return StateFinished
	case app.ItemCleared:
		return StateInitial
	case app.ItemCountChanged, app.InternalDataChanged, app.SortingBroken:
		// Names must be generated again for the new rows
		if s == StateRenaming {
			return s
		}
		return StateInitial
	}
	return s
}
