// Package path holds the entities under rename consideration, grouped by
// parent directory, together with their rename/undo state machine.
package path

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/justyntemme/renamer/internal/applog"
	"github.com/justyntemme/renamer/internal/builder"
	"github.com/justyntemme/renamer/internal/debug"
)

// State is the rename lifecycle of an entity.
type State int

const (
	Initial State = iota
	Ready
	SameNewName
	Success
	Failure
)

// String returns the short label shown in the state column.
func (s State) String() string {
	switch s {
	case Initial:
		return "Waiting"
	case Ready:
		return "Ready"
	case SameNewName:
		return "Same new name"
	case Success:
		return "Succeeded"
	case Failure:
		return "Failed"
	default:
		return "Unknown"
	}
}

// ErrorCode classifies a failed rename.
type ErrorCode int

const (
	NoError ErrorCode = iota
	AlreadyExist
	SourceNotFound
	Unknown
)

func (c ErrorCode) String() string {
	switch c {
	case NoError:
		return "NoError"
	case AlreadyExist:
		return "AlreadyExist"
	case SourceNotFound:
		return "SourceNotFound"
	default:
		return "Unknown"
	}
}

// DirID is the handle of the ParentDir that owns an entity.
type DirID int

// Entity is one file or directory under rename consideration.
// Name, IsDir and the parent never change after construction.
type Entity struct {
	mu sync.RWMutex

	isDir      bool
	name       string
	dir        DirID
	parentPath string // with trailing separator

	newName   string
	state     State
	errorCode ErrorCode

	hashes    map[builder.HashAlgorithm]string
	imageHash string

	log applog.Logger
}

func newEntity(dir *ParentDir, name string, isDir bool, log applog.Logger) *Entity {
	if log == nil {
		log = applog.Nop{}
	}
	return &Entity{
		isDir:      isDir,
		name:       name,
		dir:        dir.id,
		parentPath: dir.path,
		log:        log,
	}
}

func (e *Entity) IsDir() bool        { return e.isDir }
func (e *Entity) Name() string       { return e.name }
func (e *Entity) Dir() DirID         { return e.dir }
func (e *Entity) ParentPath() string { return e.parentPath }
func (e *Entity) FullPath() string   { return e.parentPath + e.name }

func (e *Entity) NewName() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.newName
}

// NewFullPath is the path the entity has (or will have) after renaming.
func (e *Entity) NewFullPath() string {
	return e.parentPath + e.NewName()
}

func (e *Entity) State() State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

func (e *Entity) ErrorCode() ErrorCode {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.errorCode
}

func (e *Entity) setState(s State) {
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()
}

// Suffix returns the text after the last '.', or "" when there is none.
func (e *Entity) Suffix() string {
	if i := strings.LastIndexByte(e.name, '.'); i >= 0 {
		return e.name[i+1:]
	}
	return ""
}

// CompleteBaseName returns the name without its last suffix.
func (e *Entity) CompleteBaseName() string {
	if i := strings.LastIndexByte(e.name, '.'); i >= 0 {
		return e.name[:i]
	}
	return e.name
}

// SetNewName stores the builder output. Files keep their original
// extension; directories take the text verbatim. State returns to Initial.
func (e *Entity) SetNewName(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.isDir {
		if i := strings.LastIndexByte(e.name, '.'); i >= 0 {
			text += e.name[i:]
		}
	}
	e.newName = text
	e.state = Initial
}

// CheckSelfNewName marks the entity Ready when it has a new name.
func (e *Entity) CheckSelfNewName() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.newName == "" {
		e.state = Initial
		return false
	}
	e.state = Ready
	return true
}

// CheckForNewNameCollisions compares the new names of e and other. Equal
// names flag both as SameNewName; otherwise any Initial entity is promoted.
func (e *Entity) CheckForNewNameCollisions(other *Entity) bool {
	if e.isDir && e.NewName() == "" {
		e.setState(Initial)
		return false
	}
	if e == other {
		return e.CheckSelfNewName()
	}
	if e.NewName() == other.NewName() {
		e.setState(SameNewName)
		other.setState(SameNewName)
		return false
	}
	e.promote()
	other.promote()
	return true
}

func (e *Entity) promote() {
	e.mu.Lock()
	if e.state == Initial {
		e.state = Ready
	}
	e.mu.Unlock()
}

// Rename moves the entity to its new name inside its parent directory.
// An entity that already succeeded is left alone; one that is not Ready
// is refused.
func (e *Entity) Rename() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch e.state {
	case Success:
		return true
	case Ready:
	default:
		return false
	}

	err := renameNoReplace(e.parentPath, e.name, e.newName)
	e.logResult(applog.CategoryRename, e.name, e.newName, err)
	if err != nil {
		e.state = Failure
		e.errorCode = findErrorCause(e.parentPath+e.name, e.parentPath+e.newName)
		debug.Log(debug.PATH, "Rename %s: %v (%s)", e.name, err, e.errorCode)
		return false
	}
	e.state = Success
	e.errorCode = NoError
	return true
}

// UndoRename reverses a successful rename. A failed entity is simply made
// Ready again since nothing changed on disk.
func (e *Entity) UndoRename() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch e.state {
	case Failure:
		e.state = Ready
		e.errorCode = NoError
		return true
	case Success:
	default:
		return false
	}

	err := renameNoReplace(e.parentPath, e.newName, e.name)
	e.logResult(applog.CategoryUndo, e.newName, e.name, err)
	if err != nil {
		debug.Log(debug.PATH, "Undo %s: %v", e.newName, err)
		return false
	}
	e.state = Ready
	return true
}

func (e *Entity) logResult(category, from, to string, err error) {
	result := "SUCCEEDED"
	if err != nil {
		result = "---FAILED"
	}
	dir := strings.TrimSuffix(e.parentPath, string(filepath.Separator))
	e.log.Log(fmt.Sprintf("%s - %s/%s -> %s", result, dir, from, to), category)
}

// StateText is the label for the current state.
func (e *Entity) StateText() string {
	return e.State().String()
}

// StatusText describes the entity for status bars and tooltips.
func (e *Entity) StatusText() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	switch e.state {
	case Initial:
		return e.parentPath + e.name
	case Ready:
		return fmt.Sprintf("%s%s -> %s", e.parentPath, e.name, e.newName)
	case SameNewName:
		return fmt.Sprintf("New name %s is duplicated.", e.newName)
	case Success:
		return fmt.Sprintf("New path: %s%s", e.parentPath, e.newName)
	case Failure:
		switch e.errorCode {
		case AlreadyExist:
			return fmt.Sprintf("%s%s already exists.", e.parentPath, e.newName)
		case SourceNotFound:
			return fmt.Sprintf("%s%s does not exist.", e.parentPath, e.name)
		case Unknown:
			return "Unknown error occurred. Please confirm that file is not opened."
		}
	}
	return ""
}

// HashHex returns the cached digest for alg, or "".
func (e *Entity) HashHex(alg builder.HashAlgorithm) string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.hashes[alg]
}

func (e *Entity) SetHashHex(alg builder.HashAlgorithm, hex string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.hashes == nil {
		e.hashes = make(map[builder.HashAlgorithm]string)
	}
	e.hashes[alg] = hex
}

func (e *Entity) ImageHash() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.imageHash
}

func (e *Entity) SetImageHash(hash string) {
	e.mu.Lock()
	e.imageHash = hash
	e.mu.Unlock()
}

// Stat returns file information for the entity's current location.
func (e *Entity) Stat() (os.FileInfo, error) {
	if e.State() == Success {
		return os.Stat(e.NewFullPath())
	}
	return os.Stat(e.FullPath())
}
