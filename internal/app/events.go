package app

// EventType is a model notification.
type EventType int

const (
	ItemCountChanged    EventType = iota // Count holds the new total
	ItemCleared                          // the collection is empty
	InternalDataChanged                  // rows were added, removed, moved or sorted
	NameCreated                          // Index has a new name
	CollisionDetected                    // Index and Other share a new name
	StateChanged                         // Index was renamed or restored
	ReadyToRename                        // generation or undo completed
	RenameStarted
	RenameStopped
	RenameFinished
	UndoStarted
	SortingBroken  // a manual move invalidated the sort indicator
	ExternalChange // Dir changed on disk outside a rename pass
)

var eventNames = [...]string{
	"ItemCountChanged",
	"ItemCleared",
	"InternalDataChanged",
	"NameCreated",
	"CollisionDetected",
	"StateChanged",
	"ReadyToRename",
	"RenameStarted",
	"RenameStopped",
	"RenameFinished",
	"UndoStarted",
	"SortingBroken",
	"ExternalChange",
}

func (t EventType) String() string {
	if t < 0 || int(t) >= len(eventNames) {
		return "Unknown"
	}
	return eventNames[t]
}

// Event is one model notification.
type Event struct {
	Type       EventType
	Index      int
	Other      int
	Count      int
	Collisions int
	Dir        string
}
