package ui

import (
	"github.com/dustin/go-humanize"

	"github.com/justyntemme/renamer/internal/path"
)

// Row is one entity as the table shows it.
type Row struct {
	Name    string
	NewName string
	State   path.State
	Status  string
	Dir     string
	Size    string
	IsDir   bool
}

// RowFor builds the row of e. Sizes come from a fresh Stat.
func RowFor(e *path.Entity) Row {
	r := Row{
		Name:    e.Name(),
		NewName: e.NewName(),
		State:   e.State(),
		Status:  e.StatusText(),
		Dir:     e.ParentPath(),
		IsDir:   e.IsDir(),
	}
	switch info, err := e.Stat(); {
	case err != nil:
		r.Size = "?"
	case e.IsDir():
		r.Size = "<DIR>"
	default:
		r.Size = humanize.Bytes(uint64(info.Size()))
	}
	return r
}

// Rows builds every row of root in display order.
func Rows(root *path.Root) []Row {
	entities := root.Entities()
	rows := make([]Row, len(entities))
	for i, e := range entities {
		rows[i] = RowFor(e)
	}
	return rows
}
