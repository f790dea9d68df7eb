package path

import "github.com/justyntemme/renamer/internal/builder"

// EntityInfo adapts an Entity to builder.FileInfo so builders can read the
// name and cache digests without touching the collection.
type EntityInfo struct {
	e *Entity
}

// Info returns the builder view of e.
func (e *Entity) Info() EntityInfo {
	return EntityInfo{e: e}
}

var _ builder.FileInfo = EntityInfo{}

func (i EntityInfo) IsDir() bool              { return i.e.IsDir() }
func (i EntityInfo) FullPath() string         { return i.e.FullPath() }
func (i EntityInfo) FileName() string         { return i.e.Name() }
func (i EntityInfo) CompleteBaseName() string { return i.e.CompleteBaseName() }
func (i EntityInfo) Suffix() string           { return i.e.Suffix() }
func (i EntityInfo) ImageHash() string        { return i.e.ImageHash() }
func (i EntityInfo) SetImageHash(h string)    { i.e.SetImageHash(h) }

func (i EntityInfo) HashHex(alg builder.HashAlgorithm) string {
	return i.e.HashHex(alg)
}

func (i EntityInfo) SetHashHex(alg builder.HashAlgorithm, hex string) {
	i.e.SetHashHex(alg, hex)
}
