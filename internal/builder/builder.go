// Package builder implements the name builders that compose a new file name
// and the chains that run them in order.
package builder

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies a builder type. The numeric values are persisted in
// settings files and must not change.
type Kind int

const (
	KindOriginalName Kind = iota
	KindInsertText
	KindReplaceText
	KindNumber
	KindFileHash
	KindImageHash
)

// KindCount is the number of builder kinds.
const KindCount = 6

// Kinds lists every builder kind in code order.
var Kinds = []Kind{KindOriginalName, KindInsertText, KindReplaceText, KindNumber, KindFileHash, KindImageHash}

// String returns the title shown in builder lists.
func (k Kind) String() string {
	switch k {
	case KindOriginalName:
		return "Original Name"
	case KindInsertText:
		return "Insert Text"
	case KindReplaceText:
		return "Replace Text"
	case KindNumber:
		return "Number"
	case KindFileHash:
		return "File Hash"
	case KindImageHash:
		return "Image Hash"
	default:
		return "Unknown"
	}
}

// Builder is one step of a chain. Build receives the string produced by the
// previous builders and returns the transformed string.
type Builder interface {
	Kind() Kind
	Build(result string) string
	// Reset restores per-batch state. Stateless builders do nothing.
	Reset()
	Describe() string
	LoadSettings(s Settings)
	SaveSettings(s Settings)
	Clone() Builder
}

// FileInfo exposes the entity being renamed to builders that need it.
type FileInfo interface {
	IsDir() bool
	FullPath() string
	FileName() string
	// CompleteBaseName is the file name without its last suffix.
	CompleteBaseName() string
	Suffix() string
	HashHex(alg HashAlgorithm) string
	SetHashHex(alg HashAlgorithm, hex string)
	ImageHash() string
	SetImageHash(hash string)
}

// NeedsFileInfo is implemented by builders that read the current entity.
// A FileChain hands them the bound FileInfo right before they build.
type NeedsFileInfo interface {
	Builder
	SetFileInfo(info FileInfo)
}

// Settings is the hierarchical key/value store builders persist into.
// Groups nest: BeginGroup("a"); BeginGroup("b") addresses keys under "a/b".
type Settings interface {
	BeginGroup(name string)
	EndGroup()
	Value(key string) (string, bool)
	SetValue(key, value string)
	// Remove deletes a key, or a whole group when key names one.
	Remove(key string)
}

// IntListSettings is implemented by stores with a native integer list
// encoding. SaveChain and LoadChain use it for the kind list when present.
type IntListSettings interface {
	Settings
	IntList(key string) (values []int, ok bool, err error)
	SetIntList(key string, values []int)
}

// New creates a builder of the given kind with default fields.
func New(kind Kind) (Builder, error) {
	switch kind {
	case KindOriginalName:
		return NewOriginalName(0), nil
	case KindInsertText:
		return NewInsertText(0, ""), nil
	case KindReplaceText:
		return NewReplaceText("", "", false, true), nil
	case KindNumber:
		return NewNumber(0, 0, 1, 0, "", ""), nil
	case KindFileHash:
		return NewFileHash(HashMD5, 0), nil
	case KindImageHash:
		return NewImageHash(0), nil
	}
	return nil, fmt.Errorf("unknown builder kind %d", int(kind))
}

func intValue(s Settings, key string, def int) int {
	v, ok := s.Value(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return n
}

func boolValue(s Settings, key string, def bool) bool {
	v, ok := s.Value(key)
	if !ok {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1":
		return true
	case "false", "0":
		return false
	}
	return def
}

func stringValue(s Settings, key string) string {
	v, _ := s.Value(key)
	return v
}
