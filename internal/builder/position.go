package builder

import (
	"math"
	"strconv"
	"unicode/utf8"
)

// Position is an insertion point. Leftmost and Rightmost pin to the ends of
// the string, negative values count back from the end.
type Position int

const (
	Leftmost  Position = math.MinInt32
	Rightmost Position = math.MaxInt32
)

// Resolve maps the position onto a string of length runes.
func (p Position) Resolve(length int) int {
	switch {
	case p == Leftmost:
		return 0
	case p == Rightmost:
		return length
	case p < 0:
		return max(0, length+int(p))
	default:
		return min(int(p), length)
	}
}

func (p Position) IsLeftmost() bool  { return p == Leftmost }
func (p Position) IsRightmost() bool { return p == Rightmost }

// label wraps title the way the chain view shows insert builders.
func (p Position) label(title string) string {
	switch {
	case p.IsLeftmost():
		return "<< " + title
	case p.IsRightmost():
		return title + " >>"
	default:
		return "__" + strconv.Itoa(int(p)) + " " + title
	}
}

// insertAt inserts text into s at the rune offset given by pos.
func insertAt(s string, pos Position, text string) string {
	if text == "" {
		return s
	}
	idx := pos.Resolve(utf8.RuneCountInString(s))
	byteIdx := len(s)
	n := 0
	for i := range s {
		if n == idx {
			byteIdx = i
			break
		}
		n++
	}
	return s[:byteIdx] + text + s[byteIdx:]
}

// insertBase carries the Position shared by insert builders.
type insertBase struct {
	Pos Position
}

func (b *insertBase) Position() Position     { return b.Pos }
func (b *insertBase) SetPosition(p Position) { b.Pos = p }

func (b *insertBase) loadPosition(s Settings) {
	b.Pos = Position(intValue(s, keyPosition, 0))
}

func (b *insertBase) savePosition(s Settings) {
	s.SetValue(keyPosition, strconv.Itoa(int(b.Pos)))
}
