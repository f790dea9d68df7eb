package builder

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/justyntemme/renamer/internal/debug"
)

// Settings groups and keys, shared with files written by earlier releases.
const (
	groupOriginalName = "OriginalName"
	groupInsertText   = "InsertText"
	groupReplaceText  = "ReplaceText"
	groupNumber       = "Number"
	groupFileHash     = "FileHash"
	groupImageHash    = "ImageHash"

	keyPosition      = "Position"
	keyText          = "Text"
	keyFind          = "Find"
	keyReplace       = "Replace"
	keyUseRegExp     = "UseRegExp"
	keyCaseSensitive = "CaseSensitive"
	keyStart         = "Start"
	keyStep          = "Step"
	keyDigit         = "Digit"
	keyPrefix        = "Prefix"
	keySuffix        = "Suffix"
	keyAlgorithm     = "Algorithm"
)

// OriginalName inserts the entity's name without its suffix, or the full
// name for directories.
type OriginalName struct {
	insertBase
	info FileInfo
}

func NewOriginalName(pos Position) *OriginalName {
	return &OriginalName{insertBase: insertBase{Pos: pos}}
}

func (b *OriginalName) Kind() Kind                { return KindOriginalName }
func (b *OriginalName) Reset()                    {}
func (b *OriginalName) SetFileInfo(info FileInfo) { b.info = info }
func (b *OriginalName) Describe() string          { return b.Pos.label("Original Name") }

func (b *OriginalName) Build(result string) string {
	if b.info == nil {
		return result
	}
	name := b.info.CompleteBaseName()
	if b.info.IsDir() {
		name = b.info.FileName()
	}
	return insertAt(result, b.Pos, name)
}

func (b *OriginalName) LoadSettings(s Settings) {
	s.BeginGroup(groupOriginalName)
	b.loadPosition(s)
	s.EndGroup()
}

func (b *OriginalName) SaveSettings(s Settings) {
	s.BeginGroup(groupOriginalName)
	b.savePosition(s)
	s.EndGroup()
}

func (b *OriginalName) Clone() Builder { return NewOriginalName(b.Pos) }

// InsertText inserts a fixed string.
type InsertText struct {
	insertBase
	Text string
}

func NewInsertText(pos Position, text string) *InsertText {
	return &InsertText{insertBase: insertBase{Pos: pos}, Text: text}
}

func (b *InsertText) Kind() Kind { return KindInsertText }
func (b *InsertText) Reset()     {}

func (b *InsertText) Build(result string) string {
	return insertAt(result, b.Pos, b.Text)
}

func (b *InsertText) Describe() string {
	if b.Text == "" {
		return b.Pos.label("Insert Text")
	}
	return b.Pos.label(b.Text)
}

func (b *InsertText) LoadSettings(s Settings) {
	s.BeginGroup(groupInsertText)
	b.loadPosition(s)
	b.Text = stringValue(s, keyText)
	s.EndGroup()
}

func (b *InsertText) SaveSettings(s Settings) {
	s.BeginGroup(groupInsertText)
	b.savePosition(s)
	s.SetValue(keyText, b.Text)
	s.EndGroup()
}

func (b *InsertText) Clone() Builder { return NewInsertText(b.Pos, b.Text) }

// ReplaceText rewrites the whole accumulated string, either literally or by
// regular expression.
type ReplaceText struct {
	Find          string
	Replace       string
	UseRegExp     bool
	CaseSensitive bool

	re     *regexp.Regexp
	reFrom string
}

func NewReplaceText(find, replace string, useRegExp, caseSensitive bool) *ReplaceText {
	return &ReplaceText{Find: find, Replace: replace, UseRegExp: useRegExp, CaseSensitive: caseSensitive}
}

func (b *ReplaceText) Kind() Kind { return KindReplaceText }
func (b *ReplaceText) Reset()     {}

func (b *ReplaceText) Build(result string) string {
	if b.Find == "" {
		return result
	}
	if !b.UseRegExp {
		if b.CaseSensitive {
			return strings.ReplaceAll(result, b.Find, b.Replace)
		}
		return b.literalRegexp().ReplaceAllLiteralString(result, b.Replace)
	}
	re := b.compiled()
	if re == nil {
		return result
	}
	return replaceMatches(re, result, b.Replace)
}

// replaceMatches substitutes every match of re in s with after. In after,
// \1 to \99 stand for captured groups; everything else, '$' included, is
// literal. A reference beyond the group count stays as written.
func replaceMatches(re *regexp.Regexp, s, after string) string {
	matches := re.FindAllStringSubmatchIndex(s, -1)
	if matches == nil {
		return s
	}
	groups := re.NumSubexp()
	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(s[last:m[0]])
		for i := 0; i < len(after); i++ {
			c := after[i]
			if c == '\\' && i+1 < len(after) && after[i+1] >= '1' && after[i+1] <= '9' {
				no, width := int(after[i+1]-'0'), 2
				if no <= groups {
					if i+2 < len(after) && after[i+2] >= '0' && after[i+2] <= '9' {
						if two := no*10 + int(after[i+2]-'0'); two <= groups {
							no, width = two, 3
						}
					}
					if start := m[2*no]; start >= 0 {
						b.WriteString(s[start:m[2*no+1]])
					}
					i += width - 1
					continue
				}
			}
			b.WriteByte(c)
		}
		last = m[1]
	}
	b.WriteString(s[last:])
	return b.String()
}

// compiled caches the pattern; an invalid pattern leaves the input untouched.
func (b *ReplaceText) compiled() *regexp.Regexp {
	pattern := b.Find
	if !b.CaseSensitive {
		pattern = "(?i)" + pattern
	}
	if b.re != nil && b.reFrom == pattern {
		return b.re
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		debug.Log(debug.BUILD, "ReplaceText: invalid pattern %q: %v", b.Find, err)
		b.re, b.reFrom = nil, ""
		return nil
	}
	b.re, b.reFrom = re, pattern
	return re
}

func (b *ReplaceText) literalRegexp() *regexp.Regexp {
	pattern := "(?i)" + regexp.QuoteMeta(b.Find)
	if b.re != nil && b.reFrom == pattern {
		return b.re
	}
	b.re = regexp.MustCompile(pattern)
	b.reFrom = pattern
	return b.re
}

func (b *ReplaceText) Describe() string {
	regExp := "Off"
	if b.UseRegExp {
		regExp = "On"
	}
	cs := "CaseInsensitive"
	if b.CaseSensitive {
		cs = "CaseSensitive"
	}
	return fmt.Sprintf("Replace %s > %s [RegExp:%s][%s]", b.Find, b.Replace, regExp, cs)
}

func (b *ReplaceText) LoadSettings(s Settings) {
	s.BeginGroup(groupReplaceText)
	b.Find = stringValue(s, keyFind)
	b.Replace = stringValue(s, keyReplace)
	b.UseRegExp = boolValue(s, keyUseRegExp, false)
	b.CaseSensitive = boolValue(s, keyCaseSensitive, true)
	s.EndGroup()
}

func (b *ReplaceText) SaveSettings(s Settings) {
	s.BeginGroup(groupReplaceText)
	s.SetValue(keyFind, b.Find)
	s.SetValue(keyReplace, b.Replace)
	s.SetValue(keyUseRegExp, strconv.FormatBool(b.UseRegExp))
	s.SetValue(keyCaseSensitive, strconv.FormatBool(b.CaseSensitive))
	s.EndGroup()
}

func (b *ReplaceText) Clone() Builder {
	return NewReplaceText(b.Find, b.Replace, b.UseRegExp, b.CaseSensitive)
}

// Number inserts a counter that advances by Step on every Build.
type Number struct {
	insertBase
	Start  int
	Step   int
	Digit  int
	Prefix string
	Suffix string

	current int
}

func NewNumber(pos Position, start, step, digit int, prefix, suffix string) *Number {
	return &Number{
		insertBase: insertBase{Pos: pos},
		Start:      start,
		Step:       step,
		Digit:      digit,
		Prefix:     prefix,
		Suffix:     suffix,
		current:    start,
	}
}

func (b *Number) Kind() Kind { return KindNumber }

// Reset rewinds the counter to Start. Call once per batch.
func (b *Number) Reset() { b.current = b.Start }

// Current returns the value the next Build will insert.
func (b *Number) Current() int { return b.current }

func (b *Number) Build(result string) string {
	s := b.format(b.current)
	b.current += b.Step
	return insertAt(result, b.Pos, s)
}

// format zero pads n to Digit characters; the sign counts toward the width
// and the zeros follow it, so -5 with three digits is "-05".
func (b *Number) format(n int) string {
	return fmt.Sprintf("%s%0*d%s", b.Prefix, b.Digit, n, b.Suffix)
}

func (b *Number) Describe() string {
	return fmt.Sprintf("Number %s, inc %d > pos:%d", b.format(b.Start), b.Step, int(b.Pos))
}

func (b *Number) LoadSettings(s Settings) {
	s.BeginGroup(groupNumber)
	b.loadPosition(s)
	b.Start = intValue(s, keyStart, 0)
	b.Step = intValue(s, keyStep, 1)
	b.Digit = intValue(s, keyDigit, 0)
	b.Prefix = stringValue(s, keyPrefix)
	b.Suffix = stringValue(s, keySuffix)
	s.EndGroup()
	b.current = b.Start
}

func (b *Number) SaveSettings(s Settings) {
	s.BeginGroup(groupNumber)
	b.savePosition(s)
	s.SetValue(keyStart, strconv.Itoa(b.Start))
	s.SetValue(keyStep, strconv.Itoa(b.Step))
	s.SetValue(keyDigit, strconv.Itoa(b.Digit))
	s.SetValue(keyPrefix, b.Prefix)
	s.SetValue(keySuffix, b.Suffix)
	s.EndGroup()
}

func (b *Number) Clone() Builder {
	return NewNumber(b.Pos, b.Start, b.Step, b.Digit, b.Prefix, b.Suffix)
}
