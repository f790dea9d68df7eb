package fs

import (
	"cmp"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// TermType is what a filter term tests.
type TermType int

const (
	TermName TermType = iota
	TermExt
	TermSize
	TermModified
	TermKind
)

// Operator compares sizes and dates.
type Operator int

const (
	OpEquals Operator = iota
	OpGreater
	OpLess
	OpGreaterEq
	OpLessEq
)

// Term is one filter condition.
type Term struct {
	Type     TermType
	Value    string
	Operator Operator
	Size     uint64
	Time     time.Time
}

// Filter selects which children an expanded directory contributes. All
// terms must match. Examples:
//   - "IMG_*" or "name:IMG_*" -> glob on the name, case-insensitive
//   - "ext:jpg"               -> files ending in .jpg
//   - "size:>1MB"             -> larger than one megabyte
//   - "modified:>=2024-01-01" -> changed on or after that day
//   - "kind:dir"              -> directories only
type Filter struct {
	Terms []Term
	Raw   string
}

// ParseFilter parses a filter expression. Quoted values may contain spaces.
func ParseFilter(input string) (*Filter, error) {
	f := &Filter{Raw: input}
	for _, part := range splitRespectingQuotes(strings.TrimSpace(input)) {
		t, err := parseTerm(part)
		if err != nil {
			return nil, err
		}
		f.Terms = append(f.Terms, t)
	}
	return f, nil
}

func splitRespectingQuotes(s string) []string {
	var parts []string
	var current strings.Builder
	quote := rune(0)

	for _, r := range s {
		switch {
		case quote != 0 && r == quote:
			quote = 0
		case quote == 0 && (r == '"' || r == '\''):
			quote = r
		case quote == 0 && r == ' ':
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}

func parseTerm(s string) (Term, error) {
	idx := strings.Index(s, ":")
	if idx <= 0 {
		return Term{Type: TermName, Value: strings.ToLower(s)}, nil
	}
	key, value := strings.ToLower(s[:idx]), s[idx+1:]

	switch key {
	case "name", "filename":
		return Term{Type: TermName, Value: strings.ToLower(value)}, nil

	case "ext", "extension":
		if !strings.HasPrefix(value, ".") {
			value = "." + value
		}
		return Term{Type: TermExt, Value: strings.ToLower(value)}, nil

	case "size":
		op, rest := parseOperator(value)
		n, err := humanize.ParseBytes(rest)
		if err != nil {
			return Term{}, fmt.Errorf("filter %q: %w", s, err)
		}
		return Term{Type: TermSize, Value: value, Operator: op, Size: n}, nil

	case "modified", "date":
		op, rest := parseOperator(value)
		t, err := parseDate(rest)
		if err != nil {
			return Term{}, fmt.Errorf("filter %q: %w", s, err)
		}
		return Term{Type: TermModified, Value: value, Operator: op, Time: t}, nil

	case "kind", "type":
		value = strings.ToLower(value)
		if value != "dir" && value != "file" {
			return Term{}, fmt.Errorf("filter %q: kind must be dir or file", s)
		}
		return Term{Type: TermKind, Value: value}, nil
	}
	// Unknown keys are part of the name, e.g. "a:b"
	return Term{Type: TermName, Value: strings.ToLower(s)}, nil
}

func parseOperator(s string) (Operator, string) {
	s = strings.TrimSpace(s)
	for _, p := range []struct {
		prefix string
		op     Operator
	}{
		{">=", OpGreaterEq}, {"<=", OpLessEq}, {">", OpGreater}, {"<", OpLess}, {"=", OpEquals},
	} {
		if strings.HasPrefix(s, p.prefix) {
			return p.op, strings.TrimSpace(s[len(p.prefix):])
		}
	}
	return OpEquals, s
}

// parseDate accepts dates like "2024-01-01" and "2024-01", or the words
// today, yesterday, week, month and year (relative to now).
func parseDate(s string) (time.Time, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	now := time.Now()
	day := func(t time.Time) time.Time {
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	}

	switch s {
	case "today":
		return day(now), nil
	case "yesterday":
		return day(now.AddDate(0, 0, -1)), nil
	case "week":
		return now.AddDate(0, 0, -7), nil
	case "month":
		return now.AddDate(0, -1, 0), nil
	case "year":
		return now.AddDate(-1, 0, 0), nil
	}
	for _, layout := range []string{"2006-01-02", "2006-01", "2006/01/02"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// IsEmpty reports whether the filter accepts everything.
func (f *Filter) IsEmpty() bool {
	return f == nil || len(f.Terms) == 0
}

// Match reports whether e passes every term.
func (f *Filter) Match(e Entry) bool {
	if f.IsEmpty() {
		return true
	}
	for _, t := range f.Terms {
		if !t.match(e) {
			return false
		}
	}
	return true
}

func (t Term) match(e Entry) bool {
	switch t.Type {
	case TermName:
		return matchName(strings.ToLower(e.Name), t.Value)
	case TermExt:
		return !e.IsDir && strings.ToLower(filepath.Ext(e.Name)) == t.Value
	case TermSize:
		if e.IsDir || e.Size < 0 {
			return false
		}
		return compare(cmp.Compare(uint64(e.Size), t.Size), t.Operator)
	case TermModified:
		if t.Operator == OpEquals {
			vy, vm, vd := e.ModTime.Date()
			ty, tm, td := t.Time.Date()
			return vy == ty && vm == tm && vd == td
		}
		return compare(e.ModTime.Compare(t.Time), t.Operator)
	case TermKind:
		return (t.Value == "dir") == e.IsDir
	}
	return true
}

// matchName globs when pattern has wildcards, otherwise tests for a
// substring.
func matchName(name, pattern string) bool {
	if !strings.ContainsAny(pattern, "*?[") {
		return strings.Contains(name, pattern)
	}
	ok, err := filepath.Match(pattern, name)
	return err == nil && ok
}

// compare applies op to a three-way comparison result.
func compare(c int, op Operator) bool {
	switch op {
	case OpGreater:
		return c > 0
	case OpLess:
		return c < 0
	case OpGreaterEq:
		return c >= 0
	case OpLessEq:
		return c <= 0
	default:
		return c == 0
	}
}
