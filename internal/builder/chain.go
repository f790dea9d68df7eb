package builder

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/justyntemme/renamer/internal/debug"
)

// Chain runs builders in order over an accumulated string.
type Chain struct {
	builders []Builder
}

// NewChain creates a chain of the given builders.
func NewChain(builders ...Builder) *Chain {
	c := &Chain{}
	for _, b := range builders {
		c.Add(b)
	}
	return c
}

func (c *Chain) Add(b Builder) {
	if b != nil {
		c.builders = append(c.builders, b)
	}
}

// Builders returns the builders in order. The slice is a copy.
func (c *Chain) Builders() []Builder {
	out := make([]Builder, len(c.builders))
	copy(out, c.builders)
	return out
}

func (c *Chain) Len() int      { return len(c.builders) }
func (c *Chain) IsEmpty() bool { return len(c.builders) == 0 }

// Kinds returns the kind of each builder in order.
func (c *Chain) Kinds() []Kind {
	kinds := make([]Kind, len(c.builders))
	for i, b := range c.builders {
		kinds[i] = b.Kind()
	}
	return kinds
}

// Reset resets every stateful builder. Call once before a batch.
func (c *Chain) Reset() {
	for _, b := range c.builders {
		b.Reset()
	}
}

// Build runs all builders starting from the empty string.
func (c *Chain) Build() string {
	var result string
	for _, b := range c.builders {
		result = b.Build(result)
	}
	return result
}

// Clone returns a chain of copies with fresh per-batch state.
func (c *Chain) Clone() *Chain {
	out := &Chain{builders: make([]Builder, len(c.builders))}
	for i, b := range c.builders {
		out.builders[i] = b.Clone()
	}
	return out
}

// Remove deletes count builders starting at row.
func (c *Chain) Remove(row, count int) error {
	if row < 0 || count < 0 || row+count > len(c.builders) {
		return fmt.Errorf("remove builders [%d,%d) of %d: out of range", row, row+count, len(c.builders))
	}
	c.builders = append(c.builders[:row], c.builders[row+count:]...)
	return nil
}

// Move relocates the builders at rows (ascending) to targetRow and returns
// the row the first moved builder ends up at.
func (c *Chain) Move(rows []int, targetRow int) int {
	if len(rows) == 0 {
		return -1
	}
	taken := make([]Builder, 0, len(rows))
	lower := 0
	for i := len(rows) - 1; i >= 0; i-- {
		r := rows[i]
		if r < 0 || r >= len(c.builders) {
			continue
		}
		taken = append(taken, c.builders[r])
		c.builders = append(c.builders[:r], c.builders[r+1:]...)
		if r < targetRow {
			lower++
		}
	}
	targetRow = max(0, min(targetRow-lower, len(c.builders)))
	for _, b := range taken {
		c.builders = append(c.builders[:targetRow], append([]Builder{b}, c.builders[targetRow:]...)...)
	}
	return targetRow
}

// Describe lists each builder description on its own line.
func (c *Chain) Describe() string {
	lines := make([]string, len(c.builders))
	for i, b := range c.builders {
		lines[i] = b.Describe()
	}
	return strings.Join(lines, "\n")
}

// FileChain is a Chain bound to one entity at a time. Builders that read
// the entity receive its FileInfo before they build.
type FileChain struct {
	Chain
	info FileInfo
}

// NewFileChain wraps a chain for per-entity builds.
func NewFileChain(c *Chain) *FileChain {
	fc := &FileChain{}
	if c != nil {
		fc.builders = c.builders
	}
	return fc
}

// SetFileInfo binds the entity for the next Build.
func (c *FileChain) SetFileInfo(info FileInfo) {
	c.info = info
}

// Build runs the chain against the bound entity.
func (c *FileChain) Build() string {
	var result string
	for _, b := range c.builders {
		if nf, ok := b.(NeedsFileInfo); ok {
			nf.SetFileInfo(c.info)
		}
		result = b.Build(result)
		debug.Log(debug.BUILD_STEP, "%s -> %q", b.Kind(), result)
	}
	return result
}

// BuildFor binds info and builds one name.
func (c *FileChain) BuildFor(info FileInfo) string {
	c.SetFileInfo(info)
	return c.Build()
}

const (
	groupSettingsList = "SettingsList"
	keyTypes          = "Types"
)

// SaveChain writes the chain as a list of kind codes plus one numbered
// group per builder.
func SaveChain(c *Chain, s Settings) {
	s.Remove(groupSettingsList)
	s.BeginGroup(groupSettingsList)
	for i, b := range c.builders {
		s.BeginGroup(strconv.Itoa(i))
		b.SaveSettings(s)
		s.EndGroup()
	}
	codes := make([]int, len(c.builders))
	for i, b := range c.builders {
		codes[i] = int(b.Kind())
	}
	if ls, ok := s.(IntListSettings); ok {
		ls.SetIntList(keyTypes, codes)
	} else {
		parts := make([]string, len(codes))
		for i, code := range codes {
			parts[i] = strconv.Itoa(code)
		}
		s.SetValue(keyTypes, strings.Join(parts, ", "))
	}
	s.EndGroup()
}

// kindCodes reads the kind list of the current group.
func kindCodes(s Settings) ([]int, error) {
	if ls, ok := s.(IntListSettings); ok {
		codes, found, err := ls.IntList(keyTypes)
		if !found {
			return nil, fmt.Errorf("settings have no %s/%s", groupSettingsList, keyTypes)
		}
		return codes, err
	}
	raw, ok := s.Value(keyTypes)
	if !ok {
		return nil, fmt.Errorf("settings have no %s/%s", groupSettingsList, keyTypes)
	}
	items := splitList(raw)
	codes := make([]int, len(items))
	for i, code := range items {
		n, err := strconv.Atoi(code)
		if err != nil {
			return nil, fmt.Errorf("builder %d: bad kind code %q", i, code)
		}
		codes[i] = n
	}
	return codes, nil
}

// LoadChain reads a chain written by SaveChain. Unknown kind codes are
// skipped; their numbered group is still consumed.
func LoadChain(s Settings) (*Chain, error) {
	s.BeginGroup(groupSettingsList)
	defer s.EndGroup()

	codes, err := kindCodes(s)
	if err != nil {
		return nil, err
	}
	c := &Chain{}
	for i, code := range codes {
		b, err := New(Kind(code))
		if err != nil {
			debug.Log(debug.SETTINGS, "LoadChain: skip builder %d: %v", i, err)
			continue
		}
		s.BeginGroup(strconv.Itoa(i))
		b.LoadSettings(s)
		s.EndGroup()
		c.Add(b)
	}
	return c, nil
}

// splitList parses a comma separated list. Quoted items are unquoted.
func splitList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "@Invalid()" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(strings.TrimSpace(p), `"`)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
