package settings

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// Values are stored the way QSettings writes INI files: backslash escapes,
// double quotes around values holding ',' ';' '=' or edge spaces, unquoted
// commas separating list items, and an '@' prefix for typed values.

const (
	variantPrefix   = "@Variant("
	byteArrayPrefix = "@ByteArray("
	invalidValue    = "@Invalid()"

	// QVariant::UserType as streamed with QDataStream::Qt_4_0
	variantUserType = 127
	intListTypeName = "QList<int>"
)

var errBadVariant = errors.New("malformed @Variant value")

var escapeCodes = map[byte]rune{
	'a': '\a', 'b': '\b', 'f': '\f', 'n': '\n', 'r': '\r', 't': '\t', 'v': '\v',
	'"': '"', '?': '?', '\'': '\'', '\\': '\\',
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func hexValue(c byte) uint32 {
	switch {
	case c >= 'a':
		return uint32(c-'a') + 10
	case c >= 'A':
		return uint32(c-'A') + 10
	}
	return uint32(c - '0')
}

// unescapeQt decodes a raw INI value. It returns the items of a list when
// the value holds unquoted commas, otherwise a single item.
func unescapeQt(raw string) (items []string, isList bool) {
	var (
		cur      []uint16
		inQuotes bool
	)
	flush := func() {
		items = append(items, string(utf16.Decode(cur)))
		cur = cur[:0]
	}
	appendRune := func(r rune) {
		cur = utf16.AppendRune(cur, r)
	}

	for i := 0; i < len(raw); {
		ch := raw[i]
		switch {
		case ch == '"':
			inQuotes = !inQuotes
			i++
		case ch == ',' && !inQuotes:
			isList = true
			flush()
			i++
			for i < len(raw) && (raw[i] == ' ' || raw[i] == '\t') {
				i++
			}
		case ch == '\\':
			i++
			if i >= len(raw) {
				break
			}
			esc := raw[i]
			switch {
			case esc == 'x':
				i++
				var v uint32
				for i < len(raw) && isHexDigit(rune(raw[i])) {
					v = v<<4 | hexValue(raw[i])
					i++
				}
				cur = append(cur, uint16(v))
			case esc >= '0' && esc <= '7':
				v := uint32(esc - '0')
				i++
				for i < len(raw) && raw[i] >= '0' && raw[i] <= '7' {
					v = v<<3 | uint32(raw[i]-'0')
					i++
				}
				cur = append(cur, uint16(v))
			default:
				if r, ok := escapeCodes[esc]; ok {
					appendRune(r)
				}
				// unknown escapes are dropped
				i++
			}
		default:
			r, size := utf8.DecodeRuneInString(raw[i:])
			appendRune(r)
			i += size
		}
	}
	flush()
	return items, isList
}

// escapeQt encodes s as one INI value. latin1 marks typed values whose
// characters stand for raw bytes.
func escapeQt(s string, latin1 bool) string {
	var b strings.Builder
	needsQuotes := false
	escapeNextIfDigit := false
	for _, r := range s {
		if r == ';' || r == ',' || r == '=' {
			needsQuotes = true
		}
		if escapeNextIfDigit && isHexDigit(r) {
			fmt.Fprintf(&b, `\x%x`, r)
			continue
		}
		escapeNextIfDigit = false
		switch r {
		case 0:
			b.WriteString(`\0`)
			escapeNextIfDigit = true
		case '\a':
			b.WriteString(`\a`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\v':
			b.WriteString(`\v`)
		case '"', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '`':
			// the INI writer would wrap the whole value in """ otherwise
			b.WriteString(`\x60`)
			escapeNextIfDigit = true
		default:
			if r <= 0x1f || r == 0x7f || (latin1 && r >= 0x7f) {
				fmt.Fprintf(&b, `\x%x`, r)
				escapeNextIfDigit = true
			} else {
				b.WriteRune(r)
			}
		}
	}
	out := b.String()
	if needsQuotes || strings.HasPrefix(out, " ") || strings.HasSuffix(out, " ") {
		out = `"` + out + `"`
	}
	return out
}

// decodeString turns a raw INI value into the string it stores.
func decodeString(raw string) string {
	items, isList := unescapeQt(raw)
	if isList {
		return strings.Join(items, ", ")
	}
	s := items[0]
	switch {
	case strings.HasPrefix(s, "@@"):
		return s[1:]
	case s == invalidValue:
		return ""
	case strings.HasPrefix(s, byteArrayPrefix) && strings.HasSuffix(s, ")"):
		return latin1Bytes(s[len(byteArrayPrefix) : len(s)-1])
	}
	return s
}

// encodeString is the inverse of decodeString.
func encodeString(s string) string {
	if strings.HasPrefix(s, "@") {
		s = "@" + s
	}
	return escapeQt(s, false)
}

// latin1Bytes maps each character to the byte of the same value.
func latin1Bytes(s string) string {
	b := make([]byte, 0, len(s))
	for _, r := range s {
		b = append(b, byte(r))
	}
	return string(b)
}

func latin1String(b []byte) string {
	r := make([]rune, len(b))
	for i, c := range b {
		r[i] = rune(c)
	}
	return string(r)
}

// decodeIntList reads a stored integer list: a QVariant holding
// QList<int>, or plain comma separated numbers.
func decodeIntList(raw string) ([]int, error) {
	items, isList := unescapeQt(raw)
	if !isList {
		s := strings.TrimSpace(items[0])
		switch {
		case s == "" || s == invalidValue:
			return nil, nil
		case strings.HasPrefix(s, variantPrefix) && strings.HasSuffix(s, ")"):
			return decodeIntListVariant([]byte(latin1Bytes(s[len(variantPrefix) : len(s)-1])))
		}
	}
	out := make([]int, 0, len(items))
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it == "" {
			continue
		}
		n, err := strconv.Atoi(it)
		if err != nil {
			return nil, fmt.Errorf("bad list item %q", it)
		}
		out = append(out, n)
	}
	return out, nil
}

// decodeIntListVariant parses the QDataStream form: type id, type name,
// element count and big-endian int32 elements.
func decodeIntListVariant(b []byte) ([]int, error) {
	if len(b) < 8 {
		return nil, errBadVariant
	}
	if binary.BigEndian.Uint32(b) != variantUserType {
		return nil, fmt.Errorf("%w: type id %d", errBadVariant, binary.BigEndian.Uint32(b))
	}
	n := int(binary.BigEndian.Uint32(b[4:]))
	if n > len(b)-8 {
		return nil, errBadVariant
	}
	name := strings.TrimRight(string(b[8:8+n]), "\x00")
	if name != intListTypeName && name != "QVector<int>" {
		return nil, fmt.Errorf("%w: type %q", errBadVariant, name)
	}
	rest := b[8+n:]
	// a name streamed without its terminator leaves it in front of the data
	if len(rest)%4 == 1 && rest[0] == 0 {
		rest = rest[1:]
	}
	if len(rest) < 4 {
		return nil, errBadVariant
	}
	count := int(binary.BigEndian.Uint32(rest))
	rest = rest[4:]
	if len(rest) != 4*count {
		return nil, fmt.Errorf("%w: %d elements in %d bytes", errBadVariant, count, len(rest))
	}
	out := make([]int, count)
	for i := range out {
		out[i] = int(int32(binary.BigEndian.Uint32(rest[4*i:])))
	}
	return out, nil
}

// encodeIntList writes values as a QVariant holding QList<int>.
func encodeIntList(values []int) string {
	name := intListTypeName + "\x00"
	b := make([]byte, 0, 12+len(name)+4*len(values))
	b = binary.BigEndian.AppendUint32(b, variantUserType)
	b = binary.BigEndian.AppendUint32(b, uint32(len(name)))
	b = append(b, name...)
	b = binary.BigEndian.AppendUint32(b, uint32(len(values)))
	for _, v := range values {
		b = binary.BigEndian.AppendUint32(b, uint32(int32(v)))
	}
	return escapeQt(variantPrefix+latin1String(b)+")", true)
}
