package settings

import (
	"reflect"
	"testing"
)

func TestDecodeString(t *testing.T) {
	testCases := []struct {
		raw      string
		expected string
	}{
		{`\\d+`, `\d+`},
		{`"a, b"`, "a, b"},
		{`" edge "`, " edge "},
		{`line\nbreak\ttab`, "line\nbreak\ttab"},
		{`say \"hi\"`, `say "hi"`},
		{`\x1\x61`, "\x01a"},
		{`\101\x42`, "AB"},
		{`@@at`, "@at"},
		{`@Invalid()`, ""},
		{`@ByteArray(raw)`, "raw"},
		{`caf\xe9`, "café"},
		{`1, 2`, "1, 2"},
		{``, ""},
	}
	for _, tc := range testCases {
		if got := decodeString(tc.raw); got != tc.expected {
			t.Errorf("decodeString(%s): expected %q, got %q", tc.raw, tc.expected, got)
		}
	}
}

func TestEncodeString(t *testing.T) {
	testCases := []struct {
		value    string
		expected string
	}{
		{`\d+`, `\\d+`},
		{"a,b", `"a,b"`},
		{"x=y", `"x=y"`},
		{" lead", `" lead"`},
		{"@at", "@@at"},
		{"nl\n", `nl\n`},
		{"\x00" + "1", `\0\x31`},
		{"`", `\x60`},
		{"plain", "plain"},
	}
	for _, tc := range testCases {
		got := encodeString(tc.value)
		if got != tc.expected {
			t.Errorf("encodeString(%q): expected %s, got %s", tc.value, tc.expected, got)
		}
		if back := decodeString(got); back != tc.value {
			t.Errorf("decodeString(encodeString(%q)) = %q", tc.value, back)
		}
	}
}

func TestDecodeIntList(t *testing.T) {
	testCases := []struct {
		raw      string
		expected []int
		wantErr  bool
	}{
		{`@Variant(\0\0\0\x7f\0\0\0\vQList<int>\0\0\0\0\x2\0\0\0\0\0\0\0\x5)`, []int{0, 5}, false},
		{`@Variant(\0\0\0\x7f\0\0\0\nQList<int>\0\0\0\0\x1\0\0\0\x2)`, []int{2}, false},
		{`@Variant(\0\0\0\x7f\0\0\0\vQList<int>\0\0\0\0\0)`, []int{}, false},
		{`1, 3`, []int{1, 3}, false},
		{`4`, []int{4}, false},
		{``, nil, false},
		{`@Invalid()`, nil, false},
		{`@Variant(\0\0\0\x7f\0\0\0\vQList<int>\0\0\0\0\x2\0\0\0\x1)`, nil, true},
		{`@Variant(\0\0\0\n\0\0\0\x4QMap\0\0\0\0)`, nil, true},
		{`1, x`, nil, true},
	}
	for _, tc := range testCases {
		got, err := decodeIntList(tc.raw)
		if (err != nil) != tc.wantErr {
			t.Errorf("decodeIntList(%s): unexpected error %v", tc.raw, err)
			continue
		}
		if !tc.wantErr && !reflect.DeepEqual(got, tc.expected) {
			t.Errorf("decodeIntList(%s): expected %v, got %v", tc.raw, tc.expected, got)
		}
	}
}

func TestIntListRoundTrip(t *testing.T) {
	for _, values := range [][]int{{0, 1, 2, 3, 4, 5}, {44, 59, 61, 92, 34}, {-1}} {
		got, err := decodeIntList(encodeIntList(values))
		if err != nil {
			t.Errorf("%v: %v", values, err)
			continue
		}
		if !reflect.DeepEqual(got, values) {
			t.Errorf("round trip: expected %v, got %v", values, got)
		}
	}
}
