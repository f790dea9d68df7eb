package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/justyntemme/renamer/internal/builder"
	"github.com/justyntemme/renamer/internal/settings"
)

// Chain flags
var (
	useSettings string
	saveAs      string
	dropName    bool
	insertText  string
	insertAt    string
	findText    string
	replaceText string
	useRegExp   bool
	ignoreCase  bool
	numbering   bool
	numberAt    string
	numberStart int
	numberStep  int
	numberDigit int
	hashAlg     string
	hashAt      string
	imageHashAt string
)

func addChainFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&useSettings, "settings", "s", "", "saved settings to use instead of builder flags")
	f.StringVar(&saveAs, "save", "", "save the builder chain under this name")
	f.BoolVar(&dropName, "drop-name", false, "do not start from the original name")
	f.StringVar(&insertText, "insert", "", "text to insert")
	f.StringVar(&insertAt, "insert-at", "end", "insert position: start, end or a rune offset (negative counts from the end)")
	f.StringVar(&findText, "find", "", "text or pattern to replace")
	f.StringVar(&replaceText, "replace", "", "replacement for --find")
	f.BoolVar(&useRegExp, "regexp", false, "treat --find as a regular expression")
	f.BoolVar(&ignoreCase, "ignore-case", false, "match --find case-insensitively")
	f.BoolVar(&numbering, "number", false, "append a counter")
	f.StringVar(&numberAt, "number-at", "end", "counter position")
	f.IntVar(&numberStart, "start", 1, "first counter value")
	f.IntVar(&numberStep, "step", 1, "counter increment")
	f.IntVar(&numberDigit, "digits", 1, "minimum counter width, zero padded")
	f.StringVar(&hashAlg, "hash", "", "insert a file digest: MD5, SHA1, SHA2-224, SHA2-256, SHA3-224, SHA3-256")
	f.StringVar(&hashAt, "hash-at", "end", "digest position")
	f.StringVar(&imageHashAt, "image-hash-at", "", "insert a perceptual image hash at this position")
}

func parsePosition(s string) (builder.Position, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "start", "left", "leftmost":
		return builder.Leftmost, nil
	case "end", "right", "rightmost":
		return builder.Rightmost, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("bad position %q: want start, end or an integer", s)
	}
	return builder.Position(n), nil
}

func parseHashAlgorithm(s string) (builder.HashAlgorithm, error) {
	for _, a := range builder.HashAlgorithms {
		if strings.EqualFold(a.String(), s) {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown hash algorithm %q", s)
}

func chainFlagsSet(cmd *cobra.Command) bool {
	for _, name := range []string{"drop-name", "insert", "find", "number", "hash", "image-hash-at"} {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

// chainFromFlags assembles builders in a fixed order: original name,
// replacement, inserted text, counter, digests.
func chainFromFlags() (*builder.Chain, error) {
	c := builder.NewChain()
	if !dropName {
		c.Add(builder.NewOriginalName(builder.Leftmost))
	}
	if findText != "" {
		c.Add(builder.NewReplaceText(findText, replaceText, useRegExp, !ignoreCase))
	}
	if insertText != "" {
		pos, err := parsePosition(insertAt)
		if err != nil {
			return nil, err
		}
		c.Add(builder.NewInsertText(pos, insertText))
	}
	if numbering {
		pos, err := parsePosition(numberAt)
		if err != nil {
			return nil, err
		}
		c.Add(builder.NewNumber(pos, numberStart, numberStep, numberDigit, "", ""))
	}
	if hashAlg != "" {
		alg, err := parseHashAlgorithm(hashAlg)
		if err != nil {
			return nil, err
		}
		pos, err := parsePosition(hashAt)
		if err != nil {
			return nil, err
		}
		c.Add(builder.NewFileHash(alg, pos))
	}
	if imageHashAt != "" {
		pos, err := parsePosition(imageHashAt)
		if err != nil {
			return nil, err
		}
		c.Add(builder.NewImageHash(pos))
	}
	return c, nil
}

// resolveChain picks the chain for a run: --settings, then builder flags,
// then the configured start-up settings.
func resolveChain(cmd *cobra.Command, catalog *settings.Catalog, loadFirst string) (*builder.Chain, error) {
	var (
		c   *builder.Chain
		err error
	)
	switch {
	case useSettings != "":
		row := catalog.RowOf(useSettings)
		if row < 0 {
			return nil, fmt.Errorf("%w: %q", settings.ErrNotFound, useSettings)
		}
		c, err = catalog.LoadChain(row)
	case chainFlagsSet(cmd):
		c, err = chainFromFlags()
	case loadFirst != "" && catalog.RowOf(loadFirst) >= 0:
		c, err = catalog.LoadChain(catalog.RowOf(loadFirst))
	default:
		c, err = chainFromFlags()
	}
	if err != nil {
		return nil, err
	}
	if saveAs != "" {
		if _, err := catalog.Save(saveAs, c); err != nil {
			return nil, err
		}
	}
	return c, nil
}
