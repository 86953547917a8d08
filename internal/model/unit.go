package model

import (
	"strings"
	"unicode/utf8"
)

// SourceUnit is the smallest scannable artifact: an identifier (a path or a
// logical name) plus its text content segmented into lines. Units are
// supplied transiently per scan call; the engine never retains them.
type SourceUnit struct {
	ID    string
	Lines []string
}

// NewSourceUnit splits content into lines. Line numbers are 1-based.
func NewSourceUnit(id, content string) SourceUnit {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	lines := strings.Split(content, "\n")
	// A trailing newline produces an empty last element; drop it so line
	// counts match what an editor shows.
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return SourceUnit{ID: id, Lines: lines}
}

// Line returns the 1-based line n, or "" when out of range.
func (u SourceUnit) Line(n int) string {
	if n < 1 || n > len(u.Lines) {
		return ""
	}
	return u.Lines[n-1]
}

// Valid reports whether the unit content is scannable text.
func (u SourceUnit) Valid() bool {
	for _, l := range u.Lines {
		if !utf8.ValidString(l) || strings.ContainsRune(l, '\x00') {
			return false
		}
	}
	return true
}

// testSegments mark paths whose findings lose production corroboration but
// are still reported. docSegments mark paths the filter drops entirely.
var (
	testSegments = []string{"test", "tests", "spec"}
	docSegments  = []string{"doc", "docs", "example", "examples", "fixture", "fixtures", "testdata", "sample", "samples"}
)

// IsTestPath reports whether the unit identifier looks like test code.
func IsTestPath(id string) bool {
	base := strings.ToLower(id)
	if strings.Contains(base, "_test.") || strings.HasPrefix(pathBase(base), "test_") {
		return true
	}
	return hasSegment(base, testSegments)
}

// IsDocPath reports whether the unit identifier looks like documentation or
// fixture content that should never be flagged.
func IsDocPath(id string) bool {
	return hasSegment(strings.ToLower(id), docSegments)
}

func hasSegment(path string, segs []string) bool {
	for _, part := range strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' }) {
		for _, s := range segs {
			if part == s {
				return true
			}
		}
	}
	return false
}

func pathBase(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}
