package engine

import (
	"regexp"
	"sort"
	"strings"

	"github.com/S0okJu/openstack-mcp-sample/internal/model"
)

// Comment markers recognized across the languages the catalog targets.
var commentPrefixes = []string{"#", "//", "--", "/*", "*", "'''", `"""`}

var (
	reraiseLine = regexp.MustCompile(`^\s*raise\b`)
	maskingLine = regexp.MustCompile(`^\s*(pass|continue|return\b.*)\s*$`)
	catchLike   = regexp.MustCompile(`\b(except|catch)\b`)
)

// catchWindow bounds how far below a broad catch the filter looks for a
// re-raise or masking statement.
const catchWindow = 5

// Filter narrows raw matches: comment and doc/fixture suppression, per
// (rule, line) dedup keeping the highest-confidence indicator, and
// corroboration of error-handling catches. It never errors and running it
// twice over its own output yields the same result.
func Filter(unit model.SourceUnit, matches []model.Match) []model.Match {
	if model.IsDocPath(unit.ID) {
		return nil
	}

	kept := make([]model.Match, 0, len(matches))
	for _, m := range matches {
		if isCommentLine(unit.Line(m.Line)) {
			continue
		}
		if m.Category == model.InsufficientErrorHandling && catchLike.MatchString(m.Excerpt) {
			corroborated, drop := corroborateCatch(unit, m.Line)
			if drop {
				continue
			}
			m.LowConfidence = !corroborated
		}
		kept = append(kept, m)
	}

	// Dedup (rule, line): keep the highest-confidence indicator.
	type key struct {
		rule string
		line int
	}
	best := make(map[key]int, len(kept))
	out := kept[:0]
	for _, m := range kept {
		k := key{m.RuleID, m.Line}
		if i, ok := best[k]; ok {
			if m.Confidence > out[i].Confidence {
				out[i] = m
			}
			continue
		}
		best[k] = len(out)
		out = append(out, m)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Line != out[j].Line {
			return out[i].Line < out[j].Line
		}
		return out[i].RuleID < out[j].RuleID
	})
	return out
}

// corroborateCatch inspects the lines after a broad catch. A re-raise means
// the catch is fine and the match is dropped. A masking statement (pass,
// continue, bare return) corroborates the match. Neither means the match is
// kept but tagged low-confidence.
func corroborateCatch(unit model.SourceUnit, line int) (corroborated, drop bool) {
	for i := line + 1; i <= line+catchWindow && i <= len(unit.Lines); i++ {
		l := unit.Line(i)
		if reraiseLine.MatchString(l) {
			return false, true
		}
		if maskingLine.MatchString(l) {
			return true, false
		}
	}
	return false, false
}

func isCommentLine(line string) bool {
	t := strings.TrimSpace(line)
	for _, p := range commentPrefixes {
		if strings.HasPrefix(t, p) {
			return true
		}
	}
	return false
}
