// Package engine runs the rule catalog over source units: raw indicator
// matching, context filtering, rubric scoring, and deterministic
// aggregation into a report.
package engine

import (
	"strings"

	"github.com/S0okJu/openstack-mcp-sample/internal/catalog"
	"github.com/S0okJu/openstack-mcp-sample/internal/model"
)

const maxExcerpt = 160

// MatchUnit evaluates every indicator of every rule against each line of
// the unit. Overlapping indicators on the same line each produce their own
// match; dedup happens later in the context filter. An empty result is a
// valid outcome, not an error.
func MatchUnit(cat *catalog.Catalog, unit model.SourceUnit) []model.Match {
	var out []model.Match
	for _, rule := range cat.AllRules() {
		for i := range rule.Indicators {
			in := &rule.Indicators[i]
			for ln := 1; ln <= len(unit.Lines); ln++ {
				line := unit.Line(ln)
				if !in.MatchLine(line) {
					continue
				}
				if w, ok := in.LookAround(); ok && !cooccurs(unit, in, ln, w) {
					continue
				}
				out = append(out, model.Match{
					RuleID:      rule.ID,
					IndicatorID: in.ID,
					Kind:        string(in.Kind),
					Category:    rule.Category,
					Unit:        unit.ID,
					Line:        ln,
					Excerpt:     excerpt(line),
					Confidence:  in.Confidence,
				})
			}
		}
	}
	return out
}

// cooccurs checks the secondary pattern of a cooccurrence indicator inside
// the bounded look-around window centered on line ln. A window of zero
// means both tokens must share the line.
func cooccurs(unit model.SourceUnit, in *catalog.Indicator, ln, w int) bool {
	lo, hi := ln-w, ln+w
	if lo < 1 {
		lo = 1
	}
	if hi > len(unit.Lines) {
		hi = len(unit.Lines)
	}
	for i := lo; i <= hi; i++ {
		if in.MatchWith(unit.Line(i)) {
			return true
		}
	}
	return false
}

func excerpt(line string) string {
	line = strings.TrimSpace(line)
	if len(line) > maxExcerpt {
		return line[:maxExcerpt] + "..."
	}
	return line
}
