package engine

import (
	"regexp"
	"strings"

	"github.com/S0okJu/openstack-mcp-sample/internal/catalog"
	"github.com/S0okJu/openstack-mcp-sample/internal/model"
)

var (
	funcDefLine = regexp.MustCompile(`^\s*(?:async\s+)?(?:def|func|function)\s+(\w+)`)
	handlerName = regexp.MustCompile(`(?i)(handle|handler|route|view|endpoint|api|serve)`)
	decorated   = regexp.MustCompile(`^\s*@\w+\.(route|get|post|put|delete|api)`)
)

// How far above a match the scorer looks for the enclosing function.
const defLookback = 20

// Score maps each filtered match to a finding via the risk rubric decision
// table: the category plus a corroborating factor selects a band, and the
// indicator confidence picks the integer inside it. Scoring never fails; a
// match with no rubric entry falls to the lowest band and is tagged.
func Score(cat *catalog.Catalog, unit model.SourceUnit, matches []model.Match) []model.Finding {
	out := make([]model.Finding, 0, len(matches))
	for _, m := range matches {
		band, anomaly := rubricBand(m, unit)
		lo, hi := model.BandRange(band)
		conf := m.Confidence
		if m.LowConfidence {
			conf /= 2
		}
		score := lo + int(conf*float64(hi-lo)+0.5)
		if score > hi {
			score = hi
		}
		if score < lo {
			score = lo
		}

		rationale := ""
		if r, ok := cat.RulesFor(m.Category); ok {
			rationale = r.Summary
		}
		out = append(out, model.Finding{
			RuleID:    m.RuleID,
			Category:  m.Category,
			Severity:  score,
			Band:      model.BandFor(score),
			Unit:      m.Unit,
			Line:      m.Line,
			Excerpt:   m.Excerpt,
			Rationale: rationale,
			Anomaly:   anomaly,
		})
	}
	return out
}

// rubricBand implements the decision table. The second return marks a
// scorer anomaly (no rubric entry for the match).
func rubricBand(m model.Match, unit model.SourceUnit) (model.Band, bool) {
	switch m.Category {
	case model.HardcodedCredentials:
		// Production paths are critical; test code keeps the high band.
		if model.IsTestPath(m.Unit) {
			return model.BandHigh, false
		}
		return model.BandCritical, false

	case model.SSLVerificationDisabled:
		// An explicit verify=False-style literal is critical; a plain HTTP
		// endpoint or weaker signal stays high.
		if m.Kind == string(catalog.KindLiteral) || strings.Contains(m.Excerpt, "InsecureSkipVerify") {
			return model.BandCritical, false
		}
		return model.BandHigh, false

	case model.InputValidationMissing:
		if insideExportedEntryPoint(unit, m.Line) {
			return model.BandCritical, false
		}
		return model.BandMedium, false

	case model.InformationDisclosureInLogs:
		// The cooccurrence indicator means a credential-named variable
		// inside the log call itself; anything else is generic verbosity.
		if m.Kind == string(catalog.KindCooccur) {
			return model.BandHigh, false
		}
		return model.BandMedium, false

	case model.InsufficientErrorHandling:
		if catchLike.MatchString(m.Excerpt) {
			return model.BandMedium, false
		}
		return model.BandLow, false
	}
	// Should not occur once the catalog validated; flag and degrade.
	return model.BandLow, true
}

// insideExportedEntryPoint walks upward from the match looking for the
// enclosing function definition and reports whether its name follows an
// exported or handler naming convention, or carries a routing decorator.
func insideExportedEntryPoint(unit model.SourceUnit, line int) bool {
	for i := line; i >= 1 && i >= line-defLookback; i-- {
		l := unit.Line(i)
		if decorated.MatchString(l) {
			return true
		}
		sub := funcDefLine.FindStringSubmatch(l)
		if sub == nil {
			continue
		}
		name := sub[1]
		if name != "" && name[0] >= 'A' && name[0] <= 'Z' {
			return true
		}
		if handlerName.MatchString(name) {
			return true
		}
		// A routing decorator directly above the definition also counts.
		return decorated.MatchString(unit.Line(i - 1))
	}
	return false
}
