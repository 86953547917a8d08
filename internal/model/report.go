package model

import "sort"

// Report is the ordered result of one scan invocation. Findings are sorted
// by descending severity, then unit ID, line, and rule ID, so identical
// inputs always serialize identically regardless of worker scheduling.
type Report struct {
	Findings    []Finding    `json:"findings"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
	// Incomplete is set when the scan was cancelled before all units were
	// processed; the report then holds only fully processed units.
	Incomplete   bool `json:"incomplete,omitempty"`
	UnitsScanned int  `json:"units_scanned"`
}

func (r *Report) Add(fs ...Finding) {
	r.Findings = append(r.Findings, fs...)
}

func (r *Report) AddDiagnostic(unit, msg string) {
	r.Diagnostics = append(r.Diagnostics, Diagnostic{Unit: unit, Message: msg})
}

// Merge folds another partial report into r. Merging is commutative and
// associative up to Finalize, which imposes the canonical order.
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}
	r.Findings = append(r.Findings, other.Findings...)
	r.Diagnostics = append(r.Diagnostics, other.Diagnostics...)
	r.UnitsScanned += other.UnitsScanned
	r.Incomplete = r.Incomplete || other.Incomplete
}

// Finalize applies the canonical ordering. Idempotent.
func (r *Report) Finalize() {
	sort.SliceStable(r.Findings, func(i, j int) bool {
		a, b := r.Findings[i], r.Findings[j]
		if a.Severity != b.Severity {
			return a.Severity > b.Severity
		}
		if a.Unit != b.Unit {
			return a.Unit < b.Unit
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.RuleID < b.RuleID
	})
	sort.SliceStable(r.Diagnostics, func(i, j int) bool {
		if r.Diagnostics[i].Unit != r.Diagnostics[j].Unit {
			return r.Diagnostics[i].Unit < r.Diagnostics[j].Unit
		}
		return r.Diagnostics[i].Message < r.Diagnostics[j].Message
	})
}

// CountByBand returns finding counts keyed by severity band. Bands with no
// findings are present with a zero count so summaries are stable.
func (r *Report) CountByBand() map[Band]int {
	out := map[Band]int{BandCritical: 0, BandHigh: 0, BandMedium: 0, BandLow: 0}
	for _, f := range r.Findings {
		out[f.Band]++
	}
	return out
}

// CountByCategory returns finding counts keyed by rule category, with all
// five categories present.
func (r *Report) CountByCategory() map[Category]int {
	out := make(map[Category]int, 5)
	for _, c := range Categories() {
		out[c] = 0
	}
	for _, f := range r.Findings {
		out[f.Category]++
	}
	return out
}
