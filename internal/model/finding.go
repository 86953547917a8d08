package model

// Match is a raw indicator hit produced by the matcher. Matches are an
// intermediate product: the context filter may drop, dedupe, or re-tag them
// before any finding is emitted.
type Match struct {
	RuleID      string
	IndicatorID string
	Kind        string // indicator kind, used by the scorer's rubric
	Category    Category
	Unit        string
	Line        int // 1-based
	Excerpt     string
	Confidence  float64
	// LowConfidence is set by the context filter when an indicator hit
	// lacks corroborating context (e.g. a lone broad catch).
	LowConfidence bool
}

// Finding is a scored, located rule violation. Immutable once created.
type Finding struct {
	RuleID    string   `json:"rule_id"`
	Category  Category `json:"category"`
	Severity  int      `json:"severity"` // 1..10
	Band      Band     `json:"band"`
	Unit      string   `json:"source_unit"`
	Line      int      `json:"line"`
	Excerpt   string   `json:"excerpt"`
	Rationale string   `json:"rationale,omitempty"`
	// Anomaly marks a finding that reached the scorer without a rubric
	// entry and was defaulted to the category's lowest band.
	Anomaly bool `json:"anomaly,omitempty"`
}

// Diagnostic is a non-finding note attached to a report, e.g. a skipped
// source unit. Diagnostics never abort a scan.
type Diagnostic struct {
	Unit    string `json:"unit,omitempty"`
	Message string `json:"message"`
}
