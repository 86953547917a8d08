// Package catalog holds the immutable security rule catalog: five rule
// categories, each with indicator patterns, a baseline severity tier, and
// human-directed guidance text. The catalog is built once at startup and
// shared read-only across concurrent scans.
package catalog

import (
	"errors"
	"regexp"
	"strings"

	"github.com/S0okJu/openstack-mcp-sample/internal/model"
)

// ErrMalformedCatalog is returned by Load for any catalog source that does
// not match the expected five-category schema. The catalog is never
// partially loaded.
var ErrMalformedCatalog = errors.New("malformed catalog")

// IndicatorKind selects how an indicator pattern is evaluated.
type IndicatorKind string

const (
	// KindKeyword matches any of a word list, case-insensitively.
	KindKeyword IndicatorKind = "keyword"
	// KindLiteral matches an exact token, case-sensitively (verify=False).
	KindLiteral IndicatorKind = "literal"
	// KindRegex matches a regular expression against a single line.
	KindRegex IndicatorKind = "regex"
	// KindCooccur requires a second pattern within a bounded line window.
	KindCooccur IndicatorKind = "cooccur"
)

var validKinds = map[IndicatorKind]bool{
	KindKeyword: true,
	KindLiteral: true,
	KindRegex:   true,
	KindCooccur: true,
}

var validTiers = map[model.Tier]bool{
	model.TierHigh:   true,
	model.TierMedium: true,
	model.TierLow:    true,
}

// Indicator is a single detectable textual pattern. Confidence in (0,1]
// weighs the indicator during dedup and in-band score selection.
type Indicator struct {
	ID         string        `yaml:"id"`
	Kind       IndicatorKind `yaml:"kind"`
	Keywords   []string      `yaml:"keywords,omitempty"`
	Pattern    string        `yaml:"pattern,omitempty"`
	With       string        `yaml:"with,omitempty"`
	Unless     string        `yaml:"unless,omitempty"`
	Window     int           `yaml:"window,omitempty"`
	Confidence float64       `yaml:"confidence"`

	re       *regexp.Regexp
	reWith   *regexp.Regexp
	reUnless *regexp.Regexp
	keysLow  []string
}

func (in *Indicator) compile() error {
	switch in.Kind {
	case KindKeyword:
		if len(in.Keywords) == 0 {
			return errors.New("keyword indicator without keywords")
		}
		in.keysLow = make([]string, len(in.Keywords))
		for i, k := range in.Keywords {
			in.keysLow[i] = strings.ToLower(k)
		}
	case KindLiteral:
		if in.Pattern == "" {
			return errors.New("literal indicator without pattern")
		}
	case KindRegex, KindCooccur:
		if in.Pattern == "" {
			return errors.New("indicator without pattern")
		}
		re, err := regexp.Compile(in.Pattern)
		if err != nil {
			return err
		}
		in.re = re
		if in.Kind == KindCooccur {
			if in.With == "" {
				return errors.New("cooccur indicator without second pattern")
			}
			reWith, err := regexp.Compile(in.With)
			if err != nil {
				return err
			}
			in.reWith = reWith
		}
	default:
		return errors.New("unrecognized indicator kind " + string(in.Kind))
	}
	if in.Unless != "" {
		re, err := regexp.Compile(in.Unless)
		if err != nil {
			return err
		}
		in.reUnless = re
	}
	if in.Confidence <= 0 || in.Confidence > 1 {
		return errors.New("confidence must be in (0,1]")
	}
	if in.Window < 0 {
		return errors.New("window must be >= 0")
	}
	return nil
}

// MatchLine reports whether the indicator's primary pattern hits the line.
// Keyword matching is case-insensitive; literal matching is case-sensitive.
func (in *Indicator) MatchLine(line string) bool {
	if in.reUnless != nil && in.reUnless.MatchString(line) {
		return false
	}
	switch in.Kind {
	case KindKeyword:
		low := strings.ToLower(line)
		for _, k := range in.keysLow {
			if strings.Contains(low, k) {
				return true
			}
		}
		return false
	case KindLiteral:
		return strings.Contains(line, in.Pattern)
	default:
		return in.re.MatchString(line)
	}
}

// MatchWith evaluates the secondary pattern of a cooccurrence indicator.
func (in *Indicator) MatchWith(line string) bool {
	return in.reWith != nil && in.reWith.MatchString(line)
}

// LookAround returns the half-width of the cooccurrence window in lines.
// Zero means both tokens must share the line.
func (in *Indicator) LookAround() (int, bool) {
	if in.Kind != KindCooccur {
		return 0, false
	}
	return in.Window, true
}

// Rule groups the indicators of one category with its tier and the
// human-readable guidance carried into report rationale.
type Rule struct {
	ID         string         `yaml:"id"`
	Category   model.Category `yaml:"category"`
	Tier       model.Tier     `yaml:"tier"`
	Summary    string         `yaml:"summary"`
	Guidance   []string       `yaml:"guidance,omitempty"`
	Indicators []Indicator    `yaml:"indicators"`
}

// Catalog is the loaded, immutable rule set.
type Catalog struct {
	rules []Rule
	byCat map[model.Category]int
}

// AllRules returns the rules in document order: credentials, SSL, input
// validation, logging, error handling.
func (c *Catalog) AllRules() []Rule {
	out := make([]Rule, 0, len(c.rules))
	for _, cat := range model.Categories() {
		out = append(out, c.rules[c.byCat[cat]])
	}
	return out
}

// RulesFor returns the rule for a category.
func (c *Catalog) RulesFor(cat model.Category) (Rule, bool) {
	i, ok := c.byCat[cat]
	if !ok {
		return Rule{}, false
	}
	return c.rules[i], true
}
