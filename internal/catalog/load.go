package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/S0okJu/openstack-mcp-sample/internal/model"
)

//go:embed default.yaml
var defaultSource []byte

type document struct {
	Version string `yaml:"version"`
	Rules   []Rule `yaml:"rules"`
}

// Load parses and validates a catalog source. Any schema violation returns
// an error wrapping ErrMalformedCatalog; a catalog is never built partially.
// The decoder rejects unknown fields so that stray content embedded in a
// catalog document is an error rather than silently carried along.
func Load(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCatalog, err)
	}

	c := &Catalog{byCat: make(map[model.Category]int, 5)}
	for i := range doc.Rules {
		r := doc.Rules[i]
		if r.ID == "" {
			return nil, fmt.Errorf("%w: rule %d has no id", ErrMalformedCatalog, i)
		}
		if _, dup := c.byCat[r.Category]; dup {
			return nil, fmt.Errorf("%w: duplicate category %s", ErrMalformedCatalog, r.Category)
		}
		if !knownCategory(r.Category) {
			return nil, fmt.Errorf("%w: unrecognized category %q in rule %s", ErrMalformedCatalog, r.Category, r.ID)
		}
		if !validTiers[r.Tier] {
			return nil, fmt.Errorf("%w: unrecognized severity tier %q in rule %s", ErrMalformedCatalog, r.Tier, r.ID)
		}
		if len(r.Indicators) == 0 {
			return nil, fmt.Errorf("%w: rule %s has no indicators", ErrMalformedCatalog, r.ID)
		}
		for j := range r.Indicators {
			in := &r.Indicators[j]
			if in.ID == "" {
				return nil, fmt.Errorf("%w: rule %s indicator %d has no id", ErrMalformedCatalog, r.ID, j)
			}
			if !validKinds[in.Kind] {
				return nil, fmt.Errorf("%w: rule %s indicator %s: unrecognized kind %q", ErrMalformedCatalog, r.ID, in.ID, in.Kind)
			}
			if err := in.compile(); err != nil {
				return nil, fmt.Errorf("%w: rule %s indicator %s: %v", ErrMalformedCatalog, r.ID, in.ID, err)
			}
		}
		c.byCat[r.Category] = len(c.rules)
		c.rules = append(c.rules, r)
	}

	if len(c.rules) != len(model.Categories()) {
		return nil, fmt.Errorf("%w: expected %d categories, got %d", ErrMalformedCatalog, len(model.Categories()), len(c.rules))
	}
	for _, cat := range model.Categories() {
		if _, ok := c.byCat[cat]; !ok {
			return nil, fmt.Errorf("%w: missing category %s", ErrMalformedCatalog, cat)
		}
	}
	return c, nil
}

// LoadFile loads a catalog from a YAML file on disk.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	return Load(bytes.NewReader(defaultSource))
}

func knownCategory(c model.Category) bool {
	for _, k := range model.Categories() {
		if c == k {
			return true
		}
	}
	return false
}
