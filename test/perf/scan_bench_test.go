// Package perf holds coarse benchmarks for the scan pipeline. They guard
// against accidental per-line regressions in the matcher, not absolute
// numbers.
package perf

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/S0okJu/openstack-mcp-sample/internal/catalog"
	"github.com/S0okJu/openstack-mcp-sample/internal/engine"
	"github.com/S0okJu/openstack-mcp-sample/internal/model"
)

func benchUnits(n int) []model.SourceUnit {
	var sb strings.Builder
	sb.WriteString("import requests\n\n")
	for i := 0; i < 40; i++ {
		fmt.Fprintf(&sb, "value_%d = compute(%d)\n", i, i)
		if i%10 == 0 {
			sb.WriteString("resp = requests.get('http://api.example.com/v2', verify=False)\n")
		}
		if i%13 == 0 {
			sb.WriteString("password = \"not-a-real-secret\"\n")
		}
	}
	content := sb.String()

	units := make([]model.SourceUnit, 0, n)
	for i := 0; i < n; i++ {
		units = append(units, model.NewSourceUnit(fmt.Sprintf("svc/module_%d.py", i), content))
	}
	return units
}

func BenchmarkMatchUnit(b *testing.B) {
	cat, err := catalog.Default()
	if err != nil {
		b.Fatal(err)
	}
	unit := benchUnits(1)[0]
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		engine.MatchUnit(cat, unit)
	}
}

func BenchmarkScanAll(b *testing.B) {
	cat, err := catalog.Default()
	if err != nil {
		b.Fatal(err)
	}
	units := benchUnits(50)
	s := engine.New(cat, engine.WithWorkers(4))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.ScanAll(context.Background(), units)
	}
}
