// Package golden pins the end-to-end wire shape: fixed source units in,
// byte-stable JSON report out. Run with -update to rewrite the snapshot
// after an intentional catalog or rubric change.
package golden

import (
	"bytes"
	"context"
	"flag"
	"os"
	"testing"

	"github.com/S0okJu/openstack-mcp-sample/internal/catalog"
	"github.com/S0okJu/openstack-mcp-sample/internal/engine"
	"github.com/S0okJu/openstack-mcp-sample/internal/model"
	"github.com/S0okJu/openstack-mcp-sample/internal/reporting"
)

var update = flag.Bool("update", false, "rewrite the golden file")

const goldenFile = "expected.json"

const novaSource = `import requests

conn = connection.Connection(
    auth_url='https://auth.example.com',
    username='demo',
    password='super-secret-password',
)
resp = requests.get('http://compute.local/v2/servers', verify=False)`

const errorsSource = `def attach(server_id):
    try:
        client.attach(server_id)
    except Exception:
        pass`

func TestReportSnapshot(t *testing.T) {
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	units := []model.SourceUnit{
		model.NewSourceUnit("core/nova.py", novaSource),
		model.NewSourceUnit("core/errors.py", errorsSource),
	}

	s := engine.New(cat, engine.WithWorkers(2))
	rep := s.ScanAll(context.Background(), units)
	run := &model.Run{ID: "run-golden", Source: "samples", EngineVersion: model.Version, Report: *rep}

	var buf bytes.Buffer
	if err := reporting.EncodeJSON(&buf, run); err != nil {
		t.Fatalf("encode: %v", err)
	}

	if *update {
		if err := os.WriteFile(goldenFile, buf.Bytes(), 0o644); err != nil {
			t.Fatalf("update golden: %v", err)
		}
		return
	}

	want, err := os.ReadFile(goldenFile)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	got := bytes.TrimSpace(buf.Bytes())
	if !bytes.Equal(got, bytes.TrimSpace(want)) {
		t.Errorf("report drifted from golden snapshot (run with -update after intentional changes)\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

// The snapshot pipeline must be stable across repeated runs and worker
// counts; a schedule-dependent report would make the golden file flaky.
func TestSnapshotStability(t *testing.T) {
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	units := []model.SourceUnit{
		model.NewSourceUnit("core/nova.py", novaSource),
		model.NewSourceUnit("core/errors.py", errorsSource),
	}

	var first []byte
	for _, workers := range []int{1, 4} {
		s := engine.New(cat, engine.WithWorkers(workers))
		rep := s.ScanAll(context.Background(), units)
		run := &model.Run{ID: "run-golden", Source: "samples", EngineVersion: model.Version, Report: *rep}
		var buf bytes.Buffer
		if err := reporting.EncodeJSON(&buf, run); err != nil {
			t.Fatalf("encode: %v", err)
		}
		if first == nil {
			first = buf.Bytes()
			continue
		}
		if !bytes.Equal(first, buf.Bytes()) {
			t.Fatalf("report bytes differ between worker counts")
		}
	}
}
