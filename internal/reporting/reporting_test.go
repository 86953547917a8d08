package reporting

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/S0okJu/openstack-mcp-sample/internal/model"
)

func sampleRun() *model.Run {
	rep := model.Report{UnitsScanned: 2}
	rep.Add(
		model.Finding{RuleID: "SEC-CRED", Category: model.HardcodedCredentials, Severity: 10,
			Band: model.BandCritical, Unit: "src/app.py", Line: 3, Excerpt: `password = "x"`,
			Rationale: "Credential material hardcoded in source"},
		model.Finding{RuleID: "SEC-ERR", Category: model.InsufficientErrorHandling, Severity: 2,
			Band: model.BandLow, Unit: "src/net.py", Line: 8, Excerpt: "requests.get(url)"},
	)
	rep.AddDiagnostic("src/blob.bin", "skipped: binary content")
	rep.Finalize()
	return &model.Run{ID: "run-1", Source: "src", EngineVersion: model.Version, Report: rep}
}

func TestEncodeJSONStable(t *testing.T) {
	run := sampleRun()
	var a, b bytes.Buffer
	if err := EncodeJSON(&a, run); err != nil {
		t.Fatalf("EncodeJSON: %v", err)
	}
	if err := EncodeJSON(&b, run); err != nil {
		t.Fatalf("EncodeJSON: %v", err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Fatal("encoding the same run twice produced different bytes")
	}
}

func TestEncodeJSONShape(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeJSON(&buf, sampleRun()); err != nil {
		t.Fatalf("EncodeJSON: %v", err)
	}
	var got struct {
		ID     string `json:"id"`
		Report struct {
			Findings     []model.Finding `json:"findings"`
			UnitsScanned int             `json:"units_scanned"`
		} `json:"report"`
		ByBand     map[string]int `json:"count_by_band"`
		ByCategory map[string]int `json:"count_by_category"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if got.ID != "run-1" {
		t.Errorf("id = %q", got.ID)
	}
	if len(got.Report.Findings) != 2 || got.Report.UnitsScanned != 2 {
		t.Errorf("report = %+v", got.Report)
	}
	if len(got.ByBand) != 4 || got.ByBand["CRITICAL"] != 1 || got.ByBand["HIGH"] != 0 {
		t.Errorf("count_by_band = %v", got.ByBand)
	}
	if len(got.ByCategory) != 5 || got.ByCategory["HardcodedCredentials"] != 1 {
		t.Errorf("count_by_category = %v", got.ByCategory)
	}
}

func TestWriteJSONAndHTML(t *testing.T) {
	dir := t.TempDir()
	run := sampleRun()

	jsonPath, err := WriteJSON(run.ID, dir, run)
	if err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if jsonPath != filepath.Join(dir, "run-1.json") {
		t.Errorf("json path %q", jsonPath)
	}
	if _, err := os.Stat(jsonPath); err != nil {
		t.Fatalf("json file: %v", err)
	}

	htmlPath, err := WriteHTML(run.ID, dir, run)
	if err != nil {
		t.Fatalf("WriteHTML: %v", err)
	}
	b, err := os.ReadFile(htmlPath)
	if err != nil {
		t.Fatalf("html file: %v", err)
	}
	page := string(b)
	for _, want := range []string{"run-1", "SEC-CRED", "src/app.py", "CRITICAL"} {
		if !strings.Contains(page, want) {
			t.Errorf("html page missing %q", want)
		}
	}
}

func TestSummaryPlain(t *testing.T) {
	var buf bytes.Buffer
	Summary(&buf, sampleRun(), 1, false)
	out := buf.String()
	for _, want := range []string{
		"Scan run-1",
		"units: 2  findings: 2",
		"CRITICAL",
		"src/app.py:3",
		"note: src/blob.bin skipped: binary content",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestSummaryMinSeverityHidesFindings(t *testing.T) {
	var buf bytes.Buffer
	Summary(&buf, sampleRun(), 5, false)
	out := buf.String()
	if strings.Contains(out, "src/net.py:8") {
		t.Error("finding below min severity rendered")
	}
	if !strings.Contains(out, "src/app.py:3") {
		t.Error("finding above min severity hidden")
	}
}

func TestSummaryIncompleteFlag(t *testing.T) {
	run := sampleRun()
	run.Report.Incomplete = true
	var buf bytes.Buffer
	Summary(&buf, run, 1, false)
	if !strings.Contains(buf.String(), "[INCOMPLETE]") {
		t.Error("incomplete marker missing")
	}
}
