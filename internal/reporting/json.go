package reporting

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/S0okJu/openstack-mcp-sample/internal/model"
)

// WriteJSON writes the run report to <outDir>/<runID>.json.
func WriteJSON(runID, outDir string, run *model.Run) (string, error) {
	path := filepath.Join(outDir, runID+".json")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := EncodeJSON(f, run); err != nil {
		return "", err
	}
	return path, nil
}

// EncodeJSON renders a run as indented JSON. The report inside the run is
// already canonically ordered, so output is byte-stable for equal input.
func EncodeJSON(w io.Writer, run *model.Run) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(envelope(run))
}

// The wire shape adds the summary counts next to the raw findings.
type runEnvelope struct {
	ID            string                 `json:"id"`
	StartedAt     string                 `json:"started_at,omitempty"`
	Source        string                 `json:"source,omitempty"`
	EngineVersion string                 `json:"engine_version,omitempty"`
	Report        model.Report           `json:"report"`
	ByBand        map[model.Band]int     `json:"count_by_band"`
	ByCategory    map[model.Category]int `json:"count_by_category"`
}

func envelope(run *model.Run) runEnvelope {
	started := ""
	if !run.StartedAt.IsZero() {
		started = run.StartedAt.UTC().Format("2006-01-02T15:04:05Z07:00")
	}
	return runEnvelope{
		ID:            run.ID,
		StartedAt:     started,
		Source:        run.Source,
		EngineVersion: run.EngineVersion,
		Report:        run.Report,
		ByBand:        run.Report.CountByBand(),
		ByCategory:    run.Report.CountByCategory(),
	}
}
