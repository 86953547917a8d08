package reporting

import (
	"fmt"
	"html"
	"os"
	"path/filepath"

	"github.com/S0okJu/openstack-mcp-sample/internal/model"
)

// WriteHTML writes a single-page report to <outDir>/<runID>.html.
func WriteHTML(runID, outDir string, run *model.Run) (string, error) {
	path := filepath.Join(outDir, runID+".html")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	rep := &run.Report
	byBand := rep.CountByBand()

	fmt.Fprintf(f, "<!doctype html><html><head><meta charset='utf-8'><title>%s</title>", html.EscapeString(runID))
	fmt.Fprint(f, "<style>body{font-family:system-ui,Arial,sans-serif;padding:20px;line-height:1.4} table{border-collapse:collapse;margin:8px 0} td,th{border:1px solid #ddd;padding:6px} h1,h2{margin:6px 0 4px} .dim{color:#666} .mono{font-family:ui-monospace,Menlo,Consolas,monospace} .CRITICAL{color:#b00020} .HIGH{color:#d2691e} .MEDIUM{color:#b8860b} .LOW{color:#2e8b57}</style>")
	fmt.Fprint(f, "</head><body>")

	fmt.Fprintf(f, "<h1>secscan report &ndash; <span class='mono'>%s</span></h1>", html.EscapeString(runID))
	if run.Source != "" {
		fmt.Fprintf(f, "<p class='dim'>Source: %s</p>", html.EscapeString(run.Source))
	}
	fmt.Fprintf(f, "<p>Units scanned: %d &nbsp; Findings: %d", rep.UnitsScanned, len(rep.Findings))
	if rep.Incomplete {
		fmt.Fprint(f, " &nbsp; <b>(scan incomplete)</b>")
	}
	fmt.Fprint(f, "</p>")

	fmt.Fprint(f, "<h2>Summary</h2><table><tr><th>Band</th><th>Count</th></tr>")
	for _, b := range []model.Band{model.BandCritical, model.BandHigh, model.BandMedium, model.BandLow} {
		fmt.Fprintf(f, "<tr><td class='%s'>%s</td><td>%d</td></tr>", b, b, byBand[b])
	}
	fmt.Fprint(f, "</table>")

	fmt.Fprint(f, "<h2>Findings</h2><table><tr><th>Score</th><th>Category</th><th>Unit</th><th>Line</th><th>Excerpt</th><th>Rationale</th></tr>")
	for _, fd := range rep.Findings {
		fmt.Fprintf(f, "<tr><td class='%s'>%d</td><td>%s</td><td class='mono'>%s</td><td>%d</td><td class='mono'>%s</td><td class='dim'>%s</td></tr>",
			fd.Band, fd.Severity,
			html.EscapeString(string(fd.Category)),
			html.EscapeString(fd.Unit), fd.Line,
			html.EscapeString(fd.Excerpt),
			html.EscapeString(fd.Rationale),
		)
	}
	fmt.Fprint(f, "</table>")

	if len(rep.Diagnostics) > 0 {
		fmt.Fprint(f, "<h2>Diagnostics</h2><ul>")
		for _, d := range rep.Diagnostics {
			fmt.Fprintf(f, "<li class='dim'><span class='mono'>%s</span> %s</li>", html.EscapeString(d.Unit), html.EscapeString(d.Message))
		}
		fmt.Fprint(f, "</ul>")
	}

	fmt.Fprint(f, "</body></html>")
	return path, nil
}
