package reporting

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/S0okJu/openstack-mcp-sample/internal/model"
)

var bandStyles = map[model.Band]lipgloss.Style{
	model.BandCritical: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
	model.BandHigh:     lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	model.BandMedium:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	model.BandLow:      lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
}

var dimStyle = lipgloss.NewStyle().Faint(true)

// Colored reports whether styled output should be used for f.
func Colored(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Summary renders a terminal summary of the run: banded counts, the
// findings above minSeverity, and any diagnostics.
func Summary(w io.Writer, run *model.Run, minSeverity int, colored bool) {
	rep := &run.Report
	byBand := rep.CountByBand()

	fmt.Fprintf(w, "Scan %s", run.ID)
	if run.Source != "" {
		fmt.Fprintf(w, " (%s)", run.Source)
	}
	if rep.Incomplete {
		fmt.Fprint(w, " [INCOMPLETE]")
	}
	fmt.Fprintf(w, "\n  units: %d  findings: %d\n", rep.UnitsScanned, len(rep.Findings))

	for _, b := range []model.Band{model.BandCritical, model.BandHigh, model.BandMedium, model.BandLow} {
		label := string(b)
		if colored {
			label = bandStyles[b].Render(label)
		}
		fmt.Fprintf(w, "  %-22s %d\n", label, byBand[b])
	}

	for _, fd := range rep.Findings {
		if fd.Severity < minSeverity {
			continue
		}
		tag := fmt.Sprintf("[%2d %s]", fd.Severity, fd.Band)
		if colored {
			tag = bandStyles[fd.Band].Render(tag)
		}
		fmt.Fprintf(w, "%s %s %s:%d\n", tag, fd.Category, fd.Unit, fd.Line)
		fmt.Fprintf(w, "      %s\n", fd.Excerpt)
	}

	for _, d := range rep.Diagnostics {
		line := fmt.Sprintf("  note: %s %s", d.Unit, d.Message)
		if colored {
			line = dimStyle.Render(line)
		}
		fmt.Fprintln(w, line)
	}
}
