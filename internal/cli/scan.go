package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/S0okJu/openstack-mcp-sample/internal/engine"
	"github.com/S0okJu/openstack-mcp-sample/internal/model"
	"github.com/S0okJu/openstack-mcp-sample/internal/reporting"
	"github.com/S0okJu/openstack-mcp-sample/internal/storage"
	"github.com/S0okJu/openstack-mcp-sample/internal/walker"
)

func newScanCommand() *cobra.Command {
	var (
		outDir  string
		dbPath  string
		workers int
		failOn  int
		noSave  bool
	)

	cmd := &cobra.Command{
		Use:   "scan <path> [path...]",
		Short: "Scan source trees and write a report",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if outDir == "" {
				outDir = cfg.Reporting.OutDir
			}
			if dbPath == "" {
				dbPath = cfg.Database.DSN
			}
			if workers == 0 {
				workers = cfg.Scan.Workers
			}

			cat, err := loadCatalog()
			if err != nil {
				return err
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("create out dir: %w", err)
			}

			units, diags := walker.Collect(args, walker.Options{
				Extensions:  cfg.Scan.Extensions,
				MaxFileSize: int64(cfg.Scan.MaxFileKB) * 1024,
			})
			logger.Infow("collected source units", "units", len(units), "skipped", len(diags))

			// Ctrl-C cancels between unit boundaries; the report is then
			// flagged incomplete rather than lost.
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			scanner := engine.New(cat, engine.WithWorkers(workers), engine.WithLogger(logger))
			report := scanner.ScanAll(ctx, units)
			report.Diagnostics = append(report.Diagnostics, diags...)
			report.Finalize()

			run := model.Run{
				ID:            fmt.Sprintf("run-%d", time.Now().Unix()),
				StartedAt:     time.Now().UTC(),
				Source:        strings.Join(args, ","),
				EngineVersion: model.Version,
				Report:        *report,
			}

			if !noSave {
				db, err := storage.OpenSQLite(dbPath)
				if err != nil {
					return fmt.Errorf("db open: %w", err)
				}
				defer db.Close()
				if err := db.CreateSchema(); err != nil {
					return fmt.Errorf("db schema: %w", err)
				}
				if err := db.SaveRun(&run); err != nil {
					return fmt.Errorf("db save: %w", err)
				}
			}

			jsonPath, err := reporting.WriteJSON(run.ID, outDir, &run)
			if err != nil {
				return err
			}
			htmlPath, err := reporting.WriteHTML(run.ID, outDir, &run)
			if err != nil {
				return err
			}
			logger.Infow("scan complete", "run", run.ID, "findings", len(report.Findings), "json", jsonPath, "html", htmlPath)

			reporting.Summary(os.Stdout, &run, cfg.Scan.MinSeverity, reporting.Colored(os.Stdout))

			if failOn > 0 {
				for _, f := range report.Findings {
					if f.Severity >= failOn {
						return fmt.Errorf("findings at or above severity %d", failOn)
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory for reports")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path")
	cmd.Flags().IntVar(&workers, "workers", 0, "Worker pool size (0 = number of CPUs)")
	cmd.Flags().IntVar(&failOn, "fail-on", 0, "Exit nonzero when a finding reaches this severity (0 = never)")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Do not persist the run")
	return cmd
}
