package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/S0okJu/openstack-mcp-sample/internal/model"
	"github.com/S0okJu/openstack-mcp-sample/internal/reporting"
	"github.com/S0okJu/openstack-mcp-sample/internal/storage"
)

func newReportCommand() *cobra.Command {
	var (
		runID  string
		outDir string
		dbPath string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Re-emit a stored run as JSON and HTML",
		RunE: func(cmd *cobra.Command, args []string) error {
			if outDir == "" {
				outDir = cfg.Reporting.OutDir
			}
			if dbPath == "" {
				dbPath = cfg.Database.DSN
			}

			db, err := storage.OpenSQLite(dbPath)
			if err != nil {
				return fmt.Errorf("db open: %w", err)
			}
			defer db.Close()

			var run model.Run
			if runID == "" {
				run, err = db.LoadLatestRun()
			} else {
				run, err = db.LoadRun(runID)
			}
			if err != nil {
				return fmt.Errorf("load run: %w", err)
			}

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("create out dir: %w", err)
			}
			jsonPath, err := reporting.WriteJSON(run.ID, outDir, &run)
			if err != nil {
				return err
			}
			htmlPath, err := reporting.WriteHTML(run.ID, outDir, &run)
			if err != nil {
				return err
			}
			fmt.Printf("Report OK\n  Run: %s\n  JSON: %s\n  HTML: %s\n", run.ID, jsonPath, htmlPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "Run ID (default: latest)")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path")
	return cmd
}

func newRunsCommand() *cobra.Command {
	var (
		dbPath string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List stored runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				dbPath = cfg.Database.DSN
			}
			db, err := storage.OpenSQLite(dbPath)
			if err != nil {
				return fmt.Errorf("db open: %w", err)
			}
			defer db.Close()

			rows, err := db.ListRuns(limit, 0)
			if err != nil {
				return fmt.Errorf("list runs: %w", err)
			}
			for _, r := range rows {
				flag := ""
				if r.Incomplete {
					flag = " (incomplete)"
				}
				fmt.Printf("%-20s %s  findings=%d%s\n", r.ID, r.StartedAt.Format("2006-01-02 15:04:05"), r.Findings, flag)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum rows")
	return cmd
}
