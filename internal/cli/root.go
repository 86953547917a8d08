// Package cli wires the scan engine, walker, storage, and reporting into
// the secscan command tree.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/S0okJu/openstack-mcp-sample/internal/catalog"
	"github.com/S0okJu/openstack-mcp-sample/internal/model"
	"github.com/S0okJu/openstack-mcp-sample/internal/shared"
)

var (
	cfgPath string
	debug   bool

	cfg    shared.Config
	logger *zap.SugaredLogger
)

// NewRootCommand builds the secscan command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "secscan",
		Short: "Security anti-pattern scanner for cloud API client code",
		Long: `secscan scans source trees for security anti-patterns around cloud
infrastructure API usage: hardcoded credentials, disabled TLS verification,
missing input validation, credential leakage into logs, and insufficient
error handling. Findings are scored 1-10 against a fixed risk rubric and
aggregated into a deterministic report.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = shared.LoadConfig(cfgPath)
			if err != nil {
				return err
			}
			if debug {
				cfg.Logging.Debug = true
			}
			logger, err = shared.InitLogger(cfg.Logging.Debug)
			return err
		},
	}

	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "Path to YAML config (optional)")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	root.AddCommand(
		newScanCommand(),
		newReportCommand(),
		newRunsCommand(),
		newRulesCommand(),
		newServeCommand(),
		newUserCommand(),
		newVersionCommand(),
	)
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print engine and report schema version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("secscan report schema %s\n", model.Version)
		},
	}
}

// loadCatalog builds the rule catalog once per invocation: the configured
// file if set, the embedded default otherwise. Malformed catalogs abort
// here, before any scanning starts.
func loadCatalog() (*catalog.Catalog, error) {
	if cfg.Catalog.Path != "" {
		return catalog.LoadFile(cfg.Catalog.Path)
	}
	return catalog.Default()
}
