package cli

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/S0okJu/openstack-mcp-sample/internal/api"
	"github.com/S0okJu/openstack-mcp-sample/internal/security"
	"github.com/S0okJu/openstack-mcp-sample/internal/storage"
)

func newServeCommand() *cobra.Command {
	var (
		addr   string
		dbPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve stored runs and the catalog over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = cfg.API.Addr
			}
			if dbPath == "" {
				dbPath = cfg.Database.DSN
			}

			cat, err := loadCatalog()
			if err != nil {
				return err
			}
			db, err := storage.OpenSQLite(dbPath)
			if err != nil {
				return fmt.Errorf("db open: %w", err)
			}
			defer db.Close()
			if err := db.CreateSchema(); err != nil {
				return fmt.Errorf("db schema: %w", err)
			}

			srv := &api.Server{
				DB:              db,
				UserStore:       db,
				Catalog:         cat,
				Logger:          logger,
				SessionDuration: time.Duration(cfg.API.SessionMinutes) * time.Minute,
			}
			logger.Infow("api listening", "addr", addr)
			return http.ListenAndServe(addr, srv.Routes())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path")
	return cmd
}

func newUserCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage API users",
	}

	var (
		password string
		role     string
		dbPath   string
	)
	add := &cobra.Command{
		Use:   "add <username>",
		Short: "Create an API user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				dbPath = cfg.Database.DSN
			}
			if password == "" {
				return fmt.Errorf("--password is required")
			}
			hash, err := security.HashPassword(password)
			if err != nil {
				return err
			}
			db, err := storage.OpenSQLite(dbPath)
			if err != nil {
				return fmt.Errorf("db open: %w", err)
			}
			defer db.Close()
			if err := db.CreateSchema(); err != nil {
				return fmt.Errorf("db schema: %w", err)
			}
			id, err := db.CreateUser(args[0], hash, role)
			if err != nil {
				return fmt.Errorf("create user: %w", err)
			}
			fmt.Printf("user %s created (id=%d, role=%s)\n", args[0], id, role)
			return nil
		},
	}
	add.Flags().StringVar(&password, "password", "", "Password for the new user")
	add.Flags().StringVar(&role, "role", "viewer", "Role (viewer|admin)")
	add.Flags().StringVar(&dbPath, "db", "", "SQLite database path")

	cmd.AddCommand(add)
	return cmd
}
