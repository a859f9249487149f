package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/atlantis-diagrams/atlantis-backend/config"
	"github.com/atlantis-diagrams/atlantis-backend/internal/bootstrap"
	"github.com/atlantis-diagrams/atlantis-backend/internal/diagrams"
	"github.com/atlantis-diagrams/atlantis-backend/internal/diagrams/cache"
	"github.com/atlantis-diagrams/atlantis-backend/internal/diagrams/store/sqlstore"
)

// Version is overridden at build time with -ldflags "-X main.Version=...".
var Version = "dev"

type app struct {
	configFile string
	cfg        *viper.Viper
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "atlantisctl",
		Short:         "Maintenance commands for the Atlantis diagram store",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, a.configFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "config file (default: ./atlantis.yaml)")
	pf.String("database-url", "", "database URL (file:... for SQLite, postgres://... for Postgres)")
	pf.String("db-driver", "", "Postgres driver: pgx or pq")
	pf.String("data-file", "", "legacy flat-file document")
	pf.String("backup-dir", "", "directory for exported backups")
	pf.String("redis-addr", "", "Redis cache used by the API; restore flushes it")

	root.AddCommand(
		newMigrateFileCmd(a),
		newBackfillCmd(a),
		newExportCmd(a),
		newRestoreCmd(a),
		newVersionCmd(),
	)
	return root
}

// openRepo opens the relational store, creating the schema when missing.
func (a *app) openRepo(ctx context.Context) (*diagrams.Repo, func(), error) {
	s, err := sqlstore.Open(ctx, sqlstore.Options{
		URL:         a.cfg.GetString(cfgKeyDatabaseURL),
		Driver:      a.cfg.GetString(cfgKeyDBDriver),
		AutoMigrate: true,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	return diagrams.NewRepo(s), func() { _ = s.Close() }, nil
}

// openCache wraps repo with the API's Redis cache when an address is
// configured, so writes made here evict what the API has cached. It returns
// nil without an address.
func (a *app) openCache(ctx context.Context, repo *diagrams.Repo) (*cache.Service, func(), error) {
	client, err := bootstrap.OpenRedis(ctx, config.CacheConfig{
		RedisAddr:     a.cfg.GetString(cfgKeyRedisAddr),
		RedisPassword: a.cfg.GetString(cfgKeyRedisPass),
		RedisDB:       a.cfg.GetInt(cfgKeyRedisDB),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open cache: %w", err)
	}
	if client == nil {
		return nil, func() {}, nil
	}
	return cache.New(repo, client, 0), func() { _ = client.Close() }, nil
}
