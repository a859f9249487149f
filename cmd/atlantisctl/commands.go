package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/atlantis-diagrams/atlantis-backend/internal/backup"
	"github.com/atlantis-diagrams/atlantis-backend/internal/diagrams/store/filestore"
	"github.com/atlantis-diagrams/atlantis-backend/internal/migrate"
)

func newMigrateFileCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate-file",
		Short: "Import the legacy flat-file document into the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, closeFn, err := a.openRepo(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			path := a.cfg.GetString(cfgKeyDataFile)
			res, err := migrate.FileToRepo(cmd.Context(), path, repo)
			switch {
			case errors.Is(err, migrate.ErrNoSource):
				fmt.Fprintf(cmd.OutOrStdout(), "No %s found. Nothing to migrate.\n", path)
				return nil
			case errors.Is(err, migrate.ErrNotEmpty):
				fmt.Fprintln(cmd.OutOrStdout(), "Database already has diagrams. Aborting migration.")
				return nil
			case err != nil:
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Migrated %d diagrams. Backup saved to %s.\n", res.Migrated, res.Backup)
			return nil
		},
	}
}

func newBackfillCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "backfill",
		Short: "Fill in missing search vectors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, closeFn, err := a.openRepo(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			n, err := repo.BackfillSearchVectors(cmd.Context())
			if err != nil {
				return fmt.Errorf("backfill: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Backfilled search vectors for %d diagrams.\n", n)
			return nil
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export [path]",
		Short: "Write every diagram as a backup document",
		Long: `Write every diagram as a backup document. Without a path the document
goes to a timestamped file in the backup directory; "-" writes to stdout.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, closeFn, err := a.openRepo(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			ds, err := repo.Export(cmd.Context())
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}
			data, err := backup.Encode(ds)
			if err != nil {
				return err
			}

			var path string
			if len(args) == 1 {
				path = args[0]
			}
			if path == "-" {
				_, err := cmd.OutOrStdout().Write(append(data, '\n'))
				return err
			}
			if path == "" {
				dir := a.cfg.GetString(cfgKeyBackupDir)
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return err
				}
				path = filepath.Join(dir, backup.ObjectName(time.Now()))
			}
			if err := filestore.WriteFileAtomic(path, data); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d diagrams to %s.\n", len(ds), path)
			return nil
		},
	}
}

func newRestoreCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <path>",
		Short: "Replace every diagram with the contents of a backup document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("read backup: %w", err)
			}
			records, err := backup.Decode(data)
			if err != nil {
				return err
			}

			repo, closeFn, err := a.openRepo(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			cached, closeCache, err := a.openCache(cmd.Context(), repo)
			if err != nil {
				return err
			}
			defer closeCache()

			if err := repo.RestoreAll(cmd.Context(), records); err != nil {
				return fmt.Errorf("restore: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored %d diagrams.\n", len(records))

			if cached == nil {
				return nil
			}
			if err := cached.Flush(cmd.Context()); err != nil {
				return fmt.Errorf("flush cache: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Flushed cached diagrams.")
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "atlantisctl %s\n", Version)
		},
	}
}
