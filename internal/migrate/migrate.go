// Package migrate moves a legacy flat-file diagram document into a
// relational store.
package migrate

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/atlantis-diagrams/atlantis-backend/internal/diagrams"
	"github.com/atlantis-diagrams/atlantis-backend/internal/diagrams/domain"
	"github.com/atlantis-diagrams/atlantis-backend/internal/diagrams/store"
	"github.com/atlantis-diagrams/atlantis-backend/internal/diagrams/store/filestore"
)

var (
	ErrNoSource = errors.New("no legacy data file found")
	ErrNotEmpty = errors.New("database already has diagrams")
)

type Result struct {
	Migrated int
	Backup   string
}

// FileToRepo imports every diagram in the file at path into dst in one unit
// of work and renames the file to path+".bak". It refuses to run against a
// repository that already holds diagrams.
func FileToRepo(ctx context.Context, path string, dst *diagrams.Repo) (Result, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Result{}, ErrNoSource
		}
		return Result{}, fmt.Errorf("stat %s: %w", path, err)
	}

	n, err := dst.Count(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("count diagrams: %w", err)
	}
	if n > 0 {
		return Result{}, ErrNotEmpty
	}

	src, err := filestore.Open(path)
	if err != nil {
		return Result{}, err
	}
	defer src.Close()

	var legacy []domain.Diagram
	err = src.View(ctx, func(tx store.Tx) error {
		var err error
		legacy, err = tx.ListAll(ctx)
		return err
	})
	if err != nil {
		return Result{}, fmt.Errorf("read %s: %w", path, err)
	}

	migrated, err := dst.ImportLegacy(ctx, legacy)
	if err != nil {
		return Result{}, fmt.Errorf("import diagrams: %w", err)
	}

	backup := path + ".bak"
	if err := os.Rename(path, backup); err != nil {
		return Result{Migrated: migrated}, fmt.Errorf("rename %s: %w", path, err)
	}
	return Result{Migrated: migrated, Backup: backup}, nil
}
