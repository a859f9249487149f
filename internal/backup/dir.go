package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/atlantis-diagrams/atlantis-backend/internal/diagrams/store/filestore"
)

// DirSink writes backups into a local directory and keeps the newest Keep
// files. Keep <= 0 keeps everything.
type DirSink struct {
	Dir  string
	Keep int
}

func (s DirSink) Put(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}
	if err := filestore.WriteFileAtomic(filepath.Join(s.Dir, name), data); err != nil {
		return err
	}
	return s.prune()
}

// prune relies on ObjectName sorting chronologically.
func (s DirSink) prune() error {
	if s.Keep <= 0 {
		return nil
	}
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return fmt.Errorf("list backup dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), "atlantis-backup-") && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	if len(names) <= s.Keep {
		return nil
	}
	sort.Strings(names)
	for _, n := range names[:len(names)-s.Keep] {
		if err := os.Remove(filepath.Join(s.Dir, n)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove old backup %s: %w", n, err)
		}
	}
	return nil
}
