package jobs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlantis-diagrams/atlantis-backend/internal/backup"
	"github.com/atlantis-diagrams/atlantis-backend/internal/diagrams"
	"github.com/atlantis-diagrams/atlantis-backend/internal/diagrams/domain"
	"github.com/atlantis-diagrams/atlantis-backend/internal/diagrams/store/filestore"
)

type countingBackfill struct {
	calls atomic.Int32
	err   error
}

func (b *countingBackfill) BackfillSearchVectors(context.Context) (int, error) {
	b.calls.Add(1)
	return 0, b.err
}

func newRepo(t *testing.T) *diagrams.Repo {
	t.Helper()
	fs, err := filestore.Open(filepath.Join(t.TempDir(), "diagrams.json"))
	require.NoError(t, err)
	return diagrams.NewRepo(fs)
}

func TestNewSchedulerRegistersConfiguredJobs(t *testing.T) {
	repo := newRepo(t)
	sink := backup.DirSink{Dir: t.TempDir()}

	s, err := NewScheduler(Config{BackfillSchedule: "0 0 * * * *", BackupSchedule: "0 30 2 * * *"}, repo, repo, sink)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Jobs())

	s, err = NewScheduler(Config{BackfillSchedule: "0 0 * * * *", BackupSchedule: "0 30 2 * * *"}, repo, repo, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Jobs())

	s, err = NewScheduler(Config{}, repo, repo, sink)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Jobs())

	_, err = NewScheduler(Config{BackfillSchedule: "every hour"}, repo, repo, nil)
	assert.Error(t, err)
}

func TestStartRunsBackfillOnce(t *testing.T) {
	b := &countingBackfill{err: errors.New("db down")}
	s, err := NewScheduler(Config{BackfillSchedule: "0 0 0 1 1 *"}, b, nil, nil)
	require.NoError(t, err)

	s.Start()
	assert.Eventually(t, func() bool { return b.calls.Load() == 1 }, time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}

func TestRunBackupWritesSink(t *testing.T) {
	repo := newRepo(t)
	_, err := repo.Create(context.Background(), domain.CreateInput{})
	require.NoError(t, err)

	dir := t.TempDir()
	s, err := NewScheduler(Config{}, repo, repo, backup.DirSink{Dir: dir, Keep: 3})
	require.NoError(t, err)
	s.now = func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }

	s.RunBackup()

	data, err := os.ReadFile(filepath.Join(dir, "atlantis-backup-20250601T000000Z.json"))
	require.NoError(t, err)
	recs, err := backup.Decode(data)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}
