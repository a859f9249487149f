package diagrams

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlantis-diagrams/atlantis-backend/internal/diagrams/domain"
	"github.com/atlantis-diagrams/atlantis-backend/internal/diagrams/store"
	"github.com/atlantis-diagrams/atlantis-backend/internal/diagrams/store/filestore"
	"github.com/atlantis-diagrams/atlantis-backend/internal/diagrams/store/sqlstore"
)

func ptr[T any](v T) *T { return &v }

func newSQLRepo(t *testing.T, opts ...Option) *Repo {
	t.Helper()
	s, err := sqlstore.Open(context.Background(), sqlstore.Options{
		URL:         "file:" + filepath.Join(t.TempDir(), "atlantis.db"),
		AutoMigrate: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return NewRepo(s, opts...)
}

func newFileRepo(t *testing.T, opts ...Option) *Repo {
	t.Helper()
	s, err := filestore.Open(filepath.Join(t.TempDir(), "diagrams.json"))
	require.NoError(t, err)
	return NewRepo(s, opts...)
}

// backends runs fn against every store implementation.
func backends(t *testing.T, fn func(t *testing.T, r *Repo)) {
	t.Run("sqlite", func(t *testing.T) { fn(t, newSQLRepo(t)) })
	t.Run("file", func(t *testing.T) { fn(t, newFileRepo(t)) })
}

func TestCreateAndGetRoundTrip(t *testing.T) {
	backends(t, func(t *testing.T, r *Repo) {
		ctx := context.Background()

		d, err := r.Create(ctx, domain.CreateInput{Title: ptr("Flow"), Content: ptr("graph LR; a-->b"), Emoji: ptr("🚀")})
		require.NoError(t, err)
		assert.Regexp(t, `^[a-z0-9]{6}$`, d.ID)
		assert.Equal(t, d.CreatedAt, d.UpdatedAt)

		got, found, err := r.GetByID(ctx, d.ID)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "Flow", got.Title)
		assert.Equal(t, "graph LR; a-->b", got.Content)
		assert.Equal(t, "🚀", got.Emoji)
		assert.False(t, got.IsFavorite)
		assert.True(t, d.CreatedAt.Equal(got.CreatedAt))
	})
}

func TestCreateDefaults(t *testing.T) {
	backends(t, func(t *testing.T, r *Repo) {
		ctx := context.Background()
		d, err := r.Create(ctx, domain.CreateInput{})
		require.NoError(t, err)

		got, found, err := r.GetByID(ctx, d.ID)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, domain.DefaultTitle, got.Title)
		assert.Equal(t, domain.DefaultContent, got.Content)
		assert.True(t, domain.IsKnownEmoji(got.Emoji))
	})
}

func TestCreateRejectsLongTitle(t *testing.T) {
	r := newSQLRepo(t)
	_, err := r.Create(context.Background(), domain.CreateInput{Title: ptr(strings.Repeat("x", 101))})
	assert.ErrorIs(t, err, domain.ErrTitleTooLong)
}

func TestGetByIDMissing(t *testing.T) {
	backends(t, func(t *testing.T, r *Repo) {
		d, found, err := r.GetByID(context.Background(), "nope00")
		require.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, d)
	})
}

func TestUpdateEditsLatestSnapshotInPlace(t *testing.T) {
	backends(t, func(t *testing.T, r *Repo) {
		ctx := context.Background()
		d, err := r.Create(ctx, domain.CreateInput{Content: ptr("v1")})
		require.NoError(t, err)
		before, err := r.ListCheckpoints(ctx, d.ID)
		require.NoError(t, err)

		got, found, err := r.Update(ctx, d.ID, domain.UpdateInput{Content: ptr("v2"), IsFavorite: ptr(true)})
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "v2", got.Content)
		assert.True(t, got.IsFavorite)
		assert.Equal(t, d.Title, got.Title, "unsupplied fields keep their value")
		assert.True(t, got.UpdatedAt.After(d.UpdatedAt))

		after, err := r.ListCheckpoints(ctx, d.ID)
		require.NoError(t, err)
		assert.Len(t, after, len(before))
		assert.Equal(t, "v2", after[0].Content)
	})
}

func TestUpdateAlwaysAdvancesUpdatedAt(t *testing.T) {
	backends(t, func(t *testing.T, r *Repo) {
		ctx := context.Background()
		d, err := r.Create(ctx, domain.CreateInput{})
		require.NoError(t, err)

		got, found, err := r.Update(ctx, d.ID, domain.UpdateInput{})
		require.NoError(t, err)
		require.True(t, found)
		assert.True(t, got.UpdatedAt.After(d.UpdatedAt))

		stored, _, err := r.GetByID(ctx, d.ID)
		require.NoError(t, err)
		assert.True(t, stored.UpdatedAt.Equal(got.UpdatedAt))
	})
}

func TestUpdateMissingAndInvalid(t *testing.T) {
	backends(t, func(t *testing.T, r *Repo) {
		ctx := context.Background()
		d, found, err := r.Update(ctx, "nope00", domain.UpdateInput{Title: ptr("x")})
		require.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, d)

		_, _, err = r.Update(ctx, "nope00", domain.UpdateInput{Title: ptr(strings.Repeat("x", 101))})
		assert.True(t, domain.IsValidation(err))
	})
}

func TestUpdateRecomputesSearchVector(t *testing.T) {
	r := newSQLRepo(t)
	ctx := context.Background()
	d, err := r.Create(ctx, domain.CreateInput{Title: ptr("Old"), Content: ptr("graph TD")})
	require.NoError(t, err)

	_, _, err = r.Update(ctx, d.ID, domain.UpdateInput{Title: ptr("Payments")})
	require.NoError(t, err)

	page, err := r.ListPage(ctx, domain.PageQuery{Query: "payments graph"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "payments graph td", page.Items[0].SearchVector)
}

func TestUpdateInsertsSnapshotWhenNoneExists(t *testing.T) {
	r := newSQLRepo(t)
	ctx := context.Background()
	require.NoError(t, r.Store().Update(ctx, func(tx store.Tx) error {
		return tx.InsertDiagram(ctx, store.DiagramRow{ID: "bare00", Title: "Bare", Emoji: "x", CreatedAt: 1, UpdatedAt: 1})
	}))

	got, found, err := r.Update(ctx, "bare00", domain.UpdateInput{Content: ptr("graph TD")})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "graph TD", got.Content)

	cps, err := r.ListCheckpoints(ctx, "bare00")
	require.NoError(t, err)
	assert.Len(t, cps, 1)
}

func TestCheckpointRetentionCap(t *testing.T) {
	r := newSQLRepo(t)
	ctx := context.Background()
	d, err := r.Create(ctx, domain.CreateInput{Content: ptr("v0")})
	require.NoError(t, err)

	const n = 20
	for i := 1; i <= n; i++ {
		res, found, err := r.CreateCheckpoint(ctx, d.ID, domain.CheckpointInput{Content: fmt.Sprintf("v%d", i)})
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, fmt.Sprintf("v%d", i), res.Diagram.Content)
		assert.Equal(t, res.Checkpoint.Content, res.Diagram.Content)
	}

	cps, err := r.ListCheckpoints(ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, cps, domain.MaxCheckpoints)
	for i, cp := range cps {
		assert.Equal(t, fmt.Sprintf("v%d", n-i), cp.Content)
		if i > 0 {
			assert.True(t, cps[i-1].UpdatedAt.After(cp.UpdatedAt))
		}
	}

	// The evicted snapshots are gone from storage, not just hidden.
	require.NoError(t, r.Store().View(ctx, func(tx store.Tx) error {
		all, err := tx.ListSnapshots(ctx, d.ID, 100)
		require.NoError(t, err)
		assert.Len(t, all, domain.MaxCheckpoints)
		return nil
	}))

	got, _, err := r.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("v%d", n), got.Content)
}

func TestCheckpointVersusUpdateCount(t *testing.T) {
	r := newSQLRepo(t)
	ctx := context.Background()
	d, err := r.Create(ctx, domain.CreateInput{})
	require.NoError(t, err)

	_, _, err = r.Update(ctx, d.ID, domain.UpdateInput{Content: ptr("x")})
	require.NoError(t, err)
	cps, err := r.ListCheckpoints(ctx, d.ID)
	require.NoError(t, err)
	assert.Len(t, cps, 1)

	res, found, err := r.CreateCheckpoint(ctx, d.ID, domain.CheckpointInput{Content: "x", Title: ptr("Renamed"), IsFavorite: ptr(true)})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Renamed", res.Diagram.Title)
	assert.True(t, res.Diagram.IsFavorite)
	assert.Equal(t, d.ID, res.Checkpoint.DiagramID)

	cps, err = r.ListCheckpoints(ctx, d.ID)
	require.NoError(t, err)
	assert.Len(t, cps, 2)
	assert.Equal(t, res.Checkpoint.ID, cps[0].ID)
}

func TestCheckpointMissingAndInvalid(t *testing.T) {
	backends(t, func(t *testing.T, r *Repo) {
		ctx := context.Background()
		res, found, err := r.CreateCheckpoint(ctx, "nope00", domain.CheckpointInput{Content: "x"})
		require.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, res)

		_, _, err = r.CreateCheckpoint(ctx, "nope00", domain.CheckpointInput{Content: "x", Title: ptr(strings.Repeat("y", 101))})
		assert.ErrorIs(t, err, domain.ErrTitleTooLong)

		cps, err := r.ListCheckpoints(ctx, "nope00")
		require.NoError(t, err)
		assert.NotNil(t, cps)
		assert.Empty(t, cps)
	})
}

func TestFileBackendCheckpointOverwrites(t *testing.T) {
	r := newFileRepo(t)
	ctx := context.Background()
	d, err := r.Create(ctx, domain.CreateInput{Content: ptr("v0")})
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		_, found, err := r.CreateCheckpoint(ctx, d.ID, domain.CheckpointInput{Content: fmt.Sprintf("v%d", i)})
		require.NoError(t, err)
		require.True(t, found)
	}

	cps, err := r.ListCheckpoints(ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, cps, 1)
	assert.Equal(t, "v3", cps[0].Content)
}

func TestSearch(t *testing.T) {
	backends(t, func(t *testing.T, r *Repo) {
		ctx := context.Background()
		d, err := r.Create(ctx, domain.CreateInput{Title: ptr("Flowchart Demo"), Content: ptr("graph TD\n  cart[checkout flow]")})
		require.NoError(t, err)
		_, err = r.Create(ctx, domain.CreateInput{Title: ptr("Other"), Content: ptr("pie")})
		require.NoError(t, err)

		page, err := r.ListPage(ctx, domain.PageQuery{Query: "  CHECKOUT "})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, d.ID, page.Items[0].ID)
		assert.Equal(t, 1, page.Total)

		page, err = r.ListPage(ctx, domain.PageQuery{Query: "zzz-no-match"})
		require.NoError(t, err)
		assert.Empty(t, page.Items)
		assert.Equal(t, 0, page.Total)
		assert.False(t, page.HasMore)

		page, err = r.ListPage(ctx, domain.PageQuery{Query: "   "})
		require.NoError(t, err)
		assert.Equal(t, 2, page.Total)
	})
}

func TestPaginationCoversEverythingOnce(t *testing.T) {
	backends(t, func(t *testing.T, r *Repo) {
		ctx := context.Background()
		created := map[string]bool{}
		for i := 0; i < 13; i++ {
			d, err := r.Create(ctx, domain.CreateInput{Title: ptr(fmt.Sprintf("d%02d", i))})
			require.NoError(t, err)
			created[d.ID] = true
		}

		for _, limit := range []int{1, 4, 5, 13, 50} {
			seen := map[string]bool{}
			var last time.Time
			offset := 0
			for {
				page, err := r.ListPage(ctx, domain.PageQuery{Limit: limit, Offset: offset})
				require.NoError(t, err)
				assert.Equal(t, 13, page.Total)
				for _, it := range page.Items {
					assert.False(t, seen[it.ID], "duplicate %s", it.ID)
					seen[it.ID] = true
					if !last.IsZero() {
						assert.False(t, it.UpdatedAt.After(last))
					}
					last = it.UpdatedAt
				}
				assert.Equal(t, offset+len(page.Items), page.NextOffset)
				if !page.HasMore {
					break
				}
				offset = page.NextOffset
			}
			assert.Equal(t, created, seen, "limit %d", limit)
			last = time.Time{}
		}
	})
}

func TestClampPage(t *testing.T) {
	assert.Equal(t, domain.PageQuery{Limit: 24}, ClampPage(domain.PageQuery{}))
	assert.Equal(t, domain.PageQuery{Limit: 100}, ClampPage(domain.PageQuery{Limit: 1000, Offset: -5}))
	assert.Equal(t, domain.PageQuery{Limit: 24, Offset: 3, Query: "abc"}, ClampPage(domain.PageQuery{Limit: -1, Offset: 3, Query: " ABC "}))
}

func TestDeleteSignals(t *testing.T) {
	backends(t, func(t *testing.T, r *Repo) {
		ctx := context.Background()
		ok, err := r.Delete(ctx, "nope00")
		require.NoError(t, err)
		assert.False(t, ok)

		d, err := r.Create(ctx, domain.CreateInput{})
		require.NoError(t, err)
		_, _, err = r.CreateCheckpoint(ctx, d.ID, domain.CheckpointInput{Content: "x"})
		require.NoError(t, err)

		ok, err = r.Delete(ctx, d.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = r.Delete(ctx, d.ID)
		require.NoError(t, err)
		assert.False(t, ok)

		cps, err := r.ListCheckpoints(ctx, d.ID)
		require.NoError(t, err)
		assert.Empty(t, cps)
	})
}

// failingStore injects an error into every snapshot insert.
type failingStore struct {
	store.Store
}

type failingTx struct {
	store.Tx
}

var errInjected = errors.New("injected failure")

func (f failingStore) Update(ctx context.Context, fn func(store.Tx) error) error {
	return f.Store.Update(ctx, func(tx store.Tx) error { return fn(failingTx{tx}) })
}

func (failingTx) InsertSnapshot(context.Context, store.SnapshotRow) error { return errInjected }

func TestCreateIsAtomic(t *testing.T) {
	backends(t, func(t *testing.T, r *Repo) {
		ctx := context.Background()
		broken := NewRepo(failingStore{r.Store()})

		_, err := broken.Create(ctx, domain.CreateInput{Title: ptr("Half")})
		require.ErrorIs(t, err, errInjected)

		n, err := r.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)

		page, err := r.ListPage(ctx, domain.PageQuery{Query: "half"})
		require.NoError(t, err)
		assert.Empty(t, page.Items)
	})
}

func TestRestoreReplaces(t *testing.T) {
	backends(t, func(t *testing.T, r *Repo) {
		ctx := context.Background()
		old, err := r.Create(ctx, domain.CreateInput{Title: ptr("Old")})
		require.NoError(t, err)

		created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		require.NoError(t, r.RestoreAll(ctx, []domain.RestoreRecord{
			{ID: "aaaaaa", Title: "A", Content: "graph TD", Emoji: "🐙", IsFavorite: true, CreatedAt: created, UpdatedAt: created.Add(time.Hour)},
			{ID: "bbbbbb", Title: "B", Content: "pie"},
		}))

		page, err := r.ListPage(ctx, domain.PageQuery{})
		require.NoError(t, err)
		require.Len(t, page.Items, 2)
		got := map[string]domain.Diagram{}
		for _, it := range page.Items {
			got[it.ID] = it
		}
		assert.Contains(t, got, "aaaaaa")
		assert.Contains(t, got, "bbbbbb")
		assert.NotContains(t, got, old.ID)

		a := got["aaaaaa"]
		assert.True(t, a.IsFavorite)
		assert.Equal(t, "🐙", a.Emoji)
		assert.True(t, created.Equal(a.CreatedAt))
		assert.True(t, created.Add(time.Hour).Equal(a.UpdatedAt))
		assert.Equal(t, "graph TD", a.Content)

		b := got["bbbbbb"]
		assert.False(t, b.CreatedAt.IsZero())
		assert.NotEmpty(t, b.Emoji)
	})
}

func TestWritesAfterFutureDatedRestore(t *testing.T) {
	backends(t, func(t *testing.T, r *Repo) {
		ctx := context.Background()
		ahead := time.Now().UTC().Add(time.Hour)
		require.NoError(t, r.RestoreAll(ctx, []domain.RestoreRecord{
			{ID: "future", Title: "F", Content: "old", CreatedAt: ahead, UpdatedAt: ahead},
		}))

		res, found, err := r.CreateCheckpoint(ctx, "future", domain.CheckpointInput{Content: "new"})
		require.NoError(t, err)
		require.True(t, found)
		assert.True(t, res.Checkpoint.UpdatedAt.After(ahead))

		got, _, err := r.GetByID(ctx, "future")
		require.NoError(t, err)
		assert.Equal(t, "new", got.Content)

		cps, err := r.ListCheckpoints(ctx, "future")
		require.NoError(t, err)
		require.Len(t, cps, 2)
		assert.Equal(t, "new", cps[0].Content)

		upd, _, err := r.Update(ctx, "future", domain.UpdateInput{Content: ptr("newer")})
		require.NoError(t, err)
		assert.True(t, upd.UpdatedAt.After(res.Checkpoint.UpdatedAt))

		got, _, err = r.GetByID(ctx, "future")
		require.NoError(t, err)
		assert.Equal(t, "newer", got.Content)

		for i := range domain.MaxCheckpoints {
			_, _, err := r.CreateCheckpoint(ctx, "future", domain.CheckpointInput{Content: fmt.Sprintf("c%d", i)})
			require.NoError(t, err)
		}
		cps, err = r.ListCheckpoints(ctx, "future")
		require.NoError(t, err)
		require.Len(t, cps, domain.MaxCheckpoints)
		assert.Equal(t, fmt.Sprintf("c%d", domain.MaxCheckpoints-1), cps[0].Content)
		for _, cp := range cps {
			assert.NotEqual(t, "old", cp.Content)
		}
	})
}

func TestRestoreDuplicateIDsRollsBack(t *testing.T) {
	backends(t, func(t *testing.T, r *Repo) {
		ctx := context.Background()
		_, err := r.Create(ctx, domain.CreateInput{Title: ptr("Survivor")})
		require.NoError(t, err)

		err = r.RestoreAll(ctx, []domain.RestoreRecord{{ID: "dup000", Title: "A"}, {ID: "dup000", Title: "B"}})
		require.ErrorIs(t, err, store.ErrConflict)

		page, err := r.ListPage(ctx, domain.PageQuery{})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "Survivor", page.Items[0].Title)
	})
}

func TestImportLegacy(t *testing.T) {
	r := newSQLRepo(t)
	ctx := context.Background()
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	n, err := r.ImportLegacy(ctx, []domain.Diagram{
		{ID: "legacy", Title: "", Content: "graph TD", CreatedAt: ts},
		{ID: "", Title: "skipped"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	d, found, err := r.GetByID(ctx, "legacy")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, domain.DefaultTitle, d.Title)
	assert.Equal(t, domain.LegacyEmoji, d.Emoji)
	assert.True(t, ts.Equal(d.UpdatedAt))

	cps, err := r.ListCheckpoints(ctx, "legacy")
	require.NoError(t, err)
	require.Len(t, cps, 1)
	assert.Regexp(t, `^legacy-[a-z0-9]{6}$`, cps[0].ID)
}

func TestBackfillSearchVectors(t *testing.T) {
	r := newSQLRepo(t)
	ctx := context.Background()
	require.NoError(t, r.Store().Update(ctx, func(tx store.Tx) error {
		for i := 0; i < 3; i++ {
			id := fmt.Sprintf("old%03d", i)
			if err := tx.InsertDiagram(ctx, store.DiagramRow{ID: id, Title: "Legacy", Emoji: "x", CreatedAt: 1, UpdatedAt: 1}); err != nil {
				return err
			}
			if err := tx.InsertSnapshot(ctx, store.SnapshotRow{ID: id, DiagramID: id, Content: "Checkout", UpdatedAt: 1}); err != nil {
				return err
			}
		}
		return nil
	}))

	page, err := r.ListPage(ctx, domain.PageQuery{Query: "checkout"})
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	n, err := r.BackfillSearchVectors(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	page, err = r.ListPage(ctx, domain.PageQuery{Query: "checkout"})
	require.NoError(t, err)
	assert.Len(t, page.Items, 3)

	n, err = r.BackfillSearchVectors(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestConcurrentCheckpointsKeepCap(t *testing.T) {
	r := newSQLRepo(t)
	ctx := context.Background()
	d, err := r.Create(ctx, domain.CreateInput{})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, err := r.CreateCheckpoint(ctx, d.ID, domain.CheckpointInput{Content: fmt.Sprintf("c%d", i)})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	cps, err := r.ListCheckpoints(ctx, d.ID)
	require.NoError(t, err)
	assert.Len(t, cps, domain.MaxCheckpoints)

	got, _, err := r.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, cps[0].Content, got.Content)
}

func TestExport(t *testing.T) {
	backends(t, func(t *testing.T, r *Repo) {
		ctx := context.Background()
		empty, err := r.Export(ctx)
		require.NoError(t, err)
		assert.NotNil(t, empty)
		assert.Empty(t, empty)

		_, err = r.Create(ctx, domain.CreateInput{Title: ptr("one")})
		require.NoError(t, err)
		_, err = r.Create(ctx, domain.CreateInput{Title: ptr("two")})
		require.NoError(t, err)

		all, err := r.Export(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "two", all[0].Title)
	})
}

func TestMonotonicClock(t *testing.T) {
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := newMonotonicClock(func() time.Time { return fixed })
	a := c.Now()
	b := c.Now()
	assert.True(t, b.After(a))
	assert.Equal(t, time.Nanosecond, b.Sub(a))
}

func TestMonotonicClockAfterFloor(t *testing.T) {
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := newMonotonicClock(func() time.Time { return fixed })
	floor := fixed.Add(time.Hour)
	a := c.After(floor)
	assert.Equal(t, floor.Add(time.Nanosecond), a)
	assert.True(t, c.Now().After(a))
	assert.True(t, c.After(time.Time{}).After(a))
}
