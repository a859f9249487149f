package filestore

import (
	"context"
	"fmt"

	"github.com/atlantis-diagrams/atlantis-backend/internal/diagrams/domain"
	"github.com/atlantis-diagrams/atlantis-backend/internal/diagrams/store"
)

type fileTx struct {
	recs  []record
	dirty bool
}

func newFileTx(recs []record) *fileTx {
	cp := make([]record, len(recs))
	copy(cp, recs)
	return &fileTx{recs: cp}
}

func (t *fileTx) records() []record { return t.recs }

func (t *fileTx) index(id string) int {
	for i := range t.recs {
		if t.recs[i].ID == id {
			return i
		}
	}
	return -1
}

func (t *fileTx) toDiagram(r record) domain.Diagram {
	return domain.Diagram{
		ID:           r.ID,
		Title:        r.Title,
		Content:      r.Content,
		Emoji:        r.Emoji,
		IsFavorite:   r.IsFavorite,
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
		SearchVector: domain.BuildSearchVector(r.Title, r.Content),
	}
}

func (t *fileTx) DiagramExists(_ context.Context, id string) (bool, error) {
	return t.index(id) >= 0, nil
}

// SnapshotExists is always false: snapshots have no ids of their own here.
func (t *fileTx) SnapshotExists(context.Context, string) (bool, error) {
	return false, nil
}

func (t *fileTx) GetDiagram(_ context.Context, id string) (*domain.Diagram, bool, error) {
	i := t.index(id)
	if i < 0 {
		return nil, false, nil
	}
	d := t.toDiagram(t.recs[i])
	return &d, true, nil
}

func (t *fileTx) InsertDiagram(_ context.Context, row store.DiagramRow) error {
	if t.index(row.ID) >= 0 {
		return fmt.Errorf("insert diagram %s: %w", row.ID, store.ErrConflict)
	}
	r := record{
		ID:         row.ID,
		Title:      row.Title,
		Emoji:      row.Emoji,
		IsFavorite: row.IsFavorite,
		CreatedAt:  store.FromNanos(row.CreatedAt),
		UpdatedAt:  store.FromNanos(row.UpdatedAt),
	}
	t.recs = append([]record{r}, t.recs...)
	t.dirty = true
	return nil
}

func (t *fileTx) UpdateDiagram(_ context.Context, row store.DiagramRow) error {
	i := t.index(row.ID)
	if i < 0 {
		return nil
	}
	t.recs[i].Title = row.Title
	t.recs[i].Emoji = row.Emoji
	t.recs[i].IsFavorite = row.IsFavorite
	t.recs[i].UpdatedAt = store.FromNanos(row.UpdatedAt)
	t.dirty = true
	return nil
}

func (t *fileTx) DeleteDiagram(_ context.Context, id string) (bool, error) {
	i := t.index(id)
	if i < 0 {
		return false, nil
	}
	t.recs = append(t.recs[:i], t.recs[i+1:]...)
	t.dirty = true
	return true, nil
}

func (t *fileTx) DeleteAll(context.Context) error {
	t.recs = nil
	t.dirty = true
	return nil
}

// InsertSnapshot overwrites the diagram's single content.
func (t *fileTx) InsertSnapshot(_ context.Context, row store.SnapshotRow) error {
	i := t.index(row.DiagramID)
	if i < 0 {
		return fmt.Errorf("insert snapshot: unknown diagram %s", row.DiagramID)
	}
	t.recs[i].Content = row.Content
	t.dirty = true
	return nil
}

func (t *fileTx) UpdateLatestSnapshot(_ context.Context, diagramID, content string, _ int64) (bool, error) {
	i := t.index(diagramID)
	if i < 0 {
		return false, nil
	}
	t.recs[i].Content = content
	t.dirty = true
	return true, nil
}

func (t *fileTx) PruneSnapshots(context.Context, string, int) error { return nil }

// ListSnapshots reports the current content as the only checkpoint, keyed by
// the diagram id.
func (t *fileTx) ListSnapshots(_ context.Context, diagramID string, limit int) ([]domain.Checkpoint, error) {
	i := t.index(diagramID)
	if i < 0 || limit < 1 {
		return []domain.Checkpoint{}, nil
	}
	r := t.recs[i]
	return []domain.Checkpoint{{
		ID:        r.ID,
		DiagramID: r.ID,
		Content:   r.Content,
		UpdatedAt: r.UpdatedAt.UTC(),
	}}, nil
}

func (t *fileTx) CountDiagrams(ctx context.Context, query string) (int, error) {
	all, _ := t.ListAll(ctx)
	_, total := store.FilterPage(all, store.ListQuery{Query: query})
	return total, nil
}

func (t *fileTx) ListDiagrams(ctx context.Context, q store.ListQuery) ([]domain.Diagram, error) {
	all, _ := t.ListAll(ctx)
	page, _ := store.FilterPage(all, q)
	return page, nil
}

func (t *fileTx) ListAll(context.Context) ([]domain.Diagram, error) {
	out := make([]domain.Diagram, 0, len(t.recs))
	for _, r := range t.recs {
		out = append(out, t.toDiagram(r))
	}
	store.SortNewestFirst(out)
	return out, nil
}

// The search vector is derived on read, so nothing is ever missing.
func (t *fileTx) MissingSearchVectors(context.Context, int) ([]domain.Diagram, error) {
	return nil, nil
}

func (t *fileTx) SetSearchVector(context.Context, string, string) error { return nil }
