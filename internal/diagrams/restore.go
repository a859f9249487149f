package diagrams

import (
	"context"
	"fmt"
	"time"

	"github.com/atlantis-diagrams/atlantis-backend/internal/diagrams/domain"
	"github.com/atlantis-diagrams/atlantis-backend/internal/diagrams/store"
)

// RestoreAll replaces every diagram and snapshot with records in one unit of
// work. Ids and favorite flags are kept; missing timestamps default to now.
func (r *Repo) RestoreAll(ctx context.Context, records []domain.RestoreRecord) error {
	return r.write(ctx, func(ctx context.Context, tx store.Tx) error {
		if err := tx.DeleteAll(ctx); err != nil {
			return err
		}

		now := r.clock.Now()
		for _, rec := range records {
			d := diagramFromRecord(rec, now, domain.RandomEmoji)
			if err := tx.InsertDiagram(ctx, rowOf(d)); err != nil {
				return fmt.Errorf("restore %s: %w", rec.ID, err)
			}
			contentID, err := domain.EnsureUnique(ctx, tx.SnapshotExists)
			if err != nil {
				return fmt.Errorf("allocate snapshot id: %w", err)
			}
			if err := tx.InsertSnapshot(ctx, store.SnapshotRow{
				ID: contentID, DiagramID: d.ID, Content: d.Content, UpdatedAt: store.ToNanos(d.UpdatedAt),
			}); err != nil {
				return fmt.Errorf("restore %s: %w", rec.ID, err)
			}
		}
		return nil
	})
}

// ImportLegacy inserts diagrams read from the flat-file document without
// wiping anything. Records without an id are skipped. It returns the number
// of diagrams imported.
func (r *Repo) ImportLegacy(ctx context.Context, legacy []domain.Diagram) (int, error) {
	imported := 0
	err := r.write(ctx, func(ctx context.Context, tx store.Tx) error {
		now := r.clock.Now()
		for _, l := range legacy {
			if l.ID == "" {
				continue
			}
			rec := domain.RestoreRecord{
				ID: l.ID, Title: l.Title, Content: l.Content, Emoji: l.Emoji,
				IsFavorite: l.IsFavorite, CreatedAt: l.CreatedAt, UpdatedAt: l.UpdatedAt,
			}
			d := diagramFromRecord(rec, now, func() string { return domain.LegacyEmoji })
			if err := tx.InsertDiagram(ctx, rowOf(d)); err != nil {
				return fmt.Errorf("import %s: %w", l.ID, err)
			}

			suffix, err := domain.NewID()
			if err != nil {
				return err
			}
			if err := tx.InsertSnapshot(ctx, store.SnapshotRow{
				ID: d.ID + "-" + suffix, DiagramID: d.ID, Content: d.Content, UpdatedAt: store.ToNanos(d.UpdatedAt),
			}); err != nil {
				return fmt.Errorf("import %s: %w", l.ID, err)
			}
			imported++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return imported, nil
}

func diagramFromRecord(rec domain.RestoreRecord, now time.Time, emoji func() string) domain.Diagram {
	d := domain.Diagram{
		ID:         rec.ID,
		Title:      rec.Title,
		Content:    rec.Content,
		Emoji:      rec.Emoji,
		IsFavorite: rec.IsFavorite,
		CreatedAt:  rec.CreatedAt.UTC(),
		UpdatedAt:  rec.UpdatedAt.UTC(),
	}
	if d.Title == "" {
		d.Title = domain.DefaultTitle
	}
	if d.Emoji == "" {
		d.Emoji = emoji()
	}
	if rec.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	if rec.UpdatedAt.IsZero() {
		d.UpdatedAt = d.CreatedAt
	}
	d.SearchVector = domain.BuildSearchVector(d.Title, d.Content)
	return d
}
