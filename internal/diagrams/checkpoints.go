package diagrams

import (
	"context"
	"fmt"

	"github.com/atlantis-diagrams/atlantis-backend/internal/diagrams/domain"
	"github.com/atlantis-diagrams/atlantis-backend/internal/diagrams/store"
)

// CreateCheckpoint appends a new snapshot, applies any metadata changes and
// evicts the oldest snapshots beyond domain.MaxCheckpoints.
func (r *Repo) CreateCheckpoint(ctx context.Context, id string, in domain.CheckpointInput) (*domain.CheckpointResult, bool, error) {
	if err := domain.ValidateTitle(in.Title); err != nil {
		return nil, false, err
	}

	var (
		out   *domain.CheckpointResult
		found bool
	)
	err := r.write(ctx, func(ctx context.Context, tx store.Tx) error {
		d, ok, err := tx.GetDiagram(ctx, id)
		if err != nil || !ok {
			return err
		}
		found = true

		contentID, err := domain.EnsureUnique(ctx, tx.SnapshotExists)
		if err != nil {
			return fmt.Errorf("allocate snapshot id: %w", err)
		}

		applyMeta(d, in.Title, in.Emoji, in.IsFavorite)
		now := r.clock.After(d.UpdatedAt)
		cp := domain.Checkpoint{ID: contentID, DiagramID: id, Content: in.Content, UpdatedAt: now}

		if err := tx.InsertSnapshot(ctx, store.SnapshotRow{
			ID: cp.ID, DiagramID: id, Content: cp.Content, UpdatedAt: store.ToNanos(now),
		}); err != nil {
			return err
		}
		if err := tx.PruneSnapshots(ctx, id, domain.MaxCheckpoints); err != nil {
			return err
		}

		d.Content = in.Content
		d.UpdatedAt = now
		d.SearchVector = domain.BuildSearchVector(d.Title, d.Content)
		if err := tx.UpdateDiagram(ctx, rowOf(*d)); err != nil {
			return err
		}

		out = &domain.CheckpointResult{Checkpoint: cp, Diagram: *d}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return out, found, nil
}

// ListCheckpoints returns up to domain.MaxCheckpoints snapshots, newest first.
// A missing diagram yields an empty slice.
func (r *Repo) ListCheckpoints(ctx context.Context, id string) ([]domain.Checkpoint, error) {
	var out []domain.Checkpoint
	err := r.store.View(ctx, func(tx store.Tx) error {
		var err error
		out, err = tx.ListSnapshots(ctx, id, domain.MaxCheckpoints)
		return err
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Checkpoint{}
	}
	return out, nil
}
