package diagrams

import (
	"context"
	"fmt"
	"time"

	"github.com/atlantis-diagrams/atlantis-backend/internal/diagrams/domain"
	"github.com/atlantis-diagrams/atlantis-backend/internal/diagrams/store"
)

const (
	DefaultPageLimit = 24
	MaxPageLimit     = 100
	backfillBatch    = 500
)

// Service is the diagram contract consumed by the HTTP layer, the cache
// decorator and the jobs.
type Service interface {
	Create(ctx context.Context, in domain.CreateInput) (*domain.Diagram, error)
	GetByID(ctx context.Context, id string) (*domain.Diagram, bool, error)
	ListPage(ctx context.Context, q domain.PageQuery) (*domain.Page, error)
	Update(ctx context.Context, id string, in domain.UpdateInput) (*domain.Diagram, bool, error)
	CreateCheckpoint(ctx context.Context, id string, in domain.CheckpointInput) (*domain.CheckpointResult, bool, error)
	ListCheckpoints(ctx context.Context, id string) ([]domain.Checkpoint, error)
	Delete(ctx context.Context, id string) (bool, error)
	RestoreAll(ctx context.Context, records []domain.RestoreRecord) error
	Export(ctx context.Context) ([]domain.Diagram, error)
	Count(ctx context.Context) (int, error)
}

// Repo owns every consistency rule for diagrams and their snapshots. Each
// operation is a single store unit of work. Repo never logs.
type Repo struct {
	store store.Store
	clock *monotonicClock
}

var _ Service = (*Repo)(nil)

type Option func(*Repo)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Repo) { r.clock = newMonotonicClock(now) }
}

func NewRepo(s store.Store, opts ...Option) *Repo {
	r := &Repo{store: s, clock: newMonotonicClock(nil)}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *Repo) Store() store.Store { return r.store }

// write runs a mutating unit detached from request cancellation: a client
// that disconnects does not abort a transaction midway.
func (r *Repo) write(ctx context.Context, fn func(context.Context, store.Tx) error) error {
	ctx = context.WithoutCancel(ctx)
	return r.store.Update(ctx, func(tx store.Tx) error { return fn(ctx, tx) })
}

func (r *Repo) Create(ctx context.Context, in domain.CreateInput) (*domain.Diagram, error) {
	if err := domain.ValidateTitle(in.Title); err != nil {
		return nil, err
	}

	title := domain.DefaultTitle
	if in.Title != nil && *in.Title != "" {
		title = *in.Title
	}
	content := domain.DefaultContent
	if in.Content != nil {
		content = *in.Content
	}
	emoji := ""
	if in.Emoji != nil {
		emoji = *in.Emoji
	}
	if emoji == "" {
		emoji = domain.RandomEmoji()
	}

	var out *domain.Diagram
	err := r.write(ctx, func(ctx context.Context, tx store.Tx) error {
		id, err := domain.EnsureUnique(ctx, tx.DiagramExists)
		if err != nil {
			return fmt.Errorf("allocate diagram id: %w", err)
		}
		contentID, err := domain.EnsureUnique(ctx, tx.SnapshotExists)
		if err != nil {
			return fmt.Errorf("allocate snapshot id: %w", err)
		}

		now := r.clock.Now()
		at := store.ToNanos(now)
		d := domain.Diagram{
			ID:           id,
			Title:        title,
			Content:      content,
			Emoji:        emoji,
			CreatedAt:    now,
			UpdatedAt:    now,
			SearchVector: domain.BuildSearchVector(title, content),
		}
		if err := tx.InsertDiagram(ctx, rowOf(d)); err != nil {
			return err
		}
		if err := tx.InsertSnapshot(ctx, store.SnapshotRow{ID: contentID, DiagramID: id, Content: content, UpdatedAt: at}); err != nil {
			return err
		}
		out = &d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) GetByID(ctx context.Context, id string) (*domain.Diagram, bool, error) {
	var (
		d     *domain.Diagram
		found bool
	)
	err := r.store.View(ctx, func(tx store.Tx) error {
		var err error
		d, found, err = tx.GetDiagram(ctx, id)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return d, found, nil
}

// ClampPage applies the listing defaults and bounds.
func ClampPage(q domain.PageQuery) domain.PageQuery {
	switch {
	case q.Limit <= 0:
		q.Limit = DefaultPageLimit
	case q.Limit > MaxPageLimit:
		q.Limit = MaxPageLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	q.Query = domain.NormalizeQuery(q.Query)
	return q
}

func (r *Repo) ListPage(ctx context.Context, q domain.PageQuery) (*domain.Page, error) {
	q = ClampPage(q)
	lq := store.ListQuery{Query: q.Query, Limit: q.Limit, Offset: q.Offset}

	var (
		items []domain.Diagram
		total int
	)
	err := r.store.View(ctx, func(tx store.Tx) error {
		if !r.store.Capabilities().ContainsFilter {
			all, err := tx.ListAll(ctx)
			if err != nil {
				return err
			}
			items, total = store.FilterPage(all, lq)
			return nil
		}

		var err error
		if total, err = tx.CountDiagrams(ctx, lq.Query); err != nil {
			return err
		}
		items, err = tx.ListDiagrams(ctx, lq)
		return err
	})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Diagram{}
	}

	next := q.Offset + len(items)
	return &domain.Page{
		Items:      items,
		Total:      total,
		HasMore:    next < total,
		NextOffset: next,
	}, nil
}

// Update edits metadata and, when content is given, rewrites the newest
// snapshot in place. updatedAt always advances.
func (r *Repo) Update(ctx context.Context, id string, in domain.UpdateInput) (*domain.Diagram, bool, error) {
	if err := domain.ValidateTitle(in.Title); err != nil {
		return nil, false, err
	}

	var (
		out   *domain.Diagram
		found bool
	)
	err := r.write(ctx, func(ctx context.Context, tx store.Tx) error {
		d, ok, err := tx.GetDiagram(ctx, id)
		if err != nil || !ok {
			return err
		}
		found = true

		applyMeta(d, in.Title, in.Emoji, in.IsFavorite)
		now := r.clock.After(d.UpdatedAt)
		at := store.ToNanos(now)

		if in.Content != nil {
			d.Content = *in.Content
			updated, err := tx.UpdateLatestSnapshot(ctx, id, d.Content, at)
			if err != nil {
				return err
			}
			if !updated {
				contentID, err := domain.EnsureUnique(ctx, tx.SnapshotExists)
				if err != nil {
					return fmt.Errorf("allocate snapshot id: %w", err)
				}
				if err := tx.InsertSnapshot(ctx, store.SnapshotRow{ID: contentID, DiagramID: id, Content: d.Content, UpdatedAt: at}); err != nil {
					return err
				}
			}
		}

		d.UpdatedAt = now
		d.SearchVector = domain.BuildSearchVector(d.Title, d.Content)
		if err := tx.UpdateDiagram(ctx, rowOf(*d)); err != nil {
			return err
		}
		out = d
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return out, found, nil
}

func (r *Repo) Delete(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := r.write(ctx, func(ctx context.Context, tx store.Tx) error {
		var err error
		deleted, err = tx.DeleteDiagram(ctx, id)
		return err
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func (r *Repo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.store.View(ctx, func(tx store.Tx) error {
		var err error
		n, err = tx.CountDiagrams(ctx, "")
		return err
	})
	return n, err
}

// Export returns every diagram with its current content, newest first.
func (r *Repo) Export(ctx context.Context) ([]domain.Diagram, error) {
	var out []domain.Diagram
	err := r.store.View(ctx, func(tx store.Tx) error {
		var err error
		out, err = tx.ListAll(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Diagram{}
	}
	return out, nil
}

// BackfillSearchVectors fills empty search vectors in batches and returns the
// number of diagrams updated.
func (r *Repo) BackfillSearchVectors(ctx context.Context) (int, error) {
	total := 0
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		n := 0
		err := r.store.Update(ctx, func(tx store.Tx) error {
			batch, err := tx.MissingSearchVectors(ctx, backfillBatch)
			if err != nil {
				return err
			}
			for _, d := range batch {
				if err := tx.SetSearchVector(ctx, d.ID, domain.BuildSearchVector(d.Title, d.Content)); err != nil {
					return err
				}
				n++
			}
			return nil
		})
		if err != nil {
			return total, err
		}
		total += n
		if n < backfillBatch {
			return total, nil
		}
	}
}

func applyMeta(d *domain.Diagram, title, emoji *string, fav *bool) {
	if title != nil {
		d.Title = *title
	}
	if emoji != nil {
		d.Emoji = *emoji
	}
	if fav != nil {
		d.IsFavorite = *fav
	}
}

func rowOf(d domain.Diagram) store.DiagramRow {
	return store.DiagramRow{
		ID:           d.ID,
		Title:        d.Title,
		Emoji:        d.Emoji,
		IsFavorite:   d.IsFavorite,
		SearchVector: d.SearchVector,
		CreatedAt:    store.ToNanos(d.CreatedAt),
		UpdatedAt:    store.ToNanos(d.UpdatedAt),
	}
}
