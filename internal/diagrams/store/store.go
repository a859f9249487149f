// Package store defines the storage contract the diagram repository runs on.
//
// A Store only guarantees that each unit of work passed to Update commits or
// rolls back as a whole. Consistency rules (defaults, derived search fields,
// checkpoint retention) belong to the repository.
package store

import (
	"context"
	"errors"

	"github.com/atlantis-diagrams/atlantis-backend/internal/diagrams/domain"
)

var (
	ErrConflict = errors.New("conflict")
	ErrClosed   = errors.New("store closed")
)

// Capabilities describes what a backend does natively.
type Capabilities struct {
	Name string
	// ContainsFilter is set when CountDiagrams and ListDiagrams evaluate the
	// substring query, ordering and paging themselves.
	ContainsFilter bool
	// History is set when every InsertSnapshot is kept as its own row.
	History bool
}

type Store interface {
	Update(ctx context.Context, fn func(Tx) error) error
	View(ctx context.Context, fn func(Tx) error) error
	Capabilities() Capabilities
	Ping(ctx context.Context) error
	Close() error
}

// DiagramRow is the persisted diagram metadata.
type DiagramRow struct {
	ID           string
	Title        string
	Emoji        string
	IsFavorite   bool
	SearchVector string
	CreatedAt    int64
	UpdatedAt    int64
}

type SnapshotRow struct {
	ID        string
	DiagramID string
	Content   string
	UpdatedAt int64
}

// ListQuery selects a page of diagrams ordered by updated_at then id, both
// descending. An empty Query matches everything.
type ListQuery struct {
	Query  string
	Limit  int
	Offset int
}

type Tx interface {
	DiagramExists(ctx context.Context, id string) (bool, error)
	SnapshotExists(ctx context.Context, id string) (bool, error)

	// GetDiagram returns the diagram joined with its newest snapshot, or
	// found=false.
	GetDiagram(ctx context.Context, id string) (d *domain.Diagram, found bool, err error)
	InsertDiagram(ctx context.Context, row DiagramRow) error
	UpdateDiagram(ctx context.Context, row DiagramRow) error
	DeleteDiagram(ctx context.Context, id string) (bool, error)
	DeleteAll(ctx context.Context) error

	InsertSnapshot(ctx context.Context, row SnapshotRow) error
	// UpdateLatestSnapshot rewrites the newest snapshot of a diagram and
	// reports false when the diagram has none.
	UpdateLatestSnapshot(ctx context.Context, diagramID, content string, at int64) (bool, error)
	// PruneSnapshots keeps only the newest keep snapshots.
	PruneSnapshots(ctx context.Context, diagramID string, keep int) error
	ListSnapshots(ctx context.Context, diagramID string, limit int) ([]domain.Checkpoint, error)

	CountDiagrams(ctx context.Context, query string) (int, error)
	ListDiagrams(ctx context.Context, q ListQuery) ([]domain.Diagram, error)
	// ListAll returns every diagram with its current content, newest first.
	ListAll(ctx context.Context) ([]domain.Diagram, error)

	MissingSearchVectors(ctx context.Context, limit int) ([]domain.Diagram, error)
	SetSearchVector(ctx context.Context, id, vector string) error
}
