package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/atlantis-diagrams/atlantis-backend/internal/diagrams/domain"
	"github.com/atlantis-diagrams/atlantis-backend/internal/diagrams/store"
)

const diagramColumns = `d.id, d.title, d.emoji, d.is_favorite, d.search_vector, d.created_at, d.updated_at,
  COALESCE((
    SELECT c.content FROM contents c
    WHERE c.diagram_id = d.id
    ORDER BY c.updated_at DESC, c.id DESC
    LIMIT 1
  ), '')`

const searchClause = ` WHERE d.search_vector LIKE ? ESCAPE '\'`

type sqlTx struct {
	tx       *sql.Tx
	d        dialect
	lockRows bool
}

func (t *sqlTx) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return t.tx.ExecContext(ctx, t.d.rebind(query), args...)
}

func (t *sqlTx) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return t.tx.QueryContext(ctx, t.d.rebind(query), args...)
}

func (t *sqlTx) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return t.tx.QueryRowContext(ctx, t.d.rebind(query), args...)
}

func (t *sqlTx) exists(ctx context.Context, table, id string) (bool, error) {
	var one int
	err := t.queryRow(ctx, `SELECT 1 FROM `+table+` WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup %s: %w", table, err)
	}
	return true, nil
}

func (t *sqlTx) DiagramExists(ctx context.Context, id string) (bool, error) {
	return t.exists(ctx, "diagrams", id)
}

func (t *sqlTx) SnapshotExists(ctx context.Context, id string) (bool, error) {
	return t.exists(ctx, "contents", id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDiagram(s rowScanner) (*domain.Diagram, error) {
	var (
		d                    domain.Diagram
		createdAt, updatedAt int64
	)
	if err := s.Scan(&d.ID, &d.Title, &d.Emoji, &d.IsFavorite, &d.SearchVector, &createdAt, &updatedAt, &d.Content); err != nil {
		return nil, err
	}
	d.CreatedAt = store.FromNanos(createdAt)
	d.UpdatedAt = store.FromNanos(updatedAt)
	return &d, nil
}

func (t *sqlTx) GetDiagram(ctx context.Context, id string) (*domain.Diagram, bool, error) {
	q := `SELECT ` + diagramColumns + ` FROM diagrams d WHERE d.id = ?`
	if t.lockRows {
		q += ` FOR UPDATE`
	}
	d, err := scanDiagram(t.queryRow(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get diagram: %w", err)
	}
	return d, true, nil
}

func (t *sqlTx) InsertDiagram(ctx context.Context, row store.DiagramRow) error {
	_, err := t.exec(ctx, `
INSERT INTO diagrams (id, title, emoji, is_favorite, search_vector, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		row.ID, row.Title, row.Emoji, row.IsFavorite, row.SearchVector, row.CreatedAt, row.UpdatedAt)
	return wrapWrite("insert diagram", err)
}

func (t *sqlTx) UpdateDiagram(ctx context.Context, row store.DiagramRow) error {
	_, err := t.exec(ctx, `
UPDATE diagrams
SET title = ?, emoji = ?, is_favorite = ?, search_vector = ?, updated_at = ?
WHERE id = ?`,
		row.Title, row.Emoji, row.IsFavorite, row.SearchVector, row.UpdatedAt, row.ID)
	return wrapWrite("update diagram", err)
}

func (t *sqlTx) DeleteDiagram(ctx context.Context, id string) (bool, error) {
	// Snapshots are removed explicitly as well as by the cascade.
	if _, err := t.exec(ctx, `DELETE FROM contents WHERE diagram_id = ?`, id); err != nil {
		return false, fmt.Errorf("delete snapshots: %w", err)
	}
	res, err := t.exec(ctx, `DELETE FROM diagrams WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete diagram: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete diagram: %w", err)
	}
	return n > 0, nil
}

func (t *sqlTx) DeleteAll(ctx context.Context) error {
	if _, err := t.exec(ctx, `DELETE FROM contents`); err != nil {
		return fmt.Errorf("wipe snapshots: %w", err)
	}
	if _, err := t.exec(ctx, `DELETE FROM diagrams`); err != nil {
		return fmt.Errorf("wipe diagrams: %w", err)
	}
	return nil
}

func (t *sqlTx) InsertSnapshot(ctx context.Context, row store.SnapshotRow) error {
	_, err := t.exec(ctx, `
INSERT INTO contents (id, diagram_id, content, updated_at)
VALUES (?, ?, ?, ?)`,
		row.ID, row.DiagramID, row.Content, row.UpdatedAt)
	return wrapWrite("insert snapshot", err)
}

func (t *sqlTx) UpdateLatestSnapshot(ctx context.Context, diagramID, content string, at int64) (bool, error) {
	res, err := t.exec(ctx, `
UPDATE contents
SET content = ?, updated_at = ?
WHERE id = (
  SELECT c.id FROM contents c
  WHERE c.diagram_id = ?
  ORDER BY c.updated_at DESC, c.id DESC
  LIMIT 1
)`, content, at, diagramID)
	if err != nil {
		return false, fmt.Errorf("update snapshot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update snapshot: %w", err)
	}
	return n > 0, nil
}

func (t *sqlTx) PruneSnapshots(ctx context.Context, diagramID string, keep int) error {
	_, err := t.exec(ctx, `
DELETE FROM contents
WHERE diagram_id = ?
  AND id NOT IN (
    SELECT c.id FROM contents c
    WHERE c.diagram_id = ?
    ORDER BY c.updated_at DESC, c.id DESC
    LIMIT ?
  )`, diagramID, diagramID, keep)
	if err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}

func (t *sqlTx) ListSnapshots(ctx context.Context, diagramID string, limit int) ([]domain.Checkpoint, error) {
	rows, err := t.query(ctx, `
SELECT id, diagram_id, content, updated_at
FROM contents
WHERE diagram_id = ?
ORDER BY updated_at DESC, id DESC
LIMIT ?`, diagramID, limit)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Checkpoint, 0, limit)
	for rows.Next() {
		var (
			cp domain.Checkpoint
			at int64
		)
		if err := rows.Scan(&cp.ID, &cp.DiagramID, &cp.Content, &at); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		cp.UpdatedAt = store.FromNanos(at)
		out = append(out, cp)
	}
	return out, rows.Err()
}

func (t *sqlTx) CountDiagrams(ctx context.Context, query string) (int, error) {
	q := `SELECT COUNT(*) FROM diagrams d`
	var args []any
	if query != "" {
		q += searchClause
		args = append(args, escapeLike(query))
	}
	var n int
	if err := t.queryRow(ctx, q, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count diagrams: %w", err)
	}
	return n, nil
}

func (t *sqlTx) ListDiagrams(ctx context.Context, lq store.ListQuery) ([]domain.Diagram, error) {
	q := `SELECT ` + diagramColumns + ` FROM diagrams d`
	var args []any
	if lq.Query != "" {
		q += searchClause
		args = append(args, escapeLike(lq.Query))
	}
	q += ` ORDER BY d.updated_at DESC, d.id DESC LIMIT ? OFFSET ?`
	args = append(args, lq.Limit, lq.Offset)
	return t.collect(ctx, "list diagrams", q, args...)
}

func (t *sqlTx) ListAll(ctx context.Context) ([]domain.Diagram, error) {
	return t.collect(ctx, "list all diagrams",
		`SELECT `+diagramColumns+` FROM diagrams d ORDER BY d.updated_at DESC, d.id DESC`)
}

func (t *sqlTx) MissingSearchVectors(ctx context.Context, limit int) ([]domain.Diagram, error) {
	return t.collect(ctx, "list missing search vectors",
		`SELECT `+diagramColumns+` FROM diagrams d WHERE d.search_vector = '' ORDER BY d.id LIMIT ?`, limit)
}

func (t *sqlTx) SetSearchVector(ctx context.Context, id, vector string) error {
	_, err := t.exec(ctx, `UPDATE diagrams SET search_vector = ? WHERE id = ?`, vector, id)
	return wrapWrite("set search vector", err)
}

func (t *sqlTx) collect(ctx context.Context, op, q string, args ...any) ([]domain.Diagram, error) {
	rows, err := t.query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := []domain.Diagram{}
	for rows.Next() {
		d, err := scanDiagram(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func wrapWrite(op string, err error) error {
	if err == nil {
		return nil
	}
	if isConflict(err) {
		return fmt.Errorf("%s: %w: %v", op, store.ErrConflict, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
