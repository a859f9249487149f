// Package backup produces and restores the full-collection JSON document and
// ships scheduled copies of it to a Sink.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/atlantis-diagrams/atlantis-backend/internal/diagrams"
	"github.com/atlantis-diagrams/atlantis-backend/internal/diagrams/domain"
)

const FileName = "atlantis-backup.json"

var (
	ErrInvalidFormat = errors.New("invalid backup format")
	ErrInvalidItem   = errors.New("invalid diagram data in backup")
)

// Encode renders diagrams as an indented JSON array.
func Encode(ds []domain.Diagram) ([]byte, error) {
	if ds == nil {
		ds = []domain.Diagram{}
	}
	return json.MarshalIndent(ds, "", "  ")
}

// Decode parses a backup document. Every item needs a non-empty id, title
// and content.
func Decode(data []byte) ([]domain.RestoreRecord, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrInvalidFormat
	}
	var records []domain.RestoreRecord
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	for i, r := range records {
		if r.ID == "" || r.Title == "" || r.Content == "" {
			return nil, fmt.Errorf("%w: item %d", ErrInvalidItem, i)
		}
	}
	return records, nil
}

// Sink stores a finished backup document under name.
type Sink interface {
	Put(ctx context.Context, name string, data []byte) error
}

// ObjectName is the timestamped name used for scheduled backups.
func ObjectName(at time.Time) string {
	return "atlantis-backup-" + at.UTC().Format("20060102T150405Z") + ".json"
}

// Run exports every diagram and writes the document to sink.
func Run(ctx context.Context, svc diagrams.Service, sink Sink, at time.Time) (string, error) {
	ds, err := svc.Export(ctx)
	if err != nil {
		return "", fmt.Errorf("export diagrams: %w", err)
	}
	data, err := Encode(ds)
	if err != nil {
		return "", fmt.Errorf("encode backup: %w", err)
	}
	name := ObjectName(at)
	if err := sink.Put(ctx, name, data); err != nil {
		return "", fmt.Errorf("store backup %s: %w", name, err)
	}
	return name, nil
}
