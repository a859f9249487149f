// Package cache is a Redis read-through cache in front of the diagram
// repository.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/atlantis-diagrams/atlantis-backend/internal/diagrams"
	"github.com/atlantis-diagrams/atlantis-backend/internal/diagrams/domain"
	"github.com/atlantis-diagrams/atlantis-backend/internal/logging"
)

const (
	keyPrefix  = "atlantis:diagram:"     // atlantis:diagram:{id}
	verPrefix  = "atlantis:diagram-ver:" // atlantis:diagram-ver:{id}, bumped on every write
	epochKey   = "atlantis:diagram-epoch"
	DefaultTTL = 5 * time.Minute
	scanBatch  = 200

	// versionTTL must outlive any repository read, or a counter could expire
	// and restart at the value a slow reader captured.
	versionTTL = time.Hour
)

var errStaleFill = errors.New("diagram changed during read")

// Service caches GetByID and forwards everything else to the wrapped service,
// invalidating keys after successful writes.
type Service struct {
	next   diagrams.Service
	client *redis.Client
	ttl    time.Duration
}

var _ diagrams.Service = (*Service)(nil)

func New(next diagrams.Service, client *redis.Client, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{next: next, client: client, ttl: ttl}
}

func key(id string) string    { return keyPrefix + id }
func verKey(id string) string { return verPrefix + id }

// Ping reports whether Redis answers.
func (s *Service) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Diagram, bool, error) {
	data, err := s.client.Get(ctx, key(id)).Bytes()
	switch {
	case err == nil:
		var d domain.Diagram
		uerr := json.Unmarshal(data, &d)
		if uerr == nil {
			return &d, true, nil
		}
		logging.New(ctx).Warn("cache.get", logging.Sanitize(uerr))
	case errors.Is(err, redis.Nil):
	default:
		logging.New(ctx).Warn("cache.get", logging.Sanitize(err))
	}

	// The version is read before the repository so a write that lands in
	// between is seen by fill and the stale copy is dropped.
	ver, verErr := s.version(ctx, id)

	d, found, err := s.next.GetByID(ctx, id)
	if err != nil || !found {
		return d, found, err
	}
	if verErr == nil {
		s.fill(ctx, d, ver)
	}
	return d, true, nil
}

// version returns the write counter of id joined with the flush epoch.
func (s *Service) version(ctx context.Context, id string) ([]any, error) {
	return s.client.MGet(ctx, verKey(id), epochKey).Result()
}

// fill stores d only if neither the diagram nor the whole cache was
// invalidated since ver was read.
func (s *Service) fill(ctx context.Context, d *domain.Diagram, ver []any) {
	data, err := json.Marshal(d)
	if err != nil {
		logging.New(ctx).Warn("cache.set", logging.Sanitize(err))
		return
	}
	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.MGet(ctx, verKey(d.ID), epochKey).Result()
		if err != nil {
			return err
		}
		if !slices.Equal(cur, ver) {
			return errStaleFill
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, key(d.ID), data, s.ttl)
			return nil
		})
		return err
	}, verKey(d.ID), epochKey)
	switch {
	case err == nil, errors.Is(err, errStaleFill), errors.Is(err, redis.TxFailedErr):
	default:
		logging.New(ctx).Warn("cache.set", logging.Sanitize(err))
	}
}

// invalidate bumps the version of id and drops its entry in one MULTI, so a
// concurrent fill either lands before it or is refused.
func (s *Service) invalidate(ctx context.Context, id string) {
	ctx = context.WithoutCancel(ctx)
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Incr(ctx, verKey(id))
		p.Expire(ctx, verKey(id), versionTTL)
		p.Del(ctx, key(id))
		return nil
	})
	if err != nil {
		logging.New(ctx).Warn("cache.del", logging.Sanitize(err))
	}
}

// Flush removes every cached diagram. The epoch is bumped first so fills
// already in flight are refused.
func (s *Service) Flush(ctx context.Context) error {
	ctx = context.WithoutCancel(ctx)
	if err := s.client.Incr(ctx, epochKey).Err(); err != nil {
		return fmt.Errorf("bump cache epoch: %w", err)
	}
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, keyPrefix+"*", scanBatch).Result()
		if err != nil {
			return fmt.Errorf("scan cache keys: %w", err)
		}
		if len(keys) > 0 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("delete cache keys: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

func (s *Service) Create(ctx context.Context, in domain.CreateInput) (*domain.Diagram, error) {
	return s.next.Create(ctx, in)
}

func (s *Service) ListPage(ctx context.Context, q domain.PageQuery) (*domain.Page, error) {
	return s.next.ListPage(ctx, q)
}

func (s *Service) Update(ctx context.Context, id string, in domain.UpdateInput) (*domain.Diagram, bool, error) {
	d, found, err := s.next.Update(ctx, id, in)
	if err == nil && found {
		s.invalidate(ctx, id)
	}
	return d, found, err
}

func (s *Service) CreateCheckpoint(ctx context.Context, id string, in domain.CheckpointInput) (*domain.CheckpointResult, bool, error) {
	res, found, err := s.next.CreateCheckpoint(ctx, id, in)
	if err == nil && found {
		s.invalidate(ctx, id)
	}
	return res, found, err
}

func (s *Service) ListCheckpoints(ctx context.Context, id string) ([]domain.Checkpoint, error) {
	return s.next.ListCheckpoints(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	deleted, err := s.next.Delete(ctx, id)
	if err == nil && deleted {
		s.invalidate(ctx, id)
	}
	return deleted, err
}

func (s *Service) RestoreAll(ctx context.Context, records []domain.RestoreRecord) error {
	if err := s.next.RestoreAll(ctx, records); err != nil {
		return err
	}
	if err := s.Flush(ctx); err != nil {
		logging.New(ctx).Warn("cache.flush", logging.Sanitize(err))
	}
	return nil
}

func (s *Service) Export(ctx context.Context) ([]domain.Diagram, error) {
	return s.next.Export(ctx)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.next.Count(ctx)
}
