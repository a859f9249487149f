// Package jobs runs the periodic maintenance tasks: search vector backfill and
// scheduled backups.
package jobs

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/atlantis-diagrams/atlantis-backend/internal/backup"
	"github.com/atlantis-diagrams/atlantis-backend/internal/diagrams"
)

// Backfiller fills in missing search vectors.
type Backfiller interface {
	BackfillSearchVectors(ctx context.Context) (int, error)
}

type Config struct {
	BackfillSchedule string
	BackupSchedule   string
}

type Scheduler struct {
	cron     *cron.Cron
	ctx      context.Context
	cancel   context.CancelFunc
	backfill Backfiller
	svc      diagrams.Service
	sink     backup.Sink
	now      func() time.Time
}

// NewScheduler registers the configured jobs. An empty schedule disables
// that job; the backup job also needs a sink.
func NewScheduler(cfg Config, backfill Backfiller, svc diagrams.Service, sink backup.Sink) (*Scheduler, error) {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		ctx:      ctx,
		cancel:   cancel,
		backfill: backfill,
		svc:      svc,
		sink:     sink,
		now:      time.Now,
	}

	if cfg.BackfillSchedule != "" && backfill != nil {
		if _, err := s.cron.AddFunc(cfg.BackfillSchedule, s.RunBackfill); err != nil {
			cancel()
			return nil, err
		}
	}
	if cfg.BackupSchedule != "" && sink != nil {
		if _, err := s.cron.AddFunc(cfg.BackupSchedule, s.RunBackup); err != nil {
			cancel()
			return nil, err
		}
	}
	return s, nil
}

// Jobs is the number of registered entries.
func (s *Scheduler) Jobs() int { return len(s.cron.Entries()) }

// Start runs one backfill immediately, then starts the cron loop.
func (s *Scheduler) Start() {
	if s.backfill != nil {
		go s.RunBackfill()
	}
	s.cron.Start()
	log.Printf("Cron scheduler started (%d jobs)", s.Jobs())
}

// Stop halts scheduling and waits for running jobs to finish.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
	s.cancel()
}

func (s *Scheduler) RunBackfill() {
	n, err := s.backfill.BackfillSearchVectors(s.ctx)
	if err != nil {
		log.Printf("Search vector backfill failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("Search vector backfill updated %d diagrams", n)
	}
}

func (s *Scheduler) RunBackup() {
	name, err := backup.Run(s.ctx, s.svc, s.sink, s.now())
	if err != nil {
		log.Printf("Scheduled backup failed: %v", err)
		return
	}
	log.Printf("Scheduled backup written: %s", name)
}
