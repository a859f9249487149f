package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/atlantis-diagrams/atlantis-backend/config"
	"github.com/atlantis-diagrams/atlantis-backend/internal/diagrams/store"
	"github.com/atlantis-diagrams/atlantis-backend/internal/diagrams/store/filestore"
	"github.com/atlantis-diagrams/atlantis-backend/internal/diagrams/store/sqlstore"
)

type StoreOptions struct {
	Storage   config.StorageConfig
	ConnectTO time.Duration
	PingTO    time.Duration
}

// OpenStore opens the configured backend and checks that it answers.
func OpenStore(ctx context.Context, opt StoreOptions) (store.Store, error) {
	if opt.PingTO == 0 {
		opt.PingTO = 2 * time.Second
	}

	var (
		s   store.Store
		err error
	)
	switch opt.Storage.Backend {
	case config.BackendFile:
		s, err = filestore.Open(opt.Storage.DataFile)
	case config.BackendSQL, "":
		s, err = sqlstore.Open(ctx, sqlstore.Options{
			URL:         opt.Storage.DatabaseURL,
			Driver:      opt.Storage.Driver,
			MaxConns:    opt.Storage.MaxConns,
			AutoMigrate: opt.Storage.AutoMigrate,
			ConnectTO:   opt.ConnectTO,
		})
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opt.Storage.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", opt.Storage.Backend, err)
	}

	pctx, cancel := context.WithTimeout(ctx, opt.PingTO)
	defer cancel()

	if err := s.Ping(pctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("store ping: %w", err)
	}
	return s, nil
}
