package app

import (
	"context"
	"time"

	"medicquiz/internal/db"
	"medicquiz/internal/store"

	"go.uber.org/zap"
)

// OpenRepository opens the configured store backend. The returned close
// function releases the database connection, if any.
func OpenRepository(ctx context.Context, cfg Config, log *zap.Logger) (*store.Repository, func(), error) {
	if cfg.StoreBackend != StoreBackendPostgres {
		log.Info("using file store", zap.String("dir", cfg.DataDir))
		return store.NewRepository(store.NewFileBackend(cfg.DataDir), log), func() {}, nil
	}

	conn, err := db.Open(ctx, db.Options{
		DSN:             cfg.DBDSN,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.DBConnMaxLifeMins) * time.Minute,
	})
	if err != nil {
		return nil, nil, err
	}
	backend := store.NewPostgresBackend(conn)
	if err := backend.EnsureSchema(ctx); err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	log.Info("using postgres store", zap.String("dsn", db.Redact(cfg.DBDSN)))
	return store.NewRepository(backend, log), func() { _ = conn.Close() }, nil
}
