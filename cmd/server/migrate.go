package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/neuroscreen/portal/internal/config"
	dbstore "github.com/neuroscreen/portal/internal/db"
)

// openSessionStore opens the configured session backend. The sqlite store
// is migrated on open.
func openSessionStore(ctx context.Context, cfg config.SessionConfig, migrationsDir string) (dbstore.SessionStore, error) {
	switch cfg.Store {
	case config.StoreSQLite:
		s, err := dbstore.OpenSQLite(cfg.SQLitePath, migrationsDir)
		if err != nil {
			return nil, fmt.Errorf("sqlite session store: %w", err)
		}
		log.Printf("session store: sqlite at %s", cfg.SQLitePath)
		return s, nil
	case config.StoreRedis:
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		s, err := dbstore.OpenRedis(pingCtx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err != nil {
			return nil, fmt.Errorf("redis session store: %w", err)
		}
		log.Printf("session store: redis at %s db %d", cfg.RedisAddr, cfg.RedisDB)
		return s, nil
	case config.StoreMemory:
		log.Printf("session store: memory (sessions are lost on restart)")
		return dbstore.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.Store)
	}
}
