package app

import (
	"context"
	"database/sql"
	"log/slog"

	_ "github.com/lib/pq"

	"github.com/HoktusDevs/manpower-platform-app-sub006/internal/config"
	"github.com/HoktusDevs/manpower-platform-app-sub006/internal/db"
	"github.com/HoktusDevs/manpower-platform-app-sub006/internal/redis"
)

type Infra struct {
	DB    *db.DB // nil when no DSN is configured
	Redis *redis.Client
}

func setupInfra(ctx context.Context, cfg config.Config, log *slog.Logger) (*Infra, error) {
	infra := &Infra{}

	if cfg.DatabaseDSN != "" {
		sqlDB, err := sql.Open("postgres", cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}

		if err := sqlDB.PingContext(ctx); err != nil {
			return nil, err
		}

		if err := db.RunUserDirectoryMigration(ctx, sqlDB); err != nil {
			return nil, err
		}

		infra.DB = &db.DB{DB: sqlDB}
		log.Info("user directory database ready")
	} else {
		log.Info("no database configured; resolving identities from claims")
	}

	redisClient, err := redis.New(cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		return nil, err
	}
	infra.Redis = redisClient
	log.Info("redis ready", "addr", cfg.RedisAddr)

	return infra, nil
}

func (i *Infra) Close() error {
	if i.DB != nil {
		if err := i.DB.Close(); err != nil {
			return err
		}
	}
	return i.Redis.Close()
}
