// Package slot opens the durable session slot backend selected by configuration.
package slot

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/trezcool/koperasi/core"
	"github.com/trezcool/koperasi/core/session"
	"github.com/trezcool/koperasi/storage/database"
	"github.com/trezcool/koperasi/storage/slot/memslot"
	"github.com/trezcool/koperasi/storage/slot/redisslot"
	"github.com/trezcool/koperasi/storage/slot/sqlslot"
)

const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open connects to the configured backend. The returned Closer releases its connections.
func Open(ctx context.Context, conf *core.Config) (session.SlotFactory, io.Closer, error) {
	switch conf.Session.Backend {
	case BackendMemory:
		return memslot.New().Slot, nopCloser{}, nil

	case BackendSQLite, BackendPostgres:
		db, err := database.Open(ctx, conf.Session.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if database.Driver(conf.Session.DatabaseURL) != conf.Session.Backend {
			_ = db.Close()
			return nil, nil, errors.Errorf("session database url does not match the %s backend", conf.Session.Backend)
		}
		if err = database.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return sqlslot.NewRepository(db).Slot, db, nil

	case BackendRedis:
		opts, err := redis.ParseURL(conf.Session.RedisURL)
		if err != nil {
			return nil, nil, errors.Wrap(err, "parsing redis url")
		}
		rdb := redis.NewClient(opts)
		if err = rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, errors.Wrap(err, "pinging redis")
		}
		return redisslot.NewRepository(rdb, conf.Session.TTL).Slot, rdb, nil
	}
	return nil, nil, errors.Errorf("unknown session backend %q", conf.Session.Backend)
}
