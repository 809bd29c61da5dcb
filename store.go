package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gauravsaxena1997/punit-portfolio/internal/config"
	"github.com/gauravsaxena1997/punit-portfolio/internal/ratelimit"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const (
	redisPingTimeout = 2 * time.Second
	purgeInterval    = 10 * time.Minute
)

// newRateLimitStore builds the configured limiter backend. Shared backends are
// wrapped in a HashedStore so client addresses are never written out raw.
func newRateLimitStore(ctx context.Context, cfg config.RateLimitConfig) (ratelimit.Store, func(), error) {
	switch cfg.Store {
	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
		defer cancel()
		if errPing := client.Ping(pingCtx).Err(); errPing != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("connect redis %s: %w", cfg.Redis.Addr, errPing)
		}
		store := ratelimit.NewRedisStore(client, cfg.Redis.Prefix)
		hashed, errHash := newHashedStore(ctx, store, cfg.KeySalt)
		if errHash != nil {
			_ = store.Close()
			return nil, nil, errHash
		}
		log.Infof("rate limiting through redis at %s", cfg.Redis.Addr)
		return hashed, closer("redis", store.Close), nil

	case config.StoreSQLite:
		db, errOpen := ratelimit.OpenSQLite(cfg.DBPath)
		if errOpen != nil {
			return nil, nil, errOpen
		}
		store, errStore := ratelimit.NewSQLStore(ctx, db)
		if errStore != nil {
			_ = db.Close()
			return nil, nil, errStore
		}
		hashed, errHash := newHashedStore(ctx, store, cfg.KeySalt)
		if errHash != nil {
			_ = store.Close()
			return nil, nil, errHash
		}
		log.Infof("rate limiting through sqlite at %s", cfg.DBPath)
		stopPurge := startPurge(ctx, store, purgeInterval)
		closeStore := closer("sqlite", store.Close)
		return hashed, func() {
			stopPurge()
			closeStore()
		}, nil

	default:
		log.Info("rate limiting in memory")
		return ratelimit.NewMemoryStore(), func() {}, nil
	}
}

// saltedStore is a persistent backend that can keep its own key salt.
type saltedStore interface {
	ratelimit.Store
	KeySalt(ctx context.Context) (string, error)
}

// newHashedStore wraps store with the configured salt, falling back to the
// salt persisted in the backend so keys survive restarts.
func newHashedStore(ctx context.Context, store saltedStore, salt string) (*ratelimit.HashedStore, error) {
	if salt == "" {
		stored, errSalt := store.KeySalt(ctx)
		if errSalt != nil {
			return nil, errSalt
		}
		salt = stored
	}
	return ratelimit.NewHashedStore(store, salt)
}

func closer(name string, closeFn func() error) func() {
	return func() {
		if errClose := closeFn(); errClose != nil {
			log.WithError(errClose).Warnf("failed to close %s rate limit store", name)
		}
	}
}

// startPurge removes expired rows from store every interval until the
// returned stop func is called or ctx is done.
func startPurge(ctx context.Context, store *ratelimit.SQLStore, interval time.Duration) func() {
	purgeCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-purgeCtx.Done():
				return
			case <-ticker.C:
				removed, errPurge := store.Purge(purgeCtx, time.Now())
				if errPurge != nil {
					log.WithError(errPurge).Warn("failed to purge expired rate limit records")
					continue
				}
				if removed > 0 {
					log.Debugf("purged %d expired rate limit records", removed)
				}
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}
}
