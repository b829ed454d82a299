package infra

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// requestPathConns is the floor of connections reserved for request-path
// commands (plan cache reads, invalidations, job enqueues).
const requestPathConns = 10

// NewRedis builds the shared go-redis client. Every notification worker
// parks one connection in BRPOP, so the pool is sized to workers plus a
// floor for the request path; otherwise cache reads queue behind the
// blocked pops under load.
func NewRedis(redisURL string, workers int) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	if need := workers + requestPathConns; opts.PoolSize < need {
		opts.PoolSize = need
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return rdb, nil
}
