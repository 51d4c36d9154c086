//go:build integration

package mock

import (
	"context"
	"sync"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

var redisOnce sync.Once
var redisMock *Redis

// Redis pairs a miniredis server with a client connected to it.
type Redis struct {
	Server *miniredis.Miniredis
	Client *redis.Client
}

// NewRedis starts the shared miniredis server once.
func NewRedis() *Redis {
	redisOnce.Do(func() {
		server, err := miniredis.Run()
		if err != nil {
			panic(err)
		}
		redisMock = &Redis{
			Server: server,
			Client: redis.NewClient(&redis.Options{Addr: server.Addr()}),
		}
	})
	return redisMock
}

// Clear drops every key.
func (r *Redis) Clear() error {
	return r.Client.FlushAll(context.Background()).Err()
}

// Hold sets key as if another process held it for ttl.
func (r *Redis) Hold(key string, ttl time.Duration) error {
	return r.Client.Set(context.Background(), key, "held-by-another-instance", ttl).Err()
}

// FastForward expires keys as if d had elapsed.
func (r *Redis) FastForward(d time.Duration) {
	r.Server.FastForward(d)
}
