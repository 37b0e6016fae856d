package redisdb

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Session is the set of server commands the binding issues. It is chosen
// once at startup: standalone or cluster.
type Session interface {
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HMGet(ctx context.Context, key string, fields ...string) ([]interface{}, error)
	HSet(ctx context.Context, key string, values map[string][]byte) error
	ZAdd(ctx context.Context, key string, score float64, member string) (int64, error)
	Del(ctx context.Context, keys ...string) (int64, error)
	ZRem(ctx context.Context, key string, members ...string) (int64, error)
	// ZRangeByScore returns up to count members with score >= min, ascending.
	ZRangeByScore(ctx context.Context, key string, min float64, offset, count int64) ([]string, error)
	Ping(ctx context.Context) error
	Close() error
	Mode() string
}

// NewSession builds the session variant selected by opts. Connections are
// established lazily by the client pool; call Ping to fail fast.
func NewSession(opts Options) Session {
	if opts.Cluster {
		return newClusterSession(opts)
	}
	return newStandaloneSession(opts)
}

// commands implements every Session call on top of the shared go-redis API.
type commands struct {
	c redis.Cmdable
}

func (s commands) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	return s.c.HGetAll(ctx, key).Result()
}

func (s commands) HMGet(ctx context.Context, key string, fields ...string) ([]interface{}, error) {
	return s.c.HMGet(ctx, key, fields...).Result()
}

func (s commands) HSet(ctx context.Context, key string, values map[string][]byte) error {
	args := make(map[string]interface{}, len(values))
	for f, v := range values {
		args[f] = v
	}
	return s.c.HSet(ctx, key, args).Err()
}

func (s commands) ZAdd(ctx context.Context, key string, score float64, member string) (int64, error) {
	return s.c.ZAdd(ctx, key, redis.Z{Score: score, Member: member}).Result()
}

func (s commands) Del(ctx context.Context, keys ...string) (int64, error) {
	return s.c.Del(ctx, keys...).Result()
}

func (s commands) ZRem(ctx context.Context, key string, members ...string) (int64, error) {
	args := make([]interface{}, len(members))
	for i, m := range members {
		args[i] = m
	}
	return s.c.ZRem(ctx, key, args...).Result()
}

func (s commands) ZRangeByScore(ctx context.Context, key string, min float64, offset, count int64) ([]string, error) {
	return s.c.ZRangeByScore(ctx, key, &redis.ZRangeBy{
		Min:    formatScore(min),
		Max:    "+inf",
		Offset: offset,
		Count:  count,
	}).Result()
}

func (s commands) Ping(ctx context.Context) error {
	return s.c.Ping(ctx).Err()
}

type standaloneSession struct {
	commands
	client *redis.Client
}

func newStandaloneSession(opts Options) *standaloneSession {
	client := redis.NewClient(&redis.Options{
		Network:  opts.Network(),
		Addr:     opts.Addr(),
		Password: opts.Password,
		DB:       opts.DB,
	})
	return &standaloneSession{commands: commands{c: client}, client: client}
}

func (s *standaloneSession) Close() error {
	return s.client.Close()
}

func (s *standaloneSession) Mode() string {
	return "standalone"
}

type clusterSession struct {
	commands
	client *redis.ClusterClient
}

func newClusterSession(opts Options) *clusterSession {
	client := redis.NewClusterClient(&redis.ClusterOptions{
		Addrs:    []string{opts.Addr()},
		Password: opts.Password,
	})
	return &clusterSession{commands: commands{c: client}, client: client}
}

func (s *clusterSession) Close() error {
	return s.client.Close()
}

func (s *clusterSession) Mode() string {
	return "cluster"
}
