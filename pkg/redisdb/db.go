// Package redisdb binds the benchmark to a Redis server.
//
// Every record is a Redis hash. Redis has no ordered key iteration, so each
// insert also adds the key to the _indices sorted set, scored by Hash(key),
// and scans walk that set.
package redisdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/magiconair/properties"
	"go.uber.org/zap"

	"kvbind/pkg/binding"
	"kvbind/pkg/common"
)

// Name is the registry name of this binding.
const Name = "redis"

// ErrNothingRemoved is returned by Delete when neither the hash nor the
// index entry existed.
var ErrNothingRemoved = errors.New("redis: nothing removed")

func init() {
	binding.Register(Name, func(p *properties.Properties, logger *zap.Logger) (binding.DB, error) {
		return Open(context.Background(), p, logger)
	})
}

type DB struct {
	session Session
	index   *Index
	logger  *zap.Logger
}

// Open parses options, builds the session and verifies the server answers.
func Open(ctx context.Context, p *properties.Properties, logger *zap.Logger) (*DB, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts, err := ParseOptions(p)
	if err != nil {
		return nil, err
	}
	if opts.Cluster && opts.UDS != "" {
		logger.Warn("redis.uds is ignored in cluster mode", zap.String(PropUDS, opts.UDS))
	}

	session := NewSession(opts)
	if err := session.Ping(ctx); err != nil {
		session.Close()
		return nil, fmt.Errorf("connect %s (%s): %w", opts.Addr(), session.Mode(), err)
	}
	logger.Info("redis session ready",
		zap.String("addr", opts.Addr()),
		zap.String("network", opts.Network()),
		zap.String("mode", session.Mode()),
	)
	return NewWithSession(session, logger), nil
}

// NewWithSession wraps an existing session.
func NewWithSession(s Session, logger *zap.Logger) *DB {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DB{session: s, index: NewIndex(s), logger: logger}
}

func (db *DB) Read(ctx context.Context, _ string, key string, fields []string) (map[string][]byte, error) {
	result := map[string][]byte{}

	if fields == nil {
		all, err := db.session.HGetAll(ctx, key)
		if err != nil {
			return nil, err
		}
		for f, v := range all {
			result[f] = []byte(v)
		}
	} else if len(fields) > 0 {
		vals, err := db.session.HMGet(ctx, key, fields...)
		if err != nil {
			return nil, err
		}
		for i, v := range vals {
			if s, ok := v.(string); ok {
				result[fields[i]] = []byte(s)
			}
		}
	}

	if len(result) == 0 {
		return nil, common.ErrNotFound
	}
	return result, nil
}

// Insert writes the hash, then the index entry. The two writes are not
// atomic: if the second fails the record exists but scans will not see it.
func (db *DB) Insert(ctx context.Context, _ string, key string, values map[string][]byte) error {
	if err := db.session.HSet(ctx, key, values); err != nil {
		return err
	}
	if err := db.index.Add(ctx, key); err != nil {
		db.logger.Warn("index add failed after record write", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

// Update sets only the given fields; other fields of the hash are kept.
func (db *DB) Update(ctx context.Context, _ string, key string, values map[string][]byte) error {
	return db.session.HSet(ctx, key, values)
}

// Delete removes the hash and its index entry. It only fails when either
// call errors or when neither removed anything.
func (db *DB) Delete(ctx context.Context, _ string, key string) error {
	dels, err := db.session.Del(ctx, key)
	if err != nil {
		return err
	}
	zrems, err := db.index.Remove(ctx, key)
	if err != nil {
		return err
	}
	if dels == 0 && zrems == 0 {
		return fmt.Errorf("%w: %s", ErrNothingRemoved, key)
	}
	return nil
}

// Scan returns up to count records in hash order starting at Hash(startKey).
func (db *DB) Scan(ctx context.Context, table string, startKey string, count int, fields []string) ([]map[string][]byte, error) {
	keys, err := db.index.From(ctx, startKey, count)
	if err != nil {
		return nil, err
	}

	rows := make([]map[string][]byte, 0, len(keys))
	for _, key := range keys {
		values, err := db.Read(ctx, table, key, fields)
		if err != nil && !errors.Is(err, common.ErrNotFound) {
			return rows, err
		}
		if values == nil {
			// index entry without a record
			values = map[string][]byte{}
		}
		rows = append(rows, values)
	}
	return rows, nil
}

func (db *DB) Close() error {
	return db.session.Close()
}
