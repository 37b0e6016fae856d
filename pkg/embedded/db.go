// Package embedded binds the benchmark to a local embedded key-value engine.
//
// Each record is stored as one value: the field values concatenated in
// ascending field-name order with no separator. Field names are dropped, so a
// read returns the whole blob under the record key. Scan and delete are not
// supported.
package embedded

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/magiconair/properties"
	"go.uber.org/zap"

	"kvbind/pkg/binding"
	"kvbind/pkg/common"
	"kvbind/pkg/storage"
)

// Name is the registry name of this binding.
const Name = "embedded"

var (
	ErrFieldsUnsupported = errors.New("embedded: reads must request all fields")
	ErrValueSize         = errors.New("embedded: flattened value size mismatch")
)

func init() {
	binding.Register(Name, func(p *properties.Properties, logger *zap.Logger) (binding.DB, error) {
		return Open(p, logger)
	})
}

type DB struct {
	engine storage.Engine
	opts   Options
	logger *zap.Logger
}

// Open parses the binding options and opens the configured engine.
func Open(p *properties.Properties, logger *zap.Logger) (*DB, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts, err := ParseOptions(p)
	if err != nil {
		return nil, err
	}
	logger.Info("embedded options",
		zap.String(PropDir, opts.Dir),
		zap.String(PropEngine, opts.Engine),
		zap.Int(PropFieldCount, opts.FieldCount),
		zap.Int(PropFieldLength, opts.FieldLength),
		zap.Bool(PropReadAll, opts.ReadAllFields),
		zap.Bool(PropVerifySize, opts.VerifySize),
	)

	start := time.Now()
	engine, err := storage.Open(opts.Engine, opts.Dir)
	if err != nil {
		return nil, fmt.Errorf("open %s engine at %s: %w", opts.Engine, opts.Dir, err)
	}
	logger.Info("engine opened", zap.Duration("elapsed", time.Since(start)))

	return NewWithEngine(engine, opts, logger), nil
}

// NewWithEngine wraps an already opened engine.
func NewWithEngine(engine storage.Engine, opts Options, logger *zap.Logger) *DB {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DB{engine: engine, opts: opts, logger: logger}
}

func (db *DB) Read(_ context.Context, _ string, key string, fields []string) (map[string][]byte, error) {
	if fields != nil {
		return nil, ErrFieldsUnsupported
	}
	val, err := db.engine.Get([]byte(key))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		db.logger.Warn("get failed", zap.String("key", key), zap.Error(err))
		return nil, err
	}
	return map[string][]byte{key: val}, nil
}

func (db *DB) Scan(context.Context, string, string, int, []string) ([]map[string][]byte, error) {
	return nil, common.ErrNotImplemented
}

// Update overwrites the whole value, exactly like Insert.
func (db *DB) Update(ctx context.Context, table string, key string, values map[string][]byte) error {
	return db.Insert(ctx, table, key, values)
}

func (db *DB) Insert(_ context.Context, _ string, key string, values map[string][]byte) error {
	val := Flatten(values)
	if db.opts.VerifySize && len(val) != db.opts.ValueSize() {
		return fmt.Errorf("%w: key %s: got %d bytes, want %d (fieldcount=%d x fieldlength=%d)",
			ErrValueSize, key, len(val), db.opts.ValueSize(), db.opts.FieldCount, db.opts.FieldLength)
	}
	if err := db.engine.Set([]byte(key), val); err != nil {
		db.logger.Warn("set failed", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

func (db *DB) Delete(context.Context, string, string) error {
	return common.ErrNotImplemented
}

func (db *DB) Close() error {
	return db.engine.Close()
}

// Flatten concatenates field values in ascending field-name order.
func Flatten(values map[string][]byte) []byte {
	names := make([]string, 0, len(values))
	size := 0
	for name, v := range values {
		names = append(names, name)
		size += len(v)
	}
	sort.Strings(names)

	out := make([]byte, 0, size)
	for _, name := range names {
		out = append(out, values[name]...)
	}
	return out
}
