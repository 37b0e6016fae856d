package storage

import (
	"errors"
	"fmt"

	"kvbind/pkg/common"
)

var ErrNotFound = errors.New("storage: key not found")

// Engine is the point-lookup surface the embedded binding needs.
// Implementations must be safe for concurrent use.
type Engine interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
	Close() error
}

const (
	KindLevelDB = "leveldb"
	KindSQLite  = "sqlite"
	KindMemory  = "memory"
)

// Kinds lists the engines Open understands.
var Kinds = []string{KindLevelDB, KindSQLite, KindMemory}

// Open opens the engine of the given kind rooted at dir.
func Open(kind, dir string) (Engine, error) {
	switch kind {
	case KindLevelDB:
		return OpenLevelDB(dir)
	case KindSQLite:
		return OpenSQLite(dir)
	case KindMemory:
		return NewMemoryEngine(32), nil
	default:
		return nil, common.ConfigError("embedded.engine", "unknown engine %q, want one of %v", kind, Kinds)
	}
}

func wrap(op string, err error) error {
	if err == nil || errors.Is(err, ErrNotFound) {
		return err
	}
	return fmt.Errorf("storage %s: %w", op, err)
}
