package storage

import (
	"errors"
	"os"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

type LevelDBEngine struct {
	db *leveldb.DB
}

func OpenLevelDB(dir string) (*LevelDBEngine, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, wrap("open", err)
	}
	db, err := leveldb.OpenFile(dir, &opt.Options{})
	if err != nil {
		return nil, wrap("open", err)
	}
	return &LevelDBEngine{db: db}, nil
}

func (e *LevelDBEngine) Get(key []byte) ([]byte, error) {
	val, err := e.db.Get(key, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, wrap("get", err)
	}
	return val, nil
}

func (e *LevelDBEngine) Set(key, value []byte) error {
	return wrap("set", e.db.Put(key, value, nil))
}

func (e *LevelDBEngine) Close() error {
	return wrap("close", e.db.Close())
}
