package storage

import (
	"sync"

	"github.com/google/btree"
)

type item struct {
	key string
	val []byte
}

func (i item) Less(than btree.Item) bool {
	return i.key < than.(item).key
}

// MemoryEngine keeps records in an ordered in-process B-tree. Nothing is
// persisted; it exists for dry runs and tests.
type MemoryEngine struct {
	tree *btree.BTree
	lock sync.RWMutex
	size int
}

func NewMemoryEngine(degree int) *MemoryEngine {
	return &MemoryEngine{
		tree: btree.New(degree),
	}
}

func (m *MemoryEngine) Set(key, value []byte) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	val := append([]byte(nil), value...)
	if old := m.tree.ReplaceOrInsert(item{key: string(key), val: val}); old != nil {
		m.size -= len(key) + len(old.(item).val)
	}
	m.size += len(key) + len(val)
	return nil
}

func (m *MemoryEngine) Get(key []byte) ([]byte, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	res := m.tree.Get(item{key: string(key)})
	if res == nil {
		return nil, ErrNotFound
	}
	return append([]byte(nil), res.(item).val...), nil
}

// Len returns the number of stored keys.
func (m *MemoryEngine) Len() int {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.tree.Len()
}

// Size returns the stored key and value bytes.
func (m *MemoryEngine) Size() int {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.size
}

func (m *MemoryEngine) Close() error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.tree.Clear(false)
	m.size = 0
	return nil
}
