package binding

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/magiconair/properties"
	"go.uber.org/zap"
)

// DB is the interface every storage binding implements.
// Table names are passed through but both shipped bindings ignore them.
type DB interface {
	// Read returns the requested fields of key, or all fields when fields is nil.
	Read(ctx context.Context, table string, key string, fields []string) (map[string][]byte, error)
	// Scan returns up to count records starting at startKey in the binding's native order.
	Scan(ctx context.Context, table string, startKey string, count int, fields []string) ([]map[string][]byte, error)
	Update(ctx context.Context, table string, key string, values map[string][]byte) error
	Insert(ctx context.Context, table string, key string, values map[string][]byte) error
	Delete(ctx context.Context, table string, key string) error
	// Close releases the session opened by the creator.
	Close() error
}

// Creator opens a binding from a property source. Invalid properties are
// reported as errors wrapping common.ErrInvalidConfig.
type Creator func(p *properties.Properties, logger *zap.Logger) (DB, error)

var (
	mu       sync.RWMutex
	creators = map[string]Creator{}
)

// Register makes a binding available by name. It panics on duplicates.
func Register(name string, c Creator) {
	mu.Lock()
	defer mu.Unlock()
	if _, dup := creators[name]; dup {
		panic(fmt.Sprintf("binding %q registered twice", name))
	}
	creators[name] = c
}

// Names returns the registered binding names, sorted.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(creators))
	for n := range creators {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Open creates the named binding.
func Open(name string, p *properties.Properties, logger *zap.Logger) (DB, error) {
	mu.RLock()
	c, ok := creators[name]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown binding %q (available: %v)", name, Names())
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return c(p, logger.With(zap.String("binding", name)))
}
