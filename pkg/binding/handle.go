package binding

import (
	"context"

	"kvbind/pkg/common"
)

// Handle exposes a DB through the benchmark status contract: every
// operation reports a common.Status and fills the caller's output.
type Handle struct {
	db DB
}

func NewHandle(db DB) *Handle {
	return &Handle{db: db}
}

// DB returns the wrapped binding.
func (h *Handle) DB() DB {
	return h.db
}

func (h *Handle) Read(ctx context.Context, table, key string, fields []string, result map[string][]byte) common.Status {
	values, err := h.db.Read(ctx, table, key, fields)
	if result != nil {
		for k, v := range values {
			result[k] = v
		}
	}
	return common.StatusOf(err)
}

func (h *Handle) Scan(ctx context.Context, table, startKey string, count int, fields []string, result *[]map[string][]byte) common.Status {
	rows, err := h.db.Scan(ctx, table, startKey, count, fields)
	if result != nil {
		*result = append(*result, rows...)
	}
	return common.StatusOf(err)
}

func (h *Handle) Insert(ctx context.Context, table, key string, values map[string][]byte) common.Status {
	return common.StatusOf(h.db.Insert(ctx, table, key, values))
}

func (h *Handle) Update(ctx context.Context, table, key string, values map[string][]byte) common.Status {
	return common.StatusOf(h.db.Update(ctx, table, key, values))
}

func (h *Handle) Delete(ctx context.Context, table, key string) common.Status {
	return common.StatusOf(h.db.Delete(ctx, table, key))
}

// Close is the cleanup hook; call it once after all operations finished.
func (h *Handle) Close() error {
	return h.db.Close()
}
