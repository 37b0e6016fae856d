package monitor

import (
	"context"
	"time"

	"kvbind/pkg/binding"
	"kvbind/pkg/common"
)

// Measured decorates a binding so every call is timed and counted.
type Measured struct {
	db    binding.DB
	stats *WorkloadStats
}

var _ binding.DB = (*Measured)(nil)

func NewMeasured(db binding.DB, stats *WorkloadStats) *Measured {
	return &Measured{db: db, stats: stats}
}

func (m *Measured) observe(op string, start time.Time, err error) {
	m.stats.Observe(op, common.StatusOf(err), time.Since(start))
}

func (m *Measured) Read(ctx context.Context, table, key string, fields []string) (map[string][]byte, error) {
	start := time.Now()
	vals, err := m.db.Read(ctx, table, key, fields)
	m.observe(OpRead, start, err)
	return vals, err
}

func (m *Measured) Scan(ctx context.Context, table, startKey string, count int, fields []string) ([]map[string][]byte, error) {
	start := time.Now()
	rows, err := m.db.Scan(ctx, table, startKey, count, fields)
	m.observe(OpScan, start, err)
	return rows, err
}

func (m *Measured) Update(ctx context.Context, table, key string, values map[string][]byte) error {
	start := time.Now()
	err := m.db.Update(ctx, table, key, values)
	m.observe(OpUpdate, start, err)
	return err
}

func (m *Measured) Insert(ctx context.Context, table, key string, values map[string][]byte) error {
	start := time.Now()
	err := m.db.Insert(ctx, table, key, values)
	m.observe(OpInsert, start, err)
	return err
}

func (m *Measured) Delete(ctx context.Context, table, key string) error {
	start := time.Now()
	err := m.db.Delete(ctx, table, key)
	m.observe(OpDelete, start, err)
	return err
}

func (m *Measured) Close() error {
	return m.db.Close()
}
