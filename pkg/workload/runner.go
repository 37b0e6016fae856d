package workload

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"kvbind/pkg/binding"
	"kvbind/pkg/common"
	"kvbind/pkg/config"
)

const (
	OpRead   = "read"
	OpScan   = "scan"
	OpInsert = "insert"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Summary reports how one phase went.
type Summary struct {
	Phase      string
	Operations int
	Elapsed    time.Duration
	Counts     map[string]map[common.Status]int
}

// Throughput is operations per second.
func (s *Summary) Throughput() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Operations) / s.Elapsed.Seconds()
}

// Count returns the number of op calls that ended with status.
func (s *Summary) Count(op string, status common.Status) int {
	return s.Counts[op][status]
}

func (s *Summary) merge(counts map[string]map[common.Status]int) {
	for op, byStatus := range counts {
		if s.Counts[op] == nil {
			s.Counts[op] = map[common.Status]int{}
		}
		for st, n := range byStatus {
			s.Counts[op][st] += n
			s.Operations += n
		}
	}
}

// Runner drives a binding through the load and run phases. Failed
// operations are counted, never retried.
type Runner struct {
	cfg    *config.Workload
	h      *binding.Handle
	logger *zap.Logger
	seed   int64

	// record numbers below next have been handed out to inserts
	next int64
}

func NewRunner(cfg *config.Workload, h *binding.Handle, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Runner{cfg: cfg, h: h, logger: logger, seed: seed, next: int64(cfg.RecordCount)}
}

// Load inserts records 0..RecordCount-1.
func (r *Runner) Load(ctx context.Context) (*Summary, error) {
	var cursor int64 = -1
	return r.phase(ctx, "load", r.cfg.RecordCount, func(g *Generator, counts map[string]map[common.Status]int) {
		n := atomic.AddInt64(&cursor, 1)
		key := Key(r.cfg, n)
		record(counts, OpInsert, r.h.Insert(ctx, r.cfg.Table, key, g.Values()))
	})
}

// Run executes OperationCount operations over the loaded key range.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	return r.phase(ctx, "run", r.cfg.OperationCount, func(g *Generator, counts map[string]map[common.Status]int) {
		r.doOne(ctx, g, counts)
	})
}

func (r *Runner) doOne(ctx context.Context, g *Generator, counts map[string]map[common.Status]int) {
	table := r.cfg.Table
	limit := atomic.LoadInt64(&r.next)

	switch op := g.NextOp(); op {
	case OpRead:
		key := Key(r.cfg, g.KeyNum(limit))
		record(counts, op, r.h.Read(ctx, table, key, g.ReadFields(), map[string][]byte{}))
	case OpUpdate:
		key := Key(r.cfg, g.KeyNum(limit))
		record(counts, op, r.h.Update(ctx, table, key, g.Values()))
	case OpInsert:
		n := atomic.AddInt64(&r.next, 1) - 1
		record(counts, op, r.h.Insert(ctx, table, Key(r.cfg, n), g.Values()))
	case OpScan:
		key := Key(r.cfg, g.KeyNum(limit))
		var rows []map[string][]byte
		record(counts, op, r.h.Scan(ctx, table, key, g.ScanLength(), g.ReadFields(), &rows))
	case OpDelete:
		key := Key(r.cfg, g.KeyNum(limit))
		record(counts, op, r.h.Delete(ctx, table, key))
	}
}

func record(counts map[string]map[common.Status]int, op string, st common.Status) {
	if counts[op] == nil {
		counts[op] = map[common.Status]int{}
	}
	counts[op][st]++
}

// phase splits total calls of fn across ThreadCount goroutines.
func (r *Runner) phase(ctx context.Context, name string, total int,
	fn func(g *Generator, counts map[string]map[common.Status]int)) (*Summary, error) {

	threads := r.cfg.ThreadCount
	if threads > total && total > 0 {
		threads = total
	}
	r.logger.Info("phase starting", zap.String("phase", name), zap.Int("operations", total), zap.Int("threads", threads))

	summary := &Summary{Phase: name, Counts: map[string]map[common.Status]int{}}
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	start := time.Now()
	for t := 0; t < threads; t++ {
		share := total / threads
		if t < total%threads {
			share++
		}
		wg.Add(1)
		go func(t, share int) {
			defer wg.Done()
			g := NewGenerator(r.cfg, r.seed+int64(t))
			counts := map[string]map[common.Status]int{}
			for i := 0; i < share && ctx.Err() == nil; i++ {
				fn(g, counts)
			}
			mu.Lock()
			summary.merge(counts)
			mu.Unlock()
		}(t, share)
	}
	wg.Wait()
	summary.Elapsed = time.Since(start)

	r.logger.Info("phase finished",
		zap.String("phase", name),
		zap.Int("operations", summary.Operations),
		zap.Duration("elapsed", summary.Elapsed),
		zap.Float64("ops_per_sec", summary.Throughput()),
	)
	return summary, ctx.Err()
}
