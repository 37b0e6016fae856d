package workload

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math/rand"

	"kvbind/pkg/config"
)

const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Generator produces keys, values and operation choices for one worker.
// It is not safe for concurrent use; give each goroutine its own.
type Generator struct {
	cfg        *config.Workload
	prng       *rand.Rand
	fieldNames []string
	ops        []string
	cumulative []float64
}

func NewGenerator(cfg *config.Workload, seed int64) *Generator {
	g := &Generator{
		cfg:        cfg,
		prng:       rand.New(rand.NewSource(seed)),
		fieldNames: FieldNames(cfg.FieldCount),
	}

	weights := []struct {
		op string
		p  float64
	}{
		{OpRead, cfg.ReadProportion},
		{OpUpdate, cfg.UpdateProportion},
		{OpInsert, cfg.InsertProportion},
		{OpScan, cfg.ScanProportion},
		{OpDelete, cfg.DeleteProportion},
	}
	total := 0.0
	for _, w := range weights {
		total += w.p
	}
	acc := 0.0
	for _, w := range weights {
		if w.p <= 0 {
			continue
		}
		acc += w.p / total
		g.ops = append(g.ops, w.op)
		g.cumulative = append(g.cumulative, acc)
	}
	return g
}

// FieldNames returns field0..field(n-1).
func FieldNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("field%d", i)
	}
	return names
}

// Key maps a record number to its key. Hashed order scatters consecutive
// numbers across the key space.
func Key(cfg *config.Workload, n int64) string {
	if cfg.InsertOrder == "ordered" {
		return fmt.Sprintf("%s%d", cfg.KeyPrefix, n)
	}
	h := fnv.New64a()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(n))
	h.Write(buf[:])
	return fmt.Sprintf("%s%d", cfg.KeyPrefix, h.Sum64())
}

// Values builds a full record of FieldCount fields, FieldLength bytes each.
func (g *Generator) Values() map[string][]byte {
	values := make(map[string][]byte, len(g.fieldNames))
	for _, name := range g.fieldNames {
		values[name] = g.randomBytes(g.cfg.FieldLength)
	}
	return values
}

func (g *Generator) randomBytes(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = letters[g.prng.Intn(len(letters))]
	}
	return b
}

// ReadFields is nil when every field is read, otherwise one random field.
func (g *Generator) ReadFields() []string {
	if g.cfg.ReadAllFields || len(g.fieldNames) == 0 {
		return nil
	}
	return []string{g.fieldNames[g.prng.Intn(len(g.fieldNames))]}
}

// NextOp picks an operation according to the configured proportions.
func (g *Generator) NextOp() string {
	if len(g.ops) == 0 {
		return OpRead
	}
	x := g.prng.Float64()
	for i, c := range g.cumulative {
		if x < c {
			return g.ops[i]
		}
	}
	return g.ops[len(g.ops)-1]
}

// KeyNum picks a record number uniformly in [0, limit).
func (g *Generator) KeyNum(limit int64) int64 {
	if limit <= 0 {
		return 0
	}
	return g.prng.Int63n(limit)
}

// ScanLength is uniform in [1, MaxScanLength].
func (g *Generator) ScanLength() int {
	return 1 + g.prng.Intn(g.cfg.MaxScanLength)
}
