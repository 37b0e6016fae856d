package workload

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"kvbind/pkg/config"
)

func TestKeyOrdering(t *testing.T) {
	ordered := &config.Workload{KeyPrefix: "user", InsertOrder: "ordered"}
	assert.Equal(t, "user0", Key(ordered, 0))
	assert.Equal(t, "user17", Key(ordered, 17))

	hashed := &config.Workload{KeyPrefix: "user", InsertOrder: "hashed"}
	assert.Equal(t, Key(hashed, 17), Key(hashed, 17))
	assert.NotEqual(t, Key(hashed, 17), Key(hashed, 18))
	assert.NotEqual(t, "user17", Key(hashed, 17))
}

func TestGeneratorValues(t *testing.T) {
	cfg := &config.Workload{FieldCount: 3, FieldLength: 9, ReadAllFields: true, ReadProportion: 1, MaxScanLength: 4}
	g := NewGenerator(cfg, 1)

	v := g.Values()
	assert.Len(t, v, 3)
	for _, name := range []string{"field0", "field1", "field2"} {
		assert.Len(t, v[name], 9)
	}
	assert.Nil(t, g.ReadFields())

	cfg.ReadAllFields = false
	assert.Len(t, g.ReadFields(), 1)

	for i := 0; i < 100; i++ {
		n := g.ScanLength()
		assert.True(t, n >= 1 && n <= 4, "scan length %d", n)
		assert.Equal(t, OpRead, g.NextOp())
		k := g.KeyNum(10)
		assert.True(t, k >= 0 && k < 10)
	}
	assert.Zero(t, g.KeyNum(0))
}

func TestGeneratorProportions(t *testing.T) {
	cfg := &config.Workload{FieldCount: 1, UpdateProportion: 1, ScanProportion: 1, MaxScanLength: 1}
	g := NewGenerator(cfg, 99)

	seen := map[string]int{}
	for i := 0; i < 2000; i++ {
		seen[g.NextOp()]++
	}
	assert.Len(t, seen, 2)
	assert.InDelta(t, 1000, seen[OpUpdate], 150)
	assert.InDelta(t, 1000, seen[OpScan], 150)
}
