package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kvbind/pkg/common"
	"kvbind/pkg/embedded"
	"kvbind/pkg/storage"
)

func TestObserveCounts(t *testing.T) {
	ws := NewWorkloadStats()
	ws.Observe(OpRead, common.StatusOK, time.Millisecond)
	ws.Observe(OpRead, common.StatusNotFound, time.Millisecond)
	ws.Observe(OpInsert, common.StatusOK, time.Millisecond)
	ws.Observe(OpDelete, common.StatusNotImplemented, time.Microsecond)

	assert.Equal(t, uint64(2), ws.ReadCount)
	assert.Equal(t, uint64(2), ws.WriteCount)
	assert.Equal(t, uint64(1), ws.HitCount)
	assert.InDelta(t, 1.0, ws.GetReadWriteRatio(), 1e-9)

	assert.Equal(t, uint64(1), ws.Count(OpRead, common.StatusNotFound))
	assert.Equal(t, uint64(1), ws.Count(OpDelete, common.StatusNotImplemented))
	assert.Zero(t, ws.Count(OpScan, common.StatusOK))
	assert.Zero(t, ws.Count("bogus", common.StatusOK))

	assert.InDelta(t, 1.0, testutil.ToFloat64(ws.operations.WithLabelValues(OpRead, "NOT_FOUND")), 1e-9)
	assert.Equal(t, 3, testutil.CollectAndCount(ws.latency)) // read, insert, delete series
}

func TestReadWriteRatioEdges(t *testing.T) {
	ws := NewWorkloadStats()
	assert.Equal(t, 0.0, ws.GetReadWriteRatio())
	ws.RecordRead()
	assert.Equal(t, 100.0, ws.GetReadWriteRatio())
}

func TestSnapshot(t *testing.T) {
	ws := NewWorkloadStats()
	ws.Observe(OpUpdate, common.StatusOK, time.Millisecond)
	ws.Observe(OpUpdate, common.StatusError, time.Millisecond)

	snap := ws.Snapshot()
	ops := snap["operations"].(map[string]map[string]uint64)
	assert.Equal(t, map[string]uint64{"OK": 1, "ERROR": 1}, ops[OpUpdate])
	assert.NotContains(t, ops, OpRead)
	assert.Equal(t, uint64(2), snap["writes"])
}

func TestMeasuredRecordsEveryCall(t *testing.T) {
	ctx := context.Background()
	ws := NewWorkloadStats()
	inner := embedded.NewWithEngine(storage.NewMemoryEngine(8), embedded.Options{
		FieldCount: 1, FieldLength: 2, ReadAllFields: true, VerifySize: true,
	}, nil)
	db := NewMeasured(inner, ws)
	defer db.Close()

	require.NoError(t, db.Insert(ctx, "t", "k", map[string][]byte{"f": []byte("ab")}))
	assert.Error(t, db.Update(ctx, "t", "k", map[string][]byte{"f": []byte("abc")}))
	_, err := db.Read(ctx, "t", "k", nil)
	require.NoError(t, err)
	_, err = db.Read(ctx, "t", "missing", nil)
	assert.True(t, errors.Is(err, common.ErrNotFound))
	_, err = db.Scan(ctx, "t", "k", 5, nil)
	assert.ErrorIs(t, err, common.ErrNotImplemented)
	assert.ErrorIs(t, db.Delete(ctx, "t", "k"), common.ErrNotImplemented)

	assert.Equal(t, uint64(1), ws.Count(OpInsert, common.StatusOK))
	assert.Equal(t, uint64(1), ws.Count(OpUpdate, common.StatusError))
	assert.Equal(t, uint64(1), ws.Count(OpRead, common.StatusOK))
	assert.Equal(t, uint64(1), ws.Count(OpRead, common.StatusNotFound))
	assert.Equal(t, uint64(1), ws.Count(OpScan, common.StatusNotImplemented))
	assert.Equal(t, uint64(1), ws.Count(OpDelete, common.StatusNotImplemented))
}
