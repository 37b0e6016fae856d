package main

import (
	"context"
	"testing"

	"github.com/magiconair/properties"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"kvbind/pkg/binding"
	"kvbind/pkg/common"
)

func newShell(t *testing.T) *shell {
	p := properties.NewProperties()
	p.MustSet("embedded.engine", "memory")
	p.MustSet("embedded.verifysize", "false")
	db, err := binding.Open("embedded", p, zaptest.NewLogger(t))
	require.NoError(t, err)
	h := binding.NewHandle(db)
	t.Cleanup(func() { h.Close() })
	return &shell{h: h, table: "usertable"}
}

func TestShellInsertThenRead(t *testing.T) {
	sh := newShell(t)
	ctx := context.Background()

	assert.True(t, sh.exec(ctx, []string{"insert", "user1", "field1=b", "field0=a"}))

	result := map[string][]byte{}
	require.Equal(t, common.StatusOK, sh.h.Read(ctx, "usertable", "user1", nil, result))
	assert.Equal(t, []byte("ab"), result["user1"])
}

func TestShellMalformedInputKeepsRunning(t *testing.T) {
	sh := newShell(t)
	ctx := context.Background()

	for _, line := range [][]string{
		{"insert", "user1", "novalue"},
		{"scan", "user1", "many"},
		{"read"},
		{"frobnicate"},
		{"delete", "user1"},
		{"help"},
	} {
		assert.True(t, sh.exec(ctx, line), line)
	}
	assert.Equal(t, common.StatusNotFound, sh.h.Read(ctx, "usertable", "user1", nil, map[string][]byte{}))
}

func TestShellExit(t *testing.T) {
	sh := newShell(t)
	assert.False(t, sh.exec(context.Background(), []string{"quit"}))
	assert.False(t, sh.exec(context.Background(), []string{"EXIT"}))
}
