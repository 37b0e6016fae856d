package redisdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashMatchesReferenceValues(t *testing.T) {
	cases := map[string]float64{
		"":                   0,
		"a":                  97,
		"hello":              99162322,
		"user1":              111578566,
		"user1000":           -267579734,
		"user9999999":        -1232160594,
		"k5":                 3370,
		"Aa":                 2112,
		"BB":                 2112,
		"polygenelubricants": -2147483648,
		"é":                  233,
		"😀":                  1772899, // surrogate pair
	}
	for key, want := range cases {
		assert.Equal(t, want, Hash(key), "Hash(%q)", key)
	}
}

func TestFormatScore(t *testing.T) {
	assert.Equal(t, "3370", formatScore(3370))
	assert.Equal(t, "-2147483648", formatScore(-2147483648))
}

func TestIndexAddRemoveFrom(t *testing.T) {
	ctx := context.Background()
	mr, db := openTestDB(t)
	ix := db.index

	for _, k := range []string{"k7", "k2", "k5"} {
		require.NoError(t, ix.Add(ctx, k))
	}
	score, err := mr.ZScore(IndexKey, "k5")
	require.NoError(t, err)
	assert.Equal(t, 3370.0, score)

	keys, err := ix.From(ctx, "k5", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"k5", "k7"}, keys)

	keys, err = ix.From(ctx, "k2", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"k2", "k5"}, keys)

	keys, err = ix.From(ctx, "k2", 0)
	require.NoError(t, err)
	assert.Empty(t, keys)

	n, err := ix.Remove(ctx, "k5")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	n, err = ix.Remove(ctx, "k5")
	require.NoError(t, err)
	assert.Zero(t, n)
}
