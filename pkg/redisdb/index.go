package redisdb

import (
	"context"
	"strconv"
	"unicode/utf16"
)

// IndexKey is the sorted set holding one (key, Hash(key)) entry per record.
const IndexKey = "_indices"

// Hash maps a record key to its index score: the 32-bit string hash
// h = 31*h + u over the key's UTF-16 code units, wrapping as int32.
// Scores from earlier benchmark runs stay comparable only while this
// stays bit-exact.
func Hash(key string) float64 {
	var h int32
	for _, r := range key {
		if r < 0x10000 {
			h = 31*h + int32(r)
			continue
		}
		hi, lo := utf16.EncodeRune(r)
		h = 31*h + int32(hi)
		h = 31*h + int32(lo)
	}
	return float64(h)
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

// Index emulates ordered iteration over record keys. Keys come back in
// ascending hash order, not lexicographic order; equal hashes are ordered by
// the server.
type Index struct {
	s Session
}

func NewIndex(s Session) *Index {
	return &Index{s: s}
}

func (ix *Index) Add(ctx context.Context, key string) error {
	_, err := ix.s.ZAdd(ctx, IndexKey, Hash(key), key)
	return err
}

// Remove deletes key's entry and reports how many entries were removed.
func (ix *Index) Remove(ctx context.Context, key string) (int64, error) {
	return ix.s.ZRem(ctx, IndexKey, key)
}

// From returns up to count keys whose hash is >= Hash(startKey).
func (ix *Index) From(ctx context.Context, startKey string, count int) ([]string, error) {
	if count <= 0 {
		return []string{}, nil
	}
	return ix.s.ZRangeByScore(ctx, IndexKey, Hash(startKey), 0, int64(count))
}
