package postgres

import (
	"hash/fnv"
	"time"
)

func nullTime(t *time.Time) interface{} {
	if t == nil || t.IsZero() {
		return nil
	}
	return *t
}

// pairLockKey derives a stable advisory-lock key for an unordered user pair
// so concurrent friend-request sends between the same two users serialize.
func pairLockKey(a, b string) int64 {
	if b < a {
		a, b = b, a
	}
	h := fnv.New64a()
	h.Write([]byte(a))
	h.Write([]byte{0})
	h.Write([]byte(b))
	return int64(h.Sum64())
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 100
	}
	return limit
}
