package store

import "time"

// Timestamps are persisted as unix nanoseconds.

func ToNanos(t time.Time) int64 { return t.UTC().UnixNano() }

func FromNanos(n int64) time.Time { return time.Unix(0, n).UTC() }
