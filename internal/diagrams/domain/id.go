package domain

import (
	"context"
	"crypto/rand"
	"math/big"
)

const (
	idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	IDLength   = 6
)

// NewID returns a random IDLength character identifier over [a-z0-9].
func NewID() (string, error) {
	max := big.NewInt(int64(len(idAlphabet)))
	b := make([]byte, IDLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = idAlphabet[n.Int64()]
	}
	return string(b), nil
}

// ExistsFunc reports whether id is already taken.
type ExistsFunc func(ctx context.Context, id string) (bool, error)

// EnsureUnique draws ids until exists reports a free one. There is no retry
// limit; the loop ends on a free id, a predicate error or a cancelled context.
func EnsureUnique(ctx context.Context, exists ExistsFunc) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		id, err := NewID()
		if err != nil {
			return "", err
		}
		taken, err := exists(ctx, id)
		if err != nil {
			return "", err
		}
		if !taken {
			return id, nil
		}
	}
}
