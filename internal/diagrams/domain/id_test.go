package domain

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var idPattern = regexp.MustCompile(`^[a-z0-9]{6}$`)

func TestNewID(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 500; i++ {
		id, err := NewID()
		require.NoError(t, err)
		assert.Regexp(t, idPattern, id)
		seen[id] = struct{}{}
	}
	assert.Greater(t, len(seen), 490)
}

func TestEnsureUniqueRetriesUntilFree(t *testing.T) {
	calls := 0
	id, err := EnsureUnique(context.Background(), func(_ context.Context, _ string) (bool, error) {
		calls++
		return calls < 50, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 50, calls)
	assert.Regexp(t, idPattern, id)
}

func TestEnsureUniquePropagatesPredicateError(t *testing.T) {
	boom := errors.New("boom")
	_, err := EnsureUnique(context.Background(), func(context.Context, string) (bool, error) {
		return false, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestEnsureUniqueStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := EnsureUnique(ctx, func(context.Context, string) (bool, error) {
		calls++
		if calls == 3 {
			cancel()
		}
		return true, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 3, calls)
}

func TestValidateTitle(t *testing.T) {
	ok := strings.Repeat("a", MaxTitleLength)
	long := strings.Repeat("a", MaxTitleLength+1)
	emoji := strings.Repeat("🚀", MaxTitleLength)

	assert.NoError(t, ValidateTitle(nil))
	assert.NoError(t, ValidateTitle(&ok))
	assert.NoError(t, ValidateTitle(&emoji))

	err := ValidateTitle(&long)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTitleTooLong)
	assert.True(t, IsValidation(err))
	assert.False(t, IsValidation(errors.New("other")))
}

func TestBuildSearchVector(t *testing.T) {
	assert.Equal(t, "flowchart demo graph td; checkout flow", BuildSearchVector("Flowchart Demo", "graph TD; Checkout Flow"))
	assert.Equal(t, "checkout", NormalizeQuery("  CheckOut "))
	assert.Equal(t, "", NormalizeQuery("   "))
}

func TestRandomEmoji(t *testing.T) {
	for i := 0; i < 50; i++ {
		assert.True(t, IsKnownEmoji(RandomEmoji()))
	}
	assert.False(t, IsKnownEmoji("x"))
}
