package memorykv_test

import (
	"context"
	"testing"

	"github.com/jrsteele09/go-classroom/kv"
	"github.com/jrsteele09/go-classroom/kv/memorykv"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	s := memorykv.New()

	t.Run("missing key", func(t *testing.T) {
		_, found, err := s.Get(ctx, "session")
		require.NoError(t, err)
		require.False(t, found)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "session", `{"a":1}`))
		value, found, err := s.Get(ctx, "session")
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, `{"a":1}`, value)
	})

	t.Run("remove is idempotent", func(t *testing.T) {
		require.NoError(t, s.Remove(ctx, "session"))
		require.NoError(t, s.Remove(ctx, "session"))
		require.Equal(t, 0, s.Len())
	})

	t.Run("empty key", func(t *testing.T) {
		require.ErrorIs(t, s.Set(ctx, "", "x"), kv.ErrKeyRequired)
		_, _, err := s.Get(ctx, "")
		require.ErrorIs(t, err, kv.ErrKeyRequired)
		require.ErrorIs(t, s.Remove(ctx, ""), kv.ErrKeyRequired)
	})
}
