package account

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvResolver(t *testing.T) {
	ctx := context.Background()

	t.Run("configured value wins over the environment", func(t *testing.T) {
		t.Setenv(EnvAccountID, "acct-env")

		id, err := NewEnvResolver("acct-cfg").ActiveAccount(ctx)
		require.NoError(t, err)
		assert.Equal(t, "acct-cfg", id)
	})

	t.Run("environment fallback", func(t *testing.T) {
		t.Setenv(EnvAccountID, "acct-env")

		id, err := NewEnvResolver("").ActiveAccount(ctx)
		require.NoError(t, err)
		assert.Equal(t, "acct-env", id)
	})

	t.Run("nothing configured resolves to empty without error", func(t *testing.T) {
		t.Setenv(EnvAccountID, "")

		id, err := NewEnvResolver("").ActiveAccount(ctx)
		require.NoError(t, err)
		assert.Empty(t, id)
	})

	t.Run("environment changes take effect per call", func(t *testing.T) {
		r := NewEnvResolver("")

		t.Setenv(EnvAccountID, "acct-1")
		id, err := r.ActiveAccount(ctx)
		require.NoError(t, err)
		assert.Equal(t, "acct-1", id)

		t.Setenv(EnvAccountID, "acct-2")
		id, err = r.ActiveAccount(ctx)
		require.NoError(t, err)
		assert.Equal(t, "acct-2", id)
	})
}
