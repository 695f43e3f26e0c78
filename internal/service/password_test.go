package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndComparePassword(t *testing.T) {
	t.Run("roundtrip", func(t *testing.T) {
		hash, err := HashPassword("sup3r-secret")
		require.NoError(t, err)
		require.NotEqual(t, "sup3r-secret", hash)
		require.NoError(t, ComparePassword(hash, "sup3r-secret"))
		require.Error(t, ComparePassword(hash, "wrong-password"))
	})

	t.Run("distinct salts", func(t *testing.T) {
		first, err := HashPassword("same-input")
		require.NoError(t, err)
		second, err := HashPassword("same-input")
		require.NoError(t, err)
		require.NotEqual(t, first, second)
	})

	t.Run("hash error", func(t *testing.T) {
		original := bcryptGenerateFromPassword
		defer func() { bcryptGenerateFromPassword = original }()
		bcryptGenerateFromPassword = func(_ []byte, _ int) ([]byte, error) {
			return nil, errors.New("boom")
		}
		_, err := HashPassword("whatever")
		require.Error(t, err)
	})
}
