package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWipeByteArray(t *testing.T) {
	buf := []byte("secret")
	WipeByteArray(buf)
	for i, v := range buf {
		require.Zerof(t, v, "buf[%d] not wiped", i)
	}
	WipeByteArray(nil)
}

func TestSentinels_SurviveWrapping(t *testing.T) {
	kinds := []error{
		ErrEmailAlreadyInUse,
		ErrUserNotFound,
		ErrWrongPassword,
		ErrProfileNotFound,
		ErrNoAuthenticatedUser,
	}
	for _, k := range kinds {
		wrapped := fmt.Errorf("layer: %w", k)
		assert.True(t, errors.Is(wrapped, k), k.Error())
		for _, other := range kinds {
			if other != k {
				assert.False(t, errors.Is(wrapped, other))
			}
		}
	}
}
