package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	t.Parallel()
	h := HashPassword("hunter22")
	require.NotEmpty(t, h)
	require.NotEqual(t, "hunter22", h)
	require.True(t, strings.HasPrefix(h, "$2a$10$")) // cost 固定为 10

	require.True(t, CheckPassword("hunter22", h))
	require.False(t, CheckPassword("hunter23", h))
}

func TestHashPassword_Salted(t *testing.T) {
	t.Parallel()
	// 同一口令两次哈希不相同（盐随机）
	require.NotEqual(t, HashPassword("same"), HashPassword("same"))
}
