package utils

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode(t *testing.T) {
	code, err := GenerateCode(16)
	require.NoError(t, err)
	assert.Len(t, code, 32)
	assert.Equal(t, strings.ToUpper(code), code)

	_, err = hex.DecodeString(code)
	assert.NoError(t, err)
}

func TestGenerateCode_Unique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		code, err := GenerateCode(16)
		require.NoError(t, err)
		assert.False(t, seen[code])
		seen[code] = true
	}
}

func TestRedisHealthCheck(t *testing.T) {
	db, mock := redismock.NewClientMock()

	mock.ExpectPing().SetVal("PONG")
	assert.NoError(t, RedisHealthCheck(db))

	mock.ExpectPing().SetErr(assert.AnError)
	assert.Error(t, RedisHealthCheck(db))
}
