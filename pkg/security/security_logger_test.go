package security

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogUnauthorizedHashesPrincipal(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sl := NewWithLogger(zap.New(core), "ats", "test")

	sl.LogUnauthorized(context.Background(), "user-123", "10.0.0.1", "req-1", "/v1/admin/candidates")

	entries := logs.All()
	require.Len(t, entries, 1)
	entry := entries[0]
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	assert.Equal(t, string(EventUnauthorizedAccess), entry.Message)

	fields := entry.ContextMap()
	assert.Equal(t, HashValue("user-123"), fields["principal_hash"])
	assert.NotContains(t, fields, "principal")
	assert.Equal(t, "req-1", fields["request_id"])
}

func TestRoleModifiedIsInfo(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sl := NewWithLogger(zap.New(core), "ats", "test")

	sl.LogRoleModified(context.Background(), "admin", "bob", "user")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.InfoLevel, logs.All()[0].Level)
}

func TestHashValueIsStable(t *testing.T) {
	assert.Equal(t, HashValue("x"), HashValue("x"))
	assert.Len(t, HashValue("x"), 16)
	assert.NotEqual(t, HashValue("x"), HashValue("y"))
}
