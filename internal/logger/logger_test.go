package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestInit(t *testing.T) {
	previous := Logger
	t.Cleanup(func() { Logger = previous })

	require.NoError(t, Init("warn"))

	assert.False(t, Logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, Logger.Core().Enabled(zapcore.WarnLevel))
}

func TestInit_InvalidLevel(t *testing.T) {
	previous := Logger
	t.Cleanup(func() { Logger = previous })
	nop := zap.NewNop()
	Logger = nop

	err := Init("loud")

	assert.Error(t, err)
	assert.Same(t, nop, Logger)
}
