package cli

import (
	"context"
	"log/slog"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paisa/internal/config"
	"paisa/internal/log"
)

func TestSetupLoggerHonoursConfig(t *testing.T) {
	logger := SetupLogger(&config.Config{LogLevel: "warn", LogFormat: "json"})
	require.NotNil(t, logger)
	assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, logger.Enabled(context.Background(), slog.LevelWarn))

	def := SetupLogger(nil)
	assert.True(t, def.Enabled(context.Background(), slog.LevelInfo))
}

func TestGracefulShutdownRunsCleanup(t *testing.T) {
	cleaned := make(chan struct{})
	ctx, done := GracefulShutdown(log.Discard(), time.Second, func(ctx context.Context) {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		close(cleaned)
	})

	// Give the goroutine time to register for signals.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGTERM))

	select {
	case <-cleaned:
	case <-time.After(2 * time.Second):
		t.Fatal("cleanup was not called")
	}
	WaitForShutdown(ctx, done)
	assert.Error(t, ctx.Err())
}
