package resource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Runs(t *testing.T) {
	c := NewController(Config{MaxConcurrentRuns: 2})

	require.NoError(t, c.AcquireRun(t.Context()))
	require.NoError(t, c.AcquireRun(t.Context()))
	assert.False(t, c.TryAcquireRun())

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.AcquireRun(ctx), context.DeadlineExceeded)

	c.ReleaseRun()
	assert.True(t, c.TryAcquireRun())
}

func TestController_DefaultRuns(t *testing.T) {
	c := NewController(Config{})
	assert.Equal(t, int64(1), c.Config().MaxConcurrentRuns)
	assert.True(t, c.TryAcquireRun())
	assert.False(t, c.TryAcquireRun())
}

func TestController_IO(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1000})

	start := time.Now()
	require.NoError(t, c.AcquireIO(t.Context(), 1000), "the initial bucket is full")
	assert.Less(t, time.Since(start), 100*time.Millisecond)

	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()
	assert.Error(t, c.AcquireIO(ctx, 2500), "requests larger than the bucket wait in steps")
}

func TestController_Nil(t *testing.T) {
	var c *Controller
	require.NoError(t, c.AcquireRun(t.Context()))
	assert.True(t, c.TryAcquireRun())
	c.ReleaseRun()
	require.NoError(t, c.AcquireIO(t.Context(), 1<<30))
	assert.Equal(t, Config{}, c.Config())

	unlimited := NewController(Config{MaxConcurrentRuns: 1})
	require.NoError(t, unlimited.AcquireIO(t.Context(), 1<<30))
}
