package telemetry_test

import (
	"sync"
	"testing"

	"github.com/rentfold/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewProfiler_Disabled(t *testing.T) {
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         false,
		ServerAddress:   "http://localhost:4040",
		ApplicationName: "rentfold-backend",
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NotNil(t, profiler)

	assert.False(t, profiler.IsEnabled())
	assert.Equal(t, "rentfold-backend", profiler.GetConfig().ApplicationName)
	assert.NoError(t, profiler.Stop())
}

func TestNewProfiler_Validation(t *testing.T) {
	t.Run("missing server address", func(t *testing.T) {
		profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
			Enabled:         true,
			ApplicationName: "rentfold-backend",
		}, zaptest.NewLogger(t))
		require.Error(t, err)
		assert.Nil(t, profiler)
		assert.Contains(t, err.Error(), "server address is required")
	})

	t.Run("missing application name", func(t *testing.T) {
		profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
			Enabled:       true,
			ServerAddress: "http://localhost:4040",
		}, zaptest.NewLogger(t))
		require.Error(t, err)
		assert.Nil(t, profiler)
		assert.Contains(t, err.Error(), "application name is required")
	})
}

func TestProfiler_Stop(t *testing.T) {
	t.Run("idempotent", func(t *testing.T) {
		profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{Enabled: false}, zaptest.NewLogger(t))
		require.NoError(t, err)

		assert.NoError(t, profiler.Stop())
		assert.NoError(t, profiler.Stop())
		assert.NoError(t, profiler.Stop())
	})

	t.Run("concurrent calls do not deadlock", func(t *testing.T) {
		profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{Enabled: false}, zaptest.NewLogger(t))
		require.NoError(t, err)

		var wg sync.WaitGroup
		for range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = profiler.Stop()
			}()
		}
		wg.Wait()
	})
}

func TestProfiler_RuntimeKnobs(t *testing.T) {
	// Mutex and block settings apply at construction even when the
	// profiler itself never connects anywhere.
	t.Run("mutex profiling", func(t *testing.T) {
		profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
			Enabled:              false,
			ServerAddress:        "http://localhost:4040",
			ApplicationName:      "rentfold-backend",
			ProfileMutexCount:    true,
			ProfileMutexDuration: true,
			MutexProfileFraction: 10,
		}, zaptest.NewLogger(t))
		require.NoError(t, err)

		got := profiler.GetConfig()
		assert.True(t, got.ProfileMutexCount)
		assert.Equal(t, 10, got.MutexProfileFraction)
		assert.NoError(t, profiler.Stop())
	})

	t.Run("block profiling", func(t *testing.T) {
		profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
			Enabled:              false,
			ServerAddress:        "http://localhost:4040",
			ApplicationName:      "rentfold-backend",
			ProfileBlockCount:    true,
			ProfileBlockDuration: true,
			BlockProfileRate:     10,
		}, zaptest.NewLogger(t))
		require.NoError(t, err)

		got := profiler.GetConfig()
		assert.True(t, got.ProfileBlockDuration)
		assert.Equal(t, 10, got.BlockProfileRate)
		assert.NoError(t, profiler.Stop())
	})
}

func TestNewProfiler_AgainstServer(t *testing.T) {
	// Needs a Pyroscope server on localhost:4040.
	if testing.Short() {
		t.Skip("skipping server-backed test in short mode")
	}

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:             true,
		ServerAddress:       "http://localhost:4040",
		ApplicationName:     "rentfold-backend",
		ProfileCPU:          true,
		ProfileAllocObjects: true,
		ProfileAllocSpace:   true,
		ProfileInuseObjects: true,
		ProfileInuseSpace:   true,
		ProfileGoroutines:   true,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NotNil(t, profiler)

	assert.True(t, profiler.IsEnabled())
	assert.NoError(t, profiler.Stop())
}
