package protocol

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLifecycle(t *testing.T) {
	var l Lifecycle
	assert.Equal(t, StateUninitialized, l.State())
	assert.Contains(t, requireDeviceError(t, l.Ready()), "not ready (UNINITIALIZED)")

	require.NoError(t, l.Begin())
	assert.Equal(t, StateInitializing, l.State())
	assert.Contains(t, requireDeviceError(t, l.Ready()), "INITIALIZING")
	assert.ErrorIs(t, l.Begin(), ErrAlreadyInitialized)

	assert.Equal(t, StateReady, l.Finish(nil))
	assert.NoError(t, l.Ready())

	// Finish outside Initializing changes nothing.
	assert.Equal(t, StateReady, l.Finish(errors.New("late")))
	assert.NoError(t, l.Ready())
}

func TestLifecycleFailed(t *testing.T) {
	var l Lifecycle
	require.NoError(t, l.Begin())
	assert.Equal(t, StateFailed, l.Finish(errors.New("no reply")))
	assert.Equal(t, "device initialization failed: no reply", requireDeviceError(t, l.Ready()))
	assert.ErrorIs(t, l.Begin(), ErrAlreadyInitialized)
}

func TestLifecycleBeginRace(t *testing.T) {
	var l Lifecycle
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Begin() == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}

func TestStateString(t *testing.T) {
	tests := []struct {
		s    State
		want string
	}{
		{StateUninitialized, "UNINITIALIZED"},
		{StateInitializing, "INITIALIZING"},
		{StateReady, "READY"},
		{StateFailed, "FAILED"},
		{State(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.s.String())
	}
}
