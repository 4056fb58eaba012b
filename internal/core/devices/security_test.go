package devices

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnlockSchedulesAutoLock(t *testing.T) {
	e, env := newTestEntity(t, LockDescriptor(), EntityConfig{
		"auto_lock":       true,
		"auto_lock_delay": 45,
	})

	e.HandleCommand(context.Background(), "unlock", nil)
	assert.False(t, e.CurrentState().Bool("locked", true))

	require.Equal(t, 1, env.timers.count())
	assert.Equal(t, 45*time.Second, env.timers.scheduled[0].delay)

	env.timers.fire(0)
	assert.True(t, e.CurrentState().Bool("locked", false))
	assert.Contains(t, env.bus.actions(), "auto_lock")
}

func TestAutoLockSkipsWhenAlreadyLocked(t *testing.T) {
	e, env := newTestEntity(t, LockDescriptor(), EntityConfig{"auto_lock": true})

	e.HandleCommand(context.Background(), "unlock", nil)
	e.HandleCommand(context.Background(), "lock", nil)
	savesBefore := env.store.saveCount()
	eventsBefore := len(env.bus.all())

	// Callback fires after a manual re-lock: it must observe current
	// state and do nothing
	env.timers.fire(0)

	assert.True(t, e.CurrentState().Bool("locked", false))
	assert.Equal(t, savesBefore, env.store.saveCount(), "skipped guard must not persist")
	assert.Equal(t, eventsBefore, len(env.bus.all()), "skipped guard must not fire events")
}

func TestAutoLockSkipsWhenJammed(t *testing.T) {
	e, env := newTestEntity(t, LockDescriptor(), EntityConfig{"auto_lock": true})

	e.HandleCommand(context.Background(), "unlock", nil)

	st := e.CurrentState()
	st["jammed"] = true
	e.ApplyState(st)

	env.timers.fire(0)
	assert.False(t, e.CurrentState().Bool("locked", true), "jammed lock must stay put")
}

func TestJammedLockIgnoresCommands(t *testing.T) {
	e, env := newTestEntity(t, LockDescriptor(), EntityConfig{})

	st := e.CurrentState()
	st["jammed"] = true
	st["locked"] = true
	e.ApplyState(st)

	e.HandleCommand(context.Background(), "unlock", nil)
	assert.True(t, e.CurrentState().Bool("locked", false))
	assert.Empty(t, env.bus.all())
	assert.Equal(t, 0, env.timers.count(), "no auto-lock scheduled for a refused unlock")
}

func TestLockBatteryDrainsFasterUnlocked(t *testing.T) {
	e, _ := newTestEntity(t, LockDescriptor(), EntityConfig{"auto_lock": false})

	e.HandleCommand(context.Background(), "unlock", nil)
	for i := 0; i < 50; i++ {
		e.Tick(context.Background())
	}
	unlockedDrain := 100 - e.CurrentState().Float("battery_level", 100)

	assert.Greater(t, unlockedDrain, 0.0)
	assert.LessOrEqual(t, e.CurrentState().Float("battery_level", 100), 100.0)
}

func TestValveTravelCompletes(t *testing.T) {
	e, env := newTestEntity(t, ValveDescriptor(), EntityConfig{})

	e.HandleCommand(context.Background(), "set_position", map[string]interface{}{"position": 60})

	st := e.CurrentState()
	assert.True(t, st.Bool("moving", false))
	assert.Equal(t, 60.0, st.Float("target_position", -1))
	assert.Equal(t, 0.0, st.Float("position", -1), "position settles only after travel")

	require.Equal(t, 1, env.timers.count())
	env.timers.fire(0)

	st = e.CurrentState()
	assert.Equal(t, 60.0, st.Float("position", -1))
	assert.False(t, st.Bool("moving", true))
	assert.Contains(t, env.bus.actions(), "position_reached")
}

func TestValveRetargetDropsStaleCompletion(t *testing.T) {
	e, env := newTestEntity(t, ValveDescriptor(), EntityConfig{})

	e.HandleCommand(context.Background(), "set_position", map[string]interface{}{"position": 60})
	e.HandleCommand(context.Background(), "set_position", map[string]interface{}{"position": 30})
	require.Equal(t, 2, env.timers.count())

	// The first move's completion is stale once retargeted
	env.timers.fire(0)
	assert.Equal(t, 0.0, e.CurrentState().Float("position", -1))
	assert.True(t, e.CurrentState().Bool("moving", false))

	env.timers.fire(1)
	assert.Equal(t, 30.0, e.CurrentState().Float("position", -1))
	assert.False(t, e.CurrentState().Bool("moving", true))
}

func TestValveStopCancelsTravel(t *testing.T) {
	e, env := newTestEntity(t, ValveDescriptor(), EntityConfig{})

	e.HandleCommand(context.Background(), "open", nil)
	e.HandleCommand(context.Background(), "stop", nil)

	env.timers.fire(0)
	st := e.CurrentState()
	assert.Equal(t, 0.0, st.Float("position", -1), "cancelled travel must not apply")
	assert.False(t, st.Bool("moving", true))
}

func TestCameraOffSuppressesMotion(t *testing.T) {
	e, env := newTestEntity(t, CameraDescriptor(), EntityConfig{})

	e.HandleCommand(context.Background(), "turn_off", nil)
	for i := 0; i < 100; i++ {
		e.Tick(context.Background())
	}

	assert.False(t, e.CurrentState().Bool("motion_detected", true))
	for _, action := range env.bus.actions() {
		assert.NotEqual(t, "motion_detected", action)
	}
}
