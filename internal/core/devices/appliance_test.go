package devices

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frostdev-ops/virtual-device-sim/internal/core/sim"
)

func TestAirPurifierRejectsUnknownType(t *testing.T) {
	env := newTestEnv(&DeviceEntry{ID: "entry1", Type: TagAirPurifier})
	_, err := NewEntity(env.ctx, AirPurifierDescriptor(), EntityConfig{"purifier_type": "plasma"}, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "purifier_type")
}

func TestAirPurifierCleaningImprovesAir(t *testing.T) {
	e, env := newTestEntity(t, AirPurifierDescriptor(), EntityConfig{
		"purifier_type": "hepa",
		"pm25":          80,
		"room_volume":   50,
	})

	e.HandleCommand(context.Background(), "turn_on", nil)
	e.HandleCommand(context.Background(), "set_speed", map[string]interface{}{"speed": 100})

	env.clock.Advance(time.Hour)
	e.Tick(context.Background())

	st := e.CurrentState()
	// 300 m3/h over one hour into a 50 m3 room: factor 6, pm25 down by 12
	assert.InDelta(t, 68.0, st.Float("pm25", -1), 1e-9)
	assert.InDelta(t, 1.0, st.Float("filter_usage_hours", -1), 1e-9)
	assert.Greater(t, st.Float("total_air_cleaned", 0), 0.0)
	assert.Less(t, st.Float("filter_life", 100), 100.0)
}

func TestAirPurifierAQITracksPM25(t *testing.T) {
	e, env := newTestEntity(t, AirPurifierDescriptor(), EntityConfig{"pm25": 75})

	env.clock.Advance(time.Minute)
	e.Tick(context.Background())

	st := e.CurrentState()
	pm25 := st.Float("pm25", -1)
	assert.Equal(t, sim.AQIFromPM25(pm25), st["aqi"])
}

func TestAirPurifierIdleDeteriorationStaysBounded(t *testing.T) {
	e, env := newTestEntity(t, AirPurifierDescriptor(), EntityConfig{"pm25": 499, "co2": 1995})

	for i := 0; i < 500; i++ {
		env.clock.Advance(time.Minute)
		e.Tick(context.Background())
	}

	st := e.CurrentState()
	assert.LessOrEqual(t, st.Float("pm25", -1), 500.0)
	assert.GreaterOrEqual(t, st.Float("pm25", -1), 0.0)
	assert.LessOrEqual(t, st.Float("co2", -1), 2000.0)
	assert.LessOrEqual(t, st.Float("voc", -1), 2.0)
}

func TestAirPurifierResetFilter(t *testing.T) {
	e, env := newTestEntity(t, AirPurifierDescriptor(), EntityConfig{})

	e.HandleCommand(context.Background(), "turn_on", nil)
	env.clock.Advance(100 * time.Hour)
	e.Tick(context.Background())
	require.Less(t, e.CurrentState().Float("filter_life", 100), 100.0)

	e.HandleCommand(context.Background(), "reset_filter", nil)
	st := e.CurrentState()
	assert.Equal(t, 100.0, st.Float("filter_life", -1))
	assert.Equal(t, 0.0, st.Float("filter_usage_hours", -1))
}

func TestVacuumLowBatteryForcesReturn(t *testing.T) {
	e, env := newTestEntity(t, VacuumDescriptor(), EntityConfig{"fan_speed": "standard"})

	st := e.CurrentState()
	st["state"] = "cleaning"
	st["battery_level"] = 16.0
	e.ApplyState(st)

	env.clock.Advance(2 * time.Minute)
	e.Tick(context.Background())

	st = e.CurrentState()
	assert.Equal(t, "returning", st.String("state", ""))
	assert.Contains(t, env.bus.actions(), "return_to_base")

	// Next tick it reaches the dock and starts charging
	env.clock.Advance(time.Minute)
	e.Tick(context.Background())
	assert.Equal(t, "docked", e.CurrentState().String("state", ""))

	charge := e.CurrentState().Float("battery_level", 0)
	env.clock.Advance(10 * time.Minute)
	e.Tick(context.Background())
	assert.Greater(t, e.CurrentState().Float("battery_level", 0), charge)
}

func TestVacuumStartRefusedWhenBatteryLow(t *testing.T) {
	e, env := newTestEntity(t, VacuumDescriptor(), EntityConfig{})

	st := e.CurrentState()
	st["state"] = "docked"
	st["battery_level"] = 5.0
	e.ApplyState(st)

	e.HandleCommand(context.Background(), "start", nil)
	assert.Equal(t, "docked", e.CurrentState().String("state", ""))
	assert.Empty(t, env.bus.all())
}

func TestVacuumCleansAreaWhileRunning(t *testing.T) {
	e, env := newTestEntity(t, VacuumDescriptor(), EntityConfig{"fan_speed": "turbo"})

	e.HandleCommand(context.Background(), "start", nil)
	env.clock.Advance(10 * time.Minute)
	e.Tick(context.Background())

	st := e.CurrentState()
	assert.InDelta(t, 15.0, st.Float("cleaned_area", -1), 1e-9)
	assert.InDelta(t, 85.0, st.Float("battery_level", -1), 1e-9)
	assert.InDelta(t, 600.0, st.Float("cleaning_duration", -1), 1e-9)
}

func TestFanRejectsUnknownPresetMode(t *testing.T) {
	e, _ := newTestEntity(t, FanDescriptor(), EntityConfig{})

	e.HandleCommand(context.Background(), "set_preset_mode", map[string]interface{}{"preset_mode": "hurricane"})
	assert.Equal(t, "auto", e.CurrentState().String("preset_mode", ""))
}

func TestFanZeroPercentageTurnsOff(t *testing.T) {
	e, _ := newTestEntity(t, FanDescriptor(), EntityConfig{})

	e.HandleCommand(context.Background(), "turn_on", nil)
	e.HandleCommand(context.Background(), "set_percentage", map[string]interface{}{"percentage": 0})

	assert.False(t, e.CurrentState().Bool("on", true))
}
