package devices

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSensorRejectsUnknownType(t *testing.T) {
	env := newTestEnv(&DeviceEntry{ID: "entry1", Type: TagSensor})
	_, err := NewEntity(env.ctx, SensorDescriptor(), EntityConfig{"sensor_type": "flux_capacitance"}, 0)
	require.Error(t, err)
}

func TestSensorWalkStaysInRange(t *testing.T) {
	tests := []struct {
		sensorType string
		min, max   float64
	}{
		{"temperature", -30, 50},
		{"humidity", 0, 100},
		{"co2", 400, 2000},
		{"signal_strength", -120, 0},
	}

	for _, tt := range tests {
		t.Run(tt.sensorType, func(t *testing.T) {
			e, env := newTestEntity(t, SensorDescriptor(), EntityConfig{"sensor_type": tt.sensorType})

			for i := 0; i < 1000; i++ {
				env.clock.Advance(30 * time.Second)
				e.Tick(context.Background())
				v := e.CurrentState().Float("value", tt.min - 1)
				assert.GreaterOrEqual(t, v, tt.min)
				assert.LessOrEqual(t, v, tt.max)
			}
		})
	}
}

func TestSensorDefaultsToMidRange(t *testing.T) {
	e, _ := newTestEntity(t, SensorDescriptor(), EntityConfig{"sensor_type": "humidity"})
	assert.Equal(t, 50.0, e.CurrentState().Float("value", -1))
	assert.Equal(t, "%", e.CurrentState().String("unit", ""))
}

func TestSensorSetValueClamps(t *testing.T) {
	e, _ := newTestEntity(t, SensorDescriptor(), EntityConfig{"sensor_type": "humidity"})

	e.HandleCommand(context.Background(), "set_value", map[string]interface{}{"value": 130})
	assert.Equal(t, 100.0, e.CurrentState().Float("value", -1))
}

func TestBinarySensorTriggerProbability(t *testing.T) {
	never, envNever := newTestEntity(t, BinarySensorDescriptor(), EntityConfig{"trigger_probability": 0.0})
	always, envAlways := newTestEntity(t, BinarySensorDescriptor(), EntityConfig{"trigger_probability": 1.0})

	for i := 0; i < 50; i++ {
		never.Tick(context.Background())
		always.Tick(context.Background())
	}

	assert.False(t, never.CurrentState().Bool("detected", true))
	assert.Empty(t, envNever.bus.all())

	assert.True(t, always.CurrentState().Bool("detected", false))
	// Only the first flip emits; staying triggered is not an event
	assert.Equal(t, []string{"triggered"}, envAlways.bus.actions())
}

func TestBinarySensorManualTriggerAndClear(t *testing.T) {
	e, env := newTestEntity(t, BinarySensorDescriptor(), EntityConfig{"device_class": "smoke"})

	e.HandleCommand(context.Background(), "trigger", nil)
	assert.True(t, e.CurrentState().Bool("detected", false))

	e.HandleCommand(context.Background(), "clear", nil)
	assert.False(t, e.CurrentState().Bool("detected", true))

	assert.Equal(t, []string{"triggered", "cleared"}, env.bus.actions())
}

func TestWeatherConditionStaysKnown(t *testing.T) {
	e, env := newTestEntity(t, WeatherDescriptor(), EntityConfig{"condition": "cloudy"})

	for i := 0; i < 500; i++ {
		env.clock.Advance(time.Minute)
		e.Tick(context.Background())

		st := e.CurrentState()
		assert.True(t, oneOf(st.String("condition", ""), weatherConditions))
		assert.GreaterOrEqual(t, st.Float("temperature", -100), -30.0)
		assert.LessOrEqual(t, st.Float("temperature", 100), 45.0)
		assert.GreaterOrEqual(t, st.Float("humidity", -1), 0.0)
		assert.LessOrEqual(t, st.Float("humidity", 101), 100.0)
	}
}
