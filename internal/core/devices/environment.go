package devices

import (
	"time"

	"github.com/frostdev-ops/virtual-device-sim/internal/core/sim"
)

// Descriptors for the environment_monitor family: sensor, binary_sensor,
// weather.

// sensorSpec holds the unit, range and drift step for one sensor type.
type sensorSpec struct {
	unit    string
	bounds  sim.Bounds
	maxStep float64
}

// sensorSpecs is the declarative table of supported sensor types.
var sensorSpecs = map[string]sensorSpec{
	"temperature":     {"°C", sim.Bounds{Min: -30, Max: 50}, 0.5},
	"humidity":        {"%", sim.Bounds{Min: 0, Max: 100}, 1.0},
	"pressure":        {"hPa", sim.Bounds{Min: 950, Max: 1050}, 0.5},
	"illuminance":     {"lx", sim.Bounds{Min: 0, Max: 100000}, 500},
	"power":           {"W", sim.Bounds{Min: 0, Max: 5000}, 50},
	"energy":          {"kWh", sim.Bounds{Min: 0, Max: 10000}, 0.1},
	"voltage":         {"V", sim.Bounds{Min: 0, Max: 500}, 2},
	"current":         {"A", sim.Bounds{Min: 0, Max: 50}, 0.2},
	"battery":         {"%", sim.Bounds{Min: 0, Max: 100}, 0.5},
	"signal_strength": {"dBm", sim.Bounds{Min: -120, Max: 0}, 2},
	"pm25":            {"µg/m³", sim.Bounds{Min: 0, Max: 500}, 2},
	"pm10":            {"µg/m³", sim.Bounds{Min: 0, Max: 600}, 2},
	"co2":             {"ppm", sim.Bounds{Min: 400, Max: 2000}, 10},
	"tvoc":            {"ppb", sim.Bounds{Min: 0, Max: 1000}, 5},
	"noise":           {"dB", sim.Bounds{Min: 30, Max: 120}, 1},
	"wind_speed":      {"m/s", sim.Bounds{Min: 0, Max: 15}, 0.3},
	"moisture":        {"%", sim.Bounds{Min: 0, Max: 100}, 1},
	"ph":              {"pH", sim.Bounds{Min: 0, Max: 14}, 0.05},
}

// SensorDescriptor describes a numeric telemetry sensor whose value does
// a bounded random walk around the middle of its type's range.
func SensorDescriptor() *Descriptor {
	return &Descriptor{
		Domain: "sensor",
		Icon:   "mdi:gauge",
		Validate: func(cfg EntityConfig) error {
			t := cfg.GetString("sensor_type", "temperature")
			if _, ok := sensorSpecs[t]; !ok {
				return errInvalidOption("sensor_type", t)
			}
			return nil
		},
		DefaultState: func(cfg EntityConfig) EntityState {
			spec := sensorSpecs[cfg.GetString("sensor_type", "temperature")]
			mid := (spec.bounds.Min + spec.bounds.Max) / 2
			return EntityState{
				"value": cfg.GetFloat("initial_value", mid),
				"unit":  spec.unit,
			}
		},
		Simulate: func(e *Entity, elapsed time.Duration) []Event {
			spec := sensorSpecs[e.Config().GetString("sensor_type", "temperature")]
			e.Set("value", sim.Jitter(e.Ctx().Rand, e.Float("value", 0), spec.maxStep, spec.bounds))
			return nil
		},
		Commands: map[string]CommandFunc{
			// Test hook: push a reading into the sensor
			"set_value": func(e *Entity, args map[string]interface{}) []Event {
				spec := sensorSpecs[e.Config().GetString("sensor_type", "temperature")]
				v := spec.bounds.Clamp(argFloat(args, "value", e.Float("value", 0)))
				e.Set("value", v)
				return one(update("sensor", "set_value", map[string]interface{}{"value": v}))
			},
		},
	}
}

var binarySensorClasses = []string{"motion", "door", "window", "moisture", "smoke", "gas", "occupancy", "vibration"}

// BinarySensorDescriptor describes a boolean sensor that trips at random
// with a configurable probability per tick.
func BinarySensorDescriptor() *Descriptor {
	return &Descriptor{
		Domain: "binary_sensor",
		Icon:   "mdi:checkbox-marked-circle-outline",
		Validate: func(cfg EntityConfig) error {
			if c := cfg.GetString("device_class", "motion"); !oneOf(c, binarySensorClasses) {
				return errInvalidOption("device_class", c)
			}
			return nil
		},
		DefaultState: func(cfg EntityConfig) EntityState {
			return EntityState{"detected": false}
		},
		Simulate: func(e *Entity, elapsed time.Duration) []Event {
			p := e.Config().GetFloat("trigger_probability", 0.05)
			detected := e.Ctx().Rand.Float64() < p
			was := e.Bool("detected", false)
			e.Set("detected", detected)
			if detected != was {
				action := "cleared"
				if detected {
					action = "triggered"
				}
				return one(update("binary_sensor", action, map[string]interface{}{
					"device_class": e.Config().GetString("device_class", "motion"),
				}))
			}
			return nil
		},
		Commands: map[string]CommandFunc{
			"trigger": func(e *Entity, args map[string]interface{}) []Event {
				e.Set("detected", true)
				return one(update("binary_sensor", "triggered", nil))
			},
			"clear": func(e *Entity, args map[string]interface{}) []Event {
				e.Set("detected", false)
				return one(update("binary_sensor", "cleared", nil))
			},
		},
	}
}

var weatherConditions = []string{"sunny", "partlycloudy", "cloudy", "rainy", "pouring", "snowy", "fog", "windy"}

// WeatherDescriptor describes an outdoor weather station: temperature,
// humidity, pressure and wind walk within their ranges, and the condition
// occasionally shifts to a neighboring one.
func WeatherDescriptor() *Descriptor {
	var (
		tempBounds  = sim.Bounds{Min: -30, Max: 45}
		humBounds   = sim.Bounds{Min: 0, Max: 100}
		pressBounds = sim.Bounds{Min: 950, Max: 1050}
		windBounds  = sim.Bounds{Min: 0, Max: 30}
	)
	return &Descriptor{
		Domain: "weather",
		Icon:   "mdi:weather-partly-cloudy",
		DefaultState: func(cfg EntityConfig) EntityState {
			return EntityState{
				"condition":   cfg.GetString("condition", "sunny"),
				"temperature": cfg.GetFloat("temperature", 20),
				"humidity":    cfg.GetFloat("humidity", 50),
				"pressure":    cfg.GetFloat("pressure", 1013),
				"wind_speed":  cfg.GetFloat("wind_speed", 3),
			}
		},
		Simulate: func(e *Entity, elapsed time.Duration) []Event {
			r := e.Ctx().Rand
			e.Set("temperature", sim.Jitter(r, e.Float("temperature", 20), 0.3, tempBounds))
			e.Set("humidity", sim.Jitter(r, e.Float("humidity", 50), 1, humBounds))
			e.Set("pressure", sim.Jitter(r, e.Float("pressure", 1013), 0.5, pressBounds))
			e.Set("wind_speed", sim.Jitter(r, e.Float("wind_speed", 3), 0.5, windBounds))

			// Conditions shift to a neighbor occasionally
			if r.Float64() < 0.1 {
				cur := e.String("condition", "sunny")
				for i, c := range weatherConditions {
					if c == cur {
						next := i + 1 - 2*r.Intn(2)
						if next >= 0 && next < len(weatherConditions) {
							e.Set("condition", weatherConditions[next])
						}
						break
					}
				}
			}
			return nil
		},
	}
}
