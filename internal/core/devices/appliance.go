package devices

import (
	"time"

	"github.com/frostdev-ops/virtual-device-sim/internal/core/sim"
)

// Descriptors for the appliance_control family: fan, air_purifier, vacuum.

var fanDirections = []string{"forward", "reverse"}
var fanPresetModes = []string{"auto", "smart", "sleep", "on"}

// FanDescriptor describes a speed-controlled fan.
func FanDescriptor() *Descriptor {
	return &Descriptor{
		Domain: "fan",
		Icon:   "mdi:fan",
		DefaultState: func(cfg EntityConfig) EntityState {
			return EntityState{
				"on":          false,
				"percentage":  cfg.GetFloat("percentage", 50),
				"preset_mode": "auto",
				"oscillating": false,
				"direction":   "forward",
			}
		},
		Commands: map[string]CommandFunc{
			"turn_on": func(e *Entity, args map[string]interface{}) []Event {
				e.Set("on", true)
				if _, ok := args["percentage"]; ok {
					e.Set("percentage", clampFloat(argFloat(args, "percentage", 50), 0, 100))
				}
				return one(update("fan", "turn_on", map[string]interface{}{"percentage": e.Float("percentage", 50)}))
			},
			"turn_off": func(e *Entity, args map[string]interface{}) []Event {
				e.Set("on", false)
				return one(update("fan", "turn_off", nil))
			},
			"set_percentage": func(e *Entity, args map[string]interface{}) []Event {
				pct := clampFloat(argFloat(args, "percentage", 0), 0, 100)
				e.Set("percentage", pct)
				if pct == 0 {
					e.Set("on", false)
				}
				return one(update("fan", "set_percentage", map[string]interface{}{"percentage": pct}))
			},
			"set_preset_mode": func(e *Entity, args map[string]interface{}) []Event {
				mode := argString(args, "preset_mode", "auto")
				if !oneOf(mode, fanPresetModes) {
					e.Log().WithField("preset_mode", mode).Warn("Unsupported preset mode ignored")
					return nil
				}
				e.Set("preset_mode", mode)
				return one(update("fan", "set_preset_mode", map[string]interface{}{"preset_mode": mode}))
			},
			"oscillate": func(e *Entity, args map[string]interface{}) []Event {
				osc := EntityConfig(args).GetBool("oscillating", !e.Bool("oscillating", false))
				e.Set("oscillating", osc)
				return one(update("fan", "oscillate", map[string]interface{}{"oscillating": osc}))
			},
			"set_direction": func(e *Entity, args map[string]interface{}) []Event {
				dir := argString(args, "direction", "forward")
				if !oneOf(dir, fanDirections) {
					e.Log().WithField("direction", dir).Warn("Unsupported direction ignored")
					return nil
				}
				e.Set("direction", dir)
				return one(update("fan", "set_direction", map[string]interface{}{"direction": dir}))
			},
		},
	}
}

var purifierTypes = []string{"hepa", "activated_carbon", "electrostatic", "uv", "ozone"}

// purifierCADR is the clean-air delivery rate in m3/h at full speed.
var purifierCADR = map[string]float64{
	"hepa":             300,
	"activated_carbon": 250,
	"electrostatic":    200,
	"uv":               150,
	"ozone":            180,
}

// filterMaxHours is the rated filter lifetime (90 days of runtime).
const filterMaxHours = 2160.0

// Telemetry bounds for the purifier channels.
var (
	pm25Bounds = sim.Bounds{Min: 0, Max: 500}
	pm10Bounds = sim.Bounds{Min: 0, Max: 600}
	vocBounds  = sim.Bounds{Min: 0, Max: 2.0}
	co2Bounds  = sim.Bounds{Min: 350, Max: 2000}
)

// AirPurifierDescriptor describes an air purifier whose cleaning rate
// improves the simulated room air while it runs and whose filter wears
// down with usage hours. When idle the room deteriorates by a small
// random amount per tick.
func AirPurifierDescriptor() *Descriptor {
	return &Descriptor{
		Domain: "air_purifier",
		Icon:   "mdi:air-purifier",
		Validate: func(cfg EntityConfig) error {
			if t := cfg.GetString("purifier_type", "hepa"); !oneOf(t, purifierTypes) {
				return errInvalidOption("purifier_type", t)
			}
			return nil
		},
		DefaultState: func(cfg EntityConfig) EntityState {
			return EntityState{
				"on":                 false,
				"speed":              50.0, // percent
				"pm25":               cfg.GetFloat("pm25", 35),
				"pm10":               cfg.GetFloat("pm10", 50),
				"voc":                cfg.GetFloat("voc", 0.3),
				"co2":                cfg.GetFloat("co2", 600),
				"aqi":                0,
				"filter_life":        cfg.GetFloat("filter_life", 100),
				"filter_usage_hours": 0.0,
				"total_air_cleaned":  0.0,
			}
		},
		Simulate: func(e *Entity, elapsed time.Duration) []Event {
			r := e.Ctx().Rand
			if e.Bool("on", false) {
				hours := elapsed.Hours()
				usage := e.Float("filter_usage_hours", 0) + hours
				e.Set("filter_usage_hours", usage)
				e.Set("filter_life", clampFloat(100-usage/filterMaxHours*100, 0, 100))

				ptype := e.Config().GetString("purifier_type", "hepa")
				cadr := purifierCADR[ptype] * e.Float("speed", 50) / 100
				cleaned := cadr * hours
				e.Set("total_air_cleaned", e.Float("total_air_cleaned", 0)+cleaned)

				roomVolume := e.Config().GetFloat("room_volume", 50)
				factor := cleaned / roomVolume
				e.Set("pm25", pm25Bounds.Clamp(e.Float("pm25", 35)-factor*2))
				e.Set("pm10", pm10Bounds.Clamp(e.Float("pm10", 50)-factor*1.5))
				e.Set("voc", vocBounds.Clamp(e.Float("voc", 0.3)-factor*0.1))
				e.Set("co2", co2Bounds.Clamp(e.Float("co2", 600)-factor*10))
			} else {
				// Untreated air deteriorates slowly
				e.Set("pm25", sim.Drift(r, e.Float("pm25", 35), 0.1, 0.5, pm25Bounds))
				e.Set("pm10", sim.Drift(r, e.Float("pm10", 50), 0.1, 0.3, pm10Bounds))
				e.Set("voc", sim.Drift(r, e.Float("voc", 0.3), 0.001, 0.005, vocBounds))
				e.Set("co2", sim.Drift(r, e.Float("co2", 600), 1, 5, co2Bounds))
			}

			aqi := sim.AQIFromPM25(e.Float("pm25", 35))
			e.Set("aqi", aqi)

			if e.Float("filter_life", 100) < 10 {
				e.Log().Warn("Air purifier filter needs replacement")
			}
			return nil
		},
		Commands: map[string]CommandFunc{
			"turn_on": func(e *Entity, args map[string]interface{}) []Event {
				e.Set("on", true)
				return one(update("air_purifier", "turn_on", nil))
			},
			"turn_off": func(e *Entity, args map[string]interface{}) []Event {
				e.Set("on", false)
				return one(update("air_purifier", "turn_off", nil))
			},
			"set_speed": func(e *Entity, args map[string]interface{}) []Event {
				speed := clampFloat(argFloat(args, "speed", 50), 0, 100)
				e.Set("speed", speed)
				return one(update("air_purifier", "set_speed", map[string]interface{}{"speed": speed}))
			},
			"reset_filter": func(e *Entity, args map[string]interface{}) []Event {
				e.Set("filter_life", 100.0)
				e.Set("filter_usage_hours", 0.0)
				return one(update("air_purifier", "reset_filter", nil))
			},
		},
	}
}

var vacuumFanSpeeds = []string{"silent", "standard", "medium", "turbo"}

// vacuumDrainRates is battery drain in percent per minute while cleaning.
var vacuumDrainRates = map[string]float64{
	"silent":   0.5,
	"standard": 0.8,
	"medium":   1.0,
	"turbo":    1.5,
}

// vacuumCleanRates is cleaned area in m2 per minute.
var vacuumCleanRates = map[string]float64{
	"silent":   0.8,
	"standard": 1.0,
	"medium":   1.2,
	"turbo":    1.5,
}

// VacuumDescriptor describes a robot vacuum with a battery cycle:
// cleaning drains it, a low battery forces a return, docking recharges.
func VacuumDescriptor() *Descriptor {
	battBounds := sim.Bounds{Min: 0, Max: 100}
	const (
		chargeRate    = 2.0 // percent per minute while docked
		lowBattery    = 15.0
		returnPerMin  = 0.2 // drain while returning
	)
	return &Descriptor{
		Domain: "vacuum",
		Icon:   "mdi:robot-vacuum",
		DefaultState: func(cfg EntityConfig) EntityState {
			fan := cfg.GetString("fan_speed", "medium")
			if !oneOf(fan, vacuumFanSpeeds) {
				fan = "medium"
			}
			return EntityState{
				"state":             "docked",
				"battery_level":     100.0,
				"fan_speed":         fan,
				"cleaned_area":      0.0,
				"cleaning_duration": 0.0,
			}
		},
		Simulate: func(e *Entity, elapsed time.Duration) []Event {
			minutes := elapsed.Minutes()
			battery := e.Float("battery_level", 100)

			switch e.String("state", "docked") {
			case "cleaning":
				fan := e.String("fan_speed", "medium")
				battery = battBounds.Clamp(battery - vacuumDrainRates[fan]*minutes)
				e.Set("battery_level", battery)
				e.Set("cleaned_area", e.Float("cleaned_area", 0)+vacuumCleanRates[fan]*minutes)
				e.Set("cleaning_duration", e.Float("cleaning_duration", 0)+elapsed.Seconds())
				if battery <= lowBattery {
					e.Set("state", "returning")
					e.Log().Info("Vacuum battery low, returning to dock")
					return one(update("vacuum", "return_to_base", map[string]interface{}{"battery_level": battery}))
				}
			case "returning":
				battery = battBounds.Clamp(battery - returnPerMin*minutes)
				e.Set("battery_level", battery)
				// The trip home takes roughly one tick
				e.Set("state", "docked")
				return one(update("vacuum", "docked", nil))
			case "docked":
				if battery < 100 {
					e.Set("battery_level", battBounds.Clamp(battery+chargeRate*minutes))
				}
			}
			return nil
		},
		Commands: map[string]CommandFunc{
			"start": func(e *Entity, args map[string]interface{}) []Event {
				if e.Float("battery_level", 100) <= lowBattery {
					e.Log().Warn("Vacuum battery too low to start cleaning")
					return nil
				}
				e.Set("state", "cleaning")
				return one(update("vacuum", "start", nil))
			},
			"pause": func(e *Entity, args map[string]interface{}) []Event {
				if e.String("state", "docked") != "cleaning" {
					return nil
				}
				e.Set("state", "paused")
				return one(update("vacuum", "pause", nil))
			},
			"stop": func(e *Entity, args map[string]interface{}) []Event {
				e.Set("state", "idle")
				return one(update("vacuum", "stop", nil))
			},
			"return_to_base": func(e *Entity, args map[string]interface{}) []Event {
				e.Set("state", "returning")
				return one(update("vacuum", "return_to_base", nil))
			},
			"set_fan_speed": func(e *Entity, args map[string]interface{}) []Event {
				fan := argString(args, "fan_speed", "medium")
				if !oneOf(fan, vacuumFanSpeeds) {
					e.Log().WithField("fan_speed", fan).Warn("Unsupported fan speed ignored")
					return nil
				}
				e.Set("fan_speed", fan)
				return one(update("vacuum", "set_fan_speed", map[string]interface{}{"fan_speed": fan}))
			},
		},
	}
}
