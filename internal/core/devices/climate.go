package devices

import (
	"time"

	"github.com/frostdev-ops/virtual-device-sim/internal/core/sim"
)

// Descriptors for the climate_control family: climate, humidifier,
// water_heater. The temperature and humidity curves reproduce the device
// behavior the fleet is meant to fake: active devices move toward their
// target at a per-type rate, idle devices drift back toward ambient.

var hvacModes = []string{"off", "heat", "cool", "auto", "dry", "fan_only"}
var climateFanModes = []string{"auto", "low", "medium", "high"}

// ClimateDescriptor describes a thermostat-style HVAC unit.
func ClimateDescriptor() *Descriptor {
	const (
		tempRate  = 0.5 / 60 // 0.5 deg C per minute
		threshold = 1.0
	)
	return &Descriptor{
		Domain: "climate",
		Icon:   "mdi:thermostat",
		DefaultState: func(cfg EntityConfig) EntityState {
			return EntityState{
				"hvac_mode":           "off",
				"target_temperature":  cfg.GetFloat("target_temperature", 24),
				"current_temperature": cfg.GetFloat("current_temperature", 22),
				"fan_mode":            "auto",
				"swing_mode":          "off",
			}
		},
		Simulate: func(e *Entity, elapsed time.Duration) []Event {
			bounds := sim.Bounds{
				Min: e.Config().GetFloat("min_temp", 7),
				Max: e.Config().GetFloat("max_temp", 35),
			}
			current := e.Float("current_temperature", 22)
			target := e.Float("target_temperature", 24)
			mode := e.String("hvac_mode", "off")

			switch mode {
			case "off", "fan_only":
				// Drift toward ambient with small perturbation
				e.Set("current_temperature", sim.Jitter(e.Ctx().Rand, current, 0.2, bounds))
			default:
				diff := target - current
				if diff > threshold || diff < -threshold {
					e.Set("current_temperature", sim.Toward(current, target, tempRate, elapsed, bounds))
				} else {
					e.Set("current_temperature", sim.Jitter(e.Ctx().Rand, current, 0.1, bounds))
				}
			}
			return nil
		},
		Commands: map[string]CommandFunc{
			"set_hvac_mode": func(e *Entity, args map[string]interface{}) []Event {
				mode := argString(args, "hvac_mode", "off")
				if !oneOf(mode, hvacModes) {
					e.Log().WithField("hvac_mode", mode).Warn("Unsupported hvac mode ignored")
					return nil
				}
				e.Set("hvac_mode", mode)
				return one(update("climate", "set_hvac_mode", map[string]interface{}{"hvac_mode": mode}))
			},
			"set_temperature": func(e *Entity, args map[string]interface{}) []Event {
				lo := e.Config().GetFloat("min_temp", 7)
				hi := e.Config().GetFloat("max_temp", 35)
				target := clampFloat(argFloat(args, "temperature", 24), lo, hi)
				e.Set("target_temperature", target)
				return one(update("climate", "set_temperature", map[string]interface{}{"target_temperature": target}))
			},
			"set_fan_mode": func(e *Entity, args map[string]interface{}) []Event {
				mode := argString(args, "fan_mode", "auto")
				if !oneOf(mode, climateFanModes) {
					e.Log().WithField("fan_mode", mode).Warn("Unsupported fan mode ignored")
					return nil
				}
				e.Set("fan_mode", mode)
				return one(update("climate", "set_fan_mode", map[string]interface{}{"fan_mode": mode}))
			},
			"set_swing_mode": func(e *Entity, args map[string]interface{}) []Event {
				mode := argString(args, "swing_mode", "off")
				e.Set("swing_mode", mode)
				return one(update("climate", "set_swing_mode", map[string]interface{}{"swing_mode": mode}))
			},
		},
	}
}

var humidifierTypes = []string{"ultrasonic", "evaporative", "steam", "impeller"}
var humidifierModes = []string{"normal", "eco", "boost", "sleep", "auto", "baby"}

// humidifierRates is the output rate in percent relative humidity per
// minute, by humidifier type.
var humidifierRates = map[string]float64{
	"ultrasonic":  2.0,
	"evaporative": 1.5,
	"steam":       3.0,
	"impeller":    1.0,
}

// humidifierWaterRates is water consumption in liters per hour.
var humidifierWaterRates = map[string]float64{
	"ultrasonic":  0.3,
	"evaporative": 0.25,
	"steam":       0.5,
	"impeller":    0.2,
}

var humidifierModeMultiplier = map[string]float64{
	"normal": 1.0,
	"eco":    0.7,
	"boost":  1.5,
	"sleep":  0.5,
	"auto":   1.0,
	"baby":   0.8,
}

// HumidifierDescriptor describes a humidifier with a finite water tank.
func HumidifierDescriptor() *Descriptor {
	humBounds := sim.Bounds{Min: 30, Max: 80}
	return &Descriptor{
		Domain: "humidifier",
		Icon:   "mdi:air-humidifier",
		Validate: func(cfg EntityConfig) error {
			if t := cfg.GetString("humidifier_type", "ultrasonic"); !oneOf(t, humidifierTypes) {
				return errInvalidOption("humidifier_type", t)
			}
			return nil
		},
		DefaultState: func(cfg EntityConfig) EntityState {
			return EntityState{
				"on":                   false,
				"mode":                 "normal",
				"target_humidity":      cfg.GetFloat("target_humidity", 60),
				"current_humidity":     cfg.GetFloat("current_humidity", 45),
				"water_level":          100.0,
				"total_water_consumed": 0.0,
			}
		},
		Simulate: func(e *Entity, elapsed time.Duration) []Event {
			current := e.Float("current_humidity", 45)
			htype := e.Config().GetString("humidifier_type", "ultrasonic")

			if !e.Bool("on", false) || e.Float("water_level", 100) <= 0 {
				// Ambient drift when off or dry
				e.Set("current_humidity", sim.Jitter(e.Ctx().Rand, current, 0.5, humBounds))
				return nil
			}

			target := e.Float("target_humidity", 60)
			rate := humidifierRates[htype] / 60 * humidifierModeMultiplier[e.String("mode", "normal")]
			e.Set("current_humidity", sim.Toward(current, target, rate*0.9, elapsed, humBounds))

			tank := e.Config().GetFloat("tank_capacity", 4) // liters
			consumed := humidifierWaterRates[htype] * elapsed.Hours()
			e.Set("total_water_consumed", e.Float("total_water_consumed", 0)+consumed)
			level := sim.Bounds{Min: 0, Max: 100}.Clamp(e.Float("water_level", 100) - consumed*100/tank)
			e.Set("water_level", level)
			if level == 0 {
				e.Set("on", false)
				e.Log().Warn("Humidifier tank empty, turning off")
				return one(update("humidifier", "tank_empty", nil))
			}
			return nil
		},
		Commands: map[string]CommandFunc{
			"turn_on": func(e *Entity, args map[string]interface{}) []Event {
				if e.Float("water_level", 100) <= 0 {
					e.Log().Warn("Humidifier tank empty, cannot turn on")
					return nil
				}
				e.Set("on", true)
				return one(update("humidifier", "turn_on", nil))
			},
			"turn_off": func(e *Entity, args map[string]interface{}) []Event {
				e.Set("on", false)
				return one(update("humidifier", "turn_off", nil))
			},
			"set_humidity": func(e *Entity, args map[string]interface{}) []Event {
				target := clampFloat(argFloat(args, "humidity", 60), humBounds.Min, humBounds.Max)
				e.Set("target_humidity", target)
				return one(update("humidifier", "set_humidity", map[string]interface{}{"target_humidity": target}))
			},
			"set_mode": func(e *Entity, args map[string]interface{}) []Event {
				mode := argString(args, "mode", "normal")
				if !oneOf(mode, humidifierModes) {
					e.Log().WithField("mode", mode).Warn("Unsupported humidifier mode ignored")
					return nil
				}
				e.Set("mode", mode)
				return one(update("humidifier", "set_mode", map[string]interface{}{"mode": mode}))
			},
			"refill_tank": func(e *Entity, args map[string]interface{}) []Event {
				e.Set("water_level", 100.0)
				return one(update("humidifier", "refill_tank", nil))
			},
		},
	}
}

var waterHeaterTypes = []string{"electric", "gas", "solar", "heat_pump", "tankless"}
var waterHeaterModes = []string{"off", "eco", "heat", "high_demand", "heat_pump"}

// waterHeaterRates is the heating rate in degrees C per minute.
var waterHeaterRates = map[string]float64{
	"electric":  0.5,
	"gas":       1.2,
	"solar":     0.3,
	"heat_pump": 0.4,
	"tankless":  2.0,
}

// waterHeaterPower is the active power draw range in watts.
var waterHeaterPower = map[string][2]float64{
	"electric":  {2000, 3000},
	"gas":       {3000, 5000},
	"solar":     {1000, 2000},
	"heat_pump": {800, 1500},
	"tankless":  {5000, 8000},
}

var waterHeaterStandby = map[string][2]float64{
	"electric":  {5, 15},
	"gas":       {10, 30},
	"solar":     {2, 5},
	"heat_pump": {5, 20},
	"tankless":  {5, 10},
}

// WaterHeaterDescriptor describes a tank water heater. Heating follows the
// per-type rate scaled by efficiency; idle tanks cool toward room
// temperature at 0.1 deg C per minute.
func WaterHeaterDescriptor() *Descriptor {
	const (
		ambient     = 20.0
		coolingRate = 0.1 / 60
		hysteresis  = 2.0
	)
	tempBounds := sim.Bounds{Min: ambient, Max: 85}
	return &Descriptor{
		Domain: "water_heater",
		Icon:   "mdi:water-boiler",
		Validate: func(cfg EntityConfig) error {
			if t := cfg.GetString("heater_type", "electric"); !oneOf(t, waterHeaterTypes) {
				return errInvalidOption("heater_type", t)
			}
			return nil
		},
		DefaultState: func(cfg EntityConfig) EntityState {
			return EntityState{
				"operation_mode":        "off",
				"target_temperature":    cfg.GetFloat("target_temperature", 60),
				"current_temperature":   cfg.GetFloat("current_temperature", 40),
				"is_heating":            false,
				"away_mode":             false,
				"power_w":               0.0,
				"energy_today_kwh":      cfg.GetFloat("energy_consumed_today", 0),
				"total_energy_kwh":      cfg.GetFloat("total_energy_consumed", 0),
			}
		},
		Simulate: func(e *Entity, elapsed time.Duration) []Event {
			htype := e.Config().GetString("heater_type", "electric")
			efficiency := e.Config().GetFloat("efficiency", 0.9)
			current := e.Float("current_temperature", 40)
			target := e.Float("target_temperature", 60)
			mode := e.String("operation_mode", "off")

			heating := e.Bool("is_heating", false)
			if mode != "off" && !e.Bool("away_mode", false) {
				// Hysteresis: start below target-2, stop at target
				if current < target-hysteresis {
					heating = true
				} else if current >= target {
					heating = false
				}
			} else {
				heating = false
			}

			if heating {
				rate := waterHeaterRates[htype] / 60 * efficiency
				e.Set("current_temperature", sim.Toward(current, target, rate, elapsed, tempBounds))
				p := waterHeaterPower[htype]
				e.Set("power_w", sim.Uniform(e.Ctx().Rand, p[0], p[1]))
			} else {
				e.Set("current_temperature", sim.Toward(current, ambient, coolingRate, elapsed, tempBounds))
				p := waterHeaterStandby[htype]
				e.Set("power_w", sim.Uniform(e.Ctx().Rand, p[0], p[1]))
			}

			energy := e.Float("power_w", 0) / 1000 * elapsed.Hours()
			e.Set("energy_today_kwh", e.Float("energy_today_kwh", 0)+energy)
			e.Set("total_energy_kwh", e.Float("total_energy_kwh", 0)+energy)

			if heating != e.Bool("is_heating", false) {
				e.Set("is_heating", heating)
				return one(update("water_heater", "heating_changed", map[string]interface{}{"is_heating": heating}))
			}
			e.Set("is_heating", heating)
			return nil
		},
		Commands: map[string]CommandFunc{
			"set_temperature": func(e *Entity, args map[string]interface{}) []Event {
				target := clampFloat(argFloat(args, "temperature", 60), 30, 80)
				e.Set("target_temperature", target)
				return one(update("water_heater", "set_temperature", map[string]interface{}{"target_temperature": target}))
			},
			"set_operation_mode": func(e *Entity, args map[string]interface{}) []Event {
				mode := argString(args, "operation_mode", "off")
				if !oneOf(mode, waterHeaterModes) {
					e.Log().WithField("operation_mode", mode).Warn("Unsupported operation mode ignored")
					return nil
				}
				e.Set("operation_mode", mode)
				return one(update("water_heater", "set_operation_mode", map[string]interface{}{"operation_mode": mode}))
			},
			"turn_away_mode_on": func(e *Entity, args map[string]interface{}) []Event {
				e.Set("away_mode", true)
				return one(update("water_heater", "away_mode_on", nil))
			},
			"turn_away_mode_off": func(e *Entity, args map[string]interface{}) []Event {
				e.Set("away_mode", false)
				return one(update("water_heater", "away_mode_off", nil))
			},
		},
	}
}
