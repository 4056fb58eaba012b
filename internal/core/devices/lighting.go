package devices

import (
	"time"

	"github.com/frostdev-ops/virtual-device-sim/internal/core/sim"
)

// Descriptors for the lighting_control family: light, switch, cover.

var lightEffects = []string{"none", "colorloop", "random", "breathe", "candle"}

// LightDescriptor describes a dimmable light with optional color support.
func LightDescriptor() *Descriptor {
	return &Descriptor{
		Domain: "light",
		Icon:   "mdi:lightbulb",
		DefaultState: func(cfg EntityConfig) EntityState {
			return EntityState{
				"on":         false,
				"brightness": cfg.GetFloat("brightness", 255),
				"color_temp": cfg.GetFloat("color_temp", 370),
				"rgb_color":  cfg.GetString("rgb_color", "255,255,255"),
				"effect":     "none",
			}
		},
		Commands: map[string]CommandFunc{
			"turn_on": func(e *Entity, args map[string]interface{}) []Event {
				e.Set("on", true)
				if _, ok := args["brightness"]; ok {
					e.Set("brightness", clampFloat(argFloat(args, "brightness", 255), 0, 255))
				}
				if _, ok := args["color_temp"]; ok {
					e.Set("color_temp", clampFloat(argFloat(args, "color_temp", 370), 153, 500))
				}
				if _, ok := args["rgb_color"]; ok {
					e.Set("rgb_color", argString(args, "rgb_color", "255,255,255"))
				}
				if effect := argString(args, "effect", ""); effect != "" {
					if oneOf(effect, lightEffects) {
						e.Set("effect", effect)
					} else {
						e.Log().WithField("effect", effect).Warn("Unsupported light effect ignored")
					}
				}
				return one(update("light", "turn_on", map[string]interface{}{
					"brightness": e.Float("brightness", 255),
				}))
			},
			"turn_off": func(e *Entity, args map[string]interface{}) []Event {
				e.Set("on", false)
				return one(update("light", "turn_off", nil))
			},
			"toggle": func(e *Entity, args map[string]interface{}) []Event {
				on := !e.Bool("on", false)
				e.Set("on", on)
				return one(update("light", "toggle", map[string]interface{}{"on": on}))
			},
		},
	}
}

// SwitchDescriptor describes a plain switch with simulated power draw.
func SwitchDescriptor() *Descriptor {
	powerBounds := sim.Bounds{Min: 0, Max: 3000}
	return &Descriptor{
		Domain: "switch",
		Icon:   "mdi:toggle-switch",
		DefaultState: func(cfg EntityConfig) EntityState {
			return EntityState{
				"on":         false,
				"power_w":    0.0,
				"energy_kwh": 0.0,
			}
		},
		Simulate: func(e *Entity, elapsed time.Duration) []Event {
			if !e.Bool("on", false) {
				e.Set("power_w", 0.0)
				return nil
			}
			base := e.Config().GetFloat("rated_power", 60)
			power := powerBounds.Clamp(sim.Uniform(e.Ctx().Rand, base*0.9, base*1.1))
			e.Set("power_w", power)
			e.Set("energy_kwh", e.Float("energy_kwh", 0)+power/1000*elapsed.Hours())
			return nil
		},
		Commands: map[string]CommandFunc{
			"turn_on": func(e *Entity, args map[string]interface{}) []Event {
				e.Set("on", true)
				return one(update("switch", "turn_on", nil))
			},
			"turn_off": func(e *Entity, args map[string]interface{}) []Event {
				e.Set("on", false)
				e.Set("power_w", 0.0)
				return one(update("switch", "turn_off", nil))
			},
			"toggle": func(e *Entity, args map[string]interface{}) []Event {
				on := !e.Bool("on", false)
				e.Set("on", on)
				if !on {
					e.Set("power_w", 0.0)
				}
				return one(update("switch", "toggle", map[string]interface{}{"on": on}))
			},
		},
	}
}

var coverTypes = []string{"blind", "curtain", "damper", "door", "garage", "shade", "shutter", "window"}

// CoverDescriptor describes a position-tracking cover. Position travels
// toward the commanded target on each tick instead of jumping.
func CoverDescriptor() *Descriptor {
	posBounds := sim.Bounds{Min: 0, Max: 100}
	// percent per second while travelling
	const travelRate = 10.0
	return &Descriptor{
		Domain: "cover",
		Icon:   "mdi:window-shutter",
		Validate: func(cfg EntityConfig) error {
			if t := cfg.GetString("cover_type", "blind"); !oneOf(t, coverTypes) {
				return errInvalidOption("cover_type", t)
			}
			return nil
		},
		DefaultState: func(cfg EntityConfig) EntityState {
			pos := clampFloat(cfg.GetFloat("position", 0), 0, 100)
			return EntityState{
				"position":        pos,
				"target_position": pos,
				"state":           coverStateFor(pos, pos),
			}
		},
		Simulate: func(e *Entity, elapsed time.Duration) []Event {
			pos := e.Float("position", 0)
			target := e.Float("target_position", pos)
			if pos == target {
				return nil
			}
			next := sim.Toward(pos, target, travelRate, elapsed, posBounds)
			e.Set("position", next)
			e.Set("state", coverStateFor(next, target))
			if next == target {
				return one(update("cover", "position_reached", map[string]interface{}{"position": next}))
			}
			return nil
		},
		Commands: map[string]CommandFunc{
			"open": func(e *Entity, args map[string]interface{}) []Event {
				e.Set("target_position", 100.0)
				e.Set("state", "opening")
				return one(update("cover", "open", nil))
			},
			"close": func(e *Entity, args map[string]interface{}) []Event {
				e.Set("target_position", 0.0)
				e.Set("state", "closing")
				return one(update("cover", "close", nil))
			},
			"stop": func(e *Entity, args map[string]interface{}) []Event {
				pos := e.Float("position", 0)
				e.Set("target_position", pos)
				e.Set("state", coverStateFor(pos, pos))
				return one(update("cover", "stop", map[string]interface{}{"position": pos}))
			},
			"set_position": func(e *Entity, args map[string]interface{}) []Event {
				target := clampFloat(argFloat(args, "position", 0), 0, 100)
				e.Set("target_position", target)
				e.Set("state", coverStateFor(e.Float("position", 0), target))
				return one(update("cover", "set_position", map[string]interface{}{"target_position": target}))
			},
		},
	}
}

func coverStateFor(pos, target float64) string {
	switch {
	case pos < target:
		return "opening"
	case pos > target:
		return "closing"
	case pos == 0:
		return "closed"
	default:
		return "open"
	}
}
