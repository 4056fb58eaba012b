package devices

import (
	"time"

	"github.com/frostdev-ops/virtual-device-sim/internal/core/sim"
)

// Descriptors for the security_access family: lock, camera, valve.

// LockDescriptor describes a battery-powered lock with optional auto-lock
// and optional random jamming.
//
// Unlocking schedules a one-shot auto-lock. The callback re-checks state
// when it fires: a lock that was manually re-locked in the meantime is
// left alone and no duplicate event is emitted.
func LockDescriptor() *Descriptor {
	battBounds := sim.Bounds{Min: 0, Max: 100}
	return &Descriptor{
		Domain: "lock",
		Icon:   "mdi:lock",
		DefaultState: func(cfg EntityConfig) EntityState {
			return EntityState{
				"locked":        true,
				"jammed":        false,
				"battery_level": cfg.GetFloat("battery_level", 100),
			}
		},
		Simulate: func(e *Entity, elapsed time.Duration) []Event {
			r := e.Ctx().Rand
			battery := e.Float("battery_level", 100)
			// Unlocked hardware holds the bolt retracted and drains faster
			if e.Bool("locked", true) {
				battery -= sim.Uniform(r, 0.001, 0.01)
			} else {
				battery -= sim.Uniform(r, 0.01, 0.05)
			}
			e.Set("battery_level", battBounds.Clamp(battery))

			if !e.Config().GetBool("enable_jamming", false) {
				return nil
			}
			if !e.Bool("jammed", false) && r.Float64() < 0.01 {
				e.Set("jammed", true)
				e.Log().Warn("Lock is jammed")
				return one(update("lock", "jammed", nil))
			}
			if e.Bool("jammed", false) && r.Float64() < 0.1 {
				e.Set("jammed", false)
				e.Log().Info("Lock is no longer jammed")
				return one(update("lock", "jam_cleared", nil))
			}
			return nil
		},
		Commands: map[string]CommandFunc{
			"lock": func(e *Entity, args map[string]interface{}) []Event {
				if e.Bool("jammed", false) {
					e.Log().Warn("Lock is jammed, cannot lock")
					return nil
				}
				e.Set("locked", true)
				return one(update("lock", "lock", nil))
			},
			"unlock": func(e *Entity, args map[string]interface{}) []Event {
				if e.Bool("jammed", false) {
					e.Log().Warn("Lock is jammed, cannot unlock")
					return nil
				}
				e.Set("locked", false)
				if e.Config().GetBool("auto_lock", true) {
					delay := time.Duration(e.Config().GetInt("auto_lock_delay", 30)) * time.Second
					e.ScheduleOnce(delay, autoLock)
				}
				return one(update("lock", "unlock", nil))
			},
		},
	}
}

// autoLock is the delayed auto-lock guard: it only acts when the lock is
// still unlocked and not jammed at fire time.
func autoLock(e *Entity) []Event {
	if e.Bool("locked", true) || e.Bool("jammed", false) {
		return nil
	}
	e.Set("locked", true)
	e.Log().Debug("Auto-lock engaged")
	return one(update("lock", "auto_lock", nil))
}

// CameraDescriptor describes a camera that detects motion at random while
// armed. Snapshot generation belongs to the host's imaging helper and is
// not simulated here.
func CameraDescriptor() *Descriptor {
	return &Descriptor{
		Domain: "camera",
		Icon:   "mdi:video",
		DefaultState: func(cfg EntityConfig) EntityState {
			return EntityState{
				"on":               true,
				"recording":        false,
				"motion_detection": cfg.GetBool("motion_detection", true),
				"motion_detected":  false,
			}
		},
		Simulate: func(e *Entity, elapsed time.Duration) []Event {
			if !e.Bool("on", true) || !e.Bool("motion_detection", true) {
				e.Set("motion_detected", false)
				return nil
			}
			detected := e.Ctx().Rand.Float64() < 0.05
			if detected && !e.Bool("motion_detected", false) {
				e.Set("motion_detected", true)
				return one(update("camera", "motion_detected", nil))
			}
			e.Set("motion_detected", detected)
			return nil
		},
		Commands: map[string]CommandFunc{
			"turn_on": func(e *Entity, args map[string]interface{}) []Event {
				e.Set("on", true)
				return one(update("camera", "turn_on", nil))
			},
			"turn_off": func(e *Entity, args map[string]interface{}) []Event {
				e.Set("on", false)
				e.Set("recording", false)
				e.Set("motion_detected", false)
				return one(update("camera", "turn_off", nil))
			},
			"enable_motion_detection": func(e *Entity, args map[string]interface{}) []Event {
				e.Set("motion_detection", true)
				return one(update("camera", "enable_motion_detection", nil))
			},
			"disable_motion_detection": func(e *Entity, args map[string]interface{}) []Event {
				e.Set("motion_detection", false)
				e.Set("motion_detected", false)
				return one(update("camera", "disable_motion_detection", nil))
			},
			"record": func(e *Entity, args map[string]interface{}) []Event {
				if !e.Bool("on", true) {
					e.Log().Warn("Camera is off, cannot record")
					return nil
				}
				e.Set("recording", true)
				return one(update("camera", "record", nil))
			},
			"stop_recording": func(e *Entity, args map[string]interface{}) []Event {
				e.Set("recording", false)
				return one(update("camera", "stop_recording", nil))
			},
		},
	}
}

// valveTravelTime is how long a commanded move takes to settle.
const valveTravelTime = 2 * time.Second

// ValveDescriptor describes a motorized valve. A position command starts a
// short travel animation; the completion callback re-checks the target so
// a move retargeted mid-travel is not clobbered by the stale completion.
func ValveDescriptor() *Descriptor {
	return &Descriptor{
		Domain: "valve",
		Icon:   "mdi:valve",
		DefaultState: func(cfg EntityConfig) EntityState {
			pos := clampFloat(cfg.GetFloat("position", 0), 0, 100)
			return EntityState{
				"position":        pos,
				"target_position": pos,
				"moving":          false,
			}
		},
		Commands: map[string]CommandFunc{
			"open": func(e *Entity, args map[string]interface{}) []Event {
				return valveMove(e, 100)
			},
			"close": func(e *Entity, args map[string]interface{}) []Event {
				return valveMove(e, 0)
			},
			"set_position": func(e *Entity, args map[string]interface{}) []Event {
				return valveMove(e, clampFloat(argFloat(args, "position", 0), 0, 100))
			},
			"stop": func(e *Entity, args map[string]interface{}) []Event {
				e.Set("target_position", e.Float("position", 0))
				e.Set("moving", false)
				return one(update("valve", "stop", map[string]interface{}{"position": e.Float("position", 0)}))
			},
		},
	}
}

func valveMove(e *Entity, target float64) []Event {
	if e.Float("position", 0) == target {
		return nil
	}
	e.Set("target_position", target)
	e.Set("moving", true)
	e.ScheduleOnce(valveTravelTime, func(e *Entity) []Event {
		// Target changed or move cancelled while travelling
		if !e.Bool("moving", false) || e.Float("target_position", target) != target {
			return nil
		}
		e.Set("position", target)
		e.Set("moving", false)
		return one(update("valve", "position_reached", map[string]interface{}{"position": target}))
	})
	return one(update("valve", "move", map[string]interface{}{"target_position": target}))
}
