package devices

import (
	"time"
)

// Descriptors for the automation_scene family: button, scene,
// media_player.

// ButtonDescriptor describes a stateless push button. The only persisted
// value is the last press time, so a restart keeps the diagnostics row.
func ButtonDescriptor() *Descriptor {
	return &Descriptor{
		Domain: "button",
		Icon:   "mdi:gesture-tap-button",
		DefaultState: func(cfg EntityConfig) EntityState {
			return EntityState{"last_pressed": ""}
		},
		Commands: map[string]CommandFunc{
			"press": func(e *Entity, args map[string]interface{}) []Event {
				now := e.Ctx().Clock.Now().UTC().Format(time.RFC3339)
				e.Set("last_pressed", now)
				return one(update("button", "press", map[string]interface{}{"pressed_at": now}))
			},
		},
	}
}

// SceneDescriptor describes an activatable scene.
func SceneDescriptor() *Descriptor {
	return &Descriptor{
		Domain: "scene",
		Icon:   "mdi:palette",
		DefaultState: func(cfg EntityConfig) EntityState {
			return EntityState{"last_activated": ""}
		},
		Commands: map[string]CommandFunc{
			"activate": func(e *Entity, args map[string]interface{}) []Event {
				now := e.Ctx().Clock.Now().UTC().Format(time.RFC3339)
				e.Set("last_activated", now)
				return one(update("scene", "activate", map[string]interface{}{"activated_at": now}))
			},
		},
	}
}

var mediaPlayerSources = []string{"bluetooth", "aux", "radio", "spotify", "library"}

// mediaLibrary is the rotation of fake tracks a playing media player
// advances through.
var mediaLibrary = []string{
	"Morning Coffee",
	"Afternoon Drive",
	"Evening Wind Down",
	"Night Owl Session",
}

// MediaPlayerDescriptor describes a media player that advances through a
// fixed playlist while playing and tracks playback position.
func MediaPlayerDescriptor() *Descriptor {
	const trackLength = 240.0 // seconds
	return &Descriptor{
		Domain: "media_player",
		Icon:   "mdi:speaker",
		DefaultState: func(cfg EntityConfig) EntityState {
			return EntityState{
				"state":          "off",
				"volume":         cfg.GetFloat("volume", 0.5),
				"muted":          false,
				"source":         cfg.GetString("source", "library"),
				"media_title":    mediaLibrary[0],
				"media_position": 0.0,
			}
		},
		Simulate: func(e *Entity, elapsed time.Duration) []Event {
			if e.String("state", "off") != "playing" {
				return nil
			}
			pos := e.Float("media_position", 0) + elapsed.Seconds()
			if pos < trackLength {
				e.Set("media_position", pos)
				return nil
			}
			// Track finished, advance the playlist
			e.Set("media_position", 0.0)
			cur := e.String("media_title", mediaLibrary[0])
			next := mediaLibrary[0]
			for i, t := range mediaLibrary {
				if t == cur {
					next = mediaLibrary[(i+1)%len(mediaLibrary)]
					break
				}
			}
			e.Set("media_title", next)
			return one(update("media_player", "track_changed", map[string]interface{}{"media_title": next}))
		},
		Commands: map[string]CommandFunc{
			"turn_on": func(e *Entity, args map[string]interface{}) []Event {
				e.Set("state", "idle")
				return one(update("media_player", "turn_on", nil))
			},
			"turn_off": func(e *Entity, args map[string]interface{}) []Event {
				e.Set("state", "off")
				e.Set("media_position", 0.0)
				return one(update("media_player", "turn_off", nil))
			},
			"play": func(e *Entity, args map[string]interface{}) []Event {
				if e.String("state", "off") == "off" {
					e.Log().Warn("Media player is off, cannot play")
					return nil
				}
				e.Set("state", "playing")
				return one(update("media_player", "play", map[string]interface{}{"media_title": e.String("media_title", "")}))
			},
			"pause": func(e *Entity, args map[string]interface{}) []Event {
				if e.String("state", "off") != "playing" {
					return nil
				}
				e.Set("state", "paused")
				return one(update("media_player", "pause", nil))
			},
			"stop": func(e *Entity, args map[string]interface{}) []Event {
				if e.String("state", "off") == "off" {
					return nil
				}
				e.Set("state", "idle")
				e.Set("media_position", 0.0)
				return one(update("media_player", "stop", nil))
			},
			"volume_set": func(e *Entity, args map[string]interface{}) []Event {
				vol := clampFloat(argFloat(args, "volume", 0.5), 0, 1)
				e.Set("volume", vol)
				return one(update("media_player", "volume_set", map[string]interface{}{"volume": vol}))
			},
			"mute": func(e *Entity, args map[string]interface{}) []Event {
				muted := EntityConfig(args).GetBool("muted", !e.Bool("muted", false))
				e.Set("muted", muted)
				return one(update("media_player", "mute", map[string]interface{}{"muted": muted}))
			},
			"select_source": func(e *Entity, args map[string]interface{}) []Event {
				src := argString(args, "source", "library")
				if !oneOf(src, mediaPlayerSources) {
					e.Log().WithField("source", src).Warn("Unsupported source ignored")
					return nil
				}
				e.Set("source", src)
				return one(update("media_player", "select_source", map[string]interface{}{"source": src}))
			},
		},
	}
}
