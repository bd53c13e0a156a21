package session

import (
	"fmt"
	"sort"
)

// SlotPhase is the lifecycle phase of a single media slot.
//
//	Dormant --activate--> Armed --play--> Playing --pause/ended--> Armed
//
// Activating another slot, or navigating, forces this slot back to
// Dormant. A Playing slot that loses its active status keeps playing at
// the engine level until the exclusivity sweep on the next play event
// pauses it.
type SlotPhase string

const (
	// PhaseDormant means the slot renders no player.
	PhaseDormant SlotPhase = "dormant"
	// PhaseArmed means the slot renders a player that is not playing.
	PhaseArmed SlotPhase = "armed"
	// PhasePlaying means the engine reported playback for this slot.
	PhasePlaying SlotPhase = "playing"
)

// PlayerEvent is a playback signal reported by the media engine.
type PlayerEvent string

const (
	// EventPlay reports that playback started.
	EventPlay PlayerEvent = "play"
	// EventPause reports that playback paused.
	EventPause PlayerEvent = "pause"
	// EventEnded reports that playback reached the end.
	EventEnded PlayerEvent = "ended"
)

// Valid reports whether e is a known player event.
func (e PlayerEvent) Valid() bool {
	return e == EventPlay || e == EventPause || e == EventEnded
}

// PlayerRegistry enforces playback exclusivity at the media-engine
// boundary. The navigation State already guarantees a single active
// record; the registry additionally tracks which engines are actually
// emitting sound, so a play event can pause players the UI lost track
// of (started, navigated away, reactivated elsewhere).
//
// The registry is not safe for concurrent use on its own; Session
// serializes access.
type PlayerRegistry struct {
	active  string
	playing map[string]struct{}
}

// NewPlayerRegistry returns an empty registry.
func NewPlayerRegistry() *PlayerRegistry {
	return &PlayerRegistry{playing: make(map[string]struct{})}
}

// Activate marks url as the only armed slot.
func (r *PlayerRegistry) Activate(url string) {
	r.active = url
}

// Deactivate disarms the active slot. Engines already playing are left
// alone: deactivation only stops the slot from rendering a player, it
// does not force-pause sound that is underway.
func (r *PlayerRegistry) Deactivate() {
	r.active = ""
}

// ReportPlay records that url started playing and returns every other
// URL that was playing, in sorted order. The caller must pause those
// engines; the registry assumes it will and marks them stopped.
func (r *PlayerRegistry) ReportPlay(url string) []string {
	var pause []string
	for other := range r.playing {
		if other != url {
			pause = append(pause, other)
			delete(r.playing, other)
		}
	}
	sort.Strings(pause)
	r.playing[url] = struct{}{}
	return pause
}

// ReportStop records a pause or ended signal for url.
func (r *PlayerRegistry) ReportStop(url string) {
	delete(r.playing, url)
}

// Report applies a player event and returns the URLs the engine must
// pause in response.
func (r *PlayerRegistry) Report(url string, event PlayerEvent) ([]string, error) {
	switch event {
	case EventPlay:
		return r.ReportPlay(url), nil
	case EventPause, EventEnded:
		r.ReportStop(url)
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown player event %q", event)
	}
}

// Phase returns the lifecycle phase of the slot for url.
func (r *PlayerRegistry) Phase(url string) SlotPhase {
	if _, ok := r.playing[url]; ok {
		return PhasePlaying
	}
	if url != "" && url == r.active {
		return PhaseArmed
	}
	return PhaseDormant
}

// PlayingCount returns how many engines are currently playing. Under
// normal operation this is 0 or 1; anything higher is a transient
// desynchronization that the next play event sweeps away.
func (r *PlayerRegistry) PlayingCount() int {
	return len(r.playing)
}
