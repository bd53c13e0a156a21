package session

import (
	"reflect"
	"testing"
)

func TestSlotPhases(t *testing.T) {
	r := NewPlayerRegistry()

	if got := r.Phase("u1"); got != PhaseDormant {
		t.Fatalf("fresh slot should be dormant, got %s", got)
	}

	r.Activate("u1")
	if got := r.Phase("u1"); got != PhaseArmed {
		t.Fatalf("activated slot should be armed, got %s", got)
	}

	r.ReportPlay("u1")
	if got := r.Phase("u1"); got != PhasePlaying {
		t.Fatalf("slot should be playing after engine play, got %s", got)
	}

	r.ReportStop("u1")
	if got := r.Phase("u1"); got != PhaseArmed {
		t.Fatalf("slot should return to armed after pause, got %s", got)
	}

	r.Activate("u2")
	if got := r.Phase("u1"); got != PhaseDormant {
		t.Fatalf("other slot activation should force dormant, got %s", got)
	}
	if got := r.Phase("u2"); got != PhaseArmed {
		t.Fatalf("newly active slot should be armed, got %s", got)
	}
}

func TestReportPlayPausesAllOthers(t *testing.T) {
	r := NewPlayerRegistry()

	// Two engines playing at once: the UI lost track of u1 (user
	// navigated away mid-playback) and later started u2 and u3.
	r.ReportPlay("u1")
	if pause := r.ReportPlay("u2"); !reflect.DeepEqual(pause, []string{"u1"}) {
		t.Fatalf("expected [u1] to pause, got %v", pause)
	}

	r.playing["zz"] = struct{}{}
	r.playing["aa"] = struct{}{}
	if pause := r.ReportPlay("u3"); !reflect.DeepEqual(pause, []string{"aa", "u2", "zz"}) {
		t.Fatalf("expected sorted pause list, got %v", pause)
	}

	if r.PlayingCount() != 1 {
		t.Errorf("exactly one engine should remain playing, got %d", r.PlayingCount())
	}
}

func TestReportPlayIdempotent(t *testing.T) {
	r := NewPlayerRegistry()
	r.ReportPlay("u1")
	if pause := r.ReportPlay("u1"); len(pause) != 0 {
		t.Errorf("replaying the same slot should pause nothing, got %v", pause)
	}
	if r.PlayingCount() != 1 {
		t.Errorf("expected one playing engine, got %d", r.PlayingCount())
	}
}

func TestDeactivateDoesNotForcePause(t *testing.T) {
	r := NewPlayerRegistry()
	r.Activate("u1")
	r.ReportPlay("u1")

	r.Deactivate()
	// The slot stops rendering, but the engine keeps playing until the
	// next play event sweeps it up.
	if got := r.Phase("u1"); got != PhasePlaying {
		t.Errorf("deactivation must not stop the engine, got %s", got)
	}

	r.Activate("u2")
	if pause := r.ReportPlay("u2"); !reflect.DeepEqual(pause, []string{"u1"}) {
		t.Errorf("the orphaned engine should be paused now, got %v", pause)
	}
}

func TestReportEvents(t *testing.T) {
	r := NewPlayerRegistry()

	if _, err := r.Report("u1", PlayerEvent("seek")); err == nil {
		t.Error("unknown events must be rejected")
	}

	if _, err := r.Report("u1", EventPlay); err != nil {
		t.Fatalf("play event failed: %v", err)
	}
	if _, err := r.Report("u1", EventEnded); err != nil {
		t.Fatalf("ended event failed: %v", err)
	}
	if r.PlayingCount() != 0 {
		t.Errorf("ended should stop the engine, count = %d", r.PlayingCount())
	}
}

func TestPlayerEventValid(t *testing.T) {
	for _, e := range []PlayerEvent{EventPlay, EventPause, EventEnded} {
		if !e.Valid() {
			t.Errorf("%s should be valid", e)
		}
	}
	if PlayerEvent("stop").Valid() {
		t.Error("stop should not be valid")
	}
}
