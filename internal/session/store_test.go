package session

import (
	"errors"
	"testing"
	"time"
)

func TestStoreCreateAndGet(t *testing.T) {
	store := NewStore(time.Hour)

	s := store.Create()
	if s.ID == "" {
		t.Fatal("expected a session ID")
	}

	got, err := store.Get(s.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != s {
		t.Error("Get returned a different session")
	}

	if _, err := store.Get("nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}

	if store.Count() != 1 {
		t.Errorf("expected 1 session, got %d", store.Count())
	}
}

func TestStoreCleanExpired(t *testing.T) {
	store := NewStore(time.Minute)

	fresh := store.Create()
	stale := store.Create()
	stale.touch(time.Now().Add(-2 * time.Minute))

	if removed := store.CleanExpired(); removed != 1 {
		t.Fatalf("expected 1 expired session, got %d", removed)
	}

	if _, err := store.Get(fresh.ID); err != nil {
		t.Errorf("fresh session should survive: %v", err)
	}
	if _, err := store.Get(stale.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("stale session should be gone, got %v", err)
	}
}

func TestStoreSweeper(t *testing.T) {
	store := NewStore(time.Minute)

	stale := store.Create()
	stale.touch(time.Now().Add(-2 * time.Minute))

	stop := store.StartSweeper(10 * time.Millisecond)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && store.Count() > 0 {
		time.Sleep(10 * time.Millisecond)
	}
	if store.Count() != 0 {
		t.Fatalf("sweeper did not expire the stale session, %d left", store.Count())
	}

	// stop must halt the sweeper and return promptly
	finished := make(chan struct{})
	go func() {
		stop()
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("stopping the sweeper hung")
	}
}

func TestSessionTransitions(t *testing.T) {
	root := testTree()
	store := NewStore(time.Hour)
	s := store.Create()

	state, err := s.Descend(root, "Meditation")
	if err != nil {
		t.Fatalf("descend failed: %v", err)
	}
	if len(state.Path) != 1 || state.Path[0] != "Meditation" {
		t.Fatalf("unexpected path: %v", state.Path)
	}

	s.Activate("u1")
	if !s.IsActive("u1") {
		t.Fatal("u1 should be active")
	}
	if got := s.Phase("u1"); got != PhaseArmed {
		t.Fatalf("u1 slot should be armed, got %s", got)
	}

	// Engine starts; then the user navigates away.
	if _, err := s.ReportPlayer("u1", EventPlay); err != nil {
		t.Fatal(err)
	}
	state = s.AscendOne()
	if state.ActiveURL != "" {
		t.Error("navigation must clear the active record")
	}
	if got := s.Phase("u1"); got != PhasePlaying {
		t.Errorf("engine should still be playing after navigation, got %s", got)
	}

	// Reactivating elsewhere and playing pauses the orphan.
	s.Activate("u2")
	pause, err := s.ReportPlayer("u2", EventPlay)
	if err != nil {
		t.Fatal(err)
	}
	if len(pause) != 1 || pause[0] != "u1" {
		t.Errorf("expected u1 in the pause list, got %v", pause)
	}
}

func TestSessionDescendInvalid(t *testing.T) {
	root := testTree()
	s := NewStore(time.Hour).Create()
	s.Activate("u1")

	if _, err := s.Descend(root, "Breathwork"); !errors.Is(err, ErrInvalidNavigation) {
		t.Fatalf("expected ErrInvalidNavigation, got %v", err)
	}
	// The failed transition must leave the session untouched.
	if !s.IsActive("u1") {
		t.Error("active record should survive a rejected descent")
	}
	if len(s.Snapshot().Path) != 0 {
		t.Errorf("path should be unchanged, got %v", s.Snapshot().Path)
	}
}
