package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func doJSON(t *testing.T, router http.Handler, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createSession(t *testing.T, router http.Handler) SessionResponse {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/session", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", w.Code)
	}
	var resp SessionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse session response: %v", err)
	}
	if resp.ID == "" {
		t.Fatal("Expected a session ID")
	}
	return resp
}

func TestCreateSession(t *testing.T) {
	_, router := newTestServer(&fakeCatalog{records: sampleRecords()}, newFakeStore())

	resp := createSession(t, router)
	if len(resp.State.Path) != 0 {
		t.Errorf("Expected empty path, got %v", resp.State.Path)
	}
	if resp.State.ActiveURL != "" {
		t.Errorf("Expected no active URL, got %q", resp.State.ActiveURL)
	}
	if len(resp.View.Categories) != 3 {
		t.Errorf("Expected 3 root categories, got %d", len(resp.View.Categories))
	}
}

func TestGetSessionNotFound(t *testing.T) {
	_, router := newTestServer(&fakeCatalog{records: sampleRecords()}, newFakeStore())

	w := doGet(t, router, "/api/session/no-such-id")
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestNavigateDescendAndBack(t *testing.T) {
	_, router := newTestServer(&fakeCatalog{records: sampleRecords()}, newFakeStore())
	sess := createSession(t, router)
	target := "/api/session/" + sess.ID + "/navigate"

	w := doJSON(t, router, http.MethodPost, target, NavigateRequest{Action: "descend", Label: "Yoga"})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var resp SessionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(resp.State.Path) != 1 || resp.State.Path[0] != "Yoga" {
		t.Fatalf("Expected path [Yoga], got %v", resp.State.Path)
	}

	w = doJSON(t, router, http.MethodPost, target, NavigateRequest{Action: "descend", Label: "Morning Flows"})
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(resp.State.Path) != 2 {
		t.Fatalf("Expected path depth 2, got %v", resp.State.Path)
	}
	if len(resp.View.Items) != 2 {
		t.Errorf("Expected 2 items at leaf, got %d", len(resp.View.Items))
	}

	w = doJSON(t, router, http.MethodPost, target, NavigateRequest{Action: "ascend"})
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(resp.State.Path) != 1 || resp.State.Path[0] != "Yoga" {
		t.Errorf("Expected path [Yoga] after ascend, got %v", resp.State.Path)
	}

	w = doJSON(t, router, http.MethodPost, target, NavigateRequest{Action: "reset"})
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(resp.State.Path) != 0 {
		t.Errorf("Expected empty path after reset, got %v", resp.State.Path)
	}
}

func TestNavigateInvalidDescent(t *testing.T) {
	_, router := newTestServer(&fakeCatalog{records: sampleRecords()}, newFakeStore())
	sess := createSession(t, router)
	target := "/api/session/" + sess.ID + "/navigate"

	w := doJSON(t, router, http.MethodPost, target, NavigateRequest{Action: "descend", Label: "Pilates"})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected status 422, got %d", w.Code)
	}

	// Session left untouched
	w = doGet(t, router, "/api/session/"+sess.ID)
	var resp SessionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(resp.State.Path) != 0 {
		t.Errorf("Expected path unchanged at root, got %v", resp.State.Path)
	}
}

func TestNavigateBadRequests(t *testing.T) {
	_, router := newTestServer(&fakeCatalog{records: sampleRecords()}, newFakeStore())
	sess := createSession(t, router)
	target := "/api/session/" + sess.ID + "/navigate"

	tests := []struct {
		name string
		body interface{}
	}{
		{"unknown action", NavigateRequest{Action: "teleport"}},
		{"descend without label", NavigateRequest{Action: "descend"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, target, tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", w.Code)
			}
		})
	}
}

func TestActivateRecordsHistory(t *testing.T) {
	fs := newFakeStore()
	_, router := newTestServer(&fakeCatalog{records: sampleRecords()}, fs)
	sess := createSession(t, router)

	streamURL := "https://cdn.example.com/audio/morning-calm.m4a"
	w := doJSON(t, router, http.MethodPost, "/api/session/"+sess.ID+"/activate",
		ActivateRequest{URL: streamURL})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp SessionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp.State.ActiveURL != streamURL {
		t.Errorf("Expected active URL %q, got %q", streamURL, resp.State.ActiveURL)
	}

	if len(fs.history) != 1 {
		t.Fatalf("Expected 1 history entry, got %d", len(fs.history))
	}
	// Title resolved from the catalog, not the raw URL
	if fs.history[0].Title != "Morning Calm" {
		t.Errorf("Expected resolved title, got %q", fs.history[0].Title)
	}
}

func TestNavigationClearsActivation(t *testing.T) {
	_, router := newTestServer(&fakeCatalog{records: sampleRecords()}, newFakeStore())
	sess := createSession(t, router)

	doJSON(t, router, http.MethodPost, "/api/session/"+sess.ID+"/activate",
		ActivateRequest{URL: "https://cdn.example.com/audio/deep-sleep.m4a"})

	w := doJSON(t, router, http.MethodPost, "/api/session/"+sess.ID+"/navigate",
		NavigateRequest{Action: "descend", Label: "Sleep"})
	var resp SessionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp.State.ActiveURL != "" {
		t.Errorf("Expected activation cleared by navigation, got %q", resp.State.ActiveURL)
	}
}

func TestPlayerEventExclusivity(t *testing.T) {
	_, router := newTestServer(&fakeCatalog{records: sampleRecords()}, newFakeStore())
	sess := createSession(t, router)
	activate := "/api/session/" + sess.ID + "/activate"
	player := "/api/session/" + sess.ID + "/player"

	first := "https://cdn.example.com/audio/morning-calm.m4a"
	second := "https://cdn.example.com/video/sun-salutation.mp4"

	// First player starts: nothing else to pause
	doJSON(t, router, http.MethodPost, activate, ActivateRequest{URL: first})
	w := doJSON(t, router, http.MethodPost, player, PlayerEventRequest{URL: first, Event: "play"})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var resp PlayerEventResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp.Phase != "playing" {
		t.Errorf("Expected phase playing, got %q", resp.Phase)
	}
	if len(resp.PauseAll) != 0 {
		t.Errorf("Expected nothing to pause, got %v", resp.PauseAll)
	}

	// Second player starts: the first must be paused
	doJSON(t, router, http.MethodPost, activate, ActivateRequest{URL: second})
	w = doJSON(t, router, http.MethodPost, player, PlayerEventRequest{URL: second, Event: "play"})
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(resp.PauseAll) != 1 || resp.PauseAll[0] != first {
		t.Errorf("Expected pause list [%s], got %v", first, resp.PauseAll)
	}

	// Pause leaves the slot armed
	w = doJSON(t, router, http.MethodPost, player, PlayerEventRequest{URL: second, Event: "pause"})
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp.Phase != "armed" {
		t.Errorf("Expected phase armed after pause, got %q", resp.Phase)
	}
}

func TestPlayerEventValidation(t *testing.T) {
	_, router := newTestServer(&fakeCatalog{records: sampleRecords()}, newFakeStore())
	sess := createSession(t, router)
	target := "/api/session/" + sess.ID + "/player"

	tests := []struct {
		name string
		body PlayerEventRequest
	}{
		{"unknown event", PlayerEventRequest{URL: "https://cdn.example.com/a.m4a", Event: "rewind"}},
		{"missing url", PlayerEventRequest{Event: "play"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, target, tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", w.Code)
			}
		})
	}
}
