package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"mindstream/internal/catalog"
	"mindstream/internal/logging"
	"mindstream/internal/metrics"
	"mindstream/internal/session"
)

// Navigation actions accepted by the navigate endpoint.
const (
	actionDescend = "descend"
	actionAscend  = "ascend"
	actionReset   = "reset"
)

// SessionResponse is the state returned after every session operation:
// the navigation snapshot plus the rendered view of the current node.
type SessionResponse struct {
	ID    string        `json:"id"`
	State session.State `json:"state"`
	View  NodeView      `json:"view"`
}

// NavigateRequest is the body of the navigate endpoint.
type NavigateRequest struct {
	Action string `json:"action"`
	Label  string `json:"label,omitempty"`
}

// ActivateRequest is the body of the activate endpoint.
type ActivateRequest struct {
	URL string `json:"url"`
}

// PlayerEventRequest is the body of the player event endpoint.
type PlayerEventRequest struct {
	URL   string `json:"url"`
	Event string `json:"event"`
}

// PlayerEventResponse tells the client which other players to pause.
type PlayerEventResponse struct {
	Phase    session.SlotPhase `json:"phase"`
	PauseAll []string          `json:"pauseAll"`
}

func (h *Handlers) sessionResponse(s *session.Session, query string) SessionResponse {
	state := s.Snapshot()
	node := state.CurrentNode(h.catalog.Tree())
	return SessionResponse{
		ID:    s.ID,
		State: state,
		View:  nodeView(node, state.Path, query),
	}
}

// CreateSession starts a new browsing session at the catalog root.
func (h *Handlers) CreateSession(w http.ResponseWriter, _ *http.Request) {
	s := h.sessions.Create()
	metrics.SessionsCreatedTotal.Inc()
	metrics.SessionsActive.Set(float64(h.sessions.Count()))

	w.WriteHeader(http.StatusCreated)
	writeJSON(w, h.sessionResponse(s, ""))
}

// GetSession returns the current state and view of a session. The ?q=
// filter applies to the items of the current node only.
func (h *Handlers) GetSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookupSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, h.sessionResponse(s, r.URL.Query().Get("q")))
}

// Navigate applies a descend/ascend/reset transition. A descent into a
// label the current node does not have is rejected with 422 and leaves
// the session untouched.
func (h *Handlers) Navigate(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookupSession(w, r)
	if !ok {
		return
	}

	var req NavigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	tree := h.catalog.Tree()

	switch req.Action {
	case actionDescend:
		if req.Label == "" {
			writeJSONError(w, "label is required for descend", http.StatusBadRequest)
			return
		}
		if _, err := s.Descend(tree, req.Label); err != nil {
			if errors.Is(err, session.ErrInvalidNavigation) {
				metrics.NavigationsTotal.WithLabelValues(actionDescend, "invalid").Inc()
				writeJSONError(w, err.Error(), http.StatusUnprocessableEntity)
				return
			}
			writeJSONError(w, "navigation failed", http.StatusInternalServerError)
			return
		}
	case actionAscend:
		s.AscendOne()
	case actionReset:
		s.ResetToRoot()
	default:
		writeJSONError(w, "unknown action", http.StatusBadRequest)
		return
	}

	metrics.NavigationsTotal.WithLabelValues(req.Action, "ok").Inc()
	writeJSON(w, h.sessionResponse(s, ""))
}

// Activate arms the player for one stream URL, implicitly disarming
// any other, and records the activation in the playback history.
func (h *Handlers) Activate(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookupSession(w, r)
	if !ok {
		return
	}

	var req ActivateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		writeJSONError(w, "url is required", http.StatusBadRequest)
		return
	}

	s.Activate(req.URL)
	metrics.ActivationsTotal.Inc()

	// History is best effort; activation must not fail on a slow disk.
	title := req.URL
	if rec, found := h.findRecord(req.URL); found {
		title = rec.Title
	}
	if err := h.db.RecordActivation(r.Context(), req.URL, title); err != nil {
		logging.Warn("failed to record activation: %v", err)
	}

	writeJSON(w, h.sessionResponse(s, ""))
}

// PlayerEvent ingests an engine signal (play/pause/ended) for one
// player and returns the URLs the client must pause so only a single
// player stays audible.
func (h *Handlers) PlayerEvent(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookupSession(w, r)
	if !ok {
		return
	}

	var req PlayerEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		writeJSONError(w, "url is required", http.StatusBadRequest)
		return
	}

	event := session.PlayerEvent(req.Event)
	if !event.Valid() {
		writeJSONError(w, "unknown player event", http.StatusBadRequest)
		return
	}

	pause, err := s.ReportPlayer(req.URL, event)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	metrics.ForcedPausesTotal.Add(float64(len(pause)))

	if pause == nil {
		pause = []string{}
	}
	writeJSON(w, PlayerEventResponse{
		Phase:    s.Phase(req.URL),
		PauseAll: pause,
	})
}

func (h *Handlers) lookupSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := mux.Vars(r)["id"]
	s, err := h.sessions.Get(id)
	if err != nil {
		writeJSONError(w, "session not found", http.StatusNotFound)
		return nil, false
	}
	return s, true
}

func (h *Handlers) findRecord(streamURL string) (catalog.MediaRecord, bool) {
	for _, rec := range h.catalog.Records() {
		if rec.StreamURL == streamURL {
			return rec, true
		}
	}
	return catalog.MediaRecord{}, false
}
