package handlers

import (
	"net/http"
	"runtime"

	"mindstream/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusStarting = "starting"
	statusDegraded = "degraded"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status           string `json:"status"`
	Ready            bool   `json:"ready"`
	Version          string `json:"version"`
	Uptime           string `json:"uptime"`
	Loading          bool   `json:"loading"`
	LastLoaded       string `json:"lastLoaded,omitempty"`
	InitialLoadError string `json:"initialLoadError,omitempty"`

	// Catalog summary
	Records  int `json:"records"`
	Sections int `json:"sections"`
	Dropped  int `json:"dropped"`

	// System info
	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`

	// Persistence summary
	Favorites int `json:"favorites,omitempty"`
	History   int `json:"history,omitempty"`
}

// HealthCheck returns the health status of the service
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	healthStatus := h.catalog.GetHealthStatus()
	counts := h.db.GetCounts(r.Context())

	response := HealthResponse{
		Ready:        healthStatus.Ready,
		Version:      startup.Version,
		Uptime:       healthStatus.Uptime,
		Loading:      healthStatus.Loading,
		Records:      healthStatus.Records,
		Sections:     healthStatus.Sections,
		Dropped:      healthStatus.Dropped,
		GoVersion:    runtime.Version(),
		NumCPU:       runtime.NumCPU(),
		NumGoroutine: runtime.NumGoroutine(),
	}

	if healthStatus.Ready {
		response.Status = statusHealthy
	} else {
		response.Status = statusStarting
	}

	if !healthStatus.LastLoaded.IsZero() {
		response.LastLoaded = healthStatus.LastLoaded.Format("2006-01-02T15:04:05Z07:00")
	}

	if healthStatus.InitialLoadError != "" {
		response.InitialLoadError = healthStatus.InitialLoadError
		response.Status = statusDegraded
	}

	if counts.Favorites > 0 || counts.History > 0 {
		response.Favorites = counts.Favorites
		response.History = counts.History
	}

	w.Header().Set("Content-Type", "application/json")

	// Return 503 only if not ready at all
	if !healthStatus.Ready {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	writeJSON(w, response)
}

// LivenessCheck is a simple liveness probe (always returns 200 if server is running)
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	// For HEAD requests, only send headers (no body)
	if r.Method != http.MethodHead {
		writeJSON(w, map[string]string{
			"status": "alive",
		})
	}
}

// ReadinessCheck returns 200 only when the catalog is loaded and the
// service can serve browse traffic
func (h *Handlers) ReadinessCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if h.catalog.GetHealthStatus().Ready {
		w.WriteHeader(http.StatusOK)
		writeJSON(w, map[string]string{
			"status": "ready",
		})
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
		writeJSON(w, map[string]string{
			"status": "not_ready",
		})
	}
}
