// cmd/journey-manager/server.go
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"loan-journey-workers/internal/common/logger"
	"loan-journey-workers/internal/session"
)

// journeyStarter is satisfied by *camunda.Client.
type journeyStarter interface {
	StartJourney(ctx context.Context, bpmnProcessID string, variables map[string]interface{}) (int64, error)
}

// eventHistory is satisfied by *session.SearchRecorder.
type eventHistory interface {
	History(ctx context.Context, applicationID string, limit int) ([]session.Event, error)
}

type serverDeps struct {
	ready     func(ctx context.Context) error
	starter   journeyStarter
	history   eventHistory // nil when the search index is disabled
	processID string
	logger    logger.Logger
}

type startJourneyRequest struct {
	ApplicationID string `json:"applicationId,omitempty"`
	CustomerID    string `json:"customerId,omitempty"`
}

type startJourneyResponse struct {
	ApplicationID      string `json:"applicationId"`
	ProcessInstanceKey int64  `json:"processInstanceKey"`
}

func newServer(addr string, deps serverDeps) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           newMux(deps),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func newMux(deps serverDeps) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := deps.ready(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ready",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/journeys", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
			return
		}

		var req startJourneyRequest
		if r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
				return
			}
		}
		if req.ApplicationID == "" {
			req.ApplicationID = uuid.NewString()
		}

		vars := map[string]interface{}{"applicationId": req.ApplicationID}
		if req.CustomerID != "" {
			vars["customerId"] = req.CustomerID
		}

		key, err := deps.starter.StartJourney(r.Context(), deps.processID, vars)
		if err != nil {
			deps.logger.Error("journey start failed", map[string]interface{}{
				"applicationId": req.ApplicationID,
				"error":         err.Error(),
			})
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": "could not start journey"})
			return
		}

		deps.logger.Info("journey process started", map[string]interface{}{
			"applicationId":      req.ApplicationID,
			"processInstanceKey": key,
		})
		writeJSON(w, http.StatusAccepted, startJourneyResponse{
			ApplicationID:      req.ApplicationID,
			ProcessInstanceKey: key,
		})
	})

	mux.HandleFunc("GET /journeys/{id}/events", func(w http.ResponseWriter, r *http.Request) {
		if deps.history == nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "journey search index disabled"})
			return
		}

		id := r.PathValue("id")
		events, err := deps.history.History(r.Context(), id, 200)
		if err != nil {
			deps.logger.Error("journey history lookup failed", map[string]interface{}{
				"applicationId": id,
				"error":         err.Error(),
			})
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": "could not load journey history"})
			return
		}
		if events == nil {
			events = []session.Event{}
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"applicationId": id,
			"events":        events,
		})
	})

	return mux
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
